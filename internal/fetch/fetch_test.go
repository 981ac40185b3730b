package fetch

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestURL(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		_, _ = w.Write([]byte("<html><body><h1>octo</h1></body></html>"))
	}))
	defer server.Close()

	result, err := URL(context.Background(), server.URL, nil)
	require.NoError(t, err)
	assert.Equal(t, server.URL, result.URL)
	assert.Contains(t, result.HTML, "<h1>octo</h1>")
	assert.Equal(t, "text/html", result.ContentType)
	assert.Equal(t, http.StatusOK, result.StatusCode)
}

func TestURL_InvalidURL(t *testing.T) {
	for _, raw := range []string{"", "not-a-valid-url", "example.com/user", "http://"} {
		t.Run(raw, func(t *testing.T) {
			_, err := URL(context.Background(), raw, nil)
			var fetchErr *Error
			require.ErrorAs(t, err, &fetchErr)
			assert.Zero(t, fetchErr.StatusCode)
			assert.Contains(t, err.Error(), "invalid URL")
		})
	}
}

func TestURL_StatusErrors(t *testing.T) {
	tests := []struct {
		name     string
		status   int
		notFound bool
	}{
		{"not found", http.StatusNotFound, true},
		{"rate limited", http.StatusTooManyRequests, false},
		{"server error", http.StatusBadGateway, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte("nope"))
			}))
			defer server.Close()

			result, err := URL(context.Background(), server.URL, nil)
			require.Error(t, err)
			require.NotNil(t, result)
			assert.Equal(t, tt.status, result.StatusCode)
			assert.Equal(t, "nope", result.HTML)

			var fetchErr *Error
			require.ErrorAs(t, err, &fetchErr)
			assert.Equal(t, tt.status, fetchErr.StatusCode)
			assert.Equal(t, tt.notFound, fetchErr.NotFound())
		})
	}
}

func TestURL_SendsHeaders(t *testing.T) {
	var gotAgent, gotAccept string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAgent = r.Header.Get("User-Agent")
		gotAccept = r.Header.Get("Accept")
	}))
	defer server.Close()

	opts := DefaultOptions()
	opts.Headers = map[string]string{"Accept": "text/html"}

	_, err := URL(context.Background(), server.URL, opts)
	require.NoError(t, err)
	assert.Equal(t, DefaultUserAgent, gotAgent)
	assert.Equal(t, "text/html", gotAccept)

	_, err = URL(context.Background(), server.URL, &Options{})
	require.NoError(t, err)
	assert.Equal(t, DefaultUserAgent, gotAgent)
}

func TestURL_BodyLimit(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(strings.Repeat("x", 64)))
	}))
	defer server.Close()

	_, err := URL(context.Background(), server.URL, &Options{MaxBytes: 32})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrBodyTooLarge))

	result, err := URL(context.Background(), server.URL, &Options{MaxBytes: 64})
	require.NoError(t, err)
	assert.Len(t, result.HTML, 64)
}

func TestURL_CustomClientTimeout(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(_ http.ResponseWriter, _ *http.Request) {
		time.Sleep(200 * time.Millisecond)
	}))
	defer server.Close()

	_, err := URL(context.Background(), server.URL, &Options{Client: &http.Client{Timeout: 20 * time.Millisecond}})
	var fetchErr *Error
	require.ErrorAs(t, err, &fetchErr)
	assert.Contains(t, err.Error(), "request failed")
}

func TestCollapseSpace(t *testing.T) {
	assert.Equal(t, "resume packer", collapseSpace("\n   resume\n\t packer  \n"))
	assert.Equal(t, "", collapseSpace("  \n "))
}
