package ingestion

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const postingPage = `<!DOCTYPE html>
<html>
<head><title>Backend Engineer - Acme</title><script>var x = 1;</script></head>
<body>
<nav>Home Jobs About</nav>
<main>
<h1>Backend Engineer</h1>
<p>Build   Go services on PostgreSQL.</p>
<ul><li>Kubernetes</li><li>Redis</li></ul>
</main>
<footer>Copyright Acme</footer>
</body>
</html>`

func serve(t *testing.T, status int, body string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestExtractMainText(t *testing.T) {
	title, text, err := ExtractMainText(postingPage)
	require.NoError(t, err)

	assert.Equal(t, "Backend Engineer - Acme", title)
	assert.Contains(t, text, "Backend Engineer")
	assert.Contains(t, text, "PostgreSQL")
	assert.Contains(t, text, "- Kubernetes")
	assert.NotContains(t, text, "Home Jobs")
	assert.NotContains(t, text, "Copyright")
	assert.NotContains(t, text, "var x")
}

func TestExtractMainText_FallsBackToBody(t *testing.T) {
	_, text, err := ExtractMainText(`<html><body><div>Only body text</div></body></html>`)
	require.NoError(t, err)
	assert.Equal(t, "Only body text", text)
}

func TestFromURL(t *testing.T) {
	srv := serve(t, http.StatusOK, postingPage)

	text, meta, err := FromURL(context.Background(), srv.URL, nil)
	require.NoError(t, err)

	assert.Contains(t, text, "Build Go services on PostgreSQL.")
	assert.Contains(t, text, "- Redis")
	assert.NotContains(t, text, "\n\n\n")
	require.NotNil(t, meta)
	assert.Equal(t, srv.URL, meta.URL)
	assert.Equal(t, "Backend Engineer - Acme", meta.Title)
	assert.False(t, meta.Rendered)
}

func TestFromURL_Errors(t *testing.T) {
	t.Run("http status", func(t *testing.T) {
		srv := serve(t, http.StatusNotFound, "gone")
		_, _, err := FromURL(context.Background(), srv.URL, nil)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "404")
	})

	t.Run("invalid url", func(t *testing.T) {
		_, _, err := FromURL(context.Background(), "not-a-url", nil)
		require.Error(t, err)
	})

	t.Run("no text", func(t *testing.T) {
		srv := serve(t, http.StatusOK, `<html><body><script>app()</script></body></html>`)
		_, _, err := FromURL(context.Background(), srv.URL, nil)
		assert.True(t, errors.Is(err, ErrEmptyJobDescription))
	})
}

func TestFromURL_RenderFallback(t *testing.T) {
	srv := serve(t, http.StatusOK, `<html><body><div id="root"></div><noscript>Enable JS</noscript></body></html>`)
	long := strings.Repeat("Go PostgreSQL Kubernetes ", 20)

	var rendered []string
	opts := &URLOptions{
		Render: func(_ context.Context, url string) (string, error) {
			rendered = append(rendered, url)
			return `<html><body><main><p>` + long + `</p></main></body></html>`, nil
		},
	}

	text, meta, err := FromURL(context.Background(), srv.URL, opts)
	require.NoError(t, err)
	assert.Equal(t, []string{srv.URL}, rendered)
	assert.Contains(t, text, "Kubernetes")
	assert.True(t, meta.Rendered)
}

func TestFromURL_RenderFailureKeepsStaticText(t *testing.T) {
	srv := serve(t, http.StatusOK, `<html><body><main><p>Short posting</p></main></body></html>`)
	opts := &URLOptions{
		Render: func(context.Context, string) (string, error) {
			return "", errors.New("no chrome")
		},
	}

	text, meta, err := FromURL(context.Background(), srv.URL, opts)
	require.NoError(t, err)
	assert.Equal(t, "Short posting", text)
	assert.False(t, meta.Rendered)
}
