//go:build integration

package cache

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/resume-packer/internal/types"
)

func setupRedis(t *testing.T) *Redis {
	url := os.Getenv("TEST_REDIS_URL")
	if url == "" {
		t.Skip("TEST_REDIS_URL not set")
	}

	r, err := New(context.Background(), url)
	require.NoError(t, err)
	r.prefix = "resume-packer-test:" + t.Name() + ":"
	t.Cleanup(func() { _ = r.Close() })
	return r
}

func TestRedis_RoundTrip(t *testing.T) {
	r := setupRedis(t)
	ctx := context.Background()

	_, found, err := r.GetProjects(ctx, "octo")
	require.NoError(t, err)
	assert.False(t, found)

	projects := []types.ProjectEntry{{Title: "packer", URL: "https://github.com/octo/packer", Bullets: []string{"Built it"}}}
	require.NoError(t, r.PutProjects(ctx, "octo", projects, time.Minute))

	got, found, err := r.GetProjects(ctx, "OCTO")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, projects, got)

	require.NoError(t, r.Invalidate(ctx, "octo"))
	_, found, err = r.GetProjects(ctx, "octo")
	require.NoError(t, err)
	assert.False(t, found)
}

func TestRedis_Expiry(t *testing.T) {
	r := setupRedis(t)
	ctx := context.Background()

	require.NoError(t, r.PutProjects(ctx, "octo", nil, 50*time.Millisecond))
	got, found, err := r.GetProjects(ctx, "octo")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Empty(t, got)

	time.Sleep(150 * time.Millisecond)
	_, found, err = r.GetProjects(ctx, "octo")
	require.NoError(t, err)
	assert.False(t, found)
}
