package redisstore_test

import (
	"context"
	"os"
	"testing"

	"github.com/google/uuid"
	"github.com/jrsteele09/go-storefront/sessions"
	"github.com/jrsteele09/go-storefront/sessions/redisstore"
	"github.com/jrsteele09/go-storefront/sessions/sessionstest"
	"github.com/stretchr/testify/require"
)

// Requires a reachable Redis, e.g. REDIS_URL=redis://localhost:6379/15
func TestRedisRepo(t *testing.T) {
	redisURL := os.Getenv("REDIS_URL")
	if redisURL == "" {
		t.Skip("REDIS_URL not set")
	}

	sessionstest.RunRepoTests(t, func(t *testing.T) sessions.Repo {
		prefix := "storefront-test:" + uuid.NewString() + ":"
		repo, err := redisstore.New(context.Background(), redisURL, prefix)
		require.NoError(t, err)
		t.Cleanup(func() {
			_ = repo.Clear(context.Background(), sessions.Slots...)
			_ = repo.Close()
		})
		return repo
	})
}

func TestNew_InvalidURL(t *testing.T) {
	_, err := redisstore.New(context.Background(), "not-a-url", "p:")
	require.Error(t, err)
}
