package memstore_test

import (
	"testing"

	"github.com/jrsteele09/go-storefront/sessions"
	"github.com/jrsteele09/go-storefront/sessions/memstore"
	"github.com/jrsteele09/go-storefront/sessions/sessionstest"
)

func TestInMemoryRepo(t *testing.T) {
	sessionstest.RunRepoTests(t, func(t *testing.T) sessions.Repo {
		return memstore.New()
	})
}
