package sessions_test

import (
	"context"
	"sync"
	"testing"

	"github.com/jrsteele09/go-storefront/sessions"
	"github.com/jrsteele09/go-storefront/sessions/memstore"
	"github.com/jrsteele09/go-storefront/token"
	"github.com/jrsteele09/go-storefront/users"
	"github.com/stretchr/testify/require"
)

func testSession(email string) sessions.Session {
	return sessions.Session{
		Jwt:  token.Jwt{Token: "h.p.s"},
		User: users.DisplayUser{ID: "u-1", Name: "Ann", Email: email},
	}
}

func TestStore_SetSession(t *testing.T) {
	ctx := context.Background()
	repo := memstore.New()
	store := sessions.NewStore(repo)

	require.NoError(t, store.SetSession(ctx, testSession("a@b.com")))

	rawJwt, ok, err := repo.Read(ctx, sessions.SlotJwt)
	require.NoError(t, err)
	require.True(t, ok)
	require.JSONEq(t, `{"token":"h.p.s"}`, rawJwt)

	rawUser, ok, err := repo.Read(ctx, sessions.SlotUser)
	require.NoError(t, err)
	require.True(t, ok)
	require.JSONEq(t, `{"id":"u-1","name":"Ann","email":"a@b.com"}`, rawUser)

	identity, err := store.Identity(ctx)
	require.NoError(t, err)
	require.Equal(t, "a@b.com", identity.Email)

	jwt, err := store.Token(ctx)
	require.NoError(t, err)
	require.Equal(t, "h.p.s", jwt.Token)
}

func TestStore_SetSessionOverwrites(t *testing.T) {
	ctx := context.Background()
	store := sessions.NewStore(memstore.New())

	require.NoError(t, store.SetSession(ctx, testSession("first@b.com")))
	require.NoError(t, store.SetSession(ctx, testSession("second@b.com")))

	session, err := store.Session(ctx)
	require.NoError(t, err)
	require.Equal(t, "second@b.com", session.User.Email)
}

func TestStore_EmptyHasNoSession(t *testing.T) {
	store := sessions.NewStore(memstore.New())

	_, err := store.Session(context.Background())
	require.ErrorIs(t, err, sessions.ErrNoSession)

	_, err = store.Identity(context.Background())
	require.ErrorIs(t, err, sessions.ErrNoSession)
}

func TestStore_HalfWrittenRepoReadsAsNoSession(t *testing.T) {
	ctx := context.Background()
	repo := memstore.New()
	require.NoError(t, repo.Write(ctx, sessions.SlotJwt, `{"token":"h.p.s"}`))

	_, err := sessions.NewStore(repo).Session(ctx)
	require.ErrorIs(t, err, sessions.ErrNoSession)
}

func TestStore_ClearSession(t *testing.T) {
	ctx := context.Background()
	repo := memstore.New()
	store := sessions.NewStore(repo)

	require.NoError(t, store.ClearSession(ctx))
	require.NoError(t, store.SetSession(ctx, testSession("a@b.com")))
	require.NoError(t, store.ClearSession(ctx))
	require.NoError(t, store.ClearSession(ctx))
	require.Zero(t, repo.Len())
}

func TestStore_CorruptSlot(t *testing.T) {
	ctx := context.Background()
	repo := memstore.New()
	require.NoError(t, repo.WriteAll(ctx, map[sessions.Slot]string{
		sessions.SlotJwt:  "not json",
		sessions.SlotUser: `{}`,
	}))

	_, err := sessions.NewStore(repo).Session(ctx)
	require.Error(t, err)
	require.NotErrorIs(t, err, sessions.ErrNoSession)
}

func TestStore_SessionIsConsistentDuringConcurrentLogins(t *testing.T) {
	ctx := context.Background()
	store := sessions.NewStore(memstore.New())

	stop := make(chan struct{})
	var wg sync.WaitGroup
	defer func() {
		close(stop)
		wg.Wait()
	}()

	wg.Add(1)
	go func() {
		defer wg.Done()
		for i := 0; ; i++ {
			select {
			case <-stop:
				return
			default:
			}
			name := []string{"A", "B"}[i%2]
			_ = store.SetSession(ctx, sessions.Session{
				Jwt:  token.Jwt{Token: name},
				User: users.DisplayUser{Email: name},
			})
		}
	}()

	for i := 0; i < 20000; i++ {
		session, err := store.Session(ctx)
		if err != nil {
			require.ErrorIs(t, err, sessions.ErrNoSession)
			continue
		}
		require.Equal(t, session.Token(), session.User.Email, "identity does not belong to its token")
	}
}
