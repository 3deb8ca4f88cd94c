// Package sessionstest holds behaviour checks shared by every sessions.Repo
// implementation.
package sessionstest

import (
	"context"
	"fmt"
	"testing"

	"github.com/jrsteele09/go-storefront/sessions"
	"github.com/stretchr/testify/require"
)

// RunRepoTests exercises the sessions.Repo contract against repos built by newRepo.
// Each subtest gets a fresh, empty repo.
func RunRepoTests(t *testing.T, newRepo func(t *testing.T) sessions.Repo) {
	t.Helper()
	ctx := context.Background()

	t.Run("read absent slot", func(t *testing.T) {
		repo := newRepo(t)
		value, ok, err := repo.Read(ctx, sessions.SlotJwt)
		require.NoError(t, err)
		require.False(t, ok)
		require.Empty(t, value)
	})

	t.Run("write overwrites", func(t *testing.T) {
		repo := newRepo(t)
		require.NoError(t, repo.Write(ctx, sessions.SlotJwt, `{"token":"a"}`))
		require.NoError(t, repo.Write(ctx, sessions.SlotJwt, `{"token":"b"}`))

		value, ok, err := repo.Read(ctx, sessions.SlotJwt)
		require.NoError(t, err)
		require.True(t, ok)
		require.Equal(t, `{"token":"b"}`, value)
	})

	t.Run("write all populates every slot", func(t *testing.T) {
		repo := newRepo(t)
		require.NoError(t, repo.WriteAll(ctx, map[sessions.Slot]string{
			sessions.SlotJwt:  `{"token":"t"}`,
			sessions.SlotUser: `{"email":"a@b.com"}`,
		}))

		for _, slot := range sessions.Slots {
			_, ok, err := repo.Read(ctx, slot)
			require.NoError(t, err)
			require.True(t, ok, slot)
		}
	})

	t.Run("read all skips absent slots", func(t *testing.T) {
		repo := newRepo(t)
		require.NoError(t, repo.Write(ctx, sessions.SlotUser, "u"))

		values, err := repo.ReadAll(ctx, sessions.Slots...)
		require.NoError(t, err)
		require.Equal(t, map[sessions.Slot]string{sessions.SlotUser: "u"}, values)

		values, err = repo.ReadAll(ctx)
		require.NoError(t, err)
		require.Empty(t, values)
	})

	t.Run("read all never sees a partial write", func(t *testing.T) {
		repo := newRepo(t)
		const writes = 200

		done := make(chan error, 1)
		go func() {
			defer close(done)
			for i := 0; i < writes; i++ {
				value := fmt.Sprintf("v%d", i%2)
				if err := repo.WriteAll(ctx, map[sessions.Slot]string{
					sessions.SlotJwt:  value,
					sessions.SlotUser: value,
				}); err != nil {
					done <- err
					return
				}
			}
		}()

		for finished := false; !finished; {
			select {
			case err := <-done:
				require.NoError(t, err)
				finished = true
			default:
			}

			values, err := repo.ReadAll(ctx, sessions.Slots...)
			require.NoError(t, err)
			if len(values) == 0 {
				continue
			}
			require.Len(t, values, 2)
			require.Equal(t, values[sessions.SlotJwt], values[sessions.SlotUser])
		}
	})

	t.Run("clear is idempotent", func(t *testing.T) {
		repo := newRepo(t)
		require.NoError(t, repo.Write(ctx, sessions.SlotUser, `{}`))

		require.NoError(t, repo.Clear(ctx, sessions.Slots...))
		require.NoError(t, repo.Clear(ctx, sessions.Slots...))
		require.NoError(t, repo.Clear(ctx))

		_, ok, err := repo.Read(ctx, sessions.SlotUser)
		require.NoError(t, err)
		require.False(t, ok)
	})

	t.Run("clear leaves other slots", func(t *testing.T) {
		repo := newRepo(t)
		require.NoError(t, repo.Write(ctx, sessions.SlotJwt, "j"))
		require.NoError(t, repo.Write(ctx, sessions.SlotUser, "u"))
		require.NoError(t, repo.Clear(ctx, sessions.SlotJwt))

		value, ok, err := repo.Read(ctx, sessions.SlotUser)
		require.NoError(t, err)
		require.True(t, ok)
		require.Equal(t, "u", value)
	})
}
