package main

import (
	"context"

	"github.com/jrsteele09/go-storefront/auth"
	"github.com/jrsteele09/go-storefront/internal/config"
	"github.com/jrsteele09/go-storefront/sessions"
	"github.com/jrsteele09/go-storefront/sessions/memstore"
	"github.com/jrsteele09/go-storefront/sessions/redisstore"
	"github.com/jrsteele09/go-storefront/sessions/sqlitestore"
	"github.com/jrsteele09/go-storefront/token"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
)

// openSessionStore builds the session store backend selected by storeType
func openSessionStore(ctx context.Context, cfg config.SessionConfig, storeType config.SessionStoreType) (*sessions.Store, error) {
	var repo sessions.Repo
	switch storeType {
	case config.SessionStoreMemory:
		repo = memstore.New()
	case config.SessionStoreSQLite:
		sqliteRepo, err := sqlitestore.New(cfg.GetSessionDBPath())
		if err != nil {
			return nil, errors.Wrap(err, "[openSessionStore] sqlite")
		}
		repo = sqliteRepo
	case config.SessionStoreRedis:
		redisRepo, err := redisstore.New(ctx, cfg.GetRedisURL(), cfg.GetRedisKeyPrefix())
		if err != nil {
			return nil, errors.Wrap(err, "[openSessionStore] redis")
		}
		repo = redisRepo
	default:
		return nil, errors.Errorf("[openSessionStore] unknown session store %q", storeType)
	}

	log.Debug().Str("store", string(storeType)).Msg("Opened session store")
	return sessions.NewStore(repo), nil
}

// newAuthClient wires the auth client. Signature verification is only
// enabled when a JWKS URL is configured.
func newAuthClient(ctx context.Context, cfg config.ClientConfig, baseURL string, store *sessions.Store) (*auth.Client, error) {
	options := []auth.ClientOption{auth.WithTimeout(cfg.GetClientTimeout())}
	if jwksURL := cfg.GetJWKSURL(); jwksURL != "" {
		options = append(options, auth.WithVerifier(token.NewRemoteVerifier(ctx, jwksURL, cfg.GetTokenIssuer())))
		log.Info().Str("jwks_url", jwksURL).Msg("Token signature verification enabled")
	}
	return auth.NewClient(baseURL, store, options...)
}

// withClient opens the configured store, builds a client over it and runs fn.
// The store is closed afterwards.
func withClient(ctx context.Context, opts *rootOptions, fn func(*auth.Client) error) error {
	store, err := openSessionStore(ctx, opts.cfg, opts.sessionStore())
	if err != nil {
		return err
	}
	defer func() {
		if err := store.Close(); err != nil {
			log.Err(err).Msg("Failed to close session store")
		}
	}()

	client, err := newAuthClient(ctx, opts.cfg, opts.apiBaseURL(), store)
	if err != nil {
		return err
	}
	return fn(client)
}
