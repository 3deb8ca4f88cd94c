package main

import (
	"net/http"
	"time"

	"github.com/jrsteele09/go-storefront/apistub"
	"github.com/jrsteele09/go-storefront/internal/config"
	"github.com/jrsteele09/go-storefront/token/keys"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

// devAPIConfig holds configuration for the devapi command.
type devAPIConfig struct {
	port string
	rsa  bool
}

func newDevAPICmd(opts *rootOptions) *cobra.Command {
	cfg := &devAPIConfig{}

	cmd := &cobra.Command{
		Use:   "devapi",
		Short: "Run an in-memory remote API for local development",
		Long: `Run an in-memory implementation of the remote auth API
(/auth/register, /auth/login, /auth/verify-jwt). Accounts are lost on exit.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runDevAPI(cmd, opts, cfg)
		},
	}

	cmd.Flags().StringVar(&cfg.port, "port", "", "listen port (default $STUB_PORT)")
	cmd.Flags().BoolVar(&cfg.rsa, "rsa", false, "sign RS256 tokens and publish a JWKS instead of HS256")

	return cmd
}

func runDevAPI(cmd *cobra.Command, opts *rootOptions, cfg *devAPIConfig) error {
	stubOptions := []apistub.Option{
		apistub.WithTokenExpiry(opts.cfg.GetStubTokenExpiry()),
		apistub.WithIssuer(opts.cfg.GetTokenIssuer()),
		apistub.WithCors(opts.cfg),
	}

	if cfg.rsa {
		keyPair, err := keys.GenerateRSAKeyPair("devapi-"+time.Now().UTC().Format("20060102"), 2048)
		if err != nil {
			return errors.Wrap(err, "[runDevAPI] generate key pair")
		}
		stubOptions = append(stubOptions, apistub.WithSigner(keys.NewKeyPairSigner(keyPair)))
		log.Info().Str("jwks_path", apistub.RouteJWKS).Msg("Signing RS256 tokens")
	}

	addr := opts.cfg.GetStubPort()
	if cfg.port != "" {
		addr = config.ListenAddr(cfg.port)
	}

	return serveUntilStopped(cmd.Context(), &http.Server{
		Addr:              addr,
		Handler:           apistub.New(opts.cfg.GetStubSigningSecret(), stubOptions...),
		ReadHeaderTimeout: 10 * time.Second,
	})
}
