package main

import (
	"github.com/jrsteele09/go-storefront/internal/config"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

// rootOptions holds the persistent flags shared by every subcommand. Empty
// values fall back to the environment configuration.
type rootOptions struct {
	store    string
	apiURL   string
	logLevel string
	cfg      config.Config
}

func (o *rootOptions) sessionStore() config.SessionStoreType {
	if o.store != "" {
		return config.SessionStoreType(o.store)
	}
	return o.cfg.GetSessionStore()
}

func (o *rootOptions) apiBaseURL() string {
	if o.apiURL != "" {
		return o.apiURL
	}
	return o.cfg.GetAPIBaseURL()
}

// NewRootCmd creates the root command for the storefront CLI.
func NewRootCmd() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:   "storefront",
		Short: "Storefront web shell and account CLI",
		Long: `Storefront serves the sign-in, registration and home pages of the
store and manages the locally stored session from the command line.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			level, err := zerolog.ParseLevel(opts.logLevel)
			if err != nil {
				return err
			}
			zerolog.SetGlobalLevel(level)
			log.Logger = zerolog.New(zerolog.ConsoleWriter{Out: cmd.ErrOrStderr()}).With().Timestamp().Logger()

			opts.cfg = config.New()
			return nil
		},
	}

	cmd.PersistentFlags().StringVar(&opts.store, "store", "", "session store: sqlite, memory or redis (default $SESSION_STORE)")
	cmd.PersistentFlags().StringVar(&opts.apiURL, "api", "", "remote API base URL (default $API_BASE_URL)")
	cmd.PersistentFlags().StringVar(&opts.logLevel, "log-level", "info", "log level")

	cmd.AddCommand(newServeCmd(opts))
	cmd.AddCommand(newDevAPICmd(opts))
	cmd.AddCommand(newRegisterCmd(opts))
	cmd.AddCommand(newLoginCmd(opts))
	cmd.AddCommand(newLogoutCmd(opts))
	cmd.AddCommand(newWhoamiCmd(opts))
	cmd.AddCommand(newVerifyCmd(opts))

	return cmd
}
