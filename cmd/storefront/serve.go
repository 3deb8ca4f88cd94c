package main

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/common-nighthawk/go-figure"
	"github.com/jrsteele09/go-storefront/auth"
	"github.com/jrsteele09/go-storefront/server"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

const shutdownTimeout = 5 * time.Second

func newServeCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the web shell (home, sign-in and registration pages)",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(cmd, opts)
		},
	}
}

func runServe(cmd *cobra.Command, opts *rootOptions) error {
	displayAppname(cmd.OutOrStdout(), opts.cfg.GetAppName())

	return withClient(cmd.Context(), opts, func(client *auth.Client) error {
		handler, err := server.New(opts.cfg, client)
		if err != nil {
			return err
		}
		return serveUntilStopped(cmd.Context(), &http.Server{
			Addr:              opts.cfg.GetPort(),
			Handler:           handler,
			ReadHeaderTimeout: 10 * time.Second,
		})
	})
}

// serveUntilStopped runs srv until it fails, ctx is done or the process
// receives SIGINT/SIGTERM, then shuts it down gracefully.
func serveUntilStopped(ctx context.Context, srv *http.Server) error {
	stopCtx, stop := waitForStopSignal(ctx)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		errCh <- listenAndServe(srv)
	}()

	select {
	case err := <-errCh:
		return err
	case <-stopCtx.Done():
	}
	return shutdown(srv)
}

func listenAndServe(srv *http.Server) error {
	log.Info().Str("addr", srv.Addr).Msg("Server listening")
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("server.ListenAndServe %w", err)
	}
	return nil
}

func waitForStopSignal(ctx context.Context) (context.Context, context.CancelFunc) {
	return signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
}

func shutdown(srv *http.Server) error {
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		return fmt.Errorf("server.Shutdown: %w", err)
	}
	log.Info().Str("addr", srv.Addr).Msg("Server stopped")
	return nil
}

func displayAppname(w io.Writer, appname string) {
	myFigure := figure.NewFigure(appname, "cybermedium", true)
	fmt.Fprintln(w, myFigure.String())
}
