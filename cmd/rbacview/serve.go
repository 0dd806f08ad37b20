package main

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"rbacview/internal/server"
)

const envToken = "RBACVIEW_TOKEN"

func newServeCmd(a *app) *cobra.Command {
	var (
		addr  string
		token string
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the RBAC API over HTTP",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if token == "" {
				token = os.Getenv(envToken)
			}
			if token == "" {
				token = randomToken(24)
			}
			return a.runServe(cmd.Context(), addr, token)
		},
	}

	cmd.Flags().StringVar(&addr, "listen", "127.0.0.1:10443", "listen address")
	cmd.Flags().StringVar(&token, "token", "", "API token (defaults to $"+envToken+", or a random one)")

	return cmd
}

func (a *app) runServe(ctx context.Context, addr, token string) error {
	mgr, err := a.manager()
	if err != nil {
		return fmt.Errorf("init cluster manager: %w", err)
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	srv := &http.Server{
		Addr:              addr,
		Handler:           server.New(mgr, token, a.log.WithName("server")).Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	a.log.Info("listening", "addr", "http://"+addr, "context", mgr.ActiveContext())
	a.log.Info("api token", "url", fmt.Sprintf("http://%s/api/healthz?token=%s", addr, token))

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("listen: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	a.log.Info("shutting down")
	return srv.Shutdown(shutdownCtx)
}

func randomToken(nbytes int) string {
	b := make([]byte, nbytes)
	_, _ = rand.Read(b)
	return hex.EncodeToString(b)
}
