package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/harrisonrobin/schedalize/pkg/auth"
	"github.com/harrisonrobin/schedalize/pkg/backend"
	"github.com/spf13/cobra"
)

const devUser = "dev-user"

func (a *app) devSecret(flag string) ([]byte, error) {
	secret := a.cfg.Dev.Secret
	if flag != "" {
		secret = flag
	}
	if secret == "" {
		return nil, fmt.Errorf("no signing secret: pass --secret or run `schedalize config set dev.secret <value>`")
	}
	return []byte(secret), nil
}

func serveDevCmd(a *app) *cobra.Command {
	var addr, secret string

	cmd := &cobra.Command{
		Use:   "serve-dev",
		Short: "Run an in-memory backend for local development",
		RunE: func(cmd *cobra.Command, args []string) error {
			key, err := a.devSecret(secret)
			if err != nil {
				return err
			}
			if addr == "" {
				addr = a.cfg.Dev.Addr
			}

			gin.SetMode(gin.ReleaseMode)
			srv := &http.Server{
				Addr:              addr,
				Handler:           backend.New(key).Router(),
				ReadHeaderTimeout: 10 * time.Second,
			}

			errCh := make(chan error, 1)
			go func() {
				log.Printf("[serve-dev] listening on http://%s", addr)
				if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					errCh <- err
				}
				close(errCh)
			}()

			select {
			case err := <-errCh:
				return err
			case <-cmd.Context().Done():
			}

			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			log.Printf("[serve-dev] shutting down")
			return srv.Shutdown(shutdownCtx)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "Listen address (default from config)")
	cmd.Flags().StringVar(&secret, "secret", "", "JWT signing secret (default from config)")
	return cmd
}

func devTokenCmd(a *app) *cobra.Command {
	var secret, user string
	var ttl time.Duration
	var login bool

	cmd := &cobra.Command{
		Use:   "dev-token",
		Short: "Mint an access token for the development backend",
		RunE: func(cmd *cobra.Command, args []string) error {
			key, err := a.devSecret(secret)
			if err != nil {
				return err
			}
			token, err := backend.IssueToken(key, user, ttl)
			if err != nil {
				return err
			}
			if !login {
				fmt.Fprintln(cmd.OutOrStdout(), token)
				return nil
			}

			store, err := auth.NewTokenStore(auth.TokenFile)
			if err != nil {
				return err
			}
			if err := store.SaveBearer(token); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Logged in as %s (expires in %s)\n", user, ttl)
			return nil
		},
	}

	cmd.Flags().StringVar(&secret, "secret", "", "JWT signing secret (default from config)")
	cmd.Flags().StringVar(&user, "user", devUser, "Subject of the token")
	cmd.Flags().DurationVar(&ttl, "ttl", 24*time.Hour, "Token lifetime")
	cmd.Flags().BoolVar(&login, "login", false, "Store the token instead of printing it")
	return cmd
}
