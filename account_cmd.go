package main

import (
	"fmt"
	"strings"

	"github.com/harrisonrobin/schedalize/pkg/auth"
	"github.com/harrisonrobin/schedalize/pkg/config"
	"github.com/harrisonrobin/schedalize/pkg/google"
	"github.com/spf13/cobra"
)

func loginCmd() *cobra.Command {
	var token string

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Store the backend access token",
		RunE: func(cmd *cobra.Command, args []string) error {
			token = strings.TrimSpace(token)
			if token == "" {
				return fmt.Errorf("--token is required")
			}
			store, err := auth.NewTokenStore(auth.TokenFile)
			if err != nil {
				return err
			}
			if err := store.SaveBearer(token); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Token saved to %s\n", store.Path)
			return nil
		},
	}

	cmd.Flags().StringVar(&token, "token", "", "Access token issued by the backend")
	return cmd
}

func logoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Forget the stored access token",
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := auth.NewTokenStore(auth.TokenFile)
			if err != nil {
				return err
			}
			if err := store.Clear(); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Logged out.")
			return nil
		},
	}
}

func configCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Show or change settings",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Print the effective settings",
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := config.GetConfigPath()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "# %s\n", path)
			fmt.Fprintf(out, "api_url: %s\n", a.cfg.APIURL)
			fmt.Fprintf(out, "calendar: %s\n", a.cfg.Calendar)
			fmt.Fprintf(out, "window_days: %d\n", a.cfg.WindowDays)
			fmt.Fprintf(out, "timeout: %s\n", a.cfg.Timeout)
			fmt.Fprintf(out, "templates_file: %s\n", a.cfg.TemplatesFile)
			fmt.Fprintf(out, "dev.addr: %s\n", a.cfg.Dev.Addr)
			if a.cfg.Dev.Secret != "" {
				fmt.Fprintln(out, "dev.secret: (set)")
			}
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "set <key> <value>",
		Short: "Change one setting (" + strings.Join(config.Keys, ", ") + ")",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.cfg.Set(args[0], args[1]); err != nil {
				return err
			}
			if err := config.Save(a.cfg); err != nil {
				return fmt.Errorf("error saving config: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s set to: %s\n", args[0], args[1])
			return nil
		},
	})
	return cmd
}

func authCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "auth",
		Short: "Authorize external services",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "google",
		Short: "Authorize the Google Calendar mirror",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := auth.AuthorizeGoogle(cmd.Context(), google.Scopes, cmd.OutOrStdout()); err != nil {
				return fmt.Errorf("authentication failed: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Authentication successful! Token saved to %s\n", auth.GoogleTokenFile)
			return nil
		},
	})
	return cmd
}
