package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"time"

	"github.com/harrisonrobin/schedalize/pkg/api"
	"github.com/harrisonrobin/schedalize/pkg/auth"
	"github.com/harrisonrobin/schedalize/pkg/config"
	"github.com/harrisonrobin/schedalize/pkg/tasks"
	"github.com/harrisonrobin/schedalize/pkg/templates"
	"github.com/spf13/cobra"
)

var Version = "dev"

// app carries the loaded config and the global flag overrides.
type app struct {
	cfg     *config.Config
	apiURL  string
	timeout time.Duration
}

func main() {
	a := &app{}
	rootCmd := &cobra.Command{
		Use:           "schedalize",
		Short:         "Plan, push and complete your social content calendar",
		Version:       Version,
		SilenceErrors: true,
		SilenceUsage:  true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("error loading config: %w", err)
			}
			a.cfg = cfg
			return nil
		},
	}
	rootCmd.PersistentFlags().StringVar(&a.apiURL, "api-url", "", "Backend base URL (overrides config)")
	rootCmd.PersistentFlags().DurationVar(&a.timeout, "timeout", 0, "Request timeout (overrides config)")

	rootCmd.AddCommand(todayCmd(a))
	rootCmd.AddCommand(tasksCmd(a))
	rootCmd.AddCommand(importCmd(a))
	rootCmd.AddCommand(pushCmd(a))
	rootCmd.AddCommand(generateCmd(a))
	rootCmd.AddCommand(completeCmd(a))
	rootCmd.AddCommand(historyCmd(a))
	rootCmd.AddCommand(replyCmd(a))
	rootCmd.AddCommand(postsCmd(a))
	rootCmd.AddCommand(loginCmd())
	rootCmd.AddCommand(logoutCmd())
	rootCmd.AddCommand(configCmd(a))
	rootCmd.AddCommand(authCmd())
	rootCmd.AddCommand(mirrorCmd(a))
	rootCmd.AddCommand(serveDevCmd(a))
	rootCmd.AddCommand(devTokenCmd(a))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		fmt.Fprintln(os.Stderr, errorText(err))
		os.Exit(1)
	}
}

// errorText turns gateway failures into the message shown to people.
func errorText(err error) string {
	var apiErr *api.Error
	if !errors.As(err, &apiErr) {
		return "Error: " + err.Error()
	}
	msg := api.UserMessage(err)
	if apiErr.Kind == api.KindUnauthorized {
		msg += "\nRun `schedalize login --token <token>` to sign in."
	}
	return msg
}

// client builds a gateway client using flag > config > default precedence.
func (a *app) client() (*api.Client, error) {
	baseURL := a.cfg.APIURL
	if a.apiURL != "" {
		baseURL = a.apiURL
	}
	timeout := a.cfg.Timeout
	if a.timeout > 0 {
		timeout = a.timeout
	}

	store, err := auth.NewTokenStore(auth.TokenFile)
	if err != nil {
		return nil, err
	}
	return api.NewClient(baseURL, store, api.WithTimeout(timeout))
}

// engine builds the task engine with the configured template set.
func (a *app) engine(templatesFile string) (*tasks.Engine, error) {
	client, err := a.client()
	if err != nil {
		return nil, err
	}

	if templatesFile == "" {
		templatesFile = a.cfg.TemplatesFile
	}
	set := templates.Starter
	if templatesFile != "" {
		set, err = templates.LoadFile(templatesFile)
		if err != nil {
			return nil, err
		}
	}

	return tasks.New(client,
		tasks.WithTemplates(set),
		tasks.WithWindowDays(a.cfg.WindowDays),
	), nil
}
