package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sngm3741/feedback-forms/api/internal/client"
	"github.com/sngm3741/feedback-forms/api/internal/config"
)

var (
	apiURL      string
	sessionPath string
	timeout     time.Duration
	verbose     bool
)

var errNotLoggedIn = errors.New("not logged in; run `feedbackctl login` first")

var rootCmd = &cobra.Command{
	Use:           "feedbackctl",
	Short:         "Manage feedback forms from the terminal",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&apiURL, "api", envOrDefault("FEEDBACK_API_URL", "http://localhost:8080"), "service base URL")
	rootCmd.PersistentFlags().StringVar(&sessionPath, "session", "", "session file (default: user config dir)")
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", 15*time.Second, "request timeout")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")

	rootCmd.AddCommand(loginCmd, logoutCmd, whoamiCmd)
	rootCmd.AddCommand(formsCmd)
	rootCmd.AddCommand(feedbacksCmd, analyticsCmd, exportCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, errorStyle.Render("error: ")+err.Error())
		os.Exit(1)
	}
}

// app bundles what every subcommand needs.
type app struct {
	client  *client.Client
	session *client.Session
	logger  *zap.SugaredLogger
}

func newApp(cmd *cobra.Command) (*app, context.Context, context.CancelFunc, error) {
	level := "warn"
	if verbose {
		level = "debug"
	}
	logger, err := config.NewLogger("development", level)
	if err != nil {
		return nil, nil, nil, err
	}

	path := sessionPath
	if path == "" {
		if path, err = client.DefaultTokenPath(); err != nil {
			return nil, nil, nil, fmt.Errorf("resolve session path: %w", err)
		}
	}

	c := client.New(apiURL, nil)
	session := client.NewSession(c, client.FileTokenStore{Path: path, BaseURL: c.BaseURL()}, logger)
	ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
	if err := session.Init(ctx); err != nil {
		logger.Debugw("restore session", "error", err)
	}
	return &app{client: c, session: session, logger: logger}, ctx, cancel, nil
}

// authedApp is newApp for commands that need a signed-in session.
func authedApp(cmd *cobra.Command) (*app, context.Context, context.CancelFunc, error) {
	a, ctx, cancel, err := newApp(cmd)
	if err != nil {
		return nil, nil, nil, err
	}
	if a.session.State() != client.SessionAuthenticated {
		cancel()
		return nil, nil, nil, errNotLoggedIn
	}
	return a, ctx, cancel, nil
}

func envOrDefault(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}
