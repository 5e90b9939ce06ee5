package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/teknohive/fessctl/internal/api"
	"github.com/teknohive/fessctl/internal/config"
	"github.com/teknohive/fessctl/internal/logging"
	"github.com/teknohive/fessctl/internal/session"
	"github.com/teknohive/fessctl/internal/ui"
)

var (
	cfgFile string
	vpr     = viper.New()
)

var rootCmd = &cobra.Command{
	Use:   "fessctl",
	Short: "Terminal client for the songfess confession board",
	Long: `fessctl is a terminal client and admin console for the songfess board.

It authenticates against the board API with your browser session cookie,
lists and live-tails the message and songfess boards, and exposes the
moderation surface for admins (deleting entries, managing the admin list and
word blacklist, configuring the retention window).

Start with:
  fessctl login            # store your session cookie
  fessctl status           # check who you are signed in as
  fessctl songfess watch   # tail the songfess board live`,
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: ~/.config/fessctl/config.yaml)")
	rootCmd.PersistentFlags().String("api-base", config.DefaultAPIBase, "API origin")
	rootCmd.PersistentFlags().String("ws-base", config.DefaultWSBase, "WebSocket origin for live updates")
	rootCmd.PersistentFlags().String("log-file", "", "tee diagnostics into a rotating log file")

	_ = vpr.BindPFlag("api_base", rootCmd.PersistentFlags().Lookup("api-base"))
	_ = vpr.BindPFlag("ws_base", rootCmd.PersistentFlags().Lookup("ws-base"))
	_ = vpr.BindPFlag("log_file", rootCmd.PersistentFlags().Lookup("log-file"))

	rootCmd.AddGroup(
		&cobra.Group{ID: "boards", Title: "Board commands:"},
		&cobra.Group{ID: "moderation", Title: "Moderation commands:"},
		&cobra.Group{ID: "auth", Title: "Session commands:"},
	)
}

func initConfig() {
	if err := config.Init(vpr, cfgFile); err != nil {
		fmt.Fprintf(os.Stderr, "Error reading config: %v\n", err)
		os.Exit(1)
	}
}

// app bundles the wired dependencies a command needs.
type app struct {
	cfg    *config.Config
	client *api.Client
	guard  *session.Guard
	store  *api.CredentialStore
	logger *log.Logger
}

// newApp resolves configuration, loads the stored credential, and wires the
// client and session guard.
func newApp() (*app, error) {
	cfg := config.Load(vpr)
	logger := logging.New("[fessctl] ", cfg.LogFile)

	credPath := cfg.CredentialFile
	if credPath == "" {
		var err error
		credPath, err = api.DefaultCredentialPath()
		if err != nil {
			return nil, err
		}
	}
	store := api.NewCredentialStore(credPath)

	cookie, err := store.Load()
	if err != nil {
		return nil, err
	}

	client, err := api.New(&api.Config{
		BaseURL: cfg.APIBase,
		Cookie:  cookie,
		Logger:  logger,
	})
	if err != nil {
		return nil, err
	}

	return &app{
		cfg:    cfg,
		client: client,
		guard:  session.New(client, logger),
		store:  store,
		logger: logger,
	}, nil
}

// mustApp is newApp with the exit-on-failure path commands use.
func mustApp() *app {
	a, err := newApp()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	return a
}

// ensureAuth refreshes the session and requires it to be live.
func (a *app) ensureAuth(ctx context.Context) error {
	if _, err := a.guard.CheckStatus(ctx); err != nil {
		return err
	}
	return a.guard.RequireAuth()
}

// ensureAdmin refreshes the session and requires the admin role.
func (a *app) ensureAdmin(ctx context.Context) error {
	if _, err := a.guard.CheckStatus(ctx); err != nil {
		return err
	}
	return a.guard.RequireAdmin()
}

// exitAuthErr prints the access-control errors with a usable next step, then
// exits. Anything else prints as a plain error.
func exitAuthErr(err error) {
	switch {
	case errors.Is(err, api.ErrAuthRequired):
		fmt.Fprintf(os.Stderr, "%s Not signed in. Run 'fessctl login' first.\n", ui.RenderWarn("⚠"))
	case errors.Is(err, api.ErrAuthForbidden):
		fmt.Fprintf(os.Stderr, "%s This needs the admin role. Public boards are still available:\n", ui.RenderWarn("⚠"))
		fmt.Fprintf(os.Stderr, "   fessctl songfess list\n")
	default:
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	}
	os.Exit(1)
}
