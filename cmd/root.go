package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/fransm/boe-watcher/internal/app"
	"github.com/fransm/boe-watcher/internal/config"
	"github.com/fransm/boe-watcher/internal/gazette"
	"github.com/fransm/boe-watcher/internal/logging"
)

var cfgFile string

// appKeyType is the key for storing the App in the context.
type appKeyType string

const appKey appKeyType = "app"

// Runner executes ingestion runs. A zero targetDate means "today".
type Runner interface {
	Run(ctx context.Context, targetDate time.Time) (gazette.RunOutcome, error)
}

// App defines the application interface that commands use. Keeping this an
// interface allows tests to inject a fake app through the factory below.
type App interface {
	Close()
	Config() config.Config
	Logger() *zap.Logger
	Store() gazette.Store
	Runner() Runner
}

// realApp adapts *app.App to the command-facing App interface.
type realApp struct {
	*app.App
}

func (r realApp) Runner() Runner { return r.App.Pipeline() }

// newApp is the application factory. It is a variable so tests can replace
// it with a mock factory.
var newApp = func(ctx context.Context) (App, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, err
	}
	a, err := app.New(ctx, cfg)
	if err != nil {
		return nil, err
	}
	return realApp{a}, nil
}

// newRootCmd creates and configures the root command.
func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "boewatcher",
		Short: "Monitors the BOE for public-sector job announcements.",
		Long: `boewatcher polls the Spanish Official State Gazette (BOE) open-data
API for the oposiciones y concursos section, extracts new job announcements,
persists them, and notifies subscribers of anything it has not seen before.`,

		// Runs after flags are parsed but before the subcommand's RunE; this
		// is where application services are built and injected.
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			appInstance, err := newApp(cmd.Context())
			if err != nil {
				return fmt.Errorf("failed to initialize application services: %w", err)
			}

			ctx := context.WithValue(cmd.Context(), appKey, appInstance)
			cmd.SetContext(ctx)
			return nil
		},

		PersistentPostRun: func(cmd *cobra.Command, _ []string) {
			if appInstance, ok := cmd.Context().Value(appKey).(App); ok && appInstance != nil {
				appInstance.Close()
			}
		},
	}

	cmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is environment-only)")

	cmd.AddCommand(newIngestCmd())
	cmd.AddCommand(newServeCmd())

	return cmd
}

func resolveApp(ctx context.Context) (App, error) {
	appInstance, ok := ctx.Value(appKey).(App)
	if !ok || appInstance == nil {
		return nil, fmt.Errorf("application services not initialized")
	}
	return appInstance, nil
}

// Execute is the main entry point.
func Execute() {
	if err := newRootCmd().Execute(); err != nil {
		logging.L.Fatal("Command execution failed", zap.Error(err))
	}
}
