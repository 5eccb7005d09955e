package main

import (
	"context"
	"fmt"
	"io"

	"github.com/iwvelando/debt-roadmap/internal/cache"
	"github.com/iwvelando/debt-roadmap/internal/config"
	"github.com/iwvelando/debt-roadmap/internal/store"
	"github.com/iwvelando/debt-roadmap/pkg/constants"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// app carries the persistent flags shared by every command.
type app struct {
	configPath string
	logLevel   string
	fromStore  bool
	out        io.Writer
}

func newRootCmd(out io.Writer) *cobra.Command {
	a := &app{out: out}

	root := &cobra.Command{
		Use:          "debt-roadmap",
		Short:        "Household debt payoff planner",
		Long:         "Project a month-by-month debt payoff schedule, solve for the overpayment that meets a target date, and serve both over HTTP.",
		SilenceUsage: true,
	}
	root.SetOut(out)

	flags := root.PersistentFlags()
	flags.StringVar(&a.configPath, "config", constants.DefaultConfigFile, "path to configuration file")
	flags.StringVar(&a.logLevel, "log-level", "", "log level override (debug, info, warn, error)")
	flags.BoolVar(&a.fromStore, "from-store", false, "read the household from the configured store instead of the configuration")

	root.AddCommand(
		a.newProjectCmd(),
		a.newSolveCmd(),
		a.newReadinessCmd(),
		a.newServeCmd(),
		a.newHouseholdCmd(),
		a.newSyncCmd(),
		a.newVersionCmd(),
	)
	return root
}

// load reads the configuration file and builds the logger it describes.
func (a *app) load() (*config.Configuration, *zap.Logger, error) {
	conf, err := config.LoadConfiguration(a.configPath)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load configuration at %s: %w", a.configPath, err)
	}

	logger, err := initializeLogger(conf.Logging, a.logLevel)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	return conf, logger, nil
}

// resolveHousehold swaps the configured household for the stored one when
// --from-store is set.
func (a *app) resolveHousehold(ctx context.Context, conf *config.Configuration) error {
	if !a.fromStore {
		return nil
	}

	st, err := openStore(conf.Store)
	if err != nil {
		return err
	}
	defer st.Close()

	snapshot, err := st.Load(ctx)
	if err != nil {
		return fmt.Errorf("failed to load household from store: %w", err)
	}
	conf.Household = snapshot
	return nil
}

func logWarnings(logger *zap.Logger, conf *config.Configuration) {
	for _, warning := range conf.ValidateConfiguration() {
		logger.Warn("Configuration warning: "+warning,
			zap.String("op", "main"),
		)
	}
}

func openStore(cfg config.StoreConfig) (store.Store, error) {
	st, err := store.New(cfg.Driver, cfg.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s store: %w", cfg.Driver, err)
	}
	return st, nil
}

// newProjector builds a cache-backed projector. The returned func releases
// the cache connection.
func newProjector(cfg config.CacheConfig, logger *zap.Logger) (*cache.Projector, func(), error) {
	c, err := cache.New(cfg.Driver, cfg.Address, cfg.Password, cfg.DB)
	if err != nil {
		return nil, func() {}, fmt.Errorf("failed to set up %s cache: %w", cfg.Driver, err)
	}

	release := func() {}
	if closer, ok := c.(io.Closer); ok {
		release = func() {
			if err := closer.Close(); err != nil {
				logger.Warn("failed to close cache",
					zap.String("op", "cache.close"),
					zap.Error(err),
				)
			}
		}
	}
	return cache.NewProjector(c, cfg.TTL, logger), release, nil
}

func (a *app) newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the build version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintln(a.out, version)
		},
	}
}
