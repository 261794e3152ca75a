// Package root contains the root command for the application
package root

import (
	"fmt"
	"sync"

	"fjacquet/trendfit/internal/config"
	"fjacquet/trendfit/internal/container"
	"fjacquet/trendfit/internal/logging"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

// CommonFlags represents the flags that are common to all commands
type CommonFlags struct {
	ConfigFile   string
	LogLevel     string
	StoreBackend string
	StorePath    string
}

var (
	// Log is the shared logger instance for commands
	Log = logrus.New()

	// AppConfig is the configuration loaded by the persistent pre-run hook
	AppConfig *config.Config

	// AppContainer holds the wired application dependencies
	AppContainer *container.Container

	// Cmd is the root command
	Cmd = &cobra.Command{
		Use:   "trendfit",
		Short: "A CLI tool to fit and select trend models for budget categories.",
		Long: `trendfit is a CLI tool that fits constant, linear, quadratic, polynomial and
exponential trend models to the per-period spending, leftover and goal progress of every
budget category, picks one model per series and stores the result for forecasting.`,
		Run: func(cmd *cobra.Command, args []string) {
			Log.Info("Welcome to trendfit!")
			Log.Info("Use --help to see available commands")
		},
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return Initialize()
		},
		// Release the model store whichever command ran
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if AppContainer == nil {
				return
			}
			if err := AppContainer.Close(); err != nil {
				Log.Warnf("Failed to close model store: %v", err)
			}
			AppContainer = nil
		},
	}

	// SharedFlags are accessible to all commands
	SharedFlags = CommonFlags{}

	initOnce sync.Once
)

// Init registers the persistent flags. Calling it more than once is harmless.
func Init() {
	initOnce.Do(func() {
		Cmd.PersistentFlags().StringVarP(&SharedFlags.ConfigFile, "config", "c", "", "Config file (default searches $HOME/.trendfit, .trendfit and .)")
		Cmd.PersistentFlags().StringVar(&SharedFlags.LogLevel, "log-level", "", "Log level override (trace, debug, info, warn, error)")
		Cmd.PersistentFlags().StringVar(&SharedFlags.StoreBackend, "store", "", "Model store backend override (yaml, sqlite, none)")
		Cmd.PersistentFlags().StringVar(&SharedFlags.StorePath, "store-path", "", "Model store path override")
	})
}

// Initialize loads the environment and configuration, applies flag overrides and wires
// the container.
func Initialize() error {
	config.LoadEnv(Log)

	cfg, err := config.InitializeConfigFromFile(SharedFlags.ConfigFile)
	if err != nil {
		return fmt.Errorf("failed to initialize configuration: %w", err)
	}
	if SharedFlags.LogLevel != "" {
		cfg.Log.Level = SharedFlags.LogLevel
	}
	if SharedFlags.StoreBackend != "" {
		cfg.Store.Backend = SharedFlags.StoreBackend
	}
	if SharedFlags.StorePath != "" {
		cfg.Store.Path = SharedFlags.StorePath
	}

	Log = config.ConfigureLoggingFromConfig(cfg)

	c, err := container.NewContainerWithLogger(cfg, logging.NewLogrusAdapterFromLogger(Log))
	if err != nil {
		return fmt.Errorf("failed to initialize application: %w", err)
	}

	AppConfig = cfg
	AppContainer = c
	return nil
}

// GetContainer returns the container wired by Initialize.
func GetContainer() (*container.Container, error) {
	if AppContainer == nil {
		return nil, fmt.Errorf("application not initialized")
	}
	return AppContainer, nil
}

// GetLogger returns the container's logger, or a logger over Log before initialization.
func GetLogger() logging.Logger {
	if AppContainer != nil {
		return AppContainer.GetLogger()
	}
	return logging.NewLogrusAdapterFromLogger(Log)
}
