package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/Faultbox/astramesh/internal/config"
	"github.com/Faultbox/astramesh/internal/job"
	"github.com/Faultbox/astramesh/internal/logger"
	"github.com/Faultbox/astramesh/internal/store"
)

var (
	configPath string
	debug      bool
)

var rootCmd = &cobra.Command{
	Use:   "studioctl",
	Short: "Headless tools for the AstraMesh scene engine",
	Long: `studioctl drives the scene store without a window: inspect LOD derivation,
run simulated generation jobs, write export manifests and manage configuration.`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to config file")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "Enable debug logging")
}

// loadConfig reads the config named by --config, or the defaults, and sets
// up stderr logging.
func loadConfig() (*config.Config, error) {
	cfg, err := config.LoadFile(configPath)
	if err != nil {
		return nil, err
	}
	if debug {
		cfg.Logging.Level = "debug"
	}
	logger.Log = logger.New(cfg.Logging.Level, logger.DefaultFileConfig(cfg.Logging.LogFile), os.Stderr)
	logger.Sugar = logger.Log.Sugar()
	return cfg, nil
}

// newStore builds a store configured like the studio.
func newStore(cfg *config.Config, opts ...store.Option) *store.Store {
	base := []store.Option{
		store.WithLogger(logger.Named("store")),
		store.WithHistoryDepth(cfg.History.MaxDepth),
		store.WithCacheSize(cfg.Graphics.LODCache),
		store.WithJobTiming(job.Timing{
			InitialDelay: cfg.Generation.InitialDelay,
			StepInterval: cfg.Generation.StepInterval,
			Increment:    cfg.Generation.StepIncrement,
		}),
	}
	s := store.New(append(base, opts...)...)
	logger.Debug("store ready", zap.Int("history_depth", cfg.History.MaxDepth))
	return s
}
