// Package main is the entry point for the AstraMesh studio viewport.
package main

import (
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/Faultbox/astramesh/internal/config"
	"github.com/Faultbox/astramesh/internal/logger"
)

func main() {
	config.ParseFlags()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Config error: %v\n", err)
		os.Exit(1)
	}

	if err := logger.Init(cfg.Logging.Level, cfg.Logging.LogFile); err != nil {
		fmt.Fprintf(os.Stderr, "Logger error: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("=== AstraMesh Studio ===")
	logger.Sugar.Debugf("Config: %+v", cfg)

	app, err := NewApp(cfg)
	if err != nil {
		logger.Error("failed to create studio", zap.Error(err))
		os.Exit(1)
	}
	defer app.Close()

	app.Run()
	logger.Info("studio closed normally")
}
