// Package main is the entry point for the shadow mapping demo.
package main

import (
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/Faultbox/shadowmaps/internal/app"
	"github.com/Faultbox/shadowmaps/internal/config"
	"github.com/Faultbox/shadowmaps/internal/logger"
)

func main() {
	// Parse CLI flags first
	config.ParseFlags()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Config error: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	if err := logger.InitWithOptions(cfg.LoggerOptions()); err != nil {
		fmt.Fprintf(os.Stderr, "Logger error: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("=== Shadow Mapping ===")
	logger.Sugar.Debugf("Config: %+v", cfg)

	a, err := app.New(cfg, logger.Log)
	if err != nil {
		logger.Error("failed to create app", zap.Error(err))
		logger.Sync()
		os.Exit(1)
	}

	err = a.Run()
	a.Close()
	if err != nil {
		logger.Error("app error", zap.Error(err))
		logger.Sync()
		os.Exit(1)
	}

	logger.Info("closed normally")
}
