// Package main is the entry point for the interactive ray tracer.
package main

import (
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/Faultbox/raytracer/internal/config"
	"github.com/Faultbox/raytracer/internal/logger"
	"github.com/Faultbox/raytracer/internal/scenefile"
	"github.com/Faultbox/raytracer/internal/viewer"
)

func main() {
	// Parse CLI flags first
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

	logger.Info("=== Ray Tracer ===")
	logger.Sugar.Debugf("Config: %+v", cfg)

	sc, err := scenefile.LoadOrDefault(cfg.Scene.Path)
	if err != nil {
		logger.Error("failed to load scene", zap.Error(err))
		os.Exit(1)
	}

	v, err := viewer.New(cfg, sc)
	if err != nil {
		logger.Error("failed to create viewer", zap.Error(err))
		os.Exit(1)
	}
	defer v.Close()

	if err := v.Run(); err != nil {
		logger.Error("viewer error", zap.Error(err))
		os.Exit(1)
	}

	logger.Info("viewer closed normally")
}
