// Scene Editor - an ImGui tool for building sphere scenes with a live render.
package main

import (
	"fmt"
	"os"
	"runtime"

	"go.uber.org/zap"

	"github.com/Faultbox/raytracer/internal/config"
	"github.com/Faultbox/raytracer/internal/logger"
	"github.com/Faultbox/raytracer/internal/scenefile"
)

func main() {
	runtime.LockOSThread()

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

	sc, err := scenefile.LoadOrDefault(cfg.Scene.Path)
	if err != nil {
		logger.Error("failed to load scene", zap.Error(err))
		os.Exit(1)
	}

	app, err := NewApp(cfg, sc)
	if err != nil {
		logger.Error("failed to create editor", zap.Error(err))
		os.Exit(1)
	}
	defer app.Close()

	app.Run()
}
