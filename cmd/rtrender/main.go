// Package main renders a single frame without a window and writes it to disk.
package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/Faultbox/raytracer/internal/config"
	"github.com/Faultbox/raytracer/internal/engine/camera"
	"github.com/Faultbox/raytracer/internal/engine/debug"
	"github.com/Faultbox/raytracer/internal/engine/renderer"
	"github.com/Faultbox/raytracer/internal/logger"
	"github.com/Faultbox/raytracer/internal/scenefile"
	"github.com/Faultbox/raytracer/pkg/math"
)

var flagOutput = flag.String("o", "", "Output image path (extension picks png or bmp; default: screenshot dir)")

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

	if err := run(cfg, *flagOutput); err != nil {
		logger.Error("render failed", zap.Error(err))
		os.Exit(1)
	}
}

func run(cfg *config.Config, output string) error {
	sc, err := scenefile.LoadOrDefault(cfg.Scene.Path)
	if err != nil {
		return err
	}

	width, height := cfg.Graphics.Width, cfg.Graphics.Height

	cc := cfg.Camera
	cam := camera.New(cc.FOV, cc.NearClip, cc.FarClip)
	cam.SetPose(math.Vec3FromArray(cc.Position), math.Vec3FromArray(cc.Direction))
	cam.Resize(width, height)

	r := renderer.New(renderer.WithWorkers(cfg.Render.Workers))
	r.Resize(width, height)

	if err := r.Render(sc, cam); err != nil {
		return err
	}
	stats := r.LastStats()
	logger.Info("frame rendered",
		zap.Int("width", width),
		zap.Int("height", height),
		zap.Duration("duration", stats.Duration),
		zap.Int("hits", stats.Hits),
		zap.Int("workers", r.Workers()),
	)

	path, err := save(cfg, output, r)
	if err != nil {
		return err
	}
	logger.Info("image written", zap.String("path", path))
	return nil
}

// save writes to output when given, otherwise a timestamped file in the
// configured screenshot directory.
func save(cfg *config.Config, output string, r *renderer.Renderer) (string, error) {
	if output == "" {
		format, err := debug.ParseFormat(cfg.Output.Format)
		if err != nil {
			return "", err
		}
		return debug.NewScreenshotCapture(cfg.Output.Dir, cfg.Output.Prefix, format).Capture(r.Image())
	}

	format, err := debug.ParseFormat(filepath.Ext(output))
	if err != nil {
		return "", fmt.Errorf("output %s: %w", output, err)
	}
	if err := os.MkdirAll(filepath.Dir(output), 0755); err != nil {
		return "", fmt.Errorf("creating output dir: %w", err)
	}
	if err := debug.WriteImage(output, r.Image().ToImage(true), format); err != nil {
		return "", err
	}
	return output, nil
}
