// Package viewer runs the interactive SDL window: it polls input, moves the
// camera, renders a frame on the CPU and presents it through OpenGL.
package viewer

import (
	"fmt"
	"time"

	"github.com/veandco/go-sdl2/sdl"
	"go.uber.org/zap"

	"github.com/Faultbox/raytracer/internal/config"
	"github.com/Faultbox/raytracer/internal/engine/camera"
	"github.com/Faultbox/raytracer/internal/engine/debug"
	"github.com/Faultbox/raytracer/internal/engine/input"
	"github.com/Faultbox/raytracer/internal/engine/present"
	"github.com/Faultbox/raytracer/internal/engine/renderer"
	"github.com/Faultbox/raytracer/internal/engine/scene"
	"github.com/Faultbox/raytracer/internal/engine/window"
	"github.com/Faultbox/raytracer/internal/logger"
	"github.com/Faultbox/raytracer/internal/scenefile"
	"github.com/Faultbox/raytracer/pkg/math"
)

const title = "Ray Tracer"

// Viewer is the interactive application.
type Viewer struct {
	cfg     *config.Config
	running bool

	window    *window.Window
	presenter *present.Presenter
	input     *input.Input

	camera   *camera.Camera
	renderer *renderer.Renderer
	scene    *scene.Scene

	screenshots *debug.ScreenshotCapture

	log *zap.Logger
}

// New opens the window and prepares the camera and renderer.
func New(cfg *config.Config, sc *scene.Scene) (*Viewer, error) {
	v := &Viewer{
		cfg:   cfg,
		scene: sc,
		log:   logger.Named("viewer"),
	}

	v.log.Info("initializing viewer",
		zap.Int("width", cfg.Graphics.Width),
		zap.Int("height", cfg.Graphics.Height),
		zap.Int("spheres", sc.SphereCount()),
		zap.Int("workers", cfg.Render.Workers),
	)

	format, err := debug.ParseFormat(cfg.Output.Format)
	if err != nil {
		return nil, err
	}
	v.screenshots = debug.NewScreenshotCapture(cfg.Output.Dir, cfg.Output.Prefix, format)

	// Create window (this also creates OpenGL context)
	v.window, err = window.New(window.Config{
		Title:      title,
		Width:      cfg.Graphics.Width,
		Height:     cfg.Graphics.Height,
		Fullscreen: cfg.Graphics.Fullscreen,
		VSync:      cfg.Graphics.VSync,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create window: %w", err)
	}

	// Presenter AFTER window, since the OpenGL context must exist
	v.presenter, err = present.New()
	if err != nil {
		v.window.Close()
		return nil, fmt.Errorf("failed to create presenter: %w", err)
	}

	v.input = input.New()
	v.camera = NewCamera(cfg.Camera)
	v.renderer = renderer.New(renderer.WithWorkers(cfg.Render.Workers))

	v.log.Info("viewer initialized successfully")
	return v, nil
}

// NewCamera builds a camera from its config section.
func NewCamera(cc config.CameraConfig) *camera.Camera {
	cam := camera.New(cc.FOV, cc.NearClip, cc.FarClip)
	cam.MoveSpeed = cc.MoveSpeed
	cam.RotationSpeed = cc.RotationSpeed
	cam.SetPose(math.Vec3FromArray(cc.Position), math.Vec3FromArray(cc.Direction))
	return cam
}

// Run starts the main loop and returns when the window is closed.
func (v *Viewer) Run() error {
	v.running = true

	lastTime := time.Now()
	frameCount := 0
	fpsTimer := time.Now()

	v.log.Info("starting render loop")

	for v.running {
		now := time.Now()
		dt := now.Sub(lastTime).Seconds()
		lastTime = now

		// 1. Process input
		if v.input.Update() {
			v.running = false
			break
		}
		for _, event := range v.input.Events() {
			if event.Type != input.EventKeyDown {
				continue
			}
			switch event.Key {
			case sdl.SCANCODE_ESCAPE:
				v.running = false
			case sdl.SCANCODE_F12:
				v.screenshot()
			case sdl.SCANCODE_F5:
				v.reloadScene()
			}
		}

		// 2. Match the drawable size, then move the camera
		width, height := v.window.DrawableSize()
		v.camera.Resize(width, height)
		v.renderer.Resize(width, height)
		v.presenter.Resize(width, height)
		v.camera.Update(float32(dt), v.input)

		// 3. Render
		if err := v.renderer.Render(v.scene, v.camera); err != nil {
			return fmt.Errorf("render error: %w", err)
		}

		// 4. Present
		v.presenter.Draw(v.renderer.Image())
		v.window.SwapBuffers()

		frameCount++
		if time.Since(fpsTimer) >= time.Second {
			stats := v.renderer.LastStats()
			v.window.SetTitle(fmt.Sprintf("%s - %dx%d - last render %.3fms - %d fps",
				title, width, height, float64(stats.Duration.Microseconds())/1000, frameCount))
			v.log.Debug("fps",
				zap.Int("count", frameCount),
				zap.Duration("render", stats.Duration),
				zap.Int("hits", stats.Hits),
			)
			frameCount = 0
			fpsTimer = time.Now()
		}
	}

	return nil
}

// screenshot saves the last rendered frame.
func (v *Viewer) screenshot() {
	path, err := v.screenshots.Capture(v.renderer.Image())
	if err != nil {
		v.log.Error("screenshot failed", zap.Error(err))
		return
	}
	v.log.Info("screenshot saved", zap.String("path", path))
}

// reloadScene rereads the configured scene file. The current scene is kept
// if the file no longer loads.
func (v *Viewer) reloadScene() {
	if v.cfg.Scene.Path == "" {
		return
	}
	sc, err := scenefile.Load(v.cfg.Scene.Path)
	if err != nil {
		v.log.Error("scene reload failed", zap.Error(err))
		return
	}
	v.scene = sc
	v.log.Info("scene reloaded",
		zap.String("path", v.cfg.Scene.Path),
		zap.Int("spheres", sc.SphereCount()),
	)
}

// Close releases the window and GL resources.
func (v *Viewer) Close() {
	v.log.Info("closing viewer")

	if v.presenter != nil {
		v.presenter.Close()
	}
	if v.window != nil {
		v.window.Close()
	}
}
