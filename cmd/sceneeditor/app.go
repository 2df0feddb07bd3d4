package main

import (
	"fmt"
	"sync"
	"time"

	"github.com/AllenDang/cimgui-go/imgui"
	"go.uber.org/zap"

	"github.com/Faultbox/raytracer/internal/config"
	"github.com/Faultbox/raytracer/internal/engine/camera"
	"github.com/Faultbox/raytracer/internal/engine/debug"
	"github.com/Faultbox/raytracer/internal/engine/renderer"
	"github.com/Faultbox/raytracer/internal/engine/scene"
	"github.com/Faultbox/raytracer/internal/engine/texture"
	"github.com/Faultbox/raytracer/internal/engine/ui"
	"github.com/Faultbox/raytracer/internal/logger"
	"github.com/Faultbox/raytracer/internal/viewer"
)

const (
	settingsWidth = 320
	statusTimeout = 4 * time.Second
)

// App holds the editor state.
type App struct {
	backend *ui.Backend
	cfg     *config.Config

	scene     *scene.Scene
	scenePath string
	dirty     bool

	camera    *camera.Camera
	camInput  ui.CameraInput
	renderer  *renderer.Renderer
	frame     *texture.Texture
	rendered  bool
	autoFrame bool
	workers   int32

	screenshots *debug.ScreenshotCapture

	selected  int // Sphere index, -1 for none
	lastFrame time.Time

	// Dialogs run on their own goroutine; results are applied on the main thread
	mu          sync.Mutex
	pendingOpen string
	pendingSave string

	status     string
	statusTime time.Time

	log *zap.Logger
}

// NewApp opens the editor window.
func NewApp(cfg *config.Config, sc *scene.Scene) (*App, error) {
	app := &App{
		cfg:       cfg,
		scene:     sc,
		scenePath: cfg.Scene.Path,
		autoFrame: true,
		workers:   int32(cfg.Render.Workers),
		selected:  -1,
		log:       logger.Named("editor"),
	}

	format, err := debug.ParseFormat(cfg.Output.Format)
	if err != nil {
		return nil, err
	}
	app.screenshots = debug.NewScreenshotCapture(cfg.Output.Dir, cfg.Output.Prefix, format)

	app.backend, err = ui.NewBackend("Scene Editor", int32(cfg.Graphics.Width), int32(cfg.Graphics.Height))
	if err != nil {
		return nil, err
	}

	app.camera = viewer.NewCamera(cfg.Camera)
	app.renderer = renderer.New(renderer.WithWorkers(cfg.Render.Workers))
	app.frame = texture.New()
	app.updateTitle()
	return app, nil
}

// Run starts the main application loop.
func (app *App) Run() {
	app.lastFrame = time.Now()
	app.backend.Run(app.render)
}

// Close releases GL resources.
func (app *App) Close() {
	if app.frame != nil {
		app.frame.Destroy()
	}
}

// render draws one editor frame.
func (app *App) render() {
	now := time.Now()
	dt := float32(now.Sub(app.lastFrame).Seconds())
	app.lastFrame = now

	app.applyPending()

	ctrlS := imgui.KeyChord(imgui.ModCtrl) | imgui.KeyChord(imgui.KeyS)
	ctrlO := imgui.KeyChord(imgui.ModCtrl) | imgui.KeyChord(imgui.KeyO)
	if imgui.IsKeyChordPressed(ctrlS) {
		app.saveScene(false)
	}
	if imgui.IsKeyChordPressed(ctrlO) {
		app.openFileDialog()
	}

	app.renderMenuBar()

	x, y, w, h := ui.GetViewport()

	imgui.SetNextWindowPos(imgui.NewVec2(x, y))
	imgui.SetNextWindowSize(imgui.NewVec2(settingsWidth, h*0.35))
	app.renderSettings()

	imgui.SetNextWindowPos(imgui.NewVec2(x, y+h*0.35))
	imgui.SetNextWindowSize(imgui.NewVec2(settingsWidth, h*0.65))
	app.renderScenePanel()

	imgui.SetNextWindowPos(imgui.NewVec2(x+settingsWidth, y))
	imgui.SetNextWindowSize(imgui.NewVec2(w-settingsWidth, h))
	app.renderViewport(dt)
}

// renderFrame resizes to the viewport and renders the scene into the texture.
func (app *App) renderFrame(width, height int) {
	app.camera.Resize(width, height)
	app.renderer.Resize(width, height)

	if err := app.renderer.Render(app.scene, app.camera); err != nil {
		app.log.Error("render failed", zap.Error(err))
		return
	}
	app.frame.Upload(app.renderer.Image())
	app.rendered = true
}

func (app *App) setStatus(format string, args ...any) {
	app.status = fmt.Sprintf(format, args...)
	app.statusTime = time.Now()
}

func (app *App) markDirty() {
	if !app.dirty {
		app.dirty = true
		app.updateTitle()
	}
}

func (app *App) updateTitle() {
	name := app.scenePath
	if name == "" {
		name = "untitled"
	}
	if app.dirty {
		name += " *"
	}
	app.backend.SetWindowTitle("Scene Editor - " + name)
}
