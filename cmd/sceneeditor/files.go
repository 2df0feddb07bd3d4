package main

import (
	"errors"

	"github.com/AllenDang/cimgui-go/imgui"
	"github.com/sqweek/dialog"
	"go.uber.org/zap"

	"github.com/Faultbox/raytracer/internal/scenefile"
)

// renderMenuBar draws the File menu.
func (app *App) renderMenuBar() {
	if imgui.BeginMainMenuBar() {
		if imgui.BeginMenu("File") {
			if imgui.MenuItemBool("New") {
				app.newScene()
			}
			if imgui.MenuItemBool("Open...") {
				app.openFileDialog()
			}
			if imgui.MenuItemBool("Save") {
				app.saveScene(false)
			}
			if imgui.MenuItemBool("Save As...") {
				app.saveScene(true)
			}
			imgui.Separator()
			if imgui.MenuItemBool("Screenshot") {
				app.screenshot()
			}
			imgui.EndMenu()
		}
		imgui.EndMainMenuBar()
	}
}

// openFileDialog shows a native dialog to pick a scene file.
func (app *App) openFileDialog() {
	// NOTE: SDL window operations must happen on main thread,
	// so the chosen path is queued and applied in render()
	go func() {
		filename, err := dialog.File().
			Filter("Scene files", "yaml", "yml").
			Filter("All Files", "*").
			Title("Open Scene").
			Load()
		if err != nil {
			if !errors.Is(err, dialog.ErrCancelled) {
				app.log.Error("file dialog failed", zap.Error(err))
			}
			return
		}

		app.mu.Lock()
		app.pendingOpen = filename
		app.mu.Unlock()
	}()
}

// saveScene writes the scene, asking for a path when there is none yet or
// when saveAs is set.
func (app *App) saveScene(saveAs bool) {
	if !saveAs && app.scenePath != "" {
		app.writeScene(app.scenePath)
		return
	}

	go func() {
		filename, err := dialog.File().
			Filter("Scene files", "yaml", "yml").
			Title("Save Scene").
			Save()
		if err != nil {
			if !errors.Is(err, dialog.ErrCancelled) {
				app.log.Error("file dialog failed", zap.Error(err))
			}
			return
		}

		app.mu.Lock()
		app.pendingSave = filename
		app.mu.Unlock()
	}()
}

// applyPending handles dialog results on the main thread.
func (app *App) applyPending() {
	app.mu.Lock()
	open, save := app.pendingOpen, app.pendingSave
	app.pendingOpen, app.pendingSave = "", ""
	app.mu.Unlock()

	if open != "" {
		app.loadScene(open)
	}
	if save != "" {
		app.writeScene(save)
	}
}

func (app *App) loadScene(path string) {
	sc, err := scenefile.Load(path)
	if err != nil {
		app.log.Error("failed to open scene", zap.Error(err))
		app.setStatus("Open failed: %v", err)
		return
	}
	app.scene = sc
	app.scenePath = path
	app.selected = -1
	app.dirty = false
	app.updateTitle()
	app.setStatus("Opened %s", path)
	app.log.Info("scene opened", zap.String("path", path), zap.Int("spheres", sc.SphereCount()))
}

func (app *App) writeScene(path string) {
	if err := scenefile.Save(path, app.scene); err != nil {
		app.log.Error("failed to save scene", zap.Error(err))
		app.setStatus("Save failed: %v", err)
		return
	}
	app.scenePath = path
	app.dirty = false
	app.updateTitle()
	app.setStatus("Saved %s", path)
	app.log.Info("scene saved", zap.String("path", path))
}

func (app *App) newScene() {
	app.scene = scenefile.Default()
	app.scenePath = ""
	app.selected = -1
	app.dirty = false
	app.updateTitle()
	app.setStatus("New scene")
}

func (app *App) screenshot() {
	if !app.rendered {
		return
	}
	path, err := app.screenshots.Capture(app.renderer.Image())
	if err != nil {
		app.log.Error("screenshot failed", zap.Error(err))
		app.setStatus("Screenshot failed: %v", err)
		return
	}
	app.setStatus("Saved %s", path)
}
