package main

import (
	"fmt"
	"runtime"
	"time"

	"github.com/AllenDang/cimgui-go/imgui"

	"github.com/Faultbox/raytracer/internal/engine/raycast"
	"github.com/Faultbox/raytracer/internal/engine/scene"
	"github.com/Faultbox/raytracer/internal/engine/ui"
	"github.com/Faultbox/raytracer/pkg/math"
)

const panelFlags = imgui.WindowFlagsNoMove | imgui.WindowFlagsNoResize | imgui.WindowFlagsNoCollapse

// renderSettings draws render timing and controls.
func (app *App) renderSettings() {
	if imgui.BeginV("Settings", nil, panelFlags) {
		stats := app.renderer.LastStats()
		imgui.Text(fmt.Sprintf("Last render: %.3fms", float64(stats.Duration.Microseconds())/1000))
		imgui.TextDisabled(fmt.Sprintf("%d pixels, %d hits", stats.Pixels, stats.Hits))

		if imgui.Button("Render") {
			// Picked up by the viewport this frame
			app.rendered = false
		}
		imgui.SameLine()
		imgui.Checkbox("Every frame", &app.autoFrame)

		maxWorkers := int32(runtime.NumCPU())
		if imgui.SliderIntV("Workers", &app.workers, 1, maxWorkers, "%d", imgui.SliderFlagsNone) {
			app.renderer.SetWorkers(int(app.workers))
		}

		imgui.Separator()

		pos := app.camera.Position()
		dir := app.camera.Direction()
		imgui.Text(fmt.Sprintf("Camera: (%.2f, %.2f, %.2f)", pos.X, pos.Y, pos.Z))
		imgui.Text(fmt.Sprintf("Facing: (%.2f, %.2f, %.2f)", dir.X, dir.Y, dir.Z))
		imgui.SliderFloatV("Move speed", &app.camera.MoveSpeed, 0.5, 50, "%.1f", imgui.SliderFlagsNone)
		imgui.TextDisabled("Right-drag to look, WASD/QE to move")

		if app.status != "" && time.Since(app.statusTime) < statusTimeout {
			imgui.Separator()
			imgui.TextWrapped(app.status)
		}
	}
	imgui.End()
}

// renderScenePanel lists spheres and materials for editing.
func (app *App) renderScenePanel() {
	if imgui.BeginV("Scene", nil, panelFlags) {
		app.renderSpheres()
		imgui.Spacing()
		imgui.Separator()
		imgui.Spacing()
		app.renderMaterials()
	}
	imgui.End()
}

func (app *App) renderSpheres() {
	imgui.Text(fmt.Sprintf("Spheres (%d)", app.scene.SphereCount()))
	imgui.SameLine()
	if imgui.Button("Add Sphere") {
		i, err := app.scene.AddSphere(scene.Sphere{Radius: 1})
		app.applyEdit(err)
		if err == nil {
			app.selected = i
		}
	}

	maxMaterial := int32(app.scene.MaterialCount() - 1)
	for i := 0; i < app.scene.SphereCount(); i++ {
		sp, _ := app.scene.Sphere(i)

		imgui.PushIDInt(int32(i))
		flags := imgui.TreeNodeFlagsNone
		if i == app.selected {
			flags |= imgui.TreeNodeFlagsSelected | imgui.TreeNodeFlagsDefaultOpen
		}
		if imgui.TreeNodeExStrV(fmt.Sprintf("Sphere %d", i), flags) {
			changed := false
			position := sp.Position.Array()
			if imgui.DragFloat3V("Position", &position, 0.1, 0, 0, "%.2f", imgui.SliderFlagsNone) {
				sp.Position = math.Vec3FromArray(position)
				changed = true
			}
			if imgui.DragFloatV("Radius", &sp.Radius, 0.05, 0.01, 1000, "%.2f", imgui.SliderFlagsNone) {
				changed = true
			}
			material := int32(sp.Material)
			if maxMaterial >= 0 && imgui.SliderIntV("Material", &material, 0, maxMaterial, "%d", imgui.SliderFlagsNone) {
				sp.Material = scene.MaterialIndex(material)
				changed = true
			}
			if changed {
				app.applyEdit(app.scene.SetSphere(i, sp))
			}

			if imgui.Button("Remove") {
				app.applyEdit(app.scene.RemoveSphere(i))
				if app.selected == i {
					app.selected = -1
				}
			}
			imgui.TreePop()
		}
		imgui.PopID()
	}
}

func (app *App) renderMaterials() {
	imgui.Text(fmt.Sprintf("Materials (%d)", app.scene.MaterialCount()))
	imgui.SameLine()
	if imgui.Button("Add Material") {
		app.scene.AddMaterial(scene.Material{Albedo: math.Vec3{X: 1, Y: 1, Z: 1}})
		app.markDirty()
	}

	for i := 0; i < app.scene.MaterialCount(); i++ {
		idx := scene.MaterialIndex(i)
		m, _ := app.scene.Material(idx)

		// Offset keeps IDs distinct from the sphere list
		imgui.PushIDInt(int32(1<<16 + i))
		if imgui.TreeNodeExStrV(fmt.Sprintf("Material %d", i), imgui.TreeNodeFlagsNone) {
			changed := false
			albedo := m.Albedo.Array()
			if imgui.ColorEdit3("Albedo", &albedo) {
				m.Albedo = math.Vec3FromArray(albedo)
				changed = true
			}
			if imgui.DragFloatV("Roughness", &m.Roughness, 0.01, 0, 1, "%.2f", imgui.SliderFlagsNone) {
				changed = true
			}
			if imgui.DragFloatV("Metallic", &m.Metallic, 0.01, 0, 1, "%.2f", imgui.SliderFlagsNone) {
				changed = true
			}
			if changed {
				app.applyEdit(app.scene.SetMaterial(idx, m))
			}

			if imgui.Button("Remove") {
				app.applyEdit(app.scene.RemoveMaterial(idx))
			}
			imgui.TreePop()
		}
		imgui.PopID()
	}
}

// applyEdit reports a rejected edit or marks the scene modified.
func (app *App) applyEdit(err error) {
	if err != nil {
		app.setStatus("%v", err)
		return
	}
	app.markDirty()
}

// renderViewport shows the rendered frame and drives the camera.
func (app *App) renderViewport(dt float32) {
	imgui.PushStyleVarVec2(imgui.StyleVarWindowPadding, imgui.NewVec2(0, 0))
	if imgui.BeginV("Viewport", nil, panelFlags|imgui.WindowFlagsNoScrollbar|imgui.WindowFlagsNoScrollWithMouse) {
		avail := imgui.ContentRegionAvail()
		width, height := int(avail.X), int(avail.Y)

		if width > 0 && height > 0 {
			if app.camera.Update(dt, &app.camInput) || app.autoFrame || !app.rendered {
				app.renderFrame(width, height)
			}

			origin := ui.Image(app.frame, float32(width), float32(height))
			hovered := imgui.IsItemHovered()

			// Keep looking while a drag that started here is held
			app.camInput.Enabled = hovered || (app.camInput.Enabled && imgui.IsMouseDown(imgui.MouseButtonRight))

			if hovered && imgui.IsMouseClickedBool(imgui.MouseButtonLeft) {
				app.pick(origin, float32(height))
			}
		}
	}
	imgui.End()
	imgui.PopStyleVar()
}

// pick selects the sphere under the mouse. Screen y grows downward while the
// render's rows grow upward.
func (app *App) pick(origin imgui.Vec2, height float32) {
	mouse := imgui.MousePos()
	x := mouse.X - origin.X
	y := height - (mouse.Y - origin.Y)

	hit, ok := raycast.Pick(app.camera, app.scene.Spheres(), x, y)
	if !ok {
		app.selected = -1
		return
	}
	app.selected = hit.Index
}
