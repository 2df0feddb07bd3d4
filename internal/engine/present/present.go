// Package present draws a rendered frame to the default OpenGL framebuffer.
package present

import (
	"fmt"

	"github.com/go-gl/gl/v4.1-core/gl"
	"go.uber.org/zap"

	"github.com/Faultbox/raytracer/internal/engine/framebuffer"
	"github.com/Faultbox/raytracer/internal/engine/shader"
	"github.com/Faultbox/raytracer/internal/engine/texture"
	"github.com/Faultbox/raytracer/internal/logger"
)

// Presenter blits the CPU framebuffer to the window with a single
// full-screen triangle.
type Presenter struct {
	program  uint32
	vao      uint32
	texture  *texture.Texture
	uTexture int32

	width, height int

	log *zap.Logger
}

// New creates a presenter.
// IMPORTANT: Must be called AFTER OpenGL context is created!
func New() (*Presenter, error) {
	p := &Presenter{
		log: logger.Named("present"),
	}

	if err := gl.Init(); err != nil {
		return nil, fmt.Errorf("failed to initialize OpenGL: %w", err)
	}

	p.log.Info("OpenGL initialized",
		zap.String("version", gl.GoStr(gl.GetString(gl.VERSION))),
		zap.String("renderer", gl.GoStr(gl.GetString(gl.RENDERER))),
	)

	gl.Disable(gl.DEPTH_TEST)
	gl.ClearColor(0, 0, 0, 1)

	var err error
	p.program, err = shader.CompileProgram(shader.FullscreenVertex, shader.TextureFragment)
	if err != nil {
		return nil, fmt.Errorf("failed to create present program: %w", err)
	}
	p.uTexture, err = shader.Uniform(p.program, "uTexture")
	if err != nil {
		gl.DeleteProgram(p.program)
		return nil, err
	}

	// Core profile refuses to draw without a bound VAO, even an empty one
	gl.GenVertexArrays(1, &p.vao)

	p.texture = texture.New()
	return p, nil
}

// Close releases GL resources.
func (p *Presenter) Close() {
	p.log.Info("closing presenter")
	if p.texture != nil {
		p.texture.Destroy()
	}
	if p.vao != 0 {
		gl.DeleteVertexArrays(1, &p.vao)
	}
	if p.program != 0 {
		gl.DeleteProgram(p.program)
	}
}

// Resize sets the GL viewport to the drawable size.
func (p *Presenter) Resize(width, height int) {
	if width == p.width && height == p.height {
		return
	}
	p.width, p.height = width, height
	gl.Viewport(0, 0, int32(width), int32(height))
	p.log.Debug("viewport resized",
		zap.Int("width", width),
		zap.Int("height", height),
	)
}

// Draw uploads the framebuffer and draws it over the whole viewport.
func (p *Presenter) Draw(fb *framebuffer.Framebuffer) {
	gl.Clear(gl.COLOR_BUFFER_BIT)

	p.texture.Upload(fb)
	if w, h := p.texture.Size(); w == 0 || h == 0 {
		return
	}

	gl.UseProgram(p.program)
	gl.ActiveTexture(gl.TEXTURE0)
	gl.BindTexture(gl.TEXTURE_2D, p.texture.ID())
	gl.Uniform1i(p.uTexture, 0)

	gl.BindVertexArray(p.vao)
	gl.DrawArrays(gl.TRIANGLES, 0, 3)
	gl.BindVertexArray(0)
}
