// Package texture uploads rendered frames to OpenGL textures.
package texture

import (
	"github.com/go-gl/gl/v4.1-core/gl"

	"github.com/Faultbox/raytracer/internal/engine/framebuffer"
)

// Texture is a 2D RGBA8 texture sized to follow the framebuffer it mirrors.
type Texture struct {
	id     uint32
	width  int32
	height int32
}

// New creates an empty texture. Requires a current GL context.
func New() *Texture {
	t := &Texture{}
	gl.GenTextures(1, &t.id)
	gl.BindTexture(gl.TEXTURE_2D, t.id)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, gl.NEAREST)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, gl.NEAREST)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_S, gl.CLAMP_TO_EDGE)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_T, gl.CLAMP_TO_EDGE)
	return t
}

// Upload copies the framebuffer into the texture, reallocating storage when
// the size changed. Framebuffer row 0 lands at texture row 0, which GL
// samples at v = 0 (the bottom), so no flip is needed.
func (t *Texture) Upload(fb *framebuffer.Framebuffer) {
	w, h := fb.Size()
	pixels := fb.Pixels()
	if len(pixels) == 0 {
		return
	}

	gl.BindTexture(gl.TEXTURE_2D, t.id)
	gl.PixelStorei(gl.UNPACK_ALIGNMENT, 4)
	if int32(w) != t.width || int32(h) != t.height {
		t.width, t.height = int32(w), int32(h)
		gl.TexImage2D(gl.TEXTURE_2D, 0, gl.RGBA8, t.width, t.height, 0,
			gl.RGBA, gl.UNSIGNED_BYTE, gl.Ptr(pixels))
		return
	}
	gl.TexSubImage2D(gl.TEXTURE_2D, 0, 0, 0, t.width, t.height,
		gl.RGBA, gl.UNSIGNED_BYTE, gl.Ptr(pixels))
}

// ID returns the GL texture name.
func (t *Texture) ID() uint32 {
	return t.id
}

// Size returns the allocated texture size.
func (t *Texture) Size() (width, height int) {
	return int(t.width), int(t.height)
}

// Destroy releases the texture.
func (t *Texture) Destroy() {
	if t.id != 0 {
		gl.DeleteTextures(1, &t.id)
		t.id = 0
	}
}
