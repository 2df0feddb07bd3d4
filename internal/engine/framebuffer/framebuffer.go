// Package framebuffer provides the CPU pixel buffer the ray caster writes into.
package framebuffer

import (
	"encoding/binary"
	"image"
)

// Framebuffer stores one packed 0xAABBGGRR pixel per element, row-major.
// On little-endian byte order each pixel reads as R, G, B, A.
type Framebuffer struct {
	pixels []uint32
	width  int
	height int
}

// New creates a framebuffer with the specified dimensions.
// Negative dimensions are treated as zero.
func New(width, height int) *Framebuffer {
	fb := &Framebuffer{}
	fb.Resize(width, height)
	return fb
}

// Resize replaces the pixel storage if the dimensions have changed and
// reports whether it did. Old pixel data is not carried over.
func (fb *Framebuffer) Resize(width, height int) bool {
	if width < 0 {
		width = 0
	}
	if height < 0 {
		height = 0
	}
	if fb.pixels != nil && width == fb.width && height == fb.height {
		return false
	}

	fb.width = width
	fb.height = height
	fb.pixels = make([]uint32, width*height)
	return true
}

// Size returns the framebuffer dimensions.
func (fb *Framebuffer) Size() (width, height int) {
	return fb.width, fb.height
}

// Pixels returns the backing pixel slice, indexed x + y*width.
func (fb *Framebuffer) Pixels() []uint32 {
	return fb.pixels
}

// Row returns the pixels of row y.
func (fb *Framebuffer) Row(y int) []uint32 {
	return fb.pixels[y*fb.width : (y+1)*fb.width]
}

// At returns the packed pixel at (x, y).
func (fb *Framebuffer) At(x, y int) uint32 {
	return fb.pixels[x+y*fb.width]
}

// Clear fills every pixel with v.
func (fb *Framebuffer) Clear(v uint32) {
	for i := range fb.pixels {
		fb.pixels[i] = v
	}
}

// Bytes returns the pixels as tightly packed RGBA bytes, row 0 first.
func (fb *Framebuffer) Bytes() []byte {
	out := make([]byte, len(fb.pixels)*4)
	for i, p := range fb.pixels {
		binary.LittleEndian.PutUint32(out[i*4:], p)
	}
	return out
}

// ToImage copies the pixels into an RGBA image. With flip set, row 0 of the
// framebuffer becomes the last image row, which turns the bottom-up render
// into a top-down picture.
func (fb *Framebuffer) ToImage(flip bool) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, fb.width, fb.height))
	for y := 0; y < fb.height; y++ {
		dstY := y
		if flip {
			dstY = fb.height - 1 - y
		}
		dst := img.Pix[dstY*img.Stride : dstY*img.Stride+fb.width*4]
		for x, p := range fb.Row(y) {
			binary.LittleEndian.PutUint32(dst[x*4:], p)
		}
	}
	return img
}
