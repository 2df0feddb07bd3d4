// Package debug provides frame capture utilities.
package debug

import (
	"errors"
	"fmt"
	"image"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"golang.org/x/image/bmp"

	"github.com/Faultbox/raytracer/internal/engine/framebuffer"
)

// ErrUnknownFormat is returned for image formats other than png and bmp.
var ErrUnknownFormat = errors.New("unknown image format")

// Format is a screenshot file format.
type Format string

// Supported formats.
const (
	FormatPNG Format = "png"
	FormatBMP Format = "bmp"
)

// ParseFormat maps a config or file extension string to a Format.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimPrefix(s, "."))); f {
	case FormatPNG, FormatBMP:
		return f, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownFormat, s)
}

// Encode writes img in the given format.
func Encode(w io.Writer, img image.Image, format Format) error {
	switch format {
	case FormatPNG:
		return png.Encode(w, img)
	case FormatBMP:
		return bmp.Encode(w, img)
	}
	return fmt.Errorf("%w: %q", ErrUnknownFormat, format)
}

// ScreenshotCapture writes rendered frames to timestamped files.
type ScreenshotCapture struct {
	outputDir string
	prefix    string
	format    Format

	now func() time.Time
}

// NewScreenshotCapture creates a new screenshot capture handler.
func NewScreenshotCapture(outputDir, prefix string, format Format) *ScreenshotCapture {
	return &ScreenshotCapture{
		outputDir: outputDir,
		prefix:    prefix,
		format:    format,
		now:       time.Now,
	}
}

// SetOutputDir sets the output directory for screenshots.
func (sc *ScreenshotCapture) SetOutputDir(dir string) {
	sc.outputDir = dir
}

// Capture saves the framebuffer. Row 0 of a render is the bottom of the
// picture, so rows are flipped on the way out.
func (sc *ScreenshotCapture) Capture(fb *framebuffer.Framebuffer) (string, error) {
	w, h := fb.Size()
	if w == 0 || h == 0 {
		return "", fmt.Errorf("capturing %dx%d framebuffer: nothing rendered", w, h)
	}
	return sc.CaptureFromImage(fb.ToImage(true))
}

// CaptureFromImage saves an existing image.
func (sc *ScreenshotCapture) CaptureFromImage(img image.Image) (string, error) {
	// Create output directory if needed
	if sc.outputDir != "" {
		if err := os.MkdirAll(sc.outputDir, 0755); err != nil {
			return "", fmt.Errorf("creating output dir: %w", err)
		}
	}

	filename := sc.GenerateFilename()
	if err := WriteImage(filename, img, sc.format); err != nil {
		return "", err
	}
	return filename, nil
}

// GenerateFilename generates a screenshot filename without saving.
func (sc *ScreenshotCapture) GenerateFilename() string {
	timestamp := sc.now().Format("2006-01-02_15-04-05.000")
	filename := fmt.Sprintf("%s_%s.%s", sc.prefix, timestamp, sc.format)
	if sc.outputDir != "" {
		filename = filepath.Join(sc.outputDir, filename)
	}
	return filename
}

// WriteImage encodes img to path.
func WriteImage(path string, img image.Image, format Format) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating file: %w", err)
	}
	defer file.Close()

	if err := Encode(file, img, format); err != nil {
		return fmt.Errorf("encoding %s: %w", format, err)
	}
	return file.Close()
}
