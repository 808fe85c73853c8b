// Package debug provides debug capture utilities.
package debug

import (
	"errors"
	"fmt"
	"image"
	"image/png"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/Faultbox/shadowmaps/internal/engine/gpu"
)

// PixelReader reads back the color attachment of a framebuffer as RGBA rows,
// bottom row first.
type PixelReader interface {
	ReadPixels(fb gpu.Framebuffer, width, height int32) []byte
}

// ScreenshotCapture writes PNG screenshots.
type ScreenshotCapture struct {
	outputDir string
	prefix    string
	now       func() time.Time
}

// NewScreenshotCapture creates a new screenshot capture handler.
func NewScreenshotCapture(outputDir, prefix string) *ScreenshotCapture {
	return &ScreenshotCapture{
		outputDir: outputDir,
		prefix:    prefix,
		now:       time.Now,
	}
}

// Capture reads fb through r and saves it.
func (sc *ScreenshotCapture) Capture(r PixelReader, fb gpu.Framebuffer, width, height int32) (string, error) {
	return sc.CaptureFromPixels(r.ReadPixels(fb, width, height), int(width), int(height))
}

// CaptureFromPixels captures a screenshot from raw pixel data.
// pixels should be in RGBA format with width*height*4 bytes.
// The image is flipped vertically since OpenGL has origin at bottom-left.
func (sc *ScreenshotCapture) CaptureFromPixels(pixels []byte, width, height int) (string, error) {
	if len(pixels) != width*height*4 {
		return "", fmt.Errorf("pixel data size mismatch: expected %d, got %d", width*height*4, len(pixels))
	}

	img := image.NewRGBA(image.Rect(0, 0, width, height))
	rowSize := width * 4
	for y := 0; y < height; y++ {
		srcOffset := (height - 1 - y) * rowSize
		dstOffset := y * img.Stride
		copy(img.Pix[dstOffset:dstOffset+rowSize], pixels[srcOffset:srcOffset+rowSize])
	}

	return sc.CaptureFromImage(img)
}

// CaptureFromImage saves img under a new timestamped name.
func (sc *ScreenshotCapture) CaptureFromImage(img image.Image) (string, error) {
	if sc.outputDir != "" {
		if err := os.MkdirAll(sc.outputDir, 0o755); err != nil {
			return "", fmt.Errorf("creating output dir: %w", err)
		}
	}

	filename, err := sc.freeFilename()
	if err != nil {
		return "", err
	}

	file, err := os.OpenFile(filename, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return "", fmt.Errorf("creating file: %w", err)
	}
	defer file.Close()

	if err := png.Encode(file, img); err != nil {
		return "", fmt.Errorf("encoding PNG: %w", err)
	}
	return filename, nil
}

// GenerateFilename generates a screenshot filename without saving.
func (sc *ScreenshotCapture) GenerateFilename() string {
	return sc.filename(0)
}

func (sc *ScreenshotCapture) filename(n int) string {
	name := fmt.Sprintf("%s_%s", sc.prefix, sc.now().Format("2006-01-02_15-04-05"))
	if n > 0 {
		name = fmt.Sprintf("%s_%d", name, n)
	}
	return filepath.Join(sc.outputDir, name+".png")
}

// freeFilename picks the first name not yet on disk, so two captures in
// the same second do not overwrite each other.
func (sc *ScreenshotCapture) freeFilename() (string, error) {
	for n := 0; n < 100; n++ {
		name := sc.filename(n)
		if _, err := os.Stat(name); errors.Is(err, fs.ErrNotExist) {
			return name, nil
		}
	}
	return "", fmt.Errorf("no free screenshot name for %s", sc.filename(0))
}
