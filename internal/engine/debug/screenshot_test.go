package debug

import (
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/Faultbox/shadowmaps/internal/engine/gpu"
)

type fakeReader struct {
	pixels []byte
	fb     gpu.Framebuffer
}

func (r *fakeReader) ReadPixels(fb gpu.Framebuffer, width, height int32) []byte {
	r.fb = fb
	return r.pixels
}

func fixedCapture(dir string) *ScreenshotCapture {
	sc := NewScreenshotCapture(dir, "shadows")
	sc.now = func() time.Time { return time.Date(2026, 3, 4, 5, 6, 7, 0, time.UTC) }
	return sc
}

func TestCaptureFlipsRows(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "shots")
	sc := fixedCapture(dir)

	// Bottom row red, top row blue.
	r := &fakeReader{pixels: []byte{
		255, 0, 0, 255, 255, 0, 0, 255,
		0, 0, 255, 255, 0, 0, 255, 255,
	}}
	name, err := sc.Capture(r, 7, 2, 2)
	if err != nil {
		t.Fatalf("Capture: %v", err)
	}
	if r.fb != 7 {
		t.Errorf("read framebuffer %d, want 7", r.fb)
	}
	if want := filepath.Join(dir, "shadows_2026-03-04_05-06-07.png"); name != want {
		t.Errorf("name = %q, want %q", name, want)
	}

	f, err := os.Open(name)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	img, err := png.Decode(f)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got := color.RGBAModel.Convert(img.At(0, 0)).(color.RGBA); got != (color.RGBA{B: 255, A: 255}) {
		t.Errorf("top left = %v, want blue", got)
	}
	if got := color.RGBAModel.Convert(img.At(1, 1)).(color.RGBA); got != (color.RGBA{R: 255, A: 255}) {
		t.Errorf("bottom right = %v, want red", got)
	}
}

func TestCaptureDoesNotOverwrite(t *testing.T) {
	sc := fixedCapture(t.TempDir())
	pixels := make([]byte, 4)

	first, err := sc.CaptureFromPixels(pixels, 1, 1)
	if err != nil {
		t.Fatal(err)
	}
	second, err := sc.CaptureFromPixels(pixels, 1, 1)
	if err != nil {
		t.Fatal(err)
	}
	if first == second {
		t.Errorf("both captures wrote %q", first)
	}
	if filepath.Base(second) != "shadows_2026-03-04_05-06-07_1.png" {
		t.Errorf("second = %q", second)
	}
}

func TestCaptureSizeMismatch(t *testing.T) {
	sc := fixedCapture(t.TempDir())
	if _, err := sc.CaptureFromPixels(make([]byte, 3), 1, 1); err == nil {
		t.Error("expected error")
	}
}

func TestGenerateFilenameWithoutDir(t *testing.T) {
	sc := fixedCapture("")
	if got := sc.GenerateFilename(); got != "shadows_2026-03-04_05-06-07.png" {
		t.Errorf("GenerateFilename = %q", got)
	}
}
