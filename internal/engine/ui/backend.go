// Package ui provides the ImGui frontend: the window backend and the
// shadow settings panels.
package ui

import (
	"fmt"
	"os"

	"github.com/AllenDang/cimgui-go/backend"
	"github.com/AllenDang/cimgui-go/backend/sdlbackend"
	"github.com/AllenDang/cimgui-go/imgui"
	"go.uber.org/zap"
)

// BackendConfig configures the ImGui window.
type BackendConfig struct {
	Title         string
	Width, Height int
	// FontPath is an optional TTF replacing the built-in font.
	FontPath string
	FontSize float32
}

// Backend wraps the ImGui SDL backend. Creating it creates the window and
// makes its OpenGL context current.
type Backend struct {
	backend backend.Backend[sdlbackend.SDLWindowFlags]
	log     *zap.Logger
}

// NewBackend creates the backend and its window.
func NewBackend(cfg BackendConfig, log *zap.Logger) (*Backend, error) {
	b := &Backend{log: log}

	var err error
	b.backend, err = backend.CreateBackend(sdlbackend.NewSDLBackend())
	if err != nil {
		return nil, fmt.Errorf("create backend: %w", err)
	}

	b.backend.SetAfterCreateContextHook(func() {
		imgui.StyleColorsDark()
		if cfg.FontPath != "" {
			b.loadFont(cfg.FontPath, cfg.FontSize)
		}
	})

	b.backend.SetBgColor(imgui.NewVec4(0.5, 0.8, 1.0, 1.0))
	b.backend.CreateWindow(cfg.Title, cfg.Width, cfg.Height)

	log.Info("imgui backend created",
		zap.String("title", cfg.Title),
		zap.Int("width", cfg.Width),
		zap.Int("height", cfg.Height),
	)
	return b, nil
}

func (b *Backend) loadFont(path string, size float32) {
	if _, err := os.Stat(path); err != nil {
		b.log.Warn("font not found, using default", zap.String("path", path), zap.Error(err))
		return
	}
	if size <= 0 {
		size = 16
	}

	fontCfg := imgui.NewFontConfig()
	defer fontCfg.Destroy()

	imgui.CurrentIO().Fonts().AddFontFromFileTTFV(path, size, fontCfg, nil)
}

// Run starts the main render loop. It returns when the window closes.
func (b *Backend) Run(renderFunc func()) {
	b.backend.Run(renderFunc)
}

// Close asks the loop to stop after the current frame.
func (b *Backend) Close() {
	b.backend.SetShouldClose(true)
}

// SetWindowTitle updates the window title.
func (b *Backend) SetWindowTitle(title string) {
	b.backend.SetWindowTitle(title)
}

// DisplaySize returns the current framebuffer size in pixels.
func (b *Backend) DisplaySize() (int32, int32) {
	return b.backend.DisplaySize()
}
