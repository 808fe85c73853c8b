// Package framebuffer provides the offscreen color target the scene is
// shaded into when a UI draws it as a background image.
package framebuffer

import (
	"fmt"

	"github.com/Faultbox/shadowmaps/internal/engine/gpu"
)

// Object labels.
const (
	labelFBO   = "<scene fbo>"
	labelColor = "<scene color texture>"
	labelDepth = "<scene depth texture>"
)

// Framebuffer manages an offscreen render target with color and depth attachments.
type Framebuffer struct {
	dev          gpu.Resources
	fbo          gpu.Framebuffer
	colorTexture gpu.Texture
	depthTexture gpu.Texture
	width        int32
	height       int32
}

// New creates a new framebuffer with the specified dimensions.
func New(dev gpu.Resources, width, height int32) (*Framebuffer, error) {
	fb := &Framebuffer{dev: dev}
	if err := fb.create(max(width, 1), max(height, 1)); err != nil {
		return nil, fmt.Errorf("creating framebuffer: %w", err)
	}
	return fb, nil
}

func (fb *Framebuffer) create(width, height int32) error {
	fbo, err := fb.dev.CreateFramebuffer(labelFBO)
	if err != nil {
		return err
	}
	color, err := fb.dev.CreateTexture(gpu.TextureDesc{
		Label:  labelColor,
		Size:   width,
		Height: height,
		Format: gpu.FormatRGBA8,
	})
	if err != nil {
		fb.dev.DeleteFramebuffer(fbo)
		return err
	}
	depth, err := fb.dev.CreateTexture(gpu.TextureDesc{
		Label:  labelDepth,
		Size:   width,
		Height: height,
		Format: gpu.FormatDepth32F,
	})
	if err != nil {
		fb.dev.DeleteTexture(color)
		fb.dev.DeleteFramebuffer(fbo)
		return err
	}

	fb.dev.AttachColor(fbo, color)
	fb.dev.AttachDepth(fbo, depth)
	if err := fb.dev.CheckFramebuffer(fbo); err != nil {
		fb.dev.DeleteTexture(depth)
		fb.dev.DeleteTexture(color)
		fb.dev.DeleteFramebuffer(fbo)
		return err
	}

	fb.fbo, fb.colorTexture, fb.depthTexture = fbo, color, depth
	fb.width, fb.height = width, height
	return nil
}

// ColorTexture returns the color attachment texture.
func (fb *Framebuffer) ColorTexture() gpu.Texture {
	return fb.colorTexture
}

// FBO returns the underlying framebuffer object.
func (fb *Framebuffer) FBO() gpu.Framebuffer {
	return fb.fbo
}

// Size returns the framebuffer dimensions.
func (fb *Framebuffer) Size() (width, height int32) {
	return fb.width, fb.height
}

// Resize recreates the attachments if the dimensions changed. On failure
// the previous attachments stay in place.
func (fb *Framebuffer) Resize(width, height int32) error {
	width, height = max(width, 1), max(height, 1)
	if width == fb.width && height == fb.height {
		return nil
	}

	old := *fb
	if err := fb.create(width, height); err != nil {
		return fmt.Errorf("resizing framebuffer to %dx%d: %w", width, height, err)
	}
	old.Destroy()
	return nil
}

// Destroy releases all GPU resources.
func (fb *Framebuffer) Destroy() {
	fb.dev.DeleteFramebuffer(fb.fbo)
	fb.dev.DeleteTexture(fb.colorTexture)
	fb.dev.DeleteTexture(fb.depthTexture)
	fb.fbo, fb.colorTexture, fb.depthTexture = 0, 0, 0
}
