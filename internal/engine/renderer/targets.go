package renderer

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/Faultbox/shadowmaps/internal/engine/gpu"
	"github.com/Faultbox/shadowmaps/internal/engine/shadow"
)

// Render target labels.
const (
	labelFramebuffer = "<shadow map fbo>"
	labelColor       = "<shadow map color texture>"
	labelColor2      = "<shadow map color texture 2>"
	labelDepth       = "<shadow map depth texture>"
)

// Targets is the shadow framebuffer and its textures. Color holds light
// depth (R32F) or depth moments (RG32F); Color2 exists only for moments and
// is the intermediate of the separable blur.
type Targets struct {
	Format      shadow.TargetFormat
	Framebuffer gpu.Framebuffer
	Color       gpu.Texture
	Color2      gpu.Texture
	Depth       gpu.Texture
}

// NewTargets creates the targets for format. An incomplete framebuffer is
// logged and the targets are returned anyway.
func NewTargets(dev gpu.Resources, format shadow.TargetFormat, log *zap.Logger) (*Targets, error) {
	t := &Targets{Format: format}

	var err error
	t.Framebuffer, err = dev.CreateFramebuffer(labelFramebuffer)
	if err != nil {
		return nil, fmt.Errorf("creating shadow framebuffer: %w", err)
	}

	colorFormat := gpu.FormatR32F
	if format.Moments {
		colorFormat = gpu.FormatRG32F
		t.Color2, err = dev.CreateTexture(gpu.TextureDesc{
			Label:  labelColor2,
			Size:   format.Resolution,
			Format: colorFormat,
		})
		if err != nil {
			t.Release(dev)
			return nil, fmt.Errorf("creating blur texture: %w", err)
		}
	}

	// Moment textures clamp to the edge; depth textures read white outside.
	t.Color, err = dev.CreateTexture(gpu.TextureDesc{
		Label:  labelColor,
		Size:   format.Resolution,
		Format: colorFormat,
		Border: !format.Moments,
	})
	if err != nil {
		t.Release(dev)
		return nil, fmt.Errorf("creating shadow color texture: %w", err)
	}

	t.Depth, err = dev.CreateTexture(gpu.TextureDesc{
		Label:  labelDepth,
		Size:   format.Resolution,
		Format: gpu.FormatDepth32F,
		Border: true,
	})
	if err != nil {
		t.Release(dev)
		return nil, fmt.Errorf("creating shadow depth texture: %w", err)
	}

	dev.AttachColor(t.Framebuffer, t.Color)
	dev.AttachDepth(t.Framebuffer, t.Depth)
	if err := dev.CheckFramebuffer(t.Framebuffer); err != nil {
		log.Error("shadow framebuffer incomplete",
			zap.Int32("resolution", format.Resolution),
			zap.Bool("moments", format.Moments),
			zap.Error(err),
		)
	}

	return t, nil
}

// ShadowMap returns the texture the shading pass samples.
func (t *Targets) ShadowMap() gpu.Texture {
	if t.Format.Moments {
		return t.Color
	}
	return t.Depth
}

// Preview returns the textures worth showing in a debug view.
func (t *Targets) Preview() []gpu.Texture {
	if t.Format.Moments {
		return []gpu.Texture{t.Color, t.Color2}
	}
	return []gpu.Texture{t.Depth}
}

// Release deletes every object. Calling it twice is a no-op.
func (t *Targets) Release(dev gpu.Resources) {
	if t == nil {
		return
	}
	dev.DeleteTexture(t.Color2)
	dev.DeleteTexture(t.Color)
	dev.DeleteTexture(t.Depth)
	dev.DeleteFramebuffer(t.Framebuffer)
	t.Color2, t.Color, t.Depth, t.Framebuffer = 0, 0, 0, 0
}
