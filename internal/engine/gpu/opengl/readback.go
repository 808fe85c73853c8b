package opengl

import (
	"github.com/go-gl/gl/v4.6-core/gl"

	"github.com/Faultbox/shadowmaps/internal/engine/gpu"
)

// ReadPixels reads the color attachment of fb as tightly packed RGBA rows,
// bottom row first.
func (d *Device) ReadPixels(fb gpu.Framebuffer, width, height int32) []byte {
	pixels := make([]byte, width*height*4)

	var prevFBO int32
	gl.GetIntegerv(gl.FRAMEBUFFER_BINDING, &prevFBO)
	gl.BindFramebuffer(gl.FRAMEBUFFER, uint32(fb))
	gl.PixelStorei(gl.PACK_ALIGNMENT, 1)
	gl.ReadPixels(0, 0, width, height, gl.RGBA, gl.UNSIGNED_BYTE, gl.Ptr(pixels))
	gl.BindFramebuffer(gl.FRAMEBUFFER, uint32(prevFBO))

	return pixels
}
