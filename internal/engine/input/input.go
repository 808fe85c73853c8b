// Package input turns window-system input into the per-frame state the
// camera and the app loop consume.
package input

import (
	"github.com/Faultbox/shadowmaps/internal/engine/camera"
	"github.com/Faultbox/shadowmaps/pkg/math"
)

// Key is a logical key, independent of the backend reporting it.
type Key int

const (
	KeyForward Key = iota
	KeyBack
	KeyLeft
	KeyRight
	KeyUp
	KeyDown
	KeyQuit
	KeyScreenshot

	keyCount
)

func (k Key) String() string {
	switch k {
	case KeyForward:
		return "forward"
	case KeyBack:
		return "back"
	case KeyLeft:
		return "left"
	case KeyRight:
		return "right"
	case KeyUp:
		return "up"
	case KeyDown:
		return "down"
	case KeyQuit:
		return "quit"
	case KeyScreenshot:
		return "screenshot"
	default:
		return "unknown"
	}
}

// State is the input of one frame.
type State struct {
	// Cursor is the mouse position relative to the window center, each axis
	// in [-0.5, 0.5].
	Cursor math.Vec2
	// Look is true while the right mouse button is held over the scene.
	Look bool
	Keys camera.Keys

	// Edge-triggered actions.
	Quit       bool
	Screenshot bool

	// Resized reports a window size change during the frame.
	Resized       bool
	Width, Height int32
}

// Poller produces one State per frame.
type Poller interface {
	Poll(width, height int32) State
}

// NormalizeCursor maps a pixel position to [-0.5, 0.5] on both axes. A
// zero-sized window yields the center.
func NormalizeCursor(x, y float32, width, height int32) math.Vec2 {
	if width <= 0 || height <= 0 {
		return math.Vec2{}
	}
	return math.Vec2{
		X: x/float32(width) - 0.5,
		Y: y/float32(height) - 0.5,
	}
}

// MovementKeys collects the held movement keys through down.
func MovementKeys(down func(Key) bool) camera.Keys {
	return camera.Keys{
		Forward: down(KeyForward),
		Back:    down(KeyBack),
		Left:    down(KeyLeft),
		Right:   down(KeyRight),
		Up:      down(KeyUp),
		Down:    down(KeyDown),
	}
}
