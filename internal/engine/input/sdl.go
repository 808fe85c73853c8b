package input

import (
	"github.com/veandco/go-sdl2/sdl"
)

// scancodes binds logical keys for the SDL frontend.
var scancodes = [keyCount]sdl.Scancode{
	KeyForward:    sdl.SCANCODE_W,
	KeyBack:       sdl.SCANCODE_S,
	KeyLeft:       sdl.SCANCODE_A,
	KeyRight:      sdl.SCANCODE_D,
	KeyUp:         sdl.SCANCODE_R,
	KeyDown:       sdl.SCANCODE_F,
	KeyQuit:       sdl.SCANCODE_ESCAPE,
	KeyScreenshot: sdl.SCANCODE_F12,
}

// SDL polls the SDL event queue, keyboard and mouse.
type SDL struct {
	cursorHidden bool
}

// NewSDL returns an SDL poller. SDL must be initialized.
func NewSDL() *SDL {
	return &SDL{}
}

// Poll drains pending events and samples the held keys and mouse.
func (s *SDL) Poll(width, height int32) State {
	st := State{Width: width, Height: height}

	for event := sdl.PollEvent(); event != nil; event = sdl.PollEvent() {
		switch e := event.(type) {
		case *sdl.QuitEvent:
			st.Quit = true

		case *sdl.WindowEvent:
			if e.Event == sdl.WINDOWEVENT_RESIZED || e.Event == sdl.WINDOWEVENT_SIZE_CHANGED {
				st.Resized = true
				st.Width, st.Height = e.Data1, e.Data2
			}

		case *sdl.KeyboardEvent:
			if e.Type != sdl.KEYDOWN || e.Repeat != 0 {
				continue
			}
			switch e.Keysym.Scancode {
			case scancodes[KeyQuit]:
				st.Quit = true
			case scancodes[KeyScreenshot]:
				st.Screenshot = true
			}
		}
	}

	keys := sdl.GetKeyboardState()
	st.Keys = MovementKeys(func(k Key) bool {
		sc := int(scancodes[k])
		return sc < len(keys) && keys[sc] != 0
	})

	x, y, buttons := sdl.GetMouseState()
	st.Cursor = NormalizeCursor(float32(x), float32(y), st.Width, st.Height)
	st.Look = buttons&sdl.ButtonRMask() != 0
	s.showCursor(!st.Look)

	return st
}

func (s *SDL) showCursor(show bool) {
	if s.cursorHidden == !show {
		return
	}
	toggle := sdl.ENABLE
	if !show {
		toggle = sdl.DISABLE
	}
	if _, err := sdl.ShowCursor(toggle); err == nil {
		s.cursorHidden = !show
	}
}

var _ Poller = (*SDL)(nil)
