package input

import (
	"github.com/AllenDang/cimgui-go/imgui"
)

// imguiKeys binds logical keys for the ImGui frontend.
var imguiKeys = [keyCount]imgui.Key{
	KeyForward:    imgui.KeyW,
	KeyBack:       imgui.KeyS,
	KeyLeft:       imgui.KeyA,
	KeyRight:      imgui.KeyD,
	KeyUp:         imgui.KeyR,
	KeyDown:       imgui.KeyF,
	KeyQuit:       imgui.KeyEscape,
	KeyScreenshot: imgui.KeyF12,
}

// ImGui reads input through the ImGui IO of the current frame. It must be
// polled between NewFrame and Render, which the backend loop guarantees.
type ImGui struct{}

// NewImGui returns an ImGui poller.
func NewImGui() *ImGui {
	return &ImGui{}
}

// Poll samples keys and mouse. Mouse look is suppressed while the cursor
// is over a UI window.
func (ImGui) Poll(width, height int32) State {
	st := State{Width: width, Height: height}

	st.Keys = MovementKeys(func(k Key) bool {
		return imgui.IsKeyDown(imguiKeys[k])
	})
	st.Quit = imgui.IsKeyChordPressed(imgui.KeyChord(imguiKeys[KeyQuit]))
	st.Screenshot = imgui.IsKeyChordPressed(imgui.KeyChord(imguiKeys[KeyScreenshot]))

	pos := imgui.MousePos()
	st.Cursor = NormalizeCursor(pos.X, pos.Y, width, height)
	st.Look = imgui.IsMouseDown(imgui.MouseButtonRight) && !imgui.CurrentIO().WantCaptureMouse()

	return st
}

var _ Poller = ImGui{}
