package input

import (
	"testing"

	"github.com/Faultbox/shadowmaps/internal/engine/camera"
	"github.com/Faultbox/shadowmaps/pkg/math"
)

func TestNormalizeCursor(t *testing.T) {
	tests := []struct {
		name          string
		x, y          float32
		width, height int32
		want          math.Vec2
	}{
		{"top left", 0, 0, 800, 600, math.Vec2{X: -0.5, Y: -0.5}},
		{"center", 400, 300, 800, 600, math.Vec2{}},
		{"bottom right", 800, 600, 800, 600, math.Vec2{X: 0.5, Y: 0.5}},
		{"quarter", 200, 450, 800, 600, math.Vec2{X: -0.25, Y: 0.25}},
		{"zero window", 10, 10, 0, 0, math.Vec2{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NormalizeCursor(tt.x, tt.y, tt.width, tt.height); got != tt.want {
				t.Errorf("NormalizeCursor = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestMovementKeys(t *testing.T) {
	held := map[Key]bool{KeyForward: true, KeyRight: true, KeyDown: true, KeyQuit: true}
	got := MovementKeys(func(k Key) bool { return held[k] })
	want := camera.Keys{Forward: true, Right: true, Down: true}
	if got != want {
		t.Errorf("MovementKeys = %+v, want %+v", got, want)
	}
}

func TestBindingsComplete(t *testing.T) {
	seen := map[string]Key{}
	for k := Key(0); k < keyCount; k++ {
		if k.String() == "unknown" {
			t.Errorf("key %d has no name", k)
		}
		if scancodes[k] == 0 {
			t.Errorf("%s has no SDL binding", k)
		}
		if imguiKeys[k] == 0 {
			t.Errorf("%s has no ImGui binding", k)
		}
		if other, dup := seen[k.String()]; dup {
			t.Errorf("%d and %d share a name", k, other)
		}
		seen[k.String()] = k
	}
}
