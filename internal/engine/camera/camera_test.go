package camera

import (
	"testing"

	"github.com/Faultbox/shadowmaps/pkg/math"
)

func vecNear(a, b math.Vec3, eps float32) bool {
	return a.Sub(b).Length() <= eps
}

func TestMoveForward(t *testing.T) {
	c := NewFirstPerson(DefaultConfig())
	start := c.Position
	c.Move(Keys{Forward: true}, 0.1)

	got := c.Position.Sub(start)
	want := math.Vec3{X: 0, Y: 0, Z: -5}
	if !vecNear(got, want, 1e-5) {
		t.Errorf("moved by %v, want %v", got, want)
	}
}

func TestOppositeKeysCancel(t *testing.T) {
	tests := []struct {
		name string
		keys Keys
	}{
		{"forward+back", Keys{Forward: true, Back: true}},
		{"left+right", Keys{Left: true, Right: true}},
		{"up+down", Keys{Up: true, Down: true}},
		{"all", Keys{true, true, true, true, true, true}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := NewFirstPerson(DefaultConfig())
			start := c.Position
			c.Move(tt.keys, 0.1)
			if !vecNear(c.Position, start, 1e-5) {
				t.Errorf("position = %v, want %v", c.Position, start)
			}
		})
	}
}

func TestMoveIgnoresPitch(t *testing.T) {
	c := NewFirstPerson(DefaultConfig())
	c.Look(math.Vec2{}, true)
	c.Look(math.Vec2{X: 0, Y: 0.4}, true) // pitch
	start := c.Position
	c.Move(Keys{Forward: true}, 1)

	if d := c.Position.Y - start.Y; math.Abs(d) > 1e-4 {
		t.Errorf("forward movement changed height by %v", d)
	}
	if moved := c.Position.Sub(start).Length(); !math.NearlyEqual(moved, c.MoveSpeed, 1e-3) {
		t.Errorf("moved %v units, want %v", moved, c.MoveSpeed)
	}
}

func TestMoveStraightDownIsSafe(t *testing.T) {
	c := NewFirstPerson(DefaultConfig())
	c.Forward = math.Vec3{X: 0, Y: -1, Z: 0}
	start := c.Position
	c.Move(Keys{Forward: true}, 1)
	if c.Position != start {
		t.Errorf("position = %v, want unchanged %v", c.Position, start)
	}
}

func TestLookKeepsUnitRotation(t *testing.T) {
	c := NewFirstPerson(DefaultConfig())
	cursors := []math.Vec2{
		{X: 0, Y: 0}, {X: 0.1, Y: 0.05}, {X: -0.3, Y: 0.2}, {X: 0.45, Y: -0.4},
		{X: -0.5, Y: 0.5}, {X: 0.2, Y: -0.1}, {X: 0.49, Y: 0.49},
	}
	for i := 0; i < 50; i++ {
		for _, cur := range cursors {
			c.Look(cur, true)
			if l := c.Rotation.Length(); !math.NearlyEqual(l, 1, 1e-5) {
				t.Fatalf("rotation norm = %v, want 1", l)
			}
		}
	}
}

func TestLookHasNoRoll(t *testing.T) {
	c := NewFirstPerson(DefaultConfig())
	c.Look(math.Vec2{}, true)
	c.Look(math.Vec2{X: 0.3, Y: 0.2}, true)
	c.Look(math.Vec2{X: -0.1, Y: -0.3}, true)

	right := c.Rotation.ToMat4().Row(0).XYZ()
	if math.Abs(right.Y) > 1e-4 {
		t.Errorf("right axis %v tilted off the ground plane", right)
	}
}

func TestLookReleased(t *testing.T) {
	c := NewFirstPerson(DefaultConfig())
	before := c.Rotation
	c.Look(math.Vec2{X: 0.3, Y: 0.3}, false)
	if c.Rotation != before {
		t.Errorf("rotation changed while look button released")
	}

	// The cursor was still tracked, so pressing again at the same spot
	// produces no jump.
	c.Look(math.Vec2{X: 0.3, Y: 0.3}, true)
	if !vecNear(c.Forward, math.Vec3{X: 0, Y: 0, Z: -1}, 1e-5) {
		t.Errorf("forward = %v after pressing without movement", c.Forward)
	}
}

func TestUpdateMatrices(t *testing.T) {
	c := NewFirstPerson(DefaultConfig())
	c.UpdateMatrices(16.0 / 9.0)

	eye := c.View.TransformPoint(c.Position)
	if eye.Length() > 1e-4 {
		t.Errorf("camera position in view space = %v, want origin", eye)
	}
	ahead := c.View.TransformPoint(c.Position.Add(math.Vec3{X: 0, Y: 0, Z: -10}))
	if !math.NearlyEqual(ahead.Z, -10, 1e-4) {
		t.Errorf("point ahead mapped to %v, want z = -10", ahead)
	}
	if c.Projection[11] != -1 {
		t.Errorf("projection is not perspective: %v", c.Projection)
	}
}
