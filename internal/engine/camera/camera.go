// Package camera provides the free-flying first-person camera used to look
// around the scene.
package camera

import (
	"github.com/Faultbox/shadowmaps/pkg/math"
)

// worldUp is the fixed up axis; the camera never rolls around its view axis.
var worldUp = math.UnitY

// Config holds the camera's starting pose and tuning.
type Config struct {
	Position      math.Vec3
	MoveSpeed     float32 // world units per second
	RotationSpeed float32 // radians per full-window cursor sweep
	FOV           float32 // vertical field of view, degrees
	Near          float32
	Far           float32
}

// DefaultConfig returns the demo's starting camera.
func DefaultConfig() Config {
	return Config{
		Position:      math.Vec3{X: 0, Y: 30, Z: 0},
		MoveSpeed:     50,
		RotationSpeed: 0.75,
		FOV:           70,
		Near:          1,
		Far:           100,
	}
}

// Keys is the set of movement keys held this frame.
type Keys struct {
	Forward, Back bool // W, S
	Left, Right   bool // A, D
	Up, Down      bool // R, F
}

// FirstPerson is a mouse-look camera. Rotation is the world-to-view rotation
// and stays normalized after every update.
type FirstPerson struct {
	Position math.Vec3
	Rotation math.Quat

	// Basis vectors derived from Rotation on the last look update.
	Forward, Right, Up math.Vec3

	MoveSpeed     float32
	RotationSpeed float32
	FOV           float32
	Near, Far     float32

	View       math.Mat4
	Projection math.Mat4

	cursor math.Vec2
}

// NewFirstPerson creates a camera looking down -Z from cfg.Position.
func NewFirstPerson(cfg Config) *FirstPerson {
	return &FirstPerson{
		Position:      cfg.Position,
		Rotation:      math.QuatIdentity(),
		Forward:       math.Vec3{X: 0, Y: 0, Z: -1},
		Right:         math.UnitX,
		Up:            math.UnitY,
		MoveSpeed:     cfg.MoveSpeed,
		RotationSpeed: cfg.RotationSpeed,
		FOV:           cfg.FOV,
		Near:          cfg.Near,
		Far:           cfg.Far,
		View:          math.Identity(),
		Projection:    math.Identity(),
	}
}

// Look rotates the camera by the cursor movement since the previous frame.
// cursor is normalized to the window and centered, so each axis spans
// [-0.5, 0.5]. Rotation only happens while held is true; the stored cursor
// is refreshed regardless so releasing and pressing again does not jump.
func (c *FirstPerson) Look(cursor math.Vec2, held bool) {
	defer func() { c.cursor = cursor }()
	if !held {
		return
	}

	delta := cursor.Sub(c.cursor).Scale(c.RotationSpeed)
	pitch := math.QuatFromAxisAngle(c.Right, delta.Y)
	yaw := math.QuatFromAxisAngle(c.Up, delta.X)
	c.Rotation = c.Rotation.Mul(pitch).Mul(yaw).Normalize()

	rot := c.Rotation.ToMat4()
	c.Forward = rot.Row(2).XYZ().Normalize().Negate()
	c.Right = rot.Row(0).XYZ().Normalize()
	c.Up = rot.Row(1).XYZ().Normalize()

	// Rebuild the rotation from the forward axis alone to drop any roll that
	// accumulated. Looking straight up or down has no defined yaw, keep the
	// current rotation there.
	if math.Abs(c.Forward.Dot(worldUp)) > 0.9999 {
		return
	}
	c.Rotation = math.QuatFromMat4(math.LookAt(math.Vec3{}, c.Forward, worldUp))
}

// Move translates the camera along its ground-projected axes and the world
// up axis. Opposite keys cancel out.
func (c *FirstPerson) Move(keys Keys, dt float32) {
	step := c.MoveSpeed * dt
	forward := horizontal(c.Forward).Scale(step)
	right := horizontal(c.Right).Scale(step)
	up := worldUp.Scale(step)

	if keys.Forward {
		c.Position = c.Position.Add(forward)
	}
	if keys.Back {
		c.Position = c.Position.Sub(forward)
	}
	if keys.Left {
		c.Position = c.Position.Sub(right)
	}
	if keys.Right {
		c.Position = c.Position.Add(right)
	}
	if keys.Up {
		c.Position = c.Position.Add(up)
	}
	if keys.Down {
		c.Position = c.Position.Sub(up)
	}
}

// UpdateMatrices recomputes View and Projection for the given aspect ratio.
func (c *FirstPerson) UpdateMatrices(aspect float32) {
	if aspect <= 0 {
		aspect = 1
	}
	c.View = c.Rotation.ToMat4().Mul(math.Translate(c.Position.Negate()))
	c.Projection = math.Perspective(math.Radians(c.FOV), aspect, c.Near, c.Far)
}

// horizontal projects v onto the ground plane. A vertical vector yields zero.
func horizontal(v math.Vec3) math.Vec3 {
	return math.Vec3{X: v.X, Y: 0, Z: v.Z}.Normalize()
}
