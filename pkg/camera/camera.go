// Package camera implements the Euler-angle first-person camera that feeds
// view and projection matrices to the rasterizer.
package camera

import (
	"math"

	"github.com/rasterforge/pipeline/pkg/vecmath"
)

// Movement enumerates the directions ProcessKeyboard understands.
type Movement int

// Movement directions.
const (
	Forward Movement = iota
	Backward
	Left
	Right
	Up
	Down
)

// Default camera tuning constants, taken from the reference FPS camera this
// package is modeled on.
const (
	DefaultYaw         = -90.0
	DefaultPitch       = 0.0
	DefaultSpeed       = 2.5
	DefaultSensitivity = 0.1
	DefaultZoom        = 45.0
)

// Camera tracks an eye position and an Euler-angle orientation (yaw/pitch in
// degrees) and derives an orthonormal front/right/up basis from them.
type Camera struct {
	Position vecmath.Vec3
	Front    vecmath.Vec3
	Up       vecmath.Vec3
	Right    vecmath.Vec3
	WorldUp  vecmath.Vec3

	Yaw   float64
	Pitch float64

	MovementSpeed    float64
	MouseSensitivity float64
	Zoom             float64
}

// New creates a Camera at pos with the given world-up vector and initial
// yaw/pitch (degrees), then derives its basis.
func New(pos, worldUp vecmath.Vec3, yaw, pitch float64) *Camera {
	c := &Camera{
		Position:         pos,
		Front:            vecmath.V3(0, 0, -1),
		WorldUp:          worldUp,
		Yaw:              yaw,
		Pitch:            pitch,
		MovementSpeed:    DefaultSpeed,
		MouseSensitivity: DefaultSensitivity,
		Zoom:             DefaultZoom,
	}
	c.updateVectors()
	return c
}

// NewDefault creates a Camera at the origin facing -Z with default tuning.
func NewDefault() *Camera {
	return New(vecmath.Zero3(), vecmath.Up(), DefaultYaw, DefaultPitch)
}

// ViewMatrix returns the current look-at view matrix.
func (c *Camera) ViewMatrix() vecmath.Mat4 {
	return vecmath.LookAt(c.Position, c.Position.Add(c.Front), c.Up)
}

// ProjectionMatrix returns a perspective projection using Zoom as the
// vertical field of view, in degrees.
func (c *Camera) ProjectionMatrix(aspect float64) vecmath.Mat4 {
	return vecmath.Perspective(vecmath.DegToRadians(c.Zoom), aspect, 0.1, 100)
}

// ProcessKeyboard moves the camera along its basis vectors by
// MovementSpeed*deltaTime.
func (c *Camera) ProcessKeyboard(dir Movement, deltaTime float64) {
	velocity := c.MovementSpeed * deltaTime
	switch dir {
	case Forward:
		c.Position = c.Position.Add(c.Front.Scale(velocity))
	case Backward:
		c.Position = c.Position.Sub(c.Front.Scale(velocity))
	case Left:
		c.Position = c.Position.Sub(c.Right.Scale(velocity))
	case Right:
		c.Position = c.Position.Add(c.Right.Scale(velocity))
	case Up:
		c.Position = c.Position.Add(c.Up.Scale(velocity))
	case Down:
		c.Position = c.Position.Sub(c.Up.Scale(velocity))
	}
}

// ProcessMouseMovement applies a mouse delta to yaw/pitch, clamping pitch to
// [-89, 89] when constrainPitch is set, then rebuilds the basis.
func (c *Camera) ProcessMouseMovement(dx, dy float64, constrainPitch bool) {
	c.Yaw += dx * c.MouseSensitivity
	c.Pitch += dy * c.MouseSensitivity

	if constrainPitch {
		if c.Pitch > 89 {
			c.Pitch = 89
		}
		if c.Pitch < -89 {
			c.Pitch = -89
		}
	}

	c.updateVectors()
}

// ProcessMouseScroll adjusts Zoom by -dy, clamped to [1, 45].
func (c *Camera) ProcessMouseScroll(dy float64) {
	c.Zoom -= dy
	if c.Zoom < 1 {
		c.Zoom = 1
	}
	if c.Zoom > 45 {
		c.Zoom = 45
	}
}

// updateVectors recomputes Front/Right/Up from Yaw/Pitch/WorldUp.
func (c *Camera) updateVectors() {
	yawRad := vecmath.DegToRadians(c.Yaw)
	pitchRad := vecmath.DegToRadians(c.Pitch)

	front := vecmath.V3(
		math.Cos(yawRad)*math.Cos(pitchRad),
		math.Sin(pitchRad),
		math.Sin(yawRad)*math.Cos(pitchRad),
	)
	c.Front = front.Normalize()
	c.Right = c.Front.Cross(c.WorldUp).Normalize()
	c.Up = c.Right.Cross(c.Front).Normalize()
}
