package camera

import (
	"math"
	"testing"
)

func almostEqual(a, b, tol float64) bool {
	return math.Abs(a-b) < tol
}

func checkOrthonormal(t *testing.T, c *Camera) {
	t.Helper()
	if !almostEqual(c.Front.Len(), 1, 1e-5) {
		t.Errorf("Front not unit length: %v (len %f)", c.Front, c.Front.Len())
	}
	if !almostEqual(c.Right.Len(), 1, 1e-5) {
		t.Errorf("Right not unit length: %v (len %f)", c.Right, c.Right.Len())
	}
	if !almostEqual(c.Up.Len(), 1, 1e-5) {
		t.Errorf("Up not unit length: %v (len %f)", c.Up, c.Up.Len())
	}
	if !almostEqual(c.Front.Dot(c.Right), 0, 1e-5) {
		t.Errorf("Front/Right not orthogonal: dot=%f", c.Front.Dot(c.Right))
	}
	if !almostEqual(c.Front.Dot(c.Up), 0, 1e-5) {
		t.Errorf("Front/Up not orthogonal: dot=%f", c.Front.Dot(c.Up))
	}
	if !almostEqual(c.Right.Dot(c.Up), 0, 1e-5) {
		t.Errorf("Right/Up not orthogonal: dot=%f", c.Right.Dot(c.Up))
	}
}

func TestNewDefaultBasis(t *testing.T) {
	c := NewDefault()
	checkOrthonormal(t, c)
	if !almostEqual(c.Front.X, 0, 1e-4) || !almostEqual(c.Front.Z, -1, 1e-4) {
		t.Errorf("default front = %v, want approximately (0,0,-1)", c.Front)
	}
}

func TestProcessMouseMovementOrbit(t *testing.T) {
	c := NewDefault()
	c.ProcessMouseMovement(900, 0, true)
	checkOrthonormal(t, c)
	if !almostEqual(c.Front.X, 1, 1e-3) || !almostEqual(c.Front.Z, 0, 1e-3) {
		t.Errorf("after +90deg yaw, front = %v, want approximately (1,0,0)", c.Front)
	}
}

func TestProcessMouseMovementPitchClamp(t *testing.T) {
	c := NewDefault()
	c.ProcessMouseMovement(0, 100000, true)
	if c.Pitch > 89 {
		t.Errorf("Pitch = %f, want <= 89", c.Pitch)
	}
	c.ProcessMouseMovement(0, -200000, true)
	if c.Pitch < -89 {
		t.Errorf("Pitch = %f, want >= -89", c.Pitch)
	}
}

func TestProcessMouseScrollClamp(t *testing.T) {
	cases := []struct {
		name string
		dy   float64
		want float64
	}{
		{"zoom in past limit", 100, 1},
		{"zoom out past limit", -100, 45},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			c := NewDefault()
			c.ProcessMouseScroll(tc.dy)
			if c.Zoom != tc.want {
				t.Errorf("Zoom = %f, want %f", c.Zoom, tc.want)
			}
		})
	}
}

func TestProcessKeyboardMovesAlongFront(t *testing.T) {
	c := NewDefault()
	start := c.Position
	c.ProcessKeyboard(Forward, 1.0)
	want := start.Add(c.Front.Scale(c.MovementSpeed))
	if c.Position.Distance(want) > 1e-9 {
		t.Errorf("Position after Forward = %v, want %v", c.Position, want)
	}
}

func TestViewMatrixLooksDownFront(t *testing.T) {
	c := NewDefault()
	view := c.ViewMatrix()
	// transforming a point directly ahead should land on the -Z view axis.
	p := view.MulVec3(c.Position.Add(c.Front.Scale(5)))
	if !almostEqual(p.X, 0, 1e-4) || !almostEqual(p.Y, 0, 1e-4) {
		t.Errorf("point ahead of camera did not land on view -Z axis: %v", p)
	}
	if p.Z >= 0 {
		t.Errorf("point ahead of camera has non-negative view-space Z: %f", p.Z)
	}
}
