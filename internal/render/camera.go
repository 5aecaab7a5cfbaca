package render

import (
	"github.com/chewxy/math32"
	rl "github.com/gen2brain/raylib-go/raylib"
)

const (
	rotateSpeed = 0.005 // radians per pixel of mouse drag
	zoomSpeed   = 0.1   // share of the distance per wheel notch
	minDistance = 2
	maxDistance = 60
	// pitch stays clear of the poles so the up vector stays valid.
	maxPitch = math32.Pi/2 - 0.05
)

// OrbitCamera is a perspective camera orbiting a target point.
// Dragging with the left mouse button rotates, the wheel zooms. Motion eases out with damping.
type OrbitCamera struct {
	Camera rl.Camera3D
	// Damping is the share of the angular velocity kept per 1/60 s. 0 stops at once.
	Damping float32
	// Enabled is false while the mouse is used for something else (e.g. the debug panel).
	Enabled bool

	yaw, pitch, distance float32
	yawVel, pitchVel     float32
}

// NewOrbitCamera returns a camera at (0, 5, 10) looking at the origin with a 75° field of view.
func NewOrbitCamera() *OrbitCamera {
	c := &OrbitCamera{Damping: 0.9, Enabled: true}
	c.Camera.Target = rl.NewVector3(0, 0, 0)
	c.Camera.Up = rl.NewVector3(0, 1, 0)
	c.Camera.Fovy = 75
	c.Camera.Projection = rl.CameraPerspective
	c.distance = math32.Sqrt(5*5 + 10*10)
	c.pitch = math32.Atan2(5, 10)
	c.place()
	return c
}

// Update applies mouse input and damping. dt is the frame delta in seconds.
func (c *OrbitCamera) Update(dt float32) {
	if c.Enabled {
		if rl.IsMouseButtonDown(rl.MouseButtonLeft) {
			d := rl.GetMouseDelta()
			c.yawVel -= d.X * rotateSpeed
			c.pitchVel += d.Y * rotateSpeed
		}
		if w := rl.GetMouseWheelMove(); w != 0 {
			c.distance *= 1 - w*zoomSpeed
			c.distance = min(max(c.distance, minDistance), maxDistance)
		}
	}
	c.yaw += c.yawVel
	c.pitch = min(max(c.pitch+c.pitchVel, -maxPitch), maxPitch)
	keep := math32.Pow(min(max(c.Damping, 0), 1), dt*60)
	c.yawVel *= keep
	c.pitchVel *= keep
	c.place()
}

func (c *OrbitCamera) place() {
	t := c.Camera.Target
	cp := math32.Cos(c.pitch)
	c.Camera.Position = rl.NewVector3(
		t.X+c.distance*cp*math32.Sin(c.yaw),
		t.Y+c.distance*math32.Sin(c.pitch),
		t.Z+c.distance*cp*math32.Cos(c.yaw),
	)
}
