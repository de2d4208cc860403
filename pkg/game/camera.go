package game

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/IrdiZ/kaiju/pkg/config"
	"github.com/IrdiZ/kaiju/pkg/geo"
)

// shakeDecay is how much shake intensity drains per second.
const shakeDecay = 2.0

// Camera is the view handed to the renderer each frame.
type Camera struct {
	Eye    mgl64.Vec3 `json:"eye"`
	Target mgl64.Vec3 `json:"target"`
	Shake  float64    `json:"shake"`
}

// View returns the right-handed look-at matrix.
func (c Camera) View() mgl64.Mat4 {
	return mgl64.LookAtV(c.Eye, c.Target, mgl64.Vec3{0, 1, 0})
}

// ChaseCamera trails the character at a fixed distance and height.
type ChaseCamera struct {
	cfg    config.CameraConfig
	cam    Camera
	placed bool
}

// NewChaseCamera creates a camera that snaps to the character on first use.
func NewChaseCamera(cfg config.CameraConfig) *ChaseCamera {
	return &ChaseCamera{cfg: cfg}
}

// Follow moves the camera behind pos facing yaw. With Smoothing > 0 the eye
// eases toward its goal with that time constant in seconds.
func (c *ChaseCamera) Follow(pos geo.Point2D, yaw, dt float64) Camera {
	behind := pos.Sub(geo.Forward(yaw).Scale(c.cfg.Distance))
	goal := mgl64.Vec3{behind.X, c.cfg.Height, behind.Z}
	if c.placed && c.cfg.Smoothing > 0 {
		k := 1 - math.Exp(-dt/c.cfg.Smoothing)
		c.cam.Eye = c.cam.Eye.Add(goal.Sub(c.cam.Eye).Mul(k))
	} else {
		c.cam.Eye = goal
		c.placed = true
	}
	c.cam.Target = mgl64.Vec3{pos.X, 0, pos.Z}
	c.cam.Shake = math.Max(0, c.cam.Shake-shakeDecay*dt)
	return c.cam
}

// Shake raises the current shake intensity to at least v.
func (c *ChaseCamera) Shake(v float64) {
	c.cam.Shake = math.Max(c.cam.Shake, v)
}

// Current returns the camera without moving it.
func (c *ChaseCamera) Current() Camera { return c.cam }
