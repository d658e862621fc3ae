package app

import (
	"github.com/charmbracelet/harmonica"
	"github.com/go-gl/mathgl/mgl32"
)

// Camera eases the view center toward a target with a critically damped
// spring per axis.
type Camera struct {
	spring harmonica.Spring
	pos    [2]float64
	vel    [2]float64
	target mgl32.Vec2
}

// NewCamera returns a camera stepped fps times per second.
func NewCamera(fps int, frequency, damping float64) *Camera {
	if fps <= 0 {
		fps = 60
	}
	return &Camera{spring: harmonica.NewSpring(harmonica.FPS(fps), frequency, damping)}
}

// Snap moves the camera to c immediately.
func (c *Camera) Snap(center mgl32.Vec2) {
	c.target = center
	c.pos = [2]float64{float64(center[0]), float64(center[1])}
	c.vel = [2]float64{}
}

// Follow sets the point the camera eases toward.
func (c *Camera) Follow(target mgl32.Vec2) { c.target = target }

// Update advances the springs one frame and returns the new center.
func (c *Camera) Update() mgl32.Vec2 {
	for i := range c.pos {
		c.pos[i], c.vel[i] = c.spring.Update(c.pos[i], c.vel[i], float64(c.target[i]))
	}
	return c.Center()
}

// Center returns the current view center.
func (c *Camera) Center() mgl32.Vec2 {
	return mgl32.Vec2{float32(c.pos[0]), float32(c.pos[1])}
}
