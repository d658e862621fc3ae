package core

import "time"

// FrameClock measures wall-clock time between frames and hands the physics
// world a bounded delta, so a stalled window does not trigger a burst of
// substeps.
type FrameClock struct {
	now      func() time.Time
	last     time.Time
	maxDelta time.Duration
	scale    float64
}

// NewFrameClock returns a clock that never reports more than maxDelta per
// frame. A non-positive maxDelta defaults to 1/15 s.
func NewFrameClock(maxDelta time.Duration) *FrameClock {
	if maxDelta <= 0 {
		maxDelta = time.Second / 15
	}
	return &FrameClock{now: time.Now, maxDelta: maxDelta, scale: 1}
}

// SetScale slows down or speeds up reported time. Negative values are
// treated as zero.
func (f *FrameClock) SetScale(s float64) { f.scale = max(s, 0) }

// Scale returns the time scale.
func (f *FrameClock) Scale() float64 { return f.scale }

// Reset forgets the previous frame; the next Tick reports zero.
func (f *FrameClock) Reset() { f.last = time.Time{} }

// Tick returns the seconds elapsed since the previous Tick, clamped to the
// maximum delta and multiplied by the time scale.
func (f *FrameClock) Tick() float64 {
	now := f.now()
	if f.last.IsZero() {
		f.last = now
	}
	delta := Clamp(now.Sub(f.last), 0, f.maxDelta)
	f.last = now
	return delta.Seconds() * f.scale
}
