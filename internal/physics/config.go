package physics

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/go-gl/mathgl/mgl32"
)

// ErrInvalidConfig is wrapped by every Config.Validate failure.
var ErrInvalidConfig = errors.New("physics: invalid config")

// Config holds the world tunables.
type Config struct {
	// TileSize is the spatial hash cell size, ideally the typical particle
	// diameter.
	TileSize float32
	// TargetHz is the substep frequency.
	TargetHz float64
	Gravity  mgl32.Vec2
	// HashMargin pads dynamic bounding boxes when the dynamic hash is
	// rebuilt.
	HashMargin float32
	// CarryRemainder keeps the fractional substep left over by Advance and
	// adds it to the next call. Off by default: the remainder is dropped.
	CarryRemainder bool
}

// DefaultConfig returns the standard configuration.
func DefaultConfig() Config {
	return Config{
		TileSize:   1,
		TargetHz:   240,
		Gravity:    mgl32.Vec2{0, 9.81},
		HashMargin: 0.1,
	}
}

// Validate reports the first invalid field.
func (c Config) Validate() error {
	if !(c.TileSize > 0) {
		return fmt.Errorf("%w: tile size %v must be positive", ErrInvalidConfig, c.TileSize)
	}
	if !(c.TargetHz > 0) {
		return fmt.Errorf("%w: target hz %v must be positive", ErrInvalidConfig, c.TargetHz)
	}
	if c.HashMargin < 0 {
		return fmt.Errorf("%w: hash margin %v must not be negative", ErrInvalidConfig, c.HashMargin)
	}
	return nil
}

// FromMap populates a Config from flag-style key/value pairs. Unparseable or
// out-of-range values keep their defaults.
func FromMap(cfg map[string]string) Config {
	c := DefaultConfig()
	if cfg == nil {
		return c
	}
	if v, ok := cfg["tile"]; ok {
		if parsed, err := strconv.ParseFloat(v, 32); err == nil && parsed > 0 {
			c.TileSize = float32(parsed)
		}
	}
	if v, ok := cfg["hz"]; ok {
		if parsed, err := strconv.ParseFloat(v, 64); err == nil && parsed > 0 {
			c.TargetHz = parsed
		}
	}
	if v, ok := cfg["gravity_x"]; ok {
		if parsed, err := strconv.ParseFloat(v, 32); err == nil {
			c.Gravity[0] = float32(parsed)
		}
	}
	if v, ok := cfg["gravity_y"]; ok {
		if parsed, err := strconv.ParseFloat(v, 32); err == nil {
			c.Gravity[1] = float32(parsed)
		}
	}
	if v, ok := cfg["margin"]; ok {
		if parsed, err := strconv.ParseFloat(v, 32); err == nil && parsed >= 0 {
			c.HashMargin = float32(parsed)
		}
	}
	if v, ok := cfg["carry_remainder"]; ok {
		if parsed, err := strconv.ParseBool(v); err == nil {
			c.CarryRemainder = parsed
		}
	}
	return c
}
