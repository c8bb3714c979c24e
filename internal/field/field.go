// Package field holds the simulated field geometry and the kinematics the
// input loops use to turn held controls into poses and observations.
package field

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"trajdraw/internal/trajectory"
)

const (
	// TileSize is one foam tile in meters.
	TileSize = 0.6096
	// DefaultTiles is the number of tiles along each side of the field.
	DefaultTiles = 6
	// SnapStep is the heading increment used by snap turns, in degrees.
	SnapStep = 45.0
	// InchesPerMeter matches the unit the builder API works in.
	InchesPerMeter = 39.37
)

// Field is a square field centred on the origin.
type Field struct {
	Size   float64         // side length in meters
	Origin trajectory.Pose // pose the robot starts from and clears to
}

// Default returns the standard 6x6 tile field with the robot at the centre
// facing up.
func Default() Field {
	return Field{Size: TileSize * DefaultTiles, Origin: trajectory.Origin}
}

// Half returns half the side length.
func (f Field) Half() float64 { return f.Size / 2 }

// Clamp keeps the robot centre on the field.
func (f Field) Clamp(p trajectory.Pose) trajectory.Pose {
	h := f.Half()
	p.X = math.Max(-h, math.Min(h, p.X))
	p.Y = math.Max(-h, math.Min(h, p.Y))
	return p
}

// Reach returns the fraction of the straight move from -> to that stays on
// the field, between 0 and 1.
func (f Field) Reach(from, to trajectory.Pose) float64 {
	h := f.Half()
	t := 1.0
	limit := func(a, b float64) {
		d := b - a
		switch {
		case d > 0 && b > h:
			t = math.Min(t, (h-a)/d)
		case d < 0 && b < -h:
			t = math.Min(t, (-h-a)/d)
		}
	}
	limit(from.X, to.X)
	limit(from.Y, to.Y)
	return math.Max(0, t)
}

// Contains reports whether p lies on the field.
func (f Field) Contains(p trajectory.Pose) bool {
	h := f.Half()
	return math.Abs(p.X) <= h && math.Abs(p.Y) <= h
}

// ParseTarget parses "x, y" or "x, y, heading" as typed in the jump dialog.
// x and y are in inches, heading in degrees; the target is returned in
// meters. Malformed text is rejected here so it never reaches the recorder.
func ParseTarget(s string) (trajectory.Target, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 2 && len(parts) != 3 {
		return trajectory.Target{}, fmt.Errorf("expected \"x, y\" or \"x, y, heading\", got %q", s)
	}
	vals := make([]float64, len(parts))
	for i, p := range parts {
		v, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return trajectory.Target{}, fmt.Errorf("invalid number %q: %w", strings.TrimSpace(p), err)
		}
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return trajectory.Target{}, fmt.Errorf("invalid number %q", strings.TrimSpace(p))
		}
		vals[i] = v
	}
	t := trajectory.Target{X: vals[0] / InchesPerMeter, Y: vals[1] / InchesPerMeter}
	if len(vals) == 3 {
		h := vals[2]
		t.Heading = &h
	}
	return t, nil
}
