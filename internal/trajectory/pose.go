// Package trajectory records a drive of the simulated robot as a reduced list
// of discrete motion records and provides undo over that list.
package trajectory

import "fmt"

// Pose is an immutable position + heading snapshot.
// X and Y are meters from the field centre, Heading is degrees clockwise
// from field "up".
type Pose struct {
	X       float64 `json:"x" yaml:"x"`
	Y       float64 `json:"y" yaml:"y"`
	Heading float64 `json:"heading" yaml:"heading"`
}

// Origin is the default pose at the field centre facing up.
var Origin = Pose{}

// String returns a compact representation for logs.
func (p Pose) String() string {
	return fmt.Sprintf("(%.4f, %.4f, %.2f°)", p.X, p.Y, p.Heading)
}
