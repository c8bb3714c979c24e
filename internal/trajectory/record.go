package trajectory

import (
	"fmt"
	"math"
)

// Kind is the closed set of motion commands.
type Kind int

const (
	KindRotate Kind = iota
	KindTranslate
	KindPause
	KindCall
	KindPositionJump
	KindBarrier
)

var kindNames = map[Kind]string{
	KindRotate:       "rotate",
	KindTranslate:    "translate",
	KindPause:        "pause",
	KindCall:         "call",
	KindPositionJump: "position_jump",
	KindBarrier:      "barrier",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// Axis selects the movement line of a Translate record. The sign of the
// record's amount picks the direction along it.
type Axis int

const (
	AxisNone         Axis = iota
	AxisLongitudinal      // + forward, - backward
	AxisLateral           // + right, - left
)

func (a Axis) String() string {
	switch a {
	case AxisNone:
		return "none"
	case AxisLongitudinal:
		return "longitudinal"
	case AxisLateral:
		return "lateral"
	default:
		return fmt.Sprintf("axis(%d)", int(a))
	}
}

// Target is the destination of a PositionJump. Heading is optional.
type Target struct {
	X       float64  `json:"x" yaml:"x"`
	Y       float64  `json:"y" yaml:"y"`
	Heading *float64 `json:"heading,omitempty" yaml:"heading,omitempty"`
}

// HasHeading reports whether the jump also sets the heading.
func (t Target) HasHeading() bool { return t.Heading != nil }

func (t Target) valid() bool {
	if !finite(t.X) || !finite(t.Y) {
		return false
	}
	return t.Heading == nil || finite(*t.Heading)
}

// Record is a single discrete motion command.
//
// Amount is signed: meters for Translate, radians for Rotate (positive is
// clockwise), seconds for Pause. Call uses Name/Args, PositionJump uses Target.
// Before is the pose prior to this record's effect; Undo restores it.
type Record struct {
	Kind   Kind
	Axis   Axis
	Amount float64
	Target *Target
	Name   string
	Args   string
	Before Pose
}

// Observation is one incremental motion reported by the input loop.
// It has the same shape as a Record; the recorder decides what becomes of it.
type Observation Record

// Sign returns -1, 0 or +1 for the record's amount.
func (r Record) Sign() int {
	switch {
	case r.Amount > 0:
		return 1
	case r.Amount < 0:
		return -1
	default:
		return 0
	}
}

func (r Record) String() string {
	switch r.Kind {
	case KindCall:
		return fmt.Sprintf("call %s(%s)", r.Name, r.Args)
	case KindPositionJump:
		if r.Target == nil {
			return "position_jump <nil>"
		}
		if r.Target.HasHeading() {
			return fmt.Sprintf("position_jump (%g, %g, %g)", r.Target.X, r.Target.Y, *r.Target.Heading)
		}
		return fmt.Sprintf("position_jump (%g, %g)", r.Target.X, r.Target.Y)
	case KindBarrier:
		return "barrier"
	default:
		return fmt.Sprintf("%s/%s %g", r.Kind, r.Axis, r.Amount)
	}
}

// validate reports whether the observation can become a record.
func (o Observation) validate() error {
	if !finite(o.Amount) {
		return fmt.Errorf("%w: %s amount %v", ErrMalformedPayload, o.Kind, o.Amount)
	}
	switch o.Kind {
	case KindCall:
		if o.Name == "" {
			return fmt.Errorf("%w: call without a name", ErrMalformedPayload)
		}
	case KindPositionJump:
		if o.Target == nil {
			return fmt.Errorf("%w: position jump without a target", ErrMalformedPayload)
		}
		if !o.Target.valid() {
			return fmt.Errorf("%w: position jump target is not finite", ErrMalformedPayload)
		}
	case KindTranslate:
		if o.Axis != AxisLongitudinal && o.Axis != AxisLateral {
			return fmt.Errorf("%w: translate on axis %s", ErrMalformedPayload, o.Axis)
		}
	case KindRotate, KindPause:
		if o.Axis != AxisNone {
			return fmt.Errorf("%w: %s on axis %s", ErrMalformedPayload, o.Kind, o.Axis)
		}
		if o.Kind == KindPause && o.Amount < 0 {
			return fmt.Errorf("%w: negative pause %v", ErrMalformedPayload, o.Amount)
		}
	case KindBarrier:
	default:
		return fmt.Errorf("%w: unknown kind %s", ErrMalformedPayload, o.Kind)
	}
	return nil
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// clone copies the record so callers never share the Target pointer.
func (r Record) clone() Record {
	if r.Target != nil {
		t := *r.Target
		if t.Heading != nil {
			h := *t.Heading
			t.Heading = &h
		}
		r.Target = &t
	}
	return r
}
