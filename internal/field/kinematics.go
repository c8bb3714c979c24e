package field

import (
	"math"

	"trajdraw/internal/trajectory"
)

// Control is one operator input.
type Control int

const (
	ControlNone Control = iota
	ControlForward
	ControlBackward
	ControlLeft
	ControlRight
	ControlTurnLeft
	ControlTurnRight
)

var controlNames = map[string]Control{
	"forward":    ControlForward,
	"backward":   ControlBackward,
	"left":       ControlLeft,
	"right":      ControlRight,
	"turn_left":  ControlTurnLeft,
	"turn_right": ControlTurnRight,
}

// ParseControl maps a script name such as "turn_left" to a Control.
func ParseControl(name string) (Control, bool) {
	c, ok := controlNames[name]
	return c, ok
}

func (c Control) String() string {
	for name, v := range controlNames {
		if v == c {
			return name
		}
	}
	return "none"
}

// Speeds are the tuning constants supplied by the config.
type Speeds struct {
	Linear         float64 // m/s
	Angular        float64 // deg/s
	PrecisionScale float64 // linear multiplier in precision mode
}

// Step advances pose by dt seconds of control and returns the new pose with
// the observation describing the delta. In precision mode linear speed is
// scaled and rotation is suppressed. A suppressed or idle control yields a
// zero-amount observation, which the recorder ignores.
func Step(pose trajectory.Pose, c Control, dt float64, s Speeds, precision bool) (trajectory.Pose, trajectory.Observation) {
	obs := trajectory.Observation{Before: pose}
	dist := s.Linear * dt
	if precision {
		dist *= s.PrecisionScale
	}
	turn := s.Angular * dt

	switch c {
	case ControlForward:
		obs.Kind, obs.Axis, obs.Amount = trajectory.KindTranslate, trajectory.AxisLongitudinal, dist
	case ControlBackward:
		obs.Kind, obs.Axis, obs.Amount = trajectory.KindTranslate, trajectory.AxisLongitudinal, -dist
	case ControlRight:
		obs.Kind, obs.Axis, obs.Amount = trajectory.KindTranslate, trajectory.AxisLateral, dist
	case ControlLeft:
		obs.Kind, obs.Axis, obs.Amount = trajectory.KindTranslate, trajectory.AxisLateral, -dist
	case ControlTurnRight, ControlTurnLeft:
		obs.Kind = trajectory.KindRotate
		if precision {
			return pose, obs
		}
		if c == ControlTurnLeft {
			turn = -turn
		}
		obs.Amount = radians(turn)
	default:
		return pose, obs
	}
	return Apply(pose, trajectory.Record(obs)), obs
}

// Snap turns one SnapStep in the given direction (+1 clockwise, -1
// counter-clockwise) and rounds the result to the nearest multiple of
// SnapStep, halves to even. From 10 degrees a left snap lands on -45.
// The observation's amount is the signed angle actually turned.
func Snap(pose trajectory.Pose, dir int) (trajectory.Pose, trajectory.Observation) {
	step := SnapStep
	if dir < 0 {
		step = -SnapStep
	}
	next := math.RoundToEven((pose.Heading+step)/SnapStep) * SnapStep
	obs := trajectory.Observation{
		Kind:   trajectory.KindRotate,
		Amount: radians(next - pose.Heading),
		Before: pose,
	}
	pose.Heading = next
	return pose, obs
}

// Apply replays one record onto pose.
func Apply(pose trajectory.Pose, r trajectory.Record) trajectory.Pose {
	switch r.Kind {
	case trajectory.KindTranslate:
		h := radians(pose.Heading)
		switch r.Axis {
		case trajectory.AxisLongitudinal:
			pose.X += r.Amount * math.Sin(h)
			pose.Y += r.Amount * math.Cos(h)
		case trajectory.AxisLateral:
			pose.X += r.Amount * math.Cos(h)
			pose.Y -= r.Amount * math.Sin(h)
		}
	case trajectory.KindRotate:
		pose.Heading += degrees(r.Amount)
	case trajectory.KindPositionJump:
		if r.Target != nil {
			pose.X, pose.Y = r.Target.X, r.Target.Y
			if r.Target.Heading != nil {
				pose.Heading = *r.Target.Heading
			}
		}
	}
	return pose
}

// Trace replays records from start and returns the pose after each one,
// prefixed by start itself.
func Trace(start trajectory.Pose, records []trajectory.Record) []trajectory.Pose {
	out := make([]trajectory.Pose, 0, len(records)+1)
	out = append(out, start)
	p := start
	for _, r := range records {
		p = Apply(p, r)
		out = append(out, p)
	}
	return out
}

func radians(deg float64) float64 { return deg * math.Pi / 180 }

func degrees(rad float64) float64 { return rad * 180 / math.Pi }
