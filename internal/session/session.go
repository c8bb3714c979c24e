// Package session is the input loop shared by the interactive and scripted
// drivers. It owns the live pose and turns operator actions into
// observations for a trajectory.Recorder.
package session

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"trajdraw/internal/field"
	"trajdraw/internal/logging"
	"trajdraw/internal/trajectory"
)

// ErrOffField is returned when a jump target lies outside the field.
var ErrOffField = errors.New("target is off the field")

// Session couples the live pose with a recorder.
type Session struct {
	mu        sync.Mutex
	rec       *trajectory.Recorder
	field     field.Field
	speeds    field.Speeds
	pose      trajectory.Pose
	precision bool
}

// New creates a session on f whose robot starts at the field origin.
// The recorder should have been created with the same origin so that Clear
// returns the robot to where it started.
func New(rec *trajectory.Recorder, f field.Field, s field.Speeds) *Session {
	return &Session{
		rec:    rec,
		field:  f,
		speeds: s,
		pose:   f.Origin,
	}
}

// Recorder returns the underlying recorder.
func (s *Session) Recorder() *trajectory.Recorder { return s.rec }

// Field returns the field the session runs on.
func (s *Session) Field() field.Field { return s.field }

// Pose returns the live pose.
func (s *Session) Pose() trajectory.Pose {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pose
}

// SetSpeeds replaces the tuning constants, e.g. after a config reload.
func (s *Session) SetSpeeds(sp field.Speeds) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.speeds = sp
}

// Speeds returns the current tuning constants.
func (s *Session) Speeds() field.Speeds {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.speeds
}

// Precision reports whether precision mode is on.
func (s *Session) Precision() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.precision
}

// SetPrecision turns precision mode on or off.
func (s *Session) SetPrecision(on bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.precision = on
}

// edgeTolerance is the smallest fraction of a tick still played out at the
// field edge. Anything shorter is rounding left over from the previous tick.
const edgeTolerance = 1e-9

// Hold integrates dt seconds of a held control. The robot moves whether or
// not the recorder is armed. A tick that would leave the field is shortened
// so the robot stops on the edge; once there, further ticks outwards are
// dropped.
func (s *Session) Hold(c field.Control, dt float64) (trajectory.Outcome, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	next, obs := field.Step(s.pose, c, dt, s.speeds, s.precision)
	if !s.field.Contains(next) {
		frac := s.field.Reach(s.pose, next)
		if frac < edgeTolerance {
			return trajectory.OutcomeIgnored, nil
		}
		next, obs = field.Step(s.pose, c, dt*frac, s.speeds, s.precision)
		next = s.field.Clamp(next)
	}
	s.pose = next
	return s.observeLocked(obs)
}

// Snap turns one 45 degree step in dir (+1 clockwise), rounding to a
// multiple of 45 degrees.
func (s *Session) Snap(dir int) (trajectory.Outcome, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	next, obs := field.Snap(s.pose, dir)
	s.pose = next
	return s.observeLocked(obs)
}

// Wait records a pause of the given length.
func (s *Session) Wait(seconds float64) (trajectory.Outcome, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.observeLocked(trajectory.Observation{
		Kind:   trajectory.KindPause,
		Amount: seconds,
		Before: s.pose,
	})
}

// Call records a function-call marker. Spaces are stripped from the name.
func (s *Session) Call(name, args string) (trajectory.Outcome, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.observeLocked(trajectory.Observation{
		Kind:   trajectory.KindCall,
		Name:   strings.ReplaceAll(name, " ", ""),
		Args:   args,
		Before: s.pose,
	})
}

// Jump moves the robot to target and records the jump. Off-field targets
// are rejected without moving the robot.
func (s *Session) Jump(target trajectory.Target) (trajectory.Outcome, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.field.Contains(trajectory.Pose{X: target.X, Y: target.Y}) {
		return trajectory.OutcomeIgnored, fmt.Errorf("jump to (%.4f, %.4f): %w", target.X, target.Y, ErrOffField)
	}
	t := target
	obs := trajectory.Observation{
		Kind:   trajectory.KindPositionJump,
		Target: &t,
		Before: s.pose,
	}
	next := field.Apply(s.pose, trajectory.Record(obs))
	out, err := s.observeLocked(obs)
	if err != nil && !trajectory.IsSilent(err) {
		return out, err
	}
	s.pose = next
	return out, err
}

// Arm starts recording from the live pose.
func (s *Session) Arm() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rec.Arm(s.pose)
}

// Barrier inserts a merge barrier at the live pose.
func (s *Session) Barrier() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rec.InsertBarrier(s.pose)
}

// Undo removes the last record and restores the pose it started from.
func (s *Session) Undo() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, err := s.rec.Undo()
	if err != nil {
		return err
	}
	s.pose = p
	return nil
}

// Clear discards the recording and returns the robot to the origin.
func (s *Session) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pose = s.rec.Clear()
	s.precision = false
}

func (s *Session) observeLocked(obs trajectory.Observation) (trajectory.Outcome, error) {
	out, err := s.rec.Observe(obs)
	if err != nil && !trajectory.IsSilent(err) {
		logging.Get(logging.CategoryDrive).Warnw("observation rejected",
			"kind", obs.Kind.String(), "error", err)
	}
	return out, err
}
