// Package script replays a YAML list of operator actions through a session
// without a terminal. It drives the same input loop as the TUI, one
// simulated tick at a time.
package script

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"strings"
	"time"

	"trajdraw/internal/field"
	"trajdraw/internal/logging"
	"trajdraw/internal/session"
	"trajdraw/internal/trajectory"

	"gopkg.in/yaml.v3"
)

// Call is the payload of a call step.
type Call struct {
	Name string `yaml:"name"`
	Args string `yaml:"args"`
}

// Step is one entry of a script. Exactly one action field must be set.
type Step struct {
	Control   string  `yaml:"control,omitempty"`   // held control, with Seconds
	Seconds   float64 `yaml:"seconds,omitempty"`   // how long Control is held
	Precision bool    `yaml:"precision,omitempty"` // hold Control in precision mode
	Wait      float64 `yaml:"wait,omitempty"`      // pause, seconds
	Snap      string  `yaml:"snap,omitempty"`      // "left" or "right"
	Call      *Call   `yaml:"call,omitempty"`
	Jump      string  `yaml:"jump,omitempty"` // "x, y[, heading]" in inches and degrees
	Arm       bool    `yaml:"arm,omitempty"`
	Barrier   bool    `yaml:"barrier,omitempty"`
	Undo      bool    `yaml:"undo,omitempty"`
	Clear     bool    `yaml:"clear,omitempty"`

	control field.Control
	target  trajectory.Target
}

// Script is a validated list of steps.
type Script struct {
	Steps []Step
}

// Parse reads a YAML list of steps and validates every entry.
func Parse(r io.Reader) (*Script, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read script: %w", err)
	}
	var steps []Step
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&steps); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("failed to parse script: %w", err)
	}
	for i := range steps {
		if err := steps[i].prepare(); err != nil {
			return nil, fmt.Errorf("step %d: %w", i+1, err)
		}
	}
	return &Script{Steps: steps}, nil
}

// Load parses the script file at path.
func Load(path string) (*Script, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open script: %w", err)
	}
	defer f.Close()
	return Parse(f)
}

func (s *Step) prepare() error {
	n := 0
	count := func(set bool) {
		if set {
			n++
		}
	}
	count(s.Control != "")
	count(s.Wait != 0)
	count(s.Snap != "")
	count(s.Call != nil)
	count(s.Jump != "")
	count(s.Arm)
	count(s.Barrier)
	count(s.Undo)
	count(s.Clear)
	if n != 1 {
		return fmt.Errorf("expected exactly one action, got %d", n)
	}

	switch {
	case s.Control != "":
		c, ok := field.ParseControl(s.Control)
		if !ok {
			return fmt.Errorf("unknown control %q", s.Control)
		}
		if s.Seconds <= 0 || math.IsInf(s.Seconds, 0) {
			return fmt.Errorf("control %q needs a positive duration", s.Control)
		}
		s.control = c
	case s.Wait != 0:
		if s.Wait < 0 || math.IsInf(s.Wait, 0) || math.IsNaN(s.Wait) {
			return fmt.Errorf("invalid wait %v", s.Wait)
		}
	case s.Snap != "":
		if s.Snap != "left" && s.Snap != "right" {
			return fmt.Errorf("snap must be left or right, got %q", s.Snap)
		}
	case s.Call != nil:
		if strings.TrimSpace(s.Call.Name) == "" {
			return fmt.Errorf("call needs a name")
		}
	case s.Jump != "":
		t, err := field.ParseTarget(s.Jump)
		if err != nil {
			return fmt.Errorf("jump: %w", err)
		}
		s.target = t
	}
	if s.Seconds != 0 && s.Control == "" {
		return fmt.Errorf("seconds only applies to a control step")
	}
	if s.Precision && s.Control == "" {
		return fmt.Errorf("precision only applies to a control step")
	}
	return nil
}

// Runner replays scripts into a session.
type Runner struct {
	sess *session.Session
	tick time.Duration
}

// NewRunner creates a runner integrating held controls in steps of tick.
func NewRunner(sess *session.Session, tick time.Duration) *Runner {
	if tick <= 0 {
		tick = 50 * time.Millisecond
	}
	return &Runner{sess: sess, tick: tick}
}

// Report summarises a run.
type Report struct {
	Steps    int
	Ticks    int
	Outcomes map[trajectory.Outcome]int
	Warnings []string
}

// Run executes every step. Simulated time is used; nothing sleeps.
// Rejections that an operator would only see as a flash in the TUI
// (undo on an empty list, an off-field jump) are collected as warnings.
func (r *Runner) Run(ctx context.Context, s *Script) (*Report, error) {
	log := logging.Get(logging.CategoryScript)
	rep := &Report{Outcomes: make(map[trajectory.Outcome]int)}
	timer := logging.StartTimer(logging.CategoryScript, "run")
	defer timer.Stop()

	for i, st := range s.Steps {
		if err := ctx.Err(); err != nil {
			return rep, err
		}
		if err := r.step(rep, st); err != nil {
			msg := fmt.Sprintf("step %d: %v", i+1, err)
			rep.Warnings = append(rep.Warnings, msg)
			log.Warnw("script step rejected", "step", i+1, "error", err)
		}
		rep.Steps++
	}
	log.Infow("script finished",
		"steps", rep.Steps, "ticks", rep.Ticks, "records", r.sess.Recorder().Len())
	return rep, nil
}

func (r *Runner) step(rep *Report, st Step) error {
	note := func(out trajectory.Outcome, err error) error {
		rep.Outcomes[out]++
		if trajectory.IsSilent(err) {
			return nil
		}
		return err
	}

	switch {
	case st.Control != "":
		prev := r.sess.Precision()
		r.sess.SetPrecision(st.Precision)
		defer r.sess.SetPrecision(prev)

		dt := r.tick.Seconds()
		remaining := st.Seconds
		for remaining > 1e-12 {
			d := math.Min(dt, remaining)
			remaining -= d
			rep.Ticks++
			if err := note(r.sess.Hold(st.control, d)); err != nil {
				return err
			}
		}
		return nil
	case st.Wait != 0:
		return note(r.sess.Wait(st.Wait))
	case st.Snap != "":
		dir := 1
		if st.Snap == "left" {
			dir = -1
		}
		return note(r.sess.Snap(dir))
	case st.Call != nil:
		return note(r.sess.Call(st.Call.Name, st.Call.Args))
	case st.Jump != "":
		return note(r.sess.Jump(st.target))
	case st.Arm:
		r.sess.Arm()
	case st.Barrier:
		r.sess.Barrier()
	case st.Undo:
		return r.sess.Undo()
	case st.Clear:
		r.sess.Clear()
	}
	return nil
}
