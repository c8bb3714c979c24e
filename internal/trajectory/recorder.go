package trajectory

import (
	"errors"
	"sync"

	"trajdraw/internal/logging"

	"github.com/google/uuid"
)

// Outcome describes what Observe did with an observation.
type Outcome int

const (
	OutcomeIgnored   Outcome = iota // nothing changed
	OutcomeAppended                 // a new record was added
	OutcomeMerged                   // summed into the last record
	OutcomeCancelled                // partially cancelled the last record
	OutcomeRemoved                  // cancelled the last record completely
)

func (o Outcome) String() string {
	switch o {
	case OutcomeIgnored:
		return "ignored"
	case OutcomeAppended:
		return "appended"
	case OutcomeMerged:
		return "merged"
	case OutcomeCancelled:
		return "cancelled"
	case OutcomeRemoved:
		return "removed"
	default:
		return "unknown"
	}
}

// Recorder owns the record list and the armed flag. The live pose belongs
// to the caller: the recorder only hands back Pose values to restore.
//
// All methods are safe for concurrent use; each one is applied atomically.
type Recorder struct {
	mu      sync.Mutex
	policy  Policy
	origin  Pose
	records []Record
	armed   bool
	start   Pose
	session string
}

// Option configures a Recorder.
type Option func(*Recorder)

// WithPolicy replaces the default coalescing policy.
func WithPolicy(p Policy) Option {
	return func(r *Recorder) { r.policy = p }
}

// WithOrigin sets the pose Clear resets to.
func WithOrigin(p Pose) Option {
	return func(r *Recorder) {
		r.origin = p
		r.start = p
	}
}

// NewRecorder creates a disarmed recorder with an empty list.
func NewRecorder(opts ...Option) *Recorder {
	r := &Recorder{
		policy:  DefaultPolicy(),
		origin:  Origin,
		start:   Origin,
		session: uuid.NewString(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// SessionID identifies the current recording session in logs.
// It changes every time the recorder is cleared.
func (r *Recorder) SessionID() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.session
}

// Arm enters recording mode and captures start as the pose the emitted code
// begins from. Arming an armed recorder only moves the start pose if the
// list is still empty.
func (r *Recorder) Arm(start Pose) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if !r.armed || len(r.records) == 0 {
		r.start = start
	}
	r.armed = true
	logging.Get(logging.CategoryRecorder).Infow("recording armed",
		"session", r.session, "start", start.String())
}

// Armed reports whether observations are being recorded.
func (r *Recorder) Armed() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.armed
}

// Start returns the pose captured by Arm.
func (r *Recorder) Start() Pose {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.start
}

// Records returns a copy of the record list.
func (r *Recorder) Records() []Record {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Record, len(r.records))
	for i, rec := range r.records {
		out[i] = rec.clone()
	}
	return out
}

// Len returns the number of records, barriers included.
func (r *Recorder) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.records)
}

// Observe feeds one observation through the coalescing rules.
//
// Outside recording mode the observation is ignored and ErrNotArmed is
// returned. A malformed payload is dropped with ErrMalformedPayload.
// A zero amount is ignored for every kind except Call and PositionJump.
func (r *Recorder) Observe(obs Observation) (Outcome, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if !r.armed {
		return OutcomeIgnored, ErrNotArmed
	}
	if err := obs.validate(); err != nil {
		logging.Get(logging.CategoryRecorder).Warnw("observation dropped",
			"session", r.session, "kind", obs.Kind.String(), "error", err)
		return OutcomeIgnored, err
	}
	if obs.Kind == KindBarrier {
		r.appendLocked(Record(obs))
		return OutcomeAppended, nil
	}
	if obs.Amount == 0 && obs.Kind != KindCall && obs.Kind != KindPositionJump {
		return OutcomeIgnored, nil
	}
	return r.coalesceLocked(Record(obs).clone()), nil
}

func (r *Recorder) coalesceLocked(next Record) Outcome {
	n := len(r.records)
	if n == 0 {
		r.appendLocked(next)
		return OutcomeAppended
	}

	act, merged, cancelled := r.policy.coalesce(r.records[n-1], next)
	switch act {
	case actionRemove:
		r.records = r.records[:n-1]
		logging.Get(logging.CategoryRecorder).Debugw("record cancelled",
			"session", r.session, "kind", next.Kind.String(), "len", len(r.records))
		return OutcomeRemoved
	case actionReplace:
		r.records[n-1] = merged
		if cancelled {
			return OutcomeCancelled
		}
		return OutcomeMerged
	default:
		r.appendLocked(next)
		return OutcomeAppended
	}
}

func (r *Recorder) appendLocked(rec Record) {
	r.records = append(r.records, rec)
	logging.Get(logging.CategoryRecorder).Debugw("record appended",
		"session", r.session, "record", rec.String(), "len", len(r.records))
}

// InsertBarrier appends a Barrier at the current pose. Barriers are
// accepted whether or not the recorder is armed and never merge.
func (r *Recorder) InsertBarrier(current Pose) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.appendLocked(Record{Kind: KindBarrier, Before: current})
}

// Undo removes the last record of any kind and returns the pose to restore.
func (r *Recorder) Undo() (Pose, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := len(r.records)
	if n == 0 {
		return Pose{}, ErrEmpty
	}
	last := r.records[n-1]
	r.records = r.records[:n-1]
	logging.Get(logging.CategoryRecorder).Infow("undo",
		"session", r.session, "record", last.String(), "restore", last.Before.String())
	return last.Before, nil
}

// Clear empties the list, disarms, and returns the origin pose the caller
// should reset the live pose to.
func (r *Recorder) Clear() Pose {
	r.mu.Lock()
	defer r.mu.Unlock()
	dropped := len(r.records)
	r.records = nil
	r.armed = false
	r.start = r.origin
	old := r.session
	r.session = uuid.NewString()
	logging.Get(logging.CategoryRecorder).Infow("recording cleared",
		"session", old, "dropped", dropped, "next_session", r.session)
	return r.origin
}

// IsSilent reports whether err is one the drivers should not surface.
func IsSilent(err error) bool {
	return err == nil || errors.Is(err, ErrNotArmed)
}
