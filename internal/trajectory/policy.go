package trajectory

import "math"

// DefaultZeroTolerance is the magnitude below which a coalesced amount
// counts as zero.
const DefaultZeroTolerance = 1e-9

// Lane identifies a (kind, axis) combination in the coalescing policy.
type Lane struct {
	Kind Kind
	Axis Axis
}

// Policy is the coalescing table. A lane listed in Merge coalesces with a
// directly preceding record in the same lane by signed summation. Pairs
// lists lanes that share one physical line: a new record in a paired lane
// cancels against the previous record by magnitude.
//
// Kinds that never appear in Merge (Call, PositionJump, Barrier in the
// default table) are always appended.
type Policy struct {
	Merge         map[Lane]bool
	Pairs         map[Lane]Lane
	ZeroTolerance float64
}

// DefaultPolicy merges held translation, rotation and repeated pauses.
// Longitudinal and lateral translation are separate lines and never cancel.
func DefaultPolicy() Policy {
	return Policy{
		Merge: map[Lane]bool{
			{KindTranslate, AxisLongitudinal}: true,
			{KindTranslate, AxisLateral}:      true,
			{KindRotate, AxisNone}:            true,
			{KindPause, AxisNone}:             true,
		},
		Pairs:         map[Lane]Lane{},
		ZeroTolerance: DefaultZeroTolerance,
	}
}

// WithPair returns a copy of the policy in which lanes a and b cancel each
// other. The pairing is symmetric.
func (p Policy) WithPair(a, b Lane) Policy {
	pairs := make(map[Lane]Lane, len(p.Pairs)+2)
	for k, v := range p.Pairs {
		pairs[k] = v
	}
	pairs[a] = b
	pairs[b] = a
	merge := make(map[Lane]bool, len(p.Merge)+2)
	for k, v := range p.Merge {
		merge[k] = v
	}
	merge[a] = true
	merge[b] = true
	p.Pairs = pairs
	p.Merge = merge
	return p
}

func (p Policy) mergeable(l Lane) bool {
	return p.Merge[l]
}

func (p Policy) paired(a, b Lane) bool {
	other, ok := p.Pairs[a]
	return ok && other == b
}

func (p Policy) isZero(v float64) bool {
	tol := p.ZeroTolerance
	if tol <= 0 {
		tol = DefaultZeroTolerance
	}
	return math.Abs(v) < tol
}

// action is what the coalescer decided for one observation.
type action int

const (
	actionAppend action = iota
	actionReplace
	actionRemove
)

// coalesce decides how next combines with last. When the result is
// actionReplace, merged holds the surviving record, stamped with last.Before.
func (p Policy) coalesce(last Record, next Record) (action, Record, bool) {
	lastLane := Lane{last.Kind, last.Axis}
	nextLane := Lane{next.Kind, next.Axis}
	if !p.mergeable(lastLane) || !p.mergeable(nextLane) {
		return actionAppend, Record{}, false
	}

	switch {
	case lastLane == nextLane:
		merged := last
		merged.Amount = last.Amount + next.Amount
		cancelled := last.Sign() != 0 && next.Sign() != 0 && last.Sign() != next.Sign()
		if p.isZero(merged.Amount) {
			return actionRemove, Record{}, cancelled
		}
		return actionReplace, merged, cancelled

	case p.paired(lastLane, nextLane):
		a, b := math.Abs(last.Amount), math.Abs(next.Amount)
		if p.isZero(a - b) {
			return actionRemove, Record{}, true
		}
		survivor := last
		if b > a {
			survivor = next
		}
		survivor.Amount = math.Copysign(math.Abs(a-b), survivor.Amount)
		survivor.Before = last.Before
		return actionReplace, survivor, true
	}
	return actionAppend, Record{}, false
}
