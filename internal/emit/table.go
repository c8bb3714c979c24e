package emit

import "trajdraw/internal/trajectory"

// shape is the lookup key for both the listing and the code templates.
type shape struct {
	kind    trajectory.Kind
	axis    trajectory.Axis
	sign    int
	heading bool // PositionJump only
}

func shapeOf(r trajectory.Record) shape {
	s := shape{kind: r.Kind, axis: r.Axis, sign: r.Sign()}
	switch r.Kind {
	case trajectory.KindCall:
		s.axis, s.sign = trajectory.AxisNone, 0
	case trajectory.KindPositionJump:
		s.axis, s.sign = trajectory.AxisNone, 0
		s.heading = r.Target != nil && r.Target.HasHeading()
	case trajectory.KindRotate, trajectory.KindPause:
		s.axis = trajectory.AxisNone
	}
	return s
}

// template renders one record. args receives the record and returns the
// already formatted substitutions for format.
type template struct {
	format string
	args   func(r trajectory.Record, num func(float64) string) []any
}

func absInches(r trajectory.Record, num func(float64) string) []any {
	return []any{num(toInches(abs(r.Amount)))}
}

func absDegrees(r trajectory.Record, num func(float64) string) []any {
	return []any{num(toDegrees(abs(r.Amount)))}
}

func absSeconds(r trajectory.Record, num func(float64) string) []any {
	return []any{num(abs(r.Amount))}
}

func callArgs(r trajectory.Record, _ func(float64) string) []any {
	return []any{r.Name, r.Args}
}

func jumpXY(r trajectory.Record, num func(float64) string) []any {
	return []any{num(toInches(r.Target.X)), num(toInches(r.Target.Y))}
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}

var (
	translate = trajectory.KindTranslate
	rotate    = trajectory.KindRotate
	pause     = trajectory.KindPause
	long      = trajectory.AxisLongitudinal
	lat       = trajectory.AxisLateral
	none      = trajectory.AxisNone
)

// listing maps a record shape to its console sentence.
var listing = map[shape]template{
	{kind: translate, axis: long, sign: 1}:  {"move forwards %s", absInches},
	{kind: translate, axis: long, sign: -1}: {"move backwards %s", absInches},
	{kind: translate, axis: lat, sign: 1}:   {"move right %s", absInches},
	{kind: translate, axis: lat, sign: -1}:  {"move left %s", absInches},
	{kind: rotate, axis: none, sign: 1}:     {"turn right %s", absDegrees},
	{kind: rotate, axis: none, sign: -1}:    {"turn left %s", absDegrees},
	{kind: pause, axis: none, sign: 1}:      {"wait %s", absSeconds},
	{kind: trajectory.KindCall}:             {"execute %s (%s)", callArgs},
	{kind: trajectory.KindPositionJump}:     {"line to %s, %s", jumpXY},
	{kind: trajectory.KindPositionJump, heading: true}: {"line to %s, %s, heading %s",
		func(r trajectory.Record, num func(float64) string) []any {
			return append(jumpXY(r, num), num(*r.Target.Heading))
		}},
}

// calls maps a record shape to its builder call.
var calls = map[shape]template{
	{kind: translate, axis: long, sign: 1}:  {".forward(%s)", absInches},
	{kind: translate, axis: long, sign: -1}: {".back(%s)", absInches},
	{kind: translate, axis: lat, sign: 1}:   {".strafeRight(%s)", absInches},
	{kind: translate, axis: lat, sign: -1}:  {".strafeLeft(%s)", absInches},
	{kind: rotate, axis: none, sign: 1}:     {".turn(%s)", negatedRadians},
	{kind: rotate, axis: none, sign: -1}:    {".turn(%s)", negatedRadians},
	{kind: pause, axis: none, sign: 1}:      {".waitSeconds(%s)", absSeconds},
	{kind: trajectory.KindCall}:             {".addTemporalMarker(() -> %s(%s))", callArgs},
	{kind: trajectory.KindPositionJump}:     {".lineTo(new Vector2d(%s, %s))", jumpXY},
	{kind: trajectory.KindPositionJump, heading: true}: {".lineToLinearHeading(new Pose2d(%s, %s, %s))",
		func(r trajectory.Record, num func(float64) string) []any {
			return append(jumpXY(r, num), num(builderHeading(*r.Target.Heading)))
		}},
}

// The builder turns counter-clockwise for positive angles; records store
// clockwise as positive.
func negatedRadians(r trajectory.Record, num func(float64) string) []any {
	return []any{num(-r.Amount)}
}
