package emit

import (
	"fmt"
	"strings"

	"trajdraw/internal/logging"
	"trajdraw/internal/trajectory"
)

// Dialect holds the identifiers used in the emitted source.
type Dialect struct {
	DriveClass  string // e.g. SampleMecanumDrive
	DriveVar    string
	SequenceVar string
	HardwareMap string
	Indent      string
}

// DefaultDialect targets the RoadRunner quickstart's mecanum drive.
func DefaultDialect() Dialect {
	return Dialect{
		DriveClass:  "SampleMecanumDrive",
		DriveVar:    "drive",
		SequenceVar: "trajectory",
		HardwareMap: "hardwareMap",
		Indent:      "\t",
	}
}

// EmitCode renders records as builder source starting from start, using
// the default dialect.
func EmitCode(records []trajectory.Record, start trajectory.Pose) string {
	return DefaultDialect().Emit(records, start)
}

// Emit renders records as builder source. One call is emitted per
// non-barrier record, in record order.
func (d Dialect) Emit(records []trajectory.Record, start trajectory.Pose) string {
	defer logging.StartTimer(logging.CategoryExport, "emit").Stop()

	var sb strings.Builder
	fmt.Fprintf(&sb, "%s %s = new %s(%s);\n", d.DriveClass, d.DriveVar, d.DriveClass, d.HardwareMap)
	fmt.Fprintf(&sb, "%s.setPoseEstimate(new Pose2d(%s, %s, %s));\n",
		d.DriveVar, code(toInches(start.X)), code(toInches(start.Y)), code(builderHeading(start.Heading)))
	fmt.Fprintf(&sb, "TrajectorySequence %s = %s.trajectorySequenceBuilder(%s.getPoseEstimate())\n",
		d.SequenceVar, d.DriveVar, d.DriveVar)

	emitted := 0
	for _, r := range records {
		line, ok := Call(r)
		if !ok {
			continue
		}
		sb.WriteString(d.Indent)
		sb.WriteString(line)
		sb.WriteString("\n")
		emitted++
	}

	sb.WriteString(d.Indent)
	sb.WriteString(".build();\n")
	fmt.Fprintf(&sb, "%s.followTrajectorySequence(%s);\n", d.DriveVar, d.SequenceVar)

	logging.Get(logging.CategoryExport).Debugw("code emitted", "records", len(records), "calls", emitted)
	return sb.String()
}

// Call returns the builder call for one record. Barriers and records with
// no template (such as a zero amount) report false.
func Call(r trajectory.Record) (string, bool) {
	if r.Kind == trajectory.KindBarrier {
		return "", false
	}
	if r.Kind == trajectory.KindPositionJump && r.Target == nil {
		return "", false
	}
	t, ok := calls[shapeOf(r)]
	if !ok {
		logging.Get(logging.CategoryExport).Warnw("no call template", "record", r.String())
		return "", false
	}
	return fmt.Sprintf(t.format, t.args(r, code)...), true
}
