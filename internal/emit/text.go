package emit

import (
	"fmt"

	"trajdraw/internal/trajectory"
)

// RenderText returns the numbered console listing. Barriers are skipped and
// numbering is contiguous over the remaining records, starting at 1.
func RenderText(records []trajectory.Record) []string {
	lines := make([]string, 0, len(records))
	for _, r := range records {
		if r.Kind == trajectory.KindBarrier {
			continue
		}
		lines = append(lines, fmt.Sprintf("%d: %s", len(lines)+1, Describe(r)))
	}
	return lines
}

// Describe returns the sentence for one record without its line number.
func Describe(r trajectory.Record) string {
	if r.Kind == trajectory.KindPositionJump && r.Target == nil {
		return "[error]: position jump without target"
	}
	t, ok := listing[shapeOf(r)]
	if !ok {
		return fmt.Sprintf("[error]: %s", r)
	}
	return fmt.Sprintf(t.format, t.args(r, fixed)...)
}
