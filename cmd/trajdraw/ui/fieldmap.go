package ui

import (
	"math"
	"strings"

	"trajdraw/internal/field"
	"trajdraw/internal/trajectory"

	"github.com/charmbracelet/lipgloss"
)

type layer int

const (
	layerEmpty layer = iota
	layerGrid
	layerPath
	layerJump
	layerBarrier
	layerStart
	layerRobot
)

type cell struct {
	r     rune
	layer layer
}

// FieldMap draws the field as character cells. Terminal cells are about
// twice as tall as they are wide, so each field row spans two columns.
type FieldMap struct {
	Field field.Field
	Rows  int
}

// headingArrows indexes by heading octant, clockwise from up.
var headingArrows = []rune{'↑', '↗', '→', '↘', '↓', '↙', '←', '↖'}

// Arrow returns the arrow closest to a heading in degrees.
func Arrow(heading float64) rune {
	h := math.Mod(heading, 360)
	if h < 0 {
		h += 360
	}
	return headingArrows[int(math.Round(h/45))%8]
}

func (m FieldMap) cols() int { return m.Rows * 2 }

// Cell maps a field position to a (col, row) cell, clamped to the map.
func (m FieldMap) Cell(x, y float64) (int, int) {
	size := m.Field.Size
	half := m.Field.Half()
	col := int(math.Floor((x + half) / size * float64(m.cols())))
	row := int(math.Floor((half - y) / size * float64(m.Rows)))
	return min(max(col, 0), m.cols()-1), min(max(row, 0), m.Rows-1)
}

// Render draws the grid, the path traced from start, barriers, the start
// marker and the robot at pose.
func (m FieldMap) Render(s Styles, start, pose trajectory.Pose, records []trajectory.Record) string {
	if m.Rows <= 0 || m.Field.Size <= 0 {
		return ""
	}
	grid := make([][]cell, m.Rows)
	for r := range grid {
		grid[r] = make([]cell, m.cols())
		for c := range grid[r] {
			grid[r][c] = cell{r: ' '}
		}
	}
	put := func(x, y float64, r rune, l layer) {
		c, row := m.Cell(x, y)
		if grid[row][c].layer <= l {
			grid[row][c] = cell{r: r, layer: l}
		}
	}

	for t := 0.0; t <= m.Field.Size+1e-9; t += field.TileSize {
		for u := 0.0; u <= m.Field.Size+1e-9; u += field.TileSize {
			put(t-m.Field.Half(), u-m.Field.Half(), '+', layerGrid)
		}
	}

	step := m.Field.Size / float64(m.cols()) / 2
	poses := field.Trace(start, records)
	for i, rec := range records {
		from, to := poses[i], poses[i+1]
		r, l := '•', layerPath
		if rec.Kind == trajectory.KindPositionJump {
			r, l = '∙', layerJump
		}
		dist := math.Hypot(to.X-from.X, to.Y-from.Y)
		n := int(dist/step) + 1
		for k := 0; k <= n && dist > 0; k++ {
			f := float64(k) / float64(n)
			put(from.X+(to.X-from.X)*f, from.Y+(to.Y-from.Y)*f, r, l)
		}
		if rec.Kind == trajectory.KindBarrier {
			put(rec.Before.X, rec.Before.Y, 'x', layerBarrier)
		}
	}

	put(start.X, start.Y, 'S', layerStart)
	put(pose.X, pose.Y, Arrow(pose.Heading), layerRobot)

	styles := map[layer]lipgloss.Style{
		layerGrid:    s.Grid,
		layerPath:    s.Path,
		layerJump:    s.Jump,
		layerBarrier: s.Barrier,
		layerStart:   s.Success,
		layerRobot:   s.Robot,
	}
	var sb strings.Builder
	for r, row := range grid {
		for _, c := range row {
			if st, ok := styles[c.layer]; ok {
				sb.WriteString(st.Render(string(c.r)))
			} else {
				sb.WriteRune(c.r)
			}
		}
		if r < len(grid)-1 {
			sb.WriteByte('\n')
		}
	}
	return sb.String()
}
