// Package preview draws a recorded path onto a top-down picture of the
// field and encodes it as PNG.
package preview

import (
	"fmt"
	"image"
	"io"
	"math"
	"os"

	"trajdraw/internal/field"
	"trajdraw/internal/logging"
	"trajdraw/internal/trajectory"

	"github.com/gogpu/gg"
)

// Palette holds the preview colours as hex strings.
type Palette struct {
	Background string
	Grid       string
	Path       string
	Jump       string
	Barrier    string
	Call       string
	Start      string
	Robot      string
}

// DefaultPalette is a dark field with bright path colours.
func DefaultPalette() Palette {
	return Palette{
		Background: "#1e1e2e",
		Grid:       "#45475a",
		Path:       "#89b4fa",
		Jump:       "#f9e2af",
		Barrier:    "#f38ba8",
		Call:       "#a6e3a1",
		Start:      "#94e2d5",
		Robot:      "#cdd6f4",
	}
}

// Options controls the picture.
type Options struct {
	Size        int     // image side in pixels
	Margin      int     // border around the field in pixels
	TileSize    float64 // grid spacing in meters
	RobotWidth  float64 // meters
	RobotLength float64 // meters
	Palette     Palette
}

// DefaultOptions returns an 800px preview with standard tile spacing.
func DefaultOptions() Options {
	return Options{
		Size:        800,
		Margin:      20,
		TileSize:    field.TileSize,
		RobotWidth:  0.4572,
		RobotLength: 0.4572,
		Palette:     DefaultPalette(),
	}
}

// canvas maps field meters to pixels. The field centre is the image centre
// and +y points up.
type canvas struct {
	dc     *gg.Context
	half   float64
	scale  float64
	margin float64
}

func (c canvas) point(x, y float64) (float64, float64) {
	return c.margin + (x+c.half)*c.scale, c.margin + (c.half-y)*c.scale
}

// Draw renders the field, the path replayed from start, and the robot at
// the final pose.
func Draw(f field.Field, start trajectory.Pose, records []trajectory.Record, o Options) (image.Image, error) {
	dc, err := draw(f, start, records, o)
	if err != nil {
		return nil, err
	}
	defer dc.Close()
	return dc.Image(), nil
}

// draw returns the rendered context; the caller closes it.
func draw(f field.Field, start trajectory.Pose, records []trajectory.Record, o Options) (*gg.Context, error) {
	if o.Size <= 2*o.Margin || f.Size <= 0 {
		return nil, fmt.Errorf("invalid preview geometry: size %d, margin %d, field %v", o.Size, o.Margin, f.Size)
	}
	timer := logging.StartTimer(logging.CategoryPreview, "draw")
	defer timer.Stop()

	dc := gg.NewContext(o.Size, o.Size)
	ok := false
	defer func() {
		if !ok {
			_ = dc.Close()
		}
	}()

	c := canvas{
		dc:     dc,
		half:   f.Half(),
		scale:  float64(o.Size-2*o.Margin) / f.Size,
		margin: float64(o.Margin),
	}

	dc.ClearWithColor(gg.Hex(o.Palette.Background))
	if err := c.grid(o); err != nil {
		return nil, err
	}

	poses := field.Trace(start, records)
	if err := c.path(poses, records, o.Palette); err != nil {
		return nil, err
	}
	if err := c.markers(records, o.Palette); err != nil {
		return nil, err
	}

	dc.SetHexColor(o.Palette.Start)
	x, y := c.point(start.X, start.Y)
	dc.DrawCircle(x, y, 5)
	if err := dc.Fill(); err != nil {
		return nil, fmt.Errorf("failed to draw start: %w", err)
	}

	if err := c.robot(poses[len(poses)-1], o); err != nil {
		return nil, err
	}

	// Pending accelerator work must land in the pixmap before pixels are read.
	if err := dc.FlushGPU(); err != nil {
		return nil, fmt.Errorf("failed to flush preview: %w", err)
	}

	logging.Get(logging.CategoryPreview).Debugw("preview drawn",
		"records", len(records), "size", o.Size)
	ok = true
	return dc, nil
}

func (c canvas) grid(o Options) error {
	c.dc.SetHexColor(o.Palette.Grid)
	c.dc.SetLineWidth(1)
	side := 2 * c.half
	if o.TileSize > 0 {
		for v := 0.0; v <= side+1e-9; v += o.TileSize {
			x0, y0 := c.point(-c.half+v, c.half)
			x1, y1 := c.point(-c.half+v, -c.half)
			c.dc.DrawLine(x0, y0, x1, y1)
			x0, y0 = c.point(-c.half, -c.half+v)
			x1, y1 = c.point(c.half, -c.half+v)
			c.dc.DrawLine(x0, y0, x1, y1)
		}
	}
	x, y := c.point(-c.half, c.half)
	c.dc.DrawRectangle(x, y, side*c.scale, side*c.scale)
	if err := c.dc.Stroke(); err != nil {
		return fmt.Errorf("failed to draw grid: %w", err)
	}
	return nil
}

// path strokes one segment per record. Jumps are dashed.
func (c canvas) path(poses []trajectory.Pose, records []trajectory.Record, p Palette) error {
	c.dc.SetLineWidth(3)
	for i, r := range records {
		from, to := poses[i], poses[i+1]
		if from.X == to.X && from.Y == to.Y {
			continue
		}
		if r.Kind == trajectory.KindPositionJump {
			c.dc.SetHexColor(p.Jump)
			c.dc.SetDash(8, 6)
		} else {
			c.dc.SetHexColor(p.Path)
			c.dc.ClearDash()
		}
		x0, y0 := c.point(from.X, from.Y)
		x1, y1 := c.point(to.X, to.Y)
		c.dc.DrawLine(x0, y0, x1, y1)
		if err := c.dc.Stroke(); err != nil {
			return fmt.Errorf("failed to draw segment %d: %w", i+1, err)
		}
	}
	c.dc.ClearDash()
	return nil
}

// markers draws barriers as rings and calls as dots.
func (c canvas) markers(records []trajectory.Record, p Palette) error {
	for _, r := range records {
		x, y := c.point(r.Before.X, r.Before.Y)
		switch r.Kind {
		case trajectory.KindBarrier:
			c.dc.SetHexColor(p.Barrier)
			c.dc.SetLineWidth(2)
			c.dc.DrawCircle(x, y, 7)
			if err := c.dc.Stroke(); err != nil {
				return fmt.Errorf("failed to draw barrier: %w", err)
			}
		case trajectory.KindCall:
			c.dc.SetHexColor(p.Call)
			c.dc.DrawCircle(x, y, 4)
			if err := c.dc.Fill(); err != nil {
				return fmt.Errorf("failed to draw call: %w", err)
			}
		}
	}
	return nil
}

// robot outlines the chassis at pose with a line showing its heading.
func (c canvas) robot(pose trajectory.Pose, o Options) error {
	x, y := c.point(pose.X, pose.Y)
	w := o.RobotWidth * c.scale
	l := o.RobotLength * c.scale

	c.dc.Push()
	defer c.dc.Pop()
	c.dc.Translate(x, y)
	// Image y grows downwards, so a positive angle turns clockwise.
	c.dc.Rotate(pose.Heading * math.Pi / 180)
	c.dc.SetHexColor(o.Palette.Robot)
	c.dc.SetLineWidth(2)
	c.dc.DrawRectangle(-w/2, -l/2, w, l)
	c.dc.MoveTo(0, 0)
	c.dc.LineTo(0, -l/2)
	if err := c.dc.Stroke(); err != nil {
		return fmt.Errorf("failed to draw robot: %w", err)
	}
	return nil
}

// Render draws the preview and writes it to w as PNG.
func Render(w io.Writer, f field.Field, start trajectory.Pose, records []trajectory.Record, o Options) error {
	dc, err := draw(f, start, records, o)
	if err != nil {
		return err
	}
	defer dc.Close()
	if err := dc.EncodePNG(w); err != nil {
		return fmt.Errorf("failed to encode preview: %w", err)
	}
	return nil
}

// SavePNG renders the preview to a file.
func SavePNG(path string, f field.Field, start trajectory.Pose, records []trajectory.Record, o Options) error {
	out, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create preview: %w", err)
	}
	if err := Render(out, f, start, records, o); err != nil {
		_ = out.Close()
		return err
	}
	if err := out.Close(); err != nil {
		return fmt.Errorf("failed to write preview: %w", err)
	}
	logging.Get(logging.CategoryPreview).Infow("preview written", "path", path, "records", len(records))
	return nil
}
