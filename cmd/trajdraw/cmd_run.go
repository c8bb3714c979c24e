package main

import (
	"fmt"
	"strings"

	"trajdraw/internal/emit"
	"trajdraw/internal/logging"
	"trajdraw/internal/preview"
	"trajdraw/internal/script"

	"github.com/spf13/cobra"
)

var (
	pngPath string
	pngSize int
)

var runCmd = &cobra.Command{
	Use:   "run [script.yaml]",
	Short: "Replay a script of driver actions and print the result",
	Long: `Replays a YAML list of steps through the same input loop as the
interactive driver, then prints the record listing and the builder code.

Example script:
  - arm: true
  - control: forward
    seconds: 1.2
  - snap: right
  - wait: 0.5
  - call: {name: openClaw, args: "0.5"}
  - jump: "24, 24, 90"`,
	Args: cobra.ExactArgs(1),
	RunE: runScript,
}

func runScript(cmd *cobra.Command, args []string) error {
	log := logging.Get(logging.CategoryScript)

	s, err := script.Load(args[0])
	if err != nil {
		return err
	}
	log.Infow("script loaded", "path", args[0], "steps", len(s.Steps))

	sess := newSession(cfg)
	rep, err := script.NewRunner(sess, cfg.GetTickInterval()).Run(cmd.Context(), s)
	if err != nil {
		return fmt.Errorf("script interrupted: %w", err)
	}

	errOut := cmd.ErrOrStderr()
	for _, w := range rep.Warnings {
		fmt.Fprintln(errOut, "warning:", w)
	}

	rec := sess.Recorder()
	records := rec.Records()
	out := cmd.OutOrStdout()
	lines := emit.RenderText(records)
	if len(lines) > 0 {
		fmt.Fprintln(out, strings.Join(lines, "\n"))
		fmt.Fprintln(out)
	}
	fmt.Fprint(out, cfg.Dialect().Emit(records, rec.Start()))

	if pngPath != "" {
		o := preview.DefaultOptions()
		o.Size = pngSize
		o.TileSize = cfg.Field.TileSize
		o.RobotWidth = cfg.Robot.Width
		o.RobotLength = cfg.Robot.Length
		if err := preview.SavePNG(pngPath, sess.Field(), rec.Start(), records, o); err != nil {
			return err
		}
		fmt.Fprintln(errOut, "preview written to", pngPath)
	}
	return nil
}
