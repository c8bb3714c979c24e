package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"trajdraw/cmd/trajdraw/drive"
	"trajdraw/internal/config"
	"trajdraw/internal/logging"
	"trajdraw/internal/session"
	"trajdraw/internal/trajectory"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

var driveCmd = &cobra.Command{
	Use:   "drive",
	Short: "Start the interactive driver (default)",
	Long: `Drive the simulated robot with the keyboard.

  w/s/a/d    move forwards, backwards, left, right (hold)
  q/e        turn left, right (hold)
  Q/E        snap to the next 45° heading
  r / R      wait 0.1 s / 1 s
  enter      start recording from the current pose
  space      insert a barrier so the next motion does not merge
  f          add a function call marker
  j          jump to a position (inches)
  tab        precision mode (slower, no turning)
  ctrl+z     undo
  ctrl+l     clear
  ctrl+p     export code
  esc        quit

The exported code is printed when the driver exits.`,
	RunE: runDrive,
}

// newSession builds a recorder and session on the configured field.
func newSession(c *config.Config) *session.Session {
	f := c.Geometry()
	rec := trajectory.NewRecorder(trajectory.WithOrigin(f.Origin))
	return session.New(rec, f, c.Speeds())
}

func runDrive(cmd *cobra.Command, args []string) error {
	log := logging.Get(logging.CategoryBoot)
	sess := newSession(cfg)
	model := drive.New(cfg, sess)

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()
	g, gctx := errgroup.WithContext(ctx)

	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(gctx))

	var final tea.Model
	g.Go(func() error {
		defer cancel()
		var err error
		final, err = p.Run()
		if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
			return nil
		}
		return err
	})

	if w := newConfigWatcher(p); w != nil {
		g.Go(func() error { return w.Run(gctx) })
	}

	if err := g.Wait(); err != nil {
		return fmt.Errorf("driver failed: %w", err)
	}

	if m, ok := final.(drive.Model); ok && m.Exported() != "" {
		line := strings.Repeat("-", 80)
		fmt.Fprintf(cmd.OutOrStdout(), "%s\n%s%s\n", line, m.Exported(), line)
	}
	log.Infow("driver exited", "records", sess.Recorder().Len())
	return nil
}

// newConfigWatcher forwards config changes to the program. It returns nil
// when the config directory does not exist yet.
func newConfigWatcher(p *tea.Program) *config.Watcher {
	log := logging.Get(logging.CategoryConfig)
	if _, err := os.Stat(filepath.Dir(configPath)); err != nil {
		log.Debugw("config directory missing, live reload disabled", "path", configPath)
		return nil
	}
	w, err := config.NewWatcher(configPath, func(c *config.Config) {
		p.Send(drive.ConfigReloadedMsg{Config: c})
	})
	if err != nil {
		log.Warnw("live reload disabled", "error", err)
		return nil
	}
	return w
}
