package drive

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"trajdraw/cmd/trajdraw/ui"
	"trajdraw/internal/config"
	"trajdraw/internal/emit"
	"trajdraw/internal/field"
	"trajdraw/internal/logging"
	"trajdraw/internal/session"
	"trajdraw/internal/trajectory"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"
)

// holdKeys are the controls integrated while their key repeats.
var holdKeys = map[string]field.Control{
	"w": field.ControlForward,
	"s": field.ControlBackward,
	"a": field.ControlLeft,
	"d": field.ControlRight,
	"q": field.ControlTurnLeft,
	"e": field.ControlTurnRight,
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.resize(msg.Width, msg.Height)
		return m, nil

	case tickMsg:
		m.handleTick(time.Time(msg))
		return m, m.tick()

	case ConfigReloadedMsg:
		if msg.Config != nil {
			m.applyConfig(msg.Config)
		}
		return m, nil

	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			return m, tea.Quit
		}
		switch m.mode {
		case FunctionDialog:
			return m.updateFunctionDialog(msg)
		case JumpDialog:
			return m.updateJumpDialog(msg)
		case ExportView:
			return m.updateExport(msg)
		default:
			return m.handleFieldKey(msg)
		}
	}
	return m, nil
}

func (m *Model) handleTick(now time.Time) {
	dt := now.Sub(m.lastTick)
	if m.lastTick.IsZero() || dt <= 0 || dt > 2*m.interval {
		dt = m.interval
	}
	m.lastTick = now

	c, held, released := m.hold.Held(now)
	if released {
		logging.Get(logging.CategoryDrive).Debugw("gesture released", "control", c.String())
		return
	}
	if !held {
		return
	}
	out, err := m.sess.Hold(c, dt.Seconds())
	m.report(out, err)
}

func (m Model) handleFieldKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()
	if c, ok := holdKeys[key]; ok {
		m.hold.Press(c, m.now())
		return m, nil
	}

	switch key {
	case "esc":
		return m, tea.Quit

	case "Q":
		m.report(m.sess.Snap(-1))
	case "E":
		m.report(m.sess.Snap(1))

	case "r":
		m.report(m.sess.Wait(m.cfg.Drive.WaitStep))
	case "R":
		m.report(m.sess.Wait(m.cfg.Drive.LongWaitStep))

	case "enter":
		m.hold.Release()
		m.sess.Arm()
		m.setStatus("recording from "+m.sess.Recorder().Start().String(), false)

	case " ":
		m.sess.Barrier()
		m.setStatus("barrier inserted", false)
		m.refreshConsole()

	case "ctrl+z":
		m.hold.Release()
		if err := m.sess.Undo(); err != nil {
			if errors.Is(err, trajectory.ErrEmpty) {
				m.setStatus("nothing to undo", false)
			} else {
				m.setStatus(err.Error(), true)
			}
			break
		}
		m.setStatus("undone", false)
		m.refreshConsole()

	case "ctrl+l":
		m.hold.Release()
		m.sess.Clear()
		m.setStatus("cleared; press enter to start recording", false)
		m.refreshConsole()

	case "ctrl+p":
		m.hold.Release()
		m.openExport()

	case "f":
		if !m.sess.Recorder().Armed() {
			m.setStatus("press enter to start recording first", true)
			break
		}
		m.hold.Release()
		m.fnName.Reset()
		m.fnArgs.Reset()
		m.fnArgs.Blur()
		m.dialogErr = ""
		m.mode = FunctionDialog
		return m, m.fnName.Focus()

	case "j":
		m.hold.Release()
		m.jumpInput.Reset()
		m.dialogErr = ""
		m.mode = JumpDialog
		return m, m.jumpInput.Focus()

	case "tab":
		m.sess.SetPrecision(!m.sess.Precision())
		if m.sess.Precision() {
			m.setStatus("precision mode on", false)
		} else {
			m.setStatus("precision mode off", false)
		}

	case "up":
		m.console.LineUp(1)
	case "down":
		m.console.LineDown(1)
	case "pgup":
		m.console.HalfViewUp()
	case "pgdown":
		m.console.HalfViewDown()
	}
	return m, nil
}

// report turns an observation result into status and console updates.
func (m *Model) report(out trajectory.Outcome, err error) {
	switch {
	case err == nil:
	case trajectory.IsSilent(err):
		return
	case errors.Is(err, session.ErrOffField):
		m.setStatus("jump target is off the field", true)
		return
	default:
		m.setStatus(err.Error(), true)
		return
	}
	if out != trajectory.OutcomeIgnored {
		m.refreshConsole()
	}
}

func (m *Model) setStatus(s string, isErr bool) {
	m.status = s
	m.statusErr = isErr
}

func (m *Model) refreshConsole() {
	lines := emit.RenderText(m.sess.Recorder().Records())
	if len(lines) == 0 {
		m.console.SetContent(m.styles.Muted.Render("no records"))
		return
	}
	m.console.SetContent(strings.Join(lines, "\n"))
	m.console.GotoBottom()
}

func (m *Model) openExport() {
	rec := m.sess.Recorder()
	code := m.dialect.Emit(rec.Records(), rec.Start())
	m.lastExport = code

	body := code
	if m.renderer != nil {
		rendered, err := m.renderer.Render("```java\n" + code + "\n```\n")
		if err != nil {
			logging.Get(logging.CategoryExport).Warnw("markdown render failed", "error", err)
		} else {
			body = rendered
		}
	}
	m.export.SetContent(body)
	m.export.GotoTop()
	m.mode = ExportView
	logging.Get(logging.CategoryExport).Infow("code exported",
		"session", rec.SessionID(), "records", rec.Len(), "bytes", len(code))
}

func (m Model) updateExport(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc", "ctrl+p", "q":
		m.mode = FieldView
		m.setStatus("exported code is printed again on exit", false)
	case "up", "k":
		m.export.LineUp(1)
	case "down", "j":
		m.export.LineDown(1)
	case "pgup":
		m.export.HalfViewUp()
	case "pgdown":
		m.export.HalfViewDown()
	}
	return m, nil
}

func (m *Model) resize(width, height int) {
	m.width, m.height = max(0, width), max(0, height)
	m.layout = ui.NewLayoutConfig(m.width, m.height, m.cfg.UI.ConsoleRatio)
	_, consoleWidth := m.layout.SplitPaneWidths()
	body := m.layout.BodyHeight()

	m.console.Width = ui.PanelContentWidth(consoleWidth)
	m.console.Height = ui.PanelContentHeight(body)
	m.export.Width = ui.PanelContentWidth(m.width)
	m.export.Height = ui.PanelContentHeight(body)

	m.renderer = newRenderer(m.styles, m.export.Width)
	m.ready = true
	m.refreshConsole()
}

// gridRows is the field map size that fits the field pane.
func (m Model) gridRows() int {
	fieldWidth, _ := m.layout.SplitPaneWidths()
	rows := min(m.cfg.UI.GridCells, ui.PanelContentHeight(m.layout.BodyHeight()))
	rows = min(rows, ui.PanelContentWidth(fieldWidth)/2)
	return max(rows, 0)
}

func newRenderer(s ui.Styles, width int) *glamour.TermRenderer {
	style := "light"
	if s.Theme.IsDark {
		style = "dark"
	}
	r, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle(style),
		glamour.WithWordWrap(max(width-4, 20)),
	)
	if err != nil {
		logging.Get(logging.CategoryDrive).Warnw("markdown renderer unavailable", "error", err)
		return nil
	}
	return r
}

func (m *Model) applyConfig(c *config.Config) {
	m.cfg = c
	m.sess.SetSpeeds(c.Speeds())
	m.hold.SetWindow(c.GetReleaseTimeout())
	m.interval = c.GetTickInterval()
	m.dialect = c.Dialect()
	m.styles = ui.NewStyles(ui.DetectTheme(c.UI.Theme))
	if m.ready {
		m.resize(m.width, m.height)
	}
	m.setStatus(fmt.Sprintf("config reloaded (speed %.2f m/s, turn %.0f°/s)", c.Robot.Speed, c.Robot.TurnSpeed), false)
	logging.Get(logging.CategoryDrive).Infow("config applied",
		"speed", c.Robot.Speed, "turn_speed", c.Robot.TurnSpeed, "tick", m.interval.String())
}
