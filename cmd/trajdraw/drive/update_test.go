// Tests for the driver's Update loop and key routing.
package drive

import (
	"strings"
	"testing"
	"time"

	"trajdraw/internal/config"
	"trajdraw/internal/field"
	"trajdraw/internal/session"
	"trajdraw/internal/trajectory"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClock struct{ t time.Time }

func (c *fakeClock) now() time.Time { return c.t }

func newTestModel(t *testing.T) (Model, *fakeClock) {
	t.Helper()
	cfg := config.DefaultConfig()
	cfg.UI.Theme = "dark"
	f := cfg.Geometry()
	sess := session.New(trajectory.NewRecorder(trajectory.WithOrigin(f.Origin)), f, cfg.Speeds())
	clock := &fakeClock{t: time.Unix(1000, 0)}
	m := New(cfg, sess, WithClock(clock.now))
	return update(t, m, tea.WindowSizeMsg{Width: 120, Height: 40}), clock
}

func update(t *testing.T, m Model, msg tea.Msg) Model {
	t.Helper()
	next, _ := m.Update(msg)
	return next.(Model)
}

func key(s string) tea.KeyMsg {
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	case "space":
		return tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}
	case "ctrl+z":
		return tea.KeyMsg{Type: tea.KeyCtrlZ}
	case "ctrl+l":
		return tea.KeyMsg{Type: tea.KeyCtrlL}
	case "ctrl+p":
		return tea.KeyMsg{Type: tea.KeyCtrlP}
	case "ctrl+c":
		return tea.KeyMsg{Type: tea.KeyCtrlC}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func press(t *testing.T, m Model, keys ...string) Model {
	t.Helper()
	for _, k := range keys {
		m = update(t, m, key(k))
	}
	return m
}

func isQuit(cmd tea.Cmd) bool {
	if cmd == nil {
		return false
	}
	_, ok := cmd().(tea.QuitMsg)
	return ok
}

// =============================================================================
// WINDOW SIZE
// =============================================================================

func TestUpdate_WindowSize(t *testing.T) {
	m, _ := newTestModel(t)
	assert.True(t, m.ready)
	assert.Equal(t, 120, m.width)
	assert.Equal(t, 40, m.height)
	assert.Greater(t, m.console.Height, 0)
	assert.Greater(t, m.gridRows(), 0)
}

func TestUpdate_WindowSize_Degenerate(t *testing.T) {
	m, _ := newTestModel(t)
	for _, size := range []tea.WindowSizeMsg{{Width: 0, Height: 0}, {Width: -1, Height: -1}, {Width: 10000, Height: 5000}} {
		assert.NotPanics(t, func() {
			next := update(t, m, size)
			_ = next.View()
		})
	}
}

// =============================================================================
// HELD CONTROLS
// =============================================================================

func TestUpdate_HeldKeyMovesOnTicks(t *testing.T) {
	m, clock := newTestModel(t)
	m = press(t, m, "enter")
	start := clock.t

	m = press(t, m, "w")
	m = update(t, m, tickMsg(start.Add(50*time.Millisecond)))
	m = update(t, m, tickMsg(start.Add(100*time.Millisecond)))

	recs := m.sess.Recorder().Records()
	require.Len(t, recs, 1)
	assert.InDelta(t, 2*0.05*0.75, recs[0].Amount, 1e-9)

	// No repeat within the release window: the gesture ends.
	m = update(t, m, tickMsg(start.Add(800*time.Millisecond)))
	m = update(t, m, tickMsg(start.Add(850*time.Millisecond)))
	assert.InDelta(t, 2*0.05*0.75, m.sess.Pose().Y, 1e-9)
}

func TestUpdate_TickWithoutKeyIsIdle(t *testing.T) {
	m, clock := newTestModel(t)
	next, cmd := m.Update(tickMsg(clock.t))
	assert.NotNil(t, cmd, "tick must reschedule itself")
	assert.Equal(t, trajectory.Origin, next.(Model).sess.Pose())
}

func TestUpdate_MovesWhileDisarmed(t *testing.T) {
	m, clock := newTestModel(t)
	m = press(t, m, "d")
	m = update(t, m, tickMsg(clock.t.Add(50*time.Millisecond)))

	assert.Greater(t, m.sess.Pose().X, 0.0)
	assert.Equal(t, 0, m.sess.Recorder().Len())
}

// =============================================================================
// DISCRETE ACTIONS
// =============================================================================

func TestUpdate_ArmWaitSnapBarrier(t *testing.T) {
	m, _ := newTestModel(t)
	m = press(t, m, "enter", "r", "r", "R", "E", "space", "Q")

	recs := m.sess.Recorder().Records()
	require.Len(t, recs, 4)
	assert.Equal(t, trajectory.KindPause, recs[0].Kind)
	assert.InDelta(t, 1.2, recs[0].Amount, 1e-9)
	assert.Equal(t, trajectory.KindRotate, recs[1].Kind)
	assert.Equal(t, trajectory.KindBarrier, recs[2].Kind)
	assert.Equal(t, trajectory.KindRotate, recs[3].Kind)
	assert.Equal(t, 0.0, m.sess.Pose().Heading)

	assert.Contains(t, m.console.View(), "1: wait 1.2000")
}

func TestUpdate_UndoAndClear(t *testing.T) {
	m, _ := newTestModel(t)
	m = press(t, m, "ctrl+z")
	assert.Equal(t, "nothing to undo", m.Status())

	m = press(t, m, "enter", "E", "ctrl+z")
	assert.Equal(t, 0, m.sess.Recorder().Len())
	assert.Equal(t, 0.0, m.sess.Pose().Heading)

	m = press(t, m, "E", "ctrl+l")
	assert.Equal(t, 0, m.sess.Recorder().Len())
	assert.False(t, m.sess.Recorder().Armed())
	assert.Equal(t, trajectory.Origin, m.sess.Pose())
}

func TestUpdate_TogglePrecision(t *testing.T) {
	m, _ := newTestModel(t)
	m = press(t, m, "tab")
	assert.True(t, m.sess.Precision())
	m = press(t, m, "tab")
	assert.False(t, m.sess.Precision())
}

func TestUpdate_Quit(t *testing.T) {
	m, _ := newTestModel(t)
	_, cmd := m.Update(key("esc"))
	assert.True(t, isQuit(cmd))

	m = press(t, m, "j")
	_, cmd = m.Update(key("ctrl+c"))
	assert.True(t, isQuit(cmd), "ctrl+c quits from any mode")
}

// =============================================================================
// DIALOGS
// =============================================================================

func TestFunctionDialog_RequiresArmed(t *testing.T) {
	m, _ := newTestModel(t)
	m = press(t, m, "f")
	assert.Equal(t, FieldView, m.Mode())
	assert.True(t, m.statusErr)
}

func TestFunctionDialog_RecordsCall(t *testing.T) {
	m, _ := newTestModel(t)
	m = press(t, m, "enter", "f")
	require.Equal(t, FunctionDialog, m.Mode())

	m = press(t, m, "open claw", "tab", "0.5", "enter")
	assert.Equal(t, FieldView, m.Mode())

	recs := m.sess.Recorder().Records()
	require.Len(t, recs, 1)
	assert.Equal(t, "openclaw", recs[0].Name)
	assert.Equal(t, "0.5", recs[0].Args)
}

func TestFunctionDialog_CancelAndEmptyName(t *testing.T) {
	m, _ := newTestModel(t)
	m = press(t, m, "enter", "f", "intake", "esc")
	assert.Equal(t, FieldView, m.Mode())
	assert.Equal(t, 0, m.sess.Recorder().Len())

	m = press(t, m, "f", "enter")
	assert.Equal(t, FieldView, m.Mode())
	assert.Equal(t, 0, m.sess.Recorder().Len())
}

func TestJumpDialog(t *testing.T) {
	m, _ := newTestModel(t)
	m = press(t, m, "enter", "j")
	require.Equal(t, JumpDialog, m.Mode())

	m = press(t, m, "abc", "enter")
	assert.Equal(t, JumpDialog, m.Mode(), "malformed text keeps the dialog open")
	assert.NotEmpty(t, m.dialogErr)
	assert.Equal(t, 0, m.sess.Recorder().Len())

	m = press(t, m, "esc", "j", "39.37, -39.37, 90", "enter")
	assert.Equal(t, FieldView, m.Mode())
	assert.InDelta(t, 1, m.sess.Pose().X, 1e-9)
	assert.InDelta(t, -1, m.sess.Pose().Y, 1e-9)
	assert.Equal(t, 90.0, m.sess.Pose().Heading)
	assert.Equal(t, 1, m.sess.Recorder().Len())
}

func TestJumpDialog_OffField(t *testing.T) {
	m, _ := newTestModel(t)
	m = press(t, m, "enter", "j", "1000, 0", "enter")
	assert.True(t, m.statusErr)
	assert.Contains(t, m.Status(), "off the field")
	assert.Equal(t, trajectory.Origin, m.sess.Pose())
}

// =============================================================================
// EXPORT AND CONFIG
// =============================================================================

func TestExport(t *testing.T) {
	m, _ := newTestModel(t)
	m = press(t, m, "enter", "R", "ctrl+p")
	assert.Equal(t, ExportView, m.Mode())
	assert.Contains(t, m.Exported(), ".waitSeconds(1)")
	assert.True(t, strings.HasSuffix(m.Exported(), "drive.followTrajectorySequence(trajectory);\n"))
	assert.NotEmpty(t, m.View())

	m = press(t, m, "esc")
	assert.Equal(t, FieldView, m.Mode())
}

func TestUpdate_ConfigReload(t *testing.T) {
	m, _ := newTestModel(t)
	cfg := config.DefaultConfig()
	cfg.Robot.Speed = 2
	cfg.Drive.ReleaseTimeout = "1s"
	cfg.Export.DriveClass = "OtherDrive"

	m = update(t, m, ConfigReloadedMsg{Config: cfg})
	assert.Equal(t, field.Speeds{Linear: 2, Angular: 90, PrecisionScale: 0.25}, m.sess.Speeds())
	assert.Equal(t, time.Second, m.hold.Window())
	assert.Contains(t, m.Status(), "config reloaded")

	m = press(t, m, "ctrl+p")
	assert.True(t, strings.HasPrefix(m.Exported(), "OtherDrive drive = new OtherDrive(hardwareMap);"))

	assert.NotPanics(t, func() { _ = update(t, m, ConfigReloadedMsg{}) })
}

// =============================================================================
// VIEW
// =============================================================================

func TestView(t *testing.T) {
	m, _ := newTestModel(t)
	assert.Contains(t, m.View(), "IDLE")

	m = press(t, m, "enter")
	v := m.View()
	assert.Contains(t, v, "REC")
	assert.Contains(t, v, "trajdraw")

	m = press(t, m, "f")
	assert.Contains(t, m.View(), "Add function call")

	m = update(t, m, tea.WindowSizeMsg{Width: 20, Height: 5})
	assert.Contains(t, m.View(), "terminal too small")
}

func TestView_HelpFollowsWidth(t *testing.T) {
	m, _ := newTestModel(t)
	assert.Contains(t, m.View(), "Q/E snap")

	m = update(t, m, tea.WindowSizeMsg{Width: 80, Height: 30})
	v := m.View()
	assert.Contains(t, v, "esc quit")
	assert.NotContains(t, v, "Q/E snap")

	m = press(t, m, "j")
	v = m.View()
	assert.Contains(t, v, "Jump to position")
	assert.Contains(t, v, strings.Repeat("─", len("Jump to position (inches, degrees)")))
}

func TestView_NotReady(t *testing.T) {
	cfg := config.DefaultConfig()
	f := cfg.Geometry()
	m := New(cfg, session.New(trajectory.NewRecorder(), f, cfg.Speeds()))
	assert.Equal(t, "Initializing...", m.View())
	assert.NotNil(t, m.Init())
}
