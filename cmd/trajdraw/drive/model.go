// Package drive provides the interactive terminal driver for trajdraw.
// The operator steers a simulated robot with the keyboard while the
// session records what it does.
package drive

import (
	"time"

	"trajdraw/cmd/trajdraw/ui"
	"trajdraw/internal/config"
	"trajdraw/internal/emit"
	"trajdraw/internal/field"
	"trajdraw/internal/logging"
	"trajdraw/internal/session"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"
)

// ViewMode is what currently owns the keyboard.
type ViewMode int

const (
	FieldView ViewMode = iota
	FunctionDialog
	JumpDialog
	ExportView
)

func (v ViewMode) String() string {
	switch v {
	case FieldView:
		return "field"
	case FunctionDialog:
		return "function"
	case JumpDialog:
		return "jump"
	case ExportView:
		return "export"
	default:
		return "unknown"
	}
}

// tickMsg drives held controls.
type tickMsg time.Time

// ConfigReloadedMsg carries a config that changed on disk.
type ConfigReloadedMsg struct {
	Config *config.Config
}

// Model is the bubbletea model of the driver.
type Model struct {
	cfg     *config.Config
	sess    *session.Session
	dialect emit.Dialect
	styles  ui.Styles
	layout  ui.LayoutConfig

	hold     *ui.HoldDetector[field.Control]
	interval time.Duration
	lastTick time.Time
	now      func() time.Time

	console  viewport.Model
	export   viewport.Model
	renderer *glamour.TermRenderer

	mode      ViewMode
	fnName    textinput.Model
	fnArgs    textinput.Model
	jumpInput textinput.Model
	dialogErr string

	status     string
	statusErr  bool
	lastExport string

	ready  bool
	width  int
	height int
}

// Option configures a Model.
type Option func(*Model)

// WithClock replaces time.Now for key timestamps.
func WithClock(now func() time.Time) Option {
	return func(m *Model) { m.now = now }
}

// New creates a driver model over sess.
func New(cfg *config.Config, sess *session.Session, opts ...Option) Model {
	m := Model{
		cfg:      cfg,
		sess:     sess,
		dialect:  cfg.Dialect(),
		styles:   ui.NewStyles(ui.DetectTheme(cfg.UI.Theme)),
		hold:     ui.NewHoldDetector[field.Control](cfg.GetReleaseTimeout()),
		interval: cfg.GetTickInterval(),
		now:      time.Now,
		console:  viewport.New(0, 0),
		export:   viewport.New(0, 0),
		status:   "press enter to start recording",
	}

	m.fnName = textinput.New()
	m.fnName.Placeholder = "functionName"
	m.fnName.Prompt = "name: "
	m.fnName.CharLimit = 64

	m.fnArgs = textinput.New()
	m.fnArgs.Placeholder = "arguments"
	m.fnArgs.Prompt = "args: "

	m.jumpInput = textinput.New()
	m.jumpInput.Placeholder = "x, y[, heading]"
	m.jumpInput.Prompt = "to: "

	for _, opt := range opts {
		opt(&m)
	}
	m.layout = ui.NewLayoutConfig(0, 0, cfg.UI.ConsoleRatio)
	m.refreshConsole()

	logging.Get(logging.CategoryDrive).Infow("driver created",
		"session", sess.Recorder().SessionID(),
		"tick", m.interval.String(),
		"release", m.hold.Window().String())
	return m
}

// Init starts the tick loop.
func (m Model) Init() tea.Cmd {
	return m.tick()
}

func (m Model) tick() tea.Cmd {
	return tea.Tick(m.interval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// Exported returns the last code exported with ctrl+p.
func (m Model) Exported() string {
	return m.lastExport
}

// Mode returns the current view mode.
func (m Model) Mode() ViewMode {
	return m.mode
}

// Status returns the status line text.
func (m Model) Status() string {
	return m.status
}
