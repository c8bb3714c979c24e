package drive

import (
	"fmt"
	"strings"

	"trajdraw/cmd/trajdraw/ui"

	"github.com/charmbracelet/lipgloss"
)

type helpEntry struct{ key, desc string }

var (
	fullHelp = []helpEntry{
		{"w/s/a/d", "move"}, {"q/e", "turn"}, {"Q/E", "snap"}, {"r/R", "wait"},
		{"enter", "arm"}, {"space", "barrier"}, {"f", "function"}, {"j", "jump"},
		{"tab", "precision"}, {"ctrl+z", "undo"}, {"ctrl+l", "clear"},
		{"ctrl+p", "export"}, {"esc", "quit"},
	}
	compactHelp = []helpEntry{
		{"wasd", "move"}, {"qe", "turn"}, {"enter", "arm"}, {"ctrl+z", "undo"},
		{"ctrl+p", "export"}, {"esc", "quit"},
	}
	exportHelp = []helpEntry{
		{"↑/↓", "scroll"}, {"esc", "back"},
	}
)

func (m Model) renderHelp(entries []helpEntry) string {
	parts := make([]string, len(entries))
	for i, e := range entries {
		parts[i] = m.styles.Key.Render(e.key) + " " + m.styles.Muted.Render(e.desc)
	}
	return strings.Join(parts, m.styles.Muted.Render(" · "))
}

func (m Model) View() string {
	if !m.ready {
		return "Initializing..."
	}
	if m.layout.TooSmall {
		return m.styles.Warning.Render(fmt.Sprintf("terminal too small (%dx%d, need %dx%d)",
			m.width, m.height, ui.MinimumTerminalWidth, ui.MinimumTerminalHeight))
	}

	var body string
	switch m.mode {
	case ExportView:
		body = m.styles.Pane.Render(m.export.View())
	case FunctionDialog, JumpDialog:
		body = lipgloss.Place(m.width, m.layout.BodyHeight(), lipgloss.Center, lipgloss.Center, m.renderDialog())
	default:
		body = m.renderPanes()
	}
	return lipgloss.JoinVertical(lipgloss.Left, m.renderHeader(), body, m.renderFooter())
}

func (m Model) renderHeader() string {
	rec := m.sess.Recorder()
	badge := m.styles.Disarmed.Render("IDLE")
	if rec.Armed() {
		badge = m.styles.Armed.Render("REC")
	}
	parts := []string{
		m.styles.Header.Render("trajdraw"),
		badge,
		m.styles.Bold.Render(m.sess.Pose().String()),
	}
	if m.sess.Precision() {
		parts = append(parts, m.styles.Info.Render("precision"))
	}
	if m.mode != FieldView {
		parts = append(parts, m.styles.Muted.Render(m.mode.String()))
	}
	return strings.Join(parts, " ")
}

func (m Model) renderPanes() string {
	fieldWidth, consoleWidth := m.layout.SplitPaneWidths()
	height := ui.PanelContentHeight(m.layout.BodyHeight())
	rec := m.sess.Recorder()

	fm := ui.FieldMap{Field: m.sess.Field(), Rows: m.gridRows()}
	fieldPane := m.styles.Pane.
		Width(ui.PanelContentWidth(fieldWidth)).
		Height(height).
		Render(fm.Render(m.styles, rec.Start(), m.sess.Pose(), rec.Records()))

	consolePane := m.styles.Pane.
		Width(ui.PanelContentWidth(consoleWidth)).
		Height(height).
		Render(m.console.View())

	return lipgloss.JoinHorizontal(lipgloss.Top, fieldPane, strings.Repeat(" ", ui.SplitPaneDivider), consolePane)
}

func (m Model) renderDialog() string {
	var sb strings.Builder
	switch m.mode {
	case FunctionDialog:
		sb.WriteString(m.titleWithRule("Add function call"))
		sb.WriteString(m.fnName.View())
		sb.WriteString("\n")
		sb.WriteString(m.fnArgs.View())
		sb.WriteString("\n\n")
		sb.WriteString(m.styles.Muted.Render("tab switch field · enter record · esc cancel"))
	case JumpDialog:
		sb.WriteString(m.titleWithRule("Jump to position (inches, degrees)"))
		sb.WriteString(m.jumpInput.View())
		sb.WriteString("\n\n")
		if m.dialogErr != "" {
			sb.WriteString(m.styles.Error.Render(m.dialogErr))
			sb.WriteString("\n")
		}
		sb.WriteString(m.styles.Muted.Render("enter jump · esc cancel"))
	}
	return m.styles.Dialog.Render(sb.String())
}

// titleWithRule renders a dialog title underlined by a divider.
func (m Model) titleWithRule(title string) string {
	t := m.styles.Title.Render(title)
	return t + "\n" + m.styles.RenderDivider(lipgloss.Width(t)) + "\n"
}

func (m Model) renderFooter() string {
	status := m.styles.Body.Render(m.status)
	if m.statusErr {
		status = m.styles.Error.Render(m.status)
	}
	var help string
	switch {
	case m.mode == ExportView:
		help = m.renderHelp(exportHelp) + m.styles.Muted.Render(" · code is printed on exit")
	case m.layout.IsCompact:
		help = m.renderHelp(compactHelp)
	default:
		help = m.renderHelp(fullHelp)
	}
	footer := m.styles.Footer.MaxWidth(m.width)
	return footer.Render(status) + "\n" + footer.Render(help)
}
