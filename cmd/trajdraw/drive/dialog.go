package drive

import (
	"strings"

	"trajdraw/internal/field"

	tea "github.com/charmbracelet/bubbletea"
)

// updateFunctionDialog edits the call name and arguments. Tab moves
// between the fields, enter records the call, esc cancels.
func (m Model) updateFunctionDialog(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.mode = FieldView
		m.setStatus("function cancelled", false)
		return m, nil

	case "tab", "shift+tab":
		if m.fnName.Focused() {
			m.fnName.Blur()
			return m, m.fnArgs.Focus()
		}
		m.fnArgs.Blur()
		return m, m.fnName.Focus()

	case "enter":
		name := strings.ReplaceAll(m.fnName.Value(), " ", "")
		m.mode = FieldView
		if name == "" {
			m.setStatus("function cancelled", false)
			return m, nil
		}
		m.setStatus("", false)
		m.report(m.sess.Call(name, strings.TrimSpace(m.fnArgs.Value())))
		if !m.statusErr {
			m.setStatus("recorded "+name+"()", false)
		}
		return m, nil
	}

	var cmd tea.Cmd
	if m.fnName.Focused() {
		m.fnName, cmd = m.fnName.Update(msg)
	} else {
		m.fnArgs, cmd = m.fnArgs.Update(msg)
	}
	return m, cmd
}

// updateJumpDialog reads "x, y[, heading]" in inches and degrees. Text that
// does not parse keeps the dialog open with the error shown.
func (m Model) updateJumpDialog(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.mode = FieldView
		m.setStatus("jump cancelled", false)
		return m, nil

	case "enter":
		target, err := field.ParseTarget(m.jumpInput.Value())
		if err != nil {
			m.dialogErr = err.Error()
			return m, nil
		}
		m.mode = FieldView
		m.setStatus("", false)
		m.report(m.sess.Jump(target))
		if !m.statusErr {
			m.setStatus("moved to "+m.sess.Pose().String(), false)
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.jumpInput, cmd = m.jumpInput.Update(msg)
	return m, cmd
}
