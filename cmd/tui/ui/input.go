package ui

import (
	"os/exec"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/VoxDroid/fnr/internal/rows"
	"github.com/VoxDroid/fnr/internal/utils"
)

func (m *TuiModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		if m.runInProgress && m.cancelRun != nil {
			m.cancelRun()
			m.status = "cancelling run..."
			return m, nil
		}
		return m.quit()
	}
	switch m.mode {
	case modeFilter:
		return m.handleFilterKey(msg)
	case modeRename:
		return m.handleRenameKey(msg)
	case modeConfirmSort:
		return m.handleConfirmSortKey(msg)
	}
	return m.handleListKey(msg)
}

func (m *TuiModel) handleListKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	st := m.ws.Store()
	s := msg.String()

	if m.showHelp {
		m.showHelp = false
		return m, nil
	}
	if m.focusRight {
		switch s {
		case "tab", "left", "h":
			m.focusRight = false
			return m, nil
		case "q":
			return m.quit()
		}
		var cmd tea.Cmd
		m.vp, cmd = m.vp.Update(msg)
		return m, cmd
	}

	switch s {
	case "q":
		return m.quit()
	case "esc":
		if m.filter != "" {
			m.filter = ""
			m.ensureSelectionVisible()
			return m, nil
		}
		return m.quit()
	case "?":
		m.showHelp = true
	case "ctrl+t":
		m.themeHighContrast = !m.themeHighContrast
	case "tab", "right", "l":
		m.focusRight = true
	case "up", "k":
		m.step(-1)
	case "down", "j":
		m.step(1)
	case "K", "shift+up":
		if st.MoveUp() {
			m.persist("moved up")
		}
	case "J", "shift+down":
		if st.MoveDown() {
			m.persist("moved down")
		}
	case "T", "home":
		if st.MoveToTop() {
			m.persist("moved to top")
		}
	case "B", "end":
		if st.MoveToBottom() {
			m.persist("moved to bottom")
		}
	case " ", "x":
		if r, i, ok := m.selectedRow(); ok {
			st.SetChecked(i, !r.Checked)
			m.persist("")
		}
	case "a":
		if err := m.ws.ToggleAll(); err != nil {
			m.status = "save: " + err.Error()
		}
	case "c":
		if err := m.ws.MoveCheckedToTop(); err != nil {
			m.status = "save: " + err.Error()
		} else {
			m.status = "checked scripts moved to top"
		}
	case "s":
		m.mode = modeConfirmSort
		m.status = "Sort functions alphabetically? (y/n)"
	case "/":
		m.mode = modeFilter
		m.input.Prompt = "/"
		m.input.SetValue(m.filter)
		m.input.CursorEnd()
		return m, m.input.Focus()
	case "r", "f2":
		if r, _, ok := m.selectedRow(); ok {
			m.mode = modeRename
			m.input.Prompt = "rename: "
			m.input.SetValue(r.DisplayName)
			m.input.CursorEnd()
			return m, m.input.Focus()
		}
	case "n":
		name, err := m.ws.Add()
		if err != nil {
			m.status = "add: " + err.Error()
		} else {
			m.filter = ""
			m.status = "added " + name
		}
		m.ensureSelectionVisible()
	case "e":
		return m, m.editSelected()
	case "enter":
		if r, _, ok := m.selectedRow(); ok {
			r.Checked = true
			return m, m.startRun([]rows.Row{r}, r.DisplayName)
		}
	case "R", "ctrl+r":
		return m, m.startRun(st.Checked(), "checked scripts")
	case "ctrl+l":
		m.logs = nil
		m.vp.SetContent("")
	}
	return m, nil
}

func (m *TuiModel) handleFilterKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.filter = ""
		m.leaveInput()
		m.ensureSelectionVisible()
		return m, nil
	case "enter":
		m.leaveInput()
		return m, nil
	case "up", "down":
		if msg.String() == "up" {
			m.step(-1)
		} else {
			m.step(1)
		}
		return m, nil
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	m.filter = m.input.Value()
	m.listOffset = 0
	m.ensureSelectionVisible()
	return m, cmd
}

func (m *TuiModel) handleRenameKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.leaveInput()
		m.status = "rename cancelled"
		return m, nil
	case "enter":
		_, i, ok := m.selectedRow()
		name := m.input.Value()
		m.leaveInput()
		if !ok {
			return m, nil
		}
		fn, err := m.ws.RenameAt(i, name)
		if err != nil {
			m.status = "rename: " + err.Error()
			return m, nil
		}
		m.status = "renamed to " + fn
		m.ensureSelectionVisible()
		return m, nil
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *TuiModel) handleConfirmSortKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	m.mode = modeList
	switch msg.String() {
	case "y", "Y", "enter":
		sorted, asc, err := m.ws.SortAlphabetical(func() bool { return true })
		switch {
		case err != nil:
			m.status = "sort: " + err.Error()
		case sorted && asc:
			m.status = "sorted A to Z"
		case sorted:
			m.status = "sorted Z to A"
		}
		m.ensureSelectionVisible()
	default:
		m.status = "sort cancelled"
	}
	return m, nil
}

func (m *TuiModel) leaveInput() {
	m.mode = modeList
	m.input.Blur()
	m.input.SetValue("")
}

func (m *TuiModel) editSelected() tea.Cmd {
	r, _, ok := m.selectedRow()
	if !ok {
		return nil
	}
	parts, err := utils.EditorCommand()
	if err != nil {
		m.status = "edit: " + err.Error()
		return nil
	}
	c := exec.Command(parts[0], append(parts[1:], m.ws.PathOf(r.Filename))...)
	return tea.ExecProcess(c, func(err error) tea.Msg { return editorDoneMsg{err: err} })
}

func (m *TuiModel) quit() (tea.Model, tea.Cmd) {
	if m.runInProgress {
		m.status = "a run is in progress (ctrl+c to cancel)"
		return m, nil
	}
	if err := m.ws.Save(); err != nil {
		m.err = err
	}
	return m, tea.Quit
}
