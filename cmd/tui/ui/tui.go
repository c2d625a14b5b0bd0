// Package ui implements the fnr terminal UI: the ordered script list, the
// output of running scripts and the editing keys.
package ui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/VoxDroid/fnr/internal/rows"
	"github.com/VoxDroid/fnr/internal/runner"
	"github.com/VoxDroid/fnr/internal/tui/adapters"
)

const maxLogLines = 2000

type mode int

const (
	modeList mode = iota
	modeFilter
	modeRename
	modeConfirmSort
)

// TuiModel is the Bubble Tea model used by cmd/tui.
type TuiModel struct {
	ws      Workspace
	exec    adapters.ExecutorAdapter
	changes <-chan struct{}

	vp    viewport.Model
	input textinput.Model

	width      int
	height     int
	listHeight int
	listOffset int

	mode   mode
	filter string
	status string
	err    error

	showHelp          bool
	focusRight        bool
	themeHighContrast bool

	runInProgress bool
	cancelRun     func()
	runCh         <-chan adapters.RunEvent
	logs          []string
}

// Messages
type runEventMsg adapters.RunEvent
type runDoneMsg struct{}
type dirChangedMsg struct{}
type editorDoneMsg struct{ err error }

// Size returns the last known layout size.
func (m *TuiModel) Size() (width, height int) { return m.width, m.height }

// Err returns the error from the final save on quit, if any.
func (m *TuiModel) Err() error { return m.err }

// Update implements tea.Model.
func (m *TuiModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.layout()
		return m, nil
	case runEventMsg:
		m.handleRunEvent(adapters.RunEvent(msg))
		return m, readLoop(m.runCh)
	case runDoneMsg:
		m.runInProgress = false
		m.cancelRun = nil
		m.runCh = nil
		m.status = "run finished"
		return m, nil
	case dirChangedMsg:
		if err := m.ws.Reload(); err != nil {
			m.status = "reload: " + err.Error()
		} else {
			m.status = "directory changed, list reloaded"
		}
		m.ensureSelectionVisible()
		return m, waitForChange(m.changes)
	case editorDoneMsg:
		if msg.err != nil {
			m.status = "edit: " + msg.err.Error()
		} else {
			m.status = "editor closed"
		}
		return m, nil
	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

// layout splits the height between the list and the output viewport.
func (m *TuiModel) layout() {
	const chrome = 4 // title, separator, status, footer
	avail := m.height - chrome
	if avail < 2 {
		avail = 2
	}
	m.listHeight = avail / 2
	if m.listHeight < 1 {
		m.listHeight = 1
	}
	vpHeight := avail - m.listHeight
	if vpHeight < 1 {
		vpHeight = 1
	}
	width := m.width
	if width < 1 {
		width = 1
	}
	m.input.Width = width - 20
	m.ensureViewportSize(width, vpHeight)
	m.ensureSelectionVisible()
}

// visible returns the row positions shown under the current filter.
func (m *TuiModel) visible() []int {
	return m.ws.Store().Filter(m.filter)
}

// ensureSelectionVisible moves the selection onto a visible row and scrolls
// the list window so it is on screen.
func (m *TuiModel) ensureSelectionVisible() {
	vis := m.visible()
	st := m.ws.Store()
	if len(vis) == 0 {
		st.ClearSelection()
		m.listOffset = 0
		return
	}
	sel, ok := st.Selected()
	at := indexOf(vis, sel)
	if !ok || at < 0 {
		st.Select(vis[0])
		at = 0
	}
	if at < m.listOffset {
		m.listOffset = at
	}
	if m.listHeight > 0 && at >= m.listOffset+m.listHeight {
		m.listOffset = at - m.listHeight + 1
	}
	if m.listOffset > len(vis)-1 {
		m.listOffset = 0
	}
}

// step moves the selection by delta among visible rows.
func (m *TuiModel) step(delta int) {
	vis := m.visible()
	if len(vis) == 0 {
		return
	}
	sel, _ := m.ws.Store().Selected()
	at := indexOf(vis, sel) + delta
	if at < 0 {
		at = 0
	}
	if at >= len(vis) {
		at = len(vis) - 1
	}
	m.ws.Store().Select(vis[at])
	m.ensureSelectionVisible()
}

func (m *TuiModel) selectedRow() (rows.Row, int, bool) {
	st := m.ws.Store()
	i, ok := st.Selected()
	if !ok {
		return rows.Row{}, -1, false
	}
	r, ok := st.Row(i)
	return r, i, ok
}

// persist saves after a structural change and reports failures in the status line.
func (m *TuiModel) persist(status string) {
	if err := m.ws.Save(); err != nil {
		m.status = "save: " + err.Error()
		return
	}
	m.status = status
}

func (m *TuiModel) startRun(targets []rows.Row, label string) tea.Cmd {
	if m.runInProgress {
		m.status = "a run is already in progress"
		return nil
	}
	if len(targets) == 0 {
		m.status = "no checked scripts to run"
		return nil
	}
	if m.exec == nil {
		m.status = "running is not configured"
		return nil
	}
	h, err := m.exec.Run(context.Background(), targets, m.ws.PathOf)
	if err != nil {
		m.status = "run: " + err.Error()
		return nil
	}
	m.runInProgress = true
	m.runCh = h.Events()
	m.cancelRun = h.Cancel
	m.status = "running " + label
	return readLoop(m.runCh)
}

func (m *TuiModel) handleRunEvent(ev adapters.RunEvent) {
	if ev.Result != nil {
		m.appendLog(formatResult(*ev.Result))
		return
	}
	m.appendLog(ev.Line)
}

func (m *TuiModel) appendLog(line string) {
	m.logs = append(m.logs, line)
	if len(m.logs) > maxLogLines {
		m.logs = m.logs[len(m.logs)-maxLogLines:]
	}
	m.vp.SetContent(m.logContent())
	m.vp.GotoBottom()
}

func (m *TuiModel) logContent() string { return strings.Join(m.logs, "\n") }

func formatResult(res runner.Result) string {
	switch res.Status {
	case runner.StatusOK:
		return fmt.Sprintf("ok: %s (%s)", res.Filename, res.Duration.Round(time.Millisecond))
	case runner.StatusNoEntryPoint:
		return fmt.Sprintf("warning: %s has no main() entry point", res.Filename)
	default:
		return fmt.Sprintf("failed: %s: %v", res.Filename, res.Err)
	}
}

func indexOf(xs []int, v int) int {
	for i, x := range xs {
		if x == v {
			return i
		}
	}
	return -1
}
