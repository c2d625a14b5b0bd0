package ui

import (
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/VoxDroid/fnr/internal/tui/adapters"
)

// Options configures NewModel.
type Options struct {
	// Width and Height are the layout size used until the terminal reports
	// its own.
	Width  int
	Height int
	// Changes, when set, triggers a reload of the directory for every value.
	Changes <-chan struct{}
}

// NewModel constructs the Bubble Tea model used by cmd/tui.
func NewModel(ws Workspace, exec adapters.ExecutorAdapter, opts Options) *TuiModel {
	in := textinput.New()
	in.CharLimit = 255
	m := &TuiModel{
		ws:      ws,
		exec:    exec,
		changes: opts.Changes,
		vp:      viewport.New(0, 0),
		input:   in,
		width:   opts.Width,
		height:  opts.Height,
	}
	m.layout()
	return m
}

// NewProgram constructs the tea.Program for the TUI.
func NewProgram(m *TuiModel) *tea.Program {
	return tea.NewProgram(m, tea.WithAltScreen())
}

// Init selects the first row and starts listening for directory changes.
func (m *TuiModel) Init() tea.Cmd {
	st := m.ws.Store()
	if _, ok := st.Selected(); !ok && st.Len() > 0 {
		st.Select(0)
	}
	return waitForChange(m.changes)
}

// readLoop returns a command that reads one event from the channel and
// returns it as a tea.Msg. The caller should return the readLoop command
// again from Update to continue the stream.
func readLoop(ch <-chan adapters.RunEvent) tea.Cmd {
	return func() tea.Msg {
		ev, ok := <-ch
		if !ok {
			return runDoneMsg{}
		}
		return runEventMsg(ev)
	}
}

// waitForChange blocks until the watcher reports a change. A nil or closed
// channel ends the subscription.
func waitForChange(ch <-chan struct{}) tea.Cmd {
	if ch == nil {
		return nil
	}
	return func() tea.Msg {
		if _, ok := <-ch; !ok {
			return nil
		}
		return dirChangedMsg{}
	}
}
