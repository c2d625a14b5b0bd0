package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

type styles struct {
	title    lipgloss.Style
	selected lipgloss.Style
	dim      lipgloss.Style
	status   lipgloss.Style
	footer   lipgloss.Style
}

func (m *TuiModel) styles() styles {
	if m.themeHighContrast {
		return styles{
			title:    lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("15")),
			selected: lipgloss.NewStyle().Bold(true).Reverse(true),
			dim:      lipgloss.NewStyle().Foreground(lipgloss.Color("15")),
			status:   lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("11")),
			footer:   lipgloss.NewStyle().Foreground(lipgloss.Color("15")),
		}
	}
	return styles{
		title:    lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("205")),
		selected: lipgloss.NewStyle().Foreground(lipgloss.Color("0")).Background(lipgloss.Color("205")),
		dim:      lipgloss.NewStyle().Foreground(lipgloss.Color("241")),
		status:   lipgloss.NewStyle().Foreground(lipgloss.Color("214")),
		footer:   lipgloss.NewStyle().Foreground(lipgloss.Color("241")),
	}
}

const helpText = `Keys

  up/down, j/k     move the cursor
  K/J              move the script up / down
  T/B, home/end    move the script to the top / bottom
  space, x         check / uncheck
  a                check all, or uncheck all when all are checked
  c                move checked scripts to the top
  s                sort alphabetically (asks first, alternates A-Z / Z-A)
  r, f2            rename
  n                add a new script
  e                open in $EDITOR
  enter            run the selected script
  R, ctrl+r        run the checked scripts
  /                filter
  tab              focus the output pane (scroll with arrows)
  ctrl+l           clear output
  ctrl+t           toggle high contrast
  ctrl+c           cancel a run, or quit
  q, esc           save and quit

press any key to return`

// View implements tea.Model.
func (m *TuiModel) View() string {
	st := m.styles()
	if m.showHelp {
		return helpText + "\n"
	}

	var b strings.Builder
	title := "fnr  " + m.ws.Key()
	if m.filter != "" {
		title += "  filter: " + m.filter
	}
	b.WriteString(st.title.Render(truncate(title, m.width)) + "\n")

	vis := m.visible()
	sel, hasSel := m.ws.Store().Selected()
	start := m.listOffset
	if start > len(vis) {
		start = 0
	}
	end := start + m.listHeight
	if end > len(vis) {
		end = len(vis)
	}
	written := 0
	if len(vis) == 0 {
		msg := "no scripts - press n to add one"
		if m.filter != "" {
			msg = "no scripts match the filter"
		}
		b.WriteString(st.dim.Render(msg) + "\n")
		written++
	}
	for _, i := range vis[start:end] {
		r, _ := m.ws.Store().Row(i)
		line := truncate(r.Label(i), m.width)
		if hasSel && i == sel {
			line = st.selected.Render(line)
		}
		b.WriteString(line + "\n")
		written++
	}
	for ; written < m.listHeight; written++ {
		b.WriteString("\n")
	}

	sep := "output"
	if m.focusRight {
		sep = "output (focused)"
	}
	b.WriteString(st.dim.Render(sep+" "+strings.Repeat("─", max(0, m.width-len(sep)-1))) + "\n")
	b.WriteString(m.vp.View() + "\n")

	switch m.mode {
	case modeFilter, modeRename:
		b.WriteString(m.input.View() + "\n")
	default:
		b.WriteString(st.status.Render(truncate(m.status, m.width)) + "\n")
	}
	footer := "enter run  R run checked  space check  K/J move  s sort  r rename  n new  ? help  q quit"
	if m.runInProgress {
		footer = "running...  ctrl+c cancel"
	}
	b.WriteString(st.footer.Render(truncate(footer, m.width)))
	return b.String()
}

func truncate(s string, width int) string {
	if width <= 0 {
		return s
	}
	r := []rune(s)
	if len(r) <= width {
		return s
	}
	if width == 1 {
		return "…"
	}
	return string(r[:width-1]) + "…"
}
