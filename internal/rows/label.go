package rows

import "fmt"

// Label renders a row for listings: its 1-based rank, check box and name,
// followed by the filename when the display name differs.
func (r Row) Label(pos int) string {
	box := "[ ]"
	if r.Checked {
		box = "[x]"
	}
	line := fmt.Sprintf("No.%03d %s %s", pos+1, box, r.DisplayName)
	if r.DisplayName != r.Filename {
		line += " (" + r.Filename + ")"
	}
	return line
}
