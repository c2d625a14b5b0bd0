package rows

import "testing"

func TestLabel(t *testing.T) {
	cases := []struct {
		row  Row
		pos  int
		want string
	}{
		{NewRow("a.py"), 0, "No.001 [ ] a.py"},
		{Row{Filename: "b.py", DisplayName: "b.py", Checked: true}, 11, "No.012 [x] b.py"},
		{Row{Filename: "c.py", DisplayName: "build docs"}, 999, "No.1000 [ ] build docs (c.py)"},
	}
	for _, c := range cases {
		if got := c.row.Label(c.pos); got != c.want {
			t.Fatalf("Label(%d) = %q, want %q", c.pos, got, c.want)
		}
	}
}
