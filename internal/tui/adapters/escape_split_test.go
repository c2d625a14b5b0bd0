package adapters

import (
	"context"
	"io"
	"strings"
	"testing"

	"github.com/VoxDroid/fnr/internal/rows"
)

// splitWriter writes an escape sequence split across two writes.
type splitWriter struct{}

func (splitWriter) Execute(_ context.Context, _ string, _ io.Reader, stdout io.Writer, _ io.Writer) error {
	_, _ = stdout.Write([]byte("Hello\x1b[?104"))
	_, _ = stdout.Write([]byte("9hWorld\n"))
	return nil
}

func TestExecutorAdapter_SplitsEscapeAcrossChunks(t *testing.T) {
	ad := NewExecutorAdapter(splitWriter{}, nil, nil)
	h, err := ad.Run(context.Background(), []rows.Row{{Filename: "x.py", DisplayName: "x.py", Checked: true}}, pathOf)
	if err != nil {
		t.Fatalf("Run error: %v", err)
	}
	lines, _ := collect(t, h)
	var out []string
	for _, l := range lines {
		if strings.HasPrefix(l, "-> ") {
			continue
		}
		out = append(out, l)
	}
	if joined := strings.Join(out, ""); joined != "HelloWorld" {
		t.Fatalf("unexpected combined output: %q", joined)
	}
}
