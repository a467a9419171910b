package ui

import (
	"strings"
	"testing"
)

func block(name string, lines int) string {
	rows := make([]string, lines)
	for i := range rows {
		rows[i] = name
	}
	return strings.Join(rows, "\n")
}

func TestContentHeight(t *testing.T) {
	if got := NewLayout(80, 24).ContentHeight(); got != 22 {
		t.Errorf("ContentHeight() = %d, want 22", got)
	}
	if got := NewLayout(80, 1).ContentHeight(); got != 0 {
		t.Errorf("ContentHeight() = %d, want 0 for tiny terminals", got)
	}
}

func TestFitKeepsAnchorVisible(t *testing.T) {
	l := NewLayout(80, 8) // 6 content rows
	blocks := []string{block("a", 3), block("b", 3), block("c", 3), block("d", 3)}

	tests := []struct {
		anchor    int
		wantFirst string
		wantLast  string
	}{
		{anchor: 0, wantFirst: "a", wantLast: "d"},
		{anchor: 1, wantFirst: "a", wantLast: "d"},
		{anchor: 2, wantFirst: "b", wantLast: "d"},
		{anchor: 3, wantFirst: "c", wantLast: "d"},
		{anchor: 99, wantFirst: "c", wantLast: "d"},
	}

	for _, tt := range tests {
		out := l.Fit(blocks, tt.anchor)
		lines := strings.Split(out, "\n")
		if lines[0] != tt.wantFirst {
			t.Errorf("anchor %d: first line %q, want %q", tt.anchor, lines[0], tt.wantFirst)
		}
		if lines[len(lines)-1] != tt.wantLast {
			t.Errorf("anchor %d: last line %q, want %q", tt.anchor, lines[len(lines)-1], tt.wantLast)
		}
	}
}

func TestFitOversizedAnchor(t *testing.T) {
	l := NewLayout(80, 4) // 2 content rows
	out := l.Fit([]string{block("a", 1), block("b", 5)}, 1)
	if strings.HasPrefix(out, "a") {
		t.Errorf("anchor taller than the screen should start at itself:\n%s", out)
	}
}

func TestFitEmpty(t *testing.T) {
	if got := NewLayout(80, 24).Fit(nil, 0); got != "" {
		t.Errorf("Fit(nil) = %q, want empty", got)
	}
}
