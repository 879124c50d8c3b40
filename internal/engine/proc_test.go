package engine

import (
	"context"
	"strings"
	"testing"
)

func TestProcInitMissingExplicitPath(t *testing.T) {
	t.Parallel()

	m := NewProc("/nonexistent/chatpack-engine")
	err := m.Init(context.Background())
	if err == nil {
		t.Fatal("Init succeeded for a nonexistent binary")
	}
	if !strings.Contains(err.Error(), "engine not found") {
		t.Errorf("err = %q, want engine-not-found", err)
	}
}

func TestFirstLine(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   string
		want string
	}{
		{"", ""},
		{"one line", "one line"},
		{"first\nsecond\nthird", "first"},
		{"  padded  \nrest", "padded"},
		{"\n\nleading blanks\n", "leading blanks"},
	}
	for _, tt := range tests {
		if got := firstLine(tt.in); got != tt.want {
			t.Errorf("firstLine(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
