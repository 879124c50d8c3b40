package classify

import (
	"strings"
	"testing"
)

func TestMessage(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		raw  string
		want string
	}{
		{
			name: "unknown source with surrounding text",
			raw:  "Unknown source: foo. Expected: telegram, whatsapp, instagram, discord",
			want: "Unknown source. Supported: Telegram, WhatsApp, Instagram, Discord",
		},
		{
			name: "unknown format",
			raw:  "Unknown format: xml. Expected: csv, json, jsonl",
			want: "Unknown format. Supported: CSV, JSON, JSONL",
		},
		{
			name: "invalid json case-insensitive",
			raw:  "error: INVALID JSON at line 3",
			want: "Invalid JSON. Check file integrity",
		},
		{
			name: "parse failure",
			raw:  "failed to parse whatsapp export",
			want: "Could not parse the file. Check that the source matches the export",
		},
		{
			name: "empty input",
			raw:  "empty input after trimming",
			want: "The file is empty",
		},
		{
			name: "engine missing",
			raw:  `exec: "chatpack-engine": executable file not found in $PATH`,
			want: "Conversion engine not found. Install chatpack-engine and retry",
		},
		{
			name: "network failure",
			raw:  "dial tcp 10.0.0.1:443: connection refused",
			want: "Network error. Check your connection and retry",
		},
		{
			name: "short unknown string passes through",
			raw:  "telegram export is from an unsupported app version",
			want: "telegram export is from an unsupported app version",
		},
		{
			name: "long unknown string collapses to fallback",
			raw:  strings.Repeat("x", 120),
			want: "An error occurred during conversion",
		},
		{
			name: "short string with crash marker collapses to fallback",
			raw:  "panic: index out of range",
			want: "An error occurred during conversion",
		},
		{
			name: "runtime error marker",
			raw:  "runtime error: invalid memory address",
			want: "An error occurred during conversion",
		},
		{
			name: "unreachable trap",
			raw:  "wasm trap: unreachable executed",
			want: "An error occurred during conversion",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := Message(tt.raw); got != tt.want {
				t.Errorf("Message(%q) = %q, want %q", tt.raw, got, tt.want)
			}
		})
	}
}

// A raw string matching several keys must resolve to the first
// declared rule, not an arbitrary one.
func TestMessageFirstMatchWins(t *testing.T) {
	t.Parallel()

	raw := "unknown source detected while reading invalid json"
	want := "Unknown source. Supported: Telegram, WhatsApp, Instagram, Discord"
	if got := Message(raw); got != want {
		t.Errorf("Message(%q) = %q, want first-declared rule %q", raw, got, want)
	}
}

func TestMessageDeterministic(t *testing.T) {
	t.Parallel()

	raw := "failed to parse discord export"
	first := Message(raw)
	for i := 0; i < 10; i++ {
		if got := Message(raw); got != first {
			t.Fatalf("Message not deterministic: %q vs %q", got, first)
		}
	}
}
