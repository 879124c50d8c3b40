// Package classify maps raw engine failures to fixed human-readable
// messages so the user never sees a stack trace or crash dump.
package classify

import "strings"

type rule struct {
	key     string
	message string
}

// rules are tested in declaration order; the first matching key wins.
var rules = []rule{
	{"unknown source", "Unknown source. Supported: Telegram, WhatsApp, Instagram, Discord"},
	{"unknown format", "Unknown format. Supported: CSV, JSON, JSONL"},
	{"invalid json", "Invalid JSON. Check file integrity"},
	{"failed to parse", "Could not parse the file. Check that the source matches the export"},
	{"parse error", "Could not parse the file. Check that the source matches the export"},
	{"empty input", "The file is empty"},
	{"no messages", "No messages found in the file"},
	{"executable file not found", "Conversion engine not found. Install chatpack-engine and retry"},
	{"engine not found", "Conversion engine not found. Install chatpack-engine and retry"},
	{"engine init failed", "Conversion engine failed to start. Reload and retry"},
	{"connection refused", "Network error. Check your connection and retry"},
	{"network", "Network error. Check your connection and retry"},
}

// crashMarkers flag runtime noise that must never reach the user verbatim.
var crashMarkers = []string{
	"panic",
	"runtime error",
	"goroutine",
	"unreachable",
	"signal:",
}

const (
	maxReadableLen = 100
	fallback       = "An error occurred during conversion"
)

// Message classifies a raw failure string. Raw strings with no known
// key are returned unchanged when they are short and free of crash
// markers; everything else collapses to a generic message.
func Message(raw string) string {
	lower := strings.ToLower(raw)
	for _, r := range rules {
		if strings.Contains(lower, r.key) {
			return r.message
		}
	}
	if len(raw) < maxReadableLen && !containsAny(lower, crashMarkers) {
		return raw
	}
	return fallback
}

func containsAny(s string, keys []string) bool {
	for _, k := range keys {
		if strings.Contains(s, k) {
			return true
		}
	}
	return false
}
