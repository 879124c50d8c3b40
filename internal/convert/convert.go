// Package convert validates conversion requests and delegates them to
// the loaded engine module.
package convert

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/chatpack/cpk/internal/classify"
	"github.com/chatpack/cpk/internal/engine"
)

// Sources and Formats enumerate what the engine boundary accepts.
var (
	Sources = []string{"telegram", "whatsapp", "instagram", "discord"}
	Formats = []string{"csv", "json", "jsonl"}
)

// MaxFileSize is the largest input accepted before a read is even
// attempted (50 MiB).
const MaxFileSize = 50 << 20

var (
	ErrNotLoaded  = errors.New("converter not loaded, reload and retry")
	ErrEmptyInput = errors.New("file is empty or contains only whitespace")
)

// Error is a conversion failure with its classified, user-facing message.
type Error struct {
	Message string
}

func (e *Error) Error() string { return e.Message }

// SizeError reports a file rejected for exceeding MaxFileSize.
type SizeError struct {
	Size  int64
	Limit int64
}

func (e *SizeError) Error() string {
	return fmt.Sprintf("file too large: %s (limit %s)", FmtBytes(e.Size), FmtBytes(e.Limit))
}

// CheckSize rejects oversized candidates before any read happens.
func CheckSize(size int64) error {
	if size > MaxFileSize {
		return &SizeError{Size: size, Limit: MaxFileSize}
	}
	return nil
}

// Request is one immutable conversion invocation.
type Request struct {
	Input      string
	Source     string
	Format     string
	Timestamps bool
	Replays    bool
}

// Result is the output of a successful conversion.
type Result struct {
	Output      string
	InputBytes  int
	OutputBytes int
	Messages    int
}

// Invoke validates req and delegates to the module held by ldr. The
// engine's output is returned verbatim; engine failures come back as
// *Error carrying a classified message. Invoke never mutates loader
// state and never retries.
func Invoke(ldr *engine.Loader, req Request) (*Result, error) {
	mod, ok := ldr.Module()
	if !ok {
		return nil, ErrNotLoaded
	}
	if strings.TrimSpace(req.Input) == "" {
		return nil, ErrEmptyInput
	}

	out, err := mod.Convert(req.Input, req.Source, req.Format, req.Timestamps, req.Replays)
	if err != nil {
		return nil, &Error{Message: classify.Message(err.Error())}
	}

	return &Result{
		Output:      out,
		InputBytes:  len(req.Input),
		OutputBytes: len(out),
		Messages:    countMessages(out, req.Format),
	}, nil
}

// CanonicalSource resolves a source name or its two-letter alias.
func CanonicalSource(s string) (string, bool) {
	switch strings.ToLower(s) {
	case "telegram", "tg":
		return "telegram", true
	case "whatsapp", "wa":
		return "whatsapp", true
	case "instagram", "ig":
		return "instagram", true
	case "discord", "dc":
		return "discord", true
	}
	return "", false
}

// CanonicalFormat resolves an output format name.
func CanonicalFormat(s string) (string, bool) {
	switch strings.ToLower(s) {
	case "csv":
		return "csv", true
	case "json":
		return "json", true
	case "jsonl":
		return "jsonl", true
	}
	return "", false
}

// countMessages derives a message count from the output text. The
// engine does not report one, so it is reconstructed per format: csv
// has a header row, jsonl is one message per line, json is a top-level
// array.
func countMessages(out, format string) int {
	switch format {
	case "csv":
		n := nonEmptyLines(out)
		if n > 0 {
			n--
		}
		return n
	case "jsonl":
		return nonEmptyLines(out)
	case "json":
		var arr []json.RawMessage
		if err := json.Unmarshal([]byte(out), &arr); err == nil {
			return len(arr)
		}
	}
	return 0
}

func nonEmptyLines(s string) int {
	n := 0
	for _, line := range strings.Split(s, "\n") {
		if strings.TrimSpace(line) != "" {
			n++
		}
	}
	return n
}

// FmtBytes renders a byte count for humans, matching the limit scale
// used in error messages.
func FmtBytes(n int64) string {
	switch {
	case n >= 1<<20:
		return fmt.Sprintf("%.1f MiB", float64(n)/(1<<20))
	case n >= 1<<10:
		return fmt.Sprintf("%.1f KiB", float64(n)/(1<<10))
	}
	return fmt.Sprintf("%d B", n)
}
