package engine

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"
)

// DefaultBinary is the engine binary searched on PATH when no
// explicit path is configured.
const DefaultBinary = "chatpack-engine"

// ProcModule drives the engine binary over stdin/stdout. Each Convert
// is one subprocess run; the engine keeps no state between calls.
type ProcModule struct {
	path    string // explicit binary path; empty means search PATH
	bin     string // resolved by Init
	version string
}

// NewProc returns an uninitialized subprocess-backed module. path may
// be empty, in which case Init looks up DefaultBinary on PATH.
func NewProc(path string) *ProcModule {
	return &ProcModule{path: path}
}

func (m *ProcModule) Init(ctx context.Context) error {
	bin := m.path
	if bin == "" {
		p, err := exec.LookPath(DefaultBinary)
		if err != nil {
			return fmt.Errorf("engine not found: %w", err)
		}
		bin = p
	} else if _, err := os.Stat(bin); err != nil {
		return fmt.Errorf("engine not found: %w", err)
	}

	out, err := exec.CommandContext(ctx, bin, "version").Output()
	if err != nil {
		return fmt.Errorf("engine init failed: %s", execErrDetail(err))
	}

	m.bin = bin
	m.version = strings.TrimSpace(string(out))
	return nil
}

func (m *ProcModule) Convert(input, source, format string, timestamps, replays bool) (string, error) {
	args := []string{"convert", "--source", source, "--format", format}
	if timestamps {
		args = append(args, "--timestamps")
	}
	if replays {
		args = append(args, "--replays")
	}

	cmd := exec.Command(m.bin, args...)
	cmd.Stdin = strings.NewReader(input)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		// The engine reports its failure reason on stderr, one line.
		if msg := firstLine(stderr.String()); msg != "" {
			return "", errors.New(msg)
		}
		return "", err
	}
	return stdout.String(), nil
}

func (m *ProcModule) Version() string {
	return m.version
}

func execErrDetail(err error) string {
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		if msg := firstLine(string(exitErr.Stderr)); msg != "" {
			return msg
		}
	}
	return err.Error()
}

func firstLine(s string) string {
	s = strings.TrimSpace(s)
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		s = s[:i]
	}
	return strings.TrimSpace(s)
}
