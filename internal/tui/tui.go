package tui

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/key"
	progressbar "github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/chatpack/cpk/internal/convert"
	"github.com/chatpack/cpk/internal/detect"
	"github.com/chatpack/cpk/internal/engine"
	"github.com/chatpack/cpk/internal/history"
	"github.com/chatpack/cpk/internal/progress"
)

const barTickInterval = 100 * time.Millisecond

type phase int

const (
	phaseLoading phase = iota
	phaseLoadFailed
	phaseForm
	phaseConverting
	phaseDone
)

// form field order
const (
	fieldPath = iota
	fieldSource
	fieldFormat
	fieldTimestamps
	fieldReplays
	fieldCount
)

// message types

type loadDoneMsg struct {
	status engine.Status
}

type convertDoneMsg struct {
	attempt int
	res     *convert.Result
	err     error
}

type barTickMsg struct {
	attempt int
}

// model

type model struct {
	loader *engine.Loader
	hist   *history.DB // nil when history is unavailable

	phase   phase
	loadErr string
	version string

	spin     spinner.Model
	bar      progressbar.Model
	percent  float64
	showBar  bool
	estimate string

	pathInput  textinput.Model
	srcIdx     int // index into convert.Sources, -1 = not chosen
	fmtIdx     int // index into convert.Formats
	timestamps bool
	replays    bool
	focus      int

	attempt int // guards stale convert results
	res     *convert.Result
	outName string
	errMsg  string
	info    string
	preview viewport.Model

	width    int
	height   int
	ready    bool
	quitting bool
}

func initialModel(ldr *engine.Loader, hist *history.DB, defaultFormat, initialPath string) model {
	ti := textinput.New()
	ti.Placeholder = "Path to chat export..."
	ti.Focus()
	ti.Prompt = "> "
	ti.PromptStyle = styleInputPrompt
	ti.TextStyle = styleInput
	ti.CharLimit = 512
	ti.SetValue(initialPath)

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(colorPrimary)

	fmtIdx := 0
	for i, f := range convert.Formats {
		if f == defaultFormat {
			fmtIdx = i
		}
	}

	srcIdx := -1
	if initialPath != "" {
		if src, ok := detect.Source(initialPath); ok {
			srcIdx = sourceIndex(src)
		}
	}

	return model{
		loader:    ldr,
		hist:      hist,
		spin:      sp,
		bar:       progressbar.New(progressbar.WithDefaultGradient()),
		pathInput: ti,
		srcIdx:    srcIdx,
		fmtIdx:    fmtIdx,
		preview:   viewport.New(0, 0),
	}
}

// Run starts the TUI and blocks until it exits. The loader's initial
// load is kicked off here; the first screen is the loading spinner.
func Run(ldr *engine.Loader, hist *history.DB, defaultFormat, initialPath string) error {
	m := initialModel(ldr, hist, defaultFormat, initialPath)
	p := tea.NewProgram(m, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("tui: %w", err)
	}
	ldr.Close()
	return nil
}

// Init starts the engine load and the spinner.
func (m model) Init() tea.Cmd {
	return tea.Batch(
		m.spin.Tick,
		textinput.Blink,
		waitForLoad(m.loader.Start(context.Background())),
	)
}

func waitForLoad(ch <-chan engine.Status) tea.Cmd {
	return func() tea.Msg {
		return loadDoneMsg{status: <-ch}
	}
}

// Update handles messages.
func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true
		m.preview.Width = m.previewWidth()
		m.preview.Height = m.previewHeight()
		return m, nil

	case spinner.TickMsg:
		if m.phase != phaseLoading && m.phase != phaseConverting {
			return m, nil
		}
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		return m, cmd

	case loadDoneMsg:
		switch msg.status.State {
		case engine.StateReady:
			m.version = msg.status.Version
			m.loadErr = ""
			if m.phase == phaseLoading || m.phase == phaseLoadFailed {
				m.phase = phaseForm
			}
		case engine.StateFailed:
			m.loadErr = msg.status.Err
			m.phase = phaseLoadFailed
		}
		return m, nil

	case barTickMsg:
		if msg.attempt != m.attempt || m.phase != phaseConverting {
			return m, nil
		}
		// Approach but never reach 100%; the conversion itself reports
		// no progress, this is purely cosmetic.
		m.percent += (0.95 - m.percent) * 0.08
		return m, tickBar(m.attempt)

	case convertDoneMsg:
		if msg.attempt != m.attempt {
			return m, nil // stale attempt
		}
		if msg.err != nil {
			m.phase = phaseForm
			m.errMsg = msg.err.Error()
			return m, nil
		}
		m.percent = 1.0
		m.res = msg.res
		m.phase = phaseDone
		m.errMsg = ""
		m.info = ""
		m.preview.SetContent(previewText(msg.res.Output))
		m.preview.GotoTop()
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	return m, nil
}

func (m model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, keys.Quit) {
		m.quitting = true
		return m, tea.Quit
	}

	switch m.phase {

	case phaseLoadFailed:
		if key.Matches(msg, keys.Retry) {
			m.phase = phaseLoading
			return m, tea.Batch(
				m.spin.Tick,
				waitForLoad(m.loader.Retry(context.Background())),
			)
		}

	case phaseForm:
		return m.handleFormKey(msg)

	case phaseDone:
		switch {
		case key.Matches(msg, keys.Save):
			if err := os.WriteFile(m.outName, []byte(m.res.Output), 0o644); err != nil {
				m.errMsg = fmt.Sprintf("save failed: %v", err)
			} else {
				m.errMsg = ""
				m.info = "Saved to " + m.outName
			}
			return m, nil

		case key.Matches(msg, keys.Copy):
			if err := clipboard.WriteAll(m.res.Output); err != nil {
				m.errMsg = fmt.Sprintf("clipboard unavailable: %v", err)
			} else {
				m.errMsg = ""
				m.info = "Copied output to clipboard"
			}
			return m, nil

		case key.Matches(msg, keys.New):
			m.phase = phaseForm
			m.res = nil
			m.errMsg = ""
			m.info = ""
			return m, nil

		case key.Matches(msg, keys.PvUp):
			m.preview.LineUp(m.previewHeight() / 2)
			return m, nil

		case key.Matches(msg, keys.PvDn):
			m.preview.LineDown(m.previewHeight() / 2)
			return m, nil
		}
	}

	return m, nil
}

func (m model) handleFormKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.Enter):
		return m.startConvert()

	case key.Matches(msg, keys.Down):
		m.focus = (m.focus + 1) % fieldCount
		m = m.syncFocus()
		return m, nil

	case key.Matches(msg, keys.Up):
		m.focus = (m.focus + fieldCount - 1) % fieldCount
		m = m.syncFocus()
		return m, nil

	case key.Matches(msg, keys.Left) && m.focus == fieldSource:
		m.srcIdx = cycle(m.srcIdx, len(convert.Sources), -1)
		return m, nil

	case key.Matches(msg, keys.Right) && m.focus == fieldSource:
		m.srcIdx = cycle(m.srcIdx, len(convert.Sources), 1)
		return m, nil

	case key.Matches(msg, keys.Left) && m.focus == fieldFormat:
		m.fmtIdx = cycle(m.fmtIdx, len(convert.Formats), -1)
		return m, nil

	case key.Matches(msg, keys.Right) && m.focus == fieldFormat:
		m.fmtIdx = cycle(m.fmtIdx, len(convert.Formats), 1)
		return m, nil

	case key.Matches(msg, keys.Toggle) && m.focus == fieldTimestamps:
		m.timestamps = !m.timestamps
		return m, nil

	case key.Matches(msg, keys.Toggle) && m.focus == fieldReplays:
		m.replays = !m.replays
		return m, nil
	}

	// Remaining keys go to the path input when it has focus.
	if m.focus == fieldPath {
		var cmd tea.Cmd
		before := m.pathInput.Value()
		m.pathInput, cmd = m.pathInput.Update(msg)
		if v := m.pathInput.Value(); v != before {
			if src, ok := detect.Source(v); ok {
				m.srcIdx = sourceIndex(src)
				m.info = "Detected source: " + src
			}
		}
		return m, cmd
	}
	return m, nil
}

func (m model) startConvert() (tea.Model, tea.Cmd) {
	path := strings.TrimSpace(m.pathInput.Value())
	if path == "" {
		m.errMsg = "Choose a file first"
		return m, nil
	}
	if m.srcIdx < 0 {
		m.errMsg = "Select a source platform"
		return m, nil
	}

	info, err := os.Stat(path)
	if err != nil {
		m.errMsg = fmt.Sprintf("cannot read %s: %v", path, err)
		return m, nil
	}
	if err := convert.CheckSize(info.Size()); err != nil {
		m.errMsg = err.Error()
		return m, nil
	}

	source := convert.Sources[m.srcIdx]
	format := convert.Formats[m.fmtIdx]

	m.attempt++
	m.phase = phaseConverting
	m.errMsg = ""
	m.info = ""
	m.percent = 0
	m.showBar = progress.NeedsIndicator(info.Size())
	m.estimate = progress.Estimate(info.Size())
	m.outName = outputName(path, format)

	cmds := []tea.Cmd{
		m.spin.Tick,
		doConvert(m.attempt, m.loader, m.hist, path, source, format, m.timestamps, m.replays),
	}
	if m.showBar {
		cmds = append(cmds, tickBar(m.attempt))
	}
	return m, tea.Batch(cmds...)
}

func (m model) syncFocus() model {
	if m.focus == fieldPath {
		m.pathInput.Focus()
	} else {
		m.pathInput.Blur()
	}
	return m
}

// doConvert reads the file and runs the blocking conversion off the
// event loop. The attempt id lets Update drop results from a
// superseded attempt.
func doConvert(attempt int, ldr *engine.Loader, hist *history.DB, path, source, format string, timestamps, replays bool) tea.Cmd {
	return func() tea.Msg {
		data, err := os.ReadFile(path)
		if err != nil {
			return convertDoneMsg{attempt: attempt, err: fmt.Errorf("read %s: %w", path, err)}
		}

		res, err := convert.Invoke(ldr, convert.Request{
			Input:      string(data),
			Source:     source,
			Format:     format,
			Timestamps: timestamps,
			Replays:    replays,
		})
		if err != nil {
			return convertDoneMsg{attempt: attempt, err: err}
		}

		if hist != nil {
			// History is best-effort; a write failure never fails the
			// conversion.
			_ = hist.Append(history.Entry{
				InputName:   filepath.Base(path),
				Source:      source,
				Format:      format,
				Timestamps:  timestamps,
				Replays:     replays,
				InputBytes:  res.InputBytes,
				OutputBytes: res.OutputBytes,
				Messages:    res.Messages,
			})
		}
		return convertDoneMsg{attempt: attempt, res: res}
	}
}

func tickBar(attempt int) tea.Cmd {
	return tea.Tick(barTickInterval, func(time.Time) tea.Msg {
		return barTickMsg{attempt: attempt}
	})
}

// View renders the full TUI.
func (m model) View() string {
	if m.quitting || !m.ready {
		return ""
	}

	title := styleTitle.Render("cpk — chat export converter")
	if m.version != "" {
		title += styleStatusBar.Render("engine " + m.version)
	}

	var body string
	switch m.phase {
	case phaseLoading:
		body = fmt.Sprintf("\n %s Loading conversion engine...\n", m.spin.View())
	case phaseLoadFailed:
		body = "\n " + styleError.Render(m.loadErr) + "\n\n " +
			styleStatusBar.Render("r retry | esc quit") + "\n"
	case phaseForm:
		body = m.renderForm()
	case phaseConverting:
		body = m.renderConverting()
	case phaseDone:
		body = m.renderDone()
	}

	return lipgloss.JoinVertical(lipgloss.Left, title, body, m.statusBar())
}

func (m model) renderForm() string {
	var b strings.Builder
	b.WriteString("\n")

	b.WriteString(m.fieldLabel(fieldPath, "File"))
	b.WriteString(m.pathInput.View())
	b.WriteString("\n")

	b.WriteString(m.fieldLabel(fieldSource, "Source"))
	b.WriteString(renderChoices(convert.Sources, m.srcIdx, m.focus == fieldSource))
	b.WriteString("\n")

	b.WriteString(m.fieldLabel(fieldFormat, "Format"))
	b.WriteString(renderChoices(convert.Formats, m.fmtIdx, m.focus == fieldFormat))
	b.WriteString("\n")

	b.WriteString(m.fieldLabel(fieldTimestamps, "Timestamps"))
	b.WriteString(renderToggle(m.timestamps))
	b.WriteString("\n")

	b.WriteString(m.fieldLabel(fieldReplays, "Replies"))
	b.WriteString(renderToggle(m.replays))
	b.WriteString("\n")

	if m.errMsg != "" {
		b.WriteString("\n " + styleError.Render(m.errMsg) + "\n")
	} else if m.info != "" {
		b.WriteString("\n " + styleInfo.Render(m.info) + "\n")
	}
	return b.String()
}

func (m model) renderConverting() string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("\n %s Converting...\n", m.spin.View()))
	if m.showBar {
		b.WriteString("\n " + m.bar.ViewAs(m.percent) + "\n")
		b.WriteString(" " + styleStatusBar.Render("estimated: "+m.estimate) + "\n")
	}
	return b.String()
}

func (m model) renderDone() string {
	var b strings.Builder
	r := m.res
	b.WriteString("\n " + styleInfo.Render("Conversion complete") + "\n\n")
	b.WriteString(fmt.Sprintf(" Messages: %d\n", r.Messages))
	b.WriteString(fmt.Sprintf(" Size:     %s -> %s\n",
		convert.FmtBytes(int64(r.InputBytes)), convert.FmtBytes(int64(r.OutputBytes))))
	b.WriteString(fmt.Sprintf(" Output:   %s\n\n", m.outName))

	panel := stylePanelBorder.
		Width(m.previewWidth()).
		Height(m.previewHeight()).
		Render(m.preview.View())
	b.WriteString(panel + "\n")

	if m.errMsg != "" {
		b.WriteString("\n " + styleError.Render(m.errMsg) + "\n")
	} else if m.info != "" {
		b.WriteString("\n " + styleInfo.Render(m.info) + "\n")
	}
	return b.String()
}

func (m model) fieldLabel(field int, label string) string {
	style := styleFieldLabel
	if m.focus == field {
		style = styleFieldFocused.Width(12)
	}
	return " " + style.Render(label) + " "
}

func renderChoices(choices []string, selected int, focused bool) string {
	parts := make([]string, len(choices))
	for i, c := range choices {
		switch {
		case i == selected:
			parts[i] = styleChoiceOn.Render("[" + c + "]")
		default:
			parts[i] = styleFieldValue.Render(" " + c + " ")
		}
	}
	s := strings.Join(parts, " ")
	if focused {
		s += styleStatusBar.Render("  <- ->")
	}
	return s
}

func renderToggle(on bool) string {
	if on {
		return styleChoiceOn.Render("[x]")
	}
	return styleFieldValue.Render("[ ]")
}

func (m model) statusBar() string {
	var parts []string
	switch m.phase {
	case phaseForm:
		parts = []string{"tab next field", "arrows choose", "space toggle", "enter convert", "esc quit"}
	case phaseDone:
		parts = []string{"s save", "c copy", "n new conversion", "C-u/C-d scroll", "esc quit"}
	default:
		parts = []string{"esc quit"}
	}
	return styleStatusBar.Render(strings.Join(parts, " | "))
}

// helpers

func (m model) previewWidth() int {
	if m.width <= 0 {
		return 60
	}
	w := m.width - 4
	if w < 20 {
		w = 20
	}
	return w
}

func (m model) previewHeight() int {
	if m.height <= 0 {
		return 10
	}
	// title (1) + stats block (6) + status bar (1) + borders (2)
	h := m.height - 12
	if h < 4 {
		h = 4
	}
	return h
}

func cycle(idx, n, delta int) int {
	if idx < 0 {
		if delta > 0 {
			return 0
		}
		return n - 1
	}
	return (idx + n + delta) % n
}

func sourceIndex(src string) int {
	for i, s := range convert.Sources {
		if s == src {
			return i
		}
	}
	return -1
}

// outputName derives the result filename from the input path and the
// chosen format.
func outputName(path, format string) string {
	base := strings.TrimSuffix(path, filepath.Ext(path))
	return base + "." + format
}

const maxPreviewLines = 200

// previewText truncates the output for the result viewport; the full
// text is only ever written on save.
func previewText(out string) string {
	lines := strings.Split(out, "\n")
	if len(lines) <= maxPreviewLines {
		return out
	}
	return strings.Join(lines[:maxPreviewLines], "\n") +
		fmt.Sprintf("\n... (%d more lines)", len(lines)-maxPreviewLines)
}
