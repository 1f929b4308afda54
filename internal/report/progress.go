// Package report renders analysis results: a live progress bar while a
// batch runs (internal/driver feeds it events over a channel) and the final
// per-file diagnostic listing, in text or JSON. Grounded on the teacher's
// internal/ui/progress.go (a Bubble Tea model driven by an event channel,
// bubbles' spinner+progress components, lipgloss styling) — reimplemented
// fresh here rather than restored verbatim since the original also imported
// Surge's own buildpipeline.Event/Stage types (see DESIGN.md).
package report

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
)

// Event is one file finishing analysis, fed to the progress model over a
// channel by internal/driver.
type Event struct {
	Path       string
	Diagnostics int
	Err        error
}

type doneMsg struct{}
type eventMsg Event

// ProgressModel is a Bubble Tea model showing a spinner, a completion bar,
// and the most recently finished file.
type ProgressModel struct {
	title    string
	events   <-chan Event
	spinner  spinner.Model
	bar      progress.Model
	total    int
	done     int
	errs     int
	lastPath string
	width    int
	finished bool
}

// NewProgressModel returns a model that consumes total files' worth of
// Events from events.
func NewProgressModel(title string, total int, events <-chan Event) *ProgressModel {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("6"))

	bar := progress.New(progress.WithDefaultGradient())
	bar.Width = 48

	return &ProgressModel{title: title, events: events, spinner: sp, bar: bar, total: total, width: 80}
}

func (m *ProgressModel) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.listen())
}

func (m *ProgressModel) listen() tea.Cmd {
	return func() tea.Msg {
		ev, ok := <-m.events
		if !ok {
			return doneMsg{}
		}
		return eventMsg(ev)
	}
}

func (m *ProgressModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case eventMsg:
		m.done++
		m.lastPath = msg.Path
		if msg.Err != nil {
			m.errs++
		}
		if m.done >= m.total {
			return m, tea.Sequence(m.listen(), tea.Quit)
		}
		return m, m.listen()
	case doneMsg:
		m.finished = true
		return m, tea.Quit
	case spinner.TickMsg:
		if m.finished {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	case tea.WindowSizeMsg:
		if msg.Width > 0 {
			m.width = msg.Width
			m.bar.Width = msg.Width - 4
		}
		return m, nil
	case progress.FrameMsg:
		bar, cmd := m.bar.Update(msg)
		m.bar = bar.(progress.Model)
		return m, cmd
	}
	return m, nil
}

func (m *ProgressModel) View() string {
	var b strings.Builder
	pct := 0.0
	if m.total > 0 {
		pct = float64(m.done) / float64(m.total)
	}
	fmt.Fprintf(&b, "%s %s\n", m.spinner.View(), m.title)
	fmt.Fprintf(&b, "%s %d/%d files (%d errors)\n", m.bar.ViewAs(pct), m.done, m.total, m.errs)
	if m.lastPath != "" {
		fmt.Fprintf(&b, "  last: %s\n", truncate(m.lastPath, m.width-8))
	}
	return b.String()
}

// truncate shortens value to fit within width terminal columns (not bytes),
// grounded on the teacher's own internal/ui/progress.go helper of the same
// name.
func truncate(value string, width int) string {
	if width <= 0 {
		return value
	}
	if runewidth.StringWidth(value) <= width {
		return value
	}
	if width <= 3 {
		return runewidth.Truncate(value, width, "")
	}
	return runewidth.Truncate(value, width-3, "...")
}
