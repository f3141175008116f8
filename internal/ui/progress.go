// Package ui renders a live progress view of a diagnose batch.
package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"calc/internal/driver"
)

// fileState is what the view knows about one file of the batch.
type fileState uint8

const (
	stateQueued fileState = iota
	stateLoading
	stateCache
	stateCompiling
	stateDone
	stateCached
	stateError
)

var stateLabels = [...]string{
	stateQueued:    "queued",
	stateLoading:   "loading",
	stateCache:     "cache",
	stateCompiling: "compiling",
	stateDone:      "done",
	stateCached:    "cached",
	stateError:     "error",
}

// доля файла в общем прогрессе, пока он не завершён
var stateWeights = [...]float64{
	stateLoading:   0.1,
	stateCache:     0.3,
	stateCompiling: 0.5,
}

var (
	titleStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("7"))
	activeStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("6"))
	okStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	errStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
	idleStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("7"))
)

func (s fileState) String() string { return stateLabels[s] }

func (s fileState) final() bool { return s >= stateDone }

func (s fileState) style() lipgloss.Style {
	switch {
	case s == stateError:
		return errStyle
	case s.final():
		return okStyle
	case s == stateQueued:
		return idleStyle
	default:
		return activeStyle
	}
}

// stateFor maps a driver event onto a file state; ok is false for events
// that do not change the row.
func stateFor(stage driver.Stage, status driver.Status) (fileState, bool) {
	switch status {
	case driver.StatusQueued:
		return stateQueued, true
	case driver.StatusError:
		return stateError, true
	case driver.StatusDone:
		if stage == driver.StageCache {
			return stateCached, true
		}
		return stateDone, true
	case driver.StatusWorking:
		switch stage {
		case driver.StageLoad:
			return stateLoading, true
		case driver.StageCache:
			return stateCache, true
		case driver.StageCompile:
			return stateCompiling, true
		}
	}
	return 0, false
}

type fileRow struct {
	path  string
	state fileState
}

type progressModel struct {
	title   string
	events  <-chan driver.Event
	spinner spinner.Model
	bar     progress.Model
	rows    []fileRow
	byPath  map[string]int
	width   int
	done    bool
}

type eventMsg driver.Event
type closedMsg struct{}

// NewProgressModel returns a Bubble Tea model fed by events. It quits once
// events is closed.
func NewProgressModel(title string, files []string, events <-chan driver.Event) tea.Model {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = activeStyle

	bar := progress.New(progress.WithDefaultGradient())
	bar.Width = 76

	m := &progressModel{
		title:   title,
		events:  events,
		spinner: sp,
		bar:     bar,
		rows:    make([]fileRow, len(files)),
		byPath:  make(map[string]int, len(files)),
		width:   80,
	}
	for i, file := range files {
		m.rows[i] = fileRow{path: file}
		m.byPath[file] = i
	}
	return m
}

func (m *progressModel) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.next())
}

func (m *progressModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case eventMsg:
		return m, tea.Batch(m.applyEvent(driver.Event(msg)), m.next())
	case closedMsg:
		m.done = true
		return m, tea.Quit
	case spinner.TickMsg:
		if m.done {
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
	case progress.FrameMsg:
		updated, cmd := m.bar.Update(msg)
		m.bar = updated.(progress.Model)
		return m, cmd
	}
	return m, nil
}

func (m *progressModel) View() string {
	if len(m.rows) == 0 {
		return ""
	}
	var b strings.Builder
	if m.done {
		b.WriteString(titleStyle.Render("done: " + m.title))
	} else {
		b.WriteString(titleStyle.Render(m.spinner.View() + " " + m.title))
	}
	b.WriteString("\n\n")

	const labelWidth = 10
	pathWidth := max(m.width-labelWidth-4, 20)
	for _, row := range m.rows {
		label := row.state.style().Render(fmt.Sprintf("%*s", labelWidth, row.state))
		fmt.Fprintf(&b, "  %s %s\n", label, truncate(row.path, pathWidth))
	}

	b.WriteString("\n")
	if m.done {
		b.WriteString(m.bar.ViewAs(1))
	} else {
		b.WriteString(m.bar.View())
	}
	b.WriteString("\n")
	b.WriteString(idleStyle.Render(m.summary()))
	b.WriteString("\n")
	return b.String()
}

// summary: "2/3 finished, 1 cached, 0 failed"
func (m *progressModel) summary() string {
	var finished, cached, failed int
	for _, row := range m.rows {
		if row.state.final() {
			finished++
		}
		switch row.state {
		case stateCached:
			cached++
		case stateError:
			failed++
		}
	}
	return fmt.Sprintf("%d/%d finished, %d cached, %d failed", finished, len(m.rows), cached, failed)
}

func (m *progressModel) next() tea.Cmd {
	return func() tea.Msg {
		ev, ok := <-m.events
		if !ok {
			return closedMsg{}
		}
		return eventMsg(ev)
	}
}

func (m *progressModel) applyEvent(ev driver.Event) tea.Cmd {
	idx, ok := m.byPath[ev.File]
	if ev.File == "" || !ok {
		return nil
	}
	state, ok := stateFor(ev.Stage, ev.Status)
	if !ok {
		return nil
	}
	m.rows[idx].state = state
	return m.bar.SetPercent(m.percent())
}

func (m *progressModel) percent() float64 {
	if len(m.rows) == 0 {
		return 0
	}
	var total float64
	for _, row := range m.rows {
		if row.state.final() {
			total++
			continue
		}
		if int(row.state) < len(stateWeights) {
			total += stateWeights[row.state]
		}
	}
	return total / float64(len(m.rows))
}

// truncate cuts value to width display cells; the "..." tail counts toward
// the width.
func truncate(value string, width int) string {
	switch {
	case width <= 0 || runewidth.StringWidth(value) <= width:
		return value
	case width <= 3:
		return runewidth.Truncate(value, width, "")
	}
	return runewidth.Truncate(value, width, "...")
}
