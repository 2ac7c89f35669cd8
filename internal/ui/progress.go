// Package ui renders the live progress of `tagml check` with Bubble Tea.
package ui

import (
	"fmt"
	"slices"
	"strings"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"tagml/internal/driver"
)

// maxRows bounds the file list; big corpora show failures and files in
// flight first.
const maxRows = 12

var (
	titleStyle   = lipgloss.NewStyle().Bold(true)
	mutedStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	statusStyles = map[driver.ProgressStatus]lipgloss.Style{
		driver.StatusQueued:  lipgloss.NewStyle().Foreground(lipgloss.Color("7")),
		driver.StatusWorking: lipgloss.NewStyle().Foreground(lipgloss.Color("6")),
		driver.StatusOK:      lipgloss.NewStyle().Foreground(lipgloss.Color("2")),
		driver.StatusFailed:  lipgloss.NewStyle().Foreground(lipgloss.Color("1")),
		driver.StatusCached:  lipgloss.NewStyle().Foreground(lipgloss.Color("4")),
	}
)

type fileRow struct {
	path   string
	status driver.ProgressStatus
	seq    int // номер последнего изменения, для сортировки
}

type progressModel struct {
	title   string
	events  <-chan driver.ProgressEvent
	spinner spinner.Model
	bar     progress.Model
	rows    []fileRow
	byPath  map[string]int
	counts  map[driver.ProgressStatus]int
	seq     int
	width   int
	done    bool
}

type eventMsg driver.ProgressEvent
type doneMsg struct{}

// NewProgressModel returns a model that follows the files of one directory
// check. It quits when events is closed.
func NewProgressModel(title string, files []string, events <-chan driver.ProgressEvent) tea.Model {
	sp := spinner.New(spinner.WithSpinner(spinner.Dot), spinner.WithStyle(statusStyles[driver.StatusWorking]))
	bar := progress.New(progress.WithDefaultGradient(), progress.WithWidth(76))

	m := &progressModel{
		title:   title,
		events:  events,
		spinner: sp,
		bar:     bar,
		rows:    make([]fileRow, len(files)),
		byPath:  make(map[string]int, len(files)),
		counts:  map[driver.ProgressStatus]int{driver.StatusQueued: len(files)},
		width:   80,
	}
	for i, f := range files {
		m.rows[i] = fileRow{path: f}
		m.byPath[f] = i
	}
	return m
}

func (m *progressModel) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.next())
}

func (m *progressModel) next() tea.Cmd {
	return func() tea.Msg {
		if ev, ok := <-m.events; ok {
			return eventMsg(ev)
		}
		return doneMsg{}
	}
}

func (m *progressModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case eventMsg:
		return m, tea.Batch(m.apply(driver.ProgressEvent(msg)), m.next())
	case doneMsg:
		m.done = true
		return m, tea.Quit
	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			return m, tea.Quit
		}
	case tea.WindowSizeMsg:
		if msg.Width > 0 {
			m.width = msg.Width
			m.bar.Width = max(msg.Width-4, 10)
		}
	case spinner.TickMsg:
		if !m.done {
			var cmd tea.Cmd
			m.spinner, cmd = m.spinner.Update(msg)
			return m, cmd
		}
	case progress.FrameMsg:
		bar, cmd := m.bar.Update(msg)
		m.bar = bar.(progress.Model)
		return m, cmd
	}
	return m, nil
}

func (m *progressModel) apply(ev driver.ProgressEvent) tea.Cmd {
	i, ok := m.byPath[ev.File]
	if !ok {
		return nil
	}
	row := &m.rows[i]
	m.counts[row.status]--
	m.counts[ev.Status]++
	m.seq++
	row.status, row.seq = ev.Status, m.seq

	// файл в работе считается наполовину
	done := float64(m.finished()) + float64(m.counts[driver.StatusWorking])/2
	return m.bar.SetPercent(done / float64(len(m.rows)))
}

func (m *progressModel) finished() int {
	return m.counts[driver.StatusOK] + m.counts[driver.StatusFailed] + m.counts[driver.StatusCached]
}

// visible picks the rows to draw: failures, then files in flight, then the
// most recently changed ones.
func (m *progressModel) visible() ([]fileRow, int) {
	rank := func(s driver.ProgressStatus) int {
		switch s {
		case driver.StatusFailed:
			return 0
		case driver.StatusWorking:
			return 1
		case driver.StatusQueued:
			return 3
		}
		return 2
	}
	rows := slices.Clone(m.rows)
	slices.SortStableFunc(rows, func(a, b fileRow) int {
		if ra, rb := rank(a.status), rank(b.status); ra != rb {
			return ra - rb
		}
		return b.seq - a.seq
	})
	if len(rows) <= maxRows {
		return rows, 0
	}
	return rows[:maxRows], len(rows) - maxRows
}

func (m *progressModel) View() string {
	if len(m.rows) == 0 {
		return ""
	}
	header := fmt.Sprintf("%s (%d/%d", m.title, m.finished(), len(m.rows))
	if n := m.counts[driver.StatusFailed]; n > 0 {
		header += fmt.Sprintf(", %d failed", n)
	}
	header += ")"
	if m.done {
		header = "done: " + header
	} else {
		header = m.spinner.View() + " " + header
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render(header))
	b.WriteString("\n\n")

	rows, hidden := m.visible()
	nameWidth := max(m.width-16, 20)
	for _, r := range rows {
		status := statusStyles[r.status].Render(fmt.Sprintf("%12s", r.status))
		fmt.Fprintf(&b, "  %s %s\n", status, truncate(r.path, nameWidth))
	}
	if hidden > 0 {
		b.WriteString(mutedStyle.Render(fmt.Sprintf("  ... %d more", hidden)))
		b.WriteByte('\n')
	}

	b.WriteByte('\n')
	if m.done {
		b.WriteString(m.bar.ViewAs(1))
	} else {
		b.WriteString(m.bar.View())
	}
	b.WriteByte('\n')
	if n := m.counts[driver.StatusCached]; n > 0 {
		b.WriteString(mutedStyle.Render(fmt.Sprintf("%d from cache", n)))
		b.WriteByte('\n')
	}
	return b.String()
}

// truncate shortens value to width display cells, with "..." when cut.
func truncate(value string, width int) string {
	switch {
	case width <= 0 || runewidth.StringWidth(value) <= width:
		return value
	case width <= 3:
		return runewidth.Truncate(value, width, "")
	}
	return runewidth.Truncate(value, width, "...")
}
