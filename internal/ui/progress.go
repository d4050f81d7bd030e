package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"tails/internal/pass"
)

type progressModel struct {
	title   string
	events  <-chan pass.Event
	spinner spinner.Model
	prog    progress.Model
	items   []passItem
	index   map[pass.ID]int
	width   int
	done    bool
}

type passItem struct {
	name   string
	status pass.Status
	note   string
}

type eventMsg pass.Event
type doneMsg struct{}

// NewProgressModel returns a Bubble Tea model that renders the progress of
// passes in order. The model quits once events is closed.
func NewProgressModel(title string, order []pass.ID, events <-chan pass.Event) tea.Model {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("6"))

	prog := progress.New(progress.WithDefaultGradient())
	prog.Width = 76 // Default width

	items := make([]passItem, 0, len(order))
	index := make(map[pass.ID]int, len(order))
	for i, id := range order {
		items = append(items, passItem{name: id.String()})
		index[id] = i
	}
	return &progressModel{
		title:   title,
		events:  events,
		spinner: sp,
		prog:    prog,
		items:   items,
		index:   index,
		width:   80,
	}
}

func (m *progressModel) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.listenForEvent())
}

func (m *progressModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case eventMsg:
		cmd := m.applyEvent(pass.Event(msg))
		return m, tea.Batch(cmd, m.listenForEvent())
	case doneMsg:
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
			m.prog.Width = msg.Width - 4
		}
		return m, nil
	case progress.FrameMsg:
		progressModel, cmd := m.prog.Update(msg)
		m.prog = progressModel.(progress.Model)
		return m, cmd
	}
	return m, nil
}

func (m *progressModel) View() string {
	if len(m.items) == 0 {
		return ""
	}
	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("7"))
	header := m.title
	if m.done {
		header = fmt.Sprintf("done: %s", header)
	} else {
		header = fmt.Sprintf("%s %s", m.spinner.View(), header)
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render(header))
	b.WriteString("\n\n")

	statusWidth := 10
	nameWidth := max(m.width-statusWidth-4, 20)
	for _, item := range m.items {
		label := item.status.String()
		line := fmt.Sprintf("  %s %s", styleStatus(item.status).Render(fmt.Sprintf("%*s", statusWidth, label)), truncate(item.name+item.note, nameWidth))
		b.WriteString(line)
		b.WriteString("\n")
	}

	b.WriteString("\n")
	if m.done {
		b.WriteString(m.prog.ViewAs(1.0))
	} else {
		b.WriteString(m.prog.View())
	}
	b.WriteString("\n")
	return b.String()
}

func (m *progressModel) listenForEvent() tea.Cmd {
	return func() tea.Msg {
		ev, ok := <-m.events
		if !ok {
			return doneMsg{}
		}
		return eventMsg(ev)
	}
}

func (m *progressModel) applyEvent(ev pass.Event) tea.Cmd {
	idx, ok := m.index[ev.Pass]
	if !ok {
		return nil
	}
	m.items[idx].status = ev.Status
	if n := ev.Result.Diagnostics; n > 0 {
		m.items[idx].note = fmt.Sprintf(" (%d diagnostics)", n)
	}
	return m.prog.SetPercent(m.fraction())
}

// fraction counts finished and skipped passes fully and running ones by half.
func (m *progressModel) fraction() float64 {
	total := 0.0
	for _, item := range m.items {
		switch item.status {
		case pass.StatusDone, pass.StatusFailed, pass.StatusSkipped:
			total += 1.0
		case pass.StatusRunning:
			total += 0.5
		}
	}
	return total / float64(len(m.items))
}

func styleStatus(status pass.Status) lipgloss.Style {
	switch status {
	case pass.StatusDone:
		return lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	case pass.StatusFailed:
		return lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
	case pass.StatusRunning:
		return lipgloss.NewStyle().Foreground(lipgloss.Color("6"))
	default:
		return lipgloss.NewStyle().Foreground(lipgloss.Color("7"))
	}
}

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
	return runewidth.Truncate(value, width, "...")
}
