package tui

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/Pi-3-14/i-forgot-to-record-my-piano/debug"
)

// Model is the terminal front end. It normally renders a one-line
// status and stays out of the way; when the trigger gesture fires it
// becomes a modal viewer over the cumulative log, dismissed with q/esc.
// Capture runs on its own goroutine, so the viewer being open never
// stalls recording.
type Model struct {
	store    *debug.Store
	triggers <-chan struct{}

	showing  bool
	offset   int // first visible log line while showing
	follow   bool
	width    int
	height   int
	quitting bool
}

// LogOpenMsg arrives when the capture loop signals the trigger gesture.
type LogOpenMsg struct{}

type tickMsg struct{}

// NewModel creates the front-end model.
func NewModel(store *debug.Store, triggers <-chan struct{}) Model {
	return Model{
		store:    store,
		triggers: triggers,
		follow:   true,
		width:    80,
		height:   24,
	}
}

// ListenForTrigger re-arms after every delivery, the same way device
// events are pumped into bubbletea.
func ListenForTrigger(triggers <-chan struct{}) tea.Cmd {
	return func() tea.Msg {
		<-triggers
		return LogOpenMsg{}
	}
}

func tick() tea.Cmd {
	return tea.Tick(500*time.Millisecond, func(time.Time) tea.Msg {
		return tickMsg{}
	})
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(
		ListenForTrigger(m.triggers),
		tick(),
	)
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height

	case tea.KeyMsg:
		return m.handleKey(msg)

	case LogOpenMsg:
		m.showing = true
		m.follow = true
		return m, ListenForTrigger(m.triggers)

	case tickMsg:
		// Periodic repaint so new log lines show up while the viewer
		// is open.
		return m, tick()
	}

	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if !m.showing {
		switch msg.String() {
		case "q", "ctrl+c":
			m.quitting = true
			return m, tea.Quit
		case "l":
			m.showing = true
			m.follow = true
		}
		return m, nil
	}

	switch msg.String() {
	case "ctrl+c":
		m.quitting = true
		return m, tea.Quit
	case "q", "esc":
		m.showing = false
	case "up", "k":
		m.unfollow()
		m.offset--
	case "down", "j":
		m.offset++
	case "pgup":
		m.unfollow()
		m.offset -= m.viewHeight()
	case "pgdown":
		m.offset += m.viewHeight()
	case "g":
		m.follow = false
		m.offset = 0
	case "G":
		m.follow = true
	}
	return m, nil
}

// unfollow detaches from the tail, anchoring the offset at the current
// bottom so the first scroll-up moves from where the user was looking.
func (m *Model) unfollow() {
	if !m.follow {
		return
	}
	m.follow = false
	m.offset = m.store.Len() - m.viewHeight()
}

func (m Model) viewHeight() int {
	h := m.height - 3 // header, blank line, help
	if h < 1 {
		h = 1
	}
	return h
}

func (m Model) View() string {
	if m.quitting {
		return ""
	}

	headerStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("205"))
	dimStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	lineStyle := lipgloss.NewStyle().MaxWidth(m.width)

	if !m.showing {
		return dimStyle.Render(
			"i-forgot-to-record-my-piano  recording in background  (triple-press the trigger note or hit l for the log, q to quit)")
	}

	lines := m.store.Lines()
	viewH := m.viewHeight()

	maxOffset := len(lines) - viewH
	if maxOffset < 0 {
		maxOffset = 0
	}
	offset := m.offset
	if m.follow || offset > maxOffset {
		offset = maxOffset
	}
	if offset < 0 {
		offset = 0
	}

	end := offset + viewH
	if end > len(lines) {
		end = len(lines)
	}

	var out strings.Builder
	out.WriteString(headerStyle.Render(fmt.Sprintf("MIDI Recorder Log  (%d lines)", len(lines))))
	out.WriteString("\n\n")
	for _, line := range lines[offset:end] {
		out.WriteString(lineStyle.Render(line))
		out.WriteString("\n")
	}
	for i := end - offset; i < viewH; i++ {
		out.WriteString("\n")
	}
	out.WriteString(dimStyle.Render("j/k:scroll  g/G:top/bottom  q:close"))

	return out.String()
}
