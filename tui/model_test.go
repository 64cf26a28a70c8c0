package tui

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/Pi-3-14/i-forgot-to-record-my-piano/debug"
)

func keyMsg(s string) tea.KeyMsg {
	switch s {
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "ctrl+c":
		return tea.KeyMsg{Type: tea.KeyCtrlC}
	default:
		return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
	}
}

func TestViewerOpensOnTriggerAndCloses(t *testing.T) {
	store := debug.NewStore()
	store.Write([]byte("hello from the recorder\n"))

	triggers := make(chan struct{}, 1)
	m := NewModel(store, triggers)

	if strings.Contains(m.View(), "MIDI Recorder Log") {
		t.Fatal("viewer visible before trigger")
	}

	next, _ := m.Update(LogOpenMsg{})
	m = next.(Model)
	view := m.View()
	if !strings.Contains(view, "MIDI Recorder Log") {
		t.Fatal("viewer not visible after trigger")
	}
	if !strings.Contains(view, "hello from the recorder") {
		t.Error("log line missing from viewer")
	}

	next, _ = m.Update(keyMsg("esc"))
	m = next.(Model)
	if strings.Contains(m.View(), "MIDI Recorder Log") {
		t.Error("viewer still visible after dismissal")
	}
}

func TestQuitKeys(t *testing.T) {
	m := NewModel(debug.NewStore(), make(chan struct{}, 1))

	_, cmd := m.Update(keyMsg("q"))
	if cmd == nil {
		t.Fatal("q did not quit from the status view")
	}

	next, _ := m.Update(LogOpenMsg{})
	m = next.(Model)
	_, cmd = m.Update(keyMsg("q"))
	if cmd != nil {
		t.Error("q quit the program while the viewer was open; it should only close the viewer")
	}
	_, cmd = m.Update(keyMsg("ctrl+c"))
	if cmd == nil {
		t.Error("ctrl+c did not quit while the viewer was open")
	}
}
