package capture

import (
	"testing"
	"time"

	gomidi "gitlab.com/gomidi/midi/v2"

	"github.com/Pi-3-14/i-forgot-to-record-my-piano/midi"
)

func noteOn(note, vel uint8, at time.Time) midi.Event {
	return midi.Event{Msg: gomidi.NoteOn(0, note, vel), At: at}
}

func noteOff(note uint8, at time.Time) midi.Event {
	return midi.Event{Msg: gomidi.NoteOff(0, note), At: at}
}

func TestSessionCountsSoundingNoteOns(t *testing.T) {
	s := NewSession()
	base := time.Now()

	s.Append(noteOn(60, 100, base))
	s.Append(noteOff(60, base.Add(100*time.Millisecond)))
	s.Append(noteOn(64, 90, base.Add(200*time.Millisecond)))
	s.Append(noteOn(64, 0, base.Add(300*time.Millisecond))) // velocity 0 = key up
	s.Append(midi.Event{Msg: gomidi.ControlChange(0, 64, 127), At: base.Add(400 * time.Millisecond)})

	if got := s.NoteOnCount(); got != 2 {
		t.Errorf("NoteOnCount = %d, want 2", got)
	}
	if got := len(s.Events()); got != 5 {
		t.Errorf("len(Events) = %d, want 5", got)
	}
	if got := s.LastInput(); !got.Equal(base.Add(400 * time.Millisecond)) {
		t.Errorf("LastInput = %v, want last event time", got)
	}
}

func TestSessionClear(t *testing.T) {
	s := NewSession()
	s.Append(noteOn(60, 100, time.Now()))
	s.Clear()

	if !s.Empty() {
		t.Error("session not empty after Clear")
	}
	if s.NoteOnCount() != 0 {
		t.Errorf("NoteOnCount = %d after Clear, want 0", s.NoteOnCount())
	}
}
