package capture

import (
	"time"

	"github.com/Pi-3-14/i-forgot-to-record-my-piano/midi"
)

// Session is one take in progress: every event received since the last
// save, in arrival order, plus the counters the save decision needs.
// Exactly one Session exists; it is touched only from the capture loop.
type Session struct {
	events      []midi.Event
	noteOnCount int
	lastInput   time.Time
}

// NewSession returns an empty session.
func NewSession() *Session {
	return &Session{}
}

// Append adds an event to the buffer. Arrival order is append order.
// Note-ons with nonzero velocity bump the significance counter.
func (s *Session) Append(ev midi.Event) {
	s.events = append(s.events, ev)
	s.lastInput = ev.At
	if _, vel, ok := ev.NoteOn(); ok && vel > 0 {
		s.noteOnCount++
	}
}

// Clear empties the buffer and resets the note counter. Called after
// every save-or-discard decision.
func (s *Session) Clear() {
	s.events = nil
	s.noteOnCount = 0
}

// Events returns the buffered events in arrival order.
func (s *Session) Events() []midi.Event {
	return s.events
}

// Empty reports whether anything has been buffered since the last save.
func (s *Session) Empty() bool {
	return len(s.events) == 0
}

// NoteOnCount returns the number of sounding note-ons buffered so far.
func (s *Session) NoteOnCount() int {
	return s.noteOnCount
}

// LastInput returns the arrival time of the most recent event.
func (s *Session) LastInput() time.Time {
	return s.lastInput
}
