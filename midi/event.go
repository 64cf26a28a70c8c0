package midi

import (
	"time"

	gomidi "gitlab.com/gomidi/midi/v2"
)

// Event is a single decoded MIDI message stamped with its arrival time.
// The message is immutable once received; the capture buffer only
// references it until the next save drains it into a file.
type Event struct {
	Msg gomidi.Message
	At  time.Time
}

// NoteOn reports the note and velocity if the message is a note-on.
// Callers that care about "a key actually went down" must also check
// velocity > 0 (note-on with velocity 0 is a note-off in disguise).
func (e Event) NoteOn() (note, velocity uint8, ok bool) {
	var channel uint8
	ok = e.Msg.GetNoteOn(&channel, &note, &velocity)
	return note, velocity, ok
}

// IsRealtime reports whether the message is a transport-level realtime
// message (clock, active sensing, start/stop) that is never buffered.
func (e Event) IsRealtime() bool {
	return e.Msg.Is(gomidi.RealTimeMsg)
}
