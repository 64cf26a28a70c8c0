package midi

import (
	"fmt"
	"time"

	gomidi "gitlab.com/gomidi/midi/v2"
)

// connBuffer is how many events can pile up between polls before the
// transport starts dropping. At a 10ms poll interval even dense chords
// stay far below this.
const connBuffer = 256

// Conn is an open MIDI input connection. The driver callback stamps
// incoming messages and pushes them onto a buffered channel; Pending
// drains that channel without ever blocking.
type Conn struct {
	name   string
	stop   func()
	events chan Event
}

// Open opens the named input port and starts listening.
func Open(name string) (*Conn, error) {
	in, err := gomidi.FindInPort(name)
	if err != nil {
		return nil, fmt.Errorf("find input port %q: %w", name, err)
	}

	c := &Conn{
		name:   name,
		events: make(chan Event, connBuffer),
	}

	stop, err := gomidi.ListenTo(in, func(msg gomidi.Message, timestampms int32) {
		ev := Event{Msg: msg, At: time.Now()}
		if ev.IsRealtime() {
			return
		}
		select {
		case c.events <- ev:
		default:
			// Poll loop stalled; dropping is better than blocking the driver.
		}
	})
	if err != nil {
		return nil, fmt.Errorf("open input port %q: %w", name, err)
	}
	c.stop = stop

	return c, nil
}

// Name returns the port name this connection was opened against.
func (c *Conn) Name() string {
	return c.name
}

// Pending returns all events received since the last call. Never blocks:
// if nothing is pending it returns nil immediately.
func (c *Conn) Pending() []Event {
	var evs []Event
	for {
		select {
		case ev := <-c.events:
			evs = append(evs, ev)
		default:
			return evs
		}
	}
}

// Close stops the listener. Safe to call more than once.
func (c *Conn) Close() {
	if c.stop != nil {
		c.stop()
		c.stop = nil
	}
}
