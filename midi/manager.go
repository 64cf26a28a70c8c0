package midi

import (
	"context"
	"time"

	gomidi "gitlab.com/gomidi/midi/v2"
	_ "gitlab.com/gomidi/midi/v2/drivers/rtmididrv" // Register MIDI driver
	"go.uber.org/zap"
)

// State is the connection manager's position in its lifecycle.
type State int

const (
	Disconnected State = iota
	Discovering
	Connected
)

func (s State) String() string {
	switch s {
	case Disconnected:
		return "disconnected"
	case Discovering:
		return "discovering"
	case Connected:
		return "connected"
	}
	return "unknown"
}

// Manager owns the lifecycle of the single MIDI input connection:
// discovery, open, liveness, teardown. USB controllers come and go at
// arbitrary times, so everything here is best-effort polling and the
// manager never treats an empty port list as fatal.
type Manager struct {
	preferred string // exact port name to wait for; "" = first available
	interval  time.Duration
	log       *zap.Logger

	// listPorts is swapped out in tests.
	listPorts func() []string

	state State
	port  string // name of the connected port, valid in Connected
}

// NewManager creates a manager. preferred may be empty, in which case
// the first enumerated input port is used.
func NewManager(preferred string, interval time.Duration, log *zap.Logger) *Manager {
	return &Manager{
		preferred: preferred,
		interval:  interval,
		log:       log,
		listPorts: listInputPorts,
		state:     Disconnected,
	}
}

func listInputPorts() []string {
	ins := gomidi.GetInPorts()
	names := make([]string, 0, len(ins))
	for _, in := range ins {
		names = append(names, in.String())
	}
	return names
}

// State returns the manager's current lifecycle state.
func (m *Manager) State() State {
	return m.state
}

// FindCandidate returns the port to connect to, if one is currently
// enumerable. With a preferred name configured it matches only that
// name, never falling back to a different device.
func (m *Manager) FindCandidate() (string, bool) {
	ports := m.listPorts()
	if m.preferred != "" {
		for _, name := range ports {
			if name == m.preferred {
				return name, true
			}
		}
		return "", false
	}
	if len(ports) == 0 {
		return "", false
	}
	return ports[0], true
}

// WaitUntilAvailable blocks, polling the port list at the configured
// interval, until a candidate port exists or ctx is cancelled.
func (m *Manager) WaitUntilAvailable(ctx context.Context) (string, error) {
	if name, ok := m.FindCandidate(); ok {
		return name, nil
	}

	m.state = Discovering
	m.log.Info("waiting for MIDI device to connect")

	ticker := time.NewTicker(m.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case <-ticker.C:
			if name, ok := m.FindCandidate(); ok {
				m.log.Info("MIDI device found", zap.String("port", name))
				return name, nil
			}
		}
	}
}

// Open opens the named port. On success the manager is Connected; on
// failure it stays Disconnected and the caller decides when to retry.
func (m *Manager) Open(name string) (*Conn, error) {
	m.log.Info("connecting to MIDI input", zap.String("port", name))
	conn, err := Open(name)
	if err != nil {
		m.state = Disconnected
		m.log.Error("failed to open MIDI port", zap.String("port", name), zap.Error(err))
		return nil, err
	}
	m.state = Connected
	m.port = name
	return conn, nil
}

// StillAvailable reports whether the connected port is still present in
// the current enumeration. False when nothing is connected.
func (m *Manager) StillAvailable() bool {
	if m.state != Connected {
		return false
	}
	for _, name := range m.listPorts() {
		if name == m.port {
			return true
		}
	}
	return false
}

// Drop records that the connection is gone. The caller closes the Conn
// itself; the manager only tracks state.
func (m *Manager) Drop() {
	m.state = Disconnected
	m.port = ""
}
