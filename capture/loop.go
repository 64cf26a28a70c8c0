package capture

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/Pi-3-14/i-forgot-to-record-my-piano/midi"
)

// Source is an open connection the loop can drain without blocking.
// *midi.Conn satisfies it.
type Source interface {
	Name() string
	Pending() []midi.Event
	Close()
}

// Ports is the slice of the connection manager the loop drives.
type Ports interface {
	WaitUntilAvailable(ctx context.Context) (string, error)
	Open(name string) (Source, error)
	StillAvailable() bool
	Drop()
}

// Loop is the always-running capture loop: acquire a connection, poll
// it at a fixed interval, drain events into the session, decide when a
// take is done, and reconnect whenever the device goes away.
type Loop struct {
	ports   Ports
	session *Session
	writer  *Writer
	log     *zap.Logger

	// showLog receives a signal when the trigger gesture fires; the
	// viewer goroutine listens on it, so a send never blocks the loop.
	showLog chan<- struct{}

	idleTimeout time.Duration
	tick        time.Duration
	backoff     time.Duration
	triggerNote uint8

	// triggerRun counts consecutive trigger-note presses. Reset by any
	// other note, by a fired trigger, and on every reconnect.
	triggerRun int

	now func() time.Time
}

// NewLoop wires a capture loop together.
func NewLoop(ports Ports, session *Session, writer *Writer, showLog chan<- struct{},
	idleTimeout, tick, backoff time.Duration, triggerNote uint8, log *zap.Logger) *Loop {
	return &Loop{
		ports:       ports,
		session:     session,
		writer:      writer,
		showLog:     showLog,
		idleTimeout: idleTimeout,
		tick:        tick,
		backoff:     backoff,
		triggerNote: triggerNote,
		log:         log,
		now:         time.Now,
	}
}

// Run blocks until ctx is cancelled. Every connection failure folds
// back into discovery; nothing terminates the loop except ctx. One
// final non-forced save runs on the way out, whatever the exit path.
func (l *Loop) Run(ctx context.Context) error {
	defer func() {
		if !l.session.Empty() {
			l.writer.Save(l.session, false)
		}
	}()

	for {
		src, err := l.connect(ctx)
		if err != nil {
			return err
		}
		if err := l.poll(ctx, src); err != nil {
			return err
		}
	}
}

// connect blocks until a connection is open, cycling through discovery
// and open attempts with a fixed backoff after each failure. The only
// error it returns is ctx cancellation.
func (l *Loop) connect(ctx context.Context) (Source, error) {
	for {
		name, err := l.ports.WaitUntilAvailable(ctx)
		if err != nil {
			return nil, err
		}

		src, err := l.ports.Open(name)
		if err == nil {
			l.log.Info("connected, listening for MIDI input", zap.String("port", src.Name()))
			return src, nil
		}

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(l.backoff):
		}
	}
}

// poll services one open connection until it is lost or ctx ends.
// A nil return means the connection dropped and discovery should
// start over.
func (l *Loop) poll(ctx context.Context, src Source) error {
	defer func() {
		src.Close()
		l.ports.Drop()
	}()

	l.triggerRun = 0

	ticker := time.NewTicker(l.tick)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if !l.ports.StillAvailable() {
				l.log.Warn("MIDI device disconnected, attempting to reconnect",
					zap.String("port", src.Name()))
				return nil
			}
			l.Tick(src)
		}
	}
}

// Tick runs one iteration of the inner loop: drain everything pending,
// then check the idle timeout.
func (l *Loop) Tick(src Source) {
	for _, ev := range src.Pending() {
		l.ingest(ev)
	}

	if !l.session.Empty() && l.now().Sub(l.session.LastInput()) > l.idleTimeout {
		l.log.Info("no input timeout reached, saving buffer")
		l.writer.Save(l.session, false)
	}
}

func (l *Loop) ingest(ev midi.Event) {
	if ev.IsRealtime() {
		return
	}

	l.session.Append(ev)
	l.log.Debug("got message", zap.String("msg", ev.Msg.String()))

	note, vel, ok := ev.NoteOn()
	if !ok || vel == 0 {
		return
	}

	switch {
	case note == l.triggerNote && l.triggerRun >= 2:
		l.log.Info("trigger gesture detected, saving buffer and opening log")
		l.writer.Save(l.session, true)
		l.triggerRun = 0
		select {
		case l.showLog <- struct{}{}:
		default:
		}
	case note == l.triggerNote:
		l.triggerRun++
	default:
		l.triggerRun = 0
	}
}
