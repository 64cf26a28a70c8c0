package capture

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gitlab.com/gomidi/midi/v2/smf"
	"go.uber.org/zap"
)

const (
	// DefaultTicksPerBeat is the resolution of written files.
	DefaultTicksPerBeat = 480

	// DefaultMicrosPerBeat is the assumed tempo used to turn wall-clock
	// deltas into ticks. MIDI input carries no tempo, so the conversion
	// is fixed: 600000 us/beat, i.e. 100 bpm.
	DefaultMicrosPerBeat = 600000

	// minAudibleNotes is the unconditional floor: at or below this many
	// note-ons a take is discarded even on a forced save.
	minAudibleNotes = 3
)

// DiscardReason says why a take was thrown away instead of written.
type DiscardReason string

const (
	DiscardTooFewNotes DiscardReason = "too-few-notes"
	DiscardNoNotes     DiscardReason = "no-notes"
	DiscardWriteFailed DiscardReason = "write-failed"
)

// Outcome is the result of a save decision.
type Outcome struct {
	Saved    bool
	Filename string
	Notes    int
	Reason   DiscardReason
}

// Writer turns a finished session into a standard MIDI file on disk,
// or discards it when the take is not significant enough to keep.
type Writer struct {
	dir      string
	ticks    smf.MetricTicks
	tempoBPM float64
	minNotes int
	log      *zap.Logger

	now func() time.Time // swapped in tests for stable filenames
}

// NewWriter creates a writer and ensures the output directory exists.
func NewWriter(dir string, ticksPerBeat uint16, microsPerBeat int, minNotes int, log *zap.Logger) (*Writer, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create output dir %q: %w", dir, err)
	}
	return &Writer{
		dir:      dir,
		ticks:    smf.MetricTicks(ticksPerBeat),
		tempoBPM: 60_000_000 / float64(microsPerBeat),
		minNotes: minNotes,
		log:      log,
		now:      time.Now,
	}, nil
}

// Save writes the session to a timestamped file, or discards it.
// force bypasses the minimum-notes threshold (trigger-gesture saves)
// but not the unconditional floor. The session is cleared on every
// path, including write failure.
func (w *Writer) Save(s *Session, force bool) Outcome {
	notes := s.NoteOnCount()

	if notes < w.minNotes && !force {
		w.log.Info("discarding take: too few notes", zap.Int("notes", notes))
		s.Clear()
		return Outcome{Notes: notes, Reason: DiscardTooFewNotes}
	}
	if notes <= minAudibleNotes {
		w.log.Info("discarding take: no notes pressed", zap.Int("notes", notes))
		s.Clear()
		return Outcome{Notes: notes, Reason: DiscardNoNotes}
	}

	mf := smf.New()
	mf.TimeFormat = w.ticks

	var track smf.Track
	events := s.Events()
	last := events[0].At
	for _, ev := range events {
		delta := w.ticks.Ticks(w.tempoBPM, ev.At.Sub(last))
		track.Add(delta, ev.Msg)
		last = ev.At
	}
	track.Close(0)
	mf.Add(track)

	filename := filepath.Join(w.dir, fmt.Sprintf("capture_%s.mid", w.now().Format("20060102-150405")))

	if err := w.write(mf, filename); err != nil {
		// Loud but non-fatal: the take is gone either way.
		w.log.Error("failed to write capture file", zap.String("file", filename), zap.Error(err))
		s.Clear()
		return Outcome{Notes: notes, Reason: DiscardWriteFailed}
	}

	w.log.Info("saved capture", zap.String("file", filename), zap.Int("notes", notes))
	s.Clear()
	return Outcome{Saved: true, Filename: filename, Notes: notes}
}

func (w *Writer) write(mf *smf.SMF, filename string) error {
	f, err := os.Create(filename)
	if err != nil {
		return err
	}
	if _, err := mf.WriteTo(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
