// Package debug keeps every logged line since process start in memory so
// the hidden log viewer can show the full history on demand.
package debug

import (
	"os"
	"strings"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Store accumulates log lines. It is written to by the zap core on the
// capture goroutine and read by the viewer on the UI goroutine, hence
// the mutex.
type Store struct {
	mu    sync.Mutex
	lines []string
}

// NewStore returns an empty store.
func NewStore() *Store {
	return &Store{}
}

// Write implements io.Writer for zapcore. Each zap entry arrives as one
// newline-terminated write.
func (s *Store) Write(p []byte) (int, error) {
	line := strings.TrimRight(string(p), "\n")

	s.mu.Lock()
	s.lines = append(s.lines, line)
	s.mu.Unlock()

	return len(p), nil
}

// Lines returns a snapshot of everything logged so far.
func (s *Store) Lines() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, len(s.lines))
	copy(out, s.lines)
	return out
}

// Len returns the number of lines logged so far.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.lines)
}

// NewLogger builds a zap logger that tees every entry to stderr and to
// the store. The store core keeps debug-level entries too, so the
// viewer sees more than the console does.
func NewLogger(store *Store) *zap.Logger {
	encCfg := zap.NewDevelopmentEncoderConfig()
	encCfg.EncodeTime = zapcore.TimeEncoderOfLayout("15:04:05.000")

	enc := zapcore.NewConsoleEncoder(encCfg)

	core := zapcore.NewTee(
		zapcore.NewCore(enc, zapcore.Lock(os.Stderr), zapcore.InfoLevel),
		zapcore.NewCore(enc, zapcore.AddSync(store), zapcore.DebugLevel),
	)

	return zap.New(core)
}
