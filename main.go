package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/Pi-3-14/i-forgot-to-record-my-piano/capture"
	"github.com/Pi-3-14/i-forgot-to-record-my-piano/config"
	"github.com/Pi-3-14/i-forgot-to-record-my-piano/debug"
	"github.com/Pi-3-14/i-forgot-to-record-my-piano/midi"
	"github.com/Pi-3-14/i-forgot-to-record-my-piano/tui"
)

// ports adapts *midi.Manager to the capture loop's interface.
type ports struct {
	mgr *midi.Manager
}

func (p ports) WaitUntilAvailable(ctx context.Context) (string, error) {
	return p.mgr.WaitUntilAvailable(ctx)
}

func (p ports) Open(name string) (capture.Source, error) {
	return p.mgr.Open(name)
}

func (p ports) StillAvailable() bool { return p.mgr.StillAvailable() }
func (p ports) Drop()                { p.mgr.Drop() }

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "bad config: %v\n", err)
		os.Exit(1)
	}

	store := debug.NewStore()
	logger := debug.NewLogger(store)
	defer logger.Sync()

	writer, err := capture.NewWriter(cfg.OutputDir, cfg.TicksPerBeat, cfg.MicrosPerBeat, cfg.MinNotes, logger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "cannot prepare output dir: %v\n", err)
		os.Exit(1)
	}

	mgr := midi.NewManager(cfg.PortName, cfg.ReconnectInterval(), logger)
	session := capture.NewSession()

	// Buffered so a trigger fired while the viewer is already open is
	// simply dropped instead of blocking the loop.
	triggers := make(chan struct{}, 1)

	loop := capture.NewLoop(ports{mgr}, session, writer, triggers,
		cfg.IdleTimeout(), cfg.PollInterval(), cfg.ReconnectInterval(),
		cfg.TriggerNote, logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	done := make(chan struct{})
	go func() {
		defer close(done)
		loop.Run(ctx)
	}()

	m := tui.NewModel(store, triggers)
	p := tea.NewProgram(m)

	// An interrupt tears down the UI; quitting the UI tears down capture.
	go func() {
		<-ctx.Done()
		p.Quit()
	}()

	logger.Info("recorder started",
		zap.String("output", cfg.OutputDir),
		zap.String("port", cfg.PortName))

	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	}

	// Stop the loop and wait for its final save to finish.
	cancel()
	<-done
}
