package cli

import (
	"context"
	"fmt"
	"os"
	"strings"
	"sync"
	"time"
)

// spinnerFrames is the braille cycle drawn while a pipeline stage runs.
var spinnerFrames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

const spinnerInterval = 80 * time.Millisecond

// Spinner animates a one-line progress indicator on stderr while a parse,
// layout, or render stage runs. Stopping is idempotent, and the animation
// also winds down when the surrounding context is cancelled.
type Spinner struct {
	message string
	ctx     context.Context
	cancel  context.CancelFunc
	halt    chan struct{}
	idle    chan struct{}
	once    sync.Once
	mu      sync.Mutex
}

// newSpinner creates a spinner for the given stage message.
func newSpinner(message string) *Spinner {
	return newSpinnerWithContext(context.Background(), message)
}

// newSpinnerWithContext ties the spinner's lifetime to ctx.
func newSpinnerWithContext(ctx context.Context, message string) *Spinner {
	ctx, cancel := context.WithCancel(ctx)
	return &Spinner{
		message: message,
		ctx:     ctx,
		cancel:  cancel,
		halt:    make(chan struct{}),
		idle:    make(chan struct{}),
	}
}

// Start begins the animation in a goroutine.
func (s *Spinner) Start() {
	go func() {
		defer close(s.idle)
		ticker := time.NewTicker(spinnerInterval)
		defer ticker.Stop()

		for frame := 0; ; frame++ {
			select {
			case <-s.ctx.Done():
				s.eraseLine()
				return
			case <-s.halt:
				return
			case <-ticker.C:
				s.mu.Lock()
				fmt.Fprintf(os.Stderr, "\r%s %s",
					styleIconSpinner.Render(spinnerFrames[frame%len(spinnerFrames)]),
					StyleDim.Render(s.message))
				s.mu.Unlock()
			}
		}
	}()
}

// Stop halts the animation and clears the line. Safe to call repeatedly.
func (s *Spinner) Stop() {
	s.cancel()
	s.once.Do(func() { close(s.halt) })
	<-s.idle
	s.eraseLine()
}

// StopWithSuccess stops the spinner and prints a success line in its place.
func (s *Spinner) StopWithSuccess(message string) {
	s.Stop()
	printSuccess("%s", message)
}

// StopWithError stops the spinner and prints an error line in its place.
func (s *Spinner) StopWithError(message string) {
	s.Stop()
	printError("%s", message)
}

// Cancelled reports whether the spinner's context ended.
func (s *Spinner) Cancelled() bool {
	return s.ctx.Err() != nil
}

func (s *Spinner) eraseLine() {
	s.mu.Lock()
	defer s.mu.Unlock()
	fmt.Fprintf(os.Stderr, "\r%s\r", strings.Repeat(" ", len(s.message)+4))
}
