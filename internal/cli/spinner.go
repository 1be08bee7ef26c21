package cli

import (
	"context"
	"fmt"
	"os"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/mattn/go-isatty"
)

var spinnerFrames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

// Spinner shows progress for a long step such as a Graphviz render. On a
// terminal it animates with the elapsed time; elsewhere it prints the
// message once, so redirected stderr stays readable.
type Spinner struct {
	message string
	parent  context.Context
	ctx     context.Context
	cancel  context.CancelFunc
	animate bool

	start    time.Time
	started  bool
	stopOnce sync.Once
	stopped  chan struct{}
	mu       sync.Mutex
	width    int // runes written by the last frame
}

// newSpinner creates a spinner that stops animating when ctx is cancelled.
func newSpinner(ctx context.Context, message string) *Spinner {
	sctx, cancel := context.WithCancel(ctx)
	return &Spinner{
		message: message,
		parent:  ctx,
		ctx:     sctx,
		cancel:  cancel,
		animate: isTerminal(statusOut),
		stopped: make(chan struct{}),
	}
}

func isTerminal(w any) bool {
	f, ok := w.(*os.File)
	return ok && (isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd()))
}

// Start begins the animation, or prints the message when not on a terminal.
func (s *Spinner) Start() {
	s.start = time.Now()
	s.started = true
	if !s.animate {
		printInfo("%s", s.message)
		close(s.stopped)
		return
	}
	go func() {
		defer close(s.stopped)
		ticker := time.NewTicker(80 * time.Millisecond)
		defer ticker.Stop()

		for i := 0; ; i++ {
			select {
			case <-s.ctx.Done():
				return
			case <-ticker.C:
				s.draw(spinnerFrames[i%len(spinnerFrames)])
			}
		}
	}()
}

func (s *Spinner) draw(frame string) {
	elapsed := fmt.Sprintf("%.1fs", time.Since(s.start).Seconds())
	s.mu.Lock()
	defer s.mu.Unlock()
	fmt.Fprintf(statusOut, "\r%s %s %s", styleIconSpinner.Render(frame), StyleDim.Render(s.message), StyleDim.Render(elapsed))
	s.width = utf8.RuneCountInString(s.message) + len(elapsed) + 3
}

// Stop ends the animation and clears its line. It is safe to call more
// than once.
func (s *Spinner) Stop() {
	s.stopOnce.Do(func() {
		s.cancel()
		if s.started {
			<-s.stopped
		}
		if s.animate {
			s.mu.Lock()
			fmt.Fprintf(statusOut, "\r%s\r", strings.Repeat(" ", s.width))
			s.mu.Unlock()
		}
	})
}

// Elapsed returns the time since Start.
func (s *Spinner) Elapsed() time.Duration {
	if !s.started {
		return 0
	}
	return time.Since(s.start)
}

// StopWithSuccess stops the spinner and reports message with the elapsed time.
func (s *Spinner) StopWithSuccess(message string) {
	s.Stop()
	printSuccess("%s %s", message, StyleDim.Render(fmt.Sprintf("(%s)", s.Elapsed().Round(time.Millisecond))))
}

// StopWithError stops the spinner and reports message.
func (s *Spinner) StopWithError(message string) {
	s.Stop()
	printError("%s", message)
}

// Cancelled reports whether the caller's context was cancelled, as opposed
// to the spinner being stopped normally.
func (s *Spinner) Cancelled() bool {
	return s.parent.Err() != nil
}
