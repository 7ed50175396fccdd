package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/mattn/go-isatty"

	"github.com/matzehuels/depskew/pkg/observability"
)

// Spinner draws a progress indicator on a terminal until stopped or until
// its context is cancelled.
type Spinner struct {
	w       io.Writer
	message string
	ctx     context.Context
	cancel  context.CancelFunc
	done    chan struct{}
	stopped chan struct{}
	once    sync.Once
	frames  []string
	mu      sync.Mutex
}

func newSpinnerWithContext(ctx context.Context, w io.Writer, message string) *Spinner {
	spinnerCtx, cancel := context.WithCancel(ctx)
	return &Spinner{
		w:       w,
		message: message,
		ctx:     spinnerCtx,
		cancel:  cancel,
		done:    make(chan struct{}),
		stopped: make(chan struct{}),
		frames:  []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"},
	}
}

// Start begins the animation.
func (s *Spinner) Start() {
	go func() {
		defer close(s.stopped)
		ticker := time.NewTicker(80 * time.Millisecond)
		defer ticker.Stop()

		for i := 0; ; i++ {
			select {
			case <-s.ctx.Done():
				s.clearLine()
				return
			case <-s.done:
				return
			case <-ticker.C:
				s.mu.Lock()
				fmt.Fprintf(s.w, "\r%s %s", styleIconSpinner.Render(s.frames[i%len(s.frames)]), StyleDim.Render(s.message))
				s.mu.Unlock()
			}
		}
	}()
}

// Stop stops the animation and clears the line. It may be called repeatedly.
func (s *Spinner) Stop() {
	s.once.Do(func() {
		s.cancel()
		close(s.done)
		<-s.stopped
		s.clearLine()
	})
}

func (s *Spinner) clearLine() {
	s.mu.Lock()
	defer s.mu.Unlock()
	fmt.Fprintf(s.w, "\r%s\r", strings.Repeat(" ", len(s.message)+4))
}

// Cancelled reports whether the spinner's parent context ended.
func (s *Spinner) Cancelled() bool {
	return s.ctx.Err() != nil && !s.stoppedByCaller()
}

func (s *Spinner) stoppedByCaller() bool {
	select {
	case <-s.done:
		return true
	default:
		return false
	}
}

// isTerminal reports whether w is an interactive terminal.
func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// =============================================================================
// Resolve Spinner
// =============================================================================

// spinnerHooks shows a spinner while the pipeline resolves the tree and
// warns when the resolve was interrupted.
type spinnerHooks struct {
	observability.NoopPipelineHooks

	ctx     context.Context
	w       io.Writer
	logger  *log.Logger
	mu      sync.Mutex
	spinner *Spinner
}

func (h *spinnerHooks) OnResolveStart(_ context.Context, resolver string, packages int) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.spinner = newSpinnerWithContext(h.ctx, h.w, fmt.Sprintf("Resolving %d package(s) with %s...", packages, resolver))
	h.spinner.Start()
}

func (h *spinnerHooks) OnResolveComplete(_ context.Context, resolver string, _ int, elapsed time.Duration, _ error) {
	h.mu.Lock()
	interrupted := h.spinner != nil && h.spinner.Cancelled()
	h.mu.Unlock()
	h.stop()
	if interrupted {
		h.logger.Warn("Resolve interrupted", "resolver", resolver, "after", elapsed.Round(time.Millisecond))
	}
}

func (h *spinnerHooks) stop() {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.spinner != nil {
		h.spinner.Stop()
		h.spinner = nil
	}
}

// withResolveSpinner registers spinner hooks on interactive terminals and
// returns a function that restores the previous hooks.
func withResolveSpinner(ctx context.Context, w io.Writer, logger *log.Logger) func() {
	if !isTerminal(w) {
		return func() {}
	}
	prev := observability.Pipeline()
	h := &spinnerHooks{ctx: ctx, w: w, logger: logger}
	observability.SetPipelineHooks(h)
	return func() {
		h.stop()
		observability.SetPipelineHooks(prev)
	}
}
