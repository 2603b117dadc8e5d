package core

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"sync/atomic"

	"golang.org/x/sys/unix"
)

// DefaultInterruptNotice is printed each time the shell is interrupted.
const DefaultInterruptNotice = "Caught SIGINT. The shell is still running, type 'exit' to quit."

// InterruptTracker counts interrupts delivered to the shell.
//
// Interrupt may be called from any goroutine. It only touches atomics and
// writes a best-effort notice; anything else that should happen in response
// is left to the shell loop, which polls TakePending.
type InterruptTracker struct {
	count   atomic.Int64
	pending atomic.Bool

	notice  string
	display io.Writer
}

// NewInterruptTracker creates a tracker printing notice to display on every
// interrupt. An empty notice uses DefaultInterruptNotice.
func NewInterruptTracker(display io.Writer, notice string) *InterruptTracker {
	if notice == "" {
		notice = DefaultInterruptNotice
	}
	return &InterruptTracker{notice: notice, display: display}
}

// Interrupt records a single interrupt.
func (t *InterruptTracker) Interrupt() {
	t.count.Add(1)
	t.pending.Store(true)

	if t.display != nil {
		// Best effort, there's nothing useful to do with a failed notice.
		_, _ = fmt.Fprintf(t.display, "\n%s\n", t.notice)
	}
}

// Count returns the number of interrupts recorded so far.
func (t *InterruptTracker) Count() int64 {
	return t.count.Load()
}

// TakePending reports whether any interrupt arrived since the last call.
func (t *InterruptTracker) TakePending() bool {
	return t.pending.Swap(false)
}

// Watch records an interrupt for every value received on sigs until ctx is
// done or sigs is closed.
func (t *InterruptTracker) Watch(ctx context.Context, sigs <-chan os.Signal) error {
	for {
		select {
		case <-ctx.Done():
			return nil
		case _, ok := <-sigs:
			if !ok {
				return nil
			}
			t.Interrupt()
		}
	}
}

// NotifyInterrupts installs a SIGINT handler relaying deliveries to the
// returned channel, for use with Watch. The handler is in place when it
// returns; stop restores the default SIGINT behavior.
func NotifyInterrupts() (sigs <-chan os.Signal, stop func()) {
	ch := make(chan os.Signal, 8)
	signal.Notify(ch, unix.SIGINT)
	return ch, func() { signal.Stop(ch) }
}

// Report writes the final interrupt count.
func (t *InterruptTracker) Report(w io.Writer) {
	fmt.Fprintf(w, "[Shell exiting... SIGINT (Ctrl+C) was caught %d times]\n", t.Count())
}
