package payments

import (
	"context"
	"log"
	"sync"
	"time"
)

// Watcher polls the gateway for one payment's status until a terminal
// status or the hard timeout is reached. It is the owning handle for the
// poll timer: Stop releases it exactly once, on terminal status,
// supersession or teardown alike.
type Watcher struct {
	paymentID string
	interval  time.Duration
	timeout   time.Duration
	poll      func(ctx context.Context, externalID string) (string, string, error)
	// onTerminal receives approved, rejected or timed_out. It is called at
	// most once and never after Stop.
	onTerminal func(paymentID, status string)

	stopOnce sync.Once
	done     chan struct{}
}

func newWatcher(paymentID string, interval, timeout time.Duration, poll func(context.Context, string) (string, string, error), onTerminal func(string, string)) *Watcher {
	return &Watcher{
		paymentID:  paymentID,
		interval:   interval,
		timeout:    timeout,
		poll:       poll,
		onTerminal: onTerminal,
		done:       make(chan struct{}),
	}
}

// Start launches the poll loop. The first check runs immediately, the rest
// on the fixed interval. Poll failures are logged and never stop the loop;
// only a terminal status, the timeout, or Stop does.
func (w *Watcher) Start() {
	go func() {
		ticker := time.NewTicker(w.interval)
		defer ticker.Stop()

		deadline := time.NewTimer(w.timeout)
		defer deadline.Stop()

		if w.check() {
			return
		}
		for {
			select {
			case <-w.done:
				return
			case <-deadline.C:
				w.finish(string(StateTimedOut))
				return
			case <-ticker.C:
				if w.check() {
					return
				}
			}
		}
	}()
}

// check runs one poll. Returns true when the loop should end.
func (w *Watcher) check() bool {
	ctx, cancel := context.WithTimeout(context.Background(), w.interval)
	status, detail, err := w.poll(ctx, w.paymentID)
	cancel()
	if err != nil {
		// Transient failures must not flap the UI; keep polling.
		log.Printf("[payments] poll error for %s: %v", w.paymentID, err)
		return false
	}
	switch status {
	case StatusApproved:
		w.finish(StatusApproved)
		return true
	case StatusRejected:
		log.Printf("[payments] payment %s rejected (%s)", w.paymentID, detail)
		w.finish(StatusRejected)
		return true
	default:
		return false
	}
}

// finish delivers the terminal status unless the watcher was already
// stopped, then releases the timer.
func (w *Watcher) finish(status string) {
	w.stopOnce.Do(func() {
		close(w.done)
		if w.onTerminal != nil {
			w.onTerminal(w.paymentID, status)
		}
	})
}

// Stop cancels polling without delivering a status. Safe to call multiple
// times and from any goroutine.
func (w *Watcher) Stop() {
	w.stopOnce.Do(func() {
		close(w.done)
	})
}
