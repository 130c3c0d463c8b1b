package payments

import (
	"context"
	"fmt"
	"log"
	"strings"
	"sync"
	"time"
)

const (
	DefaultPollInterval = 5 * time.Second
	DefaultPollTimeout  = 15 * time.Minute
)

// CreateRequest is the user-facing request to start a purchase attempt.
type CreateRequest struct {
	Title        string
	Amount       float64
	PayerEmail   string
	PayerName    string
	SearchParams string // anamnesis query string, carried to the plan email
}

// Flow is the purchase state machine for one funnel session:
//
//	Idle -> Creating -> AwaitingPayment -> Approved | Rejected | TimedOut
//
// Every attempt creates a new Intent with a fresh idempotency key; a newer
// attempt supersedes the previous one and only the newest intent's watcher
// may ever deliver a terminal transition.
type Flow struct {
	gateway  Gateway
	interval time.Duration
	timeout  time.Duration

	// onApproved runs the unlock/email side effects. Called at most once
	// per intent id, even when the gateway reports approved repeatedly.
	onApproved func(*Intent)

	mu       sync.Mutex
	state    State
	intent   *Intent
	watcher  *Watcher
	approved map[string]bool
}

func NewFlow(g Gateway, interval, timeout time.Duration, onApproved func(*Intent)) *Flow {
	if interval <= 0 {
		interval = DefaultPollInterval
	}
	if timeout <= 0 {
		timeout = DefaultPollTimeout
	}
	return &Flow{
		gateway:    g,
		interval:   interval,
		timeout:    timeout,
		onApproved: onApproved,
		state:      StateIdle,
		approved:   map[string]bool{},
	}
}

func (f *Flow) State() State {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.state
}

func (f *Flow) Intent() *Intent {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.intent
}

// CreatePayment starts a new purchase attempt. Allowed from Idle and from
// any terminal state (the retry affordance); the new intent supersedes
// whatever came before, and the superseded watcher is cancelled before the
// new one starts.
func (f *Flow) CreatePayment(ctx context.Context, req CreateRequest) (*Intent, error) {
	if req.Amount <= 0 || strings.TrimSpace(req.PayerEmail) == "" {
		return nil, fmt.Errorf("%w (preço ou email)", ErrValidation)
	}

	f.mu.Lock()
	f.state = StateCreating
	f.mu.Unlock()

	first, last := splitName(req.PayerName)
	intent, err := f.gateway.CreatePix(ctx, PixOrder{
		Title:          req.Title,
		Amount:         req.Amount,
		PayerEmail:     req.PayerEmail,
		PayerFirstName: first,
		PayerLastName:  last,
	})
	if err != nil {
		// Creation failed: back to Idle, surface the error, stay retryable.
		f.mu.Lock()
		if f.state == StateCreating {
			f.state = StateIdle
		}
		f.mu.Unlock()
		return nil, err
	}
	intent.SearchParams = req.SearchParams

	w := newWatcher(intent.ID, f.interval, f.timeout, f.gateway.Status, f.terminal)

	f.mu.Lock()
	if f.watcher != nil {
		// Supersession: the old intent's timer must die before the new one
		// may run, or a stale poll could unlock content for an abandoned
		// attempt.
		f.watcher.Stop()
	}
	f.intent = intent
	f.watcher = w
	f.state = StateAwaiting
	f.mu.Unlock()

	w.Start()
	log.Printf("[payments] intent %s awaiting payment (key=%s)", intent.ID, intent.IdempotencyKey)
	return intent, nil
}

// terminal is the watcher callback. Ownership rule: the transition is
// dropped unless the reporting watcher still owns the current intent.
func (f *Flow) terminal(paymentID, status string) {
	f.mu.Lock()
	if f.intent == nil || f.intent.ID != paymentID {
		f.mu.Unlock()
		log.Printf("[payments] ignoring stale terminal status %s for superseded intent %s", status, paymentID)
		return
	}
	var fire *Intent
	switch status {
	case StatusApproved:
		f.state = StateApproved
		if !f.approved[paymentID] {
			f.approved[paymentID] = true
			fire = f.intent
		}
	case StatusRejected:
		f.state = StateRejected
	case string(StateTimedOut):
		f.state = StateTimedOut
	}
	f.mu.Unlock()

	if fire != nil && f.onApproved != nil {
		f.onApproved(fire)
	}
}

// Stop tears the flow down, releasing any live watcher. The state is left
// as-is; a torn-down flow simply stops observing.
func (f *Flow) Stop() {
	f.mu.Lock()
	w := f.watcher
	f.watcher = nil
	f.mu.Unlock()
	if w != nil {
		w.Stop()
	}
}

func splitName(full string) (string, string) {
	full = strings.TrimSpace(full)
	if full == "" {
		return "Cliente", ""
	}
	parts := strings.SplitN(full, " ", 2)
	if len(parts) == 1 {
		return parts[0], ""
	}
	return parts[0], parts[1]
}
