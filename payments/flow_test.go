package payments

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

// stubGateway is an in-memory Gateway with scriptable behavior.
type stubGateway struct {
	mu        sync.Mutex
	nextID    int
	status    string
	detail    string
	createErr error
	statusErr error
	polls     int32
}

func (g *stubGateway) CreatePix(ctx context.Context, order PixOrder) (*Intent, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.createErr != nil {
		return nil, g.createErr
	}
	g.nextID++
	id := fmt.Sprintf("pay-%d", g.nextID)
	return &Intent{
		ID:              id,
		Amount:          order.Amount,
		PayerEmail:      order.PayerEmail,
		PayerName:       order.PayerFirstName,
		QRCodeBase64:    "qr-" + id,
		QRCodeCopyPaste: "copy-" + id,
		IdempotencyKey:  "key-" + id,
	}, nil
}

func (g *stubGateway) Status(ctx context.Context, externalID string) (string, string, error) {
	atomic.AddInt32(&g.polls, 1)
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.statusErr != nil {
		return "", "", g.statusErr
	}
	return g.status, g.detail, nil
}

func (g *stubGateway) setStatus(status string) {
	g.mu.Lock()
	g.status = status
	g.mu.Unlock()
}

func waitForState(t *testing.T, f *Flow, want State) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if f.State() == want {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("state = %s, want %s", f.State(), want)
}

func TestFlowApproved(t *testing.T) {
	gw := &stubGateway{status: StatusApproved}
	var unlocks int32
	f := NewFlow(gw, 10*time.Millisecond, time.Second, func(*Intent) {
		atomic.AddInt32(&unlocks, 1)
	})
	defer f.Stop()

	intent, err := f.CreatePayment(context.Background(), CreateRequest{Title: "Plano", Amount: 7.90, PayerEmail: "a@b.c", PayerName: "Ana Souza"})
	if err != nil {
		t.Fatalf("CreatePayment: %v", err)
	}
	if intent.QRCodeBase64 == "" || intent.QRCodeCopyPaste == "" {
		t.Errorf("intent missing QR data: %+v", intent)
	}
	waitForState(t, f, StateApproved)
	time.Sleep(50 * time.Millisecond)
	if n := atomic.LoadInt32(&unlocks); n != 1 {
		t.Fatalf("onApproved fired %d times, want 1", n)
	}
}

func TestFlowApprovedOnlyOncePerIntent(t *testing.T) {
	gw := &stubGateway{status: StatusPending}
	var unlocks int32
	f := NewFlow(gw, time.Hour, time.Hour, func(*Intent) {
		atomic.AddInt32(&unlocks, 1)
	})
	defer f.Stop()

	intent, err := f.CreatePayment(context.Background(), CreateRequest{Amount: 7.90, PayerEmail: "a@b.c"})
	if err != nil {
		t.Fatalf("CreatePayment: %v", err)
	}
	// Repeated approved reports for the same intent collapse to one unlock.
	f.terminal(intent.ID, StatusApproved)
	f.terminal(intent.ID, StatusApproved)
	if n := atomic.LoadInt32(&unlocks); n != 1 {
		t.Fatalf("onApproved fired %d times, want 1", n)
	}
	if f.State() != StateApproved {
		t.Fatalf("state = %s, want %s", f.State(), StateApproved)
	}
}

func TestFlowRejectedNeverUnlocks(t *testing.T) {
	gw := &stubGateway{status: StatusRejected, detail: "cc_rejected_other_reason"}
	var unlocks int32
	f := NewFlow(gw, 10*time.Millisecond, time.Second, func(*Intent) {
		atomic.AddInt32(&unlocks, 1)
	})
	defer f.Stop()

	if _, err := f.CreatePayment(context.Background(), CreateRequest{Amount: 7.90, PayerEmail: "a@b.c"}); err != nil {
		t.Fatalf("CreatePayment: %v", err)
	}
	waitForState(t, f, StateRejected)
	if n := atomic.LoadInt32(&unlocks); n != 0 {
		t.Fatalf("onApproved fired %d times on rejection", n)
	}
}

func TestFlowSupersession(t *testing.T) {
	gw := &stubGateway{status: StatusPending}
	var unlocks int32
	f := NewFlow(gw, time.Hour, time.Hour, func(*Intent) {
		atomic.AddInt32(&unlocks, 1)
	})
	defer f.Stop()

	first, err := f.CreatePayment(context.Background(), CreateRequest{Amount: 7.90, PayerEmail: "a@b.c"})
	if err != nil {
		t.Fatalf("first CreatePayment: %v", err)
	}
	second, err := f.CreatePayment(context.Background(), CreateRequest{Amount: 7.90, PayerEmail: "a@b.c"})
	if err != nil {
		t.Fatalf("second CreatePayment: %v", err)
	}
	if first.ID == second.ID {
		t.Fatalf("retry reused intent id %s", first.ID)
	}
	if first.IdempotencyKey == second.IdempotencyKey {
		t.Fatalf("retry reused idempotency key %s", first.IdempotencyKey)
	}

	// A late report for the superseded intent must not move the flow.
	f.terminal(first.ID, StatusApproved)
	if f.State() != StateAwaiting {
		t.Fatalf("stale approval moved state to %s", f.State())
	}
	if n := atomic.LoadInt32(&unlocks); n != 0 {
		t.Fatalf("stale approval unlocked content")
	}

	f.terminal(second.ID, StatusApproved)
	if f.State() != StateApproved {
		t.Fatalf("state = %s, want %s", f.State(), StateApproved)
	}
	if n := atomic.LoadInt32(&unlocks); n != 1 {
		t.Fatalf("onApproved fired %d times, want 1", n)
	}
}

func TestFlowTimeout(t *testing.T) {
	gw := &stubGateway{status: StatusPending}
	f := NewFlow(gw, 10*time.Millisecond, 40*time.Millisecond, nil)
	defer f.Stop()

	if _, err := f.CreatePayment(context.Background(), CreateRequest{Amount: 7.90, PayerEmail: "a@b.c"}); err != nil {
		t.Fatalf("CreatePayment: %v", err)
	}
	waitForState(t, f, StateTimedOut)
}

func TestFlowCreateValidation(t *testing.T) {
	f := NewFlow(&stubGateway{}, time.Hour, time.Hour, nil)
	defer f.Stop()

	if _, err := f.CreatePayment(context.Background(), CreateRequest{Amount: 0, PayerEmail: "a@b.c"}); !errors.Is(err, ErrValidation) {
		t.Fatalf("zero amount: got %v, want ErrValidation", err)
	}
	if _, err := f.CreatePayment(context.Background(), CreateRequest{Amount: 7.90, PayerEmail: "  "}); !errors.Is(err, ErrValidation) {
		t.Fatalf("blank email: got %v, want ErrValidation", err)
	}
	if f.State() != StateIdle {
		t.Fatalf("state = %s, want %s", f.State(), StateIdle)
	}
}

func TestFlowCreateFailureReturnsToIdle(t *testing.T) {
	gw := &stubGateway{createErr: fmt.Errorf("%w: boom", ErrGateway)}
	f := NewFlow(gw, time.Hour, time.Hour, nil)
	defer f.Stop()

	if _, err := f.CreatePayment(context.Background(), CreateRequest{Amount: 7.90, PayerEmail: "a@b.c"}); !errors.Is(err, ErrGateway) {
		t.Fatalf("got %v, want ErrGateway", err)
	}
	if f.State() != StateIdle {
		t.Fatalf("state = %s, want %s (retryable)", f.State(), StateIdle)
	}
}

func TestWatcherKeepsPollingThroughErrors(t *testing.T) {
	gw := &stubGateway{statusErr: errors.New("timeout")}
	done := make(chan string, 1)
	w := newWatcher("pay-1", 10*time.Millisecond, time.Second, gw.Status, func(_, status string) {
		done <- status
	})
	w.Start()
	defer w.Stop()

	time.Sleep(40 * time.Millisecond)
	gw.mu.Lock()
	gw.statusErr = nil
	gw.status = StatusApproved
	gw.mu.Unlock()

	select {
	case status := <-done:
		if status != StatusApproved {
			t.Fatalf("terminal status = %s, want approved", status)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("watcher never recovered from poll errors")
	}
	if n := atomic.LoadInt32(&gw.polls); n < 2 {
		t.Fatalf("watcher polled %d times, want several", n)
	}
}

func TestWatcherStopPreventsDelivery(t *testing.T) {
	delivered := make(chan string, 1)
	w := newWatcher("pay-1", time.Hour, time.Hour, func(context.Context, string) (string, string, error) {
		return StatusPending, "", nil
	}, func(_, status string) {
		delivered <- status
	})
	w.Stop()
	w.finish(StatusApproved)
	select {
	case status := <-delivered:
		t.Fatalf("stopped watcher delivered %s", status)
	case <-time.After(50 * time.Millisecond):
	}
}

func TestFlowStateTerminal(t *testing.T) {
	for _, s := range []State{StateApproved, StateRejected, StateTimedOut} {
		if !s.Terminal() {
			t.Errorf("%s should be terminal", s)
		}
	}
	for _, s := range []State{StateIdle, StateCreating, StateAwaiting} {
		if s.Terminal() {
			t.Errorf("%s should not be terminal", s)
		}
	}
}

func TestSplitName(t *testing.T) {
	cases := []struct {
		in, first, last string
	}{
		{"", "Cliente", ""},
		{"Ana", "Ana", ""},
		{"Ana Souza", "Ana", "Souza"},
		{"Ana de Souza", "Ana", "de Souza"},
	}
	for _, tc := range cases {
		first, last := splitName(tc.in)
		if first != tc.first || last != tc.last {
			t.Errorf("splitName(%q) = %q/%q, want %q/%q", tc.in, first, last, tc.first, tc.last)
		}
	}
}
