package chat

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
)

// eventRecorder captures the JSON events a socketView would write to the wire.
type eventRecorder struct {
	mu     sync.Mutex
	events []viewEvent
}

func (r *eventRecorder) WriteJSON(v interface{}) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, v.(viewEvent))
	return nil
}

func (r *eventRecorder) snapshot() []viewEvent {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]viewEvent, len(r.events))
	copy(out, r.events)
	return out
}

func (r *eventRecorder) lastErrorNodeID(t *testing.T) string {
	t.Helper()
	for _, ev := range r.snapshot() {
		if ev.Type == "append" && ev.Node != nil && ev.Node.CanRetry {
			return ev.Node.ID.String()
		}
	}
	t.Fatal("No retryable error node was emitted")
	return ""
}

func countBusy(events []viewEvent) int {
	n := 0
	for _, ev := range events {
		if ev.Type == "busy" {
			n++
		}
	}
	return n
}

// Every command that collides with an in-flight turn surfaces the same busy
// event, retry included.
func TestDispatch_BusyIsSurfacedForEveryCommand(t *testing.T) {
	proxy := &fakeCompleter{err: errors.New("boom")}
	rec := &eventRecorder{}
	view := &socketView{conn: rec}
	session, err := NewSession(Config{
		Proxy:       proxy,
		View:        view,
		Library:     testLibrary(t, "p", `{"A":["q"]}`),
		SubmitDelay: -1,
	})
	if err != nil {
		t.Fatalf("Failed to create session: %v", err)
	}

	// A failed turn leaves a retryable error node behind.
	dispatch(context.Background(), session, view, clientCommand{Type: "submit", Text: "halo"})
	nodeID := rec.lastErrorNodeID(t)

	// Hold the next turn in flight.
	block := make(chan struct{})
	proxy.mu.Lock()
	proxy.err = nil
	proxy.reply = "ok"
	proxy.block = block
	proxy.mu.Unlock()

	done := make(chan struct{})
	go func() {
		defer close(done)
		dispatch(context.Background(), session, view, clientCommand{Type: "submit", Text: "kedua"})
	}()

	deadline := time.After(2 * time.Second)
	for len(proxy.calls()) < 2 {
		select {
		case <-deadline:
			t.Fatal("Second submit never reached the proxy")
		case <-time.After(time.Millisecond):
		}
	}

	before := countBusy(rec.snapshot())
	dispatch(context.Background(), session, view, clientCommand{Type: "retry", NodeID: nodeID})
	dispatch(context.Background(), session, view, clientCommand{Type: "submit", Text: "ketiga"})
	dispatch(context.Background(), session, view, clientCommand{Type: "quick"})

	if got := countBusy(rec.snapshot()) - before; got != 3 {
		t.Errorf("Expected 3 busy events (retry, submit, quick), got %d", got)
	}

	// No extra proxy call went out while the turn was held.
	if calls := len(proxy.calls()); calls != 2 {
		t.Errorf("Expected 2 proxy calls, got %d", calls)
	}

	close(block)
	<-done

	// The retryable turn is still intact afterwards.
	if err := session.Retry(context.Background(), uuid.MustParse(nodeID)); err != nil {
		t.Errorf("Retry after the turn resolved failed: %v", err)
	}
}

func TestDispatch_InvalidRetryNodeIDIsIgnored(t *testing.T) {
	proxy := &fakeCompleter{reply: "ok"}
	rec := &eventRecorder{}
	view := &socketView{conn: rec}
	session, err := NewSession(Config{
		Proxy:       proxy,
		View:        view,
		Library:     testLibrary(t, "p", ""),
		SubmitDelay: -1,
	})
	if err != nil {
		t.Fatalf("Failed to create session: %v", err)
	}

	dispatch(context.Background(), session, view, clientCommand{Type: "retry", NodeID: "not-a-uuid"})

	if len(rec.snapshot()) != 0 {
		t.Errorf("Expected no events for an invalid retry, got %+v", rec.snapshot())
	}
	if len(proxy.calls()) != 0 {
		t.Errorf("Expected no proxy calls, got %d", len(proxy.calls()))
	}
}
