package realtime

import (
	"encoding/json"
	"testing"
	"time"

	"go.uber.org/zap"
)

func newTestClient(householdID string) *Client {
	return &Client{
		householdID: householdID,
		send:        make(chan []byte, sendBufferSize),
	}
}

func receiveEvent(t *testing.T, c *Client) Event {
	t.Helper()
	select {
	case data := <-c.send:
		var ev Event
		if err := json.Unmarshal(data, &ev); err != nil {
			t.Fatalf("failed to decode event: %v", err)
		}
		return ev
	default:
		t.Fatal("expected a buffered event")
		return Event{}
	}
}

func TestPublish(t *testing.T) {
	t.Run("delivers_only_to_own_household", func(t *testing.T) {
		hub := NewHub(zap.NewNop().Sugar())
		mine := newTestClient("house-a")
		theirs := newTestClient("house-b")
		hub.Register(mine)
		hub.Register(theirs)

		hub.Publish("house-a", Event{Table: "monthly_budgets", Action: "create"})

		ev := receiveEvent(t, mine)
		if ev.Table != "monthly_budgets" || ev.Action != "create" {
			t.Errorf("unexpected event: %+v", ev)
		}
		if len(theirs.send) != 0 {
			t.Error("expected no delivery to the other household")
		}
	})

	t.Run("toast_debounced_per_household", func(t *testing.T) {
		hub := NewHub(zap.NewNop().Sugar())
		clock := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
		hub.now = func() time.Time { return clock }

		a := newTestClient("house-a")
		b := newTestClient("house-b")
		hub.Register(a)
		hub.Register(b)

		hub.Publish("house-a", Event{Table: "monthly_incomes", Action: "update"})
		if ev := receiveEvent(t, a); !ev.Toast {
			t.Error("expected first event to carry a toast")
		}

		// Inside the debounce window: still delivered, toast suppressed.
		clock = clock.Add(500 * time.Millisecond)
		hub.Publish("house-a", Event{Table: "monthly_incomes", Action: "update"})
		if ev := receiveEvent(t, a); ev.Toast {
			t.Error("expected toast suppressed inside the window")
		}

		// Another household's window is independent.
		hub.Publish("house-b", Event{Table: "monthly_incomes", Action: "update"})
		if ev := receiveEvent(t, b); !ev.Toast {
			t.Error("expected an unrelated household to get a toast")
		}

		clock = clock.Add(toastInterval)
		hub.Publish("house-a", Event{Table: "monthly_incomes", Action: "update"})
		if ev := receiveEvent(t, a); !ev.Toast {
			t.Error("expected toast again after the window elapsed")
		}
	})

	t.Run("full_buffer_drops_instead_of_blocking", func(t *testing.T) {
		hub := NewHub(zap.NewNop().Sugar())
		c := &Client{householdID: "house-a", send: make(chan []byte, 1)}
		hub.Register(c)

		hub.Publish("house-a", Event{Table: "monthly_incomes", Action: "update"})
		done := make(chan struct{})
		go func() {
			hub.Publish("house-a", Event{Table: "monthly_incomes", Action: "update"})
			close(done)
		}()
		select {
		case <-done:
		case <-time.After(time.Second):
			t.Fatal("publish blocked on a full client buffer")
		}
		if len(c.send) != 1 {
			t.Errorf("expected exactly 1 buffered message, got %d", len(c.send))
		}
	})
}

func TestRegisterUnregister(t *testing.T) {
	t.Run("counts_and_cleanup", func(t *testing.T) {
		hub := NewHub(zap.NewNop().Sugar())
		a := newTestClient("house-a")
		b := newTestClient("house-a")
		hub.Register(a)
		hub.Register(b)

		if got := hub.ClientCount("house-a"); got != 2 {
			t.Errorf("expected 2 clients, got %d", got)
		}

		hub.Unregister(a)
		if got := hub.ClientCount("house-a"); got != 1 {
			t.Errorf("expected 1 client after unregister, got %d", got)
		}
		if _, ok := <-a.send; ok {
			t.Error("expected send channel closed on unregister")
		}

		hub.Unregister(b)
		if got := hub.ClientCount("house-a"); got != 0 {
			t.Errorf("expected 0 clients, got %d", got)
		}

		// Double unregister must not panic or close twice.
		hub.Unregister(b)
	})
}
