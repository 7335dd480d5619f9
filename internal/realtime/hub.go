// Package realtime pushes change notifications to connected household
// members over WebSocket. Subscriptions are scoped per household, so a
// client only ever receives events for its own household.
package realtime

import (
	"encoding/json"
	"sync"
	"time"

	"go.uber.org/zap"
)

// toastInterval is the minimum gap between toast-worthy notifications for
// a household. Events inside the window still invalidate client caches but
// carry toast=false so the UI stays quiet during bursts of edits.
const toastInterval = 1500 * time.Millisecond

// Event is a change notification broadcast to a household's clients.
type Event struct {
	Table     string `json:"table"`
	Action    string `json:"action"`
	ItemID    string `json:"item_id,omitempty"`
	ItemName  string `json:"item_name,omitempty"`
	ActorID   string `json:"actor_id,omitempty"`
	ActorName string `json:"actor_name,omitempty"`
	Toast     bool   `json:"toast"`
}

// Hub maintains active WebSocket clients grouped by household and
// broadcasts change events to the owning household only.
type Hub struct {
	mu         sync.RWMutex
	households map[string]map[*Client]struct{}
	lastToast  map[string]time.Time
	now        func() time.Time
	logger     *zap.SugaredLogger
}

// NewHub creates a new Hub.
func NewHub(logger *zap.SugaredLogger) *Hub {
	return &Hub{
		households: make(map[string]map[*Client]struct{}),
		lastToast:  make(map[string]time.Time),
		now:        time.Now,
		logger:     logger,
	}
}

// Register adds a client to its household's subscriber set.
func (h *Hub) Register(c *Client) {
	h.mu.Lock()
	clients, ok := h.households[c.householdID]
	if !ok {
		clients = make(map[*Client]struct{})
		h.households[c.householdID] = clients
	}
	clients[c] = struct{}{}
	h.mu.Unlock()
}

// Unregister removes a client and closes its send channel.
func (h *Hub) Unregister(c *Client) {
	h.mu.Lock()
	if clients, ok := h.households[c.householdID]; ok {
		if _, ok := clients[c]; ok {
			delete(clients, c)
			close(c.send)
		}
		if len(clients) == 0 {
			delete(h.households, c.householdID)
		}
	}
	h.mu.Unlock()
}

// Publish sends an event to every client subscribed to the household.
// The toast flag is debounced per household; cache-invalidation delivery
// is not.
func (h *Hub) Publish(householdID string, ev Event) {
	h.mu.Lock()
	now := h.now()
	if now.Sub(h.lastToast[householdID]) >= toastInterval {
		ev.Toast = true
		h.lastToast[householdID] = now
	} else {
		ev.Toast = false
	}
	clients := h.households[householdID]
	h.mu.Unlock()

	if len(clients) == 0 {
		return
	}

	data, err := json.Marshal(ev)
	if err != nil {
		h.logger.Errorw("marshal realtime event", "error", err)
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()
	for c := range h.households[householdID] {
		select {
		case c.send <- data:
		default:
			// Client buffer full — drop message to avoid blocking
		}
	}
}

// ClientCount returns the number of clients subscribed to a household.
func (h *Hub) ClientCount(householdID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.households[householdID])
}
