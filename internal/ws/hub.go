package ws

import (
	"encoding/json"
	"log"
	"sync"

	"hostelhub/internal/domain"
	"hostelhub/internal/service"

	"github.com/google/uuid"
)

// Client is one staff connection watching a hostel's waitlist.
type Client struct {
	UserID   uuid.UUID
	Role     domain.Role
	HostelID uuid.UUID
	Send     chan []byte
	Hub      *Hub // set by Register so Close can unregister
	mu       sync.Mutex
	closed   bool
}

func (c *Client) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	c.closed = true
	close(c.Send)
	if c.Hub != nil {
		c.Hub.unregister(c)
	}
}

// Hub fans waitlist events out to the clients subscribed to each hostel.
type Hub struct {
	mu sync.RWMutex
	// hostelID -> clients
	byHostel map[uuid.UUID]map[*Client]struct{}
}

func NewHub() *Hub {
	return &Hub{byHostel: make(map[uuid.UUID]map[*Client]struct{})}
}

func (h *Hub) Register(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	c.Hub = h
	if h.byHostel[c.HostelID] == nil {
		h.byHostel[c.HostelID] = make(map[*Client]struct{})
	}
	h.byHostel[c.HostelID][c] = struct{}{}
}

func (h *Hub) unregister(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if m := h.byHostel[c.HostelID]; m != nil {
		delete(m, c)
		if len(m) == 0 {
			delete(h.byHostel, c.HostelID)
		}
	}
}

// PublishWaitlistEvent sends the event to every client watching hostelID.
// Slow clients drop messages rather than block the caller.
func (h *Hub) PublishWaitlistEvent(hostelID uuid.UUID, event service.WaitlistEvent) {
	data, err := json.Marshal(event)
	if err != nil {
		log.Printf("[ws] marshal %s: %v", event.Type, err)
		return
	}
	h.mu.RLock()
	m := h.byHostel[hostelID]
	clients := make([]*Client, 0, len(m))
	for c := range m {
		clients = append(clients, c)
	}
	h.mu.RUnlock()
	for _, c := range clients {
		c.trySend(data)
	}
}

func (c *Client) trySend(data []byte) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	select {
	case c.Send <- data:
	default:
	}
}

func (h *Hub) ClientCount(hostelID uuid.UUID) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.byHostel[hostelID])
}
