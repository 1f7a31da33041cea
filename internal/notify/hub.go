package notify

import (
	"sync"

	"earn-dashboard/internal/models"
)

// MaxPending bounds undelivered notifications kept per session.
const MaxPending = 20

const subscriberBuffer = 32

// Hub fans notifications out to the websocket subscribers of a session and keeps the ones
// nobody was listening for until the next subscribe or Drain.
type Hub struct {
	mu      sync.Mutex
	subs    map[string]map[*Subscription]struct{}
	pending map[string][]models.Notification
}

// Subscription receives the notifications of one session.
type Subscription struct {
	C <-chan models.Notification

	ch   chan models.Notification
	sid  string
	hub  *Hub
	once sync.Once
}

func NewHub() *Hub {
	return &Hub{
		subs:    make(map[string]map[*Subscription]struct{}),
		pending: make(map[string][]models.Notification),
	}
}

// Emit delivers a notification to the session's subscribers, or parks it when there are none.
func (h *Hub) Emit(sid, message string, kind models.NotificationKind) {
	n := models.Notification{Message: message, Kind: kind}

	h.mu.Lock()
	defer h.mu.Unlock()

	delivered := false
	for sub := range h.subs[sid] {
		select {
		case sub.ch <- n:
			delivered = true
		default:
		}
	}
	if !delivered {
		h.park(sid, n)
	}
}

func (h *Hub) park(sid string, n models.Notification) {
	q := append(h.pending[sid], n)
	if len(q) > MaxPending {
		q = q[len(q)-MaxPending:]
	}
	h.pending[sid] = q
}

// Subscribe registers a listener and hands it whatever was parked for the session.
func (h *Hub) Subscribe(sid string) *Subscription {
	ch := make(chan models.Notification, subscriberBuffer)
	sub := &Subscription{C: ch, ch: ch, sid: sid, hub: h}

	h.mu.Lock()
	defer h.mu.Unlock()

	for _, n := range h.pending[sid] {
		ch <- n
	}
	delete(h.pending, sid)

	if h.subs[sid] == nil {
		h.subs[sid] = make(map[*Subscription]struct{})
	}
	h.subs[sid][sub] = struct{}{}
	return sub
}

// Close detaches the subscription. Safe to call more than once.
func (s *Subscription) Close() {
	s.once.Do(func() {
		h := s.hub
		h.mu.Lock()
		defer h.mu.Unlock()
		delete(h.subs[s.sid], s)
		if len(h.subs[s.sid]) == 0 {
			delete(h.subs, s.sid)
		}
		close(s.ch)
	})
}

// Drain returns and clears the parked notifications of a session.
func (h *Hub) Drain(sid string) []models.Notification {
	h.mu.Lock()
	defer h.mu.Unlock()
	q := h.pending[sid]
	delete(h.pending, sid)
	return q
}

// Forget drops everything parked for a session. Live subscribers are left alone.
func (h *Hub) Forget(sid string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.pending, sid)
}

// Subscribers reports how many listeners a session has.
func (h *Hub) Subscribers(sid string) int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.subs[sid])
}
