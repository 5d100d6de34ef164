// Package notify implements single-slot toast notifications. Each
// shopper has at most one visible toast: showing a new one replaces
// whatever was on screen, dismissal clears the slot, and every toast
// auto-dismisses after its duration unless superseded first.
// Subscribers (the SSE stream) receive every slot change.
package notify

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/angotech/angotech/pkg/metrics"
)

// Toast kinds. "success" confirms a state change, "info" reports a
// no-op or limit (stock ceiling reached, item was not in the cart).
const (
	KindSuccess = "success"
	KindInfo    = "info"
	KindError   = "error"
)

// DefaultDuration is how long a toast stays up when the caller does
// not pick one.
const DefaultDuration = 5 * time.Second

// Toast is one notification occupying the slot.
type Toast struct {
	ID        string    `json:"id"`
	Kind      string    `json:"kind"`
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"created_at"`
}

// Change is what subscribers receive: the toast now occupying the
// slot, or Toast == nil when the slot was cleared.
type Change struct {
	Toast *Toast `json:"toast"`
}

type slot struct {
	current     *Toast
	timer       *time.Timer
	subscribers map[chan Change]struct{}
}

// Hub holds one toast slot per shopper key (user id or guest token).
type Hub struct {
	mu    sync.Mutex
	slots map[string]*slot
}

func NewHub() *Hub {
	return &Hub{slots: make(map[string]*slot)}
}

func (h *Hub) slotFor(key string) *slot {
	s, ok := h.slots[key]
	if !ok {
		s = &slot{subscribers: make(map[chan Change]struct{})}
		h.slots[key] = s
	}
	return s
}

// Show places a toast in the shopper's slot, replacing any current one
// and cancelling its auto-dismiss timer. The new toast auto-dismisses
// after duration (DefaultDuration when <= 0). Returns the toast shown.
func (h *Hub) Show(key, kind, message string, duration time.Duration) *Toast {
	if duration <= 0 {
		duration = DefaultDuration
	}

	t := &Toast{
		ID:        uuid.NewString(),
		Kind:      kind,
		Message:   message,
		CreatedAt: time.Now(),
	}

	h.mu.Lock()
	s := h.slotFor(key)
	if s.timer != nil {
		s.timer.Stop()
	}
	s.current = t
	s.timer = time.AfterFunc(duration, func() { h.Dismiss(key, t.ID) })
	subs := snapshot(s)
	h.mu.Unlock()

	metrics.ToastsShown.WithLabelValues(kind).Inc()
	fanOut(subs, Change{Toast: t})
	return t
}

// Success shows a success toast with the default duration.
func (h *Hub) Success(key, message string) *Toast {
	return h.Show(key, KindSuccess, message, 0)
}

// Info shows an informational toast with the default duration.
func (h *Hub) Info(key, message string) *Toast {
	return h.Show(key, KindInfo, message, 0)
}

// Error shows an error toast with the default duration.
func (h *Hub) Error(key, message string) *Toast {
	return h.Show(key, KindError, message, 0)
}

// Dismiss clears the slot when id matches the current toast. A stale
// id (the toast was already replaced) is ignored.
func (h *Hub) Dismiss(key, id string) bool {
	h.mu.Lock()
	s, ok := h.slots[key]
	if !ok || s.current == nil || s.current.ID != id {
		h.mu.Unlock()
		return false
	}
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
	s.current = nil
	subs := snapshot(s)
	h.mu.Unlock()

	fanOut(subs, Change{})
	return true
}

// Current returns the toast occupying the slot, or nil.
func (h *Hub) Current(key string) *Toast {
	h.mu.Lock()
	defer h.mu.Unlock()

	if s, ok := h.slots[key]; ok {
		return s.current
	}
	return nil
}

// Subscribe registers a channel that receives every slot change for key.
// The returned cancel func must be called when the subscriber goes away.
func (h *Hub) Subscribe(key string) (<-chan Change, func()) {
	ch := make(chan Change, 8)

	h.mu.Lock()
	s := h.slotFor(key)
	s.subscribers[ch] = struct{}{}
	h.mu.Unlock()

	cancel := func() {
		h.mu.Lock()
		delete(s.subscribers, ch)
		if s.current == nil && len(s.subscribers) == 0 {
			if s.timer != nil {
				s.timer.Stop()
			}
			delete(h.slots, key)
		}
		h.mu.Unlock()
	}
	return ch, cancel
}

func snapshot(s *slot) []chan Change {
	subs := make([]chan Change, 0, len(s.subscribers))
	for ch := range s.subscribers {
		subs = append(subs, ch)
	}
	return subs
}

func fanOut(subs []chan Change, c Change) {
	for _, ch := range subs {
		select {
		case ch <- c:
		default: // slow subscriber, drop rather than block
		}
	}
}
