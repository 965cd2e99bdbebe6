// Package notify provides a small in-process change-event hub.
// Store mutations publish events; the active-list projector subscribes and
// recomputes its view on every change. Events carry no payload — a subscriber
// always rebuilds from current store state, so missed or coalesced events
// cannot produce a wrong view.
package notify

import "sync"

// Event identifies which upstream data set changed.
type Event int

const (
	// PrescriptionsChanged fires after any prescription mutation, including
	// the daily recompute batch.
	PrescriptionsChanged Event = iota + 1
	// TermsChanged fires after the schedule-term table is (re)seeded.
	TermsChanged
)

// Hub fans events out to subscribers without blocking publishers.
// Each subscriber channel has capacity 1; when a subscriber is busy, further
// events are dropped. That is safe here because every event means the same
// thing — "recompute from current state" — so one pending event subsumes any
// number of dropped ones.
type Hub struct {
	mu   sync.Mutex
	subs []chan Event
}

// NewHub returns an empty Hub.
func NewHub() *Hub {
	return &Hub{}
}

// Subscribe registers a new subscriber and returns its receive channel.
func (h *Hub) Subscribe() <-chan Event {
	ch := make(chan Event, 1)
	h.mu.Lock()
	h.subs = append(h.subs, ch)
	h.mu.Unlock()
	return ch
}

// Publish delivers e to every subscriber that is ready to receive.
// Never blocks the caller.
func (h *Hub) Publish(e Event) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for _, ch := range h.subs {
		select {
		case ch <- e:
		default:
		}
	}
}
