package events

import (
	"sync"
	"sync/atomic"
)

// subscriberBuffer is how many events a slow client may fall behind before
// events are dropped for it.
const subscriberBuffer = 64

// Subscriber receives every emitted event until it is unsubscribed.
type Subscriber chan Event

// hub fans events out to websocket clients. Emit never waits on a
// subscriber: a full channel loses the event and the loss is counted.
type hub struct {
	mu      sync.RWMutex
	subs    map[Subscriber]struct{}
	dropped atomic.Uint64
}

var subscribers = &hub{subs: make(map[Subscriber]struct{})}

func (h *hub) add() Subscriber {
	ch := make(Subscriber, subscriberBuffer)
	h.mu.Lock()
	h.subs[ch] = struct{}{}
	h.mu.Unlock()
	return ch
}

// remove closes sub unless it was already removed.
func (h *hub) remove(sub Subscriber) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.subs[sub]; ok {
		delete(h.subs, sub)
		close(sub)
	}
}

func (h *hub) removeAll() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for sub := range h.subs {
		delete(h.subs, sub)
		close(sub)
	}
}

func (h *hub) send(e Event) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for sub := range h.subs {
		select {
		case sub <- e:
		default:
			h.dropped.Add(1)
		}
	}
}

func (h *hub) len() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subs)
}

func broadcast(e Event) { subscribers.send(e) }

// Subscribe registers a new subscriber.
func Subscribe() Subscriber { return subscribers.add() }

// Unsubscribe removes sub and closes its channel. Subscribers already
// closed by CloseAllSubscribers are ignored.
func Unsubscribe(sub Subscriber) { subscribers.remove(sub) }

// CloseAllSubscribers closes every subscriber. Called on shutdown.
func CloseAllSubscribers() { subscribers.removeAll() }

func SubscriberCount() int { return subscribers.len() }

// DroppedCount is the number of deliveries lost to full subscriber buffers.
func DroppedCount() uint64 { return subscribers.dropped.Load() }

// RecentEvents returns up to the last n events, oldest first. n <= 0
// returns all of them.
func RecentEvents(n int) []Event { return buffer.Last(n) }
