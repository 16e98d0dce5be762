package events

import (
	"sync/atomic"
	"time"
)

// storeQueueSize bounds how far persistence may lag behind Emit.
const storeQueueSize = 1024

var storeDropped atomic.Uint64

type record struct {
	ts      time.Time
	level   string
	name    string
	msg     string
	fields  map[string]interface{}
	session string
}

// writer owns the only goroutine that talks to the store. Emit hands it
// records without waiting, so a slow database never stalls the caller.
type writer struct {
	store  Store
	queue  chan record
	done   chan struct{}
	failed bool
}

func newWriter(s Store) *writer {
	w := &writer{
		store: s,
		queue: make(chan record, storeQueueSize),
		done:  make(chan struct{}),
	}
	go w.run()
	return w
}

// enqueue must be called with storeMu held for reading, which keeps it
// from racing the close in SetStore.
func (w *writer) enqueue(r record) {
	select {
	case w.queue <- r:
	default:
		storeDropped.Add(1)
	}
}

func (w *writer) run() {
	defer close(w.done)
	for r := range w.queue {
		err := w.store.Append(r.ts, r.level, r.name, r.msg, r.fields, r.session)
		if err == nil || w.failed {
			continue
		}
		// Only the first failure is reported, straight into the buffer.
		// Going through Emit would feed the failing store again.
		w.failed = true
		buffer.Add(Event{
			Timestamp: time.Now().UTC().Format(time.RFC3339Nano),
			Level:     "error",
			Name:      "system.error",
			Message:   "event store append failed",
			Fields:    map[string]interface{}{"error": err.Error()},
		})
	}
}

// StoreDroppedCount is the number of events never persisted because the
// store queue was full.
func StoreDroppedCount() uint64 { return storeDropped.Load() }
