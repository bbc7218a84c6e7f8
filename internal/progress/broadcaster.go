// Package progress implements the fire-and-forget progress broadcaster.
// Events are delivered at-most-once to each connected listener; there is no
// replay buffer and a broken listener never blocks the others.
package progress

import (
	"log"
	"sync"

	"github.com/redacaolab/redator/internal/types"
)

// Listener receives progress events. Send must not block indefinitely; the
// broadcaster ignores send errors.
type Listener interface {
	Send(ev types.ProgressEvent) error
}

// Broadcaster owns the listener registry. Subscribe on connection open,
// Unsubscribe on close.
type Broadcaster struct {
	mu        sync.Mutex
	listeners map[int]Listener
	nextID    int
}

func NewBroadcaster() *Broadcaster {
	return &Broadcaster{listeners: make(map[int]Listener)}
}

// Subscribe registers a listener and returns its id for Unsubscribe.
func (b *Broadcaster) Subscribe(l Listener) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	id := b.nextID
	b.nextID++
	b.listeners[id] = l
	return id
}

// Unsubscribe removes a listener. Safe to call with an unknown id.
func (b *Broadcaster) Unsubscribe(id int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	delete(b.listeners, id)
}

// Publish delivers the event to a snapshot of the current listeners. A write
// failure to one listener is logged and does not affect the rest.
func (b *Broadcaster) Publish(event, message string) {
	b.mu.Lock()
	snapshot := make([]Listener, 0, len(b.listeners))
	for _, l := range b.listeners {
		snapshot = append(snapshot, l)
	}
	b.mu.Unlock()

	ev := types.ProgressEvent{Event: event, Message: message}
	for _, l := range snapshot {
		if err := l.Send(ev); err != nil {
			log.Printf("progress: falha ao enviar evento %q: %v", event, err)
		}
	}
}

// Count returns the number of connected listeners.
func (b *Broadcaster) Count() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.listeners)
}
