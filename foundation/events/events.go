// Package events allows the ledger to publish what it is doing to any
// number of subscribers, such as websocket connections.
package events

import (
	"fmt"
	"sync"
)

// messageBuffer is the number of messages a subscriber can fall behind
// before messages to it are dropped.
const messageBuffer = 100

// Events maintains a mapping of subscriber id to the channel the subscriber
// receives messages on.
type Events struct {
	mu   sync.RWMutex
	subs map[string]chan string
}

// New constructs an Events value for subscribing and publishing.
func New() *Events {
	return &Events{
		subs: make(map[string]chan string),
	}
}

// Shutdown closes and removes every subscriber channel.
func (evt *Events) Shutdown() {
	evt.mu.Lock()
	defer evt.mu.Unlock()

	for id, ch := range evt.subs {
		delete(evt.subs, id)
		close(ch)
	}
}

// Acquire returns the channel for the subscriber id, creating it if the id
// has not subscribed yet.
func (evt *Events) Acquire(id string) <-chan string {
	evt.mu.Lock()
	defer evt.mu.Unlock()

	if ch, exists := evt.subs[id]; exists {
		return ch
	}

	ch := make(chan string, messageBuffer)
	evt.subs[id] = ch

	return ch
}

// Release closes and removes the channel for the subscriber id.
func (evt *Events) Release(id string) error {
	evt.mu.Lock()
	defer evt.mu.Unlock()

	ch, exists := evt.subs[id]
	if !exists {
		return fmt.Errorf("subscriber %q does not exist", id)
	}

	delete(evt.subs, id)
	close(ch)

	return nil
}

// Subscribers returns the number of active subscribers.
func (evt *Events) Subscribers() int {
	evt.mu.RLock()
	defer evt.mu.RUnlock()

	return len(evt.subs)
}

// Send publishes the message to every subscriber. A subscriber that is not
// keeping up misses the message, Send never blocks.
func (evt *Events) Send(s string) {
	evt.mu.RLock()
	defer evt.mu.RUnlock()

	for _, ch := range evt.subs {
		select {
		case ch <- s:
		default:
		}
	}
}

// Sendf formats the message and publishes it. It has the signature of the
// ledger's event handler.
func (evt *Events) Sendf(format string, args ...any) {
	evt.Send(fmt.Sprintf(format, args...))
}
