// Package events provides an in-process broadcast bus so that views can
// refresh after out-of-band edits.
package events

import "sync"

// Topic identifies a broadcast channel.
type Topic string

// RecordsUpdated fires after any record mutation performed outside the
// currently displayed list: batch commits, point edits, clear-all.
const RecordsUpdated Topic = "records:updated"

// Bus is a process-local publish/subscribe broadcaster. Publishing never
// blocks: a subscriber that has not drained its channel simply coalesces
// notifications.
type Bus struct {
	subs map[Topic][]chan struct{}
	mu   sync.Mutex
}

// NewBus creates an empty bus.
func NewBus() *Bus {
	return &Bus{subs: make(map[Topic][]chan struct{})}
}

// Subscribe registers for a topic. The returned cancel func must be called
// when the subscriber goes away.
func (b *Bus) Subscribe(topic Topic) (<-chan struct{}, func()) {
	ch := make(chan struct{}, 1)

	b.mu.Lock()
	b.subs[topic] = append(b.subs[topic], ch)
	b.mu.Unlock()

	cancel := func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		list := b.subs[topic]
		for i, c := range list {
			if c == ch {
				b.subs[topic] = append(list[:i], list[i+1:]...)
				break
			}
		}
	}
	return ch, cancel
}

// Publish notifies every subscriber of the topic.
func (b *Bus) Publish(topic Topic) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for _, ch := range b.subs[topic] {
		select {
		case ch <- struct{}{}:
		default:
		}
	}
}
