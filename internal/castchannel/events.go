package castchannel

import (
	"sync"

	"github.com/sebas/gocast/internal/castproto"
)

// Event is an unsolicited response delivered to a listener: a response that
// did not correlate to any pending request (spec §4.3 step 5, §9 "Listener
// fan-out").
type Event struct {
	Namespace string
	Response  castproto.Response
}

// listener is one subscriber's bounded mailbox. Full mailboxes drop the
// event rather than block the reader goroutine (spec §9: "prefer a bounded
// non-blocking queue; a slow listener must never stall the reader").
type listener struct {
	id int
	ch chan Event
}

// eventBus fans a single stream of events out to any number of listeners.
type eventBus struct {
	mu        sync.RWMutex
	listeners map[int]*listener
	nextID    int
	queueSize int
	dropped   func(l *listener, ev Event)
}

func newEventBus(queueSize int) *eventBus {
	if queueSize <= 0 {
		queueSize = 1
	}
	return &eventBus{
		listeners: make(map[int]*listener),
		queueSize: queueSize,
	}
}

// subscribe registers a new listener and returns its channel plus an
// unsubscribe function.
func (b *eventBus) subscribe() (<-chan Event, func()) {
	b.mu.Lock()
	id := b.nextID
	b.nextID++
	l := &listener{id: id, ch: make(chan Event, b.queueSize)}
	b.listeners[id] = l
	b.mu.Unlock()

	unsubscribe := func() {
		b.mu.Lock()
		delete(b.listeners, id)
		b.mu.Unlock()
	}
	return l.ch, unsubscribe
}

// publish delivers ev to every subscriber without blocking. A listener
// whose queue is full simply misses this event.
func (b *eventBus) publish(ev Event) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	for _, l := range b.listeners {
		select {
		case l.ch <- ev:
		default:
			if b.dropped != nil {
				b.dropped(l, ev)
			}
		}
	}
}

// closeAll closes every listener's channel, signaling no further events
// will arrive (called once when the channel shuts down).
func (b *eventBus) closeAll() {
	b.mu.Lock()
	defer b.mu.Unlock()
	for id, l := range b.listeners {
		close(l.ch)
		delete(b.listeners, id)
	}
}
