package castchannel

import (
	"sync"

	"github.com/sebas/gocast/internal/castproto"
)

// pendingResult is delivered at most once to a pending request's channel,
// either by a matching response or by the channel (or the destination's
// virtual connection) closing. A timeout removes the entry without
// delivering anything, so each request still completes exactly once.
type pendingResult struct {
	response castproto.Response
	err      error
}

type pendingEntry struct {
	id          uint64
	namespace   string
	destination string
	done        chan pendingResult
}

// pendingRegistry is the channel's request-correlation table: requestId ->
// the one-shot slot awaiting its response (spec §3 "Pending Request",
// §4.3 "Request correlation"). A pending request has no TTL refresh, only
// removal — closer to a one-shot promise than a cache entry.
type pendingRegistry struct {
	mu    sync.Mutex
	items map[uint64]*pendingEntry
}

func newPendingRegistry() *pendingRegistry {
	return &pendingRegistry{items: make(map[uint64]*pendingEntry)}
}

// register creates and stores a new pending entry for id. The caller must
// eventually call complete, remove, failAll, or failDestination exactly once
// for this id.
func (r *pendingRegistry) register(id uint64, namespace, destination string) *pendingEntry {
	e := &pendingEntry{id: id, namespace: namespace, destination: destination, done: make(chan pendingResult, 1)}
	r.mu.Lock()
	r.items[id] = e
	r.mu.Unlock()
	return e
}

// complete delivers resp to the pending entry for id, if one still exists.
// It reports whether a pending entry was found — a false return means the
// id belongs to a late/unsolicited message and the caller should treat it
// as an event instead (spec §4.3 step 4/5).
func (r *pendingRegistry) complete(id uint64, resp castproto.Response) bool {
	r.mu.Lock()
	e, ok := r.items[id]
	if ok {
		delete(r.items, id)
	}
	r.mu.Unlock()
	if !ok {
		return false
	}
	e.done <- pendingResult{response: resp}
	return true
}

// remove deregisters id without delivering anything, used after a timeout
// has already been reported to the caller.
func (r *pendingRegistry) remove(id uint64) {
	r.mu.Lock()
	delete(r.items, id)
	r.mu.Unlock()
}

// failAll completes every still-pending entry with err, used when the
// channel closes (spec §4.3 step 5, §5 "Cancellation & timeouts").
func (r *pendingRegistry) failAll(err error) {
	r.mu.Lock()
	items := r.items
	r.items = make(map[uint64]*pendingEntry)
	r.mu.Unlock()

	for _, e := range items {
		e.done <- pendingResult{err: err}
	}
}

// failDestination completes every pending entry addressed to dest with err,
// used when a virtual connection's CLOSE is observed (spec §4.2
// "on_close_received").
func (r *pendingRegistry) failDestination(dest string, err error) {
	r.mu.Lock()
	var matched []*pendingEntry
	for id, e := range r.items {
		if e.destination == dest {
			matched = append(matched, e)
			delete(r.items, id)
		}
	}
	r.mu.Unlock()

	for _, e := range matched {
		e.done <- pendingResult{err: err}
	}
}

func (r *pendingRegistry) len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.items)
}
