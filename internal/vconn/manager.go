// Package vconn implements the virtual-connection multiplexer described in
// spec §4.2: it tracks which (source, destination) pairs have an open
// CONNECT on the shared transport and enforces that no other traffic is
// written to a destination before one is. The set itself holds no TTL or
// background goroutine — a virtual connection has no independent expiry;
// it lives until an explicit CLOSE or the transport dies (spec §3).
package vconn

import (
	"fmt"
	"sync"
)

// ConnectionNamespace is the namespace CONNECT/CLOSE travel on.
const ConnectionNamespace = "urn:x-cast:com.google.cast.tp.connection"

// Key identifies one virtual connection by its sender/destination pair.
type Key struct {
	Source      string
	Destination string
}

func (k Key) String() string { return fmt.Sprintf("%s->%s", k.Source, k.Destination) }

// Writer is the subset of the channel a Manager needs: writing a framed
// CONNECT/CLOSE payload to a destination. Implemented by castchannel.Channel.
type Writer interface {
	WriteOneway(namespace, destinationID string, payload []byte) error
}

// Manager is the central registry of open virtual connections for one
// channel. It is safe for concurrent use.
type Manager struct {
	mu      sync.RWMutex
	open    map[Key]struct{}
	writer  Writer
	connectPayload func() ([]byte, error)
	closePayload   func() ([]byte, error)

	// onPendingClose is invoked after an inbound CLOSE is observed or the
	// transport is invalidated, so pending requests addressed to dest can be
	// failed immediately. It is set by the channel, not by vconn's own
	// callers.
	onPendingClose func(dest string)
}

// NewManager creates a Manager that writes CONNECT/CLOSE envelopes through
// w. connectPayload/closePayload build the JSON body each time (so the
// manager never needs to know about requestId stamping, which never
// applies to these oneway messages).
func NewManager(w Writer, connectPayload, closePayload func() ([]byte, error)) *Manager {
	return &Manager{
		open:           make(map[Key]struct{}),
		writer:         w,
		connectPayload: connectPayload,
		closePayload:   closePayload,
	}
}

// SetOnPendingClose registers the callback fired when a destination's
// virtual connection is closed by the remote end (OnCloseReceived) or
// dropped with the transport (InvalidateAll). Close does not fire it.
func (m *Manager) SetOnPendingClose(fn func(dest string)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.onPendingClose = fn
}

// IsOpen reports whether (source, dest) has an open virtual connection.
func (m *Manager) IsOpen(source, dest string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, ok := m.open[Key{Source: source, Destination: dest}]
	return ok
}

// Ensure opens (source, dest) if it isn't already: writes a CONNECT and
// marks the key open. CONNECT has no response; success is assumed once
// written (spec §4.2).
func (m *Manager) Ensure(source, dest string) error {
	key := Key{Source: source, Destination: dest}

	m.mu.Lock()
	if _, ok := m.open[key]; ok {
		m.mu.Unlock()
		return nil
	}
	m.mu.Unlock()

	payload, err := m.connectPayload()
	if err != nil {
		return fmt.Errorf("vconn: build CONNECT payload: %w", err)
	}
	if err := m.writer.WriteOneway(ConnectionNamespace, dest, payload); err != nil {
		return fmt.Errorf("vconn: write CONNECT to %s: %w", dest, err)
	}

	m.mu.Lock()
	m.open[key] = struct{}{}
	m.mu.Unlock()
	return nil
}

// Close tears down (source, dest) if open: writes a CLOSE and marks the key
// closed. Idempotent — closing an already-closed key is a no-op.
func (m *Manager) Close(source, dest string) error {
	key := Key{Source: source, Destination: dest}

	m.mu.Lock()
	if _, ok := m.open[key]; !ok {
		m.mu.Unlock()
		return nil
	}
	delete(m.open, key)
	m.mu.Unlock()

	payload, err := m.closePayload()
	if err != nil {
		return fmt.Errorf("vconn: build CLOSE payload: %w", err)
	}
	return m.writer.WriteOneway(ConnectionNamespace, dest, payload)
}

// OnCloseReceived marks (source, dest) closed in response to an inbound
// CLOSE and notifies the channel so pending requests against dest can fail
// with ConnectionClosed (spec §4.2).
func (m *Manager) OnCloseReceived(source, dest string) {
	key := Key{Source: source, Destination: dest}

	m.mu.Lock()
	_, wasOpen := m.open[key]
	delete(m.open, key)
	cb := m.onPendingClose
	m.mu.Unlock()

	if wasOpen && cb != nil {
		cb(dest)
	}
}

// InvalidateAll marks every open key closed without writing anything,
// called once when the underlying transport fails (spec §3: "implicitly
// invalidated on transport failure").
func (m *Manager) InvalidateAll() {
	m.mu.Lock()
	keys := make([]Key, 0, len(m.open))
	for k := range m.open {
		keys = append(keys, k)
	}
	m.open = make(map[Key]struct{})
	cb := m.onPendingClose
	m.mu.Unlock()

	if cb != nil {
		for _, k := range keys {
			cb(k.Destination)
		}
	}
}

// Open returns a snapshot of all currently open keys, mostly useful for
// diagnostics and tests.
func (m *Manager) Open() []Key {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]Key, 0, len(m.open))
	for k := range m.open {
		out = append(out, k)
	}
	return out
}
