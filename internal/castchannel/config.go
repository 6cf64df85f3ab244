package castchannel

import (
	"crypto/x509"
	"time"

	"github.com/sebas/gocast/internal/castproto"
)

// Config is the channel's configuration surface (spec §6): heartbeat
// cadence and liveness timeout, the default per-request deadline, the
// CONNECT message's advertised identity, and a pluggable TLS verifier for
// callers that want to pin a receiver's self-signed certificate instead of
// accepting any (spec §7.1/§9 "Self-signed TLS").
type Config struct {
	// HeartbeatInterval is how often a PING is sent when no other traffic
	// has gone out in that window. Default 5s.
	HeartbeatInterval time.Duration

	// HeartbeatTimeout is how long the channel tolerates silence (no PONG,
	// no other inbound message) before declaring the transport dead.
	// Default 30s.
	HeartbeatTimeout time.Duration

	// RequestTimeout is the default deadline for a correlated request that
	// does not specify its own. Default 30s.
	RequestTimeout time.Duration

	// UserAgent and ConnType are carried on every CONNECT.
	UserAgent string
	ConnType  castproto.ConnType

	// TLSVerify, if set, is consulted with the receiver's leaf certificate
	// instead of the default accept-any-self-signed-cert behavior.
	TLSVerify func(*x509.Certificate) error

	// DecodeStrict disables the lenient MediaStatus fallback described in
	// spec §9's Open Question. Default false (lenient).
	DecodeStrict bool

	// EventQueueSize bounds the per-listener event channel (spec §9
	// "Listener fan-out: prefer a bounded non-blocking queue").
	EventQueueSize int
}

// DefaultConfig returns the spec's documented defaults.
func DefaultConfig() Config {
	return Config{
		HeartbeatInterval: 5 * time.Second,
		HeartbeatTimeout:  30 * time.Second,
		RequestTimeout:    30 * time.Second,
		UserAgent:         "gocast",
		ConnType:          castproto.ConnTypeStrong,
		EventQueueSize:    64,
	}
}
