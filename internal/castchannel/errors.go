package castchannel

import (
	"errors"
	"fmt"

	"github.com/sebas/gocast/internal/castproto"
)

// The channel's error taxonomy (spec §7). Only TransportFailure is fatal
// for the channel; the rest are scoped to a single request or are advisory
// (DecodeError is logged, never returned to a caller).

// ErrConnectionClosed is the sentinel wrapped by every ConnectionClosed
// instance, usable with errors.Is.
var ErrConnectionClosed = errors.New("castchannel: connection closed")

// ErrTimeout is the sentinel wrapped by every Timeout instance.
var ErrTimeout = errors.New("castchannel: request timed out")

// errHeartbeatTimeout is the TransportFailure cause used when no traffic at
// all has arrived within HeartbeatTimeout (spec scenario S6).
var errHeartbeatTimeout = errors.New("castchannel: heartbeat timeout, no traffic from receiver")

// TransportFailure indicates the TLS connection itself failed: dial error,
// framing error, or EOF mid-frame. It is fatal for the channel: every
// pending request is completed with a TransportFailure-derived
// ConnectionClosed.
type TransportFailure struct {
	Cause error
}

func (e *TransportFailure) Error() string { return fmt.Sprintf("castchannel: transport failure: %v", e.Cause) }
func (e *TransportFailure) Unwrap() error { return e.Cause }

// Timeout indicates a request's deadline elapsed before a response arrived.
// The channel remains open; a late response for that requestId is treated
// as an unsolicited event.
type Timeout struct {
	Namespace string
	RequestID uint64
}

func (e *Timeout) Error() string {
	return fmt.Sprintf("castchannel: request %d on %s timed out", e.RequestID, e.Namespace)
}
func (e *Timeout) Unwrap() error { return ErrTimeout }

// ConnectionClosed indicates the channel was closed (locally or remotely)
// before a response arrived.
type ConnectionClosed struct {
	Cause error
}

func (e *ConnectionClosed) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("castchannel: connection closed: %v", e.Cause)
	}
	return "castchannel: connection closed"
}
func (e *ConnectionClosed) Unwrap() error { return ErrConnectionClosed }

// ProtocolError indicates a correlated response arrived but was of an
// unexpected variant, or a required field was missing.
type ProtocolError struct {
	Namespace string
	Want      string
	Got       string
}

func (e *ProtocolError) Error() string {
	return fmt.Sprintf("castchannel: %s: expected %s, got %s", e.Namespace, e.Want, e.Got)
}

// ReceiverError wraps a well-formed error response the receiver sent back
// (LAUNCH_ERROR, LOAD_FAILED, LOAD_CANCELLED, INVALID_REQUEST,
// INVALID_PLAYER_STATE, ERROR), preserving whatever detail fields it
// carried.
type ReceiverError struct {
	Response castproto.ReceiverErrorResponse
}

func (e *ReceiverError) Error() string {
	if e.Response.Reason != "" {
		return fmt.Sprintf("castchannel: receiver error %s: %s", e.Response.ResponseType(), e.Response.Reason)
	}
	return fmt.Sprintf("castchannel: receiver error %s", e.Response.ResponseType())
}

// IsLaunchFailed reports whether this is a LAUNCH_ERROR.
func (e *ReceiverError) IsLaunchFailed() bool { return e.Response.ResponseType() == "LAUNCH_ERROR" }
