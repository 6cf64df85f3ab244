// Package castwire implements the Cast wire codec: a big-endian length
// prefix around a protobuf-serialized envelope carrying a JSON payload.
// It is pure encode/decode with no knowledge of namespaces, requests, or
// connection lifecycle — those live in internal/vconn and
// internal/castchannel.
package castwire

import (
	"encoding/binary"
	"fmt"
	"io"

	proto "github.com/golang/protobuf/proto"
)

// maxFrameSize guards against a corrupt or hostile length prefix driving an
// unbounded allocation. Real receiver payloads are a few KB at most.
const maxFrameSize = 64 * 1024 * 1024

// FramingError indicates the length-prefixed stream could not be parsed:
// EOF mid-length or mid-body. Per spec §4.1 both are fatal for the channel.
type FramingError struct {
	Stage string // "length" or "body"
	Err   error
}

func (e *FramingError) Error() string {
	return fmt.Sprintf("castwire: framing error reading %s: %v", e.Stage, e.Err)
}

func (e *FramingError) Unwrap() error { return e.Err }

// NewStringEnvelope builds a CastMessage carrying a UTF-8 JSON payload.
func NewStringEnvelope(sourceID, destinationID, namespace, payload string) *CastMessage {
	return &CastMessage{
		ProtocolVersion: protocolVersionPtr(ProtocolVersion_CASTV2_1_0),
		SourceId:        &sourceID,
		DestinationId:   &destinationID,
		Namespace:       &namespace,
		PayloadType:     payloadTypePtr(PayloadType_STRING),
		PayloadUtf8:     &payload,
	}
}

// WriteEnvelope encodes env and writes the length-prefixed frame to w in a
// single call. Callers are responsible for serializing writes across a
// shared connection (see castchannel's writer mutex).
func WriteEnvelope(w io.Writer, env *CastMessage) error {
	if err := env.validate(); err != nil {
		return err
	}
	body, err := proto.Marshal(env)
	if err != nil {
		return fmt.Errorf("castwire: marshal envelope: %w", err)
	}
	if len(body) > maxFrameSize {
		return fmt.Errorf("castwire: outbound frame too large (%d bytes)", len(body))
	}

	frame := make([]byte, 4+len(body))
	binary.BigEndian.PutUint32(frame, uint32(len(body)))
	copy(frame[4:], body)

	if _, err := w.Write(frame); err != nil {
		return fmt.Errorf("castwire: write frame: %w", err)
	}
	return nil
}

// ReadEnvelope reads one length-prefixed frame from r and decodes it.
// A short read at either the length or body stage returns a *FramingError;
// the channel treats that as a fatal transport failure (spec §4.1, §7).
func ReadEnvelope(r io.Reader) (*CastMessage, error) {
	var lenBuf [4]byte
	if _, err := io.ReadFull(r, lenBuf[:]); err != nil {
		return nil, &FramingError{Stage: "length", Err: err}
	}
	length := binary.BigEndian.Uint32(lenBuf[:])
	if length == 0 {
		return nil, fmt.Errorf("castwire: zero-length frame")
	}
	if length > maxFrameSize {
		return nil, fmt.Errorf("castwire: inbound frame too large (%d bytes)", length)
	}

	body := make([]byte, length)
	if _, err := io.ReadFull(r, body); err != nil {
		return nil, &FramingError{Stage: "body", Err: err}
	}

	env := &CastMessage{}
	if err := proto.Unmarshal(body, env); err != nil {
		return nil, fmt.Errorf("castwire: unmarshal envelope: %w", err)
	}
	if err := env.validate(); err != nil {
		return nil, err
	}
	return env, nil
}
