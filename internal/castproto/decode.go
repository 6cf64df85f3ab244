package castproto

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// wireEnvelope probes the two fields every inbound payload shares: the
// discriminator (outbound "type", inbound "responseType" — spec §4.1 notes
// the receiver renames it, and some messages, like the S1 fixture, send
// "type" anyway) and the correlation id.
type wireEnvelope struct {
	Type         string `json:"type"`
	ResponseType string `json:"responseType"`
	RequestID    uint64 `json:"requestId"`
}

func (e wireEnvelope) discriminator() string {
	if e.ResponseType != "" {
		return e.ResponseType
	}
	return e.Type
}

// Decoder decodes inbound JSON payloads into Response values. The zero
// value is the lenient decoder matching observed receiver behavior; set
// Strict to recover spec §9's documented alternative for the
// MediaStatusResponseDeserializer's undocumented fallback.
type Decoder struct {
	// Strict disables the "status field absent -> whole message is a
	// single MediaStatus" fallback. When Strict is true that shape
	// decodes as a DecodeError instead.
	Strict bool
}

// DefaultDecoder is the lenient decoder used by DecodeResponse.
var DefaultDecoder = Decoder{Strict: false}

// DecodeResponse parses payload with the package's default (lenient)
// decoder. Most callers should use this; castchannel uses a configurable
// Decoder so ChannelConfig.DecodeStrict can reach it.
func DecodeResponse(payload []byte) (Response, error) {
	return DefaultDecoder.Decode(payload)
}

// DecodeError wraps a malformed inbound payload. Per spec §7 this is never
// fatal: the channel logs it and continues.
type DecodeError struct {
	Discriminator string
	Err           error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("castproto: decode %q response: %v", e.Discriminator, e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }

// Decode parses one JSON response payload and dispatches it to a concrete
// Response by discriminator. An unrecognized discriminator never errors: it
// becomes an UnknownResponse so requestId-based correlation (and, for
// unsolicited messages, event delivery) keeps working (spec invariant 6).
func (d Decoder) Decode(payload []byte) (Response, error) {
	var env wireEnvelope
	if err := json.Unmarshal(payload, &env); err != nil {
		return nil, &DecodeError{Err: err}
	}
	disc := env.discriminator()
	b := base{Type_: disc, RequestID_: env.RequestID}

	switch disc {
	case "RECEIVER_STATUS":
		var r ReceiverStatusResponse
		if err := json.Unmarshal(payload, &r); err != nil {
			return nil, &DecodeError{Discriminator: disc, Err: err}
		}
		r.base = b
		return r, nil

	case "GET_APP_AVAILABILITY":
		var r AppAvailabilityResponse
		if err := json.Unmarshal(payload, &r); err != nil {
			return nil, &DecodeError{Discriminator: disc, Err: err}
		}
		r.base = b
		return r, nil

	case "MEDIA_STATUS":
		return d.decodeMediaStatus(payload, b)

	case "MULTIZONE_STATUS":
		var r MultizoneStatusResponse
		if err := json.Unmarshal(payload, &r); err != nil {
			return nil, &DecodeError{Discriminator: disc, Err: err}
		}
		r.base = b
		return r, nil

	case "DEVICE_ADDED", "DEVICE_UPDATED", "DEVICE_REMOVED":
		var r DeviceEventResponse
		if err := json.Unmarshal(payload, &r); err != nil {
			return nil, &DecodeError{Discriminator: disc, Err: err}
		}
		r.base = b
		return r, nil

	case "LAUNCH_ERROR", "INVALID_REQUEST", "INVALID_PLAYER_STATE",
		"LOAD_CANCELLED", "LOAD_FAILED", "ERROR":
		var r ReceiverErrorResponse
		if err := json.Unmarshal(payload, &r); err != nil {
			return nil, &DecodeError{Discriminator: disc, Err: err}
		}
		r.base = b
		return r, nil

	case "PONG":
		return PongResponse{base: b}, nil

	case "CLOSE":
		return CloseResponse{base: b}, nil

	default:
		return UnknownResponse{base: b, Raw: append(json.RawMessage(nil), payload...)}, nil
	}
}

// decodeMediaStatus implements spec §4.1's tolerance for both wire shapes
// of MediaStatus.status (a single object or an array), plus §9's Open
// Question on the undocumented missing-status fallback.
func (d Decoder) decodeMediaStatus(payload []byte, b base) (Response, error) {
	var probe struct {
		Status json.RawMessage `json:"status"`
	}
	if err := json.Unmarshal(payload, &probe); err != nil {
		return nil, &DecodeError{Discriminator: "MEDIA_STATUS", Err: err}
	}

	r := MediaStatusResponse{base: b}
	switch {
	case len(probe.Status) == 0 || bytes.Equal(bytes.TrimSpace(probe.Status), []byte("null")):
		if d.Strict {
			return nil, &DecodeError{Discriminator: "MEDIA_STATUS", Err: fmt.Errorf("missing status field")}
		}
		// Lenient fallback (spec §9 Open Question): reinterpret the whole
		// message as a single MediaStatus object.
		var single MediaStatus
		if err := json.Unmarshal(payload, &single); err != nil {
			return nil, &DecodeError{Discriminator: "MEDIA_STATUS", Err: err}
		}
		if single.MediaSessionID != 0 {
			r.Status = []MediaStatus{single}
		}
		return r, nil

	case bytes.HasPrefix(bytes.TrimSpace(probe.Status), []byte("[")):
		var list []MediaStatus
		if err := json.Unmarshal(probe.Status, &list); err != nil {
			return nil, &DecodeError{Discriminator: "MEDIA_STATUS", Err: err}
		}
		r.Status = list
		return r, nil

	default:
		var single MediaStatus
		if err := json.Unmarshal(probe.Status, &single); err != nil {
			return nil, &DecodeError{Discriminator: "MEDIA_STATUS", Err: err}
		}
		r.Status = []MediaStatus{single}
		return r, nil
	}
}
