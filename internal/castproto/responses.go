package castproto

import "encoding/json"

// Response is satisfied by every inbound message variant, known or not.
// Unlike Request, this union is open: DecodeResponse never fails because a
// discriminator is unrecognized — it falls back to UnknownResponse, which
// still exposes RequestID so correlation keeps working across receiver
// firmware updates (spec §4.4: "open... for response families").
type Response interface {
	ResponseType() string
	RequestID() uint64
}

// base is embedded by every concrete response to carry the correlation id.
type base struct {
	Type_      string `json:"-"`
	RequestID_ uint64 `json:"-"`
}

func (b base) RequestID() uint64 { return b.RequestID_ }

// ReceiverStatusResponse answers GET_STATUS, LAUNCH, STOP, or SET_VOLUME.
type ReceiverStatusResponse struct {
	base
	Status ReceiverStatus `json:"status"`
}

func (r ReceiverStatusResponse) ResponseType() string { return "RECEIVER_STATUS" }

// AppAvailabilityResponse answers GET_APP_AVAILABILITY: appId -> "APP_AVAILABLE"
// or "APP_UNAVAILABLE".
type AppAvailabilityResponse struct {
	base
	Availability map[string]string `json:"availability"`
}

func (r AppAvailabilityResponse) ResponseType() string { return "GET_APP_AVAILABILITY" }

// IsAvailable reports whether appID was reported available.
func (r AppAvailabilityResponse) IsAvailable(appID string) bool {
	return r.Availability[appID] == "APP_AVAILABLE"
}

// MediaStatusResponse answers LOAD, PLAY, PAUSE, SEEK, or a media GET_STATUS.
// Status tolerates both wire shapes described in spec §4.1: a bare object or
// an array both decode into this slice. An absent field decodes to nil, except
// that the lenient Decoder turns inline status fields carrying a non-zero
// mediaSessionId into a single entry.
type MediaStatusResponse struct {
	base
	Status []MediaStatus `json:"status"`
}

func (r MediaStatusResponse) ResponseType() string { return "MEDIA_STATUS" }

// First returns the first status entry, or the zero value and false if the
// list is empty (spec §4.5: "await MEDIA_STATUS with a non-empty list").
func (r MediaStatusResponse) First() (MediaStatus, bool) {
	if len(r.Status) == 0 {
		return MediaStatus{}, false
	}
	return r.Status[0], true
}

// MultizoneStatus carries the full speaker-group membership.
type MultizoneStatus struct {
	Devices []MultizoneDevice `json:"devices"`
}

type MultizoneStatusResponse struct {
	base
	Status MultizoneStatus `json:"status"`
}

func (r MultizoneStatusResponse) ResponseType() string { return "MULTIZONE_STATUS" }

// DeviceEventResponse carries a DEVICE_ADDED/DEVICE_UPDATED/DEVICE_REMOVED
// multizone broadcast. These are normally unsolicited (requestId 0) and
// delivered as events rather than completing a pending request.
type DeviceEventResponse struct {
	base
	Device MultizoneDevice `json:"device"`
}

func (r DeviceEventResponse) ResponseType() string { return r.Type_ }

// ReceiverErrorResponse models the well-formed error variants spec §7
// groups as ReceiverError: LAUNCH_ERROR, LOAD_FAILED, LOAD_CANCELLED,
// INVALID_REQUEST, INVALID_PLAYER_STATE, ERROR. All carry whatever detail
// fields the receiver actually sent.
type ReceiverErrorResponse struct {
	base
	Reason            string `json:"reason,omitempty"`
	DetailedErrorCode int    `json:"detailedErrorCode,omitempty"`
	ItemID            int    `json:"itemId,omitempty"`
}

func (r ReceiverErrorResponse) ResponseType() string { return r.Type_ }

// PongResponse / CloseResponse are heartbeat/connection namespace replies
// handled internally by the channel and never surfaced as pending-request
// completions (spec §4.3 reader steps 1-2).
type PongResponse struct{ base }

func (r PongResponse) ResponseType() string { return "PONG" }

type CloseResponse struct{ base }

func (r CloseResponse) ResponseType() string { return "CLOSE" }

// UnknownResponse is the catch-all for any responseType/type this client
// does not model. It still exposes RequestID so correlation and timeouts
// keep working, per spec invariant 6.
type UnknownResponse struct {
	base
	Raw json.RawMessage `json:"-"`
}

func (r UnknownResponse) ResponseType() string { return r.Type_ }
