package castproto

import "encoding/json"

// Request is satisfied by every outbound message variant. The channel (not
// the caller) assigns RequestID via SetRequestID immediately before framing,
// so every variant that correlates embeds a requestID field the channel can
// reach through this interface (spec §4.4: "The requestId on requests is
// assigned by the channel, not by callers").
type Request interface {
	// MessageType returns the wire "type" discriminator.
	MessageType() string
	// SetRequestID stamps the channel-assigned id. Oneway messages (CONNECT,
	// CLOSE, PING, PONG) implement this as a no-op.
	SetRequestID(id uint64)
}

// origin always serializes as {}, never omitted, per spec §4.4.
type origin struct{}

func (origin) MarshalJSON() ([]byte, error) { return []byte("{}"), nil }

// ConnectRequest opens a virtual connection to a destination.
type ConnectRequest struct {
	Type        string  `json:"type"`
	Origin      origin  `json:"origin"`
	UserAgent   string  `json:"userAgent,omitempty"`
	ConnType    *int    `json:"connType,omitempty"`
}

func NewConnectRequest(userAgent string, connType ConnType) *ConnectRequest {
	req := &ConnectRequest{Type: "CONNECT", UserAgent: userAgent}
	if connType != ConnTypeStrong {
		v := int(connType)
		req.ConnType = &v
	}
	return req
}

func (r *ConnectRequest) MessageType() string   { return "CONNECT" }
func (r *ConnectRequest) SetRequestID(uint64)   {}

// CloseReasonGracefulBySender is the only reason this client ever sends
// (spec §4.2: "closed gracefully by sender").
const CloseReasonGracefulBySender = 5

// CloseRequest tears down a virtual connection.
type CloseRequest struct {
	Type       string `json:"type"`
	ReasonCode int    `json:"reasonCode"`
}

func NewCloseRequest() *CloseRequest {
	return &CloseRequest{Type: "CLOSE", ReasonCode: CloseReasonGracefulBySender}
}

func (r *CloseRequest) MessageType() string { return "CLOSE" }
func (r *CloseRequest) SetRequestID(uint64) {}

// PingRequest / PongRequest are heartbeat namespace messages; neither
// correlates to a pending request.
type PingRequest struct {
	Type string `json:"type"`
}

func NewPingRequest() *PingRequest { return &PingRequest{Type: "PING"} }

func (r *PingRequest) MessageType() string { return "PING" }
func (r *PingRequest) SetRequestID(uint64) {}

type PongRequest struct {
	Type string `json:"type"`
}

func NewPongRequest() *PongRequest { return &PongRequest{Type: "PONG"} }

func (r *PongRequest) MessageType() string { return "PONG" }
func (r *PongRequest) SetRequestID(uint64) {}

// correlated embeds the requestId every correlated request carries.
type correlated struct {
	RequestID uint64 `json:"requestId"`
}

func (c *correlated) SetRequestID(id uint64) { c.RequestID = id }

// GetStatusRequest asks the platform for its current ReceiverStatus.
type GetStatusRequest struct {
	correlated
	Type string `json:"type"`
}

func NewGetStatusRequest() *GetStatusRequest {
	return &GetStatusRequest{Type: "GET_STATUS"}
}

func (r *GetStatusRequest) MessageType() string { return "GET_STATUS" }

// GetAppAvailabilityRequest asks whether a set of appIds can be launched.
type GetAppAvailabilityRequest struct {
	correlated
	Type   string   `json:"type"`
	AppID  []string `json:"appId"`
}

func NewGetAppAvailabilityRequest(appIDs ...string) *GetAppAvailabilityRequest {
	return &GetAppAvailabilityRequest{Type: "GET_APP_AVAILABILITY", AppID: appIDs}
}

func (r *GetAppAvailabilityRequest) MessageType() string { return "GET_APP_AVAILABILITY" }

// LaunchRequest starts a receiver application.
type LaunchRequest struct {
	correlated
	Type  string `json:"type"`
	AppID string `json:"appId"`
}

func NewLaunchRequest(appID string) *LaunchRequest {
	return &LaunchRequest{Type: "LAUNCH", AppID: appID}
}

func (r *LaunchRequest) MessageType() string { return "LAUNCH" }

// StopRequest stops a running application session.
type StopRequest struct {
	correlated
	Type      string `json:"type"`
	SessionID string `json:"sessionId"`
}

func NewStopRequest(sessionID string) *StopRequest {
	return &StopRequest{Type: "STOP", SessionID: sessionID}
}

func (r *StopRequest) MessageType() string { return "STOP" }

// SetVolumeRequest adjusts the receiver's volume. Volume itself supports
// partial updates (spec §4.4); this request does not add requirements on
// top of that.
type SetVolumeRequest struct {
	correlated
	Type   string `json:"type"`
	Volume Volume `json:"volume"`
}

func NewSetVolumeRequest(v Volume) *SetVolumeRequest {
	return &SetVolumeRequest{Type: "SET_VOLUME", Volume: v}
}

func (r *SetVolumeRequest) MessageType() string { return "SET_VOLUME" }

// LoadRequest loads new media into a launched application (media
// namespace). Unspecified optional fields are omitted, never sent as null
// (spec §4.4).
type LoadRequest struct {
	correlated
	Type           string           `json:"type"`
	Media          MediaInformation `json:"media"`
	Autoplay       *bool            `json:"autoplay,omitempty"`
	CurrentTime    *float64         `json:"currentTime,omitempty"`
	ActiveTrackIDs []int            `json:"activeTrackIds,omitempty"`
	Credentials    string           `json:"credentials,omitempty"`
	PlaybackRate   *float64         `json:"playbackRate,omitempty"`
	QueueData      json.RawMessage  `json:"queueData,omitempty"`
	CustomData     json.RawMessage  `json:"customData,omitempty"`
}

func (r *LoadRequest) MessageType() string { return "LOAD" }

// LoadOptions carries the optional fields of a LOAD request so callers don't
// have to build a LoadRequest by hand.
type LoadOptions struct {
	Autoplay       *bool
	CurrentTime    *float64
	ActiveTrackIDs []int
	Credentials    string
	PlaybackRate   *float64
	QueueData      json.RawMessage
	CustomData     json.RawMessage
}

func NewLoadRequest(media MediaInformation, opts LoadOptions) *LoadRequest {
	return &LoadRequest{
		Type:           "LOAD",
		Media:          media,
		Autoplay:       opts.Autoplay,
		CurrentTime:    opts.CurrentTime,
		ActiveTrackIDs: opts.ActiveTrackIDs,
		Credentials:    opts.Credentials,
		PlaybackRate:   opts.PlaybackRate,
		QueueData:      opts.QueueData,
		CustomData:     opts.CustomData,
	}
}

// mediaControl is the shared shape of PLAY/PAUSE/SEEK, all of which only
// need a mediaSessionId.
type mediaControl struct {
	correlated
	Type           string   `json:"type"`
	MediaSessionID int      `json:"mediaSessionId"`
	CurrentTime    *float64 `json:"currentTime,omitempty"`
	ResumeState    string   `json:"resumeState,omitempty"`
}

func (r *mediaControl) MessageType() string { return r.Type }

type PlayRequest struct{ mediaControl }
type PauseRequest struct{ mediaControl }

// SeekRequest additionally carries the target currentTime.
type SeekRequest struct{ mediaControl }

func NewPlayRequest(mediaSessionID int) *PlayRequest {
	return &PlayRequest{mediaControl{Type: "PLAY", MediaSessionID: mediaSessionID}}
}

func NewPauseRequest(mediaSessionID int) *PauseRequest {
	return &PauseRequest{mediaControl{Type: "PAUSE", MediaSessionID: mediaSessionID}}
}

func NewSeekRequest(mediaSessionID int, currentTime float64) *SeekRequest {
	return &SeekRequest{mediaControl{Type: "SEEK", MediaSessionID: mediaSessionID, CurrentTime: &currentTime}}
}

// GetMediaStatusRequest asks a media session for its current status.
type GetMediaStatusRequest struct {
	correlated
	Type           string `json:"type"`
	MediaSessionID *int   `json:"mediaSessionId,omitempty"`
}

func NewGetMediaStatusRequest() *GetMediaStatusRequest {
	return &GetMediaStatusRequest{Type: "GET_STATUS"}
}

func (r *GetMediaStatusRequest) MessageType() string { return "GET_STATUS" }

// EncodeRequest serializes req to its JSON wire form. The channel calls this
// after SetRequestID so requestId (if any) is already stamped.
func EncodeRequest(req Request) ([]byte, error) {
	return json.Marshal(req)
}
