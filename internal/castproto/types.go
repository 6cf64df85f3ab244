package castproto

import "encoding/json"

// Volume is the shared volume shape used by both receiver status and media
// status payloads. All fields are pointers so that SET_VOLUME can send a
// partial update: only fields the caller set appear on the wire and the
// receiver merges them in (spec §4.4).
type Volume struct {
	Level        *float64 `json:"level,omitempty"`
	Muted        *bool    `json:"muted,omitempty"`
	StepInterval *float64 `json:"stepInterval,omitempty"`
	ControlType  string   `json:"controlType,omitempty"`
}

// VolumeControlType returns the parsed, total-enum form of ControlType.
func (v Volume) VolumeControlType() VolumeControlType {
	return ParseVolumeControlType(v.ControlType)
}

// Namespace names one protocol namespace an application supports.
type Namespace struct {
	Name string `json:"name"`
}

// Application describes one running receiver application, as reported in
// ReceiverStatus.Applications.
type Application struct {
	AppID             string      `json:"appId"`
	SessionID         string      `json:"sessionId,omitempty"`
	TransportID       string      `json:"transportId,omitempty"`
	DisplayName       string      `json:"displayName,omitempty"`
	StatusText        string      `json:"statusText,omitempty"`
	IconURL           string      `json:"iconUrl,omitempty"`
	Namespaces        []Namespace `json:"namespaces,omitempty"`
	IsIdleScreen      bool        `json:"isIdleScreen,omitempty"`
	LaunchedFromCloud bool        `json:"launchedFromCloud,omitempty"`
	UniversalAppID    string      `json:"universalAppId,omitempty"`
}

// HasNamespace reports whether the application has registered ns.
func (a Application) HasNamespace(ns string) bool {
	for _, n := range a.Namespaces {
		if n.Name == ns {
			return true
		}
	}
	return false
}

// ReceiverStatus is the receiver's full status snapshot: volume, running
// applications, and input state (spec §3 "Receiver Status").
type ReceiverStatus struct {
	Volume        *Volume       `json:"volume,omitempty"`
	Applications  []Application `json:"applications,omitempty"`
	IsActiveInput bool          `json:"isActiveInput,omitempty"`
	IsStandBy     bool          `json:"isStandBy,omitempty"`
}

// ApplicationByAppID returns the running application with the given appId,
// if any. Used by the facade to resolve Launch's result.
func (r ReceiverStatus) ApplicationByAppID(appID string) (Application, bool) {
	for _, a := range r.Applications {
		if a.AppID == appID {
			return a, true
		}
	}
	return Application{}, false
}

// Track describes one text/audio/video track attached to a media item.
type Track struct {
	TrackID          int    `json:"trackId"`
	TrackContentID   string `json:"trackContentId,omitempty"`
	TrackContentType string `json:"trackContentType,omitempty"`
	Type             string `json:"type,omitempty"`
	Subtype          string `json:"subtype,omitempty"`
	Name             string `json:"name,omitempty"`
	Language         string `json:"language,omitempty"`
}

// TrackType returns the parsed, total-enum form of Type.
func (t Track) TrackType() TrackType {
	return ParseTrackType(t.Type)
}

// MediaInformation describes the content a media session was (or will be)
// loaded with.
type MediaInformation struct {
	ContentID   string         `json:"contentId"`
	ContentType string         `json:"contentType,omitempty"`
	StreamType  string         `json:"streamType,omitempty"`
	Duration    *float64       `json:"duration,omitempty"`
	Metadata    map[string]any `json:"metadata,omitempty"`
	Tracks      []Track        `json:"tracks,omitempty"`
}

// MediaStreamType returns the parsed, total-enum form of StreamType.
func (m MediaInformation) MediaStreamType() StreamType {
	return ParseStreamType(m.StreamType)
}

// MediaStatus is one entry of a MEDIA_STATUS response's status list
// (spec §3 "Media Status").
type MediaStatus struct {
	MediaSessionID         int               `json:"mediaSessionId"`
	PlayerState            string            `json:"playerState,omitempty"`
	CurrentTime            float64           `json:"currentTime,omitempty"`
	Media                  *MediaInformation `json:"media,omitempty"`
	PlaybackRate           float64           `json:"playbackRate,omitempty"`
	Volume                 *Volume           `json:"volume,omitempty"`
	IdleReason             string            `json:"idleReason,omitempty"`
	SupportedMediaCommands int               `json:"supportedMediaCommands,omitempty"`
	QueueData              json.RawMessage   `json:"queueData,omitempty"`
	ExtendedStatus         json.RawMessage   `json:"extendedStatus,omitempty"`
}

// State returns the parsed, total-enum form of PlayerState.
func (m MediaStatus) State() PlayerState { return ParsePlayerState(m.PlayerState) }

// Idle returns the parsed, total-enum form of IdleReason.
func (m MediaStatus) Idle() IdleReason { return ParseIdleReason(m.IdleReason) }

// Commands decodes SupportedMediaCommands into a set.
func (m MediaStatus) Commands() map[SupportedMediaCommand]bool {
	return DecodeSupportedMediaCommands(m.SupportedMediaCommands)
}

// MultizoneDevice is one speaker group member reported by the multizone
// namespace (spec §4.1 dispatch table).
type MultizoneDevice struct {
	Name            string  `json:"name"`
	DeviceID        string  `json:"deviceId,omitempty"`
	Capabilities    int     `json:"capabilities,omitempty"`
	Volume          *Volume `json:"volume,omitempty"`
	IsMultichannel  bool    `json:"isMultichannelGroup,omitempty"`
}
