// Package castproto implements the typed receiver and media message model:
// a closed request union, an open (extensible) response union dispatched by
// a string discriminator, and the plain data types they carry. Every
// enumeration decoded from inbound payloads has a total parse function
// (ConnType is outbound-only and has none) — an unrecognized wire value
// never fails decoding, it maps to an explicit "absent" zero value, per
// spec invariant 6 ("the channel must survive field additions by Google").
package castproto

import "strings"

// VolumeControlType describes how a receiver's volume can be adjusted.
type VolumeControlType int

const (
	VolumeControlUnknown VolumeControlType = iota
	VolumeControlAttenuation
	VolumeControlMaster
	VolumeControlFixed
)

func ParseVolumeControlType(s string) VolumeControlType {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "ATTENUATION":
		return VolumeControlAttenuation
	case "MASTER":
		return VolumeControlMaster
	case "FIXED":
		return VolumeControlFixed
	default:
		return VolumeControlUnknown
	}
}

func (t VolumeControlType) String() string {
	switch t {
	case VolumeControlAttenuation:
		return "ATTENUATION"
	case VolumeControlMaster:
		return "MASTER"
	case VolumeControlFixed:
		return "FIXED"
	default:
		return ""
	}
}

// PlayerState is the media player's current activity.
type PlayerState int

const (
	PlayerStateUnknown PlayerState = iota
	PlayerStateIdle
	PlayerStatePlaying
	PlayerStatePaused
	PlayerStateBuffering
)

func ParsePlayerState(s string) PlayerState {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "IDLE":
		return PlayerStateIdle
	case "PLAYING":
		return PlayerStatePlaying
	case "PAUSED":
		return PlayerStatePaused
	case "BUFFERING":
		return PlayerStateBuffering
	default:
		return PlayerStateUnknown
	}
}

func (s PlayerState) String() string {
	switch s {
	case PlayerStateIdle:
		return "IDLE"
	case PlayerStatePlaying:
		return "PLAYING"
	case PlayerStatePaused:
		return "PAUSED"
	case PlayerStateBuffering:
		return "BUFFERING"
	default:
		return ""
	}
}

// StreamType classifies a loaded media item's seekability.
type StreamType int

const (
	StreamTypeUnknown StreamType = iota
	StreamTypeBuffered
	StreamTypeLive
	StreamTypeNone
)

func ParseStreamType(s string) StreamType {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "BUFFERED":
		return StreamTypeBuffered
	case "LIVE":
		return StreamTypeLive
	case "NONE":
		return StreamTypeNone
	default:
		return StreamTypeUnknown
	}
}

func (s StreamType) String() string {
	switch s {
	case StreamTypeBuffered:
		return "BUFFERED"
	case StreamTypeLive:
		return "LIVE"
	case StreamTypeNone:
		return "NONE"
	default:
		return ""
	}
}

// IdleReason explains why a media session returned to IDLE.
type IdleReason int

const (
	IdleReasonNone IdleReason = iota
	IdleReasonCancelled
	IdleReasonInterrupted
	IdleReasonFinished
	IdleReasonError
	IdleReasonCompleted
)

func ParseIdleReason(s string) IdleReason {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "CANCELLED":
		return IdleReasonCancelled
	case "INTERRUPTED":
		return IdleReasonInterrupted
	case "FINISHED":
		return IdleReasonFinished
	case "ERROR":
		return IdleReasonError
	case "COMPLETED":
		return IdleReasonCompleted
	default:
		return IdleReasonNone
	}
}

func (r IdleReason) String() string {
	switch r {
	case IdleReasonCancelled:
		return "CANCELLED"
	case IdleReasonInterrupted:
		return "INTERRUPTED"
	case IdleReasonFinished:
		return "FINISHED"
	case IdleReasonError:
		return "ERROR"
	case IdleReasonCompleted:
		return "COMPLETED"
	default:
		return ""
	}
}

// ConnType hints the receiver about how disposable this virtual connection
// is (spec §6 configuration surface).
type ConnType int

const (
	ConnTypeStrong ConnType = iota
	ConnTypeWeak
	ConnTypeInvisible
)

func (c ConnType) String() string {
	switch c {
	case ConnTypeWeak:
		return "WEAK"
	case ConnTypeInvisible:
		return "INVISIBLE"
	default:
		return "STRONG"
	}
}

// TrackType classifies an entry in MediaInformation.Tracks.
type TrackType int

const (
	TrackTypeUnknown TrackType = iota
	TrackTypeText
	TrackTypeAudio
	TrackTypeVideo
)

func ParseTrackType(s string) TrackType {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "TEXT":
		return TrackTypeText
	case "AUDIO":
		return TrackTypeAudio
	case "VIDEO":
		return TrackTypeVideo
	default:
		return TrackTypeUnknown
	}
}

func (t TrackType) String() string {
	switch t {
	case TrackTypeText:
		return "TEXT"
	case TrackTypeAudio:
		return "AUDIO"
	case TrackTypeVideo:
		return "VIDEO"
	default:
		return ""
	}
}

// SupportedMediaCommand is one bit of the receiver-advertised command
// bitmask. Decoded into a set rather than left as a raw int (spec §3).
type SupportedMediaCommand int

const (
	CommandPause SupportedMediaCommand = 1 << iota
	CommandSeek
	CommandStreamVolume
	CommandStreamMute
	CommandSkipForward
	CommandSkipBackward
	CommandQueueNext
	CommandQueuePrevious
)

// DecodeSupportedMediaCommands turns the receiver's integer bitmask into a
// set. Unrecognized bits are silently ignored rather than failing decode,
// matching the "unknown integer -> absent" total-parse rule for the bits we
// don't model; the raw integer is preserved alongside for callers who need
// the full bitmask.
func DecodeSupportedMediaCommands(bitmask int) map[SupportedMediaCommand]bool {
	known := []SupportedMediaCommand{
		CommandPause, CommandSeek, CommandStreamVolume, CommandStreamMute,
		CommandSkipForward, CommandSkipBackward, CommandQueueNext, CommandQueuePrevious,
	}
	set := make(map[SupportedMediaCommand]bool, len(known))
	for _, c := range known {
		if bitmask&int(c) != 0 {
			set[c] = true
		}
	}
	return set
}
