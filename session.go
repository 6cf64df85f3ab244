package cast

import (
	"context"

	"github.com/sebas/gocast/internal/castchannel"
	"github.com/sebas/gocast/internal/castproto"
)

// Session is a launched application bound to its own transportId (spec
// §4.5). Media control requests address the session's transportId, not
// receiver-0; SendRequest opens that virtual connection on first use.
type Session struct {
	client      *Client
	appID       string
	sessionID   string
	transportID string
}

// AppID returns the launched application's appId.
func (s *Session) AppID() string { return s.appID }

// SessionID returns the launched application's sessionId, the value Stop
// expects.
func (s *Session) SessionID() string { return s.sessionID }

// TransportID returns the destination id media/receiver messages to this
// application are addressed to.
func (s *Session) TransportID() string { return s.transportID }

// Load loads media into this session and waits for the resulting
// MediaStatus (spec §4.5 "Load... await the first MediaStatus").
func (s *Session) Load(ctx context.Context, media castproto.MediaInformation, opts castproto.LoadOptions) (castproto.MediaStatus, error) {
	req := castproto.NewLoadRequest(media, opts)
	resp, err := s.client.ch.SendRequest(ctx, namespaceMedia, s.transportID, req)
	if err != nil {
		return castproto.MediaStatus{}, err
	}
	return s.firstStatus(resp)
}

// Play resumes playback of mediaSessionID.
func (s *Session) Play(ctx context.Context, mediaSessionID int) error {
	_, err := s.client.ch.SendRequest(ctx, namespaceMedia, s.transportID, castproto.NewPlayRequest(mediaSessionID))
	return err
}

// Pause pauses playback of mediaSessionID.
func (s *Session) Pause(ctx context.Context, mediaSessionID int) error {
	_, err := s.client.ch.SendRequest(ctx, namespaceMedia, s.transportID, castproto.NewPauseRequest(mediaSessionID))
	return err
}

// Seek moves mediaSessionID's playback position to currentTime seconds.
func (s *Session) Seek(ctx context.Context, mediaSessionID int, currentTime float64) error {
	_, err := s.client.ch.SendRequest(ctx, namespaceMedia, s.transportID, castproto.NewSeekRequest(mediaSessionID, currentTime))
	return err
}

// GetMediaStatus fetches the current MediaStatus. mediaSessionID may be nil
// to ask for whatever session is active.
func (s *Session) GetMediaStatus(ctx context.Context, mediaSessionID *int) (castproto.MediaStatusResponse, error) {
	req := castproto.NewGetMediaStatusRequest()
	req.MediaSessionID = mediaSessionID
	resp, err := s.client.ch.SendRequest(ctx, namespaceMedia, s.transportID, req)
	if err != nil {
		return castproto.MediaStatusResponse{}, err
	}
	status, ok := resp.(castproto.MediaStatusResponse)
	if !ok {
		return castproto.MediaStatusResponse{}, &castchannel.ProtocolError{Namespace: namespaceMedia, Want: "MEDIA_STATUS", Got: resp.ResponseType()}
	}
	return status, nil
}

// Close tears down this session's virtual connection without affecting the
// underlying Client or other sessions.
func (s *Session) Close() error {
	return s.client.ch.CloseConnection(s.transportID)
}

func (s *Session) firstStatus(resp castproto.Response) (castproto.MediaStatus, error) {
	status, ok := resp.(castproto.MediaStatusResponse)
	if !ok {
		return castproto.MediaStatus{}, &castchannel.ProtocolError{Namespace: namespaceMedia, Want: "MEDIA_STATUS", Got: resp.ResponseType()}
	}
	first, ok := status.First()
	if !ok {
		return castproto.MediaStatus{}, &castchannel.ProtocolError{Namespace: namespaceMedia, Want: "non-empty MEDIA_STATUS", Got: "empty status list"}
	}
	return first, nil
}
