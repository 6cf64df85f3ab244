package cast

import (
	"context"
	"encoding/json"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/sebas/gocast/internal/castchannel"
	"github.com/sebas/gocast/internal/castproto"
	"github.com/sebas/gocast/internal/castwire"
)

// fakeReceiver plays the receiver side of the protocol over a net.Pipe, the
// same in-process-fake style castchannel's own tests use.
type fakeReceiver struct {
	t    *testing.T
	conn net.Conn
}

func (f *fakeReceiver) readRaw(v any) (sourceID, namespace string) {
	env, err := castwire.ReadEnvelope(f.conn)
	require.NoError(f.t, err)
	require.NoError(f.t, json.Unmarshal([]byte(env.GetPayloadUtf8()), v))
	return env.GetSourceId(), env.GetNamespace()
}

func (f *fakeReceiver) send(sourceID, destinationID, namespace string, payload any) {
	body, err := json.Marshal(payload)
	require.NoError(f.t, err)
	env := castwire.NewStringEnvelope(sourceID, destinationID, namespace, string(body))
	require.NoError(f.t, castwire.WriteEnvelope(f.conn, env))
}

func (f *fakeReceiver) expectConnect(destinationID string) string {
	var msg map[string]any
	clientSourceID, namespace := f.readRaw(&msg)
	require.Equal(f.t, "urn:x-cast:com.google.cast.tp.connection", namespace)
	require.Equal(f.t, "CONNECT", msg["type"])
	return clientSourceID
}

// newTestClient wires a Client directly to one half of a net.Pipe, skipping
// Dial's TLS handshake, and drains the initial CONNECT to receiver-0 that
// Dial would otherwise perform.
func newTestClient(t *testing.T) (*Client, *fakeReceiver) {
	clientSide, receiverSide := net.Pipe()
	t.Cleanup(func() { _ = clientSide.Close(); _ = receiverSide.Close() })

	cfg := castchannel.DefaultConfig()
	cfg.HeartbeatInterval = time.Hour
	cfg.HeartbeatTimeout = time.Hour
	cfg.RequestTimeout = 2 * time.Second

	ch := castchannel.OpenConn(clientSide, cfg, nil)
	fr := &fakeReceiver{t: t, conn: receiverSide}

	connectDone := make(chan struct{})
	go func() {
		defer close(connectDone)
		_ = fr.expectConnect(receiverDestination)
	}()
	require.NoError(t, ch.EnsureConnection(receiverDestination))
	<-connectDone

	return &Client{ch: ch, device: Device{Addr: "test"}}, fr
}

func TestGetStatusRoundTrip(t *testing.T) {
	c, fr := newTestClient(t)

	done := make(chan struct{})
	go func() {
		defer close(done)
		var req map[string]any
		_, namespace := fr.readRaw(&req)
		require.Equal(t, namespaceReceiver, namespace)
		require.Equal(t, "GET_STATUS", req["type"])
		fr.send(receiverDestination, c.ch.SourceID(), namespace, map[string]any{
			"type":      "RECEIVER_STATUS",
			"requestId": req["requestId"],
			"status":    map[string]any{"isStandBy": true},
		})
	}()

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	status, err := c.GetStatus(ctx)
	require.NoError(t, err)
	require.True(t, status.IsStandBy)

	<-done
}

func TestLaunchResolvesSessionTransportID(t *testing.T) {
	c, fr := newTestClient(t)

	done := make(chan struct{})
	go func() {
		defer close(done)
		var req map[string]any
		_, namespace := fr.readRaw(&req)
		require.Equal(t, "LAUNCH", req["type"])
		fr.send(receiverDestination, c.ch.SourceID(), namespace, map[string]any{
			"type":      "RECEIVER_STATUS",
			"requestId": req["requestId"],
			"status": map[string]any{
				"applications": []map[string]any{
					{"appId": "CC1AD845", "sessionId": "sess-1", "transportId": "web-55"},
				},
			},
		})
	}()

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	sess, err := c.Launch(ctx, "CC1AD845")
	require.NoError(t, err)
	require.Equal(t, "web-55", sess.TransportID())
	require.Equal(t, "sess-1", sess.SessionID())

	<-done
}

func TestLaunchErrorSurfacesReceiverError(t *testing.T) {
	c, fr := newTestClient(t)

	go func() {
		var req map[string]any
		_, _ = fr.readRaw(&req)
		fr.send(receiverDestination, c.ch.SourceID(), namespaceReceiver, map[string]any{
			"type":      "LAUNCH_ERROR",
			"requestId": req["requestId"],
			"reason":    "NOT_FOUND",
		})
	}()

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	_, err := c.Launch(ctx, "missing-app")

	var recvErr *castchannel.ReceiverError
	require.ErrorAs(t, err, &recvErr)
	require.True(t, recvErr.IsLaunchFailed())
}

func TestSessionLoadAwaitsFirstMediaStatus(t *testing.T) {
	c, fr := newTestClient(t)
	sess := c.sessionFor(castproto.Application{AppID: "CC1AD845", SessionID: "sess-1", TransportID: "web-55"})

	connectDone := make(chan struct{})
	go func() {
		defer close(connectDone)
		_ = fr.expectConnect("web-55")
	}()

	loadDone := make(chan struct{})
	go func() {
		defer close(loadDone)
		<-connectDone
		var req map[string]any
		_, namespace := fr.readRaw(&req)
		require.Equal(t, namespaceMedia, namespace)
		require.Equal(t, "LOAD", req["type"])
		fr.send("web-55", c.ch.SourceID(), namespace, map[string]any{
			"type":      "MEDIA_STATUS",
			"requestId": req["requestId"],
			"status": []map[string]any{
				{"mediaSessionId": 1, "playerState": "PLAYING"},
			},
		})
	}()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	status, err := sess.Load(ctx, castproto.MediaInformation{ContentID: "http://example.com/video.mp4"}, castproto.LoadOptions{})
	require.NoError(t, err)
	require.Equal(t, 1, status.MediaSessionID)
	require.Equal(t, castproto.PlayerStatePlaying, status.State())

	<-loadDone
}
