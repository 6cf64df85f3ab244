package castchannel

import (
	"context"
	"encoding/json"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/sebas/gocast/internal/castwire"
)

// fakeReceiver plays the receiver side of the protocol over a net.Pipe,
// grounded on the request/response shapes in internal/castproto. It is not
// a real network socket, matching this package's "in-process fake" test
// style.
type fakeReceiver struct {
	t    *testing.T
	conn net.Conn
}

func newFakeReceiver(t *testing.T, conn net.Conn) *fakeReceiver {
	return &fakeReceiver{t: t, conn: conn}
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

// expectConnect drains one CONNECT message addressed to destinationID and
// returns the client's source id (spec §4.2/invariant 5).
func (f *fakeReceiver) expectConnect(destinationID string) string {
	var msg map[string]any
	clientSourceID, namespace := f.readRaw(&msg)
	require.Equal(f.t, "urn:x-cast:com.google.cast.tp.connection", namespace)
	require.Equal(f.t, "CONNECT", msg["type"])
	return clientSourceID
}

func newTestChannel(t *testing.T) (*Channel, *fakeReceiver) {
	clientSide, receiverSide := net.Pipe()
	t.Cleanup(func() { _ = clientSide.Close(); _ = receiverSide.Close() })

	cfg := DefaultConfig()
	// Long enough that heartbeat traffic never interleaves with the request
	// traffic these tests assert an exact frame order for; S6 below uses its
	// own short-interval channel.
	cfg.HeartbeatInterval = time.Hour
	cfg.HeartbeatTimeout = time.Hour
	cfg.RequestTimeout = 2 * time.Second

	// Closing the pipes (above) is enough to tear the channel down: readLoop
	// observes the broken transport and calls fail() itself. We deliberately
	// don't also call ch.Close() here — a graceful Close attempts a
	// best-effort CLOSE write to every open destination, which would block
	// on net.Pipe's synchronous semantics once the fake receiver goroutine
	// has stopped reading.
	ch := OpenConn(clientSide, cfg, nil)

	return ch, newFakeReceiver(t, receiverSide)
}

// TestSendRequestOpensVirtualConnectionFirst covers invariant 5: no
// request traffic precedes CONNECT on a fresh destination.
func TestSendRequestOpensVirtualConnectionFirst(t *testing.T) {
	ch, fr := newTestChannel(t)

	done := make(chan struct{})
	go func() {
		defer close(done)
		_ = fr.expectConnect("receiver-0")

		var req map[string]any
		_, namespace := fr.readRaw(&req)
		require.Equal(t, "urn:x-cast:com.google.cast.receiver", namespace)
		require.Equal(t, "GET_STATUS", req["type"])

		fr.send("receiver-0", ch.SourceID(), namespace, map[string]any{
			"type":      "RECEIVER_STATUS",
			"requestId": req["requestId"],
			"status":    map[string]any{"isStandBy": false},
		})
	}()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	_, err := ch.SendRequest(ctx, "urn:x-cast:com.google.cast.receiver", "receiver-0",
		newTestRequest("GET_STATUS"))
	require.NoError(t, err)

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("fake receiver goroutine did not finish")
	}
}

// TestRequestIDsAreMonotonic covers invariant 3.
func TestRequestIDsAreMonotonic(t *testing.T) {
	ch, fr := newTestChannel(t)

	go func() {
		_ = fr.expectConnect("receiver-0")
		for i := 0; i < 3; i++ {
			var req map[string]any
			_, namespace := fr.readRaw(&req)
			fr.send("receiver-0", ch.SourceID(), namespace, map[string]any{
				"type":      "RECEIVER_STATUS",
				"requestId": req["requestId"],
				"status":    map[string]any{},
			})
		}
	}()

	var ids []uint64
	for i := 0; i < 3; i++ {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		req := newTestRequest("GET_STATUS")
		resp, err := ch.SendRequest(ctx, "urn:x-cast:com.google.cast.receiver", "receiver-0", req)
		cancel()
		require.NoError(t, err)
		ids = append(ids, resp.RequestID())
	}

	require.Less(t, ids[0], ids[1])
	require.Less(t, ids[1], ids[2])
}

// TestTimeoutFailsExactlyOnceAndLateResponseBecomesEvent covers invariant 4
// and the "late response after timeout" note in spec §5.
func TestTimeoutFailsExactlyOnceAndLateResponseBecomesEvent(t *testing.T) {
	clientSide, receiverSide := net.Pipe()
	t.Cleanup(func() { _ = clientSide.Close(); _ = receiverSide.Close() })

	cfg := DefaultConfig()
	cfg.RequestTimeout = 100 * time.Millisecond
	cfg.HeartbeatInterval = time.Hour
	cfg.HeartbeatTimeout = time.Hour

	ch := OpenConn(clientSide, cfg, nil)
	fr := newFakeReceiver(t, receiverSide)

	events, unsubscribe := ch.Events()
	defer unsubscribe()

	reqIDCh := make(chan float64, 1)
	go func() {
		_ = fr.expectConnect("receiver-0")
		var req map[string]any
		_, _ = fr.readRaw(&req)
		reqIDCh <- req["requestId"].(float64)
	}()

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	_, err := ch.SendRequest(ctx, "urn:x-cast:com.google.cast.receiver", "receiver-0", newTestRequest("GET_STATUS"))

	var timeoutErr *Timeout
	require.ErrorAs(t, err, &timeoutErr)

	reqID := <-reqIDCh
	fr.send("receiver-0", ch.SourceID(), "urn:x-cast:com.google.cast.receiver", map[string]any{
		"type":      "RECEIVER_STATUS",
		"requestId": reqID,
		"status":    map[string]any{},
	})

	select {
	case ev := <-events:
		require.EqualValues(t, reqID, ev.Response.RequestID())
	case <-time.After(time.Second):
		t.Fatal("late response was not delivered as an event")
	}
}

// TestS6HeartbeatKeepsChannelAliveAcrossSilence covers scenario S6: with no
// application traffic at all, a responsive PING/PONG exchange keeps the
// channel open past HeartbeatTimeout.
func TestS6HeartbeatKeepsChannelAliveAcrossSilence(t *testing.T) {
	clientSide, receiverSide := net.Pipe()
	t.Cleanup(func() { _ = clientSide.Close(); _ = receiverSide.Close() })

	cfg := DefaultConfig()
	cfg.HeartbeatInterval = 30 * time.Millisecond
	cfg.HeartbeatTimeout = 150 * time.Millisecond

	ch := OpenConn(clientSide, cfg, nil)
	fr := newFakeReceiver(t, receiverSide)

	connectDone := make(chan struct{})
	go func() {
		defer close(connectDone)
		_ = fr.expectConnect("receiver-0")
	}()
	require.NoError(t, ch.EnsureConnection("receiver-0"))
	<-connectDone

	deadline := time.Now().Add(400 * time.Millisecond)
	pings := 0
	for time.Now().Before(deadline) {
		var ping map[string]any
		clientSourceID, namespace := fr.readRaw(&ping)
		require.Equal(t, HeartbeatNamespace, namespace)
		require.Equal(t, "PING", ping["type"])
		pings++
		fr.send("receiver-0", clientSourceID, HeartbeatNamespace, map[string]any{"type": "PONG"})
	}

	require.Greater(t, pings, 2)
	select {
	case <-ch.Done():
		t.Fatal("channel closed despite responsive heartbeat")
	default:
	}
}

// TestHeartbeatTimeoutClosesChannel covers the failure half of S6: a
// receiver that stops answering PING entirely is eventually declared dead.
func TestHeartbeatTimeoutClosesChannel(t *testing.T) {
	clientSide, receiverSide := net.Pipe()
	t.Cleanup(func() { _ = clientSide.Close() })

	cfg := DefaultConfig()
	cfg.HeartbeatInterval = 20 * time.Millisecond
	cfg.HeartbeatTimeout = 80 * time.Millisecond

	ch := OpenConn(clientSide, cfg, nil)
	t.Cleanup(func() { _ = ch.Close(); _ = receiverSide.Close() })

	select {
	case <-ch.Done():
		require.ErrorIs(t, ch.Err(), errHeartbeatTimeout)
	case <-time.After(time.Second):
		t.Fatal("channel did not close after heartbeat timeout")
	}
}

// testRequest is a minimal castproto.Request used only to exercise the
// channel without depending on a specific real request variant's shape.
type testRequest struct {
	Type      string `json:"type"`
	RequestID uint64 `json:"requestId"`
}

func newTestRequest(t string) *testRequest { return &testRequest{Type: t} }

func (r *testRequest) MessageType() string    { return r.Type }
func (r *testRequest) SetRequestID(id uint64) { r.RequestID = id }
