package castchannel

import (
	"encoding/json"

	"github.com/sebas/gocast/internal/castproto"
	"github.com/sebas/gocast/internal/castwire"
	"github.com/sebas/gocast/internal/vconn"
)

// wireType peeks at a payload's bare "type" field without committing to a
// full castproto.Response decode — used only for the two namespaces the
// channel itself terminates (heartbeat, connection), spec §4.3 steps 1-2.
func wireType(payload []byte) string {
	var probe struct {
		Type string `json:"type"`
	}
	_ = json.Unmarshal(payload, &probe)
	return probe.Type
}

// readLoop is the channel's single reader goroutine. It implements spec
// §4.3's dispatch algorithm: heartbeat and connection-lifecycle messages
// are terminated here; everything else is decoded and either completes a
// pending request or is published as an event.
func (c *Channel) readLoop() error {
	for {
		env, err := castwire.ReadEnvelope(c.netConn)
		if err != nil {
			c.fail(&TransportFailure{Cause: err})
			// If fail() had already run (a graceful Close, or the
			// heartbeat goroutine losing the race), c.closeErr reflects
			// that original reason rather than this read error.
			return c.closeErrLocked()
		}
		c.touchRecv()

		namespace := env.GetNamespace()
		payload := []byte(env.GetPayloadUtf8())
		remote := env.GetSourceId()

		switch namespace {
		case HeartbeatNamespace:
			c.handleHeartbeat(remote, payload)
			continue

		case vconn.ConnectionNamespace:
			c.handleConnectionLifecycle(remote, payload)
			continue
		}

		resp, err := c.decoder.Decode(payload)
		if err != nil {
			c.log.Warn("castchannel: discarding malformed payload", "namespace", namespace, "error", err)
			continue
		}

		if id := resp.RequestID(); id != 0 && c.pending.complete(id, resp) {
			continue
		}

		c.events.publish(Event{Namespace: namespace, Response: resp})
	}
}

func (c *Channel) handleHeartbeat(remote string, payload []byte) {
	switch wireType(payload) {
	case "PING":
		pong, err := castproto.EncodeRequest(castproto.NewPongRequest())
		if err != nil {
			return
		}
		_ = c.WriteOneway(HeartbeatNamespace, remote, pong)
	case "PONG":
		// liveness already recorded by touchRecv in readLoop.
	}
}

func (c *Channel) handleConnectionLifecycle(remote string, payload []byte) {
	if wireType(payload) == "CLOSE" {
		c.vconnMgr.OnCloseReceived(c.sourceID, remote)
	}
}
