package castchannel

import (
	"time"

	"github.com/sebas/gocast/internal/castproto"
)

// heartbeatLoop sends a PING on every open virtual connection whenever the
// channel has been silent (no outbound write) for cfg.HeartbeatInterval,
// and declares the transport dead if nothing has been received for
// cfg.HeartbeatTimeout (spec §4.3 "Heartbeat", scenario S6).
func (c *Channel) heartbeatLoop() error {
	interval := c.cfg.HeartbeatInterval
	if interval <= 0 {
		interval = DefaultConfig().HeartbeatInterval
	}
	timeout := c.cfg.HeartbeatTimeout
	if timeout <= 0 {
		timeout = DefaultConfig().HeartbeatTimeout
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	ping, err := castproto.EncodeRequest(castproto.NewPingRequest())
	if err != nil {
		return err
	}

	for {
		select {
		case <-c.closed:
			return c.closeErrLocked()

		case now := <-ticker.C:
			lastRecv := time.Unix(0, c.lastRecvAt.Load())
			if now.Sub(lastRecv) > timeout {
				c.fail(&TransportFailure{Cause: errHeartbeatTimeout})
				return c.closeErrLocked()
			}

			lastWrite := time.Unix(0, c.lastWriteAt.Load())
			if now.Sub(lastWrite) < interval {
				continue
			}
			for _, key := range c.vconnMgr.Open() {
				_ = c.WriteOneway(HeartbeatNamespace, key.Destination, ping)
			}
		}
	}
}
