// Package castchannel implements the session/channel component (spec §4.3):
// one TLS connection multiplexing every virtual connection, request
// correlation, heartbeat liveness, and event fan-out. It is the largest
// component in this module: a single long-lived multiplexed connection
// instead of a pool of independent dialogs.
package castchannel

import (
	"context"
	"crypto/tls"
	"crypto/x509"
	"fmt"
	"log/slog"
	"net"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/sebas/gocast/internal/castproto"
	"github.com/sebas/gocast/internal/castwire"
	"github.com/sebas/gocast/internal/logger"
	"github.com/sebas/gocast/internal/vconn"
)

// HeartbeatNamespace carries PING/PONG traffic (spec §4.3).
const HeartbeatNamespace = "urn:x-cast:com.google.cast.tp.heartbeat"

// conn is the subset of net.Conn the channel needs; satisfied by *tls.Conn
// and by net.Pipe() halves in tests.
type conn interface {
	net.Conn
}

// Channel owns one multiplexed transport to a single receiver. It is safe
// for concurrent use by any number of goroutines.
type Channel struct {
	cfg      Config
	sourceID string
	log      *slog.Logger

	netConn conn
	writeMu sync.Mutex

	pending  *pendingRegistry
	events   *eventBus
	requests atomic.Uint64

	vconnMgr *vconn.Manager
	decoder  castproto.Decoder

	lastWriteAt atomic.Int64 // unix nano
	lastRecvAt  atomic.Int64

	closeOnce sync.Once
	closeErr  error
	closeMu   sync.Mutex
	closed    chan struct{}

	// eg coordinates the reader and heartbeat goroutines so Close can join
	// both and learn whichever of them observed the transport failure first
	// (spec §5 expansion: both goroutines can independently fail).
	eg errgroup.Group
}

// Open dials addr with TLS (accepting a self-signed receiver certificate
// unless cfg.TLSVerify is set — spec §7.1) and starts the channel.
func Open(ctx context.Context, addr string, cfg Config, log *slog.Logger) (*Channel, error) {
	dialer := &tls.Dialer{
		Config: &tls.Config{
			InsecureSkipVerify: true, //nolint:gosec // receivers present self-signed certs; see cfg.TLSVerify
		},
	}
	if cfg.TLSVerify != nil {
		verify := cfg.TLSVerify
		dialer.Config.VerifyPeerCertificate = func(rawCerts [][]byte, _ [][]*x509.Certificate) error {
			if len(rawCerts) == 0 {
				return fmt.Errorf("castchannel: no peer certificate presented")
			}
			leaf, err := x509.ParseCertificate(rawCerts[0])
			if err != nil {
				return fmt.Errorf("castchannel: parse peer certificate: %w", err)
			}
			return verify(leaf)
		}
	}

	nc, err := dialer.DialContext(ctx, "tcp", addr)
	if err != nil {
		return nil, &TransportFailure{Cause: err}
	}
	return OpenConn(nc.(*tls.Conn), cfg, log), nil
}

// OpenConn wraps an already-established connection (a real *tls.Conn, or a
// net.Pipe half in tests) and starts the channel's reader and heartbeat
// goroutines.
func OpenConn(nc conn, cfg Config, log *slog.Logger) *Channel {
	if cfg.HeartbeatInterval == 0 {
		d := DefaultConfig()
		cfg.HeartbeatInterval = d.HeartbeatInterval
		cfg.HeartbeatTimeout = d.HeartbeatTimeout
		cfg.RequestTimeout = d.RequestTimeout
		if cfg.UserAgent == "" {
			cfg.UserAgent = d.UserAgent
		}
		if cfg.EventQueueSize == 0 {
			cfg.EventQueueSize = d.EventQueueSize
		}
	}
	if log == nil {
		log = logger.Noop()
	}

	c := &Channel{
		cfg:      cfg,
		sourceID: "sender-" + uuid.NewString(),
		log:      log,
		netConn:  nc,
		pending:  newPendingRegistry(),
		events:   newEventBus(cfg.EventQueueSize),
		decoder:  castproto.Decoder{Strict: cfg.DecodeStrict},
		closed:   make(chan struct{}),
	}
	c.vconnMgr = vconn.NewManager(c,
		func() ([]byte, error) { return castproto.EncodeRequest(castproto.NewConnectRequest(cfg.UserAgent, cfg.ConnType)) },
		func() ([]byte, error) { return castproto.EncodeRequest(castproto.NewCloseRequest()) },
	)
	c.vconnMgr.SetOnPendingClose(func(dest string) {
		c.pending.failDestination(dest, &ConnectionClosed{})
	})

	c.touchWrite()
	c.touchRecv()

	c.eg.Go(c.readLoop)
	c.eg.Go(c.heartbeatLoop)

	return c
}

// SourceID returns this channel's self-assigned sender identity (spec §3
// "source_id").
func (c *Channel) SourceID() string { return c.sourceID }

func (c *Channel) touchWrite() { c.lastWriteAt.Store(time.Now().UnixNano()) }
func (c *Channel) touchRecv()  { c.lastRecvAt.Store(time.Now().UnixNano()) }

// EnsureConnection opens a virtual connection to destinationID if one is
// not already open (spec §4.2/§5: "every request implicitly ensures its
// virtual connection is open first").
func (c *Channel) EnsureConnection(destinationID string) error {
	return c.vconnMgr.Ensure(c.sourceID, destinationID)
}

// CloseConnection tears down the virtual connection to destinationID.
func (c *Channel) CloseConnection(destinationID string) error {
	return c.vconnMgr.Close(c.sourceID, destinationID)
}

// WriteOneway sends payload on namespace to destinationID without
// requestId correlation. It implements vconn.Writer.
func (c *Channel) WriteOneway(namespace, destinationID string, payload []byte) error {
	select {
	case <-c.closed:
		return &ConnectionClosed{Cause: c.closeErrLocked()}
	default:
	}

	env := castwire.NewStringEnvelope(c.sourceID, destinationID, namespace, string(payload))
	c.writeMu.Lock()
	err := castwire.WriteEnvelope(c.netConn, env)
	c.writeMu.Unlock()
	if err != nil {
		c.fail(&TransportFailure{Cause: err})
		return c.closeErrLocked()
	}
	c.touchWrite()
	return nil
}

// SendRequest ensures the virtual connection to destinationID is open,
// stamps req with a fresh monotonic requestId (spec invariant 3), writes it
// on namespace, and blocks until a correlated response arrives, ctx is
// done, or the channel closes.
func (c *Channel) SendRequest(ctx context.Context, namespace, destinationID string, req castproto.Request) (castproto.Response, error) {
	if err := c.EnsureConnection(destinationID); err != nil {
		return nil, err
	}

	id := c.requests.Add(1)
	req.SetRequestID(id)

	payload, err := castproto.EncodeRequest(req)
	if err != nil {
		return nil, fmt.Errorf("castchannel: encode %s: %w", req.MessageType(), err)
	}

	entry := c.pending.register(id, namespace, destinationID)

	deadline := c.cfg.RequestTimeout
	if deadline <= 0 {
		deadline = DefaultConfig().RequestTimeout
	}
	timer := time.NewTimer(deadline)
	defer timer.Stop()

	if err := c.WriteOneway(namespace, destinationID, payload); err != nil {
		c.pending.remove(id)
		return nil, err
	}

	select {
	case res := <-entry.done:
		if res.err != nil {
			return nil, res.err
		}
		if errResp, ok := res.response.(castproto.ReceiverErrorResponse); ok {
			return res.response, &ReceiverError{Response: errResp}
		}
		return res.response, nil

	case <-timer.C:
		c.pending.remove(id)
		return nil, &Timeout{Namespace: namespace, RequestID: id}

	case <-ctx.Done():
		c.pending.remove(id)
		return nil, ctx.Err()

	case <-c.closed:
		return nil, &ConnectionClosed{Cause: c.closeErrLocked()}
	}
}

// Events returns a channel of unsolicited responses (spec §4.3 step 5) and
// an unsubscribe function the caller must eventually invoke.
func (c *Channel) Events() (<-chan Event, func()) {
	return c.events.subscribe()
}

// Done is closed once the channel has shut down, locally or remotely.
func (c *Channel) Done() <-chan struct{} { return c.closed }

// Err returns the reason the channel closed, or nil if it closed cleanly
// via Close.
func (c *Channel) Err() error { return c.closeErrLocked() }

func (c *Channel) closeErrLocked() error {
	c.closeMu.Lock()
	defer c.closeMu.Unlock()
	return c.closeErr
}

// Close shuts the channel down gracefully: it writes CLOSE for every open
// virtual connection, fails every pending request, and tears down the
// transport. It returns whichever of the reader/heartbeat goroutines
// reported an error while shutting down, if any.
func (c *Channel) Close() error {
	c.fail(nil)
	return c.eg.Wait()
}

// fail performs the one-time teardown sequence, whether triggered by a
// caller's Close or a transport failure observed by readLoop/heartbeatLoop.
// It never goes through WriteOneway/vconnMgr.Close — both would recurse
// back into fail on a write error, deadlocking on closeOnce — so a graceful
// shutdown best-effort writes CLOSE directly via rawWrite instead.
func (c *Channel) fail(cause error) {
	c.closeOnce.Do(func() {
		c.closeMu.Lock()
		c.closeErr = cause
		c.closeMu.Unlock()

		if cause == nil {
			closePayload, err := castproto.EncodeRequest(castproto.NewCloseRequest())
			if err == nil {
				for _, key := range c.vconnMgr.Open() {
					_ = c.rawWrite(vconn.ConnectionNamespace, key.Destination, closePayload)
				}
			}
		}
		c.vconnMgr.InvalidateAll()

		closedErr := cause
		if closedErr == nil {
			closedErr = ErrConnectionClosed
		}
		c.pending.failAll(&ConnectionClosed{Cause: closedErr})

		close(c.closed)
		_ = c.netConn.Close()
		c.events.closeAll()
	})
}

// rawWrite writes directly to the transport, bypassing the closed-channel
// guard and never escalating a failure back through fail — used only
// during teardown itself. A short deadline keeps a graceful Close from
// blocking forever writing a farewell CLOSE to a receiver that has already
// stopped reading.
func (c *Channel) rawWrite(namespace, destinationID string, payload []byte) error {
	env := castwire.NewStringEnvelope(c.sourceID, destinationID, namespace, string(payload))
	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	_ = c.netConn.SetWriteDeadline(time.Now().Add(2 * time.Second))
	defer func() { _ = c.netConn.SetWriteDeadline(time.Time{}) }()
	return castwire.WriteEnvelope(c.netConn, env)
}
