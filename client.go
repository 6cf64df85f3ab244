package cast

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/sebas/gocast/internal/castchannel"
	"github.com/sebas/gocast/internal/castproto"
)

// Client drives one receiver over a single Channel. It owns the virtual
// connection to the default receiver platform (receiver-0); launched
// applications are returned as a Session bound to their own transportId.
type Client struct {
	ch     *castchannel.Channel
	device Device
}

// Dial opens a Channel to device.Addr and ensures the receiver platform's
// virtual connection is open (spec §4.5 "Dial" / §4.2 "implicit
// connection").
func Dial(ctx context.Context, device Device, cfg castchannel.Config, log *slog.Logger) (*Client, error) {
	ch, err := castchannel.Open(ctx, device.Addr, cfg, log)
	if err != nil {
		return nil, fmt.Errorf("cast: dial %s: %w", device.Addr, err)
	}
	if err := ch.EnsureConnection(receiverDestination); err != nil {
		_ = ch.Close()
		return nil, fmt.Errorf("cast: connect to receiver platform: %w", err)
	}
	return &Client{ch: ch, device: device}, nil
}

// Device returns the Device this client was dialed against.
func (c *Client) Device() Device { return c.device }

// Events returns the channel's unsolicited events (multizone device
// membership changes, unrequested status pushes). The caller must invoke
// the returned unsubscribe func when done (spec §4.3 step 5).
func (c *Client) Events() (<-chan castchannel.Event, func()) { return c.ch.Events() }

// Done is closed once the underlying transport has shut down.
func (c *Client) Done() <-chan struct{} { return c.ch.Done() }

// Close gracefully tears the channel down, closing every virtual connection
// it opened.
func (c *Client) Close() error { return c.ch.Close() }

// GetStatus fetches the receiver platform's current ReceiverStatus.
func (c *Client) GetStatus(ctx context.Context) (castproto.ReceiverStatus, error) {
	resp, err := c.ch.SendRequest(ctx, namespaceReceiver, receiverDestination, castproto.NewGetStatusRequest())
	if err != nil {
		return castproto.ReceiverStatus{}, err
	}
	status, ok := resp.(castproto.ReceiverStatusResponse)
	if !ok {
		return castproto.ReceiverStatus{}, &castchannel.ProtocolError{Namespace: namespaceReceiver, Want: "RECEIVER_STATUS", Got: resp.ResponseType()}
	}
	return status.Status, nil
}

// GetAppAvailability asks whether each of appIDs can be launched.
func (c *Client) GetAppAvailability(ctx context.Context, appIDs ...string) (castproto.AppAvailabilityResponse, error) {
	resp, err := c.ch.SendRequest(ctx, namespaceReceiver, receiverDestination, castproto.NewGetAppAvailabilityRequest(appIDs...))
	if err != nil {
		return castproto.AppAvailabilityResponse{}, err
	}
	avail, ok := resp.(castproto.AppAvailabilityResponse)
	if !ok {
		return castproto.AppAvailabilityResponse{}, &castchannel.ProtocolError{Namespace: namespaceReceiver, Want: "GET_APP_AVAILABILITY", Got: resp.ResponseType()}
	}
	return avail, nil
}

// IsAppAvailable is a convenience wrapper around GetAppAvailability for a
// single appID.
func (c *Client) IsAppAvailable(ctx context.Context, appID string) (bool, error) {
	avail, err := c.GetAppAvailability(ctx, appID)
	if err != nil {
		return false, err
	}
	return avail.IsAvailable(appID), nil
}

// SetVolume applies a (possibly partial) volume update to the receiver
// platform and returns its resulting ReceiverStatus.
func (c *Client) SetVolume(ctx context.Context, v castproto.Volume) (castproto.ReceiverStatus, error) {
	resp, err := c.ch.SendRequest(ctx, namespaceReceiver, receiverDestination, castproto.NewSetVolumeRequest(v))
	if err != nil {
		return castproto.ReceiverStatus{}, err
	}
	status, ok := resp.(castproto.ReceiverStatusResponse)
	if !ok {
		return castproto.ReceiverStatus{}, &castchannel.ProtocolError{Namespace: namespaceReceiver, Want: "RECEIVER_STATUS", Got: resp.ResponseType()}
	}
	return status.Status, nil
}

// Launch starts appID on the receiver and returns a Session bound to the
// application's own transportId, resolved from the resulting
// ReceiverStatus (spec §4.5 "Launch resolves to the new Application entry
// in the following ReceiverStatus").
func (c *Client) Launch(ctx context.Context, appID string) (*Session, error) {
	resp, err := c.ch.SendRequest(ctx, namespaceReceiver, receiverDestination, castproto.NewLaunchRequest(appID))
	if err != nil {
		return nil, err
	}
	status, ok := resp.(castproto.ReceiverStatusResponse)
	if !ok {
		return nil, &castchannel.ProtocolError{Namespace: namespaceReceiver, Want: "RECEIVER_STATUS", Got: resp.ResponseType()}
	}
	app, ok := status.Status.ApplicationByAppID(appID)
	if !ok {
		return nil, fmt.Errorf("cast: launch %s: application not present in resulting receiver status", appID)
	}
	return c.sessionFor(app), nil
}

// Stop ends a running application session.
func (c *Client) Stop(ctx context.Context, sessionID string) error {
	_, err := c.ch.SendRequest(ctx, namespaceReceiver, receiverDestination, castproto.NewStopRequest(sessionID))
	return err
}

// sessionFor wraps an already-running Application as a Session. It writes
// nothing; the Session's first request opens its virtual connection.
func (c *Client) sessionFor(app castproto.Application) *Session {
	return &Session{
		client:      c,
		appID:       app.AppID,
		sessionID:   app.SessionID,
		transportID: app.TransportID,
	}
}
