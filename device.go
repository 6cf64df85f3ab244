// Package cast is the high-level facade (spec §4.5): given a receiver's
// address, it dials a Channel, tracks the default receiver platform's
// virtual connection, and exposes application lifecycle, volume, and media
// control as ordinary blocking methods instead of raw request/response
// plumbing. It is a constructor that wires the lower-level pieces (here,
// castchannel.Channel and vconn's destination bookkeeping) and hands back
// one object callers drive.
package cast

import "github.com/sebas/gocast/internal/discovery"

// Well-known destination ids (spec §6).
const (
	receiverDestination = "receiver-0"
)

// Well-known namespaces (spec §6).
const (
	namespaceReceiver  = "urn:x-cast:com.google.cast.receiver"
	namespaceMedia     = "urn:x-cast:com.google.cast.media"
	namespaceMultizone = "urn:x-cast:com.google.cast.multizone"
)

// Device identifies one Cast receiver to dial: its network address plus
// whatever an mDNS browse resolved about it. Device itself does no
// discovery (spec Non-goals: "mDNS discovery internals") — it is the
// target a caller hands to Dial.
type Device struct {
	Addr         string
	FriendlyName string
	ModelName    string
	UniqueID     string
	Capabilities int
}

// DeviceFromRecord builds a Device from an externally resolved mDNS
// service record (spec §6 "mDNS input" — discovery is supplied, not
// performed by this module).
func DeviceFromRecord(r discovery.ServiceRecord) Device {
	info := discovery.ParseDeviceInfo(r)
	return Device{
		Addr:         info.Addr,
		FriendlyName: info.FriendlyName,
		ModelName:    info.ModelName,
		UniqueID:     info.UniqueID,
		Capabilities: info.Capabilities,
	}
}
