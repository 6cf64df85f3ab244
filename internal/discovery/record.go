// Package discovery holds the shape an mDNS collaborator hands back to the
// rest of this module (spec §6 "mDNS input"). It deliberately implements
// no multicast listener of its own — browsing _googlecast._tcp.local. is
// an external concern — but the record shape and its TXT-key parsing are
// part of the module's external interface and are worth a concrete,
// testable type.
package discovery

import (
	"fmt"
	"strconv"
)

// DefaultPort is used when a ServiceRecord's Port is unset.
const DefaultPort = 8009

// ServiceRecord is whatever an mDNS browser resolved for one
// _googlecast._tcp.local. instance.
type ServiceRecord struct {
	Host string
	Port int
	TXT  map[string]string
}

// Addr returns host:port, defaulting Port to DefaultPort.
func (r ServiceRecord) Addr() string {
	port := r.Port
	if port == 0 {
		port = DefaultPort
	}
	return fmt.Sprintf("%s:%d", r.Host, port)
}

// DeviceInfo is the parsed, typed form of a ServiceRecord's TXT keys (spec
// §6: fn, md, id, ca, rs, st, ve).
type DeviceInfo struct {
	FriendlyName     string
	ModelName        string
	UniqueID         string
	Capabilities     int
	Status           string
	SessionID        string
	ProtocolVersion  string
	Addr             string
}

// ParseDeviceInfo extracts DeviceInfo from a ServiceRecord's TXT map. Any
// missing or malformed key is left at its zero value rather than erroring —
// an mDNS TXT record is advisory, not authoritative (the receiver's own
// RECEIVER_STATUS response is authoritative once connected).
func ParseDeviceInfo(r ServiceRecord) DeviceInfo {
	info := DeviceInfo{
		FriendlyName:    r.TXT["fn"],
		ModelName:       r.TXT["md"],
		UniqueID:        r.TXT["id"],
		Status:          r.TXT["rs"],
		SessionID:       r.TXT["st"],
		ProtocolVersion: r.TXT["ve"],
		Addr:            r.Addr(),
	}
	if ca, ok := r.TXT["ca"]; ok {
		if v, err := strconv.Atoi(ca); err == nil {
			info.Capabilities = v
		}
	}
	return info
}
