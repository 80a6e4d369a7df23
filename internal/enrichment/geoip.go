package enrichment

import (
	"net"
)

const (
	NetworkLocal   = "local"
	NetworkPublic  = "public"
	NetworkUnknown = "unknown"
)

// ClassifyIP tells loopback and private addresses apart from public ones.
// No geolocation database is consulted.
func ClassifyIP(ipAddress string) string {
	ip := net.ParseIP(ipAddress)
	if ip == nil {
		return NetworkUnknown
	}
	if ip.IsLoopback() || ip.IsPrivate() || ip.IsLinkLocalUnicast() {
		return NetworkLocal
	}
	return NetworkPublic
}
