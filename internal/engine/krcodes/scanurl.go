package krcodes

import (
	"net/http"
	"strings"
)

// Origin returns the public origin scan URLs are built on: the configured
// override when set, otherwise the origin of the inbound request.
func Origin(r *http.Request, override string) string {
	if o := strings.TrimRight(strings.TrimSpace(override), "/"); o != "" {
		return o
	}

	scheme := "http"
	if r.TLS != nil || strings.EqualFold(r.Header.Get("X-Forwarded-Proto"), "https") {
		scheme = "https"
	}
	return scheme + "://" + r.Host
}

// ScanURL is the string every artifact encodes. It always targets the app's
// own redirect endpoint so each scan is recorded before forwarding.
func ScanURL(origin, code string) string {
	return strings.TrimRight(origin, "/") + "/r/" + code
}
