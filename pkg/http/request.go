package http

import (
	"net"
	"net/http"
)

// ClientIP extracts the client IP from the request. The router runs
// behind chi's RealIP middleware, so RemoteAddr is already the real
// client for trusted deployments.
func ClientIP(r *http.Request) string {
	if r.RemoteAddr == "" {
		return "unknown"
	}
	if ip, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		return ip
	}
	return r.RemoteAddr
}
