package middleware

import (
	"net"
	"strings"
)

// ClientIP returns the address of the client. Forwarding headers are only honored when
// trustProxy is set, otherwise any client could pick its own rate limit key.
func ClientIP(header func(string) string, remoteAddr string, trustProxy bool) string {
	if trustProxy {
		if xff := header("X-Forwarded-For"); xff != "" {
			return firstValue(xff)
		}

		if xri := header("X-Real-IP"); xri != "" {
			return strings.TrimSpace(xri)
		}
	}

	ip, _, err := net.SplitHostPort(remoteAddr)
	if err != nil {
		return remoteAddr
	}

	return ip
}

// firstValue returns the first element of a comma separated header.
func firstValue(v string) string {
	first, _, _ := strings.Cut(v, ",")

	return strings.TrimSpace(first)
}
