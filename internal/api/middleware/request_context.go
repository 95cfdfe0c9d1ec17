package middleware

import (
	"net/http"
	"strings"

	"github.com/DivaAnanda/accenprove-sub001/internal/services"
)

// AuthCookieName is the cookie carrying the session token.
const AuthCookieName = "auth-token"

// TokenFromCookieHeader extracts the session token from a raw Cookie header.
// It tolerates a missing header, malformed pairs and absence of the target
// cookie; all of those return "".
func TokenFromCookieHeader(header string) string {
	if header == "" {
		return ""
	}
	for _, pair := range strings.Split(header, ";") {
		key, value, found := strings.Cut(strings.TrimSpace(pair), "=")
		if !found {
			continue
		}
		if strings.TrimSpace(key) == AuthCookieName {
			return strings.TrimSpace(value)
		}
	}
	return ""
}

// ClientContext derives the caller's network context from request headers.
// Precedence: X-Forwarded-For, then X-Real-IP, then the "unknown" sentinel.
func ClientContext(r *http.Request) services.RequestInfo {
	info := services.RequestInfo{IPAddress: "unknown", UserAgent: "unknown"}
	if r == nil {
		return info
	}

	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		// First hop is the original client.
		info.IPAddress = strings.TrimSpace(strings.Split(fwd, ",")[0])
	} else if real := r.Header.Get("X-Real-IP"); real != "" {
		info.IPAddress = real
	}

	if ua := r.Header.Get("User-Agent"); ua != "" {
		info.UserAgent = ua
	}

	return info
}
