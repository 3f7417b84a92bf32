package api

import (
	"encoding/json"
	"errors"
	"net"
	"net/http"
	"strings"

	"grimm.is/ifctl/internal/netctl"
)

// getClientIP extracts the client IP from the request.
// Respects X-Forwarded-For and X-Real-IP headers for proxy situations.
func getClientIP(r *http.Request) string {
	xff := r.Header.Get("X-Forwarded-For")
	if xff != "" {
		ips := strings.Split(xff, ",")
		if len(ips) > 0 {
			ip := strings.TrimSpace(ips[0])
			if net.ParseIP(ip) != nil {
				return ip
			}
		}
	}

	xri := r.Header.Get("X-Real-IP")
	if xri != "" {
		if net.ParseIP(xri) != nil {
			return xri
		}
	}

	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return ip
}

// rateLimitKey identifies the caller for throttling. Unlike getClientIP it
// ignores X-Forwarded-For and X-Real-IP, which the client controls and could
// rotate to dodge the limit.
func rateLimitKey(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

// ErrorResponse represents a standard API error response.
type ErrorResponse struct {
	Error string `json:"error"`
}

// WriteError sends a JSON error response.
func WriteError(w http.ResponseWriter, code int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(ErrorResponse{Error: message})
}

// WriteJSON sends a JSON success response.
func WriteJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		json.NewEncoder(w).Encode(data)
	}
}

// writeControllerError maps controller errors to HTTP status codes. OS-level
// failures surface verbatim with a 500.
func writeControllerError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, netctl.ErrNotFound):
		WriteError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, netctl.ErrBusy):
		WriteError(w, http.StatusConflict, err.Error())
	case errors.Is(err, netctl.ErrInvalidState),
		errors.Is(err, netctl.ErrInvalidMode),
		errors.Is(err, netctl.ErrUnsupportedMode):
		WriteError(w, http.StatusBadRequest, err.Error())
	default:
		WriteError(w, http.StatusInternalServerError, err.Error())
	}
}

// bearerToken extracts the token from an Authorization: Bearer header.
func bearerToken(r *http.Request) string {
	h := r.Header.Get("Authorization")
	const prefix = "Bearer "
	if len(h) > len(prefix) && strings.EqualFold(h[:len(prefix)], prefix) {
		return h[len(prefix):]
	}
	return ""
}
