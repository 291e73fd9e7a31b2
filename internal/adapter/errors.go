package adapter

import (
	"errors"
	"net"
)

var (
	ErrBadRequest          = errors.New("bad request")
	ErrUnauthorized        = errors.New("client unauthorized")
	ErrForbidden           = errors.New("forbidden")
	ErrNotFound            = errors.New("not found")
	ErrConflict            = errors.New("conflict")
	ErrInternalServerError = errors.New("internal server error")
	ErrBadGateway          = errors.New("bad gateway")
	ErrServiceUnavailable  = errors.New("service unavailable")

	// ErrSessionExpired is the uniform verdict every caller receives when
	// the refresh flow cannot restore the session. The underlying refusal
	// stays wrapped inside for logging.
	ErrSessionExpired = errors.New("session expired")
)

// IsTransient reports whether a transport error is worth retrying later:
// network-level failures and server-side 5xx responses. Used by the sync
// client's pull retry and by the connectivity probe.
func IsTransient(err error) bool {
	var netErr net.Error
	if errors.As(err, &netErr) {
		return true
	}

	return errors.Is(err, ErrInternalServerError) ||
		errors.Is(err, ErrBadGateway) ||
		errors.Is(err, ErrServiceUnavailable)
}
