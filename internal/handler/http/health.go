package http

import (
	"net/http"
)

// health answers the liveness probe used by clients to detect connectivity.
// It reports process liveness only, no dependency checks.
func (h *Handler) health(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
}
