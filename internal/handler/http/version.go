package http

import (
	"net/http"
)

// getServerVersion answers the build version as plain text. Agents log it
// once per session so mixed-fleet issues are visible server-side and client-side.
func (h *Handler) getServerVersion(w http.ResponseWriter, r *http.Request) {
	version := h.services.AppInfoService.GetAppVersion(r.Context())

	w.Header().Set("Content-Type", "text/plain")
	w.Write([]byte(version))
}
