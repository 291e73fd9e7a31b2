package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/MKhiriev/go-nest-keeper/internal/app"
	"github.com/MKhiriev/go-nest-keeper/internal/logger"
	"github.com/MKhiriev/go-nest-keeper/internal/service"
	"github.com/MKhiriev/go-nest-keeper/internal/utils"
	"github.com/MKhiriev/go-nest-keeper/models"
)

func (h *Handler) refreshSession(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromRequest(r)

	var refreshRequest models.RefreshRequest
	if err := json.NewDecoder(r.Body).Decode(&refreshRequest); err != nil {
		log.Err(err).Msg("Invalid JSON was passed")
		http.Error(w, app.MsgInvalidDataProvided, http.StatusBadRequest)
		return
	}

	log.Debug().Str("device_id", refreshRequest.DeviceID).Msg("session refresh requested")

	response, err := h.services.AuthService.Refresh(ctx, refreshRequest)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidDataProvided):
			log.Err(err).Msg("invalid refresh request")
			http.Error(w, app.MsgInvalidDataProvided, http.StatusBadRequest)
			return
		case errors.Is(err, service.ErrRefreshRejected):
			log.Err(err).Str("device_id", refreshRequest.DeviceID).Msg("refresh token rejected")
			http.Error(w, app.MsgRefreshRejected, http.StatusUnauthorized)
			return
		default:
			log.Err(err).Msg("unexpected error occurred during session refresh")
			http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
			return
		}
	}

	log.Debug().Str("device_id", refreshRequest.DeviceID).Time("expires_at", response.ExpiresAt).Msg("access token reissued")

	utils.WriteJSON(w, response, http.StatusOK)
}
