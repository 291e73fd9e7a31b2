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

func (h *Handler) pushEvents(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromRequest(r)

	userID, found := utils.GetUserIDFromContext(ctx)
	if !found {
		log.Error().Str("func", "*Handler.pushEvents").Msg(app.MsgNoUserIDProvided)
		http.Error(w, app.MsgNoUserIDProvided, http.StatusUnauthorized)
		return
	}
	familyID, found := utils.GetFamilyIDFromContext(ctx)
	if !found {
		log.Error().Str("func", "*Handler.pushEvents").Msg(app.MsgNoFamilyIDProvided)
		http.Error(w, app.MsgNoFamilyIDProvided, http.StatusUnauthorized)
		return
	}
	deviceID, found := utils.GetDeviceIDFromContext(ctx)
	if !found {
		log.Error().Str("func", "*Handler.pushEvents").Msg(app.MsgNoDeviceIDProvided)
		http.Error(w, app.MsgNoDeviceIDProvided, http.StatusUnauthorized)
		return
	}

	var pushRequest models.PushRequest
	if err := json.NewDecoder(r.Body).Decode(&pushRequest); err != nil {
		log.Err(err).Str("func", "*Handler.pushEvents").Msg("Invalid JSON was passed")
		http.Error(w, app.MsgInvalidDataProvided, http.StatusBadRequest)
		return
	}

	response, err := h.services.SyncService.Push(ctx, userID, familyID, deviceID, pushRequest)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidDataProvided):
			log.Err(err).Msg("push batch failed validation")
			http.Error(w, app.MsgInvalidDataProvided, http.StatusBadRequest)
			return
		case errors.Is(err, service.ErrDeviceMismatch):
			log.Err(err).Msg("push device does not match the token device")
			http.Error(w, app.MsgDeviceMismatch, http.StatusBadRequest)
			return
		default:
			log.Err(err).Msg("unexpected error occurred during push")
			http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
			return
		}
	}

	log.Debug().Int("acks", len(response.Acks)).Msg("push batch acknowledged")

	utils.WriteJSON(w, response, http.StatusOK)
}

func (h *Handler) pullChanges(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromRequest(r)

	userID, found := utils.GetUserIDFromContext(ctx)
	if !found {
		log.Error().Str("func", "*Handler.pullChanges").Msg(app.MsgNoUserIDProvided)
		http.Error(w, app.MsgNoUserIDProvided, http.StatusUnauthorized)
		return
	}
	familyID, found := utils.GetFamilyIDFromContext(ctx)
	if !found {
		log.Error().Str("func", "*Handler.pullChanges").Msg(app.MsgNoFamilyIDProvided)
		http.Error(w, app.MsgNoFamilyIDProvided, http.StatusUnauthorized)
		return
	}
	deviceID, found := utils.GetDeviceIDFromContext(ctx)
	if !found {
		log.Error().Str("func", "*Handler.pullChanges").Msg(app.MsgNoDeviceIDProvided)
		http.Error(w, app.MsgNoDeviceIDProvided, http.StatusUnauthorized)
		return
	}

	since := r.URL.Query().Get("since")

	response, err := h.services.SyncService.Pull(ctx, userID, familyID, deviceID, since)
	if err != nil {
		log.Err(err).Str("func", "*Handler.pullChanges").Msg("error pulling record changes")
		http.Error(w, "error pulling record changes", statusFromError(err))
		return
	}

	log.Debug().Int("records", len(response.Records)).Str("cursor", response.Cursor).Msg("pull page served")

	utils.WriteJSON(w, response, http.StatusOK)
}

func (h *Handler) syncStatus(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromRequest(r)

	deviceID, found := utils.GetDeviceIDFromContext(ctx)
	if !found {
		log.Error().Str("func", "*Handler.syncStatus").Msg(app.MsgNoDeviceIDProvided)
		http.Error(w, app.MsgNoDeviceIDProvided, http.StatusUnauthorized)
		return
	}

	response, err := h.services.SyncService.Status(ctx, deviceID)
	if err != nil {
		log.Err(err).Str("func", "*Handler.syncStatus").Msg(app.MsgSyncStatusFailed)
		http.Error(w, app.MsgSyncStatusFailed, statusFromError(err))
		return
	}

	utils.WriteJSON(w, response, http.StatusOK)
}
