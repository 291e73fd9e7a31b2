package http

import (
	"errors"
	"net/http"

	"github.com/MKhiriev/go-nest-keeper/internal/service"
	"github.com/MKhiriev/go-nest-keeper/internal/store"
)

var errorStatusMap = map[error]int{
	service.ErrInvalidDataProvided:     http.StatusBadRequest,
	service.ErrDeviceMismatch:          http.StatusBadRequest,
	service.ErrTokenIsExpiredOrInvalid: http.StatusUnauthorized,
	service.ErrRefreshRejected:         http.StatusUnauthorized,
	service.ErrVersionIsNotSpecified:   http.StatusBadRequest,

	store.ErrFamilyMismatch:       http.StatusForbidden,
	store.ErrRecordNotFound:       http.StatusNotFound,
	store.ErrEventNotFound:        http.StatusNotFound,
	store.ErrDeviceStateNotFound:  http.StatusNotFound,
	store.ErrStaleWrite:           http.StatusConflict,
	store.ErrSessionNotFound:      http.StatusUnauthorized,
	store.ErrRefreshTokenMismatch: http.StatusUnauthorized,

	store.ErrBuildingSQLQuery:     http.StatusInternalServerError,
	store.ErrExecutingQuery:       http.StatusInternalServerError,
	store.ErrBeginningTransaction: http.StatusInternalServerError,
	store.ErrCommitingTransaction: http.StatusInternalServerError,
	store.ErrExecutingStatement:   http.StatusInternalServerError,
	store.ErrScanningRow:          http.StatusInternalServerError,
	store.ErrScanningRows:         http.StatusInternalServerError,
}

func statusFromError(err error) int {
	for target, status := range errorStatusMap {
		if errors.Is(err, target) {
			return status
		}
	}
	return http.StatusInternalServerError
}
