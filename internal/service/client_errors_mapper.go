// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"errors"
	"strings"

	"github.com/MKhiriev/go-nest-keeper/internal/adapter"
	"github.com/MKhiriev/go-nest-keeper/internal/app"
)

// mapAdapterError translates the adapter's transport error into a service
// business error where the server's message body identifies one. Transient
// transport failures pass through untouched so callers can still probe them
// with adapter.IsTransient.
func mapAdapterError(err error) error {
	if err == nil {
		return nil
	}

	msg := extractBody(err)

	switch {
	case errors.Is(err, adapter.ErrBadRequest):
		switch msg {
		case app.MsgInvalidDataProvided:
			return ErrInvalidDataProvided
		case app.MsgDeviceMismatch:
			return ErrDeviceMismatch
		}

	case errors.Is(err, adapter.ErrUnauthorized):
		if msg == app.MsgRefreshRejected {
			return ErrRefreshRejected
		}
		return ErrTokenIsExpiredOrInvalid
	}

	return err
}

// extractBody extracts the body from a message of the form "bad request: <body>"
func extractBody(err error) string {
	msg := err.Error()
	if idx := strings.Index(msg, ": "); idx != -1 {
		return msg[idx+2:]
	}
	return msg
}
