// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package app contains shared application-layer constants used across the
// go-nest-keeper server handlers and middleware.
//
// All Msg* constants are human-readable message strings that are written into
// HTTP response bodies or log entries to describe the outcome of an operation.
// Keeping them in one place ensures consistent wording throughout the API.
package app

const (
	// MsgInvalidDataProvided is returned when the request body cannot be
	// decoded or fails basic validation (e.g. missing required fields).
	MsgInvalidDataProvided = "invalid data provided"

	// MsgInternalServerError is returned when an unexpected server-side
	// failure occurs that the client cannot resolve.
	MsgInternalServerError = "internal server error"

	// MsgTokenIsExpiredOrInvalid is returned when a JWT bearer token is
	// either expired or cannot be verified (e.g. wrong signature).
	MsgTokenIsExpiredOrInvalid = "token is expired or invalid"

	// MsgRefreshRejected is returned when a refresh request presents a
	// token that does not match the device's session, or the session is
	// unknown or expired. The wording is deliberately uniform so callers
	// cannot probe which case they hit.
	MsgRefreshRejected = "refresh token is invalid or expired"

	// MsgDeviceMismatch is returned when the device id in a push body does
	// not match the device claim of the presented access token.
	MsgDeviceMismatch = "request device does not match the access token"

	// MsgNoDeviceIDProvided is returned when a handler requires a device ID
	// (extracted from the JWT claim) but none is present in the request
	// context.
	MsgNoDeviceIDProvided = "no device ID provided"

	// MsgNoUserIDProvided is returned when a handler requires a user ID
	// (extracted from the JWT claim) but none is present in the request
	// context.
	MsgNoUserIDProvided = "no user ID provided"

	// MsgNoFamilyIDProvided is returned when a handler requires a family ID
	// (extracted from the JWT claim) but none is present in the request
	// context.
	MsgNoFamilyIDProvided = "no family ID provided"

	// MsgSyncStatusFailed is returned when the device's replication state
	// cannot be loaded for the status endpoint.
	MsgSyncStatusFailed = "failed to load sync status"
)
