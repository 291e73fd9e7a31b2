// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package adapter provides transport-layer abstractions for communicating with
// the nest-keeper sync server.
//
// The primary abstraction is [ServerAdapter], which decouples the sync client
// from the underlying protocol. The package ships an HTTP/REST implementation
// ([NewHTTPServerAdapter]) built on resty.
//
// Every authenticated call runs through the refresh guard: a 401 response
// triggers (or joins) a single-flight token refresh and retries the original
// request once with the rotated credential. Error values defined in errors.go
// are mapped from HTTP status codes by mapHTTPError so that callers can use
// [errors.Is] for transport-agnostic error handling (e.g. [ErrSessionExpired]
// when the refresh flow gives up).
package adapter

import (
	"context"

	"github.com/MKhiriev/go-nest-keeper/models"
)

//go:generate mockgen -source=interfaces.go -destination=../mock/server_adapter_mock.go -package=mock

// ServerAdapter defines transport-agnostic communication with the sync
// server. Implementations are responsible for serialisation, credential
// header management, the single-flight refresh flow, and mapping
// transport-level errors to the sentinel values defined in this package.
type ServerAdapter interface {
	// SetToken stores the bearer token attached to all subsequent
	// authenticated requests. The refresh guard calls it after every
	// successful rotation; callers only need it to seed a cached token
	// at startup.
	SetToken(token string)

	// Token returns the bearer token currently stored in the adapter, or
	// an empty string if no token has been set yet.
	Token() string

	// PushEvents submits a batch of pending events to the server and
	// returns the per-event acknowledgements. The batch is not atomic:
	// the response carries one ack per event in request order, and a
	// transport error means no ack was received for any of them.
	PushEvents(ctx context.Context, request models.PushRequest) (models.PushResponse, error)

	// PullSince fetches the record changes the server has accumulated
	// after the given cursor. An empty cursor requests the full changeset.
	// The response carries the next cursor to persist once every record
	// has been applied locally.
	PullSince(ctx context.Context, cursor string) (models.PullResponse, error)

	// FetchStatus reads the server's replication bookkeeping for this
	// device: last push time and last confirmed pull cursor.
	FetchStatus(ctx context.Context) (models.StatusResponse, error)

	// Ping probes the server's health endpoint without credentials.
	// The connectivity worker uses it to detect the offline→online edge.
	Ping(ctx context.Context) error

	// OnSessionExpired registers the callback fired once when a token
	// refresh fails and the session is declared over. Wired to the
	// agent's sign-out handling.
	OnSessionExpired(callback func())
}
