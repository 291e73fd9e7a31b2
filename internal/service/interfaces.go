package service

import (
	"context"

	"github.com/MKhiriev/go-nest-keeper/models"
)

// SyncService is the server half of the replication protocol: it applies
// pushed event batches, serves incremental pulls and reports per-device
// replication state. Identity arguments come from the verified access token,
// never from request bodies.
type SyncService interface {
	Push(ctx context.Context, userID, familyID int64, deviceID string, request models.PushRequest) (models.PushResponse, error)
	Pull(ctx context.Context, userID, familyID int64, deviceID, since string) (models.PullResponse, error)
	Status(ctx context.Context, deviceID string) (models.StatusResponse, error)
}

// AuthService issues and verifies the tokens that guard the sync endpoints.
type AuthService interface {
	Refresh(ctx context.Context, request models.RefreshRequest) (models.RefreshResponse, error)
	ParseToken(ctx context.Context, tokenString string) (models.Token, error)
}

// AppInfoService exposes build metadata of the running server.
type AppInfoService interface {
	GetAppVersion(ctx context.Context) string
}

// SyncServiceWrapper defines middleware composition for SyncService.
// Implementations wrap an existing SyncService to add behavior such as
// request validation or logging.
type SyncServiceWrapper interface {
	Wrap(SyncService) SyncService // returns a decorated SyncService applying additional behavior
}
