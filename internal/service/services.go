package service

import (
	"fmt"

	"github.com/MKhiriev/go-nest-keeper/internal/config"
	"github.com/MKhiriev/go-nest-keeper/internal/logger"
	"github.com/MKhiriev/go-nest-keeper/internal/store"
)

type Services struct {
	SyncService    SyncService
	AuthService    AuthService
	AppInfoService AppInfoService
}

func NewServices(repositories *store.Repositories, cfg *config.StructuredConfig, logger *logger.Logger) (*Services, error) {
	appInfoService, err := NewAppInfoService(cfg.App, logger)
	if err != nil {
		return nil, fmt.Errorf("app info service init failed: %w", err)
	}

	return &Services{
		SyncService:    NewSyncValidationService().Wrap(NewSyncService(repositories, cfg.Sync, logger)),
		AuthService:    NewAuthService(repositories.Sessions, cfg.App, logger),
		AppInfoService: appInfoService,
	}, nil
}
