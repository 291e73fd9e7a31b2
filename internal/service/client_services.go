package service

import (
	"github.com/MKhiriev/go-nest-keeper/internal/adapter"
	"github.com/MKhiriev/go-nest-keeper/internal/config"
	"github.com/MKhiriev/go-nest-keeper/internal/logger"
	"github.com/MKhiriev/go-nest-keeper/internal/store"
)

type ClientServices struct {
	RecordService ClientRecordService
	SyncService   ClientSyncService
	SyncJob       ClientSyncJob
}

func NewClientServices(storages *store.ClientStorages, serverAdapter adapter.ServerAdapter, cfg *config.AgentConfig, logger *logger.Logger) *ClientServices {
	syncSvc := NewClientSyncService(storages, serverAdapter, cfg.App, cfg.Queue, logger)

	return &ClientServices{
		RecordService: NewClientRecordService(storages.Records, storages.Events),
		SyncService:   syncSvc,
		SyncJob:       NewClientSyncJob(syncSvc, logger),
	}
}
