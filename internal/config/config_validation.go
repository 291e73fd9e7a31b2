// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package config

import "strings"

// validate checks that the final merged [StructuredConfig] satisfies the
// invariants the server needs at startup.
//
// Only server-critical settings are checked here; agent settings are
// validated by [AgentConfig.validate] on the agent view.
//
// Returns nil if the configuration is valid, or a descriptive error otherwise.
func (cfg *StructuredConfig) validate() error {
	if cfg.Server.HTTPAddress == "" {
		return ErrInvalidServerConfigs
	}

	if cfg.Sync.DedupWindow <= 0 || cfg.Sync.PullLimit <= 0 {
		return ErrInvalidSyncConfigs
	}

	return nil
}

func (cfg *AgentConfig) validate() error {
	if cfg.Storage.DBPath == "" || strings.Contains(cfg.Storage.DBPath, "memory") {
		return ErrInvalidStorageConfigs
	}

	if cfg.Adapter.ServerURL == "" || cfg.Adapter.RequestTimeout == 0 {
		return ErrInvalidAdapterConfigs
	}

	if cfg.Workers.SyncInterval == 0 || cfg.Workers.ProbeInterval == 0 {
		return ErrInvalidWorkerConfigs
	}

	if cfg.App.DeviceID == "" || cfg.App.RefreshToken == "" {
		return ErrInvalidAppConfigs
	}

	if cfg.Queue.MaxAttempts <= 0 || cfg.Queue.PushBatchSize <= 0 {
		return ErrInvalidQueueConfigs
	}

	return nil
}
