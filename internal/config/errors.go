package config

import "errors"

// Validation errors returned by [StructuredConfig.validate] and
// [AgentConfig.validate] when required configuration groups are incomplete
// or invalid.
var (
	// ErrInvalidServerConfigs indicates invalid server transport settings
	// (for example, missing HTTP listen address).
	ErrInvalidServerConfigs = errors.New("invalid server configuration")
	// ErrInvalidSyncConfigs indicates invalid replication settings
	// (for example, non-positive dedup window or pull limit).
	ErrInvalidSyncConfigs = errors.New("invalid sync configuration")
	// ErrInvalidAdapterConfigs indicates invalid agent adapter settings
	// (for example, missing server URL or request timeout).
	ErrInvalidAdapterConfigs = errors.New("invalid adapter configuration")
	// ErrInvalidStorageConfigs indicates invalid agent storage settings
	// (for example, empty DB path or unsupported in-memory database).
	ErrInvalidStorageConfigs = errors.New("invalid storage configuration")
	// ErrInvalidAppConfigs indicates invalid agent identity settings
	// (for example, missing device id or refresh token).
	ErrInvalidAppConfigs = errors.New("invalid app configuration")
	// ErrInvalidWorkerConfigs indicates invalid background worker settings
	// (for example, zero sync or probe interval).
	ErrInvalidWorkerConfigs = errors.New("invalid worker configuration")
	// ErrInvalidQueueConfigs indicates invalid event queue settings
	// (for example, zero retry ceiling or batch size).
	ErrInvalidQueueConfigs = errors.New("invalid queue configuration")
)
