package config

import (
	"fmt"
	"time"
)

// AgentApp holds identity and credential settings for the device agent.
type AgentApp struct {
	// DeviceID identifies this device inside the family.
	DeviceID string
	// RefreshToken is the long-lived credential used to obtain access tokens.
	RefreshToken string
	// AccessToken optionally seeds the first access token.
	AccessToken string
	// LogPath is the agent log file location.
	LogPath string
	// Version is the application version string.
	Version string
}

// AgentAdapter holds network settings used by the agent transport layer.
type AgentAdapter struct {
	// ServerURL is the base URL of the sync server.
	ServerURL string
	// RequestTimeout is the default timeout for outbound requests.
	RequestTimeout time.Duration
}

// AgentStorage contains local database settings for the agent.
type AgentStorage struct {
	// DBPath is the SQLite database file path. In-memory databases are
	// rejected: the pending event log must survive restarts.
	DBPath string
}

// AgentWorkers contains background job settings.
type AgentWorkers struct {
	// SyncInterval defines how often the periodic sync job runs.
	SyncInterval time.Duration
	// ProbeInterval defines how often connectivity is probed while offline.
	ProbeInterval time.Duration
}

// AgentQueue contains pending event queue behavior settings.
type AgentQueue struct {
	// MaxAttempts is the retry ceiling before an event is dead-lettered.
	MaxAttempts int
	// PushBatchSize caps the number of events sent in one push.
	PushBatchSize int
}

// AgentConfig is the top-level agent configuration assembled from
// [StructuredConfig].
type AgentConfig struct {
	// App contains device identity and credentials.
	App AgentApp
	// Adapter contains transport address and timeout.
	Adapter AgentAdapter
	// Storage contains local storage settings.
	Storage AgentStorage
	// Workers contains background job settings.
	Workers AgentWorkers
	// Queue contains event queue behavior settings.
	Queue AgentQueue
}

// GetAgentConfig builds and validates an agent-specific config view from the
// merged structured configuration.
//
// It loads the base config via [GetStructuredConfig], maps only the fields
// relevant to the agent runtime, and validates the resulting [AgentConfig].
func GetAgentConfig() (*AgentConfig, error) {
	cfg, err := GetStructuredConfig()
	if err != nil {
		return nil, fmt.Errorf("error get structured config: %w", err)
	}

	agentCfg := &AgentConfig{
		App: AgentApp{
			DeviceID:     cfg.Agent.DeviceID,
			RefreshToken: cfg.Agent.RefreshToken,
			AccessToken:  cfg.Agent.AccessToken,
			LogPath:      cfg.Agent.LogPath,
			Version:      cfg.App.Version,
		},
		Adapter: AgentAdapter{
			ServerURL:      cfg.Agent.ServerURL,
			RequestTimeout: cfg.Agent.RequestTimeout,
		},
		Storage: AgentStorage{
			DBPath: cfg.Agent.DBPath,
		},
		Workers: AgentWorkers{
			SyncInterval:  cfg.Agent.SyncInterval,
			ProbeInterval: cfg.Agent.ProbeInterval,
		},
		Queue: AgentQueue{
			MaxAttempts:   cfg.Agent.MaxAttempts,
			PushBatchSize: cfg.Agent.PushBatchSize,
		},
	}

	return agentCfg, agentCfg.validate()
}
