package config

import (
	"encoding/json"
	"fmt"
	"os"
	"time"
)

type StructuredJSONConfig struct {
	App struct {
		TokenSignKey  string   `json:"token_sign_key"`
		TokenIssuer   string   `json:"token_issuer"`
		TokenDuration Duration `json:"token_duration"`
		Version       string   `json:"version"`
	} `json:"app,omitempty"`

	Storage struct {
		DB struct {
			DSN string `json:"dsn"`
		} `json:"db,omitempty"`

		Redis struct {
			URL string `json:"url"`
		} `json:"redis,omitempty"`
	} `json:"storage,omitempty"`

	Server struct {
		HTTPAddress    string   `json:"http_address"`
		GRPCAddress    string   `json:"grpc_address"`
		RequestTimeout Duration `json:"request_timeout"`
	} `json:"server,omitempty"`

	Sync struct {
		DedupWindow Duration `json:"dedup_window"`
		PullLimit   int      `json:"pull_limit"`
	} `json:"sync,omitempty"`

	Agent struct {
		ServerURL      string   `json:"server_url"`
		DBPath         string   `json:"db_path"`
		LogPath        string   `json:"log_path"`
		DeviceID       string   `json:"device_id"`
		RefreshToken   string   `json:"refresh_token"`
		AccessToken    string   `json:"access_token"`
		RequestTimeout Duration `json:"request_timeout"`
		SyncInterval   Duration `json:"sync_interval"`
		ProbeInterval  Duration `json:"probe_interval"`
		MaxAttempts    int      `json:"max_attempts"`
		PushBatchSize  int      `json:"push_batch_size"`
	} `json:"agent,omitempty"`
}

func parseJSON(jsonFilePath string) (*StructuredConfig, error) {
	jsonFile, err := os.Open(jsonFilePath)
	if err != nil {
		return nil, fmt.Errorf("error reading a json file: %w", err)
	}
	defer jsonFile.Close()

	var jsonCfg StructuredJSONConfig
	if err := json.NewDecoder(jsonFile).Decode(&jsonCfg); err != nil {
		return nil, fmt.Errorf("error decoding json configs: %w", err)
	}

	cfg := &StructuredConfig{
		App: App{
			TokenSignKey:  jsonCfg.App.TokenSignKey,
			TokenIssuer:   jsonCfg.App.TokenIssuer,
			TokenDuration: time.Duration(jsonCfg.App.TokenDuration),
			Version:       jsonCfg.App.Version,
		},
		Storage: Storage{
			DB: DB{
				DSN: jsonCfg.Storage.DB.DSN,
			},
			Redis: Redis{
				URL: jsonCfg.Storage.Redis.URL,
			},
		},
		Server: Server{
			HTTPAddress:    jsonCfg.Server.HTTPAddress,
			GRPCAddress:    jsonCfg.Server.GRPCAddress,
			RequestTimeout: time.Duration(jsonCfg.Server.RequestTimeout),
		},
		Sync: Sync{
			DedupWindow: time.Duration(jsonCfg.Sync.DedupWindow),
			PullLimit:   jsonCfg.Sync.PullLimit,
		},
		Agent: Agent{
			ServerURL:      jsonCfg.Agent.ServerURL,
			DBPath:         jsonCfg.Agent.DBPath,
			LogPath:        jsonCfg.Agent.LogPath,
			DeviceID:       jsonCfg.Agent.DeviceID,
			RefreshToken:   jsonCfg.Agent.RefreshToken,
			AccessToken:    jsonCfg.Agent.AccessToken,
			RequestTimeout: time.Duration(jsonCfg.Agent.RequestTimeout),
			SyncInterval:   time.Duration(jsonCfg.Agent.SyncInterval),
			ProbeInterval:  time.Duration(jsonCfg.Agent.ProbeInterval),
			MaxAttempts:    jsonCfg.Agent.MaxAttempts,
			PushBatchSize:  jsonCfg.Agent.PushBatchSize,
		},
		JSONFilePath: "",
	}

	return cfg, nil
}

// Duration is a wrapper around time.Duration that supports JSON unmarshaling from strings like "1h", "30s"
type Duration time.Duration

func (d *Duration) UnmarshalJSON(b []byte) error {
	var v interface{}
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}

	switch value := v.(type) {
	case float64:
		*d = Duration(time.Duration(value))
		return nil
	case string:
		tmp, err := time.ParseDuration(value)
		if err != nil {
			return err
		}
		*d = Duration(tmp)
		return nil
	default:
		return json.Unmarshal(b, (*time.Duration)(d))
	}
}

func (d Duration) MarshalJSON() ([]byte, error) {
	return json.Marshal(time.Duration(d).String())
}
