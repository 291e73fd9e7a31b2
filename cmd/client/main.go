package main

import (
	"fmt"

	"github.com/joho/godotenv"

	"github.com/MKhiriev/go-nest-keeper/internal/adapter"
	"github.com/MKhiriev/go-nest-keeper/internal/client"
	"github.com/MKhiriev/go-nest-keeper/internal/config"
	"github.com/MKhiriev/go-nest-keeper/internal/logger"
	"github.com/MKhiriev/go-nest-keeper/internal/service"
	"github.com/MKhiriev/go-nest-keeper/internal/store"
)

var (
	buildVersion string
	buildDate    string
	buildCommit  string
)

func main() {
	printBuildInfo()

	godotenv.Load()

	log := logger.NewLogger("nest-agent")
	cfg, err := config.GetAgentConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("error getting configs")
	}

	// the agent usually runs detached, so logs move to the configured file
	if cfg.App.LogPath != "" {
		log = logger.NewAgentLogger("nest-agent", cfg.App.LogPath)
	}

	serverAdapter, err := adapter.NewHTTPServerAdapter(cfg.Adapter, cfg.App, log)
	if err != nil {
		log.Fatal().Err(err).Msg("create server adapter")
	}

	storages, err := store.NewClientStorages(cfg.Storage, log)
	if err != nil {
		log.Fatal().Err(err).Msg("create local storage")
	}
	defer storages.Close()

	services := service.NewClientServices(storages, serverAdapter, cfg, log)

	app, err := client.NewApp(services, serverAdapter, cfg.Workers, log)
	if err != nil {
		log.Fatal().Err(err).Msg("init agent app error")
	}

	if err = app.Run(); err != nil {
		log.Fatal().Err(err).Msg("agent run error")
	}
}

func printBuildInfo() {
	if buildVersion == "" {
		buildVersion = "N/A"
	}
	if buildDate == "" {
		buildDate = "N/A"
	}
	if buildCommit == "" {
		buildCommit = "N/A"
	}

	fmt.Printf("Build version: %s\n", buildVersion)
	fmt.Printf("Build date: %s\n", buildDate)
	fmt.Printf("Build commit: %s\n", buildCommit)
}
