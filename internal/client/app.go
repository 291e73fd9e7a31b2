package client

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/MKhiriev/go-nest-keeper/internal/adapter"
	"github.com/MKhiriev/go-nest-keeper/internal/config"
	"github.com/MKhiriev/go-nest-keeper/internal/logger"
	"github.com/MKhiriev/go-nest-keeper/internal/service"
	"github.com/MKhiriev/go-nest-keeper/internal/workers"
)

var errNoServicesProvided = errors.New("no client services provided")

// App is the device agent runtime. It owns the background workers and the
// periodic sync job and keeps the process alive until a termination signal
// arrives.
type App struct {
	services *service.ClientServices
	workers  *workers.Workers
	cfg      config.AgentWorkers
	logger   *logger.Logger
}

// NewApp assembles the agent runtime from already-wired services and the
// server adapter. The session-expired hook is registered here: a rejected
// refresh token means the device must be enrolled again, the agent keeps
// recording locally in the meantime.
func NewApp(services *service.ClientServices, serverAdapter adapter.ServerAdapter, cfg config.AgentWorkers, logger *logger.Logger) (*App, error) {
	if services == nil || serverAdapter == nil {
		return nil, errNoServicesProvided
	}

	serverAdapter.OnSessionExpired(func() {
		logger.Error().Msg("server rejected the device session, re-enroll this device; changes keep queueing locally")
	})

	return &App{
		services: services,
		workers:  workers.NewWorkers(serverAdapter, services.SyncService, cfg, logger),
		cfg:      cfg,
		logger:   logger,
	}, nil
}

// Run starts the agent and blocks until SIGTERM, SIGINT or SIGQUIT.
// SIGHUP triggers an immediate full sync without restarting the process.
func (a *App) Run() error {
	ctx, stop := signal.NotifyContext(
		context.Background(),
		syscall.SIGTERM,
		syscall.SIGINT,
		syscall.SIGQUIT,
	)
	defer stop()

	// catch up once before the periodic machinery starts
	if report, err := a.services.SyncService.FullSync(ctx); err != nil {
		a.logger.Warn().Err(err).Msg("startup sync failed, agent continues offline")
	} else {
		a.logger.Info().
			Int("pushed", report.Pushed).
			Int("pulled", report.Pulled).
			Msg("startup sync finished")
	}

	a.services.SyncJob.Start(ctx, a.cfg.SyncInterval)
	a.workers.Run()

	hup := make(chan os.Signal, 1)
	signal.Notify(hup, syscall.SIGHUP)
	defer signal.Stop(hup)

	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case <-hup:
				a.logger.Info().Msg("manual sync requested")
				if _, err := a.services.SyncService.FullSync(ctx); err != nil {
					a.logger.Warn().Err(err).Msg("manual sync failed")
				}
			}
		}
	}()

	<-ctx.Done()

	a.workers.Stop()
	a.services.SyncJob.Stop()
	a.logger.Info().Msg("agent shut down gracefully")

	return nil
}
