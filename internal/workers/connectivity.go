// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package workers

import (
	"context"
	"sync"
	"time"

	"github.com/MKhiriev/go-nest-keeper/internal/adapter"
	"github.com/MKhiriev/go-nest-keeper/internal/config"
	"github.com/MKhiriev/go-nest-keeper/internal/logger"
	"github.com/MKhiriev/go-nest-keeper/internal/service"
)

const (
	// defaultProbeInterval is used when the configuration does not specify
	// how often connectivity should be checked.
	defaultProbeInterval = 30 * time.Second

	// probeTimeout bounds a single liveness round trip so a hanging
	// connection cannot stall the probe loop.
	probeTimeout = 5 * time.Second
)

// ConnectivityProbe watches the server's reachability and kicks off a full
// sync cycle on the offline-to-online transition, so changes recorded while
// disconnected replicate as soon as the network is back instead of waiting
// for the next scheduled sync.
type ConnectivityProbe struct {
	adapter  adapter.ServerAdapter
	sync     service.ClientSyncService
	interval time.Duration
	logger   *logger.Logger

	mu     sync.Mutex
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewConnectivityProbe builds a probe over the given transport and sync
// service. A non-positive interval in cfg falls back to defaultProbeInterval.
func NewConnectivityProbe(serverAdapter adapter.ServerAdapter, syncService service.ClientSyncService, cfg config.AgentWorkers, logger *logger.Logger) *ConnectivityProbe {
	interval := cfg.ProbeInterval
	if interval <= 0 {
		interval = defaultProbeInterval
	}

	return &ConnectivityProbe{
		adapter:  serverAdapter,
		sync:     syncService,
		interval: interval,
		logger:   logger,
	}
}

// Run starts the probe loop in a background goroutine. Calling Run again
// restarts the loop.
func (p *ConnectivityProbe) Run() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.cancel != nil {
		p.cancel()
		p.wg.Wait()
	}

	ctx, cancel := context.WithCancel(context.Background())
	p.cancel = cancel

	p.wg.Add(1)
	go p.loop(ctx)

	p.logger.Info().Dur("interval", p.interval).Msg("connectivity probe started")
}

// Stop terminates the probe loop and waits for it to finish.
func (p *ConnectivityProbe) Stop() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.cancel == nil {
		return
	}

	p.cancel()
	p.cancel = nil
	p.wg.Wait()

	p.logger.Info().Msg("connectivity probe stopped")
}

func (p *ConnectivityProbe) loop(ctx context.Context) {
	defer p.wg.Done()

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	online := p.probe(ctx)

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			wasOnline := online
			online = p.probe(ctx)

			switch {
			case online && !wasOnline:
				p.logger.Info().Msg("server reachable again, starting full sync")
				p.fullSync(ctx)
			case !online && wasOnline:
				p.logger.Warn().Msg("server unreachable, changes queue locally until it returns")
			}
		}
	}
}

// probe performs one bounded liveness round trip.
func (p *ConnectivityProbe) probe(ctx context.Context) bool {
	pingCtx, cancel := context.WithTimeout(ctx, probeTimeout)
	defer cancel()

	if err := p.adapter.Ping(pingCtx); err != nil {
		p.logger.Debug().Err(err).Msg("connectivity probe failed")
		return false
	}

	return true
}

func (p *ConnectivityProbe) fullSync(ctx context.Context) {
	report, err := p.sync.FullSync(ctx)
	if err != nil {
		p.logger.Warn().Err(err).Msg("full sync after reconnect failed")
		return
	}

	p.logger.Info().
		Int("pushed", report.Pushed).
		Int("pulled", report.Pulled).
		Int("retried", report.Retried).
		Msg("full sync after reconnect finished")
}
