// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package workers

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/MKhiriev/go-nest-keeper/internal/config"
	"github.com/MKhiriev/go-nest-keeper/internal/logger"
	"github.com/MKhiriev/go-nest-keeper/models"
)

// spyAdapter implements adapter.ServerAdapter. Only Ping matters here: its
// result is switchable at runtime to simulate the network going up and down.
type spyAdapter struct {
	mu      sync.Mutex
	pingErr error

	pings atomic.Int64
}

func (s *spyAdapter) setPingErr(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pingErr = err
}

func (s *spyAdapter) Ping(_ context.Context) error {
	s.pings.Add(1)
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pingErr
}

func (s *spyAdapter) SetToken(_ string) {}
func (s *spyAdapter) Token() string     { return "" }
func (s *spyAdapter) PushEvents(_ context.Context, _ models.PushRequest) (models.PushResponse, error) {
	return models.PushResponse{}, nil
}
func (s *spyAdapter) PullSince(_ context.Context, _ string) (models.PullResponse, error) {
	return models.PullResponse{}, nil
}
func (s *spyAdapter) FetchStatus(_ context.Context) (models.StatusResponse, error) {
	return models.StatusResponse{}, nil
}
func (s *spyAdapter) OnSessionExpired(_ func()) {}

// spySyncService implements service.ClientSyncService and counts FullSync calls.
type spySyncService struct {
	fullSyncs atomic.Int64
	err       error
}

func (s *spySyncService) Push(_ context.Context) (models.SyncReport, error) {
	return models.SyncReport{}, nil
}
func (s *spySyncService) Pull(_ context.Context) (models.SyncReport, error) {
	return models.SyncReport{}, nil
}
func (s *spySyncService) FullSync(_ context.Context) (models.SyncReport, error) {
	s.fullSyncs.Add(1)
	return models.SyncReport{}, s.err
}
func (s *spySyncService) Status(_ context.Context) (models.StatusResponse, error) {
	return models.StatusResponse{}, nil
}
func (s *spySyncService) DeadLetters(_ context.Context) ([]models.PendingEvent, error) {
	return nil, nil
}

func newTestProbe(adapter *spyAdapter, sync *spySyncService, interval time.Duration) *ConnectivityProbe {
	return NewConnectivityProbe(adapter, sync, config.AgentWorkers{ProbeInterval: interval}, logger.Nop())
}

func TestConnectivityProbe_TriggersFullSyncOnReconnect(t *testing.T) {
	adapter := &spyAdapter{}
	adapter.setPingErr(errors.New("connection refused"))
	syncSvc := &spySyncService{}

	probe := newTestProbe(adapter, syncSvc, 10*time.Millisecond)
	probe.Run()
	defer probe.Stop()

	// probe starts offline, then the server comes back
	time.Sleep(25 * time.Millisecond)
	adapter.setPingErr(nil)
	time.Sleep(50 * time.Millisecond)

	if got := syncSvc.fullSyncs.Load(); got < 1 {
		t.Fatalf("expected at least one full sync after reconnect, got %d", got)
	}
}

func TestConnectivityProbe_NoSyncWhileOnline(t *testing.T) {
	adapter := &spyAdapter{}
	syncSvc := &spySyncService{}

	probe := newTestProbe(adapter, syncSvc, 10*time.Millisecond)
	probe.Run()
	defer probe.Stop()

	time.Sleep(50 * time.Millisecond)

	// the server never went away, so there is no edge to react to
	if got := syncSvc.fullSyncs.Load(); got != 0 {
		t.Fatalf("expected no full syncs while continuously online, got %d", got)
	}
	if adapter.pings.Load() < 2 {
		t.Fatalf("expected the probe to keep pinging, got %d pings", adapter.pings.Load())
	}
}

func TestConnectivityProbe_NoSyncWhileOffline(t *testing.T) {
	adapter := &spyAdapter{}
	adapter.setPingErr(errors.New("no route to host"))
	syncSvc := &spySyncService{}

	probe := newTestProbe(adapter, syncSvc, 10*time.Millisecond)
	probe.Run()
	defer probe.Stop()

	time.Sleep(50 * time.Millisecond)

	if got := syncSvc.fullSyncs.Load(); got != 0 {
		t.Fatalf("expected no full syncs while offline, got %d", got)
	}
}

func TestConnectivityProbe_SyncErrorKeepsProbing(t *testing.T) {
	adapter := &spyAdapter{}
	adapter.setPingErr(errors.New("connection refused"))
	syncSvc := &spySyncService{err: errors.New("push failed")}

	probe := newTestProbe(adapter, syncSvc, 10*time.Millisecond)
	probe.Run()
	defer probe.Stop()

	time.Sleep(25 * time.Millisecond)
	adapter.setPingErr(nil)
	time.Sleep(30 * time.Millisecond)

	if got := syncSvc.fullSyncs.Load(); got < 1 {
		t.Fatalf("expected a full sync attempt, got %d", got)
	}

	// a failed sync must not kill the loop
	before := adapter.pings.Load()
	time.Sleep(30 * time.Millisecond)
	if adapter.pings.Load() <= before {
		t.Fatalf("expected probing to continue after a failed sync")
	}
}

func TestConnectivityProbe_StopTerminatesLoop(t *testing.T) {
	adapter := &spyAdapter{}
	syncSvc := &spySyncService{}

	probe := newTestProbe(adapter, syncSvc, 10*time.Millisecond)
	probe.Run()

	time.Sleep(25 * time.Millisecond)
	probe.Stop()

	before := adapter.pings.Load()
	time.Sleep(40 * time.Millisecond)

	if got := adapter.pings.Load(); got != before {
		t.Fatalf("expected no pings after Stop, got %d more", got-before)
	}
}

func TestConnectivityProbe_StopBeforeRun_NoPanic(t *testing.T) {
	probe := newTestProbe(&spyAdapter{}, &spySyncService{}, 10*time.Millisecond)

	// Should not panic when the loop was never started
	probe.Stop()
	probe.Stop()
}

func TestConnectivityProbe_DefaultInterval(t *testing.T) {
	probe := NewConnectivityProbe(&spyAdapter{}, &spySyncService{}, config.AgentWorkers{}, logger.Nop())

	if probe.interval != defaultProbeInterval {
		t.Fatalf("expected default interval %v, got %v", defaultProbeInterval, probe.interval)
	}
}

func TestConnectivityProbe_RestartReplacesLoop(t *testing.T) {
	adapter := &spyAdapter{}
	syncSvc := &spySyncService{}

	probe := newTestProbe(adapter, syncSvc, 10*time.Millisecond)
	probe.Run()
	probe.Run()
	probe.Stop()

	before := adapter.pings.Load()
	time.Sleep(40 * time.Millisecond)

	if got := adapter.pings.Load(); got != before {
		t.Fatalf("expected a single Stop to end the restarted loop")
	}
}
