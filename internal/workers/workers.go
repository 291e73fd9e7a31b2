package workers

import (
	"github.com/MKhiriev/go-nest-keeper/internal/adapter"
	"github.com/MKhiriev/go-nest-keeper/internal/config"
	"github.com/MKhiriev/go-nest-keeper/internal/logger"
	"github.com/MKhiriev/go-nest-keeper/internal/service"
)

type Workers struct {
	workers []Worker
}

// NewWorkers assembles the client's background workers. Today that is the
// connectivity probe; the periodic sync job is owned by the service layer.
func NewWorkers(serverAdapter adapter.ServerAdapter, syncService service.ClientSyncService, cfg config.AgentWorkers, logger *logger.Logger) *Workers {
	return &Workers{
		workers: []Worker{
			NewConnectivityProbe(serverAdapter, syncService, cfg, logger),
		},
	}
}

func (w *Workers) Run() {
	for _, worker := range w.workers {
		worker.Run()
	}
}

// Stop stops every worker that supports being stopped, in reverse start
// order.
func (w *Workers) Stop() {
	for i := len(w.workers) - 1; i >= 0; i-- {
		if stoppable, ok := w.workers[i].(interface{ Stop() }); ok {
			stoppable.Stop()
		}
	}
}
