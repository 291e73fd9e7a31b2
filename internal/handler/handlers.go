package handler

import (
	"github.com/MKhiriev/go-nest-keeper/internal/config"
	"github.com/MKhiriev/go-nest-keeper/internal/handler/grpc"
	"github.com/MKhiriev/go-nest-keeper/internal/handler/http"
	"github.com/MKhiriev/go-nest-keeper/internal/logger"
	"github.com/MKhiriev/go-nest-keeper/internal/service"
)

// Handlers groups the transport frontends of the sync service. HTTP carries
// the replication protocol; gRPC only exposes the health service.
type Handlers struct {
	HTTP *http.Handler
	GRPC *grpc.Handler
}

// NewHandlers builds a handler per configured transport address. At least
// one address must be set or the server has nothing to serve.
func NewHandlers(services *service.Services, cfg config.Server, logger *logger.Logger) (*Handlers, error) {
	handlers := &Handlers{}

	if cfg.HTTPAddress != "" {
		handlers.HTTP = http.NewHandler(services, logger)
	}
	if cfg.GRPCAddress != "" {
		handlers.GRPC = grpc.NewHandler(services, logger)
	}

	if handlers.HTTP == nil && handlers.GRPC == nil {
		return nil, errNoHandlersAreCreated
	}

	logger.Info().Msg("handlers created")

	return handlers, nil
}
