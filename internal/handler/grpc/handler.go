package grpc

import (
	"context"

	"github.com/MKhiriev/go-nest-keeper/internal/logger"
	"github.com/MKhiriev/go-nest-keeper/internal/service"
	"google.golang.org/grpc/health/grpc_health_v1"
)

// Handler is the root gRPC transport handler.
//
// The gRPC surface of the sync server is deliberately small: it serves the
// standard health protocol so orchestrators and load balancers can probe the
// process without speaking the REST API. The service layer and structured
// logger are stored so future gRPC methods can delegate business logic and
// emit consistent logs.
type Handler struct {
	grpc_health_v1.UnimplementedHealthServer

	// services provides access to all application business operations.
	services *service.Services

	// logger is used for request-scoped and diagnostic log output.
	logger *logger.Logger
}

// NewHandler constructs a [Handler] with the provided service container and
// logger, and returns the initialized instance.
//
// Parameters:
//   - services: application service layer used by gRPC method handlers.
//   - logger: structured logger used for transport diagnostics.
func NewHandler(services *service.Services, logger *logger.Logger) *Handler {
	logger.Debug().Msg("gRPC handler created")
	return &Handler{
		services: services,
		logger:   logger,
	}
}

// Check implements the standard gRPC health protocol. The server carries no
// per-service health distinction: a running process answers SERVING for every
// requested service name.
func (h *Handler) Check(ctx context.Context, request *grpc_health_v1.HealthCheckRequest) (*grpc_health_v1.HealthCheckResponse, error) {
	h.logger.Debug().Str("service", request.GetService()).Msg("health check requested")

	return &grpc_health_v1.HealthCheckResponse{
		Status: grpc_health_v1.HealthCheckResponse_SERVING,
	}, nil
}

// Watch implements the streaming half of the health protocol. The reported
// status never changes while the process is alive, so a single SERVING
// message is sent and the stream is closed.
func (h *Handler) Watch(request *grpc_health_v1.HealthCheckRequest, stream grpc_health_v1.Health_WatchServer) error {
	return stream.Send(&grpc_health_v1.HealthCheckResponse{
		Status: grpc_health_v1.HealthCheckResponse_SERVING,
	})
}
