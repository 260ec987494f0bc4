package transport

import (
	"errors"

	"go.uber.org/zap"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"

	"github.com/goodnatureofminers/otsproof-backend/internal/proof/service"
)

// ReconcilerHealthService is the health service name tracking sweep outcomes.
const ReconcilerHealthService = "otsproof.Reconciler"

// HealthReporter flips gRPC health status according to sweep outcomes.
// Only persistence failures mark the service as not serving.
type HealthReporter struct {
	server *health.Server
	logger *zap.Logger
}

// NewHealthReporter wraps server; both the overall and reconciler statuses start SERVING.
func NewHealthReporter(server *health.Server, logger *zap.Logger) *HealthReporter {
	server.SetServingStatus("", healthpb.HealthCheckResponse_SERVING)
	server.SetServingStatus(ReconcilerHealthService, healthpb.HealthCheckResponse_SERVING)
	return &HealthReporter{server: server, logger: logger.Named("health")}
}

// SweepCompleted implements service.SweepListener.
func (h *HealthReporter) SweepCompleted(_ service.SweepResult, err error) {
	status := healthpb.HealthCheckResponse_SERVING
	if errors.Is(err, service.ErrPersistence) {
		status = healthpb.HealthCheckResponse_NOT_SERVING
		h.logger.Warn("proof store unavailable, reporting not serving", zap.Error(err))
	} else if err != nil {
		return
	}
	h.server.SetServingStatus("", status)
	h.server.SetServingStatus(ReconcilerHealthService, status)
}

// Shutdown marks every service as not serving.
func (h *HealthReporter) Shutdown() {
	h.server.Shutdown()
}
