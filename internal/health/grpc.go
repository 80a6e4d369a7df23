package health

import (
	"context"
	"errors"
	"fmt"
	"net"
	"time"

	"github.com/Varun5711/accounts/internal/logger"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	"google.golang.org/grpc/health/grpc_health_v1"
)

// ServiceName is the gRPC health service name reported alongside "".
const ServiceName = "accounts.v1.AccountService"

// GRPCServer exposes grpc.health.v1.Health and keeps its status in step with
// the checker.
type GRPCServer struct {
	grpcServer *grpc.Server
	health     *health.Server
	checker    *Checker
	interval   time.Duration
	log        *logger.Logger
}

func NewGRPCServer(checker *Checker, interval time.Duration, log *logger.Logger) *GRPCServer {
	grpcServer := grpc.NewServer()
	healthServer := health.NewServer()
	grpc_health_v1.RegisterHealthServer(grpcServer, healthServer)

	s := &GRPCServer{
		grpcServer: grpcServer,
		health:     healthServer,
		checker:    checker,
		interval:   interval,
		log:        log,
	}
	s.setStatus(grpc_health_v1.HealthCheckResponse_NOT_SERVING)
	return s
}

func (s *GRPCServer) setStatus(status grpc_health_v1.HealthCheckResponse_ServingStatus) {
	s.health.SetServingStatus("", status)
	s.health.SetServingStatus(ServiceName, status)
}

// Refresh runs the checks once and publishes the result.
func (s *GRPCServer) Refresh(ctx context.Context) {
	if s.checker.Run(ctx).Healthy() {
		s.setStatus(grpc_health_v1.HealthCheckResponse_SERVING)
		return
	}
	s.setStatus(grpc_health_v1.HealthCheckResponse_NOT_SERVING)
}

// Serve blocks until ctx ends, then reports NOT_SERVING and stops gracefully.
func (s *GRPCServer) Serve(ctx context.Context, lis net.Listener) error {
	s.log.Info("gRPC health server listening on %s", lis.Addr())

	serveErr := make(chan error, 1)
	go func() {
		serveErr <- s.grpcServer.Serve(lis)
	}()

	s.Refresh(ctx)
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.Refresh(ctx)
		case <-ctx.Done():
			s.health.Shutdown()
			s.grpcServer.GracefulStop()
			err := <-serveErr
			if err == nil || errors.Is(err, grpc.ErrServerStopped) {
				return nil
			}
			return fmt.Errorf("serve gRPC health: %w", err)
		case err := <-serveErr:
			if err == nil || errors.Is(err, grpc.ErrServerStopped) {
				return nil
			}
			return fmt.Errorf("serve gRPC health: %w", err)
		}
	}
}
