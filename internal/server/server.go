package server

import (
	"log/slog"

	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"
)

// NewGRPCServer builds a gRPC server exposing svc and the standard health
// service. maxMsgBytes bounds request size (0 keeps the gRPC default).
func NewGRPCServer(svc AnalysisServer, maxMsgBytes int, logger *slog.Logger) (*grpc.Server, *health.Server) {
	opts := []grpc.ServerOption{grpc.ChainUnaryInterceptor(UnaryLogging(logger))}
	if maxMsgBytes > 0 {
		opts = append(opts, grpc.MaxRecvMsgSize(maxMsgBytes), grpc.MaxSendMsgSize(maxMsgBytes))
	}
	grpcServer := grpc.NewServer(opts...)
	RegisterAnalysisServer(grpcServer, svc)

	// Register gRPC health service
	healthServer := health.NewServer()
	healthpb.RegisterHealthServer(grpcServer, healthServer)
	// Empty string means overall server health
	healthServer.SetServingStatus("", healthpb.HealthCheckResponse_SERVING)
	healthServer.SetServingStatus(ServiceName, healthpb.HealthCheckResponse_SERVING)

	// Enable reflection for debugging
	reflection.Register(grpcServer)
	return grpcServer, healthServer
}
