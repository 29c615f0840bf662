package main

import (
	"context"
	"net"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/joseph-ayodele/legalease/internal/analysis"
	"github.com/joseph-ayodele/legalease/internal/export"
	"github.com/joseph-ayodele/legalease/internal/server"
)

var serveAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the legalease.v1.Analysis gRPC API",
	Args:  cobra.NoArgs,
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "listen address (default GRPC_ADDR)")
}

func runServe(cmd *cobra.Command, _ []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	a, err := buildApp(ctx, true)
	if err != nil {
		logger.Error("failed to start", "error", err)
		return err
	}
	defer a.Close()

	addr := cfg.Server.GRPCAddr
	if serveAddr != "" {
		addr = serveAddr
	}
	lis, err := net.Listen("tcp", addr)
	if err != nil {
		logger.Error("failed to listen on address", "addr", addr, "error", err)
		return err
	}

	notifier := analysis.LogNotifier{Logger: logger}
	registry := server.NewRegistry(func(id string) *analysis.Orchestrator {
		return a.newSession(id, notifier)
	}, cfg.Server.MaxSessions, logger)
	defer registry.CloseAll(context.Background())

	maxUpload := cfg.Extract.MaxUploadMB << 20
	svc := server.NewAnalysisService(registry, export.NewService(logger), a.runs, maxUpload, logger)
	// Leave headroom for JSON base64 expansion of uploads.
	grpcServer, healthServer := server.NewGRPCServer(svc, maxUpload*2, logger)

	go sweepSessions(ctx, registry, cfg.Server.SessionIdleTTL)

	logger.Info("legalease listening", "addr", addr)
	serveErr := make(chan error, 1)
	go func() { serveErr <- grpcServer.Serve(lis) }()

	select {
	case <-ctx.Done():
	case err := <-serveErr:
		logger.Error("gRPC serve error", "error", err)
		return err
	}
	logger.Info("shutting down")
	healthServer.Shutdown()
	stopped := make(chan struct{})
	go func() { grpcServer.GracefulStop(); close(stopped) }()
	select {
	case <-stopped:
	case <-time.After(10 * time.Second):
		grpcServer.Stop()
	}
	return nil
}

// sweepSessions closes idle sessions until ctx is done.
func sweepSessions(ctx context.Context, registry *server.Registry, idle time.Duration) {
	if idle <= 0 {
		return
	}
	t := time.NewTicker(idle / 2)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			registry.Sweep(ctx, idle)
		}
	}
}
