package server

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"google.golang.org/grpc"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"

	"github.com/joseph-ayodele/legalease/internal/common"
)

// RequestIDHeader carries a caller-chosen request id.
const RequestIDHeader = "x-request-id"

// UnaryLogging tags each call with a request id (taken from the
// x-request-id header or generated) and logs its outcome.
func UnaryLogging(logger *slog.Logger) grpc.UnaryServerInterceptor {
	if logger == nil {
		logger = slog.Default()
	}
	return func(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
		reqID := ""
		if md, ok := metadata.FromIncomingContext(ctx); ok {
			if v := md.Get(RequestIDHeader); len(v) > 0 {
				reqID = v[0]
			}
		}
		if reqID == "" {
			reqID = uuid.NewString()
		}
		ctx = common.WithRequestID(ctx, reqID)
		_ = grpc.SetHeader(ctx, metadata.Pairs(RequestIDHeader, reqID))

		start := time.Now()
		resp, err := handler(ctx, req)
		elapsed := time.Since(start).Milliseconds()
		if err != nil {
			logger.Warn("grpc.call.failed", "method", info.FullMethod, "req_id", reqID,
				"code", status.Code(err).String(), "error", err, "elapsed_ms", elapsed)
			return nil, err
		}
		logger.Info("grpc.call.ok", "method", info.FullMethod, "req_id", reqID, "elapsed_ms", elapsed)
		return resp, nil
	}
}
