package interceptor

import (
	"context"
	"time"

	"github.com/google/uuid"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"

	"clubhub-backend/internal/logger"
	"clubhub-backend/internal/metrics"
)

// Observability tags each call with a request id, logs its outcome and records
// its latency. It should run first in the chain.
func Observability(m *metrics.Metrics) grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
		requestID := ""
		if md, ok := metadata.FromIncomingContext(ctx); ok {
			if ids := md.Get("x-request-id"); len(ids) > 0 {
				requestID = ids[0]
			}
		}
		if requestID == "" {
			requestID = uuid.NewString()
		}
		ctx = logger.WithRequestID(ctx, requestID)
		_ = grpc.SetHeader(ctx, metadata.Pairs("x-request-id", requestID))

		start := time.Now()
		resp, err := handler(ctx, req)
		elapsed := time.Since(start)

		code := status.Code(err)
		m.ObserveRPC(info.FullMethod, code.String(), elapsed)
		switch code {
		case codes.OK:
			logger.DebugContext(ctx, "RPC completed", "method", info.FullMethod, "duration", elapsed)
		case codes.Internal, codes.Unknown, codes.DataLoss, codes.Unavailable:
			logger.ErrorContext(ctx, "RPC failed", "method", info.FullMethod, "code", code.String(), "duration", elapsed, "error", err)
		default:
			logger.InfoContext(ctx, "RPC rejected", "method", info.FullMethod, "code", code.String(), "duration", elapsed, "error", err)
		}
		return resp, err
	}
}
