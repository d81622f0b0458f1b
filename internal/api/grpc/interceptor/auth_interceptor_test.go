package interceptor

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"

	"clubhub-backend/internal/logger"
	"clubhub-backend/internal/security"
)

const testSecret = "interceptor-test-secret-0123456789abcdef"

func callWith(t *testing.T, i *AuthInterceptor, method string, md metadata.MD) (context.Context, error) {
	t.Helper()
	var seen context.Context
	handler := func(ctx context.Context, req any) (any, error) {
		seen = ctx
		return "ok", nil
	}
	ctx := context.Background()
	if md != nil {
		ctx = metadata.NewIncomingContext(ctx, md)
	}
	_, err := i.Unary()(ctx, nil, &grpc.UnaryServerInfo{FullMethod: method}, handler)
	return seen, err
}

func userIDFrom(ctx context.Context) string {
	md, _ := metadata.FromIncomingContext(ctx)
	if ids := md.Get("user-id"); len(ids) > 0 {
		return ids[0]
	}
	return ""
}

func TestAuthInterceptor(t *testing.T) {
	tm := security.NewTokenManager(testSecret, time.Hour, 24*time.Hour)
	i := NewAuthInterceptor(tm)

	access, err := tm.GenerateAccessToken("u1", "u1@example.com", "student")
	require.NoError(t, err)
	refresh, err := tm.GenerateRefreshToken("u1", "u1@example.com")
	require.NoError(t, err)

	t.Run("public method passes without token and drops forged identity", func(t *testing.T) {
		ctx, err := callWith(t, i, "/clubhub.v1.ClubService/ListClubs", metadata.Pairs("user-id", "forged"))
		require.NoError(t, err)
		assert.Empty(t, userIDFrom(ctx))
	})

	t.Run("missing token", func(t *testing.T) {
		_, err := callWith(t, i, "/clubhub.v1.ClubService/CreateClub", nil)
		assert.Equal(t, codes.Unauthenticated, status.Code(err))
	})

	t.Run("garbage token", func(t *testing.T) {
		_, err := callWith(t, i, "/clubhub.v1.ClubService/CreateClub", metadata.Pairs("authorization", "Bearer nope"))
		assert.Equal(t, codes.Unauthenticated, status.Code(err))
	})

	t.Run("access token injects user id", func(t *testing.T) {
		md := metadata.Pairs("authorization", "Bearer "+access, "user-id", "forged")
		ctx, err := callWith(t, i, "/clubhub.v1.ClubService/CreateClub", md)
		require.NoError(t, err)
		assert.Equal(t, "u1", userIDFrom(ctx))
	})

	t.Run("refresh token rejected on access method", func(t *testing.T) {
		_, err := callWith(t, i, "/clubhub.v1.ClubService/CreateClub", metadata.Pairs("authorization", "Bearer "+refresh))
		assert.Equal(t, codes.PermissionDenied, status.Code(err))
	})

	t.Run("refresh method wants refresh token", func(t *testing.T) {
		_, err := callWith(t, i, "/clubhub.v1.AuthService/RefreshToken", metadata.Pairs("authorization", "Bearer "+access))
		assert.Equal(t, codes.PermissionDenied, status.Code(err))

		ctx, err := callWith(t, i, "/clubhub.v1.AuthService/RefreshToken", metadata.Pairs("authorization", refresh))
		require.NoError(t, err)
		assert.Equal(t, "u1", userIDFrom(ctx))
	})
}

func TestObservability(t *testing.T) {
	intercept := Observability(nil)
	info := &grpc.UnaryServerInfo{FullMethod: "/clubhub.v1.ClubService/GetClub"}

	t.Run("generates request id", func(t *testing.T) {
		var got string
		_, err := intercept(context.Background(), nil, info, func(ctx context.Context, req any) (any, error) {
			got = logger.RequestID(ctx)
			return nil, nil
		})
		require.NoError(t, err)
		assert.NotEmpty(t, got)
	})

	t.Run("keeps caller request id", func(t *testing.T) {
		ctx := metadata.NewIncomingContext(context.Background(), metadata.Pairs("x-request-id", "req-7"))
		var got string
		_, err := intercept(ctx, nil, info, func(ctx context.Context, req any) (any, error) {
			got = logger.RequestID(ctx)
			return nil, status.Error(codes.NotFound, "missing")
		})
		assert.Equal(t, codes.NotFound, status.Code(err))
		assert.Equal(t, "req-7", got)
	})
}
