package interceptor

import (
	"context"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/peer"
	"google.golang.org/grpc/status"
)

func TestRateLimiter_Allow(t *testing.T) {
	l := NewRateLimiter(1, 2)
	clock := time.Date(2026, 4, 1, 12, 0, 0, 0, time.UTC)
	l.now = func() time.Time { return clock }

	assert.True(t, l.Allow("10.0.0.1"))
	assert.True(t, l.Allow("10.0.0.1"))
	assert.False(t, l.Allow("10.0.0.1"))
	assert.True(t, l.Allow("10.0.0.2"), "buckets are per client")

	clock = clock.Add(time.Second)
	assert.True(t, l.Allow("10.0.0.1"))
}

func TestRateLimiter_EvictsIdleClients(t *testing.T) {
	l := NewRateLimiter(1, 1)
	clock := time.Date(2026, 4, 1, 12, 0, 0, 0, time.UTC)
	l.now = func() time.Time { return clock }

	l.Allow("a")
	l.Allow("b")
	clock = clock.Add(2 * limiterIdleTTL)
	l.Allow("b")

	assert.Len(t, l.visitors, 1)
}

func TestRateLimiter_Unary(t *testing.T) {
	l := NewRateLimiter(1, 1)
	clock := time.Date(2026, 4, 1, 12, 0, 0, 0, time.UTC)
	l.now = func() time.Time { return clock }

	ctx := peer.NewContext(context.Background(), &peer.Peer{
		Addr: &net.TCPAddr{IP: net.ParseIP("192.168.1.5"), Port: 40000},
	})
	info := &grpc.UnaryServerInfo{FullMethod: "/clubhub.v1.ClubService/ListClubs"}
	handler := func(ctx context.Context, req any) (any, error) { return "ok", nil }

	_, err := l.Unary()(ctx, nil, info, handler)
	assert.NoError(t, err)

	// A new connection from the same host shares the bucket.
	ctx = peer.NewContext(context.Background(), &peer.Peer{
		Addr: &net.TCPAddr{IP: net.ParseIP("192.168.1.5"), Port: 40001},
	})
	_, err = l.Unary()(ctx, nil, info, handler)
	assert.Equal(t, codes.ResourceExhausted, status.Code(err))
}
