package grpc

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"clubhub-backend/internal/domain"
)

func TestToStatus(t *testing.T) {
	ctx := context.Background()
	tests := []struct {
		name string
		err  error
		want codes.Code
	}{
		{"validation fields", &domain.ValidationError{Fields: map[string]string{"name": "is required"}}, codes.InvalidArgument},
		{"wrapped validation", fmt.Errorf("bad input: %w", domain.ErrValidation), codes.InvalidArgument},
		{"credentials", domain.ErrInvalidCredentials, codes.Unauthenticated},
		{"not found", domain.ErrClubNotFound, codes.NotFound},
		{"not member", domain.ErrNotMember, codes.NotFound},
		{"duplicate", domain.ErrAlreadyRegistered, codes.AlreadyExists},
		{"ownership", domain.ErrNotAuthorized, codes.PermissionDenied},
		{"role", domain.ErrNotAllowed, codes.PermissionDenied},
		{"terminal status", fmt.Errorf("club c1 is approved: %w", domain.ErrInvalidTransition), codes.FailedPrecondition},
		{"full event", domain.ErrCapacityReached, codes.ResourceExhausted},
		{"deadline", context.DeadlineExceeded, codes.DeadlineExceeded},
		{"status passes through", status.Error(codes.Unauthenticated, "no token"), codes.Unauthenticated},
		{"anything else", errors.New("disk on fire"), codes.Internal},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, status.Code(toStatus(ctx, tt.err)))
		})
	}

	assert.NoError(t, toStatus(ctx, nil))
	assert.Equal(t, "internal error", status.Convert(toStatus(ctx, errors.New("secret detail"))).Message())
}
