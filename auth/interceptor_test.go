package auth

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
)

type fakeStream struct {
	grpc.ServerStream
	ctx context.Context
}

func (f *fakeStream) Context() context.Context { return f.ctx }

func TestStreamInterceptor(t *testing.T) {
	tokens := NewTokenManager("test-secret")
	interceptor := StreamInterceptor(slog.Default(), tokens)
	info := &grpc.StreamServerInfo{FullMethod: "/chat.Relay/Connect", IsClientStream: true, IsServerStream: true}

	t.Run("should fail when metadata is missing", func(t *testing.T) {
		req := require.New(t)
		called := false
		err := interceptor(nil, &fakeStream{ctx: context.Background()}, info, func(any, grpc.ServerStream) error {
			called = true
			return nil
		})
		req.Equal(codes.Unauthenticated, status.Code(err))
		req.False(called)
	})

	t.Run("should fail with invalid token", func(t *testing.T) {
		req := require.New(t)
		ctx := metadata.NewIncomingContext(context.Background(), metadata.Pairs("authorization", "Bearer invalid"))
		err := interceptor(nil, &fakeStream{ctx: ctx}, info, func(any, grpc.ServerStream) error { return nil })
		req.Equal(codes.Unauthenticated, status.Code(err))
		req.Contains(err.Error(), "invalid or expired token")
	})

	t.Run("should inject the session when token is valid", func(t *testing.T) {
		req := require.New(t)
		token, err := tokens.GenerateToken(Session{UserID: "user-123", Username: "Bob", Lang: "es"}, time.Hour)
		req.NoError(err)
		ctx := metadata.NewIncomingContext(context.Background(), metadata.Pairs("authorization", "Bearer "+token))

		var got Session
		err = interceptor(nil, &fakeStream{ctx: ctx}, info, func(_ any, stream grpc.ServerStream) error {
			var sessionErr error
			got, sessionErr = SessionFromContext(stream.Context())
			return sessionErr
		})
		req.NoError(err)
		req.Equal("user-123", got.UserID)
		req.Equal("es", got.Lang)
	})
}

func TestSessionFromContext_Missing(t *testing.T) {
	req := require.New(t)
	_, err := SessionFromContext(context.Background())
	req.Error(err)
}
