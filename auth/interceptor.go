package auth

import (
	"chat-relay/errors"
	"context"
	"log/slog"
	"strings"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
)

type contextKey string

const sessionKey contextKey = "session"

// WithSession returns a context carrying the authenticated session.
func WithSession(ctx context.Context, session Session) context.Context {
	return context.WithValue(ctx, sessionKey, session)
}

// SessionFromContext returns the session injected by the stream interceptor.
func SessionFromContext(ctx context.Context) (Session, error) {
	session, ok := ctx.Value(sessionKey).(Session)
	if !ok || session.UserID == "" {
		return Session{}, errors.ErrMissingSession
	}
	return session, nil
}

// authenticatedStream overrides Context so handlers see the session.
type authenticatedStream struct {
	grpc.ServerStream
	ctx context.Context
}

func (s *authenticatedStream) Context() context.Context { return s.ctx }

// StreamInterceptor rejects any stream whose "authorization: Bearer <jwt>" metadata does not
// validate. No event is accepted on a connection before its session is resolved.
func StreamInterceptor(log *slog.Logger, tokens *TokenManager) grpc.StreamServerInterceptor {
	return func(srv any, stream grpc.ServerStream, info *grpc.StreamServerInfo, handler grpc.StreamHandler) error {
		session, err := authenticate(stream.Context(), tokens)
		if err != nil {
			log.Debug("Stream authentication failed", "method", info.FullMethod, "error", err)
			return err
		}
		ctx := WithSession(stream.Context(), session)
		return handler(srv, &authenticatedStream{ServerStream: stream, ctx: ctx})
	}
}

func authenticate(ctx context.Context, tokens *TokenManager) (Session, error) {
	md, ok := metadata.FromIncomingContext(ctx)
	if !ok {
		return Session{}, status.Error(codes.Unauthenticated, "metadata is missing")
	}
	values := md.Get("authorization")
	if len(values) == 0 {
		return Session{}, status.Error(codes.Unauthenticated, "authorization token is missing")
	}
	session, err := tokens.ValidateToken(strings.TrimPrefix(values[0], "Bearer "))
	if err != nil {
		return Session{}, status.Error(codes.Unauthenticated, errors.ErrInvalidToken.Error())
	}
	return session, nil
}
