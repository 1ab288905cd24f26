package server

import (
	"chat-relay/auth"
	"log/slog"
	"time"

	grpc3 "github.com/mama165/sdk-go/grpc"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
)

// NewGRPCServer wires the relay stream behind the token interceptor and exposes the
// standard health service, whose unary Check needs no token.
// Relay messages use the JSON codec selected by the client content-subtype.
func NewGRPCServer(log *slog.Logger, tokens *auth.TokenManager, chatServer *ChatServer, opts ...grpc.ServerOption) (*grpc.Server, *health.Server) {
	opts = append([]grpc.ServerOption{
		grpc.ChainUnaryInterceptor(grpc3.UnaryLoggingInterceptor(log)),
		grpc.ChainStreamInterceptor(auth.StreamInterceptor(log, tokens)),
	}, opts...)
	s := grpc.NewServer(opts...)

	RegisterRelayServer(s, chatServer)

	healthServer := health.NewServer()
	healthpb.RegisterHealthServer(s, healthServer)
	healthServer.SetServingStatus(RelayServiceName, healthpb.HealthCheckResponse_SERVING)
	return s, healthServer
}

// StopGRPCServer marks the relay NOT_SERVING and drains the server. Connect streams only
// end when clients leave, so after timeout the remaining streams are closed with Stop.
// It reports whether the stop had to be forced.
func StopGRPCServer(log *slog.Logger, s *grpc.Server, healthServer *health.Server, timeout time.Duration) bool {
	healthServer.Shutdown()

	drained := make(chan struct{})
	go func() {
		s.GracefulStop()
		close(drained)
	}()

	timer := time.NewTimer(timeout)
	defer timer.Stop()
	select {
	case <-drained:
		return false
	case <-timer.C:
		log.Warn("Graceful stop timed out, closing open streams", "timeout", timeout)
		s.Stop()
		<-drained
		return true
	}
}
