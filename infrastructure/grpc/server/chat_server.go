package server

import (
	"chat-relay/auth"
	"chat-relay/errors"
	"chat-relay/services"
	"chat-relay/sink"
	stderrors "errors"
	"io"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

type ChatServer struct {
	log                  *slog.Logger
	chatService          services.IChatService
	dispatcher           *services.Dispatcher
	connectionBufferSize int
	deliveryTimeout      time.Duration
}

func NewChatServer(log *slog.Logger, chatService services.IChatService, dispatcher *services.Dispatcher,
	connectionBufferSize int, deliveryTimeout time.Duration) *ChatServer {
	return &ChatServer{
		log:                  log,
		chatService:          chatService,
		dispatcher:           dispatcher,
		connectionBufferSize: connectionBufferSize,
		deliveryTimeout:      deliveryTimeout,
	}
}

// Connect serves one authenticated connection until the client goes away.
// Inbound events are dispatched in arrival order by a single reader goroutine.
// Outbound events reach the wire through the connection sink registered under the
// caller identity; unregistration is deferred so the registry never keeps a dead sink.
func (s *ChatServer) Connect(stream RelayConnectServer) error {
	ctx := stream.Context()
	session, err := auth.SessionFromContext(ctx)
	if err != nil {
		return errors.MapToGRPCError(err)
	}

	sessionID := uuid.NewString()
	connection := sink.NewGrpcSink(s.connectionBufferSize, s.deliveryTimeout)
	s.chatService.Connect(session, sessionID, connection)
	defer func() {
		s.chatService.Disconnect(session.UserID, sessionID)
		connection.Close()
	}()

	recvErr := make(chan error, 1)
	go func() {
		for {
			inbound, err := stream.Recv()
			if err != nil {
				recvErr <- err
				return
			}
			s.dispatcher.Dispatch(ctx, session, *inbound, connection)
		}
	}()

	for {
		select {
		case <-ctx.Done():
			s.log.Debug("Client stream context done", "user_id", session.UserID, "session_id", sessionID)
			return nil
		case err := <-recvErr:
			if stderrors.Is(err, io.EOF) || status.Code(err) == codes.Canceled {
				return nil
			}
			s.log.Warn("Client stream receive failed", "user_id", session.UserID, "session_id", sessionID, "error", err)
			return err
		case evt := <-connection.Events:
			if err := stream.Send(&evt); err != nil {
				s.log.Error("failed to push event to stream",
					"user_id", session.UserID,
					"session_id", sessionID,
					"event", evt.Name,
					"error", err)
				return err
			}
		}
	}
}
