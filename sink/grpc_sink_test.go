package sink

import (
	"chat-relay/domain"
	"chat-relay/errors"
	"context"
	stderrors "errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestGrpcSink_BuffersEvents(t *testing.T) {
	req := require.New(t)
	s := NewGrpcSink(2, 10*time.Millisecond)

	req.NoError(s.Consume(context.Background(), domain.NewEvent(domain.EventMessage, 1)))
	req.NoError(s.Consume(context.Background(), domain.NewEvent(domain.EventMessage, 2)))

	req.Equal(1, (<-s.Events).Payload)
	req.Equal(2, (<-s.Events).Payload)
}

func TestGrpcSink_FullBufferTimesOut(t *testing.T) {
	req := require.New(t)
	s := NewGrpcSink(1, 20*time.Millisecond)

	req.NoError(s.Consume(context.Background(), domain.NewEvent(domain.EventMessage, 1)))

	start := time.Now()
	err := s.Consume(context.Background(), domain.NewEvent(domain.EventMessage, 2))
	req.True(stderrors.Is(err, errors.ErrDeliveryTimeout))
	req.GreaterOrEqual(time.Since(start), 20*time.Millisecond)
	req.Len(s.Events, 1)
}

func TestGrpcSink_ClosedSinkRejects(t *testing.T) {
	req := require.New(t)
	s := NewGrpcSink(1, time.Second)
	s.Close()
	s.Close()

	err := s.Consume(context.Background(), domain.NewEvent(domain.EventMessage, 1))
	req.True(stderrors.Is(err, errors.ErrSinkClosed))
}
