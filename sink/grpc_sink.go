package sink

import (
	"chat-relay/domain"
	"chat-relay/errors"
	"context"
	"sync"
	"time"
)

const (
	DefaultBufferSize      = 64
	DefaultDeliveryTimeout = 2 * time.Second
)

// GrpcSink buffers the outbound events of one connection.
// The stream handler drains Events and writes them to the wire.
type GrpcSink struct {
	Events          chan domain.Event
	done            chan struct{}
	closeOnce       sync.Once
	deliveryTimeout time.Duration
}

func NewGrpcSink(bufferSize int, deliveryTimeout time.Duration) *GrpcSink {
	if bufferSize <= 0 {
		bufferSize = DefaultBufferSize
	}
	if deliveryTimeout <= 0 {
		deliveryTimeout = DefaultDeliveryTimeout
	}
	return &GrpcSink{
		Events:          make(chan domain.Event, bufferSize),
		done:            make(chan struct{}),
		deliveryTimeout: deliveryTimeout,
	}
}

// Consume is called by the registry on publish.
// A full buffer waits at most the delivery timeout, then the event is dropped:
// one slow consumer never stalls the fan-out to the other participant.
func (s *GrpcSink) Consume(ctx context.Context, e domain.Event) error {
	select {
	case <-s.done:
		return errors.ErrSinkClosed
	default:
	}

	select {
	case s.Events <- e:
		return nil
	default:
	}

	timer := time.NewTimer(s.deliveryTimeout)
	defer timer.Stop()
	select {
	case s.Events <- e:
		return nil
	case <-s.done:
		return errors.ErrSinkClosed
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return errors.ErrDeliveryTimeout
	}
}

// Close releases publishers waiting on this connection.
func (s *GrpcSink) Close() {
	s.closeOnce.Do(func() { close(s.done) })
}
