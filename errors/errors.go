package errors

import (
	stderrors "errors"
	"fmt"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

var (
	ErrWorkerPanic = fmt.Errorf("worker panic")

	// Admission
	ErrRateLimited = fmt.Errorf("rate limit exceeded")

	// Authorization. The message is deliberately generic.
	ErrUnauthorized = fmt.Errorf("unauthorized")

	// Validation
	ErrInvalidPayload = fmt.Errorf("invalid payload")
	ErrUnknownEvent   = fmt.Errorf("unknown event")
	ErrMissingSession = fmt.Errorf("missing session")

	// Storage
	ErrMessageNotFound            = fmt.Errorf("message not found")
	ErrConversationNotFound       = fmt.Errorf("conversation not found")
	ErrConversationCreateConflict = fmt.Errorf("conversation create conflict")
	ErrProfileNotFound            = fmt.Errorf("profile not found")

	// Enrichment, never surfaced to users
	ErrNoTranslation  = fmt.Errorf("no translation available")
	ErrProviderFailed = fmt.Errorf("provider failed")
	ErrEmptyAudio     = fmt.Errorf("empty audio")
	ErrQueueFull      = fmt.Errorf("task queue full")
	ErrForeignBlob    = fmt.Errorf("blob pointer outside the blob store")

	ErrInvalidToken = fmt.Errorf("invalid or expired token")

	// Delivery
	ErrDeliveryTimeout = fmt.Errorf("delivery timeout")
	ErrSinkClosed      = fmt.Errorf("connection closed")
)

// MapToGRPCError converts domain errors into gRPC status errors.
func MapToGRPCError(err error) error {
	if err == nil {
		return nil
	}
	switch {
	case stderrors.Is(err, ErrRateLimited):
		return status.Error(codes.ResourceExhausted, err.Error())
	case stderrors.Is(err, ErrUnauthorized):
		return status.Error(codes.PermissionDenied, ErrUnauthorized.Error())
	case stderrors.Is(err, ErrMissingSession), stderrors.Is(err, ErrInvalidToken):
		return status.Error(codes.Unauthenticated, err.Error())
	case stderrors.Is(err, ErrInvalidPayload), stderrors.Is(err, ErrUnknownEvent):
		return status.Error(codes.InvalidArgument, err.Error())
	case stderrors.Is(err, ErrMessageNotFound), stderrors.Is(err, ErrConversationNotFound):
		return status.Error(codes.NotFound, err.Error())
	default:
		return status.Error(codes.Internal, "internal error")
	}
}

// RateLimitError carries the admission decision back to the sender.
type RateLimitError struct {
	RetryAfter int
	Limit      int
}

func (e *RateLimitError) Error() string {
	return fmt.Sprintf("%s, retry after %ds", ErrRateLimited, e.RetryAfter)
}

func (e *RateLimitError) Unwrap() error { return ErrRateLimited }
