package services

import (
	"chat-relay/auth"
	"chat-relay/contract"
	"chat-relay/domain"
	"chat-relay/errors"
	"context"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"log/slog"
)

const (
	unauthorizedMessage = "unauthorized"
	rateLimitMessage    = "Too many events, slow down"
	internalMessage     = "internal error"
)

// Dispatcher decodes inbound events of one connection, routes them to the chat service
// and turns failures into error events for that connection. A bad event never ends the stream.
type Dispatcher struct {
	log  *slog.Logger
	chat IChatService
}

func NewDispatcher(log *slog.Logger, chat IChatService) *Dispatcher {
	return &Dispatcher{log: log, chat: chat}
}

// Dispatch handles one inbound event. Direct answers (sync response, errors) go to reply,
// the connection the event came from.
func (d *Dispatcher) Dispatch(ctx context.Context, session auth.Session, inbound domain.Inbound, reply contract.EventSink) {
	response, err := d.route(ctx, session.UserID, inbound)
	if err != nil {
		d.reject(ctx, session.UserID, inbound.Name, err, reply)
		return
	}
	if response != nil {
		if err = reply.Consume(ctx, *response); err != nil {
			d.log.Debug("Response not delivered", "user_id", session.UserID, "event", response.Name, "error", err)
		}
	}
}

func (d *Dispatcher) route(ctx context.Context, caller domain.Identity, inbound domain.Inbound) (*domain.Event, error) {
	switch inbound.Name {
	case domain.EventChatSend:
		payload, err := decode[domain.SendPayload](inbound.Payload)
		if err != nil {
			return nil, err
		}
		_, err = d.chat.Send(ctx, caller, payload)
		return nil, err
	case domain.EventChatEdit:
		payload, err := decode[domain.EditPayload](inbound.Payload)
		if err != nil {
			return nil, err
		}
		_, err = d.chat.Edit(ctx, caller, payload)
		return nil, err
	case domain.EventChatDelete:
		payload, err := decode[domain.DeletePayload](inbound.Payload)
		if err != nil {
			return nil, err
		}
		_, err = d.chat.Delete(ctx, caller, payload)
		return nil, err
	case domain.EventChatTyping:
		payload, err := decode[domain.TypingPayload](inbound.Payload)
		if err != nil {
			return nil, err
		}
		return nil, d.chat.Typing(ctx, caller, payload)
	case domain.EventChatRead:
		payload, err := decode[domain.ReadPayload](inbound.Payload)
		if err != nil {
			return nil, err
		}
		_, err = d.chat.MarkRead(ctx, caller, payload)
		return nil, err
	case domain.EventSync:
		payload, err := decode[domain.SyncPayload](inbound.Payload)
		if err != nil {
			return nil, err
		}
		response, err := d.chat.Sync(ctx, caller, payload)
		if err != nil {
			return nil, err
		}
		event := domain.NewEvent(domain.EventSyncResponse, response)
		return &event, nil
	case domain.EventKeyExchange:
		payload, err := decode[domain.KeyExchangePayload](inbound.Payload)
		if err != nil {
			return nil, err
		}
		return nil, d.chat.ExchangeKey(ctx, caller, payload)
	default:
		return nil, fmt.Errorf("%w: %q", errors.ErrUnknownEvent, inbound.Name)
	}
}

// decode unmarshals and validates a payload. A missing payload decodes as an empty object
// so required fields are reported by name.
func decode[T any](raw json.RawMessage) (T, error) {
	var payload T
	if len(raw) == 0 || string(raw) == "null" {
		raw = json.RawMessage("{}")
	}
	if err := json.Unmarshal(raw, &payload); err != nil {
		return payload, fmt.Errorf("%w: malformed payload", errors.ErrInvalidPayload)
	}
	return payload, auth.ValidatePayload(payload)
}

func (d *Dispatcher) reject(ctx context.Context, caller domain.Identity, eventName string, err error, reply contract.EventSink) {
	var outbound domain.Event
	var rateLimited *errors.RateLimitError

	switch {
	case stderrors.As(err, &rateLimited):
		outbound = domain.NewEvent(domain.EventRateLimitError, domain.RateLimitNotice{
			Message:    rateLimitMessage,
			RetryAfter: rateLimited.RetryAfter,
			Limit:      rateLimited.Limit,
		})
	case stderrors.Is(err, errors.ErrUnauthorized):
		outbound = domain.NewEvent(domain.EventError, domain.ErrorNotice{Message: unauthorizedMessage, Event: eventName})
	case stderrors.Is(err, errors.ErrInvalidPayload), stderrors.Is(err, errors.ErrUnknownEvent):
		d.log.Debug("Invalid event", "user_id", caller, "event", eventName, "error", err)
		outbound = domain.NewEvent(domain.EventError, domain.ErrorNotice{Message: err.Error(), Event: eventName})
	default:
		d.log.Error("Event handling failed", "user_id", caller, "event", eventName, "error", err)
		outbound = domain.NewEvent(domain.EventError, domain.ErrorNotice{Message: internalMessage, Event: eventName})
	}

	if consumeErr := reply.Consume(ctx, outbound); consumeErr != nil {
		d.log.Debug("Error event not delivered", "user_id", caller, "event", eventName, "error", consumeErr)
	}
}
