package services

import (
	"chat-relay/domain"
	"chat-relay/errors"
	"cmp"
	"context"
	stderrors "errors"
	"fmt"
	"slices"
	"time"

	"github.com/google/uuid"
)

// Sync returns the messages a reconnecting client missed after its last seen message,
// across all its conversations, oldest first and capped at the sync limit.
// Every candidate goes through the firewall again before leaving the process.
func (s *ChatService) Sync(ctx context.Context, caller domain.Identity, payload domain.SyncPayload) (domain.SyncResponse, error) {
	after, err := s.syncCursor(caller, payload.LastMessageID)
	if err != nil {
		return domain.SyncResponse{}, err
	}

	conversations, err := s.conversations.ListForParticipant(caller)
	if err != nil {
		return domain.SyncResponse{}, fmt.Errorf("list conversations: %w", err)
	}

	var candidates []domain.Message
	for _, conversation := range conversations {
		if err = ctx.Err(); err != nil {
			return domain.SyncResponse{}, err
		}
		messages, err := s.messages.ListAfter(conversation.ID, after, s.cfg.SyncLimit)
		if err != nil {
			return domain.SyncResponse{}, fmt.Errorf("list messages of %s: %w", conversation.ID, err)
		}
		candidates = append(candidates, messages...)
	}
	slices.SortFunc(candidates, func(a, b domain.Message) int {
		if c := a.Timestamp.Compare(b.Timestamp); c != 0 {
			return c
		}
		return cmp.Compare(a.ID.String(), b.ID.String())
	})

	views := make([]domain.MessageView, 0, min(len(candidates), s.cfg.SyncLimit))
	for _, message := range candidates {
		if len(views) == s.cfg.SyncLimit {
			break
		}
		if message.SenderID != caller && message.ReceiverID != caller {
			logSecurityEvent(s.log, securitySyncLeak, "sync candidate not addressed to caller",
				"user_id", caller, "message_id", message.ID, "conversation_id", message.ConversationID)
			continue
		}
		if !s.firewall.Authorize(caller, message.ConversationID) {
			logSecurityEvent(s.log, securitySyncLeak, "sync candidate outside caller conversations",
				"user_id", caller, "message_id", message.ID, "conversation_id", message.ConversationID)
			continue
		}
		views = append(views, s.broadcaster.View(message))
	}

	s.log.Debug("Sync served", "user_id", caller, "count", len(views))
	return domain.SyncResponse{
		Messages: views,
		Count:    len(views),
		HasMore:  len(views) == s.cfg.SyncLimit,
	}, nil
}

// syncCursor resolves the last seen message to its timestamp. An unknown id restarts
// from the beginning; a message of someone else's conversation is refused.
func (s *ChatService) syncCursor(caller domain.Identity, lastMessageID *string) (*time.Time, error) {
	if lastMessageID == nil || *lastMessageID == "" {
		return nil, nil
	}
	id, err := uuid.Parse(*lastMessageID)
	if err != nil {
		return nil, fmt.Errorf("%w: lastMessageId must be a uuid", errors.ErrInvalidPayload)
	}
	message, err := s.messages.GetByID(id)
	if stderrors.Is(err, errors.ErrMessageNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if message.SenderID != caller && message.ReceiverID != caller {
		logSecurityEvent(s.log, securityForeignMessage, "sync cursor on a foreign message",
			"user_id", caller, "message_id", id)
		return nil, errors.ErrUnauthorized
	}
	if !s.firewall.Authorize(caller, message.ConversationID) {
		return nil, errors.ErrUnauthorized
	}
	return &message.Timestamp, nil
}
