//go:generate go run go.uber.org/mock/mockgen -source=directory.go -destination=../mocks/mock_directory.go -package=mocks
package services

import (
	"chat-relay/clock"
	"chat-relay/domain"
	"chat-relay/errors"
	"chat-relay/infrastructure/storage"
	stderrors "errors"
	"fmt"
	"log/slog"
)

// maxCreateAttempts bounds the lookup/create loop of a contended first contact.
const maxCreateAttempts = 3

type IConversationDirectory interface {
	GetOrCreate(a, b domain.Identity) (domain.Conversation, error)
}

// ConversationDirectory resolves the single conversation of an identity pair.
type ConversationDirectory struct {
	log           *slog.Logger
	conversations storage.IConversationRepository
	clock         clock.Clock
}

func NewConversationDirectory(log *slog.Logger, conversations storage.IConversationRepository, clock clock.Clock) *ConversationDirectory {
	return &ConversationDirectory{log: log, conversations: conversations, clock: clock}
}

// GetOrCreate looks the pair up by its canonical key and creates the conversation on a miss.
// A creator losing the race on the unique key retries the lookup and returns the winner's
// conversation, so concurrent first contacts never split one pair into two threads.
// A stored conversation whose participants differ from the pair is refused.
func (d *ConversationDirectory) GetOrCreate(a, b domain.Identity) (domain.Conversation, error) {
	key := domain.ConversationKey(a, b)
	for attempt := 1; attempt <= maxCreateAttempts; attempt++ {
		conversation, err := d.conversations.GetByKey(key)
		if err == nil {
			if !conversation.Matches(a, b) {
				logSecurityEvent(d.log, securityConversationMismatch, "conversation key shared by another pair",
					"key", key, "conversation_id", conversation.ID)
				return domain.Conversation{}, errors.ErrUnauthorized
			}
			return conversation, nil
		}
		if !stderrors.Is(err, errors.ErrConversationNotFound) {
			return domain.Conversation{}, err
		}

		conversation = domain.NewConversation(a, b, d.clock.Now().UTC())
		err = d.conversations.Create(conversation)
		if err == nil {
			d.log.Debug("Conversation created", "conversation_id", conversation.ID, "key", key)
			return conversation, nil
		}
		if !stderrors.Is(err, errors.ErrConversationCreateConflict) {
			return domain.Conversation{}, err
		}
		d.log.Debug("Concurrent conversation creation, retrying lookup", "key", key, "attempt", attempt)
	}
	return domain.Conversation{}, fmt.Errorf("resolve conversation %s: %w", key, errors.ErrConversationCreateConflict)
}
