//go:generate go run go.uber.org/mock/mockgen -source=firewall.go -destination=../mocks/mock_firewall.go -package=mocks
package services

import (
	"chat-relay/domain"
	"chat-relay/errors"
	"chat-relay/infrastructure/storage"
	stderrors "errors"
	"log/slog"

	"github.com/google/uuid"
)

type IFirewall interface {
	Authorize(identity domain.Identity, conversationID uuid.UUID) bool
}

// Firewall answers whether an identity may read or write a conversation.
type Firewall struct {
	log           *slog.Logger
	conversations storage.IConversationRepository
}

func NewFirewall(log *slog.Logger, conversations storage.IConversationRepository) *Firewall {
	return &Firewall{log: log, conversations: conversations}
}

// Authorize is true iff the conversation exists and identity is one of its two participants.
// A denial is logged as a security event; storage failures deny without one.
func (f *Firewall) Authorize(identity domain.Identity, conversationID uuid.UUID) bool {
	conversation, err := f.conversations.GetByID(conversationID)
	if stderrors.Is(err, errors.ErrConversationNotFound) {
		logSecurityEvent(f.log, securityForeignConversation, "access to unknown conversation",
			"user_id", identity, "conversation_id", conversationID)
		return false
	}
	if err != nil {
		f.log.Error("Conversation lookup failed", "conversation_id", conversationID, "error", err)
		return false
	}
	if !conversation.HasParticipant(identity) {
		logSecurityEvent(f.log, securityForeignConversation, "non-participant access to conversation",
			"user_id", identity, "conversation_id", conversationID)
		return false
	}
	return true
}
