package domain

import (
	"time"

	"github.com/google/uuid"
)

// Conversation is the durable record of a two-party thread.
// The participant pair never changes after creation.
type Conversation struct {
	ID           uuid.UUID
	ParticipantA Identity
	ParticipantB Identity
	Key          string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// NewConversation builds a conversation with its participants in canonical order.
func NewConversation(a, b Identity, at time.Time) Conversation {
	first, second := OrderedPair(a, b)
	return Conversation{
		ID:           uuid.New(),
		ParticipantA: first,
		ParticipantB: second,
		Key:          ConversationKey(a, b),
		CreatedAt:    at,
		UpdatedAt:    at,
	}
}

func (c Conversation) HasParticipant(id Identity) bool {
	return id != "" && (c.ParticipantA == id || c.ParticipantB == id)
}

// Other returns the participant that is not id.
func (c Conversation) Other(id Identity) Identity {
	if c.ParticipantA == id {
		return c.ParticipantB
	}
	return c.ParticipantA
}

// Matches reports whether the conversation joins exactly sender and receiver.
// Participants are compared, not keys: a key alone is ambiguous once an identity
// contains the separator.
func (c Conversation) Matches(sender, receiver Identity) bool {
	first, second := OrderedPair(sender, receiver)
	return c.ParticipantA == first && c.ParticipantB == second
}
