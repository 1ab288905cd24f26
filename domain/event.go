package domain

import (
	"encoding/json"
	"time"
)

// Inbound event names.
const (
	EventChatSend    = "chat.send"
	EventChatEdit    = "chat.edit"
	EventChatDelete  = "chat.delete"
	EventChatTyping  = "chat.typing"
	EventChatRead    = "chat.read"
	EventSync        = "message:sync"
	EventKeyExchange = "crypto.exchange-key"
)

// Outbound event names.
const (
	EventMessage         = "message"
	EventMessageUpdated  = "message.updated"
	EventMessagesEdited  = "messages.edited"
	EventMessagesDeleted = "messages.deleted"
	EventTyping          = "typing"
	EventMessageRead     = "MESSAGE_READ"
	EventSyncResponse    = "message:sync_response"
	EventError           = "error"
	EventRateLimitError  = "error:rate_limit"
	EventKeyOffer        = "crypto.key-offer"
	EventKeySent         = "crypto.key-sent"
)

// Inbound is a raw client event. Payload is decoded by the handler for Name.
type Inbound struct {
	Name    string          `json:"event"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// Event is an outbound event delivered to an identity channel.
type Event struct {
	Name    string `json:"event"`
	Payload any    `json:"payload,omitempty"`
}

func NewEvent(name string, payload any) Event {
	return Event{Name: name, Payload: payload}
}

type SendPayload struct {
	ReceiverID     string         `json:"receiverId" validate:"required,max=128,excludes=:"`
	ConversationID *string        `json:"conversationId,omitempty" validate:"omitempty,uuid"`
	Type           MessageType    `json:"type" validate:"required,oneof=text image audio video document call"`
	Content        string         `json:"content" validate:"required"`
	Nonce          *string        `json:"nonce,omitempty"`
	Plaintext      *string        `json:"plaintext,omitempty"`
	Metadata       map[string]any `json:"metadata,omitempty"`
	ReplyTo        *string        `json:"replyTo,omitempty" validate:"omitempty,uuid"`
}

type EditPayload struct {
	ID        string  `json:"id" validate:"required,uuid"`
	Content   string  `json:"content" validate:"required"`
	Nonce     *string `json:"nonce,omitempty"`
	Plaintext *string `json:"plaintext,omitempty"`
}

type DeletePayload struct {
	ID string `json:"id" validate:"required,uuid"`
}

type TypingPayload struct {
	ReceiverID string `json:"receiverId" validate:"required,excludes=:"`
	IsTyping   bool   `json:"isTyping"`
}

type ReadPayload struct {
	MessageID string `json:"messageId" validate:"required,uuid"`
}

type SyncPayload struct {
	LastMessageID *string `json:"lastMessageId,omitempty" validate:"omitempty,uuid"`
}

type KeyExchangePayload struct {
	ReceiverID string `json:"receiverId" validate:"required,excludes=:"`
	PublicKey  string `json:"publicKey" validate:"required"`
}

type DeletedNotice struct {
	ID             string `json:"id"`
	ConversationID string `json:"conversationId"`
}

type TypingNotice struct {
	SenderID string `json:"senderId"`
	IsTyping bool   `json:"isTyping"`
}

type ReadReceipt struct {
	MessageID string    `json:"messageId"`
	ReaderID  string    `json:"readerId"`
	ReadAt    time.Time `json:"readAt"`
}

type SyncResponse struct {
	Messages []MessageView `json:"messages"`
	Count    int           `json:"count"`
	HasMore  bool          `json:"hasMore"`
}

type ErrorNotice struct {
	Message string `json:"message"`
	Event   string `json:"event,omitempty"`
}

type RateLimitNotice struct {
	Message    string `json:"message"`
	RetryAfter int    `json:"retryAfter"`
	Limit      int    `json:"limit"`
}

type KeyOffer struct {
	SenderID  string `json:"senderId"`
	PublicKey string `json:"publicKey"`
}

type KeySent struct {
	ReceiverID string `json:"receiverId"`
}
