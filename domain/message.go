// Package domain contains core concepts of the chat relay.
// This file defines Message records and the views broadcast to clients.
package domain

import (
	"time"

	"github.com/google/uuid"
)

type MessageType string

const (
	TypeText     MessageType = "text"
	TypeImage    MessageType = "image"
	TypeAudio    MessageType = "audio"
	TypeVideo    MessageType = "video"
	TypeDocument MessageType = "document"
	TypeCall     MessageType = "call"
)

// Metadata keys written by the transcription pipeline.
const (
	MetaTranscript           = "transcript"
	MetaTranscriptLanguage   = "transcriptLanguage"
	MetaTranslatedTranscript = "translatedTranscript"
	MetaTranslatedLanguage   = "translatedTranscriptLanguage"
	MetaTranscriptStatus     = "transcriptStatus"

	TranscriptStatusDone  = "done"
	TranscriptStatusEmpty = "empty"
)

// Message is a persisted chat message.
// Content is opaque: plaintext or ciphertext, never interpreted when a nonce is present.
type Message struct {
	ID                 uuid.UUID
	SenderID           Identity
	ReceiverID         Identity
	ConversationID     uuid.UUID
	Type               MessageType
	Content            string
	EncryptionNonce    *string
	Metadata           map[string]any
	ReplyTo            *uuid.UUID
	Timestamp          time.Time
	Edited             bool
	EditedAt           *time.Time
	Deleted            bool
	Delivered          bool
	DeliveredAt        *time.Time
	Read               bool
	ReadAt             *time.Time
	IsBot              bool
	IsBotQuery         bool
	OriginalLanguage   *string
	TranslatedText     *string
	TranslatedLanguage *string
	ShowOriginal       bool
}

// Encrypted reports whether Content carries ciphertext.
func (m Message) Encrypted() bool {
	return m.EncryptionNonce != nil && *m.EncryptionNonce != ""
}

// Participants returns the two identity channels a message is delivered to.
func (m Message) Participants() []Identity {
	if m.SenderID == m.ReceiverID {
		return []Identity{m.SenderID}
	}
	return []Identity{m.SenderID, m.ReceiverID}
}

// MessageView is the wire representation of a message, enriched with the sender display name.
type MessageView struct {
	ID                 string         `json:"id"`
	SenderID           string         `json:"senderId"`
	SenderName         string         `json:"senderName"`
	ReceiverID         string         `json:"receiverId"`
	ConversationID     string         `json:"conversationId"`
	Type               MessageType    `json:"type"`
	Content            string         `json:"content"`
	Nonce              *string        `json:"nonce,omitempty"`
	Metadata           map[string]any `json:"metadata,omitempty"`
	ReplyTo            *string        `json:"replyTo,omitempty"`
	Timestamp          time.Time      `json:"timestamp"`
	Edited             bool           `json:"edited"`
	EditedAt           *time.Time     `json:"editedAt,omitempty"`
	Deleted            bool           `json:"deleted"`
	Delivered          bool           `json:"delivered"`
	DeliveredAt        *time.Time     `json:"deliveredAt,omitempty"`
	Read               bool           `json:"read"`
	ReadAt             *time.Time     `json:"readAt,omitempty"`
	IsBot              bool           `json:"isBot"`
	IsBotQuery         bool           `json:"isBotQuery"`
	OriginalLanguage   *string        `json:"originalLanguage,omitempty"`
	TranslatedText     *string        `json:"translatedText,omitempty"`
	TranslatedLanguage *string        `json:"translatedLanguage,omitempty"`
	ShowOriginal       bool           `json:"showOriginal"`
}

func ToMessageView(m Message, senderName string) MessageView {
	var replyTo *string
	if m.ReplyTo != nil {
		s := m.ReplyTo.String()
		replyTo = &s
	}
	return MessageView{
		ID:                 m.ID.String(),
		SenderID:           m.SenderID,
		SenderName:         senderName,
		ReceiverID:         m.ReceiverID,
		ConversationID:     m.ConversationID.String(),
		Type:               m.Type,
		Content:            m.Content,
		Nonce:              m.EncryptionNonce,
		Metadata:           m.Metadata,
		ReplyTo:            replyTo,
		Timestamp:          m.Timestamp,
		Edited:             m.Edited,
		EditedAt:           m.EditedAt,
		Deleted:            m.Deleted,
		Delivered:          m.Delivered,
		DeliveredAt:        m.DeliveredAt,
		Read:               m.Read,
		ReadAt:             m.ReadAt,
		IsBot:              m.IsBot,
		IsBotQuery:         m.IsBotQuery,
		OriginalLanguage:   m.OriginalLanguage,
		TranslatedText:     m.TranslatedText,
		TranslatedLanguage: m.TranslatedLanguage,
		ShowOriginal:       m.ShowOriginal,
	}
}

func IsKnownType(t MessageType) bool {
	switch t {
	case TypeText, TypeImage, TypeAudio, TypeVideo, TypeDocument, TypeCall:
		return true
	}
	return false
}
