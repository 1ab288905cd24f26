//go:generate go run go.uber.org/mock/mockgen -source=message_repository.go -destination=../../mocks/mock_message_repository.go -package=mocks
package storage

import (
	"chat-relay/clock"
	"chat-relay/domain"
	"chat-relay/errors"
	stderrors "errors"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/google/uuid"
	"github.com/samber/lo"
)

const (
	messagePrefix   = "message:"
	messageIDPrefix = "message_id:"

	// maxUpdateAttempts bounds retries of a read-modify-write that lost a badger conflict.
	maxUpdateAttempts = 5
)

type IMessageRepository interface {
	Store(message domain.Message) (domain.Message, error)
	GetByID(id uuid.UUID) (domain.Message, error)
	Update(id uuid.UUID, mutate func(*domain.Message) error) (domain.Message, error)
	ListAfter(conversationID uuid.UUID, after *time.Time, limit int) ([]domain.Message, error)
	ListRecent(conversationID uuid.UUID, limit int) ([]domain.Message, error)
}

type MessageRepository struct {
	db    *badger.DB
	log   *slog.Logger
	clock clock.Clock
	last  atomic.Int64
}

func NewMessageRepository(db *badger.DB, log *slog.Logger, clock clock.Clock) *MessageRepository {
	return &MessageRepository{db: db, log: log, clock: clock}
}

type messageRecord struct {
	ID                 string         `cbor:"1,keyasint"`
	SenderID           string         `cbor:"2,keyasint"`
	ReceiverID         string         `cbor:"3,keyasint"`
	ConversationID     string         `cbor:"4,keyasint"`
	Type               string         `cbor:"5,keyasint"`
	Content            string         `cbor:"6,keyasint"`
	EncryptionNonce    *string        `cbor:"7,keyasint,omitempty"`
	Metadata           map[string]any `cbor:"8,keyasint,omitempty"`
	ReplyTo            *string        `cbor:"9,keyasint,omitempty"`
	Timestamp          int64          `cbor:"10,keyasint"`
	Edited             bool           `cbor:"11,keyasint"`
	EditedAt           *int64         `cbor:"12,keyasint,omitempty"`
	Deleted            bool           `cbor:"13,keyasint"`
	Delivered          bool           `cbor:"14,keyasint"`
	DeliveredAt        *int64         `cbor:"15,keyasint,omitempty"`
	Read               bool           `cbor:"16,keyasint"`
	ReadAt             *int64         `cbor:"17,keyasint,omitempty"`
	IsBot              bool           `cbor:"18,keyasint"`
	IsBotQuery         bool           `cbor:"19,keyasint"`
	OriginalLanguage   *string        `cbor:"20,keyasint,omitempty"`
	TranslatedText     *string        `cbor:"21,keyasint,omitempty"`
	TranslatedLanguage *string        `cbor:"22,keyasint,omitempty"`
	ShowOriginal       bool           `cbor:"23,keyasint"`
}

// Store assigns the persistence timestamp and writes the message.
// The key is formatted as "message:{conversation_id}:{timestamp_padded}:{uuid}" to:
//  1. Keep chronological order within a conversation through 19-digit zero padding.
//  2. Keep two messages apart even if they share a nanosecond.
//
// Timestamps are strictly increasing within the process.
func (m *MessageRepository) Store(message domain.Message) (domain.Message, error) {
	message.Timestamp = m.nextTimestamp()
	data, err := marshal(fromMessage(message))
	if err != nil {
		return domain.Message{}, fmt.Errorf("marshal message: %w", err)
	}
	primaryKey := messageKey(message.ConversationID, message.Timestamp, message.ID)
	err = m.db.Update(func(txn *badger.Txn) error {
		if err := txn.Set(primaryKey, data); err != nil {
			return err
		}
		return txn.Set([]byte(messageIDPrefix+message.ID.String()), primaryKey)
	})
	if err != nil {
		return domain.Message{}, err
	}
	return message, nil
}

// GetByID returns the message even when soft-deleted.
func (m *MessageRepository) GetByID(id uuid.UUID) (domain.Message, error) {
	var message domain.Message
	err := m.db.View(func(txn *badger.Txn) error {
		var err error
		message, _, err = getMessage(txn, id)
		return err
	})
	return message, err
}

// Update applies mutate to the stored message in a read-modify-write transaction.
// Concurrent updates of the same message (an edit racing a translation) are retried.
func (m *MessageRepository) Update(id uuid.UUID, mutate func(*domain.Message) error) (domain.Message, error) {
	var updated domain.Message
	var err error
	for attempt := 1; attempt <= maxUpdateAttempts; attempt++ {
		err = m.db.Update(func(txn *badger.Txn) error {
			message, primaryKey, err := getMessage(txn, id)
			if err != nil {
				return err
			}
			if err = mutate(&message); err != nil {
				return err
			}
			data, err := marshal(fromMessage(message))
			if err != nil {
				return err
			}
			updated = message
			return txn.Set(primaryKey, data)
		})
		if !stderrors.Is(err, badger.ErrConflict) {
			break
		}
		m.log.Debug("Message update conflict, retrying", "message_id", id, "attempt", attempt)
	}
	if err != nil {
		return domain.Message{}, err
	}
	return updated, nil
}

// ListAfter returns non-deleted messages of a conversation strictly after the given
// timestamp, oldest first, up to limit.
func (m *MessageRepository) ListAfter(conversationID uuid.UUID, after *time.Time, limit int) ([]domain.Message, error) {
	var messages []domain.Message
	err := m.db.View(func(txn *badger.Txn) error {
		prefix := []byte(fmt.Sprintf("%s%s:", messagePrefix, conversationID))
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()

		seekKey := prefix
		if after != nil {
			seekKey = []byte(fmt.Sprintf("%s%019d", prefix, after.UnixNano()+1))
		}

		for it.Seek(seekKey); it.ValidForPrefix(prefix); it.Next() {
			if limit > 0 && len(messages) == limit {
				break
			}
			message, err := decodeItem(it.Item())
			if err != nil {
				return err
			}
			if message.Deleted {
				continue
			}
			messages = append(messages, message)
		}
		return nil
	})
	return messages, err
}

// ListRecent returns the last limit non-deleted messages of a conversation, oldest first.
func (m *MessageRepository) ListRecent(conversationID uuid.UUID, limit int) ([]domain.Message, error) {
	var messages []domain.Message
	err := m.db.View(func(txn *badger.Txn) error {
		prefix := []byte(fmt.Sprintf("%s%s:", messagePrefix, conversationID))
		options := badger.DefaultIteratorOptions
		options.Reverse = true
		it := txn.NewIterator(options)
		defer it.Close()

		// '~' sorts after every digit, so the seek lands on the newest key of the prefix.
		seekKey := []byte(string(prefix) + "~")
		for it.Seek(seekKey); it.ValidForPrefix(prefix); it.Next() {
			if limit > 0 && len(messages) == limit {
				break
			}
			message, err := decodeItem(it.Item())
			if err != nil {
				return err
			}
			if message.Deleted {
				continue
			}
			messages = append(messages, message)
		}
		return nil
	})
	return lo.Reverse(messages), err
}

// nextTimestamp returns now, or one nanosecond past the previous timestamp when the
// clock has not moved.
func (m *MessageRepository) nextTimestamp() time.Time {
	for {
		previous := m.last.Load()
		candidate := m.clock.Now().UTC().UnixNano()
		if candidate <= previous {
			candidate = previous + 1
		}
		if m.last.CompareAndSwap(previous, candidate) {
			return time.Unix(0, candidate).UTC()
		}
	}
}

func messageKey(conversationID uuid.UUID, at time.Time, id uuid.UUID) []byte {
	return []byte(fmt.Sprintf("%s%s:%019d:%s", messagePrefix, conversationID, at.UnixNano(), id))
}

func getMessage(txn *badger.Txn, id uuid.UUID) (domain.Message, []byte, error) {
	indexItem, err := txn.Get([]byte(messageIDPrefix + id.String()))
	if stderrors.Is(err, badger.ErrKeyNotFound) {
		return domain.Message{}, nil, errors.ErrMessageNotFound
	}
	if err != nil {
		return domain.Message{}, nil, err
	}
	primaryKey, err := indexItem.ValueCopy(nil)
	if err != nil {
		return domain.Message{}, nil, err
	}
	item, err := txn.Get(primaryKey)
	if stderrors.Is(err, badger.ErrKeyNotFound) {
		return domain.Message{}, nil, errors.ErrMessageNotFound
	}
	if err != nil {
		return domain.Message{}, nil, err
	}
	message, err := decodeItem(item)
	return message, primaryKey, err
}

func decodeItem(item *badger.Item) (domain.Message, error) {
	var record messageRecord
	err := item.Value(func(val []byte) error {
		return unmarshal(val, &record)
	})
	if err != nil {
		return domain.Message{}, err
	}
	return toMessage(record)
}

func fromMessage(m domain.Message) messageRecord {
	var replyTo *string
	if m.ReplyTo != nil {
		replyTo = lo.ToPtr(m.ReplyTo.String())
	}
	return messageRecord{
		ID:                 m.ID.String(),
		SenderID:           m.SenderID,
		ReceiverID:         m.ReceiverID,
		ConversationID:     m.ConversationID.String(),
		Type:               string(m.Type),
		Content:            m.Content,
		EncryptionNonce:    m.EncryptionNonce,
		Metadata:           m.Metadata,
		ReplyTo:            replyTo,
		Timestamp:          m.Timestamp.UnixNano(),
		Edited:             m.Edited,
		EditedAt:           toNanos(m.EditedAt),
		Deleted:            m.Deleted,
		Delivered:          m.Delivered,
		DeliveredAt:        toNanos(m.DeliveredAt),
		Read:               m.Read,
		ReadAt:             toNanos(m.ReadAt),
		IsBot:              m.IsBot,
		IsBotQuery:         m.IsBotQuery,
		OriginalLanguage:   m.OriginalLanguage,
		TranslatedText:     m.TranslatedText,
		TranslatedLanguage: m.TranslatedLanguage,
		ShowOriginal:       m.ShowOriginal,
	}
}

func toMessage(record messageRecord) (domain.Message, error) {
	id, err := uuid.Parse(record.ID)
	if err != nil {
		return domain.Message{}, err
	}
	conversationID, err := uuid.Parse(record.ConversationID)
	if err != nil {
		return domain.Message{}, err
	}
	var replyTo *uuid.UUID
	if record.ReplyTo != nil {
		parsed, err := uuid.Parse(*record.ReplyTo)
		if err != nil {
			return domain.Message{}, err
		}
		replyTo = &parsed
	}
	return domain.Message{
		ID:                 id,
		SenderID:           record.SenderID,
		ReceiverID:         record.ReceiverID,
		ConversationID:     conversationID,
		Type:               domain.MessageType(record.Type),
		Content:            record.Content,
		EncryptionNonce:    record.EncryptionNonce,
		Metadata:           record.Metadata,
		ReplyTo:            replyTo,
		Timestamp:          time.Unix(0, record.Timestamp).UTC(),
		Edited:             record.Edited,
		EditedAt:           fromNanos(record.EditedAt),
		Deleted:            record.Deleted,
		Delivered:          record.Delivered,
		DeliveredAt:        fromNanos(record.DeliveredAt),
		Read:               record.Read,
		ReadAt:             fromNanos(record.ReadAt),
		IsBot:              record.IsBot,
		IsBotQuery:         record.IsBotQuery,
		OriginalLanguage:   record.OriginalLanguage,
		TranslatedText:     record.TranslatedText,
		TranslatedLanguage: record.TranslatedLanguage,
		ShowOriginal:       record.ShowOriginal,
	}, nil
}

func toNanos(t *time.Time) *int64 {
	if t == nil {
		return nil
	}
	return lo.ToPtr(t.UnixNano())
}

func fromNanos(n *int64) *time.Time {
	if n == nil {
		return nil
	}
	return lo.ToPtr(time.Unix(0, *n).UTC())
}
