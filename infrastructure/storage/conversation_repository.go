//go:generate go run go.uber.org/mock/mockgen -source=conversation_repository.go -destination=../../mocks/mock_conversation_repository.go -package=mocks
package storage

import (
	"chat-relay/domain"
	"chat-relay/errors"
	stderrors "errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/google/uuid"
)

const (
	conversationPrefix    = "conversation:"
	conversationKeyPrefix = "conversation_key:"
	participantPrefix     = "participant:"
)

type IConversationRepository interface {
	Create(conversation domain.Conversation) error
	GetByID(id uuid.UUID) (domain.Conversation, error)
	GetByKey(key string) (domain.Conversation, error)
	ListForParticipant(identity domain.Identity) ([]domain.Conversation, error)
}

type ConversationRepository struct {
	db  *badger.DB
	log *slog.Logger
}

func NewConversationRepository(db *badger.DB, log *slog.Logger) *ConversationRepository {
	return &ConversationRepository{db: db, log: log}
}

type conversationRecord struct {
	ID           string `cbor:"1,keyasint"`
	ParticipantA string `cbor:"2,keyasint"`
	ParticipantB string `cbor:"3,keyasint"`
	Key          string `cbor:"4,keyasint"`
	CreatedAt    int64  `cbor:"5,keyasint"`
	UpdatedAt    int64  `cbor:"6,keyasint"`
}

// Create persists a conversation and its unique key index in one transaction.
// The key index is read inside the transaction, so two concurrent creators of the
// same pair collide: one of them sees the existing key or fails its commit with
// badger.ErrConflict. Both cases are reported as ErrConversationCreateConflict.
func (r *ConversationRepository) Create(conversation domain.Conversation) error {
	data, err := marshal(fromConversation(conversation))
	if err != nil {
		return fmt.Errorf("marshal conversation: %w", err)
	}
	id := conversation.ID.String()

	err = r.db.Update(func(txn *badger.Txn) error {
		uniqueKey := []byte(conversationKeyPrefix + conversation.Key)
		_, err := txn.Get(uniqueKey)
		if err == nil {
			return errors.ErrConversationCreateConflict
		}
		if !stderrors.Is(err, badger.ErrKeyNotFound) {
			return err
		}
		if err = txn.Set(uniqueKey, []byte(id)); err != nil {
			return err
		}
		if err = txn.Set([]byte(conversationPrefix+id), data); err != nil {
			return err
		}
		if err = txn.Set(participantKey(conversation.ParticipantA, id), nil); err != nil {
			return err
		}
		return txn.Set(participantKey(conversation.ParticipantB, id), nil)
	})
	if stderrors.Is(err, badger.ErrConflict) {
		return errors.ErrConversationCreateConflict
	}
	return err
}

func (r *ConversationRepository) GetByID(id uuid.UUID) (domain.Conversation, error) {
	var conversation domain.Conversation
	err := r.db.View(func(txn *badger.Txn) error {
		var err error
		conversation, err = getConversation(txn, id.String())
		return err
	})
	return conversation, err
}

func (r *ConversationRepository) GetByKey(key string) (domain.Conversation, error) {
	var conversation domain.Conversation
	err := r.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(conversationKeyPrefix + key))
		if stderrors.Is(err, badger.ErrKeyNotFound) {
			return errors.ErrConversationNotFound
		}
		if err != nil {
			return err
		}
		id, err := item.ValueCopy(nil)
		if err != nil {
			return err
		}
		conversation, err = getConversation(txn, string(id))
		return err
	})
	return conversation, err
}

// ListForParticipant scans the participant index. Entries whose conversation does not
// actually contain identity are skipped: identities may themselves contain the key separator.
func (r *ConversationRepository) ListForParticipant(identity domain.Identity) ([]domain.Conversation, error) {
	var conversations []domain.Conversation
	err := r.db.View(func(txn *badger.Txn) error {
		prefix := []byte(participantPrefix + identity + ":")
		options := badger.DefaultIteratorOptions
		options.PrefetchValues = false
		it := txn.NewIterator(options)
		defer it.Close()

		var ids []string
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			id := strings.TrimPrefix(string(it.Item().Key()), string(prefix))
			if strings.Contains(id, ":") {
				continue
			}
			if _, err := uuid.Parse(id); err != nil {
				continue
			}
			ids = append(ids, id)
		}

		for _, id := range ids {
			conversation, err := getConversation(txn, id)
			if err != nil {
				return err
			}
			if !conversation.HasParticipant(identity) {
				continue
			}
			conversations = append(conversations, conversation)
		}
		return nil
	})
	return conversations, err
}

func getConversation(txn *badger.Txn, id string) (domain.Conversation, error) {
	item, err := txn.Get([]byte(conversationPrefix + id))
	if stderrors.Is(err, badger.ErrKeyNotFound) {
		return domain.Conversation{}, errors.ErrConversationNotFound
	}
	if err != nil {
		return domain.Conversation{}, err
	}
	var record conversationRecord
	err = item.Value(func(val []byte) error {
		return unmarshal(val, &record)
	})
	if err != nil {
		return domain.Conversation{}, err
	}
	return toConversation(record)
}

func participantKey(identity domain.Identity, conversationID string) []byte {
	return []byte(participantPrefix + identity + ":" + conversationID)
}

func fromConversation(c domain.Conversation) conversationRecord {
	return conversationRecord{
		ID:           c.ID.String(),
		ParticipantA: c.ParticipantA,
		ParticipantB: c.ParticipantB,
		Key:          c.Key,
		CreatedAt:    c.CreatedAt.UnixNano(),
		UpdatedAt:    c.UpdatedAt.UnixNano(),
	}
}

func toConversation(record conversationRecord) (domain.Conversation, error) {
	id, err := uuid.Parse(record.ID)
	if err != nil {
		return domain.Conversation{}, err
	}
	return domain.Conversation{
		ID:           id,
		ParticipantA: record.ParticipantA,
		ParticipantB: record.ParticipantB,
		Key:          record.Key,
		CreatedAt:    time.Unix(0, record.CreatedAt).UTC(),
		UpdatedAt:    time.Unix(0, record.UpdatedAt).UTC(),
	}, nil
}
