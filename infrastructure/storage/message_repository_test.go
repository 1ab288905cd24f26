package storage

import (
	"chat-relay/clock"
	"chat-relay/domain"
	"chat-relay/errors"
	"log/slog"
	"testing"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/google/uuid"
	"github.com/samber/lo"
	"github.com/stretchr/testify/require"
)

func openTestDB(t *testing.T) *badger.DB {
	t.Helper()
	db, err := badger.Open(badger.DefaultOptions(t.TempDir()).WithLoggingLevel(badger.ERROR))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func newTextMessage(conversationID uuid.UUID, sender, receiver, content string) domain.Message {
	return domain.Message{
		ID:             uuid.New(),
		SenderID:       sender,
		ReceiverID:     receiver,
		ConversationID: conversationID,
		Type:           domain.TypeText,
		Content:        content,
		Delivered:      true,
	}
}

func Test_Store_Assigns_Strictly_Increasing_Timestamps(t *testing.T) {
	req := require.New(t)
	fake := clock.Fake(time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC))
	repository := NewMessageRepository(openTestDB(t), slog.Default(), fake)
	conversationID := uuid.New()

	// Given a clock that does not move
	first, err := repository.Store(newTextMessage(conversationID, "alice", "bob", "one"))
	req.NoError(err)
	second, err := repository.Store(newTextMessage(conversationID, "bob", "alice", "two"))
	req.NoError(err)

	// Then the second message is still strictly after the first
	req.True(second.Timestamp.After(first.Timestamp))
}

func Test_ListAfter_Returns_Strictly_Later_Messages_In_Order(t *testing.T) {
	req := require.New(t)
	fake := clock.Fake(time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC))
	repository := NewMessageRepository(openTestDB(t), slog.Default(), fake)
	conversationID := uuid.New()

	var stored []domain.Message
	for _, content := range []string{"a", "b", "c", "d"} {
		fake.Advance(time.Second)
		message, err := repository.Store(newTextMessage(conversationID, "alice", "bob", content))
		req.NoError(err)
		stored = append(stored, message)
	}

	// When listing after the second message
	messages, err := repository.ListAfter(conversationID, &stored[1].Timestamp, 10)
	req.NoError(err)

	// Then only c and d come back, oldest first
	req.Equal([]string{"c", "d"}, lo.Map(messages, func(m domain.Message, _ int) string { return m.Content }))
}

func Test_ListAfter_Respects_Limit_And_Skips_Deleted(t *testing.T) {
	req := require.New(t)
	repository := NewMessageRepository(openTestDB(t), slog.Default(), clock.Real())
	conversationID := uuid.New()

	first, err := repository.Store(newTextMessage(conversationID, "alice", "bob", "first"))
	req.NoError(err)
	_, err = repository.Store(newTextMessage(conversationID, "alice", "bob", "second"))
	req.NoError(err)
	_, err = repository.Store(newTextMessage(conversationID, "alice", "bob", "third"))
	req.NoError(err)

	_, err = repository.Update(first.ID, func(m *domain.Message) error {
		m.Deleted = true
		return nil
	})
	req.NoError(err)

	messages, err := repository.ListAfter(conversationID, nil, 1)
	req.NoError(err)
	req.Len(messages, 1)
	req.Equal("second", messages[0].Content)

	// A soft-deleted message is still reachable by id
	deleted, err := repository.GetByID(first.ID)
	req.NoError(err)
	req.True(deleted.Deleted)
}

func Test_ListRecent_Returns_Last_Messages_Oldest_First(t *testing.T) {
	req := require.New(t)
	repository := NewMessageRepository(openTestDB(t), slog.Default(), clock.Real())
	conversationID := uuid.New()
	other := uuid.New()

	for _, content := range []string{"1", "2", "3", "4"} {
		_, err := repository.Store(newTextMessage(conversationID, "alice", "bob", content))
		req.NoError(err)
	}
	_, err := repository.Store(newTextMessage(other, "carol", "dave", "elsewhere"))
	req.NoError(err)

	messages, err := repository.ListRecent(conversationID, 2)
	req.NoError(err)
	req.Equal([]string{"3", "4"}, lo.Map(messages, func(m domain.Message, _ int) string { return m.Content }))
}

func Test_Update_Round_Trips_Optional_Fields(t *testing.T) {
	req := require.New(t)
	repository := NewMessageRepository(openTestDB(t), slog.Default(), clock.Real())
	conversationID := uuid.New()
	replyTo := uuid.New()

	message := newTextMessage(conversationID, "alice", "bob", "ciphertext")
	message.EncryptionNonce = lo.ToPtr("nonce")
	message.ReplyTo = &replyTo
	message.Metadata = map[string]any{"origin": "mobile"}
	stored, err := repository.Store(message)
	req.NoError(err)

	readAt := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	_, err = repository.Update(stored.ID, func(m *domain.Message) error {
		m.Read = true
		m.ReadAt = &readAt
		m.TranslatedText = lo.ToPtr("texte chiffré")
		m.TranslatedLanguage = lo.ToPtr("fr")
		return nil
	})
	req.NoError(err)

	fetched, err := repository.GetByID(stored.ID)
	req.NoError(err)
	req.Equal("nonce", *fetched.EncryptionNonce)
	req.Equal(replyTo, *fetched.ReplyTo)
	req.Equal("mobile", fetched.Metadata["origin"])
	req.True(fetched.Read)
	req.True(readAt.Equal(*fetched.ReadAt))
	req.Equal("fr", *fetched.TranslatedLanguage)
	req.Equal(stored.Timestamp, fetched.Timestamp)
}

func Test_GetByID_Unknown_Message(t *testing.T) {
	req := require.New(t)
	repository := NewMessageRepository(openTestDB(t), slog.Default(), clock.Real())

	_, err := repository.GetByID(uuid.New())

	req.ErrorIs(err, errors.ErrMessageNotFound)
}
