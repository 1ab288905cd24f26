package services

import (
	"chat-relay/domain"
	"chat-relay/errors"
	"chat-relay/mocks"
	"chat-relay/ratelimit"
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/samber/lo"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func TestDirectory_Concurrent_First_Contact_Creates_One_Conversation(t *testing.T) {
	req := require.New(t)
	h := newHarness(t, harnessOptions{})

	const callers = 16
	ids := make([]uuid.UUID, callers)
	errs := make([]error, callers)
	var wg sync.WaitGroup
	for i := range callers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			a, b := domain.Identity("alice"), domain.Identity("bob")
			if i%2 == 1 {
				a, b = b, a
			}
			conversation, err := h.directory.GetOrCreate(a, b)
			ids[i], errs[i] = conversation.ID, err
		}()
	}
	wg.Wait()

	for i := range callers {
		req.NoError(errs[i])
		req.Equal(ids[0], ids[i])
	}
	conversations, err := h.conversations.ListForParticipant("alice")
	req.NoError(err)
	req.Len(conversations, 1)
	req.Equal("alice:bob", conversations[0].Key)
}

func TestDirectory_Refuses_Key_Shared_By_Another_Pair(t *testing.T) {
	req := require.New(t)
	h := newHarness(t, harnessOptions{})
	c := h.connect("c", "")
	existing := h.send(t, "a:b", "c", "hello")
	cEvents := len(c.Events())

	_, err := h.directory.GetOrCreate("a", "b:c")
	req.ErrorIs(err, errors.ErrUnauthorized)

	_, err = h.service.Send(context.Background(), "a", domain.SendPayload{
		ReceiverID: "b:c",
		Type:       domain.TypeText,
		Content:    "smuggled",
	})
	req.ErrorIs(err, errors.ErrUnauthorized)

	stored, err := h.messages.ListRecent(existing.ConversationID, 10)
	req.NoError(err)
	req.Len(stored, 1, "the other pair's thread is untouched")
	req.Len(c.Events(), cEvents)
}

func TestConversation_Matches_Compares_Participants(t *testing.T) {
	req := require.New(t)
	conversation := domain.NewConversation("a:b", "c", time.Now())

	req.True(conversation.Matches("c", "a:b"))
	req.False(conversation.Matches("a", "b:c"), "same key, different pair")
	req.Equal(domain.ConversationKey("a", "b:c"), conversation.Key)
}

func TestChatService_Send_Reaches_Both_Participants_Only(t *testing.T) {
	req := require.New(t)
	h := newHarness(t, harnessOptions{})
	alice := h.connect("alice", "")
	bobPhone := h.connect("bob", "")
	bobLaptop := h.connect("bob", "")
	carol := h.connect("carol", "")

	message := h.send(t, "alice", "bob", "hello bob")

	for _, sink := range []*recordingSink{alice, bobPhone, bobLaptop} {
		events := sink.Named(domain.EventMessage)
		req.Len(events, 1)
		view := events[0].Payload.(domain.MessageView)
		req.Equal(message.ID.String(), view.ID)
		req.Equal("alice-name", view.SenderName)
		req.Equal("hello bob", view.Content)
		req.True(view.Delivered)
	}
	req.Empty(carol.Events())
}

func TestChatService_Send_Reuses_The_Pair_Conversation(t *testing.T) {
	req := require.New(t)
	h := newHarness(t, harnessOptions{})

	first := h.send(t, "alice", "bob", "ping")
	second := h.send(t, "bob", "alice", "pong")

	req.Equal(first.ConversationID, second.ConversationID)
	req.True(second.Timestamp.After(first.Timestamp))
}

func TestChatService_Send_Rejects_Foreign_Conversation(t *testing.T) {
	req := require.New(t)
	h := newHarness(t, harnessOptions{})
	bob := h.connect("bob", "")
	original := h.send(t, "alice", "bob", "private")
	bobEvents := len(bob.Events())

	_, err := h.service.Send(context.Background(), "carol", domain.SendPayload{
		ReceiverID:     "bob",
		ConversationID: lo.ToPtr(original.ConversationID.String()),
		Type:           domain.TypeText,
		Content:        "let me in",
	})

	req.ErrorIs(err, errors.ErrUnauthorized)
	stored, err := h.messages.ListRecent(original.ConversationID, 10)
	req.NoError(err)
	req.Len(stored, 1, "nothing persisted")
	req.Len(bob.Events(), bobEvents, "nothing broadcast")
}

func TestChatService_Send_Rejects_Receiver_Outside_Conversation(t *testing.T) {
	req := require.New(t)
	h := newHarness(t, harnessOptions{})
	carol := h.connect("carol", "")
	original := h.send(t, "alice", "bob", "hi")

	_, err := h.service.Send(context.Background(), "alice", domain.SendPayload{
		ReceiverID:     "carol",
		ConversationID: lo.ToPtr(original.ConversationID.String()),
		Type:           domain.TypeText,
		Content:        "wrong thread",
	})

	req.ErrorIs(err, errors.ErrUnauthorized)
	req.Empty(carol.Events())
}

func TestChatService_Send_Rejects_Reply_To_Other_Conversation(t *testing.T) {
	req := require.New(t)
	h := newHarness(t, harnessOptions{})
	elsewhere := h.send(t, "alice", "carol", "hey carol")

	_, err := h.service.Send(context.Background(), "alice", domain.SendPayload{
		ReceiverID: "bob",
		Type:       domain.TypeText,
		Content:    "quoting",
		ReplyTo:    lo.ToPtr(elsewhere.ID.String()),
	})

	req.ErrorIs(err, errors.ErrInvalidPayload)
}

func TestChatService_Send_Stores_Ciphertext_As_Is(t *testing.T) {
	req := require.New(t)
	h := newHarness(t, harnessOptions{})
	bob := h.connect("bob", "")

	message, err := h.service.Send(context.Background(), "alice", domain.SendPayload{
		ReceiverID: "bob",
		Type:       domain.TypeText,
		Content:    "b64:Zm9vYmFy",
		Nonce:      lo.ToPtr("bm9uY2U="),
	})
	req.NoError(err)
	req.True(message.Encrypted())
	req.False(message.IsBotQuery)

	view := bob.Named(domain.EventMessage)[0].Payload.(domain.MessageView)
	req.Equal("b64:Zm9vYmFy", view.Content)
	req.Equal("bm9uY2U=", *view.Nonce)
	req.Nil(view.TranslatedText)
}

func TestChatService_Rate_Limit_Rejects_Before_Persistence(t *testing.T) {
	req := require.New(t)
	h := newHarness(t, harnessOptions{rateLimit: 2})
	bob := h.connect("bob", "")

	h.send(t, "alice", "bob", "one")
	h.send(t, "alice", "bob", "two")
	_, err := h.service.Send(context.Background(), "alice", domain.SendPayload{
		ReceiverID: "bob", Type: domain.TypeText, Content: "three",
	})

	var rateLimited *errors.RateLimitError
	req.ErrorAs(err, &rateLimited)
	req.ErrorIs(err, errors.ErrRateLimited)
	req.Equal(2, rateLimited.Limit)
	req.Equal(60, rateLimited.RetryAfter)
	req.Len(bob.Named(domain.EventMessage), 2)

	// The window slides: once the first admissions expire, sending works again.
	h.limiterClock.Advance(61 * time.Second)
	h.send(t, "alice", "bob", "four")
	req.Len(bob.Named(domain.EventMessage), 3)
}

func TestChatService_Edit_By_Sender_Broadcasts_To_Participants(t *testing.T) {
	req := require.New(t)
	h := newHarness(t, harnessOptions{})
	alice := h.connect("alice", "")
	bob := h.connect("bob", "")
	carol := h.connect("carol", "")
	original := h.send(t, "alice", "bob", "helo")

	edited, err := h.service.Edit(context.Background(), "alice", domain.EditPayload{
		ID:      original.ID.String(),
		Content: "hello",
	})
	req.NoError(err)
	req.True(edited.Edited)
	req.NotNil(edited.EditedAt)

	for _, sink := range []*recordingSink{alice, bob} {
		events := sink.Named(domain.EventMessagesEdited)
		req.Len(events, 1)
		req.Equal("hello", events[0].Payload.(domain.MessageView).Content)
	}
	req.Empty(carol.Events())

	stored, err := h.messages.GetByID(original.ID)
	req.NoError(err)
	req.Equal("hello", stored.Content)
}

func TestChatService_Edit_And_Delete_Reject_Non_Sender(t *testing.T) {
	h := newHarness(t, harnessOptions{})
	original := h.send(t, "alice", "bob", "mine")

	tests := []struct {
		name   string
		caller domain.Identity
		id     string
	}{
		{name: "receiver", caller: "bob", id: original.ID.String()},
		{name: "stranger", caller: "carol", id: original.ID.String()},
		{name: "unknown message", caller: "alice", id: uuid.NewString()},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := require.New(t)
			_, err := h.service.Edit(context.Background(), tt.caller, domain.EditPayload{ID: tt.id, Content: "hijacked"})
			req.ErrorIs(err, errors.ErrUnauthorized)
			_, err = h.service.Delete(context.Background(), tt.caller, domain.DeletePayload{ID: tt.id})
			req.ErrorIs(err, errors.ErrUnauthorized)
		})
	}

	stored, err := h.messages.GetByID(original.ID)
	require.NoError(t, err)
	require.Equal(t, "mine", stored.Content)
	require.False(t, stored.Deleted)
}

func TestChatService_Delete_Soft_Deletes_And_Notifies(t *testing.T) {
	req := require.New(t)
	h := newHarness(t, harnessOptions{})
	alice := h.connect("alice", "")
	bob := h.connect("bob", "")
	carol := h.connect("carol", "")
	original := h.send(t, "alice", "bob", "oops")

	_, err := h.service.Delete(context.Background(), "alice", domain.DeletePayload{ID: original.ID.String()})
	req.NoError(err)

	for _, sink := range []*recordingSink{alice, bob} {
		events := sink.Named(domain.EventMessagesDeleted)
		req.Len(events, 1)
		req.Equal(domain.DeletedNotice{
			ID:             original.ID.String(),
			ConversationID: original.ConversationID.String(),
		}, events[0].Payload)
	}
	req.Empty(carol.Events())

	stored, err := h.messages.GetByID(original.ID)
	req.NoError(err)
	req.True(stored.Deleted)

	_, err = h.service.Edit(context.Background(), "alice", domain.EditPayload{ID: original.ID.String(), Content: "back"})
	req.ErrorIs(err, errors.ErrUnauthorized, "a deleted message cannot be edited")
}

func TestChatService_MarkRead_Notifies_Sender_Only(t *testing.T) {
	req := require.New(t)
	h := newHarness(t, harnessOptions{})
	alice := h.connect("alice", "")
	bob := h.connect("bob", "")
	original := h.send(t, "alice", "bob", "did you read this?")

	_, err := h.service.MarkRead(context.Background(), "alice", domain.ReadPayload{MessageID: original.ID.String()})
	req.ErrorIs(err, errors.ErrUnauthorized, "the sender cannot mark its own message read")

	read, err := h.service.MarkRead(context.Background(), "bob", domain.ReadPayload{MessageID: original.ID.String()})
	req.NoError(err)
	req.True(read.Read)
	req.NotNil(read.ReadAt)

	receipts := alice.Named(domain.EventMessageRead)
	req.Len(receipts, 1)
	receipt := receipts[0].Payload.(domain.ReadReceipt)
	req.Equal(original.ID.String(), receipt.MessageID)
	req.Equal("bob", receipt.ReaderID)
	req.Empty(bob.Named(domain.EventMessageRead))

	_, err = h.service.MarkRead(context.Background(), "bob", domain.ReadPayload{MessageID: original.ID.String()})
	req.NoError(err)
	req.Len(alice.Named(domain.EventMessageRead), 1, "marking twice sends one receipt")
}

func TestChatService_Typing_Reaches_Receiver_Only(t *testing.T) {
	req := require.New(t)
	h := newHarness(t, harnessOptions{})
	alice := h.connect("alice", "")
	bob := h.connect("bob", "")

	req.NoError(h.service.Typing(context.Background(), "alice", domain.TypingPayload{ReceiverID: "bob", IsTyping: true}))

	events := bob.Named(domain.EventTyping)
	req.Len(events, 1)
	req.Equal(domain.TypingNotice{SenderID: "alice", IsTyping: true}, events[0].Payload)
	req.Empty(alice.Events())
}

func TestChatService_Typing_Has_Its_Own_Limiter(t *testing.T) {
	req := require.New(t)
	h := newHarness(t, harnessOptions{rateLimit: 1})
	h.service.WithTypingLimiter(ratelimit.NewLimiter(2, time.Minute, h.limiterClock))
	bob := h.connect("bob", "")
	typing := domain.TypingPayload{ReceiverID: "bob", IsTyping: true}

	req.NoError(h.service.Typing(context.Background(), "alice", typing))
	req.NoError(h.service.Typing(context.Background(), "alice", typing))
	err := h.service.Typing(context.Background(), "alice", typing)

	var rateLimited *errors.RateLimitError
	req.ErrorAs(err, &rateLimited)
	req.Equal(2, rateLimited.Limit)
	req.Len(bob.Named(domain.EventTyping), 2)

	// Typing does not spend the message budget.
	h.send(t, "alice", "bob", "hi")

	h.limiterClock.Advance(61 * time.Second)
	req.NoError(h.service.Typing(context.Background(), "alice", typing))
	req.Len(bob.Named(domain.EventTyping), 3)
}

func TestChatService_ExchangeKey_Offers_Receiver_And_Acks_Sender(t *testing.T) {
	req := require.New(t)
	h := newHarness(t, harnessOptions{})
	alice := h.connect("alice", "")
	bob := h.connect("bob", "")

	err := h.service.ExchangeKey(context.Background(), "alice", domain.KeyExchangePayload{ReceiverID: "bob", PublicKey: "pk-alice"})
	req.NoError(err)

	req.Equal([]domain.Event{domain.NewEvent(domain.EventKeyOffer, domain.KeyOffer{SenderID: "alice", PublicKey: "pk-alice"})}, bob.Events())
	req.Equal([]domain.Event{domain.NewEvent(domain.EventKeySent, domain.KeySent{ReceiverID: "bob"})}, alice.Events())

	stored, err := h.profiles.GetPublicKey("alice")
	req.NoError(err)
	req.Equal("pk-alice", stored)
}

func TestChatService_Translation_Publishes_Update(t *testing.T) {
	req := require.New(t)
	h := newHarness(t, harnessOptions{translations: map[string]string{"fr": "Bonjour Bob, comment vas-tu ce matin ?"}})
	alice := h.connect("alice", "en")
	bob := h.connect("bob", "fr")

	original := h.send(t, "alice", "bob", "Hello Bob, how are you doing this fine morning?")

	for _, sink := range []*recordingSink{alice, bob} {
		updates := sink.Named(domain.EventMessageUpdated)
		req.Len(updates, 1)
		view := updates[0].Payload.(domain.MessageView)
		req.Equal(original.ID.String(), view.ID)
		req.Equal("Hello Bob, how are you doing this fine morning?", view.Content)
		req.Equal("Bonjour Bob, comment vas-tu ce matin ?", *view.TranslatedText)
		req.Equal("fr", *view.TranslatedLanguage)
	}

	stored, err := h.messages.GetByID(original.ID)
	req.NoError(err)
	req.Equal("fr", *stored.TranslatedLanguage)
}

func TestChatService_Untranslated_Message_Publishes_No_Update(t *testing.T) {
	req := require.New(t)
	h := newHarness(t, harnessOptions{})
	alice := h.connect("alice", "en")
	h.connect("bob", "fr")

	h.send(t, "alice", "bob", "Hello Bob, how are you doing this fine morning?")

	req.Empty(alice.Named(domain.EventMessageUpdated))
}

func TestChatService_Bot_Reply_Goes_To_Asker_Only(t *testing.T) {
	req := require.New(t)
	h := newHarness(t, harnessOptions{})
	responder := mocks.NewMockResponder(gomock.NewController(t))
	h.service.WithResponder(responder)
	alice := h.connect("alice", "")
	bob := h.connect("bob", "")

	h.send(t, "alice", "bob", "what do you think?")
	responder.EXPECT().
		Reply(gomock.Any(), "what is the capital of France?", gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, _ string, history []domain.Turn, _ string) (string, error) {
			req.Equal([]domain.Turn{{FromBot: false, Text: "what do you think?"}}, history)
			return "Paris.", nil
		})

	query := h.send(t, "alice", "bob", "@@ what is the capital of France?")
	req.True(query.IsBotQuery)

	aliceMessages := alice.Named(domain.EventMessage)
	req.Len(aliceMessages, 3)
	answer := aliceMessages[2].Payload.(domain.MessageView)
	req.Equal("Paris.", answer.Content)
	req.True(answer.IsBot)
	req.Equal(domain.BotIdentity, answer.SenderID)
	req.Equal(domain.BotDisplayName, answer.SenderName)
	req.Equal("alice", answer.ReceiverID)
	req.NotEqual(query.ConversationID.String(), answer.ConversationID)

	req.Len(bob.Named(domain.EventMessage), 2, "the other participant never sees the bot reply")
}

func TestChatService_Bot_Ignores_Encrypted_Queries(t *testing.T) {
	req := require.New(t)
	h := newHarness(t, harnessOptions{})
	h.service.WithResponder(mocks.NewMockResponder(gomock.NewController(t)))

	message, err := h.service.Send(context.Background(), "alice", domain.SendPayload{
		ReceiverID: domain.BotIdentity,
		Type:       domain.TypeText,
		Content:    "@@ ciphertext",
		Nonce:      lo.ToPtr("n"),
	})
	req.NoError(err)
	req.False(message.IsBotQuery)
}

func TestChatService_History_Requires_Participation(t *testing.T) {
	req := require.New(t)
	h := newHarness(t, harnessOptions{})
	original := h.send(t, "alice", "bob", "one")
	h.send(t, "bob", "alice", "two")

	history, err := h.service.History("bob", original.ConversationID, 10)
	req.NoError(err)
	req.Equal([]string{"one", "two"}, lo.Map(history, func(m domain.Message, _ int) string { return m.Content }))

	_, err = h.service.History("carol", original.ConversationID, 10)
	req.ErrorIs(err, errors.ErrUnauthorized)
}
