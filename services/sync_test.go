package services

import (
	"bytes"
	"chat-relay/clock"
	"chat-relay/domain"
	"chat-relay/errors"
	"chat-relay/infrastructure/storage"
	"chat-relay/mocks"
	"chat-relay/ratelimit"
	"chat-relay/runtime"
	"context"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/samber/lo"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func contents(response domain.SyncResponse) []string {
	return lo.Map(response.Messages, func(v domain.MessageView, _ int) string { return v.Content })
}

func TestSync_Returns_Missed_Messages_In_Order(t *testing.T) {
	req := require.New(t)
	h := newHarness(t, harnessOptions{})
	h.send(t, "alice", "bob", "m1")
	cursor := h.send(t, "bob", "alice", "m2")
	h.send(t, "carol", "bob", "m3")
	h.send(t, "alice", "bob", "m4")

	response, err := h.service.Sync(context.Background(), "bob", domain.SyncPayload{LastMessageID: lo.ToPtr(cursor.ID.String())})
	req.NoError(err)
	req.Equal([]string{"m3", "m4"}, contents(response))
	req.Equal(2, response.Count)
	req.False(response.HasMore)
}

func TestSync_Never_Leaks_Other_Conversations(t *testing.T) {
	req := require.New(t)
	h := newHarness(t, harnessOptions{})
	h.send(t, "alice", "bob", "m1")
	h.send(t, "carol", "bob", "secret")
	h.send(t, "bob", "alice", "m2")

	response, err := h.service.Sync(context.Background(), "alice", domain.SyncPayload{})
	req.NoError(err)
	req.Equal([]string{"m1", "m2"}, contents(response))
	for _, view := range response.Messages {
		req.True(view.SenderID == "alice" || view.ReceiverID == "alice")
	}
}

func TestSync_Caps_At_Limit_And_Reports_More(t *testing.T) {
	req := require.New(t)
	h := newHarness(t, harnessOptions{syncLimit: 2})
	h.send(t, "alice", "bob", "m1")
	h.send(t, "bob", "alice", "m2")
	h.send(t, "alice", "bob", "m3")

	response, err := h.service.Sync(context.Background(), "alice", domain.SyncPayload{})
	req.NoError(err)
	req.Equal([]string{"m1", "m2"}, contents(response))
	req.True(response.HasMore)

	last := response.Messages[len(response.Messages)-1].ID
	response, err = h.service.Sync(context.Background(), "alice", domain.SyncPayload{LastMessageID: &last})
	req.NoError(err)
	req.Equal([]string{"m3"}, contents(response))
	req.False(response.HasMore)
}

func TestSync_Skips_Deleted_Messages(t *testing.T) {
	req := require.New(t)
	h := newHarness(t, harnessOptions{})
	deleted := h.send(t, "alice", "bob", "m1")
	h.send(t, "alice", "bob", "m2")
	_, err := h.service.Delete(context.Background(), "alice", domain.DeletePayload{ID: deleted.ID.String()})
	req.NoError(err)

	response, err := h.service.Sync(context.Background(), "bob", domain.SyncPayload{})
	req.NoError(err)
	req.Equal([]string{"m2"}, contents(response))
}

func TestSync_Cursor(t *testing.T) {
	h := newHarness(t, harnessOptions{})
	m1 := h.send(t, "alice", "bob", "m1")
	h.send(t, "bob", "alice", "m2")

	tests := []struct {
		name     string
		caller   domain.Identity
		cursor   string
		expected []string
		err      error
	}{
		{name: "unknown cursor restarts from the beginning", caller: "alice", cursor: uuid.NewString(), expected: []string{"m1", "m2"}},
		{name: "foreign cursor is refused", caller: "carol", cursor: m1.ID.String(), err: errors.ErrUnauthorized},
		{name: "malformed cursor is invalid", caller: "alice", cursor: "not-a-uuid", err: errors.ErrInvalidPayload},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := require.New(t)
			response, err := h.service.Sync(context.Background(), tt.caller, domain.SyncPayload{LastMessageID: lo.ToPtr(tt.cursor)})
			if tt.err != nil {
				req.ErrorIs(err, tt.err)
				return
			}
			req.NoError(err)
			req.Equal(tt.expected, contents(response))
		})
	}
}

func TestSync_Empty_For_Unknown_Identity(t *testing.T) {
	req := require.New(t)
	h := newHarness(t, harnessOptions{})
	h.send(t, "alice", "bob", "m1")

	response, err := h.service.Sync(context.Background(), "dave", domain.SyncPayload{})
	req.NoError(err)
	req.Empty(response.Messages)
	req.Equal(0, response.Count)
	req.False(response.HasMore)
}

func TestSync_Drops_Candidates_The_Firewall_Refuses(t *testing.T) {
	start := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	own := domain.NewConversation("alice", "bob", start)
	foreign := domain.NewConversation("carol", "dave", start)
	message := func(sender, receiver domain.Identity, conversation domain.Conversation, content string, offset int) domain.Message {
		return domain.Message{
			ID:             uuid.New(),
			SenderID:       sender,
			ReceiverID:     receiver,
			ConversationID: conversation.ID,
			Type:           domain.TypeText,
			Content:        content,
			Timestamp:      start.Add(time.Duration(offset) * time.Second),
		}
	}
	// The repository misbehaves: it hands back messages of other conversations.
	candidates := []domain.Message{
		message("alice", "bob", own, "m1", 1),
		message("carol", "dave", foreign, "not addressed", 2),
		message("bob", "alice", foreign, "addressed, wrong conversation", 3),
		message("bob", "alice", own, "m2", 4),
	}

	tests := []struct {
		name     string
		limit    int
		expected []string
		hasMore  bool
	}{
		{name: "cap reached by allowed messages", limit: 2, expected: []string{"m1", "m2"}, hasMore: true},
		{name: "refused candidates do not count towards the cap", limit: 3, expected: []string{"m1", "m2"}, hasMore: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := require.New(t)
			ctrl := gomock.NewController(t)
			var logs bytes.Buffer
			log := slog.New(slog.NewJSONHandler(&logs, nil))

			conversations := mocks.NewMockIConversationRepository(ctrl)
			conversations.EXPECT().ListForParticipant("alice").Return([]domain.Conversation{own}, nil)
			conversations.EXPECT().GetByID(gomock.Any()).DoAndReturn(func(id uuid.UUID) (domain.Conversation, error) {
				switch id {
				case own.ID:
					return own, nil
				case foreign.ID:
					return foreign, nil
				}
				return domain.Conversation{}, errors.ErrConversationNotFound
			}).AnyTimes()
			messages := mocks.NewMockIMessageRepository(ctrl)
			messages.EXPECT().ListAfter(own.ID, gomock.Nil(), tt.limit).Return(candidates, nil)
			profiles := mocks.NewMockIProfileRepository(ctrl)
			profiles.EXPECT().Get(gomock.Any()).Return(storage.Profile{}, errors.ErrProfileNotFound).AnyTimes()

			realClock := clock.Real()
			registry := runtime.NewRegistry(log)
			resolver := NewProfileResolver(log, profiles)
			service := NewChatService(
				log, realClock,
				ratelimit.NewLimiter(10, time.Minute, realClock),
				NewConversationDirectory(log, conversations, realClock),
				NewFirewall(log, conversations),
				conversations, messages, profiles,
				registry, resolver,
				NewBroadcaster(registry, resolver),
				inlineTasks{},
				nil,
				ChatServiceConfig{SyncLimit: tt.limit},
			)

			response, err := service.Sync(context.Background(), "alice", domain.SyncPayload{})
			req.NoError(err)
			req.Equal(tt.expected, contents(response))
			req.Equal(len(tt.expected), response.Count)
			req.Equal(tt.hasMore, response.HasMore)
			req.Equal(2, strings.Count(logs.String(), `"security_event":"sync_foreign_message"`))
		})
	}
}
