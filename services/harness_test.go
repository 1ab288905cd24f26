package services

import (
	"chat-relay/auth"
	"chat-relay/clock"
	"chat-relay/contract"
	"chat-relay/domain"
	"chat-relay/infrastructure/storage"
	"chat-relay/mocks"
	"chat-relay/ratelimit"
	"chat-relay/runtime"
	"context"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

// recordingSink keeps every event delivered to one connection.
type recordingSink struct {
	mu     sync.Mutex
	events []domain.Event
}

func (s *recordingSink) Consume(_ context.Context, e domain.Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, e)
	return nil
}

func (s *recordingSink) Events() []domain.Event {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]domain.Event(nil), s.events...)
}

func (s *recordingSink) Named(name string) []domain.Event {
	var named []domain.Event
	for _, e := range s.Events() {
		if e.Name == name {
			named = append(named, e)
		}
	}
	return named
}

// inlineTasks runs detached tasks synchronously so their effects are observable on return.
type inlineTasks struct{}

func (inlineTasks) Submit(_ string, task contract.Task) error {
	return task(context.Background())
}

type harness struct {
	service       *ChatService
	dispatcher    *Dispatcher
	directory     *ConversationDirectory
	conversations *storage.ConversationRepository
	messages      *storage.MessageRepository
	profiles      *storage.ProfileRepository
	translator    *mocks.MockIPipeline
	limiterClock  *clock.FakeClock
}

type harnessOptions struct {
	rateLimit int
	syncLimit int
	// translations maps a target language to the text every translation into it returns.
	translations map[string]string
}

func openTestDB(t *testing.T) *badger.DB {
	t.Helper()
	db, err := badger.Open(badger.DefaultOptions(t.TempDir()).WithLoggingLevel(badger.ERROR))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func newHarness(t *testing.T, options harnessOptions) *harness {
	t.Helper()
	if options.rateLimit == 0 {
		options.rateLimit = 1000
	}
	log := slog.Default()
	db := openTestDB(t)
	realClock := clock.Real()

	h := &harness{
		conversations: storage.NewConversationRepository(db, log),
		messages:      storage.NewMessageRepository(db, log, realClock),
		profiles:      storage.NewProfileRepository(db),
		translator:    mocks.NewMockIPipeline(gomock.NewController(t)),
		limiterClock:  clock.Fake(time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)),
	}
	h.translator.EXPECT().
		Translate(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, text, _, to string) string {
			if translated, ok := options.translations[to]; ok {
				return translated
			}
			return text
		}).
		AnyTimes()

	registry := runtime.NewRegistry(log)
	resolver := NewProfileResolver(log, h.profiles)
	h.directory = NewConversationDirectory(log, h.conversations, realClock)
	h.service = NewChatService(
		log, realClock,
		ratelimit.NewLimiter(options.rateLimit, time.Minute, h.limiterClock),
		h.directory,
		NewFirewall(log, h.conversations),
		h.conversations, h.messages, h.profiles,
		registry, resolver,
		NewBroadcaster(registry, resolver),
		inlineTasks{},
		h.translator,
		ChatServiceConfig{SyncLimit: options.syncLimit},
	)
	h.dispatcher = NewDispatcher(log, h.service)
	return h
}

// connect opens one connection for identity and returns its sink.
func (h *harness) connect(identity domain.Identity, lang string) *recordingSink {
	sink := &recordingSink{}
	h.service.Connect(auth.Session{UserID: identity, Username: identity + "-name", Lang: lang}, uuid.NewString(), sink)
	return sink
}

func (h *harness) send(t *testing.T, sender, receiver domain.Identity, content string) domain.Message {
	t.Helper()
	message, err := h.service.Send(context.Background(), sender, domain.SendPayload{
		ReceiverID: receiver,
		Type:       domain.TypeText,
		Content:    content,
	})
	require.NoError(t, err)
	return message
}
