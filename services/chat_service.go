//go:generate go run go.uber.org/mock/mockgen -source=chat_service.go -destination=../mocks/mock_chat_service.go -package=mocks
package services

import (
	"chat-relay/auth"
	"chat-relay/clock"
	"chat-relay/contract"
	"chat-relay/domain"
	"chat-relay/errors"
	"chat-relay/infrastructure/storage"
	"chat-relay/ratelimit"
	"chat-relay/translation"
	"context"
	stderrors "errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
)

const (
	DefaultSyncLimit        = 100
	DefaultBotContextSize   = 10
	DefaultResponderTimeout = 30 * time.Second
)

// Responder answers bot queries.
type Responder interface {
	Reply(ctx context.Context, query string, history []domain.Turn, lang string) (string, error)
}

// AudioProcessor enriches an audio message after its first broadcast.
type AudioProcessor interface {
	Process(ctx context.Context, message domain.Message) error
}

type IChatService interface {
	Connect(session auth.Session, sessionID string, sink contract.EventSink)
	Disconnect(identity domain.Identity, sessionID string)
	Send(ctx context.Context, sender domain.Identity, payload domain.SendPayload) (domain.Message, error)
	Edit(ctx context.Context, caller domain.Identity, payload domain.EditPayload) (domain.Message, error)
	Delete(ctx context.Context, caller domain.Identity, payload domain.DeletePayload) (domain.Message, error)
	Typing(ctx context.Context, caller domain.Identity, payload domain.TypingPayload) error
	MarkRead(ctx context.Context, caller domain.Identity, payload domain.ReadPayload) (domain.Message, error)
	Sync(ctx context.Context, caller domain.Identity, payload domain.SyncPayload) (domain.SyncResponse, error)
	ExchangeKey(ctx context.Context, caller domain.Identity, payload domain.KeyExchangePayload) error
	History(caller domain.Identity, conversationID uuid.UUID, limit int) ([]domain.Message, error)
}

type ChatServiceConfig struct {
	SyncLimit        int
	BotPrefix        string
	BotContextSize   int
	ResponderTimeout time.Duration
}

func (c ChatServiceConfig) withDefaults() ChatServiceConfig {
	if c.SyncLimit <= 0 {
		c.SyncLimit = DefaultSyncLimit
	}
	if c.BotPrefix == "" {
		c.BotPrefix = domain.DefaultBotPrefix
	}
	if c.BotContextSize <= 0 {
		c.BotContextSize = DefaultBotContextSize
	}
	if c.ResponderTimeout <= 0 {
		c.ResponderTimeout = DefaultResponderTimeout
	}
	return c
}

// ChatService implements the connection events of the relay.
// The send path persists then broadcasts synchronously; translation, transcription
// and bot replies are submitted as detached tasks and re-enter through the Broadcaster.
type ChatService struct {
	log           *slog.Logger
	clock         clock.Clock
	limiter       ratelimit.ILimiter
	typing        ratelimit.ILimiter
	directory     IConversationDirectory
	firewall      IFirewall
	conversations storage.IConversationRepository
	messages      storage.IMessageRepository
	profiles      storage.IProfileRepository
	registry      contract.IRegistry
	identities    contract.IdentityResolver
	broadcaster   *Broadcaster
	tasks         contract.TaskSubmitter
	translator    translation.IPipeline
	audio         AudioProcessor
	responder     Responder
	cfg           ChatServiceConfig
}

func NewChatService(
	log *slog.Logger,
	clock clock.Clock,
	limiter ratelimit.ILimiter,
	directory IConversationDirectory,
	firewall IFirewall,
	conversations storage.IConversationRepository,
	messages storage.IMessageRepository,
	profiles storage.IProfileRepository,
	registry contract.IRegistry,
	identities contract.IdentityResolver,
	broadcaster *Broadcaster,
	tasks contract.TaskSubmitter,
	translator translation.IPipeline,
	cfg ChatServiceConfig,
) *ChatService {
	return &ChatService{
		log:           log,
		clock:         clock,
		limiter:       limiter,
		directory:     directory,
		firewall:      firewall,
		conversations: conversations,
		messages:      messages,
		profiles:      profiles,
		registry:      registry,
		identities:    identities,
		broadcaster:   broadcaster,
		tasks:         tasks,
		translator:    translator,
		cfg:           cfg.withDefaults(),
	}
}

// WithAudio enables the transcription pipeline for audio messages.
func (s *ChatService) WithAudio(audio AudioProcessor) *ChatService {
	s.audio = audio
	return s
}

// WithTypingLimiter bounds typing indicators with their own, looser limiter.
func (s *ChatService) WithTypingLimiter(limiter ratelimit.ILimiter) *ChatService {
	s.typing = limiter
	return s
}

// WithResponder enables bot replies.
func (s *ChatService) WithResponder(responder Responder) *ChatService {
	s.responder = responder
	return s
}

// Connect records the session profile and opens the identity channel for this connection.
func (s *ChatService) Connect(session auth.Session, sessionID string, sink contract.EventSink) {
	err := s.profiles.Upsert(storage.Profile{
		ID:        session.UserID,
		Username:  session.Username,
		Language:  session.Lang,
		UpdatedAt: s.clock.Now().UTC(),
	})
	if err != nil {
		s.log.Error("Profile upsert failed", "user_id", session.UserID, "error", err)
	}
	s.registry.Subscribe(session.UserID, sessionID, sink)
	s.log.Info("Connection opened", "user_id", session.UserID, "session_id", sessionID)
}

func (s *ChatService) Disconnect(identity domain.Identity, sessionID string) {
	s.registry.Unsubscribe(identity, sessionID)
	s.log.Info("Connection closed", "user_id", identity, "session_id", sessionID)
}

func (s *ChatService) Send(ctx context.Context, sender domain.Identity, payload domain.SendPayload) (domain.Message, error) {
	if err := s.admit(sender); err != nil {
		return domain.Message{}, err
	}

	conversation, err := s.resolveConversation(sender, payload)
	if err != nil {
		return domain.Message{}, err
	}
	replyTo, err := s.resolveReply(conversation.ID, payload.ReplyTo)
	if err != nil {
		return domain.Message{}, err
	}

	now := s.clock.Now().UTC()
	message := domain.Message{
		ID:              uuid.New(),
		SenderID:        sender,
		ReceiverID:      payload.ReceiverID,
		ConversationID:  conversation.ID,
		Type:            payload.Type,
		Content:         payload.Content,
		EncryptionNonce: nonEmpty(payload.Nonce),
		Metadata:        payload.Metadata,
		ReplyTo:         replyTo,
		Delivered:       true,
		DeliveredAt:     &now,
	}
	message.IsBotQuery = s.isBotQuery(message)

	stored, err := s.messages.Store(message)
	if err != nil {
		s.log.Error("Message persistence failed", "user_id", sender, "conversation_id", conversation.ID, "error", err)
		return domain.Message{}, fmt.Errorf("persist message: %w", err)
	}

	s.broadcaster.PublishMessage(ctx, stored)

	s.enrich(stored, plaintextOf(stored, payload.Plaintext))
	if stored.IsBotQuery {
		s.askBot(stored)
	}
	return stored, nil
}

// resolveConversation validates a caller-supplied conversation or resolves the pair.
func (s *ChatService) resolveConversation(sender domain.Identity, payload domain.SendPayload) (domain.Conversation, error) {
	if payload.ConversationID == nil || *payload.ConversationID == "" {
		return s.directory.GetOrCreate(sender, payload.ReceiverID)
	}

	id, err := uuid.Parse(*payload.ConversationID)
	if err != nil {
		return domain.Conversation{}, fmt.Errorf("%w: conversationId must be a uuid", errors.ErrInvalidPayload)
	}
	if !s.firewall.Authorize(sender, id) {
		return domain.Conversation{}, errors.ErrUnauthorized
	}
	conversation, err := s.conversations.GetByID(id)
	if err != nil {
		return domain.Conversation{}, err
	}
	if !conversation.Matches(sender, payload.ReceiverID) {
		logSecurityEvent(s.log, securityConversationMismatch, "receiver is not the other participant",
			"user_id", sender, "receiver_id", payload.ReceiverID, "conversation_id", id)
		return domain.Conversation{}, errors.ErrUnauthorized
	}
	return conversation, nil
}

// resolveReply checks that a replied-to message lives in the same conversation.
func (s *ChatService) resolveReply(conversationID uuid.UUID, replyTo *string) (*uuid.UUID, error) {
	if replyTo == nil || *replyTo == "" {
		return nil, nil
	}
	id, err := uuid.Parse(*replyTo)
	if err != nil {
		return nil, fmt.Errorf("%w: replyTo must be a uuid", errors.ErrInvalidPayload)
	}
	original, err := s.messages.GetByID(id)
	if stderrors.Is(err, errors.ErrMessageNotFound) || (err == nil && original.ConversationID != conversationID) {
		return nil, fmt.Errorf("%w: replyTo must reference a message of this conversation", errors.ErrInvalidPayload)
	}
	if err != nil {
		return nil, err
	}
	return &id, nil
}

// isBotQuery is only ever true for unencrypted text: ciphertext cannot be inspected.
func (s *ChatService) isBotQuery(m domain.Message) bool {
	if m.Type != domain.TypeText || m.Encrypted() || domain.IsPseudoIdentity(m.SenderID) {
		return false
	}
	return m.ReceiverID == domain.BotIdentity || domain.IsBotCommand(m.Content, s.cfg.BotPrefix)
}

func (s *ChatService) Edit(ctx context.Context, caller domain.Identity, payload domain.EditPayload) (domain.Message, error) {
	if err := s.admit(caller); err != nil {
		return domain.Message{}, err
	}
	id, err := s.ownedMessage(caller, payload.ID)
	if err != nil {
		return domain.Message{}, err
	}

	now := s.clock.Now().UTC()
	updated, err := s.messages.Update(id, func(m *domain.Message) error {
		if m.Deleted || m.SenderID != caller {
			return errors.ErrUnauthorized
		}
		m.Content = payload.Content
		if payload.Nonce != nil {
			m.EncryptionNonce = nonEmpty(payload.Nonce)
		}
		m.Edited = true
		m.EditedAt = &now
		// The previous translation no longer matches the content.
		m.TranslatedText = nil
		m.TranslatedLanguage = nil
		return nil
	})
	if err != nil {
		return domain.Message{}, s.storageError("edit", id, err)
	}

	s.broadcaster.PublishEdit(ctx, updated)
	s.enrich(updated, plaintextOf(updated, payload.Plaintext))
	return updated, nil
}

// Delete soft-deletes a message: it stays stored but disappears from sync and history.
func (s *ChatService) Delete(ctx context.Context, caller domain.Identity, payload domain.DeletePayload) (domain.Message, error) {
	if err := s.admit(caller); err != nil {
		return domain.Message{}, err
	}
	id, err := s.ownedMessage(caller, payload.ID)
	if err != nil {
		return domain.Message{}, err
	}

	updated, err := s.messages.Update(id, func(m *domain.Message) error {
		if m.Deleted || m.SenderID != caller {
			return errors.ErrUnauthorized
		}
		m.Deleted = true
		return nil
	})
	if err != nil {
		return domain.Message{}, s.storageError("delete", id, err)
	}

	s.broadcaster.PublishDelete(ctx, updated)
	return updated, nil
}

// ownedMessage returns the id of a live message sent by caller. Unknown and foreign
// messages get the same generic rejection.
func (s *ChatService) ownedMessage(caller domain.Identity, rawID string) (uuid.UUID, error) {
	id, err := uuid.Parse(rawID)
	if err != nil {
		return uuid.Nil, fmt.Errorf("%w: id must be a uuid", errors.ErrInvalidPayload)
	}
	message, err := s.messages.GetByID(id)
	if stderrors.Is(err, errors.ErrMessageNotFound) {
		return uuid.Nil, errors.ErrUnauthorized
	}
	if err != nil {
		return uuid.Nil, err
	}
	if message.SenderID != caller {
		logSecurityEvent(s.log, securityForeignMessage, "mutation of a message sent by someone else",
			"user_id", caller, "message_id", id, "conversation_id", message.ConversationID)
		return uuid.Nil, errors.ErrUnauthorized
	}
	if message.Deleted {
		return uuid.Nil, errors.ErrUnauthorized
	}
	return id, nil
}

// Typing is relayed to the receiver channel only and never stored.
func (s *ChatService) Typing(ctx context.Context, caller domain.Identity, payload domain.TypingPayload) error {
	if s.typing != nil {
		if err := admitWith(s.log, s.typing, caller); err != nil {
			return err
		}
	}
	if payload.ReceiverID == caller || domain.IsPseudoIdentity(payload.ReceiverID) {
		return nil
	}
	s.broadcaster.Send(ctx, domain.EventTyping,
		domain.TypingNotice{SenderID: caller, IsTyping: payload.IsTyping}, payload.ReceiverID)
	return nil
}

// MarkRead records a read receipt. Only the receiver may mark a message read, and the
// receipt goes to the sender channel only.
func (s *ChatService) MarkRead(ctx context.Context, caller domain.Identity, payload domain.ReadPayload) (domain.Message, error) {
	id, err := uuid.Parse(payload.MessageID)
	if err != nil {
		return domain.Message{}, fmt.Errorf("%w: messageId must be a uuid", errors.ErrInvalidPayload)
	}
	message, err := s.messages.GetByID(id)
	if stderrors.Is(err, errors.ErrMessageNotFound) {
		return domain.Message{}, errors.ErrUnauthorized
	}
	if err != nil {
		return domain.Message{}, err
	}
	if message.ReceiverID != caller {
		logSecurityEvent(s.log, securityForeignMessage, "read receipt from a non-receiver",
			"user_id", caller, "message_id", id, "conversation_id", message.ConversationID)
		return domain.Message{}, errors.ErrUnauthorized
	}
	if message.Deleted {
		return domain.Message{}, errors.ErrUnauthorized
	}
	if message.Read {
		return message, nil
	}

	now := s.clock.Now().UTC()
	updated, err := s.messages.Update(id, func(m *domain.Message) error {
		m.Read = true
		m.ReadAt = &now
		return nil
	})
	if err != nil {
		return domain.Message{}, s.storageError("read", id, err)
	}

	s.broadcaster.Send(ctx, domain.EventMessageRead, domain.ReadReceipt{
		MessageID: id.String(),
		ReaderID:  caller,
		ReadAt:    now,
	}, updated.SenderID)
	return updated, nil
}

// ExchangeKey stores the caller public key and relays it to the receiver.
func (s *ChatService) ExchangeKey(ctx context.Context, caller domain.Identity, payload domain.KeyExchangePayload) error {
	if err := s.admit(caller); err != nil {
		return err
	}
	if err := s.profiles.StorePublicKey(caller, payload.PublicKey); err != nil {
		s.log.Error("Public key persistence failed", "user_id", caller, "error", err)
		return fmt.Errorf("store public key: %w", err)
	}
	s.broadcaster.Send(ctx, domain.EventKeyOffer,
		domain.KeyOffer{SenderID: caller, PublicKey: payload.PublicKey}, payload.ReceiverID)
	s.broadcaster.Send(ctx, domain.EventKeySent, domain.KeySent{ReceiverID: payload.ReceiverID}, caller)
	return nil
}

// History returns the last limit live messages of a conversation, oldest first.
func (s *ChatService) History(caller domain.Identity, conversationID uuid.UUID, limit int) ([]domain.Message, error) {
	if !s.firewall.Authorize(caller, conversationID) {
		return nil, errors.ErrUnauthorized
	}
	return s.messages.ListRecent(conversationID, limit)
}

func (s *ChatService) admit(identity domain.Identity) error {
	return admitWith(s.log, s.limiter, identity)
}

func admitWith(log *slog.Logger, limiter ratelimit.ILimiter, identity domain.Identity) error {
	result := limiter.CheckLimit(identity)
	if result.Allowed {
		return nil
	}
	log.Info("Event rejected by rate limiter", "user_id", identity, "retry_after", result.RetryAfter)
	return &errors.RateLimitError{RetryAfter: result.RetryAfter, Limit: result.Limit}
}

func (s *ChatService) storageError(operation string, id uuid.UUID, err error) error {
	if stderrors.Is(err, errors.ErrUnauthorized) || stderrors.Is(err, errors.ErrMessageNotFound) {
		return errors.ErrUnauthorized
	}
	s.log.Error("Message update failed", "operation", operation, "message_id", id, "error", err)
	return fmt.Errorf("%s message: %w", operation, err)
}

// plaintextOf returns the inspectable text of a message: its content when unencrypted,
// else the plaintext the client chose to supply alongside the ciphertext.
func plaintextOf(m domain.Message, supplied *string) string {
	if m.Type != domain.TypeText {
		return ""
	}
	if !m.Encrypted() {
		return m.Content
	}
	if supplied == nil {
		return ""
	}
	return strings.TrimSpace(*supplied)
}

func nonEmpty(s *string) *string {
	if s == nil || *s == "" {
		return nil
	}
	return s
}
