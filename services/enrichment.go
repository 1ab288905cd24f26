package services

import (
	"chat-relay/domain"
	"chat-relay/errors"
	"chat-relay/translation"
	"context"
	stderrors "errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/samber/lo"
)

// errStale aborts an enrichment whose message changed while the task ran.
var errStale = stderrors.New("message changed during enrichment")

// enrich submits the detached tasks of a freshly stored or edited message.
// Submission never blocks; a dropped task only means a missing enrichment.
func (s *ChatService) enrich(message domain.Message, plaintext string) {
	switch {
	case message.Type == domain.TypeText && plaintext != "":
		_ = s.tasks.Submit("translate", s.translateTask(message, plaintext))
	case message.Type == domain.TypeAudio && s.audio != nil:
		_ = s.tasks.Submit("transcribe", func(ctx context.Context) error {
			return s.audio.Process(ctx, message)
		})
	}
}

// translateTask translates plaintext into the receiver preferred language and publishes
// message.updated when a translation was found.
func (s *ChatService) translateTask(message domain.Message, plaintext string) func(context.Context) error {
	return func(ctx context.Context) error {
		target := s.identities.PreferredLanguage(message.ReceiverID)
		if !translation.IsConcrete(target) {
			return nil
		}
		source := translation.DetectLanguage(plaintext)
		if !translation.IsConcrete(source) {
			if preferred := s.identities.PreferredLanguage(message.SenderID); translation.IsConcrete(preferred) {
				source = preferred
			}
		}
		if source == target {
			return nil
		}

		translated := s.translator.Translate(ctx, plaintext, source, target)
		if translated == plaintext {
			return nil
		}

		updated, err := s.messages.Update(message.ID, func(m *domain.Message) error {
			if m.Deleted || m.Content != message.Content {
				return errStale
			}
			if translation.IsConcrete(source) {
				m.OriginalLanguage = lo.ToPtr(source)
			}
			m.TranslatedText = lo.ToPtr(translated)
			m.TranslatedLanguage = lo.ToPtr(target)
			return nil
		})
		if stderrors.Is(err, errStale) || stderrors.Is(err, errors.ErrMessageNotFound) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("store translation of %s: %w", message.ID, err)
		}
		s.broadcaster.PublishUpdate(ctx, updated)
		return nil
	}
}

func (s *ChatService) askBot(query domain.Message) {
	if s.responder == nil {
		s.log.Debug("Bot query ignored, no responder configured", "message_id", query.ID)
		return
	}
	_ = s.tasks.Submit("bot", s.botTask(query))
}

// botTask answers a query from the recent conversation context. The reply is stored in
// the conversation between the bot and the asker and delivered to the asker only.
func (s *ChatService) botTask(query domain.Message) func(context.Context) error {
	return func(ctx context.Context) error {
		text := domain.ExtractBotQuery(query.Content, s.cfg.BotPrefix)
		if text == "" {
			return nil
		}

		recent, err := s.History(query.SenderID, query.ConversationID, s.cfg.BotContextSize+1)
		if err != nil {
			return fmt.Errorf("bot context of %s: %w", query.ConversationID, err)
		}
		history := lo.FilterMap(recent, func(m domain.Message, _ int) (domain.Turn, bool) {
			if m.ID == query.ID || m.Type != domain.TypeText || m.Encrypted() {
				return domain.Turn{}, false
			}
			return domain.Turn{FromBot: m.SenderID == domain.BotIdentity, Text: m.Content}, true
		})

		replyCtx, cancel := context.WithTimeout(ctx, s.cfg.ResponderTimeout)
		defer cancel()
		reply, err := s.responder.Reply(replyCtx, text, history, s.identities.PreferredLanguage(query.SenderID))
		if err != nil {
			return fmt.Errorf("bot reply to %s: %w", query.ID, err)
		}

		conversation, err := s.directory.GetOrCreate(domain.BotIdentity, query.SenderID)
		if err != nil {
			return fmt.Errorf("bot conversation of %s: %w", query.SenderID, err)
		}
		var replyTo *uuid.UUID
		if conversation.ID == query.ConversationID {
			replyTo = lo.ToPtr(query.ID)
		}
		now := s.clock.Now().UTC()
		answer, err := s.messages.Store(domain.Message{
			ID:             uuid.New(),
			SenderID:       domain.BotIdentity,
			ReceiverID:     query.SenderID,
			ConversationID: conversation.ID,
			Type:           domain.TypeText,
			Content:        reply,
			ReplyTo:        replyTo,
			Delivered:      true,
			DeliveredAt:    &now,
			IsBot:          true,
		})
		if err != nil {
			return fmt.Errorf("store bot reply: %w", err)
		}

		s.broadcaster.Send(ctx, domain.EventMessage, s.broadcaster.View(answer), query.SenderID)
		return nil
	}
}
