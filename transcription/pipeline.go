//go:generate go run go.uber.org/mock/mockgen -source=pipeline.go -destination=../mocks/mock_transcription.go -package=mocks
package transcription

import (
	"chat-relay/contract"
	"chat-relay/domain"
	"chat-relay/errors"
	"chat-relay/infrastructure/storage"
	"chat-relay/translation"
	"context"
	stderrors "errors"
	"fmt"
	"log/slog"
	"maps"
	"time"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
)

const DefaultTimeout = 30 * time.Second

// BlobStore resolves the content pointer of an audio message.
type BlobStore interface {
	FetchBytes(ctx context.Context, pointer string) ([]byte, error)
}

// Transcriber is a speech-to-text provider. An empty transcript is not an error.
type Transcriber interface {
	Transcribe(ctx context.Context, audio []byte, mimeType string) (string, error)
}

// Pipeline fetches, transcribes and optionally translates an audio message, then merges
// the result into its metadata and re-broadcasts it. Failures abandon the message as is.
type Pipeline struct {
	log         *slog.Logger
	blobs       BlobStore
	transcriber Transcriber
	translator  translation.IPipeline
	messages    storage.IMessageRepository
	identities  contract.IdentityResolver
	publisher   contract.UpdatePublisher
	timeout     time.Duration
}

func NewPipeline(
	log *slog.Logger,
	blobs BlobStore,
	transcriber Transcriber,
	translator translation.IPipeline,
	messages storage.IMessageRepository,
	identities contract.IdentityResolver,
	publisher contract.UpdatePublisher,
	timeout time.Duration,
) *Pipeline {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Pipeline{
		log:         log,
		blobs:       blobs,
		transcriber: transcriber,
		translator:  translator,
		messages:    messages,
		identities:  identities,
		publisher:   publisher,
		timeout:     timeout,
	}
}

// Process runs the whole pipeline for one audio message. The returned error is only
// meant for internal logging.
func (p *Pipeline) Process(ctx context.Context, message domain.Message) error {
	if message.Type != domain.TypeAudio {
		return nil
	}

	audio, err := p.fetch(ctx, message.Content)
	if err != nil {
		return fmt.Errorf("fetch audio of %s: %w", message.ID, err)
	}
	if len(audio) == 0 {
		return p.merge(ctx, message.ID, emptyTranscript())
	}

	mimeType := mimetype.Detect(audio).String()
	transcript, err := p.transcribe(ctx, audio, mimeType)
	if err != nil {
		return fmt.Errorf("transcribe %s (%s): %w", message.ID, mimeType, err)
	}
	if transcript == "" {
		return p.merge(ctx, message.ID, emptyTranscript())
	}

	return p.merge(ctx, message.ID, p.enrich(ctx, message, transcript))
}

func (p *Pipeline) fetch(ctx context.Context, pointer string) ([]byte, error) {
	callCtx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()
	return p.blobs.FetchBytes(callCtx, pointer)
}

func (p *Pipeline) transcribe(ctx context.Context, audio []byte, mimeType string) (string, error) {
	callCtx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()
	return p.transcriber.Transcribe(callCtx, audio, mimeType)
}

// enrich builds the metadata fields for a non-empty transcript, translating it when the
// receiver reads another language.
func (p *Pipeline) enrich(ctx context.Context, message domain.Message, transcript string) map[string]any {
	fields := map[string]any{
		domain.MetaTranscript:       transcript,
		domain.MetaTranscriptStatus: domain.TranscriptStatusDone,
	}

	language := translation.DetectLanguage(transcript)
	if !translation.IsConcrete(language) {
		language = p.identities.PreferredLanguage(message.SenderID)
	}
	if translation.IsConcrete(language) {
		fields[domain.MetaTranscriptLanguage] = language
	}

	target := p.identities.PreferredLanguage(message.ReceiverID)
	if !translation.IsConcrete(target) || target == language {
		return fields
	}
	translated := p.translator.Translate(ctx, transcript, language, target)
	if translated != transcript {
		fields[domain.MetaTranslatedTranscript] = translated
		fields[domain.MetaTranslatedLanguage] = target
	}
	return fields
}

func (p *Pipeline) merge(ctx context.Context, id uuid.UUID, fields map[string]any) error {
	updated, err := p.messages.Update(id, func(m *domain.Message) error {
		if m.Deleted {
			return errors.ErrMessageNotFound
		}
		if m.Metadata == nil {
			m.Metadata = make(map[string]any, len(fields))
		}
		maps.Copy(m.Metadata, fields)
		return nil
	})
	if stderrors.Is(err, errors.ErrMessageNotFound) {
		p.log.Debug("Audio message gone before transcript merge", "message_id", id)
		return nil
	}
	if err != nil {
		return fmt.Errorf("merge transcript into %s: %w", id, err)
	}
	p.publisher.PublishUpdate(ctx, updated)
	return nil
}

func emptyTranscript() map[string]any {
	return map[string]any{domain.MetaTranscriptStatus: domain.TranscriptStatusEmpty}
}
