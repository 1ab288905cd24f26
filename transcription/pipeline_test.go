package transcription

import (
	"chat-relay/domain"
	"chat-relay/errors"
	"chat-relay/mocks"
	"context"
	stderrors "errors"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

type fixture struct {
	blobs       *mocks.MockBlobStore
	transcriber *mocks.MockTranscriber
	translator  *mocks.MockIPipeline
	messages    *mocks.MockIMessageRepository
	identities  *mocks.MockIdentityResolver
	publisher   *mocks.MockUpdatePublisher
	pipeline    *Pipeline
}

func newFixture(t *testing.T) fixture {
	ctrl := gomock.NewController(t)
	f := fixture{
		blobs:       mocks.NewMockBlobStore(ctrl),
		transcriber: mocks.NewMockTranscriber(ctrl),
		translator:  mocks.NewMockIPipeline(ctrl),
		messages:    mocks.NewMockIMessageRepository(ctrl),
		identities:  mocks.NewMockIdentityResolver(ctrl),
		publisher:   mocks.NewMockUpdatePublisher(ctrl),
	}
	f.pipeline = NewPipeline(slog.Default(), f.blobs, f.transcriber, f.translator,
		f.messages, f.identities, f.publisher, time.Second)
	return f
}

func audioMessage() domain.Message {
	return domain.Message{
		ID:             uuid.New(),
		SenderID:       "alice",
		ReceiverID:     "bob",
		ConversationID: uuid.New(),
		Type:           domain.TypeAudio,
		Content:        "voice/42.ogg",
		Timestamp:      time.Now().UTC(),
	}
}

// expectUpdate applies the mutation to stored and returns the result, like the repository would.
func (f fixture) expectUpdate(stored *domain.Message) {
	f.messages.EXPECT().
		Update(stored.ID, gomock.Any()).
		DoAndReturn(func(_ uuid.UUID, mutate func(*domain.Message) error) (domain.Message, error) {
			if err := mutate(stored); err != nil {
				return domain.Message{}, err
			}
			return *stored, nil
		})
}

func TestPipeline_Skips_Non_Audio_Messages(t *testing.T) {
	req := require.New(t)
	f := newFixture(t)

	message := audioMessage()
	message.Type = domain.TypeText

	req.NoError(f.pipeline.Process(context.Background(), message))
}

func TestPipeline_Empty_Audio_Marks_Empty_Transcript(t *testing.T) {
	req := require.New(t)
	f := newFixture(t)
	message := audioMessage()

	f.blobs.EXPECT().FetchBytes(gomock.Any(), "voice/42.ogg").Return([]byte{}, nil)
	f.expectUpdate(&message)
	f.publisher.EXPECT().PublishUpdate(gomock.Any(), gomock.Any()).
		Do(func(_ context.Context, updated domain.Message) {
			req.Equal(domain.TranscriptStatusEmpty, updated.Metadata[domain.MetaTranscriptStatus])
			req.NotContains(updated.Metadata, domain.MetaTranscript)
		})

	req.NoError(f.pipeline.Process(context.Background(), message))
}

func TestPipeline_Empty_Transcript_Marks_Empty_Transcript(t *testing.T) {
	req := require.New(t)
	f := newFixture(t)
	message := audioMessage()

	f.blobs.EXPECT().FetchBytes(gomock.Any(), gomock.Any()).Return([]byte("RIFF....WAVEfmt "), nil)
	f.transcriber.EXPECT().Transcribe(gomock.Any(), gomock.Any(), gomock.Any()).Return("", nil)
	f.expectUpdate(&message)
	f.publisher.EXPECT().PublishUpdate(gomock.Any(), gomock.Any())

	req.NoError(f.pipeline.Process(context.Background(), message))
	req.Equal(domain.TranscriptStatusEmpty, message.Metadata[domain.MetaTranscriptStatus])
}

func TestPipeline_Merges_Transcript_And_Translation(t *testing.T) {
	req := require.New(t)
	f := newFixture(t)
	message := audioMessage()
	message.Metadata = map[string]any{"durationMs": 4200}
	transcript := "The weather is really nice today and I would like to walk in the park with my family."

	f.blobs.EXPECT().FetchBytes(gomock.Any(), gomock.Any()).Return([]byte("OggS audio bytes"), nil)
	f.transcriber.EXPECT().Transcribe(gomock.Any(), []byte("OggS audio bytes"), gomock.Any()).Return(transcript, nil)
	f.identities.EXPECT().PreferredLanguage("alice").Return("en").AnyTimes()
	f.identities.EXPECT().PreferredLanguage("bob").Return("fr").AnyTimes()
	f.translator.EXPECT().Translate(gomock.Any(), transcript, "en", "fr").Return("Il fait beau aujourd'hui.")
	f.expectUpdate(&message)
	f.publisher.EXPECT().PublishUpdate(gomock.Any(), gomock.Any())

	req.NoError(f.pipeline.Process(context.Background(), message))

	req.Equal(transcript, message.Metadata[domain.MetaTranscript])
	req.Equal(domain.TranscriptStatusDone, message.Metadata[domain.MetaTranscriptStatus])
	req.Equal("en", message.Metadata[domain.MetaTranscriptLanguage])
	req.Equal("Il fait beau aujourd'hui.", message.Metadata[domain.MetaTranslatedTranscript])
	req.Equal("fr", message.Metadata[domain.MetaTranslatedLanguage])
	req.Equal(4200, message.Metadata["durationMs"], "existing metadata is kept")
}

func TestPipeline_Same_Language_Skips_Translation(t *testing.T) {
	req := require.New(t)
	f := newFixture(t)
	message := audioMessage()
	transcript := "The weather is really nice today and I would like to walk in the park with my family."

	f.blobs.EXPECT().FetchBytes(gomock.Any(), gomock.Any()).Return([]byte("OggS"), nil)
	f.transcriber.EXPECT().Transcribe(gomock.Any(), gomock.Any(), gomock.Any()).Return(transcript, nil)
	f.identities.EXPECT().PreferredLanguage(gomock.Any()).Return("en").AnyTimes()
	f.expectUpdate(&message)
	f.publisher.EXPECT().PublishUpdate(gomock.Any(), gomock.Any())

	req.NoError(f.pipeline.Process(context.Background(), message))
	req.NotContains(message.Metadata, domain.MetaTranslatedTranscript)
}

func TestPipeline_Fetch_Failure_Abandons_Message(t *testing.T) {
	req := require.New(t)
	f := newFixture(t)

	f.blobs.EXPECT().FetchBytes(gomock.Any(), gomock.Any()).Return(nil, stderrors.New("connection refused"))

	err := f.pipeline.Process(context.Background(), audioMessage())
	req.Error(err)
}

func TestPipeline_Transcriber_Failure_Abandons_Message(t *testing.T) {
	req := require.New(t)
	f := newFixture(t)

	f.blobs.EXPECT().FetchBytes(gomock.Any(), gomock.Any()).Return([]byte("OggS"), nil)
	f.transcriber.EXPECT().Transcribe(gomock.Any(), gomock.Any(), gomock.Any()).Return("", errors.ErrProviderFailed)

	err := f.pipeline.Process(context.Background(), audioMessage())
	req.ErrorIs(err, errors.ErrProviderFailed)
}

func TestPipeline_Deleted_Message_Is_Not_Published(t *testing.T) {
	req := require.New(t)
	f := newFixture(t)
	message := audioMessage()
	message.Deleted = true

	f.blobs.EXPECT().FetchBytes(gomock.Any(), gomock.Any()).Return([]byte{}, nil)
	f.expectUpdate(&message)

	req.NoError(f.pipeline.Process(context.Background(), message))
	req.Nil(message.Metadata)
}
