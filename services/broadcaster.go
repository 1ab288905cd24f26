package services

import (
	"chat-relay/contract"
	"chat-relay/domain"
	"context"
)

// Broadcaster turns persisted messages into views and publishes them to the two
// participant channels. The send path and detached enrichment share it.
type Broadcaster struct {
	publisher  contract.Publisher
	identities contract.IdentityResolver
}

func NewBroadcaster(publisher contract.Publisher, identities contract.IdentityResolver) *Broadcaster {
	return &Broadcaster{publisher: publisher, identities: identities}
}

func (b *Broadcaster) View(m domain.Message) domain.MessageView {
	return domain.ToMessageView(m, b.identities.DisplayName(m.SenderID))
}

// PublishMessage delivers a newly persisted message.
func (b *Broadcaster) PublishMessage(ctx context.Context, m domain.Message) {
	b.publisher.Publish(ctx, domain.NewEvent(domain.EventMessage, b.View(m)), m.Participants()...)
}

// PublishUpdate delivers an enriched message as message.updated.
func (b *Broadcaster) PublishUpdate(ctx context.Context, m domain.Message) {
	b.publisher.Publish(ctx, domain.NewEvent(domain.EventMessageUpdated, b.View(m)), m.Participants()...)
}

// PublishEdit delivers an edited message.
func (b *Broadcaster) PublishEdit(ctx context.Context, m domain.Message) {
	b.publisher.Publish(ctx, domain.NewEvent(domain.EventMessagesEdited, b.View(m)), m.Participants()...)
}

// PublishDelete notifies a soft delete without the content.
func (b *Broadcaster) PublishDelete(ctx context.Context, m domain.Message) {
	notice := domain.DeletedNotice{ID: m.ID.String(), ConversationID: m.ConversationID.String()}
	b.publisher.Publish(ctx, domain.NewEvent(domain.EventMessagesDeleted, notice), m.Participants()...)
}

// Send delivers an arbitrary event to the given identities only.
func (b *Broadcaster) Send(ctx context.Context, name string, payload any, identities ...domain.Identity) {
	b.publisher.Publish(ctx, domain.NewEvent(name, payload), identities...)
}
