//go:generate go run go.uber.org/mock/mockgen -source=contract.go -destination=../mocks/mock_contract.go -package=mocks
package contract

import (
	"chat-relay/domain"
	"context"
	"reflect"
)

type ISupervisor interface {
	Add(worker ...Worker) ISupervisor
	Run(ctx context.Context)
	Start(ctx context.Context, worker Worker)
	Stop()
}

// Worker doesn't protect itself
// Can be silly, focused
type Worker interface {
	Run(ctx context.Context) error
}

// GetWorkerName uses reflection to retrieve the type name of the worker.
// Used for logging during supervision without a manual name on each Worker.
func GetWorkerName(w Worker) string {
	if w == nil {
		return "NilWorker"
	}
	t := reflect.TypeOf(w)
	for t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	return t.Name()
}

// EventSink receives outbound events for one connection.
type EventSink interface {
	Consume(ctx context.Context, e domain.Event) error
}

// IRegistry maps identities to the sinks of their live connections.
// One identity may hold several connections (several devices).
type IRegistry interface {
	Subscribe(identity domain.Identity, sessionID string, sink EventSink)
	Unsubscribe(identity domain.Identity, sessionID string)
	SinksFor(identity domain.Identity) []EventSink
	Connected() int
}

// Publisher is the single broadcast primitive used by both the synchronous send path
// and detached enrichment tasks.
type Publisher interface {
	Publish(ctx context.Context, e domain.Event, identities ...domain.Identity)
}

// Task is a unit of detached, best-effort work.
type Task func(ctx context.Context) error

// TaskSubmitter accepts fire-and-forget tasks. Submit never blocks.
type TaskSubmitter interface {
	Submit(name string, task Task) error
}

// UpdatePublisher re-broadcasts an enriched message as message.updated to its participants.
type UpdatePublisher interface {
	PublishUpdate(ctx context.Context, message domain.Message)
}

// IdentityResolver answers the profile questions asked while building views and
// enrichment tasks. An unknown identity resolves to itself and to no language.
type IdentityResolver interface {
	DisplayName(identity domain.Identity) string
	PreferredLanguage(identity domain.Identity) string
}
