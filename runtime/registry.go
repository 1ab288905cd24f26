package runtime

import (
	"chat-relay/contract"
	"chat-relay/domain"
	"context"
	"log/slog"
	"sync"
)

// Registry maps each identity channel to the sinks of its live connections
// and delivers events to named identities only.
type Registry struct {
	mu       sync.RWMutex
	log      *slog.Logger
	sessions map[domain.Identity]map[string]contract.EventSink // identity -> session -> sink
}

func NewRegistry(log *slog.Logger) *Registry {
	return &Registry{
		log:      log,
		sessions: make(map[domain.Identity]map[string]contract.EventSink),
	}
}

// Subscribe registers one connection of identity. A user connected from several
// devices holds several sessions on the same identity channel.
func (r *Registry) Subscribe(identity domain.Identity, sessionID string, sink contract.EventSink) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.sessions[identity]; !ok {
		r.sessions[identity] = make(map[string]contract.EventSink)
	}
	r.sessions[identity][sessionID] = sink
}

// Unsubscribe removes one connection and drops the identity entry once empty.
func (r *Registry) Unsubscribe(identity domain.Identity, sessionID string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if sinks, ok := r.sessions[identity]; ok {
		delete(sinks, sessionID)
		if len(sinks) == 0 {
			delete(r.sessions, identity)
		}
	}
}

func (r *Registry) SinksFor(identity domain.Identity) []contract.EventSink {
	r.mu.RLock()
	defer r.mu.RUnlock()

	sinks := make([]contract.EventSink, 0, len(r.sessions[identity]))
	for _, sink := range r.sessions[identity] {
		sinks = append(sinks, sink)
	}
	return sinks
}

// Connected returns the number of identities holding at least one connection.
func (r *Registry) Connected() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}

// Publish delivers e to every connection of the given identities and nowhere else.
// Duplicate identities (a user writing to themselves) are delivered once.
// An identity without connection is skipped: delivery is the transport's best effort.
func (r *Registry) Publish(ctx context.Context, e domain.Event, identities ...domain.Identity) {
	seen := make(map[domain.Identity]struct{}, len(identities))
	for _, identity := range identities {
		if _, ok := seen[identity]; ok {
			continue
		}
		seen[identity] = struct{}{}

		for _, sink := range r.SinksFor(identity) {
			if err := sink.Consume(ctx, e); err != nil {
				r.log.Debug("Event not delivered", "user_id", identity, "event", e.Name, "error", err)
			}
		}
	}
}
