package services

import (
	"chat-relay/domain"
	"chat-relay/errors"
	"chat-relay/infrastructure/storage"
	stderrors "errors"
	"log/slog"
)

// ProfileResolver resolves display names and preferred languages from stored profiles.
type ProfileResolver struct {
	log      *slog.Logger
	profiles storage.IProfileRepository
}

func NewProfileResolver(log *slog.Logger, profiles storage.IProfileRepository) *ProfileResolver {
	return &ProfileResolver{log: log, profiles: profiles}
}

// DisplayName gives bot its fixed label. Every other identity, system included, goes
// through the profile lookup; system falls back to its default label when unnamed.
func (r *ProfileResolver) DisplayName(identity domain.Identity) string {
	if identity == domain.BotIdentity {
		return domain.BotDisplayName
	}
	profile, ok := r.profile(identity)
	if ok && profile.Username != "" {
		return profile.Username
	}
	if identity == domain.SystemIdentity {
		return domain.SystemDisplayName
	}
	return identity
}

func (r *ProfileResolver) PreferredLanguage(identity domain.Identity) string {
	if domain.IsPseudoIdentity(identity) {
		return ""
	}
	profile, ok := r.profile(identity)
	if !ok {
		return ""
	}
	return profile.Language
}

func (r *ProfileResolver) profile(identity domain.Identity) (storage.Profile, bool) {
	profile, err := r.profiles.Get(identity)
	if err != nil {
		if !stderrors.Is(err, errors.ErrProfileNotFound) {
			r.log.Debug("Profile lookup failed", "user_id", identity, "error", err)
		}
		return storage.Profile{}, false
	}
	return profile, true
}
