package services

import (
	"chat-relay/domain"
	"chat-relay/infrastructure/storage"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestProfileResolver_DisplayName(t *testing.T) {
	profiles := storage.NewProfileRepository(openTestDB(t))
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	for _, profile := range []storage.Profile{
		{ID: "alice", Username: "Alice", Language: "en", UpdatedAt: now},
		{ID: domain.BotIdentity, Username: "Impostor", UpdatedAt: now},
	} {
		require.NoError(t, profiles.Upsert(profile))
	}
	resolver := NewProfileResolver(slog.Default(), profiles)

	tests := []struct {
		name     string
		identity domain.Identity
		expected string
	}{
		{"Known user", "alice", "Alice"},
		{"Unknown user keeps the identity", "dave", "dave"},
		{"Bot label is fixed", domain.BotIdentity, domain.BotDisplayName},
		{"Unnamed system falls back to its label", domain.SystemIdentity, domain.SystemDisplayName},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.expected, resolver.DisplayName(tt.identity))
		})
	}

	t.Run("System resolves through the lookup", func(t *testing.T) {
		req := require.New(t)
		req.NoError(profiles.Upsert(storage.Profile{ID: domain.SystemIdentity, Username: "Relay notices", UpdatedAt: now}))
		req.Equal("Relay notices", resolver.DisplayName(domain.SystemIdentity))
	})
}
