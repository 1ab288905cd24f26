package storage

import (
	"chat-relay/errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestProfileRepository_Upsert_Keeps_Language_When_Missing(t *testing.T) {
	req := require.New(t)
	repository := NewProfileRepository(openTestDB(t))

	req.NoError(repository.Upsert(Profile{ID: "u1", Username: "Alice", Language: "fr", UpdatedAt: time.Now()}))
	req.NoError(repository.Upsert(Profile{ID: "u1", Username: "Alice B.", UpdatedAt: time.Now()}))

	profile, err := repository.Get("u1")
	req.NoError(err)
	req.Equal("Alice B.", profile.Username)
	req.Equal("fr", profile.Language)
}

func TestProfileRepository_PublicKey(t *testing.T) {
	req := require.New(t)
	repository := NewProfileRepository(openTestDB(t))

	_, err := repository.GetPublicKey("u1")
	req.ErrorIs(err, errors.ErrProfileNotFound)

	req.NoError(repository.StorePublicKey("u1", "pk-base64"))
	key, err := repository.GetPublicKey("u1")
	req.NoError(err)
	req.Equal("pk-base64", key)
}
