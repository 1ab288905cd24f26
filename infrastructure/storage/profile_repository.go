//go:generate go run go.uber.org/mock/mockgen -source=profile_repository.go -destination=../../mocks/mock_profile_repository.go -package=mocks
package storage

import (
	"chat-relay/domain"
	"chat-relay/errors"
	stderrors "errors"
	"fmt"
	"time"

	"github.com/dgraph-io/badger/v4"
)

const (
	profilePrefix   = "profile:"
	publicKeyPrefix = "pubkey:"
)

// Profile is what the relay remembers about a session identity:
// the display name and the preferred language used as translation target.
type Profile struct {
	ID        domain.Identity
	Username  string
	Language  string
	UpdatedAt time.Time
}

type IProfileRepository interface {
	Upsert(profile Profile) error
	Get(id domain.Identity) (Profile, error)
	StorePublicKey(id domain.Identity, publicKey string) error
	GetPublicKey(id domain.Identity) (string, error)
}

type ProfileRepository struct {
	db *badger.DB
}

func NewProfileRepository(db *badger.DB) *ProfileRepository {
	return &ProfileRepository{db: db}
}

type profileRecord struct {
	ID        string `cbor:"1,keyasint"`
	Username  string `cbor:"2,keyasint"`
	Language  string `cbor:"3,keyasint"`
	UpdatedAt int64  `cbor:"4,keyasint"`
}

// Upsert overwrites the stored profile. An empty language keeps the previous one.
func (p *ProfileRepository) Upsert(profile Profile) error {
	return p.db.Update(func(txn *badger.Txn) error {
		key := []byte(profilePrefix + profile.ID)
		if profile.Language == "" {
			if previous, err := getProfile(txn, profile.ID); err == nil {
				profile.Language = previous.Language
			}
		}
		data, err := marshal(profileRecord{
			ID:        profile.ID,
			Username:  profile.Username,
			Language:  profile.Language,
			UpdatedAt: profile.UpdatedAt.UnixNano(),
		})
		if err != nil {
			return fmt.Errorf("marshal profile: %w", err)
		}
		return txn.Set(key, data)
	})
}

func (p *ProfileRepository) Get(id domain.Identity) (Profile, error) {
	var profile Profile
	err := p.db.View(func(txn *badger.Txn) error {
		var err error
		profile, err = getProfile(txn, id)
		return err
	})
	return profile, err
}

func (p *ProfileRepository) StorePublicKey(id domain.Identity, publicKey string) error {
	return p.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(publicKeyPrefix+id), []byte(publicKey))
	})
}

func (p *ProfileRepository) GetPublicKey(id domain.Identity) (string, error) {
	var publicKey []byte
	err := p.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(publicKeyPrefix + id))
		if stderrors.Is(err, badger.ErrKeyNotFound) {
			return errors.ErrProfileNotFound
		}
		if err != nil {
			return err
		}
		publicKey, err = item.ValueCopy(nil)
		return err
	})
	return string(publicKey), err
}

func getProfile(txn *badger.Txn, id domain.Identity) (Profile, error) {
	item, err := txn.Get([]byte(profilePrefix + id))
	if stderrors.Is(err, badger.ErrKeyNotFound) {
		return Profile{}, errors.ErrProfileNotFound
	}
	if err != nil {
		return Profile{}, err
	}
	var record profileRecord
	if err = item.Value(func(val []byte) error {
		return unmarshal(val, &record)
	}); err != nil {
		return Profile{}, err
	}
	return Profile{
		ID:        record.ID,
		Username:  record.Username,
		Language:  record.Language,
		UpdatedAt: time.Unix(0, record.UpdatedAt).UTC(),
	}, nil
}
