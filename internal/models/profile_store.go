package models

import (
	"context"
	"errors"
	"signin/internal/apperrors"
	"signin/internal/storage/interfaces"
	"strings"

	json "github.com/goccy/go-json"
)

// ProfileStore is the settings-side owner of the profile key.
type ProfileStore struct {
	kv interfaces.KeyValueStore
}

func NewProfileStore(kv interfaces.KeyValueStore) *ProfileStore {
	return &ProfileStore{kv: kv}
}

// Load returns the saved profile, or an empty one when none was saved.
func (s *ProfileStore) Load(ctx context.Context) (Profile, error) {
	data, err := s.kv.Get(ctx, ProfileKey)
	if errors.Is(err, interfaces.ErrNotFound) {
		return Profile{}, nil
	}
	if err != nil {
		return Profile{}, apperrors.Wrap(err, apperrors.ErrPersistence, "")
	}

	var p Profile
	if err := json.Unmarshal(data, &p); err != nil {
		return Profile{}, apperrors.Wrap(err, apperrors.ErrPersistence, "decode profile")
	}
	return p, nil
}

func (s *ProfileStore) Save(ctx context.Context, p Profile) (Profile, error) {
	p.Nickname = strings.TrimSpace(p.Nickname)
	p.Phone = strings.TrimSpace(p.Phone)

	data, err := json.Marshal(p)
	if err != nil {
		return Profile{}, apperrors.Wrap(err, apperrors.ErrPersistence, "encode profile")
	}
	if err := s.kv.Set(ctx, ProfileKey, data); err != nil {
		return Profile{}, apperrors.Wrap(err, apperrors.ErrPersistence, "")
	}
	return p, nil
}
