package models

import (
	"context"
	"errors"
	"signin/internal/apperrors"
	"signin/internal/storage/interfaces"
	"sync"

	json "github.com/goccy/go-json"
)

const RecordsKey = "attendance_records"

// RecordStore persists the record collection under a single key.
// Every mutation rewrites the whole collection, so a reader sees either
// the previous or the next collection and never a partial one.
type RecordStore struct {
	mu sync.Mutex
	kv interfaces.KeyValueStore
}

func NewRecordStore(kv interfaces.KeyValueStore) *RecordStore {
	return &RecordStore{kv: kv}
}

// Append inserts rec at the head and returns the resulting collection.
func (s *RecordStore) Append(ctx context.Context, rec Record) (RecordCollection, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	current, err := s.load(ctx)
	if err != nil {
		return nil, err
	}

	next := make(RecordCollection, 0, len(current)+1)
	next = append(next, rec)
	next = append(next, current...)

	data, err := json.Marshal(next)
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrPersistence, "encode records")
	}
	if err := s.kv.Set(ctx, RecordsKey, data); err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrPersistence, "")
	}
	return next, nil
}

func (s *RecordStore) List(ctx context.Context) (RecordCollection, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.load(ctx)
}

// Clear removes every record. Clearing an empty store is not an error.
func (s *RecordStore) Clear(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.kv.Delete(ctx, RecordsKey); err != nil {
		return apperrors.Wrap(err, apperrors.ErrPersistence, "")
	}
	return nil
}

func (s *RecordStore) load(ctx context.Context) (RecordCollection, error) {
	data, err := s.kv.Get(ctx, RecordsKey)
	if errors.Is(err, interfaces.ErrNotFound) {
		return RecordCollection{}, nil
	}
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrPersistence, "")
	}

	records := RecordCollection{}
	if len(data) == 0 {
		return records, nil
	}
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrPersistence, "decode records")
	}
	if records == nil {
		records = RecordCollection{}
	}
	return records, nil
}
