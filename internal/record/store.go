package record

import (
	"encoding/json"

	"github.com/pkg/errors"

	"github.com/sentaku/assess-core/internal/kv"
)

// per-client append-only history over a key-value backend. a
// client's whole history is one json document under their
// sanitized key - small catalogs, single evaluator, so the
// read-modify-write cycle stays cheap.
type Store struct {
	backend kv.Store
}

func NewStore(backend kv.Store) *Store {
	return &Store{backend: backend}
}

// returns the client's history in insertion order. an unknown
// client has an empty history, not an error.
func (s *Store) List(clientKey string) ([]AssessmentRecord, error) {
	if clientKey == "" {
		return nil, ErrInvalidClientKey
	}
	data, ok, err := s.backend.Get(clientKey)
	if err != nil {
		return nil, errors.Wrap(err, "load client history")
	}
	if !ok {
		return nil, nil
	}
	var recs []AssessmentRecord
	if err := json.Unmarshal(data, &recs); err != nil {
		return nil, errors.Wrap(err, "decode client history")
	}
	return recs, nil
}

// Append adds a record to the end of the client's history.
func (s *Store) Append(clientKey string, rec AssessmentRecord) error {
	recs, err := s.List(clientKey)
	if err != nil {
		return err
	}
	recs = append(recs, rec)
	return s.save(clientKey, recs)
}

// removes the record with the given id. removing an id the
// history does not hold is a no-op, not an error.
func (s *Store) Remove(clientKey string, id int64) error {
	recs, err := s.List(clientKey)
	if err != nil {
		return err
	}
	kept := recs[:0]
	for _, r := range recs {
		if r.ID != id {
			kept = append(kept, r)
		}
	}
	if len(kept) == len(recs) {
		return nil
	}
	return s.save(clientKey, kept)
}

// Find returns the record with the given id, or ErrNotFound.
func (s *Store) Find(clientKey string, id int64) (AssessmentRecord, error) {
	recs, err := s.List(clientKey)
	if err != nil {
		return AssessmentRecord{}, err
	}
	for _, r := range recs {
		if r.ID == id {
			return r, nil
		}
	}
	return AssessmentRecord{}, ErrNotFound
}

func (s *Store) save(clientKey string, recs []AssessmentRecord) error {
	data, err := json.Marshal(recs)
	if err != nil {
		return errors.Wrap(err, "encode client history")
	}
	if err := s.backend.Set(clientKey, data); err != nil {
		return errors.Wrap(err, "persist client history")
	}
	return nil
}
