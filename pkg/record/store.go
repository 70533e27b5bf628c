package record

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
)

// Store holds the normalized records for one run, keyed by id while keeping
// the extractor's original ordering. The store is filled once at load time
// and is read-only afterwards.
type Store struct {
	order   []string
	records map[string]*Record
}

func NewStore() *Store {
	return &Store{
		records: make(map[string]*Record),
	}
}

// Add appends a record. Duplicate or empty ids are rejected; the extractor
// contract guarantees one entry per id.
func (s *Store) Add(rec *Record) error {
	if rec == nil || rec.Id == "" {
		return fmt.Errorf("record has no id")
	}
	if _, exists := s.records[rec.Id]; exists {
		return fmt.Errorf("duplicate record id %s", rec.Id)
	}
	s.order = append(s.order, rec.Id)
	s.records[rec.Id] = rec
	return nil
}

func (s *Store) Get(id string) (*Record, bool) {
	rec, ok := s.records[id]
	return rec, ok
}

func (s *Store) Len() int {
	return len(s.order)
}

// All returns the records in load order.
func (s *Store) All() []*Record {
	out := make([]*Record, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, s.records[id])
	}
	return out
}

// Filter returns a new store restricted to the given ids (when non-empty)
// and capped at maxRecords (when > 0), preserving load order.
func (s *Store) Filter(validIds []string, maxRecords int) *Store {
	allowed := make(map[string]struct{}, len(validIds))
	for _, id := range validIds {
		allowed[id] = struct{}{}
	}

	filtered := NewStore()
	for _, id := range s.order {
		if len(allowed) > 0 {
			if _, ok := allowed[id]; !ok {
				continue
			}
		}
		if maxRecords > 0 && filtered.Len() >= maxRecords {
			break
		}
		// Add cannot fail here: ids are unique in the source store.
		_ = filtered.Add(s.records[id])
	}
	return filtered
}

// LoadStore reads a normalized database JSON file produced by the extractor.
// The file is an ordered array of records; a legacy id-keyed object form is
// accepted as well (ordering then follows the object's key order as decoded).
func LoadStore(path string) (*Store, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read record database: %w", err)
	}
	return ParseStore(data)
}

func ParseStore(data []byte) (*Store, error) {
	store := NewStore()

	var list []*Record
	if err := json.Unmarshal(data, &list); err == nil {
		for _, rec := range list {
			if err := store.Add(rec); err != nil {
				return nil, fmt.Errorf("record database: %w", err)
			}
		}
		return store, nil
	}

	var byId map[string]*Record
	if err := json.Unmarshal(data, &byId); err != nil {
		return nil, fmt.Errorf("record database is neither an array nor an object: %w", err)
	}
	ids := make([]string, 0, len(byId))
	for id := range byId {
		ids = append(ids, id)
	}
	// Object form carries no ordering; fall back to sorted ids so repeated
	// loads stay deterministic.
	sort.Strings(ids)
	for _, id := range ids {
		rec := byId[id]
		if rec.Id == "" {
			rec.Id = id
		}
		if err := store.Add(rec); err != nil {
			return nil, fmt.Errorf("record database: %w", err)
		}
	}
	return store, nil
}
