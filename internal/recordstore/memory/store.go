// Package memory provides an in-process record store for tests and local
// development.
package memory

import (
	"context"
	"sort"
	"strconv"
	"sync"

	"github.com/apper-canvas/realmquickcart/internal/recordstore"
	apperrors "github.com/apper-canvas/realmquickcart/pkg/errors"
)

// Store keeps tables as maps of record id to record. Safe for concurrent use.
type Store struct {
	mu     sync.RWMutex
	tables map[string]map[int]recordstore.Record
	nextID int
}

// New creates an empty in-memory record store.
func New() *Store {
	return &Store{
		tables: make(map[string]map[int]recordstore.Record),
		nextID: 1,
	}
}

// Seed inserts records into a table preserving any "Id" values they carry,
// assigning fresh ids to records without one.
func (s *Store) Seed(table string, records ...recordstore.Record) {
	s.mu.Lock()
	defer s.mu.Unlock()
	t := s.table(table)
	for _, rec := range records {
		id := rec.ID()
		if id == 0 {
			id = s.nextID
		}
		if id >= s.nextID {
			s.nextID = id + 1
		}
		cp := cloneRecord(rec)
		cp["Id"] = id
		t[id] = cp
	}
}

func (s *Store) table(name string) map[int]recordstore.Record {
	t, ok := s.tables[name]
	if !ok {
		t = make(map[int]recordstore.Record)
		s.tables[name] = t
	}
	return t
}

// Fetch returns records matching the query, ordered by id before the
// query's own ordering is applied so results are deterministic.
func (s *Store) Fetch(_ context.Context, table string, query recordstore.Query) ([]recordstore.Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	t := s.tables[table]
	ids := make([]int, 0, len(t))
	for id := range t {
		ids = append(ids, id)
	}
	sort.Ints(ids)

	records := make([]recordstore.Record, 0, len(ids))
	for _, id := range ids {
		records = append(records, cloneRecord(t[id]))
	}
	return recordstore.ApplyQuery(records, query), nil
}

// GetByID returns the record with the given id.
func (s *Store) GetByID(_ context.Context, table string, id int) (recordstore.Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rec, ok := s.tables[table][id]
	if !ok {
		return nil, apperrors.NotFound(table, strconv.Itoa(id))
	}
	return cloneRecord(rec), nil
}

// Create inserts records, assigning fresh ids, and returns them.
func (s *Store) Create(_ context.Context, table string, records []recordstore.Record) ([]recordstore.Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	t := s.table(table)
	out := make([]recordstore.Record, 0, len(records))
	for _, rec := range records {
		cp := cloneRecord(rec)
		cp["Id"] = s.nextID
		t[s.nextID] = cp
		s.nextID++
		out = append(out, cloneRecord(cp))
	}
	return out, nil
}

// Update replaces the fields of existing records, matched by "Id".
func (s *Store) Update(_ context.Context, table string, records []recordstore.Record) ([]recordstore.Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	t := s.tables[table]
	out := make([]recordstore.Record, 0, len(records))
	for _, rec := range records {
		id := rec.ID()
		existing, ok := t[id]
		if !ok {
			return nil, apperrors.NotFound(table, strconv.Itoa(id))
		}
		for k, v := range rec {
			existing[k] = v
		}
		out = append(out, cloneRecord(existing))
	}
	return out, nil
}

// Delete removes records by id. Absent ids are ignored.
func (s *Store) Delete(_ context.Context, table string, ids []int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	t := s.tables[table]
	for _, id := range ids {
		delete(t, id)
	}
	return nil
}

func cloneRecord(rec recordstore.Record) recordstore.Record {
	cp := make(recordstore.Record, len(rec))
	for k, v := range rec {
		cp[k] = v
	}
	return cp
}
