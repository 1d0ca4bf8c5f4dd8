// Package postgres implements the record store contract on a single
// generic jsonb table, for self-hosted deployments without the remote
// record API.
package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"

	"github.com/jackc/pgx/v5"

	"github.com/apper-canvas/realmquickcart/internal/recordstore"
	"github.com/apper-canvas/realmquickcart/pkg/database"
	apperrors "github.com/apper-canvas/realmquickcart/pkg/errors"
)

// Schema is the DDL for the records table.
const Schema = `
CREATE TABLE IF NOT EXISTS records (
	id       BIGSERIAL PRIMARY KEY,
	resource TEXT NOT NULL,
	data     JSONB NOT NULL DEFAULT '{}'::jsonb
);
CREATE INDEX IF NOT EXISTS idx_records_resource ON records (resource);
`

// Store persists records of all tables in one jsonb-backed relation,
// keyed by resource name. Query filters and ordering are evaluated
// in-process so semantics match the other store implementations.
type Store struct {
	pool database.DBTX
}

// New creates a PostgreSQL-backed record store.
func New(pool database.DBTX) *Store {
	return &Store{pool: pool}
}

// Fetch returns records of a table matching the query.
func (s *Store) Fetch(ctx context.Context, table string, query recordstore.Query) ([]recordstore.Record, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT id, data FROM records WHERE resource = $1 ORDER BY id`, table)
	if err != nil {
		return nil, fmt.Errorf("query records: %w", err)
	}
	defer rows.Close()

	var records []recordstore.Record
	for rows.Next() {
		var id int64
		var data []byte
		if err := rows.Scan(&id, &data); err != nil {
			return nil, fmt.Errorf("scan record: %w", err)
		}
		rec, err := decodeRecord(id, data)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate records: %w", err)
	}

	return recordstore.ApplyQuery(records, query), nil
}

// GetByID returns the record with the given id.
func (s *Store) GetByID(ctx context.Context, table string, id int) (recordstore.Record, error) {
	var data []byte
	err := s.pool.QueryRow(ctx,
		`SELECT data FROM records WHERE resource = $1 AND id = $2`, table, id,
	).Scan(&data)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperrors.NotFound(table, strconv.Itoa(id))
	}
	if err != nil {
		return nil, fmt.Errorf("query record: %w", err)
	}
	return decodeRecord(int64(id), data)
}

// Create inserts records and returns them with their assigned ids.
func (s *Store) Create(ctx context.Context, table string, records []recordstore.Record) ([]recordstore.Record, error) {
	out := make([]recordstore.Record, 0, len(records))
	for _, rec := range records {
		data, err := encodeRecord(rec)
		if err != nil {
			return nil, err
		}

		var id int64
		err = s.pool.QueryRow(ctx,
			`INSERT INTO records (resource, data) VALUES ($1, $2) RETURNING id`,
			table, data,
		).Scan(&id)
		if err != nil {
			return nil, fmt.Errorf("insert record: %w", err)
		}

		created, err := decodeRecord(id, data)
		if err != nil {
			return nil, err
		}
		out = append(out, created)
	}
	return out, nil
}

// Update merges each record's fields into the stored jsonb document,
// matched by the record's "Id".
func (s *Store) Update(ctx context.Context, table string, records []recordstore.Record) ([]recordstore.Record, error) {
	out := make([]recordstore.Record, 0, len(records))
	for _, rec := range records {
		id := rec.ID()
		patch, err := encodeRecord(rec)
		if err != nil {
			return nil, err
		}

		var data []byte
		err = s.pool.QueryRow(ctx,
			`UPDATE records SET data = data || $3::jsonb WHERE resource = $1 AND id = $2 RETURNING data`,
			table, id, patch,
		).Scan(&data)
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NotFound(table, strconv.Itoa(id))
		}
		if err != nil {
			return nil, fmt.Errorf("update record: %w", err)
		}

		updated, err := decodeRecord(int64(id), data)
		if err != nil {
			return nil, err
		}
		out = append(out, updated)
	}
	return out, nil
}

// Delete removes records by id. Absent ids are ignored.
func (s *Store) Delete(ctx context.Context, table string, ids []int) error {
	_, err := s.pool.Exec(ctx,
		`DELETE FROM records WHERE resource = $1 AND id = ANY($2)`, table, ids)
	if err != nil {
		return fmt.Errorf("delete records: %w", err)
	}
	return nil
}

// encodeRecord serializes a record's fields to jsonb, excluding the id
// which lives in its own column.
func encodeRecord(rec recordstore.Record) ([]byte, error) {
	fields := make(map[string]any, len(rec))
	for k, v := range rec {
		if k == "Id" {
			continue
		}
		fields[k] = v
	}
	data, err := json.Marshal(fields)
	if err != nil {
		return nil, fmt.Errorf("encode record: %w", err)
	}
	return data, nil
}

func decodeRecord(id int64, data []byte) (recordstore.Record, error) {
	rec := recordstore.Record{}
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, fmt.Errorf("decode record: %w", err)
	}
	rec["Id"] = int(id)
	return rec, nil
}
