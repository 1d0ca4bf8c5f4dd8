// Package http implements the record store contract against a remote
// record API. Calls go through a circuit breaker so a degraded backend
// fails fast instead of tying up request handlers.
package http

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/apper-canvas/realmquickcart/internal/recordstore"
	apperrors "github.com/apper-canvas/realmquickcart/pkg/errors"
	"github.com/apper-canvas/realmquickcart/pkg/httpclient"
)

// Config holds remote record store configuration.
type Config struct {
	BaseURL string
	APIKey  string
}

// Store talks to the remote record API.
type Store struct {
	client  *httpclient.CircuitBreakerClient
	baseURL string
	apiKey  string
	logger  *slog.Logger
}

// New creates a remote record store client.
func New(cfg Config, client *httpclient.CircuitBreakerClient, logger *slog.Logger) *Store {
	return &Store{
		client:  client,
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		apiKey:  cfg.APIKey,
		logger:  logger,
	}
}

// envelope is the response wrapper of every record API call.
type envelope struct {
	Success bool               `json:"success"`
	Message string             `json:"message,omitempty"`
	Data    recordstore.Record `json:"data,omitempty"`
	Results json.RawMessage    `json:"results,omitempty"`
}

// batchResult is one per-record outcome of a create or update call.
type batchResult struct {
	Success bool               `json:"success"`
	Message string             `json:"message,omitempty"`
	Data    recordstore.Record `json:"data,omitempty"`
}

// Fetch queries a table for matching records.
func (s *Store) Fetch(ctx context.Context, table string, query recordstore.Query) ([]recordstore.Record, error) {
	env, err := s.call(ctx, http.MethodPost, s.tableURL(table)+"/fetch", query)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", table, err)
	}

	var records []recordstore.Record
	if len(env.Results) > 0 {
		if err := json.Unmarshal(env.Results, &records); err != nil {
			return nil, fmt.Errorf("fetch %s: decode results: %w", table, err)
		}
	}
	return records, nil
}

// GetByID retrieves a single record.
func (s *Store) GetByID(ctx context.Context, table string, id int) (recordstore.Record, error) {
	env, err := s.call(ctx, http.MethodGet, s.tableURL(table)+"/records/"+strconv.Itoa(id), nil)
	if err != nil {
		if apperrors.HTTPStatus(err) == http.StatusNotFound {
			return nil, apperrors.NotFound(table, strconv.Itoa(id))
		}
		return nil, fmt.Errorf("get %s/%d: %w", table, id, err)
	}
	if env.Data == nil {
		return nil, apperrors.NotFound(table, strconv.Itoa(id))
	}
	return env.Data, nil
}

// Create inserts a batch of records and returns the persisted records with
// their assigned ids. Any failed record fails the whole call.
func (s *Store) Create(ctx context.Context, table string, records []recordstore.Record) ([]recordstore.Record, error) {
	return s.writeBatch(ctx, http.MethodPost, table, records)
}

// Update modifies a batch of records matched by their "Id" field.
func (s *Store) Update(ctx context.Context, table string, records []recordstore.Record) ([]recordstore.Record, error) {
	return s.writeBatch(ctx, http.MethodPatch, table, records)
}

func (s *Store) writeBatch(ctx context.Context, method, table string, records []recordstore.Record) ([]recordstore.Record, error) {
	env, err := s.call(ctx, method, s.tableURL(table)+"/records", map[string]any{
		"records": records,
	})
	if err != nil {
		return nil, fmt.Errorf("write %s: %w", table, err)
	}

	var results []batchResult
	if err := json.Unmarshal(env.Results, &results); err != nil {
		return nil, fmt.Errorf("write %s: decode results: %w", table, err)
	}

	out := make([]recordstore.Record, 0, len(results))
	for _, res := range results {
		if !res.Success {
			s.logger.WarnContext(ctx, "record write rejected",
				slog.String("table", table),
				slog.String("message", res.Message),
			)
			return nil, fmt.Errorf("write %s: %s", table, res.Message)
		}
		out = append(out, res.Data)
	}
	return out, nil
}

// Delete removes records by id.
func (s *Store) Delete(ctx context.Context, table string, ids []int) error {
	_, err := s.call(ctx, http.MethodDelete, s.tableURL(table)+"/records", map[string]any{
		"RecordIds": ids,
	})
	if err != nil {
		return fmt.Errorf("delete from %s: %w", table, err)
	}
	return nil
}

func (s *Store) tableURL(table string) string {
	return s.baseURL + "/api/tables/" + table
}

// call performs one request and decodes the envelope. A success=false
// envelope is an error even on HTTP 200.
func (s *Store) call(ctx context.Context, method, url string, body any) (*envelope, error) {
	var reqBody io.Reader = http.NoBody
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("encode request: %w", err)
		}
		reqBody = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, reqBody)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if s.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+s.apiKey)
	}

	resp, err := s.client.Do(ctx, req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 10<<20))
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode == http.StatusNotFound {
		return nil, apperrors.NotFound("record", "requested")
	}
	if resp.StatusCode >= 400 {
		return nil, fmt.Errorf("record api returned %d: %s", resp.StatusCode, strings.TrimSpace(string(raw)))
	}

	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	if !env.Success {
		return nil, fmt.Errorf("record api: %s", env.Message)
	}
	return &env, nil
}
