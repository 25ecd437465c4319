package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"regexp"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Postgres is a Store keeping each document as a JSONB row in a dedicated
// table (id TEXT PRIMARY KEY, doc JSONB). Scan pulls the collection and
// applies the predicate in process — the table is treated as opaque keyed
// storage, not a relational schema.
type Postgres[T any] struct {
	pool  *pgxpool.Pool
	table string
}

// Table names are interpolated into SQL, so only plain identifiers are
// accepted.
var identPattern = regexp.MustCompile(`^[a-z][a-z0-9_]*$`)

// NewPostgres returns a Postgres store over the given table.
func NewPostgres[T any](pool *pgxpool.Pool, table string) (*Postgres[T], error) {
	if !identPattern.MatchString(table) {
		return nil, fmt.Errorf("invalid table name %q", table)
	}
	return &Postgres[T]{pool: pool, table: table}, nil
}

// EnsureSchema creates the collection table if it does not exist yet.
func (s *Postgres[T]) EnsureSchema(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, fmt.Sprintf(
		`CREATE TABLE IF NOT EXISTS %s (
		   id  TEXT PRIMARY KEY,
		   doc JSONB NOT NULL
		 )`, s.table))
	if err != nil {
		return fmt.Errorf("create table %s: %w", s.table, err)
	}
	return nil
}

func (s *Postgres[T]) Put(ctx context.Context, id string, doc T) error {
	b, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("marshal document %s: %w", id, err)
	}
	_, err = s.pool.Exec(ctx, fmt.Sprintf(
		`INSERT INTO %s (id, doc) VALUES ($1, $2::jsonb)
		 ON CONFLICT (id) DO UPDATE SET doc = EXCLUDED.doc`, s.table),
		id, string(b))
	if err != nil {
		return fmt.Errorf("put %s/%s: %w", s.table, id, err)
	}
	return nil
}

func (s *Postgres[T]) Get(ctx context.Context, id string) (T, bool, error) {
	var doc T
	var raw []byte
	err := s.pool.QueryRow(ctx, fmt.Sprintf(
		`SELECT doc FROM %s WHERE id = $1`, s.table), id).Scan(&raw)
	if errors.Is(err, pgx.ErrNoRows) {
		return doc, false, nil
	}
	if err != nil {
		return doc, false, fmt.Errorf("get %s/%s: %w", s.table, id, err)
	}
	if err := json.Unmarshal(raw, &doc); err != nil {
		return doc, false, fmt.Errorf("unmarshal %s/%s: %w", s.table, id, err)
	}
	return doc, true, nil
}

func (s *Postgres[T]) Delete(ctx context.Context, id string) error {
	_, err := s.pool.Exec(ctx, fmt.Sprintf(
		`DELETE FROM %s WHERE id = $1`, s.table), id)
	if err != nil {
		return fmt.Errorf("delete %s/%s: %w", s.table, id, err)
	}
	return nil
}

func (s *Postgres[T]) Scan(ctx context.Context, pred func(T) bool) ([]T, error) {
	rows, err := s.pool.Query(ctx, fmt.Sprintf(`SELECT doc FROM %s`, s.table))
	if err != nil {
		return nil, fmt.Errorf("scan %s: %w", s.table, err)
	}
	defer rows.Close()

	out := make([]T, 0)
	for rows.Next() {
		var raw []byte
		if err := rows.Scan(&raw); err != nil {
			return nil, fmt.Errorf("scan %s: %w", s.table, err)
		}
		var doc T
		if err := json.Unmarshal(raw, &doc); err != nil {
			return nil, fmt.Errorf("unmarshal during scan of %s: %w", s.table, err)
		}
		if pred == nil || pred(doc) {
			out = append(out, doc)
		}
	}
	return out, rows.Err()
}
