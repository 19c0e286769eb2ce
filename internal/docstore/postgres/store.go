// Package postgres stores documents as jsonb rows and supports transactions.
package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/dwikikusuma/pos/internal/docstore"
)

const schema = `CREATE TABLE IF NOT EXISTS documents (
	collection text NOT NULL,
	id         text NOT NULL,
	fields     jsonb NOT NULL,
	updated_at timestamptz NOT NULL DEFAULT now(),
	PRIMARY KEY (collection, id)
)`

type querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

type txKey struct{}

type Store struct {
	pool *pgxpool.Pool
}

func New(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool}
}

// EnsureSchema creates the documents table if it does not exist.
func (s *Store) EnsureSchema(ctx context.Context) error {
	if _, err := s.pool.Exec(ctx, schema); err != nil {
		return fmt.Errorf("ensure schema: %w", err)
	}
	return nil
}

func (s *Store) q(ctx context.Context) querier {
	if tx, ok := ctx.Value(txKey{}).(pgx.Tx); ok {
		return tx
	}
	return s.pool
}

func (s *Store) Get(ctx context.Context, collection, id string) (docstore.Document, error) {
	query := `SELECT fields FROM documents WHERE collection = $1 AND id = $2`
	if _, ok := ctx.Value(txKey{}).(pgx.Tx); ok {
		// rows read inside a transaction are about to be rewritten
		query += ` FOR UPDATE`
	}

	var raw []byte
	err := s.q(ctx).QueryRow(ctx, query, collection, id).Scan(&raw)
	if errors.Is(err, pgx.ErrNoRows) {
		return docstore.Document{}, docstore.ErrNotFound
	}
	if err != nil {
		return docstore.Document{}, docstore.Wrap("get", collection, id, err)
	}

	var f docstore.Fields
	if err := json.Unmarshal(raw, &f); err != nil {
		return docstore.Document{}, docstore.Wrap("get", collection, id, err)
	}
	return docstore.Document{ID: id, Fields: f}, nil
}

func (s *Store) Set(ctx context.Context, collection, id string, fields docstore.Fields) error {
	raw, err := json.Marshal(fields)
	if err != nil {
		return docstore.Wrap("set", collection, id, err)
	}
	_, err = s.q(ctx).Exec(ctx, `INSERT INTO documents (collection, id, fields)
		VALUES ($1, $2, $3::jsonb)
		ON CONFLICT (collection, id) DO UPDATE SET fields = EXCLUDED.fields, updated_at = now()`,
		collection, id, string(raw))
	return docstore.Wrap("set", collection, id, err)
}

func (s *Store) Update(ctx context.Context, collection, id string, partial docstore.Fields) error {
	raw, err := json.Marshal(partial)
	if err != nil {
		return docstore.Wrap("update", collection, id, err)
	}
	tag, err := s.q(ctx).Exec(ctx, `UPDATE documents SET fields = fields || $3::jsonb, updated_at = now()
		WHERE collection = $1 AND id = $2`, collection, id, string(raw))
	if err != nil {
		return docstore.Wrap("update", collection, id, err)
	}
	if tag.RowsAffected() == 0 {
		return docstore.ErrNotFound
	}
	return nil
}

func (s *Store) Delete(ctx context.Context, collection, id string) error {
	tag, err := s.q(ctx).Exec(ctx, `DELETE FROM documents WHERE collection = $1 AND id = $2`, collection, id)
	if err != nil {
		return docstore.Wrap("delete", collection, id, err)
	}
	if tag.RowsAffected() == 0 {
		return docstore.ErrNotFound
	}
	return nil
}

func (s *Store) Add(ctx context.Context, collection string, fields docstore.Fields) (string, error) {
	id := uuid.NewString()
	if err := s.Set(ctx, collection, id, fields); err != nil {
		return "", err
	}
	return id, nil
}

func (s *Store) StreamAll(ctx context.Context, collection string) ([]docstore.Document, error) {
	rows, err := s.q(ctx).Query(ctx, `SELECT id, fields FROM documents WHERE collection = $1`, collection)
	if err != nil {
		return nil, docstore.Wrap("stream", collection, "", err)
	}
	defer rows.Close()

	var out []docstore.Document
	for rows.Next() {
		var (
			id  string
			raw []byte
		)
		if err := rows.Scan(&id, &raw); err != nil {
			return nil, docstore.Wrap("stream", collection, "", err)
		}
		var f docstore.Fields
		if err := json.Unmarshal(raw, &f); err != nil {
			return nil, docstore.Wrap("stream", collection, id, err)
		}
		out = append(out, docstore.Document{ID: id, Fields: f})
	}
	if err := rows.Err(); err != nil {
		return nil, docstore.Wrap("stream", collection, "", err)
	}
	return out, nil
}

// RunInTx runs fn inside a single database transaction. Nested calls join the outer one.
func (s *Store) RunInTx(ctx context.Context, fn func(ctx context.Context) error) error {
	if _, ok := ctx.Value(txKey{}).(pgx.Tx); ok {
		return fn(ctx)
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return docstore.Wrap("begin", "", "", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := fn(context.WithValue(ctx, txKey{}, tx)); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return docstore.Wrap("commit", "", "", err)
	}
	return nil
}

var (
	_ docstore.Gateway       = (*Store)(nil)
	_ docstore.Transactional = (*Store)(nil)
)
