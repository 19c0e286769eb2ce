// Package docstore is the persistence gateway: a small document-store contract with
// collections of JSON-compatible documents keyed by id.
package docstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
)

const (
	CollectionProducts = "products"
	CollectionSales    = "sales"
)

var (
	// ErrNotFound is returned when a document does not exist.
	ErrNotFound = errors.New("document not found")
)

// Fields is the body of a document. Values must be JSON-compatible.
type Fields map[string]any

type Document struct {
	ID     string
	Fields Fields
}

type Gateway interface {
	Get(ctx context.Context, collection, id string) (Document, error)
	// Set creates or fully overwrites a document.
	Set(ctx context.Context, collection, id string, fields Fields) error
	// Update merges top-level fields into an existing document.
	Update(ctx context.Context, collection, id string, partial Fields) error
	Delete(ctx context.Context, collection, id string) error
	// Add creates a document under a generated id.
	Add(ctx context.Context, collection string, fields Fields) (string, error)
	// StreamAll returns every document of a collection in no particular order.
	StreamAll(ctx context.Context, collection string) ([]Document, error)
}

// Transactional is implemented by gateways that can run several operations atomically.
// Operations invoked with the ctx passed to fn take part in the transaction.
type Transactional interface {
	RunInTx(ctx context.Context, fn func(ctx context.Context) error) error
}

// PersistenceError wraps a failure of the underlying store.
type PersistenceError struct {
	Op         string
	Collection string
	ID         string
	Err        error
}

func (e *PersistenceError) Error() string {
	if e.ID == "" {
		return fmt.Sprintf("docstore %s %s: %v", e.Op, e.Collection, e.Err)
	}
	return fmt.Sprintf("docstore %s %s/%s: %v", e.Op, e.Collection, e.ID, e.Err)
}

func (e *PersistenceError) Unwrap() error { return e.Err }

// Wrap returns err as a *PersistenceError unless it is nil or ErrNotFound.
func Wrap(op, collection, id string, err error) error {
	if err == nil || errors.Is(err, ErrNotFound) {
		return err
	}
	var pe *PersistenceError
	if errors.As(err, &pe) {
		return err
	}
	return &PersistenceError{Op: op, Collection: collection, ID: id, Err: err}
}

// Encode converts a tagged struct into Fields by way of JSON.
func Encode(v any) (Fields, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	var f Fields
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, err
	}
	return f, nil
}

// Decode fills a tagged struct from Fields.
func Decode(f Fields, v any) error {
	data, err := json.Marshal(f)
	if err != nil {
		return err
	}
	return json.Unmarshal(data, v)
}

// Merge returns base with the top-level keys of partial applied.
func Merge(base, partial Fields) Fields {
	out := make(Fields, len(base)+len(partial))
	for k, v := range base {
		out[k] = v
	}
	for k, v := range partial {
		out[k] = v
	}
	return out
}
