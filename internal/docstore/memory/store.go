// Package memory is an in-process docstore.Gateway used for local runs and tests.
package memory

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/google/uuid"

	"github.com/dwikikusuma/pos/internal/docstore"
)

type txKey struct{}

// undoLog holds the pre-image of every document a transaction touched.
// A nil entry means the document did not exist.
type undoLog map[[2]string][]byte

type Store struct {
	mu   sync.RWMutex
	data map[string]map[string][]byte

	// txMu lets one transaction run at a time.
	txMu sync.Mutex

	newID func() string
}

func New() *Store {
	return &Store{
		data:  make(map[string]map[string][]byte),
		newID: uuid.NewString,
	}
}

func txLog(ctx context.Context) undoLog {
	log, _ := ctx.Value(txKey{}).(undoLog)
	return log
}

// write runs fn under the store lock, first saving the pre-image of the
// document when ctx belongs to a transaction.
func (s *Store) write(ctx context.Context, collection, id string, fn func() error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if log := txLog(ctx); log != nil {
		key := [2]string{collection, id}
		if _, seen := log[key]; !seen {
			log[key] = s.data[collection][id]
		}
	}
	return fn()
}

func (s *Store) Get(ctx context.Context, collection, id string) (docstore.Document, error) {
	if err := ctx.Err(); err != nil {
		return docstore.Document{}, docstore.Wrap("get", collection, id, err)
	}
	s.mu.RLock()
	raw, ok := s.data[collection][id]
	s.mu.RUnlock()
	if !ok {
		return docstore.Document{}, docstore.ErrNotFound
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
	return s.write(ctx, collection, id, func() error {
		s.bucket(collection)[id] = raw
		return nil
	})
}

func (s *Store) Update(ctx context.Context, collection, id string, partial docstore.Fields) error {
	return s.write(ctx, collection, id, func() error {
		raw, ok := s.data[collection][id]
		if !ok {
			return docstore.ErrNotFound
		}
		var cur docstore.Fields
		if err := json.Unmarshal(raw, &cur); err != nil {
			return docstore.Wrap("update", collection, id, err)
		}
		merged, err := json.Marshal(docstore.Merge(cur, partial))
		if err != nil {
			return docstore.Wrap("update", collection, id, err)
		}
		s.data[collection][id] = merged
		return nil
	})
}

func (s *Store) Delete(ctx context.Context, collection, id string) error {
	return s.write(ctx, collection, id, func() error {
		if _, ok := s.data[collection][id]; !ok {
			return docstore.ErrNotFound
		}
		delete(s.data[collection], id)
		return nil
	})
}

func (s *Store) Add(ctx context.Context, collection string, fields docstore.Fields) (string, error) {
	id := s.newID()
	if err := s.Set(ctx, collection, id, fields); err != nil {
		return "", err
	}
	return id, nil
}

func (s *Store) StreamAll(ctx context.Context, collection string) ([]docstore.Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, docstore.Wrap("stream", collection, "", err)
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]docstore.Document, 0, len(s.data[collection]))
	for id, raw := range s.data[collection] {
		var f docstore.Fields
		if err := json.Unmarshal(raw, &f); err != nil {
			return nil, docstore.Wrap("stream", collection, id, err)
		}
		out = append(out, docstore.Document{ID: id, Fields: f})
	}
	return out, nil
}

// RunInTx runs transactions one at a time and puts back every document fn
// touched if it fails. Writers outside a transaction are not blocked.
func (s *Store) RunInTx(ctx context.Context, fn func(ctx context.Context) error) error {
	if txLog(ctx) != nil {
		return fn(ctx)
	}

	s.txMu.Lock()
	defer s.txMu.Unlock()

	log := make(undoLog)
	if err := fn(context.WithValue(ctx, txKey{}, log)); err != nil {
		s.mu.Lock()
		for key, raw := range log {
			if raw == nil {
				delete(s.data[key[0]], key[1])
				continue
			}
			s.bucket(key[0])[key[1]] = raw
		}
		s.mu.Unlock()
		return err
	}
	return nil
}

// Len reports the number of documents in a collection.
func (s *Store) Len(collection string) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.data[collection])
}

func (s *Store) bucket(collection string) map[string][]byte {
	b, ok := s.data[collection]
	if !ok {
		b = make(map[string][]byte)
		s.data[collection] = b
	}
	return b
}

var (
	_ docstore.Gateway       = (*Store)(nil)
	_ docstore.Transactional = (*Store)(nil)
)
