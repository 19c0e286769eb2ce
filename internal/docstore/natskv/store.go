// Package natskv stores each collection in its own JetStream key-value bucket.
package natskv

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/nats-io/nats.go/jetstream"

	"github.com/dwikikusuma/pos/internal/docstore"
)

// maxUpdateAttempts bounds the compare-and-set loop in Update.
const maxUpdateAttempts = 5

type Store struct {
	js     jetstream.JetStream
	prefix string

	mu      sync.Mutex
	buckets map[string]jetstream.KeyValue
}

func New(js jetstream.JetStream, prefix string) *Store {
	return &Store{
		js:      js,
		prefix:  prefix,
		buckets: make(map[string]jetstream.KeyValue),
	}
}

// bucket returns the bucket for a collection, creating it on first use.
func (s *Store) bucket(ctx context.Context, collection string) (jetstream.KeyValue, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if kv, ok := s.buckets[collection]; ok {
		return kv, nil
	}
	name := strings.ToUpper(s.prefix + collection)
	kv, err := s.js.CreateOrUpdateKeyValue(ctx, jetstream.KeyValueConfig{
		Bucket:      name,
		Description: "pos " + collection,
		History:     1,
	})
	if err != nil {
		return nil, fmt.Errorf("kv bucket %s: %w", name, err)
	}
	s.buckets[collection] = kv
	return kv, nil
}

func (s *Store) Get(ctx context.Context, collection, id string) (docstore.Document, error) {
	kv, err := s.bucket(ctx, collection)
	if err != nil {
		return docstore.Document{}, docstore.Wrap("get", collection, id, err)
	}
	doc, _, err := s.get(ctx, kv, collection, id)
	return doc, err
}

func (s *Store) get(ctx context.Context, kv jetstream.KeyValue, collection, id string) (docstore.Document, uint64, error) {
	entry, err := kv.Get(ctx, id)
	if errors.Is(err, jetstream.ErrKeyNotFound) {
		return docstore.Document{}, 0, docstore.ErrNotFound
	}
	if err != nil {
		return docstore.Document{}, 0, docstore.Wrap("get", collection, id, err)
	}
	var f docstore.Fields
	if err := json.Unmarshal(entry.Value(), &f); err != nil {
		return docstore.Document{}, 0, docstore.Wrap("get", collection, id, err)
	}
	return docstore.Document{ID: id, Fields: f}, entry.Revision(), nil
}

func (s *Store) Set(ctx context.Context, collection, id string, fields docstore.Fields) error {
	kv, err := s.bucket(ctx, collection)
	if err != nil {
		return docstore.Wrap("set", collection, id, err)
	}
	raw, err := json.Marshal(fields)
	if err != nil {
		return docstore.Wrap("set", collection, id, err)
	}
	_, err = kv.Put(ctx, id, raw)
	return docstore.Wrap("set", collection, id, err)
}

// Update merges partial into the stored document with a revision-checked write,
// retrying when another writer got there first.
func (s *Store) Update(ctx context.Context, collection, id string, partial docstore.Fields) error {
	kv, err := s.bucket(ctx, collection)
	if err != nil {
		return docstore.Wrap("update", collection, id, err)
	}

	for attempt := 0; attempt < maxUpdateAttempts; attempt++ {
		doc, rev, err := s.get(ctx, kv, collection, id)
		if err != nil {
			return err
		}
		raw, err := json.Marshal(docstore.Merge(doc.Fields, partial))
		if err != nil {
			return docstore.Wrap("update", collection, id, err)
		}
		_, err = kv.Update(ctx, id, raw, rev)
		if err == nil {
			return nil
		}
		if !isConflict(err) {
			return docstore.Wrap("update", collection, id, err)
		}
	}
	return docstore.Wrap("update", collection, id, fmt.Errorf("revision conflict after %d attempts", maxUpdateAttempts))
}

func (s *Store) Delete(ctx context.Context, collection, id string) error {
	kv, err := s.bucket(ctx, collection)
	if err != nil {
		return docstore.Wrap("delete", collection, id, err)
	}
	if _, _, err := s.get(ctx, kv, collection, id); err != nil {
		return err
	}
	return docstore.Wrap("delete", collection, id, kv.Delete(ctx, id))
}

func (s *Store) Add(ctx context.Context, collection string, fields docstore.Fields) (string, error) {
	id := uuid.NewString()
	if err := s.Set(ctx, collection, id, fields); err != nil {
		return "", err
	}
	return id, nil
}

func (s *Store) StreamAll(ctx context.Context, collection string) ([]docstore.Document, error) {
	kv, err := s.bucket(ctx, collection)
	if err != nil {
		return nil, docstore.Wrap("stream", collection, "", err)
	}

	lister, err := kv.ListKeys(ctx)
	if err != nil {
		return nil, docstore.Wrap("stream", collection, "", err)
	}
	defer func() { _ = lister.Stop() }()

	var out []docstore.Document
	for key := range lister.Keys() {
		doc, _, err := s.get(ctx, kv, collection, key)
		if errors.Is(err, docstore.ErrNotFound) {
			continue
		}
		if err != nil {
			return nil, err
		}
		out = append(out, doc)
	}
	return out, nil
}

func isConflict(err error) bool {
	if errors.Is(err, jetstream.ErrKeyExists) {
		return true
	}
	var apiErr *jetstream.APIError
	return errors.As(err, &apiErr) && apiErr.ErrorCode == jetstream.JSErrCodeStreamWrongLastSequence
}

var _ docstore.Gateway = (*Store)(nil)
