// Package redis keeps each document as a JSON string and each collection as a set of ids.
package redis

import (
	"context"
	"encoding/json"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/dwikikusuma/pos/internal/docstore"
)

type Store struct {
	client *redis.Client
	prefix string
}

// New namespaces every key under prefix, as in "<prefix>:<collection>:<id>".
// An empty prefix leaves keys unprefixed.
func New(client *redis.Client, prefix string) *Store {
	return &Store{client: client, prefix: strings.TrimSuffix(prefix, ":")}
}

func (s *Store) docKey(collection, id string) string {
	return s.setKey(collection) + ":" + id
}

func (s *Store) setKey(collection string) string {
	if s.prefix == "" {
		return collection
	}
	return s.prefix + ":" + collection
}

func (s *Store) Get(ctx context.Context, collection, id string) (docstore.Document, error) {
	raw, err := s.client.Get(ctx, s.docKey(collection, id)).Bytes()
	if errors.Is(err, redis.Nil) {
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
	_, err = s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, s.docKey(collection, id), string(raw), 0)
		pipe.SAdd(ctx, s.setKey(collection), id)
		return nil
	})
	return docstore.Wrap("set", collection, id, err)
}

func (s *Store) Update(ctx context.Context, collection, id string, partial docstore.Fields) error {
	doc, err := s.Get(ctx, collection, id)
	if err != nil {
		return err
	}
	raw, err := json.Marshal(docstore.Merge(doc.Fields, partial))
	if err != nil {
		return docstore.Wrap("update", collection, id, err)
	}
	// XX: only overwrite a key that still exists
	ok, err := s.client.SetXX(ctx, s.docKey(collection, id), string(raw), 0).Result()
	if err != nil {
		return docstore.Wrap("update", collection, id, err)
	}
	if !ok {
		return docstore.ErrNotFound
	}
	return nil
}

func (s *Store) Delete(ctx context.Context, collection, id string) error {
	n, err := s.client.Del(ctx, s.docKey(collection, id)).Result()
	if err != nil {
		return docstore.Wrap("delete", collection, id, err)
	}
	if n == 0 {
		return docstore.ErrNotFound
	}
	if err := s.client.SRem(ctx, s.setKey(collection), id).Err(); err != nil {
		return docstore.Wrap("delete", collection, id, err)
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
	ids, err := s.client.SMembers(ctx, s.setKey(collection)).Result()
	if err != nil {
		return nil, docstore.Wrap("stream", collection, "", err)
	}
	if len(ids) == 0 {
		return nil, nil
	}

	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = s.docKey(collection, id)
	}
	vals, err := s.client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, docstore.Wrap("stream", collection, "", err)
	}

	out := make([]docstore.Document, 0, len(vals))
	for i, v := range vals {
		str, ok := v.(string)
		if !ok {
			// removed between SMEMBERS and MGET
			continue
		}
		var f docstore.Fields
		if err := json.Unmarshal([]byte(str), &f); err != nil {
			return nil, docstore.Wrap("stream", collection, ids[i], err)
		}
		out = append(out, docstore.Document{ID: ids[i], Fields: f})
	}
	return out, nil
}

var _ docstore.Gateway = (*Store)(nil)
