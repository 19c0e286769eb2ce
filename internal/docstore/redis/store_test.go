package redis

import (
	"context"
	"errors"
	"testing"

	"github.com/go-redis/redismock/v9"

	"github.com/dwikikusuma/pos/internal/docstore"
)

func TestGet(t *testing.T) {
	db, mock := redismock.NewClientMock()
	s := New(db, "pos")
	ctx := context.Background()

	mock.ExpectGet("pos:products:p1").SetVal(`{"name":"Tea","stock":3}`)

	doc, err := s.Get(ctx, "products", "p1")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if doc.Fields["name"] != "Tea" || doc.Fields["stock"] != float64(3) {
		t.Errorf("unexpected fields: %+v", doc.Fields)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Error(err)
	}
}

func TestGetMissing(t *testing.T) {
	db, mock := redismock.NewClientMock()
	s := New(db, "pos")

	mock.ExpectGet("pos:products:p1").RedisNil()

	_, err := s.Get(context.Background(), "products", "p1")
	if !errors.Is(err, docstore.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestGetFailureIsPersistenceError(t *testing.T) {
	db, mock := redismock.NewClientMock()
	s := New(db, "pos")

	mock.ExpectGet("pos:products:p1").SetErr(errors.New("connection refused"))

	_, err := s.Get(context.Background(), "products", "p1")
	var pe *docstore.PersistenceError
	if !errors.As(err, &pe) {
		t.Fatalf("expected PersistenceError, got %v", err)
	}
	if pe.Op != "get" || pe.Collection != "products" {
		t.Errorf("unexpected error detail: %+v", pe)
	}
}

func TestSet(t *testing.T) {
	db, mock := redismock.NewClientMock()
	s := New(db, "pos")

	mock.ExpectTxPipeline()
	mock.ExpectSet("pos:sales:t1", `{"total":35}`, 0).SetVal("OK")
	mock.ExpectSAdd("pos:sales", "t1").SetVal(1)
	mock.ExpectTxPipelineExec()

	if err := s.Set(context.Background(), "sales", "t1", docstore.Fields{"total": 35}); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Error(err)
	}
}

func TestDeleteMissing(t *testing.T) {
	db, mock := redismock.NewClientMock()
	s := New(db, "pos")

	mock.ExpectDel("pos:products:p1").SetVal(0)

	err := s.Delete(context.Background(), "products", "p1")
	if !errors.Is(err, docstore.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestStreamAll(t *testing.T) {
	db, mock := redismock.NewClientMock()
	s := New(db, "pos")

	mock.ExpectSMembers("pos:sales").SetVal([]string{"a", "b"})
	mock.ExpectMGet("pos:sales:a", "pos:sales:b").SetVal([]interface{}{`{"total":1}`, nil})

	docs, err := s.StreamAll(context.Background(), "sales")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(docs) != 1 || docs[0].ID != "a" {
		t.Errorf("expected only document a, got %+v", docs)
	}
}

func TestKeyLayout(t *testing.T) {
	db, _ := redismock.NewClientMock()

	tests := []struct {
		prefix  string
		wantDoc string
		wantSet string
	}{
		{prefix: "pos", wantDoc: "pos:products:p1", wantSet: "pos:products"},
		{prefix: "pos:", wantDoc: "pos:products:p1", wantSet: "pos:products"},
		{prefix: "", wantDoc: "products:p1", wantSet: "products"},
	}
	for _, tt := range tests {
		s := New(db, tt.prefix)
		if got := s.docKey("products", "p1"); got != tt.wantDoc {
			t.Errorf("prefix %q: docKey = %q, want %q", tt.prefix, got, tt.wantDoc)
		}
		if got := s.setKey("products"); got != tt.wantSet {
			t.Errorf("prefix %q: setKey = %q, want %q", tt.prefix, got, tt.wantSet)
		}
	}
}
