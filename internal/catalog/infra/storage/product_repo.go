package storage

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/shopspring/decimal"

	"github.com/dwikikusuma/pos/internal/catalog/app"
	"github.com/dwikikusuma/pos/internal/catalog/domain"
	"github.com/dwikikusuma/pos/internal/docstore"
)

// productDoc is the stored shape of a product. Prices are plain numbers so that
// report consumers can read them directly.
type productDoc struct {
	Name      string  `json:"name"`
	Price     float64 `json:"price"`
	Stock     int64   `json:"stock"`
	CreatedAt float64 `json:"created_at"`
}

type ProductRepo struct {
	store docstore.Gateway
	now   func() time.Time
}

func NewProductRepo(store docstore.Gateway) *ProductRepo {
	return &ProductRepo{store: store, now: time.Now}
}

func (r *ProductRepo) Create(ctx context.Context, p domain.Product) (domain.Product, error) {
	p.CreatedAt = r.now().Truncate(time.Millisecond)
	fields, err := docstore.Encode(toDoc(p))
	if err != nil {
		return domain.Product{}, err
	}

	id, err := r.store.Add(ctx, docstore.CollectionProducts, fields)
	if err != nil {
		return domain.Product{}, err
	}
	p.ID = id
	return p, nil
}

func (r *ProductRepo) Get(ctx context.Context, id string) (domain.Product, error) {
	doc, err := r.store.Get(ctx, docstore.CollectionProducts, id)
	if errors.Is(err, docstore.ErrNotFound) {
		return domain.Product{}, fmt.Errorf("product %s: %w", id, app.ErrNotFound)
	}
	if err != nil {
		return domain.Product{}, err
	}
	return fromDoc(doc)
}

func (r *ProductRepo) Update(ctx context.Context, p domain.Product) error {
	err := r.store.Update(ctx, docstore.CollectionProducts, p.ID, docstore.Fields{
		"name":  p.Name,
		"price": p.Price.InexactFloat64(),
		"stock": p.Stock,
	})
	return mapErr(p.ID, err)
}

func (r *ProductRepo) SetStock(ctx context.Context, id string, stock int64) error {
	err := r.store.Update(ctx, docstore.CollectionProducts, id, docstore.Fields{"stock": stock})
	return mapErr(id, err)
}

func (r *ProductRepo) Delete(ctx context.Context, id string) error {
	return mapErr(id, r.store.Delete(ctx, docstore.CollectionProducts, id))
}

func (r *ProductRepo) List(ctx context.Context) ([]domain.Product, error) {
	docs, err := r.store.StreamAll(ctx, docstore.CollectionProducts)
	if err != nil {
		return nil, err
	}

	out := make([]domain.Product, 0, len(docs))
	for _, doc := range docs {
		p, err := fromDoc(doc)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, nil
}

func mapErr(id string, err error) error {
	if errors.Is(err, docstore.ErrNotFound) {
		return fmt.Errorf("product %s: %w", id, app.ErrNotFound)
	}
	return err
}

func toDoc(p domain.Product) productDoc {
	return productDoc{
		Name:      p.Name,
		Price:     p.Price.InexactFloat64(),
		Stock:     p.Stock,
		CreatedAt: float64(p.CreatedAt.UnixMilli()) / 1000,
	}
}

func fromDoc(doc docstore.Document) (domain.Product, error) {
	var d productDoc
	if err := docstore.Decode(doc.Fields, &d); err != nil {
		return domain.Product{}, fmt.Errorf("decode product %s: %w", doc.ID, err)
	}
	return domain.Product{
		ID:        doc.ID,
		Name:      d.Name,
		Price:     decimal.NewFromFloat(d.Price),
		Stock:     d.Stock,
		CreatedAt: time.UnixMilli(int64(math.Round(d.CreatedAt * 1000))),
	}, nil
}
