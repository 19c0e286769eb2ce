package storage

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/shopspring/decimal"

	"github.com/dwikikusuma/pos/internal/docstore"
	"github.com/dwikikusuma/pos/internal/sales/app"
	"github.com/dwikikusuma/pos/internal/sales/domain"
)

type saleItemDoc struct {
	ProductID string  `json:"product_id"`
	Name      string  `json:"name"`
	Price     float64 `json:"price"`
	Quantity  int64   `json:"quantity"`
}

// saleDoc is the stored shape read by reporting: timestamp is seconds since epoch.
type saleDoc struct {
	TransactionID string           `json:"transaction_id"`
	Items         []saleItemDoc    `json:"items"`
	Total         float64          `json:"total"`
	Timestamp     float64          `json:"timestamp"`
	Status        string           `json:"status,omitempty"`
	Applied       map[string]int64 `json:"applied,omitempty"`
}

type SaleRepo struct {
	store docstore.Gateway
}

func NewSaleRepo(store docstore.Gateway) *SaleRepo {
	return &SaleRepo{store: store}
}

func (r *SaleRepo) Create(ctx context.Context, sale domain.Sale) error {
	fields, err := docstore.Encode(toDoc(sale))
	if err != nil {
		return err
	}
	return r.store.Set(ctx, docstore.CollectionSales, sale.TransactionID, fields)
}

func (r *SaleRepo) Get(ctx context.Context, transactionID string) (domain.Sale, error) {
	doc, err := r.store.Get(ctx, docstore.CollectionSales, transactionID)
	if err != nil {
		return domain.Sale{}, mapErr(transactionID, err)
	}
	return fromDoc(doc)
}

func (r *SaleRepo) SetApplied(ctx context.Context, transactionID string, applied map[string]int64) error {
	err := r.store.Update(ctx, docstore.CollectionSales, transactionID, docstore.Fields{"applied": applied})
	return mapErr(transactionID, err)
}

func (r *SaleRepo) SetStatus(ctx context.Context, transactionID string, status domain.Status) error {
	err := r.store.Update(ctx, docstore.CollectionSales, transactionID, docstore.Fields{"status": string(status)})
	return mapErr(transactionID, err)
}

func (r *SaleRepo) Delete(ctx context.Context, transactionID string) error {
	return mapErr(transactionID, r.store.Delete(ctx, docstore.CollectionSales, transactionID))
}

func (r *SaleRepo) List(ctx context.Context) ([]domain.Sale, error) {
	docs, err := r.store.StreamAll(ctx, docstore.CollectionSales)
	if err != nil {
		return nil, err
	}

	out := make([]domain.Sale, 0, len(docs))
	for _, doc := range docs {
		s, err := fromDoc(doc)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, nil
}

func mapErr(id string, err error) error {
	if errors.Is(err, docstore.ErrNotFound) {
		return fmt.Errorf("sale %s: %w", id, app.ErrNotFound)
	}
	return err
}

func toDoc(s domain.Sale) saleDoc {
	items := make([]saleItemDoc, 0, len(s.Items))
	for _, it := range s.Items {
		items = append(items, saleItemDoc{
			ProductID: it.ProductID,
			Name:      it.Name,
			Price:     it.Price.InexactFloat64(),
			Quantity:  it.Quantity,
		})
	}
	return saleDoc{
		TransactionID: s.TransactionID,
		Items:         items,
		Total:         s.Total.InexactFloat64(),
		Timestamp:     float64(s.Timestamp.UnixMilli()) / 1000,
		Status:        string(s.Status),
		Applied:       s.Applied,
	}
}

func fromDoc(doc docstore.Document) (domain.Sale, error) {
	var d saleDoc
	if err := docstore.Decode(doc.Fields, &d); err != nil {
		return domain.Sale{}, fmt.Errorf("decode sale %s: %w", doc.ID, err)
	}

	items := make([]domain.SaleItem, 0, len(d.Items))
	for _, it := range d.Items {
		items = append(items, domain.SaleItem{
			ProductID: it.ProductID,
			Name:      it.Name,
			Price:     decimal.NewFromFloat(it.Price),
			Quantity:  it.Quantity,
		})
	}

	status := domain.Status(d.Status)
	if status == "" {
		// records written before sales carried a status were final
		status = domain.StatusConfirmed
	}
	id := d.TransactionID
	if id == "" {
		id = doc.ID
	}

	return domain.Sale{
		TransactionID: id,
		Items:         items,
		Total:         decimal.NewFromFloat(d.Total),
		Timestamp:     time.UnixMilli(int64(math.Round(d.Timestamp * 1000))),
		Status:        status,
		Applied:       d.Applied,
	}, nil
}
