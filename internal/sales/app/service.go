package app

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/dwikikusuma/pos/internal/sales/domain"
)

var (
	ErrInvalidInput = errors.New("invalid input")
	ErrNotFound     = errors.New("sale not found")
	ErrImmutable    = errors.New("sale is confirmed")
	ErrIDExhausted  = errors.New("could not allocate a transaction id")
)

const idAttempts = 5

type Service struct {
	repo  SaleRepo
	now   func() time.Time
	newID func() string
}

func NewService(repo SaleRepo) *Service {
	return &Service{
		repo: repo,
		now:  time.Now,
		newID: func() string {
			return uuid.NewString()[:8]
		},
	}
}

// SetIDGenerator replaces the transaction id source.
func (s *Service) SetIDGenerator(fn func() string) {
	s.newID = fn
}

// NewSale validates the items and builds an unsaved sale with its total computed once.
func (s *Service) NewSale(items []domain.SaleItem) (domain.Sale, error) {
	if len(items) == 0 {
		return domain.Sale{}, fmt.Errorf("%w: sale has no items", ErrInvalidInput)
	}

	total := decimal.Zero
	out := make([]domain.SaleItem, 0, len(items))
	for i, item := range items {
		if item.Quantity <= 0 {
			return domain.Sale{}, fmt.Errorf("%w: item %d: quantity must be positive, got %d", ErrInvalidInput, i, item.Quantity)
		}
		if item.Price.IsNegative() {
			return domain.Sale{}, fmt.Errorf("%w: item %d: price cannot be negative, got %s", ErrInvalidInput, i, item.Price)
		}
		total = total.Add(item.LineTotal())
		out = append(out, item)
	}

	return domain.Sale{
		Items:     out,
		Total:     total,
		Timestamp: s.now().Truncate(time.Millisecond),
	}, nil
}

// Record assigns a fresh transaction id and stores the sale with the given status.
// Ids are short, so a collision with an existing sale triggers a new draw.
func (s *Service) Record(ctx context.Context, sale domain.Sale, status domain.Status) (domain.Sale, error) {
	for range idAttempts {
		id := s.newID()
		_, err := s.repo.Get(ctx, id)
		if err == nil {
			continue
		}
		if !errors.Is(err, ErrNotFound) {
			return domain.Sale{}, err
		}

		sale.TransactionID = id
		sale.Status = status
		if err := s.repo.Create(ctx, sale); err != nil {
			return domain.Sale{}, err
		}
		return sale, nil
	}
	return domain.Sale{}, ErrIDExhausted
}

func (s *Service) Get(ctx context.Context, transactionID string) (domain.Sale, error) {
	return s.repo.Get(ctx, transactionID)
}

// MarkApplied records how much stock a pending sale has consumed so far.
func (s *Service) MarkApplied(ctx context.Context, transactionID string, applied map[string]int64) error {
	if err := s.requirePending(ctx, transactionID); err != nil {
		return err
	}
	return s.repo.SetApplied(ctx, transactionID, applied)
}

func (s *Service) Confirm(ctx context.Context, transactionID string) error {
	if err := s.requirePending(ctx, transactionID); err != nil {
		return err
	}
	return s.repo.SetStatus(ctx, transactionID, domain.StatusConfirmed)
}

// Discard deletes a pending sale. Confirmed sales are never deleted.
func (s *Service) Discard(ctx context.Context, transactionID string) error {
	if err := s.requirePending(ctx, transactionID); err != nil {
		return err
	}
	return s.repo.Delete(ctx, transactionID)
}

func (s *Service) requirePending(ctx context.Context, transactionID string) error {
	sale, err := s.repo.Get(ctx, transactionID)
	if err != nil {
		return err
	}
	if sale.Confirmed() {
		return fmt.Errorf("%w: %s", ErrImmutable, transactionID)
	}
	return nil
}

// ListConfirmed returns confirmed sales, newest first.
func (s *Service) ListConfirmed(ctx context.Context) ([]domain.Sale, error) {
	return s.list(ctx, domain.StatusConfirmed)
}

// ListPending returns sales left pending by an interrupted checkout.
func (s *Service) ListPending(ctx context.Context) ([]domain.Sale, error) {
	return s.list(ctx, domain.StatusPending)
}

func (s *Service) list(ctx context.Context, status domain.Status) ([]domain.Sale, error) {
	all, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}

	out := make([]domain.Sale, 0, len(all))
	for _, sale := range all {
		if sale.Status == status {
			out = append(out, sale)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Timestamp.Equal(out[j].Timestamp) {
			return out[i].TransactionID < out[j].TransactionID
		}
		return out[i].Timestamp.After(out[j].Timestamp)
	})
	return out, nil
}
