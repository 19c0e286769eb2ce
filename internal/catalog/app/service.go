package app

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/shopspring/decimal"

	"github.com/dwikikusuma/pos/internal/catalog/domain"
)

var (
	ErrInvalidInput = errors.New("invalid input")
	ErrNotFound     = errors.New("not found")
)

type Service struct {
	repo ProductRepo

	// stock read-modify-write is serialized per product
	locksMu sync.Mutex
	locks   map[string]*sync.Mutex
}

func NewService(repo ProductRepo) *Service {
	return &Service{
		repo:  repo,
		locks: make(map[string]*sync.Mutex),
	}
}

func validate(name string, price decimal.Decimal, stock int64) error {
	if name == "" {
		return fmt.Errorf("%w: name is required", ErrInvalidInput)
	}
	if price.IsNegative() {
		return fmt.Errorf("%w: price must not be negative, got %s", ErrInvalidInput, price)
	}
	if stock < 0 {
		return fmt.Errorf("%w: stock must not be negative, got %d", ErrInvalidInput, stock)
	}
	return nil
}

func (s *Service) CreateProduct(ctx context.Context, name string, price decimal.Decimal, stock int64) (domain.Product, error) {
	name = strings.TrimSpace(name)
	if err := validate(name, price, stock); err != nil {
		return domain.Product{}, err
	}

	p := domain.Product{
		Name:  name,
		Price: price,
		Stock: stock,
	}

	product, err := s.repo.Create(ctx, p)
	if err != nil {
		return domain.Product{}, err
	}

	return product, nil
}

func (s *Service) GetProduct(ctx context.Context, id string) (domain.Product, error) {
	if strings.TrimSpace(id) == "" {
		return domain.Product{}, ErrInvalidInput
	}
	return s.repo.Get(ctx, id)
}

// UpdateProduct overwrites name, price and stock of an existing product.
func (s *Service) UpdateProduct(ctx context.Context, id, name string, price decimal.Decimal, stock int64) (domain.Product, error) {
	name = strings.TrimSpace(name)
	if strings.TrimSpace(id) == "" {
		return domain.Product{}, ErrInvalidInput
	}
	if err := validate(name, price, stock); err != nil {
		return domain.Product{}, err
	}

	unlock := s.lock(id)
	defer unlock()

	p, err := s.repo.Get(ctx, id)
	if err != nil {
		return domain.Product{}, err
	}
	p.Name = name
	p.Price = price
	p.Stock = stock

	if err := s.repo.Update(ctx, p); err != nil {
		return domain.Product{}, err
	}
	return p, nil
}

func (s *Service) DeleteProduct(ctx context.Context, id string) error {
	if strings.TrimSpace(id) == "" {
		return ErrInvalidInput
	}
	unlock := s.lock(id)
	defer unlock()
	return s.repo.Delete(ctx, id)
}

// AdjustStock consumes up to consumed units and returns how many were actually taken.
// Stock is clamped at zero instead of rejecting an oversell.
func (s *Service) AdjustStock(ctx context.Context, id string, consumed int64) (int64, error) {
	if consumed < 0 {
		return 0, fmt.Errorf("%w: consumed must not be negative, got %d", ErrInvalidInput, consumed)
	}

	unlock := s.lock(id)
	defer unlock()

	p, err := s.repo.Get(ctx, id)
	if err != nil {
		return 0, err
	}
	next := max(0, p.Stock-consumed)
	if err := s.repo.SetStock(ctx, id, next); err != nil {
		return 0, err
	}
	return p.Stock - next, nil
}

// RestoreStock puts quantity units back, undoing an earlier AdjustStock.
func (s *Service) RestoreStock(ctx context.Context, id string, quantity int64) error {
	if quantity < 0 {
		return fmt.Errorf("%w: quantity must not be negative, got %d", ErrInvalidInput, quantity)
	}
	if quantity == 0 {
		return nil
	}

	unlock := s.lock(id)
	defer unlock()

	p, err := s.repo.Get(ctx, id)
	if err != nil {
		return err
	}
	return s.repo.SetStock(ctx, id, p.Stock+quantity)
}

// ListProducts returns products whose name contains search, ignoring case, ordered by name.
func (s *Service) ListProducts(ctx context.Context, search string) ([]domain.Product, error) {
	all, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}

	needle := strings.ToLower(strings.TrimSpace(search))
	out := make([]domain.Product, 0, len(all))
	for _, p := range all {
		if needle == "" || strings.Contains(strings.ToLower(p.Name), needle) {
			out = append(out, p)
		}
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].Name == out[j].Name {
			return out[i].ID < out[j].ID
		}
		return out[i].Name < out[j].Name
	})
	return out, nil
}

func (s *Service) lock(id string) func() {
	s.locksMu.Lock()
	m, ok := s.locks[id]
	if !ok {
		m = &sync.Mutex{}
		s.locks[id] = m
	}
	s.locksMu.Unlock()

	m.Lock()
	return m.Unlock
}
