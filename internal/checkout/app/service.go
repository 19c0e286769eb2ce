package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/dwikikusuma/pos/internal/checkout/domain"
	salesdomain "github.com/dwikikusuma/pos/internal/sales/domain"
	"github.com/dwikikusuma/pos/pkg/contracts"
)

var (
	ErrEmptyCart         = errors.New("cart is empty")
	ErrInsufficientStock = errors.New("insufficient stock")
	ErrProductNotFound   = errors.New("product not found")
	ErrSessionNotFound   = errors.New("session not found")
)

type Service struct {
	cart    CartReader
	catalog Catalog
	sales   SalesLedger

	tx      TxRunner
	events  EventPublisher
	metrics Recorder
	log     *slog.Logger

	maxConcurrent int
}

type Option func(*Service)

// WithTx makes checkout commit the sale and all stock adjustments in one transaction.
// Without it checkout falls back to a pending sale plus compensation.
func WithTx(tx TxRunner) Option {
	return func(s *Service) { s.tx = tx }
}

func WithEvents(p EventPublisher) Option {
	return func(s *Service) { s.events = p }
}

func WithMetrics(r Recorder) Option {
	return func(s *Service) { s.metrics = r }
}

func WithLogger(l *slog.Logger) Option {
	return func(s *Service) { s.log = l }
}

func NewService(cart CartReader, catalog Catalog, sales SalesLedger, maxConcurrent int, opts ...Option) *Service {
	if maxConcurrent <= 0 {
		maxConcurrent = 10
	}

	s := &Service{
		cart:          cart,
		catalog:       catalog,
		sales:         sales,
		maxConcurrent: maxConcurrent,
		log:           slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Checkout turns the session's cart into a confirmed sale, decrements stock and clears the cart.
func (s *Service) Checkout(ctx context.Context, sessionID string) (salesdomain.Sale, error) {
	start := time.Now()
	sale, err := s.checkout(ctx, sessionID)
	if s.metrics != nil {
		s.metrics.ObserveCheckout(resultLabel(err), time.Since(start))
	}
	if err != nil {
		s.log.Warn("checkout failed", slog.String("session_id", sessionID), slog.Any("err", err))
		return salesdomain.Sale{}, err
	}
	s.log.Info("checkout completed",
		slog.String("session_id", sessionID),
		slog.String("transaction_id", sale.TransactionID),
		slog.String("total", sale.Total.String()),
	)
	return sale, nil
}

func (s *Service) checkout(ctx context.Context, sessionID string) (salesdomain.Sale, error) {
	lines, err := s.cart.GetCart(ctx, sessionID)
	if err != nil {
		return salesdomain.Sale{}, err
	}
	if len(lines) == 0 {
		return salesdomain.Sale{}, ErrEmptyCart
	}

	if err := s.validateStock(ctx, lines); err != nil {
		return salesdomain.Sale{}, err
	}

	items := make([]salesdomain.SaleItem, 0, len(lines))
	for _, l := range lines {
		items = append(items, salesdomain.SaleItem{
			ProductID: l.ProductID,
			Name:      l.Name,
			Price:     l.Price,
			Quantity:  l.Quantity,
		})
	}
	sale, err := s.sales.NewSale(items)
	if err != nil {
		return salesdomain.Sale{}, err
	}

	if s.tx != nil {
		sale, err = s.commitTx(ctx, sale)
	} else {
		sale, err = s.commitWithLog(ctx, sale)
	}
	if err != nil {
		return salesdomain.Sale{}, err
	}

	if err := s.cart.ClearCart(ctx, sessionID); err != nil {
		s.log.Warn("clear cart after checkout", slog.String("session_id", sessionID), slog.Any("err", err))
	}
	s.publish(ctx, sale)
	return sale, nil
}

// validateStock re-reads every product and rejects lines the catalog can no longer cover.
func (s *Service) validateStock(ctx context.Context, lines []domain.Line) error {
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(s.maxConcurrent)

	for idx := range lines {
		l := lines[idx]
		g.Go(func() error {
			if l.Quantity <= 0 {
				return fmt.Errorf("quantity must be greater than zero: %d", l.Quantity)
			}
			p, err := s.catalog.GetProduct(ctx, l.ProductID)
			if err != nil {
				return fmt.Errorf("failed to get product %s: %w", l.ProductID, err)
			}
			if l.Quantity > p.Stock {
				return fmt.Errorf("%w: %s has %d, cart holds %d", ErrInsufficientStock, p.Name, p.Stock, l.Quantity)
			}
			return nil
		})
	}

	return g.Wait()
}

func (s *Service) commitTx(ctx context.Context, sale salesdomain.Sale) (salesdomain.Sale, error) {
	var out salesdomain.Sale
	err := s.tx.RunInTx(ctx, func(ctx context.Context) error {
		recorded, err := s.sales.Record(ctx, sale, salesdomain.StatusConfirmed)
		if err != nil {
			return err
		}
		applied := make(map[string]int64, len(sale.Items))
		for _, it := range byProduct(sale.Items) {
			if err := s.take(ctx, it, applied); err != nil {
				return err
			}
		}
		recorded.Applied = applied
		out = recorded
		return nil
	})
	if err != nil {
		return salesdomain.Sale{}, err
	}
	return out, nil
}

// commitWithLog writes the sale as pending, applies stock line by line while
// recording what was consumed, and confirms. Any failure is compensated.
func (s *Service) commitWithLog(ctx context.Context, sale salesdomain.Sale) (salesdomain.Sale, error) {
	recorded, err := s.sales.Record(ctx, sale, salesdomain.StatusPending)
	if err != nil {
		return salesdomain.Sale{}, err
	}
	id := recorded.TransactionID

	applied := make(map[string]int64, len(sale.Items))
	for _, it := range byProduct(sale.Items) {
		err := s.take(ctx, it, applied)
		if err == nil {
			err = s.sales.MarkApplied(ctx, id, applied)
		}
		if err != nil {
			return salesdomain.Sale{}, s.compensate(ctx, id, applied, err)
		}
	}

	if err := s.sales.Confirm(ctx, id); err != nil {
		return salesdomain.Sale{}, s.compensate(ctx, id, applied, err)
	}
	recorded.Status = salesdomain.StatusConfirmed
	recorded.Applied = applied
	return recorded, nil
}

// take consumes stock for one item and records the consumed amount in applied.
// A short take means stock moved since validation.
func (s *Service) take(ctx context.Context, it salesdomain.SaleItem, applied map[string]int64) error {
	consumed, err := s.catalog.AdjustStock(ctx, it.ProductID, it.Quantity)
	if err != nil {
		return fmt.Errorf("adjust stock %s: %w", it.ProductID, err)
	}
	applied[it.ProductID] += consumed
	if consumed < it.Quantity {
		return fmt.Errorf("%w: %s short by %d", ErrInsufficientStock, it.Name, it.Quantity-consumed)
	}
	return nil
}

func (s *Service) compensate(ctx context.Context, transactionID string, applied map[string]int64, cause error) error {
	ctx = context.WithoutCancel(ctx)
	if err := s.undo(ctx, transactionID, applied); err != nil {
		s.log.Error("checkout compensation incomplete",
			slog.String("transaction_id", transactionID),
			slog.Any("err", err),
		)
		return errors.Join(cause, err)
	}
	return cause
}

func (s *Service) undo(ctx context.Context, transactionID string, applied map[string]int64) error {
	var errs []error
	for productID, qty := range applied {
		err := s.catalog.RestoreStock(ctx, productID, qty)
		if errors.Is(err, ErrProductNotFound) {
			s.log.Warn("restore stock skipped, product deleted",
				slog.String("transaction_id", transactionID),
				slog.String("product_id", productID),
			)
			continue
		}
		if err != nil {
			errs = append(errs, fmt.Errorf("restore %s: %w", productID, err))
		}
	}
	if len(errs) > 0 {
		return errors.Join(errs...)
	}
	return s.sales.Discard(ctx, transactionID)
}

// Reconcile rolls back sales left pending by an interrupted checkout and reports how many it cleared.
func (s *Service) Reconcile(ctx context.Context) (int, error) {
	pending, err := s.sales.ListPending(ctx)
	if err != nil {
		return 0, err
	}

	var errs []error
	n := 0
	for _, sale := range pending {
		if err := s.undo(ctx, sale.TransactionID, sale.Applied); err != nil {
			errs = append(errs, fmt.Errorf("sale %s: %w", sale.TransactionID, err))
			continue
		}
		n++
		s.log.Info("reconciled pending sale",
			slog.String("transaction_id", sale.TransactionID),
			slog.Int("products", len(sale.Applied)),
		)
	}
	return n, errors.Join(errs...)
}

func (s *Service) publish(ctx context.Context, sale salesdomain.Sale) {
	if s.events == nil {
		return
	}

	lines := make([]contracts.SaleLine, 0, len(sale.Items))
	for _, it := range sale.Items {
		lines = append(lines, contracts.SaleLine{
			ProductID: it.ProductID,
			Name:      it.Name,
			Price:     it.Price.String(),
			Quantity:  it.Quantity,
		})
	}
	event := contracts.SaleRecorded{
		EventID:       uuid.NewString(),
		TransactionID: sale.TransactionID,
		Items:         lines,
		Total:         sale.Total.String(),
		Timestamp:     float64(sale.Timestamp.UnixMilli()) / 1000,
		CreatedAt:     time.Now().UTC(),
	}
	if err := s.events.PublishSaleRecorded(ctx, event); err != nil {
		s.log.Warn("publish sale.recorded failed",
			slog.String("transaction_id", sale.TransactionID),
			slog.Any("err", err),
		)
	}
}

// byProduct orders items by product id so concurrent transactions lock rows in the same order.
func byProduct(items []salesdomain.SaleItem) []salesdomain.SaleItem {
	out := make([]salesdomain.SaleItem, len(items))
	copy(out, items)
	sort.Slice(out, func(i, j int) bool { return out[i].ProductID < out[j].ProductID })
	return out
}

func resultLabel(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, ErrEmptyCart):
		return "empty_cart"
	case errors.Is(err, ErrInsufficientStock):
		return "insufficient_stock"
	case errors.Is(err, ErrProductNotFound), errors.Is(err, ErrSessionNotFound):
		return "not_found"
	}
	return "error"
}
