package domain

import (
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

var (
	ErrInvalidQuantity   = errors.New("invalid quantity")
	ErrInsufficientStock = errors.New("insufficient stock")
	ErrSessionNotFound   = errors.New("session not found")
	ErrItemNotFound      = errors.New("item not in cart")
	ErrProductNotFound   = errors.New("product not found")
)

// ProductSnapshot is a catalog read taken at the moment an item is added.
type ProductSnapshot struct {
	ID    string
	Name  string
	Price decimal.Decimal
	Stock int64
}

type Line struct {
	ProductID string
	Name      string
	Price     decimal.Decimal
	Quantity  int64
}

func (l Line) Total() decimal.Decimal {
	return l.Price.Mul(decimal.NewFromInt(l.Quantity))
}

// Cart is not safe for concurrent use; the session store serializes access.
// UpdatedAt is stamped by the owner after a successful mutation.
type Cart struct {
	SessionID string
	CreatedAt time.Time
	UpdatedAt time.Time

	lines []Line
}

func NewCart(sessionID string, now time.Time) *Cart {
	return &Cart{SessionID: sessionID, CreatedAt: now, UpdatedAt: now}
}

func (c *Cart) find(productID string) int {
	for i, l := range c.lines {
		if l.ProductID == productID {
			return i
		}
	}
	return -1
}

// AddItem adds quantity units of the product. A repeated add keeps the first
// name/price snapshot and only grows the quantity, which must stay within snapshot.Stock.
func (c *Cart) AddItem(p ProductSnapshot, quantity int64) error {
	if quantity <= 0 {
		return fmt.Errorf("%w: must be positive, got %d", ErrInvalidQuantity, quantity)
	}

	idx := c.find(p.ID)
	current := int64(0)
	if idx >= 0 {
		current = c.lines[idx].Quantity
	}
	if current+quantity > p.Stock {
		return fmt.Errorf("%w: %s has %d in stock, cart would hold %d", ErrInsufficientStock, p.Name, p.Stock, current+quantity)
	}

	if idx >= 0 {
		c.lines[idx].Quantity += quantity
	} else {
		c.lines = append(c.lines, Line{
			ProductID: p.ID,
			Name:      p.Name,
			Price:     p.Price,
			Quantity:  quantity,
		})
	}
	return nil
}

// SetQuantity replaces the quantity of a line already in the cart.
func (c *Cart) SetQuantity(p ProductSnapshot, quantity int64) error {
	if quantity <= 0 {
		return fmt.Errorf("%w: must be positive, got %d", ErrInvalidQuantity, quantity)
	}
	idx := c.find(p.ID)
	if idx < 0 {
		return fmt.Errorf("%w: %s", ErrItemNotFound, p.ID)
	}
	if quantity > p.Stock {
		return fmt.Errorf("%w: %s has %d in stock, requested %d", ErrInsufficientStock, c.lines[idx].Name, p.Stock, quantity)
	}
	c.lines[idx].Quantity = quantity
	return nil
}

func (c *Cart) RemoveItem(productID string) error {
	idx := c.find(productID)
	if idx < 0 {
		return fmt.Errorf("%w: %s", ErrItemNotFound, productID)
	}
	c.lines = append(c.lines[:idx], c.lines[idx+1:]...)
	return nil
}

func (c *Cart) Clear() {
	c.lines = nil
}

func (c *Cart) Total() decimal.Decimal {
	total := decimal.Zero
	for _, l := range c.lines {
		total = total.Add(l.Total())
	}
	return total
}

// Items returns a copy of the lines in insertion order.
func (c *Cart) Items() []Line {
	out := make([]Line, len(c.lines))
	copy(out, c.lines)
	return out
}

func (c *Cart) IsEmpty() bool {
	return len(c.lines) == 0
}

// Clone returns an independent copy of the cart.
func (c *Cart) Clone() *Cart {
	cp := *c
	cp.lines = c.Items()
	return &cp
}
