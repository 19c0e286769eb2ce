package contracts

import "time"

const EventSaleRecorded = "sale.recorded"

type Event struct {
	EventID   string         `json:"event_id"`
	Type      string         `json:"type"`
	CreatedAt time.Time      `json:"created_at"`
	Payload   map[string]any `json:"payload,omitempty"`
}

type SaleLine struct {
	ProductID string `json:"product_id"`
	Name      string `json:"name"`
	Price     string `json:"price"`
	Quantity  int64  `json:"quantity"`
}

// SaleRecorded is published once a checkout has been committed.
type SaleRecorded struct {
	EventID       string     `json:"event_id"`
	TransactionID string     `json:"transaction_id"`
	Items         []SaleLine `json:"items"`
	Total         string     `json:"total"`
	Timestamp     float64    `json:"timestamp"`
	CreatedAt     time.Time  `json:"created_at"`
}

// Envelope wraps the event in the generic shape shared by all publishers.
func (e SaleRecorded) Envelope() Event {
	items := make([]any, 0, len(e.Items))
	for _, it := range e.Items {
		items = append(items, map[string]any{
			"product_id": it.ProductID,
			"name":       it.Name,
			"price":      it.Price,
			"quantity":   it.Quantity,
		})
	}
	return Event{
		EventID:   e.EventID,
		Type:      EventSaleRecorded,
		CreatedAt: e.CreatedAt,
		Payload: map[string]any{
			"transaction_id": e.TransactionID,
			"items":          items,
			"total":          e.Total,
			"timestamp":      e.Timestamp,
		},
	}
}
