package order

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// ErrInvalidEvent marks payloads that cannot be turned into an
// order-created event. The consumer rejects such messages without requeue.
var ErrInvalidEvent = errors.New("invalid order created event")

// CreatedEvent represents an incoming order-created message.
type CreatedEvent struct {
	OrderID    int64       `json:"orderId"`
	CustomerID int64       `json:"customerId"`
	Items      []ItemEvent `json:"items"`
}

// ItemEvent represents one line item of an order-created message.
type ItemEvent struct {
	ProductName string          `json:"productName"`
	Quantity    int             `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unitPrice"`
}

// DecodeCreatedEvent parses and validates a raw message payload. Unknown
// fields are rejected so a malformed producer cannot slip extra data past
// the schema. Prices are decoded into exact decimals, never floats.
func DecodeCreatedEvent(payload []byte) (*CreatedEvent, error) {
	decoder := json.NewDecoder(bytes.NewReader(payload))
	decoder.DisallowUnknownFields()

	var event CreatedEvent
	if err := decoder.Decode(&event); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidEvent, err)
	}

	if err := event.validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidEvent, err)
	}

	return &event, nil
}

func (e *CreatedEvent) validate() error {
	if e.OrderID <= 0 {
		return fmt.Errorf("orderId must be positive, got %d", e.OrderID)
	}
	if e.CustomerID <= 0 {
		return fmt.Errorf("customerId must be positive, got %d", e.CustomerID)
	}
	for i, item := range e.Items {
		if item.ProductName == "" {
			return fmt.Errorf("item %d: productName must not be empty", i)
		}
		if item.Quantity <= 0 {
			return fmt.Errorf("item %d: quantity must be positive, got %d", i, item.Quantity)
		}
		if item.UnitPrice.IsNegative() {
			return fmt.Errorf("item %d: unitPrice must not be negative, got %s", i, item.UnitPrice)
		}
	}

	return nil
}

// Total computes the order total as the sum of quantity times unit price
// over all items, entirely in decimal arithmetic. An event without items
// totals zero.
func (e *CreatedEvent) Total() decimal.Decimal {
	total := decimal.Zero
	for _, item := range e.Items {
		total = total.Add(item.UnitPrice.Mul(decimal.NewFromInt(int64(item.Quantity))))
	}

	return total
}

// NewFromEvent maps an order-created event to its persisted form. The total
// is computed here once; the resulting order carries it unchanged for the
// rest of its life.
func NewFromEvent(e *CreatedEvent) *Order {
	items := make([]Item, 0, len(e.Items))
	for _, item := range e.Items {
		items = append(items, Item{
			ProductName: item.ProductName,
			Quantity:    item.Quantity,
			UnitPrice:   item.UnitPrice,
		})
	}

	return &Order{
		OrderID:    e.OrderID,
		CustomerID: e.CustomerID,
		TotalPrice: e.Total(),
		Items:      items,
	}
}
