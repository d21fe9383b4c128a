package order

import (
	"github.com/shopspring/decimal"
)

// Order represents a persisted order in the system. It is created exactly
// once from an order-created event and never mutated afterwards.
type Order struct {
	OrderID    int64           `json:"orderId"`
	CustomerID int64           `json:"customerId"`
	TotalPrice decimal.Decimal `json:"totalPrice"`
	Items      []Item          `json:"items"`
}

// Item represents a line item embedded in an order. Items have no identity
// of their own and live only inside their order.
type Item struct {
	ProductName string          `json:"productName"`
	Quantity    int             `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unitPrice"`
}

// Response is the reduced listing view of an order.
type Response struct {
	OrderID    int64           `json:"orderId"`
	CustomerID int64           `json:"customerId"`
	Total      decimal.Decimal `json:"total"`
}

// ToResponse projects an order to its listing view.
func (o *Order) ToResponse() Response {
	return Response{
		OrderID:    o.OrderID,
		CustomerID: o.CustomerID,
		Total:      o.TotalPrice,
	}
}

// Page represents one page of order responses plus pagination metadata.
type Page struct {
	Orders        []Response `json:"orders"`
	TotalElements int64      `json:"totalElements"`
	TotalPages    int        `json:"totalPages"`
	Page          int        `json:"page"`
	PageSize      int        `json:"pageSize"`
}
