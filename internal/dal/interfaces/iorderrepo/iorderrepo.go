package iorderrepo

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/sfelinto/orderms/internal/service/models/order"
)

// IOrderRepository is an interface for the order postgres repository.
type IOrderRepository interface {
	// Insert persists a new order. Redelivered events are absorbed: an
	// order_id that already exists leaves the stored record untouched.
	Insert(ctx context.Context, o *order.Order) error

	// FindByCustomer returns one page of a customer's orders in insertion
	// order together with the total number of orders for that customer.
	FindByCustomer(ctx context.Context, query order.ListQuery) ([]order.Order, int64, error)

	// SumTotalByCustomer sums total_price over a customer's orders on the
	// store side. A customer without orders sums to zero.
	SumTotalByCustomer(ctx context.Context, customerID int64) (decimal.Decimal, error)
}
