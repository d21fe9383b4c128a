package ordersvc

import (
	"context"
	"log/slog"

	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel"

	"github.com/sfelinto/orderms/internal/dal/interfaces/iorderrepo"
	"github.com/sfelinto/orderms/internal/service/models/order"
)

// OrderService is a service for persisting and querying orders.
type OrderService struct {
	orderRepo iorderrepo.IOrderRepository
}

// option is a function that configures the OrderService.
type option func(*OrderService)

// MustNewOrderService creates a new OrderService.
func MustNewOrderService(opts ...option) *OrderService {
	s := &OrderService{}
	for _, opt := range opts {
		opt(s)
	}

	return s
}

// WithOrderRepository sets the order repository for the OrderService.
//
//goland:noinspection GoExportedFuncWithUnexportedType
func WithOrderRepository(orderRepo iorderrepo.IOrderRepository) option {
	return func(s *OrderService) {
		s.orderRepo = orderRepo
	}
}

// ProcessOrderCreated decodes an order-created payload, computes the order
// total and persists the resulting record. A payload that fails to decode
// returns an error wrapping order.ErrInvalidEvent so the transport can
// reject it without requeueing.
func (s *OrderService) ProcessOrderCreated(ctx context.Context, payload []byte) error {
	ctx, span := otel.Tracer("service").Start(ctx, "OrderService.ProcessOrderCreated")
	defer span.End()

	event, err := order.DecodeCreatedEvent(payload)
	if err != nil {
		slog.Error("Failed to decode order created event", "error", err)

		return err
	}

	ord := order.NewFromEvent(event)

	if err := s.orderRepo.Insert(ctx, ord); err != nil {
		slog.Error("Failed to insert order", "error", err, "order_id", ord.OrderID)

		return err
	}

	slog.Info("Order persisted",
		"order_id", ord.OrderID,
		"customer_id", ord.CustomerID,
		"total_price", ord.TotalPrice)

	return nil
}

// ListOrders returns one page of a customer's orders projected to the
// listing view, with pagination metadata derived from the store's counts.
func (s *OrderService) ListOrders(
	ctx context.Context,
	query order.ListQuery,
) (*order.Page, error) {
	ctx, span := otel.Tracer("service").Start(ctx, "OrderService.ListOrders")
	defer span.End()

	query = query.Normalize()

	orders, totalElements, err := s.orderRepo.FindByCustomer(ctx, query)
	if err != nil {
		return nil, err
	}

	responses := make([]order.Response, 0, len(orders))
	for i := range orders {
		responses = append(responses, orders[i].ToResponse())
	}

	totalPages := int(totalElements / int64(query.PageSize))
	if totalElements%int64(query.PageSize) != 0 {
		totalPages++
	}

	return &order.Page{
		Orders:        responses,
		TotalElements: totalElements,
		TotalPages:    totalPages,
		Page:          query.Page,
		PageSize:      query.PageSize,
	}, nil
}

// TotalSpend returns the sum of a customer's order totals. The sum is
// computed by the store; a customer without orders spends exactly zero.
func (s *OrderService) TotalSpend(ctx context.Context, customerID int64) (decimal.Decimal, error) {
	ctx, span := otel.Tracer("service").Start(ctx, "OrderService.TotalSpend")
	defer span.End()

	return s.orderRepo.SumTotalByCustomer(ctx, customerID)
}
