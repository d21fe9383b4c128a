package postgresrepo

import (
	"context"
	"encoding/json"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/shopspring/decimal"

	"github.com/sfelinto/orderms/internal/dal/postgres"
	"github.com/sfelinto/orderms/internal/service/models/order"
)

const ordersTable = "tb_orders"

// OrderDal represents the order data access layer model. Totals travel as
// their text form so NUMERIC values never pass through a binary float.
type OrderDal struct {
	Id         int64  `db:"id"`
	OrderId    int64  `db:"order_id"`
	CustomerId int64  `db:"customer_id"`
	TotalPrice string `db:"total_price"`
	Items      []byte `db:"items"`
}

// ToModel converts OrderDal to the service layer Order model.
func (o *OrderDal) ToModel() (*order.Order, error) {
	total, err := decimal.NewFromString(o.TotalPrice)
	if err != nil {
		return nil, fmt.Errorf("failed to parse total_price: %w", err)
	}

	items := []order.Item{}
	if len(o.Items) > 0 {
		if err := json.Unmarshal(o.Items, &items); err != nil {
			return nil, fmt.Errorf("failed to unmarshal order items: %w", err)
		}
	}

	return &order.Order{
		OrderID:    o.OrderId,
		CustomerID: o.CustomerId,
		TotalPrice: total,
		Items:      items,
	}, nil
}

// OrderRepository implements the order repository for PostgreSQL.
type OrderRepository struct {
	client *postgres.Client
}

// NewOrderRepository creates a new order repository.
func NewOrderRepository(client *postgres.Client) *OrderRepository {
	return &OrderRepository{
		client: client,
	}
}

// Insert persists a new order with its embedded items. The order_id comes
// from the upstream system; a redelivered event hits the unique constraint
// and is dropped without touching the stored record.
func (r *OrderRepository) Insert(ctx context.Context, o *order.Order) error {
	items, err := json.Marshal(o.Items)
	if err != nil {
		return fmt.Errorf("failed to marshal order items: %w", err)
	}

	query, args, err := sq.Insert(ordersTable).
		Columns(
			"order_id",
			"customer_id",
			"total_price",
			"items",
		).
		Values(
			o.OrderID,
			o.CustomerID,
			o.TotalPrice.String(),
			items,
		).
		Suffix("ON CONFLICT (order_id) DO NOTHING").
		PlaceholderFormat(sq.Dollar).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build insert query: %w", err)
	}

	if _, err := r.client.Pool().Exec(ctx, query, args...); err != nil {
		return fmt.Errorf("failed to insert order: %w", err)
	}

	return nil
}

// FindByCustomer retrieves one page of a customer's orders in insertion
// order, along with the customer's total order count.
func (r *OrderRepository) FindByCustomer(
	ctx context.Context,
	listQuery order.ListQuery,
) ([]order.Order, int64, error) {
	query, args, err := sq.Select(
		"id",
		"order_id",
		"customer_id",
		"total_price::text",
		"items",
	).
		From(ordersTable).
		Where(sq.Eq{"customer_id": listQuery.CustomerID}).
		OrderBy("id ASC").
		Limit(uint64(listQuery.PageSize)).
		Offset(uint64(listQuery.Page) * uint64(listQuery.PageSize)).
		PlaceholderFormat(sq.Dollar).
		ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("failed to build select query: %w", err)
	}

	rows, err := r.client.Pool().Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to query orders: %w", err)
	}
	defer rows.Close()

	var orders []order.Order
	for rows.Next() {
		var dal OrderDal
		err := rows.Scan(
			&dal.Id,
			&dal.OrderId,
			&dal.CustomerId,
			&dal.TotalPrice,
			&dal.Items,
		)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan order: %w", err)
		}
		model, err := dal.ToModel()
		if err != nil {
			return nil, 0, fmt.Errorf("failed to convert order dal to model: %w", err)
		}
		orders = append(orders, *model)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("rows iteration error: %w", err)
	}

	total, err := r.countByCustomer(ctx, listQuery.CustomerID)
	if err != nil {
		return nil, 0, err
	}

	return orders, total, nil
}

func (r *OrderRepository) countByCustomer(ctx context.Context, customerID int64) (int64, error) {
	query, args, err := sq.Select("COUNT(*)").
		From(ordersTable).
		Where(sq.Eq{"customer_id": customerID}).
		PlaceholderFormat(sq.Dollar).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("failed to build count query: %w", err)
	}

	var total int64
	if err := r.client.Pool().QueryRow(ctx, query, args...).Scan(&total); err != nil {
		return 0, fmt.Errorf("failed to count orders: %w", err)
	}

	return total, nil
}

// SumTotalByCustomer computes the customer's total spend on the store side.
// Order volumes may be large, so the sum never leaves the database; an
// empty result set collapses to exactly zero.
func (r *OrderRepository) SumTotalByCustomer(
	ctx context.Context,
	customerID int64,
) (decimal.Decimal, error) {
	query, args, err := sq.Select("COALESCE(SUM(total_price), 0)::text").
		From(ordersTable).
		Where(sq.Eq{"customer_id": customerID}).
		PlaceholderFormat(sq.Dollar).
		ToSql()
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to build sum query: %w", err)
	}

	var sum string
	if err := r.client.Pool().QueryRow(ctx, query, args...).Scan(&sum); err != nil {
		return decimal.Zero, fmt.Errorf("failed to sum orders: %w", err)
	}

	total, err := decimal.NewFromString(sum)
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to parse total: %w", err)
	}

	return total, nil
}
