package ordersvc_test

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sfelinto/orderms/internal/service/models/order"
	"github.com/sfelinto/orderms/internal/service/services/ordersvc"
)

// fakeOrderRepo is a hand-rolled repository double capturing calls.
type fakeOrderRepo struct {
	inserted []*order.Order

	insertErr error

	findOrders []order.Order
	findTotal  int64
	findQuery  order.ListQuery
	findErr    error

	sumTotal      decimal.Decimal
	sumCustomerID int64
	sumErr        error
}

func (f *fakeOrderRepo) Insert(_ context.Context, o *order.Order) error {
	if f.insertErr != nil {
		return f.insertErr
	}
	f.inserted = append(f.inserted, o)

	return nil
}

func (f *fakeOrderRepo) FindByCustomer(
	_ context.Context,
	query order.ListQuery,
) ([]order.Order, int64, error) {
	f.findQuery = query
	if f.findErr != nil {
		return nil, 0, f.findErr
	}

	return f.findOrders, f.findTotal, nil
}

func (f *fakeOrderRepo) SumTotalByCustomer(
	_ context.Context,
	customerID int64,
) (decimal.Decimal, error) {
	f.sumCustomerID = customerID
	if f.sumErr != nil {
		return decimal.Zero, f.sumErr
	}

	return f.sumTotal, nil
}

func newService(repo *fakeOrderRepo) *ordersvc.OrderService {
	return ordersvc.MustNewOrderService(ordersvc.WithOrderRepository(repo))
}

func TestProcessOrderCreated(t *testing.T) {
	t.Run("persists the mapped record with its computed total", func(t *testing.T) {
		repo := &fakeOrderRepo{}
		svc := newService(repo)

		payload := []byte(`{
			"orderId": 1,
			"customerId": 2,
			"items": [{"productName": "notebook", "quantity": 1, "unitPrice": 20.50}]
		}`)

		err := svc.ProcessOrderCreated(context.Background(), payload)
		require.NoError(t, err)

		require.Len(t, repo.inserted, 1)
		ord := repo.inserted[0]
		assert.Equal(t, int64(1), ord.OrderID)
		assert.Equal(t, int64(2), ord.CustomerID)
		assert.True(t, ord.TotalPrice.Equal(decimal.RequireFromString("20.50")))
		require.Len(t, ord.Items, 1)
		assert.Equal(t, "notebook", ord.Items[0].ProductName)
	})

	t.Run("totals multiple items exactly", func(t *testing.T) {
		repo := &fakeOrderRepo{}
		svc := newService(repo)

		payload := []byte(`{
			"orderId": 3,
			"customerId": 2,
			"items": [
				{"productName": "notebook", "quantity": 2, "unitPrice": 10.00},
				{"productName": "pen", "quantity": 3, "unitPrice": 5.00}
			]
		}`)

		err := svc.ProcessOrderCreated(context.Background(), payload)
		require.NoError(t, err)

		require.Len(t, repo.inserted, 1)
		assert.True(t, repo.inserted[0].TotalPrice.Equal(decimal.RequireFromString("35.00")))
	})

	t.Run("does not persist a malformed payload", func(t *testing.T) {
		repo := &fakeOrderRepo{}
		svc := newService(repo)

		err := svc.ProcessOrderCreated(context.Background(), []byte(`{"orderId": "oops"}`))

		assert.ErrorIs(t, err, order.ErrInvalidEvent)
		assert.Empty(t, repo.inserted)
	})

	t.Run("propagates store write failures", func(t *testing.T) {
		storeErr := errors.New("connection reset")
		repo := &fakeOrderRepo{insertErr: storeErr}
		svc := newService(repo)

		payload := []byte(`{"orderId": 1, "customerId": 2, "items": []}`)

		err := svc.ProcessOrderCreated(context.Background(), payload)

		assert.ErrorIs(t, err, storeErr)
		assert.NotErrorIs(t, err, order.ErrInvalidEvent)
	})
}

func TestListOrders(t *testing.T) {
	t.Run("builds pagination metadata from store counts", func(t *testing.T) {
		repo := &fakeOrderRepo{
			findOrders: []order.Order{
				{
					OrderID:    1,
					CustomerID: 2,
					TotalPrice: decimal.RequireFromString("20.50"),
				},
			},
			findTotal: 1,
		}
		svc := newService(repo)

		page, err := svc.ListOrders(context.Background(), order.ListQuery{CustomerID: 2, PageSize: 10})
		require.NoError(t, err)

		assert.Equal(t, int64(1), page.TotalElements)
		assert.Equal(t, 1, page.TotalPages)
		assert.Equal(t, 0, page.Page)
		assert.Equal(t, 10, page.PageSize)
		require.Len(t, page.Orders, 1)
		assert.Equal(t, int64(1), page.Orders[0].OrderID)
		assert.Equal(t, int64(2), page.Orders[0].CustomerID)
		assert.True(t, page.Orders[0].Total.Equal(decimal.RequireFromString("20.50")))
	})

	t.Run("rounds the page count up for a partial last page", func(t *testing.T) {
		repo := &fakeOrderRepo{findTotal: 11}
		svc := newService(repo)

		page, err := svc.ListOrders(context.Background(), order.ListQuery{CustomerID: 2, PageSize: 10})
		require.NoError(t, err)

		assert.Equal(t, 2, page.TotalPages)
	})

	t.Run("returns an empty page for a customer without orders", func(t *testing.T) {
		repo := &fakeOrderRepo{}
		svc := newService(repo)

		page, err := svc.ListOrders(context.Background(), order.ListQuery{CustomerID: 99})
		require.NoError(t, err)

		assert.Empty(t, page.Orders)
		assert.NotNil(t, page.Orders)
		assert.Equal(t, int64(0), page.TotalElements)
		assert.Equal(t, 0, page.TotalPages)
	})

	t.Run("normalizes the query before hitting the store", func(t *testing.T) {
		repo := &fakeOrderRepo{}
		svc := newService(repo)

		_, err := svc.ListOrders(context.Background(), order.ListQuery{CustomerID: 2, Page: -1})
		require.NoError(t, err)

		assert.Equal(t, 0, repo.findQuery.Page)
		assert.Equal(t, 10, repo.findQuery.PageSize)
	})

	t.Run("propagates store read failures", func(t *testing.T) {
		storeErr := errors.New("connection reset")
		repo := &fakeOrderRepo{findErr: storeErr}
		svc := newService(repo)

		_, err := svc.ListOrders(context.Background(), order.ListQuery{CustomerID: 2})

		assert.ErrorIs(t, err, storeErr)
	})
}

func TestTotalSpend(t *testing.T) {
	t.Run("passes through the store aggregation", func(t *testing.T) {
		repo := &fakeOrderRepo{sumTotal: decimal.RequireFromString("40.49")}
		svc := newService(repo)

		total, err := svc.TotalSpend(context.Background(), 2)
		require.NoError(t, err)

		assert.Equal(t, int64(2), repo.sumCustomerID)
		assert.Equal(t, "40.49", total.String())
	})

	t.Run("is zero for a customer without orders", func(t *testing.T) {
		repo := &fakeOrderRepo{sumTotal: decimal.Zero}
		svc := newService(repo)

		total, err := svc.TotalSpend(context.Background(), 42)
		require.NoError(t, err)

		assert.True(t, total.IsZero())
	})

	t.Run("propagates store read failures", func(t *testing.T) {
		storeErr := errors.New("connection reset")
		repo := &fakeOrderRepo{sumErr: storeErr}
		svc := newService(repo)

		_, err := svc.TotalSpend(context.Background(), 2)

		assert.ErrorIs(t, err, storeErr)
	})
}
