package listorders

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/sfelinto/orderms/internal/service/models/order"
)

// service is an interface for the service layer.
type service interface {
	ListOrders(ctx context.Context, query order.ListQuery) (*order.Page, error)
}

// ListOrders handles the paginated order listing request for a customer.
func ListOrders(w http.ResponseWriter, r *http.Request, service service) {
	customerID, err := strconv.ParseInt(chi.URLParam(r, "customerId"), 10, 64)
	if err != nil {
		http.Error(w, "invalid customerId", http.StatusBadRequest)
		slog.Error("Error parsing customerId", "error", err)

		return
	}

	query := order.ListQuery{CustomerID: customerID}

	if pageStr := r.URL.Query().Get("page"); pageStr != "" {
		page, err := strconv.Atoi(pageStr)
		if err != nil {
			http.Error(w, "invalid page", http.StatusBadRequest)

			return
		}
		query.Page = page
	}

	if sizeStr := r.URL.Query().Get("pageSize"); sizeStr != "" {
		size, err := strconv.Atoi(sizeStr)
		if err != nil {
			http.Error(w, "invalid pageSize", http.StatusBadRequest)

			return
		}
		query.PageSize = size
	}

	page, err := service.ListOrders(r.Context(), query)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		slog.Error("Error listing orders", "error", err)

		return
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(page); err != nil {
		slog.Error("Error sending response for list orders", "error", err)
	}
}
