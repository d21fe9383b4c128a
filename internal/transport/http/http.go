package httptransport

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/shopspring/decimal"
	"github.com/spf13/viper"

	"github.com/sfelinto/orderms/internal/metrics"
	"github.com/sfelinto/orderms/internal/service/models/order"
	listorders "github.com/sfelinto/orderms/internal/transport/http/list_orders"
	totalspend "github.com/sfelinto/orderms/internal/transport/http/total_spend"
	"github.com/sfelinto/orderms/pkg/http/middleware/trace"
	"github.com/sfelinto/orderms/pkg/logger"
)

type service interface {
	ListOrders(ctx context.Context, query order.ListQuery) (*order.Page, error)
	TotalSpend(ctx context.Context, customerID int64) (decimal.Decimal, error)
}

type HTTPTransport struct {
	server  *http.Server
	router  *chi.Mux
	service service
}

func NewHTTPTransport(service service, serverMetrics *metrics.ServerMetrics) *HTTPTransport {
	router := newRouter(serverMetrics)
	server := newServer(router)
	return &HTTPTransport{
		server:  server,
		router:  router,
		service: service,
	}
}

func (h *HTTPTransport) Run() error {
	return h.server.ListenAndServe()
}

func (h *HTTPTransport) Shutdown(ctx context.Context) error {
	return h.server.Shutdown(ctx)
}

// RegisterRoutes registers the routes for the HTTPTransport.
func (h *HTTPTransport) RegisterRoutes() {
	h.router.Route("/api/customers/{customerId}/orders", func(r chi.Router) {
		r.Get("/", h.listOrders)
		r.Get("/total", h.totalSpend)
	})
	h.router.Handle("/metrics", metrics.Handler())
}

func (h *HTTPTransport) listOrders(w http.ResponseWriter, r *http.Request) {
	listorders.ListOrders(w, r, h.service)
}

func (h *HTTPTransport) totalSpend(w http.ResponseWriter, r *http.Request) {
	totalspend.TotalSpend(w, r, h.service)
}

func newRouter(serverMetrics *metrics.ServerMetrics) *chi.Mux {
	router := chi.NewMux()
	router.Use(middleware.RequestID)
	router.Use(logger.NewLoggerMiddleware(slog.Default()))
	router.Use(trace.NewTraceMiddleware)
	router.Use(serverMetrics.Middleware)

	allowedOrigins := viper.GetStringSlice("server.http.cors.allowed_origins")
	allowedMethods := viper.GetStringSlice("server.http.cors.allowed_methods")
	allowedHeaders := viper.GetStringSlice("server.http.cors.allowed_headers")
	exposedHeaders := viper.GetStringSlice("server.http.cors.exposed_headers")
	allowCredentials := viper.GetBool("server.http.cors.allow_credentials")
	maxAge := viper.GetInt("server.http.cors.max_age")

	c := cors.New(cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowedMethods:   allowedMethods,
		AllowedHeaders:   allowedHeaders,
		ExposedHeaders:   exposedHeaders,
		AllowCredentials: allowCredentials,
		MaxAge:           maxAge,
	})

	router.Use(c.Handler)

	return router
}

func newServer(router http.Handler) *http.Server {
	return &http.Server{
		Addr:    "0.0.0.0:" + viper.GetString("server.http.port"),
		Handler: router,
	}
}
