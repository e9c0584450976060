package httptransport

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/aurastore/backend/order/internal/service/models/actor"
	"github.com/aurastore/backend/order/internal/service/models/order"
	createorder "github.com/aurastore/backend/order/internal/transport/http/v1/create_order"
	getorder "github.com/aurastore/backend/order/internal/transport/http/v1/get_order"
	linkorders "github.com/aurastore/backend/order/internal/transport/http/v1/link_orders"
	listorders "github.com/aurastore/backend/order/internal/transport/http/v1/list_orders"
	"github.com/aurastore/backend/order/internal/transport/http/v1/respond"
	updatestatus "github.com/aurastore/backend/order/internal/transport/http/v1/update_status"
	"github.com/aurastore/backend/order/pkg/http/middleware/trace"
	"github.com/aurastore/backend/order/pkg/logger"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/spf13/viper"
)

type orderService interface {
	CreateOrder(ctx context.Context, o order.Order) (order.Order, error)
	GetOrder(ctx context.Context, id string) (order.Order, error)
	ListOrders(ctx context.Context, customerID string) ([]order.Order, error)
	ListAllOrders(ctx context.Context) ([]order.Order, error)
	UpdateStatus(
		ctx context.Context,
		id string,
		rawStatus string,
		trackingNumber *string,
		notes *string,
	) (order.Order, error)
}

type identityService interface {
	Resolve(credential string) actor.Actor
	Require(credential string) (actor.Actor, error)
	EnsureGuestIdentity(ctx context.Context) (string, error)
	LinkGuestOrdersToAccount(ctx context.Context, customerID string) (int, error)
}

type HTTPTransport struct {
	server   *http.Server
	router   *chi.Mux
	orders   orderService
	identity identityService
}

func NewHTTPTransport(orders orderService, identity identityService) *HTTPTransport {
	router := newRouter()
	server := newServer(router)

	return &HTTPTransport{
		server:   server,
		router:   router,
		orders:   orders,
		identity: identity,
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
	h.router.Get("/health", h.health)

	h.router.Route("/api", func(r chi.Router) {
		r.Post("/orders", h.createOrder)
		r.Get("/orders", h.listAllOrders)
		r.Get("/orders/my", h.listMyOrders)
		r.Post("/orders/link", h.linkOrders)
		r.Get("/orders/track/{id}", h.getOrder)
		r.Get("/orders/{id}", h.getOrder)
		r.Patch("/orders/{id}/status", h.updateStatus)
	})
}

func (h *HTTPTransport) createOrder(w http.ResponseWriter, r *http.Request) {
	createorder.CreateOrder(w, r, h.orders, h.identity)
}

func (h *HTTPTransport) getOrder(w http.ResponseWriter, r *http.Request) {
	getorder.GetOrder(w, r, h.orders)
}

func (h *HTTPTransport) listMyOrders(w http.ResponseWriter, r *http.Request) {
	listorders.ListMyOrders(w, r, h.orders, h.identity)
}

func (h *HTTPTransport) listAllOrders(w http.ResponseWriter, r *http.Request) {
	listorders.ListAllOrders(w, r, h.orders, h.identity)
}

func (h *HTTPTransport) updateStatus(w http.ResponseWriter, r *http.Request) {
	updatestatus.UpdateStatus(w, r, h.orders, h.identity)
}

func (h *HTTPTransport) linkOrders(w http.ResponseWriter, r *http.Request) {
	linkorders.LinkOrders(w, r, h.identity)
}

func (h *HTTPTransport) health(w http.ResponseWriter, _ *http.Request) {
	respond.JSON(w, http.StatusOK, map[string]bool{"ok": true})
}

func newRouter() *chi.Mux {
	router := chi.NewMux()
	router.Use(middleware.RequestID)
	router.Use(trace.NewTraceMiddleware)
	router.Use(logger.NewLoggerMiddleware(slog.Default()))

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
