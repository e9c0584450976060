package listorders

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/aurastore/backend/order/internal/service/models/actor"
	"github.com/aurastore/backend/order/internal/service/models/order"
	"github.com/aurastore/backend/order/internal/transport/http/v1/apierror"
	"github.com/aurastore/backend/order/internal/transport/http/v1/credentials"
	"github.com/aurastore/backend/order/internal/transport/http/v1/respond"
)

// orderService is an interface for the service layer.
type orderService interface {
	ListOrders(ctx context.Context, customerID string) ([]order.Order, error)
	ListAllOrders(ctx context.Context) ([]order.Order, error)
}

// identityService resolves auth-required actors.
type identityService interface {
	Require(credential string) (actor.Actor, error)
}

// ListMyOrders returns the caller's orders, newest first. Auth required.
func ListMyOrders(w http.ResponseWriter, r *http.Request, orders orderService, idents identityService) {
	a, err := idents.Require(credentials.FromRequest(r))
	if err != nil {
		apierror.Write(w, err)

		return
	}

	result, err := orders.ListOrders(r.Context(), a.CustomerID)
	if err != nil {
		apierror.Write(w, err)
		slog.Error("Error listing orders", "customer_id", a.CustomerID, "error", err)

		return
	}

	respond.JSON(w, http.StatusOK, map[string][]order.Order{"orders": result})
}

// ListAllOrders returns every order, newest first. Admin only.
func ListAllOrders(w http.ResponseWriter, r *http.Request, orders orderService, idents identityService) {
	a, err := idents.Require(credentials.FromRequest(r))
	if err != nil {
		apierror.Write(w, err)

		return
	}
	if !a.IsAdmin() {
		apierror.Forbidden(w)

		return
	}

	result, err := orders.ListAllOrders(r.Context())
	if err != nil {
		apierror.Write(w, err)
		slog.Error("Error listing all orders", "error", err)

		return
	}

	respond.JSON(w, http.StatusOK, map[string][]order.Order{"orders": result})
}
