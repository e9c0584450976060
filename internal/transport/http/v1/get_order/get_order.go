package getorder

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/aurastore/backend/order/internal/service/models/order"
	"github.com/aurastore/backend/order/internal/transport/http/v1/apierror"
	"github.com/aurastore/backend/order/internal/transport/http/v1/respond"
	"github.com/go-chi/chi/v5"
)

// orderService is an interface for the service layer.
type orderService interface {
	GetOrder(ctx context.Context, id string) (order.Order, error)
}

// GetOrder handles both direct lookup and track-by-number: the order id
// is the tracking number shown to customers.
func GetOrder(w http.ResponseWriter, r *http.Request, orders orderService) {
	id := chi.URLParam(r, "id")

	o, err := orders.GetOrder(r.Context(), id)
	if err != nil {
		apierror.Write(w, err)
		slog.Error("Error getting order", "order_id", id, "error", err)

		return
	}

	respond.JSON(w, http.StatusOK, map[string]order.Order{"order": o})
}
