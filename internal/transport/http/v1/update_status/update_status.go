package updatestatus

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/aurastore/backend/order/internal/service/models/actor"
	"github.com/aurastore/backend/order/internal/service/models/order"
	"github.com/aurastore/backend/order/internal/transport/http/v1/apierror"
	"github.com/aurastore/backend/order/internal/transport/http/v1/credentials"
	"github.com/aurastore/backend/order/internal/transport/http/v1/respond"
	"github.com/go-chi/chi/v5"
)

// orderService is an interface for the service layer.
type orderService interface {
	UpdateStatus(
		ctx context.Context,
		id string,
		rawStatus string,
		trackingNumber *string,
		notes *string,
	) (order.Order, error)
}

// identityService resolves auth-required actors.
type identityService interface {
	Require(credential string) (actor.Actor, error)
}

type updateStatusRequest struct {
	Status         string  `json:"status"`
	TrackingNumber *string `json:"trackingNumber"`
	Notes          *string `json:"notes"`
}

// UpdateStatus sets a new order status. Admin only. An omitted tracking
// number or notes field clears the stored value; omission is not "no
// change".
func UpdateStatus(w http.ResponseWriter, r *http.Request, orders orderService, idents identityService) {
	a, err := idents.Require(credentials.FromRequest(r))
	if err != nil {
		apierror.Write(w, err)

		return
	}
	if !a.IsAdmin() {
		apierror.Forbidden(w)

		return
	}

	var req updateStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		apierror.BadRequest(w, "Failed to decode request body")
		slog.Error("Error decoding request body for update status", "error", err)

		return
	}

	id := chi.URLParam(r, "id")

	updated, err := orders.UpdateStatus(r.Context(), id, req.Status, req.TrackingNumber, req.Notes)
	if err != nil {
		apierror.Write(w, err)
		slog.Error("Error updating order status", "order_id", id, "error", err)

		return
	}

	respond.JSON(w, http.StatusOK, map[string]order.Order{"order": updated})
}
