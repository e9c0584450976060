package linkorders

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/aurastore/backend/order/internal/service/models/actor"
	"github.com/aurastore/backend/order/internal/transport/http/v1/apierror"
	"github.com/aurastore/backend/order/internal/transport/http/v1/credentials"
	"github.com/aurastore/backend/order/internal/transport/http/v1/respond"
)

// identityService is an interface for the service layer.
type identityService interface {
	Require(credential string) (actor.Actor, error)
	LinkGuestOrdersToAccount(ctx context.Context, customerID string) (int, error)
}

// LinkOrders re-attributes guest orders matching the caller's email to
// the caller's account. Auth required. Typically invoked right after a
// former guest signs in.
func LinkOrders(w http.ResponseWriter, r *http.Request, idents identityService) {
	a, err := idents.Require(credentials.FromRequest(r))
	if err != nil {
		apierror.Write(w, err)

		return
	}

	linked, err := idents.LinkGuestOrdersToAccount(r.Context(), a.CustomerID)
	if err != nil {
		apierror.Write(w, err)
		slog.Error("Error linking guest orders", "customer_id", a.CustomerID, "error", err)

		return
	}

	respond.JSON(w, http.StatusOK, map[string]int{"linked": linked})
}
