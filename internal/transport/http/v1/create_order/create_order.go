package createorder

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/aurastore/backend/order/internal/service/models/actor"
	"github.com/aurastore/backend/order/internal/service/models/order"
	"github.com/aurastore/backend/order/internal/service/models/orderitem"
	"github.com/aurastore/backend/order/internal/service/servicerr"
	"github.com/aurastore/backend/order/internal/transport/http/v1/apierror"
	"github.com/aurastore/backend/order/internal/transport/http/v1/credentials"
	"github.com/aurastore/backend/order/internal/transport/http/v1/respond"
	"github.com/go-playground/validator/v10"
)

// orderService is an interface for the service layer.
type orderService interface {
	CreateOrder(ctx context.Context, o order.Order) (order.Order, error)
}

// identityService resolves the checkout actor. The credential is
// optional here: an invalid one downgrades to guest.
type identityService interface {
	Resolve(credential string) actor.Actor
	EnsureGuestIdentity(ctx context.Context) (string, error)
}

type orderItemRequest struct {
	ProductID  int64 `json:"productId" validate:"required,gt=0"`
	Quantity   int   `json:"quantity" validate:"required,gt=0"`
	PriceCents int64 `json:"priceCents" validate:"required,gt=0"`
}

type createOrderRequest struct {
	FullName         string             `json:"fullName"`
	Email            string             `json:"email" validate:"omitempty,email"`
	Phone            string             `json:"phone"`
	Address          string             `json:"address"`
	City             string             `json:"city"`
	PostalCode       string             `json:"postalCode"`
	PaymentMethod    string             `json:"paymentMethod"`
	Items            []orderItemRequest `json:"items" validate:"required,min=1,dive"`
	TotalCents       int64              `json:"totalCents" validate:"gte=0"`
	ShippingFeeCents int64              `json:"shippingFeeCents" validate:"gte=0"`
	DiscountCents    int64              `json:"discountCents" validate:"gte=0"`
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// CreateOrder handles the checkout request. An absent or invalid
// session credential never fails the checkout; the order is attributed
// to the guest placeholder identity instead.
func CreateOrder(w http.ResponseWriter, r *http.Request, orders orderService, idents identityService) {
	var req createOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		apierror.BadRequest(w, "Failed to decode request body")
		slog.Error("Error decoding request body for create order", "error", err)

		return
	}

	if err := validate.Struct(&req); err != nil {
		apierror.Write(w, toValidationError(err))

		return
	}

	a := idents.Resolve(credentials.FromRequest(r))
	ownerID := a.CustomerID
	if a.IsGuest() {
		var err error
		ownerID, err = idents.EnsureGuestIdentity(r.Context())
		if err != nil {
			apierror.Write(w, err)
			slog.Error("Error provisioning guest identity", "error", err)

			return
		}
	}

	items := make([]orderitem.OrderItem, 0, len(req.Items))
	for _, item := range req.Items {
		items = append(items, orderitem.OrderItem{
			ProductID:  item.ProductID,
			Quantity:   item.Quantity,
			PriceCents: item.PriceCents,
		})
	}

	created, err := orders.CreateOrder(r.Context(), order.Order{
		CustomerID:       ownerID,
		TotalCents:       req.TotalCents,
		ShippingFeeCents: req.ShippingFeeCents,
		DiscountCents:    req.DiscountCents,
		Contact: order.Contact{
			FullName:      req.FullName,
			Email:         req.Email,
			Phone:         req.Phone,
			Address:       req.Address,
			City:          req.City,
			PostalCode:    req.PostalCode,
			PaymentMethod: req.PaymentMethod,
		},
		OrderItems: items,
	})
	if err != nil {
		apierror.Write(w, err)
		slog.Error("Error creating order", "error", err)

		return
	}

	respond.JSON(w, http.StatusCreated, map[string]order.Order{"order": created})
}

func toValidationError(err error) error {
	verr := servicerr.NewValidationError()

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return verr.Add("body", err.Error())
	}

	for _, fe := range fieldErrs {
		verr.Add(fe.Field(), "failed validation on '"+fe.Tag()+"'")
	}

	return verr
}
