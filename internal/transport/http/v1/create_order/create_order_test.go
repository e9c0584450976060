package createorder

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/aurastore/backend/order/internal/service/models/actor"
	"github.com/aurastore/backend/order/internal/service/models/customer"
	"github.com/aurastore/backend/order/internal/service/models/order"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeOrderService struct {
	created *order.Order
}

func (f *fakeOrderService) CreateOrder(_ context.Context, o order.Order) (order.Order, error) {
	o.ID = "AURA-TEST01"
	o.Status = order.StatusConfirmed
	o.TotalCents = 0
	for _, item := range o.OrderItems {
		o.TotalCents += item.PriceCents * int64(item.Quantity)
	}
	f.created = &o

	return o, nil
}

type fakeIdentityService struct {
	actor actor.Actor
}

func (f *fakeIdentityService) Resolve(credential string) actor.Actor {
	if credential == "" {
		return actor.Guest()
	}

	return f.actor
}

func (f *fakeIdentityService) EnsureGuestIdentity(context.Context) (string, error) {
	return customer.GuestID, nil
}

const checkoutBody = `{
	"fullName": "Ada Lovelace",
	"email": "ada@example.com",
	"paymentMethod": "cod",
	"totalCents": 150,
	"items": [{"productId": 1, "quantity": 2, "priceCents": 100}]
}`

func TestCreateOrderAsGuest(t *testing.T) {
	orders := &fakeOrderService{}
	idents := &fakeIdentityService{}

	r := httptest.NewRequest(http.MethodPost, "/api/orders", strings.NewReader(checkoutBody))
	w := httptest.NewRecorder()

	CreateOrder(w, r, orders, idents)

	assert.Equal(t, http.StatusCreated, w.Code)
	require.NotNil(t, orders.created)
	assert.Equal(t, customer.GuestID, orders.created.CustomerID)
	assert.Equal(t, int64(200), orders.created.TotalCents)
}

func TestCreateOrderAuthenticated(t *testing.T) {
	orders := &fakeOrderService{}
	idents := &fakeIdentityService{actor: actor.Actor{CustomerID: "cust-1"}}

	r := httptest.NewRequest(http.MethodPost, "/api/orders", strings.NewReader(checkoutBody))
	r.Header.Set("Authorization", "Bearer some-token")
	w := httptest.NewRecorder()

	CreateOrder(w, r, orders, idents)

	assert.Equal(t, http.StatusCreated, w.Code)
	require.NotNil(t, orders.created)
	assert.Equal(t, "cust-1", orders.created.CustomerID)
}

func TestCreateOrderValidationPayload(t *testing.T) {
	orders := &fakeOrderService{}
	idents := &fakeIdentityService{}

	body := `{"items": [{"productId": 1, "quantity": 0, "priceCents": 100}]}`
	r := httptest.NewRequest(http.MethodPost, "/api/orders", strings.NewReader(body))
	w := httptest.NewRecorder()

	CreateOrder(w, r, orders, idents)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Nil(t, orders.created)

	var payload struct {
		Error   string            `json:"error"`
		Details map[string]string `json:"details"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &payload))
	assert.Equal(t, "Validation failed", payload.Error)
	assert.NotEmpty(t, payload.Details)
}

func TestCreateOrderMalformedBody(t *testing.T) {
	orders := &fakeOrderService{}
	idents := &fakeIdentityService{}

	r := httptest.NewRequest(http.MethodPost, "/api/orders", strings.NewReader("{"))
	w := httptest.NewRecorder()

	CreateOrder(w, r, orders, idents)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Nil(t, orders.created)
}
