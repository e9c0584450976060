package updatestatus

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/aurastore/backend/order/internal/service/models/actor"
	"github.com/aurastore/backend/order/internal/service/models/order"
	"github.com/aurastore/backend/order/internal/service/servicerr"
	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeOrderService struct {
	lastStatus   string
	lastTracking *string
}

func (f *fakeOrderService) UpdateStatus(
	_ context.Context,
	id string,
	rawStatus string,
	trackingNumber *string,
	notes *string,
) (order.Order, error) {
	status, err := order.ParseStatus(rawStatus)
	if err != nil {
		return order.Order{}, err
	}

	f.lastStatus = rawStatus
	f.lastTracking = trackingNumber

	return order.Order{ID: id, Status: status, TrackingNumber: trackingNumber, Notes: notes}, nil
}

type fakeIdentityService struct {
	actor actor.Actor
	err   error
}

func (f *fakeIdentityService) Require(string) (actor.Actor, error) {
	return f.actor, f.err
}

func newRequest(body string) *http.Request {
	r := httptest.NewRequest(http.MethodPatch, "/api/orders/AURA-TEST01/status", strings.NewReader(body))

	rctx := chi.NewRouteContext()
	rctx.URLParams.Add("id", "AURA-TEST01")

	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

func TestUpdateStatusAsAdmin(t *testing.T) {
	orders := &fakeOrderService{}
	idents := &fakeIdentityService{actor: actor.Actor{CustomerID: "admin-1", Role: "ADMIN"}}

	w := httptest.NewRecorder()
	UpdateStatus(w, newRequest(`{"status": "SHIPPED", "trackingNumber": "VN123"}`), orders, idents)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "SHIPPED", orders.lastStatus)
	require.NotNil(t, orders.lastTracking)
	assert.Equal(t, "VN123", *orders.lastTracking)
}

func TestUpdateStatusRequiresAdmin(t *testing.T) {
	orders := &fakeOrderService{}
	idents := &fakeIdentityService{actor: actor.Actor{CustomerID: "cust-1", Role: "CUSTOMER"}}

	w := httptest.NewRecorder()
	UpdateStatus(w, newRequest(`{"status": "SHIPPED"}`), orders, idents)

	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Empty(t, orders.lastStatus)
}

func TestUpdateStatusRequiresAuth(t *testing.T) {
	orders := &fakeOrderService{}
	idents := &fakeIdentityService{err: servicerr.ErrUnauthorized}

	w := httptest.NewRecorder()
	UpdateStatus(w, newRequest(`{"status": "SHIPPED"}`), orders, idents)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestUpdateStatusInvalidLiteral(t *testing.T) {
	orders := &fakeOrderService{}
	idents := &fakeIdentityService{actor: actor.Actor{CustomerID: "admin-1", Role: "ADMIN"}}

	w := httptest.NewRecorder()
	UpdateStatus(w, newRequest(`{"status": "REFUNDED"}`), orders, idents)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}
