package identsvc

import (
	"context"
	"errors"
	"testing"

	"github.com/aurastore/backend/order/internal/service/models/actor"
	"github.com/aurastore/backend/order/internal/service/models/customer"
	"github.com/aurastore/backend/order/internal/service/models/order"
	"github.com/aurastore/backend/order/internal/service/servicerr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeVerifier struct {
	actor actor.Actor
	err   error
}

func (f *fakeVerifier) Verify(string) (actor.Actor, error) {
	return f.actor, f.err
}

type fakeCustomerRepo struct {
	customers   map[string]customer.Customer
	ensureCalls int
}

func (f *fakeCustomerRepo) GetByID(_ context.Context, id string) (customer.Customer, error) {
	c, ok := f.customers[id]
	if !ok {
		return customer.Customer{}, servicerr.ErrNotFound
	}

	return c, nil
}

func (f *fakeCustomerRepo) EnsureGuest(context.Context) (string, error) {
	f.ensureCalls++

	return customer.GuestID, nil
}

type fakeOrderRepo struct {
	orders     []order.Order
	reassigned map[string]string
}

func (f *fakeOrderRepo) Insert(_ context.Context, o order.Order) (order.Order, error) {
	f.orders = append(f.orders, o)

	return o, nil
}

func (f *fakeOrderRepo) Query(_ context.Context, filter *order.QueryOrdersModel) ([]order.Order, error) {
	var result []order.Order
	for _, o := range f.orders {
		for _, id := range filter.CustomerIds {
			if o.CustomerID == id {
				result = append(result, o)
			}
		}
	}

	return result, nil
}

func (f *fakeOrderRepo) UpdateStatus(
	context.Context, string, order.Status, *string, *string,
) (order.Order, error) {
	return order.Order{}, errors.New("not implemented")
}

func (f *fakeOrderRepo) Reassign(_ context.Context, ids []string, customerID string) error {
	if f.reassigned == nil {
		f.reassigned = map[string]string{}
	}
	for i := range f.orders {
		for _, id := range ids {
			if f.orders[i].ID == id {
				f.orders[i].CustomerID = customerID
				f.reassigned[id] = customerID
			}
		}
	}

	return nil
}

func newTestService(v *fakeVerifier, customers *fakeCustomerRepo, orders *fakeOrderRepo) *IdentityService {
	return &IdentityService{
		verifier:     v,
		customerRepo: customers,
		orderRepo:    orders,
	}
}

func guestOrder(id, email string) order.Order {
	return order.Order{
		ID:         id,
		CustomerID: customer.GuestID,
		Contact:    order.Contact{Email: email},
	}
}

func TestResolveDowngradesToGuest(t *testing.T) {
	svc := newTestService(&fakeVerifier{err: errors.New("bad signature")}, nil, nil)

	assert.True(t, svc.Resolve("").IsGuest(), "missing credential resolves to guest")
	assert.True(t, svc.Resolve("garbage").IsGuest(), "invalid credential resolves to guest")
}

func TestResolveAuthenticated(t *testing.T) {
	svc := newTestService(&fakeVerifier{actor: actor.Actor{CustomerID: "cust-1", Role: "ADMIN"}}, nil, nil)

	a := svc.Resolve("token")
	assert.Equal(t, "cust-1", a.CustomerID)
	assert.True(t, a.IsAdmin())
}

func TestRequireFailsForGuest(t *testing.T) {
	svc := newTestService(&fakeVerifier{err: errors.New("expired")}, nil, nil)

	_, err := svc.Require("expired-token")
	assert.ErrorIs(t, err, servicerr.ErrUnauthorized)
}

func TestEnsureGuestIdentityIdempotent(t *testing.T) {
	customers := &fakeCustomerRepo{}
	svc := newTestService(&fakeVerifier{}, customers, nil)

	first, err := svc.EnsureGuestIdentity(context.Background())
	require.NoError(t, err)
	second, err := svc.EnsureGuestIdentity(context.Background())
	require.NoError(t, err)

	assert.Equal(t, customer.GuestID, first)
	assert.Equal(t, first, second)
	assert.Equal(t, 2, customers.ensureCalls)
}

func TestLinkGuestOrdersMatchesEmailCaseInsensitively(t *testing.T) {
	customers := &fakeCustomerRepo{customers: map[string]customer.Customer{
		"cust-1": {ID: "cust-1", Email: "A@Example.com"},
	}}
	orders := &fakeOrderRepo{orders: []order.Order{
		guestOrder("AURA-000001", "a@example.com"),
		guestOrder("AURA-000002", "someone@else.com"),
		guestOrder("AURA-000003", ""),
	}}
	svc := newTestService(&fakeVerifier{}, customers, orders)

	linked, err := svc.LinkGuestOrdersToAccount(context.Background(), "cust-1")
	require.NoError(t, err)
	assert.Equal(t, 1, linked)
	assert.Equal(t, "cust-1", orders.reassigned["AURA-000001"])
}

func TestLinkGuestOrdersIdempotent(t *testing.T) {
	customers := &fakeCustomerRepo{customers: map[string]customer.Customer{
		"cust-1": {ID: "cust-1", Email: "a@example.com"},
	}}
	orders := &fakeOrderRepo{orders: []order.Order{
		guestOrder("AURA-000001", "a@example.com"),
	}}
	svc := newTestService(&fakeVerifier{}, customers, orders)

	linked, err := svc.LinkGuestOrdersToAccount(context.Background(), "cust-1")
	require.NoError(t, err)
	assert.Equal(t, 1, linked)

	// The relinked order no longer belongs to the guest placeholder,
	// so a second pass finds nothing.
	linked, err = svc.LinkGuestOrdersToAccount(context.Background(), "cust-1")
	require.NoError(t, err)
	assert.Equal(t, 0, linked)
}

func TestLinkGuestOrdersUnknownCustomer(t *testing.T) {
	customers := &fakeCustomerRepo{}
	orders := &fakeOrderRepo{}
	svc := newTestService(&fakeVerifier{}, customers, orders)

	linked, err := svc.LinkGuestOrdersToAccount(context.Background(), "nobody")
	require.NoError(t, err)
	assert.Equal(t, 0, linked)
}
