package identsvc

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	icustomer "github.com/aurastore/backend/order/internal/dal/interfaces/customer"
	iorder "github.com/aurastore/backend/order/internal/dal/interfaces/order"
	"github.com/aurastore/backend/order/internal/dal/postgres"
	customerrepo "github.com/aurastore/backend/order/internal/dal/repositories/customer/postgres"
	orderrepo "github.com/aurastore/backend/order/internal/dal/repositories/order/postgres"
	"github.com/aurastore/backend/order/internal/service/models/actor"
	"github.com/aurastore/backend/order/internal/service/models/customer"
	"github.com/aurastore/backend/order/internal/service/models/order"
	"github.com/aurastore/backend/order/internal/service/servicerr"
)

// IdentityService resolves request actors, provisions the guest
// placeholder identity and reconciles guest orders into accounts.
type IdentityService struct {
	pgClient     *postgres.Client
	verifier     tokenVerifier
	customerRepo icustomer.PostgresRepository
	orderRepo    iorder.PostgresRepository
}

// tokenVerifier checks a session credential and returns the actor it
// identifies.
type tokenVerifier interface {
	Verify(token string) (actor.Actor, error)
}

// option is a function that configures the IdentityService.
type option func(*IdentityService)

// MustNewIdentityService creates a new IdentityService.
func MustNewIdentityService(opts ...option) *IdentityService {
	s := &IdentityService{}
	for _, opt := range opts {
		opt(s)
	}

	if s.pgClient != nil {
		if s.customerRepo == nil {
			s.customerRepo = customerrepo.NewPostgresCustomerRepository(s.pgClient.Pool())
		}
		if s.orderRepo == nil {
			s.orderRepo = orderrepo.NewPostgresOrderRepository(s.pgClient.Pool())
		}
	}

	return s
}

// WithPostgresClient sets the Postgres client for the IdentityService.
//
//goland:noinspection GoExportedFuncWithUnexportedType
func WithPostgresClient(pgClient *postgres.Client) option {
	return func(s *IdentityService) {
		s.pgClient = pgClient
	}
}

// WithVerifier sets the session credential verifier.
//
//goland:noinspection GoExportedFuncWithUnexportedType
func WithVerifier(v tokenVerifier) option {
	return func(s *IdentityService) {
		s.verifier = v
	}
}

// Resolve determines the actor behind an optional session credential.
// An absent or invalid credential downgrades to guest; checkout must
// proceed as guest rather than fail.
func (s *IdentityService) Resolve(credential string) actor.Actor {
	if credential == "" {
		return actor.Guest()
	}

	a, err := s.verifier.Verify(credential)
	if err != nil {
		return actor.Guest()
	}

	return a
}

// Require resolves the actor for an auth-required operation, failing
// with Unauthorized when no valid credential is present.
func (s *IdentityService) Require(credential string) (actor.Actor, error) {
	a := s.Resolve(credential)
	if a.IsGuest() {
		return actor.Guest(), servicerr.ErrUnauthorized
	}

	return a, nil
}

// EnsureGuestIdentity returns the id of the guest placeholder identity,
// creating it if it does not exist yet. Idempotent and race-safe.
func (s *IdentityService) EnsureGuestIdentity(ctx context.Context) (string, error) {
	return s.customerRepo.EnsureGuest(ctx)
}

// LinkGuestOrdersToAccount re-attributes guest-placed orders whose
// checkout email matches the customer's current email, case
// insensitively. Returns the number of orders relinked. An unknown
// customer yields zero, not an error; relinking is advisory. Safe to
// call repeatedly: relinked orders leave the guest placeholder and drop
// out of later scans.
func (s *IdentityService) LinkGuestOrdersToAccount(
	ctx context.Context,
	customerID string,
) (int, error) {
	cust, err := s.customerRepo.GetByID(ctx, customerID)
	if err != nil {
		if errors.Is(err, servicerr.ErrNotFound) {
			return 0, nil
		}

		return 0, fmt.Errorf("failed to look up customer: %w", err)
	}

	guestOrders, err := s.orderRepo.Query(ctx, &order.QueryOrdersModel{
		CustomerIds: []string{customer.GuestID},
	})
	if err != nil {
		return 0, fmt.Errorf("failed to query guest orders: %w", err)
	}

	var matched []string
	for _, o := range guestOrders {
		if o.Contact.Email != "" && strings.EqualFold(o.Contact.Email, cust.Email) {
			matched = append(matched, o.ID)
		}
	}

	if len(matched) == 0 {
		return 0, nil
	}

	if err := s.orderRepo.Reassign(ctx, matched, cust.ID); err != nil {
		return 0, fmt.Errorf("failed to reassign guest orders: %w", err)
	}

	slog.Info("Relinked guest orders to account", "customer_id", cust.ID, "count", len(matched))

	return len(matched), nil
}
