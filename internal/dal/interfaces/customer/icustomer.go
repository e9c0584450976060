package icustomer

import (
	"context"

	"github.com/aurastore/backend/order/internal/service/models/customer"
)

// PostgresRepository is an interface for the customer postgres repository.
type PostgresRepository interface {
	GetByID(ctx context.Context, id string) (customer.Customer, error)
	EnsureGuest(ctx context.Context) (string, error)
}
