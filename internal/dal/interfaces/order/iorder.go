package iorder

import (
	"context"

	"github.com/aurastore/backend/order/internal/service/models/order"
)

// PostgresRepository is an interface for the order postgres repository.
type PostgresRepository interface {
	Insert(ctx context.Context, o order.Order) (order.Order, error)
	Query(ctx context.Context, filter *order.QueryOrdersModel) ([]order.Order, error)
	UpdateStatus(
		ctx context.Context,
		id string,
		status order.Status,
		trackingNumber *string,
		notes *string,
	) (order.Order, error)
	Reassign(ctx context.Context, ids []string, customerID string) error
}
