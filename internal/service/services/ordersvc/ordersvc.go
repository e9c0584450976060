package ordersvc

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	iorder "github.com/aurastore/backend/order/internal/dal/interfaces/order"
	iorderitem "github.com/aurastore/backend/order/internal/dal/interfaces/orderitem"
	"github.com/aurastore/backend/order/internal/dal/postgres"
	"github.com/aurastore/backend/order/internal/dal/uow"
	"github.com/aurastore/backend/order/internal/service/models/order"
	"github.com/aurastore/backend/order/internal/service/models/orderitem"
	"github.com/aurastore/backend/order/internal/service/servicerr"
)

// OrderService is the order ledger: it owns order records and is the
// only writer of order status.
type OrderService struct {
	pgClient *postgres.Client
	notifier notifier
	newUOW   func() unitOfWork
}

type unitOfWork interface {
	Begin(ctx context.Context) error
	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error

	OrderRepository() iorder.PostgresRepository
	OrderItemRepository() iorderitem.PostgresRepository
}

// notifier informs a customer that an order was placed. Implementations
// never surface an outcome to the caller.
type notifier interface {
	NotifyOrderPlaced(email, orderID string, totalCents int64)
}

// option is a function that configures the OrderService.
type option func(*OrderService)

// MustNewOrderService creates a new OrderService.
func MustNewOrderService(opts ...option) *OrderService {
	s := &OrderService{}
	for _, opt := range opts {
		opt(s)
	}

	if s.newUOW == nil {
		s.newUOW = func() unitOfWork { return uow.NewUnitOfWork(s.pgClient) }
	}

	return s
}

// WithPostgresClient sets the Postgres client for the OrderService.
//
//goland:noinspection GoExportedFuncWithUnexportedType
func WithPostgresClient(pgClient *postgres.Client) option {
	return func(s *OrderService) {
		s.pgClient = pgClient
	}
}

// WithNotifier sets the order-placed notifier for the OrderService.
//
//goland:noinspection GoExportedFuncWithUnexportedType
func WithNotifier(n notifier) option {
	return func(s *OrderService) {
		s.notifier = n
	}
}

// CreateOrder persists a new order with its items in a transaction and
// dispatches the order-placed notification after the commit. The
// persisted total is always the server-computed sum of price times
// quantity; a diverging caller-declared total is accepted but ignored.
func (s *OrderService) CreateOrder(ctx context.Context, o order.Order) (order.Order, error) {
	if err := validateOrder(&o); err != nil {
		return order.Order{}, err
	}

	var computedTotal int64
	for _, item := range o.OrderItems {
		computedTotal += item.PriceCents * int64(item.Quantity)
	}
	if o.TotalCents != computedTotal {
		slog.Warn("Declared order total differs from computed total, using computed",
			"declared_cents", o.TotalCents,
			"computed_cents", computedTotal,
		)
	}

	now := time.Now()
	o.ID = order.NewID()
	o.Status = order.StatusConfirmed
	o.TotalCents = computedTotal
	o.CreatedAt = now
	o.UpdatedAt = now

	work := s.newUOW()

	if err := work.Begin(ctx); err != nil {
		return order.Order{}, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = work.Rollback(ctx) }()

	inserted, err := work.OrderRepository().Insert(ctx, o)
	if err != nil {
		return order.Order{}, err
	}

	items := make([]orderitem.OrderItem, 0, len(o.OrderItems))
	for _, item := range o.OrderItems {
		item.OrderID = inserted.ID
		item.CreatedAt = now
		item.UpdatedAt = now
		items = append(items, item)
	}

	items, err = work.OrderItemRepository().BulkInsert(ctx, items)
	if err != nil {
		return order.Order{}, err
	}
	inserted.OrderItems = items

	if err := work.Commit(ctx); err != nil {
		return order.Order{}, fmt.Errorf("failed to commit transaction: %w", err)
	}

	// Dispatch only after the order is durably committed. The outcome
	// is never joined before responding.
	if s.notifier != nil && inserted.Contact.Email != "" {
		s.notifier.NotifyOrderPlaced(inserted.Contact.Email, inserted.ID, inserted.TotalCents)
	}

	return inserted, nil
}

// GetOrder retrieves a single order with its items. The order id is
// also the externally shown tracking number.
func (s *OrderService) GetOrder(ctx context.Context, id string) (order.Order, error) {
	work := s.newUOW()

	orders, err := work.OrderRepository().Query(ctx, &order.QueryOrdersModel{Ids: []string{id}})
	if err != nil {
		return order.Order{}, err
	}
	if len(orders) == 0 {
		return order.Order{}, servicerr.ErrNotFound
	}

	withItems, err := s.attachItems(ctx, work, orders)
	if err != nil {
		return order.Order{}, err
	}

	return withItems[0], nil
}

// ListOrders retrieves the orders owned by a customer, newest first.
func (s *OrderService) ListOrders(ctx context.Context, customerID string) ([]order.Order, error) {
	work := s.newUOW()

	orders, err := work.OrderRepository().Query(ctx, &order.QueryOrdersModel{
		CustomerIds: []string{customerID},
	})
	if err != nil {
		return nil, err
	}

	return s.attachItems(ctx, work, orders)
}

// ListAllOrders retrieves every order, newest first. Admin view.
func (s *OrderService) ListAllOrders(ctx context.Context) ([]order.Order, error) {
	work := s.newUOW()

	orders, err := work.OrderRepository().Query(ctx, &order.QueryOrdersModel{})
	if err != nil {
		return nil, err
	}

	return s.attachItems(ctx, work, orders)
}

// UpdateStatus sets a new status on an order. Any of the five status
// literals may follow any other; CANCELLED and DELIVERED are not
// enforced as terminal. Tracking number and notes overwrite the stored
// values verbatim, nil storing NULL.
func (s *OrderService) UpdateStatus(
	ctx context.Context,
	id string,
	rawStatus string,
	trackingNumber *string,
	notes *string,
) (order.Order, error) {
	status, err := order.ParseStatus(rawStatus)
	if err != nil {
		return order.Order{}, err
	}

	work := s.newUOW()

	updated, err := work.OrderRepository().UpdateStatus(ctx, id, status, trackingNumber, notes)
	if err != nil {
		return order.Order{}, err
	}

	withItems, err := s.attachItems(ctx, work, []order.Order{updated})
	if err != nil {
		return order.Order{}, err
	}

	return withItems[0], nil
}

func (s *OrderService) attachItems(
	ctx context.Context,
	work unitOfWork,
	orders []order.Order,
) ([]order.Order, error) {
	if len(orders) == 0 {
		return []order.Order{}, nil
	}

	query := &orderitem.QueryOrderItemsModel{}
	for _, o := range orders {
		query.OrderIds = append(query.OrderIds, o.ID)
	}

	items, err := work.OrderItemRepository().Query(ctx, query)
	if err != nil {
		return nil, err
	}

	for i := range orders {
		for _, item := range items {
			if item.OrderID == orders[i].ID {
				orders[i].OrderItems = append(orders[i].OrderItems, item)
			}
		}
	}

	return orders, nil
}

func validateOrder(o *order.Order) error {
	verr := servicerr.NewValidationError()

	if o.CustomerID == "" {
		verr.Add("customerId", "owner identity is required")
	}
	if len(o.OrderItems) == 0 {
		verr.Add("items", "at least one item is required")
	}

	for i, item := range o.OrderItems {
		if item.ProductID <= 0 {
			verr.Add(fmt.Sprintf("items[%d].productId", i), "must be positive")
		}
		if item.Quantity <= 0 {
			verr.Add(fmt.Sprintf("items[%d].quantity", i), "must be positive")
		}
		if item.PriceCents <= 0 {
			verr.Add(fmt.Sprintf("items[%d].priceCents", i), "must be positive")
		}
	}

	if !verr.Empty() {
		return verr
	}

	return nil
}
