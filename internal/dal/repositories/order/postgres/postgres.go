package postgresrepo

import (
	"context"
	"errors"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/aurastore/backend/order/internal/service/models/order"
	"github.com/aurastore/backend/order/internal/service/models/orderitem"
	"github.com/aurastore/backend/order/internal/service/servicerr"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// OrderDal represents order data access layer model.
type OrderDal struct {
	Id               string    `db:"id"`
	CustomerId       string    `db:"customer_id"`
	Status           string    `db:"status"`
	TotalCents       int64     `db:"total_cents"`
	ShippingFeeCents int64     `db:"shipping_fee_cents"`
	DiscountCents    int64     `db:"discount_cents"`
	TrackingNumber   *string   `db:"tracking_number"`
	Notes            *string   `db:"notes"`
	FullName         string    `db:"full_name"`
	Email            string    `db:"email"`
	Phone            string    `db:"phone"`
	Address          string    `db:"address"`
	City             string    `db:"city"`
	PostalCode       string    `db:"postal_code"`
	PaymentMethod    string    `db:"payment_method"`
	CreatedAt        time.Time `db:"created_at"`
	UpdatedAt        time.Time `db:"updated_at"`
}

// ToModel converts OrderDal to service layer Order model.
func (o *OrderDal) ToModel() (*order.Order, error) {
	status, err := order.ParseStatus(o.Status)
	if err != nil {
		return nil, err
	}

	return &order.Order{
		ID:               o.Id,
		CustomerID:       o.CustomerId,
		Status:           status,
		TotalCents:       o.TotalCents,
		ShippingFeeCents: o.ShippingFeeCents,
		DiscountCents:    o.DiscountCents,
		TrackingNumber:   o.TrackingNumber,
		Notes:            o.Notes,
		Contact: order.Contact{
			FullName:      o.FullName,
			Email:         o.Email,
			Phone:         o.Phone,
			Address:       o.Address,
			City:          o.City,
			PostalCode:    o.PostalCode,
			PaymentMethod: o.PaymentMethod,
		},
		CreatedAt:  o.CreatedAt,
		UpdatedAt:  o.UpdatedAt,
		OrderItems: []orderitem.OrderItem{}, // Will be populated separately
	}, nil
}

// OrderDalFromModel converts service layer Order model to OrderDal.
func OrderDalFromModel(o *order.Order) *OrderDal {
	return &OrderDal{
		Id:               o.ID,
		CustomerId:       o.CustomerID,
		Status:           o.Status.String(),
		TotalCents:       o.TotalCents,
		ShippingFeeCents: o.ShippingFeeCents,
		DiscountCents:    o.DiscountCents,
		TrackingNumber:   o.TrackingNumber,
		Notes:            o.Notes,
		FullName:         o.Contact.FullName,
		Email:            o.Contact.Email,
		Phone:            o.Contact.Phone,
		Address:          o.Contact.Address,
		City:             o.Contact.City,
		PostalCode:       o.Contact.PostalCode,
		PaymentMethod:    o.Contact.PaymentMethod,
		CreatedAt:        o.CreatedAt,
		UpdatedAt:        o.UpdatedAt,
	}
}

// GenericConn is an interface that works with both pgxpool.Pool and pgx.Tx
type GenericConn interface {
	Query(ctx context.Context, sql string, args ...interface{}) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...interface{}) pgx.Row
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
}

// PostgresOrderRepository represents a Postgres order repository.
type PostgresOrderRepository struct {
	conn GenericConn
	sb   sq.StatementBuilderType
}

// NewPostgresOrderRepository creates a new Postgres order repository.
func NewPostgresOrderRepository(conn GenericConn) *PostgresOrderRepository {
	return &PostgresOrderRepository{
		conn: conn,
		sb:   sq.StatementBuilder.PlaceholderFormat(sq.Dollar),
	}
}

var orderColumns = []string{
	"id",
	"customer_id",
	"status",
	"total_cents",
	"shipping_fee_cents",
	"discount_cents",
	"tracking_number",
	"notes",
	"full_name",
	"email",
	"phone",
	"address",
	"city",
	"postal_code",
	"payment_method",
	"created_at",
	"updated_at",
}

func scanOrder(row pgx.Row) (*OrderDal, error) {
	var dal OrderDal
	err := row.Scan(
		&dal.Id,
		&dal.CustomerId,
		&dal.Status,
		&dal.TotalCents,
		&dal.ShippingFeeCents,
		&dal.DiscountCents,
		&dal.TrackingNumber,
		&dal.Notes,
		&dal.FullName,
		&dal.Email,
		&dal.Phone,
		&dal.Address,
		&dal.City,
		&dal.PostalCode,
		&dal.PaymentMethod,
		&dal.CreatedAt,
		&dal.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	return &dal, nil
}

// Insert inserts a single order and returns the persisted order.
func (r *PostgresOrderRepository) Insert(ctx context.Context, o order.Order) (order.Order, error) {
	dal := OrderDalFromModel(&o)

	sql, args, err := r.sb.
		Insert("orders").
		Columns(orderColumns...).
		Values(
			dal.Id,
			dal.CustomerId,
			dal.Status,
			dal.TotalCents,
			dal.ShippingFeeCents,
			dal.DiscountCents,
			dal.TrackingNumber,
			dal.Notes,
			dal.FullName,
			dal.Email,
			dal.Phone,
			dal.Address,
			dal.City,
			dal.PostalCode,
			dal.PaymentMethod,
			dal.CreatedAt,
			dal.UpdatedAt,
		).
		Suffix("RETURNING " + columnList()).
		ToSql()
	if err != nil {
		return order.Order{}, fmt.Errorf("failed to build insert query: %w", err)
	}

	inserted, err := scanOrder(r.conn.QueryRow(ctx, sql, args...))
	if err != nil {
		return order.Order{}, fmt.Errorf("failed to insert order: %w", err)
	}

	model, err := inserted.ToModel()
	if err != nil {
		return order.Order{}, fmt.Errorf("failed to convert order dal to model: %w", err)
	}

	model.OrderItems = append(model.OrderItems, o.OrderItems...)

	return *model, nil
}

// Query retrieves orders based on filter criteria, newest first.
func (r *PostgresOrderRepository) Query(
	ctx context.Context,
	filter *order.QueryOrdersModel,
) ([]order.Order, error) {
	query := r.sb.
		Select(orderColumns...).
		From("orders").
		OrderBy("created_at DESC")

	if len(filter.Ids) > 0 {
		query = query.Where(sq.Eq{"id": filter.Ids})
	}

	if len(filter.CustomerIds) > 0 {
		query = query.Where(sq.Eq{"customer_id": filter.CustomerIds})
	}

	if filter.Limit > 0 {
		query = query.Limit(uint64(filter.Limit))
	}

	if filter.Offset > 0 {
		query = query.Offset(uint64(filter.Offset))
	}

	sql, args, err := query.ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build query: %w", err)
	}

	rows, err := r.conn.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query orders: %w", err)
	}
	defer rows.Close()

	var result []order.Order
	for rows.Next() {
		dal, err := scanOrder(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan order: %w", err)
		}

		model, err := dal.ToModel()
		if err != nil {
			return nil, fmt.Errorf("failed to convert order dal to model: %w", err)
		}
		result = append(result, *model)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration error: %w", err)
	}

	return result, nil
}

// UpdateStatus sets a new status on an order. Tracking number and notes
// are written verbatim; a nil pointer stores NULL rather than keeping
// the previous value.
func (r *PostgresOrderRepository) UpdateStatus(
	ctx context.Context,
	id string,
	status order.Status,
	trackingNumber *string,
	notes *string,
) (order.Order, error) {
	sql, args, err := r.sb.
		Update("orders").
		Set("status", status.String()).
		Set("tracking_number", trackingNumber).
		Set("notes", notes).
		Set("updated_at", time.Now()).
		Where(sq.Eq{"id": id}).
		Suffix("RETURNING " + columnList()).
		ToSql()
	if err != nil {
		return order.Order{}, fmt.Errorf("failed to build update query: %w", err)
	}

	updated, err := scanOrder(r.conn.QueryRow(ctx, sql, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return order.Order{}, servicerr.ErrNotFound
		}

		return order.Order{}, fmt.Errorf("failed to update order status: %w", err)
	}

	model, err := updated.ToModel()
	if err != nil {
		return order.Order{}, fmt.Errorf("failed to convert order dal to model: %w", err)
	}

	return *model, nil
}

// Reassign moves ownership of the given orders to another customer.
func (r *PostgresOrderRepository) Reassign(
	ctx context.Context,
	ids []string,
	customerID string,
) error {
	if len(ids) == 0 {
		return nil
	}

	sql, args, err := r.sb.
		Update("orders").
		Set("customer_id", customerID).
		Set("updated_at", time.Now()).
		Where(sq.Eq{"id": ids}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build reassign query: %w", err)
	}

	if _, err := r.conn.Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("failed to reassign orders: %w", err)
	}

	return nil
}

func columnList() string {
	list := orderColumns[0]
	for _, col := range orderColumns[1:] {
		list += ", " + col
	}

	return list
}
