package postgresrepo

import (
	"context"
	"errors"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/aurastore/backend/order/internal/service/models/customer"
	"github.com/aurastore/backend/order/internal/service/servicerr"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// CustomerDal represents customer data access layer model.
type CustomerDal struct {
	Id           string    `db:"id"`
	Email        string    `db:"email"`
	FullName     string    `db:"full_name"`
	PasswordHash string    `db:"password_hash"`
	Role         string    `db:"role"`
	CreatedAt    time.Time `db:"created_at"`
	UpdatedAt    time.Time `db:"updated_at"`
}

// ToModel converts CustomerDal to service layer Customer model.
func (c *CustomerDal) ToModel() *customer.Customer {
	return &customer.Customer{
		ID:           c.Id,
		Email:        c.Email,
		FullName:     c.FullName,
		PasswordHash: c.PasswordHash,
		Role:         c.Role,
		CreatedAt:    c.CreatedAt,
		UpdatedAt:    c.UpdatedAt,
	}
}

// GenericConn is an interface that works with both pgxpool.Pool and pgx.Tx
type GenericConn interface {
	Query(ctx context.Context, sql string, args ...interface{}) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...interface{}) pgx.Row
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
}

// PostgresCustomerRepository represents a Postgres customer repository.
type PostgresCustomerRepository struct {
	conn GenericConn
	sb   sq.StatementBuilderType
}

// NewPostgresCustomerRepository creates a new Postgres customer repository.
func NewPostgresCustomerRepository(conn GenericConn) *PostgresCustomerRepository {
	return &PostgresCustomerRepository{
		conn: conn,
		sb:   sq.StatementBuilder.PlaceholderFormat(sq.Dollar),
	}
}

var customerColumns = []string{
	"id",
	"email",
	"full_name",
	"password_hash",
	"role",
	"created_at",
	"updated_at",
}

func scanCustomer(row pgx.Row) (*CustomerDal, error) {
	var dal CustomerDal
	err := row.Scan(
		&dal.Id,
		&dal.Email,
		&dal.FullName,
		&dal.PasswordHash,
		&dal.Role,
		&dal.CreatedAt,
		&dal.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	return &dal, nil
}

// GetByID retrieves a customer by id.
func (r *PostgresCustomerRepository) GetByID(
	ctx context.Context,
	id string,
) (customer.Customer, error) {
	sql, args, err := r.sb.
		Select(customerColumns...).
		From("customers").
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return customer.Customer{}, fmt.Errorf("failed to build query: %w", err)
	}

	dal, err := scanCustomer(r.conn.QueryRow(ctx, sql, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return customer.Customer{}, servicerr.ErrNotFound
		}

		return customer.Customer{}, fmt.Errorf("failed to get customer: %w", err)
	}

	return *dal.ToModel(), nil
}

// EnsureGuest makes sure the guest placeholder identity exists and
// returns its id. Creation is a single winner under concurrent first
// use: the unique constraint absorbs the race and the loser reads the
// row the winner inserted.
func (r *PostgresCustomerRepository) EnsureGuest(ctx context.Context) (string, error) {
	guest := customer.Guest()
	now := time.Now()

	sql, args, err := r.sb.
		Insert("customers").
		Columns(customerColumns...).
		Values(
			guest.ID,
			guest.Email,
			guest.FullName,
			"",
			guest.Role,
			now,
			now,
		).
		Suffix("ON CONFLICT (id) DO NOTHING").
		ToSql()
	if err != nil {
		return "", fmt.Errorf("failed to build insert query: %w", err)
	}

	if _, err := r.conn.Exec(ctx, sql, args...); err != nil {
		// The lower(email) unique index can also fire when two first
		// checkouts race; treat it like the id conflict and fall
		// through to the read.
		if !isUniqueViolation(err) {
			return "", fmt.Errorf("failed to ensure guest identity: %w", err)
		}
	}

	got, err := r.GetByID(ctx, guest.ID)
	if err != nil {
		return "", fmt.Errorf("failed to read guest identity: %w", err)
	}

	return got.ID, nil
}

const uniqueViolationCode = "23505"

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == uniqueViolationCode
	}

	return false
}
