package postgresrepo

import (
	"context"
	"testing"
	"time"

	customerrepo "github.com/aurastore/backend/order/internal/dal/repositories/customer/postgres"
	"github.com/aurastore/backend/order/internal/dal/repositories/pgtest"
	"github.com/aurastore/backend/order/internal/service/models/customer"
	"github.com/aurastore/backend/order/internal/service/models/order"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQueryReturnsNewestFirst(t *testing.T) {
	pool := pgtest.NewPool(t)

	_, err := customerrepo.NewPostgresCustomerRepository(pool).EnsureGuest(context.Background())
	require.NoError(t, err)

	repo := NewPostgresOrderRepository(pool)

	// Inserted out of creation order on purpose.
	base := time.Date(2025, 9, 1, 12, 0, 0, 0, time.UTC)
	for _, o := range []struct {
		id  string
		age time.Duration
	}{
		{"AURA-OLDEST", 0},
		{"AURA-NEWEST", 2 * time.Hour},
		{"AURA-MIDDLE", time.Hour},
	} {
		_, err := repo.Insert(context.Background(), order.Order{
			ID:         o.id,
			CustomerID: customer.GuestID,
			Status:     order.StatusConfirmed,
			TotalCents: 100,
			CreatedAt:  base.Add(o.age),
			UpdatedAt:  base.Add(o.age),
		})
		require.NoError(t, err)
	}

	got, err := repo.Query(context.Background(), &order.QueryOrdersModel{
		CustomerIds: []string{customer.GuestID},
	})
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, "AURA-NEWEST", got[0].ID)
	assert.Equal(t, "AURA-MIDDLE", got[1].ID)
	assert.Equal(t, "AURA-OLDEST", got[2].ID)
}

func TestUpdateStatusOverwritesTrackingWithNull(t *testing.T) {
	pool := pgtest.NewPool(t)

	_, err := customerrepo.NewPostgresCustomerRepository(pool).EnsureGuest(context.Background())
	require.NoError(t, err)

	repo := NewPostgresOrderRepository(pool)

	now := time.Now().UTC()
	_, err = repo.Insert(context.Background(), order.Order{
		ID:         "AURA-TRACK1",
		CustomerID: customer.GuestID,
		Status:     order.StatusConfirmed,
		TotalCents: 100,
		CreatedAt:  now,
		UpdatedAt:  now,
	})
	require.NoError(t, err)

	tracking := "VN123"
	updated, err := repo.UpdateStatus(context.Background(), "AURA-TRACK1", order.StatusShipped, &tracking, nil)
	require.NoError(t, err)
	require.NotNil(t, updated.TrackingNumber)
	assert.Equal(t, "VN123", *updated.TrackingNumber)

	updated, err = repo.UpdateStatus(context.Background(), "AURA-TRACK1", order.StatusDelivered, nil, nil)
	require.NoError(t, err)
	assert.Nil(t, updated.TrackingNumber)
	assert.Equal(t, order.StatusDelivered, updated.Status)
}
