package postgresrepo

import (
	"context"
	"sync"
	"testing"

	"github.com/aurastore/backend/order/internal/dal/repositories/pgtest"
	"github.com/aurastore/backend/order/internal/service/models/customer"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnsureGuestConcurrentSingleRow(t *testing.T) {
	pool := pgtest.NewPool(t)
	repo := NewPostgresCustomerRepository(pool)

	const workers = 16
	ids := make([]string, workers)
	errs := make([]error, workers)

	var wg sync.WaitGroup
	wg.Add(workers)
	for i := 0; i < workers; i++ {
		go func(i int) {
			defer wg.Done()
			ids[i], errs[i] = repo.EnsureGuest(context.Background())
		}(i)
	}
	wg.Wait()

	for i := 0; i < workers; i++ {
		require.NoError(t, errs[i])
		assert.Equal(t, customer.GuestID, ids[i])
	}

	var count int
	err := pool.QueryRow(context.Background(), "SELECT count(*) FROM customers").Scan(&count)
	require.NoError(t, err)
	assert.Equal(t, 1, count, "concurrent provisioning must converge on one placeholder row")
}

func TestEnsureGuestReturnsExistingRow(t *testing.T) {
	pool := pgtest.NewPool(t)
	repo := NewPostgresCustomerRepository(pool)

	id, err := repo.EnsureGuest(context.Background())
	require.NoError(t, err)
	require.Equal(t, customer.GuestID, id)

	got, err := repo.GetByID(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, customer.GuestEmail, got.Email)
	assert.Equal(t, customer.RoleGuest, got.Role)

	again, err := repo.EnsureGuest(context.Background())
	require.NoError(t, err)
	assert.Equal(t, id, again)
}
