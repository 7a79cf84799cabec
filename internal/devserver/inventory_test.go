package devserver

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sync"
	"sync/atomic"
	"testing"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/semanticallynull/campusride/scooter"
)

// bookConcurrently books the same scooter from n users at once and returns
// how many bookings succeeded.
func bookConcurrently(t *testing.T, inv Inventory, scooterID string, n int) int64 {
	t.Helper()

	var (
		wg      sync.WaitGroup
		booked  atomic.Int64
		refused atomic.Int64
	)
	for i := range n {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _, err := inv.Book(context.Background(), scooterID, fmt.Sprintf("user-%d", i))
			switch {
			case err == nil:
				booked.Add(1)
			case errors.Is(err, scooter.ErrNotAvailable):
				refused.Add(1)
			default:
				t.Errorf("unexpected error: %v", err)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, int64(n), booked.Load()+refused.Load())
	return booked.Load()
}

func TestMemoryInventory_ConcurrentBooking(t *testing.T) {
	inv := NewMemoryInventory(Fleet())
	assert.Equal(t, int64(1), bookConcurrently(t, inv, "sc-002", 25))
}

func TestMemoryInventory_Book(t *testing.T) {
	inv := NewMemoryInventory(Fleet())
	ctx := context.Background()

	s, r, err := inv.Book(ctx, "sc-004", "u1")
	require.NoError(t, err)
	assert.Equal(t, scooter.InUse, s.Status)
	assert.Equal(t, "Yellow Bolt", r.ScooterName)
	assert.Equal(t, "Central Library", r.StartLocation)

	_, _, err = inv.Book(ctx, "sc-004", "u2")
	assert.ErrorIs(t, err, scooter.ErrNotAvailable)
	_, _, err = inv.Book(ctx, "missing", "u2")
	assert.ErrorIs(t, err, scooter.ErrNotFound)

	rides, err := inv.Rides(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, rides, 1)

	_, err = inv.Ride(ctx, "u2", r.ID)
	assert.ErrorIs(t, err, ErrRideNotFound)
}

func TestMemoryInventory_ReturnsCopies(t *testing.T) {
	inv := NewMemoryInventory(Fleet())

	list, err := inv.Scooters(context.Background())
	require.NoError(t, err)
	list[0].Status = scooter.InUse
	list[0].Location.Coordinates[0] = 0

	again, err := inv.Scooters(context.Background())
	require.NoError(t, err)
	assert.Equal(t, scooter.Available, again[0].Status)
	assert.Equal(t, 31.041779, again[0].Location.Coordinates[0])
}

func TestSQLInventory(t *testing.T) {
	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		t.Skip("DATABASE_URL not set")
	}

	db, err := sqlx.Connect("pgx", dbURL)
	require.NoError(t, err)
	defer db.Close()

	ctx := context.Background()
	db.MustExec(`DROP TABLE IF EXISTS rides; DROP TABLE IF EXISTS scooters;`)

	inv := NewSQLInventory(db)
	require.NoError(t, inv.EnsureSchema(ctx, Fleet()))
	require.NoError(t, inv.EnsureSchema(ctx, Fleet()), "schema setup is repeatable")

	list, err := inv.Scooters(ctx)
	require.NoError(t, err)
	assert.Len(t, list, len(Fleet()))

	assert.Equal(t, int64(1), bookConcurrently(t, inv, "sc-003", 10))

	rides, err := inv.Rides(ctx, "user-0")
	require.NoError(t, err)
	all := len(rides)
	for i := 1; i < 10; i++ {
		rides, err = inv.Rides(ctx, fmt.Sprintf("user-%d", i))
		require.NoError(t, err)
		all += len(rides)
	}
	assert.Equal(t, 1, all)

	_, _, err = inv.Book(ctx, "missing", "u")
	assert.ErrorIs(t, err, scooter.ErrNotFound)

	_, err = inv.Ride(ctx, "u", "not-a-uuid")
	assert.ErrorIs(t, err, ErrRideNotFound)
}
