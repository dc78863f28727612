package repo_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pkordes/tripbook/internal/domain"
	"github.com/pkordes/tripbook/internal/repo"
)

func TestShareRepo_Upsert_CreatesGrant(t *testing.T) {
	tx := beginTx(t)
	ctx := context.Background()
	owner := createUser(t, tx, "owner@example.com")
	friend := createUser(t, tx, "friend@example.com")
	trip := createTrip(t, tx, owner)

	got, err := repo.NewShareRepo(tx).Upsert(ctx, trip.ID, friend, domain.RoleEditor)

	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, got.ID)
	assert.Equal(t, trip.ID, got.TripID)
	assert.Equal(t, friend, got.UserID)
	assert.Equal(t, domain.RoleEditor, got.Role)
}

// Re-sharing with the same user updates the role in place: one row per
// (trip, user), latest role wins.
func TestShareRepo_Upsert_Idempotent(t *testing.T) {
	tx := beginTx(t)
	ctx := context.Background()
	owner := createUser(t, tx, "owner@example.com")
	friend := createUser(t, tx, "friend@example.com")
	trip := createTrip(t, tx, owner)
	shares := repo.NewShareRepo(tx)

	first, err := shares.Upsert(ctx, trip.ID, friend, domain.RoleEditor)
	require.NoError(t, err)

	second, err := shares.Upsert(ctx, trip.ID, friend, domain.RoleViewer)
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID, "same grant row")
	assert.Equal(t, domain.RoleViewer, second.Role)

	all, err := shares.ListByTrip(ctx, trip.ID)
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestShareRepo_Delete(t *testing.T) {
	tx := beginTx(t)
	ctx := context.Background()
	owner := createUser(t, tx, "owner@example.com")
	friend := createUser(t, tx, "friend@example.com")
	trip := createTrip(t, tx, owner)
	shares := repo.NewShareRepo(tx)

	_, err := shares.Upsert(ctx, trip.ID, friend, domain.RoleViewer)
	require.NoError(t, err)

	require.NoError(t, shares.Delete(ctx, trip.ID, friend))

	_, err = shares.GetRole(ctx, trip.ID, friend)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestShareRepo_Delete_NoGrant(t *testing.T) {
	tx := beginTx(t)
	owner := createUser(t, tx, "owner@example.com")
	trip := createTrip(t, tx, owner)

	err := repo.NewShareRepo(tx).Delete(context.Background(), trip.ID, uuid.New())

	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestShareRepo_GetRole(t *testing.T) {
	tx := beginTx(t)
	ctx := context.Background()
	owner := createUser(t, tx, "owner@example.com")
	friend := createUser(t, tx, "friend@example.com")
	trip := createTrip(t, tx, owner)
	shares := repo.NewShareRepo(tx)

	_, err := shares.Upsert(ctx, trip.ID, friend, domain.RoleEditor)
	require.NoError(t, err)

	role, err := shares.GetRole(ctx, trip.ID, friend)

	require.NoError(t, err)
	assert.Equal(t, domain.RoleEditor, role)
}

func TestShareRepo_ListByTrip_Empty(t *testing.T) {
	tx := beginTx(t)
	owner := createUser(t, tx, "owner@example.com")
	trip := createTrip(t, tx, owner)

	got, err := repo.NewShareRepo(tx).ListByTrip(context.Background(), trip.ID)

	require.NoError(t, err)
	assert.Empty(t, got)
}
