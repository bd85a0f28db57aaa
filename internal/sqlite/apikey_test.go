package sqlite

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ganot/docflow/internal/repository"
)

func TestAPIKeyRepository(t *testing.T) {
	db := NewTestDB(t)
	ctx := context.Background()
	repo := NewAPIKeyRepository(db)

	require.NoError(t, repo.Create(ctx, "tenant1", "secret-token", "ci"))
	require.ErrorIs(t, repo.Create(ctx, "tenant2", "secret-token", ""), repository.ErrConflict)

	tenant, err := repo.ResolveTenant(ctx, "secret-token")
	require.NoError(t, err)
	require.Equal(t, "tenant1", tenant)

	_, err = repo.ResolveTenant(ctx, "other")
	require.ErrorIs(t, err, repository.ErrNotFound)

	var stored string
	require.NoError(t, db.QueryRow(`SELECT key_hash FROM api_keys`).Scan(&stored))
	require.Equal(t, HashToken("secret-token"), stored)
	require.NotEqual(t, "secret-token", stored)
}
