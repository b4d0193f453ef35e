package repositories

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"payledger.backend/internal/domain/entities"
	domainerrors "payledger.backend/internal/domain/errors"
)

func TestVirtualAccountRepository_CreateIfAbsent(t *testing.T) {
	repo := NewVirtualAccountRepository(newMigratedDB(t))
	ctx := context.Background()
	owner := entities.Owner{Type: entities.OwnerTypeUser, ID: uuid.New()}

	created, err := repo.CreateIfAbsent(ctx, &entities.VirtualAccount{
		Owner:         owner,
		Provider:      entities.ProviderProvidus,
		AccountNumber: "9900112233",
		AccountName:   "Ada Obi",
	})
	require.NoError(t, err)
	assert.True(t, created)

	created, err = repo.CreateIfAbsent(ctx, &entities.VirtualAccount{
		Owner:         owner,
		Provider:      entities.ProviderProvidus,
		AccountNumber: "9900112244",
		AccountName:   "Ada Obi",
	})
	require.NoError(t, err)
	assert.False(t, created, "second account for same owner and provider must not be stored")

	got, err := repo.GetByOwnerAndProvider(ctx, owner, entities.ProviderProvidus)
	require.NoError(t, err)
	assert.Equal(t, "9900112233", got.AccountNumber)

	byNumber, err := repo.GetByAccountNumber(ctx, entities.ProviderProvidus, "9900112233")
	require.NoError(t, err)
	assert.Equal(t, owner, byNumber.Owner)

	_, err = repo.GetByAccountNumber(ctx, entities.ProviderPaystack, "9900112233")
	assert.ErrorIs(t, err, domainerrors.ErrNotFound)
}
