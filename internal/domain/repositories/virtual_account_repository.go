package repositories

import (
	"context"

	"payledger.backend/internal/domain/entities"
)

// VirtualAccountRepository defines dedicated account data operations
type VirtualAccountRepository interface {
	GetByOwnerAndProvider(ctx context.Context, owner entities.Owner, provider string) (*entities.VirtualAccount, error)
	GetByAccountNumber(ctx context.Context, provider, accountNumber string) (*entities.VirtualAccount, error)
	// CreateIfAbsent inserts account unless (owner, provider) already exists; created is false on conflict
	CreateIfAbsent(ctx context.Context, account *entities.VirtualAccount) (created bool, err error)
}
