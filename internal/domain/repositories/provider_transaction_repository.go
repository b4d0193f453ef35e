package repositories

import (
	"context"

	"github.com/google/uuid"
	"payledger.backend/internal/domain/entities"
)

// ProviderTransactionRepository stores the settlement dedupe/audit rows
type ProviderTransactionRepository interface {
	// InsertIfAbsent returns false when (provider, settlement id) was already recorded
	InsertIfAbsent(ctx context.Context, txn *entities.ProviderTransaction) (inserted bool, err error)
	AttachWalletTransaction(ctx context.Context, id, walletTransactionID uuid.UUID) error
	GetBySettlement(ctx context.Context, provider, settlementID string) (*entities.ProviderTransaction, error)
}
