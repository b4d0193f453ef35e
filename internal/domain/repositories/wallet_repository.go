package repositories

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"payledger.backend/internal/domain/entities"
)

// WalletRepository defines wallet and wallet transaction data operations
type WalletRepository interface {
	// EnsureByOwner creates the owner's wallet if absent and returns the stored row
	EnsureByOwner(ctx context.Context, owner entities.Owner, currency string) (*entities.Wallet, error)
	GetByID(ctx context.Context, id uuid.UUID) (*entities.Wallet, error)
	GetByOwner(ctx context.Context, owner entities.Owner) (*entities.Wallet, error)
	UpdateBalance(ctx context.Context, id uuid.UUID, balance decimal.Decimal) error

	CreateTransaction(ctx context.Context, txn *entities.WalletTransaction) error
	ListTransactions(ctx context.Context, walletID uuid.UUID, limit, offset int) ([]*entities.WalletTransaction, int64, error)
	// SumTransactions returns the signed sum of all transactions and their count
	SumTransactions(ctx context.Context, walletID uuid.UUID) (decimal.Decimal, int64, error)
}
