package repositories

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"payledger.backend/internal/domain/entities"
	"payledger.backend/internal/infrastructure/models"
	"payledger.backend/pkg/utils"
)

// ProviderTransactionRepositoryImpl implements ProviderTransactionRepository
type ProviderTransactionRepositoryImpl struct {
	db *gorm.DB
}

func NewProviderTransactionRepository(db *gorm.DB) *ProviderTransactionRepositoryImpl {
	return &ProviderTransactionRepositoryImpl{db: db}
}

// InsertIfAbsent relies on the (provider, settlement_id) unique index. A zero RowsAffected
// means a concurrent or earlier delivery already claimed the settlement.
func (r *ProviderTransactionRepositoryImpl) InsertIfAbsent(ctx context.Context, txn *entities.ProviderTransaction) (bool, error) {
	if txn.ID == uuid.Nil {
		txn.ID = utils.GenerateUUIDv7()
	}
	if txn.CreatedAt.IsZero() {
		txn.CreatedAt = time.Now()
	}

	m := &models.ProviderTransaction{
		ID:                  txn.ID,
		Provider:            txn.Provider,
		SettlementID:        txn.SettlementID,
		SessionID:           txn.SessionID,
		AccountNumber:       txn.AccountNumber,
		TransactionAmount:   txn.TransactionAmount,
		SettledAmount:       txn.SettledAmount,
		FeeAmount:           txn.FeeAmount,
		VatAmount:           txn.VatAmount,
		Currency:            txn.Currency,
		RawPayload:          txn.RawPayload,
		WalletTransactionID: txn.WalletTransactionID,
		CreatedAt:           txn.CreatedAt,
	}
	result := GetDB(ctx, r.db).Clauses(clause.OnConflict{DoNothing: true}).Create(m)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

func (r *ProviderTransactionRepositoryImpl) AttachWalletTransaction(ctx context.Context, id, walletTransactionID uuid.UUID) error {
	return GetDB(ctx, r.db).Model(&models.ProviderTransaction{}).
		Where("id = ?", id).
		Update("wallet_transaction_id", walletTransactionID).Error
}

func (r *ProviderTransactionRepositoryImpl) GetBySettlement(ctx context.Context, provider, settlementID string) (*entities.ProviderTransaction, error) {
	var m models.ProviderTransaction
	if err := GetDB(ctx, r.db).
		Where("provider = ? AND settlement_id = ?", provider, settlementID).
		First(&m).Error; err != nil {
		return nil, notFoundOr(err)
	}
	return &entities.ProviderTransaction{
		ID:                  m.ID,
		Provider:            m.Provider,
		SettlementID:        m.SettlementID,
		SessionID:           m.SessionID,
		AccountNumber:       m.AccountNumber,
		TransactionAmount:   m.TransactionAmount,
		SettledAmount:       m.SettledAmount,
		FeeAmount:           m.FeeAmount,
		VatAmount:           m.VatAmount,
		Currency:            m.Currency,
		RawPayload:          m.RawPayload,
		WalletTransactionID: m.WalletTransactionID,
		CreatedAt:           m.CreatedAt,
	}, nil
}
