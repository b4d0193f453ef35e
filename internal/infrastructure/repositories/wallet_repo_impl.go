package repositories

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"payledger.backend/internal/domain/entities"
	"payledger.backend/internal/infrastructure/models"
	"payledger.backend/pkg/utils"
)

// WalletRepositoryImpl implements WalletRepository
type WalletRepositoryImpl struct {
	db *gorm.DB
}

// NewWalletRepository creates a new wallet repository
func NewWalletRepository(db *gorm.DB) *WalletRepositoryImpl {
	return &WalletRepositoryImpl{db: db}
}

func (r *WalletRepositoryImpl) EnsureByOwner(ctx context.Context, owner entities.Owner, currency string) (*entities.Wallet, error) {
	if currency == "" {
		currency = entities.DefaultCurrency
	}
	now := time.Now()
	m := &models.Wallet{
		ID:        utils.GenerateUUIDv7(),
		OwnerType: string(owner.Type),
		OwnerID:   owner.ID,
		Currency:  currency,
		Balance:   decimal.Zero,
		Status:    string(entities.WalletStatusActive),
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := GetDB(ctx, r.db).Clauses(clause.OnConflict{DoNothing: true}).Create(m).Error; err != nil {
		return nil, err
	}
	return r.GetByOwner(ctx, owner)
}

func (r *WalletRepositoryImpl) GetByID(ctx context.Context, id uuid.UUID) (*entities.Wallet, error) {
	var m models.Wallet
	if err := lockable(ctx, r.db).Where("id = ?", id).First(&m).Error; err != nil {
		return nil, notFoundOr(err)
	}
	return r.toEntity(&m), nil
}

func (r *WalletRepositoryImpl) GetByOwner(ctx context.Context, owner entities.Owner) (*entities.Wallet, error) {
	var m models.Wallet
	if err := lockable(ctx, r.db).
		Where("owner_type = ? AND owner_id = ?", string(owner.Type), owner.ID).
		First(&m).Error; err != nil {
		return nil, notFoundOr(err)
	}
	return r.toEntity(&m), nil
}

func (r *WalletRepositoryImpl) UpdateBalance(ctx context.Context, id uuid.UUID, balance decimal.Decimal) error {
	result := GetDB(ctx, r.db).Model(&models.Wallet{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"balance":    balance,
			"updated_at": time.Now(),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return notFoundOr(gorm.ErrRecordNotFound)
	}
	return nil
}

func (r *WalletRepositoryImpl) CreateTransaction(ctx context.Context, txn *entities.WalletTransaction) error {
	if txn.ID == uuid.Nil {
		txn.ID = utils.GenerateUUIDv7()
	}
	if txn.CreatedAt.IsZero() {
		txn.CreatedAt = time.Now()
	}

	var metadata []byte
	if len(txn.Metadata) > 0 {
		raw, err := json.Marshal(txn.Metadata)
		if err != nil {
			return err
		}
		metadata = raw
	}

	m := &models.WalletTransaction{
		ID:            txn.ID,
		WalletID:      txn.WalletID,
		Direction:     string(txn.Direction),
		Amount:        txn.Amount,
		Currency:      txn.Currency,
		Reason:        txn.Reason,
		ReferenceType: txn.Reference.Type,
		ReferenceID:   txn.Reference.ID,
		Provider:      txn.Provider,
		SettlementID:  txn.SettlementID,
		Metadata:      metadata,
		BalanceAfter:  txn.BalanceAfter,
		CreatedAt:     txn.CreatedAt,
	}
	return GetDB(ctx, r.db).Create(m).Error
}

func (r *WalletRepositoryImpl) ListTransactions(ctx context.Context, walletID uuid.UUID, limit, offset int) ([]*entities.WalletTransaction, int64, error) {
	var total int64
	if err := GetDB(ctx, r.db).Model(&models.WalletTransaction{}).
		Where("wallet_id = ?", walletID).
		Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var ms []models.WalletTransaction
	if err := GetDB(ctx, r.db).
		Where("wallet_id = ?", walletID).
		Order("created_at DESC, id DESC").
		Limit(limit).Offset(offset).
		Find(&ms).Error; err != nil {
		return nil, 0, err
	}

	txns := make([]*entities.WalletTransaction, 0, len(ms))
	for i := range ms {
		txns = append(txns, r.toTransactionEntity(&ms[i]))
	}
	return txns, total, nil
}

// SumTransactions folds the log in Go so the result keeps decimal precision on every driver
func (r *WalletRepositoryImpl) SumTransactions(ctx context.Context, walletID uuid.UUID) (decimal.Decimal, int64, error) {
	type row struct {
		Direction string
		Amount    decimal.Decimal
	}
	var rows []row
	if err := GetDB(ctx, r.db).Model(&models.WalletTransaction{}).
		Select("direction", "amount").
		Where("wallet_id = ?", walletID).
		Find(&rows).Error; err != nil {
		return decimal.Zero, 0, err
	}

	sum := decimal.Zero
	for _, rw := range rows {
		if rw.Direction == string(entities.DirectionDebit) {
			sum = sum.Sub(rw.Amount)
			continue
		}
		sum = sum.Add(rw.Amount)
	}
	return sum, int64(len(rows)), nil
}

func (r *WalletRepositoryImpl) toEntity(m *models.Wallet) *entities.Wallet {
	return &entities.Wallet{
		ID:        m.ID,
		Owner:     entities.Owner{Type: entities.OwnerType(m.OwnerType), ID: m.OwnerID},
		Currency:  m.Currency,
		Balance:   m.Balance,
		Status:    entities.WalletStatus(m.Status),
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
}

func (r *WalletRepositoryImpl) toTransactionEntity(m *models.WalletTransaction) *entities.WalletTransaction {
	var metadata map[string]interface{}
	if len(m.Metadata) > 0 {
		_ = json.Unmarshal(m.Metadata, &metadata)
	}
	return &entities.WalletTransaction{
		ID:           m.ID,
		WalletID:     m.WalletID,
		Direction:    entities.Direction(m.Direction),
		Amount:       m.Amount,
		Currency:     m.Currency,
		Reason:       m.Reason,
		Reference:    entities.Reference{Type: m.ReferenceType, ID: m.ReferenceID},
		Provider:     m.Provider,
		SettlementID: m.SettlementID,
		Metadata:     metadata,
		BalanceAfter: m.BalanceAfter,
		CreatedAt:    m.CreatedAt,
	}
}
