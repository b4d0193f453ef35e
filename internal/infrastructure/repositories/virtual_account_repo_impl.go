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

// VirtualAccountRepositoryImpl implements VirtualAccountRepository
type VirtualAccountRepositoryImpl struct {
	db *gorm.DB
}

func NewVirtualAccountRepository(db *gorm.DB) *VirtualAccountRepositoryImpl {
	return &VirtualAccountRepositoryImpl{db: db}
}

func (r *VirtualAccountRepositoryImpl) GetByOwnerAndProvider(ctx context.Context, owner entities.Owner, provider string) (*entities.VirtualAccount, error) {
	var m models.VirtualAccount
	if err := GetDB(ctx, r.db).
		Where("owner_type = ? AND owner_id = ? AND provider = ?", string(owner.Type), owner.ID, provider).
		First(&m).Error; err != nil {
		return nil, notFoundOr(err)
	}
	return r.toEntity(&m), nil
}

func (r *VirtualAccountRepositoryImpl) GetByAccountNumber(ctx context.Context, provider, accountNumber string) (*entities.VirtualAccount, error) {
	var m models.VirtualAccount
	if err := GetDB(ctx, r.db).
		Where("provider = ? AND account_number = ?", provider, accountNumber).
		First(&m).Error; err != nil {
		return nil, notFoundOr(err)
	}
	return r.toEntity(&m), nil
}

func (r *VirtualAccountRepositoryImpl) CreateIfAbsent(ctx context.Context, account *entities.VirtualAccount) (bool, error) {
	if account.ID == uuid.Nil {
		account.ID = utils.GenerateUUIDv7()
	}
	now := time.Now()
	if account.CreatedAt.IsZero() {
		account.CreatedAt = now
	}
	account.UpdatedAt = now

	m := &models.VirtualAccount{
		ID:                account.ID,
		OwnerType:         string(account.Owner.Type),
		OwnerID:           account.Owner.ID,
		Provider:          account.Provider,
		AccountNumber:     account.AccountNumber,
		AccountName:       account.AccountName,
		BankName:          account.BankName,
		BankCode:          account.BankCode,
		ProviderReference: account.ProviderReference,
		CreatedAt:         account.CreatedAt,
		UpdatedAt:         account.UpdatedAt,
	}
	result := GetDB(ctx, r.db).Clauses(clause.OnConflict{DoNothing: true}).Create(m)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

func (r *VirtualAccountRepositoryImpl) toEntity(m *models.VirtualAccount) *entities.VirtualAccount {
	return &entities.VirtualAccount{
		ID:                m.ID,
		Owner:             entities.Owner{Type: entities.OwnerType(m.OwnerType), ID: m.OwnerID},
		Provider:          m.Provider,
		AccountNumber:     m.AccountNumber,
		AccountName:       m.AccountName,
		BankName:          m.BankName,
		BankCode:          m.BankCode,
		ProviderReference: m.ProviderReference,
		CreatedAt:         m.CreatedAt,
		UpdatedAt:         m.UpdatedAt,
	}
}
