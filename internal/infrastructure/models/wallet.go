package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

type Wallet struct {
	ID        uuid.UUID       `gorm:"type:uuid;primaryKey"`
	OwnerType string          `gorm:"type:varchar(32);not null;uniqueIndex:idx_wallets_owner"`
	OwnerID   uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:idx_wallets_owner"`
	Currency  string          `gorm:"type:varchar(8);not null;default:'NGN'"`
	Balance   decimal.Decimal `gorm:"type:numeric(20,2);not null;default:0"`
	Status    string          `gorm:"type:varchar(20);not null;default:'active'"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (Wallet) TableName() string {
	return "wallets"
}

// WalletTransaction rows are append-only.
type WalletTransaction struct {
	ID            uuid.UUID       `gorm:"type:uuid;primaryKey"`
	WalletID      uuid.UUID       `gorm:"type:uuid;not null;index"`
	Direction     string          `gorm:"type:varchar(8);not null"`
	Amount        decimal.Decimal `gorm:"type:numeric(20,2);not null"`
	Currency      string          `gorm:"type:varchar(8);not null"`
	Reason        string          `gorm:"type:varchar(64);not null"`
	ReferenceType string          `gorm:"type:varchar(64);index:idx_wallet_txn_reference"`
	ReferenceID   string          `gorm:"type:varchar(128);index:idx_wallet_txn_reference"`
	Provider      string          `gorm:"type:varchar(32)"`
	SettlementID  string          `gorm:"type:varchar(128);index"`
	Metadata      datatypes.JSON
	BalanceAfter  decimal.Decimal `gorm:"type:numeric(20,2);not null"`
	CreatedAt     time.Time       `gorm:"index"`
}

func (WalletTransaction) TableName() string {
	return "wallet_transactions"
}
