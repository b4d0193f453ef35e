package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

// ProviderTransaction is unique per (provider, settlement_id); that constraint is the
// settlement idempotency anchor.
type ProviderTransaction struct {
	ID                  uuid.UUID       `gorm:"type:uuid;primaryKey"`
	Provider            string          `gorm:"type:varchar(32);not null;uniqueIndex:idx_provider_txn_settlement"`
	SettlementID        string          `gorm:"type:varchar(128);not null;uniqueIndex:idx_provider_txn_settlement"`
	SessionID           string          `gorm:"type:varchar(128);index"`
	AccountNumber       string          `gorm:"type:varchar(20);not null;index"`
	TransactionAmount   decimal.Decimal `gorm:"type:numeric(20,2);not null;default:0"`
	SettledAmount       decimal.Decimal `gorm:"type:numeric(20,2);not null;default:0"`
	FeeAmount           decimal.Decimal `gorm:"type:numeric(20,2);not null;default:0"`
	VatAmount           decimal.Decimal `gorm:"type:numeric(20,2);not null;default:0"`
	Currency            string          `gorm:"type:varchar(8)"`
	RawPayload          datatypes.JSON
	WalletTransactionID *uuid.UUID `gorm:"type:uuid"`
	CreatedAt           time.Time
}

func (ProviderTransaction) TableName() string {
	return "provider_transactions"
}
