package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

// QuotePayment belongs to the sourcing subsystem; only status and paid_at are written here.
type QuotePayment struct {
	ID        uuid.UUID       `gorm:"type:uuid;primaryKey"`
	QuoteID   uuid.UUID       `gorm:"type:uuid;not null;index"`
	HandoffID uuid.UUID       `gorm:"type:uuid;not null;index"`
	OwnerType string          `gorm:"type:varchar(32);not null;index:idx_quote_payments_owner"`
	OwnerID   uuid.UUID       `gorm:"type:uuid;not null;index:idx_quote_payments_owner"`
	Amount    decimal.Decimal `gorm:"type:numeric(20,2);not null"`
	Currency  string          `gorm:"type:varchar(8);not null;default:'NGN'"`
	Purpose   string          `gorm:"type:varchar(64);not null"`
	Method    string          `gorm:"type:varchar(32);not null"`
	Status    string          `gorm:"type:varchar(20);not null;index"`
	PaidAt    *time.Time
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (QuotePayment) TableName() string {
	return "quote_payments"
}

type HandoffPayment struct {
	ID             uuid.UUID       `gorm:"type:uuid;primaryKey"`
	HandoffID      uuid.UUID       `gorm:"type:uuid;not null;index"`
	QuoteID        uuid.UUID       `gorm:"type:uuid;not null"`
	QuotePaymentID uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex"`
	OwnerType      string          `gorm:"type:varchar(32);not null"`
	OwnerID        uuid.UUID       `gorm:"type:uuid;not null"`
	Amount         decimal.Decimal `gorm:"type:numeric(20,2);not null"`
	Currency       string          `gorm:"type:varchar(8);not null"`
	Purpose        string          `gorm:"type:varchar(64);not null"`
	Method         string          `gorm:"type:varchar(32);not null"`
	Provider       string          `gorm:"type:varchar(32)"`
	SettlementID   string          `gorm:"type:varchar(128)"`
	PaidAt         time.Time
	CreatedAt      time.Time
}

func (HandoffPayment) TableName() string {
	return "handoff_payments"
}

type CommissionEvent struct {
	ID             uuid.UUID       `gorm:"type:uuid;primaryKey"`
	QuotePaymentID uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex"`
	QuoteID        uuid.UUID       `gorm:"type:uuid;not null"`
	HandoffID      uuid.UUID       `gorm:"type:uuid;not null"`
	Purpose        string          `gorm:"type:varchar(64);not null"`
	Amount         decimal.Decimal `gorm:"type:numeric(20,2);not null"`
	Currency       string          `gorm:"type:varchar(8);not null"`
	Status         string          `gorm:"type:varchar(20);not null;default:'pending'"`
	Payload        datatypes.JSON
	CreatedAt      time.Time
}

func (CommissionEvent) TableName() string {
	return "commission_events"
}
