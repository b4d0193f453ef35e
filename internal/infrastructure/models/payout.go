package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type PayoutAccount struct {
	ID            uuid.UUID `gorm:"type:uuid;primaryKey"`
	OwnerType     string    `gorm:"type:varchar(32);not null;uniqueIndex:idx_payout_accounts_owner"`
	OwnerID       uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_payout_accounts_owner"`
	BankCode      string    `gorm:"type:varchar(16)"`
	BankName      string    `gorm:"type:varchar(255)"`
	AccountNumber string    `gorm:"type:varchar(20)"`
	AccountName   string    `gorm:"type:varchar(255)"`
	Status        string    `gorm:"type:varchar(20);not null;default:'pending'"`
	VerifiedAt    *time.Time
	RecipientCode *string `gorm:"type:varchar(64)"`
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

func (PayoutAccount) TableName() string {
	return "payout_accounts"
}

type PayoutRequest struct {
	ID                uuid.UUID       `gorm:"type:uuid;primaryKey"`
	OwnerType         string          `gorm:"type:varchar(32);not null;index:idx_payout_requests_owner"`
	OwnerID           uuid.UUID       `gorm:"type:uuid;not null;index:idx_payout_requests_owner"`
	PayoutAccountID   uuid.UUID       `gorm:"type:uuid;not null;index"`
	Amount            decimal.Decimal `gorm:"type:numeric(20,2);not null"`
	Currency          string          `gorm:"type:varchar(8);not null"`
	Status            string          `gorm:"type:varchar(20);not null;index"`
	Note              string          `gorm:"type:varchar(255)"`
	ApprovedBy        *string         `gorm:"type:varchar(64)"`
	ApprovedAt        *time.Time
	RejectedBy        *string `gorm:"type:varchar(64)"`
	RejectedAt        *time.Time
	RejectionReason   *string `gorm:"type:varchar(255)"`
	Provider          *string `gorm:"type:varchar(32)"`
	TransferReference *string `gorm:"type:varchar(64);uniqueIndex"`
	TransferCode      *string `gorm:"type:varchar(64)"`
	TransferStatus    *string `gorm:"type:varchar(32)"`
	IntentAt          *time.Time `gorm:"index"`
	IntentBy          *string    `gorm:"type:varchar(64)"`
	PaidBy            *string    `gorm:"type:varchar(64)"`
	PaidAt            *time.Time
	FailureReason     *string `gorm:"type:varchar(512)"`
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

func (PayoutRequest) TableName() string {
	return "payout_requests"
}
