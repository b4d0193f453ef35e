package models

import (
	"time"

	"github.com/google/uuid"
)

type VirtualAccount struct {
	ID                uuid.UUID `gorm:"type:uuid;primaryKey"`
	OwnerType         string    `gorm:"type:varchar(32);not null;uniqueIndex:idx_virtual_accounts_owner_provider"`
	OwnerID           uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_virtual_accounts_owner_provider"`
	Provider          string    `gorm:"type:varchar(32);not null;uniqueIndex:idx_virtual_accounts_owner_provider"`
	AccountNumber     string    `gorm:"type:varchar(20);not null;uniqueIndex"`
	AccountName       string    `gorm:"type:varchar(255);not null"`
	BankName          string    `gorm:"type:varchar(255)"`
	BankCode          string    `gorm:"type:varchar(32)"`
	ProviderReference string    `gorm:"type:varchar(255)"`
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

func (VirtualAccount) TableName() string {
	return "virtual_accounts"
}
