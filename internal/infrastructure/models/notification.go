package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type Notification struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	OwnerType string    `gorm:"type:varchar(32);not null;index:idx_notifications_owner"`
	OwnerID   uuid.UUID `gorm:"type:uuid;not null;index:idx_notifications_owner"`
	Title     string    `gorm:"type:varchar(255);not null"`
	Body      string    `gorm:"type:text;not null"`
	Data      datatypes.JSON
	ReadAt    *time.Time
	CreatedAt time.Time
}

func (Notification) TableName() string {
	return "notifications"
}
