package repositories

import (
	"context"

	"payledger.backend/internal/domain/entities"
)

// NotificationRepository stores in-app notifications
type NotificationRepository interface {
	Create(ctx context.Context, n *entities.Notification) error
	ListByOwner(ctx context.Context, owner entities.Owner, limit int) ([]*entities.Notification, error)
}
