package repositories

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/volatiletech/null/v8"
	"gorm.io/gorm"
	"payledger.backend/internal/domain/entities"
	"payledger.backend/internal/infrastructure/models"
	"payledger.backend/pkg/utils"
)

// NotificationRepositoryImpl implements NotificationRepository
type NotificationRepositoryImpl struct {
	db *gorm.DB
}

func NewNotificationRepository(db *gorm.DB) *NotificationRepositoryImpl {
	return &NotificationRepositoryImpl{db: db}
}

func (r *NotificationRepositoryImpl) Create(ctx context.Context, n *entities.Notification) error {
	if n.ID == uuid.Nil {
		n.ID = utils.GenerateUUIDv7()
	}
	if n.CreatedAt.IsZero() {
		n.CreatedAt = time.Now()
	}
	var data []byte
	if len(n.Data) > 0 {
		raw, err := json.Marshal(n.Data)
		if err != nil {
			return err
		}
		data = raw
	}
	m := &models.Notification{
		ID:        n.ID,
		OwnerType: string(n.Owner.Type),
		OwnerID:   n.Owner.ID,
		Title:     n.Title,
		Body:      n.Body,
		Data:      data,
		ReadAt:    n.ReadAt.Ptr(),
		CreatedAt: n.CreatedAt,
	}
	return GetDB(ctx, r.db).Create(m).Error
}

func (r *NotificationRepositoryImpl) ListByOwner(ctx context.Context, owner entities.Owner, limit int) ([]*entities.Notification, error) {
	if limit <= 0 {
		limit = utils.DefaultPageLimit
	}
	var ms []models.Notification
	if err := GetDB(ctx, r.db).
		Where("owner_type = ? AND owner_id = ?", string(owner.Type), owner.ID).
		Order("created_at DESC").
		Limit(limit).
		Find(&ms).Error; err != nil {
		return nil, err
	}

	out := make([]*entities.Notification, 0, len(ms))
	for _, m := range ms {
		var data map[string]interface{}
		if len(m.Data) > 0 {
			_ = json.Unmarshal(m.Data, &data)
		}
		out = append(out, &entities.Notification{
			ID:        m.ID,
			Owner:     entities.Owner{Type: entities.OwnerType(m.OwnerType), ID: m.OwnerID},
			Title:     m.Title,
			Body:      m.Body,
			Data:      data,
			ReadAt:    null.TimeFromPtr(m.ReadAt),
			CreatedAt: m.CreatedAt,
		})
	}
	return out, nil
}
