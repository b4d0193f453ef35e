package collaborators

import (
	"context"

	"payledger.backend/internal/domain/entities"
	"payledger.backend/internal/domain/repositories"
)

// DBNotifier stores notifications in the caller's transaction
type DBNotifier struct {
	repo repositories.NotificationRepository
}

func NewDBNotifier(repo repositories.NotificationRepository) *DBNotifier {
	return &DBNotifier{repo: repo}
}

// Notify writes one notification row for the target owner
func (n *DBNotifier) Notify(ctx context.Context, target entities.Owner, title, body string, data map[string]interface{}) error {
	return n.repo.Create(ctx, &entities.Notification{
		Owner: target,
		Title: title,
		Body:  body,
		Data:  data,
	})
}
