package collaborators

import (
	"context"

	"payledger.backend/internal/domain/entities"
	"payledger.backend/internal/domain/repositories"
)

// CommissionRecorder hands payment context to the commission subsystem by appending
// a commission event in the same transaction as the match.
type CommissionRecorder struct {
	repo repositories.CommissionEventRepository
}

func NewCommissionRecorder(repo repositories.CommissionEventRepository) *CommissionRecorder {
	return &CommissionRecorder{repo: repo}
}

func (c *CommissionRecorder) CreditCommission(ctx context.Context, payment entities.CommissionContext) error {
	return c.repo.Create(ctx, payment)
}
