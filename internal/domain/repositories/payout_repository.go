package repositories

import (
	"context"
	"time"

	"github.com/google/uuid"
	"payledger.backend/internal/domain/entities"
)

// PayoutAccountRepository defines payout bank account data operations
type PayoutAccountRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*entities.PayoutAccount, error)
	GetByOwner(ctx context.Context, owner entities.Owner) (*entities.PayoutAccount, error)
	// Upsert stores bank details for the owner, resetting verification when they change
	Upsert(ctx context.Context, account *entities.PayoutAccount) error
	MarkVerified(ctx context.Context, id uuid.UUID, accountName, bankName string, at time.Time) error
	MarkFailed(ctx context.Context, id uuid.UUID) error
	SetRecipientCode(ctx context.Context, id uuid.UUID, code string) error
}

// PayoutRequestRepository defines payout request data operations.
// Every state change is conditional on the expected current status.
type PayoutRequestRepository interface {
	Create(ctx context.Context, req *entities.PayoutRequest) error
	GetByID(ctx context.Context, id uuid.UUID) (*entities.PayoutRequest, error)
	List(ctx context.Context, filter entities.PayoutFilter) ([]*entities.PayoutRequest, int64, error)

	Approve(ctx context.Context, id uuid.UUID, by string, at time.Time) error
	Reject(ctx context.Context, id uuid.UUID, from entities.PayoutStatus, by, reason string, at time.Time) error

	RecordIntent(ctx context.Context, id uuid.UUID, provider, reference, by string, at time.Time) error
	// ReleaseIntent refuses rows that carry a recorded transfer outcome
	ReleaseIntent(ctx context.Context, id uuid.UUID, reference, reason string) error
	// RecordTransfer keeps the provider outcome on a claimed row so it can be reconciled
	RecordTransfer(ctx context.Context, id uuid.UUID, reference string, outcome entities.TransferOutcome) error
	MarkPaid(ctx context.Context, id uuid.UUID, reference string, outcome entities.TransferOutcome, by string, at time.Time) error
	ListStaleIntents(ctx context.Context, before time.Time, limit int) ([]*entities.PayoutRequest, error)
}
