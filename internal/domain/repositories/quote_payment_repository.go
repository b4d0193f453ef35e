package repositories

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"payledger.backend/internal/domain/entities"
)

// QuotePaymentRepository reads and settles quote payments owned by the sourcing subsystem
type QuotePaymentRepository interface {
	// FindPending lists pending payments of the owner with exactly this amount and currency
	FindPending(ctx context.Context, owner entities.Owner, method string, amount decimal.Decimal, currency string) ([]*entities.QuotePayment, error)
	GetByID(ctx context.Context, id uuid.UUID) (*entities.QuotePayment, error)
	// MarkPaid moves a pending payment to paid; ErrConflict if it is no longer pending
	MarkPaid(ctx context.Context, id uuid.UUID, paidAt time.Time) error
}

// HandoffPaymentRepository records payments against sourcing handoffs
type HandoffPaymentRepository interface {
	Create(ctx context.Context, payment *entities.HandoffPayment) error
}

// CommissionEventRepository appends commission events for downstream crediting
type CommissionEventRepository interface {
	Create(ctx context.Context, event entities.CommissionContext) error
}
