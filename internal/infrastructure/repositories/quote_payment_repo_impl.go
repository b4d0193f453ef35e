package repositories

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/volatiletech/null/v8"
	"gorm.io/gorm"
	"payledger.backend/internal/domain/entities"
	domainerrors "payledger.backend/internal/domain/errors"
	"payledger.backend/internal/infrastructure/models"
	"payledger.backend/pkg/utils"
)

// QuotePaymentRepositoryImpl implements QuotePaymentRepository
type QuotePaymentRepositoryImpl struct {
	db *gorm.DB
}

func NewQuotePaymentRepository(db *gorm.DB) *QuotePaymentRepositoryImpl {
	return &QuotePaymentRepositoryImpl{db: db}
}

func (r *QuotePaymentRepositoryImpl) FindPending(ctx context.Context, owner entities.Owner, method string, amount decimal.Decimal, currency string) ([]*entities.QuotePayment, error) {
	var ms []models.QuotePayment
	if err := lockable(ctx, r.db).
		Where("owner_type = ? AND owner_id = ? AND method = ? AND status = ? AND amount = ? AND currency = ?",
			string(owner.Type), owner.ID, method, string(entities.QuotePaymentStatusPending), amount, strings.ToUpper(currency)).
		Order("created_at ASC").
		Find(&ms).Error; err != nil {
		return nil, err
	}

	payments := make([]*entities.QuotePayment, 0, len(ms))
	for i := range ms {
		payments = append(payments, quotePaymentToEntity(&ms[i]))
	}
	return payments, nil
}

func (r *QuotePaymentRepositoryImpl) GetByID(ctx context.Context, id uuid.UUID) (*entities.QuotePayment, error) {
	var m models.QuotePayment
	if err := lockable(ctx, r.db).Where("id = ?", id).First(&m).Error; err != nil {
		return nil, notFoundOr(err)
	}
	return quotePaymentToEntity(&m), nil
}

func (r *QuotePaymentRepositoryImpl) MarkPaid(ctx context.Context, id uuid.UUID, paidAt time.Time) error {
	result := GetDB(ctx, r.db).Model(&models.QuotePayment{}).
		Where("id = ? AND status = ?", id, string(entities.QuotePaymentStatusPending)).
		Updates(map[string]interface{}{
			"status":     string(entities.QuotePaymentStatusPaid),
			"paid_at":    paidAt,
			"updated_at": time.Now(),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domainerrors.ErrConflict
	}
	return nil
}

func quotePaymentToEntity(m *models.QuotePayment) *entities.QuotePayment {
	return &entities.QuotePayment{
		ID:        m.ID,
		QuoteID:   m.QuoteID,
		HandoffID: m.HandoffID,
		Owner:     entities.Owner{Type: entities.OwnerType(m.OwnerType), ID: m.OwnerID},
		Amount:    m.Amount,
		Currency:  m.Currency,
		Purpose:   m.Purpose,
		Method:    m.Method,
		Status:    entities.QuotePaymentStatus(m.Status),
		PaidAt:    null.TimeFromPtr(m.PaidAt),
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
}

// HandoffPaymentRepositoryImpl implements HandoffPaymentRepository
type HandoffPaymentRepositoryImpl struct {
	db *gorm.DB
}

func NewHandoffPaymentRepository(db *gorm.DB) *HandoffPaymentRepositoryImpl {
	return &HandoffPaymentRepositoryImpl{db: db}
}

func (r *HandoffPaymentRepositoryImpl) Create(ctx context.Context, payment *entities.HandoffPayment) error {
	if payment.ID == uuid.Nil {
		payment.ID = utils.GenerateUUIDv7()
	}
	if payment.CreatedAt.IsZero() {
		payment.CreatedAt = time.Now()
	}
	m := &models.HandoffPayment{
		ID:             payment.ID,
		HandoffID:      payment.HandoffID,
		QuoteID:        payment.QuoteID,
		QuotePaymentID: payment.QuotePaymentID,
		OwnerType:      string(payment.Owner.Type),
		OwnerID:        payment.Owner.ID,
		Amount:         payment.Amount,
		Currency:       payment.Currency,
		Purpose:        payment.Purpose,
		Method:         payment.Method,
		Provider:       payment.Provider,
		SettlementID:   payment.SettlementID,
		PaidAt:         payment.PaidAt,
		CreatedAt:      payment.CreatedAt,
	}
	return GetDB(ctx, r.db).Create(m).Error
}

// CommissionEventRepositoryImpl implements CommissionEventRepository
type CommissionEventRepositoryImpl struct {
	db *gorm.DB
}

func NewCommissionEventRepository(db *gorm.DB) *CommissionEventRepositoryImpl {
	return &CommissionEventRepositoryImpl{db: db}
}

func (r *CommissionEventRepositoryImpl) Create(ctx context.Context, event entities.CommissionContext) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return err
	}
	m := &models.CommissionEvent{
		ID:             utils.GenerateUUIDv7(),
		QuotePaymentID: event.PaymentID,
		QuoteID:        event.QuoteID,
		HandoffID:      event.HandoffID,
		Purpose:        event.Purpose,
		Amount:         event.Amount,
		Currency:       event.Currency,
		Status:         "pending",
		Payload:        payload,
		CreatedAt:      time.Now(),
	}
	return GetDB(ctx, r.db).Create(m).Error
}
