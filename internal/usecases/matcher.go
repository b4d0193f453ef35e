package usecases

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"payledger.backend/internal/domain/entities"
	"payledger.backend/internal/domain/repositories"
	"payledger.backend/pkg/logger"
	"payledger.backend/pkg/utils"
)

// MatchInput is a credited settlement looking for the quote payment it pays
type MatchInput struct {
	Owner        entities.Owner
	Amount       decimal.Decimal
	Currency     string
	Provider     string
	SettlementID string
	PaidAt       time.Time
}

// PaymentMatcher settles a pending quote payment when an inbound transfer matches it
// exactly. It runs inside the settlement transaction and never commits on its own.
type PaymentMatcher struct {
	quotePaymentRepo   repositories.QuotePaymentRepository
	handoffPaymentRepo repositories.HandoffPaymentRepository
	commission         CommissionCreditor
	notifier           NotificationDispatcher
	uow                repositories.UnitOfWork
}

// NewPaymentMatcher creates a new payment matcher
func NewPaymentMatcher(
	quotePaymentRepo repositories.QuotePaymentRepository,
	handoffPaymentRepo repositories.HandoffPaymentRepository,
	commission CommissionCreditor,
	notifier NotificationDispatcher,
	uow repositories.UnitOfWork,
) *PaymentMatcher {
	return &PaymentMatcher{
		quotePaymentRepo:   quotePaymentRepo,
		handoffPaymentRepo: handoffPaymentRepo,
		commission:         commission,
		notifier:           notifier,
		uow:                uow,
	}
}

// Match returns nil when zero or several pending payments fit; only an unambiguous
// candidate is settled.
func (m *PaymentMatcher) Match(ctx context.Context, in MatchInput) (*entities.MatchResult, error) {
	if in.Owner.Type != entities.OwnerTypeUser {
		return nil, nil
	}

	var result *entities.MatchResult
	err := m.uow.Do(ctx, func(txCtx context.Context) error {
		lockCtx := m.uow.WithLock(txCtx)

		candidates, err := m.quotePaymentRepo.FindPending(lockCtx, in.Owner, entities.PaymentMethodBankTransfer, in.Amount, in.Currency)
		if err != nil {
			return fmt.Errorf("find pending quote payments: %w", err)
		}
		if len(candidates) != 1 {
			if len(candidates) > 1 {
				logger.Info(ctx, "Settlement matches several quote payments, left unmatched",
					zap.String("owner", in.Owner.String()),
					zap.String("settlement_id", in.SettlementID),
					zap.Int("candidates", len(candidates)),
				)
			}
			return nil
		}

		payment := candidates[0]
		paidAt := in.PaidAt
		if paidAt.IsZero() {
			paidAt = time.Now()
		}
		if err := m.quotePaymentRepo.MarkPaid(lockCtx, payment.ID, paidAt); err != nil {
			return fmt.Errorf("mark quote payment paid: %w", err)
		}
		payment.Status = entities.QuotePaymentStatusPaid

		handoff := &entities.HandoffPayment{
			ID:             utils.GenerateUUIDv7(),
			HandoffID:      payment.HandoffID,
			QuoteID:        payment.QuoteID,
			QuotePaymentID: payment.ID,
			Owner:          payment.Owner,
			Amount:         payment.Amount,
			Currency:       payment.Currency,
			Purpose:        payment.Purpose,
			Method:         payment.Method,
			Provider:       in.Provider,
			SettlementID:   in.SettlementID,
			PaidAt:         paidAt,
		}
		if err := m.handoffPaymentRepo.Create(txCtx, handoff); err != nil {
			return fmt.Errorf("record handoff payment: %w", err)
		}

		if m.commission != nil {
			if err := m.commission.CreditCommission(txCtx, entities.CommissionContext{
				PaymentID: payment.ID,
				QuoteID:   payment.QuoteID,
				HandoffID: payment.HandoffID,
				Purpose:   payment.Purpose,
				Amount:    payment.Amount,
				Currency:  payment.Currency,
			}); err != nil {
				return fmt.Errorf("credit commission: %w", err)
			}
		}

		if m.notifier != nil {
			body := fmt.Sprintf("Your %s payment of %s %s was received.", payment.Purpose, payment.Currency, payment.Amount.StringFixed(2))
			if err := m.notifier.Notify(txCtx, payment.Owner, "Payment received", body, map[string]interface{}{
				"quotePaymentId": payment.ID.String(),
				"quoteId":        payment.QuoteID.String(),
				"handoffId":      payment.HandoffID.String(),
			}); err != nil {
				return fmt.Errorf("notify owner: %w", err)
			}
		}

		result = &entities.MatchResult{QuotePayment: payment, HandoffPayment: handoff}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if result != nil {
		logger.Info(ctx, "Settlement matched quote payment",
			zap.String("quote_payment_id", result.QuotePayment.ID.String()),
			zap.String("settlement_id", in.SettlementID),
		)
	}
	return result, nil
}
