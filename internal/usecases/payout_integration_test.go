package usecases_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"payledger.backend/internal/domain/entities"
	domainerrors "payledger.backend/internal/domain/errors"
	"payledger.backend/internal/infrastructure/models"
	"payledger.backend/internal/infrastructure/repositories"
	"payledger.backend/internal/usecases"
)

func (h *harness) approvedPayout(t *testing.T, owner entities.Owner, amount int64, verify bool) *entities.PayoutRequest {
	t.Helper()
	ctx := context.Background()
	_, err := h.payouts.RegisterPayoutAccount(ctx, owner, usecases.RegisterPayoutAccountInput{BankCode: "058", AccountNumber: "0123456789"})
	require.NoError(t, err)
	if verify {
		_, err = h.payouts.VerifyPayoutAccount(ctx, owner)
		require.NoError(t, err)
	}
	req, err := h.payouts.RequestPayout(ctx, owner, usecases.RequestPayoutInput{Amount: decimal.NewFromInt(amount)})
	require.NoError(t, err)
	req, err = h.payouts.Approve(ctx, operator("payouts:approve"), req.ID)
	require.NoError(t, err)
	require.Equal(t, entities.PayoutStatusApproved, req.Status)
	return req
}

func TestPayout_FullLifecycle(t *testing.T) {
	h := newHarness(t)
	owner := entities.Owner{Type: entities.OwnerTypeBusiness, ID: uuid.New()}
	req := h.approvedPayout(t, owner, 5000, true)

	paid, err := h.payouts.Pay(context.Background(), operator("payouts:pay"), req.ID)
	require.NoError(t, err)

	reference := entities.TransferReferenceFor(req.ID)
	assert.Equal(t, entities.PayoutStatusPaid, paid.Status)
	assert.Equal(t, reference, paid.TransferReference.String)
	assert.Equal(t, "TRF_mock_"+reference, paid.TransferCode.String)
	assert.True(t, paid.PaidAt.Valid)
	assert.False(t, paid.IntentAt.Valid)
	assert.Equal(t, int64(1), h.count(t, &models.Notification{}))

	account, err := h.payouts.GetPayoutAccount(context.Background(), owner)
	require.NoError(t, err)
	assert.Equal(t, "MOCK ACCOUNT 0123456789", account.AccountName)
}

// Scenario C
func TestPayout_UnverifiedAccountLeavesRequestApproved(t *testing.T) {
	h := newHarness(t)
	owner := entities.Owner{Type: entities.OwnerTypeBusiness, ID: uuid.New()}
	req := h.approvedPayout(t, owner, 5000, false)

	_, err := h.payouts.Pay(context.Background(), operator("payouts:pay"), req.ID)
	assert.ErrorIs(t, err, domainerrors.ErrAccountNotVerified)

	got, err := h.payouts.GetPayoutRequest(context.Background(), req.ID)
	require.NoError(t, err)
	assert.Equal(t, entities.PayoutStatusApproved, got.Status)
	assert.False(t, got.IntentAt.Valid)
	assert.Equal(t, int32(0), h.transfers.recipients.Load())
}

// Scenario D
func TestPayout_RacingPayExactlyOneWins(t *testing.T) {
	h := newHarness(t)
	owner := entities.Owner{Type: entities.OwnerTypeBusiness, ID: uuid.New()}
	req := h.approvedPayout(t, owner, 5000, true)

	var loserErr error
	h.transfers.duringPay = func() {
		_, loserErr = h.payouts.Pay(context.Background(), operator("payouts:pay"), req.ID)
	}

	paid, err := h.payouts.Pay(context.Background(), operator("payouts:pay"), req.ID)
	require.NoError(t, err)
	assert.Equal(t, entities.PayoutStatusPaid, paid.Status)
	assert.ErrorIs(t, loserErr, domainerrors.ErrPayoutInProgress)

	_, err = h.payouts.Pay(context.Background(), operator("payouts:pay"), req.ID)
	assert.ErrorIs(t, err, domainerrors.ErrInvalidTransition)
}

func TestPayout_RecipientReused(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	owner := entities.Owner{Type: entities.OwnerTypeBusiness, ID: uuid.New()}
	first := h.approvedPayout(t, owner, 1000, true)
	second := h.approvedPayout(t, owner, 2000, false)

	_, err := h.payouts.Pay(ctx, operator("payouts:pay"), first.ID)
	require.NoError(t, err)
	_, err = h.payouts.Pay(ctx, operator("payouts:pay"), second.ID)
	require.NoError(t, err)

	assert.Equal(t, int32(1), h.transfers.recipients.Load())
}

func TestPayout_NeverPendingToPaid(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	owner := entities.Owner{Type: entities.OwnerTypeBusiness, ID: uuid.New()}
	_, err := h.payouts.RegisterPayoutAccount(ctx, owner, usecases.RegisterPayoutAccountInput{BankCode: "058", AccountNumber: "0123456789"})
	require.NoError(t, err)
	_, err = h.payouts.VerifyPayoutAccount(ctx, owner)
	require.NoError(t, err)
	req, err := h.payouts.RequestPayout(ctx, owner, usecases.RequestPayoutInput{Amount: decimal.NewFromInt(10)})
	require.NoError(t, err)

	_, err = h.payouts.Pay(ctx, operator("payouts:pay"), req.ID)
	assert.ErrorIs(t, err, domainerrors.ErrInvalidTransition)

	rejected, err := h.payouts.Reject(ctx, operator("payouts:approve"), req.ID, "duplicate request")
	require.NoError(t, err)
	assert.Equal(t, entities.PayoutStatusRejected, rejected.Status)
	assert.Equal(t, "duplicate request", rejected.RejectionReason.String)

	_, err = h.payouts.Approve(ctx, operator("payouts:approve"), req.ID)
	assert.ErrorIs(t, err, domainerrors.ErrInvalidTransition)

	items, meta, err := h.payouts.ListPayoutRequests(ctx, entities.PayoutFilter{Owner: &owner, Status: entities.PayoutStatusRejected})
	require.NoError(t, err)
	assert.Len(t, items, 1)
	assert.Equal(t, int64(1), meta.TotalCount)
}

func TestPayout_NotificationFailureKeepsPayoutPaid(t *testing.T) {
	h := newHarness(t)
	owner := entities.Owner{Type: entities.OwnerTypeBusiness, ID: uuid.New()}
	req := h.approvedPayout(t, owner, 5000, true)
	require.NoError(t, h.db.Migrator().DropTable(&models.Notification{}))

	paid, err := h.payouts.Pay(context.Background(), operator("payouts:pay"), req.ID)
	require.NoError(t, err)

	reference := entities.TransferReferenceFor(req.ID)
	assert.Equal(t, entities.PayoutStatusPaid, paid.Status)
	assert.Equal(t, "TRF_mock_"+reference, paid.TransferCode.String)
	assert.False(t, paid.IntentAt.Valid)
}

// failMarkPaid makes every update that moves a payout to paid fail until the
// returned func is called
func failMarkPaid(t *testing.T, db *gorm.DB) func() {
	t.Helper()
	cbName := "test:fail_mark_paid"
	require.NoError(t, db.Callback().Update().Before("gorm:update").Register(cbName, func(tx *gorm.DB) {
		if tx.Statement.Table != "payout_requests" {
			return
		}
		if updates, ok := tx.Statement.Dest.(map[string]interface{}); ok && updates["status"] == string(entities.PayoutStatusPaid) {
			_ = tx.AddError(errors.New("database unavailable"))
		}
	}))
	restore := func() { _ = db.Callback().Update().Remove(cbName) }
	t.Cleanup(restore)
	return restore
}

func TestPayout_SentButUnrecordedTransferIsNeverReleased(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	owner := entities.Owner{Type: entities.OwnerTypeBusiness, ID: uuid.New()}
	req := h.approvedPayout(t, owner, 5000, true)
	reference := entities.TransferReferenceFor(req.ID)

	restore := failMarkPaid(t, h.db)
	_, err := h.payouts.Pay(ctx, operator("payouts:pay"), req.ID)
	require.Error(t, err)

	got, err := h.payouts.GetPayoutRequest(ctx, req.ID)
	require.NoError(t, err)
	assert.Equal(t, entities.PayoutStatusApproved, got.Status)
	assert.True(t, got.IntentAt.Valid)
	assert.Equal(t, "TRF_mock_"+reference, got.TransferCode.String)
	assert.Equal(t, "success", got.TransferStatus.String)

	_, err = h.payouts.Reject(ctx, operator("payouts:approve"), req.ID, "changed my mind")
	assert.ErrorIs(t, err, domainerrors.ErrPayoutInProgress)

	requests := repositories.NewPayoutRequestRepository(h.db)
	assert.ErrorIs(t, requests.ReleaseIntent(ctx, req.ID, reference, "transfer intent expired"), domainerrors.ErrConflict)
	assert.ErrorIs(t, requests.Reject(ctx, req.ID, entities.PayoutStatusApproved, "admin", "late", time.Now()), domainerrors.ErrConflict)

	restore()
	require.NoError(t, h.db.Model(&models.PayoutRequest{}).Where("id = ?", req.ID).
		Update("intent_at", time.Now().Add(-time.Hour)).Error)

	n, err := h.payouts.ReleaseStaleIntents(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	got, err = h.payouts.GetPayoutRequest(ctx, req.ID)
	require.NoError(t, err)
	assert.Equal(t, entities.PayoutStatusPaid, got.Status)
	assert.Equal(t, "TRF_mock_"+reference, got.TransferCode.String)
	assert.False(t, got.IntentAt.Valid)
}

func TestPayout_RetryAfterUnrecordedTransferDoesNotResend(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	owner := entities.Owner{Type: entities.OwnerTypeBusiness, ID: uuid.New()}
	req := h.approvedPayout(t, owner, 5000, true)

	restore := failMarkPaid(t, h.db)
	_, err := h.payouts.Pay(ctx, operator("payouts:pay"), req.ID)
	require.Error(t, err)
	restore()

	sent := 0
	h.transfers.duringPay = func() { sent++ }
	paid, err := h.payouts.Pay(ctx, operator("payouts:pay"), req.ID)
	require.NoError(t, err)
	assert.Equal(t, entities.PayoutStatusPaid, paid.Status)
	assert.Equal(t, 0, sent)
}
