package usecases

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/volatiletech/null/v8"
	"go.uber.org/zap"
	"payledger.backend/internal/domain/entities"
	domainerrors "payledger.backend/internal/domain/errors"
	"payledger.backend/internal/domain/repositories"
	"payledger.backend/internal/infrastructure/metrics"
	"payledger.backend/internal/infrastructure/providers"
	"payledger.backend/pkg/logger"
	"payledger.backend/pkg/utils"
)

// RegisterPayoutAccountInput carries the bank details an owner withdraws to
type RegisterPayoutAccountInput struct {
	BankCode      string `json:"bankCode" binding:"required"`
	AccountNumber string `json:"accountNumber" binding:"required"`
	AccountName   string `json:"accountName"`
	BankName      string `json:"bankName"`
}

// RequestPayoutInput is an owner's withdrawal request
type RequestPayoutInput struct {
	Amount decimal.Decimal `json:"amount"`
	Note   string          `json:"note"`
}

// PayoutUsecase runs the payout lifecycle: request, approve or reject, pay.
// Payment is split so no row lock is held during the provider round trip.
type PayoutUsecase struct {
	accountRepo repositories.PayoutAccountRepository
	requestRepo repositories.PayoutRequestRepository
	transfers   TransferProvider
	notifier    NotificationDispatcher
	uow         repositories.UnitOfWork
	currency    string
	intentTTL   time.Duration
	now         func() time.Time
}

// NewPayoutUsecase creates a new payout usecase
func NewPayoutUsecase(
	accountRepo repositories.PayoutAccountRepository,
	requestRepo repositories.PayoutRequestRepository,
	transfers TransferProvider,
	notifier NotificationDispatcher,
	uow repositories.UnitOfWork,
	currency string,
	intentTTL time.Duration,
) *PayoutUsecase {
	if currency == "" {
		currency = entities.DefaultCurrency
	}
	if intentTTL <= 0 {
		intentTTL = 10 * time.Minute
	}
	return &PayoutUsecase{
		accountRepo: accountRepo,
		requestRepo: requestRepo,
		transfers:   transfers,
		notifier:    notifier,
		uow:         uow,
		currency:    currency,
		intentTTL:   intentTTL,
		now:         time.Now,
	}
}

// RegisterPayoutAccount stores the owner's bank details. Unchanged details keep
// their verification; new details must be verified again.
func (u *PayoutUsecase) RegisterPayoutAccount(ctx context.Context, owner entities.Owner, in RegisterPayoutAccountInput) (*entities.PayoutAccount, error) {
	bankCode := strings.TrimSpace(in.BankCode)
	accountNumber := strings.TrimSpace(in.AccountNumber)
	if bankCode == "" || accountNumber == "" {
		return nil, domainerrors.ErrMissingBankDetails
	}

	existing, err := u.accountRepo.GetByOwner(ctx, owner)
	switch {
	case err == nil:
		if existing.BankCode == bankCode && existing.AccountNumber == accountNumber {
			return existing, nil
		}
	case !errors.Is(err, domainerrors.ErrNotFound):
		return nil, err
	}

	account := &entities.PayoutAccount{
		Owner:         owner,
		BankCode:      bankCode,
		BankName:      strings.TrimSpace(in.BankName),
		AccountNumber: accountNumber,
		AccountName:   strings.TrimSpace(in.AccountName),
	}
	if err := u.accountRepo.Upsert(ctx, account); err != nil {
		return nil, fmt.Errorf("save payout account: %w", err)
	}

	logger.Info(ctx, "Payout account registered",
		zap.String("owner", owner.String()),
		zap.String("bank_code", bankCode),
	)
	return account, nil
}

// GetPayoutAccount returns the owner's payout account
func (u *PayoutUsecase) GetPayoutAccount(ctx context.Context, owner entities.Owner) (*entities.PayoutAccount, error) {
	return u.accountRepo.GetByOwner(ctx, owner)
}

// VerifyPayoutAccount resolves the account with the transfer provider and records the
// holder name. A definitive provider refusal marks the account failed.
func (u *PayoutUsecase) VerifyPayoutAccount(ctx context.Context, owner entities.Owner) (*entities.PayoutAccount, error) {
	account, err := u.accountRepo.GetByOwner(ctx, owner)
	if err != nil {
		return nil, err
	}
	if !account.HasBankDetails() {
		return nil, domainerrors.ErrMissingBankDetails
	}
	if account.IsVerified() {
		return account, nil
	}

	resolved, err := u.transfers.ResolveAccount(ctx, account.AccountNumber, account.BankCode)
	if err != nil {
		var perr *providers.ProviderError
		if errors.As(err, &perr) && !perr.Retryable() {
			if markErr := u.accountRepo.MarkFailed(ctx, account.ID); markErr != nil {
				logger.Error(ctx, "Failed to mark payout account failed", zap.Error(markErr))
			}
		}
		return nil, err
	}

	if err := u.accountRepo.MarkVerified(ctx, account.ID, resolved.AccountName, resolved.BankName, u.now()); err != nil {
		return nil, err
	}
	return u.accountRepo.GetByID(ctx, account.ID)
}

// RequestPayout opens a pending withdrawal against the owner's payout account.
// The wallet balance is not reserved.
func (u *PayoutUsecase) RequestPayout(ctx context.Context, owner entities.Owner, in RequestPayoutInput) (*entities.PayoutRequest, error) {
	if !in.Amount.IsPositive() || !in.Amount.Equal(in.Amount.Round(2)) {
		return nil, fmt.Errorf("%w: amount must be positive with at most two decimal places", domainerrors.ErrInvalidInput)
	}

	account, err := u.accountRepo.GetByOwner(ctx, owner)
	if errors.Is(err, domainerrors.ErrNotFound) {
		return nil, domainerrors.ErrMissingBankDetails
	}
	if err != nil {
		return nil, err
	}

	req := &entities.PayoutRequest{
		ID:              utils.GenerateUUIDv7(),
		Owner:           owner,
		PayoutAccountID: account.ID,
		Amount:          in.Amount,
		Currency:        u.currency,
		Status:          entities.PayoutStatusPending,
		Note:            strings.TrimSpace(in.Note),
	}
	err = u.requestRepo.Create(ctx, req)
	metrics.ObservePayout("request", err)
	if err != nil {
		return nil, fmt.Errorf("create payout request: %w", err)
	}

	logger.Info(ctx, "Payout requested",
		zap.String("payout_id", req.ID.String()),
		zap.String("owner", owner.String()),
		zap.String("amount", req.Amount.StringFixed(2)),
	)
	return req, nil
}

// GetPayoutRequest returns one payout request
func (u *PayoutUsecase) GetPayoutRequest(ctx context.Context, id uuid.UUID) (*entities.PayoutRequest, error) {
	return u.requestRepo.GetByID(ctx, id)
}

// ListPayoutRequests pages through payout requests matching filter
func (u *PayoutUsecase) ListPayoutRequests(ctx context.Context, filter entities.PayoutFilter) ([]*entities.PayoutRequest, utils.PaginationMeta, error) {
	params := utils.GetPaginationParams(filter.Page, filter.Limit)
	filter.Page, filter.Limit = params.Page, params.Limit
	items, total, err := u.requestRepo.List(ctx, filter)
	if err != nil {
		return nil, utils.PaginationMeta{}, err
	}
	return items, utils.CalculateMeta(total, params.Page, params.Limit), nil
}

// Approve moves a pending request to approved
func (u *PayoutUsecase) Approve(ctx context.Context, actor entities.Actor, id uuid.UUID) (*entities.PayoutRequest, error) {
	req, err := u.approve(ctx, actor, id)
	metrics.ObservePayout("approve", err)
	return req, err
}

func (u *PayoutUsecase) approve(ctx context.Context, actor entities.Actor, id uuid.UUID) (*entities.PayoutRequest, error) {
	if err := requireCapability(actor, entities.CapabilityApprovePayouts); err != nil {
		return nil, err
	}
	req, err := u.requestRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !req.Status.CanTransitionTo(entities.PayoutStatusApproved) {
		return nil, fmt.Errorf("%w: %s -> %s", domainerrors.ErrInvalidTransition, req.Status, entities.PayoutStatusApproved)
	}
	if err := u.requestRepo.Approve(ctx, id, actor.ID.String(), u.now()); err != nil {
		return nil, err
	}

	logger.Info(ctx, "Payout approved", zap.String("payout_id", id.String()), zap.String("by", actor.ID.String()))
	return u.requestRepo.GetByID(ctx, id)
}

// Reject closes a pending or approved request. A request with a transfer in
// flight cannot be rejected.
func (u *PayoutUsecase) Reject(ctx context.Context, actor entities.Actor, id uuid.UUID, reason string) (*entities.PayoutRequest, error) {
	req, err := u.reject(ctx, actor, id, reason)
	metrics.ObservePayout("reject", err)
	return req, err
}

func (u *PayoutUsecase) reject(ctx context.Context, actor entities.Actor, id uuid.UUID, reason string) (*entities.PayoutRequest, error) {
	if err := requireCapability(actor, entities.CapabilityApprovePayouts); err != nil {
		return nil, err
	}
	req, err := u.requestRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !req.Status.CanTransitionTo(entities.PayoutStatusRejected) {
		return nil, fmt.Errorf("%w: %s -> %s", domainerrors.ErrInvalidTransition, req.Status, entities.PayoutStatusRejected)
	}
	if req.IntentAt.Valid || req.TransferStatus.Valid {
		return nil, domainerrors.ErrPayoutInProgress
	}
	if err := u.requestRepo.Reject(ctx, id, req.Status, actor.ID.String(), strings.TrimSpace(reason), u.now()); err != nil {
		return nil, err
	}

	logger.Info(ctx, "Payout rejected", zap.String("payout_id", id.String()), zap.String("by", actor.ID.String()))
	return u.requestRepo.GetByID(ctx, id)
}

// Pay disburses an approved request through the transfer provider
func (u *PayoutUsecase) Pay(ctx context.Context, actor entities.Actor, id uuid.UUID) (*entities.PayoutRequest, error) {
	req, err := u.pay(ctx, actor, id)
	metrics.ObservePayout("pay", err)
	return req, err
}

func (u *PayoutUsecase) pay(ctx context.Context, actor entities.Actor, id uuid.UUID) (*entities.PayoutRequest, error) {
	if err := requireCapability(actor, entities.CapabilityPayPayouts); err != nil {
		return nil, err
	}

	intent, err := u.claim(ctx, actor, id)
	if err != nil {
		return nil, err
	}

	outcome := intent.Sent
	if outcome == nil {
		outcome, err = u.transfer(ctx, intent)
		if err != nil {
			u.release(ctx, intent, err)
			return nil, err
		}
	}

	if err := u.settle(ctx, intent, *outcome, actor.ID.String()); err != nil {
		return nil, err
	}

	logger.Info(ctx, "Payout paid",
		zap.String("payout_id", id.String()),
		zap.String("reference", intent.Reference),
		zap.String("transfer_code", outcome.TransferCode),
		zap.String("by", actor.ID.String()),
	)
	return u.requestRepo.GetByID(ctx, id)
}

// settle marks the request paid and then notifies the owner. A notification
// failure never undoes a payout that went out.
func (u *PayoutUsecase) settle(ctx context.Context, intent *entities.TransferIntent, outcome entities.TransferOutcome, by string) error {
	if err := u.requestRepo.MarkPaid(ctx, intent.RequestID, intent.Reference, outcome, by, u.now()); err != nil {
		// the intent stays and carries the outcome so the sweeper or a retry
		// marks the request paid without a second transfer
		recordCtx := context.WithoutCancel(ctx)
		if recErr := u.requestRepo.RecordTransfer(recordCtx, intent.RequestID, intent.Reference, outcome); recErr != nil {
			logger.Error(recordCtx, "Transfer outcome not recorded", zap.String("payout_id", intent.RequestID.String()), zap.Error(recErr))
		}
		logger.Error(ctx, "Payout transferred but not recorded",
			zap.String("payout_id", intent.RequestID.String()),
			zap.String("reference", intent.Reference),
			zap.String("transfer_code", outcome.TransferCode),
			zap.Error(err),
		)
		return fmt.Errorf("record payout %s: %w", intent.Reference, err)
	}

	if u.notifier == nil {
		return nil
	}
	body := fmt.Sprintf("Your payout of %s %s has been sent.", intent.Currency, intent.Amount.StringFixed(2))
	err := u.notifier.Notify(context.WithoutCancel(ctx), intent.Account.Owner, "Payout sent", body, map[string]interface{}{
		"payoutId":  intent.RequestID.String(),
		"reference": intent.Reference,
	})
	if err != nil {
		logger.Warn(ctx, "Payout notification failed",
			zap.String("payout_id", intent.RequestID.String()),
			zap.Error(err),
		)
	}
	return nil
}

// claim locks the request and account, checks preconditions and records the
// transfer intent
func (u *PayoutUsecase) claim(ctx context.Context, actor entities.Actor, id uuid.UUID) (*entities.TransferIntent, error) {
	var intent *entities.TransferIntent
	err := u.uow.Do(ctx, func(txCtx context.Context) error {
		lockCtx := u.uow.WithLock(txCtx)
		now := u.now()

		req, err := u.requestRepo.GetByID(lockCtx, id)
		if err != nil {
			return err
		}
		if !req.Status.CanTransitionTo(entities.PayoutStatusPaid) {
			return fmt.Errorf("%w: %s -> %s", domainerrors.ErrInvalidTransition, req.Status, entities.PayoutStatusPaid)
		}
		if sent, ok := req.SentTransfer(); ok {
			account, err := u.accountRepo.GetByID(lockCtx, req.PayoutAccountID)
			if err != nil {
				return err
			}
			intent = &entities.TransferIntent{
				RequestID: req.ID,
				Reference: req.TransferReference.String,
				ClaimedBy: req.IntentBy.String,
				ClaimedAt: req.IntentAt.Time,
				Amount:    req.Amount,
				Currency:  req.Currency,
				Account:   *account,
				Sent:      sent,
			}
			return nil
		}
		if req.IntentAt.Valid {
			if req.HasLiveIntent(now, u.intentTTL) {
				return domainerrors.ErrPayoutInProgress
			}
			if err := u.requestRepo.ReleaseIntent(lockCtx, id, req.TransferReference.String, "transfer intent expired"); err != nil {
				return err
			}
		}

		account, err := u.accountRepo.GetByID(lockCtx, req.PayoutAccountID)
		if err != nil {
			return err
		}
		if !account.HasBankDetails() {
			return domainerrors.ErrMissingBankDetails
		}
		if !account.IsVerified() {
			return domainerrors.ErrAccountNotVerified
		}

		reference := entities.TransferReferenceFor(req.ID)
		if err := u.requestRepo.RecordIntent(lockCtx, id, u.transfers.Name(), reference, actor.ID.String(), now); err != nil {
			return err
		}
		intent = &entities.TransferIntent{
			RequestID: req.ID,
			Reference: reference,
			ClaimedBy: actor.ID.String(),
			ClaimedAt: now,
			Amount:    req.Amount,
			Currency:  req.Currency,
			Account:   *account,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return intent, nil
}

// transfer resolves the recipient and initiates the transfer; no transaction is open
func (u *PayoutUsecase) transfer(ctx context.Context, intent *entities.TransferIntent) (*entities.TransferOutcome, error) {
	recipient, err := u.recipient(ctx, &intent.Account, intent.Currency)
	if err != nil {
		return nil, err
	}

	result, err := u.transfers.InitiateTransfer(ctx, providers.TransferInput{
		Amount:        intent.Amount,
		Currency:      intent.Currency,
		RecipientCode: recipient,
		Reason:        "Payout " + intent.Reference,
		Reference:     intent.Reference,
	})
	if err != nil {
		return nil, err
	}
	if result.TransferCode == "" && result.Reference == "" {
		return nil, &providers.ProviderError{Provider: u.transfers.Name(), Operation: "transfer", Message: "response carried no transfer code or reference"}
	}
	switch strings.ToLower(result.Status) {
	case "failed", "reversed":
		return nil, &providers.ProviderError{Provider: u.transfers.Name(), Operation: "transfer", Message: "transfer " + result.Status}
	}

	return &entities.TransferOutcome{
		Provider:     u.transfers.Name(),
		TransferCode: result.TransferCode,
		Reference:    result.Reference,
		Status:       result.Status,
	}, nil
}

// recipient reuses the cached recipient code when this provider issued it
func (u *PayoutUsecase) recipient(ctx context.Context, account *entities.PayoutAccount, currency string) (string, error) {
	if account.RecipientCode.Valid && u.transfers.RecognizesRecipient(account.RecipientCode.String) {
		return account.RecipientCode.String, nil
	}

	code, err := u.transfers.CreateRecipient(ctx, providers.RecipientInput{
		Name:          account.AccountName,
		AccountNumber: account.AccountNumber,
		BankCode:      account.BankCode,
		Currency:      currency,
	})
	if err != nil {
		return "", err
	}
	if err := u.accountRepo.SetRecipientCode(ctx, account.ID, code); err != nil {
		logger.Warn(ctx, "Recipient code not cached", zap.String("payout_account_id", account.ID.String()), zap.Error(err))
	}
	account.RecipientCode = null.StringFrom(code)
	return code, nil
}

func (u *PayoutUsecase) release(ctx context.Context, intent *entities.TransferIntent, cause error) {
	releaseCtx := context.WithoutCancel(ctx)
	if err := u.requestRepo.ReleaseIntent(releaseCtx, intent.RequestID, intent.Reference, cause.Error()); err != nil {
		logger.Error(releaseCtx, "Failed to release transfer intent",
			zap.String("payout_id", intent.RequestID.String()),
			zap.Error(err),
		)
		return
	}
	logger.Warn(releaseCtx, "Payout transfer failed, request left approved",
		zap.String("payout_id", intent.RequestID.String()),
		zap.String("reference", intent.Reference),
		zap.Error(cause),
	)
}

// ReleaseStaleIntents frees requests whose transfer attempt outlived the intent
// TTL. Requests whose transfer was recorded as sent are marked paid instead.
func (u *PayoutUsecase) ReleaseStaleIntents(ctx context.Context) (int, error) {
	stale, err := u.requestRepo.ListStaleIntents(ctx, u.now().Add(-u.intentTTL), StaleIntentBatch)
	if err != nil {
		return 0, err
	}

	released := 0
	for _, req := range stale {
		if sent, ok := req.SentTransfer(); ok {
			if u.reconcile(ctx, req, *sent) {
				released++
			}
			continue
		}
		err := u.requestRepo.ReleaseIntent(ctx, req.ID, req.TransferReference.String, "transfer intent expired")
		if errors.Is(err, domainerrors.ErrConflict) {
			continue
		}
		if err != nil {
			return released, err
		}
		released++
		logger.Warn(ctx, "Stale transfer intent released",
			zap.String("payout_id", req.ID.String()),
			zap.String("reference", req.TransferReference.String),
			zap.Time("intent_at", req.IntentAt.Time),
		)
	}
	return released, nil
}

func (u *PayoutUsecase) reconcile(ctx context.Context, req *entities.PayoutRequest, sent entities.TransferOutcome) bool {
	by := req.IntentBy.String
	if by == "" {
		by = ReconcilerActor
	}
	err := u.requestRepo.MarkPaid(ctx, req.ID, req.TransferReference.String, sent, by, u.now())
	if err != nil {
		if !errors.Is(err, domainerrors.ErrConflict) {
			logger.Error(ctx, "Sent payout not reconciled", zap.String("payout_id", req.ID.String()), zap.Error(err))
		}
		return false
	}
	logger.Warn(ctx, "Sent payout reconciled as paid",
		zap.String("payout_id", req.ID.String()),
		zap.String("reference", req.TransferReference.String),
		zap.String("transfer_code", sent.TransferCode),
	)
	return true
}

func requireCapability(actor entities.Actor, c entities.Capability) error {
	if !actor.Can(c) {
		return fmt.Errorf("%w: missing capability %s", domainerrors.ErrForbidden, c)
	}
	return nil
}
