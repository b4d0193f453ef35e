package repositories

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/volatiletech/null/v8"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"payledger.backend/internal/domain/entities"
	domainerrors "payledger.backend/internal/domain/errors"
	"payledger.backend/internal/infrastructure/models"
	"payledger.backend/pkg/utils"
)

// PayoutAccountRepositoryImpl implements PayoutAccountRepository
type PayoutAccountRepositoryImpl struct {
	db *gorm.DB
}

func NewPayoutAccountRepository(db *gorm.DB) *PayoutAccountRepositoryImpl {
	return &PayoutAccountRepositoryImpl{db: db}
}

func (r *PayoutAccountRepositoryImpl) GetByID(ctx context.Context, id uuid.UUID) (*entities.PayoutAccount, error) {
	var m models.PayoutAccount
	if err := lockable(ctx, r.db).Where("id = ?", id).First(&m).Error; err != nil {
		return nil, notFoundOr(err)
	}
	return payoutAccountToEntity(&m), nil
}

func (r *PayoutAccountRepositoryImpl) GetByOwner(ctx context.Context, owner entities.Owner) (*entities.PayoutAccount, error) {
	var m models.PayoutAccount
	if err := lockable(ctx, r.db).
		Where("owner_type = ? AND owner_id = ?", string(owner.Type), owner.ID).
		First(&m).Error; err != nil {
		return nil, notFoundOr(err)
	}
	return payoutAccountToEntity(&m), nil
}

// Upsert replaces the owner's bank details. Changing them drops any verification
// and cached recipient code.
func (r *PayoutAccountRepositoryImpl) Upsert(ctx context.Context, account *entities.PayoutAccount) error {
	now := time.Now()
	if account.ID == uuid.Nil {
		account.ID = utils.GenerateUUIDv7()
	}
	account.Status = entities.PayoutAccountStatusPending
	account.VerifiedAt = null.Time{}
	account.RecipientCode = null.String{}
	account.UpdatedAt = now
	if account.CreatedAt.IsZero() {
		account.CreatedAt = now
	}

	m := &models.PayoutAccount{
		ID:            account.ID,
		OwnerType:     string(account.Owner.Type),
		OwnerID:       account.Owner.ID,
		BankCode:      account.BankCode,
		BankName:      account.BankName,
		AccountNumber: account.AccountNumber,
		AccountName:   account.AccountName,
		Status:        string(account.Status),
		CreatedAt:     account.CreatedAt,
		UpdatedAt:     account.UpdatedAt,
	}
	err := GetDB(ctx, r.db).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "owner_type"}, {Name: "owner_id"}},
		DoUpdates: clause.Assignments(map[string]interface{}{
			"bank_code":      m.BankCode,
			"bank_name":      m.BankName,
			"account_number": m.AccountNumber,
			"account_name":   m.AccountName,
			"status":         m.Status,
			"verified_at":    nil,
			"recipient_code": nil,
			"updated_at":     now,
		}),
	}).Create(m).Error
	if err != nil {
		return err
	}

	stored, err := r.GetByOwner(ctx, account.Owner)
	if err != nil {
		return err
	}
	*account = *stored
	return nil
}

func (r *PayoutAccountRepositoryImpl) MarkVerified(ctx context.Context, id uuid.UUID, accountName, bankName string, at time.Time) error {
	updates := map[string]interface{}{
		"status":      string(entities.PayoutAccountStatusVerified),
		"verified_at": at,
		"updated_at":  time.Now(),
	}
	if accountName != "" {
		updates["account_name"] = accountName
	}
	if bankName != "" {
		updates["bank_name"] = bankName
	}
	return r.update(ctx, id, updates)
}

func (r *PayoutAccountRepositoryImpl) MarkFailed(ctx context.Context, id uuid.UUID) error {
	return r.update(ctx, id, map[string]interface{}{
		"status":      string(entities.PayoutAccountStatusFailed),
		"verified_at": nil,
		"updated_at":  time.Now(),
	})
}

func (r *PayoutAccountRepositoryImpl) SetRecipientCode(ctx context.Context, id uuid.UUID, code string) error {
	return r.update(ctx, id, map[string]interface{}{
		"recipient_code": code,
		"updated_at":     time.Now(),
	})
}

func (r *PayoutAccountRepositoryImpl) update(ctx context.Context, id uuid.UUID, updates map[string]interface{}) error {
	result := GetDB(ctx, r.db).Model(&models.PayoutAccount{}).Where("id = ?", id).Updates(updates)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domainerrors.ErrNotFound
	}
	return nil
}

func payoutAccountToEntity(m *models.PayoutAccount) *entities.PayoutAccount {
	return &entities.PayoutAccount{
		ID:            m.ID,
		Owner:         entities.Owner{Type: entities.OwnerType(m.OwnerType), ID: m.OwnerID},
		BankCode:      m.BankCode,
		BankName:      m.BankName,
		AccountNumber: m.AccountNumber,
		AccountName:   m.AccountName,
		Status:        entities.PayoutAccountStatus(m.Status),
		VerifiedAt:    null.TimeFromPtr(m.VerifiedAt),
		RecipientCode: null.StringFromPtr(m.RecipientCode),
		CreatedAt:     m.CreatedAt,
		UpdatedAt:     m.UpdatedAt,
	}
}

// PayoutRequestRepositoryImpl implements PayoutRequestRepository
type PayoutRequestRepositoryImpl struct {
	db *gorm.DB
}

func NewPayoutRequestRepository(db *gorm.DB) *PayoutRequestRepositoryImpl {
	return &PayoutRequestRepositoryImpl{db: db}
}

func (r *PayoutRequestRepositoryImpl) Create(ctx context.Context, req *entities.PayoutRequest) error {
	now := time.Now()
	if req.ID == uuid.Nil {
		req.ID = utils.GenerateUUIDv7()
	}
	if req.Status == "" {
		req.Status = entities.PayoutStatusPending
	}
	req.CreatedAt = now
	req.UpdatedAt = now

	m := &models.PayoutRequest{
		ID:              req.ID,
		OwnerType:       string(req.Owner.Type),
		OwnerID:         req.Owner.ID,
		PayoutAccountID: req.PayoutAccountID,
		Amount:          req.Amount,
		Currency:        req.Currency,
		Status:          string(req.Status),
		Note:            req.Note,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	return GetDB(ctx, r.db).Create(m).Error
}

func (r *PayoutRequestRepositoryImpl) GetByID(ctx context.Context, id uuid.UUID) (*entities.PayoutRequest, error) {
	var m models.PayoutRequest
	if err := lockable(ctx, r.db).Where("id = ?", id).First(&m).Error; err != nil {
		return nil, notFoundOr(err)
	}
	return payoutRequestToEntity(&m), nil
}

func (r *PayoutRequestRepositoryImpl) List(ctx context.Context, filter entities.PayoutFilter) ([]*entities.PayoutRequest, int64, error) {
	pagination := utils.GetPaginationParams(filter.Page, filter.Limit)

	query := GetDB(ctx, r.db).Model(&models.PayoutRequest{})
	if filter.Owner != nil {
		query = query.Where("owner_type = ? AND owner_id = ?", string(filter.Owner.Type), filter.Owner.ID)
	}
	if filter.Status != "" {
		query = query.Where("status = ?", string(filter.Status))
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var ms []models.PayoutRequest
	if err := query.
		Order("created_at DESC").
		Limit(pagination.Limit).
		Offset(pagination.CalculateOffset()).
		Find(&ms).Error; err != nil {
		return nil, 0, err
	}

	out := make([]*entities.PayoutRequest, 0, len(ms))
	for i := range ms {
		out = append(out, payoutRequestToEntity(&ms[i]))
	}
	return out, total, nil
}

func (r *PayoutRequestRepositoryImpl) Approve(ctx context.Context, id uuid.UUID, by string, at time.Time) error {
	return r.transition(ctx,
		GetDB(ctx, r.db).Where("id = ? AND status = ?", id, string(entities.PayoutStatusPending)),
		map[string]interface{}{
			"status":      string(entities.PayoutStatusApproved),
			"approved_by": by,
			"approved_at": at,
			"updated_at":  time.Now(),
		})
}

// Reject refuses rows that still carry a transfer intent or a sent transfer
func (r *PayoutRequestRepositoryImpl) Reject(ctx context.Context, id uuid.UUID, from entities.PayoutStatus, by, reason string, at time.Time) error {
	return r.transition(ctx,
		GetDB(ctx, r.db).Where("id = ? AND status = ? AND intent_at IS NULL AND transfer_status IS NULL", id, string(from)),
		map[string]interface{}{
			"status":           string(entities.PayoutStatusRejected),
			"rejected_by":      by,
			"rejected_at":      at,
			"rejection_reason": reason,
			"updated_at":       time.Now(),
		})
}

func (r *PayoutRequestRepositoryImpl) RecordIntent(ctx context.Context, id uuid.UUID, provider, reference, by string, at time.Time) error {
	return r.transition(ctx,
		GetDB(ctx, r.db).Where("id = ? AND status = ? AND intent_at IS NULL", id, string(entities.PayoutStatusApproved)),
		map[string]interface{}{
			"provider":           provider,
			"transfer_reference": reference,
			"intent_at":          at,
			"intent_by":          by,
			"failure_reason":     nil,
			"updated_at":         time.Now(),
		})
}

// ReleaseIntent clears an intent so the request can be paid again. The transfer
// reference is kept: it is derived from the request id and reused on retry.
// A row whose transfer was recorded as sent is never released.
func (r *PayoutRequestRepositoryImpl) ReleaseIntent(ctx context.Context, id uuid.UUID, reference, reason string) error {
	updates := map[string]interface{}{
		"intent_at":  nil,
		"intent_by":  nil,
		"updated_at": time.Now(),
	}
	if reason != "" {
		updates["failure_reason"] = reason
	}
	return r.transition(ctx,
		GetDB(ctx, r.db).Where("id = ? AND status = ? AND transfer_reference = ? AND transfer_status IS NULL",
			id, string(entities.PayoutStatusApproved), reference),
		updates)
}

func (r *PayoutRequestRepositoryImpl) RecordTransfer(ctx context.Context, id uuid.UUID, reference string, outcome entities.TransferOutcome) error {
	status := outcome.Status
	if status == "" {
		status = "sent"
	}
	updates := map[string]interface{}{
		"transfer_status": status,
		"updated_at":      time.Now(),
	}
	if outcome.TransferCode != "" {
		updates["transfer_code"] = outcome.TransferCode
	}
	if outcome.Provider != "" {
		updates["provider"] = outcome.Provider
	}
	return r.transition(ctx,
		GetDB(ctx, r.db).Where("id = ? AND status = ? AND transfer_reference = ?", id, string(entities.PayoutStatusApproved), reference),
		updates)
}

func (r *PayoutRequestRepositoryImpl) MarkPaid(ctx context.Context, id uuid.UUID, reference string, outcome entities.TransferOutcome, by string, at time.Time) error {
	updates := map[string]interface{}{
		"status":         string(entities.PayoutStatusPaid),
		"paid_by":        by,
		"paid_at":        at,
		"intent_at":      nil,
		"failure_reason": nil,
		"updated_at":     time.Now(),
	}
	if outcome.TransferCode != "" {
		updates["transfer_code"] = outcome.TransferCode
	}
	if outcome.Provider != "" {
		updates["provider"] = outcome.Provider
	}
	if outcome.Status != "" {
		updates["transfer_status"] = outcome.Status
	}
	return r.transition(ctx,
		GetDB(ctx, r.db).Where("id = ? AND status = ? AND transfer_reference = ?", id, string(entities.PayoutStatusApproved), reference),
		updates)
}

func (r *PayoutRequestRepositoryImpl) ListStaleIntents(ctx context.Context, before time.Time, limit int) ([]*entities.PayoutRequest, error) {
	var ms []models.PayoutRequest
	if err := GetDB(ctx, r.db).
		Where("status = ? AND intent_at IS NOT NULL AND intent_at < ?", string(entities.PayoutStatusApproved), before).
		Order("intent_at ASC").
		Limit(limit).
		Find(&ms).Error; err != nil {
		return nil, err
	}
	out := make([]*entities.PayoutRequest, 0, len(ms))
	for i := range ms {
		out = append(out, payoutRequestToEntity(&ms[i]))
	}
	return out, nil
}

// transition applies a conditional update; zero affected rows means the row moved on
// or never existed.
func (r *PayoutRequestRepositoryImpl) transition(ctx context.Context, scoped *gorm.DB, updates map[string]interface{}) error {
	result := scoped.Model(&models.PayoutRequest{}).Updates(updates)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domainerrors.ErrConflict
	}
	return nil
}

func payoutRequestToEntity(m *models.PayoutRequest) *entities.PayoutRequest {
	return &entities.PayoutRequest{
		ID:                m.ID,
		Owner:             entities.Owner{Type: entities.OwnerType(m.OwnerType), ID: m.OwnerID},
		PayoutAccountID:   m.PayoutAccountID,
		Amount:            m.Amount,
		Currency:          m.Currency,
		Status:            entities.PayoutStatus(m.Status),
		Note:              m.Note,
		ApprovedBy:        null.StringFromPtr(m.ApprovedBy),
		ApprovedAt:        null.TimeFromPtr(m.ApprovedAt),
		RejectedBy:        null.StringFromPtr(m.RejectedBy),
		RejectedAt:        null.TimeFromPtr(m.RejectedAt),
		RejectionReason:   null.StringFromPtr(m.RejectionReason),
		Provider:          null.StringFromPtr(m.Provider),
		TransferReference: null.StringFromPtr(m.TransferReference),
		TransferCode:      null.StringFromPtr(m.TransferCode),
		TransferStatus:    null.StringFromPtr(m.TransferStatus),
		IntentAt:          null.TimeFromPtr(m.IntentAt),
		IntentBy:          null.StringFromPtr(m.IntentBy),
		PaidBy:            null.StringFromPtr(m.PaidBy),
		PaidAt:            null.TimeFromPtr(m.PaidAt),
		FailureReason:     null.StringFromPtr(m.FailureReason),
		CreatedAt:         m.CreatedAt,
		UpdatedAt:         m.UpdatedAt,
	}
}
