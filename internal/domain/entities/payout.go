package entities

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/volatiletech/null/v8"
)

// PayoutStatus is the payout request state machine:
// pending -> approved -> paid, or pending/approved -> rejected.
type PayoutStatus string

const (
	PayoutStatusPending  PayoutStatus = "pending"
	PayoutStatusApproved PayoutStatus = "approved"
	PayoutStatusPaid     PayoutStatus = "paid"
	PayoutStatusRejected PayoutStatus = "rejected"
)

// Valid reports whether s is a known status
func (s PayoutStatus) Valid() bool {
	switch s {
	case PayoutStatusPending, PayoutStatusApproved, PayoutStatusPaid, PayoutStatusRejected:
		return true
	}
	return false
}

// CanTransitionTo reports whether next directly follows s
func (s PayoutStatus) CanTransitionTo(next PayoutStatus) bool {
	switch s {
	case PayoutStatusPending:
		return next == PayoutStatusApproved || next == PayoutStatusRejected
	case PayoutStatusApproved:
		return next == PayoutStatusPaid || next == PayoutStatusRejected
	default:
		return false
	}
}

// PayoutAccountStatus tracks bank account verification
type PayoutAccountStatus string

const (
	PayoutAccountStatusPending  PayoutAccountStatus = "pending"
	PayoutAccountStatusVerified PayoutAccountStatus = "verified"
	PayoutAccountStatusFailed   PayoutAccountStatus = "failed"
)

// PayoutAccount is the bank account an owner withdraws to
type PayoutAccount struct {
	ID            uuid.UUID           `json:"id"`
	Owner         Owner               `json:"owner"`
	BankCode      string              `json:"bankCode"`
	BankName      string              `json:"bankName,omitempty"`
	AccountNumber string              `json:"accountNumber"`
	AccountName   string              `json:"accountName"`
	Status        PayoutAccountStatus `json:"status"`
	VerifiedAt    null.Time           `json:"verifiedAt"`
	RecipientCode null.String         `json:"-"`
	CreatedAt     time.Time           `json:"createdAt"`
	UpdatedAt     time.Time           `json:"updatedAt"`
}

// HasBankDetails reports whether the account can be registered with a provider
func (a *PayoutAccount) HasBankDetails() bool {
	return strings.TrimSpace(a.BankCode) != "" && strings.TrimSpace(a.AccountNumber) != ""
}

// IsVerified accepts either the verification timestamp or an explicit verified status
func (a *PayoutAccount) IsVerified() bool {
	return a.VerifiedAt.Valid || a.Status == PayoutAccountStatusVerified
}

// PayoutRequest is an owner-initiated withdrawal
type PayoutRequest struct {
	ID                uuid.UUID       `json:"id"`
	Owner             Owner           `json:"owner"`
	PayoutAccountID   uuid.UUID       `json:"payoutAccountId"`
	Amount            decimal.Decimal `json:"amount"`
	Currency          string          `json:"currency"`
	Status            PayoutStatus    `json:"status"`
	Note              string          `json:"note,omitempty"`
	ApprovedBy        null.String     `json:"approvedBy"`
	ApprovedAt        null.Time       `json:"approvedAt"`
	RejectedBy        null.String     `json:"rejectedBy"`
	RejectedAt        null.Time       `json:"rejectedAt"`
	RejectionReason   null.String     `json:"rejectionReason"`
	Provider          null.String     `json:"provider"`
	TransferReference null.String     `json:"transferReference"`
	TransferCode      null.String     `json:"transferCode"`
	TransferStatus    null.String     `json:"transferStatus"`
	IntentAt          null.Time       `json:"intentAt"`
	IntentBy          null.String     `json:"intentBy"`
	PaidBy            null.String     `json:"paidBy"`
	PaidAt            null.Time       `json:"paidAt"`
	FailureReason     null.String     `json:"failureReason"`
	CreatedAt         time.Time       `json:"createdAt"`
	UpdatedAt         time.Time       `json:"updatedAt"`
}

// TransferReferenceFor derives the stable provider reference of a payout request
func TransferReferenceFor(id uuid.UUID) string {
	return "PO-" + strings.ReplaceAll(id.String(), "-", "")
}

// HasLiveIntent reports whether a transfer attempt claimed the request within ttl
func (r *PayoutRequest) HasLiveIntent(now time.Time, ttl time.Duration) bool {
	return r.IntentAt.Valid && now.Sub(r.IntentAt.Time) < ttl
}

// SentTransfer returns the provider outcome recorded for a transfer that went
// out but was not yet marked paid
func (r *PayoutRequest) SentTransfer() (*TransferOutcome, bool) {
	if r.Status != PayoutStatusApproved || !r.TransferStatus.Valid {
		return nil, false
	}
	return &TransferOutcome{
		Provider:     r.Provider.String,
		TransferCode: r.TransferCode.String,
		Reference:    r.TransferReference.String,
		Status:       r.TransferStatus.String,
	}, true
}

// PayoutFilter narrows payout request listings
type PayoutFilter struct {
	Owner  *Owner
	Status PayoutStatus
	Page   int
	Limit  int
}

// TransferIntent is recorded before the provider call and consumed by reconciliation
type TransferIntent struct {
	RequestID uuid.UUID
	Reference string
	ClaimedBy string
	ClaimedAt time.Time
	Amount    decimal.Decimal
	Currency  string
	Account   PayoutAccount
	// Sent is set when the transfer already went out and only needs recording
	Sent *TransferOutcome
}

// TransferOutcome is what the provider returned for an initiated transfer
type TransferOutcome struct {
	Provider     string
	TransferCode string
	Reference    string
	Status       string
}
