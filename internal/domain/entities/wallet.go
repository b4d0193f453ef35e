package entities

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Direction of a wallet movement
type Direction string

const (
	DirectionCredit Direction = "credit"
	DirectionDebit  Direction = "debit"
)

// WalletStatus represents the lifecycle status of a wallet
type WalletStatus string

const (
	WalletStatusActive WalletStatus = "active"
	WalletStatusFrozen WalletStatus = "frozen"
)

// DefaultCurrency is used when a wallet is created without an explicit currency
const DefaultCurrency = "NGN"

// Wallet is the owner-scoped running balance
type Wallet struct {
	ID        uuid.UUID       `json:"id"`
	Owner     Owner           `json:"owner"`
	Currency  string          `json:"currency"`
	Balance   decimal.Decimal `json:"balance"`
	Status    WalletStatus    `json:"status"`
	CreatedAt time.Time       `json:"createdAt"`
	UpdatedAt time.Time       `json:"updatedAt"`
}

// Reference points a wallet movement at the domain object that caused it
type Reference struct {
	Type string `json:"type,omitempty"`
	ID   string `json:"id,omitempty"`
}

// WalletTransaction is one append-only ledger row
type WalletTransaction struct {
	ID           uuid.UUID              `json:"id"`
	WalletID     uuid.UUID              `json:"walletId"`
	Direction    Direction              `json:"direction"`
	Amount       decimal.Decimal        `json:"amount"`
	Currency     string                 `json:"currency"`
	Reason       string                 `json:"reason"`
	Reference    Reference              `json:"reference"`
	Provider     string                 `json:"provider,omitempty"`
	SettlementID string                 `json:"settlementId,omitempty"`
	Metadata     map[string]interface{} `json:"metadata,omitempty"`
	BalanceAfter decimal.Decimal        `json:"balanceAfter"`
	CreatedAt    time.Time              `json:"createdAt"`
}

// Signed returns the amount with the sign implied by the direction
func (t *WalletTransaction) Signed() decimal.Decimal {
	if t.Direction == DirectionDebit {
		return t.Amount.Neg()
	}
	return t.Amount
}

// PostingInput describes a credit or debit against a wallet
type PostingInput struct {
	WalletID     uuid.UUID
	Amount       decimal.Decimal
	Reason       string
	Reference    Reference
	Provider     string
	SettlementID string
	Metadata     map[string]interface{}
}

// BalanceCheck is the result of recomputing a wallet balance from its log
type BalanceCheck struct {
	WalletID      uuid.UUID       `json:"walletId"`
	CachedBalance decimal.Decimal `json:"cachedBalance"`
	LedgerBalance decimal.Decimal `json:"ledgerBalance"`
	Consistent    bool            `json:"consistent"`
	Transactions  int64           `json:"transactions"`
}
