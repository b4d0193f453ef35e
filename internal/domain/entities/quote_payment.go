package entities

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/volatiletech/null/v8"
)

// QuotePaymentStatus is owned by the sourcing subsystem; the ledger only moves pending to paid
type QuotePaymentStatus string

const (
	QuotePaymentStatusPending QuotePaymentStatus = "pending"
	QuotePaymentStatusPaid    QuotePaymentStatus = "paid"
)

// PaymentMethodBankTransfer is the method of quote payments settled through a virtual account
const PaymentMethodBankTransfer = "bank_transfer"

// QuotePayment is an outstanding obligation tied to a sourcing handoff
type QuotePayment struct {
	ID        uuid.UUID          `json:"id"`
	QuoteID   uuid.UUID          `json:"quoteId"`
	HandoffID uuid.UUID          `json:"handoffId"`
	Owner     Owner              `json:"owner"`
	Amount    decimal.Decimal    `json:"amount"`
	Currency  string             `json:"currency"`
	Purpose   string             `json:"purpose"`
	Method    string             `json:"method"`
	Status    QuotePaymentStatus `json:"status"`
	PaidAt    null.Time          `json:"paidAt"`
	CreatedAt time.Time          `json:"createdAt"`
	UpdatedAt time.Time          `json:"updatedAt"`
}

// HandoffPayment is the payment record written against a handoff when a quote payment is settled
type HandoffPayment struct {
	ID             uuid.UUID       `json:"id"`
	HandoffID      uuid.UUID       `json:"handoffId"`
	QuoteID        uuid.UUID       `json:"quoteId"`
	QuotePaymentID uuid.UUID       `json:"quotePaymentId"`
	Owner          Owner           `json:"owner"`
	Amount         decimal.Decimal `json:"amount"`
	Currency       string          `json:"currency"`
	Purpose        string          `json:"purpose"`
	Method         string          `json:"method"`
	Provider       string          `json:"provider"`
	SettlementID   string          `json:"settlementId"`
	PaidAt         time.Time       `json:"paidAt"`
	CreatedAt      time.Time       `json:"createdAt"`
}

// CommissionContext is handed to the commission collaborator after a match
type CommissionContext struct {
	PaymentID uuid.UUID       `json:"paymentId"`
	QuoteID   uuid.UUID       `json:"quoteId"`
	HandoffID uuid.UUID       `json:"handoffId"`
	Purpose   string          `json:"purpose"`
	Amount    decimal.Decimal `json:"amount"`
	Currency  string          `json:"currency"`
}

// MatchResult describes a settled quote payment
type MatchResult struct {
	QuotePayment   *QuotePayment
	HandoffPayment *HandoffPayment
}
