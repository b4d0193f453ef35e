package entities

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Settlement acknowledgement codes. The provider drives redelivery off these,
// not off the HTTP status.
const (
	SettlementCodeSuccess   = "00"
	SettlementCodeDuplicate = "01"
	SettlementCodeRejected  = "02"
	SettlementCodeRetry     = "03"
)

// SettlementNotification is the inbound bank-transfer settlement payload
type SettlementNotification struct {
	SessionID           string      `json:"sessionId"`
	SettlementID        string      `json:"settlementId"`
	AccountNumber       string      `json:"accountNumber"`
	TransactionAmount   json.Number `json:"transactionAmount"`
	SettledAmount       json.Number `json:"settledAmount"`
	FeeAmount           json.Number `json:"feeAmount"`
	VatAmount           json.Number `json:"vatAmount"`
	Currency            string      `json:"currency"`
	TranRemarks         string      `json:"tranRemarks"`
	InitiationTranRef   string      `json:"initiationTranRef"`
	SourceAccountNumber string      `json:"sourceAccountNumber"`
	SourceAccountName   string      `json:"sourceAccountName"`
	SourceBankName      string      `json:"sourceBankName"`
	ChannelID           string      `json:"channelId"`
	TranDateTime        string      `json:"tranDateTime"`
}

// SettlementOutcome is the acknowledgement returned to the provider
type SettlementOutcome struct {
	SessionID string
	Code      string
	Message   string
}

// ProviderTransaction is the dedupe/audit row for an applied settlement
type ProviderTransaction struct {
	ID                  uuid.UUID       `json:"id"`
	Provider            string          `json:"provider"`
	SettlementID        string          `json:"settlementId"`
	SessionID           string          `json:"sessionId"`
	AccountNumber       string          `json:"accountNumber"`
	TransactionAmount   decimal.Decimal `json:"transactionAmount"`
	SettledAmount       decimal.Decimal `json:"settledAmount"`
	FeeAmount           decimal.Decimal `json:"feeAmount"`
	VatAmount           decimal.Decimal `json:"vatAmount"`
	Currency            string          `json:"currency"`
	RawPayload          []byte          `json:"-"`
	WalletTransactionID *uuid.UUID      `json:"walletTransactionId,omitempty"`
	CreatedAt           time.Time       `json:"createdAt"`
}
