package providers

import (
	"fmt"

	"github.com/shopspring/decimal"
	domainerrors "payledger.backend/internal/domain/errors"
)

// ProviderError is a non-success answer from a provider API
type ProviderError struct {
	Provider   string
	Operation  string
	StatusCode int
	Message    string
}

func (e *ProviderError) Error() string {
	if e.StatusCode > 0 {
		return fmt.Sprintf("%s %s failed (%d): %s", e.Provider, e.Operation, e.StatusCode, e.Message)
	}
	return fmt.Sprintf("%s %s failed: %s", e.Provider, e.Operation, e.Message)
}

func (e *ProviderError) Unwrap() error {
	return domainerrors.ErrProviderFailure
}

// Retryable reports whether repeating the same request may succeed
func (e *ProviderError) Retryable() bool {
	return e.StatusCode == 0 || e.StatusCode >= 500 || e.StatusCode == 429
}

// DedicatedAccount is a receiving account issued by a provider
type DedicatedAccount struct {
	AccountNumber string
	AccountName   string
	BankName      string
	BankCode      string
	Reference     string
}

// ResolvedAccount is the bank's view of an account number
type ResolvedAccount struct {
	AccountNumber string
	AccountName   string
	BankName      string
}

// RecipientInput registers a bank account as a transfer destination
type RecipientInput struct {
	Name          string
	AccountNumber string
	BankCode      string
	Currency      string
}

// TransferInput initiates a transfer. Reference must be stable across retries.
type TransferInput struct {
	Amount        decimal.Decimal
	Currency      string
	RecipientCode string
	Reason        string
	Reference     string
}

// TransferResult is the provider's acknowledgement of a transfer
type TransferResult struct {
	TransferCode string
	Reference    string
	Status       string
}
