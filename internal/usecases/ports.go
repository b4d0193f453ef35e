package usecases

import (
	"context"

	"payledger.backend/internal/domain/entities"
	"payledger.backend/internal/infrastructure/providers"
)

// TransferProvider sends money to bank accounts
type TransferProvider interface {
	Name() string
	// RecognizesRecipient reports whether a cached recipient code was issued by this provider
	RecognizesRecipient(code string) bool
	CreateRecipient(ctx context.Context, in providers.RecipientInput) (string, error)
	InitiateTransfer(ctx context.Context, in providers.TransferInput) (*providers.TransferResult, error)
	ResolveAccount(ctx context.Context, accountNumber, bankCode string) (*providers.ResolvedAccount, error)
}

// ManagedAccountProvider issues dedicated accounts to registered customers
type ManagedAccountProvider interface {
	CreateCustomer(ctx context.Context, profile entities.CustomerProfile) (string, error)
	AssignDedicatedAccount(ctx context.Context, customerCode, preferredBank string) (*providers.DedicatedAccount, error)
}

// ReservedAccountProvider opens reserved accounts directly with the bank
type ReservedAccountProvider interface {
	CreateReservedAccount(ctx context.Context, accountName, bvn string) (*providers.DedicatedAccount, error)
}

// Locker serialises work on a named resource across instances
type Locker interface {
	Acquire(ctx context.Context, name string) (release func(), err error)
}

// NotificationDispatcher delivers an in-app notification to an owner
type NotificationDispatcher interface {
	Notify(ctx context.Context, target entities.Owner, title, body string, data map[string]interface{}) error
}

// Mailer sends templated email
type Mailer interface {
	Send(ctx context.Context, msg entities.MailMessage) error
}

// CommissionCreditor hands a settled payment to the commission subsystem
type CommissionCreditor interface {
	CreditCommission(ctx context.Context, payment entities.CommissionContext) error
}

// ProviderPolicy chooses the dedicated account provider for an owner
type ProviderPolicy interface {
	Select(owner entities.Owner) string
}
