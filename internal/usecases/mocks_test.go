package usecases_test

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"payledger.backend/internal/domain/entities"
	"payledger.backend/internal/infrastructure/providers"
)

// Mock UnitOfWork
type MockUnitOfWork struct {
	mock.Mock
}

func (m *MockUnitOfWork) Do(ctx context.Context, f func(context.Context) error) error {
	m.Called(ctx, f)
	return f(ctx)
}

func (m *MockUnitOfWork) WithLock(ctx context.Context) context.Context {
	args := m.Called(ctx)
	return args.Get(0).(context.Context)
}

// newPassthroughUOW runs every unit of work inline
func newPassthroughUOW() *MockUnitOfWork {
	uow := new(MockUnitOfWork)
	uow.On("Do", mock.Anything, mock.Anything).Return(nil)
	uow.On("WithLock", mock.Anything).Return(context.Background())
	return uow
}

// Mock WalletRepository
type MockWalletRepository struct {
	mock.Mock
}

func (m *MockWalletRepository) EnsureByOwner(ctx context.Context, owner entities.Owner, currency string) (*entities.Wallet, error) {
	args := m.Called(ctx, owner, currency)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Wallet), args.Error(1)
}

func (m *MockWalletRepository) GetByID(ctx context.Context, id uuid.UUID) (*entities.Wallet, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Wallet), args.Error(1)
}

func (m *MockWalletRepository) GetByOwner(ctx context.Context, owner entities.Owner) (*entities.Wallet, error) {
	args := m.Called(ctx, owner)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Wallet), args.Error(1)
}

func (m *MockWalletRepository) UpdateBalance(ctx context.Context, id uuid.UUID, balance decimal.Decimal) error {
	args := m.Called(ctx, id, balance)
	return args.Error(0)
}

func (m *MockWalletRepository) CreateTransaction(ctx context.Context, txn *entities.WalletTransaction) error {
	args := m.Called(ctx, txn)
	return args.Error(0)
}

func (m *MockWalletRepository) ListTransactions(ctx context.Context, walletID uuid.UUID, limit, offset int) ([]*entities.WalletTransaction, int64, error) {
	args := m.Called(ctx, walletID, limit, offset)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]*entities.WalletTransaction), args.Get(1).(int64), args.Error(2)
}

func (m *MockWalletRepository) SumTransactions(ctx context.Context, walletID uuid.UUID) (decimal.Decimal, int64, error) {
	args := m.Called(ctx, walletID)
	return args.Get(0).(decimal.Decimal), args.Get(1).(int64), args.Error(2)
}

// Mock VirtualAccountRepository
type MockVirtualAccountRepository struct {
	mock.Mock
}

func (m *MockVirtualAccountRepository) GetByOwnerAndProvider(ctx context.Context, owner entities.Owner, provider string) (*entities.VirtualAccount, error) {
	args := m.Called(ctx, owner, provider)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.VirtualAccount), args.Error(1)
}

func (m *MockVirtualAccountRepository) GetByAccountNumber(ctx context.Context, provider, accountNumber string) (*entities.VirtualAccount, error) {
	args := m.Called(ctx, provider, accountNumber)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.VirtualAccount), args.Error(1)
}

func (m *MockVirtualAccountRepository) CreateIfAbsent(ctx context.Context, account *entities.VirtualAccount) (bool, error) {
	args := m.Called(ctx, account)
	return args.Bool(0), args.Error(1)
}

// Mock PayoutAccountRepository
type MockPayoutAccountRepository struct {
	mock.Mock
}

func (m *MockPayoutAccountRepository) GetByID(ctx context.Context, id uuid.UUID) (*entities.PayoutAccount, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.PayoutAccount), args.Error(1)
}

func (m *MockPayoutAccountRepository) GetByOwner(ctx context.Context, owner entities.Owner) (*entities.PayoutAccount, error) {
	args := m.Called(ctx, owner)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.PayoutAccount), args.Error(1)
}

func (m *MockPayoutAccountRepository) Upsert(ctx context.Context, account *entities.PayoutAccount) error {
	args := m.Called(ctx, account)
	return args.Error(0)
}

func (m *MockPayoutAccountRepository) MarkVerified(ctx context.Context, id uuid.UUID, accountName, bankName string, at time.Time) error {
	args := m.Called(ctx, id, accountName, bankName, at)
	return args.Error(0)
}

func (m *MockPayoutAccountRepository) MarkFailed(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockPayoutAccountRepository) SetRecipientCode(ctx context.Context, id uuid.UUID, code string) error {
	args := m.Called(ctx, id, code)
	return args.Error(0)
}

// Mock PayoutRequestRepository
type MockPayoutRequestRepository struct {
	mock.Mock
}

func (m *MockPayoutRequestRepository) Create(ctx context.Context, req *entities.PayoutRequest) error {
	args := m.Called(ctx, req)
	return args.Error(0)
}

func (m *MockPayoutRequestRepository) GetByID(ctx context.Context, id uuid.UUID) (*entities.PayoutRequest, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.PayoutRequest), args.Error(1)
}

func (m *MockPayoutRequestRepository) List(ctx context.Context, filter entities.PayoutFilter) ([]*entities.PayoutRequest, int64, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]*entities.PayoutRequest), args.Get(1).(int64), args.Error(2)
}

func (m *MockPayoutRequestRepository) Approve(ctx context.Context, id uuid.UUID, by string, at time.Time) error {
	args := m.Called(ctx, id, by, at)
	return args.Error(0)
}

func (m *MockPayoutRequestRepository) Reject(ctx context.Context, id uuid.UUID, from entities.PayoutStatus, by, reason string, at time.Time) error {
	args := m.Called(ctx, id, from, by, reason, at)
	return args.Error(0)
}

func (m *MockPayoutRequestRepository) RecordIntent(ctx context.Context, id uuid.UUID, provider, reference, by string, at time.Time) error {
	args := m.Called(ctx, id, provider, reference, by, at)
	return args.Error(0)
}

func (m *MockPayoutRequestRepository) ReleaseIntent(ctx context.Context, id uuid.UUID, reference, reason string) error {
	args := m.Called(ctx, id, reference, reason)
	return args.Error(0)
}

func (m *MockPayoutRequestRepository) RecordTransfer(ctx context.Context, id uuid.UUID, reference string, outcome entities.TransferOutcome) error {
	args := m.Called(ctx, id, reference, outcome)
	return args.Error(0)
}

func (m *MockPayoutRequestRepository) MarkPaid(ctx context.Context, id uuid.UUID, reference string, outcome entities.TransferOutcome, by string, at time.Time) error {
	args := m.Called(ctx, id, reference, outcome, by, at)
	return args.Error(0)
}

func (m *MockPayoutRequestRepository) ListStaleIntents(ctx context.Context, before time.Time, limit int) ([]*entities.PayoutRequest, error) {
	args := m.Called(ctx, before, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.PayoutRequest), args.Error(1)
}

// Mock TransferProvider
type MockTransferProvider struct {
	mock.Mock
}

func (m *MockTransferProvider) Name() string {
	return "paystack"
}

func (m *MockTransferProvider) RecognizesRecipient(code string) bool {
	return len(code) > 4 && code[:4] == "RCP_"
}

func (m *MockTransferProvider) CreateRecipient(ctx context.Context, in providers.RecipientInput) (string, error) {
	args := m.Called(ctx, in)
	return args.String(0), args.Error(1)
}

func (m *MockTransferProvider) InitiateTransfer(ctx context.Context, in providers.TransferInput) (*providers.TransferResult, error) {
	args := m.Called(ctx, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*providers.TransferResult), args.Error(1)
}

func (m *MockTransferProvider) ResolveAccount(ctx context.Context, accountNumber, bankCode string) (*providers.ResolvedAccount, error) {
	args := m.Called(ctx, accountNumber, bankCode)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*providers.ResolvedAccount), args.Error(1)
}

// Mock ManagedAccountProvider
type MockManagedAccountProvider struct {
	mock.Mock
}

func (m *MockManagedAccountProvider) CreateCustomer(ctx context.Context, profile entities.CustomerProfile) (string, error) {
	args := m.Called(ctx, profile)
	return args.String(0), args.Error(1)
}

func (m *MockManagedAccountProvider) AssignDedicatedAccount(ctx context.Context, customerCode, preferredBank string) (*providers.DedicatedAccount, error) {
	args := m.Called(ctx, customerCode, preferredBank)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*providers.DedicatedAccount), args.Error(1)
}

// Mock ReservedAccountProvider
type MockReservedAccountProvider struct {
	mock.Mock
}

func (m *MockReservedAccountProvider) CreateReservedAccount(ctx context.Context, accountName, bvn string) (*providers.DedicatedAccount, error) {
	args := m.Called(ctx, accountName, bvn)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*providers.DedicatedAccount), args.Error(1)
}

// Mock Locker
type MockLocker struct {
	mock.Mock
}

func (m *MockLocker) Acquire(ctx context.Context, name string) (func(), error) {
	args := m.Called(ctx, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(func()), args.Error(1)
}

// Mock ProviderPolicy
type MockProviderPolicy struct {
	mock.Mock
}

func (m *MockProviderPolicy) Select(owner entities.Owner) string {
	args := m.Called(owner)
	return args.String(0)
}

// Mock Mailer
type MockMailer struct {
	mock.Mock
}

func (m *MockMailer) Send(ctx context.Context, msg entities.MailMessage) error {
	args := m.Called(ctx, msg)
	return args.Error(0)
}
