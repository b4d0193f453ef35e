package usecases

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"
	"payledger.backend/internal/domain/entities"
	domainerrors "payledger.backend/internal/domain/errors"
	"payledger.backend/internal/domain/repositories"
	"payledger.backend/internal/infrastructure/providers"
	"payledger.backend/pkg/logger"
	"payledger.backend/pkg/redis"
)

// VirtualAccountUsecase provisions dedicated receiving accounts lazily, one per owner and provider
type VirtualAccountUsecase struct {
	repo          repositories.VirtualAccountRepository
	managed       ManagedAccountProvider
	reserved      ReservedAccountProvider
	policy        ProviderPolicy
	locker        Locker
	preferredBank string
}

// NewVirtualAccountUsecase creates a new virtual account usecase. managed, reserved
// and locker may be nil; the matching provider is then reported as unsupported.
func NewVirtualAccountUsecase(
	repo repositories.VirtualAccountRepository,
	managed ManagedAccountProvider,
	reserved ReservedAccountProvider,
	policy ProviderPolicy,
	locker Locker,
	preferredBank string,
) *VirtualAccountUsecase {
	return &VirtualAccountUsecase{
		repo:          repo,
		managed:       managed,
		reserved:      reserved,
		policy:        policy,
		locker:        locker,
		preferredBank: preferredBank,
	}
}

// GetOrProvision ensures the owner's account with the provider chosen by policy
func (u *VirtualAccountUsecase) GetOrProvision(ctx context.Context, owner entities.Owner, profile entities.CustomerProfile) (*entities.VirtualAccount, error) {
	provider := entities.ProviderProvidus
	if u.policy != nil {
		provider = u.policy.Select(owner)
	}
	return u.EnsureVirtualAccount(ctx, owner, provider, profile)
}

// EnsureVirtualAccount returns the existing (owner, provider) account unchanged or
// creates it. Nothing is stored when the provider call fails.
func (u *VirtualAccountUsecase) EnsureVirtualAccount(ctx context.Context, owner entities.Owner, provider string, profile entities.CustomerProfile) (*entities.VirtualAccount, error) {
	if !owner.Type.Valid() {
		return nil, fmt.Errorf("%w: owner type %q", domainerrors.ErrInvalidInput, owner.Type)
	}

	existing, err := u.repo.GetByOwnerAndProvider(ctx, owner, provider)
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, domainerrors.ErrNotFound) {
		return nil, err
	}

	if err := u.validate(provider, profile); err != nil {
		return nil, err
	}

	release, err := u.lock(ctx, owner, provider)
	if err != nil {
		return nil, err
	}
	defer release()

	// another instance may have finished while we waited for the lock
	if existing, err := u.repo.GetByOwnerAndProvider(ctx, owner, provider); err == nil {
		return existing, nil
	}

	issued, err := u.issue(ctx, provider, profile)
	if err != nil {
		logger.Error(ctx, "Virtual account provisioning failed",
			zap.String("owner", owner.String()),
			zap.String("provider", provider),
			zap.Error(err),
		)
		return nil, err
	}

	account := &entities.VirtualAccount{
		Owner:             owner,
		Provider:          provider,
		AccountNumber:     issued.AccountNumber,
		AccountName:       issued.AccountName,
		BankName:          issued.BankName,
		BankCode:          issued.BankCode,
		ProviderReference: issued.Reference,
	}
	created, err := u.repo.CreateIfAbsent(ctx, account)
	if err != nil {
		return nil, err
	}
	if !created {
		logger.Warn(ctx, "Virtual account already stored, provider account left unused",
			zap.String("owner", owner.String()),
			zap.String("provider", provider),
			zap.String("account_number", issued.AccountNumber),
		)
		return u.repo.GetByOwnerAndProvider(ctx, owner, provider)
	}

	logger.Info(ctx, "Virtual account provisioned",
		zap.String("owner", owner.String()),
		zap.String("provider", provider),
		zap.String("account_number", account.AccountNumber),
	)
	return account, nil
}

func (u *VirtualAccountUsecase) validate(provider string, profile entities.CustomerProfile) error {
	switch provider {
	case entities.ProviderPaystack:
		if u.managed == nil {
			return fmt.Errorf("%w: %s", domainerrors.ErrUnsupportedProvider, provider)
		}
		if strings.TrimSpace(profile.Phone) == "" {
			return domainerrors.ErrPhoneRequired
		}
		if strings.TrimSpace(profile.Email) == "" {
			return fmt.Errorf("%w: email is required", domainerrors.ErrInvalidInput)
		}
	case entities.ProviderProvidus:
		if u.reserved == nil {
			return fmt.Errorf("%w: %s", domainerrors.ErrUnsupportedProvider, provider)
		}
		if strings.TrimSpace(profile.DisplayName()) == "" {
			return fmt.Errorf("%w: account name is required", domainerrors.ErrInvalidInput)
		}
	default:
		return fmt.Errorf("%w: %s", domainerrors.ErrUnsupportedProvider, provider)
	}
	return nil
}

func (u *VirtualAccountUsecase) issue(ctx context.Context, provider string, profile entities.CustomerProfile) (*providers.DedicatedAccount, error) {
	if provider == entities.ProviderPaystack {
		customerCode, err := u.managed.CreateCustomer(ctx, profile)
		if err != nil {
			return nil, err
		}
		return u.managed.AssignDedicatedAccount(ctx, customerCode, u.preferredBank)
	}
	return u.reserved.CreateReservedAccount(ctx, profile.DisplayName(), profile.BVN)
}

// lock serialises first-use provisioning. A redis outage degrades to the unique
// constraint alone.
func (u *VirtualAccountUsecase) lock(ctx context.Context, owner entities.Owner, provider string) (func(), error) {
	noop := func() {}
	if u.locker == nil {
		return noop, nil
	}
	release, err := u.locker.Acquire(ctx, owner.String()+":"+provider)
	if err == nil {
		return release, nil
	}
	if errors.Is(err, redis.ErrLockHeld) {
		return nil, fmt.Errorf("%w: provisioning already in progress", domainerrors.ErrConflict)
	}
	logger.Warn(ctx, "Provisioning lock unavailable", zap.Error(err))
	return noop, nil
}
