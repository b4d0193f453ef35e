package usecases

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"payledger.backend/internal/domain/entities"
	domainerrors "payledger.backend/internal/domain/errors"
	"payledger.backend/internal/domain/repositories"
	"payledger.backend/pkg/logger"
	"payledger.backend/pkg/utils"
)

// LedgerUsecase is the only writer of wallet balances. Every posting locks the
// wallet, appends a transaction row and updates the cached balance in one transaction.
type LedgerUsecase struct {
	walletRepo repositories.WalletRepository
	uow        repositories.UnitOfWork
}

// NewLedgerUsecase creates a new ledger usecase
func NewLedgerUsecase(walletRepo repositories.WalletRepository, uow repositories.UnitOfWork) *LedgerUsecase {
	return &LedgerUsecase{walletRepo: walletRepo, uow: uow}
}

// EnsureWallet returns the owner's wallet, creating it on first access
func (u *LedgerUsecase) EnsureWallet(ctx context.Context, owner entities.Owner, currency string) (*entities.Wallet, error) {
	if !owner.Type.Valid() || owner.ID == uuid.Nil {
		return nil, fmt.Errorf("%w: owner %s", domainerrors.ErrInvalidInput, owner)
	}
	return u.walletRepo.EnsureByOwner(ctx, owner, currency)
}

// GetWallet is EnsureWallet in the default currency
func (u *LedgerUsecase) GetWallet(ctx context.Context, owner entities.Owner) (*entities.Wallet, error) {
	return u.EnsureWallet(ctx, owner, entities.DefaultCurrency)
}

// Credit adds amount to the wallet
func (u *LedgerUsecase) Credit(ctx context.Context, in entities.PostingInput) (*entities.WalletTransaction, error) {
	return u.post(ctx, entities.DirectionCredit, in)
}

// Debit removes amount from the wallet; the balance may not go below zero
func (u *LedgerUsecase) Debit(ctx context.Context, in entities.PostingInput) (*entities.WalletTransaction, error) {
	return u.post(ctx, entities.DirectionDebit, in)
}

func (u *LedgerUsecase) post(ctx context.Context, direction entities.Direction, in entities.PostingInput) (*entities.WalletTransaction, error) {
	if !in.Amount.IsPositive() {
		return nil, fmt.Errorf("%w: amount must be positive", domainerrors.ErrInvalidInput)
	}
	if !in.Amount.Equal(in.Amount.Round(2)) {
		return nil, fmt.Errorf("%w: amount has more than two decimal places", domainerrors.ErrInvalidInput)
	}

	var txn *entities.WalletTransaction
	err := u.uow.Do(ctx, func(txCtx context.Context) error {
		lockCtx := u.uow.WithLock(txCtx)

		wallet, err := u.walletRepo.GetByID(lockCtx, in.WalletID)
		if err != nil {
			return err
		}
		if wallet.Status != entities.WalletStatusActive {
			return fmt.Errorf("%w: wallet %s is %s", domainerrors.ErrConflict, wallet.ID, wallet.Status)
		}

		balance := wallet.Balance.Add(in.Amount)
		if direction == entities.DirectionDebit {
			balance = wallet.Balance.Sub(in.Amount)
			if balance.IsNegative() {
				return domainerrors.ErrInsufficientFunds
			}
		}

		txn = &entities.WalletTransaction{
			ID:           utils.GenerateUUIDv7(),
			WalletID:     wallet.ID,
			Direction:    direction,
			Amount:       in.Amount,
			Currency:     wallet.Currency,
			Reason:       in.Reason,
			Reference:    in.Reference,
			Provider:     in.Provider,
			SettlementID: in.SettlementID,
			Metadata:     in.Metadata,
			BalanceAfter: balance,
			CreatedAt:    time.Now(),
		}
		if err := u.walletRepo.CreateTransaction(lockCtx, txn); err != nil {
			return fmt.Errorf("append wallet transaction: %w", err)
		}
		return u.walletRepo.UpdateBalance(lockCtx, wallet.ID, balance)
	})
	if err != nil {
		return nil, err
	}

	logger.Info(ctx, "Wallet posted",
		zap.String("wallet_id", txn.WalletID.String()),
		zap.String("direction", string(direction)),
		zap.String("amount", txn.Amount.StringFixed(2)),
		zap.String("balance_after", txn.BalanceAfter.StringFixed(2)),
		zap.String("reason", txn.Reason),
	)
	return txn, nil
}

// ListTransactions pages through the owner's wallet log, newest first
func (u *LedgerUsecase) ListTransactions(ctx context.Context, owner entities.Owner, page, limit int) ([]*entities.WalletTransaction, utils.PaginationMeta, error) {
	wallet, err := u.GetWallet(ctx, owner)
	if err != nil {
		return nil, utils.PaginationMeta{}, err
	}
	params := utils.GetPaginationParams(page, limit)
	txns, total, err := u.walletRepo.ListTransactions(ctx, wallet.ID, params.Limit, params.CalculateOffset())
	if err != nil {
		return nil, utils.PaginationMeta{}, err
	}
	return txns, utils.CalculateMeta(total, params.Page, params.Limit), nil
}

// VerifyBalance recomputes the balance from the transaction log and reports drift
func (u *LedgerUsecase) VerifyBalance(ctx context.Context, walletID uuid.UUID) (*entities.BalanceCheck, error) {
	wallet, err := u.walletRepo.GetByID(ctx, walletID)
	if err != nil {
		return nil, err
	}
	sum, count, err := u.walletRepo.SumTransactions(ctx, walletID)
	if err != nil {
		return nil, err
	}
	check := &entities.BalanceCheck{
		WalletID:      walletID,
		CachedBalance: wallet.Balance,
		LedgerBalance: sum,
		Consistent:    wallet.Balance.Equal(sum),
		Transactions:  count,
	}
	if !check.Consistent {
		logger.Error(ctx, "Wallet balance drift detected",
			zap.String("wallet_id", walletID.String()),
			zap.String("cached", wallet.Balance.String()),
			zap.String("ledger", sum.String()),
		)
	}
	return check, nil
}
