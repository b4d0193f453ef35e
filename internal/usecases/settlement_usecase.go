package usecases

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"payledger.backend/internal/domain/entities"
	domainerrors "payledger.backend/internal/domain/errors"
	"payledger.backend/internal/domain/repositories"
	"payledger.backend/internal/infrastructure/metrics"
	"payledger.backend/pkg/crypto"
	"payledger.backend/pkg/logger"
	"payledger.backend/pkg/utils"
)

// SettlementUsecase applies inbound bank-transfer settlements. Each notification is
// authenticated, deduplicated on (provider, settlement id), credited and optionally
// matched in a single transaction.
type SettlementUsecase struct {
	providerTxnRepo   repositories.ProviderTransactionRepository
	virtualAcctRepo   repositories.VirtualAccountRepository
	ledger            *LedgerUsecase
	matcher           *PaymentMatcher
	mailer            Mailer
	uow               repositories.UnitOfWork
	provider          string
	expectedSignature string
}

// NewSettlementUsecase creates a new settlement usecase. The expected webhook
// signature is derived once from the provider credentials.
func NewSettlementUsecase(
	providerTxnRepo repositories.ProviderTransactionRepository,
	virtualAcctRepo repositories.VirtualAccountRepository,
	ledger *LedgerUsecase,
	matcher *PaymentMatcher,
	mailer Mailer,
	uow repositories.UnitOfWork,
	clientID, clientSecret string,
) *SettlementUsecase {
	expected := ""
	if clientID != "" || clientSecret != "" {
		expected = crypto.CredentialSignature(clientID, clientSecret)
	}
	return &SettlementUsecase{
		providerTxnRepo:   providerTxnRepo,
		virtualAcctRepo:   virtualAcctRepo,
		ledger:            ledger,
		matcher:           matcher,
		mailer:            mailer,
		uow:               uow,
		provider:          entities.ProviderProvidus,
		expectedSignature: expected,
	}
}

// HandleSettlement never fails; every problem is expressed as an acknowledgement code
func (u *SettlementUsecase) HandleSettlement(ctx context.Context, signature string, body []byte) entities.SettlementOutcome {
	var n entities.SettlementNotification
	parseErr := json.Unmarshal(body, &n)

	matched, err := u.handle(ctx, signature, body, &n, parseErr)
	code := settlementCode(err)
	metrics.ObserveSettlement(u.provider, code)

	log := []zap.Field{
		zap.String("provider", u.provider),
		zap.String("settlement_id", n.SettlementID),
		zap.String("session_id", n.SessionID),
		zap.String("code", code),
	}
	switch code {
	case entities.SettlementCodeDuplicate:
		logger.Info(ctx, "Settlement already applied", log...)
	case entities.SettlementCodeRejected:
		logger.Warn(ctx, "Settlement rejected", append(log, zap.Error(err))...)
	case entities.SettlementCodeRetry:
		logger.Error(ctx, "Settlement failed, provider should retry", append(log, zap.Error(err))...)
	}

	if code == entities.SettlementCodeSuccess && matched != nil {
		u.sendReceipt(ctx, matched)
	}
	return entities.SettlementOutcome{SessionID: n.SessionID, Code: code, Message: settlementMessage(code)}
}

// settlementCode maps a handling error onto the acknowledgement code
func settlementCode(err error) string {
	switch {
	case err == nil:
		return entities.SettlementCodeSuccess
	case errors.Is(err, domainerrors.ErrDuplicateSettlement):
		return entities.SettlementCodeDuplicate
	case errors.Is(err, domainerrors.ErrInvalidSignature),
		errors.Is(err, domainerrors.ErrUnknownAccount),
		errors.Is(err, domainerrors.ErrCurrencyMismatch),
		errors.Is(err, domainerrors.ErrInvalidInput):
		return entities.SettlementCodeRejected
	default:
		return entities.SettlementCodeRetry
	}
}

func (u *SettlementUsecase) handle(ctx context.Context, signature string, body []byte, n *entities.SettlementNotification, parseErr error) (*entities.MatchResult, error) {
	if !crypto.SignatureMatches(u.expectedSignature, signature) {
		return nil, domainerrors.ErrInvalidSignature
	}
	if parseErr != nil {
		return nil, fmt.Errorf("%w: malformed payload: %v", domainerrors.ErrInvalidInput, parseErr)
	}

	txn, err := u.audit(n, body)
	if err != nil {
		return nil, err
	}

	account, err := u.virtualAcctRepo.GetByAccountNumber(ctx, u.provider, txn.AccountNumber)
	if errors.Is(err, domainerrors.ErrNotFound) {
		return nil, fmt.Errorf("%w: %s", domainerrors.ErrUnknownAccount, txn.AccountNumber)
	}
	if err != nil {
		return nil, fmt.Errorf("look up account %s: %w", txn.AccountNumber, err)
	}

	credited := txn.SettledAmount
	if !credited.IsPositive() {
		credited = txn.TransactionAmount
	}

	var matched *entities.MatchResult
	err = u.uow.Do(ctx, func(txCtx context.Context) error {
		inserted, err := u.providerTxnRepo.InsertIfAbsent(txCtx, txn)
		if err != nil {
			return fmt.Errorf("record provider transaction: %w", err)
		}
		if !inserted {
			return domainerrors.ErrDuplicateSettlement
		}

		wallet, err := u.ledger.EnsureWallet(txCtx, account.Owner, txn.Currency)
		if err != nil {
			return fmt.Errorf("ensure wallet: %w", err)
		}
		if !strings.EqualFold(wallet.Currency, txn.Currency) {
			return fmt.Errorf("%w: wallet holds %s, settlement is %s", domainerrors.ErrCurrencyMismatch, wallet.Currency, txn.Currency)
		}
		walletTxn, err := u.ledger.Credit(txCtx, entities.PostingInput{
			WalletID:     wallet.ID,
			Amount:       credited,
			Reason:       ReasonSettlementCredit,
			Reference:    entities.Reference{Type: ReferenceProviderTransaction, ID: txn.ID.String()},
			Provider:     u.provider,
			SettlementID: txn.SettlementID,
			Metadata: map[string]interface{}{
				"sessionId":         n.SessionID,
				"sourceAccountName": n.SourceAccountName,
				"sourceBankName":    n.SourceBankName,
				"remarks":           n.TranRemarks,
			},
		})
		if err != nil {
			return fmt.Errorf("credit wallet: %w", err)
		}
		if err := u.providerTxnRepo.AttachWalletTransaction(txCtx, txn.ID, walletTxn.ID); err != nil {
			return fmt.Errorf("link wallet transaction: %w", err)
		}

		if u.matcher == nil {
			return nil
		}
		matched, err = u.matcher.Match(txCtx, MatchInput{
			Owner:        account.Owner,
			Amount:       credited,
			Currency:     walletTxn.Currency,
			Provider:     u.provider,
			SettlementID: txn.SettlementID,
			PaidAt:       walletTxn.CreatedAt,
		})
		return err
	})
	if err != nil {
		return nil, err
	}

	logger.Info(ctx, "Settlement applied",
		zap.String("provider", u.provider),
		zap.String("settlement_id", txn.SettlementID),
		zap.String("owner", account.Owner.String()),
		zap.String("amount", credited.StringFixed(2)),
		zap.Bool("matched", matched != nil),
	)
	return matched, nil
}

// audit validates the notification and builds its provider transaction row
func (u *SettlementUsecase) audit(n *entities.SettlementNotification, body []byte) (*entities.ProviderTransaction, error) {
	settlementID := strings.TrimSpace(n.SettlementID)
	accountNumber := strings.TrimSpace(n.AccountNumber)
	if settlementID == "" || accountNumber == "" {
		return nil, fmt.Errorf("%w: settlementId and accountNumber are required", domainerrors.ErrInvalidInput)
	}

	amounts := make([]decimal.Decimal, 4)
	for i, raw := range []json.Number{n.TransactionAmount, n.SettledAmount, n.FeeAmount, n.VatAmount} {
		d, err := decimalFromNumber(raw)
		if err != nil {
			return nil, err
		}
		amounts[i] = d
	}

	credited := amounts[1]
	if !credited.IsPositive() {
		credited = amounts[0]
	}
	if !credited.IsPositive() {
		return nil, fmt.Errorf("%w: settlement amount must be positive", domainerrors.ErrInvalidInput)
	}
	if !credited.Equal(credited.Round(2)) {
		return nil, fmt.Errorf("%w: settlement amount has more than two decimal places", domainerrors.ErrInvalidInput)
	}

	currency := strings.ToUpper(strings.TrimSpace(n.Currency))
	if currency == "" {
		currency = entities.DefaultCurrency
	}

	return &entities.ProviderTransaction{
		ID:                utils.GenerateUUIDv7(),
		Provider:          u.provider,
		SettlementID:      settlementID,
		SessionID:         n.SessionID,
		AccountNumber:     accountNumber,
		TransactionAmount: amounts[0],
		SettledAmount:     amounts[1],
		FeeAmount:         amounts[2],
		VatAmount:         amounts[3],
		Currency:          currency,
		RawPayload:        body,
		CreatedAt:         time.Now(),
	}, nil
}

// sendReceipt runs after commit; a mail failure never changes the acknowledgement
func (u *SettlementUsecase) sendReceipt(ctx context.Context, matched *entities.MatchResult) {
	if u.mailer == nil || matched.QuotePayment == nil {
		return
	}
	payment := matched.QuotePayment
	msg := entities.MailMessage{
		Owner:   payment.Owner,
		Subject: "Payment receipt",
		Lines: []string{
			fmt.Sprintf("We received your %s payment.", payment.Purpose),
			fmt.Sprintf("Amount: %s %s", payment.Currency, payment.Amount.StringFixed(2)),
			fmt.Sprintf("Quote: %s", payment.QuoteID),
		},
	}
	if err := u.mailer.Send(ctx, msg); err != nil {
		logger.Warn(ctx, "Payment receipt not sent",
			zap.String("quote_payment_id", payment.ID.String()),
			zap.Error(err),
		)
	}
}

func settlementMessage(code string) string {
	switch code {
	case entities.SettlementCodeSuccess:
		return SettlementMessageSuccess
	case entities.SettlementCodeDuplicate:
		return SettlementMessageDuplicate
	case entities.SettlementCodeRejected:
		return SettlementMessageRejected
	default:
		return SettlementMessageRetry
	}
}

// decimalFromNumber parses an optional JSON amount; empty means zero
func decimalFromNumber(raw json.Number) (decimal.Decimal, error) {
	s := strings.TrimSpace(raw.String())
	if s == "" {
		return decimal.Zero, nil
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: amount %q", domainerrors.ErrInvalidInput, s)
	}
	return d, nil
}
