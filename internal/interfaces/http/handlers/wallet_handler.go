package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"payledger.backend/internal/domain/entities"
	domainerrors "payledger.backend/internal/domain/errors"
	"payledger.backend/internal/interfaces/http/middleware"
	"payledger.backend/internal/interfaces/http/response"
	"payledger.backend/internal/usecases"
	"payledger.backend/pkg/utils"
)

type ledgerService interface {
	GetWallet(ctx context.Context, owner entities.Owner) (*entities.Wallet, error)
	ListTransactions(ctx context.Context, owner entities.Owner, page, limit int) ([]*entities.WalletTransaction, utils.PaginationMeta, error)
	VerifyBalance(ctx context.Context, walletID uuid.UUID) (*entities.BalanceCheck, error)
}

// WalletHandler exposes the caller's wallet and the ledger audit check
type WalletHandler struct {
	ledger ledgerService
}

// NewWalletHandler creates a new wallet handler
func NewWalletHandler(ledger *usecases.LedgerUsecase) *WalletHandler {
	return &WalletHandler{ledger: ledger}
}

// GetWallet returns the caller's wallet, creating it on first access
// GET /api/v1/wallet
func (h *WalletHandler) GetWallet(c *gin.Context) {
	actor, ok := middleware.GetActor(c)
	if !ok {
		response.Error(c, domainerrors.Unauthorized("User not authenticated"))
		return
	}

	wallet, err := h.ledger.GetWallet(c.Request.Context(), actor.Owner)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"wallet": wallet})
}

// ListTransactions pages through the caller's wallet history
// GET /api/v1/wallet/transactions?page=1&limit=20
func (h *WalletHandler) ListTransactions(c *gin.Context) {
	actor, ok := middleware.GetActor(c)
	if !ok {
		response.Error(c, domainerrors.Unauthorized("User not authenticated"))
		return
	}

	var params utils.PaginationParams
	if err := c.ShouldBindQuery(&params); err != nil {
		response.Error(c, domainerrors.BadRequest("Invalid pagination parameters"))
		return
	}

	txns, meta, err := h.ledger.ListTransactions(c.Request.Context(), actor.Owner, params.Page, params.Limit)
	if err != nil {
		response.Error(c, err)
		return
	}
	if txns == nil {
		txns = []*entities.WalletTransaction{}
	}
	response.Success(c, http.StatusOK, gin.H{"items": txns, "meta": meta})
}

// VerifyWallet recomputes a wallet balance from its transaction log
// GET /api/v1/admin/wallets/:id/verify
func (h *WalletHandler) VerifyWallet(c *gin.Context) {
	walletID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Error(c, domainerrors.BadRequest("Invalid wallet ID"))
		return
	}

	check, err := h.ledger.VerifyBalance(c.Request.Context(), walletID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"check": check})
}
