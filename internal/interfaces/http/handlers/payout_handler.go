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

type payoutService interface {
	RegisterPayoutAccount(ctx context.Context, owner entities.Owner, in usecases.RegisterPayoutAccountInput) (*entities.PayoutAccount, error)
	GetPayoutAccount(ctx context.Context, owner entities.Owner) (*entities.PayoutAccount, error)
	VerifyPayoutAccount(ctx context.Context, owner entities.Owner) (*entities.PayoutAccount, error)
	RequestPayout(ctx context.Context, owner entities.Owner, in usecases.RequestPayoutInput) (*entities.PayoutRequest, error)
	GetPayoutRequest(ctx context.Context, id uuid.UUID) (*entities.PayoutRequest, error)
	ListPayoutRequests(ctx context.Context, filter entities.PayoutFilter) ([]*entities.PayoutRequest, utils.PaginationMeta, error)
	Approve(ctx context.Context, actor entities.Actor, id uuid.UUID) (*entities.PayoutRequest, error)
	Reject(ctx context.Context, actor entities.Actor, id uuid.UUID, reason string) (*entities.PayoutRequest, error)
	Pay(ctx context.Context, actor entities.Actor, id uuid.UUID) (*entities.PayoutRequest, error)
}

// PayoutHandler handles owner withdrawals and the admin payout queue
type PayoutHandler struct {
	payouts payoutService
}

// NewPayoutHandler creates a new payout handler
func NewPayoutHandler(payouts *usecases.PayoutUsecase) *PayoutHandler {
	return &PayoutHandler{payouts: payouts}
}

// RejectPayoutInput is the admin's reason for refusing a request
type RejectPayoutInput struct {
	Reason string `json:"reason" binding:"required"`
}

type payoutListQuery struct {
	Status    string `form:"status"`
	OwnerType string `form:"owner_type"`
	OwnerID   string `form:"owner_id"`
	Page      int    `form:"page"`
	Limit     int    `form:"limit"`
}

// GetPayoutAccount returns the caller's registered bank account
// GET /api/v1/payout-account
func (h *PayoutHandler) GetPayoutAccount(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}

	account, err := h.payouts.GetPayoutAccount(c.Request.Context(), actor.Owner)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"payoutAccount": account})
}

// RegisterPayoutAccount stores or replaces the caller's bank account
// PUT /api/v1/payout-account
func (h *PayoutHandler) RegisterPayoutAccount(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}

	var input usecases.RegisterPayoutAccountInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, domainerrors.BadRequest(err.Error()))
		return
	}

	account, err := h.payouts.RegisterPayoutAccount(c.Request.Context(), actor.Owner, input)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"payoutAccount": account})
}

// VerifyPayoutAccount resolves the caller's account name with the bank
// POST /api/v1/payout-account/verify
func (h *PayoutHandler) VerifyPayoutAccount(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}

	account, err := h.payouts.VerifyPayoutAccount(c.Request.Context(), actor.Owner)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"payoutAccount": account})
}

// RequestPayout opens a withdrawal request awaiting approval
// POST /api/v1/payouts
func (h *PayoutHandler) RequestPayout(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}

	var input usecases.RequestPayoutInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, domainerrors.BadRequest(err.Error()))
		return
	}

	req, err := h.payouts.RequestPayout(c.Request.Context(), actor.Owner, input)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusCreated, gin.H{"payout": req})
}

// ListMyPayouts pages through the caller's own requests
// GET /api/v1/payouts?status=pending&page=1&limit=20
func (h *PayoutHandler) ListMyPayouts(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}

	var q payoutListQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		response.Error(c, domainerrors.BadRequest("Invalid query parameters"))
		return
	}
	owner := actor.Owner
	h.list(c, entities.PayoutFilter{Owner: &owner, Status: entities.PayoutStatus(q.Status), Page: q.Page, Limit: q.Limit})
}

// GetPayout returns one of the caller's requests
// GET /api/v1/payouts/:id
func (h *PayoutHandler) GetPayout(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}
	id, ok := parsePayoutID(c)
	if !ok {
		return
	}

	req, err := h.payouts.GetPayoutRequest(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	if req.Owner != actor.Owner {
		response.Error(c, domainerrors.NotFound("Payout request not found"))
		return
	}
	response.Success(c, http.StatusOK, gin.H{"payout": req})
}

// AdminListPayouts pages through all requests with optional status and owner filters
// GET /api/v1/admin/payouts?status=approved&owner_type=user&owner_id=...
func (h *PayoutHandler) AdminListPayouts(c *gin.Context) {
	var q payoutListQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		response.Error(c, domainerrors.BadRequest("Invalid query parameters"))
		return
	}

	filter := entities.PayoutFilter{Status: entities.PayoutStatus(q.Status), Page: q.Page, Limit: q.Limit}
	if q.OwnerID != "" {
		ownerID, err := uuid.Parse(q.OwnerID)
		if err != nil {
			response.Error(c, domainerrors.BadRequest("Invalid owner ID"))
			return
		}
		ownerType := entities.OwnerType(q.OwnerType)
		if ownerType == "" {
			ownerType = entities.OwnerTypeUser
		}
		if !ownerType.Valid() {
			response.Error(c, domainerrors.BadRequest("Invalid owner type"))
			return
		}
		filter.Owner = &entities.Owner{Type: ownerType, ID: ownerID}
	}
	h.list(c, filter)
}

// Approve moves a pending request to approved
// POST /api/v1/admin/payouts/:id/approve
func (h *PayoutHandler) Approve(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}
	id, ok := parsePayoutID(c)
	if !ok {
		return
	}

	req, err := h.payouts.Approve(c.Request.Context(), actor, id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"payout": req})
}

// Reject refuses a pending or approved request
// POST /api/v1/admin/payouts/:id/reject
func (h *PayoutHandler) Reject(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}
	id, ok := parsePayoutID(c)
	if !ok {
		return
	}

	var input RejectPayoutInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, domainerrors.BadRequest(err.Error()))
		return
	}

	req, err := h.payouts.Reject(c.Request.Context(), actor, id, input.Reason)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"payout": req})
}

// Pay sends the money for an approved request
// POST /api/v1/admin/payouts/:id/pay
func (h *PayoutHandler) Pay(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}
	id, ok := parsePayoutID(c)
	if !ok {
		return
	}

	req, err := h.payouts.Pay(c.Request.Context(), actor, id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"payout": req})
}

func (h *PayoutHandler) list(c *gin.Context, filter entities.PayoutFilter) {
	if filter.Status != "" && !filter.Status.Valid() {
		response.Error(c, domainerrors.BadRequest("Invalid payout status"))
		return
	}

	items, meta, err := h.payouts.ListPayoutRequests(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	if items == nil {
		items = []*entities.PayoutRequest{}
	}
	response.Success(c, http.StatusOK, gin.H{"items": items, "meta": meta})
}

func requireActor(c *gin.Context) (entities.Actor, bool) {
	actor, ok := middleware.GetActor(c)
	if !ok {
		response.Error(c, domainerrors.Unauthorized("User not authenticated"))
	}
	return actor, ok
}

func parsePayoutID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Error(c, domainerrors.BadRequest("Invalid payout ID"))
		return uuid.Nil, false
	}
	return id, true
}
