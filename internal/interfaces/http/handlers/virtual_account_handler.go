package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"payledger.backend/internal/domain/entities"
	domainerrors "payledger.backend/internal/domain/errors"
	"payledger.backend/internal/interfaces/http/middleware"
	"payledger.backend/internal/interfaces/http/response"
	"payledger.backend/internal/usecases"
)

type virtualAccountService interface {
	GetOrProvision(ctx context.Context, owner entities.Owner, profile entities.CustomerProfile) (*entities.VirtualAccount, error)
}

// VirtualAccountHandler hands out the caller's dedicated funding account
type VirtualAccountHandler struct {
	accounts virtualAccountService
}

// NewVirtualAccountHandler creates a new virtual account handler
func NewVirtualAccountHandler(accounts *usecases.VirtualAccountUsecase) *VirtualAccountHandler {
	return &VirtualAccountHandler{accounts: accounts}
}

type customerProfileQuery struct {
	Phone        string `form:"phone"`
	FirstName    string `form:"first_name"`
	LastName     string `form:"last_name"`
	BusinessName string `form:"business_name"`
	BVN          string `form:"bvn"`
}

// GetVirtualAccount returns the caller's account, provisioning it on first use.
// The email comes from the token; the remaining profile from the query string.
// GET /api/v1/virtual-account?phone=...&first_name=...&last_name=...
func (h *VirtualAccountHandler) GetVirtualAccount(c *gin.Context) {
	actor, ok := middleware.GetActor(c)
	if !ok {
		response.Error(c, domainerrors.Unauthorized("User not authenticated"))
		return
	}

	var q customerProfileQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		response.Error(c, domainerrors.BadRequest(err.Error()))
		return
	}

	account, err := h.accounts.GetOrProvision(c.Request.Context(), actor.Owner, entities.CustomerProfile{
		Email:        middleware.GetEmail(c),
		FirstName:    q.FirstName,
		LastName:     q.LastName,
		Phone:        q.Phone,
		BusinessName: q.BusinessName,
		BVN:          q.BVN,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"virtualAccount": account})
}
