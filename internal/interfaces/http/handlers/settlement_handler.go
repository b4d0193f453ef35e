package handlers

import (
	"context"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"payledger.backend/internal/domain/entities"
	"payledger.backend/internal/usecases"
	"payledger.backend/pkg/logger"
)

// SettlementSignatureHeader carries the provider's credential signature
const SettlementSignatureHeader = "X-Auth-Signature"

const maxSettlementBody = 1 << 20

type settlementService interface {
	HandleSettlement(ctx context.Context, signature string, body []byte) entities.SettlementOutcome
}

// SettlementHandler receives bank-transfer settlement notifications
type SettlementHandler struct {
	settlements settlementService
}

// NewSettlementHandler creates a new settlement handler
func NewSettlementHandler(settlements *usecases.SettlementUsecase) *SettlementHandler {
	return &SettlementHandler{settlements: settlements}
}

type settlementAck struct {
	RequestSuccessful bool   `json:"requestSuccessful"`
	SessionID         string `json:"sessionId"`
	ResponseMessage   string `json:"responseMessage"`
	ResponseCode      string `json:"responseCode"`
}

// Receive always answers 200; the provider reads the outcome from responseCode
// POST /api/v1/webhooks/settlements/providus
func (h *SettlementHandler) Receive(c *gin.Context) {
	body, err := io.ReadAll(io.LimitReader(c.Request.Body, maxSettlementBody))
	if err != nil {
		logger.Warn(c.Request.Context(), "Settlement body unreadable", zap.Error(err))
		body = nil
	}

	outcome := h.settlements.HandleSettlement(c.Request.Context(), c.GetHeader(SettlementSignatureHeader), body)
	c.JSON(http.StatusOK, settlementAck{
		RequestSuccessful: true,
		SessionID:         outcome.SessionID,
		ResponseMessage:   outcome.Message,
		ResponseCode:      outcome.Code,
	})
}
