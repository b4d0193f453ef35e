package main

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"payledger.backend/internal/domain/entities"
	"payledger.backend/internal/interfaces/http/handlers"
	"payledger.backend/internal/interfaces/http/middleware"
)

const (
	serviceName    = "payledger-backend"
	serviceVersion = "0.1.0"
)

type routeDeps struct {
	settlementHandler     *handlers.SettlementHandler
	walletHandler         *handlers.WalletHandler
	virtualAccountHandler *handlers.VirtualAccountHandler
	payoutHandler         *handlers.PayoutHandler
	authMiddleware        gin.HandlerFunc
	idempotency           gin.HandlerFunc
}

func applyCORSMiddleware(r *gin.Engine) {
	r.Use(func(c *gin.Context) {
		if origin := c.GetHeader("Origin"); origin != "" {
			c.Header("Access-Control-Allow-Origin", origin)
			c.Header("Access-Control-Allow-Credentials", "true")
			c.Header("Vary", "Origin")
		}
		c.Header("Access-Control-Allow-Methods", "GET, POST, PUT, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Authorization, Content-Type, Idempotency-Key, X-Request-ID")

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	})
}

func registerHealthRoute(r *gin.Engine) {
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "ok",
			"service": serviceName,
			"version": serviceVersion,
		})
	})
}

func registerMetricsRoute(r *gin.Engine) {
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
}

func registerAPIV1Routes(r *gin.Engine, d routeDeps) {
	v1 := r.Group("/api/v1")
	{
		// Provider webhooks (authenticated by signature)
		webhooks := v1.Group("/webhooks")
		{
			webhooks.POST("/settlements/providus", d.settlementHandler.Receive)
		}

		owner := v1.Group("")
		owner.Use(d.authMiddleware)
		{
			owner.GET("/wallet", d.walletHandler.GetWallet)
			owner.GET("/wallet/transactions", d.walletHandler.ListTransactions)

			owner.GET("/virtual-account", d.virtualAccountHandler.GetVirtualAccount)

			owner.GET("/payout-account", d.payoutHandler.GetPayoutAccount)
			owner.PUT("/payout-account", d.payoutHandler.RegisterPayoutAccount)
			owner.POST("/payout-account/verify", d.payoutHandler.VerifyPayoutAccount)

			owner.POST("/payouts", d.idempotency, d.payoutHandler.RequestPayout)
			owner.GET("/payouts", d.payoutHandler.ListMyPayouts)
			owner.GET("/payouts/:id", d.payoutHandler.GetPayout)
		}

		admin := v1.Group("/admin")
		admin.Use(d.authMiddleware)
		{
			admin.GET("/wallets/:id/verify", middleware.RequireCapability(entities.CapabilityAuditLedger), d.walletHandler.VerifyWallet)

			approvers := middleware.RequireCapability(entities.CapabilityApprovePayouts)
			admin.GET("/payouts", approvers, d.payoutHandler.AdminListPayouts)
			admin.POST("/payouts/:id/approve", approvers, d.payoutHandler.Approve)
			admin.POST("/payouts/:id/reject", approvers, d.payoutHandler.Reject)
			admin.POST("/payouts/:id/pay", middleware.RequireCapability(entities.CapabilityPayPayouts), d.idempotency, d.payoutHandler.Pay)
		}
	}
}
