package rest

import (
	"github.com/gin-gonic/gin"

	"github.com/peridotvault/peridot-core/internal/api/middleware"
)

// SetupRoutes configures all REST API routes
func SetupRoutes(router *gin.Engine, handler Handler, authCfg middleware.AuthConfig) {
	// Health check endpoint (no auth, no version prefix)
	router.GET("/health", handler.HealthCheck)

	auth := middleware.Auth(authCfg)

	v1 := router.Group("/api/v1")
	{
		v1.GET("/status", handler.GetStatus)
		v1.GET("/accounts/:address", handler.GetAccount)
		v1.GET("/transactions/:tx_hash", handler.GetTransaction)

		// Factory endpoints (writes require a bearer token naming the caller)
		v1.GET("/factory", handler.GetFactory)
		v1.GET("/factory/publishers/:address", handler.GetPublisherStatus)
		v1.PATCH("/factory", auth, handler.UpdateFactory)

		// Registry endpoints read the live registry
		v1.GET("/registry/games", handler.ListRegistryGames)
		v1.GET("/registry/games/:game_id", handler.GetRegistryGame)
		v1.POST("/registry/games/:game_id/active", auth, handler.SetGameActive)

		// Game endpoints read the projection
		v1.GET("/games", handler.ListGames)
		v1.POST("/games", auth, handler.PublishGame)
		v1.GET("/games/:game_id", handler.GetGame)
		v1.GET("/games/:game_id/metadata", handler.ListMetadataVersions)
		v1.GET("/purchases", handler.ListPurchases)

		// Sale endpoints
		v1.GET("/sales/:address", handler.GetSale)
		v1.PATCH("/sales/:address", auth, handler.UpdateSale)
		v1.GET("/sales/:address/balances/:account", handler.GetLicenseBalance)
		v1.POST("/sales/:address/buy", auth, handler.Buy)
		v1.POST("/sales/:address/metadata", auth, handler.PublishMetadata)
		v1.POST("/sales/:address/transfers", auth, handler.TransferLicense)
		v1.POST("/sales/:address/approvals", auth, handler.SetLicenseApproval)

		// Payment token endpoints
		v1.GET("/tokens/:address", handler.GetToken)
		v1.POST("/tokens/:address/approve", auth, handler.ApproveToken)

		v1.POST("/metadata/hash", handler.HashMetadata)

		// Webhook endpoints (requires API key authentication only)
		v1.POST("/webhooks/clients", middleware.APIKeyAuth(authCfg), handler.CreateWebhookClient)
	}
}
