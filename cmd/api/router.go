package main

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"shopsphere-backend/internal/shared/middleware"
	"shopsphere-backend/pkg/container"
)

func SetupRouter(c *container.Container) *gin.Engine {
	router := gin.New()

	router.Use(
		middleware.Recovery(),
		middleware.RequestID(),
		middleware.Logger(),
		middleware.CORS(),
	)

	v1 := router.Group("/api/v1")
	{
		v1.GET("/health", healthCheckHandler(c))

		setupProductRoutes(v1, c)
		setupInventoryRoutes(v1, c)
		setupOrderRoutes(v1, c)
		setupPaymentRoutes(v1, c)
		setupLoyaltyRoutes(v1, c)
		setupAdminRoutes(v1, c)
	}

	return router
}

func setupProductRoutes(v1 *gin.RouterGroup, c *container.Container) {
	products := v1.Group("/products")
	{
		products.GET("", c.ProductHandler.ListProducts)
		products.GET("/:id", c.ProductHandler.GetProduct)
	}
}

func setupInventoryRoutes(v1 *gin.RouterGroup, c *container.Container) {
	inventory := v1.Group("/inventory")
	{
		inventory.GET("/availability", c.InventoryHandler.CheckAvailability)
		inventory.GET("/product/:productId", c.InventoryHandler.ListByProduct)
		inventory.GET("/store/:store", c.InventoryHandler.ListByStore)
	}
}

func setupOrderRoutes(v1 *gin.RouterGroup, c *container.Container) {
	orders := v1.Group("/orders")
	orders.Use(middleware.AuthMiddleware(c.JWTManager))
	{
		orders.POST("", c.OrderHandler.CreateOrder)
		orders.GET("", c.OrderHandler.ListMyOrders)
		orders.GET("/recent", c.OrderHandler.ListRecent)
		orders.GET("/status/:status", c.OrderHandler.ListByStatus)
		orders.GET("/:id", c.OrderHandler.GetOrder)
		orders.PATCH("/:id/cancel", c.OrderHandler.CancelOrder)
	}
}

func setupPaymentRoutes(v1 *gin.RouterGroup, c *container.Container) {
	payments := v1.Group("/payments")
	payments.Use(middleware.AuthMiddleware(c.JWTManager))
	{
		payments.POST("", c.PaymentHandler.InitiatePayment)
		payments.GET("", c.PaymentHandler.ListMyPayments)
		payments.GET("/order/:orderId", c.PaymentHandler.ListByOrder)
		payments.GET("/:id", c.PaymentHandler.GetPayment)
		payments.POST("/:id/process", c.PaymentHandler.ProcessPayment)
	}
}

func setupLoyaltyRoutes(v1 *gin.RouterGroup, c *container.Container) {
	loyalty := v1.Group("/loyalty")
	loyalty.Use(middleware.AuthMiddleware(c.JWTManager))
	{
		loyalty.GET("/me", c.LoyaltyHandler.GetMyAccount)
		loyalty.POST("/redeem", c.LoyaltyHandler.RedeemReward)
		loyalty.GET("/coupons/active", c.LoyaltyHandler.GetActiveCoupon)
		loyalty.POST("/coupons/validate", c.LoyaltyHandler.ValidateCoupon)
	}
}

func setupAdminRoutes(v1 *gin.RouterGroup, c *container.Container) {
	admin := v1.Group("/admin")
	admin.Use(
		middleware.AuthMiddleware(c.JWTManager),
		middleware.AdminMiddleware(),
	)
	{
		admin.PUT("/inventory", c.InventoryHandler.UpsertInventory)
		admin.POST("/inventory/restock", c.InventoryHandler.Restock)
		admin.GET("/inventory/low-stock", c.InventoryHandler.ListLowStock)

		admin.GET("/orders", c.OrderHandler.ListAllOrders)
		admin.PATCH("/orders/:id/status", c.OrderHandler.UpdateStatus)

		admin.GET("/payments", c.PaymentHandler.ListAllPayments)
		admin.POST("/payments/:id/settle-cod", c.PaymentHandler.SettleCashOnDelivery)

		admin.GET("/loyalty/accounts", c.LoyaltyHandler.ListAccounts)
		admin.GET("/loyalty/stats", c.LoyaltyHandler.GetProgramStats)
	}
}

func healthCheckHandler(appCtx *container.Container) gin.HandlerFunc {
	return func(c *gin.Context) {
		health := gin.H{
			"status":    "ok",
			"timestamp": time.Now().Format(time.RFC3339),
			"version":   appCtx.Config.App.Version,
			"services":  gin.H{},
		}

		dbStatus := "ok"
		if appCtx.DB == nil || appCtx.DB.Pool == nil {
			dbStatus = "disconnected"
			health["status"] = "degraded"
		} else {
			ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
			defer cancel()

			if err := appCtx.DB.HealthCheck(ctx); err != nil {
				dbStatus = fmt.Sprintf("error: %v", err)
				health["status"] = "degraded"
			}
		}

		// A redis outage degrades caching and background work but the
		// API stays up.
		redisStatus := "ok"
		if appCtx.Cache == nil {
			redisStatus = "disconnected"
		} else {
			ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
			defer cancel()

			if err := appCtx.Cache.Ping(ctx); err != nil {
				redisStatus = fmt.Sprintf("error: %v", err)
			}
		}

		health["services"] = gin.H{
			"database": dbStatus,
			"redis":    redisStatus,
		}

		statusCode := http.StatusOK
		if dbStatus != "ok" {
			statusCode = http.StatusServiceUnavailable
		}

		c.JSON(statusCode, health)
	}
}
