package handler

import (
	"github.com/centsible/centsible-backend/internal/middleware"
	"github.com/labstack/echo/v4"
)

// RegisterRoutes sets up all API routes
func RegisterRoutes(e *echo.Echo, authMiddleware *middleware.AuthMiddleware, rateLimiter *middleware.RateLimiter, authHandler *AuthHandler, profileHandler *ProfileHandler, transactionHandler *TransactionHandler, receiptHandler *ReceiptHandler, budgetHandler *BudgetHandler, reportHandler *ReportHandler, wsHandler *WebSocketHandler) {
	// API version 1
	api := e.Group("/api/v1")

	// User routes; register and login are public, the rest require a token
	users := api.Group("/users")
	users.POST("/register", authHandler.Register)
	users.POST("/login", authHandler.Login)

	profile := api.Group("/users", authMiddleware.Authenticate(), middleware.RateLimitMiddleware(rateLimiter))
	profile.GET("/profile", profileHandler.GetProfile)
	profile.PUT("/profile", profileHandler.UpdateProfile)
	profile.DELETE("/account", profileHandler.DeleteAccount)

	// Transaction routes (protected)
	transactions := api.Group("/transactions", authMiddleware.Authenticate(), middleware.RateLimitMiddleware(rateLimiter))
	transactions.POST("", transactionHandler.CreateTransaction)
	transactions.GET("", transactionHandler.GetTransactions)
	transactions.GET("/:id", transactionHandler.GetTransaction)
	transactions.PUT("/:id", transactionHandler.UpdateTransaction)
	transactions.DELETE("/:id", transactionHandler.DeleteTransaction)

	// Receipt routes (protected)
	if receiptHandler != nil {
		transactions.POST("/:id/receipt", receiptHandler.UploadReceipt)
		transactions.GET("/:id/receipt", receiptHandler.GetReceipt)
		transactions.DELETE("/:id/receipt", receiptHandler.DeleteReceipt)
	}

	// Budget routes (protected)
	budgets := api.Group("/budgets", authMiddleware.Authenticate(), middleware.RateLimitMiddleware(rateLimiter))
	budgets.POST("", budgetHandler.CreateBudget)
	budgets.GET("", budgetHandler.GetBudgets)

	// Report routes (protected)
	reports := api.Group("/reports", authMiddleware.Authenticate(), middleware.RateLimitMiddleware(rateLimiter))
	reports.GET("/monthly", reportHandler.GetMonthlyReport)

	// WebSocket endpoint authenticates via query token
	e.GET("/ws", wsHandler.HandleWS)
}
