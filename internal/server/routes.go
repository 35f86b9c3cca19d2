package server

import (
	"github.com/labstack/echo/v4"

	"example.com/peso-tracker/internal/handlers"
)

func registerRoutes(
	e *echo.Echo,
	authHandler *handlers.AuthHandler,
	walletHandler *handlers.WalletHandler,
	transactionHandler *handlers.TransactionHandler,
	wantHandler *handlers.WantHandler,
	goalHandler *handlers.GoalHandler,
	installmentHandler *handlers.InstallmentHandler,
	budgetHandler *handlers.BudgetHandler,
	reportHandler *handlers.ReportHandler,
	snapshotHandler *handlers.SnapshotHandler,
	notificationHandler *handlers.NotificationHandler,
	adminHandler *handlers.AdminHandler,
	authMiddleware echo.MiddlewareFunc,
	adminMiddleware echo.MiddlewareFunc,
	authRateLimiter echo.MiddlewareFunc,
) {
	e.GET("/health", handlers.Health)

	api := e.Group("/api/v1")
	authGroup := api.Group("/auth", authRateLimiter)

	authGroup.POST("/register", authHandler.Register)
	authGroup.POST("/login", authHandler.Login)
	authGroup.POST("/refresh", authHandler.Refresh)
	authGroup.POST("/logout", authHandler.Logout)
	authGroup.GET("/me", authHandler.Me, authMiddleware)

	wallets := api.Group("/wallets", authMiddleware)
	wallets.GET("", walletHandler.List)
	wallets.POST("", walletHandler.Create)
	wallets.PUT("/:id", walletHandler.Update)
	wallets.DELETE("/:id", walletHandler.Delete)

	transactions := api.Group("/transactions", authMiddleware)
	transactions.GET("", transactionHandler.List)
	transactions.POST("", transactionHandler.Create)
	transactions.PUT("/:id", transactionHandler.Update)
	transactions.DELETE("/:id", transactionHandler.Delete)

	api.POST("/transfers", transactionHandler.Transfer, authMiddleware)

	wants := api.Group("/wants", authMiddleware)
	wants.GET("", wantHandler.List)
	wants.POST("", wantHandler.Create)
	wants.PUT("/:id", wantHandler.Update)
	wants.POST("/:id/buy", wantHandler.Buy)
	wants.DELETE("/:id", wantHandler.Delete)

	goals := api.Group("/goals", authMiddleware)
	goals.GET("", goalHandler.List)
	goals.POST("", goalHandler.Create)
	goals.PUT("/:id", goalHandler.Update)
	goals.POST("/:id/contribute", goalHandler.Contribute)
	goals.DELETE("/:id", goalHandler.Delete)

	installments := api.Group("/installments", authMiddleware)
	installments.GET("", installmentHandler.List)
	installments.POST("", installmentHandler.Create)
	installments.POST("/:id/pay", installmentHandler.Pay)
	installments.PATCH("/:id/start-date", installmentHandler.UpdateStartDate)
	installments.DELETE("/:id", installmentHandler.Delete)

	budgets := api.Group("/budgets", authMiddleware)
	budgets.GET("", budgetHandler.Get)
	budgets.PUT("/weekly", budgetHandler.SaveWeekly)
	budgets.PUT("/monthly", budgetHandler.SaveMonthly)

	reports := api.Group("/reports", authMiddleware)
	reports.GET("/overview", reportHandler.Overview)
	reports.GET("/range", reportHandler.Range)

	api.GET("/export", snapshotHandler.Export, authMiddleware)
	api.POST("/restore", snapshotHandler.Restore, authMiddleware)

	notifications := api.Group("/notifications", authMiddleware)
	notifications.GET("/stream", notificationHandler.Stream)

	admin := api.Group("/admin", authMiddleware, adminMiddleware)
	admin.GET("/users", adminHandler.ListUsers)
	admin.GET("/usage", adminHandler.Usage)
}
