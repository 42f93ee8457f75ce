package handler

import (
	"github.com/labstack/echo/v4"
	"github.com/mintleaf/mintleaf-backend/internal/middleware"
)

// RegisterRoutes sets up all API routes
func RegisterRoutes(e *echo.Echo, rateLimiter *middleware.RateLimiter, accountHandler *AccountHandler, transactionHandler *TransactionHandler, categoryHandler *CategoryHandler, budgetHandler *BudgetHandler, goalHandler *GoalHandler, insightHandler *InsightHandler) {
	api := e.Group("/api")
	api.Use(middleware.UserContext())
	api.Use(middleware.RateLimitMiddleware(rateLimiter))

	// Account routes
	accounts := api.Group("/accounts")
	accounts.POST("", accountHandler.CreateAccount)
	accounts.GET("", accountHandler.GetAccounts)
	accounts.DELETE("/:id", accountHandler.DeleteAccount)

	// Transaction routes, including the free-text entry pipeline
	transactions := api.Group("/transactions")
	transactions.POST("/parse", transactionHandler.ParseTransaction)
	transactions.POST("/categorize", transactionHandler.CategorizeTransaction)
	transactions.POST("/from-text", transactionHandler.CreateFromText)
	transactions.POST("", transactionHandler.CreateTransaction)
	transactions.GET("", transactionHandler.GetTransactions)
	transactions.GET("/:id", transactionHandler.GetTransaction)
	transactions.DELETE("/:id", transactionHandler.DeleteTransaction)

	// Category and categorization rule routes
	categories := api.Group("/categories")
	categories.POST("/rules", categoryHandler.CreateRule)
	categories.GET("/rules", categoryHandler.GetRules)
	categories.DELETE("/rules/:id", categoryHandler.DeleteRule)
	categories.POST("", categoryHandler.CreateCategory)
	categories.GET("", categoryHandler.GetCategories)
	categories.DELETE("/:id", categoryHandler.DeleteCategory)

	// Budget routes
	budgets := api.Group("/budgets")
	budgets.POST("", budgetHandler.CreateBudget)
	budgets.GET("", budgetHandler.GetBudgets)
	budgets.GET("/:id/progress", budgetHandler.GetBudgetProgress)
	budgets.DELETE("/:id", budgetHandler.DeleteBudget)

	// Goal routes
	goals := api.Group("/goals")
	goals.POST("", goalHandler.CreateGoal)
	goals.GET("", goalHandler.GetGoals)
	goals.POST("/:id/contributions", goalHandler.Contribute)
	goals.GET("/:id/progress", goalHandler.GetGoalProgress)
	goals.DELETE("/:id", goalHandler.DeleteGoal)

	// Insight routes
	api.GET("/insights", insightHandler.GetInsights)
}
