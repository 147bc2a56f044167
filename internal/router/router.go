package router

import (
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"pocket-ledger/internal/config"
	"pocket-ledger/internal/handler"
	"pocket-ledger/internal/middleware"
	"pocket-ledger/internal/recurring"
	"pocket-ledger/internal/service"
)

// SetupRouter wires every API route onto a new gin engine.
func SetupRouter(cfg *config.Config, log zerolog.Logger, svc *service.Services, processor *recurring.Processor) *gin.Engine {
	if cfg.Server.Mode != "" {
		gin.SetMode(cfg.Server.Mode)
	}
	r := gin.New()
	r.Use(middleware.RequestLogger(log), middleware.Recovery())

	r.GET("/healthz", handler.Healthz)

	api := r.Group("/api")

	authHandler := handler.NewAuthHandler(svc.Auth)
	api.POST("/auth/register", authHandler.Register)
	api.POST("/auth/login", authHandler.Login)

	// 需要登录才能访问的接口
	protected := api.Group("")
	protected.Use(
		middleware.AuthMiddleware(svc.Auth),
		middleware.AuditMiddleware(svc.Audit),
	)

	protected.POST("/auth/logout", authHandler.Logout)
	protected.GET("/me", handler.GetMe(svc.Auth))
	protected.POST("/profile", handler.UpdateProfile(svc.Auth))
	protected.POST("/profile/password", handler.ChangePassword(svc.Auth))

	accountHandler := handler.NewAccountHandler(svc.Accounts)
	protected.POST("/accounts", accountHandler.Create)
	protected.GET("/accounts", accountHandler.List)
	protected.GET("/accounts/:id", accountHandler.Get)
	protected.PUT("/accounts/:id", accountHandler.Update)
	protected.DELETE("/accounts/:id", accountHandler.Delete)

	categoryHandler := handler.NewCategoryHandler(svc.Categories)
	protected.POST("/categories", categoryHandler.Create)
	protected.GET("/categories", categoryHandler.List)
	protected.GET("/categories/:id", categoryHandler.Get)
	protected.PUT("/categories/:id", categoryHandler.Update)
	protected.DELETE("/categories/:id", categoryHandler.Delete)

	transactionHandler := handler.NewTransactionHandler(svc.Transactions)
	protected.POST("/transactions", transactionHandler.Create)
	protected.GET("/transactions", transactionHandler.List)
	protected.GET("/transactions/:id", transactionHandler.Get)
	protected.PUT("/transactions/:id", transactionHandler.Update)
	protected.DELETE("/transactions/:id", transactionHandler.Delete)

	recurringHandler := handler.NewRecurringHandler(svc.Rules, processor)
	protected.POST("/recurring-transactions", recurringHandler.Create)
	protected.GET("/recurring-transactions", recurringHandler.List)
	protected.POST("/recurring-transactions/process", recurringHandler.Process)
	protected.GET("/recurring-transactions/:id", recurringHandler.Get)
	protected.PUT("/recurring-transactions/:id", recurringHandler.Update)
	protected.PATCH("/recurring-transactions/:id/toggle", recurringHandler.Toggle)
	protected.DELETE("/recurring-transactions/:id", recurringHandler.Delete)

	budgetHandler := handler.NewBudgetHandler(svc.Budgets)
	protected.POST("/budgets", budgetHandler.Create)
	protected.GET("/budgets", budgetHandler.List)
	protected.GET("/budgets/status", budgetHandler.Status)
	protected.GET("/budgets/:id", budgetHandler.Get)
	protected.PUT("/budgets/:id", budgetHandler.Update)
	protected.DELETE("/budgets/:id", budgetHandler.Delete)

	assetHandler := handler.NewAssetHandler(svc.Assets)
	protected.POST("/assets", assetHandler.Create)
	protected.GET("/assets", assetHandler.List)
	protected.GET("/assets/:id", assetHandler.Get)
	protected.PUT("/assets/:id", assetHandler.Update)
	protected.DELETE("/assets/:id", assetHandler.Delete)

	notificationHandler := handler.NewNotificationHandler(svc.Notifications)
	protected.GET("/notifications", notificationHandler.List)
	protected.POST("/notifications/read-all", notificationHandler.MarkAllRead)
	protected.PATCH("/notifications/:id/read", notificationHandler.MarkRead)
	protected.DELETE("/notifications/:id", notificationHandler.Delete)

	dashboardHandler := handler.NewDashboardHandler(svc.Dashboard)
	protected.GET("/dashboard/summary", dashboardHandler.Summary)
	protected.GET("/dashboard/categories", dashboardHandler.Categories)
	protected.GET("/dashboard/trend", dashboardHandler.Trend)

	logHandler := handler.NewLogHandler(svc.Audit)
	protected.GET("/logs", logHandler.ListLogs)

	backupHandler := handler.NewBackupHandler(svc.Backups)
	protected.POST("/backups", backupHandler.CreateBackup)
	protected.GET("/backups", backupHandler.ListBackups)
	protected.GET("/backups/:id/download", backupHandler.DownloadBackup)
	protected.POST("/backups/:id/restore", backupHandler.RestoreBackup)
	protected.DELETE("/backups/:id", backupHandler.DeleteBackup)

	exportHandler := handler.NewExportHandler(svc.Export)
	protected.GET("/export/csv", exportHandler.ExportCSV)
	protected.GET("/export/xlsx", exportHandler.ExportXLSX)

	return r
}
