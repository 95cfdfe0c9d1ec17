package routes

import (
	"fmt"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"gorm.io/gorm"

	"github.com/DivaAnanda/accenprove-sub001/internal/api/handlers"
	"github.com/DivaAnanda/accenprove-sub001/internal/api/middleware"
	"github.com/DivaAnanda/accenprove-sub001/internal/config"
	"github.com/DivaAnanda/accenprove-sub001/internal/metrics"
	"github.com/DivaAnanda/accenprove-sub001/internal/models"
	"github.com/DivaAnanda/accenprove-sub001/internal/services"
)

// Register wires up API routes and performs automatic migrations.
func Register(router *gin.Engine, db *gorm.DB, cfg config.Config) error {
	if err := db.AutoMigrate(
		&models.User{},
		&models.AuditLog{},
		&models.BeritaAcara{},
		&models.Setting{},
		&models.Notification{},
		&models.NotificationProvider{},
	); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}

	registry := prometheus.NewRegistry()
	metrics.Register(registry)
	router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(registry, promhttp.HandlerOpts{})))

	router.GET("/api/v1/health", handlers.HealthHandler)

	api := router.Group("/api/v1")

	tokenService := services.NewTokenService(cfg.JWTSecret)
	auditService := services.NewAuditService(db)
	mailService := services.NewMailService(db)
	notificationService := services.NewNotificationService(db)

	authService := services.NewAuthService(db, tokenService, auditService, mailService)
	userService := services.NewUserService(db, auditService)
	baService := services.NewBeritaAcaraService(db, auditService, notificationService)

	authHandler := handlers.NewAuthHandler(authService, cfg.IsProduction())
	userHandler := handlers.NewUserHandler(userService)
	auditHandler := handlers.NewAuditLogHandler(auditService)
	baHandler := handlers.NewBeritaAcaraHandler(baService)
	settingHandler := handlers.NewSettingHandler(mailService)
	notificationHandler := handlers.NewNotificationHandler(notificationService)

	// Public auth routes
	api.POST("/auth/login", authHandler.Login)
	api.POST("/auth/forgot-password", authHandler.ForgotPassword)
	api.POST("/auth/reset-password", authHandler.ResetPassword)

	requireAuth := middleware.RequireAuth(tokenService)
	anyRole := middleware.RequireRole(db, models.RoleAdmin, models.RoleDireksi, models.RoleDK, models.RoleVendor)
	adminOnly := middleware.RequireRole(db, models.RoleAdmin)
	vendorOnly := middleware.RequireRole(db, models.RoleVendor)
	reviewerOnly := middleware.RequireRole(db, models.RoleDireksi)

	protected := api.Group("/")
	protected.Use(requireAuth)
	{
		protected.POST("/auth/logout", anyRole, authHandler.Logout)
		protected.GET("/auth/me", authHandler.Me)
		protected.POST("/auth/change-password", authHandler.ChangePassword)

		// Berita acara workflow
		protected.GET("/berita-acara", anyRole, baHandler.List)
		protected.GET("/berita-acara/stats", anyRole, baHandler.Stats)
		protected.GET("/berita-acara/:id", anyRole, baHandler.Get)
		protected.POST("/berita-acara", vendorOnly, baHandler.Submit)
		protected.PUT("/berita-acara/:id/resubmit", vendorOnly, baHandler.Resubmit)
		protected.POST("/berita-acara/:id/approve", reviewerOnly, baHandler.Approve)
		protected.POST("/berita-acara/:id/reject", reviewerOnly, baHandler.Reject)

		// Notifications
		protected.GET("/notifications", notificationHandler.List)
		protected.POST("/notifications/:id/read", notificationHandler.MarkAsRead)
		protected.POST("/notifications/read-all", notificationHandler.MarkAllAsRead)

		// Admin: user management, audit trail, SMTP settings
		admin := protected.Group("/")
		admin.Use(adminOnly)
		{
			admin.GET("/users", userHandler.List)
			admin.POST("/users", userHandler.Create)
			admin.PUT("/users/:id", userHandler.Update)
			admin.PATCH("/users/:id/active", userHandler.SetActive)

			admin.GET("/audit-logs", auditHandler.List)

			admin.GET("/settings/smtp", settingHandler.GetSMTP)
			admin.POST("/settings/smtp", settingHandler.SaveSMTP)
		}
	}

	return nil
}
