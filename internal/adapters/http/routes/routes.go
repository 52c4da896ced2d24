package routes

import (
	"time"

	"campus-visitpass/internal/adapters/http/handlers"
	"campus-visitpass/internal/adapters/http/middleware"
	"campus-visitpass/internal/adapters/mailer"
	"campus-visitpass/internal/adapters/persistence/repositories"
	"campus-visitpass/internal/config"
	"campus-visitpass/internal/core/domain"
	"campus-visitpass/internal/core/services"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/swagger"
	"gorm.io/gorm"
)

// Setup configures all routes for the application. It returns the digest
// service so main can stop it on shutdown.
func Setup(app *fiber.App, db *gorm.DB, cfg *config.Config) *services.DigestService {
	// Repositories
	userRepo := repositories.NewUserRepository(db)
	requestRepo := repositories.NewVisitorRequestRepository(db)
	eventRepo := repositories.NewEntryEventRepository(db)

	// Services
	notifyService := services.NewNotificationService(mailer.New(cfg))
	authService := services.NewAuthService(userRepo, cfg)
	requestService := services.NewRequestService(requestRepo, userRepo, notifyService)
	verifyService := services.NewVerifyService(requestRepo, eventRepo, cfg.Visit)
	userService := services.NewUserService(userRepo)
	reportService := services.NewReportService(db)
	digestService := services.NewDigestService(reportService, notifyService, userRepo, cfg.Mail.AdminDigestCron)

	// Handlers
	healthHandler := handlers.NewHealthHandler(db)
	authHandler := handlers.NewAuthHandler(authService, cfg)
	requestHandler := handlers.NewRequestHandler(requestService)
	verifyHandler := handlers.NewVerifyHandler(verifyService)
	userHandler := handlers.NewUserHandler(userService)
	reportHandler := handlers.NewReportHandler(reportService)

	// Health check & root routes
	app.Get("/", healthHandler.Root)
	app.Get("/health", healthHandler.HealthCheck)

	// Swagger documentation
	app.Get("/swagger/*", swagger.HandlerDefault)

	// API v1 group
	api := app.Group("/api/v1")

	// Auth routes
	auth := api.Group("/auth", middleware.NoCacheHeaders())
	auth.Post("/login", middleware.AuthRateLimiter(), authHandler.Login)
	auth.Post("/logout", authHandler.Logout)
	auth.Get("/me", middleware.AuthMiddleware(cfg), authHandler.Me)
	auth.Put("/password", middleware.AuthMiddleware(cfg), authHandler.ChangePassword)

	// Student request routes
	requests := api.Group("/requests", middleware.AuthMiddleware(cfg), middleware.NoCacheHeaders())
	requests.Post("/", middleware.RequirePermission(domain.PermSubmitRequest), requestHandler.Submit)
	requests.Get("/", middleware.RequirePermission(domain.PermViewOwnRequests), requestHandler.ListMine)
	requests.Get("/:id", requestHandler.Get)

	// Gate verification routes. The scan endpoint is public: the pass
	// payload is the credential.
	api.Get("/verify-qr", middleware.ScanRateLimiter(), verifyHandler.Verify)
	qrAction := api.Group("/qr-action", middleware.AuthMiddleware(cfg), middleware.RequirePermission(domain.PermVerifyEntry))
	qrAction.Post("/", verifyHandler.RecordEvent)
	qrAction.Get("/:id", verifyHandler.ListEvents)

	// Admin routes
	admin := api.Group("/admin", middleware.AuthMiddleware(cfg), middleware.NoCacheHeaders())

	adminRequests := admin.Group("/requests", middleware.RequirePermission(domain.PermReviewRequests))
	adminRequests.Get("/", requestHandler.List)
	adminRequests.Patch("/:id", requestHandler.Review)

	adminUsers := admin.Group("/users", middleware.RequirePermission(domain.PermManageUsers))
	adminUsers.Get("/", userHandler.List)
	adminUsers.Post("/", userHandler.Create)
	adminUsers.Get("/:id", userHandler.Get)
	adminUsers.Put("/:id", userHandler.Update)
	adminUsers.Delete("/:id", userHandler.Delete)

	adminReports := admin.Group("", middleware.RequirePermission(domain.PermViewReports), middleware.PrivateCacheHeaders(30*time.Second))
	adminReports.Get("/dashboard", reportHandler.Dashboard)
	adminReports.Get("/reports", reportHandler.Overview)

	return digestService
}
