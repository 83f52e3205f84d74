package routes

import (
	"github.com/PositiveMinds/Together-As-One-SACCO/internal/adapters/http/handlers"
	"github.com/PositiveMinds/Together-As-One-SACCO/internal/adapters/http/middleware"
	"github.com/PositiveMinds/Together-As-One-SACCO/internal/adapters/persistence/repositories"
	"github.com/PositiveMinds/Together-As-One-SACCO/internal/config"
	"github.com/PositiveMinds/Together-As-One-SACCO/internal/core/services"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/swagger"
	"gorm.io/gorm"
)

// Setup configures all routes for the application.
// Returns the notifier so callers can register callbacks, and the
// overdue service so main can start and stop the daily scan.
func Setup(app *fiber.App, db *gorm.DB, cfg *config.Config) (*services.Notifier, *services.OverdueService) {
	// Initialize repositories
	userRepo := repositories.NewUserRepository(db)
	refreshTokenRepo := repositories.NewRefreshTokenRepository(db)
	memberRepo := repositories.NewMemberRepository(db)
	loanRepo := repositories.NewLoanRepository(db)
	loanTypeRepo := repositories.NewLoanTypeRepository(db)
	paymentRepo := repositories.NewPaymentRepository(db)
	savingRepo := repositories.NewSavingRepository(db)
	withdrawalRepo := repositories.NewWithdrawalRepository(db)
	auditRepo := repositories.NewAuditRepository(db)
	backupRepo := repositories.NewBackupRepository(db)

	// Initialize services
	notifier := services.NewNotifier()
	authService := services.NewAuthService(userRepo, refreshTokenRepo, cfg)
	solvencyService := services.NewSolvencyService(loanRepo, savingRepo, withdrawalRepo)
	memberService := services.NewMemberService(memberRepo, auditRepo)
	loanService := services.NewLoanService(
		loanRepo,
		loanTypeRepo,
		memberRepo,
		paymentRepo,
		auditRepo,
		solvencyService,
		notifier,
	)
	paymentService := services.NewPaymentService(paymentRepo, loanRepo, auditRepo, notifier)
	savingService := services.NewSavingService(savingRepo, withdrawalRepo, memberRepo, auditRepo, notifier)
	reportService := services.NewReportService(memberRepo, loanRepo, paymentRepo, savingRepo, withdrawalRepo, solvencyService)
	backupService := services.NewBackupService(backupRepo, auditRepo)
	overdueService := services.NewOverdueService(loanRepo, memberRepo, auditRepo)

	// Initialize handlers
	healthHandler := handlers.NewHealthHandler()
	authHandler := handlers.NewAuthHandler(authService, cfg)
	memberHandler := handlers.NewMemberHandler(memberService, savingService, loanService)
	loanHandler := handlers.NewLoanHandler(loanService)
	paymentHandler := handlers.NewPaymentHandler(paymentService)
	savingHandler := handlers.NewSavingHandler(savingService)
	reportHandler := handlers.NewReportHandler(reportService)
	auditHandler := handlers.NewAuditHandler(auditRepo)
	backupHandler := handlers.NewBackupHandler(backupService)

	// Health check
	app.Get("/health", healthHandler.Check)

	// Swagger documentation
	app.Get("/swagger/*", swagger.HandlerDefault)

	// API v1 group
	apiV1 := app.Group("/api/v1")

	// Auth routes (public, rate limited)
	authRoutes := apiV1.Group("/auth")
	authRoutes.Post("/login", middleware.AuthRateLimiter(), authHandler.Login)
	authRoutes.Post("/refresh", middleware.AuthRateLimiter(), authHandler.Refresh)
	authRoutes.Post("/logout", authHandler.Logout)
	authRoutes.Post("/logout-all", middleware.AuthMiddleware(cfg), authHandler.LogoutAll)
	authRoutes.Get("/me", middleware.AuthMiddleware(cfg), authHandler.Me)

	// Member routes
	memberRoutes := apiV1.Group("/members")
	memberRoutes.Use(middleware.AuthMiddleware(cfg))
	memberRoutes.Get("/", memberHandler.List)
	memberRoutes.Get("/search", memberHandler.Search)
	memberRoutes.Get("/:id", memberHandler.Get)
	memberRoutes.Post("/", middleware.TreasurerOrAdmin(), memberHandler.Create)
	memberRoutes.Put("/:id", middleware.TreasurerOrAdmin(), memberHandler.Update)
	memberRoutes.Delete("/:id", middleware.AdminOnly(), memberHandler.Delete)

	// Loan routes
	loanRoutes := apiV1.Group("/loans")
	loanRoutes.Use(middleware.AuthMiddleware(cfg))
	loanRoutes.Get("/", loanHandler.List)
	loanRoutes.Get("/:id", loanHandler.Get)
	loanRoutes.Post("/", middleware.TreasurerOrAdmin(), loanHandler.Create)
	loanRoutes.Post("/:id/topup", middleware.TreasurerOrAdmin(), loanHandler.TopUp)
	loanRoutes.Post("/:id/reschedule", middleware.TreasurerOrAdmin(), loanHandler.Reschedule)
	loanRoutes.Post("/:id/penalty", middleware.TreasurerOrAdmin(), loanHandler.Penalty)
	loanRoutes.Delete("/:id", middleware.AdminOnly(), loanHandler.Delete)

	// Payment routes live under loans plus a flat listing
	loanRoutes.Get("/:id/payments", paymentHandler.ListByLoan)
	loanRoutes.Post("/:id/payments", middleware.TreasurerOrAdmin(), paymentHandler.Create)
	apiV1.Get("/payments", middleware.AuthMiddleware(cfg), paymentHandler.List)

	// Saving and withdrawal routes
	savingRoutes := apiV1.Group("/savings")
	savingRoutes.Use(middleware.AuthMiddleware(cfg))
	savingRoutes.Get("/", savingHandler.ListSavings)
	savingRoutes.Post("/", middleware.TreasurerOrAdmin(), savingHandler.CreateSaving)

	withdrawalRoutes := apiV1.Group("/withdrawals")
	withdrawalRoutes.Use(middleware.AuthMiddleware(cfg))
	withdrawalRoutes.Get("/", savingHandler.ListWithdrawals)
	withdrawalRoutes.Post("/", middleware.TreasurerOrAdmin(), savingHandler.CreateWithdrawal)

	// Report routes
	reportRoutes := apiV1.Group("/reports")
	reportRoutes.Use(middleware.AuthMiddleware(cfg))
	reportRoutes.Get("/dashboard", reportHandler.Dashboard)
	reportRoutes.Get("/waterfall", reportHandler.Waterfall)
	reportRoutes.Get("/top-members", reportHandler.TopMembers)
	reportRoutes.Get("/ranking", reportHandler.Ranking)
	reportRoutes.Get("/comparison", reportHandler.Comparison)
	reportRoutes.Get("/repayment-metrics", reportHandler.RepaymentMetrics)
	reportRoutes.Get("/profit-distribution", reportHandler.ProfitDistribution)
	reportRoutes.Get("/profits-summary", reportHandler.ProfitsSummary)
	reportRoutes.Get("/savings-trend", reportHandler.SavingsTrend)

	// Audit routes
	apiV1.Get("/audit", middleware.AuthMiddleware(cfg), auditHandler.List)

	// Backup routes (admin only, import/clear heavily rate limited)
	backupRoutes := apiV1.Group("/backup")
	backupRoutes.Use(middleware.AuthMiddleware(cfg))
	backupRoutes.Use(middleware.AdminOnly())
	backupRoutes.Get("/export", backupHandler.Export)
	backupRoutes.Post("/import", middleware.StrictRateLimiter(), backupHandler.Import)
	backupRoutes.Post("/clear", middleware.StrictRateLimiter(), backupHandler.Clear)

	return notifier, overdueService
}
