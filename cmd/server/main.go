package main

import (
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/PositiveMinds/Together-As-One-SACCO/internal/adapters/http/middleware"
	"github.com/PositiveMinds/Together-As-One-SACCO/internal/adapters/http/routes"
	"github.com/PositiveMinds/Together-As-One-SACCO/internal/adapters/persistence/models"
	"github.com/PositiveMinds/Together-As-One-SACCO/internal/config"
	"github.com/PositiveMinds/Together-As-One-SACCO/internal/core/domain"
	"github.com/PositiveMinds/Together-As-One-SACCO/internal/core/finance"

	"github.com/gofiber/fiber/v2"

	_ "github.com/PositiveMinds/Together-As-One-SACCO/docs" // Swagger docs
)

// @title Together As One SACCO API
// @version 1.0
// @description Savings and credit cooperative ledger API for the Together As One SACCO.
// @termsOfService http://swagger.io/terms/

// @contact.name API Support
// @contact.email support@tao-sacco.org

// @license.name Apache 2.0
// @license.url http://www.apache.org/licenses/LICENSE-2.0.html

// @host sacco.tao.or.ug
// @BasePath /api/v1
// @schemes https

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("❌ Failed to load configuration: %v", err)
	}

	// Connect to database
	db, err := config.ConnectDatabase(cfg)
	if err != nil {
		log.Fatalf("❌ Failed to connect to database: %v", err)
	}
	defer config.CloseDatabase()

	// Auto migrate (creates tables if not exist)
	if err := models.AutoMigrate(db); err != nil {
		log.Fatalf("❌ Failed to auto migrate: %v", err)
	}
	log.Println("✅ Database migration completed")

	// Seed loan types and admin user
	if err := config.NewSeeder(db, cfg).Run(); err != nil {
		log.Printf("⚠️ Warning: Failed to seed database: %v", err)
	}

	// Create Fiber app
	app := fiber.New(fiber.Config{
		AppName:      "Together As One SACCO API v1.0",
		ErrorHandler: middleware.CustomErrorHandler,
	})

	// Setup middlewares
	middleware.Setup(app, cfg)

	// Setup routes (pass db and cfg for dependency injection)
	notifier, overdueService := routes.Setup(app, db, cfg)

	// Log ledger mutations in development mode
	if cfg.IsDev() {
		notifier.OnLoanChanged(func(loan *domain.Loan) {
			balance := finance.RemainingBalance(loan.Amount, loan.InterestRate, loan.Term, loan.Penalty, loan.Paid)
			log.Printf("📒 Loan %s updated [status=%s balance=%.0f]", loan.ID, loan.Status, balance)
		})
		notifier.OnPaymentRecorded(func(payment *domain.Payment) {
			log.Printf("📒 Payment of %.0f recorded against loan %s", payment.Amount, payment.LoanID)
		})
		notifier.OnSavingChanged(func(memberID string) {
			log.Printf("📒 Savings balance changed for member %s", memberID)
		})
	}

	// Daily overdue scan (08:30)
	overdueService.Start()
	defer overdueService.Stop()

	// Graceful shutdown
	go gracefulShutdown(app)

	// Start server
	log.Printf("🚀 Server starting on port %s [MODE: %s]", cfg.Port, cfg.AppMode)
	if err := app.Listen(":" + cfg.Port); err != nil {
		log.Fatalf("❌ Failed to start server: %v", err)
	}
}

// gracefulShutdown handles graceful shutdown
func gracefulShutdown(app *fiber.App) {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("🛑 Shutting down server...")
	if err := app.Shutdown(); err != nil {
		log.Printf("❌ Error during shutdown: %v", err)
	}
	log.Println("✅ Server stopped gracefully")
}
