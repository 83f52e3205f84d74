package config

import (
	"log"

	"github.com/PositiveMinds/Together-As-One-SACCO/internal/adapters/persistence/models"
	"github.com/PositiveMinds/Together-As-One-SACCO/internal/pkg/password"

	"gorm.io/gorm"
)

// Seeder handles database seeding
type Seeder struct {
	db  *gorm.DB
	cfg *Config
}

// NewSeeder creates a new seeder instance
func NewSeeder(db *gorm.DB, cfg *Config) *Seeder {
	return &Seeder{db: db, cfg: cfg}
}

// Run executes all seeders
func (s *Seeder) Run() error {
	log.Println("🌱 Running database seeders...")

	if err := s.seedLoanTypes(); err != nil {
		return err
	}

	if err := s.seedAdminUser(); err != nil {
		log.Printf("⚠️ Admin seeder skipped: %v", err)
	}

	log.Println("✅ Database seeding completed")
	return nil
}

// seedLoanTypes seeds the loan policy table. Rates are per-annum
// simple-interest percentages, prorated by the loan term in months.
func (s *Seeder) seedLoanTypes() error {
	loanTypes := []models.LoanType{
		{Code: "normal", Name: "Normal Loan", InterestRate: 2.0, MembersOnly: true},
		{Code: "emergency", Name: "Emergency Loan", InterestRate: 5.0, MembersOnly: true},
		{Code: "non-member", Name: "Non-Member Loan", InterestRate: 10.0, MembersOnly: false},
	}

	for _, lt := range loanTypes {
		var existing models.LoanType
		err := s.db.Where("code = ?", lt.Code).First(&existing).Error
		if err == nil {
			continue
		}
		if err != gorm.ErrRecordNotFound {
			return err
		}
		if err := s.db.Create(&lt).Error; err != nil {
			return err
		}
		log.Printf("✅ Loan type created: %s (%.0f%%)", lt.Code, lt.InterestRate)
	}

	return nil
}

// seedAdminUser seeds the default admin user from ADMIN_* env vars.
// Change the default password immediately after first login.
func (s *Seeder) seedAdminUser() error {
	var count int64
	s.db.Model(&models.User{}).Where("role = ?", "ADMIN").Count(&count)
	if count > 0 {
		return nil
	}

	hashedPassword, err := password.Hash(s.cfg.Admin.Password)
	if err != nil {
		return err
	}

	admin := &models.User{
		Username: s.cfg.Admin.Username,
		Email:    s.cfg.Admin.Email,
		Password: hashedPassword,
		Role:     "ADMIN",
		IsActive: true,
	}

	if err := s.db.Create(admin).Error; err != nil {
		return err
	}

	log.Printf("✅ Admin user created: %s", admin.Username)
	return nil
}
