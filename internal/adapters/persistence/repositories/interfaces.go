package repositories

import (
	"context"

	"github.com/PositiveMinds/Together-As-One-SACCO/internal/core/domain"
)

// MemberRepository defines member persistence operations
type MemberRepository interface {
	Create(ctx context.Context, member *domain.Member) error
	GetByID(ctx context.Context, id string) (*domain.Member, error)
	GetAll(ctx context.Context) ([]*domain.Member, error)
	Update(ctx context.Context, member *domain.Member) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, offset, limit int) ([]*domain.Member, int64, error)
	Search(ctx context.Context, query string, limit int) ([]*domain.Member, error)
}

// LoanRepository defines loan persistence operations
type LoanRepository interface {
	Create(ctx context.Context, loan *domain.Loan) error
	GetByID(ctx context.Context, id string) (*domain.Loan, error)
	GetAll(ctx context.Context) ([]*domain.Loan, error)
	GetByMemberID(ctx context.Context, memberID string) ([]*domain.Loan, error)
	Update(ctx context.Context, loan *domain.Loan) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, offset, limit int) ([]*domain.Loan, int64, error)
}

// LoanTypeRepository reads the seeded lending policy table
type LoanTypeRepository interface {
	GetByCode(ctx context.Context, code domain.LoanTypeCode) (*domain.LoanPolicy, error)
	GetAll(ctx context.Context) ([]*domain.LoanPolicy, error)
}

// PaymentRepository defines payment persistence operations.
// Payments are immutable: create and read only.
type PaymentRepository interface {
	Create(ctx context.Context, payment *domain.Payment) error
	GetAll(ctx context.Context) ([]*domain.Payment, error)
	GetByLoanID(ctx context.Context, loanID string) ([]*domain.Payment, error)
	DeleteByLoanID(ctx context.Context, loanID string) error
}

// SavingRepository defines saving persistence operations
type SavingRepository interface {
	Create(ctx context.Context, saving *domain.Saving) error
	GetAll(ctx context.Context) ([]*domain.Saving, error)
	GetByMemberID(ctx context.Context, memberID string) ([]*domain.Saving, error)
	TotalByMemberID(ctx context.Context, memberID string) (float64, error)
	Total(ctx context.Context) (float64, error)
}

// WithdrawalRepository defines withdrawal persistence operations
type WithdrawalRepository interface {
	Create(ctx context.Context, withdrawal *domain.Withdrawal) error
	GetAll(ctx context.Context) ([]*domain.Withdrawal, error)
	GetByMemberID(ctx context.Context, memberID string) ([]*domain.Withdrawal, error)
	TotalByMemberID(ctx context.Context, memberID string) (float64, error)
	Total(ctx context.Context) (float64, error)
}

// AuditRepository defines append-only audit log operations
type AuditRepository interface {
	Append(ctx context.Context, action domain.AuditAction, details, userRole string) error
	List(ctx context.Context, offset, limit int) ([]*domain.AuditLogEntry, int64, error)
}

// UserRepository defines user persistence operations
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	GetByID(ctx context.Context, id uint) (*domain.User, error)
	GetByUsername(ctx context.Context, username string) (*domain.User, error)
	ExistsByUsername(ctx context.Context, username string) (bool, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
}

// RefreshTokenRepository defines refresh token persistence operations
type RefreshTokenRepository interface {
	Create(ctx context.Context, userID uint, tokenHash string, expiresAt int64) error
	IsActive(ctx context.Context, tokenHash string) (bool, error)
	Revoke(ctx context.Context, tokenHash string) error
	RevokeAllByUserID(ctx context.Context, userID uint) error
}

// BackupRepository owns the backup JSON envelope: full export, import, clear
type BackupRepository interface {
	Export(ctx context.Context) ([]byte, error)
	Import(ctx context.Context, blob []byte) error
	Clear(ctx context.Context) error
}
