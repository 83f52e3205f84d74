package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"github.com/PositiveMinds/Together-As-One-SACCO/internal/core/domain"

	"gorm.io/gorm"
)

// ============================================================
// Auth Tables
// ============================================================

// User represents users table (system operators)
type User struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	Username  string         `gorm:"uniqueIndex;size:50;not null" json:"username"`
	Email     string         `gorm:"uniqueIndex;size:100;not null" json:"email"`
	Password  string         `gorm:"size:255;not null" json:"-"`
	Role      string         `gorm:"size:20;default:'TREASURER'" json:"role"`
	IsActive  bool           `gorm:"default:true" json:"is_active"`
	CreatedAt time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

func (User) TableName() string {
	return "users"
}

// ToDomain converts to a domain user
func (u *User) ToDomain() *domain.User {
	return &domain.User{
		ID:        u.ID,
		Username:  u.Username,
		Email:     u.Email,
		Password:  u.Password,
		Role:      domain.Role(u.Role),
		IsActive:  u.IsActive,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}

// RefreshToken represents refresh_tokens table
type RefreshToken struct {
	ID        uint       `gorm:"primaryKey" json:"id"`
	UserID    uint       `gorm:"index;not null" json:"user_id"`
	TokenHash string     `gorm:"size:255;not null;index" json:"-"`
	ExpiresAt time.Time  `gorm:"not null" json:"expires_at"`
	CreatedAt time.Time  `gorm:"autoCreateTime" json:"created_at"`
	RevokedAt *time.Time `gorm:"index" json:"revoked_at"`
}

func (RefreshToken) TableName() string {
	return "refresh_tokens"
}

func (rt *RefreshToken) IsRevoked() bool {
	return rt.RevokedAt != nil
}

func (rt *RefreshToken) IsExpired() bool {
	return time.Now().After(rt.ExpiresAt)
}

// ============================================================
// Master Tables
// ============================================================

// LoanType ties a loan category to its fixed annual interest rate.
// Policy data: rates are seeded, never edited through the API.
type LoanType struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	Code         string    `gorm:"size:20;uniqueIndex;not null" json:"code"`
	Name         string    `gorm:"size:100;not null" json:"name"`
	InterestRate float64   `gorm:"type:decimal(5,2);not null" json:"interest_rate"`
	MembersOnly  bool      `gorm:"default:true" json:"members_only"`
	CreatedAt    time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt    time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (LoanType) TableName() string {
	return "loan_types"
}

// ============================================================
// Ledger Tables
// ============================================================

// Member represents members table
type Member struct {
	ID        string     `gorm:"primaryKey;size:36" json:"id"`
	Name      string     `gorm:"size:100;not null;index" json:"name"`
	Email     string     `gorm:"size:100;not null;uniqueIndex" json:"email"`
	Phone     string     `gorm:"size:30;not null" json:"phone"`
	IDNo      string     `gorm:"column:id_no;size:20;not null;uniqueIndex" json:"id_no"`
	Photo     string     `gorm:"type:longtext" json:"photo,omitempty"`
	CreatedAt time.Time  `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt *time.Time `json:"updated_at"`
}

func (Member) TableName() string {
	return "members"
}

// ToDomain converts to a domain member
func (m *Member) ToDomain() *domain.Member {
	return &domain.Member{
		ID:        m.ID,
		Name:      m.Name,
		Email:     m.Email,
		Phone:     m.Phone,
		IDNo:      m.IDNo,
		Photo:     m.Photo,
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
}

// MemberFromDomain converts a domain member to its model
func MemberFromDomain(m *domain.Member) *Member {
	return &Member{
		ID:        m.ID,
		Name:      m.Name,
		Email:     m.Email,
		Phone:     m.Phone,
		IDNo:      m.IDNo,
		Photo:     m.Photo,
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
}

// TopUpList stores a loan's top-up history as a JSON column
type TopUpList []domain.TopUp

// Value implements driver.Valuer
func (t TopUpList) Value() (driver.Value, error) {
	if len(t) == 0 {
		return "[]", nil
	}
	b, err := json.Marshal(t)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

// Scan implements sql.Scanner
func (t *TopUpList) Scan(value interface{}) error {
	if value == nil {
		*t = TopUpList{}
		return nil
	}
	var data []byte
	switch v := value.(type) {
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return fmt.Errorf("unsupported top-up column type %T", value)
	}
	if len(data) == 0 {
		*t = TopUpList{}
		return nil
	}
	return json.Unmarshal(data, t)
}

// Loan represents loans table
type Loan struct {
	ID           string     `gorm:"primaryKey;size:36" json:"id"`
	MemberID     *string    `gorm:"size:36;index" json:"member_id"`
	BorrowerName *string    `gorm:"size:100" json:"borrower_name"`
	BorrowerType string     `gorm:"size:20;not null" json:"borrower_type"`
	LoanType     string     `gorm:"size:20;not null" json:"loan_type"`
	Amount       float64    `gorm:"type:decimal(15,2);not null" json:"amount"`
	Term         int        `gorm:"not null" json:"term"`
	InterestRate float64    `gorm:"type:decimal(5,2);not null" json:"interest_rate"`
	LoanDate     string     `gorm:"size:10;not null" json:"loan_date"`
	DueDate      string     `gorm:"size:10;not null;index" json:"due_date"`
	Paid         float64    `gorm:"type:decimal(15,2);default:0" json:"paid"`
	Penalty      float64    `gorm:"type:decimal(15,2);default:0" json:"penalty"`
	Status       string     `gorm:"size:20;not null;default:'active';index" json:"status"`
	TopUps       TopUpList  `gorm:"type:json" json:"top_ups"`
	CreatedAt    time.Time  `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt    *time.Time `json:"updated_at"`
}

func (Loan) TableName() string {
	return "loans"
}

// ToDomain converts to a domain loan
func (l *Loan) ToDomain() *domain.Loan {
	loan := &domain.Loan{
		ID:           l.ID,
		BorrowerType: domain.BorrowerType(l.BorrowerType),
		LoanType:     domain.LoanTypeCode(l.LoanType),
		Amount:       l.Amount,
		Term:         l.Term,
		InterestRate: l.InterestRate,
		LoanDate:     l.LoanDate,
		DueDate:      l.DueDate,
		Paid:         l.Paid,
		Penalty:      l.Penalty,
		Status:       domain.LoanStatus(l.Status),
		TopUps:       []domain.TopUp(l.TopUps),
		CreatedAt:    l.CreatedAt,
		UpdatedAt:    l.UpdatedAt,
	}
	if l.MemberID != nil {
		loan.MemberID = *l.MemberID
	}
	if l.BorrowerName != nil {
		loan.BorrowerName = *l.BorrowerName
	}
	return loan
}

// LoanFromDomain converts a domain loan to its model
func LoanFromDomain(l *domain.Loan) *Loan {
	model := &Loan{
		ID:           l.ID,
		BorrowerType: string(l.BorrowerType),
		LoanType:     string(l.LoanType),
		Amount:       l.Amount,
		Term:         l.Term,
		InterestRate: l.InterestRate,
		LoanDate:     l.LoanDate,
		DueDate:      l.DueDate,
		Paid:         l.Paid,
		Penalty:      l.Penalty,
		Status:       string(l.Status),
		TopUps:       TopUpList(l.TopUps),
		CreatedAt:    l.CreatedAt,
		UpdatedAt:    l.UpdatedAt,
	}
	if l.MemberID != "" {
		id := l.MemberID
		model.MemberID = &id
	}
	if l.BorrowerName != "" {
		name := l.BorrowerName
		model.BorrowerName = &name
	}
	return model
}

// Payment represents payments table (immutable once created)
type Payment struct {
	ID          string    `gorm:"primaryKey;size:36" json:"id"`
	LoanID      string    `gorm:"size:36;not null;index" json:"loan_id"`
	Amount      float64   `gorm:"type:decimal(15,2);not null" json:"amount"`
	PaymentDate string    `gorm:"size:10;not null" json:"payment_date"`
	CreatedAt   time.Time `gorm:"autoCreateTime" json:"created_at"`
}

func (Payment) TableName() string {
	return "payments"
}

// ToDomain converts to a domain payment
func (p *Payment) ToDomain() *domain.Payment {
	return &domain.Payment{
		ID:          p.ID,
		LoanID:      p.LoanID,
		Amount:      p.Amount,
		PaymentDate: p.PaymentDate,
		CreatedAt:   p.CreatedAt,
	}
}

// Saving represents savings table (immutable once created)
type Saving struct {
	ID         string    `gorm:"primaryKey;size:36" json:"id"`
	MemberID   string    `gorm:"size:36;not null;index" json:"member_id"`
	Amount     float64   `gorm:"type:decimal(15,2);not null" json:"amount"`
	SavingDate string    `gorm:"size:10;not null" json:"saving_date"`
	CreatedAt  time.Time `gorm:"autoCreateTime" json:"created_at"`
}

func (Saving) TableName() string {
	return "savings"
}

// ToDomain converts to a domain saving
func (s *Saving) ToDomain() *domain.Saving {
	return &domain.Saving{
		ID:         s.ID,
		MemberID:   s.MemberID,
		Amount:     s.Amount,
		SavingDate: s.SavingDate,
		CreatedAt:  s.CreatedAt,
	}
}

// Withdrawal represents withdrawals table (immutable once created)
type Withdrawal struct {
	ID             string    `gorm:"primaryKey;size:36" json:"id"`
	MemberID       string    `gorm:"size:36;not null;index" json:"member_id"`
	Amount         float64   `gorm:"type:decimal(15,2);not null" json:"amount"`
	WithdrawalDate string    `gorm:"size:10;not null" json:"withdrawal_date"`
	CreatedAt      time.Time `gorm:"autoCreateTime" json:"created_at"`
}

func (Withdrawal) TableName() string {
	return "withdrawals"
}

// ToDomain converts to a domain withdrawal
func (w *Withdrawal) ToDomain() *domain.Withdrawal {
	return &domain.Withdrawal{
		ID:             w.ID,
		MemberID:       w.MemberID,
		Amount:         w.Amount,
		WithdrawalDate: w.WithdrawalDate,
		CreatedAt:      w.CreatedAt,
	}
}

// AuditLog represents audit_logs table (append-only)
type AuditLog struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Action    string    `gorm:"size:50;not null;index" json:"action"`
	Details   string    `gorm:"type:text" json:"details"`
	UserRole  string    `gorm:"size:20" json:"user_role"`
	CreatedAt time.Time `gorm:"autoCreateTime;index" json:"created_at"`
}

func (AuditLog) TableName() string {
	return "audit_logs"
}

// ToDomain converts to a domain audit entry
func (a *AuditLog) ToDomain() *domain.AuditLogEntry {
	return &domain.AuditLogEntry{
		ID:        a.ID,
		Action:    domain.AuditAction(a.Action),
		Details:   a.Details,
		UserRole:  a.UserRole,
		CreatedAt: a.CreatedAt,
	}
}

// ============================================================
// Auto Migration
// ============================================================

// AutoMigrate runs auto migration for all tables
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&User{},
		&RefreshToken{},
		&LoanType{},
		&Member{},
		&Loan{},
		&Payment{},
		&Saving{},
		&Withdrawal{},
		&AuditLog{},
	)
}
