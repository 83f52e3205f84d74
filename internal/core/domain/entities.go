package domain

import "time"

// Role represents user role in the system
type Role string

const (
	RoleAdmin     Role = "ADMIN"
	RoleTreasurer Role = "TREASURER"
)

// User represents a system operator (admin or treasurer)
type User struct {
	ID        uint
	Username  string
	Email     string
	Password  string // Hashed
	Role      Role
	IsActive  bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

// BorrowerType distinguishes member loans from non-member loans
type BorrowerType string

const (
	BorrowerMember    BorrowerType = "member"
	BorrowerNonMember BorrowerType = "non-member"
)

// LoanStatus tracks the loan lifecycle
type LoanStatus string

const (
	LoanActive    LoanStatus = "active"
	LoanCompleted LoanStatus = "completed"
)

// LoanTypeCode identifies a lending policy entry
type LoanTypeCode string

const (
	LoanTypeNormal    LoanTypeCode = "normal"
	LoanTypeEmergency LoanTypeCode = "emergency"
	LoanTypeNonMember LoanTypeCode = "non-member"
)

// LoanPolicy is a seeded lending policy entry. Rates are fixed per
// loan type; origination resolves the rate from policy, never from input.
type LoanPolicy struct {
	Code         LoanTypeCode
	Name         string
	InterestRate float64 // percent per annum, simple interest
	MembersOnly  bool
}

// Member represents a registered cooperative member.
// Name, email, phone and IDNo are stored normalized and are unique.
type Member struct {
	ID        string
	Name      string
	Email     string
	Phone     string // canonical "(+256) XXX XXX XXX"
	IDNo      string // sequential, e.g. "MEM-003"
	Photo     string // opaque data-URL blob, optional
	CreatedAt time.Time
	UpdatedAt *time.Time
}

// TopUp is one principal increase applied to a loan
type TopUp struct {
	Amount    float64   `json:"amount"`
	Date      string    `json:"date"`
	Timestamp time.Time `json:"timestamp"`
}

// Loan represents a loan in the domain.
// MemberID is set iff BorrowerType is member; BorrowerName iff non-member.
// Amount only grows (top-ups); Paid and Penalty only grow.
type Loan struct {
	ID           string
	MemberID     string
	BorrowerName string
	BorrowerType BorrowerType
	LoanType     LoanTypeCode
	Amount       float64
	Term         int // months
	InterestRate float64
	LoanDate     string // YYYY-MM-DD
	DueDate      string // YYYY-MM-DD, extended on top-up
	Paid         float64
	Penalty      float64
	Status       LoanStatus
	TopUps       []TopUp
	CreatedAt    time.Time
	UpdatedAt    *time.Time
}

// Payment is an immutable repayment record against a loan
type Payment struct {
	ID          string
	LoanID      string
	Amount      float64
	PaymentDate string
	CreatedAt   time.Time
}

// Saving is an immutable member deposit record
type Saving struct {
	ID         string
	MemberID   string
	Amount     float64
	SavingDate string
	CreatedAt  time.Time
}

// Withdrawal is an immutable member withdrawal record
type Withdrawal struct {
	ID             string
	MemberID       string
	Amount         float64
	WithdrawalDate string
	CreatedAt      time.Time
}

// AuditAction is an audit-log action code
type AuditAction string

const (
	AuditMemberAdded        AuditAction = "MEMBER_ADDED"
	AuditMemberUpdated      AuditAction = "MEMBER_UPDATED"
	AuditMemberDeleted      AuditAction = "MEMBER_DELETED"
	AuditLoanCreated        AuditAction = "LOAN_CREATED"
	AuditLoanTopUp          AuditAction = "LOAN_TOPUP"
	AuditLoanRescheduled    AuditAction = "LOAN_RESCHEDULED"
	AuditLoanDeleted        AuditAction = "LOAN_DELETED"
	AuditPenaltyApplied     AuditAction = "PENALTY_APPLIED"
	AuditPaymentRecorded    AuditAction = "PAYMENT_RECORDED"
	AuditSavingRecorded     AuditAction = "SAVING_RECORDED"
	AuditWithdrawalRecorded AuditAction = "WITHDRAWAL_RECORDED"
	AuditDataExported       AuditAction = "DATA_EXPORTED"
	AuditDataImported       AuditAction = "DATA_IMPORTED"
	AuditDataCleared        AuditAction = "DATA_CLEARED"
	AuditOverdueReminder    AuditAction = "OVERDUE_REMINDER"
)

// AuditLogEntry is an append-only record of a system action
type AuditLogEntry struct {
	ID        uint
	Action    AuditAction
	Details   string
	UserRole  string
	CreatedAt time.Time
}

// TokenPair represents access and refresh tokens
type TokenPair struct {
	AccessToken  string
	RefreshToken string
}
