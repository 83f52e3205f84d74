package services

import (
	"context"
	"fmt"
	"time"

	"github.com/PositiveMinds/Together-As-One-SACCO/internal/adapters/persistence/repositories"
	"github.com/PositiveMinds/Together-As-One-SACCO/internal/core/domain"
	"github.com/PositiveMinds/Together-As-One-SACCO/internal/core/finance"

	"github.com/google/uuid"
)

// PaymentService validates and applies loan repayments. Payments are
// immutable rows: the loan's paid total is the only mutable side of a
// repayment, and it only grows.
type PaymentService struct {
	paymentRepo repositories.PaymentRepository
	loanRepo    repositories.LoanRepository
	auditRepo   repositories.AuditRepository
	notifier    *Notifier
}

// NewPaymentService creates a new payment service
func NewPaymentService(
	paymentRepo repositories.PaymentRepository,
	loanRepo repositories.LoanRepository,
	auditRepo repositories.AuditRepository,
	notifier *Notifier,
) *PaymentService {
	return &PaymentService{
		paymentRepo: paymentRepo,
		loanRepo:    loanRepo,
		auditRepo:   auditRepo,
		notifier:    notifier,
	}
}

// Validate checks a prospective payment without applying it. An amount
// equal to the remaining balance is accepted; one unit more is not.
func (s *PaymentService) Validate(loan *domain.Loan, amount float64) error {
	if amount <= 0 {
		return domain.ErrInvalidInput
	}
	remaining := finance.RemainingBalance(loan.Amount, loan.InterestRate, loan.Term, loan.Penalty, loan.Paid)
	if amount > remaining {
		return domain.ErrExceedsBalance
	}
	return nil
}

// Apply validates and records a payment: the loan's paid total grows,
// an immutable payment row is written, the completion rule runs, and
// registered callbacks fire.
func (s *PaymentService) Apply(ctx context.Context, loanID string, amount float64, paymentDate string, userRole string) (*domain.Payment, error) {
	loan, err := s.loanRepo.GetByID(ctx, loanID)
	if err != nil {
		return nil, err
	}

	if err := s.Validate(loan, amount); err != nil {
		return nil, err
	}

	date, err := parseLoanDate(paymentDate)
	if err != nil {
		return nil, domain.ErrInvalidInput
	}

	payment := &domain.Payment{
		ID:          uuid.New().String(),
		LoanID:      loan.ID,
		Amount:      amount,
		PaymentDate: date.Format(finance.DateLayout),
		CreatedAt:   time.Now(),
	}

	loan.Paid += amount
	owed := finance.TotalPayable(loan.Amount, loan.InterestRate, loan.Term) + loan.Penalty
	if loan.Paid >= owed {
		loan.Status = domain.LoanCompleted
	}
	now := time.Now()
	loan.UpdatedAt = &now

	if err := s.loanRepo.Update(ctx, loan); err != nil {
		return nil, err
	}
	if err := s.paymentRepo.Create(ctx, payment); err != nil {
		return nil, err
	}

	details := fmt.Sprintf("Payment of %.0f recorded against loan %s", amount, loan.ID)
	if err := s.auditRepo.Append(ctx, domain.AuditPaymentRecorded, details, userRole); err != nil {
		return nil, err
	}

	s.notifier.notifyPaymentRecorded(payment)
	s.notifier.notifyLoanChanged(loan)
	return payment, nil
}

// GetPaymentsByLoan returns a loan's payments oldest first
func (s *PaymentService) GetPaymentsByLoan(ctx context.Context, loanID string) ([]*domain.Payment, error) {
	if _, err := s.loanRepo.GetByID(ctx, loanID); err != nil {
		return nil, err
	}
	return s.paymentRepo.GetByLoanID(ctx, loanID)
}

// GetAllPayments returns every payment in the ledger
func (s *PaymentService) GetAllPayments(ctx context.Context) ([]*domain.Payment, error) {
	return s.paymentRepo.GetAll(ctx)
}

// PrincipalInterestSplit attributes a payment amount to principal and
// interest using the loan's fixed ratio
func (s *PaymentService) PrincipalInterestSplit(loan *domain.Loan, amount float64) (principal, interest float64) {
	ratio := finance.PrincipalRatio(loan.Amount, loan.InterestRate, loan.Term)
	principal = amount * ratio
	interest = amount - principal
	return principal, interest
}
