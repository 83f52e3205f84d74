package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/PositiveMinds/Together-As-One-SACCO/internal/adapters/persistence/repositories"
	"github.com/PositiveMinds/Together-As-One-SACCO/internal/core/domain"
	"github.com/PositiveMinds/Together-As-One-SACCO/internal/core/finance"

	"github.com/google/uuid"
)

// penaltyRatePercent is the flat penalty charged on the current
// principal each time a penalty is applied. Cumulative: repeated
// applications stack.
const penaltyRatePercent = 5.0

// LoanService owns the loan lifecycle: origination, top-ups,
// reschedules, penalties and deletion. poolMu serializes every
// operation that consumes lending pool so two concurrent originations
// cannot both pass the solvency check against the same balance.
type LoanService struct {
	loanRepo     repositories.LoanRepository
	loanTypeRepo repositories.LoanTypeRepository
	memberRepo   repositories.MemberRepository
	paymentRepo  repositories.PaymentRepository
	auditRepo    repositories.AuditRepository
	solvency     *SolvencyService
	notifier     *Notifier

	poolMu sync.Mutex
}

// NewLoanService creates a new loan service
func NewLoanService(
	loanRepo repositories.LoanRepository,
	loanTypeRepo repositories.LoanTypeRepository,
	memberRepo repositories.MemberRepository,
	paymentRepo repositories.PaymentRepository,
	auditRepo repositories.AuditRepository,
	solvency *SolvencyService,
	notifier *Notifier,
) *LoanService {
	return &LoanService{
		loanRepo:     loanRepo,
		loanTypeRepo: loanTypeRepo,
		memberRepo:   memberRepo,
		paymentRepo:  paymentRepo,
		auditRepo:    auditRepo,
		solvency:     solvency,
		notifier:     notifier,
	}
}

// OriginateLoanInput carries the fields accepted at origination.
// The interest rate is resolved from the loan type policy, never taken
// from the caller.
type OriginateLoanInput struct {
	MemberID     string              `json:"member_id"`
	BorrowerName string              `json:"borrower_name"`
	BorrowerType domain.BorrowerType `json:"borrower_type"`
	LoanType     domain.LoanTypeCode `json:"loan_type"`
	Amount       float64             `json:"amount"`
	Term         int                 `json:"term"`
	LoanDate     string              `json:"loan_date"`
}

// Originate issues a new loan after borrower validation and the
// solvency check. The due date is the loan date advanced by the term.
func (s *LoanService) Originate(ctx context.Context, input OriginateLoanInput, userRole string) (*domain.Loan, error) {
	if input.Amount <= 0 || input.Term <= 0 {
		return nil, domain.ErrInvalidInput
	}

	borrowerLabel, err := s.resolveBorrower(ctx, &input)
	if err != nil {
		return nil, err
	}

	policy, err := s.loanTypeRepo.GetByCode(ctx, input.LoanType)
	if err != nil {
		return nil, err
	}
	if policy.MembersOnly && input.BorrowerType == domain.BorrowerNonMember {
		return nil, domain.ErrInvalidBorrower
	}

	loanDate, err := parseLoanDate(input.LoanDate)
	if err != nil {
		return nil, domain.ErrInvalidInput
	}

	s.poolMu.Lock()
	defer s.poolMu.Unlock()

	pool, err := s.solvency.CanIssue(ctx, input.Amount, "")
	if err != nil {
		if errors.Is(err, domain.ErrSolvencyExceeded) {
			return nil, fmt.Errorf("%w: available pool is %.0f", domain.ErrSolvencyExceeded, pool)
		}
		return nil, err
	}

	loan := &domain.Loan{
		ID:           uuid.New().String(),
		MemberID:     input.MemberID,
		BorrowerName: input.BorrowerName,
		BorrowerType: input.BorrowerType,
		LoanType:     input.LoanType,
		Amount:       input.Amount,
		Term:         input.Term,
		InterestRate: policy.InterestRate,
		LoanDate:     loanDate.Format(finance.DateLayout),
		DueDate:      finance.DueDate(loanDate, input.Term).Format(finance.DateLayout),
		Status:       domain.LoanActive,
		CreatedAt:    time.Now(),
	}

	if err := s.loanRepo.Create(ctx, loan); err != nil {
		return nil, err
	}

	details := fmt.Sprintf("Loan of %.0f issued to %s (%s, %d months)", loan.Amount, borrowerLabel, loan.LoanType, loan.Term)
	if err := s.auditRepo.Append(ctx, domain.AuditLoanCreated, details, userRole); err != nil {
		return nil, err
	}

	s.notifier.notifyLoanChanged(loan)
	return loan, nil
}

// TopUp raises a loan's principal. The due date is extended from its
// current value by months proportional to the top-up against the
// principal as it stands before this top-up, so each successive top-up
// is measured against a larger base. A completed loan that no longer
// covers its raised total reopens.
func (s *LoanService) TopUp(ctx context.Context, loanID string, amount float64, date string, userRole string) (*domain.Loan, error) {
	if amount <= 0 {
		return nil, domain.ErrInvalidInput
	}

	loan, err := s.loanRepo.GetByID(ctx, loanID)
	if err != nil {
		return nil, err
	}

	topUpDate, err := parseLoanDate(date)
	if err != nil {
		return nil, domain.ErrInvalidInput
	}

	s.poolMu.Lock()
	defer s.poolMu.Unlock()

	// Only the extra amount draws on the pool; the loan's existing
	// principal is excluded from the pool on both sides.
	pool, err := s.solvency.CanIssue(ctx, amount, loan.ID)
	if err != nil {
		if errors.Is(err, domain.ErrSolvencyExceeded) {
			return nil, fmt.Errorf("%w: available pool is %.0f", domain.ErrSolvencyExceeded, pool)
		}
		return nil, err
	}

	dueDate, err := time.Parse(finance.DateLayout, loan.DueDate)
	if err != nil {
		return nil, fmt.Errorf("loan %s has malformed due date %q: %w", loan.ID, loan.DueDate, err)
	}

	months := finance.TopUpExtensionMonths(loan.Term, amount, loan.Amount)
	loan.DueDate = finance.ExtendDueDate(dueDate, months).Format(finance.DateLayout)
	loan.Amount += amount
	loan.TopUps = append(loan.TopUps, domain.TopUp{
		Amount:    amount,
		Date:      topUpDate.Format(finance.DateLayout),
		Timestamp: time.Now(),
	})
	s.refreshStatus(loan)
	now := time.Now()
	loan.UpdatedAt = &now

	if err := s.loanRepo.Update(ctx, loan); err != nil {
		return nil, err
	}

	details := fmt.Sprintf("Loan %s topped up by %.0f, due date extended %d months", loan.ID, amount, months)
	if err := s.auditRepo.Append(ctx, domain.AuditLoanTopUp, details, userRole); err != nil {
		return nil, err
	}

	s.notifier.notifyLoanChanged(loan)
	return loan, nil
}

// Reschedule overwrites a loan's due date and interest rate without
// constraints on direction or magnitude
func (s *LoanService) Reschedule(ctx context.Context, loanID, newDueDate string, newRate float64, userRole string) (*domain.Loan, error) {
	parsed, err := time.Parse(finance.DateLayout, newDueDate)
	if err != nil {
		return nil, domain.ErrInvalidInput
	}

	loan, err := s.loanRepo.GetByID(ctx, loanID)
	if err != nil {
		return nil, err
	}

	loan.DueDate = parsed.Format(finance.DateLayout)
	loan.InterestRate = newRate
	now := time.Now()
	loan.UpdatedAt = &now

	if err := s.loanRepo.Update(ctx, loan); err != nil {
		return nil, err
	}

	details := fmt.Sprintf("Loan %s rescheduled to %s at %.2f%%", loan.ID, loan.DueDate, loan.InterestRate)
	if err := s.auditRepo.Append(ctx, domain.AuditLoanRescheduled, details, userRole); err != nil {
		return nil, err
	}

	s.notifier.notifyLoanChanged(loan)
	return loan, nil
}

// ApplyPenalty adds a flat percentage of the current principal to the
// loan's penalty. Repeated applications accumulate; there is no guard
// against charging the same period twice.
func (s *LoanService) ApplyPenalty(ctx context.Context, loanID string, userRole string) (*domain.Loan, error) {
	loan, err := s.loanRepo.GetByID(ctx, loanID)
	if err != nil {
		return nil, err
	}

	charge := loan.Amount * penaltyRatePercent / 100
	loan.Penalty += charge
	now := time.Now()
	loan.UpdatedAt = &now

	if err := s.loanRepo.Update(ctx, loan); err != nil {
		return nil, err
	}

	details := fmt.Sprintf("Penalty of %.0f applied to loan %s", charge, loan.ID)
	if err := s.auditRepo.Append(ctx, domain.AuditPenaltyApplied, details, userRole); err != nil {
		return nil, err
	}

	s.notifier.notifyLoanChanged(loan)
	return loan, nil
}

// Delete removes a loan and cascades to its payment rows
func (s *LoanService) Delete(ctx context.Context, loanID string, userRole string) error {
	loan, err := s.loanRepo.GetByID(ctx, loanID)
	if err != nil {
		return err
	}

	if err := s.paymentRepo.DeleteByLoanID(ctx, loanID); err != nil {
		return err
	}
	if err := s.loanRepo.Delete(ctx, loanID); err != nil {
		return err
	}

	details := fmt.Sprintf("Loan %s of %.0f deleted", loan.ID, loan.Amount)
	if err := s.auditRepo.Append(ctx, domain.AuditLoanDeleted, details, userRole); err != nil {
		return err
	}

	s.notifier.notifyLoanChanged(loan)
	return nil
}

// GetLoan returns a loan by id
func (s *LoanService) GetLoan(ctx context.Context, id string) (*domain.Loan, error) {
	return s.loanRepo.GetByID(ctx, id)
}

// ListLoans returns a page of loans plus the total count
func (s *LoanService) ListLoans(ctx context.Context, offset, limit int) ([]*domain.Loan, int64, error) {
	return s.loanRepo.List(ctx, offset, limit)
}

// GetLoansByMember returns every loan issued to a member
func (s *LoanService) GetLoansByMember(ctx context.Context, memberID string) ([]*domain.Loan, error) {
	return s.loanRepo.GetByMemberID(ctx, memberID)
}

// IsOverdue reports whether an active loan's due date has passed.
// Completed loans are never overdue.
func (s *LoanService) IsOverdue(loan *domain.Loan, asOf time.Time) bool {
	if loan.Status != domain.LoanActive {
		return false
	}
	dueDate, err := time.Parse(finance.DateLayout, loan.DueDate)
	if err != nil {
		return false
	}
	return finance.IsOverdue(dueDate, asOf)
}

// refreshStatus applies the completion rule: a loan is completed once
// payments cover principal, interest and penalty, and reopens when a
// top-up raises the total beyond what has been paid.
func (s *LoanService) refreshStatus(loan *domain.Loan) {
	owed := finance.TotalPayable(loan.Amount, loan.InterestRate, loan.Term) + loan.Penalty
	if loan.Paid >= owed {
		loan.Status = domain.LoanCompleted
	} else {
		loan.Status = domain.LoanActive
	}
}

// resolveBorrower enforces the member/non-member identity split and
// returns a display label for the audit trail
func (s *LoanService) resolveBorrower(ctx context.Context, input *OriginateLoanInput) (string, error) {
	switch input.BorrowerType {
	case domain.BorrowerMember:
		if input.MemberID == "" || input.BorrowerName != "" {
			return "", domain.ErrInvalidBorrower
		}
		member, err := s.memberRepo.GetByID(ctx, input.MemberID)
		if err != nil {
			return "", err
		}
		return member.Name, nil
	case domain.BorrowerNonMember:
		input.BorrowerName = strings.TrimSpace(input.BorrowerName)
		if input.BorrowerName == "" || input.MemberID != "" {
			return "", domain.ErrInvalidBorrower
		}
		return input.BorrowerName, nil
	default:
		return "", domain.ErrInvalidBorrower
	}
}

// parseLoanDate parses a YYYY-MM-DD date, defaulting to today when empty
func parseLoanDate(s string) (time.Time, error) {
	if s == "" {
		return time.Now(), nil
	}
	return time.Parse(finance.DateLayout, s)
}
