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

// SavingService records member deposits and withdrawals. Both are
// immutable rows; a member's balance is always derived by summing.
type SavingService struct {
	savingRepo     repositories.SavingRepository
	withdrawalRepo repositories.WithdrawalRepository
	memberRepo     repositories.MemberRepository
	auditRepo      repositories.AuditRepository
	notifier       *Notifier
}

// NewSavingService creates a new saving service
func NewSavingService(
	savingRepo repositories.SavingRepository,
	withdrawalRepo repositories.WithdrawalRepository,
	memberRepo repositories.MemberRepository,
	auditRepo repositories.AuditRepository,
	notifier *Notifier,
) *SavingService {
	return &SavingService{
		savingRepo:     savingRepo,
		withdrawalRepo: withdrawalRepo,
		memberRepo:     memberRepo,
		auditRepo:      auditRepo,
		notifier:       notifier,
	}
}

// AddSaving records a deposit for a member
func (s *SavingService) AddSaving(ctx context.Context, memberID string, amount float64, savingDate string, userRole string) (*domain.Saving, error) {
	if amount <= 0 {
		return nil, domain.ErrInvalidInput
	}

	member, err := s.memberRepo.GetByID(ctx, memberID)
	if err != nil {
		return nil, err
	}

	date, err := parseLoanDate(savingDate)
	if err != nil {
		return nil, domain.ErrInvalidInput
	}

	saving := &domain.Saving{
		ID:         uuid.New().String(),
		MemberID:   member.ID,
		Amount:     amount,
		SavingDate: date.Format(finance.DateLayout),
		CreatedAt:  time.Now(),
	}

	if err := s.savingRepo.Create(ctx, saving); err != nil {
		return nil, err
	}

	details := fmt.Sprintf("Saving of %.0f recorded for %s", amount, member.Name)
	if err := s.auditRepo.Append(ctx, domain.AuditSavingRecorded, details, userRole); err != nil {
		return nil, err
	}

	s.notifier.notifySavingChanged(member.ID)
	return saving, nil
}

// AddWithdrawal records a withdrawal for a member. The amount must not
// exceed the member's savings minus prior withdrawals; the guard runs
// at creation only, so savings removed later do not invalidate the row.
func (s *SavingService) AddWithdrawal(ctx context.Context, memberID string, amount float64, withdrawalDate string, userRole string) (*domain.Withdrawal, error) {
	if amount <= 0 {
		return nil, domain.ErrInvalidInput
	}

	member, err := s.memberRepo.GetByID(ctx, memberID)
	if err != nil {
		return nil, err
	}

	saved, err := s.savingRepo.TotalByMemberID(ctx, member.ID)
	if err != nil {
		return nil, err
	}
	withdrawn, err := s.withdrawalRepo.TotalByMemberID(ctx, member.ID)
	if err != nil {
		return nil, err
	}
	if amount > saved-withdrawn {
		return nil, domain.ErrInsufficientSavings
	}

	date, err := parseLoanDate(withdrawalDate)
	if err != nil {
		return nil, domain.ErrInvalidInput
	}

	withdrawal := &domain.Withdrawal{
		ID:             uuid.New().String(),
		MemberID:       member.ID,
		Amount:         amount,
		WithdrawalDate: date.Format(finance.DateLayout),
		CreatedAt:      time.Now(),
	}

	if err := s.withdrawalRepo.Create(ctx, withdrawal); err != nil {
		return nil, err
	}

	details := fmt.Sprintf("Withdrawal of %.0f recorded for %s", amount, member.Name)
	if err := s.auditRepo.Append(ctx, domain.AuditWithdrawalRecorded, details, userRole); err != nil {
		return nil, err
	}

	s.notifier.notifySavingChanged(member.ID)
	return withdrawal, nil
}

// GetSavingsByMember returns a member's deposits oldest first
func (s *SavingService) GetSavingsByMember(ctx context.Context, memberID string) ([]*domain.Saving, error) {
	if _, err := s.memberRepo.GetByID(ctx, memberID); err != nil {
		return nil, err
	}
	return s.savingRepo.GetByMemberID(ctx, memberID)
}

// GetWithdrawalsByMember returns a member's withdrawals oldest first
func (s *SavingService) GetWithdrawalsByMember(ctx context.Context, memberID string) ([]*domain.Withdrawal, error) {
	if _, err := s.memberRepo.GetByID(ctx, memberID); err != nil {
		return nil, err
	}
	return s.withdrawalRepo.GetByMemberID(ctx, memberID)
}

// GetAllSavings returns every deposit in the ledger
func (s *SavingService) GetAllSavings(ctx context.Context) ([]*domain.Saving, error) {
	return s.savingRepo.GetAll(ctx)
}

// GetAllWithdrawals returns every withdrawal in the ledger
func (s *SavingService) GetAllWithdrawals(ctx context.Context) ([]*domain.Withdrawal, error) {
	return s.withdrawalRepo.GetAll(ctx)
}

// MemberBalance returns a member's savings minus withdrawals
func (s *SavingService) MemberBalance(ctx context.Context, memberID string) (float64, error) {
	saved, err := s.savingRepo.TotalByMemberID(ctx, memberID)
	if err != nil {
		return 0, err
	}
	withdrawn, err := s.withdrawalRepo.TotalByMemberID(ctx, memberID)
	if err != nil {
		return 0, err
	}
	return saved - withdrawn, nil
}
