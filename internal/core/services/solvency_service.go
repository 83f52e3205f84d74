package services

import (
	"context"

	"github.com/PositiveMinds/Together-As-One-SACCO/internal/adapters/persistence/repositories"
	"github.com/PositiveMinds/Together-As-One-SACCO/internal/core/domain"
)

// SolvencyService guards the cooperative lending pool. The pool is
// savings minus withdrawals minus the principal of every loan ever
// issued, regardless of status: repayments refill cash on hand but the
// committed principal stays counted until the loan is deleted.
type SolvencyService struct {
	loanRepo       repositories.LoanRepository
	savingRepo     repositories.SavingRepository
	withdrawalRepo repositories.WithdrawalRepository
}

// NewSolvencyService creates a new solvency service
func NewSolvencyService(
	loanRepo repositories.LoanRepository,
	savingRepo repositories.SavingRepository,
	withdrawalRepo repositories.WithdrawalRepository,
) *SolvencyService {
	return &SolvencyService{
		loanRepo:       loanRepo,
		savingRepo:     savingRepo,
		withdrawalRepo: withdrawalRepo,
	}
}

// AvailablePool returns the amount the cooperative can still lend.
// excludeLoanID, when non-empty, leaves that loan's principal out of the
// committed total so a top-up is judged against the pool without
// double-counting the loan being raised.
func (s *SolvencyService) AvailablePool(ctx context.Context, excludeLoanID string) (float64, error) {
	totalSavings, err := s.savingRepo.Total(ctx)
	if err != nil {
		return 0, err
	}
	totalWithdrawals, err := s.withdrawalRepo.Total(ctx)
	if err != nil {
		return 0, err
	}
	loans, err := s.loanRepo.GetAll(ctx)
	if err != nil {
		return 0, err
	}
	var committed float64
	for _, loan := range loans {
		if excludeLoanID != "" && loan.ID == excludeLoanID {
			continue
		}
		committed += loan.Amount
	}
	return totalSavings - totalWithdrawals - committed, nil
}

// CanIssue checks whether the pool covers the requested amount. The
// returned pool figure is reported to the caller on rejection so the
// error message can carry the exact available balance.
func (s *SolvencyService) CanIssue(ctx context.Context, amount float64, excludeLoanID string) (float64, error) {
	pool, err := s.AvailablePool(ctx, excludeLoanID)
	if err != nil {
		return 0, err
	}
	if amount > pool {
		return pool, domain.ErrSolvencyExceeded
	}
	return pool, nil
}
