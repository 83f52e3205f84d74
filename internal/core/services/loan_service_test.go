package services

import (
	"context"
	"errors"
	"testing"

	"github.com/PositiveMinds/Together-As-One-SACCO/internal/core/domain"
)

func TestOriginateResolvesRateFromPolicy(t *testing.T) {
	f := newFixtures()
	f.addMember("m1", "Grace Okello")
	f.addSaving("m1", 2_000_000, "2024-01-05")

	loan, err := f.loanService().Originate(context.Background(), OriginateLoanInput{
		MemberID:     "m1",
		BorrowerType: domain.BorrowerMember,
		LoanType:     domain.LoanTypeEmergency,
		Amount:       500_000,
		Term:         6,
		LoanDate:     "2024-02-01",
	}, "ADMIN")
	if err != nil {
		t.Fatalf("Originate: %v", err)
	}

	if loan.InterestRate != 5 {
		t.Errorf("rate = %.2f, want 5 (emergency policy)", loan.InterestRate)
	}
	if loan.Status != domain.LoanActive {
		t.Errorf("status = %s, want active", loan.Status)
	}
	if loan.DueDate != "2024-08-01" {
		t.Errorf("due date = %s, want 2024-08-01", loan.DueDate)
	}
	if f.audit.lastAction() != domain.AuditLoanCreated {
		t.Errorf("audit action = %s, want LOAN_CREATED", f.audit.lastAction())
	}
}

func TestOriginateBorrowerValidation(t *testing.T) {
	f := newFixtures()
	f.addMember("m1", "Grace Okello")
	f.addSaving("m1", 2_000_000, "2024-01-05")
	svc := f.loanService()

	tests := []struct {
		name  string
		input OriginateLoanInput
		want  error
	}{
		{
			name:  "member loan without member id",
			input: OriginateLoanInput{BorrowerType: domain.BorrowerMember, LoanType: domain.LoanTypeNormal, Amount: 1000, Term: 6},
			want:  domain.ErrInvalidBorrower,
		},
		{
			name:  "member loan with borrower name",
			input: OriginateLoanInput{MemberID: "m1", BorrowerName: "Someone", BorrowerType: domain.BorrowerMember, LoanType: domain.LoanTypeNormal, Amount: 1000, Term: 6},
			want:  domain.ErrInvalidBorrower,
		},
		{
			name:  "non-member loan without name",
			input: OriginateLoanInput{BorrowerType: domain.BorrowerNonMember, LoanType: domain.LoanTypeNonMember, Amount: 1000, Term: 6},
			want:  domain.ErrInvalidBorrower,
		},
		{
			name:  "non-member borrower on members-only type",
			input: OriginateLoanInput{BorrowerName: "John Doe", BorrowerType: domain.BorrowerNonMember, LoanType: domain.LoanTypeNormal, Amount: 1000, Term: 6},
			want:  domain.ErrInvalidBorrower,
		},
		{
			name:  "unknown member",
			input: OriginateLoanInput{MemberID: "ghost", BorrowerType: domain.BorrowerMember, LoanType: domain.LoanTypeNormal, Amount: 1000, Term: 6},
			want:  domain.ErrMemberNotFound,
		},
		{
			name:  "zero amount",
			input: OriginateLoanInput{MemberID: "m1", BorrowerType: domain.BorrowerMember, LoanType: domain.LoanTypeNormal, Term: 6},
			want:  domain.ErrInvalidInput,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Originate(context.Background(), tt.input, "ADMIN")
			if !errors.Is(err, tt.want) {
				t.Errorf("err = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestOriginateRejectedBySolvency(t *testing.T) {
	f := newFixtures()
	f.addMember("m1", "Grace Okello")
	f.addSaving("m1", 400_000, "2024-01-05")

	_, err := f.loanService().Originate(context.Background(), OriginateLoanInput{
		MemberID:     "m1",
		BorrowerType: domain.BorrowerMember,
		LoanType:     domain.LoanTypeNormal,
		Amount:       400_001,
		Term:         12,
	}, "ADMIN")
	if !errors.Is(err, domain.ErrSolvencyExceeded) {
		t.Fatalf("err = %v, want solvency rejection", err)
	}
	if len(f.loans.loans) != 0 {
		t.Error("rejected loan was persisted")
	}
}

func TestTopUpExtendsFromCurrentDueDate(t *testing.T) {
	f := newFixtures()
	f.addSaving("m1", 5_000_000, "2024-01-05")
	f.loans.loans = append(f.loans.loans, &domain.Loan{
		ID:           "l1",
		MemberID:     "m1",
		BorrowerType: domain.BorrowerMember,
		LoanType:     domain.LoanTypeNormal,
		Amount:       1_000_000,
		Term:         12,
		InterestRate: 2,
		LoanDate:     "2024-01-01",
		DueDate:      "2025-01-01",
		Status:       domain.LoanActive,
	})
	svc := f.loanService()

	// 500,000 on a 1,000,000 12-month loan adds ceil(12 * 0.5) = 6 months
	loan, err := svc.TopUp(context.Background(), "l1", 500_000, "2024-06-01", "ADMIN")
	if err != nil {
		t.Fatalf("TopUp: %v", err)
	}
	if loan.Amount != 1_500_000 {
		t.Errorf("amount = %.0f, want 1500000", loan.Amount)
	}
	if loan.DueDate != "2025-07-01" {
		t.Errorf("due date = %s, want 2025-07-01", loan.DueDate)
	}
	if len(loan.TopUps) != 1 || loan.TopUps[0].Amount != 500_000 {
		t.Fatalf("top-up history not recorded: %+v", loan.TopUps)
	}

	// A second top-up computes against the principal as raised by the
	// first one: ceil(12 * 500,000/1,500,000) = 4 months, extending the
	// already-extended due date.
	loan, err = svc.TopUp(context.Background(), "l1", 500_000, "2024-08-01", "ADMIN")
	if err != nil {
		t.Fatalf("second TopUp: %v", err)
	}
	if loan.DueDate != "2025-11-01" {
		t.Errorf("due date after second top-up = %s, want 2025-11-01", loan.DueDate)
	}
	if len(loan.TopUps) != 2 {
		t.Errorf("top-up history length = %d, want 2", len(loan.TopUps))
	}
}

func TestTopUpChecksOnlyExtraAmount(t *testing.T) {
	f := newFixtures()
	f.addSaving("m1", 1_000_000, "2024-01-05")
	f.loans.loans = append(f.loans.loans, &domain.Loan{
		ID:           "l1",
		MemberID:     "m1",
		BorrowerType: domain.BorrowerMember,
		LoanType:     domain.LoanTypeNormal,
		Amount:       700_000,
		Term:         12,
		InterestRate: 2,
		LoanDate:     "2024-01-01",
		DueDate:      "2025-01-01",
		Status:       domain.LoanActive,
	})
	svc := f.loanService()

	// The loan's own 700,000 is excluded from the pool, so the full
	// 1,000,000 of savings backs the top-up.
	loan, err := svc.TopUp(context.Background(), "l1", 500_000, "2024-06-01", "ADMIN")
	if err != nil {
		t.Fatalf("TopUp within pool: %v", err)
	}
	if loan.Amount != 1_200_000 {
		t.Errorf("amount = %.0f, want 1200000", loan.Amount)
	}

	// Anything beyond the remaining pool is rejected.
	_, err = svc.TopUp(context.Background(), "l1", 1_000_001, "2024-07-01", "ADMIN")
	if !errors.Is(err, domain.ErrSolvencyExceeded) {
		t.Fatalf("err = %v, want solvency rejection", err)
	}
}

func TestTopUpReopensCompletedLoan(t *testing.T) {
	f := newFixtures()
	f.addSaving("m1", 5_000_000, "2024-01-05")
	// Fully settled loan: 100,000 at 2% over 12 months owes 102,000
	f.loans.loans = append(f.loans.loans, &domain.Loan{
		ID:           "l1",
		MemberID:     "m1",
		BorrowerType: domain.BorrowerMember,
		Amount:       100_000,
		Term:         12,
		InterestRate: 2,
		DueDate:      "2024-12-01",
		Paid:         102_000,
		Status:       domain.LoanCompleted,
	})

	loan, err := f.loanService().TopUp(context.Background(), "l1", 50_000, "2024-06-01", "ADMIN")
	if err != nil {
		t.Fatalf("TopUp: %v", err)
	}
	if loan.Status != domain.LoanActive {
		t.Errorf("status = %s, want active after top-up raised the total owed", loan.Status)
	}
}

func TestRescheduleOverwritesUnconditionally(t *testing.T) {
	f := newFixtures()
	f.loans.loans = append(f.loans.loans, &domain.Loan{
		ID: "l1", Amount: 100_000, Term: 12, InterestRate: 2,
		DueDate: "2024-12-01", Status: domain.LoanActive,
	})

	// Moving the due date backwards and dropping the rate to zero are
	// both allowed.
	loan, err := f.loanService().Reschedule(context.Background(), "l1", "2024-01-15", 0, "ADMIN")
	if err != nil {
		t.Fatalf("Reschedule: %v", err)
	}
	if loan.DueDate != "2024-01-15" || loan.InterestRate != 0 {
		t.Errorf("got dueDate=%s rate=%.2f, want 2024-01-15 and 0", loan.DueDate, loan.InterestRate)
	}
	if f.audit.lastAction() != domain.AuditLoanRescheduled {
		t.Errorf("audit action = %s, want LOAN_RESCHEDULED", f.audit.lastAction())
	}

	// Even a negative rate goes through; the overwrite has no validation.
	loan, err = f.loanService().Reschedule(context.Background(), "l1", "2025-06-01", -1, "ADMIN")
	if err != nil {
		t.Fatalf("Reschedule with negative rate: %v", err)
	}
	if loan.InterestRate != -1 {
		t.Errorf("rate = %.2f, want -1", loan.InterestRate)
	}
}

func TestApplyPenaltyAccumulates(t *testing.T) {
	f := newFixtures()
	f.loans.loans = append(f.loans.loans, &domain.Loan{
		ID: "l1", Amount: 200_000, Term: 12, InterestRate: 2,
		DueDate: "2024-01-01", Status: domain.LoanActive,
	})
	svc := f.loanService()

	loan, err := svc.ApplyPenalty(context.Background(), "l1", "ADMIN")
	if err != nil {
		t.Fatalf("ApplyPenalty: %v", err)
	}
	if loan.Penalty != 10_000 {
		t.Errorf("penalty = %.0f, want 10000", loan.Penalty)
	}

	// No guard against charging the same period twice
	loan, err = svc.ApplyPenalty(context.Background(), "l1", "ADMIN")
	if err != nil {
		t.Fatalf("second ApplyPenalty: %v", err)
	}
	if loan.Penalty != 20_000 {
		t.Errorf("penalty after second application = %.0f, want 20000", loan.Penalty)
	}
}

func TestDeleteLoanCascadesPayments(t *testing.T) {
	f := newFixtures()
	f.loans.loans = append(f.loans.loans, &domain.Loan{ID: "l1", Amount: 100_000, Term: 6, Status: domain.LoanActive})
	f.payments.payments = append(f.payments.payments,
		&domain.Payment{ID: "p1", LoanID: "l1", Amount: 10_000},
		&domain.Payment{ID: "p2", LoanID: "l2", Amount: 5_000},
	)

	if err := f.loanService().Delete(context.Background(), "l1", "ADMIN"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if len(f.loans.loans) != 0 {
		t.Error("loan not removed")
	}
	if len(f.payments.payments) != 1 || f.payments.payments[0].LoanID != "l2" {
		t.Errorf("cascade removed wrong payments: %+v", f.payments.payments)
	}
}
