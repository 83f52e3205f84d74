package services

import (
	"context"
	"errors"
	"testing"

	"github.com/PositiveMinds/Together-As-One-SACCO/internal/core/domain"
)

func activeLoan() *domain.Loan {
	// Owes 850,000 + 85,000 interest = 935,000
	return &domain.Loan{
		ID:           "l1",
		MemberID:     "m1",
		BorrowerType: domain.BorrowerMember,
		Amount:       850_000,
		Term:         6,
		InterestRate: 20,
		DueDate:      "2024-12-01",
		Status:       domain.LoanActive,
	}
}

func TestValidatePayment(t *testing.T) {
	svc := newFixtures().paymentService()
	loan := activeLoan()

	tests := []struct {
		name   string
		amount float64
		want   error
	}{
		{"zero amount", 0, domain.ErrInvalidInput},
		{"negative amount", -100, domain.ErrInvalidInput},
		{"within balance", 500_000, nil},
		{"exact remaining balance", 935_000, nil},
		{"one over remaining", 935_001, domain.ErrExceedsBalance},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := svc.Validate(loan, tt.amount)
			if !errors.Is(err, tt.want) {
				t.Errorf("Validate(%.0f) = %v, want %v", tt.amount, err, tt.want)
			}
		})
	}
}

func TestValidatePaymentCountsPenaltyAndPaid(t *testing.T) {
	svc := newFixtures().paymentService()
	loan := activeLoan()
	loan.Penalty = 42_500
	loan.Paid = 100_000
	// Remaining: 935,000 + 42,500 - 100,000 = 877,500

	if err := svc.Validate(loan, 877_500); err != nil {
		t.Errorf("exact remaining with penalty rejected: %v", err)
	}
	if err := svc.Validate(loan, 877_501); !errors.Is(err, domain.ErrExceedsBalance) {
		t.Errorf("over remaining accepted, err = %v", err)
	}
}

func TestApplyPayment(t *testing.T) {
	f := newFixtures()
	f.loans.loans = append(f.loans.loans, activeLoan())

	var recorded *domain.Payment
	f.notifier.OnPaymentRecorded(func(p *domain.Payment) { recorded = p })

	payment, err := f.paymentService().Apply(context.Background(), "l1", 300_000, "2024-06-15", "TREASURER")
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}

	loan, _ := f.loans.GetByID(context.Background(), "l1")
	if loan.Paid != 300_000 {
		t.Errorf("paid = %.0f, want 300000", loan.Paid)
	}
	if loan.Status != domain.LoanActive {
		t.Errorf("status = %s, want still active", loan.Status)
	}
	if len(f.payments.payments) != 1 || f.payments.payments[0].Amount != 300_000 {
		t.Fatalf("payment row not written: %+v", f.payments.payments)
	}
	if recorded == nil || recorded.ID != payment.ID {
		t.Error("payment-recorded callback did not fire")
	}
	if f.audit.lastAction() != domain.AuditPaymentRecorded {
		t.Errorf("audit action = %s, want PAYMENT_RECORDED", f.audit.lastAction())
	}
}

func TestApplyPaymentCompletesLoan(t *testing.T) {
	f := newFixtures()
	f.loans.loans = append(f.loans.loans, activeLoan())
	svc := f.paymentService()

	if _, err := svc.Apply(context.Background(), "l1", 900_000, "2024-06-15", "ADMIN"); err != nil {
		t.Fatalf("Apply: %v", err)
	}
	loan, _ := f.loans.GetByID(context.Background(), "l1")
	if loan.Status != domain.LoanActive {
		t.Fatalf("partially repaid loan flipped to %s", loan.Status)
	}

	if _, err := svc.Apply(context.Background(), "l1", 35_000, "2024-07-15", "ADMIN"); err != nil {
		t.Fatalf("settling payment: %v", err)
	}
	loan, _ = f.loans.GetByID(context.Background(), "l1")
	if loan.Status != domain.LoanCompleted {
		t.Errorf("status = %s, want completed after full repayment", loan.Status)
	}
}

func TestApplyPaymentUnknownLoan(t *testing.T) {
	f := newFixtures()
	_, err := f.paymentService().Apply(context.Background(), "ghost", 1_000, "", "ADMIN")
	if !errors.Is(err, domain.ErrLoanNotFound) {
		t.Errorf("err = %v, want loan not found", err)
	}
}

func TestPrincipalInterestSplit(t *testing.T) {
	svc := newFixtures().paymentService()
	// 1,000,000 at 2% over 12 months: total payable 1,020,000,
	// ratio 1000000/1020000
	loan := &domain.Loan{Amount: 1_000_000, Term: 12, InterestRate: 2}

	principal, interest := svc.PrincipalInterestSplit(loan, 102_000)
	if diff := principal - 100_000; diff > 1e-6 || diff < -1e-6 {
		t.Errorf("principal = %.2f, want 100000", principal)
	}
	if diff := interest - 2_000; diff > 1e-6 || diff < -1e-6 {
		t.Errorf("interest = %.2f, want 2000", interest)
	}
}
