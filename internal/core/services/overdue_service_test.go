package services

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/PositiveMinds/Together-As-One-SACCO/internal/core/domain"
)

func TestScanOverdueLoans(t *testing.T) {
	f := newFixtures()
	f.addMember("m1", "Grace Okello")
	f.loans.loans = append(f.loans.loans,
		&domain.Loan{ID: "l1", MemberID: "m1", BorrowerType: domain.BorrowerMember, Amount: 100_000, Term: 6, InterestRate: 2, DueDate: "2024-01-01", Status: domain.LoanActive},
		&domain.Loan{ID: "l2", MemberID: "m1", BorrowerType: domain.BorrowerMember, Amount: 100_000, Term: 6, InterestRate: 2, DueDate: "2024-12-01", Status: domain.LoanActive},
		&domain.Loan{ID: "l3", MemberID: "m1", BorrowerType: domain.BorrowerMember, Amount: 100_000, Term: 6, InterestRate: 2, DueDate: "2023-06-01", Status: domain.LoanCompleted},
	)

	svc := NewOverdueService(f.loans, f.members, f.audit)
	asOf := time.Date(2024, 6, 1, 8, 30, 0, 0, time.UTC)
	if err := svc.ScanOverdueLoans(context.Background(), asOf); err != nil {
		t.Fatalf("ScanOverdueLoans: %v", err)
	}

	var reminders []auditEntry
	for _, e := range f.audit.entries {
		if e.action == domain.AuditOverdueReminder {
			reminders = append(reminders, e)
		}
	}
	if len(reminders) != 1 {
		t.Fatalf("got %d reminders, want 1 (only the overdue active loan)", len(reminders))
	}
	if !strings.Contains(reminders[0].details, "l1") {
		t.Errorf("reminder does not name the loan: %q", reminders[0].details)
	}
	if !strings.Contains(reminders[0].details, "Grace Okello") {
		t.Errorf("reminder does not name the borrower: %q", reminders[0].details)
	}
}

func TestScanOverdueLoansNoneOverdue(t *testing.T) {
	f := newFixtures()
	f.loans.loans = append(f.loans.loans,
		&domain.Loan{ID: "l1", Amount: 100_000, Term: 6, DueDate: "2030-01-01", Status: domain.LoanActive},
	)

	svc := NewOverdueService(f.loans, f.members, f.audit)
	if err := svc.ScanOverdueLoans(context.Background(), time.Now()); err != nil {
		t.Fatalf("ScanOverdueLoans: %v", err)
	}
	if len(f.audit.entries) != 0 {
		t.Errorf("wrote %d audit entries for a healthy book", len(f.audit.entries))
	}
}
