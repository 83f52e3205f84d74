package services

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/PositiveMinds/Together-As-One-SACCO/internal/adapters/persistence/repositories"
	"github.com/PositiveMinds/Together-As-One-SACCO/internal/core/domain"
	"github.com/PositiveMinds/Together-As-One-SACCO/internal/core/finance"

	"github.com/robfig/cron/v3"
)

// overdueScanSchedule fires the daily overdue scan at 08:30
const overdueScanSchedule = "30 8 * * *"

// OverdueService scans the loan book every morning and writes a
// reminder audit entry for each active loan past its due date. Scans
// are read-only apart from the audit trail; penalties stay manual.
type OverdueService struct {
	loanRepo   repositories.LoanRepository
	memberRepo repositories.MemberRepository
	auditRepo  repositories.AuditRepository
	cron       *cron.Cron
}

// NewOverdueService creates a new overdue service
func NewOverdueService(
	loanRepo repositories.LoanRepository,
	memberRepo repositories.MemberRepository,
	auditRepo repositories.AuditRepository,
) *OverdueService {
	return &OverdueService{
		loanRepo:   loanRepo,
		memberRepo: memberRepo,
		auditRepo:  auditRepo,
		cron:       cron.New(),
	}
}

// Start schedules the daily scan
func (s *OverdueService) Start() {
	_, err := s.cron.AddFunc(overdueScanSchedule, func() {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
		defer cancel()
		if err := s.ScanOverdueLoans(ctx, time.Now()); err != nil {
			log.Printf("Overdue scan failed: %v", err)
		}
	})
	if err != nil {
		log.Printf("Failed to schedule overdue scan: %v", err)
		return
	}
	s.cron.Start()
	log.Println("Overdue reminder scan scheduled (08:30 daily)")
}

// Stop halts the scheduler, waiting for a running scan to finish
func (s *OverdueService) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
}

// ScanOverdueLoans writes a reminder audit entry for every active loan
// whose due date has passed
func (s *OverdueService) ScanOverdueLoans(ctx context.Context, asOf time.Time) error {
	loans, err := s.loanRepo.GetAll(ctx)
	if err != nil {
		return err
	}
	members, err := s.memberRepo.GetAll(ctx)
	if err != nil {
		return err
	}
	names := memberNameIndex(members)

	count := 0
	for _, loan := range loans {
		if !loanIsOverdue(loan, asOf) {
			continue
		}
		dueDate, _ := time.Parse(finance.DateLayout, loan.DueDate)
		daysLate := -finance.DaysRemaining(dueDate, asOf)
		_, label := borrowerKey(loan, names)
		details := fmt.Sprintf("Loan %s (%s) is %d days overdue, balance %.0f",
			loan.ID, label, daysLate,
			finance.RemainingBalance(loan.Amount, loan.InterestRate, loan.Term, loan.Penalty, loan.Paid))
		if err := s.auditRepo.Append(ctx, domain.AuditOverdueReminder, details, string(domain.RoleAdmin)); err != nil {
			return err
		}
		count++
	}
	if count > 0 {
		log.Printf("Overdue scan recorded %d reminder(s)", count)
	}
	return nil
}
