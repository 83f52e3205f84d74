package services

import (
	"context"
	"strings"

	"github.com/PositiveMinds/Together-As-One-SACCO/internal/core/domain"
)

// In-memory repository fakes. Enough behavior to drive the services;
// no concurrency handling because each test owns its fixtures.

type memberRepoMock struct {
	members []*domain.Member
}

func (m *memberRepoMock) Create(_ context.Context, member *domain.Member) error {
	m.members = append(m.members, member)
	return nil
}

func (m *memberRepoMock) GetByID(_ context.Context, id string) (*domain.Member, error) {
	for _, mem := range m.members {
		if mem.ID == id {
			return mem, nil
		}
	}
	return nil, domain.ErrMemberNotFound
}

func (m *memberRepoMock) GetAll(_ context.Context) ([]*domain.Member, error) {
	return append([]*domain.Member{}, m.members...), nil
}

func (m *memberRepoMock) Update(_ context.Context, member *domain.Member) error {
	for i, mem := range m.members {
		if mem.ID == member.ID {
			m.members[i] = member
			return nil
		}
	}
	return domain.ErrMemberNotFound
}

func (m *memberRepoMock) Delete(_ context.Context, id string) error {
	for i, mem := range m.members {
		if mem.ID == id {
			m.members = append(m.members[:i], m.members[i+1:]...)
			return nil
		}
	}
	return domain.ErrMemberNotFound
}

func (m *memberRepoMock) List(_ context.Context, offset, limit int) ([]*domain.Member, int64, error) {
	total := int64(len(m.members))
	if offset >= len(m.members) {
		return []*domain.Member{}, total, nil
	}
	end := offset + limit
	if end > len(m.members) {
		end = len(m.members)
	}
	return m.members[offset:end], total, nil
}

func (m *memberRepoMock) Search(_ context.Context, query string, limit int) ([]*domain.Member, error) {
	var out []*domain.Member
	for _, mem := range m.members {
		if strings.Contains(strings.ToLower(mem.Name), strings.ToLower(query)) {
			out = append(out, mem)
		}
		if len(out) == limit {
			break
		}
	}
	return out, nil
}

type loanRepoMock struct {
	loans []*domain.Loan
}

func (m *loanRepoMock) Create(_ context.Context, loan *domain.Loan) error {
	m.loans = append(m.loans, loan)
	return nil
}

func (m *loanRepoMock) GetByID(_ context.Context, id string) (*domain.Loan, error) {
	for _, l := range m.loans {
		if l.ID == id {
			copied := *l
			return &copied, nil
		}
	}
	return nil, domain.ErrLoanNotFound
}

func (m *loanRepoMock) GetAll(_ context.Context) ([]*domain.Loan, error) {
	return append([]*domain.Loan{}, m.loans...), nil
}

func (m *loanRepoMock) GetByMemberID(_ context.Context, memberID string) ([]*domain.Loan, error) {
	var out []*domain.Loan
	for _, l := range m.loans {
		if l.MemberID == memberID {
			out = append(out, l)
		}
	}
	return out, nil
}

func (m *loanRepoMock) Update(_ context.Context, loan *domain.Loan) error {
	for i, l := range m.loans {
		if l.ID == loan.ID {
			m.loans[i] = loan
			return nil
		}
	}
	return domain.ErrLoanNotFound
}

func (m *loanRepoMock) Delete(_ context.Context, id string) error {
	for i, l := range m.loans {
		if l.ID == id {
			m.loans = append(m.loans[:i], m.loans[i+1:]...)
			return nil
		}
	}
	return domain.ErrLoanNotFound
}

func (m *loanRepoMock) List(_ context.Context, offset, limit int) ([]*domain.Loan, int64, error) {
	total := int64(len(m.loans))
	if offset >= len(m.loans) {
		return []*domain.Loan{}, total, nil
	}
	end := offset + limit
	if end > len(m.loans) {
		end = len(m.loans)
	}
	return m.loans[offset:end], total, nil
}

type loanTypeRepoMock struct {
	policies []*domain.LoanPolicy
}

func defaultPolicies() *loanTypeRepoMock {
	return &loanTypeRepoMock{policies: []*domain.LoanPolicy{
		{Code: domain.LoanTypeNormal, Name: "Normal Loan", InterestRate: 2, MembersOnly: true},
		{Code: domain.LoanTypeEmergency, Name: "Emergency Loan", InterestRate: 5, MembersOnly: true},
		{Code: domain.LoanTypeNonMember, Name: "Non-Member Loan", InterestRate: 10, MembersOnly: false},
	}}
}

func (m *loanTypeRepoMock) GetByCode(_ context.Context, code domain.LoanTypeCode) (*domain.LoanPolicy, error) {
	for _, p := range m.policies {
		if p.Code == code {
			return p, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (m *loanTypeRepoMock) GetAll(_ context.Context) ([]*domain.LoanPolicy, error) {
	return m.policies, nil
}

type paymentRepoMock struct {
	payments []*domain.Payment
}

func (m *paymentRepoMock) Create(_ context.Context, payment *domain.Payment) error {
	m.payments = append(m.payments, payment)
	return nil
}

func (m *paymentRepoMock) GetAll(_ context.Context) ([]*domain.Payment, error) {
	return append([]*domain.Payment{}, m.payments...), nil
}

func (m *paymentRepoMock) GetByLoanID(_ context.Context, loanID string) ([]*domain.Payment, error) {
	var out []*domain.Payment
	for _, p := range m.payments {
		if p.LoanID == loanID {
			out = append(out, p)
		}
	}
	return out, nil
}

func (m *paymentRepoMock) DeleteByLoanID(_ context.Context, loanID string) error {
	var kept []*domain.Payment
	for _, p := range m.payments {
		if p.LoanID != loanID {
			kept = append(kept, p)
		}
	}
	m.payments = kept
	return nil
}

type savingRepoMock struct {
	savings []*domain.Saving
}

func (m *savingRepoMock) Create(_ context.Context, saving *domain.Saving) error {
	m.savings = append(m.savings, saving)
	return nil
}

func (m *savingRepoMock) GetAll(_ context.Context) ([]*domain.Saving, error) {
	return append([]*domain.Saving{}, m.savings...), nil
}

func (m *savingRepoMock) GetByMemberID(_ context.Context, memberID string) ([]*domain.Saving, error) {
	var out []*domain.Saving
	for _, s := range m.savings {
		if s.MemberID == memberID {
			out = append(out, s)
		}
	}
	return out, nil
}

func (m *savingRepoMock) TotalByMemberID(_ context.Context, memberID string) (float64, error) {
	var total float64
	for _, s := range m.savings {
		if s.MemberID == memberID {
			total += s.Amount
		}
	}
	return total, nil
}

func (m *savingRepoMock) Total(_ context.Context) (float64, error) {
	var total float64
	for _, s := range m.savings {
		total += s.Amount
	}
	return total, nil
}

type withdrawalRepoMock struct {
	withdrawals []*domain.Withdrawal
}

func (m *withdrawalRepoMock) Create(_ context.Context, withdrawal *domain.Withdrawal) error {
	m.withdrawals = append(m.withdrawals, withdrawal)
	return nil
}

func (m *withdrawalRepoMock) GetAll(_ context.Context) ([]*domain.Withdrawal, error) {
	return append([]*domain.Withdrawal{}, m.withdrawals...), nil
}

func (m *withdrawalRepoMock) GetByMemberID(_ context.Context, memberID string) ([]*domain.Withdrawal, error) {
	var out []*domain.Withdrawal
	for _, w := range m.withdrawals {
		if w.MemberID == memberID {
			out = append(out, w)
		}
	}
	return out, nil
}

func (m *withdrawalRepoMock) TotalByMemberID(_ context.Context, memberID string) (float64, error) {
	var total float64
	for _, w := range m.withdrawals {
		if w.MemberID == memberID {
			total += w.Amount
		}
	}
	return total, nil
}

func (m *withdrawalRepoMock) Total(_ context.Context) (float64, error) {
	var total float64
	for _, w := range m.withdrawals {
		total += w.Amount
	}
	return total, nil
}

type auditEntry struct {
	action  domain.AuditAction
	details string
	role    string
}

type auditRepoMock struct {
	entries []auditEntry
}

func (m *auditRepoMock) Append(_ context.Context, action domain.AuditAction, details, userRole string) error {
	m.entries = append(m.entries, auditEntry{action: action, details: details, role: userRole})
	return nil
}

func (m *auditRepoMock) List(_ context.Context, offset, limit int) ([]*domain.AuditLogEntry, int64, error) {
	out := make([]*domain.AuditLogEntry, 0, len(m.entries))
	for i, e := range m.entries {
		out = append(out, &domain.AuditLogEntry{
			ID:       uint(i + 1),
			Action:   e.action,
			Details:  e.details,
			UserRole: e.role,
		})
	}
	return out, int64(len(out)), nil
}

func (m *auditRepoMock) lastAction() domain.AuditAction {
	if len(m.entries) == 0 {
		return ""
	}
	return m.entries[len(m.entries)-1].action
}

// fixture wiring shared across the service tests

type fixtures struct {
	members     *memberRepoMock
	loans       *loanRepoMock
	loanTypes   *loanTypeRepoMock
	payments    *paymentRepoMock
	savings     *savingRepoMock
	withdrawals *withdrawalRepoMock
	audit       *auditRepoMock
	notifier    *Notifier
}

func newFixtures() *fixtures {
	return &fixtures{
		members:     &memberRepoMock{},
		loans:       &loanRepoMock{},
		loanTypes:   defaultPolicies(),
		payments:    &paymentRepoMock{},
		savings:     &savingRepoMock{},
		withdrawals: &withdrawalRepoMock{},
		audit:       &auditRepoMock{},
		notifier:    NewNotifier(),
	}
}

func (f *fixtures) solvencyService() *SolvencyService {
	return NewSolvencyService(f.loans, f.savings, f.withdrawals)
}

func (f *fixtures) loanService() *LoanService {
	return NewLoanService(f.loans, f.loanTypes, f.members, f.payments, f.audit, f.solvencyService(), f.notifier)
}

func (f *fixtures) paymentService() *PaymentService {
	return NewPaymentService(f.payments, f.loans, f.audit, f.notifier)
}

func (f *fixtures) memberService() *MemberService {
	return NewMemberService(f.members, f.audit)
}

func (f *fixtures) savingService() *SavingService {
	return NewSavingService(f.savings, f.withdrawals, f.members, f.audit, f.notifier)
}

func (f *fixtures) reportService() *ReportService {
	return NewReportService(f.members, f.loans, f.payments, f.savings, f.withdrawals, f.solvencyService())
}

func (f *fixtures) addMember(id, name string) {
	f.members.members = append(f.members.members, &domain.Member{ID: id, Name: name, Email: strings.ToLower(name) + "@example.com"})
}

func (f *fixtures) addSaving(memberID string, amount float64, date string) {
	f.savings.savings = append(f.savings.savings, &domain.Saving{MemberID: memberID, Amount: amount, SavingDate: date})
}

func (f *fixtures) addWithdrawal(memberID string, amount float64) {
	f.withdrawals.withdrawals = append(f.withdrawals.withdrawals, &domain.Withdrawal{MemberID: memberID, Amount: amount})
}
