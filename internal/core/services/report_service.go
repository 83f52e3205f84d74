package services

import (
	"context"
	"math"
	"sort"
	"time"

	"github.com/PositiveMinds/Together-As-One-SACCO/internal/adapters/persistence/repositories"
	"github.com/PositiveMinds/Together-As-One-SACCO/internal/core/domain"
	"github.com/PositiveMinds/Together-As-One-SACCO/internal/core/finance"
)

const (
	topMembersLimit     = 8
	rankingLimit        = 20
	recentActivityLimit = 10
	savingsTrendDays    = 12
)

// ReportService derives every reporting figure by re-scanning the full
// entity set on each call. No caching: two calls over the same data
// return identical results regardless of insertion order.
type ReportService struct {
	memberRepo     repositories.MemberRepository
	loanRepo       repositories.LoanRepository
	paymentRepo    repositories.PaymentRepository
	savingRepo     repositories.SavingRepository
	withdrawalRepo repositories.WithdrawalRepository
	solvency       *SolvencyService
}

// NewReportService creates a new report service
func NewReportService(
	memberRepo repositories.MemberRepository,
	loanRepo repositories.LoanRepository,
	paymentRepo repositories.PaymentRepository,
	savingRepo repositories.SavingRepository,
	withdrawalRepo repositories.WithdrawalRepository,
	solvency *SolvencyService,
) *ReportService {
	return &ReportService{
		memberRepo:     memberRepo,
		loanRepo:       loanRepo,
		paymentRepo:    paymentRepo,
		savingRepo:     savingRepo,
		withdrawalRepo: withdrawalRepo,
		solvency:       solvency,
	}
}

// ============================================================
// Waterfall
// ============================================================

// WaterfallReport shows the additive steps from money lent to the
// cooperative's net position
type WaterfallReport struct {
	TotalLoaned    float64 `json:"total_loaned"`
	TotalRepaid    float64 `json:"total_repaid"`
	InterestEarned float64 `json:"interest_earned"`
	Outstanding    float64 `json:"outstanding"`
	NetSavings     float64 `json:"net_savings"`
	NetPosition    float64 `json:"net_position"`
}

// Waterfall computes the waterfall totals over every loan, payment,
// saving and withdrawal
func (s *ReportService) Waterfall(ctx context.Context) (*WaterfallReport, error) {
	loans, err := s.loanRepo.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	payments, err := s.paymentRepo.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	totalSavings, err := s.savingRepo.Total(ctx)
	if err != nil {
		return nil, err
	}
	totalWithdrawals, err := s.withdrawalRepo.Total(ctx)
	if err != nil {
		return nil, err
	}

	report := &WaterfallReport{}
	for _, loan := range loans {
		report.TotalLoaned += loan.Amount
		report.InterestEarned += finance.TotalInterest(loan.Amount, loan.InterestRate, loan.Term)
	}
	for _, p := range payments {
		report.TotalRepaid += p.Amount
	}
	report.Outstanding = report.TotalLoaned - report.TotalRepaid
	report.NetSavings = totalSavings - totalWithdrawals
	report.NetPosition = report.TotalRepaid + report.InterestEarned + report.NetSavings - report.Outstanding
	return report, nil
}

// ============================================================
// Rankings
// ============================================================

// MemberMetric is one ranked row: a member (or non-member borrower)
// and an aggregated amount
type MemberMetric struct {
	MemberID string  `json:"member_id,omitempty"`
	Name     string  `json:"name"`
	Total    float64 `json:"total"`
}

// TopMembersBySavings returns the top savers, descending, ties kept in
// first-deposit order
func (s *ReportService) TopMembersBySavings(ctx context.Context) ([]MemberMetric, error) {
	members, err := s.memberRepo.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	savings, err := s.savingRepo.GetAll(ctx)
	if err != nil {
		return nil, err
	}

	names := memberNameIndex(members)
	totals := make(map[string]float64)
	var order []string
	for _, sv := range savings {
		if _, seen := totals[sv.MemberID]; !seen {
			order = append(order, sv.MemberID)
		}
		totals[sv.MemberID] += sv.Amount
	}

	ranked := make([]MemberMetric, 0, len(order))
	for _, id := range order {
		ranked = append(ranked, MemberMetric{MemberID: id, Name: names[id], Total: totals[id]})
	}
	sort.SliceStable(ranked, func(i, j int) bool { return ranked[i].Total > ranked[j].Total })
	return truncateMetrics(ranked, topMembersLimit), nil
}

// RankingByOutstanding ranks borrowers by what they still owe in
// principal terms (amount minus paid), descending
func (s *ReportService) RankingByOutstanding(ctx context.Context) ([]MemberMetric, error) {
	members, err := s.memberRepo.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	loans, err := s.loanRepo.GetAll(ctx)
	if err != nil {
		return nil, err
	}

	names := memberNameIndex(members)
	totals := make(map[string]float64)
	labels := make(map[string]string)
	var order []string
	for _, loan := range loans {
		key, label := borrowerKey(loan, names)
		if _, seen := totals[key]; !seen {
			order = append(order, key)
			labels[key] = label
		}
		totals[key] += loan.Amount - loan.Paid
	}

	ranked := make([]MemberMetric, 0, len(order))
	for _, key := range order {
		ranked = append(ranked, MemberMetric{MemberID: memberIDFromKey(key), Name: labels[key], Total: totals[key]})
	}
	sort.SliceStable(ranked, func(i, j int) bool { return ranked[i].Total > ranked[j].Total })
	return truncateMetrics(ranked, rankingLimit), nil
}

// ============================================================
// Period comparison
// ============================================================

// PeriodBucket is one labeled slice of a comparison period
type PeriodBucket struct {
	Label string  `json:"label"`
	Total float64 `json:"total"`
}

// PeriodComparisonReport compares savings across the current and
// previous period, always full-length and zero-filled
type PeriodComparisonReport struct {
	Period   string         `json:"period"`
	Current  []PeriodBucket `json:"current"`
	Previous []PeriodBucket `json:"previous"`
}

// MonthlyComparison buckets savings of the current and previous
// calendar month by week of month (ceil(day/7), days 29 to 31 fold
// into week 4). Empty weeks stay at zero.
func (s *ReportService) MonthlyComparison(ctx context.Context, now time.Time) (*PeriodComparisonReport, error) {
	savings, err := s.savingRepo.GetAll(ctx)
	if err != nil {
		return nil, err
	}

	curYear, curMonth, _ := now.Date()
	prev := now.AddDate(0, -1, -now.Day()+1)
	prevYear, prevMonth, _ := prev.Date()

	report := &PeriodComparisonReport{
		Period:   "monthly",
		Current:  weekBuckets(),
		Previous: weekBuckets(),
	}
	for _, sv := range savings {
		date, err := time.Parse(finance.DateLayout, sv.SavingDate)
		if err != nil {
			continue
		}
		y, m, d := date.Date()
		week := int(math.Ceil(float64(d) / 7))
		if week > 4 {
			week = 4
		}
		switch {
		case y == curYear && m == curMonth:
			report.Current[week-1].Total += sv.Amount
		case y == prevYear && m == prevMonth:
			report.Previous[week-1].Total += sv.Amount
		}
	}
	return report, nil
}

// YearlyComparison buckets savings of the current and previous year by
// month, always 12 buckets each
func (s *ReportService) YearlyComparison(ctx context.Context, now time.Time) (*PeriodComparisonReport, error) {
	savings, err := s.savingRepo.GetAll(ctx)
	if err != nil {
		return nil, err
	}

	curYear := now.Year()
	report := &PeriodComparisonReport{
		Period:   "yearly",
		Current:  monthBuckets(),
		Previous: monthBuckets(),
	}
	for _, sv := range savings {
		date, err := time.Parse(finance.DateLayout, sv.SavingDate)
		if err != nil {
			continue
		}
		switch date.Year() {
		case curYear:
			report.Current[int(date.Month())-1].Total += sv.Amount
		case curYear - 1:
			report.Previous[int(date.Month())-1].Total += sv.Amount
		}
	}
	return report, nil
}

// ============================================================
// Repayment metrics
// ============================================================

// RepaymentMetric splits a borrower's repayments into principal and
// interest using each loan's fixed ratio. Figures are rounded to whole
// units.
type RepaymentMetric struct {
	MemberID      string  `json:"member_id,omitempty"`
	Name          string  `json:"name"`
	TotalPayable  float64 `json:"total_payable"`
	PrincipalPaid float64 `json:"principal_paid"`
	InterestPaid  float64 `json:"interest_paid"`
}

// RepaymentMetrics aggregates principal and interest repaid per
// borrower, top payers by total payable first
func (s *ReportService) RepaymentMetrics(ctx context.Context) ([]RepaymentMetric, error) {
	members, err := s.memberRepo.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	loans, err := s.loanRepo.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	payments, err := s.paymentRepo.GetAll(ctx)
	if err != nil {
		return nil, err
	}

	paidByLoan := make(map[string]float64)
	for _, p := range payments {
		paidByLoan[p.LoanID] += p.Amount
	}

	names := memberNameIndex(members)
	byBorrower := make(map[string]*RepaymentMetric)
	var order []string
	for _, loan := range loans {
		key, label := borrowerKey(loan, names)
		metric, ok := byBorrower[key]
		if !ok {
			metric = &RepaymentMetric{MemberID: memberIDFromKey(key), Name: label}
			byBorrower[key] = metric
			order = append(order, key)
		}
		ratio := finance.PrincipalRatio(loan.Amount, loan.InterestRate, loan.Term)
		paid := paidByLoan[loan.ID]
		metric.TotalPayable += finance.TotalPayable(loan.Amount, loan.InterestRate, loan.Term)
		metric.PrincipalPaid += paid * ratio
		metric.InterestPaid += paid * (1 - ratio)
	}

	ranked := make([]RepaymentMetric, 0, len(order))
	for _, key := range order {
		m := byBorrower[key]
		m.TotalPayable = math.Round(m.TotalPayable)
		m.PrincipalPaid = math.Round(m.PrincipalPaid)
		m.InterestPaid = math.Round(m.InterestPaid)
		ranked = append(ranked, *m)
	}
	sort.SliceStable(ranked, func(i, j int) bool { return ranked[i].TotalPayable > ranked[j].TotalPayable })
	if len(ranked) > topMembersLimit {
		ranked = ranked[:topMembersLimit]
	}
	return ranked, nil
}

// ============================================================
// Profit distribution
// ============================================================

// ProfitShare is one borrower's interest contribution as a share of
// all interest
type ProfitShare struct {
	MemberID string  `json:"member_id,omitempty"`
	Name     string  `json:"name"`
	Interest float64 `json:"interest"`
	Percent  float64 `json:"percent"`
}

// ProfitsSummary totals interest across the loan book
type ProfitsSummary struct {
	TotalInterest  float64 `json:"total_interest"`
	LoanCount      int     `json:"loan_count"`
	AveragePerLoan float64 `json:"average_per_loan"`
}

// ProfitDistribution sums each borrower's interest and expresses it as
// a percentage of all interest earned
func (s *ReportService) ProfitDistribution(ctx context.Context) ([]ProfitShare, error) {
	members, err := s.memberRepo.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	loans, err := s.loanRepo.GetAll(ctx)
	if err != nil {
		return nil, err
	}

	names := memberNameIndex(members)
	byBorrower := make(map[string]float64)
	labels := make(map[string]string)
	var order []string
	var total float64
	for _, loan := range loans {
		key, label := borrowerKey(loan, names)
		if _, seen := byBorrower[key]; !seen {
			order = append(order, key)
			labels[key] = label
		}
		interest := finance.TotalInterest(loan.Amount, loan.InterestRate, loan.Term)
		byBorrower[key] += interest
		total += interest
	}

	shares := make([]ProfitShare, 0, len(order))
	for _, key := range order {
		share := ProfitShare{MemberID: memberIDFromKey(key), Name: labels[key], Interest: byBorrower[key]}
		if total > 0 {
			share.Percent = share.Interest / total * 100
		}
		shares = append(shares, share)
	}
	sort.SliceStable(shares, func(i, j int) bool { return shares[i].Interest > shares[j].Interest })
	return shares, nil
}

// GetProfitsSummary returns total and average interest over the loan book
func (s *ReportService) GetProfitsSummary(ctx context.Context) (*ProfitsSummary, error) {
	loans, err := s.loanRepo.GetAll(ctx)
	if err != nil {
		return nil, err
	}

	summary := &ProfitsSummary{LoanCount: len(loans)}
	for _, loan := range loans {
		summary.TotalInterest += finance.TotalInterest(loan.Amount, loan.InterestRate, loan.Term)
	}
	if summary.LoanCount > 0 {
		summary.AveragePerLoan = summary.TotalInterest / float64(summary.LoanCount)
	}
	return summary, nil
}

// ============================================================
// Dashboard
// ============================================================

// ActivityItem is one row of the recent-activity feed
type ActivityItem struct {
	Type        string    `json:"type"`
	Description string    `json:"description"`
	Amount      float64   `json:"amount"`
	CreatedAt   time.Time `json:"created_at"`
}

// DashboardStats is the headline dashboard payload
type DashboardStats struct {
	TotalMembers     int64          `json:"total_members"`
	ActiveLoans      int64          `json:"active_loans"`
	CompletedLoans   int64          `json:"completed_loans"`
	OverdueLoans     int64          `json:"overdue_loans"`
	TotalLoaned      float64        `json:"total_loaned"`
	TotalRepaid      float64        `json:"total_repaid"`
	TotalSavings     float64        `json:"total_savings"`
	TotalWithdrawals float64        `json:"total_withdrawals"`
	AvailablePool    float64        `json:"available_pool"`
	RecentActivity   []ActivityItem `json:"recent_activity"`
}

// GetDashboardStats assembles the headline counts, totals and the
// recent-activity feed
func (s *ReportService) GetDashboardStats(ctx context.Context, now time.Time) (*DashboardStats, error) {
	members, err := s.memberRepo.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	loans, err := s.loanRepo.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	payments, err := s.paymentRepo.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	savings, err := s.savingRepo.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	totalWithdrawals, err := s.withdrawalRepo.Total(ctx)
	if err != nil {
		return nil, err
	}
	pool, err := s.solvency.AvailablePool(ctx, "")
	if err != nil {
		return nil, err
	}

	names := memberNameIndex(members)
	stats := &DashboardStats{
		TotalMembers:     int64(len(members)),
		TotalWithdrawals: totalWithdrawals,
		AvailablePool:    pool,
	}

	var activity []ActivityItem
	for _, loan := range loans {
		stats.TotalLoaned += loan.Amount
		switch loan.Status {
		case domain.LoanActive:
			stats.ActiveLoans++
		case domain.LoanCompleted:
			stats.CompletedLoans++
		}
		if loanIsOverdue(loan, now) {
			stats.OverdueLoans++
		}
		_, label := borrowerKey(loan, names)
		activity = append(activity, ActivityItem{
			Type:        "loan",
			Description: "Loan issued to " + label,
			Amount:      loan.Amount,
			CreatedAt:   loan.CreatedAt,
		})
	}
	for _, p := range payments {
		stats.TotalRepaid += p.Amount
		activity = append(activity, ActivityItem{
			Type:        "payment",
			Description: "Payment received",
			Amount:      p.Amount,
			CreatedAt:   p.CreatedAt,
		})
	}
	for _, sv := range savings {
		stats.TotalSavings += sv.Amount
		activity = append(activity, ActivityItem{
			Type:        "saving",
			Description: "Saving by " + names[sv.MemberID],
			Amount:      sv.Amount,
			CreatedAt:   sv.CreatedAt,
		})
	}

	sort.SliceStable(activity, func(i, j int) bool { return activity[i].CreatedAt.After(activity[j].CreatedAt) })
	if len(activity) > recentActivityLimit {
		activity = activity[:recentActivityLimit]
	}
	stats.RecentActivity = activity
	return stats, nil
}

// ============================================================
// Savings trend
// ============================================================

// SavingsTrendPoint is one active saving day: that day's deposits,
// distinct savers, and the all-time running total up to that day
type SavingsTrendPoint struct {
	Date       string  `json:"date"`
	Total      float64 `json:"total"`
	Savers     int     `json:"savers"`
	Cumulative float64 `json:"cumulative"`
}

// SavingsTrend returns the last active saving days with per-day totals
// and a cumulative running balance. Days with no deposits are skipped.
func (s *ReportService) SavingsTrend(ctx context.Context) ([]SavingsTrendPoint, error) {
	savings, err := s.savingRepo.GetAll(ctx)
	if err != nil {
		return nil, err
	}

	totals := make(map[string]float64)
	savers := make(map[string]map[string]bool)
	for _, sv := range savings {
		totals[sv.SavingDate] += sv.Amount
		if savers[sv.SavingDate] == nil {
			savers[sv.SavingDate] = make(map[string]bool)
		}
		savers[sv.SavingDate][sv.MemberID] = true
	}

	dates := make([]string, 0, len(totals))
	for date := range totals {
		dates = append(dates, date)
	}
	sort.Strings(dates)

	points := make([]SavingsTrendPoint, 0, len(dates))
	var cumulative float64
	for _, date := range dates {
		cumulative += totals[date]
		points = append(points, SavingsTrendPoint{
			Date:       date,
			Total:      totals[date],
			Savers:     len(savers[date]),
			Cumulative: cumulative,
		})
	}
	if len(points) > savingsTrendDays {
		points = points[len(points)-savingsTrendDays:]
	}
	return points, nil
}

// ============================================================
// Helpers
// ============================================================

func memberNameIndex(members []*domain.Member) map[string]string {
	names := make(map[string]string, len(members))
	for _, m := range members {
		names[m.ID] = m.Name
	}
	return names
}

// borrowerKey groups loans by borrower. Member loans key on the member
// id; non-member loans key on the borrower name so distinct outsiders
// do not collapse into one row. Deleted members keep their id as label.
func borrowerKey(loan *domain.Loan, names map[string]string) (key, label string) {
	if loan.BorrowerType == domain.BorrowerMember {
		label = names[loan.MemberID]
		if label == "" {
			label = loan.MemberID
		}
		return "m:" + loan.MemberID, label
	}
	return "n:" + loan.BorrowerName, loan.BorrowerName
}

func memberIDFromKey(key string) string {
	if len(key) > 2 && key[:2] == "m:" {
		return key[2:]
	}
	return ""
}

func truncateMetrics(metrics []MemberMetric, limit int) []MemberMetric {
	if len(metrics) > limit {
		return metrics[:limit]
	}
	return metrics
}

func loanIsOverdue(loan *domain.Loan, asOf time.Time) bool {
	if loan.Status != domain.LoanActive {
		return false
	}
	dueDate, err := time.Parse(finance.DateLayout, loan.DueDate)
	if err != nil {
		return false
	}
	return finance.IsOverdue(dueDate, asOf)
}

func weekBuckets() []PeriodBucket {
	return []PeriodBucket{{Label: "Week 1"}, {Label: "Week 2"}, {Label: "Week 3"}, {Label: "Week 4"}}
}

func monthBuckets() []PeriodBucket {
	buckets := make([]PeriodBucket, 12)
	for i := 0; i < 12; i++ {
		buckets[i] = PeriodBucket{Label: time.Month(i + 1).String()}
	}
	return buckets
}
