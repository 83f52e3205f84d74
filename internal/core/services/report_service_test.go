package services

import (
	"context"
	"reflect"
	"testing"
	"time"

	"github.com/PositiveMinds/Together-As-One-SACCO/internal/core/domain"
)

func reportFixtures() *fixtures {
	f := newFixtures()
	f.addMember("m1", "Grace Okello")
	f.addMember("m2", "Deo Mugisha")
	f.addSaving("m1", 1_000_000, "2024-01-10")
	f.addSaving("m2", 400_000, "2024-01-15")
	f.addWithdrawal("m2", 100_000)
	f.loans.loans = append(f.loans.loans,
		// Interest: 1,000,000 * 2 * 12 / 1200 = 20,000
		&domain.Loan{ID: "l1", MemberID: "m1", BorrowerType: domain.BorrowerMember, Amount: 1_000_000, Term: 12, InterestRate: 2, DueDate: "2025-01-01", Paid: 300_000, Status: domain.LoanActive, CreatedAt: time.Date(2024, 1, 20, 0, 0, 0, 0, time.UTC)},
		// Interest: 200,000 * 10 * 6 / 1200 = 10,000
		&domain.Loan{ID: "l2", BorrowerName: "John Doe", BorrowerType: domain.BorrowerNonMember, Amount: 200_000, Term: 6, InterestRate: 10, DueDate: "2024-02-01", Paid: 50_000, Status: domain.LoanActive, CreatedAt: time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)},
	)
	f.payments.payments = append(f.payments.payments,
		&domain.Payment{ID: "p1", LoanID: "l1", Amount: 300_000, CreatedAt: time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)},
		&domain.Payment{ID: "p2", LoanID: "l2", Amount: 50_000, CreatedAt: time.Date(2024, 3, 2, 0, 0, 0, 0, time.UTC)},
	)
	return f
}

func TestWaterfall(t *testing.T) {
	svc := reportFixtures().reportService()

	report, err := svc.Waterfall(context.Background())
	if err != nil {
		t.Fatalf("Waterfall: %v", err)
	}

	want := WaterfallReport{
		TotalLoaned:    1_200_000,
		TotalRepaid:    350_000,
		InterestEarned: 30_000,
		Outstanding:    850_000,
		NetSavings:     1_300_000,
		NetPosition:    350_000 + 30_000 + 1_300_000 - 850_000,
	}
	if *report != want {
		t.Errorf("waterfall = %+v, want %+v", *report, want)
	}
}

func TestWaterfallIdempotent(t *testing.T) {
	svc := reportFixtures().reportService()

	first, err := svc.Waterfall(context.Background())
	if err != nil {
		t.Fatalf("Waterfall: %v", err)
	}
	second, err := svc.Waterfall(context.Background())
	if err != nil {
		t.Fatalf("Waterfall: %v", err)
	}
	if *first != *second {
		t.Errorf("repeated aggregation differs: %+v vs %+v", first, second)
	}
}

func TestTopMembersBySavings(t *testing.T) {
	f := reportFixtures()

	ranked, err := f.reportService().TopMembersBySavings(context.Background())
	if err != nil {
		t.Fatalf("TopMembersBySavings: %v", err)
	}
	if len(ranked) != 2 {
		t.Fatalf("got %d rows, want 2", len(ranked))
	}
	if ranked[0].Name != "Grace Okello" || ranked[0].Total != 1_000_000 {
		t.Errorf("top saver = %+v", ranked[0])
	}
	if ranked[1].Name != "Deo Mugisha" || ranked[1].Total != 400_000 {
		t.Errorf("second saver = %+v", ranked[1])
	}
}

func TestTopMembersTruncatesToLimit(t *testing.T) {
	f := newFixtures()
	for i := 0; i < 12; i++ {
		id := string(rune('a' + i))
		f.addMember(id, "Member "+id)
		f.addSaving(id, float64(1000*(i+1)), "2024-01-10")
	}

	ranked, err := f.reportService().TopMembersBySavings(context.Background())
	if err != nil {
		t.Fatalf("TopMembersBySavings: %v", err)
	}
	if len(ranked) != topMembersLimit {
		t.Errorf("got %d rows, want %d", len(ranked), topMembersLimit)
	}
	if ranked[0].Total != 12_000 {
		t.Errorf("top total = %.0f, want 12000", ranked[0].Total)
	}
}

func TestRankingByOutstandingStableTies(t *testing.T) {
	f := newFixtures()
	f.addMember("m1", "Grace Okello")
	f.addMember("m2", "Deo Mugisha")
	f.loans.loans = append(f.loans.loans,
		&domain.Loan{ID: "l1", MemberID: "m1", BorrowerType: domain.BorrowerMember, Amount: 500_000, Paid: 100_000, Status: domain.LoanActive},
		&domain.Loan{ID: "l2", MemberID: "m2", BorrowerType: domain.BorrowerMember, Amount: 450_000, Paid: 50_000, Status: domain.LoanActive},
	)

	ranked, err := f.reportService().RankingByOutstanding(context.Background())
	if err != nil {
		t.Fatalf("RankingByOutstanding: %v", err)
	}
	// Both owe 400,000: insertion order decides
	if len(ranked) != 2 || ranked[0].Name != "Grace Okello" || ranked[1].Name != "Deo Mugisha" {
		t.Errorf("tie order not stable: %+v", ranked)
	}
}

func TestMonthlyComparisonZeroFills(t *testing.T) {
	f := newFixtures()
	now := time.Date(2024, 6, 20, 0, 0, 0, 0, time.UTC)
	f.addSaving("m1", 10_000, "2024-06-03")  // week 1
	f.addSaving("m1", 20_000, "2024-06-10")  // week 2
	f.addSaving("m1", 5_000, "2024-06-30")   // day 30 folds into week 4
	f.addSaving("m1", 40_000, "2024-05-15")  // previous month, week 3
	f.addSaving("m1", 99_000, "2024-01-01")  // outside both months

	report, err := f.reportService().MonthlyComparison(context.Background(), now)
	if err != nil {
		t.Fatalf("MonthlyComparison: %v", err)
	}

	wantCurrent := []float64{10_000, 20_000, 0, 5_000}
	for i, want := range wantCurrent {
		if report.Current[i].Total != want {
			t.Errorf("current week %d = %.0f, want %.0f", i+1, report.Current[i].Total, want)
		}
	}
	wantPrevious := []float64{0, 0, 40_000, 0}
	for i, want := range wantPrevious {
		if report.Previous[i].Total != want {
			t.Errorf("previous week %d = %.0f, want %.0f", i+1, report.Previous[i].Total, want)
		}
	}
}

func TestYearlyComparisonAlwaysTwelveBuckets(t *testing.T) {
	f := newFixtures()
	now := time.Date(2024, 6, 20, 0, 0, 0, 0, time.UTC)
	f.addSaving("m1", 15_000, "2024-03-08")
	f.addSaving("m1", 25_000, "2023-11-20")

	report, err := f.reportService().YearlyComparison(context.Background(), now)
	if err != nil {
		t.Fatalf("YearlyComparison: %v", err)
	}
	if len(report.Current) != 12 || len(report.Previous) != 12 {
		t.Fatalf("bucket lengths = %d/%d, want 12/12", len(report.Current), len(report.Previous))
	}
	if report.Current[2].Total != 15_000 {
		t.Errorf("March current = %.0f, want 15000", report.Current[2].Total)
	}
	if report.Previous[10].Total != 25_000 {
		t.Errorf("November previous = %.0f, want 25000", report.Previous[10].Total)
	}
}

func TestRepaymentMetrics(t *testing.T) {
	svc := reportFixtures().reportService()

	metrics, err := svc.RepaymentMetrics(context.Background())
	if err != nil {
		t.Fatalf("RepaymentMetrics: %v", err)
	}
	if len(metrics) != 2 {
		t.Fatalf("got %d rows, want 2", len(metrics))
	}

	// l1: total payable 1,020,000, ratio 1000000/1020000, 300,000 paid
	grace := metrics[0]
	if grace.Name != "Grace Okello" {
		t.Fatalf("top payer = %q, want Grace Okello", grace.Name)
	}
	if grace.TotalPayable != 1_020_000 {
		t.Errorf("total payable = %.0f, want 1020000", grace.TotalPayable)
	}
	if grace.PrincipalPaid != 294_118 {
		t.Errorf("principal paid = %.0f, want 294118 (rounded)", grace.PrincipalPaid)
	}
	if grace.InterestPaid != 5_882 {
		t.Errorf("interest paid = %.0f, want 5882 (rounded)", grace.InterestPaid)
	}
}

func TestProfitDistribution(t *testing.T) {
	svc := reportFixtures().reportService()

	shares, err := svc.ProfitDistribution(context.Background())
	if err != nil {
		t.Fatalf("ProfitDistribution: %v", err)
	}
	if len(shares) != 2 {
		t.Fatalf("got %d rows, want 2", len(shares))
	}
	if shares[0].Name != "Grace Okello" || shares[0].Interest != 20_000 {
		t.Errorf("top share = %+v", shares[0])
	}
	wantPercent := 20_000.0 / 30_000.0 * 100
	if diff := shares[0].Percent - wantPercent; diff > 1e-9 || diff < -1e-9 {
		t.Errorf("percent = %.4f, want %.4f", shares[0].Percent, wantPercent)
	}

	summary, err := svc.GetProfitsSummary(context.Background())
	if err != nil {
		t.Fatalf("GetProfitsSummary: %v", err)
	}
	if summary.TotalInterest != 30_000 || summary.LoanCount != 2 || summary.AveragePerLoan != 15_000 {
		t.Errorf("summary = %+v", summary)
	}
}

func TestDashboardStats(t *testing.T) {
	f := reportFixtures()
	now := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)

	stats, err := f.reportService().GetDashboardStats(context.Background(), now)
	if err != nil {
		t.Fatalf("GetDashboardStats: %v", err)
	}

	if stats.TotalMembers != 2 {
		t.Errorf("members = %d", stats.TotalMembers)
	}
	if stats.ActiveLoans != 2 || stats.CompletedLoans != 0 {
		t.Errorf("loan counts = %d active / %d completed", stats.ActiveLoans, stats.CompletedLoans)
	}
	// l2 was due 2024-02-01
	if stats.OverdueLoans != 1 {
		t.Errorf("overdue = %d, want 1", stats.OverdueLoans)
	}
	// 1,400,000 savings - 100,000 withdrawals - 1,200,000 principal
	if stats.AvailablePool != 100_000 {
		t.Errorf("pool = %.0f, want 100000", stats.AvailablePool)
	}
	if len(stats.RecentActivity) == 0 {
		t.Fatal("no recent activity")
	}
	if stats.RecentActivity[0].Type != "payment" {
		t.Errorf("newest activity = %+v, want the March 2 payment", stats.RecentActivity[0])
	}
}

func TestSavingsTrendCumulative(t *testing.T) {
	f := newFixtures()
	f.addMember("m1", "Grace Okello")
	f.addMember("m2", "Deo Mugisha")
	f.addSaving("m1", 10_000, "2024-01-05")
	f.addSaving("m2", 5_000, "2024-01-05")
	f.addSaving("m1", 20_000, "2024-01-12")

	points, err := f.reportService().SavingsTrend(context.Background())
	if err != nil {
		t.Fatalf("SavingsTrend: %v", err)
	}

	want := []SavingsTrendPoint{
		{Date: "2024-01-05", Total: 15_000, Savers: 2, Cumulative: 15_000},
		{Date: "2024-01-12", Total: 20_000, Savers: 1, Cumulative: 35_000},
	}
	if !reflect.DeepEqual(points, want) {
		t.Errorf("trend = %+v, want %+v", points, want)
	}
}

func TestSavingsTrendKeepsLastActiveDays(t *testing.T) {
	f := newFixtures()
	for day := 1; day <= 15; day++ {
		f.addSaving("m1", 1_000, time.Date(2024, 3, day, 0, 0, 0, 0, time.UTC).Format("2006-01-02"))
	}

	points, err := f.reportService().SavingsTrend(context.Background())
	if err != nil {
		t.Fatalf("SavingsTrend: %v", err)
	}
	if len(points) != savingsTrendDays {
		t.Fatalf("got %d points, want %d", len(points), savingsTrendDays)
	}
	// Cumulative keeps counting from the trimmed days
	if points[len(points)-1].Cumulative != 15_000 {
		t.Errorf("final cumulative = %.0f, want 15000", points[len(points)-1].Cumulative)
	}
}
