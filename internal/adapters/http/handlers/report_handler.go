package handlers

import (
	"time"

	"github.com/PositiveMinds/Together-As-One-SACCO/internal/core/services"
	"github.com/PositiveMinds/Together-As-One-SACCO/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// ReportHandler handles report and dashboard endpoints
type ReportHandler struct {
	reportService *services.ReportService
}

// NewReportHandler creates a new report handler
func NewReportHandler(reportService *services.ReportService) *ReportHandler {
	return &ReportHandler{reportService: reportService}
}

// Dashboard returns headline statistics
// @Summary Dashboard stats
// @Description Headline counts, totals, pool and recent activity
// @Tags Reports
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Router /reports/dashboard [get]
func (h *ReportHandler) Dashboard(c *fiber.Ctx) error {
	stats, err := h.reportService.GetDashboardStats(c.Context(), time.Now())
	if err != nil {
		return response.InternalServerError(c, "Failed to build dashboard")
	}
	return response.Success(c, "", stats)
}

// Waterfall returns waterfall totals
// @Summary Waterfall report
// @Description Loaned, repaid, interest, outstanding, savings and net position
// @Tags Reports
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Router /reports/waterfall [get]
func (h *ReportHandler) Waterfall(c *fiber.Ctx) error {
	report, err := h.reportService.Waterfall(c.Context())
	if err != nil {
		return response.InternalServerError(c, "Failed to build waterfall report")
	}
	return response.Success(c, "", report)
}

// TopMembers returns the top savers
// @Summary Top members by savings
// @Description Top savers, descending
// @Tags Reports
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Router /reports/top-members [get]
func (h *ReportHandler) TopMembers(c *fiber.Ctx) error {
	ranked, err := h.reportService.TopMembersBySavings(c.Context())
	if err != nil {
		return response.InternalServerError(c, "Failed to build ranking")
	}
	return response.Success(c, "", fiber.Map{"ranking": ranked})
}

// Ranking returns borrowers by outstanding balance
// @Summary Ranking by outstanding
// @Description Borrowers ranked by principal still owed
// @Tags Reports
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Router /reports/ranking [get]
func (h *ReportHandler) Ranking(c *fiber.Ctx) error {
	ranked, err := h.reportService.RankingByOutstanding(c.Context())
	if err != nil {
		return response.InternalServerError(c, "Failed to build ranking")
	}
	return response.Success(c, "", fiber.Map{"ranking": ranked})
}

// Comparison returns a period comparison of savings
// @Summary Period comparison
// @Description Savings compared month-over-month or year-over-year
// @Tags Reports
// @Produce json
// @Security BearerAuth
// @Param period query string false "monthly or yearly" default(monthly)
// @Success 200 {object} response.Response
// @Router /reports/comparison [get]
func (h *ReportHandler) Comparison(c *fiber.Ctx) error {
	period := c.Query("period", "monthly")

	var (
		report *services.PeriodComparisonReport
		err    error
	)
	switch period {
	case "monthly":
		report, err = h.reportService.MonthlyComparison(c.Context(), time.Now())
	case "yearly":
		report, err = h.reportService.YearlyComparison(c.Context(), time.Now())
	default:
		return response.BadRequest(c, "Period must be 'monthly' or 'yearly'")
	}
	if err != nil {
		return response.InternalServerError(c, "Failed to build comparison")
	}
	return response.Success(c, "", report)
}

// RepaymentMetrics returns principal/interest repayment splits
// @Summary Repayment metrics
// @Description Principal and interest repaid per borrower
// @Tags Reports
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Router /reports/repayment-metrics [get]
func (h *ReportHandler) RepaymentMetrics(c *fiber.Ctx) error {
	metrics, err := h.reportService.RepaymentMetrics(c.Context())
	if err != nil {
		return response.InternalServerError(c, "Failed to build repayment metrics")
	}
	return response.Success(c, "", fiber.Map{"metrics": metrics})
}

// ProfitDistribution returns interest shares per borrower
// @Summary Profit distribution
// @Description Interest contribution per borrower as share of the total
// @Tags Reports
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Router /reports/profit-distribution [get]
func (h *ReportHandler) ProfitDistribution(c *fiber.Ctx) error {
	shares, err := h.reportService.ProfitDistribution(c.Context())
	if err != nil {
		return response.InternalServerError(c, "Failed to build profit distribution")
	}
	return response.Success(c, "", fiber.Map{"shares": shares})
}

// ProfitsSummary returns headline profit figures
// @Summary Profits summary
// @Description Total and average interest over the loan book
// @Tags Reports
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Router /reports/profits-summary [get]
func (h *ReportHandler) ProfitsSummary(c *fiber.Ctx) error {
	summary, err := h.reportService.GetProfitsSummary(c.Context())
	if err != nil {
		return response.InternalServerError(c, "Failed to build profits summary")
	}
	return response.Success(c, "", summary)
}

// SavingsTrend returns the savings trend series
// @Summary Savings trend
// @Description Daily savings totals with cumulative running balance
// @Tags Reports
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Router /reports/savings-trend [get]
func (h *ReportHandler) SavingsTrend(c *fiber.Ctx) error {
	points, err := h.reportService.SavingsTrend(c.Context())
	if err != nil {
		return response.InternalServerError(c, "Failed to build savings trend")
	}
	return response.Success(c, "", fiber.Map{"trend": points})
}
