package handlers

import (
	"errors"
	"time"

	"github.com/PositiveMinds/Together-As-One-SACCO/internal/adapters/http/middleware"
	"github.com/PositiveMinds/Together-As-One-SACCO/internal/core/domain"
	"github.com/PositiveMinds/Together-As-One-SACCO/internal/core/services"
	"github.com/PositiveMinds/Together-As-One-SACCO/internal/pkg/pagination"
	"github.com/PositiveMinds/Together-As-One-SACCO/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// LoanHandler handles loan endpoints
type LoanHandler struct {
	loanService *services.LoanService
}

// NewLoanHandler creates a new loan handler
func NewLoanHandler(loanService *services.LoanService) *LoanHandler {
	return &LoanHandler{loanService: loanService}
}

// Create originates a loan
// @Summary Originate loan
// @Description Issue a new loan against the lending pool
// @Tags Loans
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body services.OriginateLoanInput true "Loan data"
// @Success 201 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 422 {object} response.Response
// @Router /loans [post]
func (h *LoanHandler) Create(c *fiber.Ctx) error {
	var input services.OriginateLoanInput
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	loan, err := h.loanService.Originate(c.Context(), input, middleware.UserRole(c))
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrInvalidInput):
			return response.BadRequest(c, "Amount and term must be greater than 0")
		case errors.Is(err, domain.ErrInvalidBorrower):
			return response.BadRequest(c, "Borrower details do not match the borrower type")
		case errors.Is(err, domain.ErrMemberNotFound):
			return response.NotFound(c, "Member not found")
		case errors.Is(err, domain.ErrNotFound):
			return response.NotFound(c, "Unknown loan type")
		case errors.Is(err, domain.ErrSolvencyExceeded):
			return response.UnprocessableEntity(c, err.Error())
		default:
			return response.InternalServerError(c, "Failed to originate loan")
		}
	}

	return response.Created(c, "Loan originated successfully", fiber.Map{"loan": loan})
}

// List lists loans
// @Summary List loans
// @Description List loans with pagination
// @Tags Loans
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page number"
// @Param limit query int false "Items per page"
// @Success 200 {object} response.Response
// @Router /loans [get]
func (h *LoanHandler) List(c *fiber.Ctx) error {
	params := pagination.GetParams(c)

	loans, total, err := h.loanService.ListLoans(c.Context(), params.Offset, params.Limit)
	if err != nil {
		return response.InternalServerError(c, "Failed to list loans")
	}
	return response.Success(c, "", pagination.NewResponse(loans, params, total))
}

// Get returns one loan
// @Summary Get loan
// @Description Get a loan by id
// @Tags Loans
// @Produce json
// @Security BearerAuth
// @Param id path string true "Loan ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /loans/{id} [get]
func (h *LoanHandler) Get(c *fiber.Ctx) error {
	loan, err := h.loanService.GetLoan(c.Context(), c.Params("id"))
	if err != nil {
		if errors.Is(err, domain.ErrLoanNotFound) {
			return response.NotFound(c, "Loan not found")
		}
		return response.InternalServerError(c, "Failed to load loan")
	}
	return response.Success(c, "", fiber.Map{
		"loan":       loan,
		"is_overdue": h.loanService.IsOverdue(loan, time.Now()),
	})
}

// TopUpRequest represents a top-up request
type TopUpRequest struct {
	Amount float64 `json:"amount"`
	Date   string  `json:"date"`
}

// TopUp raises a loan's principal
// @Summary Top up loan
// @Description Increase a loan's principal and extend its due date
// @Tags Loans
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Loan ID"
// @Param body body TopUpRequest true "Top-up data"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Failure 422 {object} response.Response
// @Router /loans/{id}/topup [post]
func (h *LoanHandler) TopUp(c *fiber.Ctx) error {
	var req TopUpRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	loan, err := h.loanService.TopUp(c.Context(), c.Params("id"), req.Amount, req.Date, middleware.UserRole(c))
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrLoanNotFound):
			return response.NotFound(c, "Loan not found")
		case errors.Is(err, domain.ErrInvalidInput):
			return response.BadRequest(c, "Top-up amount must be greater than 0")
		case errors.Is(err, domain.ErrSolvencyExceeded):
			return response.UnprocessableEntity(c, err.Error())
		default:
			return response.InternalServerError(c, "Failed to top up loan")
		}
	}

	return response.Success(c, "Loan topped up successfully", fiber.Map{"loan": loan})
}

// RescheduleRequest represents a reschedule request
type RescheduleRequest struct {
	DueDate      string  `json:"due_date"`
	InterestRate float64 `json:"interest_rate"`
}

// Reschedule overwrites a loan's due date and rate
// @Summary Reschedule loan
// @Description Overwrite a loan's due date and interest rate
// @Tags Loans
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Loan ID"
// @Param body body RescheduleRequest true "Reschedule data"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /loans/{id}/reschedule [post]
func (h *LoanHandler) Reschedule(c *fiber.Ctx) error {
	var req RescheduleRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	loan, err := h.loanService.Reschedule(c.Context(), c.Params("id"), req.DueDate, req.InterestRate, middleware.UserRole(c))
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrLoanNotFound):
			return response.NotFound(c, "Loan not found")
		case errors.Is(err, domain.ErrInvalidInput):
			return response.BadRequest(c, "A valid due date and non-negative rate are required")
		default:
			return response.InternalServerError(c, "Failed to reschedule loan")
		}
	}

	return response.Success(c, "Loan rescheduled successfully", fiber.Map{"loan": loan})
}

// Penalty applies a late penalty
// @Summary Apply penalty
// @Description Add a flat penalty on the current principal
// @Tags Loans
// @Produce json
// @Security BearerAuth
// @Param id path string true "Loan ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /loans/{id}/penalty [post]
func (h *LoanHandler) Penalty(c *fiber.Ctx) error {
	loan, err := h.loanService.ApplyPenalty(c.Context(), c.Params("id"), middleware.UserRole(c))
	if err != nil {
		if errors.Is(err, domain.ErrLoanNotFound) {
			return response.NotFound(c, "Loan not found")
		}
		return response.InternalServerError(c, "Failed to apply penalty")
	}
	return response.Success(c, "Penalty applied", fiber.Map{"loan": loan})
}

// Delete removes a loan
// @Summary Delete loan
// @Description Delete a loan and its payment history
// @Tags Loans
// @Produce json
// @Security BearerAuth
// @Param id path string true "Loan ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /loans/{id} [delete]
func (h *LoanHandler) Delete(c *fiber.Ctx) error {
	err := h.loanService.Delete(c.Context(), c.Params("id"), middleware.UserRole(c))
	if err != nil {
		if errors.Is(err, domain.ErrLoanNotFound) {
			return response.NotFound(c, "Loan not found")
		}
		return response.InternalServerError(c, "Failed to delete loan")
	}
	return response.Success(c, "Loan deleted successfully", nil)
}
