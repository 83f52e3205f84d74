package handlers

import (
	"errors"

	"github.com/PositiveMinds/Together-As-One-SACCO/internal/adapters/http/middleware"
	"github.com/PositiveMinds/Together-As-One-SACCO/internal/core/domain"
	"github.com/PositiveMinds/Together-As-One-SACCO/internal/core/services"
	"github.com/PositiveMinds/Together-As-One-SACCO/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// PaymentHandler handles payment endpoints
type PaymentHandler struct {
	paymentService *services.PaymentService
}

// NewPaymentHandler creates a new payment handler
func NewPaymentHandler(paymentService *services.PaymentService) *PaymentHandler {
	return &PaymentHandler{paymentService: paymentService}
}

// RecordPaymentRequest represents a payment request
type RecordPaymentRequest struct {
	Amount      float64 `json:"amount"`
	PaymentDate string  `json:"payment_date"`
}

// Create records a payment against a loan
// @Summary Record payment
// @Description Apply a repayment to a loan
// @Tags Payments
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Loan ID"
// @Param body body RecordPaymentRequest true "Payment data"
// @Success 201 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 404 {object} response.Response
// @Failure 422 {object} response.Response
// @Router /loans/{id}/payments [post]
func (h *PaymentHandler) Create(c *fiber.Ctx) error {
	var req RecordPaymentRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	payment, err := h.paymentService.Apply(c.Context(), c.Params("id"), req.Amount, req.PaymentDate, middleware.UserRole(c))
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrLoanNotFound):
			return response.NotFound(c, "Loan not found")
		case errors.Is(err, domain.ErrInvalidInput):
			return response.BadRequest(c, "Payment amount must be greater than 0")
		case errors.Is(err, domain.ErrExceedsBalance):
			return response.UnprocessableEntity(c, "Payment exceeds the remaining balance")
		default:
			return response.InternalServerError(c, "Failed to record payment")
		}
	}

	return response.Created(c, "Payment recorded successfully", fiber.Map{"payment": payment})
}

// ListByLoan lists a loan's payments
// @Summary List loan payments
// @Description List repayments recorded against a loan
// @Tags Payments
// @Produce json
// @Security BearerAuth
// @Param id path string true "Loan ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /loans/{id}/payments [get]
func (h *PaymentHandler) ListByLoan(c *fiber.Ctx) error {
	payments, err := h.paymentService.GetPaymentsByLoan(c.Context(), c.Params("id"))
	if err != nil {
		if errors.Is(err, domain.ErrLoanNotFound) {
			return response.NotFound(c, "Loan not found")
		}
		return response.InternalServerError(c, "Failed to list payments")
	}
	return response.Success(c, "", fiber.Map{"payments": payments})
}

// List lists every payment
// @Summary List payments
// @Description List all repayments in the ledger
// @Tags Payments
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Router /payments [get]
func (h *PaymentHandler) List(c *fiber.Ctx) error {
	payments, err := h.paymentService.GetAllPayments(c.Context())
	if err != nil {
		return response.InternalServerError(c, "Failed to list payments")
	}
	return response.Success(c, "", fiber.Map{"payments": payments})
}
