package handlers

import (
	"errors"

	"github.com/PositiveMinds/Together-As-One-SACCO/internal/adapters/http/middleware"
	"github.com/PositiveMinds/Together-As-One-SACCO/internal/core/domain"
	"github.com/PositiveMinds/Together-As-One-SACCO/internal/core/services"
	"github.com/PositiveMinds/Together-As-One-SACCO/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// SavingHandler handles saving and withdrawal endpoints
type SavingHandler struct {
	savingService *services.SavingService
}

// NewSavingHandler creates a new saving handler
func NewSavingHandler(savingService *services.SavingService) *SavingHandler {
	return &SavingHandler{savingService: savingService}
}

// RecordSavingRequest represents a deposit or withdrawal request
type RecordSavingRequest struct {
	MemberID string  `json:"member_id"`
	Amount   float64 `json:"amount"`
	Date     string  `json:"date"`
}

// CreateSaving records a deposit
// @Summary Record saving
// @Description Record a member deposit
// @Tags Savings
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body RecordSavingRequest true "Saving data"
// @Success 201 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /savings [post]
func (h *SavingHandler) CreateSaving(c *fiber.Ctx) error {
	var req RecordSavingRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	saving, err := h.savingService.AddSaving(c.Context(), req.MemberID, req.Amount, req.Date, middleware.UserRole(c))
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrMemberNotFound):
			return response.NotFound(c, "Member not found")
		case errors.Is(err, domain.ErrInvalidInput):
			return response.BadRequest(c, "Saving amount must be greater than 0")
		default:
			return response.InternalServerError(c, "Failed to record saving")
		}
	}

	return response.Created(c, "Saving recorded successfully", fiber.Map{"saving": saving})
}

// ListSavings lists deposits
// @Summary List savings
// @Description List deposits, optionally for one member
// @Tags Savings
// @Produce json
// @Security BearerAuth
// @Param member_id query string false "Member ID"
// @Success 200 {object} response.Response
// @Router /savings [get]
func (h *SavingHandler) ListSavings(c *fiber.Ctx) error {
	memberID := c.Query("member_id")

	if memberID != "" {
		savings, err := h.savingService.GetSavingsByMember(c.Context(), memberID)
		if err != nil {
			if errors.Is(err, domain.ErrMemberNotFound) {
				return response.NotFound(c, "Member not found")
			}
			return response.InternalServerError(c, "Failed to list savings")
		}
		balance, err := h.savingService.MemberBalance(c.Context(), memberID)
		if err != nil {
			return response.InternalServerError(c, "Failed to compute balance")
		}
		return response.Success(c, "", fiber.Map{"savings": savings, "balance": balance})
	}

	savings, err := h.savingService.GetAllSavings(c.Context())
	if err != nil {
		return response.InternalServerError(c, "Failed to list savings")
	}
	return response.Success(c, "", fiber.Map{"savings": savings})
}

// CreateWithdrawal records a withdrawal
// @Summary Record withdrawal
// @Description Record a member withdrawal against their savings balance
// @Tags Savings
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body RecordSavingRequest true "Withdrawal data"
// @Success 201 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 404 {object} response.Response
// @Failure 422 {object} response.Response
// @Router /withdrawals [post]
func (h *SavingHandler) CreateWithdrawal(c *fiber.Ctx) error {
	var req RecordSavingRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	withdrawal, err := h.savingService.AddWithdrawal(c.Context(), req.MemberID, req.Amount, req.Date, middleware.UserRole(c))
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrMemberNotFound):
			return response.NotFound(c, "Member not found")
		case errors.Is(err, domain.ErrInvalidInput):
			return response.BadRequest(c, "Withdrawal amount must be greater than 0")
		case errors.Is(err, domain.ErrInsufficientSavings):
			return response.UnprocessableEntity(c, "Withdrawal exceeds the member's savings balance")
		default:
			return response.InternalServerError(c, "Failed to record withdrawal")
		}
	}

	return response.Created(c, "Withdrawal recorded successfully", fiber.Map{"withdrawal": withdrawal})
}

// ListWithdrawals lists withdrawals
// @Summary List withdrawals
// @Description List withdrawals, optionally for one member
// @Tags Savings
// @Produce json
// @Security BearerAuth
// @Param member_id query string false "Member ID"
// @Success 200 {object} response.Response
// @Router /withdrawals [get]
func (h *SavingHandler) ListWithdrawals(c *fiber.Ctx) error {
	memberID := c.Query("member_id")

	if memberID != "" {
		withdrawals, err := h.savingService.GetWithdrawalsByMember(c.Context(), memberID)
		if err != nil {
			if errors.Is(err, domain.ErrMemberNotFound) {
				return response.NotFound(c, "Member not found")
			}
			return response.InternalServerError(c, "Failed to list withdrawals")
		}
		return response.Success(c, "", fiber.Map{"withdrawals": withdrawals})
	}

	withdrawals, err := h.savingService.GetAllWithdrawals(c.Context())
	if err != nil {
		return response.InternalServerError(c, "Failed to list withdrawals")
	}
	return response.Success(c, "", fiber.Map{"withdrawals": withdrawals})
}
