package handlers

import (
	"errors"

	"github.com/PositiveMinds/Together-As-One-SACCO/internal/adapters/http/middleware"
	"github.com/PositiveMinds/Together-As-One-SACCO/internal/core/domain"
	"github.com/PositiveMinds/Together-As-One-SACCO/internal/core/services"
	"github.com/PositiveMinds/Together-As-One-SACCO/internal/pkg/pagination"
	"github.com/PositiveMinds/Together-As-One-SACCO/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// MemberHandler handles member endpoints
type MemberHandler struct {
	memberService *services.MemberService
	savingService *services.SavingService
	loanService   *services.LoanService
}

// NewMemberHandler creates a new member handler
func NewMemberHandler(
	memberService *services.MemberService,
	savingService *services.SavingService,
	loanService *services.LoanService,
) *MemberHandler {
	return &MemberHandler{
		memberService: memberService,
		savingService: savingService,
		loanService:   loanService,
	}
}

// Create registers a member
// @Summary Register member
// @Description Register a new cooperative member
// @Tags Members
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body services.CreateMemberInput true "Member data"
// @Success 201 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /members [post]
func (h *MemberHandler) Create(c *fiber.Ctx) error {
	var input services.CreateMemberInput
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	member, err := h.memberService.CreateMember(c.Context(), input, middleware.UserRole(c))
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrInvalidInput):
			return response.BadRequest(c, "Name, email and phone are required")
		case errors.Is(err, domain.ErrDuplicateEntry):
			return response.Conflict(c, "A member with the same name, email or phone already exists")
		default:
			return response.InternalServerError(c, "Failed to register member")
		}
	}

	return response.Created(c, "Member registered successfully", fiber.Map{"member": member})
}

// List lists members
// @Summary List members
// @Description List members with pagination
// @Tags Members
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page number"
// @Param limit query int false "Items per page"
// @Success 200 {object} response.Response
// @Router /members [get]
func (h *MemberHandler) List(c *fiber.Ctx) error {
	params := pagination.GetParams(c)

	members, total, err := h.memberService.ListMembers(c.Context(), params.Offset, params.Limit)
	if err != nil {
		return response.InternalServerError(c, "Failed to list members")
	}

	return response.Success(c, "", pagination.NewResponse(members, params, total))
}

// Search searches members
// @Summary Search members
// @Description Search members by name, email or id number
// @Tags Members
// @Produce json
// @Security BearerAuth
// @Param q query string true "Search query"
// @Success 200 {object} response.Response
// @Router /members/search [get]
func (h *MemberHandler) Search(c *fiber.Ctx) error {
	query := c.Query("q")
	if query == "" {
		return response.BadRequest(c, "Search query is required")
	}

	members, err := h.memberService.SearchMembers(c.Context(), query, pagination.DefaultLimit)
	if err != nil {
		return response.InternalServerError(c, "Search failed")
	}
	return response.Success(c, "", fiber.Map{"members": members})
}

// Get returns one member with balance and loans
// @Summary Get member
// @Description Get a member with savings balance and loan history
// @Tags Members
// @Produce json
// @Security BearerAuth
// @Param id path string true "Member ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /members/{id} [get]
func (h *MemberHandler) Get(c *fiber.Ctx) error {
	id := c.Params("id")

	member, err := h.memberService.GetMember(c.Context(), id)
	if err != nil {
		if errors.Is(err, domain.ErrMemberNotFound) {
			return response.NotFound(c, "Member not found")
		}
		return response.InternalServerError(c, "Failed to load member")
	}

	balance, err := h.savingService.MemberBalance(c.Context(), id)
	if err != nil {
		return response.InternalServerError(c, "Failed to load member balance")
	}
	loans, err := h.loanService.GetLoansByMember(c.Context(), id)
	if err != nil {
		return response.InternalServerError(c, "Failed to load member loans")
	}

	return response.Success(c, "", fiber.Map{
		"member":          member,
		"savings_balance": balance,
		"loans":           loans,
	})
}

// Update edits a member
// @Summary Update member
// @Description Update member identity fields
// @Tags Members
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Member ID"
// @Param body body services.UpdateMemberInput true "Member data"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /members/{id} [put]
func (h *MemberHandler) Update(c *fiber.Ctx) error {
	var input services.UpdateMemberInput
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	member, err := h.memberService.UpdateMember(c.Context(), c.Params("id"), input, middleware.UserRole(c))
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrMemberNotFound):
			return response.NotFound(c, "Member not found")
		case errors.Is(err, domain.ErrInvalidInput):
			return response.BadRequest(c, "Name, email and phone are required")
		case errors.Is(err, domain.ErrDuplicateEntry):
			return response.Conflict(c, "A member with the same name, email or phone already exists")
		default:
			return response.InternalServerError(c, "Failed to update member")
		}
	}

	return response.Success(c, "Member updated successfully", fiber.Map{"member": member})
}

// Delete removes a member
// @Summary Delete member
// @Description Delete a member (loans remain on record)
// @Tags Members
// @Produce json
// @Security BearerAuth
// @Param id path string true "Member ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /members/{id} [delete]
func (h *MemberHandler) Delete(c *fiber.Ctx) error {
	err := h.memberService.DeleteMember(c.Context(), c.Params("id"), middleware.UserRole(c))
	if err != nil {
		if errors.Is(err, domain.ErrMemberNotFound) {
			return response.NotFound(c, "Member not found")
		}
		return response.InternalServerError(c, "Failed to delete member")
	}
	return response.Success(c, "Member deleted successfully", nil)
}
