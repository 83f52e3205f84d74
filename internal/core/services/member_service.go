package services

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/PositiveMinds/Together-As-One-SACCO/internal/adapters/persistence/repositories"
	"github.com/PositiveMinds/Together-As-One-SACCO/internal/core/domain"

	"github.com/google/uuid"
)

// MemberService handles member registration and maintenance.
// All identity fields are normalized before storage so uniqueness
// checks compare canonical forms, not raw input.
type MemberService struct {
	memberRepo repositories.MemberRepository
	auditRepo  repositories.AuditRepository
}

// NewMemberService creates a new member service
func NewMemberService(
	memberRepo repositories.MemberRepository,
	auditRepo repositories.AuditRepository,
) *MemberService {
	return &MemberService{
		memberRepo: memberRepo,
		auditRepo:  auditRepo,
	}
}

// CreateMemberInput carries the fields accepted at registration
type CreateMemberInput struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone"`
	Photo string `json:"photo"`
}

// UpdateMemberInput carries the editable member fields
type UpdateMemberInput struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone"`
	Photo string `json:"photo"`
}

// CreateMember registers a member with normalized identity fields and a
// sequential id number. Duplicate idNo, email, phone or name is rejected.
func (s *MemberService) CreateMember(ctx context.Context, input CreateMemberInput, userRole string) (*domain.Member, error) {
	name := capitalizeWords(input.Name)
	email := strings.ToLower(strings.TrimSpace(input.Email))
	phone := formatPhoneNumber(input.Phone)

	if name == "" || email == "" || phone == "" {
		return nil, domain.ErrInvalidInput
	}

	existing, err := s.memberRepo.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	if err := checkDuplicate(existing, name, email, phone, ""); err != nil {
		return nil, err
	}

	member := &domain.Member{
		ID:        uuid.New().String(),
		Name:      name,
		Email:     email,
		Phone:     phone,
		IDNo:      nextIDNo(existing),
		Photo:     input.Photo,
		CreatedAt: time.Now(),
	}

	if err := s.memberRepo.Create(ctx, member); err != nil {
		return nil, err
	}

	details := fmt.Sprintf("Member %s (%s) registered", member.Name, member.IDNo)
	if err := s.auditRepo.Append(ctx, domain.AuditMemberAdded, details, userRole); err != nil {
		return nil, err
	}

	return member, nil
}

// GetMember returns a member by id
func (s *MemberService) GetMember(ctx context.Context, id string) (*domain.Member, error) {
	return s.memberRepo.GetByID(ctx, id)
}

// ListMembers returns a page of members plus the total count
func (s *MemberService) ListMembers(ctx context.Context, offset, limit int) ([]*domain.Member, int64, error) {
	return s.memberRepo.List(ctx, offset, limit)
}

// SearchMembers returns members matching the query by name, email or id number
func (s *MemberService) SearchMembers(ctx context.Context, query string, limit int) ([]*domain.Member, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return []*domain.Member{}, nil
	}
	return s.memberRepo.Search(ctx, query, limit)
}

// UpdateMember rewrites the editable fields with the same normalization
// and uniqueness rules as registration. The id number never changes.
func (s *MemberService) UpdateMember(ctx context.Context, id string, input UpdateMemberInput, userRole string) (*domain.Member, error) {
	member, err := s.memberRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	name := capitalizeWords(input.Name)
	email := strings.ToLower(strings.TrimSpace(input.Email))
	phone := formatPhoneNumber(input.Phone)

	if name == "" || email == "" || phone == "" {
		return nil, domain.ErrInvalidInput
	}

	existing, err := s.memberRepo.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	if err := checkDuplicate(existing, name, email, phone, member.ID); err != nil {
		return nil, err
	}

	member.Name = name
	member.Email = email
	member.Phone = phone
	if input.Photo != "" {
		member.Photo = input.Photo
	}
	now := time.Now()
	member.UpdatedAt = &now

	if err := s.memberRepo.Update(ctx, member); err != nil {
		return nil, err
	}

	details := fmt.Sprintf("Member %s (%s) updated", member.Name, member.IDNo)
	if err := s.auditRepo.Append(ctx, domain.AuditMemberUpdated, details, userRole); err != nil {
		return nil, err
	}

	return member, nil
}

// DeleteMember removes a member. Loans referencing the member are left
// in place and keep resolving against savings history already recorded.
func (s *MemberService) DeleteMember(ctx context.Context, id string, userRole string) error {
	member, err := s.memberRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if err := s.memberRepo.Delete(ctx, id); err != nil {
		return err
	}

	details := fmt.Sprintf("Member %s (%s) deleted", member.Name, member.IDNo)
	return s.auditRepo.Append(ctx, domain.AuditMemberDeleted, details, userRole)
}

// checkDuplicate rejects a candidate whose idNo, email, phone digits or
// case-folded name collide with an existing member other than excludeID.
func checkDuplicate(existing []*domain.Member, name, email, phone, excludeID string) error {
	candidateDigits := digitsOnly(phone)
	for _, m := range existing {
		if m.ID == excludeID {
			continue
		}
		if strings.EqualFold(m.Name, name) {
			return domain.ErrDuplicateEntry
		}
		if strings.EqualFold(m.Email, email) {
			return domain.ErrDuplicateEntry
		}
		if digitsOnly(m.Phone) == candidateDigits {
			return domain.ErrDuplicateEntry
		}
	}
	return nil
}

// nextIDNo derives the next sequential member number from the highest
// numeric suffix already issued, so deletions never cause reuse of a
// lower number while the highest survives.
func nextIDNo(existing []*domain.Member) string {
	max := 0
	for _, m := range existing {
		idx := strings.LastIndex(m.IDNo, "-")
		if idx < 0 {
			continue
		}
		n, err := strconv.Atoi(m.IDNo[idx+1:])
		if err == nil && n > max {
			max = n
		}
	}
	return fmt.Sprintf("MEM-%03d", max+1)
}

// capitalizeWords title-cases each space-separated word and collapses
// surrounding whitespace
func capitalizeWords(s string) string {
	words := strings.Fields(strings.ToLower(strings.TrimSpace(s)))
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}

// formatPhoneNumber converts a Ugandan phone number in any accepted form
// (07XXXXXXXX, 2567XXXXXXXX, +2567XXXXXXXX, 7XXXXXXXX) to the canonical
// "(+256) 7XX XXX XXX". Unrecognized shapes are returned digits-only so
// the duplicate check still compares consistently.
func formatPhoneNumber(phone string) string {
	digits := digitsOnly(phone)

	switch {
	case len(digits) == 10 && strings.HasPrefix(digits, "0"):
		digits = digits[1:]
	case len(digits) == 12 && strings.HasPrefix(digits, "256"):
		digits = digits[3:]
	case len(digits) == 9:
		// already the local significant number
	default:
		return digits
	}

	return fmt.Sprintf("(+256) %s %s %s", digits[0:3], digits[3:6], digits[6:9])
}

// digitsOnly strips every non-digit rune
func digitsOnly(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}
