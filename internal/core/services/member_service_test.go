package services

import (
	"context"
	"errors"
	"testing"

	"github.com/PositiveMinds/Together-As-One-SACCO/internal/core/domain"
)

func TestCreateMemberNormalizesFields(t *testing.T) {
	f := newFixtures()

	member, err := f.memberService().CreateMember(context.Background(), CreateMemberInput{
		Name:  "  grace   aceng OKELLO ",
		Email: "Grace.Okello@Example.COM",
		Phone: "0751234567",
	}, "ADMIN")
	if err != nil {
		t.Fatalf("CreateMember: %v", err)
	}

	if member.Name != "Grace Aceng Okello" {
		t.Errorf("name = %q, want %q", member.Name, "Grace Aceng Okello")
	}
	if member.Email != "grace.okello@example.com" {
		t.Errorf("email = %q not lowercased", member.Email)
	}
	if member.Phone != "(+256) 751 234 567" {
		t.Errorf("phone = %q, want canonical form", member.Phone)
	}
	if member.IDNo != "MEM-001" {
		t.Errorf("idNo = %q, want MEM-001", member.IDNo)
	}
	if f.audit.lastAction() != domain.AuditMemberAdded {
		t.Errorf("audit action = %s, want MEMBER_ADDED", f.audit.lastAction())
	}
}

func TestFormatPhoneNumber(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"0751234567", "(+256) 751 234 567"},
		{"256751234567", "(+256) 751 234 567"},
		{"+256 751 234 567", "(+256) 751 234 567"},
		{"751234567", "(+256) 751 234 567"},
		{"075-123-4567", "(+256) 751 234 567"},
		{"12345", "12345"},
	}

	for _, tt := range tests {
		if got := formatPhoneNumber(tt.in); got != tt.want {
			t.Errorf("formatPhoneNumber(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestNextIDNoFollowsHighestSuffix(t *testing.T) {
	f := newFixtures()
	f.members.members = append(f.members.members,
		&domain.Member{ID: "a", Name: "A", IDNo: "MEM-002"},
		&domain.Member{ID: "b", Name: "B", IDNo: "MEM-007"},
		&domain.Member{ID: "c", Name: "C", IDNo: "MEM-004"},
	)

	member, err := f.memberService().CreateMember(context.Background(), CreateMemberInput{
		Name:  "Deo Mugisha",
		Email: "deo@example.com",
		Phone: "0700111222",
	}, "ADMIN")
	if err != nil {
		t.Fatalf("CreateMember: %v", err)
	}
	if member.IDNo != "MEM-008" {
		t.Errorf("idNo = %q, want MEM-008 (after highest existing)", member.IDNo)
	}
}

func TestCreateMemberRejectsDuplicates(t *testing.T) {
	f := newFixtures()
	svc := f.memberService()

	_, err := svc.CreateMember(context.Background(), CreateMemberInput{
		Name:  "Grace Okello",
		Email: "grace@example.com",
		Phone: "0751234567",
	}, "ADMIN")
	if err != nil {
		t.Fatalf("seed member: %v", err)
	}

	tests := []struct {
		name  string
		input CreateMemberInput
	}{
		{"same name different case", CreateMemberInput{Name: "GRACE okello", Email: "other@example.com", Phone: "0700000001"}},
		{"same email", CreateMemberInput{Name: "Someone Else", Email: "GRACE@example.com", Phone: "0700000002"}},
		{"same phone different format", CreateMemberInput{Name: "Another Person", Email: "third@example.com", Phone: "+256 751 234 567"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := svc.CreateMember(context.Background(), tt.input, "ADMIN"); !errors.Is(err, domain.ErrDuplicateEntry) {
				t.Errorf("err = %v, want duplicate rejection", err)
			}
		})
	}
}

func TestUpdateMemberKeepsIDNo(t *testing.T) {
	f := newFixtures()
	svc := f.memberService()

	created, err := svc.CreateMember(context.Background(), CreateMemberInput{
		Name:  "Grace Okello",
		Email: "grace@example.com",
		Phone: "0751234567",
	}, "ADMIN")
	if err != nil {
		t.Fatalf("CreateMember: %v", err)
	}

	updated, err := svc.UpdateMember(context.Background(), created.ID, UpdateMemberInput{
		Name:  "grace a okello",
		Email: "grace.new@example.com",
		Phone: "0751234567",
	}, "ADMIN")
	if err != nil {
		t.Fatalf("UpdateMember: %v", err)
	}

	if updated.IDNo != created.IDNo {
		t.Errorf("idNo changed from %q to %q", created.IDNo, updated.IDNo)
	}
	if updated.Name != "Grace A Okello" {
		t.Errorf("name = %q not renormalized", updated.Name)
	}
	if updated.UpdatedAt == nil {
		t.Error("updatedAt not set")
	}
}

func TestDeleteMemberLeavesLoansIntact(t *testing.T) {
	f := newFixtures()
	f.addMember("m1", "Grace Okello")
	f.loans.loans = append(f.loans.loans, &domain.Loan{ID: "l1", MemberID: "m1", Amount: 100_000, Status: domain.LoanActive})

	if err := f.memberService().DeleteMember(context.Background(), "m1", "ADMIN"); err != nil {
		t.Fatalf("DeleteMember: %v", err)
	}
	if len(f.members.members) != 0 {
		t.Error("member not removed")
	}
	if len(f.loans.loans) != 1 {
		t.Error("member deletion touched loans")
	}
	if f.audit.lastAction() != domain.AuditMemberDeleted {
		t.Errorf("audit action = %s, want MEMBER_DELETED", f.audit.lastAction())
	}
}
