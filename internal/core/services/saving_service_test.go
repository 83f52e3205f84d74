package services

import (
	"context"
	"errors"
	"testing"

	"github.com/PositiveMinds/Together-As-One-SACCO/internal/core/domain"
)

func TestAddSaving(t *testing.T) {
	f := newFixtures()
	f.addMember("m1", "Grace Okello")

	var notified string
	f.notifier.OnSavingChanged(func(memberID string) { notified = memberID })

	saving, err := f.savingService().AddSaving(context.Background(), "m1", 50_000, "2024-03-10", "TREASURER")
	if err != nil {
		t.Fatalf("AddSaving: %v", err)
	}
	if saving.SavingDate != "2024-03-10" {
		t.Errorf("saving date = %s", saving.SavingDate)
	}
	if notified != "m1" {
		t.Error("saving-changed callback did not fire")
	}
	if f.audit.lastAction() != domain.AuditSavingRecorded {
		t.Errorf("audit action = %s, want SAVING_RECORDED", f.audit.lastAction())
	}
}

func TestAddSavingValidation(t *testing.T) {
	f := newFixtures()
	f.addMember("m1", "Grace Okello")
	svc := f.savingService()

	if _, err := svc.AddSaving(context.Background(), "m1", 0, "", "ADMIN"); !errors.Is(err, domain.ErrInvalidInput) {
		t.Errorf("zero amount accepted, err = %v", err)
	}
	if _, err := svc.AddSaving(context.Background(), "ghost", 500, "", "ADMIN"); !errors.Is(err, domain.ErrMemberNotFound) {
		t.Errorf("unknown member accepted, err = %v", err)
	}
}

func TestAddWithdrawalGuard(t *testing.T) {
	f := newFixtures()
	f.addMember("m1", "Grace Okello")
	f.addSaving("m1", 100_000, "2024-01-05")
	f.addWithdrawal("m1", 30_000)
	svc := f.savingService()

	// Balance is 70,000: exact amount passes, one more is rejected
	if _, err := svc.AddWithdrawal(context.Background(), "m1", 70_000, "2024-02-01", "ADMIN"); err != nil {
		t.Fatalf("exact-balance withdrawal rejected: %v", err)
	}
	if _, err := svc.AddWithdrawal(context.Background(), "m1", 1, "2024-02-02", "ADMIN"); !errors.Is(err, domain.ErrInsufficientSavings) {
		t.Errorf("overdraw accepted, err = %v", err)
	}
}

func TestMemberBalance(t *testing.T) {
	f := newFixtures()
	f.addMember("m1", "Grace Okello")
	f.addSaving("m1", 100_000, "2024-01-05")
	f.addSaving("m1", 25_000, "2024-02-05")
	f.addWithdrawal("m1", 40_000)

	balance, err := f.savingService().MemberBalance(context.Background(), "m1")
	if err != nil {
		t.Fatalf("MemberBalance: %v", err)
	}
	if balance != 85_000 {
		t.Errorf("balance = %.0f, want 85000", balance)
	}
}
