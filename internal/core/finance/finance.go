// Package finance holds the pure lending arithmetic shared by the loan,
// payment and report services. Simple interest throughout: interest grows
// linearly with the term, no compounding.
package finance

import (
	"math"
	"time"
)

// DateLayout is the calendar-date format used across loan records
const DateLayout = "2006-01-02"

// TotalInterest returns the simple interest owed over the full term:
// principal * annualRatePercent * termMonths / (12 * 100).
func TotalInterest(principal, annualRatePercent float64, termMonths int) float64 {
	return principal * annualRatePercent * float64(termMonths) / (12 * 100)
}

// TotalPayable returns principal plus total interest
func TotalPayable(principal, annualRatePercent float64, termMonths int) float64 {
	return principal + TotalInterest(principal, annualRatePercent, termMonths)
}

// MonthlyInstallment returns the flat monthly repayment.
// Callers must reject termMonths <= 0 before calling.
func MonthlyInstallment(principal, annualRatePercent float64, termMonths int) float64 {
	return TotalPayable(principal, annualRatePercent, termMonths) / float64(termMonths)
}

// RemainingBalance returns what is still owed on a loan:
// principal + interest + penalty - paid.
func RemainingBalance(principal, annualRatePercent float64, termMonths int, penalty, paid float64) float64 {
	return TotalPayable(principal, annualRatePercent, termMonths) + penalty - paid
}

// PrincipalRatio returns the share of every payment attributed to principal.
// The ratio is fixed per loan (principal / total payable), not a true
// amortization schedule: all payments against one loan split identically.
func PrincipalRatio(principal, annualRatePercent float64, termMonths int) float64 {
	total := TotalPayable(principal, annualRatePercent, termMonths)
	if total == 0 {
		return 0
	}
	return principal / total
}

// TopUpExtensionMonths returns how many months a top-up adds to the due date:
// ceil(term * topUpAmount / principal), where principal is the loan's amount
// at top-up time, prior top-ups included. The extension compounds per top-up
// because it is applied to the current due date, not recomputed.
func TopUpExtensionMonths(termMonths int, topUpAmount, principal float64) int {
	return int(math.Ceil(float64(termMonths) * topUpAmount / principal))
}

// DueDate returns loanDate advanced by term calendar months
func DueDate(loanDate time.Time, termMonths int) time.Time {
	return loanDate.AddDate(0, termMonths, 0)
}

// ExtendDueDate returns dueDate advanced by the given number of months
func ExtendDueDate(dueDate time.Time, months int) time.Time {
	return dueDate.AddDate(0, months, 0)
}

// DaysRemaining returns the number of days until the due date, rounded up.
// Negative when the loan is overdue.
func DaysRemaining(dueDate, asOf time.Time) int {
	return int(math.Ceil(dueDate.Sub(asOf).Hours() / 24))
}

// IsOverdue reports whether an active loan's due date has passed
func IsOverdue(dueDate, asOf time.Time) bool {
	return dueDate.Before(asOf)
}
