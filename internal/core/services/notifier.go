package services

import (
	"sync"

	"github.com/PositiveMinds/Together-As-One-SACCO/internal/core/domain"
)

// Notifier lets dashboards and report consumers register callbacks for
// entity changes instead of listening for ambient events. Callbacks run
// synchronously after the mutation has been persisted; they decide for
// themselves whether to re-fetch aggregates.
type Notifier struct {
	mu              sync.RWMutex
	loanChanged     []func(loan *domain.Loan)
	paymentRecorded []func(payment *domain.Payment)
	savingChanged   []func(memberID string)
}

// NewNotifier creates a new notifier
func NewNotifier() *Notifier {
	return &Notifier{}
}

// OnLoanChanged registers a callback fired after any loan mutation
func (n *Notifier) OnLoanChanged(fn func(loan *domain.Loan)) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.loanChanged = append(n.loanChanged, fn)
}

// OnPaymentRecorded registers a callback fired after a payment is applied
func (n *Notifier) OnPaymentRecorded(fn func(payment *domain.Payment)) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.paymentRecorded = append(n.paymentRecorded, fn)
}

// OnSavingChanged registers a callback fired after a saving or withdrawal
func (n *Notifier) OnSavingChanged(fn func(memberID string)) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.savingChanged = append(n.savingChanged, fn)
}

func (n *Notifier) notifyLoanChanged(loan *domain.Loan) {
	n.mu.RLock()
	defer n.mu.RUnlock()
	for _, fn := range n.loanChanged {
		fn(loan)
	}
}

func (n *Notifier) notifyPaymentRecorded(payment *domain.Payment) {
	n.mu.RLock()
	defer n.mu.RUnlock()
	for _, fn := range n.paymentRecorded {
		fn(payment)
	}
}

func (n *Notifier) notifySavingChanged(memberID string) {
	n.mu.RLock()
	defer n.mu.RUnlock()
	for _, fn := range n.savingChanged {
		fn(memberID)
	}
}
