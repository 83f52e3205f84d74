package repositories

import (
	"context"

	"github.com/PositiveMinds/Together-As-One-SACCO/internal/adapters/persistence/models"
	"github.com/PositiveMinds/Together-As-One-SACCO/internal/core/domain"

	"gorm.io/gorm"
)

// paymentRepository implements PaymentRepository
type paymentRepository struct {
	db *gorm.DB
}

// NewPaymentRepository creates a new payment repository
func NewPaymentRepository(db *gorm.DB) PaymentRepository {
	return &paymentRepository{db: db}
}

func (r *paymentRepository) Create(ctx context.Context, payment *domain.Payment) error {
	model := &models.Payment{
		ID:          payment.ID,
		LoanID:      payment.LoanID,
		Amount:      payment.Amount,
		PaymentDate: payment.PaymentDate,
		CreatedAt:   payment.CreatedAt,
	}
	return r.db.WithContext(ctx).Create(model).Error
}

func (r *paymentRepository) GetAll(ctx context.Context) ([]*domain.Payment, error) {
	var payments []models.Payment
	if err := r.db.WithContext(ctx).Order("created_at ASC").Find(&payments).Error; err != nil {
		return nil, err
	}
	result := make([]*domain.Payment, len(payments))
	for i := range payments {
		result[i] = payments[i].ToDomain()
	}
	return result, nil
}

func (r *paymentRepository) GetByLoanID(ctx context.Context, loanID string) ([]*domain.Payment, error) {
	var payments []models.Payment
	err := r.db.WithContext(ctx).
		Where("loan_id = ?", loanID).
		Order("created_at ASC").
		Find(&payments).Error
	if err != nil {
		return nil, err
	}
	result := make([]*domain.Payment, len(payments))
	for i := range payments {
		result[i] = payments[i].ToDomain()
	}
	return result, nil
}

// DeleteByLoanID removes a loan's payments. Only the loan-deletion cascade
// uses this; payments are otherwise immutable.
func (r *paymentRepository) DeleteByLoanID(ctx context.Context, loanID string) error {
	return r.db.WithContext(ctx).Where("loan_id = ?", loanID).Delete(&models.Payment{}).Error
}
