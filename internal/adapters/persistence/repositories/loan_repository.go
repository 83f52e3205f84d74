package repositories

import (
	"context"
	"errors"

	"github.com/PositiveMinds/Together-As-One-SACCO/internal/adapters/persistence/models"
	"github.com/PositiveMinds/Together-As-One-SACCO/internal/core/domain"

	"gorm.io/gorm"
)

// loanRepository implements LoanRepository
type loanRepository struct {
	db *gorm.DB
}

// NewLoanRepository creates a new loan repository
func NewLoanRepository(db *gorm.DB) LoanRepository {
	return &loanRepository{db: db}
}

func (r *loanRepository) Create(ctx context.Context, loan *domain.Loan) error {
	return r.db.WithContext(ctx).Create(models.LoanFromDomain(loan)).Error
}

func (r *loanRepository) GetByID(ctx context.Context, id string) (*domain.Loan, error) {
	var loan models.Loan
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&loan).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrLoanNotFound
		}
		return nil, err
	}
	return loan.ToDomain(), nil
}

func (r *loanRepository) GetAll(ctx context.Context) ([]*domain.Loan, error) {
	var loans []models.Loan
	if err := r.db.WithContext(ctx).Order("created_at ASC").Find(&loans).Error; err != nil {
		return nil, err
	}
	result := make([]*domain.Loan, len(loans))
	for i := range loans {
		result[i] = loans[i].ToDomain()
	}
	return result, nil
}

func (r *loanRepository) GetByMemberID(ctx context.Context, memberID string) ([]*domain.Loan, error) {
	var loans []models.Loan
	err := r.db.WithContext(ctx).
		Where("member_id = ?", memberID).
		Order("created_at ASC").
		Find(&loans).Error
	if err != nil {
		return nil, err
	}
	result := make([]*domain.Loan, len(loans))
	for i := range loans {
		result[i] = loans[i].ToDomain()
	}
	return result, nil
}

func (r *loanRepository) Update(ctx context.Context, loan *domain.Loan) error {
	return r.db.WithContext(ctx).Save(models.LoanFromDomain(loan)).Error
}

func (r *loanRepository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&models.Loan{}).Error
}

func (r *loanRepository) List(ctx context.Context, offset, limit int) ([]*domain.Loan, int64, error) {
	var loans []models.Loan
	var total int64

	if err := r.db.WithContext(ctx).Model(&models.Loan{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}
	err := r.db.WithContext(ctx).
		Order("created_at DESC").
		Offset(offset).
		Limit(limit).
		Find(&loans).Error
	if err != nil {
		return nil, 0, err
	}

	result := make([]*domain.Loan, len(loans))
	for i := range loans {
		result[i] = loans[i].ToDomain()
	}
	return result, total, nil
}
