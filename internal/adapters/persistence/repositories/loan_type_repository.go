package repositories

import (
	"context"
	"errors"

	"github.com/PositiveMinds/Together-As-One-SACCO/internal/adapters/persistence/models"
	"github.com/PositiveMinds/Together-As-One-SACCO/internal/core/domain"

	"gorm.io/gorm"
)

// loanTypeRepository implements LoanTypeRepository
type loanTypeRepository struct {
	db *gorm.DB
}

// NewLoanTypeRepository creates a new loan type repository
func NewLoanTypeRepository(db *gorm.DB) LoanTypeRepository {
	return &loanTypeRepository{db: db}
}

func (r *loanTypeRepository) GetByCode(ctx context.Context, code domain.LoanTypeCode) (*domain.LoanPolicy, error) {
	var model models.LoanType
	err := r.db.WithContext(ctx).Where("code = ?", string(code)).First(&model).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &domain.LoanPolicy{
		Code:         domain.LoanTypeCode(model.Code),
		Name:         model.Name,
		InterestRate: model.InterestRate,
		MembersOnly:  model.MembersOnly,
	}, nil
}

func (r *loanTypeRepository) GetAll(ctx context.Context) ([]*domain.LoanPolicy, error) {
	var types []models.LoanType
	if err := r.db.WithContext(ctx).Order("id ASC").Find(&types).Error; err != nil {
		return nil, err
	}
	result := make([]*domain.LoanPolicy, len(types))
	for i := range types {
		result[i] = &domain.LoanPolicy{
			Code:         domain.LoanTypeCode(types[i].Code),
			Name:         types[i].Name,
			InterestRate: types[i].InterestRate,
			MembersOnly:  types[i].MembersOnly,
		}
	}
	return result, nil
}
