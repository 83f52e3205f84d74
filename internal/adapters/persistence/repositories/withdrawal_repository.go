package repositories

import (
	"context"

	"github.com/PositiveMinds/Together-As-One-SACCO/internal/adapters/persistence/models"
	"github.com/PositiveMinds/Together-As-One-SACCO/internal/core/domain"

	"gorm.io/gorm"
)

// withdrawalRepository implements WithdrawalRepository
type withdrawalRepository struct {
	db *gorm.DB
}

// NewWithdrawalRepository creates a new withdrawal repository
func NewWithdrawalRepository(db *gorm.DB) WithdrawalRepository {
	return &withdrawalRepository{db: db}
}

func (r *withdrawalRepository) Create(ctx context.Context, withdrawal *domain.Withdrawal) error {
	model := &models.Withdrawal{
		ID:             withdrawal.ID,
		MemberID:       withdrawal.MemberID,
		Amount:         withdrawal.Amount,
		WithdrawalDate: withdrawal.WithdrawalDate,
		CreatedAt:      withdrawal.CreatedAt,
	}
	return r.db.WithContext(ctx).Create(model).Error
}

func (r *withdrawalRepository) GetAll(ctx context.Context) ([]*domain.Withdrawal, error) {
	var withdrawals []models.Withdrawal
	if err := r.db.WithContext(ctx).Order("created_at ASC").Find(&withdrawals).Error; err != nil {
		return nil, err
	}
	result := make([]*domain.Withdrawal, len(withdrawals))
	for i := range withdrawals {
		result[i] = withdrawals[i].ToDomain()
	}
	return result, nil
}

func (r *withdrawalRepository) GetByMemberID(ctx context.Context, memberID string) ([]*domain.Withdrawal, error) {
	var withdrawals []models.Withdrawal
	err := r.db.WithContext(ctx).
		Where("member_id = ?", memberID).
		Order("created_at ASC").
		Find(&withdrawals).Error
	if err != nil {
		return nil, err
	}
	result := make([]*domain.Withdrawal, len(withdrawals))
	for i := range withdrawals {
		result[i] = withdrawals[i].ToDomain()
	}
	return result, nil
}

func (r *withdrawalRepository) TotalByMemberID(ctx context.Context, memberID string) (float64, error) {
	var total float64
	err := r.db.WithContext(ctx).
		Model(&models.Withdrawal{}).
		Where("member_id = ?", memberID).
		Select("COALESCE(SUM(amount), 0)").
		Scan(&total).Error
	return total, err
}

func (r *withdrawalRepository) Total(ctx context.Context) (float64, error) {
	var total float64
	err := r.db.WithContext(ctx).
		Model(&models.Withdrawal{}).
		Select("COALESCE(SUM(amount), 0)").
		Scan(&total).Error
	return total, err
}
