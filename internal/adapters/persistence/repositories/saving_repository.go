package repositories

import (
	"context"

	"github.com/PositiveMinds/Together-As-One-SACCO/internal/adapters/persistence/models"
	"github.com/PositiveMinds/Together-As-One-SACCO/internal/core/domain"

	"gorm.io/gorm"
)

// savingRepository implements SavingRepository
type savingRepository struct {
	db *gorm.DB
}

// NewSavingRepository creates a new saving repository
func NewSavingRepository(db *gorm.DB) SavingRepository {
	return &savingRepository{db: db}
}

func (r *savingRepository) Create(ctx context.Context, saving *domain.Saving) error {
	model := &models.Saving{
		ID:         saving.ID,
		MemberID:   saving.MemberID,
		Amount:     saving.Amount,
		SavingDate: saving.SavingDate,
		CreatedAt:  saving.CreatedAt,
	}
	return r.db.WithContext(ctx).Create(model).Error
}

func (r *savingRepository) GetAll(ctx context.Context) ([]*domain.Saving, error) {
	var savings []models.Saving
	if err := r.db.WithContext(ctx).Order("created_at ASC").Find(&savings).Error; err != nil {
		return nil, err
	}
	result := make([]*domain.Saving, len(savings))
	for i := range savings {
		result[i] = savings[i].ToDomain()
	}
	return result, nil
}

func (r *savingRepository) GetByMemberID(ctx context.Context, memberID string) ([]*domain.Saving, error) {
	var savings []models.Saving
	err := r.db.WithContext(ctx).
		Where("member_id = ?", memberID).
		Order("created_at ASC").
		Find(&savings).Error
	if err != nil {
		return nil, err
	}
	result := make([]*domain.Saving, len(savings))
	for i := range savings {
		result[i] = savings[i].ToDomain()
	}
	return result, nil
}

func (r *savingRepository) TotalByMemberID(ctx context.Context, memberID string) (float64, error) {
	var total float64
	err := r.db.WithContext(ctx).
		Model(&models.Saving{}).
		Where("member_id = ?", memberID).
		Select("COALESCE(SUM(amount), 0)").
		Scan(&total).Error
	return total, err
}

func (r *savingRepository) Total(ctx context.Context) (float64, error) {
	var total float64
	err := r.db.WithContext(ctx).
		Model(&models.Saving{}).
		Select("COALESCE(SUM(amount), 0)").
		Scan(&total).Error
	return total, err
}
