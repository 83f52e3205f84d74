package repositories

import (
	"context"
	"errors"

	"github.com/PositiveMinds/Together-As-One-SACCO/internal/adapters/persistence/models"
	"github.com/PositiveMinds/Together-As-One-SACCO/internal/core/domain"

	"gorm.io/gorm"
)

// memberRepository implements MemberRepository
type memberRepository struct {
	db *gorm.DB
}

// NewMemberRepository creates a new member repository
func NewMemberRepository(db *gorm.DB) MemberRepository {
	return &memberRepository{db: db}
}

func (r *memberRepository) Create(ctx context.Context, member *domain.Member) error {
	return r.db.WithContext(ctx).Create(models.MemberFromDomain(member)).Error
}

func (r *memberRepository) GetByID(ctx context.Context, id string) (*domain.Member, error) {
	var member models.Member
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&member).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrMemberNotFound
		}
		return nil, err
	}
	return member.ToDomain(), nil
}

func (r *memberRepository) GetAll(ctx context.Context) ([]*domain.Member, error) {
	var members []models.Member
	if err := r.db.WithContext(ctx).Order("created_at ASC").Find(&members).Error; err != nil {
		return nil, err
	}
	result := make([]*domain.Member, len(members))
	for i := range members {
		result[i] = members[i].ToDomain()
	}
	return result, nil
}

func (r *memberRepository) Update(ctx context.Context, member *domain.Member) error {
	return r.db.WithContext(ctx).Save(models.MemberFromDomain(member)).Error
}

func (r *memberRepository) Delete(ctx context.Context, id string) error {
	// Loans keep their memberId after deletion; only the member row goes.
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&models.Member{}).Error
}

func (r *memberRepository) List(ctx context.Context, offset, limit int) ([]*domain.Member, int64, error) {
	var members []models.Member
	var total int64

	if err := r.db.WithContext(ctx).Model(&models.Member{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}
	err := r.db.WithContext(ctx).
		Order("created_at ASC").
		Offset(offset).
		Limit(limit).
		Find(&members).Error
	if err != nil {
		return nil, 0, err
	}

	result := make([]*domain.Member, len(members))
	for i := range members {
		result[i] = members[i].ToDomain()
	}
	return result, total, nil
}

func (r *memberRepository) Search(ctx context.Context, query string, limit int) ([]*domain.Member, error) {
	var members []models.Member
	searchQuery := "%" + query + "%"
	err := r.db.WithContext(ctx).
		Where("name LIKE ? OR email LIKE ? OR phone LIKE ? OR id_no LIKE ?",
			searchQuery, searchQuery, searchQuery, searchQuery).
		Limit(limit).
		Find(&members).Error
	if err != nil {
		return nil, err
	}
	result := make([]*domain.Member, len(members))
	for i := range members {
		result[i] = members[i].ToDomain()
	}
	return result, nil
}
