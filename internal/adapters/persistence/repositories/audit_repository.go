package repositories

import (
	"context"

	"github.com/PositiveMinds/Together-As-One-SACCO/internal/adapters/persistence/models"
	"github.com/PositiveMinds/Together-As-One-SACCO/internal/core/domain"

	"gorm.io/gorm"
)

// auditRepository implements AuditRepository. Append-only: entries are never
// updated or deleted except by the full-system clear.
type auditRepository struct {
	db *gorm.DB
}

// NewAuditRepository creates a new audit repository
func NewAuditRepository(db *gorm.DB) AuditRepository {
	return &auditRepository{db: db}
}

func (r *auditRepository) Append(ctx context.Context, action domain.AuditAction, details, userRole string) error {
	entry := &models.AuditLog{
		Action:   string(action),
		Details:  details,
		UserRole: userRole,
	}
	return r.db.WithContext(ctx).Create(entry).Error
}

func (r *auditRepository) List(ctx context.Context, offset, limit int) ([]*domain.AuditLogEntry, int64, error) {
	var entries []models.AuditLog
	var total int64

	if err := r.db.WithContext(ctx).Model(&models.AuditLog{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}
	err := r.db.WithContext(ctx).
		Order("created_at DESC").
		Offset(offset).
		Limit(limit).
		Find(&entries).Error
	if err != nil {
		return nil, 0, err
	}

	result := make([]*domain.AuditLogEntry, len(entries))
	for i := range entries {
		result[i] = entries[i].ToDomain()
	}
	return result, total, nil
}
