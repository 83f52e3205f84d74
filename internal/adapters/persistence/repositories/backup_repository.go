package repositories

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/PositiveMinds/Together-As-One-SACCO/internal/adapters/persistence/models"

	"gorm.io/gorm"
)

// BackupEnvelope is the JSON shape of a full export. The store owns this
// format; the core never inspects it.
type BackupEnvelope struct {
	Version     int                 `json:"version"`
	ExportedAt  time.Time           `json:"exported_at"`
	Members     []models.Member     `json:"members"`
	Loans       []models.Loan       `json:"loans"`
	Payments    []models.Payment    `json:"payments"`
	Savings     []models.Saving     `json:"savings"`
	Withdrawals []models.Withdrawal `json:"withdrawals"`
	AuditLogs   []models.AuditLog   `json:"audit_logs"`
}

// backupRepository implements BackupRepository
type backupRepository struct {
	db *gorm.DB
}

// NewBackupRepository creates a new backup repository
func NewBackupRepository(db *gorm.DB) BackupRepository {
	return &backupRepository{db: db}
}

func (r *backupRepository) Export(ctx context.Context) ([]byte, error) {
	envelope := BackupEnvelope{
		Version:    1,
		ExportedAt: time.Now().UTC(),
	}

	db := r.db.WithContext(ctx)
	if err := db.Find(&envelope.Members).Error; err != nil {
		return nil, fmt.Errorf("export members: %w", err)
	}
	if err := db.Find(&envelope.Loans).Error; err != nil {
		return nil, fmt.Errorf("export loans: %w", err)
	}
	if err := db.Find(&envelope.Payments).Error; err != nil {
		return nil, fmt.Errorf("export payments: %w", err)
	}
	if err := db.Find(&envelope.Savings).Error; err != nil {
		return nil, fmt.Errorf("export savings: %w", err)
	}
	if err := db.Find(&envelope.Withdrawals).Error; err != nil {
		return nil, fmt.Errorf("export withdrawals: %w", err)
	}
	if err := db.Find(&envelope.AuditLogs).Error; err != nil {
		return nil, fmt.Errorf("export audit logs: %w", err)
	}

	return json.Marshal(envelope)
}

func (r *backupRepository) Import(ctx context.Context, blob []byte) error {
	var envelope BackupEnvelope
	if err := json.Unmarshal(blob, &envelope); err != nil {
		return fmt.Errorf("parse backup: %w", err)
	}

	// Import replaces the whole ledger atomically
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := clearTables(tx); err != nil {
			return err
		}
		if len(envelope.Members) > 0 {
			if err := tx.Create(&envelope.Members).Error; err != nil {
				return fmt.Errorf("import members: %w", err)
			}
		}
		if len(envelope.Loans) > 0 {
			if err := tx.Create(&envelope.Loans).Error; err != nil {
				return fmt.Errorf("import loans: %w", err)
			}
		}
		if len(envelope.Payments) > 0 {
			if err := tx.Create(&envelope.Payments).Error; err != nil {
				return fmt.Errorf("import payments: %w", err)
			}
		}
		if len(envelope.Savings) > 0 {
			if err := tx.Create(&envelope.Savings).Error; err != nil {
				return fmt.Errorf("import savings: %w", err)
			}
		}
		if len(envelope.Withdrawals) > 0 {
			if err := tx.Create(&envelope.Withdrawals).Error; err != nil {
				return fmt.Errorf("import withdrawals: %w", err)
			}
		}
		if len(envelope.AuditLogs) > 0 {
			if err := tx.Create(&envelope.AuditLogs).Error; err != nil {
				return fmt.Errorf("import audit logs: %w", err)
			}
		}
		return nil
	})
}

func (r *backupRepository) Clear(ctx context.Context) error {
	return r.db.WithContext(ctx).Transaction(clearTables)
}

func clearTables(tx *gorm.DB) error {
	tables := []interface{}{
		&models.Payment{},
		&models.Withdrawal{},
		&models.Saving{},
		&models.Loan{},
		&models.Member{},
		&models.AuditLog{},
	}
	for _, table := range tables {
		if err := tx.Where("1 = 1").Delete(table).Error; err != nil {
			return fmt.Errorf("clear table: %w", err)
		}
	}
	return nil
}
