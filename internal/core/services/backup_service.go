package services

import (
	"context"
	"fmt"

	"github.com/PositiveMinds/Together-As-One-SACCO/internal/adapters/persistence/repositories"
	"github.com/PositiveMinds/Together-As-One-SACCO/internal/core/domain"
)

// BackupService exports and restores the full ledger as a JSON
// envelope. Import and clear are destructive: they replace or remove
// every entity, so both leave an audit trail before the data is gone.
type BackupService struct {
	backupRepo repositories.BackupRepository
	auditRepo  repositories.AuditRepository
}

// NewBackupService creates a new backup service
func NewBackupService(
	backupRepo repositories.BackupRepository,
	auditRepo repositories.AuditRepository,
) *BackupService {
	return &BackupService{
		backupRepo: backupRepo,
		auditRepo:  auditRepo,
	}
}

// Export returns the full ledger as a JSON envelope
func (s *BackupService) Export(ctx context.Context, userRole string) ([]byte, error) {
	blob, err := s.backupRepo.Export(ctx)
	if err != nil {
		return nil, err
	}
	details := fmt.Sprintf("Full data export (%d bytes)", len(blob))
	if err := s.auditRepo.Append(ctx, domain.AuditDataExported, details, userRole); err != nil {
		return nil, err
	}
	return blob, nil
}

// Import replaces the entire ledger with the envelope contents
func (s *BackupService) Import(ctx context.Context, blob []byte, userRole string) error {
	if len(blob) == 0 {
		return domain.ErrInvalidInput
	}
	if err := s.backupRepo.Import(ctx, blob); err != nil {
		return err
	}
	details := fmt.Sprintf("Full data import (%d bytes)", len(blob))
	return s.auditRepo.Append(ctx, domain.AuditDataImported, details, userRole)
}

// Clear wipes every ledger entity. The audit entry is written after
// the wipe so it survives as the first record of the fresh ledger.
func (s *BackupService) Clear(ctx context.Context, userRole string) error {
	if err := s.backupRepo.Clear(ctx); err != nil {
		return err
	}
	return s.auditRepo.Append(ctx, domain.AuditDataCleared, "All ledger data cleared", userRole)
}
