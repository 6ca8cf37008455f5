package repository

import (
	"context"

	"rumbo/internal/model"

	"gorm.io/gorm"
)

// AuditRepository is append-only by design.
type AuditRepository interface {
	Create(ctx context.Context, tx *gorm.DB, e *model.AuditEntry) error
	ListByRecord(ctx context.Context, tableName, recordID string) ([]model.AuditEntry, error)
}

type auditRepo struct{ db *gorm.DB }

func NewAuditRepository(db *gorm.DB) AuditRepository { return &auditRepo{db: db} }

func (r *auditRepo) Create(ctx context.Context, tx *gorm.DB, e *model.AuditEntry) error {
	return tx.WithContext(ctx).Create(e).Error
}

func (r *auditRepo) ListByRecord(ctx context.Context, tableName, recordID string) ([]model.AuditEntry, error) {
	var es []model.AuditEntry
	err := r.db.WithContext(ctx).
		Where("table_name = ? AND record_id = ?", tableName, recordID).
		Order("created_at ASC").Find(&es).Error
	return es, err
}
