package repository

import (
	"context"
	"time"

	"rumbo/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ReconciliationRepository interface {
	Create(ctx context.Context, tx *gorm.DB, rec *model.ReconciliationRecord) error
	FindByBranchDate(ctx context.Context, branchID uuid.UUID, date time.Time) (*model.ReconciliationRecord, error)
	FindByID(ctx context.Context, id uuid.UUID) (*model.ReconciliationRecord, error)
	// Delete removes a record so the day can be re-reconciled. The record is
	// otherwise immutable.
	Delete(ctx context.Context, tx *gorm.DB, id uuid.UUID) error
	ListByBranch(ctx context.Context, branchID uuid.UUID, limit int) ([]model.ReconciliationRecord, error)
	DB() *gorm.DB
}

type reconciliationRepo struct{ db *gorm.DB }

func NewReconciliationRepository(db *gorm.DB) ReconciliationRepository {
	return &reconciliationRepo{db: db}
}

func (r *reconciliationRepo) DB() *gorm.DB { return r.db }

func (r *reconciliationRepo) Create(ctx context.Context, tx *gorm.DB, rec *model.ReconciliationRecord) error {
	return tx.WithContext(ctx).Create(rec).Error
}

func (r *reconciliationRepo) FindByBranchDate(ctx context.Context, branchID uuid.UUID, date time.Time) (*model.ReconciliationRecord, error) {
	var rec model.ReconciliationRecord
	err := r.db.WithContext(ctx).
		Where("branch_id = ? AND date = ?", branchID, date.Format("2006-01-02")).
		First(&rec).Error
	return &rec, err
}

func (r *reconciliationRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.ReconciliationRecord, error) {
	var rec model.ReconciliationRecord
	err := r.db.WithContext(ctx).First(&rec, "id = ?", id).Error
	return &rec, err
}

func (r *reconciliationRepo) Delete(ctx context.Context, tx *gorm.DB, id uuid.UUID) error {
	return tx.WithContext(ctx).Delete(&model.ReconciliationRecord{}, "id = ?", id).Error
}

func (r *reconciliationRepo) ListByBranch(ctx context.Context, branchID uuid.UUID, limit int) ([]model.ReconciliationRecord, error) {
	if limit <= 0 {
		limit = 30
	}
	var recs []model.ReconciliationRecord
	err := r.db.WithContext(ctx).
		Where("branch_id = ?", branchID).
		Order("date DESC").Limit(limit).
		Find(&recs).Error
	return recs, err
}
