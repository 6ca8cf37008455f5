package repository

import (
	"context"
	"time"

	"rumbo/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// LedgerRepository is append-only. There is deliberately no Update or Delete:
// corrections are posted as new balancing entries.
type LedgerRepository interface {
	CreateBatch(ctx context.Context, tx *gorm.DB, entries []model.LedgerEntry) error
	ListByRef(ctx context.Context, refType string, refID uuid.UUID) ([]model.LedgerEntry, error)
	ListByFolio(ctx context.Context, folio string) ([]model.LedgerEntry, error)
	ListByBranchDate(ctx context.Context, branchID uuid.UUID, date time.Time) ([]model.LedgerEntry, error)
}

type ledgerRepo struct{ db *gorm.DB }

func NewLedgerRepository(db *gorm.DB) LedgerRepository { return &ledgerRepo{db: db} }

func (r *ledgerRepo) CreateBatch(ctx context.Context, tx *gorm.DB, entries []model.LedgerEntry) error {
	return tx.WithContext(ctx).Create(&entries).Error
}

func (r *ledgerRepo) ListByRef(ctx context.Context, refType string, refID uuid.UUID) ([]model.LedgerEntry, error) {
	var es []model.LedgerEntry
	err := r.db.WithContext(ctx).
		Where("ref_type = ? AND ref_id = ?", refType, refID).
		Order("created_at ASC").Find(&es).Error
	return es, err
}

func (r *ledgerRepo) ListByFolio(ctx context.Context, folio string) ([]model.LedgerEntry, error) {
	var es []model.LedgerEntry
	err := r.db.WithContext(ctx).Where("folio = ?", folio).Order("created_at ASC").Find(&es).Error
	return es, err
}

func (r *ledgerRepo) ListByBranchDate(ctx context.Context, branchID uuid.UUID, date time.Time) ([]model.LedgerEntry, error) {
	var es []model.LedgerEntry
	err := r.db.WithContext(ctx).
		Where("branch_id = ? AND DATE(created_at) = ?", branchID, date.Format("2006-01-02")).
		Order("created_at ASC").Find(&es).Error
	return es, err
}
