package repository

import (
	"context"

	"rumbo/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type RefundRepository interface {
	Create(ctx context.Context, tx *gorm.DB, rf *model.Refund) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Refund, error)
	ListByBranch(ctx context.Context, branchID uuid.UUID, limit int) ([]model.Refund, error)
	DB() *gorm.DB
}

type refundRepo struct{ db *gorm.DB }

func NewRefundRepository(db *gorm.DB) RefundRepository { return &refundRepo{db: db} }

func (r *refundRepo) DB() *gorm.DB { return r.db }

func (r *refundRepo) Create(ctx context.Context, tx *gorm.DB, rf *model.Refund) error {
	return tx.WithContext(ctx).Create(rf).Error
}

func (r *refundRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Refund, error) {
	var rf model.Refund
	err := r.db.WithContext(ctx).First(&rf, "id = ?", id).Error
	return &rf, err
}

func (r *refundRepo) ListByBranch(ctx context.Context, branchID uuid.UUID, limit int) ([]model.Refund, error) {
	if limit <= 0 {
		limit = 50
	}
	var rfs []model.Refund
	err := r.db.WithContext(ctx).
		Where("branch_id = ?", branchID).
		Order("created_at DESC").Limit(limit).
		Find(&rfs).Error
	return rfs, err
}
