package repository

import (
	"context"

	"rumbo/internal/model"

	"gorm.io/gorm"
)

type CommissionRepository interface {
	Create(ctx context.Context, tx *gorm.DB, c *model.Commission) error
	ListByTripRef(ctx context.Context, tripRef string) ([]model.Commission, error)
	DB() *gorm.DB
}

type commissionRepo struct{ db *gorm.DB }

func NewCommissionRepository(db *gorm.DB) CommissionRepository { return &commissionRepo{db: db} }

func (r *commissionRepo) DB() *gorm.DB { return r.db }

func (r *commissionRepo) Create(ctx context.Context, tx *gorm.DB, c *model.Commission) error {
	return tx.WithContext(ctx).Create(c).Error
}

func (r *commissionRepo) ListByTripRef(ctx context.Context, tripRef string) ([]model.Commission, error) {
	var cs []model.Commission
	err := r.db.WithContext(ctx).
		Where("trip_ref = ?", tripRef).
		Order("created_at ASC").
		Find(&cs).Error
	return cs, err
}
