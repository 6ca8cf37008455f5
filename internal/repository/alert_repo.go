package repository

import (
	"context"
	"time"

	"rumbo/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type AlertFilter struct {
	BranchID       *uuid.UUID
	UnresolvedOnly bool
	Page           int
	Limit          int
}

type AlertRepository interface {
	Create(ctx context.Context, tx *gorm.DB, a *model.Alert) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Alert, error)
	// FindOpenDuplicate returns an unresolved alert of the same (type, reference)
	// created at or after since, if any. Used by the dedup gate.
	FindOpenDuplicate(ctx context.Context, tx *gorm.DB, alertType, referenceID string, since time.Time) (*model.Alert, error)
	List(ctx context.Context, filter AlertFilter) ([]model.Alert, int64, error)
	MarkRead(ctx context.Context, id uuid.UUID) error
	Resolve(ctx context.Context, id uuid.UUID, at time.Time) error
	CountOpenByBranch(ctx context.Context, branchID uuid.UUID) (int64, error)
}

type alertRepo struct{ db *gorm.DB }

func NewAlertRepository(db *gorm.DB) AlertRepository { return &alertRepo{db: db} }

func (r *alertRepo) Create(ctx context.Context, tx *gorm.DB, a *model.Alert) error {
	return tx.WithContext(ctx).Create(a).Error
}

func (r *alertRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Alert, error) {
	var a model.Alert
	err := r.db.WithContext(ctx).First(&a, "id = ?", id).Error
	return &a, err
}

func (r *alertRepo) FindOpenDuplicate(ctx context.Context, tx *gorm.DB, alertType, referenceID string, since time.Time) (*model.Alert, error) {
	var a model.Alert
	err := tx.WithContext(ctx).
		Where("type = ? AND reference_id = ? AND resolved = false AND created_at >= ?",
			alertType, referenceID, since).
		First(&a).Error
	return &a, err
}

func (r *alertRepo) List(ctx context.Context, filter AlertFilter) ([]model.Alert, int64, error) {
	var as []model.Alert
	var total int64

	q := r.db.WithContext(ctx).Model(&model.Alert{})
	if filter.BranchID != nil {
		q = q.Where("branch_id = ?", *filter.BranchID)
	}
	if filter.UnresolvedOnly {
		q = q.Where("resolved = false")
	}
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if filter.Limit <= 0 {
		filter.Limit = 50
	}
	if filter.Page <= 0 {
		filter.Page = 1
	}
	err := q.Order("created_at DESC").
		Offset((filter.Page - 1) * filter.Limit).Limit(filter.Limit).
		Find(&as).Error
	return as, total, err
}

func (r *alertRepo) MarkRead(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Model(&model.Alert{}).Where("id = ?", id).Update("read", true).Error
}

func (r *alertRepo) Resolve(ctx context.Context, id uuid.UUID, at time.Time) error {
	return r.db.WithContext(ctx).Model(&model.Alert{}).Where("id = ?", id).
		Updates(map[string]interface{}{"resolved": true, "resolved_at": at}).Error
}

func (r *alertRepo) CountOpenByBranch(ctx context.Context, branchID uuid.UUID) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&model.Alert{}).
		Where("branch_id = ? AND resolved = false", branchID).Count(&n).Error
	return n, err
}
