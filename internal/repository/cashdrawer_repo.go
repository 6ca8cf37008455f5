package repository

import (
	"context"
	"errors"
	"time"

	"rumbo/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type CashDrawerRepository interface {
	CreateMovement(ctx context.Context, tx *gorm.DB, m *model.DrawerMovement) error
	// SumMovements totals ingresos and egresos for a drawer in [from, to).
	SumMovements(ctx context.Context, branchID uuid.UUID, drawer string, from, to time.Time) (in, out decimal.Decimal, err error)
	LastClosure(ctx context.Context, branchID uuid.UUID, drawer string) (*model.CashClosure, error)
	CreateClosure(ctx context.Context, tx *gorm.DB, c *model.CashClosure) error
	ListClosures(ctx context.Context, branchID uuid.UUID, limit int) ([]model.CashClosure, error)
	DB() *gorm.DB
}

type cashDrawerRepo struct{ db *gorm.DB }

func NewCashDrawerRepository(db *gorm.DB) CashDrawerRepository { return &cashDrawerRepo{db: db} }

func (r *cashDrawerRepo) DB() *gorm.DB { return r.db }

func (r *cashDrawerRepo) CreateMovement(ctx context.Context, tx *gorm.DB, m *model.DrawerMovement) error {
	return tx.WithContext(ctx).Create(m).Error
}

func (r *cashDrawerRepo) SumMovements(ctx context.Context, branchID uuid.UUID, drawer string, from, to time.Time) (decimal.Decimal, decimal.Decimal, error) {
	type row struct {
		Kind  string
		Total decimal.Decimal
	}
	var rows []row
	err := r.db.WithContext(ctx).Model(&model.DrawerMovement{}).
		Select("kind, COALESCE(SUM(amount), 0) AS total").
		Where("branch_id = ? AND drawer = ? AND created_at >= ? AND created_at < ?", branchID, drawer, from, to).
		Group("kind").
		Scan(&rows).Error
	if err != nil {
		return decimal.Zero, decimal.Zero, err
	}

	in, out := decimal.Zero, decimal.Zero
	for _, rw := range rows {
		switch model.DrawerMovementKind(rw.Kind) {
		case model.MovIngreso:
			in = rw.Total
		case model.MovEgreso:
			out = rw.Total
		}
	}
	return in, out, nil
}

func (r *cashDrawerRepo) LastClosure(ctx context.Context, branchID uuid.UUID, drawer string) (*model.CashClosure, error) {
	var c model.CashClosure
	err := r.db.WithContext(ctx).
		Where("branch_id = ? AND drawer = ?", branchID, drawer).
		Order("created_at DESC").
		First(&c).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &c, err
}

func (r *cashDrawerRepo) CreateClosure(ctx context.Context, tx *gorm.DB, c *model.CashClosure) error {
	return tx.WithContext(ctx).Create(c).Error
}

func (r *cashDrawerRepo) ListClosures(ctx context.Context, branchID uuid.UUID, limit int) ([]model.CashClosure, error) {
	if limit <= 0 {
		limit = 30
	}
	var cs []model.CashClosure
	err := r.db.WithContext(ctx).
		Where("branch_id = ?", branchID).
		Order("created_at DESC").Limit(limit).
		Find(&cs).Error
	return cs, err
}
