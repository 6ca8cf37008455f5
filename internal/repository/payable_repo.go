package repository

import (
	"context"
	"time"

	"rumbo/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type PayableFilter struct {
	BranchID *uuid.UUID
	Status   string
	Page     int
	Limit    int
}

type PayableRepository interface {
	Create(ctx context.Context, tx *gorm.DB, p *model.Payable) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Payable, error)
	LockByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*model.Payable, error)
	Update(ctx context.Context, tx *gorm.DB, p *model.Payable) error
	List(ctx context.Context, filter PayableFilter) ([]model.Payable, int64, error)
	// SumPendingByBranch totals the undisbursed balance of a branch's open CXP.
	SumPendingByBranch(ctx context.Context, branchID uuid.UUID) (decimal.Decimal, error)

	CreatePayment(ctx context.Context, tx *gorm.DB, p *model.PaymentMade) error
	PaymentsByBranchDate(ctx context.Context, branchID uuid.UUID, date time.Time) ([]model.PaymentMade, error)
	MarkPaymentReconciled(ctx context.Context, tx *gorm.DB, paymentID uuid.UUID, at time.Time) error

	DB() *gorm.DB
}

type payableRepo struct{ db *gorm.DB }

func NewPayableRepository(db *gorm.DB) PayableRepository { return &payableRepo{db: db} }

func (r *payableRepo) DB() *gorm.DB { return r.db }

func (r *payableRepo) Create(ctx context.Context, tx *gorm.DB, p *model.Payable) error {
	return tx.WithContext(ctx).Create(p).Error
}

func (r *payableRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Payable, error) {
	var p model.Payable
	err := r.db.WithContext(ctx).Preload("Payments").First(&p, "id = ?", id).Error
	return &p, err
}

func (r *payableRepo) LockByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*model.Payable, error) {
	var p model.Payable
	err := tx.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&p, "id = ?", id).Error
	return &p, err
}

func (r *payableRepo) Update(ctx context.Context, tx *gorm.DB, p *model.Payable) error {
	return tx.WithContext(ctx).Save(p).Error
}

func (r *payableRepo) List(ctx context.Context, filter PayableFilter) ([]model.Payable, int64, error) {
	var ps []model.Payable
	var total int64

	q := r.db.WithContext(ctx).Model(&model.Payable{})
	if filter.BranchID != nil {
		q = q.Where("branch_id = ?", *filter.BranchID)
	}
	if filter.Status != "" && filter.Status != "all" {
		q = q.Where("status = ?", filter.Status)
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
		Find(&ps).Error
	return ps, total, err
}

func (r *payableRepo) SumPendingByBranch(ctx context.Context, branchID uuid.UUID) (decimal.Decimal, error) {
	var total decimal.Decimal
	err := r.db.WithContext(ctx).Model(&model.Payable{}).
		Select("COALESCE(SUM(pending), 0)").
		Where("branch_id = ? AND status IN ?", branchID,
			[]model.PayableStatus{model.PayablePendiente, model.PayablePendienteRevision, model.PayableAutorizada}).
		Scan(&total).Error
	return total, err
}

func (r *payableRepo) CreatePayment(ctx context.Context, tx *gorm.DB, p *model.PaymentMade) error {
	return tx.WithContext(ctx).Create(p).Error
}

func (r *payableRepo) PaymentsByBranchDate(ctx context.Context, branchID uuid.UUID, date time.Time) ([]model.PaymentMade, error) {
	var ps []model.PaymentMade
	err := r.db.WithContext(ctx).
		Joins("JOIN payables ON payables.id = payment_mades.payable_id").
		Where("payables.branch_id = ? AND DATE(payment_mades.created_at) = ?", branchID, date.Format("2006-01-02")).
		Order("payment_mades.created_at ASC").
		Find(&ps).Error
	return ps, err
}

func (r *payableRepo) MarkPaymentReconciled(ctx context.Context, tx *gorm.DB, paymentID uuid.UUID, at time.Time) error {
	return tx.WithContext(ctx).Model(&model.PaymentMade{}).
		Where("id = ?", paymentID).
		Updates(map[string]interface{}{"reconciled": true, "reconciled_at": at}).Error
}
