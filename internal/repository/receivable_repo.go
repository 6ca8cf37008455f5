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

type ReceivableFilter struct {
	BranchID *uuid.UUID
	Status   string
	Page     int
	Limit    int
}

type ReceivableRepository interface {
	Create(ctx context.Context, tx *gorm.DB, r *model.Receivable) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Receivable, error)
	// LockByID acquires a row-level write lock (SELECT … FOR UPDATE) so two
	// concurrent payments cannot double-spend the same pending balance.
	LockByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*model.Receivable, error)
	Update(ctx context.Context, tx *gorm.DB, r *model.Receivable) error
	List(ctx context.Context, filter ReceivableFilter) ([]model.Receivable, int64, error)
	ListOverdue(ctx context.Context, asOf time.Time) ([]model.Receivable, error)
	// SumPendingByBranch totals the open balance (pendiente + parcial) of a branch.
	SumPendingByBranch(ctx context.Context, branchID uuid.UUID) (decimal.Decimal, error)

	CreatePayment(ctx context.Context, tx *gorm.DB, p *model.PaymentReceived) error
	// FindAppliedPayment looks for an already-applied payment with identical
	// (method, reference, amount) recorded after since. Duplicate guard input.
	FindAppliedPayment(ctx context.Context, tx *gorm.DB, method model.PaymentMethod, reference string, amount decimal.Decimal, since time.Time) (*model.PaymentReceived, error)
	PaymentsByBranchDate(ctx context.Context, branchID uuid.UUID, date time.Time) ([]model.PaymentReceived, error)
	MarkPaymentReconciled(ctx context.Context, tx *gorm.DB, paymentID uuid.UUID, at time.Time) error

	DB() *gorm.DB
}

type receivableRepo struct{ db *gorm.DB }

func NewReceivableRepository(db *gorm.DB) ReceivableRepository { return &receivableRepo{db: db} }

func (r *receivableRepo) DB() *gorm.DB { return r.db }

func (r *receivableRepo) Create(ctx context.Context, tx *gorm.DB, rec *model.Receivable) error {
	return tx.WithContext(ctx).Create(rec).Error
}

func (r *receivableRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Receivable, error) {
	var rec model.Receivable
	err := r.db.WithContext(ctx).Preload("Payments").First(&rec, "id = ?", id).Error
	return &rec, err
}

func (r *receivableRepo) LockByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*model.Receivable, error) {
	var rec model.Receivable
	err := tx.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&rec, "id = ?", id).Error
	return &rec, err
}

func (r *receivableRepo) Update(ctx context.Context, tx *gorm.DB, rec *model.Receivable) error {
	return tx.WithContext(ctx).Save(rec).Error
}

func (r *receivableRepo) List(ctx context.Context, filter ReceivableFilter) ([]model.Receivable, int64, error) {
	var recs []model.Receivable
	var total int64

	q := r.db.WithContext(ctx).Model(&model.Receivable{})
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
		Find(&recs).Error
	return recs, total, err
}

func (r *receivableRepo) ListOverdue(ctx context.Context, asOf time.Time) ([]model.Receivable, error) {
	var recs []model.Receivable
	err := r.db.WithContext(ctx).
		Where("due_date < ? AND status IN ?", asOf,
			[]model.ReceivableStatus{model.ReceivablePendiente, model.ReceivableParcial}).
		Find(&recs).Error
	return recs, err
}

func (r *receivableRepo) SumPendingByBranch(ctx context.Context, branchID uuid.UUID) (decimal.Decimal, error) {
	var total decimal.Decimal
	err := r.db.WithContext(ctx).Model(&model.Receivable{}).
		Select("COALESCE(SUM(pending), 0)").
		Where("branch_id = ? AND status IN ?", branchID,
			[]model.ReceivableStatus{model.ReceivablePendiente, model.ReceivableParcial}).
		Scan(&total).Error
	return total, err
}

func (r *receivableRepo) CreatePayment(ctx context.Context, tx *gorm.DB, p *model.PaymentReceived) error {
	return tx.WithContext(ctx).Create(p).Error
}

func (r *receivableRepo) FindAppliedPayment(ctx context.Context, tx *gorm.DB, method model.PaymentMethod, reference string, amount decimal.Decimal, since time.Time) (*model.PaymentReceived, error) {
	var p model.PaymentReceived
	err := tx.WithContext(ctx).
		Where("method = ? AND reference = ? AND amount = ? AND created_at >= ?",
			method, reference, amount, since).
		First(&p).Error
	return &p, err
}

func (r *receivableRepo) PaymentsByBranchDate(ctx context.Context, branchID uuid.UUID, date time.Time) ([]model.PaymentReceived, error) {
	var ps []model.PaymentReceived
	err := r.db.WithContext(ctx).
		Joins("JOIN receivables ON receivables.id = payment_receiveds.receivable_id").
		Where("receivables.branch_id = ? AND DATE(payment_receiveds.created_at) = ?", branchID, date.Format("2006-01-02")).
		Order("payment_receiveds.created_at ASC").
		Find(&ps).Error
	return ps, err
}

func (r *receivableRepo) MarkPaymentReconciled(ctx context.Context, tx *gorm.DB, paymentID uuid.UUID, at time.Time) error {
	return tx.WithContext(ctx).Model(&model.PaymentReceived{}).
		Where("id = ?", paymentID).
		Updates(map[string]interface{}{"reconciled": true, "reconciled_at": at}).Error
}
