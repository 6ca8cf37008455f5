package repository

import (
	"context"

	"rumbo/internal/model"

	"gorm.io/gorm"
)

// ContractedRateRepository reads the trip rate table maintained by the sales
// subsystem. Read-only from the finance core.
type ContractedRateRepository interface {
	FindByTripRef(ctx context.Context, tripRef string) (*model.ContractedRate, error)
	Create(ctx context.Context, rate *model.ContractedRate) error // used by seeders and tests
}

type rateRepo struct{ db *gorm.DB }

func NewContractedRateRepository(db *gorm.DB) ContractedRateRepository { return &rateRepo{db: db} }

func (r *rateRepo) FindByTripRef(ctx context.Context, tripRef string) (*model.ContractedRate, error) {
	var rate model.ContractedRate
	err := r.db.WithContext(ctx).Where("trip_ref = ?", tripRef).First(&rate).Error
	return &rate, err
}

func (r *rateRepo) Create(ctx context.Context, rate *model.ContractedRate) error {
	return r.db.WithContext(ctx).Create(rate).Error
}
