package service

import (
	"context"
	"time"

	"rumbo/internal/finerr"
	"rumbo/internal/model"
	"rumbo/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// CreateCommissionsInput describes one sale event to split.
type CreateCommissionsInput struct {
	TripRef         string
	SaleAmount      decimal.Decimal
	SellerBranchID  uuid.UUID
	OperatingBranch uuid.UUID
	SalespersonRef  *string
	GuideRef        *string
}

type CommissionService interface {
	// CreateCommissions produces one row per applicable beneficiary:
	// vendedor 5%, guía 3%, and a 12% inter-branch cut when the selling and
	// operating branches differ. Ledger posting happens later, when each
	// commission is settled as a regular CXP.
	CreateCommissions(ctx context.Context, actorID *uuid.UUID, in CreateCommissionsInput) ([]model.Commission, error)
	ListByTripRef(ctx context.Context, tripRef string) ([]model.Commission, error)
}

type commissionService struct {
	repo   repository.CommissionRepository
	folios repository.FolioRepository
	audit  repository.AuditRepository
	now    nowFunc
}

func NewCommissionService(
	repo repository.CommissionRepository,
	folios repository.FolioRepository,
	audit repository.AuditRepository,
) CommissionService {
	return &commissionService{repo: repo, folios: folios, audit: audit, now: time.Now}
}

func (s *commissionService) CreateCommissions(ctx context.Context, actorID *uuid.UUID, in CreateCommissionsInput) ([]model.Commission, error) {
	if !in.SaleAmount.IsPositive() {
		return nil, finerr.Validation("el monto de venta debe ser mayor a cero")
	}
	if in.TripRef == "" {
		return nil, finerr.Validation("referencia de viaje requerida")
	}

	var created []model.Commission
	err := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		add := func(c model.Commission) error {
			folio, err := s.folios.Next(ctx, tx, model.FolioComision, s.now())
			if err != nil {
				return err
			}
			c.Folio = folio
			c.TripRef = in.TripRef
			c.BaseAmount = in.SaleAmount
			c.Amount = in.SaleAmount.Mul(c.Percentage).Round(2)
			c.Status = model.CommissionPendiente
			if err := s.repo.Create(ctx, tx, &c); err != nil {
				return err
			}
			created = append(created, c)

			return s.audit.Create(ctx, tx, &model.AuditEntry{
				TableName: "commissions",
				RecordID:  c.ID.String(),
				Action:    model.AuditCrear,
				ActorID:   actorID,
				Changes: []model.FieldChange{
					{Field: "folio", After: folio},
					{Field: "type", After: string(c.Type)},
					{Field: "amount", After: c.Amount.StringFixed(2)},
				},
			})
		}

		if in.SalespersonRef != nil {
			err := add(model.Commission{
				Type:           model.CommissionVendedor,
				BeneficiaryRef: in.SalespersonRef,
				BranchID:       in.SellerBranchID,
				Percentage:     model.RateVendedor,
			})
			if err != nil {
				return err
			}
		}

		if in.GuideRef != nil {
			err := add(model.Commission{
				Type:           model.CommissionGuia,
				BeneficiaryRef: in.GuideRef,
				BranchID:       in.OperatingBranch,
				Percentage:     model.RateGuia,
			})
			if err != nil {
				return err
			}
		}

		if in.SellerBranchID != in.OperatingBranch {
			from := in.OperatingBranch
			err := add(model.Commission{
				Type:         model.CommissionSucursalVendedora,
				BranchID:     in.SellerBranchID,
				FromBranchID: &from,
				Percentage:   model.RateSucursalVendedora,
			})
			if err != nil {
				return err
			}
		}

		if len(created) == 0 {
			return finerr.Validation("la venta %s no genera comisiones", in.TripRef)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

func (s *commissionService) ListByTripRef(ctx context.Context, tripRef string) ([]model.Commission, error) {
	if tripRef == "" {
		return nil, finerr.Validation("referencia de viaje requerida")
	}
	return s.repo.ListByTripRef(ctx, tripRef)
}
