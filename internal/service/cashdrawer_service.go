package service

import (
	"context"
	"fmt"
	"time"

	"rumbo/internal/finerr"
	"rumbo/internal/model"
	"rumbo/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Variance thresholds for the desvío de caja alert.
var (
	varianceMedia = decimal.NewFromInt(50)
	varianceAlta  = decimal.NewFromInt(100)
)

// CloseDrawerInput is the physical count submitted at end of day.
type CloseDrawerInput struct {
	BranchID      uuid.UUID
	Drawer        string
	CountedAmount decimal.Decimal
	Denominations []model.DenominationCount
}

// RegisterMovementInput is a manual drawer adjustment (fondo inicial, retiro a
// bóveda, gastos menores). Payments write their movements automatically.
type RegisterMovementInput struct {
	BranchID uuid.UUID
	Drawer   string
	Kind     model.DrawerMovementKind
	Amount   decimal.Decimal
	Concept  string
}

type CashDrawerService interface {
	Close(ctx context.Context, actorID *uuid.UUID, in CloseDrawerInput) (*model.CashClosure, error)
	RegisterMovement(ctx context.Context, actorID *uuid.UUID, in RegisterMovementInput) (*model.DrawerMovement, error)
	ListClosures(ctx context.Context, branchID uuid.UUID, limit int) ([]model.CashClosure, error)
}

type cashDrawerService struct {
	repo   repository.CashDrawerRepository
	folios repository.FolioRepository
	alerts AlertService
	audit  repository.AuditRepository
	now    nowFunc
}

func NewCashDrawerService(
	repo repository.CashDrawerRepository,
	folios repository.FolioRepository,
	alerts AlertService,
	audit repository.AuditRepository,
) CashDrawerService {
	return &cashDrawerService{repo: repo, folios: folios, alerts: alerts, audit: audit, now: time.Now}
}

// Close counts a drawer against its movement stream. The prior closure's
// counted balance becomes this period's opening (zero on first close), so the
// physical count always carries forward — a shortage hidden today shows up
// tomorrow.
func (s *cashDrawerService) Close(ctx context.Context, actorID *uuid.UUID, in CloseDrawerInput) (*model.CashClosure, error) {
	if in.Drawer == "" {
		return nil, finerr.Validation("nombre de caja requerido")
	}
	if in.CountedAmount.IsNegative() {
		return nil, finerr.Validation("el conteo físico no puede ser negativo")
	}
	if len(in.Denominations) > 0 {
		sum := decimal.Zero
		for _, d := range in.Denominations {
			denom, err := decimal.NewFromString(d.Denomination)
			if err != nil || d.Count < 0 {
				return nil, finerr.Validation("desglose de denominaciones inválido")
			}
			sum = sum.Add(denom.Mul(decimal.NewFromInt(int64(d.Count))))
		}
		if !sum.Equal(in.CountedAmount) {
			return nil, finerr.Validation("el desglose (%s) no coincide con el conteo (%s)",
				sum.StringFixed(2), in.CountedAmount.StringFixed(2))
		}
	}

	now := s.now()

	prior, err := s.repo.LastClosure(ctx, in.BranchID, in.Drawer)
	if err != nil {
		return nil, err
	}
	opening := decimal.Zero
	periodStart := time.Time{}
	if prior != nil {
		opening = prior.CountedBalance
		periodStart = prior.CreatedAt
	}

	totalIn, totalOut, err := s.repo.SumMovements(ctx, in.BranchID, in.Drawer, periodStart, now)
	if err != nil {
		return nil, err
	}

	expected := opening.Add(totalIn).Sub(totalOut)
	variance := in.CountedAmount.Sub(expected)

	var closure model.CashClosure
	err = runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		folio, err := s.folios.Next(ctx, tx, model.FolioCierreCaja, now)
		if err != nil {
			return err
		}

		closure = model.CashClosure{
			Folio:           folio,
			BranchID:        in.BranchID,
			Drawer:          in.Drawer,
			OpeningBalance:  opening,
			TotalIn:         totalIn,
			TotalOut:        totalOut,
			ExpectedBalance: expected,
			CountedBalance:  in.CountedAmount,
			Variance:        variance,
			Denominations:   in.Denominations,
			ClosedBy:        actorID,
		}
		if err := s.repo.CreateClosure(ctx, tx, &closure); err != nil {
			return err
		}

		if variance.Abs().GreaterThan(varianceMedia) {
			severity := model.SeverityMedia
			if variance.Abs().GreaterThan(varianceAlta) {
				severity = model.SeverityAlta
			}
			role := model.RoleGerente
			ref := folio
			alert := AlertInput{
				Type:     model.AlertDesvioCaja,
				Severity: severity,
				Title:    fmt.Sprintf("Desvío de caja en cierre %s", folio),
				Message: fmt.Sprintf("Caja %s: esperado %s, contado %s, desvío %s.",
					in.Drawer, expected.StringFixed(2), in.CountedAmount.StringFixed(2), variance.StringFixed(2)),
				ReferenceID: &ref,
				BranchID:    &in.BranchID,
				TargetRole:  &role,
			}
			if err := s.alerts.Raise(ctx, tx, alert); err != nil {
				return err
			}
		}

		return s.audit.Create(ctx, tx, &model.AuditEntry{
			TableName: "cash_closures",
			RecordID:  closure.ID.String(),
			Action:    model.AuditCierre,
			ActorID:   actorID,
			Changes: []model.FieldChange{
				{Field: "folio", After: folio},
				{Field: "expected", After: expected.StringFixed(2)},
				{Field: "counted", After: in.CountedAmount.StringFixed(2)},
				{Field: "variance", After: variance.StringFixed(2)},
			},
		})
	})
	if err != nil {
		return nil, err
	}
	return &closure, nil
}

func (s *cashDrawerService) RegisterMovement(ctx context.Context, actorID *uuid.UUID, in RegisterMovementInput) (*model.DrawerMovement, error) {
	if in.Drawer == "" || in.Concept == "" {
		return nil, finerr.Validation("caja y concepto requeridos")
	}
	if in.Kind != model.MovIngreso && in.Kind != model.MovEgreso {
		return nil, finerr.Validation("tipo de movimiento inválido: %s", in.Kind)
	}
	if !in.Amount.IsPositive() {
		return nil, finerr.Validation("el monto debe ser mayor a cero")
	}

	mov := &model.DrawerMovement{
		BranchID: in.BranchID,
		Drawer:   in.Drawer,
		Kind:     in.Kind,
		Amount:   in.Amount,
		Concept:  in.Concept,
	}
	err := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		if err := s.repo.CreateMovement(ctx, tx, mov); err != nil {
			return err
		}
		return s.audit.Create(ctx, tx, &model.AuditEntry{
			TableName: "drawer_movements",
			RecordID:  mov.ID.String(),
			Action:    model.AuditCrear,
			ActorID:   actorID,
			Changes: []model.FieldChange{
				{Field: "kind", After: string(in.Kind)},
				{Field: "amount", After: in.Amount.StringFixed(2)},
				{Field: "concept", After: in.Concept},
			},
		})
	})
	if err != nil {
		return nil, err
	}
	return mov, nil
}

func (s *cashDrawerService) ListClosures(ctx context.Context, branchID uuid.UUID, limit int) ([]model.CashClosure, error) {
	return s.repo.ListClosures(ctx, branchID, limit)
}
