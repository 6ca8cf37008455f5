package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"rumbo/internal/finerr"
	"rumbo/internal/model"
	"rumbo/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// RefundQuote is the output of the cancellation policy calculator.
type RefundQuote struct {
	Percentage     int
	RefundAmount   decimal.Decimal
	RetainedAmount decimal.Decimal
	Policy         string
}

// CalculateRefund applies the cancellation tier table to a paid amount.
// Pure: no clock, no storage. Negative days fall into the 0% tier.
//
//	>= 30 días  100%
//	14–29 días   90%
//	 7–13 días   75%
//	  2–6 días   50%
//	  0–1 días    0%
func CalculateRefund(daysToDeparture int, paid decimal.Decimal) RefundQuote {
	var pct int
	var policy string
	switch {
	case daysToDeparture >= 30:
		pct, policy = 100, "Cancelación con 30 o más días de anticipación: reembolso del 100%"
	case daysToDeparture >= 14:
		pct, policy = 90, "Cancelación entre 14 y 29 días de anticipación: reembolso del 90%"
	case daysToDeparture >= 7:
		pct, policy = 75, "Cancelación entre 7 y 13 días de anticipación: reembolso del 75%"
	case daysToDeparture >= 2:
		pct, policy = 50, "Cancelación entre 2 y 6 días de anticipación: reembolso del 50%"
	default:
		pct, policy = 0, "Cancelación con menos de 2 días de anticipación: sin reembolso"
	}

	refund := paid.Mul(decimal.NewFromInt(int64(pct))).Div(decimal.NewFromInt(100)).Round(2)
	return RefundQuote{
		Percentage:     pct,
		RefundAmount:   refund,
		RetainedAmount: paid.Sub(refund),
		Policy:         policy,
	}
}

// refundPriorityFloor: paid amounts at or above this escalate the refund to alta.
var refundPriorityFloor = decimal.NewFromInt(10000)

// CreateRefundInput carries everything needed to open a refund case.
type CreateRefundInput struct {
	TripRef       string
	CustomerRef   string
	BranchID      uuid.UUID
	PaidAmount    decimal.Decimal
	DepartureDate time.Time
	Reason        string
}

type RefundService interface {
	Create(ctx context.Context, actorID *uuid.UUID, in CreateRefundInput) (*model.Refund, error)
	Get(ctx context.Context, id uuid.UUID) (*model.Refund, error)
	ListByBranch(ctx context.Context, branchID uuid.UUID, limit int) ([]model.Refund, error)
}

type refundService struct {
	repo   repository.RefundRepository
	folios repository.FolioRepository
	alerts AlertService
	audit  repository.AuditRepository
	now    nowFunc
}

func NewRefundService(
	repo repository.RefundRepository,
	folios repository.FolioRepository,
	alerts AlertService,
	audit repository.AuditRepository,
) RefundService {
	return &refundService{repo: repo, folios: folios, alerts: alerts, audit: audit, now: time.Now}
}

// Create computes days-to-departure (calendar day ceiling), runs the
// calculator and opens the refund in pendiente_autorizacion. Large amounts or
// short notice escalate priority, and the branch gerente is always alerted —
// refunds never pay out without a human in the loop.
func (s *refundService) Create(ctx context.Context, actorID *uuid.UUID, in CreateRefundInput) (*model.Refund, error) {
	if !in.PaidAmount.IsPositive() {
		return nil, finerr.Validation("el monto pagado debe ser mayor a cero")
	}
	if in.TripRef == "" || in.CustomerRef == "" {
		return nil, finerr.Validation("referencia de viaje y de cliente requeridas")
	}

	now := s.now()
	days := int(math.Ceil(in.DepartureDate.Sub(now).Hours() / 24))
	if days < 0 {
		days = 0
	}
	quote := CalculateRefund(days, in.PaidAmount)

	priority := model.PriorityNormal
	if in.PaidAmount.GreaterThanOrEqual(refundPriorityFloor) || days <= 3 {
		priority = model.PriorityAlta
	}

	var rf model.Refund
	err := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		folio, err := s.folios.Next(ctx, tx, model.FolioReembolso, now)
		if err != nil {
			return err
		}

		rf = model.Refund{
			Folio:           folio,
			TripRef:         in.TripRef,
			CustomerRef:     in.CustomerRef,
			BranchID:        in.BranchID,
			PaidAmount:      in.PaidAmount,
			RefundAmount:    quote.RefundAmount,
			RetainedAmount:  quote.RetainedAmount,
			Percentage:      quote.Percentage,
			DaysToDeparture: days,
			Policy:          quote.Policy,
			Reason:          in.Reason,
			Priority:        priority,
			Status:          model.RefundPendienteAutorizacion,
		}
		if err := s.repo.Create(ctx, tx, &rf); err != nil {
			return err
		}

		severity := model.SeverityMedia
		if priority == model.PriorityAlta {
			severity = model.SeverityAlta
		}
		role := model.RoleGerente
		ref := folio
		alert := AlertInput{
			Type:     model.AlertReembolsoPendiente,
			Severity: severity,
			Title:    fmt.Sprintf("Reembolso %s pendiente de autorización", folio),
			Message: fmt.Sprintf("Viaje %s, cliente %s: reembolso de %s (%d%%) sobre %s pagados, salida en %d días.",
				in.TripRef, in.CustomerRef, quote.RefundAmount.StringFixed(2), quote.Percentage,
				in.PaidAmount.StringFixed(2), days),
			ReferenceID: &ref,
			BranchID:    &rf.BranchID,
			TargetRole:  &role,
		}
		if err := s.alerts.Raise(ctx, tx, alert); err != nil {
			return err
		}

		return s.audit.Create(ctx, tx, &model.AuditEntry{
			TableName: "refunds",
			RecordID:  rf.ID.String(),
			Action:    model.AuditCrear,
			ActorID:   actorID,
			Changes: []model.FieldChange{
				{Field: "folio", After: folio},
				{Field: "refund_amount", After: quote.RefundAmount.StringFixed(2)},
				{Field: "retained_amount", After: quote.RetainedAmount.StringFixed(2)},
				{Field: "priority", After: string(priority)},
			},
		})
	})
	if err != nil {
		return nil, err
	}
	return &rf, nil
}

func (s *refundService) Get(ctx context.Context, id uuid.UUID) (*model.Refund, error) {
	rf, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, finerr.NotFound("reembolso no encontrado")
		}
		return nil, err
	}
	return rf, nil
}

func (s *refundService) ListByBranch(ctx context.Context, branchID uuid.UUID, limit int) ([]model.Refund, error) {
	return s.repo.ListByBranch(ctx, branchID, limit)
}
