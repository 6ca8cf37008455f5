package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"rumbo/internal/finerr"
	"rumbo/internal/model"
	"rumbo/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// CreatePayableInput is the plain structured input for a new CXP.
type CreatePayableInput struct {
	BranchID     uuid.UUID
	DestBranchID *uuid.UUID
	Counterparty string
	Concept      string
	Total        decimal.Decimal
	DueDate      time.Time
}

// ExecutePaymentInput applies one disbursement to a payable.
type ExecutePaymentInput struct {
	PayableID uuid.UUID
	Amount    decimal.Decimal
	Method    model.PaymentMethod
	Reference *string
	Drawer    string
}

type PayableService interface {
	Create(ctx context.Context, actorID *uuid.UUID, in CreatePayableInput) (*model.Payable, error)
	// Authorize moves a pendiente_revision payable through the role/limit gate.
	Authorize(ctx context.Context, payableID, actorID uuid.UUID, comment string) (*model.Payable, error)
	ExecutePayment(ctx context.Context, actorID *uuid.UUID, in ExecutePaymentInput) (*model.PaymentMade, error)
	Get(ctx context.Context, id uuid.UUID) (*model.Payable, error)
	List(ctx context.Context, filter repository.PayableFilter) ([]model.Payable, int64, error)
}

type payableService struct {
	repo     repository.PayableRepository
	branches repository.BranchRepository
	users    repository.UserRepository
	folios   repository.FolioRepository
	ledger   LedgerService
	alerts   AlertService
	audit    repository.AuditRepository
	drawer   repository.CashDrawerRepository
	now      nowFunc
}

func NewPayableService(
	repo repository.PayableRepository,
	branches repository.BranchRepository,
	users repository.UserRepository,
	folios repository.FolioRepository,
	ledger LedgerService,
	alerts AlertService,
	audit repository.AuditRepository,
	drawer repository.CashDrawerRepository,
) PayableService {
	return &payableService{
		repo:     repo,
		branches: branches,
		users:    users,
		folios:   folios,
		ledger:   ledger,
		alerts:   alerts,
		audit:    audit,
		drawer:   drawer,
		now:      time.Now,
	}
}

// ── Create ────────────────────────────────────────────────────────────────────
// The authorization requirement is fixed here: total >= branch manager limit
// means the payable starts in pendiente_revision and the branch gerente gets
// an alert. Posts debit costo de servicio / credit CXP.

func (s *payableService) Create(ctx context.Context, actorID *uuid.UUID, in CreatePayableInput) (*model.Payable, error) {
	if !in.Total.IsPositive() {
		return nil, finerr.Validation("el total debe ser mayor a cero")
	}
	if in.Counterparty == "" || in.Concept == "" {
		return nil, finerr.Validation("contraparte y concepto requeridos")
	}

	branch, err := s.branches.FindByID(ctx, in.BranchID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, finerr.NotFound("sucursal no encontrada")
		}
		return nil, err
	}

	requiresAuth := in.Total.GreaterThanOrEqual(branch.ManagerLimit)
	status := model.PayablePendiente
	if requiresAuth {
		status = model.PayablePendienteRevision
	}

	var p model.Payable
	err = runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		folio, err := s.folios.Next(ctx, tx, model.FolioCXP, s.now())
		if err != nil {
			return err
		}

		p = model.Payable{
			Folio:                 folio,
			BranchID:              in.BranchID,
			DestBranchID:          in.DestBranchID,
			Counterparty:          in.Counterparty,
			Concept:               in.Concept,
			Total:                 in.Total,
			Paid:                  decimal.Zero,
			Pending:               in.Total,
			DueDate:               in.DueDate,
			RequiresAuthorization: requiresAuth,
			Status:                status,
		}
		if err := s.repo.Create(ctx, tx, &p); err != nil {
			return err
		}

		entries := []model.LedgerEntry{
			{
				Folio:       folio,
				BranchID:    in.BranchID,
				AccountCode: model.AccountCostoServicio,
				Debit:       in.Total,
				Credit:      decimal.Zero,
				RefType:     model.RefPayable,
				RefID:       p.ID,
				Concept:     fmt.Sprintf("CXP %s - %s", folio, in.Concept),
			},
			{
				Folio:       folio,
				BranchID:    in.BranchID,
				AccountCode: model.AccountCXP,
				Debit:       decimal.Zero,
				Credit:      in.Total,
				RefType:     model.RefPayable,
				RefID:       p.ID,
				Concept:     fmt.Sprintf("Por pagar a %s", in.Counterparty),
			},
		}
		if err := s.ledger.Post(ctx, tx, entries); err != nil {
			return err
		}

		if requiresAuth {
			role := model.RoleGerente
			ref := folio
			in := AlertInput{
				Type:     model.AlertAutorizacionRequired,
				Severity: model.SeverityMedia,
				Title:    fmt.Sprintf("CXP %s requiere autorización", folio),
				Message: fmt.Sprintf("La cuenta por pagar %s por %s supera el límite de la sucursal (%s).",
					folio, p.Total.StringFixed(2), branch.ManagerLimit.StringFixed(2)),
				ReferenceID: &ref,
				BranchID:    &p.BranchID,
				TargetRole:  &role,
			}
			if err := s.alerts.Raise(ctx, tx, in); err != nil {
				return err
			}
		}

		return s.audit.Create(ctx, tx, &model.AuditEntry{
			TableName: "payables",
			RecordID:  p.ID.String(),
			Action:    model.AuditCrear,
			ActorID:   actorID,
			Changes: []model.FieldChange{
				{Field: "folio", After: folio},
				{Field: "total", After: in.Total.StringFixed(2)},
				{Field: "status", After: string(status)},
			},
		})
	})
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// ── Authorize ─────────────────────────────────────────────────────────────────
// Role/limit gate: a gerente may authorize up to the branch manager limit, a
// director up to the director limit. Anything beyond the director limit is
// refused for everyone — that path belongs to corporate, not to this system.

func (s *payableService) Authorize(ctx context.Context, payableID, actorID uuid.UUID, comment string) (*model.Payable, error) {
	actor, err := s.users.FindByID(ctx, actorID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, finerr.NotFound("usuario no encontrado")
		}
		return nil, err
	}

	var p *model.Payable
	err = runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		p, err = s.repo.LockByID(ctx, tx, payableID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return finerr.NotFound("cuenta por pagar no encontrada")
			}
			return err
		}

		if p.Status != model.PayablePendienteRevision {
			return finerr.StateConflict("la cuenta %s no está pendiente de revisión (estado %s)", p.Folio, p.Status)
		}

		branch, err := s.branches.FindByID(ctx, p.BranchID)
		if err != nil {
			return err
		}

		if !actor.Role.CanAuthorize() {
			return finerr.AuthorizationLimit("el rol %s no puede autorizar cuentas por pagar", actor.Role)
		}
		if actor.Role == model.RoleGerente && p.Total.GreaterThan(branch.ManagerLimit) {
			return finerr.AuthorizationLimit("el total %s excede el límite de gerente %s",
				p.Total.StringFixed(2), branch.ManagerLimit.StringFixed(2))
		}
		if actor.Role != model.RoleDirector && p.Total.GreaterThan(branch.DirectorLimit) {
			return finerr.AuthorizationLimit("el total %s excede el límite de director %s",
				p.Total.StringFixed(2), branch.DirectorLimit.StringFixed(2))
		}

		now := s.now()
		p.Status = model.PayableAutorizada
		p.AuthorizedBy = &actorID
		p.AuthorizedAt = &now
		if comment != "" {
			p.AuthorizationComment = &comment
		}
		if err := s.repo.Update(ctx, tx, p); err != nil {
			return err
		}

		return s.audit.Create(ctx, tx, &model.AuditEntry{
			TableName: "payables",
			RecordID:  p.ID.String(),
			Action:    model.AuditAutorizar,
			ActorID:   &actorID,
			Changes: []model.FieldChange{
				{Field: "status", Before: string(model.PayablePendienteRevision), After: string(model.PayableAutorizada)},
				{Field: "authorization_comment", After: comment},
			},
		})
	})
	if err != nil {
		return nil, err
	}
	return p, nil
}

// ── ExecutePayment ────────────────────────────────────────────────────────────

func (s *payableService) ExecutePayment(ctx context.Context, actorID *uuid.UUID, in ExecutePaymentInput) (*model.PaymentMade, error) {
	if !in.Amount.IsPositive() {
		return nil, finerr.Validation("el monto debe ser mayor a cero")
	}

	var payment model.PaymentMade
	err := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		p, err := s.repo.LockByID(ctx, tx, in.PayableID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return finerr.NotFound("cuenta por pagar no encontrada")
			}
			return err
		}

		if p.Status == model.PayablePagada || p.Status == model.PayableCancelada {
			return finerr.StateConflict("la cuenta %s ya está %s", p.Folio, p.Status)
		}
		if !p.Disbursable() {
			if p.RequiresAuthorization {
				return finerr.StateConflict("la cuenta %s requiere autorización antes de pagarse", p.Folio)
			}
			return finerr.StateConflict("la cuenta %s no admite pagos en estado %s", p.Folio, p.Status)
		}
		if in.Amount.GreaterThan(p.Pending) {
			return finerr.Overpayment("el monto %s excede el pendiente %s",
				in.Amount.StringFixed(2), p.Pending.StringFixed(2))
		}

		folio, err := s.folios.Next(ctx, tx, model.FolioPago, s.now())
		if err != nil {
			return err
		}

		payment = model.PaymentMade{
			Folio:     folio,
			PayableID: p.ID,
			Amount:    in.Amount,
			Method:    in.Method,
			Reference: in.Reference,
		}
		if err := s.repo.CreatePayment(ctx, tx, &payment); err != nil {
			return err
		}

		prevStatus := p.Status
		p.Paid = p.Paid.Add(in.Amount)
		p.Pending = p.Pending.Sub(in.Amount)
		if p.Pending.LessThanOrEqual(SettleTolerance) {
			p.Status = model.PayablePagada
		}
		if err := s.repo.Update(ctx, tx, p); err != nil {
			return err
		}

		entries := []model.LedgerEntry{
			{
				Folio:       folio,
				BranchID:    p.BranchID,
				AccountCode: model.AccountCXP,
				Debit:       in.Amount,
				Credit:      decimal.Zero,
				RefType:     model.RefPaymentMade,
				RefID:       payment.ID,
				Concept:     fmt.Sprintf("Pago %s sobre %s", folio, p.Folio),
			},
			{
				Folio:       folio,
				BranchID:    p.BranchID,
				AccountCode: model.AccountCajaBancos,
				Debit:       decimal.Zero,
				Credit:      in.Amount,
				RefType:     model.RefPaymentMade,
				RefID:       payment.ID,
				Concept:     fmt.Sprintf("Egreso por %s", p.Folio),
			},
		}
		if err := s.ledger.Post(ctx, tx, entries); err != nil {
			return err
		}

		if in.Method == model.MethodEfectivo {
			refType := model.RefPaymentMade
			drawer := in.Drawer
			if drawer == "" {
				drawer = "principal"
			}
			mov := &model.DrawerMovement{
				BranchID: p.BranchID,
				Drawer:   drawer,
				Kind:     model.MovEgreso,
				Amount:   in.Amount,
				Concept:  fmt.Sprintf("Pago %s (%s)", folio, p.Folio),
				RefType:  &refType,
				RefID:    &payment.ID,
			}
			if err := s.drawer.CreateMovement(ctx, tx, mov); err != nil {
				return err
			}
		}

		return s.audit.Create(ctx, tx, &model.AuditEntry{
			TableName: "payables",
			RecordID:  p.ID.String(),
			Action:    model.AuditPago,
			ActorID:   actorID,
			Changes: []model.FieldChange{
				{Field: "paid", Before: p.Paid.Sub(in.Amount).StringFixed(2), After: p.Paid.StringFixed(2)},
				{Field: "pending", Before: p.Pending.Add(in.Amount).StringFixed(2), After: p.Pending.StringFixed(2)},
				{Field: "status", Before: string(prevStatus), After: string(p.Status)},
			},
		})
	})
	if err != nil {
		return nil, err
	}
	return &payment, nil
}

func (s *payableService) Get(ctx context.Context, id uuid.UUID) (*model.Payable, error) {
	p, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, finerr.NotFound("cuenta por pagar no encontrada")
		}
		return nil, err
	}
	return p, nil
}

func (s *payableService) List(ctx context.Context, filter repository.PayableFilter) ([]model.Payable, int64, error) {
	return s.repo.List(ctx, filter)
}
