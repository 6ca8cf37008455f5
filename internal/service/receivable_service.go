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
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// CreateReceivableInput is the plain structured input for a new CXC.
type CreateReceivableInput struct {
	BranchID     uuid.UUID
	Counterparty string
	Total        decimal.Decimal
	DueDate      time.Time
	TripRef      *string
}

// RegisterPaymentInput applies one inflow to a receivable.
type RegisterPaymentInput struct {
	ReceivableID uuid.UUID
	Amount       decimal.Decimal
	Method       model.PaymentMethod
	Reference    *string
	BankFee      decimal.Decimal
	Drawer       string // drawer receiving the cash when Method is efectivo
}

type ReceivableService interface {
	Create(ctx context.Context, actorID *uuid.UUID, in CreateReceivableInput) (*model.Receivable, error)
	RegisterPayment(ctx context.Context, actorID *uuid.UUID, in RegisterPaymentInput) (*model.PaymentReceived, error)
	Get(ctx context.Context, id uuid.UUID) (*model.Receivable, error)
	List(ctx context.Context, filter repository.ReceivableFilter) ([]model.Receivable, int64, error)
}

type receivableService struct {
	repo     repository.ReceivableRepository
	rateRepo repository.ContractedRateRepository
	folios   repository.FolioRepository
	ledger   LedgerService
	alerts   AlertService
	audit    repository.AuditRepository
	drawer   repository.CashDrawerRepository
	now      nowFunc
}

func NewReceivableService(
	repo repository.ReceivableRepository,
	rateRepo repository.ContractedRateRepository,
	folios repository.FolioRepository,
	ledger LedgerService,
	alerts AlertService,
	audit repository.AuditRepository,
	drawer repository.CashDrawerRepository,
) ReceivableService {
	return &receivableService{
		repo:     repo,
		rateRepo: rateRepo,
		folios:   folios,
		ledger:   ledger,
		alerts:   alerts,
		audit:    audit,
		drawer:   drawer,
		now:      time.Now,
	}
}

// ── Create ────────────────────────────────────────────────────────────────────
// One atomic transaction: folio, row insert, balanced ledger posting
// (debit CXC / credit ingresos), audit entry. The contracted-rate cross-check
// is advisory — a discrepancy raises an alert but never blocks the creation.

func (s *receivableService) Create(ctx context.Context, actorID *uuid.UUID, in CreateReceivableInput) (*model.Receivable, error) {
	if !in.Total.IsPositive() {
		return nil, finerr.Validation("el total debe ser mayor a cero")
	}
	if in.Counterparty == "" {
		return nil, finerr.Validation("contraparte requerida")
	}

	var rec model.Receivable
	err := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		folio, err := s.folios.Next(ctx, tx, model.FolioCXC, s.now())
		if err != nil {
			return err
		}

		rec = model.Receivable{
			Folio:        folio,
			BranchID:     in.BranchID,
			Counterparty: in.Counterparty,
			TripRef:      in.TripRef,
			Total:        in.Total,
			Paid:         decimal.Zero,
			Pending:      in.Total,
			DueDate:      in.DueDate,
			Status:       model.ReceivablePendiente,
		}
		if err := s.repo.Create(ctx, tx, &rec); err != nil {
			return err
		}

		entries := []model.LedgerEntry{
			{
				Folio:       folio,
				BranchID:    in.BranchID,
				AccountCode: model.AccountCXC,
				Debit:       in.Total,
				Credit:      decimal.Zero,
				RefType:     model.RefReceivable,
				RefID:       rec.ID,
				Concept:     fmt.Sprintf("CXC %s - %s", folio, in.Counterparty),
			},
			{
				Folio:       folio,
				BranchID:    in.BranchID,
				AccountCode: model.AccountIngresos,
				Debit:       decimal.Zero,
				Credit:      in.Total,
				RefType:     model.RefReceivable,
				RefID:       rec.ID,
				Concept:     fmt.Sprintf("Ingreso por servicio %s", folio),
			},
		}
		if err := s.ledger.Post(ctx, tx, entries); err != nil {
			return err
		}

		if in.TripRef != nil {
			s.checkContractedRate(ctx, tx, &rec, *in.TripRef)
		}

		return s.audit.Create(ctx, tx, &model.AuditEntry{
			TableName: "receivables",
			RecordID:  rec.ID.String(),
			Action:    model.AuditCrear,
			ActorID:   actorID,
			Changes: []model.FieldChange{
				{Field: "folio", After: folio},
				{Field: "total", After: in.Total.StringFixed(2)},
				{Field: "status", After: string(model.ReceivablePendiente)},
			},
		})
	})
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

// checkContractedRate compares the invoiced total against the agreed trip rate
// and raises an advisory alert when they diverge by more than the threshold.
// Lookup failures are logged, never propagated: the rate table belongs to the
// sales subsystem and may lag behind.
func (s *receivableService) checkContractedRate(ctx context.Context, tx *gorm.DB, rec *model.Receivable, tripRef string) {
	rate, err := s.rateRepo.FindByTripRef(ctx, tripRef)
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			log.Error().Err(err).Str("trip_ref", tripRef).Msg("contracted rate lookup failed")
		}
		return
	}

	diff := rec.Total.Sub(rate.Amount).Abs()
	if diff.LessThanOrEqual(RateDiscrepancyThreshold) {
		return
	}

	role := model.RoleGerente
	ref := rec.Folio
	in := AlertInput{
		Type:     model.AlertDiscrepanciaTarifa,
		Severity: model.SeverityAlta,
		Title:    fmt.Sprintf("Discrepancia de tarifa en %s", rec.Folio),
		Message: fmt.Sprintf("El total facturado %s difiere de la tarifa contratada %s por %s (viaje %s).",
			rec.Total.StringFixed(2), rate.Amount.StringFixed(2), diff.StringFixed(2), tripRef),
		ReferenceID: &ref,
		BranchID:    &rec.BranchID,
		TargetRole:  &role,
	}
	if err := s.alerts.Raise(ctx, tx, in); err != nil {
		log.Error().Err(err).Str("folio", rec.Folio).Msg("tarifa discrepancy alert failed")
	}
}

// ── RegisterPayment ───────────────────────────────────────────────────────────
// Locks the receivable row for the whole transaction so concurrent payments
// serialize on the pending balance. Posting order inside the transaction:
// duplicate guard, payment insert, balance update, ledger entries, drawer
// movement (cash only), audit.

func (s *receivableService) RegisterPayment(ctx context.Context, actorID *uuid.UUID, in RegisterPaymentInput) (*model.PaymentReceived, error) {
	if !in.Amount.IsPositive() {
		return nil, finerr.Validation("el monto debe ser mayor a cero")
	}
	if in.BankFee.IsNegative() {
		return nil, finerr.Validation("la comisión bancaria no puede ser negativa")
	}
	if in.BankFee.GreaterThanOrEqual(in.Amount) {
		return nil, finerr.Validation("la comisión bancaria no puede igualar o superar el monto")
	}

	var payment model.PaymentReceived
	err := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		rec, err := s.repo.LockByID(ctx, tx, in.ReceivableID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return finerr.NotFound("cuenta por cobrar no encontrada")
			}
			return err
		}

		if !rec.Status.Open() {
			return finerr.StateConflict("la cuenta %s ya está %s", rec.Folio, rec.Status)
		}
		if in.Amount.GreaterThan(rec.Pending) {
			return finerr.Overpayment("el monto %s excede el pendiente %s",
				in.Amount.StringFixed(2), rec.Pending.StringFixed(2))
		}

		if err := s.duplicateGuard(ctx, tx, in); err != nil {
			return err
		}

		folio, err := s.folios.Next(ctx, tx, model.FolioCobro, s.now())
		if err != nil {
			return err
		}

		net := in.Amount.Sub(in.BankFee)
		payment = model.PaymentReceived{
			Folio:        folio,
			ReceivableID: rec.ID,
			Amount:       in.Amount,
			BankFee:      in.BankFee,
			NetAmount:    net,
			Method:       in.Method,
			Reference:    in.Reference,
		}
		if err := s.repo.CreatePayment(ctx, tx, &payment); err != nil {
			return err
		}

		prevStatus := rec.Status
		rec.Paid = rec.Paid.Add(in.Amount)
		rec.Pending = rec.Pending.Sub(in.Amount)
		if rec.Pending.LessThanOrEqual(SettleTolerance) {
			rec.Status = model.ReceivablePagada
		} else {
			rec.Status = model.ReceivableParcial
		}
		if err := s.repo.Update(ctx, tx, rec); err != nil {
			return err
		}

		entries := []model.LedgerEntry{
			{
				Folio:       folio,
				BranchID:    rec.BranchID,
				AccountCode: model.AccountCajaBancos,
				Debit:       net,
				Credit:      decimal.Zero,
				RefType:     model.RefPaymentReceived,
				RefID:       payment.ID,
				Concept:     fmt.Sprintf("Cobro %s sobre %s", folio, rec.Folio),
			},
			{
				Folio:       folio,
				BranchID:    rec.BranchID,
				AccountCode: model.AccountCXC,
				Debit:       decimal.Zero,
				Credit:      in.Amount,
				RefType:     model.RefPaymentReceived,
				RefID:       payment.ID,
				Concept:     fmt.Sprintf("Abono a %s", rec.Folio),
			},
		}
		if in.BankFee.IsPositive() {
			entries = append(entries, model.LedgerEntry{
				Folio:       folio,
				BranchID:    rec.BranchID,
				AccountCode: model.AccountComisionBanco,
				Debit:       in.BankFee,
				Credit:      decimal.Zero,
				RefType:     model.RefPaymentReceived,
				RefID:       payment.ID,
				Concept:     fmt.Sprintf("Comisión bancaria cobro %s", folio),
			})
		}
		if err := s.ledger.Post(ctx, tx, entries); err != nil {
			return err
		}

		if in.Method == model.MethodEfectivo {
			refType := model.RefPaymentReceived
			drawer := in.Drawer
			if drawer == "" {
				drawer = "principal"
			}
			mov := &model.DrawerMovement{
				BranchID: rec.BranchID,
				Drawer:   drawer,
				Kind:     model.MovIngreso,
				Amount:   in.Amount,
				Concept:  fmt.Sprintf("Cobro %s (%s)", folio, rec.Folio),
				RefType:  &refType,
				RefID:    &payment.ID,
			}
			if err := s.drawer.CreateMovement(ctx, tx, mov); err != nil {
				return err
			}
		}

		return s.audit.Create(ctx, tx, &model.AuditEntry{
			TableName: "receivables",
			RecordID:  rec.ID.String(),
			Action:    model.AuditPago,
			ActorID:   actorID,
			Changes: []model.FieldChange{
				{Field: "paid", Before: rec.Paid.Sub(in.Amount).StringFixed(2), After: rec.Paid.StringFixed(2)},
				{Field: "pending", Before: rec.Pending.Add(in.Amount).StringFixed(2), After: rec.Pending.StringFixed(2)},
				{Field: "status", Before: string(prevStatus), After: string(rec.Status)},
			},
		})
	})
	if err != nil {
		return nil, err
	}
	return &payment, nil
}

// duplicateGuard rejects a payment matching an already-applied payment's
// (method, reference, amount) within the trailing window. A missing reference
// disables the check — it is a heuristic safety net, not an idempotency key.
func (s *receivableService) duplicateGuard(ctx context.Context, tx *gorm.DB, in RegisterPaymentInput) error {
	if in.Reference == nil || *in.Reference == "" {
		return nil
	}
	since := s.now().Add(-DuplicateWindow)
	prior, err := s.repo.FindAppliedPayment(ctx, tx, in.Method, *in.Reference, in.Amount, since)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		return err
	}
	return finerr.DuplicatePayment("pago duplicado: referencia %s ya aplicada en %s (monto %s)",
		*in.Reference, prior.Folio, prior.Amount.StringFixed(2))
}

func (s *receivableService) Get(ctx context.Context, id uuid.UUID) (*model.Receivable, error) {
	rec, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, finerr.NotFound("cuenta por cobrar no encontrada")
		}
		return nil, err
	}
	return rec, nil
}

func (s *receivableService) List(ctx context.Context, filter repository.ReceivableFilter) ([]model.Receivable, int64, error) {
	return s.repo.List(ctx, filter)
}
