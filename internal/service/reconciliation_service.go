package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"rumbo/internal/finerr"
	"rumbo/internal/model"
	"rumbo/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// StatementItem is one line of the external bank/cash statement.
type StatementItem struct {
	Amount    decimal.Decimal
	Reference *string
}

// Statement is the externally supplied side of a reconciliation run.
type Statement struct {
	Inflows  []StatementItem
	Outflows []StatementItem
}

// PerformReconciliationInput identifies the day to reconcile.
type PerformReconciliationInput struct {
	BranchID  uuid.UUID
	Date      time.Time
	Statement Statement
}

type ReconciliationService interface {
	// Perform matches the day's internal payments against the statement and
	// persists an immutable ReconciliationRecord. Fails with StateConflict if
	// the (branch, date) pair was already reconciled; use Delete to re-run.
	Perform(ctx context.Context, actorID *uuid.UUID, in PerformReconciliationInput) (*model.ReconciliationRecord, error)
	Delete(ctx context.Context, actorID *uuid.UUID, id uuid.UUID) error
	Get(ctx context.Context, id uuid.UUID) (*model.ReconciliationRecord, error)
	ListByBranch(ctx context.Context, branchID uuid.UUID, limit int) ([]model.ReconciliationRecord, error)
}

type reconciliationService struct {
	repo        repository.ReconciliationRepository
	receivables repository.ReceivableRepository
	payables    repository.PayableRepository
	alerts      AlertService
	audit       repository.AuditRepository
	now         nowFunc
}

func NewReconciliationService(
	repo repository.ReconciliationRepository,
	receivables repository.ReceivableRepository,
	payables repository.PayableRepository,
	alerts AlertService,
	audit repository.AuditRepository,
) ReconciliationService {
	return &reconciliationService{
		repo:        repo,
		receivables: receivables,
		payables:    payables,
		alerts:      alerts,
		audit:       audit,
		now:         time.Now,
	}
}

// flowItem is one internal transaction projected into the matcher.
type flowItem struct {
	ID        uuid.UUID
	Amount    decimal.Decimal
	Reference *string
}

// matchResult carries what the greedy matcher decided for one direction.
type matchResult struct {
	matchedIDs   []uuid.UUID
	unmatchedSys int
	unmatchedExt int
	sysTotal     decimal.Decimal
	extTotal     decimal.Decimal
}

// matchFlows pairs internal items against statement items. Greedy and
// deterministic: internal items in creation order, first compatible statement
// line wins. Compatible means amounts within MatchTolerance and, when both
// sides carry a reference, equal references.
func matchFlows(sys []flowItem, ext []StatementItem) matchResult {
	res := matchResult{sysTotal: decimal.Zero, extTotal: decimal.Zero}
	used := make([]bool, len(ext))

	for _, e := range ext {
		res.extTotal = res.extTotal.Add(e.Amount)
	}

	for _, s := range sys {
		res.sysTotal = res.sysTotal.Add(s.Amount)

		found := false
		for i, e := range ext {
			if used[i] {
				continue
			}
			if s.Amount.Sub(e.Amount).Abs().GreaterThan(MatchTolerance) {
				continue
			}
			if s.Reference != nil && e.Reference != nil && *s.Reference != *e.Reference {
				continue
			}
			used[i] = true
			found = true
			res.matchedIDs = append(res.matchedIDs, s.ID)
			break
		}
		if !found {
			res.unmatchedSys++
		}
	}

	for _, u := range used {
		if !u {
			res.unmatchedExt++
		}
	}
	return res
}

func (s *reconciliationService) Perform(ctx context.Context, actorID *uuid.UUID, in PerformReconciliationInput) (*model.ReconciliationRecord, error) {
	if in.Date.IsZero() {
		return nil, finerr.Validation("fecha de conciliación requerida")
	}
	// Normalize to the calendar day in the caller's zone; Truncate would snap
	// to UTC epoch boundaries and shift local-midnight inputs a day back.
	y, m, d := in.Date.Date()
	date := time.Date(y, m, d, 0, 0, 0, 0, in.Date.Location())

	if existing, err := s.repo.FindByBranchDate(ctx, in.BranchID, date); err == nil && existing != nil {
		return nil, finerr.StateConflict("la fecha %s ya fue conciliada para esta sucursal", date.Format("2006-01-02"))
	} else if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	// Internal inflows are the day's collections at their net amount (what the
	// bank actually saw); outflows are the day's disbursements.
	inPayments, err := s.receivables.PaymentsByBranchDate(ctx, in.BranchID, date)
	if err != nil {
		return nil, err
	}
	outPayments, err := s.payables.PaymentsByBranchDate(ctx, in.BranchID, date)
	if err != nil {
		return nil, err
	}

	sysIn := make([]flowItem, 0, len(inPayments))
	for _, p := range inPayments {
		sysIn = append(sysIn, flowItem{ID: p.ID, Amount: p.NetAmount, Reference: p.Reference})
	}
	sysOut := make([]flowItem, 0, len(outPayments))
	for _, p := range outPayments {
		sysOut = append(sysOut, flowItem{ID: p.ID, Amount: p.Amount, Reference: p.Reference})
	}

	resIn := matchFlows(sysIn, in.Statement.Inflows)
	resOut := matchFlows(sysOut, in.Statement.Outflows)

	diffIn := resIn.sysTotal.Sub(resIn.extTotal)
	diffOut := resOut.sysTotal.Sub(resOut.extTotal)
	reconciled := diffIn.Abs().LessThanOrEqual(MatchTolerance) &&
		diffOut.Abs().LessThanOrEqual(MatchTolerance)

	var notes strings.Builder
	fmt.Fprintf(&notes, "Ingresos: sistema %s vs banco %s (dif %s). ",
		resIn.sysTotal.StringFixed(2), resIn.extTotal.StringFixed(2), diffIn.StringFixed(2))
	fmt.Fprintf(&notes, "Egresos: sistema %s vs banco %s (dif %s).",
		resOut.sysTotal.StringFixed(2), resOut.extTotal.StringFixed(2), diffOut.StringFixed(2))
	if n := resIn.unmatchedSys + resOut.unmatchedSys; n > 0 {
		fmt.Fprintf(&notes, " %d movimientos del sistema sin contraparte.", n)
	}
	if n := resIn.unmatchedExt + resOut.unmatchedExt; n > 0 {
		fmt.Fprintf(&notes, " %d movimientos del banco sin contraparte.", n)
	}

	rec := &model.ReconciliationRecord{
		BranchID:      in.BranchID,
		Date:          date,
		SystemInflow:  resIn.sysTotal,
		BankInflow:    resIn.extTotal,
		SystemOutflow: resOut.sysTotal,
		BankOutflow:   resOut.extTotal,
		UnmatchedIn:   resIn.unmatchedSys,
		UnmatchedOut:  resOut.unmatchedSys,
		Notes:         notes.String(),
		Reconciled:    reconciled,
	}

	err = runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		if err := s.repo.Create(ctx, tx, rec); err != nil {
			return err
		}

		at := s.now()
		for _, id := range resIn.matchedIDs {
			if err := s.receivables.MarkPaymentReconciled(ctx, tx, id, at); err != nil {
				return err
			}
		}
		for _, id := range resOut.matchedIDs {
			if err := s.payables.MarkPaymentReconciled(ctx, tx, id, at); err != nil {
				return err
			}
		}

		if !reconciled {
			role := model.RoleGerente
			ref := fmt.Sprintf("%s:%s", in.BranchID, date.Format("2006-01-02"))
			alert := AlertInput{
				Type:     model.AlertConciliacionFallida,
				Severity: model.SeverityAlta,
				Title:    fmt.Sprintf("Conciliación fallida del %s", date.Format("2006-01-02")),
				Message: fmt.Sprintf("Diferencia en ingresos %s, en egresos %s; %d movimientos sin conciliar.",
					diffIn.StringFixed(2), diffOut.StringFixed(2),
					resIn.unmatchedSys+resOut.unmatchedSys+resIn.unmatchedExt+resOut.unmatchedExt),
				ReferenceID: &ref,
				BranchID:    &in.BranchID,
				TargetRole:  &role,
			}
			if err := s.alerts.Raise(ctx, tx, alert); err != nil {
				return err
			}
		}

		return s.audit.Create(ctx, tx, &model.AuditEntry{
			TableName: "reconciliation_records",
			RecordID:  rec.ID.String(),
			Action:    model.AuditCrear,
			ActorID:   actorID,
			Changes: []model.FieldChange{
				{Field: "date", After: date.Format("2006-01-02")},
				{Field: "reconciled", After: fmt.Sprintf("%t", reconciled)},
			},
		})
	})
	if err != nil {
		return nil, err
	}
	return rec, nil
}

// Delete drops a reconciliation record so the day can be re-run, for example
// after the bank issues a corrected statement. Matched payments keep their
// reconciled flag; a re-run simply re-evaluates the day.
func (s *reconciliationService) Delete(ctx context.Context, actorID *uuid.UUID, id uuid.UUID) error {
	rec, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return finerr.NotFound("conciliación no encontrada")
		}
		return err
	}

	return runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		if err := s.repo.Delete(ctx, tx, id); err != nil {
			return err
		}
		return s.audit.Create(ctx, tx, &model.AuditEntry{
			TableName: "reconciliation_records",
			RecordID:  id.String(),
			Action:    model.AuditEliminar,
			ActorID:   actorID,
			Changes: []model.FieldChange{
				{Field: "date", Before: rec.Date.Format("2006-01-02")},
			},
		})
	})
}

func (s *reconciliationService) Get(ctx context.Context, id uuid.UUID) (*model.ReconciliationRecord, error) {
	rec, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, finerr.NotFound("conciliación no encontrada")
		}
		return nil, err
	}
	return rec, nil
}

func (s *reconciliationService) ListByBranch(ctx context.Context, branchID uuid.UUID, limit int) ([]model.ReconciliationRecord, error) {
	return s.repo.ListByBranch(ctx, branchID, limit)
}
