package service

import (
	"context"
	"testing"
	"time"

	"rumbo/internal/finerr"
	"rumbo/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type reconFixture struct {
	svc         ReconciliationService
	repo        *stubReconRepo
	receivables *stubReceivableRepo
	payables    *stubPayableRepo
	alerts      *stubAlertRepo
	audit       *stubAuditRepo
	branchID    uuid.UUID
	date        time.Time
}

func newReconFixture() *reconFixture {
	f := &reconFixture{
		repo:        newStubReconRepo(),
		receivables: newStubReceivableRepo(),
		payables:    newStubPayableRepo(),
		alerts:      &stubAlertRepo{},
		audit:       &stubAuditRepo{},
		branchID:    uuid.New(),
		date:        time.Date(2026, 8, 20, 0, 0, 0, 0, time.UTC),
	}
	f.svc = NewReconciliationService(
		f.repo, f.receivables, f.payables,
		NewAlertService(f.alerts, nil), f.audit,
	)
	return f
}

func (f *reconFixture) addInflow(folio, net string, reference *string) uuid.UUID {
	id := uuid.New()
	f.receivables.dayPayments = append(f.receivables.dayPayments, model.PaymentReceived{
		ID: id, Folio: folio,
		Amount:    mustDec(net), // fee-free in these fixtures
		NetAmount: mustDec(net),
		Reference: reference,
	})
	return id
}

func (f *reconFixture) addOutflow(folio, amount string, reference *string) uuid.UUID {
	id := uuid.New()
	f.payables.dayPayments = append(f.payables.dayPayments, model.PaymentMade{
		ID: id, Folio: folio, Amount: mustDec(amount), Reference: reference,
	})
	return id
}

func statement(amounts ...string) []StatementItem {
	var items []StatementItem
	for _, a := range amounts {
		items = append(items, StatementItem{Amount: mustDec(a)})
	}
	return items
}

func TestReconciliationPerfectMatch(t *testing.T) {
	f := newReconFixture()
	in1 := f.addInflow("COB-202608-000001", "1500.00", nil)
	in2 := f.addInflow("COB-202608-000002", "2300.00", nil)
	out1 := f.addOutflow("PAG-202608-000001", "900.00", nil)

	rec, err := f.svc.Perform(context.Background(), nil, PerformReconciliationInput{
		BranchID: f.branchID,
		Date:     f.date,
		Statement: Statement{
			Inflows:  statement("1500.00", "2300.00"),
			Outflows: statement("900.00"),
		},
	})
	require.NoError(t, err)

	assert.True(t, rec.Reconciled)
	assert.Equal(t, 0, rec.UnmatchedIn)
	assert.Equal(t, 0, rec.UnmatchedOut)
	assert.True(t, rec.SystemInflow.Equal(mustDec("3800.00")))
	assert.True(t, rec.BankInflow.Equal(mustDec("3800.00")))
	assert.True(t, rec.SystemOutflow.Equal(mustDec("900.00")))

	// Every matched payment got its reconciled flag.
	assert.ElementsMatch(t, []uuid.UUID{in1, in2}, f.receivables.reconciled)
	assert.ElementsMatch(t, []uuid.UUID{out1}, f.payables.reconciled)

	assert.Empty(t, f.alerts.alerts)
}

func TestReconciliationDiscrepancyRaisesAlert(t *testing.T) {
	f := newReconFixture()
	f.addInflow("COB-202608-000001", "1000.00", nil)

	// The bank saw 1050: one unmatched on each side, day not reconciled.
	rec, err := f.svc.Perform(context.Background(), nil, PerformReconciliationInput{
		BranchID:  f.branchID,
		Date:      f.date,
		Statement: Statement{Inflows: statement("1050.00")},
	})
	require.NoError(t, err)

	assert.False(t, rec.Reconciled)
	assert.Equal(t, 1, rec.UnmatchedIn)
	assert.Empty(t, f.receivables.reconciled)
	assert.Contains(t, rec.Notes, "sin contraparte")

	raised := f.alerts.ofType(model.AlertConciliacionFallida)
	require.Len(t, raised, 1)
	assert.Equal(t, model.SeverityAlta, raised[0].Severity)
	assert.Equal(t, model.RoleGerente, *raised[0].TargetRole)
}

func TestReconciliationMatchTolerance(t *testing.T) {
	f := newReconFixture()
	f.addInflow("COB-202608-000001", "1000.00", nil)

	// One centavo off still matches and still balances the day.
	rec, err := f.svc.Perform(context.Background(), nil, PerformReconciliationInput{
		BranchID:  f.branchID,
		Date:      f.date,
		Statement: Statement{Inflows: statement("1000.01")},
	})
	require.NoError(t, err)
	assert.True(t, rec.Reconciled)
	assert.Equal(t, 0, rec.UnmatchedIn)
}

func TestReconciliationReferenceDisambiguates(t *testing.T) {
	f := newReconFixture()
	refA, refB := "SPEI-111", "SPEI-222"
	idA := f.addInflow("COB-202608-000001", "500.00", &refA)
	idB := f.addInflow("COB-202608-000002", "500.00", &refB)

	// Equal amounts: references decide who pairs with whom.
	rec, err := f.svc.Perform(context.Background(), nil, PerformReconciliationInput{
		BranchID: f.branchID,
		Date:     f.date,
		Statement: Statement{Inflows: []StatementItem{
			{Amount: mustDec("500.00"), Reference: &refB},
			{Amount: mustDec("500.00"), Reference: &refA},
		}},
	})
	require.NoError(t, err)
	assert.True(t, rec.Reconciled)
	assert.ElementsMatch(t, []uuid.UUID{idA, idB}, f.receivables.reconciled)
}

func TestReconciliationOneRunPerDay(t *testing.T) {
	f := newReconFixture()
	ctx := context.Background()

	first, err := f.svc.Perform(ctx, nil, PerformReconciliationInput{
		BranchID: f.branchID, Date: f.date, Statement: Statement{},
	})
	require.NoError(t, err)

	_, err = f.svc.Perform(ctx, nil, PerformReconciliationInput{
		BranchID: f.branchID, Date: f.date, Statement: Statement{},
	})
	assert.True(t, finerr.IsKind(err, finerr.KindStateConflict))

	// Another branch, same day: independent.
	_, err = f.svc.Perform(ctx, nil, PerformReconciliationInput{
		BranchID: uuid.New(), Date: f.date, Statement: Statement{},
	})
	assert.NoError(t, err)

	// Deleting the record reopens the day.
	require.NoError(t, f.svc.Delete(ctx, nil, first.ID))
	_, err = f.svc.Perform(ctx, nil, PerformReconciliationInput{
		BranchID: f.branchID, Date: f.date, Statement: Statement{},
	})
	assert.NoError(t, err)
}

func TestReconciliationDeleteUnknown(t *testing.T) {
	f := newReconFixture()
	err := f.svc.Delete(context.Background(), nil, uuid.New())
	assert.True(t, finerr.IsKind(err, finerr.KindNotFound))
}

func TestReconciliationRequiresDate(t *testing.T) {
	f := newReconFixture()
	_, err := f.svc.Perform(context.Background(), nil, PerformReconciliationInput{
		BranchID: f.branchID, Statement: Statement{},
	})
	assert.True(t, finerr.IsKind(err, finerr.KindValidation))
}

func TestMatchFlowsGreedyDeterminism(t *testing.T) {
	a, b := uuid.New(), uuid.New()
	sys := []flowItem{
		{ID: a, Amount: mustDec("100.00")},
		{ID: b, Amount: mustDec("100.00")},
	}
	ext := []StatementItem{{Amount: mustDec("100.00")}}

	res := matchFlows(sys, ext)
	// First internal item wins the single statement line.
	require.Len(t, res.matchedIDs, 1)
	assert.Equal(t, a, res.matchedIDs[0])
	assert.Equal(t, 1, res.unmatchedSys)
	assert.Equal(t, 0, res.unmatchedExt)
	assert.True(t, res.sysTotal.Equal(mustDec("200.00")))
	assert.True(t, res.extTotal.Equal(mustDec("100.00")))
}

func TestMatchFlowsEmptySides(t *testing.T) {
	res := matchFlows(nil, nil)
	assert.Empty(t, res.matchedIDs)
	assert.Equal(t, 0, res.unmatchedSys)
	assert.Equal(t, 0, res.unmatchedExt)
	assert.True(t, res.sysTotal.Equal(decimal.Zero))
}

func TestReconciliationKeepsLocalCalendarDay(t *testing.T) {
	f := newReconFixture()

	// Midnight in a zone ahead of UTC is still the previous afternoon in UTC;
	// the record must land on the caller's calendar day regardless.
	zone := time.FixedZone("UTC+8", 8*60*60)
	local := time.Date(2026, 8, 20, 0, 0, 0, 0, zone)

	rec, err := f.svc.Perform(context.Background(), nil, PerformReconciliationInput{
		BranchID:  f.branchID,
		Date:      local,
		Statement: Statement{},
	})
	require.NoError(t, err)

	y, m, d := rec.Date.Date()
	assert.Equal(t, 2026, y)
	assert.Equal(t, time.August, m)
	assert.Equal(t, 20, d)
}
