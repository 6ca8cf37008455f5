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

type receivableFixture struct {
	svc    ReceivableService
	repo   *stubReceivableRepo
	rates  *stubRateRepo
	ledger *stubLedgerRepo
	alerts *stubAlertRepo
	audit  *stubAuditRepo
	drawer *stubDrawerRepo
}

func newReceivableFixture(rates ...*model.ContractedRate) *receivableFixture {
	f := &receivableFixture{
		repo:   newStubReceivableRepo(),
		rates:  newStubRateRepo(rates...),
		ledger: &stubLedgerRepo{},
		alerts: &stubAlertRepo{},
		audit:  &stubAuditRepo{},
		drawer: &stubDrawerRepo{},
	}
	f.svc = NewReceivableService(
		f.repo, f.rates, newStubFolioRepo(),
		NewLedgerService(f.ledger), NewAlertService(f.alerts, nil),
		f.audit, f.drawer,
	)
	return f
}

func (f *receivableFixture) create(t *testing.T, total string) *model.Receivable {
	t.Helper()
	rec, err := f.svc.Create(context.Background(), nil, CreateReceivableInput{
		BranchID:     uuid.New(),
		Counterparty: "Hotel Maya Kaan",
		Total:        mustDec(total),
		DueDate:      time.Now().AddDate(0, 0, 15),
	})
	require.NoError(t, err)
	return rec
}

func TestReceivableCreate(t *testing.T) {
	f := newReceivableFixture()

	rec := f.create(t, "8500.00")

	assert.Regexp(t, `^CXC-\d{6}-\d{6}$`, rec.Folio)
	assert.True(t, rec.Total.Equal(mustDec("8500.00")))
	assert.True(t, rec.Paid.IsZero())
	assert.True(t, rec.Pending.Equal(rec.Total))
	assert.Equal(t, model.ReceivablePendiente, rec.Status)

	// Balanced posting: debit CXC, credit ingresos.
	require.Len(t, f.ledger.entries, 2)
	debits, credits := f.ledger.balance()
	assert.True(t, debits.Equal(credits))
	assert.Equal(t, model.AccountCXC, f.ledger.entries[0].AccountCode)
	assert.Equal(t, model.AccountIngresos, f.ledger.entries[1].AccountCode)

	require.Len(t, f.audit.entries, 1)
	assert.Equal(t, model.AuditCrear, f.audit.entries[0].Action)
}

func TestReceivableCreateRejectsBadInput(t *testing.T) {
	f := newReceivableFixture()

	_, err := f.svc.Create(context.Background(), nil, CreateReceivableInput{
		BranchID: uuid.New(), Counterparty: "X", Total: decimal.Zero,
	})
	assert.True(t, finerr.IsKind(err, finerr.KindValidation))

	_, err = f.svc.Create(context.Background(), nil, CreateReceivableInput{
		BranchID: uuid.New(), Total: mustDec("100"),
	})
	assert.True(t, finerr.IsKind(err, finerr.KindValidation))
	assert.Empty(t, f.ledger.entries)
}

func TestReceivableCreateRateDiscrepancyAlert(t *testing.T) {
	trip := "TUL-3D2N"
	f := newReceivableFixture(&model.ContractedRate{TripRef: trip, Amount: mustDec("8500.00")})

	// Within threshold: no alert.
	_, err := f.svc.Create(context.Background(), nil, CreateReceivableInput{
		BranchID: uuid.New(), Counterparty: "Cliente A",
		Total: mustDec("8580.00"), DueDate: time.Now().AddDate(0, 0, 10), TripRef: &trip,
	})
	require.NoError(t, err)
	assert.Empty(t, f.alerts.ofType(model.AlertDiscrepanciaTarifa))

	// 600 over the contracted rate: advisory alert, creation still succeeds.
	rec, err := f.svc.Create(context.Background(), nil, CreateReceivableInput{
		BranchID: uuid.New(), Counterparty: "Cliente B",
		Total: mustDec("9100.00"), DueDate: time.Now().AddDate(0, 0, 10), TripRef: &trip,
	})
	require.NoError(t, err)
	raised := f.alerts.ofType(model.AlertDiscrepanciaTarifa)
	require.Len(t, raised, 1)
	assert.Equal(t, model.SeverityAlta, raised[0].Severity)
	assert.Equal(t, rec.Folio, *raised[0].ReferenceID)

	// Unknown trip: silently skipped.
	other := "NO-EXISTE"
	_, err = f.svc.Create(context.Background(), nil, CreateReceivableInput{
		BranchID: uuid.New(), Counterparty: "Cliente C",
		Total: mustDec("99999.00"), DueDate: time.Now().AddDate(0, 0, 10), TripRef: &other,
	})
	require.NoError(t, err)
	assert.Len(t, f.alerts.ofType(model.AlertDiscrepanciaTarifa), 1)
}

func TestRegisterPaymentPartialThenSettled(t *testing.T) {
	f := newReceivableFixture()
	rec := f.create(t, "1000.00")

	_, err := f.svc.RegisterPayment(context.Background(), nil, RegisterPaymentInput{
		ReceivableID: rec.ID, Amount: mustDec("400.00"), Method: model.MethodTransferencia,
	})
	require.NoError(t, err)

	got, err := f.svc.Get(context.Background(), rec.ID)
	require.NoError(t, err)
	assert.Equal(t, model.ReceivableParcial, got.Status)
	assert.True(t, got.Paid.Equal(mustDec("400.00")))
	assert.True(t, got.Pending.Equal(mustDec("600.00")))
	assert.True(t, got.Paid.Add(got.Pending).Equal(got.Total))

	_, err = f.svc.RegisterPayment(context.Background(), nil, RegisterPaymentInput{
		ReceivableID: rec.ID, Amount: mustDec("600.00"), Method: model.MethodTransferencia,
	})
	require.NoError(t, err)

	got, err = f.svc.Get(context.Background(), rec.ID)
	require.NoError(t, err)
	assert.Equal(t, model.ReceivablePagada, got.Status)
	assert.True(t, got.Pending.IsZero())

	debits, credits := f.ledger.balance()
	assert.True(t, debits.Equal(credits))
}

func TestRegisterPaymentSettleTolerance(t *testing.T) {
	f := newReceivableFixture()
	rec := f.create(t, "100.00")

	// A residual of one centavo still counts as settled.
	_, err := f.svc.RegisterPayment(context.Background(), nil, RegisterPaymentInput{
		ReceivableID: rec.ID, Amount: mustDec("99.99"), Method: model.MethodEfectivo,
	})
	require.NoError(t, err)

	got, _ := f.svc.Get(context.Background(), rec.ID)
	assert.Equal(t, model.ReceivablePagada, got.Status)
}

func TestRegisterPaymentOverpaymentRejected(t *testing.T) {
	f := newReceivableFixture()
	rec := f.create(t, "500.00")

	_, err := f.svc.RegisterPayment(context.Background(), nil, RegisterPaymentInput{
		ReceivableID: rec.ID, Amount: mustDec("500.01"), Method: model.MethodTarjeta,
	})
	assert.True(t, finerr.IsKind(err, finerr.KindOverpayment))

	// Nothing changed, nothing was posted for the rejected payment.
	got, _ := f.svc.Get(context.Background(), rec.ID)
	assert.Equal(t, model.ReceivablePendiente, got.Status)
	assert.True(t, got.Pending.Equal(mustDec("500.00")))
	assert.Len(t, f.ledger.entries, 2) // only the creation entries
}

func TestRegisterPaymentOnClosedAccount(t *testing.T) {
	f := newReceivableFixture()
	rec := f.create(t, "100.00")

	_, err := f.svc.RegisterPayment(context.Background(), nil, RegisterPaymentInput{
		ReceivableID: rec.ID, Amount: mustDec("100.00"), Method: model.MethodEfectivo,
	})
	require.NoError(t, err)

	_, err = f.svc.RegisterPayment(context.Background(), nil, RegisterPaymentInput{
		ReceivableID: rec.ID, Amount: mustDec("1.00"), Method: model.MethodEfectivo,
	})
	assert.True(t, finerr.IsKind(err, finerr.KindStateConflict))
}

func TestRegisterPaymentDuplicateGuard(t *testing.T) {
	f := newReceivableFixture()
	rec := f.create(t, "2000.00")
	ref := "SPEI-778812"

	first, err := f.svc.RegisterPayment(context.Background(), nil, RegisterPaymentInput{
		ReceivableID: rec.ID, Amount: mustDec("500.00"),
		Method: model.MethodTransferencia, Reference: &ref,
	})
	require.NoError(t, err)

	// Same method, reference and amount within the window: rejected, the
	// message names the prior folio so the cashier can check it.
	_, err = f.svc.RegisterPayment(context.Background(), nil, RegisterPaymentInput{
		ReceivableID: rec.ID, Amount: mustDec("500.00"),
		Method: model.MethodTransferencia, Reference: &ref,
	})
	require.Error(t, err)
	assert.True(t, finerr.IsKind(err, finerr.KindDuplicatePayment))
	assert.Contains(t, err.Error(), first.Folio)

	// Different amount with the same reference passes.
	_, err = f.svc.RegisterPayment(context.Background(), nil, RegisterPaymentInput{
		ReceivableID: rec.ID, Amount: mustDec("300.00"),
		Method: model.MethodTransferencia, Reference: &ref,
	})
	assert.NoError(t, err)

	// No reference disables the guard entirely.
	_, err = f.svc.RegisterPayment(context.Background(), nil, RegisterPaymentInput{
		ReceivableID: rec.ID, Amount: mustDec("300.00"), Method: model.MethodEfectivo,
	})
	assert.NoError(t, err)
	_, err = f.svc.RegisterPayment(context.Background(), nil, RegisterPaymentInput{
		ReceivableID: rec.ID, Amount: mustDec("300.00"), Method: model.MethodEfectivo,
	})
	assert.NoError(t, err)
}

func TestRegisterPaymentBankFeePosting(t *testing.T) {
	f := newReceivableFixture()
	rec := f.create(t, "1000.00")

	p, err := f.svc.RegisterPayment(context.Background(), nil, RegisterPaymentInput{
		ReceivableID: rec.ID, Amount: mustDec("1000.00"),
		Method: model.MethodTarjeta, BankFee: mustDec("25.00"),
	})
	require.NoError(t, err)
	assert.True(t, p.NetAmount.Equal(mustDec("975.00")))

	// Three-entry posting: caja neto + comisión bancaria vs abono CXC.
	entries, err := f.ledger.ListByFolio(context.Background(), p.Folio)
	require.NoError(t, err)
	require.Len(t, entries, 3)

	byAccount := map[string]model.LedgerEntry{}
	for _, e := range entries {
		byAccount[e.AccountCode] = e
	}
	assert.True(t, byAccount[model.AccountCajaBancos].Debit.Equal(mustDec("975.00")))
	assert.True(t, byAccount[model.AccountCXC].Credit.Equal(mustDec("1000.00")))
	assert.True(t, byAccount[model.AccountComisionBanco].Debit.Equal(mustDec("25.00")))

	debits, credits := f.ledger.balance()
	assert.True(t, debits.Equal(credits))
}

func TestRegisterPaymentBankFeeValidation(t *testing.T) {
	f := newReceivableFixture()
	rec := f.create(t, "100.00")

	_, err := f.svc.RegisterPayment(context.Background(), nil, RegisterPaymentInput{
		ReceivableID: rec.ID, Amount: mustDec("50.00"),
		Method: model.MethodTarjeta, BankFee: mustDec("-1.00"),
	})
	assert.True(t, finerr.IsKind(err, finerr.KindValidation))

	_, err = f.svc.RegisterPayment(context.Background(), nil, RegisterPaymentInput{
		ReceivableID: rec.ID, Amount: mustDec("50.00"),
		Method: model.MethodTarjeta, BankFee: mustDec("50.00"),
	})
	assert.True(t, finerr.IsKind(err, finerr.KindValidation))
}

func TestRegisterPaymentCashWritesDrawerMovement(t *testing.T) {
	f := newReceivableFixture()
	rec := f.create(t, "800.00")

	_, err := f.svc.RegisterPayment(context.Background(), nil, RegisterPaymentInput{
		ReceivableID: rec.ID, Amount: mustDec("800.00"), Method: model.MethodEfectivo,
	})
	require.NoError(t, err)

	require.Len(t, f.drawer.movements, 1)
	mov := f.drawer.movements[0]
	assert.Equal(t, model.MovIngreso, mov.Kind)
	assert.Equal(t, "principal", mov.Drawer) // default drawer
	assert.True(t, mov.Amount.Equal(mustDec("800.00")))

	// Non-cash methods leave the drawer untouched.
	rec2 := f.create(t, "500.00")
	_, err = f.svc.RegisterPayment(context.Background(), nil, RegisterPaymentInput{
		ReceivableID: rec2.ID, Amount: mustDec("500.00"), Method: model.MethodTransferencia,
	})
	require.NoError(t, err)
	assert.Len(t, f.drawer.movements, 1)
}

func TestRegisterPaymentUnknownReceivable(t *testing.T) {
	f := newReceivableFixture()
	_, err := f.svc.RegisterPayment(context.Background(), nil, RegisterPaymentInput{
		ReceivableID: uuid.New(), Amount: mustDec("10.00"), Method: model.MethodEfectivo,
	})
	assert.True(t, finerr.IsKind(err, finerr.KindNotFound))
}
