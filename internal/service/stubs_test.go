package service

import (
	"context"
	"fmt"
	"time"

	"rumbo/internal/model"
	"rumbo/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// ── Stubs ─────────────────────────────────────────────────────────────────────
// In-memory repositories for service unit tests. DB() returns nil so runTx
// executes the closure directly, without a real transaction.

func mustDec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

// stubFolioRepo numbers folios per prefix, same format as the real sequence.
type stubFolioRepo struct {
	counters map[string]int64
}

func newStubFolioRepo() *stubFolioRepo {
	return &stubFolioRepo{counters: make(map[string]int64)}
}

func (r *stubFolioRepo) Next(_ context.Context, _ *gorm.DB, prefix string, now time.Time) (string, error) {
	r.counters[prefix]++
	return model.FormatFolio(prefix, model.FolioPeriod(now), r.counters[prefix]), nil
}

var _ repository.FolioRepository = (*stubFolioRepo)(nil)

// stubReceivableRepo keeps receivables and their payments in maps.
type stubReceivableRepo struct {
	recs        map[uuid.UUID]*model.Receivable
	payments    []*model.PaymentReceived
	dayPayments []model.PaymentReceived // canned PaymentsByBranchDate result
	reconciled  []uuid.UUID
}

func newStubReceivableRepo() *stubReceivableRepo {
	return &stubReceivableRepo{recs: make(map[uuid.UUID]*model.Receivable)}
}

func (r *stubReceivableRepo) DB() *gorm.DB { return nil }

func (r *stubReceivableRepo) Create(_ context.Context, _ *gorm.DB, rec *model.Receivable) error {
	if rec.ID == uuid.Nil {
		rec.ID = uuid.New()
	}
	cp := *rec
	r.recs[rec.ID] = &cp
	return nil
}

func (r *stubReceivableRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Receivable, error) {
	rec, ok := r.recs[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return rec, nil
}

func (r *stubReceivableRepo) LockByID(_ context.Context, _ *gorm.DB, id uuid.UUID) (*model.Receivable, error) {
	rec, ok := r.recs[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return rec, nil
}

func (r *stubReceivableRepo) Update(_ context.Context, _ *gorm.DB, rec *model.Receivable) error {
	r.recs[rec.ID] = rec
	return nil
}

func (r *stubReceivableRepo) List(_ context.Context, _ repository.ReceivableFilter) ([]model.Receivable, int64, error) {
	var out []model.Receivable
	for _, rec := range r.recs {
		out = append(out, *rec)
	}
	return out, int64(len(out)), nil
}

func (r *stubReceivableRepo) ListOverdue(_ context.Context, asOf time.Time) ([]model.Receivable, error) {
	var out []model.Receivable
	for _, rec := range r.recs {
		if rec.Overdue(asOf) {
			out = append(out, *rec)
		}
	}
	return out, nil
}

func (r *stubReceivableRepo) SumPendingByBranch(_ context.Context, branchID uuid.UUID) (decimal.Decimal, error) {
	total := decimal.Zero
	for _, rec := range r.recs {
		if rec.BranchID == branchID && rec.Status.Open() {
			total = total.Add(rec.Pending)
		}
	}
	return total, nil
}

func (r *stubReceivableRepo) CreatePayment(_ context.Context, _ *gorm.DB, p *model.PaymentReceived) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	if p.CreatedAt.IsZero() {
		p.CreatedAt = time.Now()
	}
	r.payments = append(r.payments, p)
	return nil
}

func (r *stubReceivableRepo) FindAppliedPayment(_ context.Context, _ *gorm.DB, method model.PaymentMethod, reference string, amount decimal.Decimal, since time.Time) (*model.PaymentReceived, error) {
	for _, p := range r.payments {
		if p.Method == method && p.Reference != nil && *p.Reference == reference &&
			p.Amount.Equal(amount) && !p.CreatedAt.Before(since) {
			return p, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *stubReceivableRepo) PaymentsByBranchDate(_ context.Context, _ uuid.UUID, _ time.Time) ([]model.PaymentReceived, error) {
	return r.dayPayments, nil
}

func (r *stubReceivableRepo) MarkPaymentReconciled(_ context.Context, _ *gorm.DB, paymentID uuid.UUID, _ time.Time) error {
	r.reconciled = append(r.reconciled, paymentID)
	return nil
}

var _ repository.ReceivableRepository = (*stubReceivableRepo)(nil)

// stubPayableRepo mirrors stubReceivableRepo for the outflow side.
type stubPayableRepo struct {
	payables    map[uuid.UUID]*model.Payable
	payments    []*model.PaymentMade
	dayPayments []model.PaymentMade
	reconciled  []uuid.UUID
}

func newStubPayableRepo() *stubPayableRepo {
	return &stubPayableRepo{payables: make(map[uuid.UUID]*model.Payable)}
}

func (r *stubPayableRepo) DB() *gorm.DB { return nil }

func (r *stubPayableRepo) Create(_ context.Context, _ *gorm.DB, p *model.Payable) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	cp := *p
	r.payables[p.ID] = &cp
	return nil
}

func (r *stubPayableRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Payable, error) {
	p, ok := r.payables[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return p, nil
}

func (r *stubPayableRepo) LockByID(_ context.Context, _ *gorm.DB, id uuid.UUID) (*model.Payable, error) {
	p, ok := r.payables[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return p, nil
}

func (r *stubPayableRepo) Update(_ context.Context, _ *gorm.DB, p *model.Payable) error {
	r.payables[p.ID] = p
	return nil
}

func (r *stubPayableRepo) List(_ context.Context, _ repository.PayableFilter) ([]model.Payable, int64, error) {
	var out []model.Payable
	for _, p := range r.payables {
		out = append(out, *p)
	}
	return out, int64(len(out)), nil
}

func (r *stubPayableRepo) SumPendingByBranch(_ context.Context, branchID uuid.UUID) (decimal.Decimal, error) {
	total := decimal.Zero
	for _, p := range r.payables {
		if p.BranchID == branchID && p.Status != model.PayablePagada && p.Status != model.PayableCancelada {
			total = total.Add(p.Pending)
		}
	}
	return total, nil
}

func (r *stubPayableRepo) CreatePayment(_ context.Context, _ *gorm.DB, p *model.PaymentMade) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	if p.CreatedAt.IsZero() {
		p.CreatedAt = time.Now()
	}
	r.payments = append(r.payments, p)
	return nil
}

func (r *stubPayableRepo) PaymentsByBranchDate(_ context.Context, _ uuid.UUID, _ time.Time) ([]model.PaymentMade, error) {
	return r.dayPayments, nil
}

func (r *stubPayableRepo) MarkPaymentReconciled(_ context.Context, _ *gorm.DB, paymentID uuid.UUID, _ time.Time) error {
	r.reconciled = append(r.reconciled, paymentID)
	return nil
}

var _ repository.PayableRepository = (*stubPayableRepo)(nil)

// stubLedgerRepo records posted entries for balance assertions.
type stubLedgerRepo struct {
	entries []model.LedgerEntry
}

func (r *stubLedgerRepo) CreateBatch(_ context.Context, _ *gorm.DB, entries []model.LedgerEntry) error {
	r.entries = append(r.entries, entries...)
	return nil
}

func (r *stubLedgerRepo) ListByRef(_ context.Context, refType string, refID uuid.UUID) ([]model.LedgerEntry, error) {
	var out []model.LedgerEntry
	for _, e := range r.entries {
		if e.RefType == refType && e.RefID == refID {
			out = append(out, e)
		}
	}
	return out, nil
}

func (r *stubLedgerRepo) ListByFolio(_ context.Context, folio string) ([]model.LedgerEntry, error) {
	var out []model.LedgerEntry
	for _, e := range r.entries {
		if e.Folio == folio {
			out = append(out, e)
		}
	}
	return out, nil
}

func (r *stubLedgerRepo) ListByBranchDate(_ context.Context, _ uuid.UUID, _ time.Time) ([]model.LedgerEntry, error) {
	return r.entries, nil
}

// balance returns (sum of debits, sum of credits) over everything posted.
func (r *stubLedgerRepo) balance() (decimal.Decimal, decimal.Decimal) {
	debits, credits := decimal.Zero, decimal.Zero
	for _, e := range r.entries {
		debits = debits.Add(e.Debit)
		credits = credits.Add(e.Credit)
	}
	return debits, credits
}

var _ repository.LedgerRepository = (*stubLedgerRepo)(nil)

// stubAlertRepo stores raised alerts; FindOpenDuplicate powers the dedup tests.
type stubAlertRepo struct {
	alerts []*model.Alert
}

func (r *stubAlertRepo) Create(_ context.Context, _ *gorm.DB, a *model.Alert) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	if a.CreatedAt.IsZero() {
		a.CreatedAt = time.Now()
	}
	r.alerts = append(r.alerts, a)
	return nil
}

func (r *stubAlertRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Alert, error) {
	for _, a := range r.alerts {
		if a.ID == id {
			return a, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *stubAlertRepo) FindOpenDuplicate(_ context.Context, _ *gorm.DB, alertType, referenceID string, since time.Time) (*model.Alert, error) {
	for _, a := range r.alerts {
		if a.Type == alertType && a.ReferenceID != nil && *a.ReferenceID == referenceID &&
			!a.Resolved && !a.CreatedAt.Before(since) {
			return a, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *stubAlertRepo) List(_ context.Context, _ repository.AlertFilter) ([]model.Alert, int64, error) {
	var out []model.Alert
	for _, a := range r.alerts {
		out = append(out, *a)
	}
	return out, int64(len(out)), nil
}

func (r *stubAlertRepo) MarkRead(_ context.Context, id uuid.UUID) error {
	for _, a := range r.alerts {
		if a.ID == id {
			a.Read = true
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

func (r *stubAlertRepo) Resolve(_ context.Context, id uuid.UUID, at time.Time) error {
	for _, a := range r.alerts {
		if a.ID == id {
			a.Resolved = true
			a.ResolvedAt = &at
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

func (r *stubAlertRepo) CountOpenByBranch(_ context.Context, branchID uuid.UUID) (int64, error) {
	var n int64
	for _, a := range r.alerts {
		if a.BranchID != nil && *a.BranchID == branchID && !a.Resolved {
			n++
		}
	}
	return n, nil
}

// ofType returns the stored alerts matching a type.
func (r *stubAlertRepo) ofType(alertType string) []*model.Alert {
	var out []*model.Alert
	for _, a := range r.alerts {
		if a.Type == alertType {
			out = append(out, a)
		}
	}
	return out
}

var _ repository.AlertRepository = (*stubAlertRepo)(nil)

// stubAuditRepo is the append-only audit sink.
type stubAuditRepo struct {
	entries []*model.AuditEntry
}

func (r *stubAuditRepo) Create(_ context.Context, _ *gorm.DB, e *model.AuditEntry) error {
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	r.entries = append(r.entries, e)
	return nil
}

func (r *stubAuditRepo) ListByRecord(_ context.Context, tableName, recordID string) ([]model.AuditEntry, error) {
	var out []model.AuditEntry
	for _, e := range r.entries {
		if e.TableName == tableName && e.RecordID == recordID {
			out = append(out, *e)
		}
	}
	return out, nil
}

var _ repository.AuditRepository = (*stubAuditRepo)(nil)

// stubDrawerRepo keeps the movement stream and closures in slices.
type stubDrawerRepo struct {
	movements []*model.DrawerMovement
	closures  []*model.CashClosure
}

func (r *stubDrawerRepo) DB() *gorm.DB { return nil }

func (r *stubDrawerRepo) CreateMovement(_ context.Context, _ *gorm.DB, m *model.DrawerMovement) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	if m.CreatedAt.IsZero() {
		m.CreatedAt = time.Now()
	}
	r.movements = append(r.movements, m)
	return nil
}

func (r *stubDrawerRepo) SumMovements(_ context.Context, branchID uuid.UUID, drawer string, from, to time.Time) (decimal.Decimal, decimal.Decimal, error) {
	in, out := decimal.Zero, decimal.Zero
	for _, m := range r.movements {
		if m.BranchID != branchID || m.Drawer != drawer {
			continue
		}
		if m.CreatedAt.Before(from) || !m.CreatedAt.Before(to) {
			continue
		}
		switch m.Kind {
		case model.MovIngreso:
			in = in.Add(m.Amount)
		case model.MovEgreso:
			out = out.Add(m.Amount)
		}
	}
	return in, out, nil
}

func (r *stubDrawerRepo) LastClosure(_ context.Context, branchID uuid.UUID, drawer string) (*model.CashClosure, error) {
	var last *model.CashClosure
	for _, c := range r.closures {
		if c.BranchID != branchID || c.Drawer != drawer {
			continue
		}
		if last == nil || c.CreatedAt.After(last.CreatedAt) {
			last = c
		}
	}
	return last, nil
}

func (r *stubDrawerRepo) CreateClosure(_ context.Context, _ *gorm.DB, c *model.CashClosure) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	if c.CreatedAt.IsZero() {
		c.CreatedAt = time.Now()
	}
	r.closures = append(r.closures, c)
	return nil
}

func (r *stubDrawerRepo) ListClosures(_ context.Context, branchID uuid.UUID, _ int) ([]model.CashClosure, error) {
	var out []model.CashClosure
	for _, c := range r.closures {
		if c.BranchID == branchID {
			out = append(out, *c)
		}
	}
	return out, nil
}

var _ repository.CashDrawerRepository = (*stubDrawerRepo)(nil)

// stubBranchRepo is a fixed branch catalog.
type stubBranchRepo struct {
	branches map[uuid.UUID]*model.Branch
}

func newStubBranchRepo(bs ...*model.Branch) *stubBranchRepo {
	r := &stubBranchRepo{branches: make(map[uuid.UUID]*model.Branch)}
	for _, b := range bs {
		if b.ID == uuid.Nil {
			b.ID = uuid.New()
		}
		r.branches[b.ID] = b
	}
	return r
}

func (r *stubBranchRepo) Create(_ context.Context, b *model.Branch) error {
	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}
	r.branches[b.ID] = b
	return nil
}

func (r *stubBranchRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Branch, error) {
	b, ok := r.branches[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return b, nil
}

func (r *stubBranchRepo) FindByCode(_ context.Context, code string) (*model.Branch, error) {
	for _, b := range r.branches {
		if b.Code == code {
			return b, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *stubBranchRepo) List(_ context.Context) ([]model.Branch, error) {
	var out []model.Branch
	for _, b := range r.branches {
		out = append(out, *b)
	}
	return out, nil
}

var _ repository.BranchRepository = (*stubBranchRepo)(nil)

// stubUserRepo is a fixed operator roster.
type stubUserRepo struct {
	users map[uuid.UUID]*model.User
}

func newStubUserRepo(us ...*model.User) *stubUserRepo {
	r := &stubUserRepo{users: make(map[uuid.UUID]*model.User)}
	for _, u := range us {
		if u.ID == uuid.Nil {
			u.ID = uuid.New()
		}
		r.users[u.ID] = u
	}
	return r
}

func (r *stubUserRepo) Create(_ context.Context, u *model.User) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	r.users[u.ID] = u
	return nil
}

func (r *stubUserRepo) FindByUsername(_ context.Context, username string) (*model.User, error) {
	for _, u := range r.users {
		if u.Username == username && u.Active {
			return u, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *stubUserRepo) FindByID(_ context.Context, id uuid.UUID) (*model.User, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return u, nil
}

func (r *stubUserRepo) List(_ context.Context) ([]model.User, error) {
	var out []model.User
	for _, u := range r.users {
		if u.Active {
			out = append(out, *u)
		}
	}
	return out, nil
}

func (r *stubUserRepo) Update(_ context.Context, u *model.User) error {
	r.users[u.ID] = u
	return nil
}

func (r *stubUserRepo) SoftDelete(_ context.Context, id uuid.UUID) error {
	u, ok := r.users[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	u.Active = false
	return nil
}

var _ repository.UserRepository = (*stubUserRepo)(nil)

// stubReconRepo keys records by branch + date so the one-run-per-day rule holds.
type stubReconRepo struct {
	byID  map[uuid.UUID]*model.ReconciliationRecord
	byDay map[string]*model.ReconciliationRecord
}

func newStubReconRepo() *stubReconRepo {
	return &stubReconRepo{
		byID:  make(map[uuid.UUID]*model.ReconciliationRecord),
		byDay: make(map[string]*model.ReconciliationRecord),
	}
}

func dayKey(branchID uuid.UUID, date time.Time) string {
	return fmt.Sprintf("%s:%s", branchID, date.Format("2006-01-02"))
}

func (r *stubReconRepo) DB() *gorm.DB { return nil }

func (r *stubReconRepo) Create(_ context.Context, _ *gorm.DB, rec *model.ReconciliationRecord) error {
	if rec.ID == uuid.Nil {
		rec.ID = uuid.New()
	}
	r.byID[rec.ID] = rec
	r.byDay[dayKey(rec.BranchID, rec.Date)] = rec
	return nil
}

func (r *stubReconRepo) FindByBranchDate(_ context.Context, branchID uuid.UUID, date time.Time) (*model.ReconciliationRecord, error) {
	rec, ok := r.byDay[dayKey(branchID, date)]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return rec, nil
}

func (r *stubReconRepo) FindByID(_ context.Context, id uuid.UUID) (*model.ReconciliationRecord, error) {
	rec, ok := r.byID[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return rec, nil
}

func (r *stubReconRepo) Delete(_ context.Context, _ *gorm.DB, id uuid.UUID) error {
	rec, ok := r.byID[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	delete(r.byID, id)
	delete(r.byDay, dayKey(rec.BranchID, rec.Date))
	return nil
}

func (r *stubReconRepo) ListByBranch(_ context.Context, branchID uuid.UUID, _ int) ([]model.ReconciliationRecord, error) {
	var out []model.ReconciliationRecord
	for _, rec := range r.byID {
		if rec.BranchID == branchID {
			out = append(out, *rec)
		}
	}
	return out, nil
}

var _ repository.ReconciliationRepository = (*stubReconRepo)(nil)

// stubRefundRepo stores refunds by ID.
type stubRefundRepo struct {
	refunds map[uuid.UUID]*model.Refund
}

func newStubRefundRepo() *stubRefundRepo {
	return &stubRefundRepo{refunds: make(map[uuid.UUID]*model.Refund)}
}

func (r *stubRefundRepo) DB() *gorm.DB { return nil }

func (r *stubRefundRepo) Create(_ context.Context, _ *gorm.DB, rf *model.Refund) error {
	if rf.ID == uuid.Nil {
		rf.ID = uuid.New()
	}
	cp := *rf
	r.refunds[rf.ID] = &cp
	return nil
}

func (r *stubRefundRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Refund, error) {
	rf, ok := r.refunds[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return rf, nil
}

func (r *stubRefundRepo) ListByBranch(_ context.Context, branchID uuid.UUID, _ int) ([]model.Refund, error) {
	var out []model.Refund
	for _, rf := range r.refunds {
		if rf.BranchID == branchID {
			out = append(out, *rf)
		}
	}
	return out, nil
}

var _ repository.RefundRepository = (*stubRefundRepo)(nil)

// stubCommissionRepo stores commission rows in creation order.
type stubCommissionRepo struct {
	rows []*model.Commission
}

func (r *stubCommissionRepo) DB() *gorm.DB { return nil }

func (r *stubCommissionRepo) Create(_ context.Context, _ *gorm.DB, c *model.Commission) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	cp := *c
	r.rows = append(r.rows, &cp)
	return nil
}

func (r *stubCommissionRepo) ListByTripRef(_ context.Context, tripRef string) ([]model.Commission, error) {
	var out []model.Commission
	for _, c := range r.rows {
		if c.TripRef == tripRef {
			out = append(out, *c)
		}
	}
	return out, nil
}

var _ repository.CommissionRepository = (*stubCommissionRepo)(nil)

// stubRateRepo serves the contracted rate table by trip reference.
type stubRateRepo struct {
	rates map[string]*model.ContractedRate
}

func newStubRateRepo(rs ...*model.ContractedRate) *stubRateRepo {
	r := &stubRateRepo{rates: make(map[string]*model.ContractedRate)}
	for _, rate := range rs {
		r.rates[rate.TripRef] = rate
	}
	return r
}

func (r *stubRateRepo) FindByTripRef(_ context.Context, tripRef string) (*model.ContractedRate, error) {
	rate, ok := r.rates[tripRef]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return rate, nil
}

func (r *stubRateRepo) Create(_ context.Context, rate *model.ContractedRate) error {
	r.rates[rate.TripRef] = rate
	return nil
}

var _ repository.ContractedRateRepository = (*stubRateRepo)(nil)
