package service

import (
	"context"

	"rumbo/internal/finerr"
	"rumbo/internal/model"
	"rumbo/internal/repository"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// LedgerService is the double-entry posting engine. Every business event posts
// its entries through here so the balance invariant is enforced in one place:
// a batch whose debits do not equal its credits is rejected before any insert.
type LedgerService interface {
	Post(ctx context.Context, tx *gorm.DB, entries []model.LedgerEntry) error
	EntriesByFolio(ctx context.Context, folio string) ([]model.LedgerEntry, error)
}

type ledgerService struct {
	repo repository.LedgerRepository
}

func NewLedgerService(repo repository.LedgerRepository) LedgerService {
	return &ledgerService{repo: repo}
}

func (s *ledgerService) Post(ctx context.Context, tx *gorm.DB, entries []model.LedgerEntry) error {
	if len(entries) == 0 {
		return finerr.Validation("el asiento contable no tiene movimientos")
	}

	debits, credits := decimal.Zero, decimal.Zero
	for _, e := range entries {
		if e.Debit.IsNegative() || e.Credit.IsNegative() {
			return finerr.Validation("asiento %s: montos negativos no permitidos", e.Folio)
		}
		if e.AccountCode == "" {
			return finerr.Validation("asiento %s: cuenta contable vacía", e.Folio)
		}
		debits = debits.Add(e.Debit)
		credits = credits.Add(e.Credit)
	}

	if !debits.Equal(credits) {
		return finerr.Validation("asiento desbalanceado: debe %s vs haber %s",
			debits.StringFixed(2), credits.StringFixed(2))
	}

	return s.repo.CreateBatch(ctx, tx, entries)
}

func (s *ledgerService) EntriesByFolio(ctx context.Context, folio string) ([]model.LedgerEntry, error) {
	return s.repo.ListByFolio(ctx, folio)
}
