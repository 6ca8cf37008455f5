package repository

import (
	"context"
	"time"

	"rumbo/internal/model"

	"gorm.io/gorm"
)

// FolioRepository hands out the next folio for a document-type prefix.
// Next MUST be called inside the transaction that inserts the numbered row:
// the counter bump is an atomic upsert, so concurrent creations serialize on
// the (prefix, period) row and can never draw the same number.
type FolioRepository interface {
	Next(ctx context.Context, tx *gorm.DB, prefix string, now time.Time) (string, error)
}

type folioRepo struct{}

func NewFolioRepository() FolioRepository { return &folioRepo{} }

func (r *folioRepo) Next(ctx context.Context, tx *gorm.DB, prefix string, now time.Time) (string, error) {
	period := model.FolioPeriod(now)

	var counter int64
	err := tx.WithContext(ctx).Raw(`
		INSERT INTO folio_counters (prefix, period, counter)
		VALUES (?, ?, 1)
		ON CONFLICT (prefix, period)
		DO UPDATE SET counter = folio_counters.counter + 1
		RETURNING counter`, prefix, period).Scan(&counter).Error
	if err != nil {
		return "", err
	}
	return model.FormatFolio(prefix, period, counter), nil
}
