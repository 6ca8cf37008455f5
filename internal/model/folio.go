package model

import (
	"fmt"
	"time"
)

// Folio prefixes per document type. Each prefix numbers independently within a
// calendar month: CXC-202608-000001, CXC-202608-000002, …
const (
	FolioCXC        = "CXC" // receivable
	FolioCXP        = "CXP" // payable
	FolioCobro      = "COB" // payment received
	FolioPago       = "PAG" // payment made
	FolioReembolso  = "REE" // refund
	FolioComision   = "COM" // commission
	FolioCierreCaja = "CIE" // cash drawer closure
)

// FolioCounter is the atomic per-(prefix, month) sequence backing folio
// generation. Bumped with an upsert inside the caller's transaction so two
// concurrent creations can never draw the same number.
type FolioCounter struct {
	Prefix  string `gorm:"type:varchar(10);primaryKey"`
	Period  string `gorm:"type:varchar(6);primaryKey"`
	Counter int64  `gorm:"not null"`
}

func (FolioCounter) TableName() string { return "folio_counters" }

// FolioPeriod formats t as the YYYYMM period segment of a folio.
func FolioPeriod(t time.Time) string { return t.Format("200601") }

// FormatFolio renders PREFIX-YYYYMM-NNNNNN with the counter zero-padded to six digits.
func FormatFolio(prefix, period string, counter int64) string {
	return fmt.Sprintf("%s-%s-%06d", prefix, period, counter)
}
