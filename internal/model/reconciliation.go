package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ReconciliationRecord is one day's comparison of internal transactions against
// the external bank/cash statement for a branch. Immutable once created; a
// re-run requires explicitly deleting the record first.
type ReconciliationRecord struct {
	ID            uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	BranchID      uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:idx_reconciliation_branch_date" json:"branch_id"`
	Date          time.Time       `gorm:"type:date;not null;uniqueIndex:idx_reconciliation_branch_date" json:"date"`
	SystemInflow  decimal.Decimal `gorm:"type:decimal(14,2);not null" json:"system_inflow"`
	BankInflow    decimal.Decimal `gorm:"type:decimal(14,2);not null" json:"bank_inflow"`
	SystemOutflow decimal.Decimal `gorm:"type:decimal(14,2);not null" json:"system_outflow"`
	BankOutflow   decimal.Decimal `gorm:"type:decimal(14,2);not null" json:"bank_outflow"`
	UnmatchedIn   int             `gorm:"not null" json:"unmatched_in"`
	UnmatchedOut  int             `gorm:"not null" json:"unmatched_out"`
	Notes         string          `json:"notes"`
	Reconciled    bool            `gorm:"not null" json:"reconciled"`
	CreatedAt     time.Time       `json:"created_at"`
}
