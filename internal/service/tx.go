package service

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Policy constants shared across the finance services. The duplicate window and
// matching tolerance are deliberately global, not per-branch (see DESIGN.md).
var (
	// SettleTolerance absorbs floating rounding when deciding a document is paid.
	SettleTolerance = decimal.NewFromFloat(0.01)
	// MatchTolerance is the max amount difference for a reconciliation match.
	MatchTolerance = decimal.NewFromFloat(0.01)
	// RateDiscrepancyThreshold triggers the advisory tarifa alert on CXC creation.
	RateDiscrepancyThreshold = decimal.NewFromInt(100)
)

// DuplicateWindow is the trailing period the duplicate payment guard inspects.
const DuplicateWindow = 24 * time.Hour

// AlertDedupWindow is the trailing period the alert engine deduplicates over.
const AlertDedupWindow = 24 * time.Hour

// runTx executes fn inside a GORM transaction when db is available, or calls
// fn(nil) directly when db is nil (unit test mode with in-memory repos).
func runTx(ctx context.Context, db *gorm.DB, fn func(tx *gorm.DB) error) error {
	if db == nil {
		return fn(nil)
	}
	return db.WithContext(ctx).Transaction(fn)
}

// nowFunc lets tests pin the clock. Services default to time.Now.
type nowFunc func() time.Time
