package infra

import (
	"fmt"

	"rumbo/internal/model"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewDatabase establishes a GORM connection backed by pgx and runs AutoMigrate
// for all finance tables. The folio_counters composite primary key and the
// (branch, date) reconciliation unique index are declared on the models, so
// AutoMigrate covers everything this schema needs.
func NewDatabase(dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(25)
	sqlDB.SetMaxIdleConns(5)

	if err := RunMigrations(db); err != nil {
		return nil, fmt.Errorf("migrations: %w", err)
	}

	return db, nil
}

// RunMigrations creates / updates all finance tables. Also used by the
// integration tests against a throwaway container database.
func RunMigrations(db *gorm.DB) error {
	return db.AutoMigrate(
		&model.Branch{},
		&model.User{},
		&model.FolioCounter{},
		&model.Receivable{},
		&model.PaymentReceived{},
		&model.ContractedRate{},
		&model.Payable{},
		&model.PaymentMade{},
		&model.Refund{},
		&model.Commission{},
		&model.LedgerEntry{},
		&model.Alert{},
		&model.AuditEntry{},
		&model.ReconciliationRecord{},
		&model.DrawerMovement{},
		&model.CashClosure{},
	)
}
