package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Chart-of-accounts codes touched by the finance core.
const (
	AccountCajaBancos    = "1101" // cash and banks
	AccountCXC           = "1102" // cuentas por cobrar
	AccountCXP           = "2101" // cuentas por pagar
	AccountIngresos      = "4101" // service revenue
	AccountCostoServicio = "5101" // cost of contracted services
	AccountComisionBanco = "5201" // bank fee expense
)

// LedgerEntry is one side of a balanced accounting movement. Entries are
// append-only: never updated, never deleted. All entries of one business event
// share the originating document's folio and must sum debit == credit.
type LedgerEntry struct {
	ID          uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	Folio       string          `gorm:"type:varchar(20);not null;index" json:"folio"`
	BranchID    uuid.UUID       `gorm:"type:uuid;not null;index" json:"branch_id"`
	AccountCode string          `gorm:"type:varchar(10);not null;index" json:"account_code"`
	Debit       decimal.Decimal `gorm:"type:decimal(14,2);not null" json:"debit"`
	Credit      decimal.Decimal `gorm:"type:decimal(14,2);not null" json:"credit"`
	RefType     string          `gorm:"type:varchar(30);not null" json:"ref_type"`
	RefID       uuid.UUID       `gorm:"type:uuid;not null;index" json:"ref_id"`
	Concept     string          `gorm:"not null" json:"concept"`
	CreatedAt   time.Time       `gorm:"index" json:"created_at"`
}

// Reference types used in LedgerEntry.RefType.
const (
	RefReceivable      = "cxc"
	RefPayable         = "cxp"
	RefPaymentReceived = "cobro"
	RefPaymentMade     = "pago"
)
