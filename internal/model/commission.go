package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CommissionType tags who the cut belongs to.
type CommissionType string

const (
	CommissionVendedor          CommissionType = "vendedor"
	CommissionGuia              CommissionType = "guia"
	CommissionSucursalVendedora CommissionType = "sucursal_vendedora"
)

// CommissionStatus is the settlement state of one commission row.
type CommissionStatus string

const (
	CommissionPendiente CommissionStatus = "pendiente"
	CommissionPagada    CommissionStatus = "pagada"
)

// Commission rates over the sale amount.
var (
	RateVendedor          = decimal.NewFromFloat(0.05)
	RateGuia              = decimal.NewFromFloat(0.03)
	RateSucursalVendedora = decimal.NewFromFloat(0.12)
)

// Commission is a payable-like record for a beneficiary's cut of a sale.
// One sale event may produce several rows (salesperson, guide, inter-branch).
// No ledger posting happens here; entries are posted when the commission is
// settled as a regular Payable.
type Commission struct {
	ID             uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	Folio          string          `gorm:"type:varchar(20);uniqueIndex;not null" json:"folio"`
	TripRef        string          `gorm:"type:varchar(50);not null;index" json:"trip_ref"`
	Type           CommissionType  `gorm:"type:varchar(30);not null" json:"type"`
	BeneficiaryRef *string         `gorm:"type:varchar(100)" json:"beneficiary_ref,omitempty"`
	BranchID       uuid.UUID       `gorm:"type:uuid;not null;index" json:"branch_id"`
	FromBranchID   *uuid.UUID      `gorm:"type:uuid" json:"from_branch_id,omitempty"`
	BaseAmount     decimal.Decimal `gorm:"type:decimal(14,2);not null" json:"base_amount"`
	Percentage     decimal.Decimal `gorm:"type:decimal(5,2);not null" json:"percentage"`
	Amount         decimal.Decimal `gorm:"type:decimal(14,2);not null" json:"amount"`
	Status         CommissionStatus `gorm:"type:varchar(20);not null;default:'pendiente'" json:"status"`
	CreatedAt      time.Time       `json:"created_at"`
}
