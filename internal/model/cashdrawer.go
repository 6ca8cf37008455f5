package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// DrawerMovementKind: ingreso (cash in) or egreso (cash out).
type DrawerMovementKind string

const (
	MovIngreso DrawerMovementKind = "ingreso"
	MovEgreso  DrawerMovementKind = "egreso"
)

// DrawerMovement is an immutable event in a drawer's cash stream. Cash payments
// received and disbursed write movements automatically; manual adjustments come
// through the drawer service. Movements are never modified or deleted.
type DrawerMovement struct {
	ID        uuid.UUID          `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	BranchID  uuid.UUID          `gorm:"type:uuid;not null;index" json:"branch_id"`
	Drawer    string             `gorm:"type:varchar(30);not null;index" json:"drawer"`
	Kind      DrawerMovementKind `gorm:"type:varchar(10);not null" json:"kind"`
	Amount    decimal.Decimal    `gorm:"type:decimal(14,2);not null" json:"amount"`
	Concept   string             `gorm:"not null" json:"concept"`
	RefType   *string            `gorm:"type:varchar(30)" json:"ref_type,omitempty"`
	RefID     *uuid.UUID         `gorm:"type:uuid" json:"ref_id,omitempty"`
	CreatedAt time.Time          `gorm:"index" json:"created_at"`
}

// DenominationCount is one line of the physical count breakdown.
type DenominationCount struct {
	Denomination string `json:"denomination"`
	Count        int    `json:"count"`
}

// CashClosure is one drawer count event. Expected = opening + in - out;
// Variance = counted - expected.
type CashClosure struct {
	ID              uuid.UUID           `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	Folio           string              `gorm:"type:varchar(20);uniqueIndex;not null" json:"folio"`
	BranchID        uuid.UUID           `gorm:"type:uuid;not null;index" json:"branch_id"`
	Drawer          string              `gorm:"type:varchar(30);not null;index" json:"drawer"`
	OpeningBalance  decimal.Decimal     `gorm:"type:decimal(14,2);not null" json:"opening_balance"`
	TotalIn         decimal.Decimal     `gorm:"type:decimal(14,2);not null" json:"total_in"`
	TotalOut        decimal.Decimal     `gorm:"type:decimal(14,2);not null" json:"total_out"`
	ExpectedBalance decimal.Decimal     `gorm:"type:decimal(14,2);not null" json:"expected_balance"`
	CountedBalance  decimal.Decimal     `gorm:"type:decimal(14,2);not null" json:"counted_balance"`
	Variance        decimal.Decimal     `gorm:"type:decimal(14,2);not null" json:"variance"`
	Denominations   []DenominationCount `gorm:"serializer:json" json:"denominations"`
	ClosedBy        *uuid.UUID          `gorm:"type:uuid" json:"closed_by,omitempty"`
	CreatedAt       time.Time           `gorm:"index" json:"created_at"`
}
