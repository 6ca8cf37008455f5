package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// RefundStatus: pendiente_autorizacion → autorizada → pagada, or → rechazada.
type RefundStatus string

const (
	RefundPendienteAutorizacion RefundStatus = "pendiente_autorizacion"
	RefundAutorizada            RefundStatus = "autorizada"
	RefundPagada                RefundStatus = "pagada"
	RefundRechazada             RefundStatus = "rechazada"
)

// RefundPriority escalates to alta for large amounts or short notice.
type RefundPriority string

const (
	PriorityNormal RefundPriority = "normal"
	PriorityAlta   RefundPriority = "alta"
)

// Refund is a payable-like record for money to return to a customer after a
// cancellation. Invariant: RetainedAmount + RefundAmount == PaidAmount exactly.
type Refund struct {
	ID              uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	Folio           string          `gorm:"type:varchar(20);uniqueIndex;not null" json:"folio"`
	TripRef         string          `gorm:"type:varchar(50);not null;index" json:"trip_ref"`
	CustomerRef     string          `gorm:"not null" json:"customer_ref"`
	BranchID        uuid.UUID       `gorm:"type:uuid;not null;index" json:"branch_id"`
	PaidAmount      decimal.Decimal `gorm:"type:decimal(14,2);not null" json:"paid_amount"`
	RefundAmount    decimal.Decimal `gorm:"type:decimal(14,2);not null" json:"refund_amount"`
	RetainedAmount  decimal.Decimal `gorm:"type:decimal(14,2);not null" json:"retained_amount"`
	Percentage      int             `gorm:"not null" json:"percentage"`
	DaysToDeparture int             `gorm:"not null" json:"days_to_departure"`
	Policy          string          `gorm:"not null" json:"policy"`
	Reason          string          `json:"reason"`
	Priority        RefundPriority  `gorm:"type:varchar(10);not null" json:"priority"`
	Status          RefundStatus    `gorm:"type:varchar(30);not null;index" json:"status"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
}
