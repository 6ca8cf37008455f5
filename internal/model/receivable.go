package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ReceivableStatus is the closed state set for a cuenta por cobrar.
// Transitions only move forward: pendiente → parcial → pagada, or → cancelada.
// "Vencida" (overdue) is derived from DueDate, never stored.
type ReceivableStatus string

const (
	ReceivablePendiente ReceivableStatus = "pendiente"
	ReceivableParcial   ReceivableStatus = "parcial"
	ReceivablePagada    ReceivableStatus = "pagada"
	ReceivableCancelada ReceivableStatus = "cancelada"
)

// Open reports whether the receivable can still accept payments.
func (s ReceivableStatus) Open() bool {
	return s == ReceivablePendiente || s == ReceivableParcial
}

// PaymentMethod is shared by inflows and outflows.
type PaymentMethod string

const (
	MethodEfectivo      PaymentMethod = "efectivo"
	MethodTransferencia PaymentMethod = "transferencia"
	MethodTarjeta       PaymentMethod = "tarjeta"
	MethodCheque        PaymentMethod = "cheque"
)

// Receivable (CXC) is money owed to the agency by a customer or provider.
// Invariant: Paid + Pending == Total after every committed operation.
type Receivable struct {
	ID           uuid.UUID        `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	Folio        string           `gorm:"type:varchar(20);uniqueIndex;not null" json:"folio"`
	BranchID     uuid.UUID        `gorm:"type:uuid;not null;index" json:"branch_id"`
	Counterparty string           `gorm:"not null" json:"counterparty"`
	TripRef      *string          `gorm:"type:varchar(50);index" json:"trip_ref,omitempty"`
	Total        decimal.Decimal  `gorm:"type:decimal(14,2);not null" json:"total"`
	Paid         decimal.Decimal  `gorm:"type:decimal(14,2);not null" json:"paid"`
	Pending      decimal.Decimal  `gorm:"type:decimal(14,2);not null" json:"pending"`
	DueDate      time.Time        `gorm:"not null" json:"due_date"`
	Status       ReceivableStatus `gorm:"type:varchar(20);not null;index" json:"status"`
	CreatedAt    time.Time        `json:"created_at"`
	UpdatedAt    time.Time        `json:"updated_at"`

	Payments []PaymentReceived `gorm:"foreignKey:ReceivableID" json:"payments,omitempty"`
}

// Overdue reports whether the receivable is past due and still unpaid at t.
func (r *Receivable) Overdue(t time.Time) bool {
	return r.Status.Open() && t.After(r.DueDate)
}

// PaymentReceived is one inflow applied to a Receivable. Immutable after
// creation except for the reconciliation flag set by the matcher.
type PaymentReceived struct {
	ID           uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	Folio        string          `gorm:"type:varchar(20);uniqueIndex;not null" json:"folio"`
	ReceivableID uuid.UUID       `gorm:"type:uuid;not null;index" json:"receivable_id"`
	Amount       decimal.Decimal `gorm:"type:decimal(14,2);not null" json:"amount"`
	BankFee      decimal.Decimal `gorm:"type:decimal(14,2);not null" json:"bank_fee"`
	NetAmount    decimal.Decimal `gorm:"type:decimal(14,2);not null" json:"net_amount"`
	Method       PaymentMethod   `gorm:"type:varchar(20);not null" json:"method"`
	Reference    *string         `gorm:"type:varchar(100);index" json:"reference,omitempty"`
	Reconciled   bool            `gorm:"not null;default:false" json:"reconciled"`
	ReconciledAt *time.Time      `json:"reconciled_at,omitempty"`
	CreatedAt    time.Time       `gorm:"index" json:"created_at"`
}

// ContractedRate is the agreed amount for a trip, used to cross-check invoiced
// CXC totals at creation time. Maintained by the sales subsystem; read-only here.
type ContractedRate struct {
	ID          uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	TripRef     string          `gorm:"type:varchar(50);uniqueIndex;not null" json:"trip_ref"`
	Amount      decimal.Decimal `gorm:"type:decimal(14,2);not null" json:"amount"`
	Description string          `json:"description"`
	CreatedAt   time.Time       `json:"created_at"`
}
