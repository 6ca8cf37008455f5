package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PayableStatus is the closed state set for a cuenta por pagar.
//
//	requires authorization: pendiente_revision → autorizada → pagada
//	no authorization:       pendiente → pagada
type PayableStatus string

const (
	PayablePendiente         PayableStatus = "pendiente"
	PayablePendienteRevision PayableStatus = "pendiente_revision"
	PayableAutorizada        PayableStatus = "autorizada"
	PayablePagada            PayableStatus = "pagada"
	PayableCancelada         PayableStatus = "cancelada"
)

// Payable (CXP) is money the agency owes. DestBranchID is set on inter-branch
// transfers (commission settlements between sucursales).
// Invariant: Paid + Pending == Total after every committed operation.
type Payable struct {
	ID           uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	Folio        string          `gorm:"type:varchar(20);uniqueIndex;not null" json:"folio"`
	BranchID     uuid.UUID       `gorm:"type:uuid;not null;index" json:"branch_id"`
	DestBranchID *uuid.UUID      `gorm:"type:uuid" json:"dest_branch_id,omitempty"`
	Counterparty string          `gorm:"not null" json:"counterparty"`
	Concept      string          `gorm:"not null" json:"concept"`
	Total        decimal.Decimal `gorm:"type:decimal(14,2);not null" json:"total"`
	Paid         decimal.Decimal `gorm:"type:decimal(14,2);not null" json:"paid"`
	Pending      decimal.Decimal `gorm:"type:decimal(14,2);not null" json:"pending"`
	DueDate      time.Time       `gorm:"not null" json:"due_date"`

	// RequiresAuthorization is fixed at creation: total >= branch.ManagerLimit.
	RequiresAuthorization bool          `gorm:"not null" json:"requires_authorization"`
	Status                PayableStatus `gorm:"type:varchar(20);not null;index" json:"status"`
	AuthorizedBy          *uuid.UUID    `gorm:"type:uuid" json:"authorized_by,omitempty"`
	AuthorizedAt          *time.Time    `json:"authorized_at,omitempty"`
	AuthorizationComment  *string       `json:"authorization_comment,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Payments []PaymentMade `gorm:"foreignKey:PayableID" json:"payments,omitempty"`
}

// Disbursable reports whether a payment may be executed in the current status.
func (p *Payable) Disbursable() bool {
	if p.RequiresAuthorization {
		return p.Status == PayableAutorizada
	}
	return p.Status == PayablePendiente || p.Status == PayableAutorizada
}

// PaymentMade is one outflow applied to a Payable. Created once per
// disbursement, never mutated.
type PaymentMade struct {
	ID           uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	Folio        string          `gorm:"type:varchar(20);uniqueIndex;not null" json:"folio"`
	PayableID    uuid.UUID       `gorm:"type:uuid;not null;index" json:"payable_id"`
	Amount       decimal.Decimal `gorm:"type:decimal(14,2);not null" json:"amount"`
	Method       PaymentMethod   `gorm:"type:varchar(20);not null" json:"method"`
	Reference    *string         `gorm:"type:varchar(100);index" json:"reference,omitempty"`
	Reconciled   bool            `gorm:"not null;default:false" json:"reconciled"`
	ReconciledAt *time.Time      `json:"reconciled_at,omitempty"`
	CreatedAt    time.Time       `gorm:"index" json:"created_at"`
}
