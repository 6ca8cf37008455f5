package dto

import "github.com/shopspring/decimal"

// PayableFilter is bound from query string of GET /v1/cxp.
type PayableFilter struct {
	BranchID string `form:"branch_id"           validate:"omitempty,uuid"`
	Status   string `form:"status,default=all"` // pendiente | pendiente_revision | autorizada | pagada | cancelada | all
	Page     int    `form:"page,default=1"      validate:"min=1"`
	Limit    int    `form:"limit,default=50"    validate:"min=1,max=200"`
}

type CreatePayableRequest struct {
	BranchID     string          `json:"branch_id"      validate:"required,uuid"`
	DestBranchID *string         `json:"dest_branch_id" validate:"omitempty,uuid"`
	Counterparty string          `json:"counterparty"   validate:"required,min=2"`
	Concept      string          `json:"concept"        validate:"required,min=3"`
	Total        decimal.Decimal `json:"total"          validate:"required"`
	DueDate      string          `json:"due_date"       validate:"required,datetime=2006-01-02"`
}

type AuthorizePayableRequest struct {
	Comment string `json:"comment" validate:"omitempty,max=500"`
}

type ExecutePaymentRequest struct {
	Amount    decimal.Decimal `json:"amount"    validate:"required"`
	Method    string          `json:"method"    validate:"required,oneof=efectivo transferencia tarjeta cheque"`
	Reference *string         `json:"reference" validate:"omitempty,min=1,max=100"`
	Drawer    string          `json:"drawer"    validate:"omitempty,max=30"`
}
