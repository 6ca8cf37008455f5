package dto

import "github.com/shopspring/decimal"

// ─── Filter / List ──────────────────────────────────────────────────────────

// ReceivableFilter is bound from query string of GET /v1/cxc.
type ReceivableFilter struct {
	BranchID string `form:"branch_id"           validate:"omitempty,uuid"`
	Status   string `form:"status,default=all"` // pendiente | parcial | pagada | cancelada | all
	Page     int    `form:"page,default=1"      validate:"min=1"`
	Limit    int    `form:"limit,default=50"    validate:"min=1,max=200"`
}

// ─── Request DTOs ────────────────────────────────────────────────────────────

type CreateReceivableRequest struct {
	BranchID     string          `json:"branch_id"    validate:"required,uuid"`
	Counterparty string          `json:"counterparty" validate:"required,min=2"`
	TripRef      *string         `json:"trip_ref"     validate:"omitempty,min=1,max=50"`
	Total        decimal.Decimal `json:"total"        validate:"required"`
	DueDate      string          `json:"due_date"     validate:"required,datetime=2006-01-02"`
}

type RegisterPaymentRequest struct {
	Amount    decimal.Decimal `json:"amount"    validate:"required"`
	BankFee   decimal.Decimal `json:"bank_fee"`
	Method    string          `json:"method"    validate:"required,oneof=efectivo transferencia tarjeta cheque"`
	Reference *string         `json:"reference" validate:"omitempty,min=1,max=100"`
	Drawer    string          `json:"drawer"    validate:"omitempty,max=30"`
}
