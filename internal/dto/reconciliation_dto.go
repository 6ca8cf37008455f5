package dto

import "github.com/shopspring/decimal"

// StatementItem is one line of the uploaded bank/cash statement.
type StatementItem struct {
	Amount    decimal.Decimal `json:"amount"    validate:"required"`
	Reference *string         `json:"reference" validate:"omitempty,min=1,max=100"`
}

type PerformReconciliationRequest struct {
	BranchID string          `json:"branch_id" validate:"required,uuid"`
	Date     string          `json:"date"      validate:"required,datetime=2006-01-02"`
	Inflows  []StatementItem `json:"inflows"   validate:"dive"`
	Outflows []StatementItem `json:"outflows"  validate:"dive"`
}
