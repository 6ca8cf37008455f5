package dto

import "github.com/shopspring/decimal"

type DenominationLine struct {
	Denomination string `json:"denomination" validate:"required"`
	Count        int    `json:"count"        validate:"min=0"`
}

type CloseDrawerRequest struct {
	BranchID      string             `json:"branch_id"      validate:"required,uuid"`
	Drawer        string             `json:"drawer"         validate:"required,min=1,max=30"`
	CountedAmount decimal.Decimal    `json:"counted_amount"`
	Denominations []DenominationLine `json:"denominations"  validate:"omitempty,dive"`
}

type RegisterMovementRequest struct {
	BranchID string          `json:"branch_id" validate:"required,uuid"`
	Drawer   string          `json:"drawer"    validate:"required,min=1,max=30"`
	Kind     string          `json:"kind"      validate:"required,oneof=ingreso egreso"`
	Amount   decimal.Decimal `json:"amount"    validate:"required"`
	Concept  string          `json:"concept"   validate:"required,min=3"`
}
