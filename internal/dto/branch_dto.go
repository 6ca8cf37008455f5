package dto

import "github.com/shopspring/decimal"

type CreateBranchRequest struct {
	Code          string          `json:"code"           validate:"required,min=2,max=10,uppercase"`
	Name          string          `json:"name"           validate:"required,min=3"`
	ManagerLimit  decimal.Decimal `json:"manager_limit"  validate:"required"`
	DirectorLimit decimal.Decimal `json:"director_limit" validate:"required"`
}
