package dto

import "github.com/shopspring/decimal"

type CreateCommissionsRequest struct {
	TripRef         string          `json:"trip_ref"         validate:"required,min=1,max=50"`
	SaleAmount      decimal.Decimal `json:"sale_amount"      validate:"required"`
	SellerBranchID  string          `json:"seller_branch_id"    validate:"required,uuid"`
	OperatingBranch string          `json:"operating_branch_id" validate:"required,uuid"`
	SalespersonRef  *string         `json:"salesperson_ref"  validate:"omitempty,min=1,max=100"`
	GuideRef        *string         `json:"guide_ref"        validate:"omitempty,min=1,max=100"`
}
