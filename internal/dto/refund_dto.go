package dto

import "github.com/shopspring/decimal"

type CreateRefundRequest struct {
	TripRef       string          `json:"trip_ref"       validate:"required,min=1,max=50"`
	CustomerRef   string          `json:"customer_ref"   validate:"required,min=2"`
	BranchID      string          `json:"branch_id"      validate:"required,uuid"`
	PaidAmount    decimal.Decimal `json:"paid_amount"    validate:"required"`
	DepartureDate string          `json:"departure_date" validate:"required,datetime=2006-01-02"`
	Reason        string          `json:"reason"         validate:"omitempty,max=500"`
}

// RefundQuoteRequest previews the policy split without creating anything.
type RefundQuoteRequest struct {
	DaysToDeparture int             `json:"days_to_departure" validate:"min=0"`
	PaidAmount      decimal.Decimal `json:"paid_amount"       validate:"required"`
}

type RefundQuoteResponse struct {
	Percentage     int             `json:"percentage"`
	RefundAmount   decimal.Decimal `json:"refund_amount"`
	RetainedAmount decimal.Decimal `json:"retained_amount"`
	Policy         string          `json:"policy"`
}
