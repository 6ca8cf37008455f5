package dto

// AlertFilter is bound from query string of GET /v1/alertas.
type AlertFilter struct {
	BranchID   string `form:"branch_id"        validate:"omitempty,uuid"`
	Unresolved bool   `form:"unresolved"`
	Page       int    `form:"page,default=1"   validate:"min=1"`
	Limit      int    `form:"limit,default=50" validate:"min=1,max=200"`
}
