package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Branch is one physical office (sucursal) of the agency. The authorization
// limits are read-only from the finance core's perspective: a Payable whose
// total reaches ManagerLimit needs the authorization gate, and a gerente may
// only authorize up to ManagerLimit (director up to DirectorLimit).
type Branch struct {
	ID            uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	Code          string          `gorm:"type:varchar(10);uniqueIndex;not null" json:"code"`
	Name          string          `gorm:"not null" json:"name"`
	ManagerLimit  decimal.Decimal `gorm:"type:decimal(14,2);not null" json:"manager_limit"`
	DirectorLimit decimal.Decimal `gorm:"type:decimal(14,2);not null" json:"director_limit"`
	Active        bool            `gorm:"not null;default:true" json:"active"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}
