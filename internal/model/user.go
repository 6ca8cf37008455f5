package model

import (
	"time"

	"github.com/google/uuid"
)

// Role is the closed set of operating roles. Cajeros register payments,
// gerentes authorize payables up to their branch manager limit, directors
// up to the director limit.
type Role string

const (
	RoleCajero   Role = "cajero"
	RoleGerente  Role = "gerente"
	RoleDirector Role = "director"
)

// CanAuthorize reports whether the role may enter the payable authorization gate at all.
func (r Role) CanAuthorize() bool {
	return r == RoleGerente || r == RoleDirector
}

// User is an operator account. PasswordHash is bcrypt (cost 12).
type User struct {
	ID           uuid.UUID  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	Username     string     `gorm:"type:varchar(50);uniqueIndex;not null" json:"username"`
	PasswordHash string     `gorm:"not null" json:"-"`
	FullName     string     `gorm:"not null" json:"full_name"`
	Role         Role       `gorm:"type:varchar(20);not null" json:"role"`
	BranchID     *uuid.UUID `gorm:"type:uuid" json:"branch_id,omitempty"`
	Active       bool       `gorm:"not null;default:true" json:"active"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}
