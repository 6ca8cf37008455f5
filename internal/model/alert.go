package model

import (
	"time"

	"github.com/google/uuid"
)

// AlertSeverity levels.
type AlertSeverity string

const (
	SeverityBaja  AlertSeverity = "baja"
	SeverityMedia AlertSeverity = "media"
	SeverityAlta  AlertSeverity = "alta"
)

// Alert types raised by the core.
const (
	AlertDiscrepanciaTarifa   = "discrepancia_tarifa"
	AlertAutorizacionRequired = "autorizacion_requerida"
	AlertReembolsoPendiente   = "reembolso_pendiente"
	AlertConciliacionFallida  = "conciliacion_fallida"
	AlertDesvioCaja           = "desvio_caja"
	AlertCXCVencida           = "cxc_vencida"
)

// Alert is an actionable notice targeted at a role. Raising the same
// (type, reference) twice within 24h while the first is unresolved is a no-op,
// so scheduled checks cannot storm the inbox.
type Alert struct {
	ID          uuid.UUID     `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	Type        string        `gorm:"type:varchar(50);not null;index" json:"type"`
	Severity    AlertSeverity `gorm:"type:varchar(10);not null" json:"severity"`
	Title       string        `gorm:"not null" json:"title"`
	Message     string        `gorm:"not null" json:"message"`
	ReferenceID *string       `gorm:"type:varchar(100);index" json:"reference_id,omitempty"`
	BranchID    *uuid.UUID    `gorm:"type:uuid;index" json:"branch_id,omitempty"`
	TargetRole  *Role         `gorm:"type:varchar(20)" json:"target_role,omitempty"`
	Read        bool          `gorm:"not null;default:false" json:"read"`
	Resolved    bool          `gorm:"not null;default:false;index" json:"resolved"`
	ResolvedAt  *time.Time    `json:"resolved_at,omitempty"`
	CreatedAt   time.Time     `gorm:"index" json:"created_at"`
}
