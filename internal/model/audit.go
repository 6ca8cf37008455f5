package model

import (
	"time"

	"github.com/google/uuid"
)

// AuditAction is the closed set of recorded mutations.
type AuditAction string

const (
	AuditCrear     AuditAction = "crear"
	AuditPago      AuditAction = "pago"
	AuditAutorizar AuditAction = "autorizar"
	AuditCancelar  AuditAction = "cancelar"
	AuditCierre    AuditAction = "cierre"
	AuditEliminar  AuditAction = "eliminar"
)

// FieldChange captures one field's before/after values. Structured on purpose:
// consumers can reason about what changed without re-parsing opaque JSON blobs.
type FieldChange struct {
	Field  string `json:"field"`
	Before string `json:"before,omitempty"`
	After  string `json:"after,omitempty"`
}

// AuditEntry is the immutable change record written in the same transaction as
// the business mutation it describes.
type AuditEntry struct {
	ID        uuid.UUID     `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	TableName string        `gorm:"type:varchar(50);not null;index" json:"table_name"`
	RecordID  string        `gorm:"type:varchar(100);not null;index" json:"record_id"`
	Action    AuditAction   `gorm:"type:varchar(20);not null" json:"action"`
	ActorID   *uuid.UUID    `gorm:"type:uuid" json:"actor_id,omitempty"`
	Changes   []FieldChange `gorm:"serializer:json" json:"changes"`
	CreatedAt time.Time     `gorm:"index" json:"created_at"`
}
