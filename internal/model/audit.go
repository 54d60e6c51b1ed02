package model

import (
	"time"

	"github.com/google/uuid"
)

// Audit action constants
const (
	ActionCreate  = "CREATE"
	ActionUpdate  = "UPDATE"
	ActionDelete  = "DELETE"
	ActionApprove = "APPROVE"
	ActionReject  = "REJECT"
)

// Audit entity type constants
const (
	EntityVendor       = "VENDOR"
	EntityInvoice      = "INVOICE"
	EntityPayment      = "PAYMENT"
	EntityApprovalRule = "APPROVAL_RULE"
)

// AuditLog tracks who did what to which entity. Writes are best-effort:
// a failed audit write never aborts the operation it describes.
type AuditLog struct {
	ID          uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	UserName    string    `gorm:"type:varchar(255);index" json:"user_name"`
	Action      string    `gorm:"type:varchar(20);not null;index" json:"action"`
	EntityType  string    `gorm:"type:varchar(30);not null;index" json:"entity_type"`
	EntityID    string    `gorm:"type:varchar(50);index" json:"entity_id"`
	OldValue    string    `gorm:"type:jsonb" json:"old_value,omitempty"`
	NewValue    string    `gorm:"type:jsonb" json:"new_value,omitempty"`
	Description string    `gorm:"type:text" json:"description"`
	CreatedAt   time.Time `gorm:"index" json:"created_at"`
}
