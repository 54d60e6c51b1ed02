package model

import (
	"time"

	"github.com/google/uuid"
)

// ApprovalEventStatus enum constants
const (
	ApprovalApproved = "APPROVED"
	ApprovalRejected = "REJECTED"
)

// InvoiceApproval is an append-only record of one approval or rejection
// event. At most one APPROVED row exists per (invoice, level) and per
// (invoice, approver); duplicates are suppressed at the service layer.
type InvoiceApproval struct {
	ID            uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	InvoiceID     uuid.UUID `gorm:"type:uuid;not null;index" json:"invoice_id"`
	ApprovalLevel int       `gorm:"not null" json:"approval_level"`
	ApprovedBy    string    `gorm:"type:varchar(255);not null;index" json:"approved_by"`
	Status        string    `gorm:"type:varchar(20);not null" json:"status"` // APPROVED, REJECTED
	Comments      string    `gorm:"type:text" json:"comments"`
	CreatedAt     time.Time `json:"created_at"`
}
