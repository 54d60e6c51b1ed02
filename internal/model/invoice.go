package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// InvoiceStatus enum constants
const (
	StatusPending       = "PENDING"
	StatusApproved      = "APPROVED"
	StatusRejected      = "REJECTED"
	StatusPaid          = "PAID"
	StatusPartiallyPaid = "PARTIALLY_PAID"
	StatusOverdue       = "OVERDUE"
	StatusEscalated     = "ESCALATED"
)

// Invoice represents a vendor invoice moving through the multi-level
// approval workflow and the settlement ledger.
// Invariant: TotalAmount = Amount + CgstAmount + SgstAmount + IgstAmount,
// recomputed whenever the item list (and therefore Amount) changes.
type Invoice struct {
	ID                   uuid.UUID       `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	VendorID             uuid.UUID       `gorm:"type:uuid;not null;index" json:"vendor_id"`
	Vendor               *Vendor         `gorm:"foreignKey:VendorID" json:"vendor,omitempty"`
	Amount               decimal.Decimal `gorm:"type:decimal(15,2);not null" json:"amount"` // base = sum of item amounts
	CgstAmount           decimal.Decimal `gorm:"type:decimal(15,2);not null;default:0" json:"cgst_amount"`
	SgstAmount           decimal.Decimal `gorm:"type:decimal(15,2);not null;default:0" json:"sgst_amount"`
	IgstAmount           decimal.Decimal `gorm:"type:decimal(15,2);not null;default:0" json:"igst_amount"`
	TotalAmount          decimal.Decimal `gorm:"type:decimal(15,2);not null" json:"total_amount"`
	InvoiceDate          time.Time       `gorm:"type:date;not null;index" json:"invoice_date"`
	DueDate              time.Time       `gorm:"type:date;not null;index" json:"due_date"`
	Status               string          `gorm:"type:varchar(20);not null;default:'PENDING';index" json:"status"`
	CurrentApprovalLevel int             `gorm:"not null;default:0" json:"current_approval_level"`
	IsOverdue            bool            `gorm:"not null;default:false;index" json:"is_overdue"`
	EscalationLevel      *int            `json:"escalation_level"` // nullable, treated as 0 when unset
	InvoiceNumber        string          `gorm:"type:varchar(30);uniqueIndex;not null" json:"invoice_number"`
	CreatedBy            string          `gorm:"type:varchar(255);index" json:"created_by"`
	Items                []InvoiceItem   `gorm:"foreignKey:InvoiceID;constraint:OnDelete:CASCADE" json:"items"`
	CreatedAt            time.Time       `json:"created_at"`
	UpdatedAt            time.Time       `json:"updated_at"`
}

// InvoiceItem is a single line on an invoice. Amount is always recomputed
// server-side as Quantity * UnitPrice, never trusted from input.
type InvoiceItem struct {
	ID          uuid.UUID       `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	InvoiceID   uuid.UUID       `gorm:"type:uuid;not null;index" json:"invoice_id"`
	Description string          `gorm:"type:varchar(255);not null" json:"description"`
	Quantity    int             `gorm:"not null" json:"quantity"`
	UnitPrice   decimal.Decimal `gorm:"type:decimal(15,2);not null" json:"unit_price"`
	Amount      decimal.Decimal `gorm:"type:decimal(15,2);not null" json:"amount"`
	ItemOrder   int             `gorm:"not null" json:"item_order"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}
