package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Payment records a partial or full settlement against an invoice.
// Invariant: the sum of a given invoice's payments never exceeds the
// invoice total, enforced inside the creation transaction.
type Payment struct {
	ID                   uuid.UUID       `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	InvoiceID            uuid.UUID       `gorm:"type:uuid;not null;index" json:"invoice_id"`
	Invoice              *Invoice        `gorm:"foreignKey:InvoiceID" json:"invoice,omitempty"`
	Amount               decimal.Decimal `gorm:"type:decimal(15,2);not null" json:"amount"`
	PaymentDate          time.Time       `gorm:"not null" json:"payment_date"`
	PaymentMethod        string          `gorm:"type:varchar(50)" json:"payment_method"`
	TransactionReference string          `gorm:"type:varchar(100)" json:"transaction_reference"`
	Notes                string          `gorm:"type:text" json:"notes"`
	CreatedAt            time.Time       `json:"created_at"`
}
