package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// VendorStatus enum constants
const (
	VendorActive    = "ACTIVE"
	VendorInactive  = "INACTIVE"
	VendorSuspended = "SUSPENDED"
)

// DefaultStateCode is used when a vendor has no usable GSTIN.
const DefaultStateCode = "27"

// Vendor represents a supplier that issues invoices to the company.
// RiskScore is a cached value recomputed only on explicit request.
type Vendor struct {
	ID        uuid.UUID      `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Name      string         `gorm:"type:varchar(255);not null" json:"name"`
	Email     string         `gorm:"type:varchar(255);uniqueIndex;not null" json:"email"`
	Gstin     string         `gorm:"type:varchar(20)" json:"gstin"` // first two chars encode the state code
	Status    string         `gorm:"type:varchar(20);not null;default:'ACTIVE';index" json:"status"`
	RiskScore float64        `gorm:"not null;default:0" json:"risk_score"` // 0-100, higher = riskier
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// StateCode extracts the two-digit state code from the vendor's GSTIN,
// falling back to DefaultStateCode for absent or malformed identifiers.
func (v Vendor) StateCode() string {
	if len(v.Gstin) < 2 {
		return DefaultStateCode
	}
	return v.Gstin[:2]
}
