package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ApprovalRule defines how many approval levels an invoice needs based on
// its total amount. Ranges must not overlap across rules; the lowest
// Priority value wins when more than one active rule matches.
type ApprovalRule struct {
	ID             uuid.UUID       `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	MinAmount      decimal.Decimal `gorm:"type:decimal(15,2);not null;index:idx_rule_amount_range" json:"min_amount"`
	MaxAmount      decimal.Decimal `gorm:"type:decimal(15,2);not null;index:idx_rule_amount_range" json:"max_amount"`
	ApprovalLevels int             `gorm:"not null" json:"approval_levels"`                // 1-4
	RequiredRoles  string          `gorm:"type:varchar(200)" json:"required_roles"`        // advisory CSV, e.g. "MANAGER,FINANCE"
	IsActive       bool            `gorm:"not null;default:true;index" json:"is_active"`
	Priority       int             `gorm:"not null;default:0" json:"priority"` // lower number = higher priority
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
}

// Contains reports whether the given total falls inside the rule's
// inclusive amount range.
func (r ApprovalRule) Contains(total decimal.Decimal) bool {
	return total.GreaterThanOrEqual(r.MinAmount) && total.LessThanOrEqual(r.MaxAmount)
}
