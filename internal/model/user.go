package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Role constants. Roles scope what a user can see:
// USER sees only their own invoices, MANAGER sees pending invoices awaiting
// approval, FINANCE sees approved invoices ready for payment, ADMIN sees all.
const (
	RoleAdmin   = "ADMIN"
	RoleManager = "MANAGER"
	RoleFinance = "FINANCE"
	RoleUser    = "USER"
)

// User is an account that can log in and act on invoices.
type User struct {
	ID        uuid.UUID      `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Username  string         `gorm:"type:varchar(255);uniqueIndex;not null" json:"username"`
	Email     string         `gorm:"type:varchar(255);uniqueIndex;not null" json:"email"`
	Password  string         `gorm:"type:varchar(255);not null" json:"-"`
	Role      string         `gorm:"type:varchar(20);not null;default:'USER'" json:"role"`
	CreatedAt time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}
