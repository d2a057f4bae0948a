package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/adityakhanna/trendora-backend/pkg/enums"
)

// User is an account identified by its mobile number. Admin accounts
// additionally carry a password hash for back-office login.
type User struct {
	ID           uuid.UUID      `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Mobile       string         `gorm:"column:mobile;not null;uniqueIndex"`
	Name         *string        `gorm:"column:name"`
	Role         enums.UserRole `gorm:"column:role;not null;default:'customer'"`
	PasswordHash *string        `gorm:"column:password_hash"`
	LastLoginAt  *time.Time     `gorm:"column:last_login_at"`
	CreatedAt    time.Time      `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt    time.Time      `gorm:"column:updated_at;autoUpdateTime"`
}
