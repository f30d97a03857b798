package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// User is the identity record for tenants, service providers and staff.
type User struct {
	ID          uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	Email       string         `gorm:"not null;size:255;uniqueIndex" json:"email"`
	Username    string         `gorm:"not null;size:60;uniqueIndex" json:"username"`
	FirstName   string         `gorm:"size:60" json:"first_name"`
	LastName    string         `gorm:"size:60" json:"last_name"`
	Password    string         `gorm:"not null" json:"-"`
	IsActive    bool           `gorm:"default:true" json:"is_active"`
	IsStaff     bool           `gorm:"default:false" json:"is_staff"`
	IsSuperuser bool           `gorm:"default:false" json:"-"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`
}

func (u *User) FullName() string {
	return strings.TrimSpace(u.FirstName + " " + u.LastName)
}
