package models

import (
	"time"

	"github.com/google/uuid"
)

// Report is a complaint filed by one user against another. Rows are created
// once and never updated or deleted; the filer and target references outlive
// each other independently (nulled on user deletion, not cascaded).
type Report struct {
	ID             uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	ReportedByID   *uuid.UUID `gorm:"type:uuid;index" json:"reported_by_id,omitempty"`
	ReportedUserID *uuid.UUID `gorm:"type:uuid;index" json:"reported_user_id,omitempty"`
	Title          string     `gorm:"size:255;not null" json:"title"`
	Description    string     `gorm:"type:text;not null" json:"description"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
	ReportedBy     *User      `gorm:"foreignKey:ReportedByID;constraint:OnDelete:SET NULL" json:"-"`
	ReportedUser   *User      `gorm:"foreignKey:ReportedUserID;constraint:OnDelete:SET NULL" json:"-"`
}
