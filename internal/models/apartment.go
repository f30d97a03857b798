package models

import (
	"time"

	"github.com/google/uuid"
)

type Apartment struct {
	ID         uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	UnitNumber string     `gorm:"size:10;not null;uniqueIndex" json:"unit_number"`
	Building   string     `gorm:"size:50;not null" json:"building"`
	Floor      int        `gorm:"not null" json:"floor"`
	TenantID   *uuid.UUID `gorm:"type:uuid;index" json:"tenant_id,omitempty"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`
	Tenant     *User      `gorm:"foreignKey:TenantID;constraint:OnDelete:SET NULL" json:"-"`
}
