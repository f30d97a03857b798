package models

import (
	"time"

	"github.com/google/uuid"
)

type IssueStatus string

const (
	IssueStatusReported   IssueStatus = "reported"
	IssueStatusInProgress IssueStatus = "in_progress"
	IssueStatusResolved   IssueStatus = "resolved"
)

type IssuePriority string

const (
	IssuePriorityLow    IssuePriority = "low"
	IssuePriorityMedium IssuePriority = "medium"
	IssuePriorityHigh   IssuePriority = "high"
)

// Issue is a maintenance problem reported against an apartment.
type Issue struct {
	ID           uuid.UUID     `gorm:"type:uuid;primaryKey" json:"id"`
	ApartmentID  uuid.UUID     `gorm:"type:uuid;not null;index" json:"apartment_id"`
	ReportedByID uuid.UUID     `gorm:"type:uuid;not null;index" json:"reported_by_id"`
	AssignedToID *uuid.UUID    `gorm:"type:uuid;index" json:"assigned_to_id,omitempty"`
	Title        string        `gorm:"size:255;not null" json:"title"`
	Description  string        `gorm:"type:text;not null" json:"description"`
	Status       IssueStatus   `gorm:"size:20;not null;default:'reported';index" json:"status"`
	Priority     IssuePriority `gorm:"size:20;not null;default:'low'" json:"priority"`
	ResolvedOn   *time.Time    `json:"resolved_on,omitempty"`
	CreatedAt    time.Time     `json:"created_at"`
	UpdatedAt    time.Time     `json:"updated_at"`
	Apartment    Apartment     `gorm:"foreignKey:ApartmentID;constraint:OnDelete:CASCADE" json:"-"`
	ReportedBy   User          `gorm:"foreignKey:ReportedByID" json:"-"`
	AssignedTo   *User         `gorm:"foreignKey:AssignedToID;constraint:OnDelete:SET NULL" json:"-"`
}
