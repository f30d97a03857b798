package models

import (
	"time"

	"github.com/google/uuid"
)

// ContentType tags the kind of entity a content view points at. The set of
// viewable entity kinds is closed.
type ContentType string

const (
	ContentTypeIssue ContentType = "issue"
	ContentTypePost  ContentType = "post"
)

// ContentView is a deduplicated record of "entity X was viewed by viewer Y".
// The viewer is either an authenticated user or, for anonymous access, a
// client IP; the two identifying keys are never merged. The composite unique
// index is the core contract: at most one row per
// (content_type, object_id, user_id, viewer_ip) tuple.
type ContentView struct {
	ID          uuid.UUID   `gorm:"type:uuid;primaryKey" json:"id"`
	ContentType ContentType `gorm:"size:20;not null;uniqueIndex:idx_content_views_viewer,priority:1" json:"content_type"`
	ObjectID    uuid.UUID   `gorm:"type:uuid;not null;uniqueIndex:idx_content_views_viewer,priority:2;index" json:"object_id"`
	UserID      *uuid.UUID  `gorm:"type:uuid;uniqueIndex:idx_content_views_viewer,priority:3" json:"user_id,omitempty"`
	ViewerIP    *string     `gorm:"size:45;uniqueIndex:idx_content_views_viewer,priority:4" json:"viewer_ip,omitempty"`
	LastViewed  time.Time   `gorm:"not null;index" json:"last_viewed"`
	CreatedAt   time.Time   `json:"created_at"`
	UpdatedAt   time.Time   `json:"updated_at"`
	User        *User       `gorm:"foreignKey:UserID;constraint:OnDelete:SET NULL" json:"-"`
}

func (ContentView) TableName() string {
	return "content_views"
}
