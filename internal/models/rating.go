package models

import (
	"time"

	"github.com/google/uuid"
)

// Rating is a 1-5 score one user gives another. The occupation rules for who
// may rate whom are enforced in the rating service.
type Rating struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	RatedUserID  uuid.UUID `gorm:"type:uuid;not null;index" json:"rated_user_id"`
	RatingUserID uuid.UUID `gorm:"type:uuid;not null;index" json:"rating_user_id"`
	Rating       int       `gorm:"not null" json:"rating"`
	Comment      string    `gorm:"type:text" json:"comment"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
	RatedUser    User      `gorm:"foreignKey:RatedUserID;constraint:OnDelete:CASCADE" json:"-"`
	RatingUser   User      `gorm:"foreignKey:RatingUserID;constraint:OnDelete:CASCADE" json:"-"`
}
