package models

import (
	"time"

	"github.com/google/uuid"
)

// Post is a community post. Vote and bookmark state live in explicit join
// tables so counters can be kept consistent under vote switches.
type Post struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Title     string    `gorm:"size:250;not null" json:"title"`
	Body      string    `gorm:"type:text;not null" json:"body"`
	AuthorID  uuid.UUID `gorm:"type:uuid;not null;index" json:"author_id"`
	Upvotes   int       `gorm:"not null;default:0" json:"upvotes"`
	Downvotes int       `gorm:"not null;default:0" json:"downvotes"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	Author    User      `gorm:"foreignKey:AuthorID;constraint:OnDelete:CASCADE" json:"-"`
	Tags      []Tag     `gorm:"many2many:post_tags;constraint:OnDelete:CASCADE" json:"tags"`
}

type Tag struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Name      string    `gorm:"size:100;not null;uniqueIndex" json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

type Reply struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	PostID    uuid.UUID `gorm:"type:uuid;not null;index" json:"post_id"`
	AuthorID  uuid.UUID `gorm:"type:uuid;not null;index" json:"author_id"`
	Body      string    `gorm:"type:text;not null" json:"body"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	Post      Post      `gorm:"foreignKey:PostID;constraint:OnDelete:CASCADE" json:"-"`
	Author    User      `gorm:"foreignKey:AuthorID;constraint:OnDelete:CASCADE" json:"-"`
}

type PostBookmark struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	PostID    uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_post_bookmarks_post_user,priority:1" json:"post_id"`
	UserID    uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_post_bookmarks_post_user,priority:2" json:"user_id"`
	CreatedAt time.Time `json:"created_at"`
	Post      Post      `gorm:"foreignKey:PostID;constraint:OnDelete:CASCADE" json:"-"`
	User      User      `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
}

type VoteKind string

const (
	VoteUp   VoteKind = "up"
	VoteDown VoteKind = "down"
)

type PostVote struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	PostID    uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_post_votes_post_user,priority:1" json:"post_id"`
	UserID    uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_post_votes_post_user,priority:2" json:"user_id"`
	Kind      VoteKind  `gorm:"size:10;not null" json:"kind"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	Post      Post      `gorm:"foreignKey:PostID;constraint:OnDelete:CASCADE" json:"-"`
	User      User      `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
}
