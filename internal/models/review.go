package models

import (
	"time"

	"github.com/google/uuid"
)

// Review is a user's scored opinion on a title. The composite unique index
// enforces one review per (title, author) pair at the storage level, so
// concurrent duplicate creates are serialized by the database rather than
// by an application-level check.
type Review struct {
	ID       uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Text     string    `gorm:"type:text;not null" json:"text"`
	Score    int       `gorm:"not null" json:"score"`
	TitleID  uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_reviews_title_author" json:"-"`
	AuthorID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_reviews_title_author" json:"-"`
	Author   *User     `json:"-"`
	PubDate  time.Time `gorm:"autoCreateTime" json:"pub_date"`
}

// Comment is attached to a review. Same ownership rules as Review, no
// uniqueness constraint and no effect on the title rating.
type Comment struct {
	ID       uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Text     string    `gorm:"type:text;not null" json:"text"`
	ReviewID uuid.UUID `gorm:"type:uuid;not null;index" json:"-"`
	AuthorID uuid.UUID `gorm:"type:uuid;not null" json:"-"`
	Author   *User     `json:"-"`
	PubDate  time.Time `gorm:"autoCreateTime" json:"pub_date"`
}

// OwnerID implements access.Owned.
func (r *Review) OwnerID() uuid.UUID { return r.AuthorID }

// OwnerID implements access.Owned.
func (c *Comment) OwnerID() uuid.UUID { return c.AuthorID }
