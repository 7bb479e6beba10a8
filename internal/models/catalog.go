package models

import (
	"time"

	"github.com/google/uuid"
)

// Category groups titles by kind of work (book, film, ...).
type Category struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"-"`
	Name      string    `gorm:"size:256;not null" json:"name"`
	Slug      string    `gorm:"size:50;not null;uniqueIndex" json:"slug"`
	CreatedAt time.Time `json:"-"`
}

// Genre is attached to titles many-to-many.
type Genre struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"-"`
	Name      string    `gorm:"size:256;not null" json:"name"`
	Slug      string    `gorm:"size:50;not null;uniqueIndex" json:"slug"`
	CreatedAt time.Time `json:"-"`
}

// Title is a cataloged work reviewable by users. Rating is the materialized
// mean of review scores, nil when the title has no reviews. It is only
// written inside the same transaction as the review mutation that changes it.
type Title struct {
	ID          uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	Name        string     `gorm:"size:256;not null;index" json:"name"`
	Year        int        `gorm:"not null" json:"year"`
	Description string     `gorm:"type:text" json:"description"`
	Rating      *int       `json:"rating"`
	CategoryID  *uuid.UUID `gorm:"type:uuid;index" json:"-"`
	Category    *Category  `json:"category"`
	Genres      []Genre    `gorm:"many2many:title_genres" json:"genre"`
	CreatedAt   time.Time  `json:"-"`
	UpdatedAt   time.Time  `json:"-"`
}
