package models

import (
	"time"

	"github.com/ahmetcoskunkizilkaya/reviewhub-backend/internal/identity"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// User is an account on the platform. Confirmation codes are stored only
// as bcrypt hashes; the issue timestamp is recorded for auditing but codes
// do not expire.
type User struct {
	ID                       uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	Username                 string         `gorm:"size:150;not null;uniqueIndex" json:"username"`
	Email                    string         `gorm:"size:254;not null;uniqueIndex" json:"email"`
	FirstName                string         `gorm:"size:150" json:"first_name"`
	LastName                 string         `gorm:"size:150" json:"last_name"`
	Bio                      string         `gorm:"type:text" json:"bio"`
	Role                     identity.Role  `gorm:"size:20;not null;default:'user'" json:"role"`
	IsSuperuser              bool           `gorm:"not null;default:false" json:"-"`
	ConfirmationCodeHash     string         `gorm:"size:128" json:"-"`
	ConfirmationCodeIssuedAt *time.Time     `json:"-"`
	CreatedAt                time.Time      `json:"created_at"`
	UpdatedAt                time.Time      `json:"updated_at"`
	DeletedAt                gorm.DeletedAt `gorm:"index" json:"-"`
}

// IsAdmin reports whether the user has admin rights. Superusers are
// admin-equivalent everywhere an admin check occurs.
func (u *User) IsAdmin() bool {
	return u.Role == identity.RoleAdmin || u.IsSuperuser
}

// IsModerator reports the moderator role only, never admin.
func (u *User) IsModerator() bool {
	return u.Role == identity.RoleModerator
}
