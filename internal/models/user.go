package models

import (
	"time"
)

// User holds credentials and the favorites list. The integer primary key
// comes from the store's sequence, and username uniqueness is enforced by
// the unique index rather than an application-level existence check.
type User struct {
	ID           uint             `gorm:"primaryKey" json:"id"`
	CreatedAt    time.Time        `json:"created_at"`
	UpdatedAt    time.Time        `json:"updated_at"`
	Username     string           `gorm:"size:50;not null;uniqueIndex" json:"username"`
	PasswordHash string           `gorm:"not null" json:"-"`
	Favorites    JSONBStringArray `gorm:"type:jsonb;not null;default:'[]'" json:"favorites"`
}

// HasFavorite reports whether the recipe id is in the favorites list.
func (u *User) HasFavorite(recipeID string) bool {
	for _, id := range u.Favorites {
		if id == recipeID {
			return true
		}
	}
	return false
}
