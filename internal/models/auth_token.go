package models

import "time"

// AuthToken is one currently-valid session token issued to a user.
// A token is usable only while its row exists; logout deletes the row,
// which revokes the token even though its signature is still valid.
type AuthToken struct {
	ID        uint64    `gorm:"primarykey" json:"id"`
	UserID    uint64    `gorm:"index;not null" json:"user_id"`
	Token     string    `gorm:"type:text;not null" json:"-"`
	CreatedAt time.Time `json:"created_at"`

	// Relations
	User User `gorm:"foreignKey:UserID" json:"-"`
}
