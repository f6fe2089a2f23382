package entity

import (
	"time"

	"github.com/google/uuid"
)

type User struct {
	ID    uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	Email string    `gorm:"type:varchar(255);uniqueIndex;not null"`

	FirstName string `gorm:"type:varchar(100);not null"`
	LastName  string `gorm:"type:varchar(100);not null"`

	// PasswordHash is the bcrypt hash of the password, never the plaintext.
	PasswordHash string `gorm:"type:text;not null"`

	Verified bool `gorm:"default:false;not null"`

	CreatedAt time.Time
	UpdatedAt time.Time

	Sessions []Session
}
