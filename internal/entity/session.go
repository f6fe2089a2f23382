package entity

import (
	"time"

	"github.com/google/uuid"
)

// Session represents one authenticated device or browser. A session is
// valid while expires_at lies in the future; deleting the row is the only
// revocation mechanism.
type Session struct {
	ID     uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	UserID uuid.UUID `gorm:"type:uuid;not null;index"`
	User   User      `gorm:"constraint:OnDelete:CASCADE"`

	UserAgent string `gorm:"type:text"`

	ExpiresAt time.Time `gorm:"not null;index"`

	CreatedAt time.Time
}

func (s *Session) Active(now time.Time) bool {
	return s.ExpiresAt.After(now)
}
