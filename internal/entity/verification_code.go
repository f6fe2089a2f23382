package entity

import (
	"time"

	"github.com/google/uuid"
)

type VerificationCodeType string

const (
	EmailVerification VerificationCodeType = "email_verification"
	PasswordReset     VerificationCodeType = "password_reset"
)

// VerificationCode is a single-use, typed, expiring code. The row id is
// the opaque value sent to the user; a successful consumption deletes the
// row, expired rows are simply treated as invalid.
type VerificationCode struct {
	ID     uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	UserID uuid.UUID `gorm:"type:uuid;not null;index"`
	User   User      `gorm:"constraint:OnDelete:CASCADE"`

	Type VerificationCodeType `gorm:"type:varchar(32);not null;index"`

	ExpiresAt time.Time `gorm:"not null"`

	CreatedAt time.Time
}
