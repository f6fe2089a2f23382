package entity

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type AuditAction string

const (
	Registered          AuditAction = "registered"
	LoginSuccess        AuditAction = "login_success"
	LoginFailed         AuditAction = "login_failed"
	Logout              AuditAction = "logout"
	PasswordResetAction AuditAction = "password_reset"
	SessionRevoked      AuditAction = "session_revoked"
)

type AuditLog struct {
	ID uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`

	UserID *uuid.UUID `gorm:"type:uuid;index"`
	User   *User      `gorm:"constraint:OnDelete:SET NULL"`

	IPAddress *string     `gorm:"type:varchar(45)"`
	Action    AuditAction `gorm:"type:varchar(32);not null"`

	Metadata datatypes.JSON

	CreatedAt time.Time
}
