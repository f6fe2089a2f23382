package service

import (
	"context"
	"time"

	"golang.org/x/crypto/bcrypt"
)

type AuthConfig struct {
	AccessTokenSecret  []byte
	RefreshTokenSecret []byte
	AppOrigin          string

	AccessTokenTTL          time.Duration
	RefreshTokenTTL         time.Duration
	SessionTTL              time.Duration
	SessionRefreshThreshold time.Duration
	EmailVerificationTTL    time.Duration
	PasswordResetTTL        time.Duration
	ResetRequestWindow      time.Duration
}

// EmailSender delivers outbound mail and reports the provider's
// confirmation id for the send.
type EmailSender interface {
	SendVerificationEmail(ctx context.Context, email string, url string) (string, error)
	SendPasswordResetEmail(ctx context.Context, email string, url string) (string, error)
}

type PasswordHasher interface {
	Hash(password string) (string, error)
	Verify(hash string, password string) bool
}

type Clock interface {
	Now() time.Time
}

type RealClock struct{}

func (RealClock) Now() time.Time {
	return time.Now()
}

type BcryptPasswordHasher struct {
	Cost int
}

func (h BcryptPasswordHasher) Hash(password string) (string, error) {
	cost := h.Cost
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return "", err
	}
	return string(bytes), nil
}

func (h BcryptPasswordHasher) Verify(hash string, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

func (c AuthConfig) accessTokenTTL() time.Duration {
	if c.AccessTokenTTL > 0 {
		return c.AccessTokenTTL
	}
	return 15 * time.Minute
}

func (c AuthConfig) refreshTokenTTL() time.Duration {
	if c.RefreshTokenTTL > 0 {
		return c.RefreshTokenTTL
	}
	return 30 * 24 * time.Hour
}

func (c AuthConfig) sessionTTL() time.Duration {
	if c.SessionTTL > 0 {
		return c.SessionTTL
	}
	return 30 * 24 * time.Hour
}

func (c AuthConfig) sessionRefreshThreshold() time.Duration {
	if c.SessionRefreshThreshold > 0 {
		return c.SessionRefreshThreshold
	}
	return 24 * time.Hour
}

func (c AuthConfig) emailVerificationTTL() time.Duration {
	if c.EmailVerificationTTL > 0 {
		return c.EmailVerificationTTL
	}
	return 365 * 24 * time.Hour
}

func (c AuthConfig) passwordResetTTL() time.Duration {
	if c.PasswordResetTTL > 0 {
		return c.PasswordResetTTL
	}
	return time.Hour
}

func (c AuthConfig) resetRequestWindow() time.Duration {
	if c.ResetRequestWindow > 0 {
		return c.ResetRequestWindow
	}
	return 5 * time.Minute
}
