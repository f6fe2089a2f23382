package service

import (
	"context"
	"fmt"
	"time"

	"github.com/wdbprojects/instamart-backend/internal/entity"
	"github.com/wdbprojects/instamart-backend/internal/repository"

	"github.com/google/uuid"
)

// Outstanding reset requests tolerated per window before the next one is
// rejected.
const maxResetRequestsPerWindow = 1

// VerificationService runs the code-gated account mutations: confirming an
// email address and resetting a password. Every successful consumption
// deletes the code row, so a code can never be used twice.
type VerificationService struct {
	users    repository.UserRepository
	sessions repository.SessionRepository
	codes    repository.VerificationCodeRepository

	auditLogs    repository.AuditLogRepository
	emailSender  EmailSender
	passwordHash PasswordHasher
	clock        Clock
	config       AuthConfig
}

func NewVerificationService(
	users repository.UserRepository,
	sessions repository.SessionRepository,
	codes repository.VerificationCodeRepository,
	auditLogs repository.AuditLogRepository,
	emailSender EmailSender,
	passwordHash PasswordHasher,
	clock Clock,
	config AuthConfig,
) *VerificationService {
	return &VerificationService{
		users:        users,
		sessions:     sessions,
		codes:        codes,
		auditLogs:    auditLogs,
		emailSender:  emailSender,
		passwordHash: passwordHash,
		clock:        clock,
		config:       config,
	}
}

func (s *VerificationService) ConfirmEmailVerification(ctx context.Context, codeID uuid.UUID) (*entity.User, error) {
	code, err := s.codes.FindValid(ctx, codeID, entity.EmailVerification, s.now())
	if err != nil {
		return nil, err
	}
	if code == nil {
		return nil, ErrInvalidCode
	}

	user, err := s.users.FindByID(ctx, code.UserID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		// Orphaned code; should not happen, the user row is created before
		// the code ever is.
		return nil, ErrInternal
	}

	user.Verified = true
	if err := s.users.Update(ctx, user); err != nil {
		return nil, err
	}

	if err := s.codes.Delete(ctx, code.ID); err != nil {
		return nil, err
	}
	return user, nil
}

func (s *VerificationService) RequestPasswordReset(ctx context.Context, email string) error {
	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		return err
	}
	if user == nil {
		return ErrUserNotFound
	}

	now := s.now()
	count, err := s.codes.CountRecentByUser(ctx, user.ID, entity.PasswordReset, now.Add(-s.config.resetRequestWindow()))
	if err != nil {
		return err
	}
	if count > maxResetRequestsPerWindow {
		return ErrTooManyRequests
	}

	code := &entity.VerificationCode{
		UserID:    user.ID,
		Type:      entity.PasswordReset,
		ExpiresAt: now.Add(s.config.passwordResetTTL()),
	}
	if err := s.codes.Create(ctx, code); err != nil {
		return err
	}

	if s.emailSender == nil {
		return ErrInternal
	}
	url := fmt.Sprintf("%s/password/reset?code=%s&exp=%d", s.config.AppOrigin, code.ID, code.ExpiresAt.UnixMilli())
	confirmationID, err := s.emailSender.SendPasswordResetEmail(ctx, user.Email, url)
	if err != nil {
		return err
	}
	if confirmationID == "" {
		return ErrInternal
	}
	return nil
}

func (s *VerificationService) ConfirmPasswordReset(ctx context.Context, codeID uuid.UUID, newPassword string) (*entity.User, error) {
	code, err := s.codes.FindValid(ctx, codeID, entity.PasswordReset, s.now())
	if err != nil {
		return nil, err
	}
	if code == nil {
		return nil, ErrCodeNotFound
	}

	user, err := s.users.FindByID(ctx, code.UserID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrInternal
	}

	hash, err := s.passwordHash.Hash(newPassword)
	if err != nil {
		return nil, err
	}
	user.PasswordHash = hash
	if err := s.users.Update(ctx, user); err != nil {
		return nil, err
	}

	if err := s.codes.Delete(ctx, code.ID); err != nil {
		return nil, err
	}

	// Changing the password logs the user out everywhere; pre-reset tokens
	// keep verifying cryptographically but no session remains to back them.
	if err := s.sessions.DeleteAllByUser(ctx, user.ID); err != nil {
		return nil, err
	}

	_ = s.logAudit(ctx, user.ID, entity.PasswordResetAction)
	return user, nil
}

func (s *VerificationService) logAudit(ctx context.Context, userID uuid.UUID, action entity.AuditAction) error {
	if s.auditLogs == nil {
		return nil
	}
	return s.auditLogs.Log(ctx, &entity.AuditLog{
		UserID: &userID,
		Action: action,
	})
}

func (s *VerificationService) now() time.Time {
	if s.clock == nil {
		return time.Now()
	}
	return s.clock.Now()
}
