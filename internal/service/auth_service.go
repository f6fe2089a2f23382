package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/wdbprojects/instamart-backend/internal/entity"
	"github.com/wdbprojects/instamart-backend/internal/repository"
	"github.com/wdbprojects/instamart-backend/internal/utils"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

const dummyPasswordHash = "$2a$10$CwTycUXWue0Thq9StjUM0uJ8yQbWc1x9uxw2sQ2sXUNx5x9xJ9F2S"

// AuthService drives the session lifecycle: registration, login, token
// refresh and logout. Sessions live in the store; tokens are stateless
// proofs, so a cryptographically valid token whose session row is gone
// must be rejected.
type AuthService struct {
	users     repository.UserRepository
	sessions  repository.SessionRepository
	codes     repository.VerificationCodeRepository
	auditLogs repository.AuditLogRepository

	emailSender  EmailSender
	passwordHash PasswordHasher
	clock        Clock
	config       AuthConfig
}

func NewAuthService(
	users repository.UserRepository,
	sessions repository.SessionRepository,
	codes repository.VerificationCodeRepository,
	auditLogs repository.AuditLogRepository,
	emailSender EmailSender,
	passwordHash PasswordHasher,
	clock Clock,
	config AuthConfig,
) *AuthService {
	return &AuthService{
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

func (s *AuthService) Register(ctx context.Context, input RegisterInput) (*AuthResult, error) {
	// Pre-check only; the unique index on email is the real backstop
	// against two registrations racing at the store level.
	exists, err := s.users.ExistsByEmail(ctx, input.Email)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrEmailInUse
	}

	hash, err := s.passwordHash.Hash(input.Password)
	if err != nil {
		return nil, err
	}

	user := &entity.User{
		FirstName:    input.FirstName,
		LastName:     input.LastName,
		Email:        input.Email,
		PasswordHash: hash,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}

	now := s.now()
	code := &entity.VerificationCode{
		UserID:    user.ID,
		Type:      entity.EmailVerification,
		ExpiresAt: now.Add(s.config.emailVerificationTTL()),
	}
	if err := s.codes.Create(ctx, code); err != nil {
		return nil, err
	}

	// Delivery is best-effort: a registration must not fail because the
	// mail provider is down.
	if s.emailSender != nil {
		url := fmt.Sprintf("%s/auth/email/verify/%s", s.config.AppOrigin, code.ID)
		_, _ = s.emailSender.SendVerificationEmail(ctx, user.Email, url)
	}

	result, err := s.createSessionAndTokens(ctx, user, input.UserAgent)
	if err != nil {
		return nil, err
	}

	_ = s.logAudit(ctx, &user.ID, input.IPAddress, entity.Registered, nil)
	return result, nil
}

func (s *AuthService) Login(ctx context.Context, input LoginInput) (*AuthResult, error) {
	user, err := s.users.FindByEmail(ctx, input.Email)
	if err != nil {
		return nil, err
	}
	if user == nil {
		_ = s.passwordHash.Verify(dummyPasswordHash, input.Password)
		_ = s.logAudit(ctx, nil, input.IPAddress, entity.LoginFailed, map[string]any{"email": input.Email})
		return nil, ErrInvalidCredentials
	}

	if !s.passwordHash.Verify(user.PasswordHash, input.Password) {
		_ = s.logAudit(ctx, &user.ID, input.IPAddress, entity.LoginFailed, map[string]any{"email": input.Email})
		return nil, ErrInvalidCredentials
	}

	// Every login is a new session row; sessions are never deduplicated
	// per user or user agent.
	result, err := s.createSessionAndTokens(ctx, user, input.UserAgent)
	if err != nil {
		return nil, err
	}

	_ = s.logAudit(ctx, &user.ID, input.IPAddress, entity.LoginSuccess, nil)
	return result, nil
}

func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (*RefreshResult, error) {
	claims, err := utils.VerifyToken(refreshToken, s.refreshSignOptions())
	if err != nil {
		if claims != nil {
			// The token outlived its session budget; drop the session so
			// the stale record does not linger until its own expiry.
			if sessionID, parseErr := uuid.Parse(claims.SessionID); parseErr == nil {
				_ = s.sessions.Delete(ctx, sessionID)
			}
		}
		return nil, ErrInvalidToken
	}

	sessionID, err := uuid.Parse(claims.SessionID)
	if err != nil {
		return nil, ErrInvalidToken
	}

	session, err := s.sessions.FindByID(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	now := s.now()
	if session == nil || !session.Active(now) {
		return nil, ErrSessionExpired
	}

	// Sliding expiry: extend the session and rotate the refresh token only
	// when it would otherwise expire within the threshold.
	var newRefreshToken string
	if session.ExpiresAt.Sub(now) <= s.config.sessionRefreshThreshold() {
		session.ExpiresAt = now.Add(s.config.sessionTTL())
		if err := s.sessions.Update(ctx, session); err != nil {
			return nil, err
		}
		newRefreshToken, err = utils.SignToken("", session.ID.String(), now, s.refreshSignOptions())
		if err != nil {
			return nil, err
		}
	}

	accessToken, err := utils.SignToken(session.UserID.String(), session.ID.String(), now, s.accessSignOptions())
	if err != nil {
		return nil, err
	}

	return &RefreshResult{
		AccessToken:  accessToken,
		RefreshToken: newRefreshToken,
	}, nil
}

// Logout deletes the session named by the access token. It is deliberately
// best-effort: a missing or invalid token still reports success, since
// clearing the client's cookies is the only guaranteed effect.
func (s *AuthService) Logout(ctx context.Context, accessToken string, ipAddress *string) error {
	claims, err := utils.VerifyToken(accessToken, s.accessSignOptions())
	if err != nil || claims == nil {
		return nil
	}
	sessionID, err := uuid.Parse(claims.SessionID)
	if err != nil {
		return nil
	}
	_ = s.sessions.Delete(ctx, sessionID)

	if userID, err := uuid.Parse(claims.UserID); err == nil {
		_ = s.logAudit(ctx, &userID, ipAddress, entity.Logout, nil)
	}
	return nil
}

func (s *AuthService) GetCurrentUser(ctx context.Context, userID uuid.UUID) (*entity.User, error) {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}
	return user, nil
}

func (s *AuthService) ListSessions(ctx context.Context, userID uuid.UUID) ([]entity.Session, error) {
	return s.sessions.ListActiveByUser(ctx, userID, s.now())
}

func (s *AuthService) RevokeSession(ctx context.Context, userID uuid.UUID, sessionID uuid.UUID, ipAddress *string) error {
	deleted, err := s.sessions.DeleteByIDForUser(ctx, sessionID, userID)
	if err != nil {
		return err
	}
	if !deleted {
		return ErrSessionNotFound
	}
	_ = s.logAudit(ctx, &userID, ipAddress, entity.SessionRevoked, map[string]any{"sessionId": sessionID.String()})
	return nil
}

func (s *AuthService) createSessionAndTokens(ctx context.Context, user *entity.User, userAgent string) (*AuthResult, error) {
	now := s.now()
	session := &entity.Session{
		UserID:    user.ID,
		UserAgent: userAgent,
		ExpiresAt: now.Add(s.config.sessionTTL()),
	}
	if err := s.sessions.Create(ctx, session); err != nil {
		return nil, err
	}

	refreshToken, err := utils.SignToken("", session.ID.String(), now, s.refreshSignOptions())
	if err != nil {
		return nil, err
	}
	accessToken, err := utils.SignToken(user.ID.String(), session.ID.String(), now, s.accessSignOptions())
	if err != nil {
		return nil, err
	}

	return &AuthResult{
		User:         user,
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
	}, nil
}

func (s *AuthService) accessSignOptions() utils.SignOptions {
	return utils.SignOptions{
		Secret:    s.config.AccessTokenSecret,
		ExpiresIn: s.config.accessTokenTTL(),
		Audience:  utils.TokenAudience,
	}
}

func (s *AuthService) refreshSignOptions() utils.SignOptions {
	return utils.SignOptions{
		Secret:    s.config.RefreshTokenSecret,
		ExpiresIn: s.config.refreshTokenTTL(),
		Audience:  utils.TokenAudience,
	}
}

func (s *AuthService) logAudit(
	ctx context.Context,
	userID *uuid.UUID,
	ipAddress *string,
	action entity.AuditAction,
	metadata map[string]any,
) error {
	if s.auditLogs == nil {
		return nil
	}
	var payload datatypes.JSON
	if metadata != nil {
		bytes, err := json.Marshal(metadata)
		if err != nil {
			return err
		}
		payload = datatypes.JSON(bytes)
	}

	log := &entity.AuditLog{
		UserID:    userID,
		IPAddress: ipAddress,
		Action:    action,
		Metadata:  payload,
	}
	return s.auditLogs.Log(ctx, log)
}

func (s *AuthService) now() time.Time {
	if s.clock == nil {
		return time.Now()
	}
	return s.clock.Now()
}
