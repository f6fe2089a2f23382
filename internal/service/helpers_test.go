package service

import (
	"context"
	"sync"
	"time"

	"github.com/wdbprojects/instamart-backend/internal/repository/memory"

	"golang.org/x/crypto/bcrypt"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Now()}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

type stubEmailSender struct {
	mu             sync.Mutex
	verificationTo []string
	resetURLs      []string
	confirmationID string
	err            error
}

func newStubEmailSender() *stubEmailSender {
	return &stubEmailSender{confirmationID: "email-1"}
}

func (s *stubEmailSender) SendVerificationEmail(_ context.Context, email string, _ string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.verificationTo = append(s.verificationTo, email)
	return s.confirmationID, s.err
}

func (s *stubEmailSender) SendPasswordResetEmail(_ context.Context, _ string, url string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.resetURLs = append(s.resetURLs, url)
	return s.confirmationID, s.err
}

type testEnv struct {
	users    *memory.UserRepository
	sessions *memory.SessionRepository
	codes    *memory.VerificationCodeRepository
	audit    *memory.AuditLogRepository
	email    *stubEmailSender
	clock    *fakeClock
	config   AuthConfig

	auth         *AuthService
	verification *VerificationService
}

func newTestEnv() *testEnv {
	env := &testEnv{
		users:    memory.NewUserRepository(),
		sessions: memory.NewSessionRepository(),
		codes:    memory.NewVerificationCodeRepository(),
		audit:    memory.NewAuditLogRepository(),
		email:    newStubEmailSender(),
		clock:    newFakeClock(),
		config: AuthConfig{
			AccessTokenSecret:  []byte("test-access-secret"),
			RefreshTokenSecret: []byte("test-refresh-secret"),
			AppOrigin:          "https://app.example.com",
		},
	}
	hasher := BcryptPasswordHasher{Cost: bcrypt.MinCost}
	env.auth = NewAuthService(env.users, env.sessions, env.codes, env.audit, env.email, hasher, env.clock, env.config)
	env.verification = NewVerificationService(env.users, env.sessions, env.codes, env.audit, env.email, hasher, env.clock, env.config)
	return env
}

func registerInput() RegisterInput {
	return RegisterInput{
		FirstName: "Alice",
		LastName:  "Smith",
		Email:     "a@x.com",
		Password:  "password1",
		UserAgent: "test-agent",
	}
}
