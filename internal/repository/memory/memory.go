// Package memory provides in-memory repository implementations used by the
// service and handler tests. The maps stand in for the database; entity
// values are copied on the way in and out so tests cannot share state with
// the store by accident.
package memory

import (
	"context"
	"sync"
	"time"

	"github.com/wdbprojects/instamart-backend/internal/entity"

	"github.com/google/uuid"
)

type UserRepository struct {
	mu    sync.Mutex
	users map[uuid.UUID]entity.User
}

func NewUserRepository() *UserRepository {
	return &UserRepository{users: make(map[uuid.UUID]entity.User)}
}

func (r *UserRepository) Create(_ context.Context, user *entity.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}
	if user.CreatedAt.IsZero() {
		user.CreatedAt = time.Now()
	}
	user.UpdatedAt = user.CreatedAt
	r.users[user.ID] = *user
	return nil
}

func (r *UserRepository) FindByID(_ context.Context, id uuid.UUID) (*entity.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	user, ok := r.users[id]
	if !ok {
		return nil, nil
	}
	return &user, nil
}

func (r *UserRepository) FindByEmail(_ context.Context, email string) (*entity.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, user := range r.users {
		if user.Email == email {
			found := user
			return &found, nil
		}
	}
	return nil, nil
}

func (r *UserRepository) Update(_ context.Context, user *entity.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	user.UpdatedAt = time.Now()
	r.users[user.ID] = *user
	return nil
}

func (r *UserRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	user, err := r.FindByEmail(ctx, email)
	return user != nil, err
}

func (r *UserRepository) Count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.users)
}

type SessionRepository struct {
	mu       sync.Mutex
	sessions map[uuid.UUID]entity.Session
}

func NewSessionRepository() *SessionRepository {
	return &SessionRepository{sessions: make(map[uuid.UUID]entity.Session)}
}

func (r *SessionRepository) Create(_ context.Context, session *entity.Session) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if session.ID == uuid.Nil {
		session.ID = uuid.New()
	}
	if session.CreatedAt.IsZero() {
		session.CreatedAt = time.Now()
	}
	r.sessions[session.ID] = *session
	return nil
}

func (r *SessionRepository) FindByID(_ context.Context, id uuid.UUID) (*entity.Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	session, ok := r.sessions[id]
	if !ok {
		return nil, nil
	}
	return &session, nil
}

func (r *SessionRepository) Update(_ context.Context, session *entity.Session) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sessions[session.ID] = *session
	return nil
}

func (r *SessionRepository) ListActiveByUser(_ context.Context, userID uuid.UUID, now time.Time) ([]entity.Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var active []entity.Session
	for _, session := range r.sessions {
		if session.UserID == userID && session.ExpiresAt.After(now) {
			active = append(active, session)
		}
	}
	return active, nil
}

func (r *SessionRepository) Delete(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.sessions, id)
	return nil
}

func (r *SessionRepository) DeleteByIDForUser(_ context.Context, id uuid.UUID, userID uuid.UUID) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	session, ok := r.sessions[id]
	if !ok || session.UserID != userID {
		return false, nil
	}
	delete(r.sessions, id)
	return true, nil
}

func (r *SessionRepository) DeleteAllByUser(_ context.Context, userID uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for id, session := range r.sessions {
		if session.UserID == userID {
			delete(r.sessions, id)
		}
	}
	return nil
}

func (r *SessionRepository) CountByUser(userID uuid.UUID) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	count := 0
	for _, session := range r.sessions {
		if session.UserID == userID {
			count++
		}
	}
	return count
}

type VerificationCodeRepository struct {
	mu    sync.Mutex
	codes map[uuid.UUID]entity.VerificationCode
}

func NewVerificationCodeRepository() *VerificationCodeRepository {
	return &VerificationCodeRepository{codes: make(map[uuid.UUID]entity.VerificationCode)}
}

func (r *VerificationCodeRepository) Create(_ context.Context, code *entity.VerificationCode) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if code.ID == uuid.Nil {
		code.ID = uuid.New()
	}
	if code.CreatedAt.IsZero() {
		code.CreatedAt = time.Now()
	}
	r.codes[code.ID] = *code
	return nil
}

func (r *VerificationCodeRepository) FindValid(
	_ context.Context,
	id uuid.UUID,
	codeType entity.VerificationCodeType,
	now time.Time,
) (*entity.VerificationCode, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	code, ok := r.codes[id]
	if !ok || code.Type != codeType || !code.ExpiresAt.After(now) {
		return nil, nil
	}
	return &code, nil
}

func (r *VerificationCodeRepository) Delete(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.codes, id)
	return nil
}

func (r *VerificationCodeRepository) CountRecentByUser(
	_ context.Context,
	userID uuid.UUID,
	codeType entity.VerificationCodeType,
	since time.Time,
) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var count int64
	for _, code := range r.codes {
		if code.UserID == userID && code.Type == codeType && code.CreatedAt.After(since) {
			count++
		}
	}
	return count, nil
}

func (r *VerificationCodeRepository) FindByUser(userID uuid.UUID, codeType entity.VerificationCodeType) *entity.VerificationCode {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, code := range r.codes {
		if code.UserID == userID && code.Type == codeType {
			found := code
			return &found
		}
	}
	return nil
}

type AuditLogRepository struct {
	mu   sync.Mutex
	logs []entity.AuditLog
}

func NewAuditLogRepository() *AuditLogRepository {
	return &AuditLogRepository{}
}

func (r *AuditLogRepository) Log(_ context.Context, log *entity.AuditLog) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if log.ID == uuid.Nil {
		log.ID = uuid.New()
	}
	r.logs = append(r.logs, *log)
	return nil
}

func (r *AuditLogRepository) Actions() []entity.AuditAction {
	r.mu.Lock()
	defer r.mu.Unlock()
	actions := make([]entity.AuditAction, 0, len(r.logs))
	for _, log := range r.logs {
		actions = append(actions, log.Action)
	}
	return actions
}
