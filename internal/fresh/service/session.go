package service

import (
	"context"
	"errors"
	"time"

	"github.com/thedevsir/fresh/internal/fresh/domain"
	"github.com/thedevsir/fresh/internal/fresh/store"
	"github.com/thedevsir/fresh/pkg/cryptox"
	"github.com/thedevsir/fresh/pkg/idx"
)

// SessionService manages the server-side half of login credentials. A
// session is identified by id plus a random key; only the key's hash is
// persisted, so the plaintext key exists exactly once, in the Session value
// returned from Create.
type SessionService struct {
	Store store.Store
}

// Create mints a new session for userID. The returned Session carries the
// plaintext Key; it is never retrievable again.
func (s *SessionService) Create(ctx context.Context, userID, ip, userAgent string) (domain.Session, error) {
	key, hash, err := cryptox.GenerateKeyHash()
	if err != nil {
		return domain.Session{}, err
	}

	now := time.Now().UTC()
	sess := domain.Session{
		ID:         idx.New().String(),
		UserID:     userID,
		Key:        key,
		KeyHash:    hash,
		IP:         ip,
		UserAgent:  userAgent,
		CreatedAt:  now,
		LastActive: now,
	}
	if err := s.Store.Sessions().CreateSession(ctx, sess); err != nil {
		return domain.Session{}, err
	}
	return sess, nil
}

// FindByCredentials resolves a session by id and proves possession of its
// key. Unknown ids and wrong keys are indistinguishable to the caller; both
// surface as ErrInvalidCredentials.
func (s *SessionService) FindByCredentials(ctx context.Context, id, key string) (domain.Session, error) {
	sess, err := s.Store.Sessions().GetSessionByID(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.Session{}, ErrInvalidCredentials
		}
		return domain.Session{}, err
	}

	if cryptox.VerifyPassword(key, sess.KeyHash) != nil {
		return domain.Session{}, ErrInvalidCredentials
	}
	return sess, nil
}

// TouchLastActive stamps the session as just used.
func (s *SessionService) TouchLastActive(ctx context.Context, id string) error {
	return s.Store.Sessions().UpdateLastActive(ctx, id, time.Now().UTC())
}

// ListForUser returns the user's live sessions, newest first.
func (s *SessionService) ListForUser(ctx context.Context, userID string) ([]domain.Session, error) {
	return s.Store.Sessions().ListUserSessions(ctx, userID)
}

// DeleteByID revokes a single session.
func (s *SessionService) DeleteByID(ctx context.Context, id string) error {
	return s.Store.Sessions().DeleteSession(ctx, id)
}

// DeleteOwnedByID revokes a session only when it belongs to userID, so one
// user cannot revoke another's session by guessing ids.
func (s *SessionService) DeleteOwnedByID(ctx context.Context, id, userID string) error {
	return s.Store.Sessions().DeleteUserSession(ctx, id, userID)
}

// DeleteAllForUser revokes every session the user holds.
func (s *SessionService) DeleteAllForUser(ctx context.Context, userID string) error {
	return s.Store.Sessions().DeleteUserSessions(ctx, userID)
}
