package credentialstore

import (
	"context"
	"errors"

	"github.com/deploymenttheory/go-api-auth-interceptor/logger"
	"go.uber.org/zap"
)

// Store reads and writes the session through a Storage backend.
// None of its methods fail observably; backend errors are logged and read as "absent".
type Store struct {
	storage Storage
	log     logger.Logger
}

// NewStore returns a Store over storage. A nil storage selects a fresh MemoryStorage.
func NewStore(storage Storage, log logger.Logger) *Store {
	if storage == nil {
		storage = NewMemoryStorage()
	}
	if log == nil {
		log = logger.NewNopLogger()
	}
	return &Store{storage: storage, log: log}
}

// Storage exposes the backend, for callers that need raw access.
func (s *Store) Storage() Storage {
	return s.storage
}

func (s *Store) get(ctx context.Context, key string) (string, bool) {
	value, err := s.storage.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, ErrKeyNotFound) {
			s.log.Warn("Credential storage read failed", zap.String("key", key), zap.Error(err))
		}
		return "", false
	}
	return value, value != ""
}

func (s *Store) set(ctx context.Context, key, value string) {
	if err := s.storage.Set(ctx, key, value); err != nil {
		s.log.Warn("Credential storage write failed", zap.String("key", key), zap.Error(err))
	}
}

func (s *Store) remove(ctx context.Context, key string) {
	if err := s.storage.Remove(ctx, key); err != nil {
		s.log.Warn("Credential storage remove failed", zap.String("key", key), zap.Error(err))
	}
}

// GetToken returns the stored session token.
func (s *Store) GetToken(ctx context.Context) (string, bool) {
	return s.get(ctx, TokenKey)
}

// GetRole returns the stored role.
func (s *Store) GetRole(ctx context.Context) (string, bool) {
	return s.get(ctx, RoleKey)
}

// SetSession writes the token, and the role when one is given.
func (s *Store) SetSession(ctx context.Context, token, role string) {
	s.set(ctx, TokenKey, token)
	if role != "" {
		s.set(ctx, RoleKey, role)
	}
}

// ClearSession removes the token and role keys and nothing else.
func (s *Store) ClearSession(ctx context.Context) {
	s.remove(ctx, TokenKey)
	s.remove(ctx, RoleKey)
}

// ClearAll wipes the whole backend, including data this package does not own.
func (s *Store) ClearAll(ctx context.Context) {
	if err := s.storage.Clear(ctx); err != nil {
		s.log.Warn("Credential storage clear failed", zap.Error(err))
	}
}

// SetExpiredMessage stores the one-time message shown on the login page. Empty messages are ignored.
func (s *Store) SetExpiredMessage(ctx context.Context, message string) {
	if message == "" {
		return
	}
	s.set(ctx, ExpiredMessageKey, message)
}

// ClearExpiredMessage removes any pending session-expired message.
func (s *Store) ClearExpiredMessage(ctx context.Context) {
	s.remove(ctx, ExpiredMessageKey)
}

// TakeExpiredMessage reads and removes the session-expired message, the way the login page consumes it.
func (s *Store) TakeExpiredMessage(ctx context.Context) (string, bool) {
	message, ok := s.get(ctx, ExpiredMessageKey)
	if ok {
		s.remove(ctx, ExpiredMessageKey)
	}
	return message, ok
}
