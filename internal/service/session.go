package service

import (
	"encoding/json"
	"errors"
	"sync"

	"irrigation_console/internal/logger"
	"irrigation_console/internal/models"
	"irrigation_console/internal/repository"
)

// Persisted session keys.
const (
	keyAuthToken = "auth_token"
	keyAuthUser  = "auth_user"
	keyDeviceID  = "device_id"
)

// SessionStore owns the authenticated session and its persisted copy. It is
// created once by the composition root and handed to every consumer.
type SessionStore struct {
	kv              repository.KVStore
	defaultDeviceID string
	log             *logger.Logger

	mu      sync.RWMutex
	session models.Session
}

// NewSessionStore returns an unauthenticated store. Call Restore to load the
// persisted session.
func NewSessionStore(kv repository.KVStore, defaultDeviceID string, log *logger.Logger) *SessionStore {
	return &SessionStore{kv: kv, defaultDeviceID: defaultDeviceID, log: log}
}

// Restore loads the persisted session. Unreadable or partial state degrades to
// logged-out; a corrupted user record purges all session keys.
func (s *SessionStore) Restore() models.Session {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.session = models.Session{}

	token, hasToken, err := s.kv.Get(keyAuthToken)
	if err != nil {
		s.log.Errorw("session_restore_failed", "key", keyAuthToken, "err", err)
		return s.session
	}
	rawUser, hasUser, err := s.kv.Get(keyAuthUser)
	if err != nil {
		s.log.Errorw("session_restore_failed", "key", keyAuthUser, "err", err)
		return s.session
	}
	deviceID, _, err := s.kv.Get(keyDeviceID)
	if err != nil {
		s.log.Warnw("session_device_id_unreadable", "err", err)
		deviceID = ""
	}

	if !hasToken && !hasUser {
		s.log.Infow("session_restore_empty")
		return s.session
	}
	if !hasToken || !hasUser || token == "" {
		s.log.Warnw("session_restore_partial", "has_token", hasToken, "has_user", hasUser)
		s.purgeLocked()
		return s.session
	}

	user, err := decodeUser(rawUser)
	if err != nil {
		s.log.Errorw("session_user_corrupted", "err", err)
		s.purgeLocked()
		return s.session
	}

	s.session = models.Session{Token: token, User: user, DeviceID: deviceID}
	s.log.Infow("session_restored", "username", user.Username, "role", user.Role, "device_id", deviceID)
	return s.copyLocked()
}

func decodeUser(raw string) (*models.User, error) {
	var u *models.User
	if err := json.Unmarshal([]byte(raw), &u); err != nil {
		return nil, err
	}
	if u == nil {
		return nil, errors.New("user record is null")
	}
	return u, nil
}

// Login commits a freshly issued session and persists it. An empty deviceID
// leaves the session unbound and is not persisted.
func (s *SessionStore) Login(token string, user models.User, deviceID string) (models.Session, error) {
	if token == "" {
		return models.Session{}, ErrNotAuthenticated
	}
	rawUser, err := json.Marshal(user)
	if err != nil {
		return models.Session{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.session = models.Session{Token: token, User: &user, DeviceID: deviceID}

	s.persist(keyAuthToken, token)
	s.persist(keyAuthUser, string(rawUser))
	if deviceID != "" {
		s.persist(keyDeviceID, deviceID)
	}
	return s.copyLocked(), nil
}

// Logout clears the session and all persisted session keys.
func (s *SessionStore) Logout() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.session = models.Session{}
	s.purgeLocked()
}

// Session returns a copy of the current session.
func (s *SessionStore) Session() models.Session {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.copyLocked()
}

// Token implements client.TokenSource.
func (s *SessionStore) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.session.Token
}

// DeviceID returns the bound device, or the configured default.
func (s *SessionStore) DeviceID() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.session.DeviceID != "" {
		return s.session.DeviceID
	}
	return s.defaultDeviceID
}

func (s *SessionStore) IsAuthenticated() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.session.IsAuthenticated()
}

func (s *SessionStore) IsAdmin() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.session.IsAdmin()
}

func (s *SessionStore) copyLocked() models.Session {
	out := s.session
	if out.User != nil {
		u := *out.User
		out.User = &u
	}
	return out
}

func (s *SessionStore) persist(key, value string) {
	if err := s.kv.Set(key, value); err != nil {
		s.log.Errorw("session_persist_failed", "key", key, "err", err)
	}
}

func (s *SessionStore) purgeLocked() {
	for _, k := range []string{keyAuthToken, keyAuthUser, keyDeviceID} {
		if err := s.kv.Remove(k); err != nil {
			s.log.Errorw("session_purge_failed", "key", k, "err", err)
		}
	}
}
