package service

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"unicode/utf8"

	"irrigation_console/internal/client"
	"irrigation_console/internal/logger"
	"irrigation_console/internal/models"
)

const minPasswordLen = 6

// syncLifecycle is the part of the scheduler tied to the session lifetime.
type syncLifecycle interface {
	Start(ctx context.Context)
	Cancel()
}

// PasswordChange is the change-password form.
type PasswordChange struct {
	OldPassword string `json:"old_password"`
	NewPassword string `json:"new_password"`
	Confirm     string `json:"confirm_password"`
}

// AuthService runs the login/logout/change-password actions against the
// session store.
type AuthService struct {
	backend  AuthBackend
	sessions *SessionStore
	sync     syncLifecycle
	log      *logger.Logger
}

func NewAuthService(backend AuthBackend, sessions *SessionStore, sync syncLifecycle, log *logger.Logger) *AuthService {
	return &AuthService{backend: backend, sessions: sessions, sync: sync, log: log}
}

// Login authenticates against the user or admin endpoint, binds the device id
// carried in a user token, commits the session and starts device sync.
// Rejections wrap ErrInvalidCredentials and keep the backend message
// reachable through client.Message.
func (a *AuthService) Login(ctx context.Context, username, password string, admin bool) (models.Session, error) {
	username = strings.TrimSpace(username)
	password = strings.TrimSpace(password)
	if username == "" || password == "" {
		return models.Session{}, ErrEmptyCredentials
	}

	res, err := a.backend.Login(ctx, username, password, admin)
	if err != nil {
		var se *client.StatusError
		if errors.As(err, &se) {
			a.log.Infow("login_rejected", "username", username, "admin", admin, "code", se.Code)
			return models.Session{}, fmt.Errorf("%w: %w", ErrInvalidCredentials, err)
		}
		a.log.Errorw("login_failed", "username", username, "err", err)
		return models.Session{}, fmt.Errorf("login: %w", err)
	}
	if !res.Success || res.Token == "" || res.User == nil {
		a.log.Infow("login_rejected", "username", username, "admin", admin, "message", res.Message)
		return models.Session{}, fmt.Errorf("%w: %w", ErrInvalidCredentials,
			&client.StatusError{Code: http.StatusOK, Message: res.Message})
	}

	var deviceID string
	if res.User.Role == models.RoleUser {
		id, err := DeviceIDFromToken(res.Token)
		if err != nil {
			a.log.Errorw("session_device_id_extract_failed", "username", username, "err", err)
		} else {
			deviceID = id
		}
	}

	sess, err := a.sessions.Login(res.Token, *res.User, deviceID)
	if err != nil {
		return models.Session{}, err
	}
	a.log.Infow("login_succeeded", "username", sess.User.Username, "role", sess.User.Role, "device_id", sess.DeviceID)

	if a.sync != nil {
		a.sync.Cancel()
		a.sync.Start(context.WithoutCancel(ctx))
	}
	return sess, nil
}

// Logout stops device sync and clears the session.
func (a *AuthService) Logout() {
	if a.sync != nil {
		a.sync.Cancel()
	}
	a.sessions.Logout()
	a.log.Infow("logout")
}

// ChangePassword validates the form locally and only then calls the backend.
func (a *AuthService) ChangePassword(ctx context.Context, p PasswordChange) error {
	if !a.sessions.IsAuthenticated() {
		return ErrNotAuthenticated
	}
	if p.OldPassword == "" || p.NewPassword == "" || p.Confirm == "" {
		return ErrEmptyPassword
	}
	if utf8.RuneCountInString(p.NewPassword) < minPasswordLen {
		return ErrWeakPassword
	}
	if p.NewPassword != p.Confirm {
		return ErrPasswordMismatch
	}
	if p.NewPassword == p.OldPassword {
		return ErrPasswordUnchanged
	}
	if err := a.backend.ChangePassword(ctx, p.OldPassword, p.NewPassword); err != nil {
		a.log.Warnw("password_change_failed", "err", err)
		return fmt.Errorf("change password: %w", err)
	}
	a.log.Infow("password_changed")
	return nil
}

// CurrentSession returns a copy of the session.
func (a *AuthService) CurrentSession() models.Session {
	return a.sessions.Session()
}
