package service

import (
	"context"
	"strings"

	"irrigation_console/internal/models"
)

// adminGuard reports whether the current session holds the admin role.
type adminGuard interface {
	IsAdmin() bool
}

// AdminService manages device owners. Every call requires an admin session.
type AdminService struct {
	backend AdminBackend
	guard   adminGuard
}

func NewAdminService(backend AdminBackend, guard adminGuard) *AdminService {
	return &AdminService{backend: backend, guard: guard}
}

func (s *AdminService) ListUsers(ctx context.Context) ([]models.ManagedUser, error) {
	if !s.guard.IsAdmin() {
		return nil, ErrNotAdmin
	}
	return s.backend.ListUsers(ctx)
}

func (s *AdminService) CreateUser(ctx context.Context, p models.NewUserParams) (models.ManagedUser, error) {
	if !s.guard.IsAdmin() {
		return models.ManagedUser{}, ErrNotAdmin
	}
	p.Username = strings.TrimSpace(p.Username)
	p.DeviceID = strings.TrimSpace(p.DeviceID)
	p.DeviceName = strings.TrimSpace(p.DeviceName)
	if p.Username == "" || p.Password == "" || p.DeviceID == "" {
		return models.ManagedUser{}, ErrInvalidUser
	}
	return s.backend.CreateUser(ctx, p)
}

func (s *AdminService) DeleteUser(ctx context.Context, id int64) error {
	if !s.guard.IsAdmin() {
		return ErrNotAdmin
	}
	return s.backend.DeleteUser(ctx, id)
}
