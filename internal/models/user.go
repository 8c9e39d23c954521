package models

import "time"

// Roles issued by the backend.
const (
	RoleAdmin = "admin"
	RoleUser  = "user"
)

// User is the identity returned by the login endpoints.
type User struct {
	ID        int64     `json:"id"`
	Username  string    `json:"username"`
	Role      string    `json:"role"` // admin | user
	CreatedAt time.Time `json:"created_at,omitempty"`
	UpdatedAt time.Time `json:"updated_at,omitempty"`
}

// ManagedUser is a row of the admin user listing.
type ManagedUser struct {
	ID         int64  `json:"id"`
	Username   string `json:"username"`
	Role       string `json:"role"`
	DeviceID   string `json:"device_id,omitempty"`
	DeviceName string `json:"device_name,omitempty"`
}

// NewUserParams is the admin payload for creating a device owner.
type NewUserParams struct {
	Username   string `json:"username"`
	Password   string `json:"password"`
	DeviceID   string `json:"device_id"`
	DeviceName string `json:"device_name"`
}
