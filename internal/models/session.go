package models

// Session is the authenticated identity and bound device held by the client.
// Token and User are set and cleared together.
type Session struct {
	Token    string `json:"-"`
	User     *User  `json:"user,omitempty"`
	DeviceID string `json:"device_id,omitempty"`
}

// IsAuthenticated reports whether both token and user are present.
func (s Session) IsAuthenticated() bool {
	return s.Token != "" && s.User != nil
}

// IsAdmin reports whether the session user has the admin role.
func (s Session) IsAdmin() bool {
	return s.User != nil && s.User.Role == RoleAdmin
}
