package client

import (
	"context"
	"net/http"

	"irrigation_console/internal/models"
)

type credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// LoginResult is the decoded login reply.
type LoginResult struct {
	Success bool         `json:"success"`
	Token   string       `json:"token"`
	User    *models.User `json:"user"`
	Message string       `json:"message"`
}

// Login posts credentials to the user or admin login endpoint. A non-2xx reply
// is returned as *StatusError carrying the backend message.
func (c *Client) Login(ctx context.Context, username, password string, admin bool) (LoginResult, error) {
	path := "/auth/login"
	if admin {
		path = "/auth/admin/login"
	}
	var res LoginResult
	if err := c.sendJSON(ctx, http.MethodPost, path, nil, credentials{Username: username, Password: password}, &res); err != nil {
		return LoginResult{}, err
	}
	return res, nil
}

type changePasswordRequest struct {
	OldPassword string `json:"old_password"`
	NewPassword string `json:"new_password"`
}

// ChangePassword changes the current user's password.
func (c *Client) ChangePassword(ctx context.Context, oldPassword, newPassword string) error {
	return c.action(ctx, http.MethodPost, "/user/change-password", nil, changePasswordRequest{
		OldPassword: oldPassword,
		NewPassword: newPassword,
	})
}
