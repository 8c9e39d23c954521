package client

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"irrigation_console/internal/models"
)

// ListUsers returns all users (admin only).
func (c *Client) ListUsers(ctx context.Context) ([]models.ManagedUser, error) {
	var res struct {
		envelope
		Users []models.ManagedUser `json:"users"`
	}
	if err := c.getJSON(ctx, "/admin/users", nil, &res); err != nil {
		return nil, err
	}
	if res.Success != nil && !*res.Success {
		return nil, &StatusError{Code: http.StatusOK, Message: res.Message}
	}
	if res.Users == nil {
		res.Users = []models.ManagedUser{}
	}
	return res.Users, nil
}

// CreateUser creates a device owner bound to p.DeviceID (admin only).
func (c *Client) CreateUser(ctx context.Context, p models.NewUserParams) (models.ManagedUser, error) {
	var res struct {
		envelope
		User *models.ManagedUser `json:"user"`
	}
	if err := c.sendJSON(ctx, http.MethodPost, "/admin/users", nil, p, &res); err != nil {
		return models.ManagedUser{}, err
	}
	if res.Success != nil && !*res.Success {
		return models.ManagedUser{}, &StatusError{Code: http.StatusOK, Message: res.Message}
	}
	if res.User == nil {
		return models.ManagedUser{Username: p.Username, Role: models.RoleUser, DeviceID: p.DeviceID, DeviceName: p.DeviceName}, nil
	}
	return *res.User, nil
}

// DeleteUser removes a user by id (admin only).
func (c *Client) DeleteUser(ctx context.Context, id int64) error {
	return c.action(ctx, http.MethodDelete, "/admin/users/"+url.PathEscape(strconv.FormatInt(id, 10)), nil, nil)
}
