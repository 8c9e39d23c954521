package handlers

import (
	"errors"
	"net/http"

	"irrigation_console/internal/client"
	"irrigation_console/internal/service"

	"github.com/gin-gonic/gin"
)

// Common response/status strings.
const (
	statusOK = "ok"

	errNotLoggedIn     = "not logged in"
	errAdminOnly       = "admin role required"
	errBadCredentials  = "invalid username or password"
	errBackend         = "backend unavailable"
	errInvalidBodyPref = "invalid body: "
)

var validationErrors = []error{
	service.ErrEmptyCredentials,
	service.ErrEmptyPassword,
	service.ErrWeakPassword,
	service.ErrPasswordMismatch,
	service.ErrPasswordUnchanged,
	service.ErrInvalidCoordinates,
	service.ErrInvalidVolume,
	service.ErrInvalidUser,
}

// statusFor maps an action error to an HTTP status and a display message.
// Backend-provided messages win over generic text.
func statusFor(err error) (int, string) {
	for _, v := range validationErrors {
		if errors.Is(err, v) {
			return http.StatusBadRequest, err.Error()
		}
	}
	msg := client.Message(err)
	switch {
	case errors.Is(err, service.ErrInvalidCredentials):
		if msg == "" {
			msg = errBadCredentials
		}
		return http.StatusUnauthorized, msg
	case errors.Is(err, service.ErrNotAuthenticated), errors.Is(err, client.ErrUnauthorized):
		if msg == "" {
			msg = errNotLoggedIn
		}
		return http.StatusUnauthorized, msg
	case errors.Is(err, service.ErrNotAdmin):
		return http.StatusForbidden, errAdminOnly
	}
	if msg == "" {
		msg = errBackend
	}
	return http.StatusBadGateway, msg
}

// actionError logs err and writes the mapped JSON error.
func (h *Handler) actionError(c *gin.Context, logKey string, err error, kv ...interface{}) {
	code, msg := statusFor(err)
	if h.log != nil {
		fields := append([]interface{}{"err", err, "status", code, "request_id", c.GetString(ctxRequestID)}, kv...)
		if code >= http.StatusInternalServerError {
			h.log.Errorw(logKey, fields...)
		} else {
			h.log.Infow(logKey, fields...)
		}
	}
	c.JSON(code, gin.H{"error": msg})
}

// bindJSONOrBadRequest binds the request body into dst and writes a 400 JSON on failure.
// Returns false if the request was already handled.
func (h *Handler) bindJSONOrBadRequest(c *gin.Context, dst any) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		if h.log != nil {
			h.log.Infow("bad_request_body", "path", c.FullPath(), "err", err)
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": errInvalidBodyPref + err.Error()})
		return false
	}
	return true
}
