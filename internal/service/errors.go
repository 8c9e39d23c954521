package service

import "errors"

// Action errors surfaced to the UI layer. Read paths never return these; they
// degrade to fallback values instead.
var (
	ErrEmptyCredentials   = errors.New("username and password are required")
	ErrInvalidCredentials = errors.New("login rejected")
	ErrNotAuthenticated   = errors.New("not authenticated")
	ErrNotAdmin           = errors.New("admin role required")

	ErrEmptyPassword     = errors.New("all password fields are required")
	ErrWeakPassword      = errors.New("new password must be at least 6 characters")
	ErrPasswordMismatch  = errors.New("new password and confirmation do not match")
	ErrPasswordUnchanged = errors.New("new password must differ from the old one")

	ErrInvalidCoordinates = errors.New("invalid coordinates")
	ErrInvalidVolume      = errors.New("irrigation volume must be in (0, 5] litres")
	ErrInvalidUser        = errors.New("username, password and device id are required")
)
