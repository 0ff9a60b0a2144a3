package services

import "errors"

var (
	ErrUsernameTaken      = errors.New("username already taken")
	ErrEmailTaken         = errors.New("email already taken")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrNotFound           = errors.New("not found")
	ErrNotOwner           = errors.New("not the owner")
	ErrSelfAction         = errors.New("cannot target yourself")
	ErrEmptyText          = errors.New("message text required")
)
