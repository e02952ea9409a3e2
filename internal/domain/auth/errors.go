package auth

import "errors"

// User errors
var (
	ErrUserNotFound = errors.New("user not found")
	ErrUserExists   = errors.New("username already taken")
	ErrNoUsers      = errors.New("no users found")
	ErrInvalidName  = errors.New("invalid username")
)

// Credential errors
var (
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrWeakPassword       = errors.New("password must be at least 8 characters")
	ErrInvalidToken       = errors.New("invalid token")
)
