package service

import "errors"

var (
	ErrEmailInUse         = errors.New("email already in use")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrInvalidToken       = errors.New("invalid refresh token")
	ErrSessionExpired     = errors.New("session expired")
	ErrInvalidCode        = errors.New("invalid or expired verification code")
	ErrCodeNotFound       = errors.New("verification code not found")
	ErrUserNotFound       = errors.New("user not found")
	ErrSessionNotFound    = errors.New("session not found")
	ErrTooManyRequests    = errors.New("too many requests, try again later")
	ErrInternal           = errors.New("internal server error")
)
