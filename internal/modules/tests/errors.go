package tests

import "errors"

var (
	ErrValidation    = errors.New("validation error")
	ErrTestNotFound  = errors.New("test not found")
	ErrForbidden     = errors.New("forbidden")
	ErrUserNotFound  = errors.New("user not found")
	ErrCodeExhausted = errors.New("could not allocate a unique access code")
)
