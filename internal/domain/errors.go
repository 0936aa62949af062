package domain

import "errors"

var (
	ErrUserNotFound   = errors.New("user not found")
	ErrPresetNotFound = errors.New("preset not found")
	ErrSecretNotFound = errors.New("secret not found")
)
