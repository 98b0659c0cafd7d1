package services

import "errors"

var (
	ErrUsernameTaken         = errors.New("username already exists")
	ErrInvalidCredentials    = errors.New("invalid username or password")
	ErrUserNotFound          = errors.New("user not found")
	ErrPortfolioNotPublished = errors.New("portfolio has not been reviewed by an administrator yet")
)
