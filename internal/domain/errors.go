package domain

import "errors"

// Sentinel errors shared across services and repositories.
// Repositories translate driver errors (sql.ErrNoRows, unique-constraint
// violations) into these; controllers map them onto HTTP statuses.
var (
	ErrNotFound         = errors.New("not found")
	ErrInvalidInput     = errors.New("invalid input")
	ErrExpired          = errors.New("event has already started")
	ErrAlreadyExists    = errors.New("already exists")
	ErrAlreadyMember    = errors.New("already a group member")
	ErrForbidden        = errors.New("forbidden")
	ErrConflict         = errors.New("conflicting concurrent update")
	ErrUserNotFound     = errors.New("user not found")
	ErrPhoneNotVerified = errors.New("phone number not verified")
)
