package models

import "errors"

// Custom errors
var (
	ErrNotFound        = errors.New("record not found")
	ErrDuplicateKey    = errors.New("duplicate key violation")
	ErrInvalidResult   = errors.New("result must be pending, win, or loss")
	ErrTeamRequired    = errors.New("team name is required")
	ErrDateRequired    = errors.New("pick date is required")
)
