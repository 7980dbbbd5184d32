package repository

import "errors"

// Sentinel kinds for session store errors.
var (
	ErrNotFound = errors.New("view not found")
	ErrExists   = errors.New("view already exists")
)
