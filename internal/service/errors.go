package service

import (
	"errors"

	"github.com/costmanagement/backend/internal/repository"
)

var (
	// ErrInvalidInput covers missing or malformed fields, empty required
	// arrays and duplicate names.
	ErrInvalidInput = errors.New("invalid input")
	// ErrNotFound is returned when a referenced record does not exist.
	ErrNotFound = repository.ErrNotFound
	// ErrConflict is returned for duplicates the operation explicitly disallows.
	ErrConflict = errors.New("conflict")
)
