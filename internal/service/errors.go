package service

import (
	"errors"

	"github.com/fentz26/taskkeep/internal/lifecycle"
)

// Sentinel errors for service operations.
var (
	ErrNotFound  = errors.New("resource not found")
	ErrDuplicate = errors.New("email already in use")

	ErrLocked            = lifecycle.ErrLocked
	ErrIllegalTransition = lifecycle.ErrIllegalTransition
)
