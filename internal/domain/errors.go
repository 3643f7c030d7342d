package domain

import (
	"errors"
	"fmt"
)

// Domain errors. Callers distinguish error kinds with errors.Is: validation
// failures wrap ErrValidation, and the incomplete-subtasks block on completion
// wraps ErrInvalidTransition so both checks match it.
var (
	ErrValidation         = errors.New("validation failed")
	ErrTitleTooShort      = fmt.Errorf("%w: title must be at least 3 characters", ErrValidation)
	ErrInvalidTransition  = errors.New("invalid status transition")
	ErrIncompleteSubtasks = fmt.Errorf("%w: cannot complete task with incomplete subtasks", ErrInvalidTransition)
	ErrTaskNotFound       = errors.New("task not found")
	ErrPermissionDenied   = errors.New("permission denied")
	ErrUnknownFactory     = fmt.Errorf("%w: unknown task factory", ErrValidation)
	ErrNotInitialized     = errors.New("task store not initialized")
)
