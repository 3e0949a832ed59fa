package tools

import (
	"errors"
	"fmt"
)

// Tool registry errors.
var (
	// ErrToolNotFound is returned when a tool is not registered.
	ErrToolNotFound = errors.New("tool not found")

	// ErrToolNameEmpty is returned when a tool has no name.
	ErrToolNameEmpty = errors.New("tool name cannot be empty")

	// ErrToolExecuteNil is returned when a tool has no execute function.
	ErrToolExecuteNil = errors.New("tool execute function cannot be nil")

	// ErrToolAlreadyRegistered is returned when registering a duplicate.
	ErrToolAlreadyRegistered = errors.New("tool already registered")

	// ErrMissingRequiredArg is returned when a required argument is missing.
	ErrMissingRequiredArg = errors.New("missing required argument")

	// ErrInvalidArgType is returned when an argument has the wrong type.
	ErrInvalidArgType = errors.New("invalid argument type")
)

// Rejection is a precondition failure the caller should read verbatim,
// such as an index out of range or an unknown menu item.
type Rejection struct {
	Message string
}

func (r *Rejection) Error() string { return r.Message }

// Rejectf builds a Rejection with a formatted message.
func Rejectf(format string, args ...any) error {
	return &Rejection{Message: fmt.Sprintf(format, args...)}
}

// IsRejection reports whether err is a Rejection.
func IsRejection(err error) bool {
	var r *Rejection
	return errors.As(err, &r)
}
