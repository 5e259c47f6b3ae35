package commands

import (
	"errors"
	"fmt"
	"io"

	"duelist/internal/exitcode"
	"duelist/internal/store"
)

// reportError prints err and returns the matching exit code.
// Validation failures are user errors; anything else came from storage.
func reportError(errOut io.Writer, err error) int {
	switch {
	case errors.Is(err, store.ErrTextRequired),
		errors.Is(err, store.ErrDueDateRequired),
		errors.Is(err, store.ErrInvalidDueDate),
		errors.Is(err, store.ErrInvalidCollection):
		fmt.Fprintf(errOut, "error: %v\n", err)
		return exitcode.UserError
	default:
		fmt.Fprintf(errOut, "error: storage error: %v\n", err)
		return exitcode.BackendError
	}
}
