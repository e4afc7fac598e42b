package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/tengjizhang/drawer/internal/remote"
	"github.com/tengjizhang/drawer/internal/sidebar"
	"github.com/tengjizhang/drawer/internal/store"
)

const (
	exitInvalidInput = 2
	exitNotFound     = 3
	exitInternal     = 1
)

// errInvalidFlag marks bad flag or argument values.
var errInvalidFlag = errors.New("invalid argument")

func isInvalidInput(err error) bool {
	var rangeErr *sidebar.IndexOutOfRangeError
	return errors.Is(err, errInvalidFlag) ||
		errors.Is(err, sidebar.ErrInvalidInput) ||
		errors.Is(err, store.ErrInvalidInput) ||
		errors.As(err, &rangeErr)
}

func ErrorExitCode(err error) int {
	switch {
	case err == nil:
		return 0
	case isInvalidInput(err):
		return exitInvalidInput
	case errors.Is(err, store.ErrNotFound):
		return exitNotFound
	default:
		return exitInternal
	}
}

func FormatError(err error) string {
	if err == nil {
		return ""
	}
	switch {
	case isInvalidInput(err):
		return fmt.Sprintf("Error [invalid-input]: %v", err)
	case errors.Is(err, store.ErrNotFound):
		return fmt.Sprintf("Error [not-found]: %v", err)
	case errors.Is(err, remote.ErrUnauthorized):
		return fmt.Sprintf("Error [unauthorized]: %v", err)
	default:
		return fmt.Sprintf("Error [internal]: %v", err)
	}
}

func PrintError(err error) {
	if err == nil {
		return
	}
	fmt.Fprintln(os.Stderr, FormatError(err))
}
