package sidebar

import (
	"errors"
	"fmt"
)

// ErrInvalidInput is returned by Build when the payload has no root category.
var ErrInvalidInput = errors.New("invalid input")

// IndexOutOfRangeError is returned by position queries outside [0, Count).
type IndexOutOfRangeError struct {
	Position int
	Count    int
}

func (e *IndexOutOfRangeError) Error() string {
	return fmt.Sprintf("position %d out of range [0, %d)", e.Position, e.Count)
}
