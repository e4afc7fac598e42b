package store

import (
	"database/sql"
	"errors"
	"fmt"
)

var (
	// ErrNotFound means nobody is logged in.
	ErrNotFound     = errors.New("not found")
	ErrInvalidInput = errors.New("invalid input")
)

func wrapNotFound(entity string, err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return notFound(entity)
	}
	return err
}

func notFound(entity string) error {
	return fmt.Errorf("no stored %s: %w", entity, ErrNotFound)
}
