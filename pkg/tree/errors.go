package tree

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound              = errors.New("node not found")
	ErrDuplicateID           = errors.New("duplicate node id")
	ErrNotContainer          = errors.New("node cannot hold children")
	ErrInvalidMove           = errors.New("invalid move")
	ErrDestructiveConversion = errors.New("conversion discards children")
	ErrInvalidKind           = errors.New("invalid node kind")
)

// NotFoundError names the id that could not be located.
type NotFoundError struct {
	ID string
}

func (e NotFoundError) Error() string {
	return fmt.Sprintf("node not found: %s", e.ID)
}

func (e NotFoundError) Is(target error) bool {
	return target == ErrNotFound
}
