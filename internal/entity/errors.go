package entity

import (
	"errors"
	"fmt"
)

var (
	// ErrPointerOnly is returned when a Registry is given anything but a pointer to a struct.
	ErrPointerOnly = errors.New("entity: only pointer to struct is supported")

	// ErrNoProperties is returned for a model without any property.
	ErrNoProperties = errors.New("entity: model has no properties")
)

func newErrInvalidTagContent(pair string) error {
	return fmt.Errorf("entity: invalid tag content %q", pair)
}

func newErrUnknownTagKey(key string) error {
	return fmt.Errorf("entity: unknown tag key %q", key)
}

func newErrUnknownPath(path string) error {
	return fmt.Errorf("entity: unknown property path %q", path)
}

func newErrDuplicatePath(path string) error {
	return fmt.Errorf("entity: duplicate property path %q", path)
}

func newErrDuplicateColumn(column string) error {
	return fmt.Errorf("entity: duplicate column %q", column)
}
