package domain

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound         = errors.New("project not found")
	ErrInvalidProject   = errors.New("invalid project")
	ErrDemoLimitReached = errors.New("demo project limit reached")
)

func invalid(msg string) error {
	return fmt.Errorf("%w: %s", ErrInvalidProject, msg)
}
