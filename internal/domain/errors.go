package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrEmptyInput is returned when a message is empty after trimming.
	ErrEmptyInput = errors.New("empty input")

	// ErrServiceUnavailable matches every ServiceError.
	ErrServiceUnavailable = errors.New("service unavailable")
)

// ServiceError reports a failure of a backing component (encoder, index,
// knowledge base) as opposed to a problem with the user's input.
type ServiceError struct {
	Component string
	Err       error
}

func (e *ServiceError) Error() string {
	return fmt.Sprintf("%s unavailable: %v", e.Component, e.Err)
}

func (e *ServiceError) Unwrap() error {
	return e.Err
}

func (e *ServiceError) Is(target error) bool {
	return target == ErrServiceUnavailable
}

// Unavailable wraps err as a ServiceError for component. A nil err stays nil
// and an existing ServiceError is returned unchanged.
func Unavailable(component string, err error) error {
	if err == nil {
		return nil
	}
	var se *ServiceError
	if errors.As(err, &se) {
		return err
	}
	return &ServiceError{Component: component, Err: err}
}
