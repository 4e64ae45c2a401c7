package errors

import "errors"

var (
	ErrNotFound = errors.New("booking not found")

	ErrInvalidID = errors.New("invalid booking ID format")

	ErrDriverNotFound = errors.New("driver not found")

	ErrCustomerNotFound = errors.New("customer not found")
)
