package store

import "errors"

var (
	// ErrHandleNotFound is returned when an operation references a handle
	// that was never issued or has been released
	ErrHandleNotFound = errors.New("handle not found")

	// ErrIndexOutOfRange is returned when an update addresses an element
	// outside the vector bounds
	ErrIndexOutOfRange = errors.New("index out of range")

	// ErrRegistryFull is returned when creating a vector would exceed the
	// configured registry capacity
	ErrRegistryFull = errors.New("registry full")
)
