package realm

import (
	"errors"
	"fmt"
)

// ErrNotFound is the sentinel matched by every *NotFoundError.
var ErrNotFound = errors.New("not found")

// NotFoundError is returned when no source along the configured strategy
// supplied the name.
type NotFoundError struct {
	// Realm is the id of the realm the lookup entered.
	Realm string
	// Name is the requested name.
	Name string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s not found in realm %q", e.Name, e.Realm)
}

func (e *NotFoundError) Is(target error) bool {
	return target == ErrNotFound
}

// DuplicateRealmError is returned by a Registry when a realm id is already
// taken.
type DuplicateRealmError struct {
	ID string
}

func (e *DuplicateRealmError) Error() string {
	return fmt.Sprintf("duplicate realm %q", e.ID)
}

// NoSuchRealmError is returned by a Registry for an unknown realm id.
type NoSuchRealmError struct {
	ID string
}

func (e *NoSuchRealmError) Error() string {
	return fmt.Sprintf("no such realm %q", e.ID)
}

func (e *NoSuchRealmError) Is(target error) bool {
	return target == ErrNotFound
}

// UnknownStrategyError is returned when a realm is configured with a
// strategy name that has no registered factory.
type UnknownStrategyError struct {
	Name string
}

func (e *UnknownStrategyError) Error() string {
	return fmt.Sprintf("unknown strategy %q (known: %v)", e.Name, StrategyNames())
}

// EnumerationError is returned when the local sources of a realm cannot be
// enumerated for a resource name.
type EnumerationError struct {
	Realm string
	Name  string
	Err   error
}

func (e *EnumerationError) Error() string {
	return fmt.Sprintf("enumerating %s in realm %q: %v", e.Name, e.Realm, e.Err)
}

func (e *EnumerationError) Unwrap() error {
	return e.Err
}
