// Package orcherrors defines the typed error/outcome values the
// Orchestrator surfaces to callers (§7).
package orcherrors

import (
	"errors"
	"fmt"
)

// CreateOutcome is the result of CreateApplication.
type CreateOutcome int

const (
	CreateFailed CreateOutcome = iota
	CreateSucceeded
	CreateExists
)

// DeleteOutcome is the result of DeleteApplication.
type DeleteOutcome int

const (
	DeleteFailed DeleteOutcome = iota
	DeleteSucceeded
	DeleteNotExists
)

// SchemeUnsupportedError means no Provider advertises the requested scheme.
type SchemeUnsupportedError struct {
	Scheme string
}

func (e *SchemeUnsupportedError) Error() string {
	return fmt.Sprintf("no provider registered for scheme %q", e.Scheme)
}

// NewSchemeUnsupportedError constructs a SchemeUnsupportedError.
func NewSchemeUnsupportedError(scheme string) *SchemeUnsupportedError {
	return &SchemeUnsupportedError{Scheme: scheme}
}

// IsSchemeUnsupported reports whether err is (or wraps) a SchemeUnsupportedError.
func IsSchemeUnsupported(err error) bool {
	var target *SchemeUnsupportedError
	return errors.As(err, &target)
}

// NameUnresolvedError means a domain could not be mapped to a VirtualHost,
// or a vhost#app name was malformed.
type NameUnresolvedError struct {
	Name    string
	Message string
}

func (e *NameUnresolvedError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("could not resolve name %q", e.Name)
}

// NewNameUnresolvedError constructs a NameUnresolvedError.
func NewNameUnresolvedError(name string) *NameUnresolvedError {
	return &NameUnresolvedError{Name: name}
}

// NewMalformedNameError constructs a NameUnresolvedError for a malformed
// vhost#app canonical name.
func NewMalformedNameError(name string) *NameUnresolvedError {
	return &NameUnresolvedError{Name: name, Message: fmt.Sprintf("malformed vhost#app name %q", name)}
}

// IsNameUnresolved reports whether err is (or wraps) a NameUnresolvedError.
func IsNameUnresolved(err error) bool {
	var target *NameUnresolvedError
	return errors.As(err, &target)
}

// VHostNotFoundError means the named VirtualHost does not exist in the
// live configuration tree.
type VHostNotFoundError struct {
	Name string
}

func (e *VHostNotFoundError) Error() string {
	return fmt.Sprintf("virtual host %q not found", e.Name)
}

// NewVHostNotFoundError constructs a VHostNotFoundError.
func NewVHostNotFoundError(name string) *VHostNotFoundError {
	return &VHostNotFoundError{Name: name}
}

// IsVHostNotFound reports whether err is (or wraps) a VHostNotFoundError.
func IsVHostNotFound(err error) bool {
	var target *VHostNotFoundError
	return errors.As(err, &target)
}

// ErrModuleKindConflict means the same module reference is already
// registered under a different kind (§4.1).
var ErrModuleKindConflict = errors.New("module already registered under a different kind")
