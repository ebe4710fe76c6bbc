package models

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

var (
	ErrNotFound           = errors.New("not found")
	ErrDuplicateIdentity  = errors.New("already exists")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrAccountDeactivated = errors.New("account is deactivated")
	ErrInvalidToken       = errors.New("invalid authentication token")
	ErrUnauthenticated    = errors.New("authentication required")
	ErrForbidden          = errors.New("insufficient permissions")
	ErrEmptyPayload       = errors.New("no files uploaded")
	ErrSetupClosed        = errors.New("registration requires a superadmin")
)

// NotFoundError names the missing entity while still matching ErrNotFound.
func NotFoundError(entity string) error {
	return fmt.Errorf("%s %w", entity, ErrNotFound)
}

// DuplicateError names the clashing field while still matching ErrDuplicateIdentity.
func DuplicateError(what string) error {
	return fmt.Errorf("%s %w", what, ErrDuplicateIdentity)
}

// ValidationError lists every offending input field with its reason.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+e.Fields[k])
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// Validator accumulates field problems; Err returns nil when there are none.
type Validator struct {
	fields map[string]string
}

func (v *Validator) Add(field, reason string) {
	if v.fields == nil {
		v.fields = make(map[string]string)
	}
	if _, exists := v.fields[field]; !exists {
		v.fields[field] = reason
	}
}

func (v *Validator) Check(ok bool, field, reason string) {
	if !ok {
		v.Add(field, reason)
	}
}

func (v *Validator) Err() error {
	if len(v.fields) == 0 {
		return nil
	}
	return &ValidationError{Fields: v.fields}
}

// DependencyError marks a database or blob store failure. Its message is
// never shown to callers in production.
type DependencyError struct {
	Op  string
	Err error
}

func (e *DependencyError) Error() string { return e.Op + ": " + e.Err.Error() }
func (e *DependencyError) Unwrap() error { return e.Err }

// Dependency wraps err unless it already carries a domain meaning.
func Dependency(op string, err error) error {
	if err == nil {
		return nil
	}
	var dep *DependencyError
	var val *ValidationError
	if errors.As(err, &dep) || errors.As(err, &val) ||
		errors.Is(err, ErrNotFound) || errors.Is(err, ErrDuplicateIdentity) {
		return err
	}
	return &DependencyError{Op: op, Err: err}
}
