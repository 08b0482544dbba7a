// Package validation turns untyped request payloads into sanitized, typed
// patches, reporting every violated field at once.
package validation

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

var (
	// ErrValidationFailed matches every *Error via errors.Is.
	ErrValidationFailed = errors.New("validation failed")

	// ErrInvalidID is returned by ParseID for identifiers that are not UUIDs.
	ErrInvalidID = errors.New("invalid id: must be a UUID")
)

// BodyField is the field-error key used for failures that concern the
// payload as a whole rather than one field.
const BodyField = "body"

// FieldErrors maps a field name to one human-readable violation.
type FieldErrors map[string]string

// add records msg for field unless the field already failed.
func (f FieldErrors) add(field, msg string) {
	if _, ok := f[field]; ok {
		return
	}
	f[field] = msg
}

// err returns nil when no field failed.
func (f FieldErrors) err() error {
	if len(f) == 0 {
		return nil
	}
	return &Error{Fields: f}
}

// Error is the structured failure returned by the engine.
type Error struct {
	Fields FieldErrors
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", ErrValidationFailed, strings.Join(e.Details(), "; "))
}

// Is makes errors.Is(err, ErrValidationFailed) hold for every *Error.
func (e *Error) Is(target error) bool {
	return target == ErrValidationFailed
}

// Details returns "field: message" lines sorted by field name.
func (e *Error) Details() []string {
	fields := make([]string, 0, len(e.Fields))
	for field := range e.Fields {
		fields = append(fields, field)
	}
	sort.Strings(fields)

	details := make([]string, 0, len(fields))
	for _, field := range fields {
		details = append(details, field+": "+e.Fields[field])
	}
	return details
}

// unexpectedFields returns the keys of raw missing from allowed, sorted.
func unexpectedFields(raw map[string]any, allowed []string) []string {
	known := make(map[string]bool, len(allowed))
	for _, name := range allowed {
		known[name] = true
	}
	var unknown []string
	for name := range raw {
		if !known[name] {
			unknown = append(unknown, name)
		}
	}
	sort.Strings(unknown)
	return unknown
}
