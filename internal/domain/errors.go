package domain

import (
	"errors"
	"fmt"
	"strings"
)

// APIError represents a standardized API error with HTTP status code
type APIError struct {
	Type     string            `json:"type"`
	Title    string            `json:"title"`
	Status   int               `json:"status"`
	Detail   string            `json:"detail,omitempty"`
	Errors   map[string]string `json:"errors,omitempty"`
	Blockers []Blocker         `json:"blockers,omitempty"`
}

// Error implements the error interface
func (e *APIError) Error() string {
	if e.Detail != "" {
		return e.Detail
	}
	return e.Title
}

// Common error types for RFC 7807 Problem Details
const (
	ErrorTypeValidation   = "validation_error"
	ErrorTypeNotFound     = "not_found"
	ErrorTypeBadRequest   = "bad_request"
	ErrorTypeConflict     = "conflict"
	ErrorTypeBlocked      = "integrity_blocked"
	ErrorTypeUnauthorized = "unauthorized"
	ErrorTypeForbidden    = "forbidden"
	ErrorTypeRateLimited  = "rate_limited"
	ErrorTypeInternal     = "internal_error"
)

var (
	// ErrNotFound is returned when an entity with the given id does not exist
	ErrNotFound = errors.New("entity not found")

	// ErrDuplicateAssignment is returned when a user is already linked to another master
	ErrDuplicateAssignment = errors.New("user is already assigned to a master")
)

// ValidationError is a single failed rule on a draft entity
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (e ValidationError) Error() string {
	return e.Field + ": " + e.Message
}

// ValidationErrors collects every failed rule for a draft. A nil or empty
// slice means the draft is valid.
type ValidationErrors []ValidationError

func (v ValidationErrors) Error() string {
	parts := make([]string, 0, len(v))
	for _, e := range v {
		parts = append(parts, e.Error())
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// Add appends a field error
func (v *ValidationErrors) Add(field, message string) {
	*v = append(*v, ValidationError{Field: field, Message: message})
}

// Has reports whether the field already has an error
func (v ValidationErrors) Has(field string) bool {
	for _, e := range v {
		if e.Field == field {
			return true
		}
	}
	return false
}

// Fields returns the errors keyed by field, first message wins
func (v ValidationErrors) Fields() map[string]string {
	out := make(map[string]string, len(v))
	for _, e := range v {
		if _, ok := out[e.Field]; !ok {
			out[e.Field] = e.Message
		}
	}
	return out
}

// OrNil returns nil for an empty slice so callers can return it as error
func (v ValidationErrors) OrNil() error {
	if len(v) == 0 {
		return nil
	}
	return v
}

// Blocker is one referencing relation that prevents a delete
type Blocker struct {
	Relation string `json:"relation"`
	Count    int64  `json:"count"`
}

// IntegrityBlocked is returned when an entity is still referenced.
// Blockers lists every relation with a nonzero count.
type IntegrityBlocked struct {
	Kind     EntityKind
	ID       int64
	Blockers []Blocker
}

func (e *IntegrityBlocked) Error() string {
	parts := make([]string, 0, len(e.Blockers))
	for _, b := range e.Blockers {
		parts = append(parts, fmt.Sprintf("%s (%d)", b.Relation, b.Count))
	}
	return fmt.Sprintf("cannot delete %s %d: referenced by %s", e.Kind, e.ID, strings.Join(parts, ", "))
}

// StoreError wraps a failure reported by the underlying store
type StoreError struct {
	Op  string
	Err error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("store: %s: %v", e.Op, e.Err)
}

func (e *StoreError) Unwrap() error {
	return e.Err
}

// NewStoreError wraps err unless it is nil or already a domain error
func NewStoreError(op string, err error) error {
	if err == nil {
		return nil
	}
	var se *StoreError
	if errors.As(err, &se) || errors.Is(err, ErrNotFound) {
		return err
	}
	return &StoreError{Op: op, Err: err}
}
