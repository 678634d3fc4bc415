package apperrors

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrNotFound             = errors.New("not found")
	ErrConflict             = errors.New("conflict")
	ErrDomainNotFound       = errors.New("domain not found")
	ErrNoTemplatesAvailable = errors.New("no use case templates available")
	ErrInvalidCostInput     = errors.New("invalid cost input")
	ErrUnsupportedFormat    = errors.New("unsupported export format")
	ErrInvalidInput         = errors.New("invalid input")
	ErrAINotConfigured      = errors.New("no AI provider configured")
	ErrInvalidAIResponse    = errors.New("invalid AI response")
)

// DomainNotFoundError carries the requested domain name.
// It matches ErrDomainNotFound with errors.Is.
type DomainNotFoundError struct {
	Name string
}

func (e *DomainNotFoundError) Error() string {
	return fmt.Sprintf("domain %q not found", e.Name)
}

func (e *DomainNotFoundError) Is(target error) bool {
	return target == ErrDomainNotFound
}

// ValidationError describes rejected input field by field.
// It matches ErrInvalidInput with errors.Is.
type ValidationError struct {
	Problems []string
}

func (e *ValidationError) Error() string {
	if len(e.Problems) == 0 {
		return ErrInvalidInput.Error()
	}
	return strings.Join(e.Problems, "; ")
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrInvalidInput
}
