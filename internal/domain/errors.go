package domain

import "fmt"

// NotFoundError represents a missing resource.
type NotFoundError struct {
	Resource string
}

func (e NotFoundError) Error() string {
	if e.Resource == "" {
		return "not found"
	}
	return fmt.Sprintf("%s not found", e.Resource)
}

// Is enables errors.Is matching on NotFoundError.
func (e NotFoundError) Is(target error) bool {
	_, ok := target.(NotFoundError)
	if ok {
		return true
	}
	_, ok = target.(*NotFoundError)
	return ok
}

// ValidationError represents malformed or rejected input.
type ValidationError struct {
	Message string
}

func (e ValidationError) Error() string {
	if e.Message == "" {
		return "validation failed"
	}
	return e.Message
}

func (e ValidationError) Is(target error) bool {
	_, ok := target.(ValidationError)
	if ok {
		return true
	}
	_, ok = target.(*ValidationError)
	return ok
}

// ForbiddenError represents an access-level violation.
type ForbiddenError struct {
	Message string
}

func (e ForbiddenError) Error() string {
	if e.Message == "" {
		return "forbidden"
	}
	return e.Message
}

func (e ForbiddenError) Is(target error) bool {
	_, ok := target.(ForbiddenError)
	if ok {
		return true
	}
	_, ok = target.(*ForbiddenError)
	return ok
}

// AuthError represents failed credential or token verification.
type AuthError struct {
	Message string
}

func (e AuthError) Error() string {
	if e.Message == "" {
		return "invalid credentials"
	}
	return e.Message
}

func (e AuthError) Is(target error) bool {
	_, ok := target.(AuthError)
	if ok {
		return true
	}
	_, ok = target.(*AuthError)
	return ok
}

// ConflictError represents a uniqueness violation, e.g. duplicate registration.
type ConflictError struct {
	Message string
}

func (e ConflictError) Error() string {
	if e.Message == "" {
		return "already exists"
	}
	return e.Message
}

func (e ConflictError) Is(target error) bool {
	_, ok := target.(ConflictError)
	if ok {
		return true
	}
	_, ok = target.(*ConflictError)
	return ok
}

// Sentinels for errors.Is checks.
var (
	ErrNotFound   = NotFoundError{}
	ErrValidation = ValidationError{}
	ErrForbidden  = ForbiddenError{}
	ErrAuth       = AuthError{}
	ErrConflict   = ConflictError{}
)
