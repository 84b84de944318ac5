package domain

import "fmt"

// Stable error codes surfaced to API clients.
const (
	CodeBadRequest         = "BAD_REQUEST"
	CodeUnauthorized       = "UNAUTHORIZED"
	CodeForbidden          = "FORBIDDEN"
	CodeNotFound           = "NOT_FOUND"
	CodeConflict           = "CONFLICT"
	CodeValidation         = "VALIDATION_ERROR"
	CodeInternal           = "INTERNAL_ERROR"
	CodeRateLimited        = "RATE_LIMITED"
	CodeEmailExists        = "EMAIL_ALREADY_EXISTS"
	CodeSiretExists        = "SIRET_ALREADY_EXISTS"
	CodeInvalidTransition  = "INVALID_TRANSITION"
	CodeDuplicateSignature = "DUPLICATE_SIGNATURE"
	CodeInvalidCredentials = "INVALID_CREDENTIALS"
	CodeAccountDisabled    = "ACCOUNT_DISABLED"
	CodeSessionExpired     = "SESSION_EXPIRED"
	CodeTokenInvalid       = "TOKEN_INVALID"
)

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

// ErrNotFound is the sentinel error for missing resources.
var ErrNotFound = NotFoundError{}

// InvalidTransitionError indicates a contract operation whose status guard failed.
type InvalidTransitionError struct {
	From   ContractStatus
	Action string
}

func (e InvalidTransitionError) Error() string {
	if e.Action == "" {
		return fmt.Sprintf("invalid transition from %s", e.From)
	}
	return fmt.Sprintf("cannot %s a contract in status %s", e.Action, e.From)
}

func (e InvalidTransitionError) Is(target error) bool {
	_, ok := target.(InvalidTransitionError)
	if ok {
		return true
	}
	_, ok = target.(*InvalidTransitionError)
	return ok
}

var ErrInvalidTransition = InvalidTransitionError{}

// UnauthorizedError indicates the requester is not a party to the resource.
type UnauthorizedError struct {
	Reason string
}

func (e UnauthorizedError) Error() string {
	if e.Reason == "" {
		return "unauthorized"
	}
	return e.Reason
}

func (e UnauthorizedError) Is(target error) bool {
	_, ok := target.(UnauthorizedError)
	if ok {
		return true
	}
	_, ok = target.(*UnauthorizedError)
	return ok
}

var ErrUnauthorized = UnauthorizedError{}

// ConflictError indicates a unique-key collision or duplicate action.
type ConflictError struct {
	Code   string
	Reason string
}

func (e ConflictError) Error() string {
	if e.Reason == "" {
		return "conflict"
	}
	return e.Reason
}

func (e ConflictError) Is(target error) bool {
	_, ok := target.(ConflictError)
	if ok {
		return true
	}
	_, ok = target.(*ConflictError)
	return ok
}

var ErrConflict = ConflictError{}

// ErrDuplicateSignature is raised when a party signs the same contract twice.
var ErrDuplicateSignature = ConflictError{Code: CodeDuplicateSignature, Reason: "this party has already signed the contract"}

// ValidationError indicates malformed or missing input.
type ValidationError struct {
	Field  string
	Reason string
}

func (e ValidationError) Error() string {
	if e.Field == "" {
		return e.Reason
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

func (e ValidationError) Is(target error) bool {
	_, ok := target.(ValidationError)
	if ok {
		return true
	}
	_, ok = target.(*ValidationError)
	return ok
}

var ErrValidation = ValidationError{}
