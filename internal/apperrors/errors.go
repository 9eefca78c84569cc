package apperrors

import "errors"

// ErrNotFound indicates that a requested resource could not be found.
var ErrNotFound = errors.New("resource not found")

// ErrValidation indicates that input data failed validation checks.
var ErrValidation = errors.New("validation error")

// ErrDuplicate indicates that an attempt was made to create a resource that already exists.
var ErrDuplicate = errors.New("resource already exists")

// ErrUnauthorized indicates missing or invalid credentials.
var ErrUnauthorized = errors.New("unauthorized")

// ErrForbidden indicates the authenticated user may not perform the action.
var ErrForbidden = errors.New("forbidden")

// Settlement outcomes. These are business results surfaced to the caller,
// never panics; handlers translate them to HTTP statuses via errors.Is.
var (
	// ErrInvalidParentCount indicates a student is linked to a parent count
	// other than 1 or 2, for which no settlement path exists.
	ErrInvalidParentCount = errors.New("invalid number of parents linked to student")

	// ErrInvalidRelationship indicates the requesting parent is not linked
	// to the student named in the request.
	ErrInvalidRelationship = errors.New("no relationship between this student and parent")

	// ErrInsufficientFunds indicates the available balance(s) do not cover
	// the adjusted charge.
	ErrInsufficientFunds = errors.New("insufficient funds")

	// ErrNoSuitableContribution indicates no percentage tier combination
	// satisfies the contribution policy for the current balances.
	ErrNoSuitableContribution = errors.New("no suitable contribution")
)
