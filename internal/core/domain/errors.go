package domain

import "errors"

// Common domain errors
var (
	ErrNotFound           = errors.New("resource not found")
	ErrInvalidInput       = errors.New("invalid input")
	ErrDuplicateEntry     = errors.New("duplicate entry")
	ErrUnauthorized       = errors.New("unauthorized")
	ErrForbidden          = errors.New("forbidden")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrTokenExpired       = errors.New("token expired")
	ErrTokenInvalid       = errors.New("token invalid")
)

// Member errors
var (
	ErrMemberNotFound = errors.New("member not found")
)

// Loan errors
var (
	ErrLoanNotFound     = errors.New("loan not found")
	ErrInvalidBorrower  = errors.New("borrower type and identity do not match")
	ErrSolvencyExceeded = errors.New("amount exceeds available lending pool")
)

// Payment errors
var (
	ErrExceedsBalance = errors.New("payment exceeds remaining balance")
)

// Saving errors
var (
	ErrInsufficientSavings = errors.New("insufficient savings for withdrawal")
)
