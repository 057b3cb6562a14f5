package domain

import "errors"

// Error message string constants - single source of truth for error messages
// Use these in assert.Contains() checks when testing error messages
const (
	ErrMsgCatalogNotFound  = "catalog not found"
	ErrMsgVersionConflict  = "catalog version conflict"
	ErrMsgInvalidCatalog   = "invalid catalog"
	ErrMsgInvalidTicket    = "invalid ticket"
	ErrMsgStoreNotFound    = "store not found"
	ErrMsgInvalidStore     = "invalid store"
	ErrMsgInvalidCustomer  = "invalid customer"
	ErrMsgInvalidPassword  = "invalid credentials"
	ErrMsgUnauthorized     = "missing or invalid token"
	ErrMsgForbidden        = "role not allowed"
	ErrMsgDatabaseError    = "database error"
	ErrMsgInvalidInput     = "invalid input"
	ErrMsgTokenExpired     = "token expired"
	ErrMsgPasswordRequired = "password required"
)

// Common domain errors
// Wrap these errors with fmt.Errorf("%w: %s", domain.ErrXxx, details) for additional context.
var (
	ErrCatalogNotFound    = errors.New(ErrMsgCatalogNotFound)
	ErrVersionConflict    = errors.New(ErrMsgVersionConflict)
	ErrInvalidCatalog     = errors.New(ErrMsgInvalidCatalog)
	ErrInvalidTicket      = errors.New(ErrMsgInvalidTicket)
	ErrStoreNotFound      = errors.New(ErrMsgStoreNotFound)
	ErrInvalidStore       = errors.New(ErrMsgInvalidStore)
	ErrInvalidCustomer    = errors.New(ErrMsgInvalidCustomer)
	ErrInvalidCredentials = errors.New(ErrMsgInvalidPassword)
	ErrUnauthorized       = errors.New(ErrMsgUnauthorized)
	ErrForbidden          = errors.New(ErrMsgForbidden)
	ErrDatabaseError      = errors.New(ErrMsgDatabaseError)
	ErrInvalidInput       = errors.New(ErrMsgInvalidInput)
	ErrTokenExpired       = errors.New(ErrMsgTokenExpired)
	ErrPasswordRequired   = errors.New(ErrMsgPasswordRequired)
)
