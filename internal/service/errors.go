// Package service provides application-level services for the marketplace:
// swap settlement, catalog management, user accounts, and admin statistics.
package service

import "errors"

// Common service errors - sentinel errors used across service implementations.
// These errors represent common conditions that callers may want to check for
// with errors.Is().
//
// Error handling principles:
// 1. Service methods return sentinel errors for expected error conditions
// 2. Unexpected errors are wrapped in service-specific error types
// 3. Callers use errors.Is/errors.As to check for specific error conditions
// 4. The API layer maps service errors to appropriate HTTP status codes
var (
	// ErrNotOwned indicates a resource is owned by a different user than the
	// one making the request. API layer should map this to HTTP 403 Forbidden.
	ErrNotOwned = errors.New("resource is owned by another user")

	// ErrSelfSwap indicates a user tried to propose a swap against their own
	// listing. API layer should map this to HTTP 400 Bad Request.
	ErrSelfSwap = errors.New("cannot propose a swap for your own item")

	// ErrItemUnavailable indicates the target item is no longer available for
	// swapping. API layer should map this to HTTP 409 Conflict.
	ErrItemUnavailable = errors.New("item is not available")

	// ErrInsufficientPoints indicates the requester's point balance does not
	// cover the points offered. Checked at proposal time and re-checked at
	// acceptance time. API layer should map this to HTTP 400 Bad Request.
	ErrInsufficientPoints = errors.New("insufficient points balance")

	// ErrInvalidTransition indicates a decision was attempted on a swap
	// request that is no longer pending. The pending state is consumed by the
	// first decision; repeating it never re-applies the transfer. API layer
	// should map this to HTTP 409 Conflict.
	ErrInvalidTransition = errors.New("swap request has already been decided")

	// ErrInvalidCredentials indicates a login attempt with an unknown email or
	// wrong password. API layer should map this to HTTP 401 Unauthorized.
	ErrInvalidCredentials = errors.New("invalid email or password")
)
