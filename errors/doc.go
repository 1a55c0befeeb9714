// Package errors provides the structured error type used across locator.
// Every failure raised by the registry is an *AppError carrying a
// machine-readable code, so callers can branch with errors.Is against the
// exported sentinels.
package errors
