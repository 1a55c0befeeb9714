package errors

import (
	"fmt"
)

// AppError is the unified error type raised by the registry.
type AppError struct {
	// Code is a machine-readable error code.
	Code ErrorCode `json:"code"`
	// Message is a human-readable error message.
	Message string `json:"message"`
	// Retryable indicates if the operation can be retried.
	Retryable bool `json:"retryable"`
	// Details contains additional context for the error.
	Details map[string]any `json:"details,omitempty"`
	// Cause is the underlying error that caused this error.
	Cause error `json:"-"`
}

// Sentinels for errors.Is. Matching is by code only.
var (
	ErrNullArgument          = &AppError{Code: ErrCodeNullArgument}
	ErrAbstractType          = &AppError{Code: ErrCodeAbstractType}
	ErrDuplicateRegistration = &AppError{Code: ErrCodeDuplicateRegistration}
	ErrContainerLocked       = &AppError{Code: ErrCodeContainerLocked}
	ErrTypeMismatch          = &AppError{Code: ErrCodeTypeMismatch}
	ErrUnregisteredType      = &AppError{Code: ErrCodeUnregisteredType}
	ErrConstructionFailed    = &AppError{Code: ErrCodeConstructionFailed}
	ErrValidationFailed      = &AppError{Code: ErrCodeValidationFailed}
	ErrInvalidConfig         = &AppError{Code: ErrCodeInvalidConfig}
)

// Error returns the string representation of the error.
func (e *AppError) Error() string {
	msg := string(e.Code)
	if e.Message != "" {
		msg = fmt.Sprintf("%s: %s", e.Code, e.Message)
	}
	if e.Cause != nil {
		return fmt.Sprintf("%s (cause: %v)", msg, e.Cause)
	}
	return msg
}

// Unwrap returns the underlying cause of the error.
func (e *AppError) Unwrap() error { return e.Cause }

// Is reports whether target is an *AppError with the same code.
func (e *AppError) Is(target error) bool {
	t, ok := target.(*AppError)
	if !ok {
		return false
	}
	return t.Code == e.Code
}

// WithCause sets the underlying cause of the error and returns the receiver.
func (e *AppError) WithCause(cause error) *AppError {
	e.Cause = cause
	return e
}

// WithDetails merges the provided details into the error and returns the receiver.
func (e *AppError) WithDetails(details map[string]any) *AppError {
	if e.Details == nil {
		e.Details = make(map[string]any)
	}
	for k, v := range details {
		e.Details[k] = v
	}
	return e
}

// WithDetail sets a single detail key-value pair and returns the receiver.
func (e *AppError) WithDetail(key string, value any) *AppError {
	if e.Details == nil {
		e.Details = make(map[string]any)
	}
	e.Details[key] = value
	return e
}

// New creates a new AppError with automatic retryable detection.
func New(code ErrorCode, message string) *AppError {
	return &AppError{
		Code:      code,
		Message:   message,
		Retryable: IsRetryableCode(code),
	}
}

// --- Registry error constructors ---

// NullArgument reports a required argument that was nil or empty.
func NullArgument(argument string) *AppError {
	return &AppError{
		Code: ErrCodeNullArgument, Message: fmt.Sprintf("Argument %s must not be nil.", argument),
		Details: map[string]any{"argument": argument},
	}
}

// AbstractType reports that service cannot be constructed directly by operation.
func AbstractType(service, operation string) *AppError {
	return &AppError{
		Code: ErrCodeAbstractType,
		Message: fmt.Sprintf("%s is not a concrete type; %s needs a type the container can construct. "+
			"Register a factory for it instead.", service, operation),
		Details: map[string]any{"service": service, "operation": operation},
	}
}

// DuplicateRegistration reports that service already has a registration.
func DuplicateRegistration(service string) *AppError {
	return &AppError{
		Code: ErrCodeDuplicateRegistration, Message: fmt.Sprintf("Type %s has already been registered.", service),
		Details: map[string]any{"service": service},
	}
}

// ContainerLocked reports a mutation attempted after the container was locked.
func ContainerLocked(operation string) *AppError {
	return &AppError{
		Code: ErrCodeContainerLocked,
		Message: fmt.Sprintf("The container can't be changed after the first call to Resolve or Validate (%s).",
			operation),
		Details: map[string]any{"operation": operation},
	}
}

// TypeMismatch reports that a value of type got is not assignable to service.
func TypeMismatch(service, got string) *AppError {
	return &AppError{
		Code: ErrCodeTypeMismatch, Message: fmt.Sprintf("Value of type %s is not assignable to %s.", got, service),
		Details: map[string]any{"service": service, "got": got},
	}
}

// UnregisteredType reports that no registration exists for service.
func UnregisteredType(service string) *AppError {
	return &AppError{
		Code: ErrCodeUnregisteredType, Message: fmt.Sprintf("No registration for type %s could be found.", service),
		Details: map[string]any{"service": service},
	}
}

// ConstructionFailed reports that building an instance of service failed.
func ConstructionFailed(service string, cause error) *AppError {
	return &AppError{
		Code: ErrCodeConstructionFailed, Message: fmt.Sprintf("Failed to construct an instance of %s.", service),
		Retryable: true, Details: map[string]any{"service": service}, Cause: cause,
	}
}

// ValidationFailed reports that the validation pass found failures.
func ValidationFailed(failures int, cause error) *AppError {
	return &AppError{
		Code: ErrCodeValidationFailed, Message: fmt.Sprintf("Container validation found %d failing registration(s).", failures),
		Details: map[string]any{"failures": failures}, Cause: cause,
	}
}

// InvalidConfig reports an invalid configuration.
func InvalidConfig(message string) *AppError {
	return &AppError{
		Code: ErrCodeInvalidConfig, Message: message,
	}
}
