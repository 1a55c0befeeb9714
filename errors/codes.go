package errors

// ErrorCode represents a machine-readable error code.
type ErrorCode string

// Registration errors
const (
	// ErrCodeNullArgument indicates a required delegate or value was absent.
	ErrCodeNullArgument ErrorCode = "NULL_ARGUMENT"
	// ErrCodeAbstractType indicates a lifestyle that needs direct construction
	// was given a non-concrete type.
	ErrCodeAbstractType ErrorCode = "ABSTRACT_TYPE_NOT_CONSTRUCTIBLE"
	// ErrCodeDuplicateRegistration indicates the identity is already registered.
	ErrCodeDuplicateRegistration ErrorCode = "DUPLICATE_REGISTRATION"
	// ErrCodeContainerLocked indicates a mutation was attempted after the
	// container left the configuring phase.
	ErrCodeContainerLocked ErrorCode = "CONTAINER_LOCKED"
	// ErrCodeTypeMismatch indicates a value is not assignable to the
	// registered service type.
	ErrCodeTypeMismatch ErrorCode = "TYPE_MISMATCH"
)

// Resolution errors
const (
	// ErrCodeUnregisteredType indicates no registration matches the identity.
	ErrCodeUnregisteredType ErrorCode = "UNREGISTERED_TYPE"
	// ErrCodeConstructionFailed indicates a producer, initializer or the
	// auto-wiring collaborator failed.
	ErrCodeConstructionFailed ErrorCode = "CONSTRUCTION_FAILED"
	// ErrCodeValidationFailed indicates the eager validation pass found errors.
	ErrCodeValidationFailed ErrorCode = "VALIDATION_FAILED"
)

// Configuration errors
const (
	// ErrCodeInvalidConfig indicates the loaded configuration is invalid.
	ErrCodeInvalidConfig ErrorCode = "INVALID_CONFIG"
)

// A failed singleton leaves its slot empty, so resolving it again is allowed.
var retryableCodes = map[ErrorCode]bool{
	ErrCodeConstructionFailed: true,
}

// IsRetryableCode returns true if the error code indicates a retryable error.
func IsRetryableCode(code ErrorCode) bool {
	return retryableCodes[code]
}
