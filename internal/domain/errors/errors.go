package errors

import (
	"net/http"

	"lessonradar/internal/errors"
)

// AppError defines the interface for application-specific errors
type AppError interface {
	error
	HTTPCode() int     // HTTP status code
	ErrorCode() string // Business error code
	Message() string   // User-friendly error message
	Details() string   // Detailed error information (optional)
}

// BaseError is a basic error structure that implements the AppError interface
type BaseError struct {
	httpCode  int
	errorCode string
	message   string
	details   string
}

// NewBaseError creates a new base error
func NewBaseError(httpCode int, errorCode, message, details string) *BaseError {
	return &BaseError{
		httpCode:  httpCode,
		errorCode: errorCode,
		message:   message,
		details:   details,
	}
}

// Error implements the error interface
func (e *BaseError) Error() string {
	if e.details != "" {
		return e.message + ": " + e.details
	}

	return e.message
}

// WrapMessage wraps the error with additional context message
func (e *BaseError) WrapMessage(message string) error {
	return errors.Wrap(e, message)
}

// HTTPCode returns the HTTP status code
func (e *BaseError) HTTPCode() int {
	return e.httpCode
}

// ErrorCode returns the business error code
func (e *BaseError) ErrorCode() string {
	return e.errorCode
}

// Message returns the user-friendly error message
func (e *BaseError) Message() string {
	return e.message
}

// Details returns detailed error information
func (e *BaseError) Details() string {
	return e.details
}

// WithDetails returns a copy carrying details. The copy still matches the
// original with errors.Is.
func (e *BaseError) WithDetails(details string) *BaseError {
	return &BaseError{
		httpCode:  e.httpCode,
		errorCode: e.errorCode,
		message:   e.message,
		details:   details,
	}
}

// Is matches any BaseError with the same business code.
func (e *BaseError) Is(target error) bool {
	other, ok := target.(*BaseError)
	if !ok {
		return false
	}

	return other.errorCode == e.errorCode
}

// Predefined error types
var (
	// Validation errors
	ErrValidationFailed = NewBaseError(
		http.StatusBadRequest,
		"VALIDATION_FAILED",
		"input validation failed",
		"",
	)

	// Address book errors
	ErrAddressEmpty = NewBaseError(
		http.StatusBadRequest,
		"ADDRESS_EMPTY",
		"please enter an address",
		"",
	)

	ErrAddressDuplicate = NewBaseError(
		http.StatusConflict,
		"ADDRESS_DUPLICATE",
		"this address is already saved",
		"",
	)

	ErrAddressIndexOutOfRange = NewBaseError(
		http.StatusBadRequest,
		"ADDRESS_INDEX_OUT_OF_RANGE",
		"no saved address at this position",
		"",
	)

	ErrAddressNotSaved = NewBaseError(
		http.StatusBadRequest,
		"ADDRESS_NOT_SAVED",
		"only saved addresses can be selected",
		"",
	)

	ErrConfirmationRequired = NewBaseError(
		http.StatusBadRequest,
		"CONFIRMATION_REQUIRED",
		"deleting an address must be confirmed",
		"",
	)

	ErrEditModeActive = NewBaseError(
		http.StatusConflict,
		"EDIT_MODE_ACTIVE",
		"addresses cannot be selected while editing",
		"",
	)

	// Geocoding and location errors
	ErrAddressNotFound = NewBaseError(
		http.StatusNotFound,
		"ADDRESS_NOT_FOUND",
		"address not found, please check it and try again",
		"",
	)

	ErrLocationPermissionDenied = NewBaseError(
		http.StatusForbidden,
		"LOCATION_PERMISSION_DENIED",
		"location permission was denied",
		"",
	)

	ErrLocationUnavailable = NewBaseError(
		http.StatusServiceUnavailable,
		"LOCATION_UNAVAILABLE",
		"current location is unavailable",
		"",
	)

	ErrCollaboratorUnavailable = NewBaseError(
		http.StatusServiceUnavailable,
		"COLLABORATOR_UNAVAILABLE",
		"map service is not available right now",
		"",
	)

	// Category and search errors
	ErrInvalidCategory = NewBaseError(
		http.StatusBadRequest,
		"INVALID_CATEGORY",
		"unknown lesson category",
		"",
	)

	ErrOriginUnset = NewBaseError(
		http.StatusBadRequest,
		"ORIGIN_UNSET",
		"no address is set for the lesson search",
		"",
	)

	ErrSearchSessionNotFound = NewBaseError(
		http.StatusNotFound,
		"SEARCH_SESSION_NOT_FOUND",
		"lesson search not found or expired",
		"",
	)

	// Lesson and cart errors
	ErrNoLessonInfo = NewBaseError(
		http.StatusNotFound,
		"NO_LESSON_INFO",
		"no lesson information, please try again",
		"",
	)

	ErrCartDuplicate = NewBaseError(
		http.StatusConflict,
		"CART_DUPLICATE",
		"this lesson is already in the cart",
		"",
	)

	ErrCartEntryNotFound = NewBaseError(
		http.StatusNotFound,
		"CART_ENTRY_NOT_FOUND",
		"lesson is not in the cart",
		"",
	)

	ErrCartEmpty = NewBaseError(
		http.StatusBadRequest,
		"CART_EMPTY",
		"the cart is empty",
		"",
	)

	// Authentication errors
	ErrInvalidCredentials = NewBaseError(
		http.StatusUnauthorized,
		"INVALID_CREDENTIALS",
		"ID or password is incorrect",
		"",
	)

	ErrUserIDTaken = NewBaseError(
		http.StatusConflict,
		"USER_ID_TAKEN",
		"this ID is already registered",
		"",
	)

	ErrSessionRevoked = NewBaseError(
		http.StatusUnauthorized,
		"SESSION_REVOKED",
		"session has ended, please log in again",
		"",
	)

	ErrSocialLoginFailed = NewBaseError(
		http.StatusUnauthorized,
		"SOCIAL_LOGIN_FAILED",
		"social login failed",
		"",
	)

	// General errors
	ErrInternalError = NewBaseError(
		http.StatusInternalServerError,
		"INTERNAL_ERROR",
		"internal server error",
		"",
	)
)

// DatabaseExecuteError represents a storage execution error, implementing the AppError interface
type DatabaseExecuteError struct {
	err     error
	details string
}

// NewDatabaseExecuteError creates a storage-related error
func NewDatabaseExecuteError(err error, details string) AppError {
	return &DatabaseExecuteError{
		err:     err,
		details: details,
	}
}

// Error implements the error interface
func (e *DatabaseExecuteError) Error() string {
	return errors.Wrap(e.err, "database execution failed").Error()
}

// Unwrap exposes the driver error.
func (e *DatabaseExecuteError) Unwrap() error {
	return e.err
}

// HTTPCode returns the HTTP status code
func (e *DatabaseExecuteError) HTTPCode() int {
	return http.StatusInternalServerError
}

// ErrorCode returns the business error code
func (e *DatabaseExecuteError) ErrorCode() string {
	return "DATABASE_EXECUTE_FAILED"
}

// Message returns the user-friendly error message
func (e *DatabaseExecuteError) Message() string {
	return "storage operation failed"
}

// Details returns detailed error information
func (e *DatabaseExecuteError) Details() string {
	return e.details
}
