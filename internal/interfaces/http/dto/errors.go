package dto

import "net/http"

// Error code constants
// Format: ERR_<CATEGORY>_<DESCRIPTION>

// General error codes
const (
	ErrCodeUnknown  = "ERR_UNKNOWN"
	ErrCodeInternal = "ERR_INTERNAL"
)

// Input error codes
const (
	ErrCodeBadRequest   = "ERR_BAD_REQUEST"
	ErrCodeInvalidInput = "ERR_INVALID_INPUT"
	ErrCodeInvalidJSON  = "ERR_INVALID_JSON"
	ErrCodeValidation   = "ERR_VALIDATION"
)

// Resource error codes
const (
	ErrCodeNotFound = "ERR_NOT_FOUND"
	ErrCodeConflict = "ERR_CONFLICT"
)

// Workflow error codes
const (
	// ErrCodeInvalidState is used when an operation is invalid for the
	// draft's current state
	ErrCodeInvalidState = "ERR_INVALID_STATE"
	// ErrCodeNoProductSelected is used when a draft operation has no product
	ErrCodeNoProductSelected = "ERR_NO_PRODUCT_SELECTED"
	// ErrCodeProductUnavailable is used when the product cannot be ordered
	ErrCodeProductUnavailable = "ERR_PRODUCT_UNAVAILABLE"
	// ErrCodeSubmitInFlight is used when a submission is already in progress
	ErrCodeSubmitInFlight = "ERR_SUBMIT_IN_FLIGHT"
	// ErrCodeUpstreamFailure is used when the upstream order API fails
	ErrCodeUpstreamFailure = "ERR_UPSTREAM_FAILURE"
)

// ErrorCodeHTTPStatus maps error codes to HTTP status codes
var ErrorCodeHTTPStatus = map[string]int{
	ErrCodeUnknown:  http.StatusInternalServerError,
	ErrCodeInternal: http.StatusInternalServerError,

	ErrCodeBadRequest:   http.StatusBadRequest,
	ErrCodeInvalidInput: http.StatusBadRequest,
	ErrCodeInvalidJSON:  http.StatusBadRequest,
	ErrCodeValidation:   http.StatusBadRequest,

	ErrCodeNotFound: http.StatusNotFound,
	ErrCodeConflict: http.StatusConflict,

	ErrCodeInvalidState:       http.StatusUnprocessableEntity,
	ErrCodeNoProductSelected:  http.StatusUnprocessableEntity,
	ErrCodeProductUnavailable: http.StatusUnprocessableEntity,
	ErrCodeSubmitInFlight:     http.StatusConflict,
	ErrCodeUpstreamFailure:    http.StatusBadGateway,
}

// GetHTTPStatus returns the HTTP status code for an error code.
// Unknown codes map to 500 Internal Server Error.
func GetHTTPStatus(code string) int {
	if status, ok := ErrorCodeHTTPStatus[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}

// DomainErrorCodeMapping maps domain error codes to wire error codes
var DomainErrorCodeMapping = map[string]string{
	"NOT_FOUND":           ErrCodeNotFound,
	"INVALID_INPUT":       ErrCodeInvalidInput,
	"INVALID_STATE":       ErrCodeInvalidState,
	"NO_PRODUCT_SELECTED": ErrCodeNoProductSelected,
	"PRODUCT_UNAVAILABLE": ErrCodeProductUnavailable,
	"SUBMIT_IN_FLIGHT":    ErrCodeSubmitInFlight,
	"UPSTREAM_FAILURE":    ErrCodeUpstreamFailure,
}

// NormalizeErrorCode converts a domain error code to the wire format.
// Codes already in the wire format, or unknown ones, pass through as-is.
func NormalizeErrorCode(code string) string {
	if wireCode, ok := DomainErrorCodeMapping[code]; ok {
		return wireCode
	}
	return code
}
