package errors

import (
	"net/http"
	"strings"
)

// ErrorCode is a string representation of a specific error condition.
type ErrorCode string

func (c ErrorCode) String() string {
	return string(c)
}

// Common Error Codes
const (
	ErrCodeInternal           ErrorCode = "COMMON_001"
	ErrCodeBadRequest         ErrorCode = "COMMON_002"
	ErrCodeNotFound           ErrorCode = "COMMON_005"
	ErrCodeConflict           ErrorCode = "COMMON_006"
	ErrCodeTooManyRequests    ErrorCode = "COMMON_007"
	ErrCodeServiceUnavailable ErrorCode = "COMMON_008"
	ErrCodeTimeout            ErrorCode = "COMMON_009"
	ErrCodeValidation         ErrorCode = "COMMON_010"
	ErrCodeSerialization      ErrorCode = "COMMON_011"
	ErrCodeDatabaseError      ErrorCode = "COMMON_012"
	ErrCodeCacheError         ErrorCode = "COMMON_013"
	ErrCodeExternalService    ErrorCode = "COMMON_014"
	ErrCodeStorageError       ErrorCode = "COMMON_017"
	ErrCodeMessagingError     ErrorCode = "COMMON_018"
)

// Aliases used by call sites that predate the COMMON_ prefix.
const (
	CodeOK           = ErrorCode("OK")
	CodeUnknown      = ErrorCode("UNKNOWN")
	CodeInternal     = ErrCodeInternal
	CodeInvalidParam = ErrCodeBadRequest
	CodeNotFound     = ErrCodeNotFound
	CodeConflict     = ErrCodeConflict
	CodeRateLimit    = ErrCodeTooManyRequests
)

// FRA Record Module Error Codes
const (
	ErrCodeRecordInvalid       ErrorCode = "FRA_001"
	ErrCodeFilterInvalid       ErrorCode = "FRA_002"
	ErrCodeExtractionFailed    ErrorCode = "FRA_003"
	ErrCodeModelError          ErrorCode = "FRA_004"
	ErrCodeModelRateLimited    ErrorCode = "FRA_005"
	ErrCodeDocumentUnsupported ErrorCode = "FRA_006"
	ErrCodeDocumentTooLarge    ErrorCode = "FRA_007"
	ErrCodeDocumentMissing     ErrorCode = "FRA_008"
)

// Patta Holder Module Error Codes
const (
	ErrCodeHolderInvalid      ErrorCode = "PAT_001"
	ErrCodeHolderCoordinates  ErrorCode = "PAT_002"
	ErrCodeHolderClaimType    ErrorCode = "PAT_003"
	ErrCodeHolderLandArea     ErrorCode = "PAT_004"
)

// ErrorCodeHTTPStatus maps ErrorCodes to HTTP status codes.
var ErrorCodeHTTPStatus = map[ErrorCode]int{
	ErrCodeInternal:           http.StatusInternalServerError,
	ErrCodeBadRequest:         http.StatusBadRequest,
	ErrCodeNotFound:           http.StatusNotFound,
	ErrCodeConflict:           http.StatusConflict,
	ErrCodeTooManyRequests:    http.StatusTooManyRequests,
	ErrCodeServiceUnavailable: http.StatusServiceUnavailable,
	ErrCodeTimeout:            http.StatusGatewayTimeout,
	ErrCodeValidation:         http.StatusBadRequest,
	ErrCodeSerialization:      http.StatusInternalServerError,
	ErrCodeDatabaseError:      http.StatusServiceUnavailable,
	ErrCodeCacheError:         http.StatusInternalServerError,
	ErrCodeExternalService:    http.StatusBadGateway,
	ErrCodeStorageError:       http.StatusServiceUnavailable,
	ErrCodeMessagingError:     http.StatusInternalServerError,

	ErrCodeRecordInvalid:       http.StatusBadRequest,
	ErrCodeFilterInvalid:       http.StatusBadRequest,
	ErrCodeExtractionFailed:    http.StatusInternalServerError,
	ErrCodeModelError:          http.StatusInternalServerError,
	ErrCodeModelRateLimited:    http.StatusTooManyRequests,
	ErrCodeDocumentUnsupported: http.StatusBadRequest,
	ErrCodeDocumentTooLarge:    http.StatusRequestEntityTooLarge,
	ErrCodeDocumentMissing:     http.StatusBadRequest,

	ErrCodeHolderInvalid:     http.StatusBadRequest,
	ErrCodeHolderCoordinates: http.StatusBadRequest,
	ErrCodeHolderClaimType:   http.StatusBadRequest,
	ErrCodeHolderLandArea:    http.StatusBadRequest,
}

// ErrorCodeMessage maps ErrorCodes to default messages.
var ErrorCodeMessage = map[ErrorCode]string{
	ErrCodeInternal:           "internal server error",
	ErrCodeBadRequest:         "bad request",
	ErrCodeNotFound:           "resource not found",
	ErrCodeConflict:           "resource conflict",
	ErrCodeTooManyRequests:    "too many requests",
	ErrCodeServiceUnavailable: "service unavailable",
	ErrCodeTimeout:            "request timeout",
	ErrCodeValidation:         "validation failed",
	ErrCodeSerialization:      "serialization failed",
	ErrCodeDatabaseError:      "database error",
	ErrCodeCacheError:         "cache error",
	ErrCodeExternalService:    "external service error",
	ErrCodeStorageError:       "object storage error",
	ErrCodeMessagingError:     "messaging error",

	ErrCodeRecordInvalid:       "invalid FRA record",
	ErrCodeFilterInvalid:       "invalid filter",
	ErrCodeExtractionFailed:    "Failed to process PDF. Please ensure the file contains FRA data tables.",
	ErrCodeModelError:          "AI model error. Please try again.",
	ErrCodeModelRateLimited:    "Service temporarily unavailable. Please try again later.",
	ErrCodeDocumentUnsupported: "Only PDF files are supported",
	ErrCodeDocumentTooLarge:    "File size must be less than 10MB",
	ErrCodeDocumentMissing:     "No file provided",

	ErrCodeHolderInvalid:     "invalid patta holder",
	ErrCodeHolderCoordinates: "Invalid coordinates provided",
	ErrCodeHolderClaimType:   "claim type must be Individual or Community",
	ErrCodeHolderLandArea:    "land area must be greater than zero",
}

// HTTPStatusForCode returns the HTTP status code for an ErrorCode.
func HTTPStatusForCode(code ErrorCode) int {
	if status, ok := ErrorCodeHTTPStatus[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}

// DefaultMessageForCode returns the default message for an ErrorCode.
func DefaultMessageForCode(code ErrorCode) string {
	if msg, ok := ErrorCodeMessage[code]; ok {
		return msg
	}
	return "unknown error"
}

// IsClientError returns true if the ErrorCode corresponds to a 4xx HTTP status.
func IsClientError(code ErrorCode) bool {
	status := HTTPStatusForCode(code)
	return status >= 400 && status < 500
}

// IsServerError returns true if the ErrorCode corresponds to a 5xx HTTP status.
func IsServerError(code ErrorCode) bool {
	status := HTTPStatusForCode(code)
	return status >= 500 && status < 600
}

// ModuleForCode returns the module prefix of an ErrorCode.
func ModuleForCode(code ErrorCode) string {
	parts := strings.Split(string(code), "_")
	if len(parts) > 0 && parts[0] != "" {
		return parts[0]
	}
	return "UNKNOWN"
}

//Personal.AI order the ending
