package errors

import (
	"errors"
	"strings"

	"gorm.io/gorm"
)

// ErrorInfo carries a code and a sanitized message for one error.
type ErrorInfo struct {
	Code    string
	Message string
}

// ParseError translates store and driver errors into sanitized user-facing
// responses. Internal detail stays in the server logs, never in the body.
func ParseError(err error, context string) ErrorInfo {
	if err == nil {
		return ErrorInfo{Code: InternalServerError, Message: "An internal error occurred"}
	}

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrorInfo{Code: ResourceNotFound, Message: notFoundMessage(context)}
	}

	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return duplicateKeyInfo(err.Error())
	}

	errStr := strings.ToLower(err.Error())

	// Unique constraint violations reported as raw driver errors
	if strings.Contains(errStr, "duplicate key") || strings.Contains(errStr, "unique constraint") {
		return duplicateKeyInfo(errStr)
	}

	// Not-null constraint violations
	if strings.Contains(errStr, "violates not-null constraint") || strings.Contains(errStr, "not null constraint") {
		return notNullInfo(errStr)
	}

	// Connectivity failures against the store or an external service
	if strings.Contains(errStr, "connection refused") ||
		strings.Contains(errStr, "no such host") ||
		strings.Contains(errStr, "timeout") {
		return ErrorInfo{
			Code:    InternalDatabaseError,
			Message: "A backing service is unavailable. Please try again later",
		}
	}

	return ErrorInfo{Code: InternalServerError, Message: defaultErrorMessage(context)}
}

func duplicateKeyInfo(errStr string) ErrorInfo {
	if strings.Contains(strings.ToLower(errStr), "email") {
		return ErrorInfo{Code: AuthEmailAlreadyExists, Message: "Email is already in use"}
	}
	return ErrorInfo{Code: ResourceAlreadyExists, Message: "The record already exists"}
}

func notNullInfo(errStr string) ErrorInfo {
	switch {
	case strings.Contains(errStr, "email"):
		return ErrorInfo{Code: ValidationRequired, Message: "Email is required"}
	case strings.Contains(errStr, "password"):
		return ErrorInfo{Code: ValidationRequired, Message: "Password is required"}
	}
	return ErrorInfo{Code: ValidationRequired, Message: "A required field is missing"}
}

func notFoundMessage(context string) string {
	if strings.Contains(strings.ToLower(context), "user") {
		return "User not found"
	}
	return "The requested record was not found"
}

func defaultErrorMessage(context string) string {
	contextLower := strings.ToLower(context)
	switch {
	case strings.Contains(contextLower, "create"), strings.Contains(contextLower, "register"):
		return "Registration failed. Please try again later"
	case strings.Contains(contextLower, "update"):
		return "Update failed. Please try again later"
	case strings.Contains(contextLower, "delete"):
		return "Deletion failed. Please try again later"
	}
	return "An internal error occurred. Please try again later"
}

// ParseAndRespond parses an error and writes the standard response.
func ParseAndRespond(c interface{ JSON(int, interface{}) }, statusCode int, err error, context string) {
	errorInfo := ParseError(err, context)
	c.JSON(statusCode, ErrorResponse{
		Error:   errorInfo.Code,
		Message: errorInfo.Message,
	})
}
