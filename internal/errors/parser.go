package errors

import (
	"errors"
	"strings"

	"gorm.io/gorm"
)

// ErrorInfo is a parsed error: a stable code plus a user-facing message
type ErrorInfo struct {
	Code    string
	Message string
}

// ParseError maps database and infrastructure errors onto the error code
// taxonomy without leaking internals to the client.
func ParseError(err error, context string) ErrorInfo {
	if err == nil {
		return ErrorInfo{Code: InternalServerError, Message: "an internal error occurred"}
	}

	errStr := err.Error()
	errStrLower := strings.ToLower(errStr)

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrorInfo{Code: ResourceNotFound, Message: notFoundMessage(context)}
	}

	// PostgreSQL constraint violations

	if strings.Contains(errStrLower, "duplicate key") || strings.Contains(errStrLower, "unique constraint") {
		return parseDuplicateKeyError(errStrLower)
	}

	if strings.Contains(errStrLower, "foreign key constraint") {
		return parseForeignKeyError(errStrLower)
	}

	if strings.Contains(errStrLower, "null value") && strings.Contains(errStrLower, "violates not-null constraint") {
		return ErrorInfo{Code: ValidationRequired, Message: "a required field is missing"}
	}

	if strings.Contains(errStrLower, "check constraint") {
		if strings.Contains(errStrLower, "rating") {
			return ErrorInfo{Code: ReviewInvalidRating, Message: "rating must be between 1 and 5"}
		}
		return ErrorInfo{Code: ValidationInvalidInput, Message: "input is not valid"}
	}

	// Network errors from external services
	if strings.Contains(errStrLower, "connection refused") ||
		strings.Contains(errStrLower, "no such host") ||
		strings.Contains(errStrLower, "timeout") {
		return ErrorInfo{
			Code:    InternalExternalAPI,
			Message: "failed to reach an external service, please try again later",
		}
	}

	return ErrorInfo{Code: InternalServerError, Message: defaultErrorMessage(context)}
}

func parseDuplicateKeyError(errLower string) ErrorInfo {
	if strings.Contains(errLower, "email") || strings.Contains(errLower, "idx_users_email") {
		return ErrorInfo{Code: AuthEmailAlreadyExists, Message: "email address is already in use"}
	}
	if strings.Contains(errLower, "idx_saved_user_business") {
		// Idempotent saves swallow this upstream; reaching here means a
		// raw insert bypassed the repository.
		return ErrorInfo{Code: ResourceAlreadyExists, Message: "business is already saved"}
	}
	return ErrorInfo{Code: ResourceAlreadyExists, Message: "the record already exists"}
}

func parseForeignKeyError(errLower string) ErrorInfo {
	if strings.Contains(errLower, "still referenced") {
		return ErrorInfo{Code: ResourceConflict, Message: "the record is referenced by other data and cannot be deleted"}
	}
	if strings.Contains(errLower, "user_id") || strings.Contains(errLower, "fk_users") {
		return ErrorInfo{Code: ResourceNotFound, Message: "user does not exist"}
	}
	if strings.Contains(errLower, "business_id") || strings.Contains(errLower, "fk_businesses") {
		return ErrorInfo{Code: BusinessNotFound, Message: "business does not exist"}
	}
	return ErrorInfo{Code: ResourceNotFound, Message: "a referenced record was not found"}
}

func notFoundMessage(context string) string {
	contextLower := strings.ToLower(context)

	switch {
	case strings.Contains(contextLower, "business"):
		return "business not found"
	case strings.Contains(contextLower, "user"):
		return "user not found"
	case strings.Contains(contextLower, "review"):
		return "review not found"
	case strings.Contains(contextLower, "saved"):
		return "saved place not found"
	}
	return "the requested record was not found"
}

func defaultErrorMessage(context string) string {
	contextLower := strings.ToLower(context)

	switch {
	case strings.Contains(contextLower, "create"), strings.Contains(contextLower, "submit"):
		return "failed to create the record, please try again later"
	case strings.Contains(contextLower, "update"):
		return "failed to update the record, please try again later"
	case strings.Contains(contextLower, "delete"):
		return "failed to delete the record, please try again later"
	}
	return "an internal error occurred, please try again later"
}

// ParseAndRespond parses err and writes the resulting error response
func ParseAndRespond(c interface{ JSON(int, interface{}) }, statusCode int, err error, context string) {
	errorInfo := ParseError(err, context)
	c.JSON(statusCode, ErrorResponse{
		Error:   errorInfo.Code,
		Message: errorInfo.Message,
	})
}
