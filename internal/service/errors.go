package service

import (
	"errors"
	"fmt"

	"gorm.io/gorm"
)

// ErrorCode is the machine-readable code returned to API clients.
type ErrorCode string

const (
	CodeUnauthenticated       ErrorCode = "UNAUTHENTICATED"
	CodeUnauthorized          ErrorCode = "UNAUTHORIZED"
	CodeNotFound              ErrorCode = "NOT_FOUND"
	CodeValidation            ErrorCode = "VALIDATION_ERROR"
	CodeConflict              ErrorCode = "CONFLICT"
	CodeAlreadyCompleted      ErrorCode = "ALREADY_COMPLETED"
	CodeInvalidCourseType     ErrorCode = "INVALID_COURSE_TYPE"
	CodeNoBlueprint           ErrorCode = "NO_BLUEPRINT"
	CodeBlueprintInUse        ErrorCode = "BLUEPRINT_IN_USE"
	CodeSectionsError         ErrorCode = "SECTIONS_ERROR"
	CodeInsufficientQuestions ErrorCode = "INSUFFICIENT_QUESTIONS"
	CodeCoachUnavailable      ErrorCode = "COACH_UNAVAILABLE"
	CodeDatabase              ErrorCode = "DATABASE_ERROR"
	CodeInternal              ErrorCode = "INTERNAL_ERROR"
)

// Error is a service failure carrying an ErrorCode and a client-safe message.
type Error struct {
	Code    ErrorCode
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error { return e.Err }

func newError(code ErrorCode, message string, err error) *Error {
	return &Error{Code: code, Message: message, Err: err}
}

// CodeOf extracts the ErrorCode from err, defaulting to CodeInternal.
func CodeOf(err error) ErrorCode {
	var se *Error
	if errors.As(err, &se) {
		return se.Code
	}
	return CodeInternal
}

// dbError maps gorm.ErrRecordNotFound to notFoundMsg and anything else to DATABASE_ERROR.
func dbError(err error, notFoundMsg string) *Error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return newError(CodeNotFound, notFoundMsg, err)
	}
	return newError(CodeDatabase, "database error", err)
}
