package common

import (
	"errors"
	"fmt"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// AppError represents application-specific errors
type AppError struct {
	Code    string
	Message string
	Cause   error
}

func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

// Error codes surfaced to callers.
const (
	CodeConfig              = "CONFIG_ERROR"
	CodeUnsupportedFileType = "UNSUPPORTED_FILE_TYPE"
	CodeNoText              = "NO_TEXT"
	CodeExtractionFailed    = "EXTRACTION_FAILED"
	CodeAnalysisFailed      = "ANALYSIS_FAILED"
	CodeQuestionFailed      = "QUESTION_FAILED"
	CodeExplanationFailed   = "EXPLANATION_FAILED"
)

// Common application errors
var (
	ErrNotFound     = errors.New("resource not found")
	ErrInvalidInput = errors.New("invalid input")
	ErrInternal     = errors.New("internal error")
	ErrDatabase     = errors.New("database error")
	ErrValidation   = errors.New("validation failed")

	ErrSuperseded  = errors.New("superseded by a newer request")
	ErrNoDocument  = errors.New("no document loaded")
	ErrNoSelection = errors.New("no selection")
)

// Error constructors
func NewAppError(code, message string, cause error) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}

func WrapError(err error, message string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", message, err)
}

// CodeOf returns the AppError code carried by err, or "".
func CodeOf(err error) string {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code
	}
	return ""
}

// gRPC error helpers
func InvalidArgumentError(message string) error {
	return status.Error(codes.InvalidArgument, message)
}

func NotFoundError(message string) error {
	return status.Error(codes.NotFound, message)
}

func InternalError(message string) error {
	return status.Error(codes.Internal, message)
}

func InvalidArgumentErrorf(format string, args ...interface{}) error {
	return InvalidArgumentError(fmt.Sprintf(format, args...))
}

func InternalErrorf(format string, args ...interface{}) error {
	return InternalError(fmt.Sprintf(format, args...))
}

// ToStatus maps application errors onto gRPC status codes.
func ToStatus(err error) error {
	if err == nil {
		return nil
	}
	if _, ok := status.FromError(err); ok && CodeOf(err) == "" {
		return err
	}
	switch {
	case errors.Is(err, ErrNotFound):
		return status.Error(codes.NotFound, err.Error())
	case errors.Is(err, ErrNoDocument), errors.Is(err, ErrNoSelection):
		return status.Error(codes.FailedPrecondition, err.Error())
	case errors.Is(err, ErrSuperseded):
		return status.Error(codes.Aborted, err.Error())
	}
	switch CodeOf(err) {
	case CodeUnsupportedFileType, CodeNoText:
		return status.Error(codes.InvalidArgument, err.Error())
	case CodeExtractionFailed, CodeAnalysisFailed, CodeQuestionFailed, CodeExplanationFailed:
		return status.Error(codes.Unavailable, err.Error())
	}
	return status.Error(codes.Internal, err.Error())
}
