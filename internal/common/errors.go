package common

import (
	"errors"
	"fmt"
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

// Document-level errors: the batch logs them, skips the document and continues.
var (
	ErrAnchorNotFound     = errors.New("anchor not found")
	ErrLabelNotFound      = errors.New("label not found")
	ErrMalformedItemBlock = errors.New("malformed item block")
	ErrInvalidPrice       = fmt.Errorf("%w: invalid price", ErrMalformedItemBlock)
	ErrInvalidDate        = errors.New("invalid date")
	ErrDocumentNotFound   = errors.New("document not found")
	ErrUnreadableDocument = errors.New("unreadable document")
	ErrEmptyCategory      = errors.New("empty category")
	ErrValidation         = errors.New("validation failed")
)

// Batch-level errors: processing stops.
var (
	ErrInvalidOutputTarget = errors.New("invalid output target")
	ErrOutputAlreadyExists = errors.New("output already exists")
	ErrInvalidInput        = errors.New("invalid input")
)

// Error codes carried by AppError.
const (
	CodeConfig = "CONFIG_ERROR"
	CodeOutput = "OUTPUT_ERROR"
	CodeLedger = "LEDGER_ERROR"
	CodeInput  = "INPUT_ERROR"
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

// IsDocumentError reports whether err only concerns a single document.
func IsDocumentError(err error) bool {
	return errors.Is(err, ErrAnchorNotFound) ||
		errors.Is(err, ErrLabelNotFound) ||
		errors.Is(err, ErrMalformedItemBlock) ||
		errors.Is(err, ErrInvalidDate) ||
		errors.Is(err, ErrDocumentNotFound) ||
		errors.Is(err, ErrUnreadableDocument) ||
		errors.Is(err, ErrEmptyCategory) ||
		errors.Is(err, ErrValidation)
}
