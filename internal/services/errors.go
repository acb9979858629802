package services

import (
	"errors"
	"fmt"

	apperrors "github.com/SAP-F-2025/courseware-service/internal/errors"
)

// ===== COMMON SERVICE ERRORS =====

var (
	// Generic errors
	ErrNotFound         = errors.New("resource not found")
	ErrValidationFailed = errors.New("validation failed")
	ErrInternalError    = errors.New("internal server error")
	ErrBadRequest       = errors.New("bad request")

	// Area map specific errors
	ErrAreaMapFormat = errors.New("malformed area definition row")

	// Selection specific errors
	ErrModelNotFound     = errors.New("model not found in current model set")
	ErrTextureNotInModel = errors.New("texture does not belong to the selected model")
	ErrAreaNotInTexture  = errors.New("area color does not belong to the selected texture")
	ErrSelectionNotReady = errors.New("selection state not initialized")
	ErrNoModelsAvailable = errors.New("no models available for selection")

	// Grading specific errors
	ErrQuizNotFound          = errors.New("quiz not found")
	ErrAnswerKeyTypeMismatch = errors.New("answer key type does not match question type")
	ErrAnswerKeyOrphaned     = errors.New("answer key references unknown question")
	ErrUnsupportedKind       = errors.New("unsupported question type")
)

// ===== CUSTOM ERROR TYPES =====

// Use shared validation errors from errors package
type ValidationError = apperrors.ValidationError
type ValidationErrors = apperrors.ValidationErrors

// FormatError reports a malformed area definition row. It names the texture
// and the offending line so authors can fix the CSV; no partial area list is
// produced alongside it.
type FormatError struct {
	TextureID string `json:"texture_id"`
	Line      string `json:"line"`
	Reason    string `json:"reason"`
}

func (fe *FormatError) Error() string {
	return fmt.Sprintf("area definition for texture %s: %s (line %q)", fe.TextureID, fe.Reason, fe.Line)
}

func (fe *FormatError) Unwrap() error {
	return ErrAreaMapFormat
}

// ConfigurationError reports broken quiz data discovered mid-grading, such
// as an answer key whose type disagrees with its question. Not retryable.
type ConfigurationError struct {
	QuestionID uint   `json:"question_id"`
	Message    string `json:"message"`
	cause      error
}

func (ce *ConfigurationError) Error() string {
	return fmt.Sprintf("quiz configuration error on question %d: %s", ce.QuestionID, ce.Message)
}

func (ce *ConfigurationError) Unwrap() error {
	return ce.cause
}

func NewConfigurationError(questionID uint, message string, cause error) *ConfigurationError {
	return &ConfigurationError{
		QuestionID: questionID,
		Message:    message,
		cause:      cause,
	}
}

// ===== ERROR HELPERS =====

// NewValidationError creates a new validation error using the shared type
func NewValidationError(field, message string, value interface{}) *ValidationError {
	return apperrors.NewValidationError(field, message, value)
}

// IsNotFound checks if error represents a "not found" condition
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound) ||
		errors.Is(err, ErrModelNotFound) ||
		errors.Is(err, ErrQuizNotFound)
}

// IsFormat checks if error represents a malformed area definition
func IsFormat(err error) bool {
	return errors.Is(err, ErrAreaMapFormat)
}

// IsConfiguration checks if error represents broken quiz data
func IsConfiguration(err error) bool {
	var ce *ConfigurationError
	return errors.As(err, &ce)
}

// IsValidation checks if error represents a validation failure
func IsValidation(err error) bool {
	if errors.Is(err, ErrValidationFailed) {
		return true
	}
	var ve apperrors.ValidationErrors
	return errors.As(err, &ve)
}

// IsSelection checks if error represents a rejected selection change
func IsSelection(err error) bool {
	return errors.Is(err, ErrTextureNotInModel) ||
		errors.Is(err, ErrAreaNotInTexture) ||
		errors.Is(err, ErrModelNotFound) ||
		errors.Is(err, ErrSelectionNotReady)
}
