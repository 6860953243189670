// Package errors provides structured error types for crafttable.
//
// Every fault the recipe pipeline can report carries a machine-readable
// [Code]. Per-recipe faults (a malformed ingredient, a missing output id) are
// turned into diagnostics and never abort the batch; corpus-level faults
// (a missing source directory) are returned to the caller.
//
// # Error Codes
//
// Codes mirror the recipe error taxonomy:
//   - MISSING_RESOURCE: a referenced tag definition does not exist
//   - MALFORMED_INGREDIENT: an ingredient object has neither "item" nor "tag"
//   - UNSUPPORTED_INGREDIENT_TYPE: an ingredient is not an object, list, or string
//   - UNSUPPORTED_RECIPE_TYPE: the recipe type is not shaped/shapeless/transform
//   - MISSING_OUTPUT_IDENTITY: the result has neither "id" nor "item"
//   - ZERO_OR_MISSING_COUNT: the result count was defaulted to 1
//
// # Usage
//
//	err := errors.New(errors.ErrCodeMalformedIngredient, "key %q has neither item nor tag", "#")
//	if errors.Is(err, errors.ErrCodeMalformedIngredient) {
//	    // skip the recipe
//	}
//
//	// Wrap existing errors
//	err := errors.Wrap(errors.ErrCodeSourceNotFound, origErr, "read %s", dir)
package errors

import (
	"errors"
	"fmt"
)

// Code represents a machine-readable error code.
type Code string

// Error codes for recipe and tag processing.
const (
	// Data faults in individual recipes and tags
	ErrCodeMissingResource           Code = "MISSING_RESOURCE"
	ErrCodeMalformedIngredient       Code = "MALFORMED_INGREDIENT"
	ErrCodeUnsupportedIngredientType Code = "UNSUPPORTED_INGREDIENT_TYPE"
	ErrCodeUnsupportedRecipeType     Code = "UNSUPPORTED_RECIPE_TYPE"
	ErrCodeMissingOutputIdentity     Code = "MISSING_OUTPUT_IDENTITY"
	ErrCodeZeroOrMissingCount        Code = "ZERO_OR_MISSING_COUNT"
	ErrCodeInvalidPattern            Code = "INVALID_PATTERN"
	ErrCodeInvalidRecipe             Code = "INVALID_RECIPE"
	ErrCodeInvalidTag                Code = "INVALID_TAG"
	ErrCodeTagCycle                  Code = "TAG_CYCLE"

	// Corpus and storage faults
	ErrCodeSourceNotFound Code = "SOURCE_NOT_FOUND"
	ErrCodeInvalidKey     Code = "INVALID_KEY"
	ErrCodeInvalidConfig  Code = "INVALID_CONFIG"
	ErrCodeNotFound       Code = "NOT_FOUND"

	// Internal errors
	ErrCodeInternal Code = "INTERNAL_ERROR"
)

// Error is a structured error with a code and optional cause.
type Error struct {
	Code    Code   // Machine-readable error code
	Message string // Human-readable message
	Cause   error  // Underlying error (optional)
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause for errors.Is/As compatibility.
func (e *Error) Unwrap() error {
	return e.Cause
}

// New creates a new Error with the given code and formatted message.
func New(code Code, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
	}
}

// Wrap creates a new Error wrapping an existing error.
func Wrap(code Code, cause error, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Cause:   cause,
	}
}

// Is reports whether err has the given error code.
// It unwraps the error chain looking for an *Error with a matching code.
func Is(err error, code Code) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Code == code
	}
	return false
}

// GetCode extracts the error code from an error, if available.
// Returns empty string if the error is not an *Error.
func GetCode(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}

// UserMessage returns a user-friendly message for the error.
// For *Error types, returns the message without the code prefix.
// For other errors, returns the error string as-is.
func UserMessage(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Message
	}
	return err.Error()
}
