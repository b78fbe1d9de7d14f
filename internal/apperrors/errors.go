// Package apperrors classifies domain failures with go-errors categories and
// text codes so transports can map them without inspecting messages.
package apperrors

import (
	"errors"
	"net/http"

	goerrors "github.com/goliatone/go-errors"
)

const (
	CodeValidation     = "VALIDATION_ERROR"
	CodeNotFound       = "NOT_FOUND"
	CodeMigration      = "MIGRATION_ERROR"
	CodePublish        = "PUBLISH_ERROR"
	CodeUpload         = "UPLOAD_ERROR"
	CodeInternal       = "INTERNAL_ERROR"
	CodeRetryExhausted = "RETRY_EXHAUSTED"
)

// Validation builds a validation error carrying field issues.
func Validation(message string, issues ...goerrors.FieldError) *goerrors.Error {
	return goerrors.NewValidation(message, issues...).WithTextCode(CodeValidation)
}

// FromOzzo converts ozzo-validation output into a coded validation error.
func FromOzzo(err error, message string) error {
	if err == nil {
		return nil
	}
	mapped := goerrors.FromOzzoValidation(err, message)
	if mapped == nil {
		return nil
	}
	return mapped.WithTextCode(CodeValidation)
}

// NotFound reports a missing resource. The message is user facing.
func NotFound(message, resource, key string) *goerrors.Error {
	return goerrors.New(message, goerrors.CategoryNotFound).
		WithTextCode(CodeNotFound).
		WithMetadata(map[string]any{"resource": resource, "key": key})
}

// Wrap classifies err unless it already carries a category.
func Wrap(err error, category goerrors.Category, code, message string) error {
	if err == nil {
		return nil
	}
	if goerrors.IsWrapped(err) {
		return err
	}
	return goerrors.Wrap(err, category, message).WithTextCode(code)
}

// Operation builds an internal failure with a specific text code, used by
// migration and publish for failures that have no safe fallback.
func Operation(code, message string) *goerrors.Error {
	return goerrors.New(message, goerrors.CategoryOperation).WithTextCode(code)
}

// HTTPStatus maps an error category to a response status.
func HTTPStatus(err error) int {
	switch {
	case err == nil:
		return http.StatusOK
	case goerrors.IsCategory(err, goerrors.CategoryValidation), goerrors.IsCategory(err, goerrors.CategoryBadInput):
		return http.StatusBadRequest
	case goerrors.IsCategory(err, goerrors.CategoryNotFound):
		return http.StatusNotFound
	case goerrors.IsCategory(err, goerrors.CategoryConflict):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// Code returns the text code of err, defaulting to CodeInternal.
func Code(err error) string {
	var coded *goerrors.Error
	if errors.As(err, &coded) && coded.TextCode != "" {
		return coded.TextCode
	}
	return CodeInternal
}

// Message returns the user facing message of err.
func Message(err error) string {
	if err == nil {
		return ""
	}
	var coded *goerrors.Error
	if errors.As(err, &coded) && coded.Message != "" {
		return coded.Message
	}
	return err.Error()
}

// Issues returns field level validation issues attached to err.
func Issues(err error) goerrors.ValidationErrors {
	var coded *goerrors.Error
	if errors.As(err, &coded) {
		return coded.ValidationErrors
	}
	return nil
}
