package commands

import (
	"context"
	"errors"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	goerrors "github.com/goliatone/go-errors"

	"github.com/goliatone/go-site-configurator/internal/apperrors"
)

const (
	CodeCommandCanceled = "COMMAND_CANCELED"
	CodeCommandTimeout  = "COMMAND_TIMEOUT"
)

// failureCodes gives uncoded execution failures the code of the domain the
// command drives. Anything else reports INTERNAL_ERROR.
var failureCodes = map[string]string{
	"configurator.sites.publish":   apperrors.CodePublish,
	"configurator.sites.unpublish": apperrors.CodePublish,
	"configurator.drafts.migrate":  apperrors.CodeMigration,
}

// invalidMessage classifies a message rejected by Validate. ozzo field errors
// keep their per-field issues.
func invalidMessage(scope *Scope, err error) error {
	if err == nil {
		return nil
	}
	message := "Invalid " + scope.Operation() + " command"
	var fieldErrs validation.Errors
	if errors.As(err, &fieldErrs) {
		return apperrors.FromOzzo(fieldErrs, message)
	}
	if goerrors.IsWrapped(err) {
		return err
	}
	return apperrors.Wrap(err, goerrors.CategoryValidation, apperrors.CodeValidation, message)
}

// interrupted classifies cancellation and deadline failures.
func interrupted(scope *Scope, err error) error {
	if err == nil {
		return nil
	}
	if goerrors.IsWrapped(err) {
		return err
	}
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return goerrors.Wrap(err, goerrors.CategoryCommand, scope.Operation()+" timed out").
			WithTextCode(CodeCommandTimeout)
	case errors.Is(err, context.Canceled):
		return goerrors.Wrap(err, goerrors.CategoryCommand, scope.Operation()+" was cancelled").
			WithTextCode(CodeCommandCanceled)
	default:
		return goerrors.Wrap(err, goerrors.CategoryCommand, scope.Operation()+" context failed").
			WithTextCode(apperrors.CodeInternal)
	}
}

// failed classifies an error returned by the wrapped service call. Service
// errors that already carry a category, such as a missing draft, pass through.
func failed(scope *Scope, err error) error {
	if err == nil {
		return nil
	}
	if goerrors.IsWrapped(err) {
		return err
	}
	code, ok := failureCodes[scope.Command]
	if !ok {
		code = apperrors.CodeInternal
	}
	return goerrors.Wrap(err, goerrors.CategoryCommand, scope.Operation()+" failed").WithTextCode(code)
}

func isInterruption(ctx context.Context, err error) bool {
	return ctx.Err() != nil && errors.Is(err, ctx.Err())
}
