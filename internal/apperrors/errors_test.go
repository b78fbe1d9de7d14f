package apperrors

import (
	"errors"
	"net/http"
	"testing"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	goerrors "github.com/goliatone/go-errors"
)

func TestHTTPStatusByCategory(t *testing.T) {
	cases := []struct {
		err  error
		want int
	}{
		{Validation("bad input"), http.StatusBadRequest},
		{NotFound("Draft not found", "draft", "d-1"), http.StatusNotFound},
		{Operation(CodeMigration, "boom"), http.StatusInternalServerError},
		{errors.New("plain"), http.StatusInternalServerError},
	}
	for _, tc := range cases {
		if got := HTTPStatus(tc.err); got != tc.want {
			t.Fatalf("expected %d for %v, got %d", tc.want, tc.err, got)
		}
	}
}

func TestCodeAndMessage(t *testing.T) {
	err := NotFound("Draft not found", "draft", "d-1")
	if Code(err) != CodeNotFound {
		t.Fatalf("expected NOT_FOUND, got %s", Code(err))
	}
	if Message(err) != "Draft not found" {
		t.Fatalf("expected user message, got %q", Message(err))
	}
	if Code(errors.New("x")) != CodeInternal {
		t.Fatalf("expected internal code for plain errors")
	}
}

func TestWrapKeepsExistingClassification(t *testing.T) {
	inner := Validation("Brand name cannot be empty")
	wrapped := Wrap(inner, goerrors.CategoryInternal, CodeInternal, "outer")
	if !goerrors.IsCategory(wrapped, goerrors.CategoryValidation) {
		t.Fatalf("expected validation category to survive, got %v", wrapped)
	}
	if Wrap(nil, goerrors.CategoryInternal, CodeInternal, "x") != nil {
		t.Fatalf("expected nil passthrough")
	}
}

func TestFromOzzoCollectsFieldIssues(t *testing.T) {
	input := struct{ BrandName string }{}
	err := validation.ValidateStruct(&input, validation.Field(&input.BrandName, validation.Required))
	mapped := FromOzzo(err, "Invalid draft")
	if HTTPStatus(mapped) != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", HTTPStatus(mapped))
	}
	issues := Issues(mapped)
	if len(issues) != 1 || issues[0].Field != "BrandName" {
		t.Fatalf("unexpected issues %+v", issues)
	}
}
