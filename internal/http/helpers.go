package http

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"

	goerrors "github.com/goliatone/go-errors"

	"github.com/goliatone/go-site-configurator/internal/apperrors"
)

var errBodyRequired = errors.New("request body is required")

type envelope struct {
	Success bool       `json:"success"`
	Data    any        `json:"data,omitempty"`
	Error   *errorBody `json:"error,omitempty"`
}

type errorBody struct {
	Code    string                    `json:"code"`
	Message string                    `json:"message"`
	Issues  goerrors.ValidationErrors `json:"issues,omitempty"`
}

func decodeJSON(r *http.Request, target any) error {
	if r == nil || r.Body == nil {
		return errBodyRequired
	}
	defer r.Body.Close()
	decoder := json.NewDecoder(r.Body)
	if err := decoder.Decode(target); err != nil {
		if errors.Is(err, io.EOF) {
			return errBodyRequired
		}
		return err
	}
	return nil
}

// decodeOptionalJSON accepts an empty body and leaves target untouched.
func decodeOptionalJSON(r *http.Request, target any) error {
	err := decodeJSON(r, target)
	if errors.Is(err, errBodyRequired) {
		return nil
	}
	return err
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	if w == nil {
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload == nil {
		return
	}
	_ = json.NewEncoder(w).Encode(payload)
}

func writeData(w http.ResponseWriter, status int, data any) {
	writeJSON(w, status, envelope{Success: true, Data: data})
}

func writeError(w http.ResponseWriter, err error) {
	status, body := mapError(err)
	writeJSON(w, status, envelope{Error: &body})
}

func writeFailure(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, envelope{Error: &errorBody{Code: code, Message: message}})
}

func mapError(err error) (int, errorBody) {
	if err == nil {
		return http.StatusInternalServerError, errorBody{Code: apperrors.CodeInternal, Message: "Internal server error"}
	}
	status := apperrors.HTTPStatus(err)
	body := errorBody{
		Code:    apperrors.Code(err),
		Message: apperrors.Message(err),
		Issues:  apperrors.Issues(err),
	}
	switch status {
	case http.StatusBadRequest:
		if body.Code == apperrors.CodeInternal {
			body.Code = apperrors.CodeValidation
		}
	case http.StatusNotFound:
		if body.Code == apperrors.CodeInternal {
			body.Code = apperrors.CodeNotFound
		}
	case http.StatusInternalServerError:
		var coded *goerrors.Error
		if !errors.As(err, &coded) {
			body.Message = "Internal server error"
		}
	}
	return status, body
}

// badRequest wraps decoding failures so they surface as validation errors.
func badRequest(err error) error {
	if errors.Is(err, errBodyRequired) {
		return apperrors.Validation("Request body is required")
	}
	return apperrors.Validation("Invalid request body: " + err.Error())
}

func urlParam(value string) string {
	return strings.TrimSpace(value)
}

// etagMatches applies the weak comparison If-None-Match calls for: header may
// list several tags, carry W/ prefixes or be "*".
func etagMatches(header, etag string) bool {
	want := strings.TrimPrefix(etag, "W/")
	for _, candidate := range strings.Split(header, ",") {
		candidate = strings.TrimSpace(candidate)
		if candidate == "" {
			continue
		}
		if candidate == "*" || strings.TrimPrefix(candidate, "W/") == want {
			return true
		}
	}
	return false
}
