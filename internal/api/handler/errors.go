package handler

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/go-chi/render"
	"github.com/go-playground/validator/v10"

	"excel-aggregator/internal/model"
	"excel-aggregator/internal/pipeline"
)

// Error codes returned in APIError.ErrorCode
const (
	CodeInvalidSelection   = "invalid_selection"
	CodeMissingOperation   = "missing_operation"
	CodeInvalidOperation   = "invalid_operation"
	CodeUnknownColumns     = "unknown_columns"
	CodeColumnRoleConflict = "column_role_conflict"
	CodeInvalidRequest     = "invalid_request"
	CodeUnsupportedFormat  = "unsupported_format"
	CodeUnreadableFile     = "unreadable_file"
	CodeMissingFile        = "missing_file"
	CodePayloadTooLarge    = "payload_too_large"
	CodeUploadNotFound     = "upload_not_found"
	CodeOutputNotFound     = "output_not_found"
	CodeInternal           = "internal_error"
)

// APIError is the JSON error body of every failed request
type APIError struct {
	HTTPStatus int         `json:"-"`
	ErrorCode  string      `json:"error_code"`
	Message    string      `json:"message"`
	Details    interface{} `json:"details,omitempty"`
}

func (e *APIError) Error() string { return e.Message }

// Render implements render.Renderer
func (e *APIError) Render(_ http.ResponseWriter, r *http.Request) error {
	render.Status(r, e.HTTPStatus)
	return nil
}

func newAPIError(status int, code, message string, details interface{}) *APIError {
	return &APIError{HTTPStatus: status, ErrorCode: code, Message: message, Details: details}
}

// operationDetails lists every offending column plus the accepted tokens
type operationDetails struct {
	Missing []string                    `json:"missing,omitempty"`
	Invalid []pipeline.InvalidOperation `json:"invalid,omitempty"`
	Allowed []string                    `json:"allowed"`
}

// ErrorFromErr maps an error to its API representation. Plan errors become
// 400s that list every offending item; unknown uploads become 404s.
func ErrorFromErr(err error) *APIError {
	var (
		apiErr     *APIError
		selErr     *pipeline.SelectionError
		opErr      *pipeline.OperationError
		colErr     *pipeline.ColumnsError
		validErrs  validator.ValidationErrors
		maxByteErr *http.MaxBytesError
	)

	switch {
	case errors.As(err, &apiErr):
		return apiErr
	case errors.As(err, &selErr):
		return newAPIError(http.StatusBadRequest, CodeInvalidSelection, selErr.Error(), selErr.Tokens)
	case errors.As(err, &opErr):
		code := CodeInvalidOperation
		if len(opErr.Invalid) == 0 {
			code = CodeMissingOperation
		}
		return newAPIError(http.StatusBadRequest, code, opErr.Error(), operationDetails{
			Missing: opErr.Missing,
			Invalid: opErr.Invalid,
			Allowed: model.OperationNames(),
		})
	case errors.As(err, &colErr):
		code := CodeUnknownColumns
		if errors.Is(colErr.Kind, pipeline.ErrColumnRoleConflict) {
			code = CodeColumnRoleConflict
		}
		return newAPIError(http.StatusBadRequest, code, colErr.Error(), colErr.Columns)
	case errors.As(err, &validErrs):
		details := make([]string, len(validErrs))
		for i, fe := range validErrs {
			details[i] = fmt.Sprintf("%s failed on '%s'", fe.Field(), fe.Tag())
		}
		return newAPIError(http.StatusBadRequest, CodeInvalidRequest, "request validation failed", details)
	case errors.As(err, &maxByteErr):
		return newAPIError(http.StatusRequestEntityTooLarge, CodePayloadTooLarge,
			fmt.Sprintf("request body exceeds %d bytes", maxByteErr.Limit), nil)
	case errors.Is(err, pipeline.ErrUnsupportedFormat):
		return newAPIError(http.StatusBadRequest, CodeUnsupportedFormat, "Only Excel (.xlsx, .xlsm) or CSV files are supported", nil)
	case errors.Is(err, pipeline.ErrDuplicateHeader):
		return newAPIError(http.StatusBadRequest, CodeInvalidRequest, err.Error(), nil)
	case errors.Is(err, pipeline.ErrNoHeader):
		return newAPIError(http.StatusBadRequest, CodeUnreadableFile, err.Error(), nil)
	case errors.Is(err, model.ErrUploadNotFound):
		return newAPIError(http.StatusNotFound, CodeUploadNotFound, "File not found", nil)
	case errors.Is(err, model.ErrOutputNotFound):
		return newAPIError(http.StatusNotFound, CodeOutputNotFound, "Result not found", nil)
	default:
		return newAPIError(http.StatusInternalServerError, CodeInternal, "internal server error", nil)
	}
}
