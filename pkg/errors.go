package pkg

import "fmt"

// FieldError is a single field-level validation failure.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// AppError carries the code/message/status a handler answers with.
type AppError struct {
	Code       string
	Message    string
	HTTPStatus int
	Err        error
	Fields     []FieldError
}

// HTTPError is the JSON error envelope returned by every handler.
type HTTPError struct {
	Success bool         `json:"success"`
	Code    string       `json:"code"`
	Message string       `json:"message"`
	Errors  []FieldError `json:"errors,omitempty"`
}

func NewDomainError(code, message string, err error, status int) *AppError {
	return &AppError{Code: code, Message: message, Err: err, HTTPStatus: status}
}

func NewDomainErrorSimple(code, message string, status int) *AppError {
	return &AppError{Code: code, Message: message, HTTPStatus: status}
}

// NewValidationError builds a 400 error with field details.
func NewValidationError(fields []FieldError, status int) *AppError {
	return &AppError{Code: "VALIDATION_ERROR", Message: "Invalid request", HTTPStatus: status, Fields: fields}
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error { return e.Err }

func (e *AppError) ToHTTPError() HTTPError {
	return HTTPError{
		Success: false,
		Code:    e.Code,
		Message: e.Message,
		Errors:  e.Fields,
	}
}
