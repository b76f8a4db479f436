package apierr

import (
	"fmt"
	"net/http"
)

const (
	CodeNotFound   = "NOT_FOUND"
	CodeConflict   = "CONFLICT"
	CodeValidation = "VALIDATION_ERROR"
	CodeBadRequest = "BAD_REQUEST"
	CodeInternal   = "INTERNAL_ERROR"
)

// FieldError describes a single field- or parameter-scoped violation.
// Index is set for batch payloads so callers can tell which item failed.
type FieldError struct {
	Field         string      `json:"field,omitempty"`
	Parameter     string      `json:"parameter,omitempty"`
	Index         *int        `json:"index,omitempty"`
	Message       string      `json:"message"`
	RejectedValue interface{} `json:"rejectedValue,omitempty"`
}

type Error struct {
	Status  int
	Code    string
	Message string
	Fields  []FieldError
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	if e.Message != "" {
		return e.Message
	}
	if e.Code != "" {
		return e.Code
	}
	return fmt.Sprintf("api error (%d)", e.Status)
}

func New(status int, code, message string) *Error {
	return &Error{Status: status, Code: code, Message: message}
}

func NotFound(kind string, id uint) *Error {
	return New(http.StatusNotFound, CodeNotFound, fmt.Sprintf("%s %d not found", kind, id))
}

func Conflict(message string) *Error {
	return New(http.StatusConflict, CodeConflict, message)
}

func BadRequest(message string) *Error {
	return New(http.StatusBadRequest, CodeBadRequest, message)
}

func Validation(fields []FieldError) *Error {
	return &Error{
		Status:  http.StatusBadRequest,
		Code:    CodeValidation,
		Message: "Request validation failed",
		Fields:  fields,
	}
}

// At attaches a batch item index to every field error in fields.
func At(index int, fields []FieldError) []FieldError {
	out := make([]FieldError, len(fields))
	for i, fe := range fields {
		fe.Index = &index
		out[i] = fe
	}
	return out
}
