package httpapi

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

const (
	StatusOK    = "OK"
	StatusError = "Error"
)

// Response is the envelope of every JSON response.
type Response struct {
	Status string `json:"status"`
	Error  string `json:"error,omitempty"`
	Data   any    `json:"data,omitempty"`
}

// OK returns a successful Response carrying data.
func OK(data any) Response {
	return Response{Status: StatusOK, Data: data}
}

// Error returns a failed Response with msg.
func Error(msg string) Response {
	return Response{Status: StatusError, Error: msg}
}

// ValidationError turns validator failures into one readable message.
func ValidationError(errs validator.ValidationErrors) Response {
	msgs := make([]string, 0, len(errs))
	for _, err := range errs {
		switch err.ActualTag() {
		case "required":
			msgs = append(msgs, fmt.Sprintf("field %s is required", err.Field()))
		case "min", "gt":
			msgs = append(msgs, fmt.Sprintf("field %s must be at least %s", err.Field(), err.Param()))
		case "max":
			msgs = append(msgs, fmt.Sprintf("field %s must be at most %s", err.Field(), err.Param()))
		case "numeric":
			msgs = append(msgs, fmt.Sprintf("field %s can contain only digits", err.Field()))
		case "email":
			msgs = append(msgs, fmt.Sprintf("field %s must be an email address", err.Field()))
		default:
			msgs = append(msgs, fmt.Sprintf("field %s is not valid", err.Field()))
		}
	}
	return Error(strings.Join(msgs, ", "))
}
