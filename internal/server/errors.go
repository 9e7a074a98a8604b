package server

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/jonathan/blind-hire/internal/schemas"
	"github.com/jonathan/blind-hire/internal/types"
)

// RequestError indicates a malformed request body or query parameter.
type RequestError struct {
	Message string
	Cause   error
}

func (e *RequestError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *RequestError) Unwrap() error {
	return e.Cause
}

// HTTPStatus returns the appropriate HTTP status code for an error
func HTTPStatus(err error) int {
	var (
		validationErr *types.ValidationError
		jobDefErr     *types.InvalidJobDefinitionError
		schemaErr     *schemas.ValidationError
		requestErr    *RequestError
		notFoundErr   *types.NotFoundError
		transitionErr *types.InvalidTransitionError
		conflictErr   *types.ConflictError
	)

	switch {
	case err == nil:
		return http.StatusOK
	case errors.As(err, &validationErr), errors.As(err, &jobDefErr),
		errors.As(err, &schemaErr), errors.As(err, &requestErr):
		return http.StatusBadRequest
	case errors.As(err, &notFoundErr):
		return http.StatusNotFound
	case errors.As(err, &transitionErr), errors.As(err, &conflictErr):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// errorBody builds the JSON body for a client error.
func errorBody(err error) map[string]any {
	body := map[string]any{"error": err.Error()}

	var (
		validationErr *types.ValidationError
		schemaErr     *schemas.ValidationError
		transitionErr *types.InvalidTransitionError
		notFoundErr   *types.NotFoundError
	)
	switch {
	case errors.As(err, &validationErr):
		body["field"] = validationErr.Field
	case errors.As(err, &schemaErr):
		fields := make([]map[string]string, 0, len(schemaErr.Errors))
		for _, fe := range schemaErr.Errors {
			fields = append(fields, map[string]string{"field": fe.Field, "message": fe.Message})
		}
		body["error"] = "request does not match schema"
		body["fields"] = fields
	case errors.As(err, &transitionErr):
		body["state"] = transitionErr.From
		body["action"] = transitionErr.Action
	case errors.As(err, &notFoundErr):
		body["kind"] = notFoundErr.Kind
	}
	return body
}
