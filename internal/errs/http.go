package errs

import (
	"net/http"
)

// NewHTTPError builds an HTTPError for an arbitrary status.
//
// The code is derived from the status text (404 -> "NOT_FOUND"), and the
// optional details are kept in the order given. With no details, Errors
// is an empty list.
func NewHTTPError(status int, message string, errors ...FieldError) *HTTPError {
	return &HTTPError{
		Code:    MakeUpperCaseWithUnderscores(http.StatusText(status)),
		Message: message,
		Status:  status,
		Errors:  normalizeErrors(errors),
	}
}

// NewUnauthorizedError creates a 401 Unauthorized HTTPError.
//
// override lets the client decide whether to show message verbatim.
func NewUnauthorizedError(message string, override bool) *HTTPError {
	return &HTTPError{
		Code:     MakeUpperCaseWithUnderscores(http.StatusText(http.StatusUnauthorized)),
		Message:  message,
		Status:   http.StatusUnauthorized,
		Override: override,
		Errors:   []FieldError{},
	}
}

// NewForbiddenError creates a 403 Forbidden HTTPError.
func NewForbiddenError(message string, override bool) *HTTPError {
	return &HTTPError{
		Code:     MakeUpperCaseWithUnderscores(http.StatusText(http.StatusForbidden)),
		Message:  message,
		Status:   http.StatusForbidden,
		Override: override,
		Errors:   []FieldError{},
	}
}

// NewBadRequestError creates a 400 Bad Request HTTPError.
//
//   - code: optional custom code (defaults to "BAD_REQUEST")
//   - errors: optional field errors
//   - action: optional client instruction
func NewBadRequestError(message string, override bool, code *string, errors []FieldError, action *Action) *HTTPError {
	formattedCode := MakeUpperCaseWithUnderscores(http.StatusText(http.StatusBadRequest))
	if code != nil {
		formattedCode = *code
	}

	return &HTTPError{
		Code:     formattedCode,
		Message:  message,
		Status:   http.StatusBadRequest,
		Override: override,
		Errors:   normalizeErrors(errors),
		Action:   action,
	}
}

// NewNotFoundError creates a 404 Not Found HTTPError with an optional custom code.
func NewNotFoundError(message string, override bool, code *string) *HTTPError {
	formattedCode := MakeUpperCaseWithUnderscores(http.StatusText(http.StatusNotFound))
	if code != nil {
		formattedCode = *code
	}

	return &HTTPError{
		Code:     formattedCode,
		Message:  message,
		Status:   http.StatusNotFound,
		Override: override,
		Errors:   []FieldError{},
	}
}

// NewInternalServerError creates a generic 500.
//
// The message is always the status text; the real cause belongs in logs.
func NewInternalServerError() *HTTPError {
	return &HTTPError{
		Code:     MakeUpperCaseWithUnderscores(http.StatusText(http.StatusInternalServerError)),
		Message:  http.StatusText(http.StatusInternalServerError),
		Status:   http.StatusInternalServerError,
		Override: false,
		Errors:   []FieldError{},
	}
}
