package errs

import "strings"

// FieldError is a single field-level problem, usually produced by request
// validation.
//
//	{ "field": "amount", "error": "must be a number greater than or equal to 1000" }
type FieldError struct {
	// Field is the wire name of the offending field (json/query/param name).
	Field string `json:"field"`

	// Error is the human-readable reason.
	Error string `json:"error"`
}

// ActionType names what the client should do next, e.g. "redirect".
type ActionType string

// Action is an optional instruction for the client, e.g. "redirect to the
// sign-in page".
type Action struct {
	Type    ActionType `json:"type"`
	Message string     `json:"message"`
	Value   string     `json:"value"`
}

// HTTPError is the exception type carried from handlers to the global error
// handler.
//
// Status and Message are always set. Errors is never nil once built through
// one of the constructors, so it serializes as [] rather than null.
type HTTPError struct {
	Code     string `json:"code"`
	Message  string `json:"message"`
	Status   int    `json:"status"`
	Override bool   `json:"override"`

	// Errors holds the ordered structured details (field errors for validation).
	Errors []FieldError `json:"errors"`

	// Action is an optional client instruction (redirect, etc.).
	Action *Action `json:"action"`
}

// Error returns the message so that logging an *HTTPError prints something useful.
func (e *HTTPError) Error() string {
	return e.Message
}

// Is makes errors.Is(err, &HTTPError{}) true for any *HTTPError, regardless
// of its status or code.
func (e *HTTPError) Is(target error) bool {
	_, ok := target.(*HTTPError)

	return ok
}

// MakeUpperCaseWithUnderscores converts "Bad Request" into "BAD_REQUEST".
//
// Used to derive stable machine-readable codes from HTTP status text.
func MakeUpperCaseWithUnderscores(str string) string {
	return strings.ToUpper(strings.ReplaceAll(str, " ", "_"))
}

// normalizeErrors guarantees a non-nil slice.
func normalizeErrors(errors []FieldError) []FieldError {
	if errors == nil {
		return []FieldError{}
	}
	return errors
}
