package validation

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"reflect"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"

	"github.com/deppfellow/dna-testing-api/internal/errs"
)

// ValidationFailedMessage is the top-level message of every validation 400.
const ValidationFailedMessage = "Validation failed"

// Validatable is implemented by request payloads.
//
// The usual implementation is:
//
//	func (r *CreateReviewRequest) Validate() error {
//		return validation.Validator().Struct(r)
//	}
//
// Rules that tags cannot express are reported as CustomValidationErrors.
type Validatable interface {
	Validate() error
}

// MessageProvider lets a payload override the generic per-tag messages.
//
// Keys are "<field>.<tag>" (checked first) or "<field>", where field is
// the wire name.
type MessageProvider interface {
	ValidationMessages() map[string]string
}

// CustomValidationError is a single rule failure not expressible via tags.
type CustomValidationError struct {
	Field   string
	Message string
}

// CustomValidationErrors satisfies error so Validate can return it directly.
type CustomValidationErrors []CustomValidationError

func (c CustomValidationErrors) Error() string {
	return ValidationFailedMessage
}

// BindAndValidate binds request data into payload and validates it.
//
//  1. c.Bind fills payload from path params, query (GET/DELETE) and body.
//     A type mismatch becomes a field error ("must be a number") and is
//     reported together with the failures of step 2.
//  2. payload.Validate applies the declared rules.
//  3. Failures are returned as a 400 *errs.HTTPError with field errors.
//
// payload must be a pointer to a struct.
func BindAndValidate(c echo.Context, payload Validatable) error {
	if err := c.Bind(payload); err != nil {
		var typeErr *json.UnmarshalTypeError
		if !errors.As(err, &typeErr) {
			return bindError(err)
		}

		// The decoder keeps going after a type mismatch, so the rest of the
		// payload can still be checked.
		field := typeErr.Field
		if field == "" {
			field = "body"
		}
		fieldErrors := []errs.FieldError{{Field: field, Error: typeMessage(typeErr.Type)}}
		for _, fe := range Check(payload) {
			if fe.Field != field {
				fieldErrors = append(fieldErrors, fe)
			}
		}
		return errs.NewBadRequestError(ValidationFailedMessage, true, nil, fieldErrors, nil)
	}

	if fieldErrors := Check(payload); fieldErrors != nil {
		return errs.NewBadRequestError(ValidationFailedMessage, true, nil, fieldErrors, nil)
	}

	return nil
}

// Check runs v.Validate and converts a failure into field errors.
// It returns nil when v is valid.
func Check(v Validatable) []errs.FieldError {
	err := v.Validate()
	if err == nil {
		return nil
	}

	var messages map[string]string
	if provider, ok := v.(MessageProvider); ok {
		messages = provider.ValidationMessages()
	}

	return extractValidationError(err, messages)
}

func extractValidationError(err error, messages map[string]string) []errs.FieldError {
	fieldErrors := []errs.FieldError{}

	var customErrors CustomValidationErrors
	if errors.As(err, &customErrors) {
		for _, custom := range customErrors {
			fieldErrors = append(fieldErrors, errs.FieldError{
				Field: custom.Field,
				Error: custom.Message,
			})
		}
		return fieldErrors
	}

	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		// Not a field-level failure; still report it rather than dropping it.
		return append(fieldErrors, errs.FieldError{Field: "", Error: err.Error()})
	}

	for _, fe := range validationErrors {
		field := fe.Field()

		msg, ok := messages[field+"."+fe.Tag()]
		if !ok {
			msg, ok = messages[field]
		}
		if !ok {
			msg = tagMessage(fe)
		}

		fieldErrors = append(fieldErrors, errs.FieldError{
			Field: field,
			Error: msg,
		})
	}

	return fieldErrors
}

// tagMessage renders the generic message for a failed tag.
func tagMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"

	case "min", "gte":
		// min is a length for strings and a value for numbers.
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("must be at least %s characters", fe.Param())
		}
		return fmt.Sprintf("must be at least %s", fe.Param())

	case "max", "lte":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("must not exceed %s characters", fe.Param())
		}
		return fmt.Sprintf("must not exceed %s", fe.Param())

	case "oneof":
		return fmt.Sprintf("must be one of: %s", fe.Param())

	case "email":
		return "must be a valid email address"

	case "uuid", "uuid4":
		return "must be a valid UUID"

	case "isodate":
		return "must be a valid ISO 8601 date"

	case "dive":
		return "some items are invalid"

	default:
		if fe.Param() != "" {
			return fmt.Sprintf("failed %s:%s", fe.Tag(), fe.Param())
		}
		return fmt.Sprintf("failed %s", fe.Tag())
	}
}

// bindError converts an echo binding failure into an *errs.HTTPError.
func bindError(err error) error {
	var syntaxErr *json.SyntaxError
	if errors.As(err, &syntaxErr) || errors.Is(err, io.ErrUnexpectedEOF) {
		return errs.NewBadRequestError("Request body is not valid JSON", false, nil, nil, nil)
	}

	var echoErr *echo.HTTPError
	if errors.As(err, &echoErr) {
		message := http.StatusText(echoErr.Code)
		if msg, ok := echoErr.Message.(string); ok && msg != "" {
			message = msg
		}
		if echoErr.Code == http.StatusBadRequest {
			return errs.NewBadRequestError(message, false, nil, nil, nil)
		}
		return errs.NewHTTPError(echoErr.Code, message)
	}

	return errs.NewBadRequestError(err.Error(), false, nil, nil, nil)
}

func typeMessage(t reflect.Type) string {
	if t == nil {
		return "has an invalid type"
	}

	switch t.Kind() {
	case reflect.String:
		return "must be a string"
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return "must be a number"
	case reflect.Bool:
		return "must be a boolean"
	case reflect.Slice, reflect.Array:
		return "must be a list"
	case reflect.Struct, reflect.Map:
		return "must be an object"
	default:
		return "has an invalid type"
	}
}
