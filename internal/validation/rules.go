package validation

import (
	"reflect"
	"strings"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
)

// ISODateLayouts lists the formats accepted by the "isodate" rule, in the
// order they are tried.
var ISODateLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	time.DateOnly,
}

var (
	validateOnce sync.Once
	validate     *validator.Validate
)

// Validator returns the shared validator instance.
//
// It reports field names using their wire name (json, then query, then
// param tag) and knows the custom rules:
//   - isodate: a string parseable by ParseISODate
func Validator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
		validate.RegisterTagNameFunc(wireName)

		if err := validate.RegisterValidation("isodate", isISODate); err != nil {
			panic(err)
		}
	})
	return validate
}

// wireName resolves the name a client uses for a struct field.
func wireName(fld reflect.StructField) string {
	for _, tag := range []string{"json", "query", "param", "form"} {
		name := strings.SplitN(fld.Tag.Get(tag), ",", 2)[0]
		if name != "" && name != "-" {
			return name
		}
	}
	return fld.Name
}

func isISODate(fl validator.FieldLevel) bool {
	_, ok := ParseISODate(fl.Field().String())
	return ok
}

// ParseISODate parses an ISO-8601 date (YYYY-MM-DD) or timestamp.
//
// The boolean reports success; dateOnly values are returned at midnight UTC.
func ParseISODate(value string) (time.Time, bool) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, false
	}

	for _, layout := range ISODateLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t.UTC(), true
		}
	}
	return time.Time{}, false
}

// IsDateOnly reports whether value is a plain YYYY-MM-DD date.
func IsDateOnly(value string) bool {
	_, err := time.Parse(time.DateOnly, strings.TrimSpace(value))
	return err == nil
}
