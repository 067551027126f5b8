// Package sqlerr translates database driver errors.
//
// Raw PostgreSQL errors (SQLSTATE codes) are mapped into a small set of
// categories and then into client-facing *errs.HTTPError values, e.g. a
// unique violation becomes a 400 with "A review with this appointment
// already exists".
package sqlerr

import "fmt"

// Code is a database-agnostic error category.
type Code string

const (
	Other               Code = "other"
	NotNullViolation    Code = "not_null_violation"
	ForeignKeyViolation Code = "foreign_key_violation"
	UniqueViolation     Code = "unique_violation"
	CheckViolation      Code = "check_violation"
	ExclusionViolation  Code = "exclusion_violation"
	InvalidText         Code = "invalid_text_representation"
	NumericOutOfRange   Code = "numeric_value_out_of_range"
	TooManyConnections  Code = "too_many_connections"
	DeadlockDetected    Code = "deadlock_detected"
)

// Severity mirrors the PostgreSQL severity field.
type Severity string

const (
	SeverityError   Severity = "ERROR"
	SeverityFatal   Severity = "FATAL"
	SeverityPanic   Severity = "PANIC"
	SeverityWarning Severity = "WARNING"
	SeverityNotice  Severity = "NOTICE"
	SeverityDebug   Severity = "DEBUG"
	SeverityInfo    Severity = "INFO"
	SeverityLog     Severity = "LOG"
)

// Error is a normalized database error.
type Error struct {
	Code           Code
	Severity       Severity
	DatabaseCode   string
	Message        string
	SchemaName     string
	TableName      string
	ColumnName     string
	DataTypeName   string
	ConstraintName string
	driverErr      error
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s %s: %s", e.Severity, e.DatabaseCode, e.Message)
}

// Unwrap exposes the original driver error.
func (e *Error) Unwrap() error {
	return e.driverErr
}

// sqlStateCodes maps SQLSTATE values to categories.
// https://www.postgresql.org/docs/current/errcodes-appendix.html
var sqlStateCodes = map[string]Code{
	"23502": NotNullViolation,
	"23503": ForeignKeyViolation,
	"23505": UniqueViolation,
	"23514": CheckViolation,
	"23P01": ExclusionViolation,
	"22P02": InvalidText,
	"22003": NumericOutOfRange,
	"53300": TooManyConnections,
	"40P01": DeadlockDetected,
}

// MapCode converts a SQLSTATE into a Code.
func MapCode(sqlState string) Code {
	if code, ok := sqlStateCodes[sqlState]; ok {
		return code
	}
	return Other
}

// MapSeverity converts the severity string reported by PostgreSQL.
func MapSeverity(severity string) Severity {
	switch Severity(severity) {
	case SeverityError, SeverityFatal, SeverityPanic, SeverityWarning,
		SeverityNotice, SeverityDebug, SeverityInfo, SeverityLog:
		return Severity(severity)
	default:
		return SeverityError
	}
}
