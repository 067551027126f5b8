// Package validation validates request payloads.
//
// Request types declare their constraints in `validate` struct tags. The
// shared validator evaluates them (plus the custom rules registered here)
// and BindAndValidate turns failures into a 400 *errs.HTTPError that lists
// one entry per offending field, keyed by the field's wire name.
package validation
