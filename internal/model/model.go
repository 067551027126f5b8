// Package model holds the request payloads, response bodies and entities
// shared by the handler, service and repository layers.
//
// Request types declare their rules in `validate` tags and implement
// validation.Validatable so they can be passed to handler.Handle.
package model
