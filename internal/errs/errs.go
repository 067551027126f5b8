// Package errs defines the error types returned to API clients.
//
// Every failure a handler wants to surface is an *HTTPError: a status,
// a message and an ordered list of structured details. The global error
// handler in the middleware package is the only place that turns one into
// a response body, so handlers just return them.
package errs
