// Package middleware holds the global and route-level echo middleware:
// Clerk authentication and roles, request context augmentation, multipart
// uploads, request logging, rate limiting, tracing and the error handler.
package middleware
