// Package lib groups integrations that sit beside the request layers:
// background jobs on Asynq (lib/job) and transactional email through
// Resend (lib/email).
package lib
