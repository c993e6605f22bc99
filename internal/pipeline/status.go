// Package pipeline implements the core job pipeline: idempotent ingestion,
// pending-work selection, application-result recording and the resume-match
// scoring sweep. It is transport-agnostic; handler.go provides the HTTP glue.
//
// Application status values mirror the CHECK constraint on
// job_applications.status:
//
//	PENDING — queued for an external auto-apply attempt
//	APPLIED — application submitted (terminal)
//	FAILED  — attempt failed, the job stays pending and is retry-eligible
//	SKIPPED — deliberately not applied (terminal)
package pipeline

import "fmt"

// Status is the outcome recorded for one (job, client) application attempt.
type Status string

const (
	StatusPending Status = "PENDING"
	StatusApplied Status = "APPLIED"
	StatusFailed  Status = "FAILED"
	StatusSkipped Status = "SKIPPED"
)

// ParseStatus converts a raw string to a Status, returning an error for
// unknown values.
func ParseStatus(s string) (Status, error) {
	st := Status(s)
	switch st {
	case StatusPending, StatusApplied, StatusFailed, StatusSkipped:
		return st, nil
	}
	return "", fmt.Errorf("unknown application status %q", s)
}

// IsTerminal reports whether a status removes the job from the pending set.
// Only APPLIED and SKIPPED are terminal; FAILED keeps the job retry-eligible.
func IsTerminal(s Status) bool {
	return s == StatusApplied || s == StatusSkipped
}
