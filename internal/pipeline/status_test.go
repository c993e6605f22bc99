package pipeline_test

import (
	"testing"

	"jobautomation/pipeline-service/internal/pipeline"
)

// ── ParseStatus ────────────────────────────────────────────────────────────

func TestParseStatus_ValidValues(t *testing.T) {
	valid := []string{"PENDING", "APPLIED", "FAILED", "SKIPPED"}
	for _, s := range valid {
		got, err := pipeline.ParseStatus(s)
		if err != nil {
			t.Errorf("ParseStatus(%q) returned unexpected error: %v", s, err)
		}
		if string(got) != s {
			t.Errorf("ParseStatus(%q) = %q, want %q", s, got, s)
		}
	}
}

func TestParseStatus_InvalidValue(t *testing.T) {
	for _, s := range []string{"UNKNOWN", "APPROVED", ""} {
		if _, err := pipeline.ParseStatus(s); err == nil {
			t.Errorf("ParseStatus(%q) expected error, got nil", s)
		}
	}
}

func TestParseStatus_CaseSensitive(t *testing.T) {
	lowercase := []string{"pending", "applied", "failed", "skipped"}
	for _, s := range lowercase {
		if _, err := pipeline.ParseStatus(s); err == nil {
			t.Errorf("ParseStatus(%q) should reject lowercase value, got nil error", s)
		}
	}
}

func TestParseStatus_WithWhitespace(t *testing.T) {
	padded := []string{" APPLIED", "APPLIED ", " APPLIED "}
	for _, s := range padded {
		if _, err := pipeline.ParseStatus(s); err == nil {
			t.Errorf("ParseStatus(%q) should reject padded value, got nil error", s)
		}
	}
}

// ── IsTerminal ─────────────────────────────────────────────────────────────

// APPLIED and SKIPPED remove a job from the pending set; FAILED and PENDING
// leave it retry-eligible.
func TestIsTerminal(t *testing.T) {
	cases := []struct {
		status pipeline.Status
		want   bool
	}{
		{pipeline.StatusApplied, true},
		{pipeline.StatusSkipped, true},
		{pipeline.StatusPending, false},
		{pipeline.StatusFailed, false},
	}
	for _, c := range cases {
		if got := pipeline.IsTerminal(c.status); got != c.want {
			t.Errorf("IsTerminal(%s) = %v, want %v", c.status, got, c.want)
		}
	}
}
