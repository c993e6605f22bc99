package pipeline

import (
	"encoding/json"
	"errors"
	"testing"

	"jobautomation/pipeline-service/internal/model"
)

// ── Single-or-batch normalization ──────────────────────────────────────────

func TestUnmarshalOneOrMany_SingleObject(t *testing.T) {
	raw := json.RawMessage(`{"client_id":1,"profile_id":2,"source":"dice","title":"Engineer I","job_link":"https://x/1"}`)

	var jobs []model.JobIngest
	if err := unmarshalOneOrMany(raw, &jobs); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(jobs) != 1 {
		t.Fatalf("got %d records, want 1", len(jobs))
	}
	if jobs[0].Source != "dice" || jobs[0].Title != "Engineer I" {
		t.Errorf("decoded record mismatch: %+v", jobs[0])
	}
}

func TestUnmarshalOneOrMany_Array(t *testing.T) {
	raw := json.RawMessage(`[
		{"client_id":1,"profile_id":2,"source":"dice","title":"Engineer I","job_link":"https://x/1"},
		{"client_id":1,"profile_id":2,"source":"dice","title":"Engineer II","job_link":"https://x/2"}
	]`)

	var jobs []model.JobIngest
	if err := unmarshalOneOrMany(raw, &jobs); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(jobs) != 2 {
		t.Fatalf("got %d records, want 2", len(jobs))
	}
	// Submission order must be preserved: in-batch duplicates resolve
	// last-one-wins only if order survives decoding.
	if jobs[0].Title != "Engineer I" || jobs[1].Title != "Engineer II" {
		t.Errorf("order not preserved: %+v", jobs)
	}
}

func TestUnmarshalOneOrMany_EmptyArray(t *testing.T) {
	var jobs []model.JobIngest
	if err := unmarshalOneOrMany(json.RawMessage(`[]`), &jobs); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(jobs) != 0 {
		t.Errorf("got %d records, want 0", len(jobs))
	}
}

func TestUnmarshalOneOrMany_LeadingWhitespace(t *testing.T) {
	var jobs []model.JobIngest
	raw := json.RawMessage("\n\t [{\"client_id\":1,\"profile_id\":1,\"source\":\"dice\",\"title\":\"T\",\"job_link\":\"https://x/1\"}]")
	if err := unmarshalOneOrMany(raw, &jobs); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(jobs) != 1 {
		t.Errorf("got %d records, want 1", len(jobs))
	}
}

func TestUnmarshalOneOrMany_Malformed(t *testing.T) {
	for _, raw := range []string{`"just a string"`, `[{"client_id":}]`, `42`} {
		var jobs []model.JobIngest
		if err := unmarshalOneOrMany(json.RawMessage(raw), &jobs); err == nil {
			t.Errorf("unmarshalOneOrMany(%s) expected error, got nil", raw)
		}
	}
}

// ── Validation ─────────────────────────────────────────────────────────────

func TestValidateIngest(t *testing.T) {
	base := model.JobIngest{
		ClientID: 1, ProfileID: 2, Source: "dice",
		Title: "Engineer I", JobLink: "https://x/1",
	}
	if err := validateIngest(&base); err != nil {
		t.Fatalf("valid record rejected: %v", err)
	}

	score := 150
	cases := []struct {
		name   string
		mutate func(*model.JobIngest)
	}{
		{"missing client_id", func(j *model.JobIngest) { j.ClientID = 0 }},
		{"missing profile_id", func(j *model.JobIngest) { j.ProfileID = 0 }},
		{"missing source", func(j *model.JobIngest) { j.Source = "" }},
		{"missing title", func(j *model.JobIngest) { j.Title = "" }},
		{"missing job_link", func(j *model.JobIngest) { j.JobLink = "" }},
		{"score out of range", func(j *model.JobIngest) { j.MatchScore = &score }},
	}
	for _, c := range cases {
		j := base
		c.mutate(&j)
		err := validateIngest(&j)
		if err == nil {
			t.Errorf("%s: expected validation error, got nil", c.name)
			continue
		}
		var ve *ValidationError
		if !errors.As(err, &ve) {
			t.Errorf("%s: error %v is not a ValidationError", c.name, err)
		}
	}
}

func TestValidateIngest_NullExternalIDIsLegal(t *testing.T) {
	j := model.JobIngest{
		ClientID: 1, ProfileID: 2, Source: "dice",
		Title: "Engineer I", JobLink: "https://x/1",
		ExternalID: nil,
	}
	if err := validateIngest(&j); err != nil {
		t.Errorf("nil external_id rejected: %v", err)
	}
}

func TestValidateResult(t *testing.T) {
	base := model.ApplicationResult{
		JobID: 5, ClientID: 1, Provider: "dice", Status: "APPLIED",
	}
	if err := validateResult(&base); err != nil {
		t.Fatalf("valid record rejected: %v", err)
	}

	cases := []struct {
		name   string
		mutate func(*model.ApplicationResult)
	}{
		{"missing job_id", func(r *model.ApplicationResult) { r.JobID = 0 }},
		{"missing client_id", func(r *model.ApplicationResult) { r.ClientID = 0 }},
		{"missing provider", func(r *model.ApplicationResult) { r.Provider = "" }},
		{"unknown status", func(r *model.ApplicationResult) { r.Status = "DONE" }},
		{"empty status", func(r *model.ApplicationResult) { r.Status = "" }},
	}
	for _, c := range cases {
		r := base
		c.mutate(&r)
		if err := validateResult(&r); err == nil {
			t.Errorf("%s: expected validation error, got nil", c.name)
		}
	}
}

// ── Query parameter helpers ────────────────────────────────────────────────

func TestRequiredID(t *testing.T) {
	if _, err := requiredID("", "client_id"); err == nil {
		t.Error("empty id accepted")
	}
	if _, err := requiredID("abc", "client_id"); err == nil {
		t.Error("non-numeric id accepted")
	}
	if _, err := requiredID("-3", "client_id"); err == nil {
		t.Error("negative id accepted")
	}
	id, err := requiredID("42", "client_id")
	if err != nil || id != 42 {
		t.Errorf("requiredID(\"42\") = (%d, %v), want (42, nil)", id, err)
	}
}

func TestLimitOrDefault(t *testing.T) {
	cases := []struct {
		raw  string
		def  int
		want int
	}{
		{"", 20, 20},
		{"5", 20, 5},
		{"0", 20, 20},
		{"-1", 50, 50},
		{"abc", 50, 50},
	}
	for _, c := range cases {
		if got := limitOrDefault(c.raw, c.def); got != c.want {
			t.Errorf("limitOrDefault(%q, %d) = %d, want %d", c.raw, c.def, got, c.want)
		}
	}
}
