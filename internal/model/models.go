// Package model defines shared data structures for the pipeline service.
package model

import "time"

// Client is an operator-managed account on whose behalf jobs are scraped
// and applications submitted. Resume text is stored inline and fully
// overwritten on each upload.
type Client struct {
	ID       int64   `json:"id"`
	Name     string  `json:"name"`
	Email    *string `json:"email"`
	IsActive bool    `json:"is_active"`
}

// SearchProfile describes what to scrape for a client. Active profiles are
// the ones eligible for external scraping triggers.
type SearchProfile struct {
	ID        int64    `json:"id"`
	ClientID  int64    `json:"client_id"`
	Name      string   `json:"name"`
	Platforms []string `json:"platforms"`
	Keywords  []string `json:"keywords"`
	Locations []string `json:"locations"`
	IsActive  bool     `json:"is_active"`
}

// JobIngest is one scraped posting submitted for upsert. The triple
// (client_id, source, job_link) is the natural key.
type JobIngest struct {
	ClientID       int64   `json:"client_id"`
	ProfileID      int64   `json:"profile_id"`
	Source         string  `json:"source"`
	ExternalID     *string `json:"external_id"`
	Title          string  `json:"title"`
	Company        *string `json:"company"`
	Location       *string `json:"location"`
	JobLink        string  `json:"job_link"`
	RawDescription *string `json:"raw_description"`
	MatchScore     *int    `json:"match_score"`
}

// Job mirrors a jobs table row. ScrapedAt is set at first insertion and
// never touched by later upserts of the same posting.
type Job struct {
	ID             int64     `json:"id"`
	ClientID       int64     `json:"client_id"`
	ProfileID      int64     `json:"profile_id"`
	Source         string    `json:"source"`
	ExternalID     *string   `json:"external_id"`
	Title          string    `json:"title"`
	Company        *string   `json:"company"`
	Location       *string   `json:"location"`
	JobLink        string    `json:"job_link"`
	RawDescription *string   `json:"raw_description"`
	MatchScore     *int      `json:"match_score"`
	ScrapedAt      time.Time `json:"scraped_at"`
}

// PendingJob is a Job extended with ranking fields derived from the owning
// search profile's keyword set.
type PendingJob struct {
	Job
	QueueScore      int      `json:"queue_score"`
	IsSenior        bool     `json:"is_senior"`
	IsRecruiter     bool     `json:"is_recruiter"`
	MatchedKeywords []string `json:"matched_keywords"`
}

// ApplicationResult records the outcome of one external auto-apply attempt.
// The (job_id, client_id) pair is unique; a later result overwrites the
// earlier one. A nil AppliedAt is stamped with the current time on write.
type ApplicationResult struct {
	JobID          int64      `json:"job_id"`
	ClientID       int64      `json:"client_id"`
	Provider       string     `json:"provider"`
	Status         string     `json:"status"`
	ApplicationURL *string    `json:"application_url"`
	ErrorMessage   *string    `json:"error_message"`
	AppliedAt      *time.Time `json:"applied_at"`
}
