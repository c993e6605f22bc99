package pipeline

import (
	"sort"
	"strings"

	"jobautomation/pipeline-service/internal/model"
)

// seniorityTerms mark a posting as senior-level when any appears in the
// title (case-insensitive).
var seniorityTerms = []string{
	"senior", "sr.", "staff", "principal", "lead", "architect", "head of",
}

// recruiterTerms mark a posting as coming from a staffing agency rather
// than the hiring company itself.
var recruiterTerms = []string{
	"recruiting", "recruitment", "recruiter", "staffing", "headhunter",
	"talent acquisition", "talent partner",
}

// Enrich extends a job with ranking fields derived from the owning search
// profile's keyword set. The derivation is deterministic: matched keywords
// are profile keywords found as substrings in title + description, and the
// queue score is the matched share as a truncated integer percentage.
func Enrich(job model.Job, keywords []string) model.PendingJob {
	haystack := strings.ToLower(job.Title)
	if job.RawDescription != nil {
		haystack += " " + strings.ToLower(*job.RawDescription)
	}

	matched := make([]string, 0, len(keywords))
	for _, kw := range keywords {
		kw = strings.TrimSpace(kw)
		if kw == "" {
			continue
		}
		if strings.Contains(haystack, strings.ToLower(kw)) {
			matched = append(matched, kw)
		}
	}
	sort.Strings(matched)

	score := 0
	if len(keywords) > 0 {
		score = len(matched) * 100 / len(keywords)
	}

	company := ""
	if job.Company != nil {
		company = *job.Company
	}

	return model.PendingJob{
		Job:             job,
		QueueScore:      score,
		IsSenior:        containsAny(job.Title, seniorityTerms),
		IsRecruiter:     containsAny(job.Title+" "+company, recruiterTerms),
		MatchedKeywords: matched,
	}
}

// containsAny reports whether any term appears (case-insensitive) in text.
func containsAny(text string, terms []string) bool {
	lower := strings.ToLower(text)
	for _, term := range terms {
		if strings.Contains(lower, term) {
			return true
		}
	}
	return false
}
