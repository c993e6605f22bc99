package pipeline

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"jobautomation/pipeline-service/internal/model"
	"jobautomation/pipeline-service/internal/scorer"
)

// ─── Sentinel errors ─────────────────────────────────────────────────────────

// ErrClientNotFound is returned when the referenced client does not exist.
var ErrClientNotFound = errors.New("client not found")

// ErrNoResume is returned when a scoring sweep is requested for a client
// without stored resume text.
var ErrNoResume = errors.New("client has no stored resume")

// ValidationError wraps a user-facing validation message.
type ValidationError struct{ Msg string }

func (e *ValidationError) Error() string { return e.Msg }

// ─── Service ─────────────────────────────────────────────────────────────────

// Service encapsulates the pipeline business logic. It has no dependency on
// net/http and can be driven by any transport or by the cron scheduler.
type Service struct {
	pool *pgxpool.Pool
	rdb  *redis.Client
	log  *zap.Logger
}

// NewService returns a configured Service.
func NewService(pool *pgxpool.Pool, rdb *redis.Client, log *zap.Logger) *Service {
	return &Service{pool: pool, rdb: rdb, log: log}
}

// ─── Job upsert engine ───────────────────────────────────────────────────────

const upsertJobSQL = `
	INSERT INTO jobs (
		client_id, profile_id, source, external_id,
		title, company, location, job_link, raw_description, match_score
	)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	ON CONFLICT (client_id, source, job_link)
	DO UPDATE SET
		profile_id      = EXCLUDED.profile_id,
		external_id     = EXCLUDED.external_id,
		title           = EXCLUDED.title,
		company         = EXCLUDED.company,
		location        = EXCLUDED.location,
		raw_description = EXCLUDED.raw_description,
		match_score     = EXCLUDED.match_score`

// IngestJobs upserts a batch of scraped postings keyed on
// (client_id, source, job_link). The batch is applied in submission order
// inside one transaction, so duplicate keys within a batch resolve
// last-one-wins and a mid-batch failure leaves nothing behind. The original
// scraped_at survives every re-ingest of the same posting.
func (s *Service) IngestJobs(ctx context.Context, jobs []model.JobIngest) (int, error) {
	if len(jobs) == 0 {
		return 0, nil
	}
	for i := range jobs {
		if err := validateIngest(&jobs[i]); err != nil {
			return 0, err
		}
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return 0, fmt.Errorf("begin ingest tx: %w", err)
	}
	defer tx.Rollback(ctx)

	batch := &pgx.Batch{}
	for _, j := range jobs {
		batch.Queue(upsertJobSQL,
			j.ClientID, j.ProfileID, j.Source, j.ExternalID,
			j.Title, j.Company, j.Location, j.JobLink,
			j.RawDescription, j.MatchScore,
		)
	}

	if err := sendBatch(ctx, tx, batch); err != nil {
		return 0, fmt.Errorf("upsert jobs: %w", err)
	}
	if err := tx.Commit(ctx); err != nil {
		return 0, fmt.Errorf("commit ingest tx: %w", err)
	}

	s.publish(ctx, "EVENT_JOBS_INGESTED", map[string]any{
		"batchId": uuid.NewString(),
		"count":   len(jobs),
	})
	return len(jobs), nil
}

func validateIngest(j *model.JobIngest) error {
	switch {
	case j.ClientID <= 0:
		return &ValidationError{Msg: "client_id is required"}
	case j.ProfileID <= 0:
		return &ValidationError{Msg: "profile_id is required"}
	case j.Source == "":
		return &ValidationError{Msg: "source is required"}
	case j.Title == "":
		return &ValidationError{Msg: "title is required"}
	case j.JobLink == "":
		return &ValidationError{Msg: "job_link is required"}
	}
	if j.MatchScore != nil && (*j.MatchScore < 0 || *j.MatchScore > 100) {
		return &ValidationError{Msg: "match_score must be between 0 and 100"}
	}
	return nil
}

// ─── Pending-work selector ───────────────────────────────────────────────────

// PendingJobs returns up to limit jobs for the client that have no linked
// application with a terminal status, newest-scraped first, each enriched
// with ranking fields from its owning profile's keywords. Read-only: no
// locking or claim semantics.
func (s *Service) PendingJobs(ctx context.Context, clientID int64, limit int) ([]model.PendingJob, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT j.id, j.client_id, j.profile_id, j.source, j.external_id,
		        j.title, j.company, j.location, j.job_link,
		        j.raw_description, j.match_score, j.scraped_at,
		        COALESCE(p.keywords, '{}')
		 FROM jobs j
		 LEFT JOIN client_search_profiles p ON p.id = j.profile_id
		 WHERE j.client_id = $1
		   AND NOT EXISTS (
		     SELECT 1 FROM job_applications a
		     WHERE a.job_id = j.id
		       AND a.client_id = j.client_id
		       AND a.status IN ('APPLIED', 'SKIPPED')
		   )
		 ORDER BY j.scraped_at DESC
		 LIMIT $2`,
		clientID, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("pendingJobs query: %w", err)
	}
	defer rows.Close()

	pending := make([]model.PendingJob, 0)
	for rows.Next() {
		var (
			job      model.Job
			keywords []string
		)
		if err := rows.Scan(
			&job.ID, &job.ClientID, &job.ProfileID, &job.Source, &job.ExternalID,
			&job.Title, &job.Company, &job.Location, &job.JobLink,
			&job.RawDescription, &job.MatchScore, &job.ScrapedAt,
			&keywords,
		); err != nil {
			return nil, fmt.Errorf("pendingJobs scan: %w", err)
		}
		pending = append(pending, Enrich(job, keywords))
	}
	return pending, rows.Err()
}

// ─── Application result recorder ─────────────────────────────────────────────

const upsertResultSQL = `
	INSERT INTO job_applications (
		job_id, client_id, provider, status,
		application_url, error_message, applied_at
	)
	VALUES ($1, $2, $3, $4, $5, $6, COALESCE($7, NOW()))
	ON CONFLICT (job_id, client_id)
	DO UPDATE SET
		provider        = EXCLUDED.provider,
		status          = EXCLUDED.status,
		application_url = EXCLUDED.application_url,
		error_message   = EXCLUDED.error_message,
		applied_at      = EXCLUDED.applied_at`

// RecordResults upserts a batch of auto-apply outcomes keyed on
// (job_id, client_id): last write wins, no history accumulates. A missing
// applied_at is stamped with the current time by the store.
func (s *Service) RecordResults(ctx context.Context, results []model.ApplicationResult) (int, error) {
	if len(results) == 0 {
		return 0, nil
	}
	for i := range results {
		if err := validateResult(&results[i]); err != nil {
			return 0, err
		}
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return 0, fmt.Errorf("begin results tx: %w", err)
	}
	defer tx.Rollback(ctx)

	batch := &pgx.Batch{}
	for _, r := range results {
		batch.Queue(upsertResultSQL,
			r.JobID, r.ClientID, r.Provider, r.Status,
			r.ApplicationURL, r.ErrorMessage, r.AppliedAt,
		)
	}

	if err := sendBatch(ctx, tx, batch); err != nil {
		return 0, fmt.Errorf("upsert application results: %w", err)
	}
	if err := tx.Commit(ctx); err != nil {
		return 0, fmt.Errorf("commit results tx: %w", err)
	}

	s.publish(ctx, "EVENT_RESULTS_RECORDED", map[string]any{
		"batchId": uuid.NewString(),
		"count":   len(results),
	})
	return len(results), nil
}

func validateResult(r *model.ApplicationResult) error {
	switch {
	case r.JobID <= 0:
		return &ValidationError{Msg: "job_id is required"}
	case r.ClientID <= 0:
		return &ValidationError{Msg: "client_id is required"}
	case r.Provider == "":
		return &ValidationError{Msg: "provider is required"}
	}
	if _, err := ParseStatus(r.Status); err != nil {
		return &ValidationError{Msg: err.Error()}
	}
	return nil
}

// ─── Scoring sweep ───────────────────────────────────────────────────────────

// ScoreSweep scores up to limit of the client's unscored jobs against the
// stored resume and persists the results as one transaction. Jobs without a
// raw description are never selected; they stay unscored until a later
// ingest supplies one. Returns the number of jobs scored.
func (s *Service) ScoreSweep(ctx context.Context, clientID int64, limit int) (int, error) {
	var resume *string
	err := s.pool.QueryRow(ctx,
		`SELECT resume_text FROM clients WHERE id = $1`, clientID,
	).Scan(&resume)
	if errors.Is(err, pgx.ErrNoRows) {
		return 0, ErrClientNotFound
	}
	if err != nil {
		return 0, fmt.Errorf("load resume: %w", err)
	}
	if resume == nil || strings.TrimSpace(*resume) == "" {
		return 0, ErrNoResume
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return 0, fmt.Errorf("begin sweep tx: %w", err)
	}
	defer tx.Rollback(ctx)

	rows, err := tx.Query(ctx,
		`SELECT id, raw_description FROM jobs
		 WHERE client_id = $1
		   AND match_score IS NULL
		   AND raw_description IS NOT NULL
		 ORDER BY scraped_at DESC
		 LIMIT $2`,
		clientID, limit,
	)
	if err != nil {
		return 0, fmt.Errorf("select unscored jobs: %w", err)
	}

	type target struct {
		id          int64
		description string
	}
	targets := make([]target, 0, limit)
	for rows.Next() {
		var t target
		if err := rows.Scan(&t.id, &t.description); err != nil {
			rows.Close()
			return 0, fmt.Errorf("scan unscored job: %w", err)
		}
		targets = append(targets, t)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return 0, fmt.Errorf("iterate unscored jobs: %w", err)
	}
	if len(targets) == 0 {
		return 0, tx.Commit(ctx)
	}

	batch := &pgx.Batch{}
	for _, t := range targets {
		score := scorer.MatchScore(*resume, t.description)
		batch.Queue(
			`UPDATE jobs SET match_score = $1
			 WHERE id = $2 AND match_score IS NULL`,
			score, t.id,
		)
	}

	if err := sendBatch(ctx, tx, batch); err != nil {
		return 0, fmt.Errorf("persist scores: %w", err)
	}
	if err := tx.Commit(ctx); err != nil {
		return 0, fmt.Errorf("commit sweep tx: %w", err)
	}

	s.publish(ctx, "EVENT_SWEEP_COMPLETED", map[string]any{
		"sweepId":  uuid.NewString(),
		"clientId": clientID,
		"scored":   len(targets),
	})
	return len(targets), nil
}

// ─── Job listing ─────────────────────────────────────────────────────────────

// ListJobs returns the client's jobs, newest-scraped first, capped at limit.
func (s *Service) ListJobs(ctx context.Context, clientID int64, limit int) ([]model.Job, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT id, client_id, profile_id, source, external_id,
		        title, company, location, job_link,
		        raw_description, match_score, scraped_at
		 FROM jobs
		 WHERE client_id = $1
		 ORDER BY scraped_at DESC
		 LIMIT $2`,
		clientID, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("listJobs query: %w", err)
	}
	defer rows.Close()

	jobs := make([]model.Job, 0)
	for rows.Next() {
		var j model.Job
		if err := rows.Scan(
			&j.ID, &j.ClientID, &j.ProfileID, &j.Source, &j.ExternalID,
			&j.Title, &j.Company, &j.Location, &j.JobLink,
			&j.RawDescription, &j.MatchScore, &j.ScrapedAt,
		); err != nil {
			return nil, fmt.Errorf("listJobs scan: %w", err)
		}
		jobs = append(jobs, j)
	}
	return jobs, rows.Err()
}

// ─── Helpers ─────────────────────────────────────────────────────────────────

// sendBatch executes every queued statement in order and surfaces the first
// failure. The surrounding transaction makes the batch all-or-nothing.
func sendBatch(ctx context.Context, tx pgx.Tx, batch *pgx.Batch) error {
	br := tx.SendBatch(ctx, batch)
	for i := 0; i < batch.Len(); i++ {
		if _, err := br.Exec(); err != nil {
			br.Close()
			return err
		}
	}
	return br.Close()
}

// publish emits a domain event on Redis pub/sub. Non-fatal: subscribers are
// observers, so a failed publish is logged and the request still succeeds.
func (s *Service) publish(ctx context.Context, channel string, payload map[string]any) {
	payload["type"] = channel
	event, _ := json.Marshal(payload)
	if err := s.rdb.Publish(ctx, channel, event).Err(); err != nil {
		s.log.Warn("event publish failed",
			zap.String("channel", channel), zap.Error(err))
	}
}
