package db

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// schema creates the four tables the service relies on. The unique
// constraints back the upsert semantics: jobs conflict on
// (client_id, source, job_link), applications on (job_id, client_id).
const schema = `
CREATE TABLE IF NOT EXISTS clients (
	id          BIGSERIAL PRIMARY KEY,
	name        TEXT NOT NULL,
	email       TEXT,
	is_active   BOOLEAN NOT NULL DEFAULT TRUE,
	resume_text TEXT,
	created_at  TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE TABLE IF NOT EXISTS client_search_profiles (
	id        BIGSERIAL PRIMARY KEY,
	client_id BIGINT NOT NULL REFERENCES clients(id),
	name      TEXT NOT NULL,
	platforms TEXT[] NOT NULL DEFAULT '{}',
	keywords  TEXT[] NOT NULL DEFAULT '{}',
	locations TEXT[] NOT NULL DEFAULT '{}',
	is_active BOOLEAN NOT NULL DEFAULT TRUE
);

CREATE TABLE IF NOT EXISTS jobs (
	id              BIGSERIAL PRIMARY KEY,
	client_id       BIGINT NOT NULL REFERENCES clients(id),
	profile_id      BIGINT NOT NULL REFERENCES client_search_profiles(id),
	source          TEXT NOT NULL,
	external_id     TEXT,
	title           TEXT NOT NULL,
	company         TEXT,
	location        TEXT,
	job_link        TEXT NOT NULL,
	raw_description TEXT,
	match_score     INTEGER CHECK (match_score BETWEEN 0 AND 100),
	scraped_at      TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	UNIQUE (client_id, source, job_link)
);

CREATE TABLE IF NOT EXISTS job_applications (
	id              BIGSERIAL PRIMARY KEY,
	job_id          BIGINT NOT NULL REFERENCES jobs(id),
	client_id       BIGINT NOT NULL REFERENCES clients(id),
	provider        TEXT NOT NULL,
	status          TEXT NOT NULL CHECK (status IN ('PENDING', 'APPLIED', 'FAILED', 'SKIPPED')),
	application_url TEXT,
	error_message   TEXT,
	applied_at      TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	UNIQUE (job_id, client_id)
);

CREATE INDEX IF NOT EXISTS idx_jobs_client_scraped
	ON jobs (client_id, scraped_at DESC);
`

// EnsureSchema creates missing tables and indexes at startup.
func EnsureSchema(ctx context.Context, pool *pgxpool.Pool) error {
	if _, err := pool.Exec(ctx, schema); err != nil {
		return fmt.Errorf("ensure schema: %w", err)
	}
	return nil
}
