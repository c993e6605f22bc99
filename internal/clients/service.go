// Package clients manages operator-facing client accounts and their
// job-search profiles, including stored resume text.
package clients

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"jobautomation/pipeline-service/internal/model"
)

// ErrNotFound is returned when the referenced client does not exist.
var ErrNotFound = errors.New("client not found")

// ValidationError wraps a user-facing validation message.
type ValidationError struct{ Msg string }

func (e *ValidationError) Error() string { return e.Msg }

// Service encapsulates client and search-profile persistence.
type Service struct {
	pool *pgxpool.Pool
	log  *zap.Logger
}

// NewService returns a configured Service.
func NewService(pool *pgxpool.Pool, log *zap.Logger) *Service {
	return &Service{pool: pool, log: log}
}

// ─── Clients ─────────────────────────────────────────────────────────────────

// CreateClient inserts a new active client.
func (s *Service) CreateClient(ctx context.Context, name string, email *string) (*model.Client, error) {
	if name == "" {
		return nil, &ValidationError{Msg: "name is required"}
	}

	var c model.Client
	err := s.pool.QueryRow(ctx,
		`INSERT INTO clients (name, email)
		 VALUES ($1, $2)
		 RETURNING id, name, email, is_active`,
		name, email,
	).Scan(&c.ID, &c.Name, &c.Email, &c.IsActive)
	if err != nil {
		return nil, fmt.Errorf("createClient: %w", err)
	}
	return &c, nil
}

// ListClients returns all clients ordered by id.
func (s *Service) ListClients(ctx context.Context) ([]model.Client, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT id, name, email, is_active FROM clients ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("listClients query: %w", err)
	}
	defer rows.Close()

	clients := make([]model.Client, 0)
	for rows.Next() {
		var c model.Client
		if err := rows.Scan(&c.ID, &c.Name, &c.Email, &c.IsActive); err != nil {
			return nil, fmt.Errorf("listClients scan: %w", err)
		}
		clients = append(clients, c)
	}
	return clients, rows.Err()
}

// SetResume overwrites the client's stored resume text. Resume text is never
// versioned; each upload fully replaces the previous one.
func (s *Service) SetResume(ctx context.Context, clientID int64, text string) error {
	tag, err := s.pool.Exec(ctx,
		`UPDATE clients SET resume_text = $1 WHERE id = $2`, text, clientID)
	if err != nil {
		return fmt.Errorf("setResume: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// ClientIDsWithResume returns ids of active clients with stored resume text,
// the population the periodic scoring sweep walks.
func (s *Service) ClientIDsWithResume(ctx context.Context) ([]int64, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT id FROM clients
		 WHERE is_active = TRUE AND resume_text IS NOT NULL
		 ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("clientIDsWithResume query: %w", err)
	}
	defer rows.Close()

	ids := make([]int64, 0)
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("clientIDsWithResume scan: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// ─── Search profiles ─────────────────────────────────────────────────────────

// ProfileInput is the payload for creating a search profile.
type ProfileInput struct {
	Name      string   `json:"name"`
	Platforms []string `json:"platforms"`
	Keywords  []string `json:"keywords"`
	Locations []string `json:"locations"`
}

// CreateProfile inserts a new active search profile under a client.
func (s *Service) CreateProfile(ctx context.Context, clientID int64, in ProfileInput) (*model.SearchProfile, error) {
	if in.Name == "" {
		return nil, &ValidationError{Msg: "name is required"}
	}

	var p model.SearchProfile
	err := s.pool.QueryRow(ctx,
		`INSERT INTO client_search_profiles
			(client_id, name, platforms, keywords, locations)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING id, client_id, name, platforms, keywords, locations, is_active`,
		clientID, in.Name, in.Platforms, in.Keywords, in.Locations,
	).Scan(&p.ID, &p.ClientID, &p.Name, &p.Platforms, &p.Keywords, &p.Locations, &p.IsActive)
	if err != nil {
		return nil, fmt.Errorf("createProfile: %w", err)
	}
	return &p, nil
}

// ListProfiles returns a client's search profiles ordered by id.
func (s *Service) ListProfiles(ctx context.Context, clientID int64) ([]model.SearchProfile, error) {
	return s.queryProfiles(ctx,
		`SELECT id, client_id, name, platforms, keywords, locations, is_active
		 FROM client_search_profiles
		 WHERE client_id = $1
		 ORDER BY id`,
		clientID)
}

// ActiveProfiles returns every active profile across all clients. This is
// the set an external scraping trigger polls for work.
func (s *Service) ActiveProfiles(ctx context.Context) ([]model.SearchProfile, error) {
	return s.queryProfiles(ctx,
		`SELECT id, client_id, name, platforms, keywords, locations, is_active
		 FROM client_search_profiles
		 WHERE is_active = TRUE
		 ORDER BY id`)
}

func (s *Service) queryProfiles(ctx context.Context, sql string, args ...any) ([]model.SearchProfile, error) {
	rows, err := s.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("profiles query: %w", err)
	}
	defer rows.Close()

	profiles := make([]model.SearchProfile, 0)
	for rows.Next() {
		var p model.SearchProfile
		if err := rows.Scan(
			&p.ID, &p.ClientID, &p.Name,
			&p.Platforms, &p.Keywords, &p.Locations, &p.IsActive,
		); err != nil {
			return nil, fmt.Errorf("profiles scan: %w", err)
		}
		profiles = append(profiles, p)
	}
	return profiles, rows.Err()
}
