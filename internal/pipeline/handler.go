package pipeline

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"go.uber.org/zap"

	"jobautomation/pipeline-service/internal/model"
)

// Default result-count limits when the caller omits one.
const (
	defaultPendingLimit = 20
	defaultSweepLimit   = 50
	defaultListLimit    = 50
)

// Handler exposes the pipeline over HTTP. Thin glue only: decoding,
// default limits and error mapping live here, everything else in Service.
type Handler struct {
	svc *Service
	log *zap.Logger
}

// NewHandler returns a configured Handler.
func NewHandler(svc *Service, log *zap.Logger) *Handler {
	return &Handler{svc: svc, log: log}
}

// RegisterRoutes mounts the pipeline routes on mux.
//
//	POST /internal/jobs/ingest           → upsert a batch of scraped jobs
//	GET  /internal/jobs/pending          → jobs awaiting an apply attempt
//	POST /internal/applications/results  → record auto-apply outcomes
//	POST /internal/jobs/score-sweep      → score a client's unscored jobs
//	GET  /clients/{id}/jobs              → list a client's jobs, newest first
func (h *Handler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("POST /internal/jobs/ingest", h.ingestJobs)
	mux.HandleFunc("GET /internal/jobs/pending", h.pendingJobs)
	mux.HandleFunc("POST /internal/applications/results", h.recordResults)
	mux.HandleFunc("POST /internal/jobs/score-sweep", h.scoreSweep)
	mux.HandleFunc("GET /clients/{id}/jobs", h.listJobs)
}

// ─── Individual handlers ──────────────────────────────────────────────────────

func (h *Handler) ingestJobs(w http.ResponseWriter, r *http.Request) {
	var jobs []model.JobIngest
	if err := decodeOneOrMany(r, &jobs); err != nil {
		jsonError(w, err.Error(), http.StatusBadRequest)
		return
	}

	processed, err := h.svc.IngestJobs(r.Context(), jobs)
	if err != nil {
		h.writeError(w, "ingestJobs", err)
		return
	}
	jsonOK(w, map[string]int{"total_processed": processed})
}

func (h *Handler) pendingJobs(w http.ResponseWriter, r *http.Request) {
	clientID, err := requiredID(r.URL.Query().Get("client_id"), "client_id")
	if err != nil {
		jsonError(w, err.Error(), http.StatusBadRequest)
		return
	}
	limit := limitOrDefault(r.URL.Query().Get("limit"), defaultPendingLimit)

	jobs, err := h.svc.PendingJobs(r.Context(), clientID, limit)
	if err != nil {
		h.writeError(w, "pendingJobs", err)
		return
	}
	jsonOK(w, jobs)
}

func (h *Handler) recordResults(w http.ResponseWriter, r *http.Request) {
	var results []model.ApplicationResult
	if err := decodeOneOrMany(r, &results); err != nil {
		jsonError(w, err.Error(), http.StatusBadRequest)
		return
	}

	processed, err := h.svc.RecordResults(r.Context(), results)
	if err != nil {
		h.writeError(w, "recordResults", err)
		return
	}
	jsonOK(w, map[string]int{"total_processed": processed})
}

func (h *Handler) scoreSweep(w http.ResponseWriter, r *http.Request) {
	var body struct {
		ClientID int64 `json:"client_id"`
		Limit    int   `json:"limit"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil || body.ClientID <= 0 {
		jsonError(w, "body must contain client_id", http.StatusBadRequest)
		return
	}
	if body.Limit <= 0 {
		body.Limit = defaultSweepLimit
	}

	scored, err := h.svc.ScoreSweep(r.Context(), body.ClientID, body.Limit)
	if err != nil {
		h.writeError(w, "scoreSweep", err)
		return
	}
	jsonOK(w, map[string]int{"processed": scored})
}

func (h *Handler) listJobs(w http.ResponseWriter, r *http.Request) {
	clientID, err := requiredID(r.PathValue("id"), "client id")
	if err != nil {
		jsonError(w, err.Error(), http.StatusBadRequest)
		return
	}
	limit := limitOrDefault(r.URL.Query().Get("limit"), defaultListLimit)

	jobs, err := h.svc.ListJobs(r.Context(), clientID, limit)
	if err != nil {
		h.writeError(w, "listJobs", err)
		return
	}
	jsonOK(w, jobs)
}

// writeError maps domain errors to HTTP responses. Store failures are never
// reported as a successful zero count.
func (h *Handler) writeError(w http.ResponseWriter, op string, err error) {
	var ve *ValidationError
	switch {
	case errors.As(err, &ve):
		jsonError(w, ve.Msg, http.StatusBadRequest)
	case errors.Is(err, ErrNoResume):
		jsonError(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, ErrClientNotFound):
		jsonError(w, err.Error(), http.StatusNotFound)
	default:
		h.log.Error("pipeline request failed", zap.String("op", op), zap.Error(err))
		jsonError(w, "database error", http.StatusInternalServerError)
	}
}

// ─── Decoding helpers ─────────────────────────────────────────────────────────

// decodeOneOrMany accepts either a single JSON object or a JSON array and
// normalizes into a slice, so callers may submit either shape.
func decodeOneOrMany[T any](r *http.Request, out *[]T) error {
	var raw json.RawMessage
	if err := json.NewDecoder(r.Body).Decode(&raw); err != nil {
		return fmt.Errorf("invalid JSON body")
	}
	return unmarshalOneOrMany(raw, out)
}

func unmarshalOneOrMany[T any](raw json.RawMessage, out *[]T) error {
	trimmed := bytes.TrimLeft(raw, " \t\r\n")
	if len(trimmed) > 0 && trimmed[0] == '[' {
		if err := json.Unmarshal(trimmed, out); err != nil {
			return fmt.Errorf("invalid JSON array body")
		}
		return nil
	}
	var one T
	if err := json.Unmarshal(trimmed, &one); err != nil {
		return fmt.Errorf("invalid JSON object body")
	}
	*out = []T{one}
	return nil
}

func requiredID(raw, name string) (int64, error) {
	if raw == "" {
		return 0, fmt.Errorf("%s is required", name)
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("%s must be a positive integer", name)
	}
	return id, nil
}

func limitOrDefault(raw string, def int) int {
	if raw == "" {
		return def
	}
	limit, err := strconv.Atoi(raw)
	if err != nil || limit <= 0 {
		return def
	}
	return limit
}

// ─── JSON helpers ─────────────────────────────────────────────────────────────

func jsonOK(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(v)
}

func jsonError(w http.ResponseWriter, msg string, code int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(map[string]string{"error": msg})
}
