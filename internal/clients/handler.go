package clients

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"

	"go.uber.org/zap"

	"jobautomation/pipeline-service/internal/resume"
)

// maxResumeUpload caps uploaded resume documents at 10 MiB.
const maxResumeUpload = 10 << 20

// Handler exposes client and profile management over HTTP.
type Handler struct {
	svc *Service
	log *zap.Logger
}

// NewHandler returns a configured Handler.
func NewHandler(svc *Service, log *zap.Logger) *Handler {
	return &Handler{svc: svc, log: log}
}

// RegisterRoutes mounts the client-management routes on mux.
//
//	GET  /clients                           → list clients
//	POST /clients                           → create a client
//	GET  /clients/{id}/profiles             → list a client's search profiles
//	POST /clients/{id}/profiles             → create a search profile
//	POST /clients/{id}/resume               → upload a resume PDF
//	GET  /internal/search-profiles-to-run   → active profiles for scraping
func (h *Handler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /clients", h.listClients)
	mux.HandleFunc("POST /clients", h.createClient)
	mux.HandleFunc("GET /clients/{id}/profiles", h.listProfiles)
	mux.HandleFunc("POST /clients/{id}/profiles", h.createProfile)
	mux.HandleFunc("POST /clients/{id}/resume", h.uploadResume)
	mux.HandleFunc("GET /internal/search-profiles-to-run", h.profilesToRun)
}

// ─── Individual handlers ──────────────────────────────────────────────────────

func (h *Handler) listClients(w http.ResponseWriter, r *http.Request) {
	clients, err := h.svc.ListClients(r.Context())
	if err != nil {
		h.writeError(w, "listClients", err)
		return
	}
	jsonOK(w, clients)
}

func (h *Handler) createClient(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Name  string  `json:"name"`
		Email *string `json:"email"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		jsonError(w, "invalid JSON body", http.StatusBadRequest)
		return
	}

	client, err := h.svc.CreateClient(r.Context(), body.Name, body.Email)
	if err != nil {
		h.writeError(w, "createClient", err)
		return
	}
	jsonOK(w, client)
}

func (h *Handler) listProfiles(w http.ResponseWriter, r *http.Request) {
	clientID, ok := h.pathClientID(w, r)
	if !ok {
		return
	}
	profiles, err := h.svc.ListProfiles(r.Context(), clientID)
	if err != nil {
		h.writeError(w, "listProfiles", err)
		return
	}
	jsonOK(w, profiles)
}

func (h *Handler) createProfile(w http.ResponseWriter, r *http.Request) {
	clientID, ok := h.pathClientID(w, r)
	if !ok {
		return
	}

	var in ProfileInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		jsonError(w, "invalid JSON body", http.StatusBadRequest)
		return
	}

	profile, err := h.svc.CreateProfile(r.Context(), clientID, in)
	if err != nil {
		h.writeError(w, "createProfile", err)
		return
	}
	jsonOK(w, profile)
}

// uploadResume extracts plain text from an uploaded PDF and stores it on the
// client. On any extraction failure the previously stored resume, if any, is
// left untouched.
func (h *Handler) uploadResume(w http.ResponseWriter, r *http.Request) {
	clientID, ok := h.pathClientID(w, r)
	if !ok {
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxResumeUpload)
	file, _, err := r.FormFile("resume")
	if err != nil {
		jsonError(w, "resume file is required", http.StatusBadRequest)
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		jsonError(w, "could not read resume file", http.StatusBadRequest)
		return
	}

	text, err := resume.ExtractText(data)
	if err != nil {
		h.log.Warn("resume extraction failed",
			zap.Int64("clientId", clientID), zap.Error(err))
		jsonError(w, "could not extract text from document", http.StatusBadRequest)
		return
	}

	if err := h.svc.SetResume(r.Context(), clientID, text); err != nil {
		h.writeError(w, "uploadResume", err)
		return
	}
	jsonOK(w, map[string]any{"client_id": clientID, "resume_chars": len(text)})
}

func (h *Handler) profilesToRun(w http.ResponseWriter, r *http.Request) {
	profiles, err := h.svc.ActiveProfiles(r.Context())
	if err != nil {
		h.writeError(w, "profilesToRun", err)
		return
	}
	jsonOK(w, profiles)
}

// ─── Helpers ─────────────────────────────────────────────────────────────────

func (h *Handler) pathClientID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil || id <= 0 {
		jsonError(w, "client id must be a positive integer", http.StatusBadRequest)
		return 0, false
	}
	return id, true
}

func (h *Handler) writeError(w http.ResponseWriter, op string, err error) {
	var ve *ValidationError
	switch {
	case errors.As(err, &ve):
		jsonError(w, ve.Msg, http.StatusBadRequest)
	case errors.Is(err, ErrNotFound):
		jsonError(w, err.Error(), http.StatusNotFound)
	default:
		h.log.Error("clients request failed", zap.String("op", op), zap.Error(err))
		jsonError(w, "database error", http.StatusInternalServerError)
	}
}

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
