// Package api exposes HTTP handlers for the extracurricular service.
package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"example.com/extracurricular/internal/domain"
)

// Handler coordinates HTTP requests with the domain service.
type Handler struct {
	service *domain.Service
}

// NewHandler builds a Handler.
func NewHandler(service *domain.Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes wires endpoints to the mux.
func (h *Handler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/activities", h.activities)
	mux.HandleFunc("/activities/", h.activityOps)
	mux.HandleFunc("/healthz", healthz)
	mux.HandleFunc("/", root)
}

// healthz reports a simple OK status for container health checks.
func healthz(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

// root redirects the index to the static frontend. Every unmatched path
// also lands here and is a 404.
func root(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		writeError(w, http.StatusNotFound, "not_found", "resource not found")
		return
	}
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", "unsupported method")
		return
	}
	http.Redirect(w, r, "/static/index.html", http.StatusTemporaryRedirect)
}

func (h *Handler) activities(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		h.listActivities(w, r)
	default:
		writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", "unsupported method")
	}
}

// activityOps dispatches the per-activity routes:
// POST /activities/{name}/signup and DELETE /activities/{name}/participants/{email}.
func (h *Handler) activityOps(w http.ResponseWriter, r *http.Request) {
	rest := strings.TrimPrefix(r.URL.Path, "/activities/")

	switch {
	case strings.HasSuffix(rest, "/signup"):
		if r.Method != http.MethodPost {
			writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", "unsupported method")
			return
		}
		h.signup(w, r, strings.TrimSuffix(rest, "/signup"))
	case strings.Contains(rest, "/participants/"):
		if r.Method != http.MethodDelete {
			writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", "unsupported method")
			return
		}
		parts := strings.SplitN(rest, "/participants/", 2)
		h.unregister(w, r, parts[0], parts[1])
	default:
		writeError(w, http.StatusNotFound, "not_found", "resource not found")
	}
}

func (h *Handler) listActivities(w http.ResponseWriter, r *http.Request) {
	activities, err := h.service.ListActivities(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "server_error", err.Error())
		return
	}
	writeJSON(w, http.StatusOK, activities)
}

func (h *Handler) signup(w http.ResponseWriter, r *http.Request, name string) {
	// The email is stored verbatim, whitespace included; only a missing or
	// blank parameter is rejected.
	email := r.URL.Query().Get("email")
	if strings.TrimSpace(email) == "" {
		writeError(w, http.StatusBadRequest, "validation_failed", "missing email parameter")
		return
	}

	if err := h.service.Signup(r.Context(), name, email); err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, MessageResponse{
		Message: fmt.Sprintf("Signed up %s for %s", email, name),
	})
}

func (h *Handler) unregister(w http.ResponseWriter, r *http.Request, name, email string) {
	if err := h.service.Unregister(r.Context(), name, email); err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, MessageResponse{
		Message: fmt.Sprintf("Unregistered %s from %s", email, name),
	})
}

// MessageResponse carries a human-readable confirmation.
type MessageResponse struct {
	Message string `json:"message"`
}

func writeDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrActivityNotFound):
		writeError(w, http.StatusNotFound, "not_found", "Activity not found")
	case errors.Is(err, domain.ErrDuplicateSignup):
		writeError(w, http.StatusBadRequest, "already_signed_up", "Student is already signed up")
	case errors.Is(err, domain.ErrActivityFull):
		writeError(w, http.StatusBadRequest, "activity_full", "Activity is full")
	case errors.Is(err, domain.ErrNotRegistered):
		writeError(w, http.StatusNotFound, "not_registered", "Student is not registered for this activity")
	default:
		writeError(w, http.StatusInternalServerError, "server_error", err.Error())
	}
}

func writeError(w http.ResponseWriter, status int, code, detail string) {
	writeJSON(w, status, map[string]string{"type": code, "detail": detail})
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}
