package httptransport

import (
	"context"
	"net/http"

	"github.com/google/uuid"

	"homeleads/internal/auth"
	"homeleads/internal/dashboard"
	"homeleads/internal/identity"
)

// AuthService is the interface the login handler needs.
type AuthService interface {
	Login(ctx context.Context, req auth.LoginRequest) (*auth.LoginResponse, error)
}

// ContactService is the interface the contact follow-up handlers need.
type ContactService interface {
	List(ctx context.Context) ([]identity.ContactView, error)
	Get(ctx context.Context, id uuid.UUID) (*identity.ContactView, error)
	Deactivate(ctx context.Context, id uuid.UUID) error
}

// DashboardService is the interface the dashboard handler needs.
type DashboardService interface {
	Summary(ctx context.Context, userID uuid.UUID) (dashboard.Summary, error)
}

func (h *Handler) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req auth.LoginRequest
	if !decodeBody(w, r, &req) {
		return
	}
	resp, err := h.auth.Login(r.Context(), req)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) handleListContacts(w http.ResponseWriter, r *http.Request) {
	contacts, err := h.contacts.List(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	if contacts == nil {
		contacts = []identity.ContactView{}
	}
	writeJSON(w, http.StatusOK, contacts)
}

func (h *Handler) handleGetContact(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}
	contact, err := h.contacts.Get(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, contact)
}

func (h *Handler) handleDeactivateContact(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}
	if err := h.contacts.Deactivate(r.Context(), id); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) handleDashboard(w http.ResponseWriter, r *http.Request) {
	userID, ok := authedUser(w, r)
	if !ok {
		return
	}
	summary, err := h.dashboard.Summary(r.Context(), userID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, summary)
}
