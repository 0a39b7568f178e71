package httptransport

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"homeleads/internal/leads"
	"homeleads/pkg/apperrors"
)

// LeadService is the interface the lead handlers need.
type LeadService interface {
	SubmitContact(ctx context.Context, req leads.ContactRequest) error
	SubmitOpenHouseSignIn(ctx context.Context, req leads.OpenHouseRequest) error
	SubmitEventSignIn(ctx context.Context, req leads.EventRequest) error
	ListMessages(ctx context.Context, unreadOnly bool) ([]leads.EventView, error)
	MarkMessageRead(ctx context.Context, id uuid.UUID) error
	ListOpenHouseSignIns(ctx context.Context) ([]leads.SignInGroup, error)
	ListEventSignIns(ctx context.Context) ([]leads.SignInGroup, error)
	DeactivateSignIn(ctx context.Context, id uuid.UUID) error
}

func (h *Handler) handleSubmitContact(w http.ResponseWriter, r *http.Request) {
	var req leads.ContactRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if err := h.leads.SubmitContact(r.Context(), req); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]bool{"success": true})
}

func (h *Handler) handleSubmitOpenHouse(w http.ResponseWriter, r *http.Request) {
	var req leads.OpenHouseRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if err := h.leads.SubmitOpenHouseSignIn(r.Context(), req); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]bool{"success": true})
}

func (h *Handler) handleSubmitEvent(w http.ResponseWriter, r *http.Request) {
	var req leads.EventRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if err := h.leads.SubmitEventSignIn(r.Context(), req); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]bool{"success": true})
}

func (h *Handler) handleListMessages(w http.ResponseWriter, r *http.Request) {
	unreadOnly := r.URL.Query().Get("unread") == "true"
	messages, err := h.leads.ListMessages(r.Context(), unreadOnly)
	if err != nil {
		writeError(w, err)
		return
	}
	if messages == nil {
		messages = []leads.EventView{}
	}
	writeJSON(w, http.StatusOK, messages)
}

func (h *Handler) handleMarkMessageRead(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}
	if err := h.leads.MarkMessageRead(r.Context(), id); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) handleListOpenHouse(w http.ResponseWriter, r *http.Request) {
	groups, err := h.leads.ListOpenHouseSignIns(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	if groups == nil {
		groups = []leads.SignInGroup{}
	}
	writeJSON(w, http.StatusOK, groups)
}

func (h *Handler) handleListEvents(w http.ResponseWriter, r *http.Request) {
	groups, err := h.leads.ListEventSignIns(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	if groups == nil {
		groups = []leads.SignInGroup{}
	}
	writeJSON(w, http.StatusOK, groups)
}

func (h *Handler) handleDeactivateSignIn(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}
	if err := h.leads.DeactivateSignIn(r.Context(), id); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func pathUUID(w http.ResponseWriter, r *http.Request, param string) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, param))
	if err != nil {
		writeError(w, apperrors.New(apperrors.CodeInvalidInput, "invalid id"))
		return uuid.Nil, false
	}
	return id, true
}
