package httptransport

import (
	"context"
	"net/http"

	"github.com/google/uuid"

	"homeleads/internal/deals"
	"homeleads/pkg/apperrors"
)

// DealService is the interface the deal handlers need.
type DealService interface {
	Create(ctx context.Context, userID uuid.UUID, req deals.CreateRequest) (*deals.Deal, error)
	Get(ctx context.Context, userID, dealID uuid.UUID) (*deals.Deal, error)
	List(ctx context.Context, userID uuid.UUID) ([]deals.Deal, error)
	Update(ctx context.Context, userID, dealID uuid.UUID, req deals.UpdateRequest) (*deals.Deal, error)
	UpdateStage(ctx context.Context, userID, dealID uuid.UUID, stage deals.Stage) (*deals.Deal, error)
	Delete(ctx context.Context, userID, dealID uuid.UUID) error
}

func (h *Handler) handleCreateDeal(w http.ResponseWriter, r *http.Request) {
	userID, ok := authedUser(w, r)
	if !ok {
		return
	}
	var req deals.CreateRequest
	if !decodeBody(w, r, &req) {
		return
	}
	deal, err := h.deals.Create(r.Context(), userID, req)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, deal)
}

func (h *Handler) handleListDeals(w http.ResponseWriter, r *http.Request) {
	userID, ok := authedUser(w, r)
	if !ok {
		return
	}
	list, err := h.deals.List(r.Context(), userID)
	if err != nil {
		writeError(w, err)
		return
	}
	if list == nil {
		list = []deals.Deal{}
	}
	writeJSON(w, http.StatusOK, list)
}

func (h *Handler) handleGetDeal(w http.ResponseWriter, r *http.Request) {
	userID, ok := authedUser(w, r)
	if !ok {
		return
	}
	dealID, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}
	deal, err := h.deals.Get(r.Context(), userID, dealID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, deal)
}

func (h *Handler) handleUpdateDeal(w http.ResponseWriter, r *http.Request) {
	userID, ok := authedUser(w, r)
	if !ok {
		return
	}
	dealID, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}
	var req deals.UpdateRequest
	if !decodeBody(w, r, &req) {
		return
	}
	deal, err := h.deals.Update(r.Context(), userID, dealID, req)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, deal)
}

func (h *Handler) handleUpdateDealStage(w http.ResponseWriter, r *http.Request) {
	userID, ok := authedUser(w, r)
	if !ok {
		return
	}
	dealID, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}
	var req struct {
		Stage deals.Stage `json:"stage"`
	}
	if !decodeBody(w, r, &req) {
		return
	}
	deal, err := h.deals.UpdateStage(r.Context(), userID, dealID, req.Stage)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, deal)
}

func (h *Handler) handleDeleteDeal(w http.ResponseWriter, r *http.Request) {
	userID, ok := authedUser(w, r)
	if !ok {
		return
	}
	dealID, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}
	if err := h.deals.Delete(r.Context(), userID, dealID); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// authedUser pulls the admin user id the auth middleware stored in context.
func authedUser(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	raw := middlewareUserID(r.Context())
	userID, err := uuid.Parse(raw)
	if err != nil {
		// Only reachable if RequireAuth is missing from the route chain.
		writeError(w, apperrors.New(apperrors.CodeInternal, "authentication context error"))
		return uuid.Nil, false
	}
	return userID, true
}
