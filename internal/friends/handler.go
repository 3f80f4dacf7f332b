package friends

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/avishamehta/gatherly/backend/internal/models"
)

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// writeError maps workflow errors to HTTP statuses.
func writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, models.ErrNotFound):
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "not found"})
	case errors.Is(err, models.ErrForbidden):
		writeJSON(w, http.StatusForbidden, map[string]string{"error": err.Error()})
	case errors.Is(err, models.ErrConflict):
		writeJSON(w, http.StatusConflict, map[string]string{"error": err.Error()})
	case errors.Is(err, models.ErrSelfRequest),
		errors.Is(err, models.ErrAlreadyFriends),
		errors.Is(err, models.ErrDuplicateRequest),
		errors.Is(err, models.ErrNoSuchRequest),
		errors.Is(err, models.ErrNotFriends),
		errors.Is(err, models.ErrInvalidArgument):
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
	default:
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal error"})
	}
}

// Handler holds friend-workflow HTTP handlers.
type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

// Profile handles GET /api/users/{id}.
func (h *Handler) Profile(w http.ResponseWriter, r *http.Request) {
	profile, err := h.svc.Profile(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, profile)
}

// Search handles GET /api/users/search?q=.
func (h *Handler) Search(w http.ResponseWriter, r *http.Request) {
	callerID := r.Context().Value("account_id").(string)
	results, err := h.svc.Search(r.Context(), callerID, r.URL.Query().Get("q"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, results)
}

// SendRequest handles POST /api/users/{id}/friend-request.
func (h *Handler) SendRequest(w http.ResponseWriter, r *http.Request) {
	requesterID := r.Context().Value("account_id").(string)
	if err := h.svc.SendRequest(r.Context(), requesterID, chi.URLParam(r, "id")); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "friend request sent"})
}

// AcceptRequest handles POST /api/users/{id}/accept-friend. The path id is
// the requester whose pending request the caller accepts.
func (h *Handler) AcceptRequest(w http.ResponseWriter, r *http.Request) {
	accepterID := r.Context().Value("account_id").(string)
	if err := h.svc.AcceptRequest(r.Context(), accepterID, chi.URLParam(r, "id")); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "friend request accepted"})
}

// RejectRequest handles POST /api/users/{id}/reject-friend.
func (h *Handler) RejectRequest(w http.ResponseWriter, r *http.Request) {
	rejecterID := r.Context().Value("account_id").(string)
	if err := h.svc.RejectRequest(r.Context(), rejecterID, chi.URLParam(r, "id")); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "friend request rejected"})
}

// Unfriend handles DELETE /api/users/{id}/friend.
func (h *Handler) Unfriend(w http.ResponseWriter, r *http.Request) {
	accountID := r.Context().Value("account_id").(string)
	if err := h.svc.Unfriend(r.Context(), accountID, chi.URLParam(r, "id")); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "unfriended"})
}
