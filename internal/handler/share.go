package handler

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/pkordes/tripbook/internal/domain"
	"github.com/pkordes/tripbook/internal/middleware"
	"github.com/pkordes/tripbook/internal/service"
)

// shareTripRequest is the body of POST /trips/{id}/shares.
// Role is optional and defaults to EDITOR.
type shareTripRequest struct {
	Email string `json:"email"`
	Role  string `json:"role,omitempty"`
}

// ShareTrip handles POST /trips/{id}/shares. Owner only; sharing with an
// already-shared user updates their role rather than adding a second grant.
func (s *Server) ShareTrip(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserID(r.Context())
	if !ok {
		writeError(w, domain.ErrForbidden)
		return
	}

	tripID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeRequestError(w, "invalid trip id")
		return
	}

	var req shareTripRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Email == "" {
		writeRequestError(w, "email is required")
		return
	}

	role := service.DefaultShareRole
	if req.Role != "" {
		if role, err = domain.ParseRole(req.Role); err != nil {
			writeError(w, err)
			return
		}
	}

	share, err := s.shares.Share(r.Context(), userID, tripID, req.Email, role)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, share)
}

// shareListResponse is the body of GET /trips/{id}/shares: the owner plus
// every current grant.
type shareListResponse struct {
	OwnerID uuid.UUID          `json:"owner_id"`
	Shares  []domain.TripShare `json:"shares"`
}

// ListShares handles GET /trips/{id}/shares. Requires read access.
func (s *Server) ListShares(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserID(r.Context())
	if !ok {
		writeError(w, domain.ErrForbidden)
		return
	}

	tripID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeRequestError(w, "invalid trip id")
		return
	}

	trip, shares, err := s.shares.List(r.Context(), userID, tripID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, shareListResponse{OwnerID: trip.OwnerID, Shares: shares})
}

// unshareTripRequest is the body of DELETE /trips/{id}/shares.
type unshareTripRequest struct {
	UserID uuid.UUID `json:"user_id"`
}

// UnshareTrip handles DELETE /trips/{id}/shares. Owner only.
func (s *Server) UnshareTrip(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserID(r.Context())
	if !ok {
		writeError(w, domain.ErrForbidden)
		return
	}

	tripID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeRequestError(w, "invalid trip id")
		return
	}

	var req unshareTripRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.UserID == uuid.Nil {
		writeRequestError(w, "user id is required")
		return
	}

	if err := s.shares.Unshare(r.Context(), userID, tripID, req.UserID); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
