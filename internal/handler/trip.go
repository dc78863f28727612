package handler

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/pkordes/tripbook/internal/domain"
	"github.com/pkordes/tripbook/internal/middleware"
)

// activeTripCookie is the session pointer to the caller's current trip.
// It is plain state — every use re-validates access against live share rows.
const activeTripCookie = "active_trip"

// saveTripRequest is the body of POST /trips.
// ID present means update; dates use the "2006-01-02" wire format.
type saveTripRequest struct {
	ID           *uuid.UUID `json:"id,omitempty"`
	Name         string     `json:"name"`
	StartDate    string     `json:"start_date"`
	EndDate      string     `json:"end_date"`
	Destinations string     `json:"destinations,omitempty"`
	Notes        string     `json:"notes,omitempty"`
}

// SaveTrip handles POST /trips: create, or update when id is given.
// On success the caller's active-trip pointer moves to the saved trip.
func (s *Server) SaveTrip(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserID(r.Context())
	if !ok {
		writeError(w, domain.ErrForbidden)
		return
	}

	var req saveTripRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeRequestError(w, "request body is required")
		return
	}

	start, err := domain.ParseDate(req.StartDate)
	if err != nil {
		writeError(w, err)
		return
	}
	end, err := domain.ParseDate(req.EndDate)
	if err != nil {
		writeError(w, err)
		return
	}

	trip := domain.Trip{
		Name:         req.Name,
		StartDate:    start,
		EndDate:      end,
		Destinations: req.Destinations,
		Notes:        req.Notes,
	}
	creating := req.ID == nil
	if !creating {
		trip.ID = *req.ID
	}

	saved, err := s.trips.Save(r.Context(), userID, trip)
	if err != nil {
		writeError(w, err)
		return
	}

	setActiveTripCookie(w, saved.ID)
	status := http.StatusOK
	if creating {
		status = http.StatusCreated
	}
	writeJSON(w, status, saved)
}

// GetTrip handles GET /trips/{id}. Read access required; the session
// pointer does not move.
func (s *Server) GetTrip(w http.ResponseWriter, r *http.Request) {
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

	trip, err := s.trips.Get(r.Context(), userID, tripID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, trip)
}

// GetActiveTrip handles GET /trips/active: the trip the session points at,
// or the most recent accessible one. 204 when the caller has no trip at all.
func (s *Server) GetActiveTrip(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserID(r.Context())
	if !ok {
		writeError(w, domain.ErrForbidden)
		return
	}

	trip, role, err := s.active.Resolve(r.Context(), userID, activeTripPointer(r))
	if err != nil {
		if err == domain.ErrNoActiveTrip {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, struct {
		domain.Trip
		Role domain.Role `json:"role"`
	}{trip, role})
}

// setActiveTripRequest is the body of POST /trips/active.
type setActiveTripRequest struct {
	ID uuid.UUID `json:"id"`
}

// SetActiveTrip handles POST /trips/active. Read access to the target trip
// is required; the endpoint only moves the session pointer.
func (s *Server) SetActiveTrip(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserID(r.Context())
	if !ok {
		writeError(w, domain.ErrForbidden)
		return
	}

	var req setActiveTripRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.ID == uuid.Nil {
		writeRequestError(w, "trip id is required")
		return
	}

	trip, err := s.active.Set(r.Context(), userID, req.ID)
	if err != nil {
		writeError(w, err)
		return
	}

	setActiveTripCookie(w, trip.ID)
	writeJSON(w, http.StatusOK, trip)
}

// DeleteTrip handles DELETE /trips/{id}. Owner only; the store cascades to
// shares, days, items, and attachments. A session pointer at the deleted
// trip is cleared.
func (s *Server) DeleteTrip(w http.ResponseWriter, r *http.Request) {
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

	if err := s.trips.Delete(r.Context(), userID, tripID); err != nil {
		writeError(w, err)
		return
	}

	if p := activeTripPointer(r); p != nil && *p == tripID {
		clearActiveTripCookie(w)
	}
	w.WriteHeader(http.StatusNoContent)
}

// --- active-trip cookie helpers ---------------------------------------------

// activeTripPointer reads the session's active-trip cookie.
// Returns nil when the cookie is absent or malformed.
func activeTripPointer(r *http.Request) *uuid.UUID {
	c, err := r.Cookie(activeTripCookie)
	if err != nil {
		return nil
	}
	id, err := uuid.Parse(c.Value)
	if err != nil {
		return nil
	}
	return &id
}

func setActiveTripCookie(w http.ResponseWriter, tripID uuid.UUID) {
	http.SetCookie(w, &http.Cookie{
		Name:     activeTripCookie,
		Value:    tripID.String(),
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

func clearActiveTripCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     activeTripCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}
