package handler

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/pkordes/tripbook/internal/domain"
	"github.com/pkordes/tripbook/internal/middleware"
	"github.com/pkordes/tripbook/internal/repo"
)

// resolveActiveTrip resolves the session's active trip for an endpoint keyed
// only by date. Writes the error response itself on failure — including the
// 409 no-active-trip condition, so date-keyed operations can never land on
// an arbitrary trip.
func (s *Server) resolveActiveTrip(w http.ResponseWriter, r *http.Request) (domain.Trip, uuid.UUID, bool) {
	userID, ok := middleware.UserID(r.Context())
	if !ok {
		writeError(w, domain.ErrForbidden)
		return domain.Trip{}, uuid.Nil, false
	}

	trip, _, err := s.active.Resolve(r.Context(), userID, activeTripPointer(r))
	if err != nil {
		writeError(w, err)
		return domain.Trip{}, uuid.Nil, false
	}
	return trip, userID, true
}

// upsertDayRequest is the body of POST /days. Pointer fields distinguish
// "leave unchanged" (absent) from "clear" (explicit empty string).
type upsertDayRequest struct {
	Date    string  `json:"date"`
	City    *string `json:"city,omitempty"`
	Summary *string `json:"summary,omitempty"`
	Journal *string `json:"journal,omitempty"`
}

// UpsertDay handles POST /days for the active trip.
func (s *Server) UpsertDay(w http.ResponseWriter, r *http.Request) {
	trip, userID, ok := s.resolveActiveTrip(w, r)
	if !ok {
		return
	}

	var req upsertDayRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeRequestError(w, "request body is required")
		return
	}

	day, err := s.days.Upsert(r.Context(), userID, trip.ID, req.Date, repo.DayFields{
		City:    req.City,
		Summary: req.Summary,
		Journal: req.Journal,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, day)
}

// ListDays handles GET /days?from=&to= for the active trip.
// The response is the dense projection of the range: one cell per calendar
// date, with the stored day (and its items) where one exists.
func (s *Server) ListDays(w http.ResponseWriter, r *http.Request) {
	trip, userID, ok := s.resolveActiveTrip(w, r)
	if !ok {
		return
	}

	from := r.URL.Query().Get("from")
	to := r.URL.Query().Get("to")
	if from == "" || to == "" {
		writeRequestError(w, "from and to query parameters are required")
		return
	}

	_, days, err := s.days.ListRange(r.Context(), userID, trip.ID, from, to)
	if err != nil {
		writeError(w, err)
		return
	}

	// Dates were validated by the service; parse again for projection.
	fromDate, _ := domain.ParseDate(from)
	toDate, _ := domain.ParseDate(to)

	// The projection is clamped to the trip's range. Days cannot exist
	// outside it, and an unbounded range would otherwise materialize one
	// cell per calendar date between the raw from and to.
	if fromDate.Before(trip.StartDate) {
		fromDate = trip.StartDate
	}
	if toDate.After(trip.EndDate) {
		toDate = trip.EndDate
	}

	writeJSON(w, http.StatusOK, struct {
		TripID uuid.UUID            `json:"trip_id"`
		Days   []domain.CalendarDay `json:"days"`
	}{trip.ID, domain.ProjectRange(fromDate, toDate, days)})
}

// calendarMonth is one month of GET /calendar: the bucket plus its
// Monday-first grid rows.
type calendarMonth struct {
	Year  int                    `json:"year"`
	Month int                    `json:"month"`
	Grid  [][]domain.CalendarDay `json:"grid"`
}

// GetCalendar handles GET /calendar for the active trip: the trip's full
// range projected into per-month grids. Optional year and month query
// parameters narrow the response to a single month.
func (s *Server) GetCalendar(w http.ResponseWriter, r *http.Request) {
	trip, userID, ok := s.resolveActiveTrip(w, r)
	if !ok {
		return
	}

	_, days, err := s.days.ListRange(r.Context(), userID, trip.ID,
		trip.StartDate.Format(domain.DateFormat), trip.EndDate.Format(domain.DateFormat))
	if err != nil {
		writeError(w, err)
		return
	}

	months := domain.GroupByMonth(domain.ProjectDays(trip, days))

	wantYear, _ := strconv.Atoi(r.URL.Query().Get("year"))
	wantMonth, _ := strconv.Atoi(r.URL.Query().Get("month"))

	out := []calendarMonth{}
	for _, m := range months {
		if wantYear != 0 && m.Year != wantYear {
			continue
		}
		if wantMonth != 0 && m.Month != time.Month(wantMonth) {
			continue
		}
		out = append(out, calendarMonth{Year: m.Year, Month: int(m.Month), Grid: domain.MonthGrid(m)})
	}
	writeJSON(w, http.StatusOK, out)
}
