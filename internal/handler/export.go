// Package handler — export.go implements GET /trips/{id}/export.
// Returns the printable trip book as a flat table: one row per item across
// the trip's full calendar range, empty rows for empty dates.
// Supports content negotiation via ?format=csv (CSV) or default (JSON).
package handler

import (
	"bytes"
	"encoding/csv"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/pkordes/tripbook/internal/domain"
	"github.com/pkordes/tripbook/internal/middleware"
)

// csvHeaders defines the column names written as the first row of any CSV export.
var csvHeaders = []string{
	"trip_id", "trip_name", "date", "city", "summary", "journal",
	"block", "item_type", "title", "description", "attachments",
}

// ExportTrip handles GET /trips/{id}/export.
// Use ?format=csv to receive CSV; default is JSON.
func (s *Server) ExportTrip(w http.ResponseWriter, r *http.Request) {
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

	rows, err := s.export.Export(r.Context(), userID, tripID)
	if err != nil {
		writeError(w, err)
		return
	}

	if r.URL.Query().Get("format") == "csv" {
		writeCSV(w, rows)
		return
	}
	writeJSON(w, http.StatusOK, rows)
}

// writeCSV encodes book rows as CSV. Attachment names within a row are
// pipe-separated ("|") to keep each row on a single CSV line.
func writeCSV(w http.ResponseWriter, rows []domain.BookRow) {
	var buf bytes.Buffer
	cw := csv.NewWriter(&buf)

	//nolint:errcheck — bytes.Buffer.Write never returns an error.
	cw.Write(csvHeaders)
	for _, r := range rows {
		//nolint:errcheck
		cw.Write([]string{
			r.TripID, r.TripName, r.Date, r.City, r.Summary, r.Journal,
			r.Block, r.ItemType, r.Title, r.Description,
			strings.Join(r.Attachments, "|"),
		})
	}
	cw.Flush()

	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	w.WriteHeader(http.StatusOK)
	_, _ = buf.WriteTo(w)
}
