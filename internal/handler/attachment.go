package handler

import (
	"net/http"
)

// CreateAttachment handles POST /attachments for the active trip.
// Multipart form: "file" (the upload) and "date" ("2006-01-02").
// The MIME type comes from the part's Content-Type header and must be on
// the allow-list; the request body as a whole is capped by the body-size
// middleware, so ParseMultipartForm's memory threshold here only controls
// spill-to-disk.
func (s *Server) CreateAttachment(w http.ResponseWriter, r *http.Request) {
	trip, userID, ok := s.resolveActiveTrip(w, r)
	if !ok {
		return
	}

	if err := r.ParseMultipartForm(4 << 20); err != nil {
		writeRequestError(w, "multipart form with file and date is required")
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		writeRequestError(w, "file is required")
		return
	}
	defer file.Close()

	date := r.FormValue("date")
	if date == "" {
		writeRequestError(w, "date is required")
		return
	}

	attachment, err := s.attachments.Create(r.Context(), userID, trip.ID,
		date, header.Filename, header.Header.Get("Content-Type"), file)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, attachment)
}
